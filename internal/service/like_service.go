package service

import (
	"context"
	"strconv"

	"github.com/RahulLalwani5726/Stream-X/internal/cache"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/observability"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"
)

type LikeService struct {
	likeRepo repository.LikeRepository
	targets  targetResolver
}

type ToggleLikeInput struct {
	UserID   uint
	TargetID uint
	Kind     string
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	videoRepo repository.VideoRepository,
	tweetRepo repository.TweetRepository,
	commentRepo repository.CommentRepository,
) *LikeService {
	return &LikeService{
		likeRepo: likeRepo,
		targets:  targetResolver{videos: videoRepo, tweets: tweetRepo, comments: commentRepo},
	}
}

// Toggle flips the caller's like on the target and returns the new state.
func (s *LikeService) Toggle(ctx context.Context, in ToggleLikeInput) (*models.LikeState, error) {
	if in.UserID == 0 {
		return nil, models.NewAuthenticationError("User Must be Logged In")
	}
	kind, ok := models.ParseTargetKind(in.Kind)
	if !ok {
		return nil, models.NewValidationError("Invalid type. Must be 'video', 'comment', or 'tweet'")
	}
	if in.TargetID == 0 {
		return nil, models.NewValidationError("Invalid ID")
	}

	target := models.Ref{Kind: kind, ID: in.TargetID}
	if err := s.targets.ensureExists(ctx, target); err != nil {
		return nil, err
	}

	liked, err := s.likeRepo.Toggle(ctx, in.UserID, target)
	if err != nil {
		return nil, err
	}
	observability.LikeToggles.WithLabelValues(string(kind), strconv.FormatBool(liked)).Inc()
	if kind == models.TargetVideo {
		cache.InvalidateVideo(ctx, target.ID)
	}
	return &models.LikeState{IsLiked: liked}, nil
}

func (s *LikeService) Count(ctx context.Context, target models.Ref) (int64, error) {
	return s.likeRepo.Count(ctx, target)
}

func (s *LikeService) HasLiked(ctx context.Context, userID uint, target models.Ref) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.likeRepo.HasLiked(ctx, userID, target)
}
