package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/RahulLalwani5726/Stream-X/internal/media"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/observability"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"
)

const maxTweetLen = 1000

type TweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
	comments  *CommentService
	media     MediaUploader
}

type CreateTweetInput struct {
	OwnerID   uint
	Content   string
	Image     []byte
	ImageType string
}

type UpdateTweetInput struct {
	UserID  uint
	TweetID uint
	Content string
}

func NewTweetService(
	tweetRepo repository.TweetRepository,
	userRepo repository.UserRepository,
	comments *CommentService,
	uploader MediaUploader,
) *TweetService {
	return &TweetService{tweetRepo: tweetRepo, userRepo: userRepo, comments: comments, media: uploader}
}

func (s *TweetService) Create(ctx context.Context, in CreateTweetInput) (*models.Tweet, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && len(in.Image) == 0 {
		return nil, models.NewValidationError("Content or image is required")
	}
	if utf8.RuneCountInString(content) > maxTweetLen {
		return nil, models.NewValidationError("Tweet too long (max 1000 characters)")
	}

	tweet := &models.Tweet{OwnerID: in.OwnerID, Content: content}
	if len(in.Image) > 0 {
		url, err := s.media.UploadImage(ctx, in.OwnerID, media.ImageTweet, in.Image, in.ImageType)
		if err != nil {
			return nil, err
		}
		tweet.ImageURL = url
	}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		s.media.Delete(ctx, tweet.ImageURL)
		return nil, err
	}
	return tweet, nil
}

// List returns tweets ordered by popularity unless sort is "recent".
func (s *TweetService) List(ctx context.Context, viewerID uint, sort string, limit, offset int) ([]models.Tweet, error) {
	limit, offset = clampPage(limit, offset)
	if strings.ToLower(strings.TrimSpace(sort)) != repository.TweetSortRecent {
		sort = repository.TweetSortPopular
	} else {
		sort = repository.TweetSortRecent
	}
	tweets, err := s.tweetRepo.List(ctx, viewerID, sort, limit, offset)
	if err != nil {
		return nil, err
	}
	s.enrich(ctx, tweets)
	return tweets, nil
}

func (s *TweetService) ListByOwner(ctx context.Context, ownerID, viewerID uint, limit, offset int) ([]models.Tweet, error) {
	limit, offset = clampPage(limit, offset)
	tweets, err := s.tweetRepo.ListByOwner(ctx, ownerID, viewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	s.enrich(ctx, tweets)
	return tweets, nil
}

func (s *TweetService) Get(ctx context.Context, tweetID, viewerID uint) (*models.Tweet, error) {
	tweet, err := s.tweetRepo.GetDetails(ctx, tweetID, viewerID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewNotFoundMessage("Tweet Not Found")
		}
		return nil, err
	}
	one := []models.Tweet{*tweet}
	s.enrich(ctx, one)
	return &one[0], nil
}

func (s *TweetService) Update(ctx context.Context, in UpdateTweetInput) (*models.Tweet, error) {
	tweet, err := s.owned(ctx, in.TweetID, in.UserID, "update")
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxTweetLen {
		return nil, models.NewValidationError("Tweet too long (max 1000 characters)")
	}
	if err := s.tweetRepo.UpdateContent(ctx, tweet.ID, content); err != nil {
		return nil, err
	}
	tweet.Content = content
	return tweet, nil
}

func (s *TweetService) Delete(ctx context.Context, tweetID, userID uint) error {
	tweet, err := s.owned(ctx, tweetID, userID, "delete")
	if err != nil {
		return err
	}
	return s.remove(ctx, tweet)
}

// DeleteByOwner removes every tweet of ownerID.
func (s *TweetService) DeleteByOwner(ctx context.Context, ownerID uint) error {
	tweets, err := s.tweetRepo.ListByOwner(ctx, ownerID, 0, -1, 0)
	if err != nil {
		return err
	}
	for i := range tweets {
		if err := s.remove(ctx, &tweets[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *TweetService) remove(ctx context.Context, tweet *models.Tweet) error {
	if err := s.comments.DeleteThreads(ctx, models.Ref{Kind: models.TargetTweet, ID: tweet.ID}); err != nil {
		return err
	}
	if err := s.tweetRepo.Delete(ctx, tweet.ID); err != nil {
		return err
	}
	s.media.Delete(ctx, tweet.ImageURL)
	return nil
}

func (s *TweetService) owned(ctx context.Context, tweetID, userID uint, verb string) (*models.Tweet, error) {
	tweet, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewNotFoundMessage("Tweet Not Found")
		}
		return nil, err
	}
	if tweet.OwnerID != userID {
		return nil, models.NewAuthorizationError("You can only " + verb + " your own tweets")
	}
	return tweet, nil
}

// enrich attaches owners and comment counts. Both degrade to placeholders.
func (s *TweetService) enrich(ctx context.Context, tweets []models.Tweet) {
	if len(tweets) == 0 {
		return
	}
	owners := ownersOf(ctx, s.userRepo, ownerIDs(tweets, func(t *models.Tweet) uint { return t.OwnerID }))
	ids := make([]uint, len(tweets))
	for i := range tweets {
		ids[i] = tweets[i].ID
		tweets[i].Owner = ownerOrUnknown(owners, tweets[i].OwnerID)
	}

	counts, err := s.comments.CommentCounts(ctx, models.TargetTweet, ids)
	if err != nil {
		observability.LogDegraded(ctx, "comment_counts", err, map[string]any{"count": len(ids)})
		return
	}
	for i := range tweets {
		tweets[i].CommentCount = counts[tweets[i].ID]
	}
}
