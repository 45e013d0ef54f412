package service

import (
	"context"
	"io"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/media"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/observability"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"
)

// MediaUploader is the part of media.Uploader the services use.
type MediaUploader interface {
	UploadImage(ctx context.Context, ownerID uint, kind media.ImageKind, content []byte, contentType string) (string, error)
	UploadVideo(ctx context.Context, ownerID uint, src io.Reader, filename, contentType string) (*media.VideoAsset, error)
	Delete(ctx context.Context, urls ...string)
}

type VideoService struct {
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
	likeRepo  repository.LikeRepository
	subRepo   repository.SubscriptionRepository
	comments  *CommentService
	media     MediaUploader
}

type UploadVideoInput struct {
	OwnerID       uint
	Title         string
	Description   string
	IsPublished   bool
	Video         io.Reader
	VideoName     string
	VideoType     string
	Thumbnail     []byte
	ThumbnailType string
}

type UpdateVideoInput struct {
	UserID        uint
	VideoID       uint
	Title         *string
	Description   *string
	IsPublished   *bool
	Thumbnail     []byte
	ThumbnailType string
}

func NewVideoService(
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
	likeRepo repository.LikeRepository,
	subRepo repository.SubscriptionRepository,
	comments *CommentService,
	uploader MediaUploader,
) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		userRepo:  userRepo,
		likeRepo:  likeRepo,
		subRepo:   subRepo,
		comments:  comments,
		media:     uploader,
	}
}

func (s *VideoService) Upload(ctx context.Context, in UploadVideoInput) (*models.Video, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > 255 {
		return nil, models.NewValidationError("Title too long (max 255 characters)")
	}
	if in.Video == nil {
		return nil, models.NewValidationError("Video file is required")
	}
	if len(in.Thumbnail) == 0 {
		return nil, models.NewValidationError("Thumbnail is required")
	}

	thumbURL, err := s.media.UploadImage(ctx, in.OwnerID, media.ImageThumbnail, in.Thumbnail, in.ThumbnailType)
	if err != nil {
		return nil, err
	}
	asset, err := s.media.UploadVideo(ctx, in.OwnerID, in.Video, in.VideoName, in.VideoType)
	if err != nil {
		s.media.Delete(ctx, thumbURL)
		return nil, err
	}

	video := &models.Video{
		OwnerID:      in.OwnerID,
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		SourceURL:    asset.URL,
		ThumbnailURL: thumbURL,
		Duration:     asset.Duration,
		IsPublished:  in.IsPublished,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		s.media.Delete(ctx, thumbURL, asset.URL)
		return nil, err
	}
	return video, nil
}

// Feed lists published videos, newest first.
func (s *VideoService) Feed(ctx context.Context, limit, offset int) ([]models.Video, error) {
	limit, offset = clampPage(limit, offset)
	videos, err := s.videoRepo.ListPublished(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	s.attachOwners(ctx, videos)
	return videos, nil
}

// ListByOwner lists a channel's videos; unpublished ones only for the owner.
func (s *VideoService) ListByOwner(ctx context.Context, ownerID, viewerID uint, limit, offset int) ([]models.Video, error) {
	limit, offset = clampPage(limit, offset)
	videos, err := s.videoRepo.ListByOwner(ctx, ownerID, ownerID == viewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	s.attachOwners(ctx, videos)
	return videos, nil
}

// Watch returns the watch page view of a video.
func (s *VideoService) Watch(ctx context.Context, videoID, viewerID uint) (*models.WatchView, error) {
	video, err := s.videoRepo.GetDetails(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, models.NewNotFoundError("Video", videoID)
	}

	view := &models.WatchView{Video: *video}
	view.Owner.OwnerSummary = *ownerOrUnknown(ownersOf(ctx, s.userRepo, []uint{video.OwnerID}), video.OwnerID)

	if n, err := s.subRepo.CountSubscribers(ctx, video.OwnerID); err == nil {
		view.Owner.SubscribersCount = n
	} else {
		observability.LogDegraded(ctx, "subscriptions", err, map[string]any{"video_id": videoID})
	}
	if viewerID != 0 {
		if ok, err := s.subRepo.IsSubscribed(ctx, viewerID, video.OwnerID); err == nil {
			view.Owner.IsSubscribed = ok
		}
		target := models.Ref{Kind: models.TargetVideo, ID: videoID}
		if ok, err := s.likeRepo.HasLiked(ctx, viewerID, target); err == nil {
			view.IsLiked = ok
		} else {
			observability.LogDegraded(ctx, "liked_set", err, map[string]any{"video_id": videoID})
		}
	}
	return view, nil
}

func (s *VideoService) Update(ctx context.Context, in UpdateVideoInput) (*models.Video, error) {
	video, err := s.owned(ctx, in.VideoID, in.UserID, "update")
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		video.Title = title
	}
	if in.Description != nil {
		video.Description = strings.TrimSpace(*in.Description)
	}
	if in.IsPublished != nil {
		video.IsPublished = *in.IsPublished
	}

	var oldThumb string
	if len(in.Thumbnail) > 0 {
		url, err := s.media.UploadImage(ctx, in.UserID, media.ImageThumbnail, in.Thumbnail, in.ThumbnailType)
		if err != nil {
			return nil, err
		}
		oldThumb, video.ThumbnailURL = video.ThumbnailURL, url
	}

	if err := s.videoRepo.Update(ctx, video); err != nil {
		if oldThumb != "" {
			s.media.Delete(ctx, video.ThumbnailURL)
		}
		return nil, err
	}
	if oldThumb != "" {
		s.media.Delete(ctx, oldThumb)
	}
	return video, nil
}

// Delete removes the video, its threads and its stored media.
func (s *VideoService) Delete(ctx context.Context, videoID, userID uint) error {
	video, err := s.owned(ctx, videoID, userID, "delete")
	if err != nil {
		return err
	}
	return s.remove(ctx, video)
}

func (s *VideoService) remove(ctx context.Context, video *models.Video) error {
	if err := s.comments.DeleteThreads(ctx, models.Ref{Kind: models.TargetVideo, ID: video.ID}); err != nil {
		return err
	}
	if err := s.videoRepo.Delete(ctx, video.ID); err != nil {
		return err
	}
	s.media.Delete(ctx, video.SourceURL, video.ThumbnailURL)
	return nil
}

// DeleteByOwner removes every video of ownerID.
func (s *VideoService) DeleteByOwner(ctx context.Context, ownerID uint) error {
	videos, err := s.videoRepo.ListByOwner(ctx, ownerID, true, -1, 0)
	if err != nil {
		return err
	}
	for i := range videos {
		if err := s.remove(ctx, &videos[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *VideoService) owned(ctx context.Context, videoID, userID uint, verb string) (*models.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != userID {
		return nil, models.NewAuthorizationError("You can only " + verb + " your own videos")
	}
	return video, nil
}

func (s *VideoService) attachOwners(ctx context.Context, videos []models.Video) {
	owners := ownersOf(ctx, s.userRepo, ownerIDs(videos, func(v *models.Video) uint { return v.OwnerID }))
	for i := range videos {
		videos[i].Owner = ownerOrUnknown(owners, videos[i].OwnerID)
	}
}
