package service

import (
	"context"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/cache"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"
)

type HistoryService struct {
	historyRepo repository.HistoryRepository
	videoRepo   repository.VideoRepository
	userRepo    repository.UserRepository
}

// HistoryItem is one watched video.
type HistoryItem struct {
	models.Video
	WatchedAt time.Time `json:"watchedAt"`
}

func NewHistoryService(
	historyRepo repository.HistoryRepository,
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
) *HistoryService {
	return &HistoryService{historyRepo: historyRepo, videoRepo: videoRepo, userRepo: userRepo}
}

// Record marks the video as watched now, counting a view for its owner's stats.
func (s *HistoryService) Record(ctx context.Context, userID, videoID uint) error {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if !video.IsPublished && video.OwnerID != userID {
		return models.NewNotFoundError("Video", videoID)
	}
	if err := s.historyRepo.Record(ctx, userID, videoID); err != nil {
		return err
	}
	cache.InvalidateVideo(ctx, videoID)
	return nil
}

// List returns the user's history, most recent first. Deleted videos drop out.
func (s *HistoryService) List(ctx context.Context, userID uint, limit, offset int) ([]HistoryItem, error) {
	limit, offset = clampPage(limit, offset)
	entries, err := s.historyRepo.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryItem, 0, len(entries))
	if len(entries) == 0 {
		return out, nil
	}

	ids := make([]uint, len(entries))
	for i, e := range entries {
		ids[i] = e.VideoID
	}
	videos, err := s.videoRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	owners := ownersOf(ctx, s.userRepo, ownerIDs(videos, func(v *models.Video) uint { return v.OwnerID }))

	for _, e := range entries {
		v, ok := byID[e.VideoID]
		if !ok {
			continue
		}
		v.Owner = ownerOrUnknown(owners, v.OwnerID)
		out = append(out, HistoryItem{Video: v, WatchedAt: e.WatchedAt})
	}
	return out, nil
}
