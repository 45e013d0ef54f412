package repository

import (
	"context"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/cache"
	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"gorm.io/gorm"
)

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	// GetByID returns the bare row; views and likes stay zero.
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	// GetDetails returns the row with views and likes computed.
	GetDetails(ctx context.Context, id uint) (*models.Video, error)
	ListPublished(ctx context.Context, limit, offset int) ([]models.Video, error)
	ListByOwner(ctx context.Context, ownerID uint, includeUnpublished bool, limit, offset int) ([]models.Video, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Video, error)
	Search(ctx context.Context, query string, limit int) ([]models.Video, error)
	Update(ctx context.Context, video *models.Video) error
	// Delete removes the video with its likes, playlist memberships and history rows.
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepository) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return nil, notFound(err, "Video", id)
	}
	return &video, nil
}

func (r *videoRepository) GetDetails(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	err := cache.Aside(ctx, cache.VideoKey(id), &video, cache.VideoTTL, func() error {
		return notFound(applyVideoDetails(readDB(r.db).WithContext(ctx)).
			Where("videos.id = ?", id).
			Take(&video).Error, "Video", id)
	})
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// applyVideoDetails adds subqueries for view and like counts in a single query.
func applyVideoDetails(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Video{}).Select("videos.*, " +
		"(SELECT COUNT(*) FROM watch_history WHERE watch_history.video_id = videos.id) AS views, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.target_kind = 'video' AND likes.target_id = videos.id) AS likes")
}

func (r *videoRepository) ListPublished(ctx context.Context, limit, offset int) ([]models.Video, error) {
	var videos []models.Video
	err := applyVideoDetails(readDB(r.db).WithContext(ctx)).
		Where("videos.is_published = ?", true).
		Order("videos.created_at DESC, videos.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) ListByOwner(ctx context.Context, ownerID uint, includeUnpublished bool, limit, offset int) ([]models.Video, error) {
	var videos []models.Video
	q := applyVideoDetails(readDB(r.db).WithContext(ctx)).Where("videos.owner_id = ?", ownerID)
	if !includeUnpublished {
		q = q.Where("videos.is_published = ?", true)
	}
	err := q.Order("videos.created_at DESC, videos.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var videos []models.Video
	err := applyVideoDetails(readDB(r.db).WithContext(ctx)).
		Where("videos.id IN ?", ids).
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) Search(ctx context.Context, query string, limit int) ([]models.Video, error) {
	var videos []models.Video
	pattern := "%" + strings.ToLower(query) + "%"
	err := applyVideoDetails(readDB(r.db).WithContext(ctx)).
		Where("videos.is_published = ?", true).
		Where("LOWER(videos.title) LIKE ? OR LOWER(videos.description) LIKE ?", pattern, pattern).
		Order("videos.created_at DESC").
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) Update(ctx context.Context, video *models.Video) error {
	err := r.db.WithContext(ctx).
		Model(&models.Video{ID: video.ID}).
		Select("title", "description", "thumbnail_url", "is_published", "duration", "source_url").
		Updates(video).Error
	if err != nil {
		return err
	}
	cache.InvalidateVideo(ctx, video.ID)
	return nil
}

func (r *videoRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetVideo, id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.WatchHistoryEntry{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Video{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Video", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateVideo(ctx, id)
	return nil
}

func (r *videoRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
