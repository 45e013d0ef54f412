package repository

import (
	"context"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryRepository stores per-user watch history. One row per (user, video).
type HistoryRepository interface {
	// Record upserts the entry and moves it to the most recent position.
	Record(ctx context.Context, userID, videoID uint) error
	List(ctx context.Context, userID uint, limit, offset int) ([]models.WatchHistoryEntry, error)
	DeleteForUser(ctx context.Context, userID uint) error
}

type historyRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db, now: time.Now}
}

func (r *historyRepository) Record(ctx context.Context, userID, videoID uint) error {
	entry := models.WatchHistoryEntry{UserID: userID, VideoID: videoID, WatchedAt: r.now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
	}).Create(&entry).Error
}

func (r *historyRepository) List(ctx context.Context, userID uint, limit, offset int) ([]models.WatchHistoryEntry, error) {
	var entries []models.WatchHistoryEntry
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}

func (r *historyRepository) DeleteForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.WatchHistoryEntry{}).Error
}
