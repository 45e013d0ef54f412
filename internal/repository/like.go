package repository

import (
	"context"

	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository stores likes on videos, tweets and comments.
type LikeRepository interface {
	// Toggle removes the caller's like when present and adds it otherwise. It reports the new state.
	Toggle(ctx context.Context, userID uint, target models.Ref) (bool, error)
	Count(ctx context.Context, target models.Ref) (int64, error)
	HasLiked(ctx context.Context, userID uint, target models.Ref) (bool, error)
	CountByTargets(ctx context.Context, kind models.TargetKind, ids []uint) (map[uint]int64, error)
	LikedTargets(ctx context.Context, userID uint, kind models.TargetKind, ids []uint) (map[uint]bool, error)
	DeleteByTargets(ctx context.Context, kind models.TargetKind, ids []uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Toggle(ctx context.Context, userID uint, target models.Ref) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Hard delete; a row existing is the whole like state.
		res := tx.Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, target.Kind, target.ID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}

		// The unique index turns a concurrent double insert into a no-op.
		like := models.Like{UserID: userID, TargetKind: target.Kind, TargetID: target.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	return liked, err
}

func (r *likeRepository) Count(ctx context.Context, target models.Ref) (int64, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
		Count(&count).Error
	return count, err
}

func (r *likeRepository) HasLiked(ctx context.Context, userID uint, target models.Ref) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, target.Kind, target.ID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) CountByTargets(ctx context.Context, kind models.TargetKind, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []targetCount
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Select("target_id, COUNT(*) AS count").
		Where("target_kind = ? AND target_id IN ?", kind, ids).
		Group("target_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.TargetID] = row.Count
	}
	return counts, nil
}

func (r *likeRepository) LikedTargets(ctx context.Context, userID uint, kind models.TargetKind, ids []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	if userID == 0 || len(ids) == 0 {
		return liked, nil
	}
	var hits []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id IN ?", userID, kind, ids).
		Pluck("target_id", &hits).Error; err != nil {
		return nil, err
	}
	for _, id := range hits {
		liked[id] = true
	}
	return liked, nil
}

func (r *likeRepository) DeleteByTargets(ctx context.Context, kind models.TargetKind, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("target_kind = ? AND target_id IN ?", kind, ids).
		Delete(&models.Like{}).Error
}

func (r *likeRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Like{}).Error
}
