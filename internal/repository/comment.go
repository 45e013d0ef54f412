// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string) (*models.Comment, error)
	// ListTopLevel returns comments targeting entityID under any of kinds, newest first.
	ListTopLevel(ctx context.Context, entityID uint, kinds []models.TargetKind) ([]models.Comment, error)
	// ListReplies returns direct replies to any of parentIDs, oldest first.
	ListReplies(ctx context.Context, parentIDs []uint) ([]models.Comment, error)
	// CollectDescendants walks every reply level below rootIDs and returns roots plus descendants.
	CollectDescendants(ctx context.Context, rootIDs []uint) ([]uint, error)
	CountByTargets(ctx context.Context, kind models.TargetKind, ids []uint) (map[uint]int64, error)
	TopLevelIDs(ctx context.Context, target models.Ref) ([]uint, error)
	IDsByOwner(ctx context.Context, ownerID uint) ([]uint, error)
	// DeleteByIDs removes the comments and every like that targets them in one transaction.
	DeleteByIDs(ctx context.Context, ids []uint) error
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return err
	}
	r.log.LogCreate(ctx, map[string]any{"id": comment.ID, "target": comment.Target().String()})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, notFound(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string) (*models.Comment, error) {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Comment", id)
	}
	return r.GetByID(ctx, id)
}

func (r *commentRepository) ListTopLevel(ctx context.Context, entityID uint, kinds []models.TargetKind) ([]models.Comment, error) {
	var comments []models.Comment
	err := readDB(r.db).WithContext(ctx).
		Where("target_kind IN ? AND target_id = ?", kinds, entityID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListReplies(ctx context.Context, parentIDs []uint) ([]models.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	err := readDB(r.db).WithContext(ctx).
		Where("target_kind = ? AND target_id IN ?", models.TargetComment, parentIDs).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CollectDescendants(ctx context.Context, rootIDs []uint) ([]uint, error) {
	all := uniqueIDs(rootIDs)
	seen := make(map[uint]struct{}, len(all))
	for _, id := range all {
		seen[id] = struct{}{}
	}

	frontier := all
	for len(frontier) > 0 {
		var next []uint
		if err := r.db.WithContext(ctx).
			Model(&models.Comment{}).
			Where("target_kind = ? AND target_id IN ?", models.TargetComment, frontier).
			Pluck("id", &next).Error; err != nil {
			return nil, err
		}
		frontier = frontier[:0:0]
		for _, id := range next {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			all = append(all, id)
			frontier = append(frontier, id)
		}
	}
	return all, nil
}

func (r *commentRepository) CountByTargets(ctx context.Context, kind models.TargetKind, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []targetCount
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Comment{}).
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

func (r *commentRepository) TopLevelIDs(ctx context.Context, target models.Ref) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) IDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("owner_id = ?", ownerID).Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_kind = ? AND target_id IN ?", models.TargetComment, ids).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return err
	}
	r.log.LogDelete(ctx, map[string]any{"count": len(ids)})
	return nil
}
