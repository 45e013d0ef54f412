package repository

import (
	"context"
	"errors"

	"github.com/RahulLalwani5726/Stream-X/internal/models"
)

// routedLikes sends each target kind to the store that owns it.
type routedLikes struct {
	byKind   map[models.TargetKind]LikeRepository
	fallback LikeRepository
}

// NewRoutedLikeRepository stores likes of the kinds in byKind in their own repository and every
// other kind in fallback. It lets comment likes live next to comments in the document store.
func NewRoutedLikeRepository(fallback LikeRepository, byKind map[models.TargetKind]LikeRepository) LikeRepository {
	if len(byKind) == 0 {
		return fallback
	}
	return &routedLikes{byKind: byKind, fallback: fallback}
}

func (r *routedLikes) pick(kind models.TargetKind) LikeRepository {
	if repo, ok := r.byKind[kind]; ok {
		return repo
	}
	return r.fallback
}

func (r *routedLikes) Toggle(ctx context.Context, userID uint, target models.Ref) (bool, error) {
	return r.pick(target.Kind).Toggle(ctx, userID, target)
}

func (r *routedLikes) Count(ctx context.Context, target models.Ref) (int64, error) {
	return r.pick(target.Kind).Count(ctx, target)
}

func (r *routedLikes) HasLiked(ctx context.Context, userID uint, target models.Ref) (bool, error) {
	return r.pick(target.Kind).HasLiked(ctx, userID, target)
}

func (r *routedLikes) CountByTargets(ctx context.Context, kind models.TargetKind, ids []uint) (map[uint]int64, error) {
	return r.pick(kind).CountByTargets(ctx, kind, ids)
}

func (r *routedLikes) LikedTargets(ctx context.Context, userID uint, kind models.TargetKind, ids []uint) (map[uint]bool, error) {
	return r.pick(kind).LikedTargets(ctx, userID, kind, ids)
}

func (r *routedLikes) DeleteByTargets(ctx context.Context, kind models.TargetKind, ids []uint) error {
	return r.pick(kind).DeleteByTargets(ctx, kind, ids)
}

func (r *routedLikes) DeleteByUser(ctx context.Context, userID uint) error {
	errs := []error{r.fallback.DeleteByUser(ctx, userID)}
	for _, repo := range r.byKind {
		if repo != r.fallback {
			errs = append(errs, repo.DeleteByUser(ctx, userID))
		}
	}
	return errors.Join(errs...)
}
