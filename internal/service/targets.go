// Package service holds the business rules between HTTP handlers and repositories.
package service

import (
	"context"

	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/observability"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"
)

// targetResolver checks that the parent of a comment or like exists.
type targetResolver struct {
	videos   repository.VideoRepository
	tweets   repository.TweetRepository
	comments repository.CommentRepository
}

func (r targetResolver) ensureExists(ctx context.Context, ref models.Ref) error {
	var (
		ok       bool
		err      error
		resource string
	)
	switch ref.Kind {
	case models.TargetVideo:
		resource = "Video"
		ok, err = r.videos.Exists(ctx, ref.ID)
	case models.TargetTweet:
		resource = "Tweet"
		ok, err = r.tweets.Exists(ctx, ref.ID)
	case models.TargetComment:
		_, err = r.comments.GetByID(ctx, ref.ID)
		return err
	default:
		return models.NewValidationError("Invalid target")
	}
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError(resource, ref.ID)
	}
	return nil
}

func ownerIDs[T any](items []T, owner func(*T) uint) []uint {
	ids := make([]uint, 0, len(items))
	for i := range items {
		ids = append(ids, owner(&items[i]))
	}
	return ids
}

// ownersOf resolves owner summaries, falling back to the unknown placeholder per item.
func ownersOf(ctx context.Context, users repository.UserRepository, ids []uint) map[uint]models.OwnerSummary {
	if len(ids) == 0 {
		return map[uint]models.OwnerSummary{}
	}
	out, err := users.Summaries(ctx, ids)
	if err != nil {
		observability.LogDegraded(ctx, "identity", err, map[string]any{"count": len(ids)})
		return map[uint]models.OwnerSummary{}
	}
	return out
}

func ownerOrUnknown(m map[uint]models.OwnerSummary, id uint) *models.OwnerSummary {
	if s, ok := m[id]; ok {
		return &s
	}
	s := models.UnknownOwner(id)
	return &s
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
