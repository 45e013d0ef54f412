package service

import (
	"context"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/cache"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"
)

type SubscriptionService struct {
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
}

func NewSubscriptionService(subRepo repository.SubscriptionRepository, userRepo repository.UserRepository) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo, userRepo: userRepo}
}

// Toggle subscribes userID to the channel named username, or unsubscribes.
func (s *SubscriptionService) Toggle(ctx context.Context, userID uint, username string) (bool, error) {
	channel, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return false, err
	}
	if channel == nil {
		return false, models.NewNotFoundMessage("Channel Not Found")
	}
	if channel.ID == userID {
		return false, models.NewValidationError("You cannot subscribe to your own channel")
	}

	subscribed, err := s.subRepo.Toggle(ctx, userID, channel.ID)
	if err != nil {
		return false, err
	}
	keys := []string{cache.ChannelKey(channel.Username)}
	if me, err := s.userRepo.GetByID(ctx, userID); err == nil {
		keys = append(keys, cache.ChannelKey(me.Username))
	}
	cache.Invalidate(ctx, keys...)
	return subscribed, nil
}

func (s *SubscriptionService) CountSubscribers(ctx context.Context, userID uint) (int64, error) {
	return s.subRepo.CountSubscribers(ctx, userID)
}

// Subscribers lists the users subscribed to userID.
func (s *SubscriptionService) Subscribers(ctx context.Context, userID uint) ([]models.SubscriberEntry, error) {
	ids, err := s.subRepo.SubscriberIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.entries(ctx, userID, ids)
}

// Subscriptions lists the channels userID is subscribed to.
func (s *SubscriptionService) Subscriptions(ctx context.Context, userID uint) ([]models.SubscriberEntry, error) {
	ids, err := s.subRepo.ChannelIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.entries(ctx, userID, ids)
}

func (s *SubscriptionService) entries(ctx context.Context, viewerID uint, ids []uint) ([]models.SubscriberEntry, error) {
	out := make([]models.SubscriberEntry, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	summaries, err := s.userRepo.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.subRepo.SubscriberCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.subRepo.SubscribedSet(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out = append(out, models.SubscriberEntry{
			OwnerSummary:     *ownerOrUnknown(summaries, id),
			SubscribersCount: counts[id],
			IsSubscribed:     subscribed[id],
		})
	}
	return out, nil
}
