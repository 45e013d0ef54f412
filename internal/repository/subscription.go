package repository

import (
	"context"

	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository stores channel subscriptions.
type SubscriptionRepository interface {
	// Toggle subscribes when absent and unsubscribes when present, reporting the new state.
	Toggle(ctx context.Context, subscriberID, channelID uint) (bool, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error)
	CountSubscribers(ctx context.Context, channelID uint) (int64, error)
	CountSubscriptions(ctx context.Context, subscriberID uint) (int64, error)
	SubscriberIDs(ctx context.Context, channelID uint) ([]uint, error)
	ChannelIDs(ctx context.Context, subscriberID uint) ([]uint, error)
	SubscriberCounts(ctx context.Context, channelIDs []uint) (map[uint]int64, error)
	SubscribedSet(ctx context.Context, subscriberID uint, channelIDs []uint) (map[uint]bool, error)
	DeleteForUser(ctx context.Context, userID uint) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	var subscribed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).Delete(&models.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			subscribed = false
			return nil
		}
		sub := models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub).Error; err != nil {
			return err
		}
		subscribed = true
		return nil
	})
	return subscribed, err
}

func (r *subscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	if subscriberID == 0 {
		return false, nil
	}
	var count int64
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID uint) (int64, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).Model(&models.Subscription{}).Where("channel_id = ?", channelID).Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) CountSubscriptions(ctx context.Context, subscriberID uint) (int64, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).Model(&models.Subscription{}).Where("subscriber_id = ?", subscriberID).Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) SubscriberIDs(ctx context.Context, channelID uint) ([]uint, error) {
	var ids []uint
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Order("created_at DESC").
		Pluck("subscriber_id", &ids).Error
	return ids, err
}

func (r *subscriptionRepository) ChannelIDs(ctx context.Context, subscriberID uint) ([]uint, error) {
	var ids []uint
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Order("created_at DESC").
		Pluck("channel_id", &ids).Error
	return ids, err
}

func (r *subscriptionRepository) SubscriberCounts(ctx context.Context, channelIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(channelIDs))
	if len(channelIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ChannelID uint
		Count     int64
	}
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Subscription{}).
		Select("channel_id, COUNT(*) AS count").
		Where("channel_id IN ?", channelIDs).
		Group("channel_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ChannelID] = row.Count
	}
	return counts, nil
}

func (r *subscriptionRepository) SubscribedSet(ctx context.Context, subscriberID uint, channelIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if subscriberID == 0 || len(channelIDs) == 0 {
		return set, nil
	}
	var ids []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ? AND channel_id IN ?", subscriberID, channelIDs).
		Pluck("channel_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *subscriptionRepository) DeleteForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("subscriber_id = ? OR channel_id = ?", userID, userID).
		Delete(&models.Subscription{}).Error
}
