package repository

import (
	"context"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"gorm.io/gorm"
)

// Tweet list orderings.
const (
	TweetSortPopular = "popular"
	TweetSortRecent  = "recent"
)

// TweetRepository defines the interface for tweet data operations
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uint) (*models.Tweet, error)
	GetDetails(ctx context.Context, id, viewerID uint) (*models.Tweet, error)
	List(ctx context.Context, viewerID uint, sort string, limit, offset int) ([]models.Tweet, error)
	ListByOwner(ctx context.Context, ownerID, viewerID uint, limit, offset int) ([]models.Tweet, error)
	Search(ctx context.Context, query string, viewerID uint, limit int) ([]models.Tweet, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	// Delete removes the tweet and the likes that target it.
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

func (r *tweetRepository) GetByID(ctx context.Context, id uint) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.db.WithContext(ctx).Select("tweets.*").First(&tweet, id).Error; err != nil {
		return nil, notFound(err, "Tweet", id)
	}
	return &tweet, nil
}

func (r *tweetRepository) GetDetails(ctx context.Context, id, viewerID uint) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.applyTweetDetails(readDB(r.db).WithContext(ctx), viewerID).
		Where("tweets.id = ?", id).
		Take(&tweet).Error; err != nil {
		return nil, notFound(err, "Tweet", id)
	}
	return &tweet, nil
}

// applyTweetDetails adds subqueries to fetch counts and liked status in a single query.
func (r *tweetRepository) applyTweetDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	// comment_count is filled by the service from the configured comment store.
	selectQuery := "tweets.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.target_kind = 'tweet' AND likes.target_id = tweets.id) AS likes_count"

	db = db.Model(&models.Tweet{})
	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.target_kind = 'tweet' AND likes.target_id = tweets.id AND likes.user_id = ?) AS is_liked", viewerID)
	}
	return db.Select(selectQuery + ", false AS is_liked")
}

// applySort appends the ORDER BY clause; likes_count is a SELECT alias from applyTweetDetails.
func (r *tweetRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case TweetSortRecent:
		return db.Order("tweets.created_at DESC, tweets.id DESC")
	default: // popular and anything unrecognized
		return db.Order("likes_count DESC, tweets.created_at DESC")
	}
}

func (r *tweetRepository) List(ctx context.Context, viewerID uint, sort string, limit, offset int) ([]models.Tweet, error) {
	var tweets []models.Tweet
	err := r.applySort(r.applyTweetDetails(readDB(r.db).WithContext(ctx), viewerID), sort).
		Limit(limit).
		Offset(offset).
		Find(&tweets).Error
	return tweets, err
}

func (r *tweetRepository) ListByOwner(ctx context.Context, ownerID, viewerID uint, limit, offset int) ([]models.Tweet, error) {
	var tweets []models.Tweet
	err := r.applyTweetDetails(readDB(r.db).WithContext(ctx), viewerID).
		Where("tweets.owner_id = ?", ownerID).
		Order("tweets.created_at DESC, tweets.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&tweets).Error
	return tweets, err
}

func (r *tweetRepository) Search(ctx context.Context, query string, viewerID uint, limit int) ([]models.Tweet, error) {
	var tweets []models.Tweet
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.applyTweetDetails(readDB(r.db).WithContext(ctx), viewerID).
		Where("LOWER(tweets.content) LIKE ?", pattern).
		Order("tweets.created_at DESC").
		Limit(limit).
		Find(&tweets).Error
	return tweets, err
}

func (r *tweetRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	res := r.db.WithContext(ctx).Model(&models.Tweet{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Tweet", id)
	}
	return nil
}

func (r *tweetRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetTweet, id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Tweet{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Tweet", id)
		}
		return nil
	})
}

func (r *tweetRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tweet{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
