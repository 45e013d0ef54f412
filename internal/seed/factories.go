// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "Str3am-X!demo"

// Options tunes how entities are built.
type Options struct {
	// SkipBcrypt stores a cheap hash so large seeds stay fast.
	SkipBcrypt bool
	// MaxDays spreads CreatedAt over the last N days.
	MaxDays int
	// Seed makes runs reproducible when non-zero.
	Seed int64
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	fake *gofakeit.Faker
	rng  *rand.Rand
	hash string
	seq  int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}

	cost := bcrypt.DefaultCost
	if opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, err
	}
	//nolint:gosec // weak randomness is fine for demo data
	return &Factory{db: db, opts: opts, fake: gofakeit.New(seed), rng: rand.New(rand.NewSource(seed)), hash: string(hash)}, nil
}

func (f *Factory) createdAt() time.Time {
	back := time.Duration(f.rng.Intn(f.opts.MaxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

// CreateUser persists a sample account. Overrides run before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	f.seq++
	username := fmt.Sprintf("%s%d", f.fake.Username(), f.seq)
	user := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		FullName:   f.fake.Name(),
		Password:   f.hash,
		Avatar:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.fake.UUID()),
		CoverImage: fmt.Sprintf("https://picsum.photos/seed/%s/1600/400", f.fake.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateVideo persists a video owned by owner. Roughly one in ten stays a draft.
func (f *Factory) CreateVideo(owner *models.User, overrides ...func(*models.Video)) (*models.Video, error) {
	video := &models.Video{
		OwnerID:      owner.ID,
		Title:        f.fake.Sentence(4),
		Description:  f.fake.Paragraph(1, 3, 8, "\n"),
		SourceURL:    fmt.Sprintf("https://cdn.example.com/videos/%d/%s.mp4", owner.ID, f.fake.UUID()),
		ThumbnailURL: fmt.Sprintf("https://picsum.photos/seed/%s/1280/720", f.fake.UUID()),
		Duration:     float64(30 + f.rng.Intn(1200)),
		IsPublished:  f.rng.Intn(10) != 0,
		CreatedAt:    f.createdAt(),
	}
	for _, override := range overrides {
		override(video)
	}
	if err := f.db.Create(video).Error; err != nil {
		return nil, err
	}
	return video, nil
}

// CreateTweet persists a short post, some with an image.
func (f *Factory) CreateTweet(owner *models.User) (*models.Tweet, error) {
	tweet := &models.Tweet{
		OwnerID:   owner.ID,
		Content:   f.fake.Sentence(12),
		CreatedAt: f.createdAt(),
	}
	if f.rng.Intn(3) == 0 {
		tweet.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.fake.UUID())
	}
	if err := f.db.Create(tweet).Error; err != nil {
		return nil, err
	}
	return tweet, nil
}

// CreateComment persists a comment on target.
func (f *Factory) CreateComment(owner *models.User, target models.Ref) (*models.Comment, error) {
	comment := &models.Comment{
		Content:    f.fake.Sentence(f.rng.Intn(15) + 3),
		OwnerID:    owner.ID,
		TargetKind: target.Kind,
		TargetID:   target.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Like records a like, ignoring duplicates.
func (f *Factory) Like(user *models.User, target models.Ref) error {
	like := &models.Like{UserID: user.ID, TargetKind: target.Kind, TargetID: target.ID}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

// Subscribe links subscriber to channel, ignoring duplicates.
func (f *Factory) Subscribe(subscriber, channel *models.User) error {
	sub := &models.Subscription{SubscriberID: subscriber.ID, ChannelID: channel.ID}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(sub).Error
}

// CreatePlaylist persists a playlist holding videos in order.
func (f *Factory) CreatePlaylist(owner *models.User, videos []*models.Video) (*models.Playlist, error) {
	playlist := &models.Playlist{
		OwnerID:     owner.ID,
		Name:        f.fake.HipsterWord() + " mix",
		Description: f.fake.Sentence(6),
		IsPrivate:   f.rng.Intn(4) == 0,
	}
	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(playlist).Error; err != nil {
			return err
		}
		for i, v := range videos {
			entry := &models.PlaylistVideo{PlaylistID: playlist.ID, VideoID: v.ID, Position: i + 1}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return playlist, nil
}
