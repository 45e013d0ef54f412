package seed

import (
	"fmt"
	"log/slog"

	"github.com/RahulLalwani5726/Stream-X/internal/database"
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"gorm.io/gorm"
)

// Plan sizes a seeding run.
type Plan struct {
	Users          int
	VideosPerUser  int
	TweetsPerUser  int
	CommentsPerTop int // top-level comments per video or tweet
	MaxReplyDepth  int // 1 means no replies
	Clean          bool
}

// DefaultPlan is a small but fully connected dataset.
var DefaultPlan = Plan{
	Users:          20,
	VideosPerUser:  3,
	TweetsPerUser:  4,
	CommentsPerTop: 4,
	MaxReplyDepth:  4,
	Clean:          true,
}

// Report counts what a run created.
type Report struct {
	Users         int
	Videos        int
	Tweets        int
	Comments      int
	Likes         int
	Subscriptions int
	Playlists     int
}

// Seeder fills the relational store with demo content.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder.
func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	f, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}
	return &Seeder{db: db, factory: f}, nil
}

// ClearAll deletes every row of every schema-managed table, children first.
func (s *Seeder) ClearAll() error {
	all := database.PersistentModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", all[i], err)
		}
	}
	middleware.Logger.Info("seed: cleared existing data")
	return nil
}

// Run executes plan and reports what was created.
func (s *Seeder) Run(plan Plan) (*Report, error) {
	if plan.Users < 2 {
		return nil, fmt.Errorf("seed plan needs at least 2 users, got %d", plan.Users)
	}
	if plan.Clean {
		if err := s.ClearAll(); err != nil {
			return nil, err
		}
	}

	rep := &Report{}
	users := make([]*models.User, 0, plan.Users)
	for i := 0; i < plan.Users; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return rep, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	rep.Users = len(users)

	if err := s.seedSubscriptions(users, rep); err != nil {
		return rep, err
	}

	var published []*models.Video
	for _, owner := range users {
		var own []*models.Video
		for i := 0; i < plan.VideosPerUser; i++ {
			v, err := s.factory.CreateVideo(owner)
			if err != nil {
				return rep, fmt.Errorf("create video: %w", err)
			}
			rep.Videos++
			own = append(own, v)
			if v.IsPublished {
				published = append(published, v)
			}
			if err := s.seedThread(users, models.Ref{Kind: models.TargetVideo, ID: v.ID}, plan, rep); err != nil {
				return rep, err
			}
		}
		if len(own) > 0 {
			if _, err := s.factory.CreatePlaylist(owner, own); err != nil {
				return rep, fmt.Errorf("create playlist: %w", err)
			}
			rep.Playlists++
		}

		for i := 0; i < plan.TweetsPerUser; i++ {
			t, err := s.factory.CreateTweet(owner)
			if err != nil {
				return rep, fmt.Errorf("create tweet: %w", err)
			}
			rep.Tweets++
			if err := s.seedThread(users, models.Ref{Kind: models.TargetTweet, ID: t.ID}, plan, rep); err != nil {
				return rep, err
			}
		}
	}

	for _, v := range published {
		if err := s.seedLikes(users, models.Ref{Kind: models.TargetVideo, ID: v.ID}, rep); err != nil {
			return rep, err
		}
	}

	middleware.Logger.Info("seed: done",
		slog.Int("users", rep.Users),
		slog.Int("videos", rep.Videos),
		slog.Int("tweets", rep.Tweets),
		slog.Int("comments", rep.Comments),
		slog.Int("likes", rep.Likes),
	)
	return rep, nil
}

// seedSubscriptions gives every user a handful of channels.
func (s *Seeder) seedSubscriptions(users []*models.User, rep *Report) error {
	for i, u := range users {
		for j := 1; j <= 3 && j < len(users); j++ {
			channel := users[(i+j*s.factory.rng.Intn(len(users)-1)+j)%len(users)]
			if channel.ID == u.ID {
				continue
			}
			if err := s.factory.Subscribe(u, channel); err != nil {
				return fmt.Errorf("subscribe: %w", err)
			}
			rep.Subscriptions++
		}
	}
	return nil
}

// seedThread writes plan.CommentsPerTop comments on root and a random reply tree under each.
func (s *Seeder) seedThread(users []*models.User, root models.Ref, plan Plan, rep *Report) error {
	for i := 0; i < plan.CommentsPerTop; i++ {
		if err := s.seedComment(users, root, 1, plan, rep); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedComment(users []*models.User, target models.Ref, depth int, plan Plan, rep *Report) error {
	author := users[s.factory.rng.Intn(len(users))]
	c, err := s.factory.CreateComment(author, target)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	rep.Comments++

	if err := s.seedLikes(users, models.Ref{Kind: models.TargetComment, ID: c.ID}, rep); err != nil {
		return err
	}
	if depth >= plan.MaxReplyDepth {
		return nil
	}
	replies := s.factory.rng.Intn(3)
	for i := 0; i < replies; i++ {
		if err := s.seedComment(users, models.Ref{Kind: models.TargetComment, ID: c.ID}, depth+1, plan, rep); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedLikes(users []*models.User, target models.Ref, rep *Report) error {
	n := s.factory.rng.Intn(len(users)/2 + 1)
	start := s.factory.rng.Intn(len(users))
	for i := 0; i < n; i++ {
		if err := s.factory.Like(users[(start+i)%len(users)], target); err != nil {
			return fmt.Errorf("like %s %d: %w", target.Kind, target.ID, err)
		}
		rep.Likes++
	}
	return nil
}
