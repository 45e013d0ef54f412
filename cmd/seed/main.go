// Command seed fills the database with demo channels, videos, tweets and comment threads.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/RahulLalwani5726/Stream-X/internal/config"
	"github.com/RahulLalwani5726/Stream-X/internal/database"
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
	"github.com/RahulLalwani5726/Stream-X/internal/seed"
)

func main() {
	plan := seed.DefaultPlan
	flag.IntVar(&plan.Users, "users", plan.Users, "Number of users to create")
	flag.IntVar(&plan.VideosPerUser, "videos", plan.VideosPerUser, "Videos per user")
	flag.IntVar(&plan.TweetsPerUser, "tweets", plan.TweetsPerUser, "Tweets per user")
	flag.IntVar(&plan.CommentsPerTop, "comments", plan.CommentsPerTop, "Top-level comments per video or tweet")
	flag.IntVar(&plan.MaxReplyDepth, "depth", plan.MaxReplyDepth, "Maximum reply depth")
	flag.BoolVar(&plan.Clean, "clean", plan.Clean, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Use the cheapest bcrypt cost")
	rngSeed := flag.Int64("seed", 0, "Random seed (0 = time based)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fatal("failed to load configuration", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		fatal("failed to connect to database", err)
	}

	s, err := seed.NewSeeder(db, seed.Options{SkipBcrypt: *fast, Seed: *rngSeed})
	if err != nil {
		fatal("failed to create seeder", err)
	}
	if _, err := s.Run(plan); err != nil {
		fatal("seeding failed", err)
	}
	middleware.Logger.Info("seeded accounts share one password", slog.String("password", seed.DemoPassword))
}

func fatal(msg string, err error) {
	middleware.Logger.Error(msg, slog.String("error", err.Error()))
	os.Exit(1)
}
