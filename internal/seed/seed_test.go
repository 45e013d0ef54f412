package seed

import (
	"testing"

	"github.com/RahulLalwani5726/Stream-X/internal/database"
	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

func TestSeeder_Run(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	s, err := NewSeeder(db, Options{SkipBcrypt: true, Seed: 42})
	if err != nil {
		t.Fatalf("new seeder: %v", err)
	}
	plan := Plan{Users: 5, VideosPerUser: 2, TweetsPerUser: 1, CommentsPerTop: 2, MaxReplyDepth: 3}
	rep, err := s.Run(plan)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := count(t, db, &models.User{}); got != 5 {
		t.Fatalf("expected 5 users, got %d", got)
	}
	if got := count(t, db, &models.Video{}); got != int64(rep.Videos) || got != 10 {
		t.Fatalf("expected 10 videos, got %d (report %d)", got, rep.Videos)
	}
	if got := count(t, db, &models.Tweet{}); got != 5 {
		t.Fatalf("expected 5 tweets, got %d", got)
	}
	if got := count(t, db, &models.Comment{}); got != int64(rep.Comments) {
		t.Fatalf("comment rows %d != reported %d", got, rep.Comments)
	}

	var topLevel int64
	if err := db.Model(&models.Comment{}).Where("target_kind <> ?", models.TargetComment).Count(&topLevel).Error; err != nil {
		t.Fatalf("count top-level: %v", err)
	}
	if topLevel != int64((10+5)*plan.CommentsPerTop) {
		t.Fatalf("expected %d top-level comments, got %d", (10+5)*plan.CommentsPerTop, topLevel)
	}
}

func TestSeeder_RepliesStayWithinDepth(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	s, err := NewSeeder(db, Options{SkipBcrypt: true, Seed: 7})
	if err != nil {
		t.Fatalf("new seeder: %v", err)
	}
	plan := Plan{Users: 4, VideosPerUser: 1, CommentsPerTop: 3, MaxReplyDepth: 2}
	if _, err := s.Run(plan); err != nil {
		t.Fatalf("run: %v", err)
	}

	var comments []models.Comment
	if err := db.Find(&comments).Error; err != nil {
		t.Fatalf("load comments: %v", err)
	}
	byID := make(map[uint]models.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}
	for _, c := range comments {
		depth := 1
		cur := c
		for cur.IsReply() {
			parent, ok := byID[cur.TargetID]
			if !ok {
				t.Fatalf("reply %d points at missing comment %d", cur.ID, cur.TargetID)
			}
			cur = parent
			depth++
		}
		if depth > plan.MaxReplyDepth {
			t.Fatalf("comment %d sits at depth %d, max %d", c.ID, depth, plan.MaxReplyDepth)
		}
	}
}

func TestSeeder_ClearAll(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	s, err := NewSeeder(db, Options{SkipBcrypt: true, Seed: 1})
	if err != nil {
		t.Fatalf("new seeder: %v", err)
	}
	if _, err := s.Run(Plan{Users: 3, VideosPerUser: 1, TweetsPerUser: 1, CommentsPerTop: 1, MaxReplyDepth: 2}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := s.ClearAll(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, m := range database.PersistentModels() {
		if got := count(t, db, m); got != 0 {
			t.Fatalf("%T still has %d rows", m, got)
		}
	}
}

func TestSeeder_RejectsTinyPlan(t *testing.T) {
	t.Parallel()
	s, err := NewSeeder(openTestDB(t), Options{SkipBcrypt: true})
	if err != nil {
		t.Fatalf("new seeder: %v", err)
	}
	if _, err := s.Run(Plan{Users: 1}); err == nil {
		t.Fatal("expected an error for a single-user plan")
	}
}
