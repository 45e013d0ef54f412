package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/config"
	"github.com/RahulLalwani5726/Stream-X/internal/database"
	"github.com/RahulLalwani5726/Stream-X/internal/media"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"
	"github.com/RahulLalwani5726/Stream-X/internal/thread"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret-that-is-long-enough-123456"

func assertAppCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, models.IsCode(err, code), "want %s, got %v", code, err)
}

// fakeMedia records uploads and deletions without touching storage.
type fakeMedia struct {
	mu        sync.Mutex
	next      int
	deleted   []string
	failImage error
	duration  float64
}

func (f *fakeMedia) UploadImage(_ context.Context, ownerID uint, kind media.ImageKind, content []byte, _ string) (string, error) {
	if f.failImage != nil {
		return "", f.failImage
	}
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return fmt.Sprintf("https://cdn.test/images/%s/%d/%d.webp", kind, ownerID, f.next), nil
}

func (f *fakeMedia) UploadVideo(_ context.Context, ownerID uint, src io.Reader, _, _ string) (*media.VideoAsset, error) {
	if _, err := io.Copy(io.Discard, src); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return &media.VideoAsset{URL: fmt.Sprintf("https://cdn.test/videos/%d/%d.mp4", ownerID, f.next), Duration: f.duration}, nil
}

func (f *fakeMedia) Delete(_ context.Context, urls ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range urls {
		if u != "" {
			f.deleted = append(f.deleted, u)
		}
	}
}

type testStack struct {
	db    *gorm.DB
	redis *redis.Client
	media *fakeMedia

	users     repository.UserRepository
	videos    repository.VideoRepository
	tweets    repository.TweetRepository
	comments  repository.CommentRepository
	likes     repository.LikeRepository
	subs      repository.SubscriptionRepository
	playlists repository.PlaylistRepository
	history   repository.HistoryRepository

	commentSvc  *CommentService
	likeSvc     *LikeService
	videoSvc    *VideoService
	tweetSvc    *TweetService
	userSvc     *UserService
	authSvc     *AuthService
	subSvc      *SubscriptionService
	playlistSvc *PlaylistService
	historySvc  *HistoryService
	searchSvc   *SearchService
}

type stackOptions struct {
	cascade bool
}

func newTestStack(t *testing.T, opts stackOptions) *testStack {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := &testStack{
		db:        db,
		redis:     rdb,
		media:     &fakeMedia{duration: 42},
		users:     repository.NewUserRepository(db),
		videos:    repository.NewVideoRepository(db),
		tweets:    repository.NewTweetRepository(db),
		comments:  repository.NewCommentRepository(db),
		likes:     repository.NewLikeRepository(db),
		subs:      repository.NewSubscriptionRepository(db),
		playlists: repository.NewPlaylistRepository(db),
		history:   repository.NewHistoryRepository(db),
	}

	engine := thread.NewEngine(s.comments, s.likes, s.users, thread.Options{})
	s.commentSvc = NewCommentService(s.comments, s.videos, s.tweets, engine, opts.cascade)
	s.likeSvc = NewLikeService(s.likes, s.videos, s.tweets, s.comments)
	s.videoSvc = NewVideoService(s.videos, s.users, s.likes, s.subs, s.commentSvc, s.media)
	s.tweetSvc = NewTweetService(s.tweets, s.users, s.commentSvc, s.media)
	s.userSvc = NewUserService(UserServiceDeps{
		Users:     s.users,
		Subs:      s.subs,
		History:   s.history,
		Playlists: s.playlists,
		Likes:     s.likes,
		Comments:  s.commentSvc,
		Videos:    s.videoSvc,
		Tweets:    s.tweetSvc,
		Media:     s.media,
	})
	s.authSvc = NewAuthService(s.users, rdb, &config.Config{
		JWTSecret:       testJWTSecret,
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "24h",
	})
	s.subSvc = NewSubscriptionService(s.subs, s.users)
	s.playlistSvc = NewPlaylistService(s.playlists, s.videos, s.users)
	s.historySvc = NewHistoryService(s.history, s.videos, s.users)
	s.searchSvc = NewSearchService(s.users, s.videos, s.tweets, s.playlists)
	return s
}

func (s *testStack) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: username + " Doe",
		Password: "hash",
		Avatar:   "https://cdn.test/images/avatar/" + username + ".webp",
	}
	require.NoError(t, s.db.Create(u).Error)
	return u
}

func (s *testStack) seedVideo(t *testing.T, owner uint, title string, published bool) *models.Video {
	t.Helper()
	v := &models.Video{
		OwnerID:      owner,
		Title:        title,
		SourceURL:    "https://cdn.test/videos/" + title + ".mp4",
		ThumbnailURL: "https://cdn.test/images/thumbnail/" + title + ".webp",
		IsPublished:  published,
	}
	require.NoError(t, s.videos.Create(context.Background(), v))
	return v
}

func (s *testStack) seedTweet(t *testing.T, owner uint, content string) *models.Tweet {
	t.Helper()
	tw := &models.Tweet{OwnerID: owner, Content: content}
	require.NoError(t, s.tweets.Create(context.Background(), tw))
	return tw
}

func (s *testStack) seedComment(t *testing.T, owner uint, target models.Ref, content string, at time.Time) *models.Comment {
	t.Helper()
	c := &models.Comment{Content: content, OwnerID: owner, TargetKind: target.Kind, TargetID: target.ID, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, s.db.Create(c).Error)
	return c
}

func (s *testStack) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
