// Package server contains the HTTP handlers for the Stream-X API.
package server

import (
	"context"
	"log/slog"
	"time"

	_ "github.com/RahulLalwani5726/Stream-X/docs" // swagger docs
	"github.com/RahulLalwani5726/Stream-X/internal/bootstrap"
	"github.com/RahulLalwani5726/Stream-X/internal/config"
	"github.com/RahulLalwani5726/Stream-X/internal/docstore"
	"github.com/RahulLalwani5726/Stream-X/internal/media"
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"
	"github.com/RahulLalwani5726/Stream-X/internal/service"
	"github.com/RahulLalwani5726/Stream-X/internal/thread"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const appName = "Stream-X API"

// Deps are the already-connected collaborators a Server is built from.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client
	// Docs moves comments and comment likes to MongoDB when set.
	Docs  *docstore.Storage
	Media service.MediaUploader
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	docs           *docstore.Storage
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	auth           *middleware.Authenticator

	commentService      *service.CommentService
	likeService         *service.LikeService
	videoService        *service.VideoService
	tweetService        *service.TweetService
	userService         *service.UserService
	authService         *service.AuthService
	subscriptionService *service.SubscriptionService
	playlistService     *service.PlaylistService
	historyService      *service.HistoryService
	searchService       *service.SearchService
}

// NewServer creates a server on top of an initialized runtime.
func NewServer(cfg *config.Config, rt *bootstrap.Runtime) (*Server, error) {
	uploader := media.NewUploader(rt.Media, rt.Prober, media.UploaderConfig{
		ImageMaxBytes: int64(cfg.ImageMaxUploadSizeMB) << 20,
		VideoMaxBytes: int64(cfg.VideoMaxUploadSizeMB) << 20,
		TempDir:       cfg.MediaUploadTempDir,
	})
	return NewServerWithDeps(cfg, Deps{DB: rt.DB, Redis: rt.Redis, Docs: rt.Docs, Media: uploader})
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the connections.
func NewServerWithDeps(cfg *config.Config, deps Deps) (*Server, error) {
	userRepo := repository.NewUserRepository(deps.DB)
	videoRepo := repository.NewVideoRepository(deps.DB)
	tweetRepo := repository.NewTweetRepository(deps.DB)
	subRepo := repository.NewSubscriptionRepository(deps.DB)
	playlistRepo := repository.NewPlaylistRepository(deps.DB)
	historyRepo := repository.NewHistoryRepository(deps.DB)

	var (
		commentRepo = repository.NewCommentRepository(deps.DB)
		likeRepo    = repository.NewLikeRepository(deps.DB)
	)
	if deps.Docs != nil {
		commentRepo = deps.Docs.Comments()
		likeRepo = repository.NewRoutedLikeRepository(likeRepo, map[models.TargetKind]repository.LikeRepository{
			models.TargetComment: deps.Docs.Likes(),
		})
	}

	engine := thread.NewEngine(commentRepo, likeRepo, userRepo, thread.Options{
		MaxDepth:     cfg.ThreadMaxDepth,
		Timeout:      cfg.ThreadTimeoutDuration(),
		DefaultOrder: thread.Order(cfg.ThreadDefaultSort),
	})

	s := &Server{
		config:         cfg,
		db:             deps.DB,
		redis:          deps.Redis,
		docs:           deps.Docs,
		promMiddleware: middleware.InitMetrics("streamx-api"),
		auth:           middleware.NewAuthenticator(cfg, deps.Redis),
	}
	s.commentService = service.NewCommentService(commentRepo, videoRepo, tweetRepo, engine, cfg.CommentCascadeDelete)
	s.likeService = service.NewLikeService(likeRepo, videoRepo, tweetRepo, commentRepo)
	s.videoService = service.NewVideoService(videoRepo, userRepo, likeRepo, subRepo, s.commentService, deps.Media)
	s.tweetService = service.NewTweetService(tweetRepo, userRepo, s.commentService, deps.Media)
	s.userService = service.NewUserService(service.UserServiceDeps{
		Users:     userRepo,
		Subs:      subRepo,
		History:   historyRepo,
		Playlists: playlistRepo,
		Likes:     likeRepo,
		Comments:  s.commentService,
		Videos:    s.videoService,
		Tweets:    s.tweetService,
		Media:     deps.Media,
	})
	s.authService = service.NewAuthService(userRepo, deps.Redis, cfg)
	s.subscriptionService = service.NewSubscriptionService(subRepo, userRepo)
	s.playlistService = service.NewPlaylistService(playlistRepo, videoRepo, userRepo)
	s.historyService = service.NewHistoryService(historyRepo, videoRepo, userRepo)
	s.searchService = service.NewSearchService(userRepo, videoRepo, tweetRepo, playlistRepo)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Propagates request and user ids into the request context for logging.
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.Respond(c, fiber.StatusTooManyRequests, "Too many requests, please try again later.", nil)
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Get("/api/swagger/*", swagger.HandlerDefault)

	v1 := app.Group("/api/v1")
	required := s.auth.Required()
	optional := s.auth.Optional()

	users := v1.Group("/users")
	users.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	users.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	users.Post("/refresh-token", s.RefreshToken)
	users.Post("/logout", required, s.Logout)
	users.Post("/change-password", required, s.ChangePassword)
	users.Get("/current-user", required, s.CurrentUser)
	users.Patch("/update-account", required, s.UpdateAccount)
	users.Delete("/delete", required, s.DeleteAccount)
	users.Patch("/avatar", required, s.UpdateAvatar)
	users.Patch("/cover-image", required, s.UpdateCoverImage)
	users.Get("/channel/:username", optional, s.ChannelProfile)
	users.Get("/history", required, s.WatchHistory)
	users.Get("/update-watch-history/:videoId", required, s.RecordWatch)
	users.Post("/subscribe/:username", required, s.ToggleSubscription)
	users.Get("/subscribers/count", required, s.SubscriberCount)
	users.Get("/subscribers/list", required, s.SubscriberList)
	users.Get("/subscription/list", required, s.SubscriptionList)

	videos := v1.Group("/Videos")
	videos.Get("/", s.VideoFeed)
	videos.Post("/upload", required, middleware.RateLimit(s.redis, 10, time.Hour, "upload_video"), s.UploadVideo)
	videos.Get("/get-user-video-list", required, s.MyVideos)
	videos.Get("/get-channel-videos/:id", optional, s.ChannelVideos)
	videos.Get("/watch/:videoId", optional, s.WatchVideo)
	videos.Patch("/updatefields/:videoId", required, s.UpdateVideo)
	videos.Delete("/delete/:videoId", required, s.DeleteVideo)
	s.mountThreadRoutes(videos, required, optional)

	tweets := v1.Group("/tweets")
	tweets.Get("/", optional, s.ListTweets)
	tweets.Post("/create", required, middleware.RateLimit(s.redis, 30, time.Hour, "create_tweet"), s.CreateTweet)
	tweets.Get("/get-user-tweet-list", required, s.MyTweets)
	tweets.Get("/get-channel-tweets/:id", optional, s.ChannelTweets)
	tweets.Patch("/update/:tweetId", required, s.UpdateTweet)
	tweets.Delete("/delete/:tweetId", required, s.DeleteTweet)
	s.mountThreadRoutes(tweets, required, optional)
	// Generic /:tweetId route must be last
	tweets.Get("/:tweetId", optional, s.GetTweet)

	playlists := v1.Group("/playlist")
	playlists.Get("/", optional, s.ListPlaylists)
	playlists.Get("/user/:userId", optional, s.UserPlaylists)
	playlists.Get("/view/:playlistId", optional, s.ViewPlaylist)
	playlists.Post("/create", required, s.CreatePlaylist)
	playlists.Patch("/add/:playlistId/:videoId", required, s.AddToPlaylist)
	playlists.Patch("/remove/:playlistId/:videoId", required, s.RemoveFromPlaylist)
	playlists.Patch("/edit/:playlistId", required, s.EditPlaylist)
	playlists.Delete("/delete/:playlistId", required, s.DeletePlaylist)

	v1.Get("/search", optional, middleware.RateLimit(s.redis, 30, time.Minute, "search"), s.Search)
}

// mountThreadRoutes registers the comment and like endpoints shared by videos and tweets.
func (s *Server) mountThreadRoutes(r fiber.Router, required, optional fiber.Handler) {
	comments := r.Group("/comment")
	comments.Get("/:entityId", optional, s.GetThread)
	comments.Post("/create/:entityId", required,
		middleware.RateLimit(s.redis, 20, time.Minute, "create_comment"), s.CreateComment)
	comments.Patch("/edit/:commentId", required, s.EditComment)
	comments.Delete("/delete/:commentId", required, s.DeleteComment)
	comments.Post("/Likes/:id", required, s.ToggleCommentLike)
	r.Post("/Likes/:id", required, s.ToggleLike)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports the database, Redis and, when configured, the document store.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := fiber.Map{}
	healthy := true
	mark := func(name string, err error) {
		if err != nil {
			checks[name] = "unhealthy"
			healthy = false
			middleware.Logger.WarnContext(ctx, "readiness check failed",
				slog.String("dependency", name), slog.String("error", err.Error()))
			return
		}
		checks[name] = "healthy"
	}

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	mark("database", err)

	if s.redis != nil {
		mark("redis", s.redis.Ping(ctx).Err())
	} else {
		checks["redis"] = "unavailable"
		healthy = false
	}

	if s.docs != nil {
		mark("mongo", s.docs.Ping(ctx))
	}

	status := fiber.StatusOK
	overall := "healthy"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}
	return c.Status(status).JSON(fiber.Map{
		"message": appName,
		"status":  overall,
		"checks":  checks,
		"time":    time.Now(),
	})
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:   appName,
		BodyLimit: s.bodyLimit(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.Respond(c, fe.Code, fe.Message, nil)
			}
			return s.fail(c, err)
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// bodyLimit admits the largest configured upload plus multipart overhead.
func (s *Server) bodyLimit() int {
	mb := s.config.VideoMaxUploadSizeMB
	if mb <= 0 {
		mb = media.DefaultVideoMaxBytes >> 20
	}
	return (mb + 16) << 20
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown stops accepting requests and waits for in-flight ones.
// Connections are owned by the runtime and closed there.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}
