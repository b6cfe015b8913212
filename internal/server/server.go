// Package server contains the HTTP handlers and route table for the yatube API.
package server

import (
	"context"
	"log/slog"
	"time"

	"yatube/internal/auth"
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	loginPath       = "/auth/login/"
	pageCachePrefix = "yatube:"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	images         storage.Store
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.Tokens
	revocations    *auth.Revocations
	authenticator  *middleware.Authenticator
	userRepo       repository.UserRepository
	groupRepo      repository.GroupRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	followRepo     repository.FollowRepository
	postService    *service.PostService
	feedService    *service.FeedService
	followService  *service.FollowService
	commentService *service.CommentService
	userService    *service.UserService
	groupService   *service.GroupService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; rate limits then fail open, the index cache keeps
// entries in memory and logout cannot revoke tokens. A nil image store falls
// back to the one described by cfg.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, images storage.Store) (*Server, error) {
	if images == nil {
		var err error
		images, err = storage.New(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		images:         images,
		promMiddleware: middleware.InitMetrics("yatube-api"),
		tokens:         auth.NewTokens(cfg.JWTSecret, auth.DefaultTTL),
		revocations:    auth.NewRevocations(redisClient),
		userRepo:       repository.NewUserRepository(db),
		groupRepo:      repository.NewGroupRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		followRepo:     repository.NewFollowRepository(db),
	}
	s.authenticator = middleware.NewAuthenticator(s.tokens, s.revocations, loginPath)

	s.postService = service.NewPostService(s.postRepo, s.groupRepo, s.userRepo, s.commentRepo, s.images,
		service.PostServiceOptions{
			PageSize:      cfg.PostsPerPage,
			MaxImageBytes: s.maxImageBytes(),
		})
	s.feedService = service.NewFeedService(s.postRepo, cfg.PostsPerPage)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.userService = service.NewUserService(s.userRepo)
	s.groupService = service.NewGroupService(s.groupRepo)

	return s, nil
}

func (s *Server) maxImageBytes() int64 {
	return int64(s.config.ImageMaxUploadSizeMB) << 20
}

// App builds the Fiber application with the full middleware chain and routes.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:   "yatube",
		BodyLimit: int(s.maxImageBytes()) + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, e.Code, e)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	// Identity must be known before the request log line and the rate limiters.
	app.Use(s.authenticator.Identify())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
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
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	if !s.config.IsProduction() {
		app.Get("/metrics/dashboard", monitor.New(monitor.Config{
			Title: "yatube metrics",
		}))
	}

	if local, ok := s.images.(*storage.LocalStore); ok {
		app.Static(s.config.MediaURLPrefix, local.Dir())
	}

	required := s.authenticator.Required()

	app.Get("/", s.indexCache(), s.Index)
	app.Get("/group/:slug/", s.GroupPosts)
	app.Get("/profile/:username/", s.Profile)
	app.Get("/posts/:id/", s.PostDetail)

	app.Get("/create/", required, s.CreatePostForm)
	app.Post("/create/", required, middleware.RateLimit(
		s.redis, 30, time.Minute, "create_post"), s.CreatePost)
	app.Get("/posts/:id/edit/", required, s.EditPostForm)
	app.Post("/posts/:id/edit/", required, s.EditPost)
	app.Post("/posts/:id/comment/", required, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.AddComment)

	app.Get("/follow/", required, s.FollowIndex)
	app.Get("/profile/:username/follow/", required, s.ProfileFollow)
	app.Get("/profile/:username/unfollow/", required, s.ProfileUnfollow)

	authRoutes := app.Group("/auth")
	authRoutes.Get("/login/", s.LoginPrompt)
	authRoutes.Post("/login/", middleware.RateLimit(
		s.redis, 10, 15*time.Minute, "login"), s.Login)
	authRoutes.Post("/signup/", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	authRoutes.Post("/logout/", s.Logout)
}

func (s *Server) indexCache() fiber.Handler {
	cfg := cache.PageCacheConfig{
		TTL:            s.config.IndexCacheTTL(),
		IdentityCookie: middleware.AccessTokenCookie,
	}
	if s.redis != nil {
		cfg.Storage = cache.NewStorage(s.redis, pageCachePrefix)
	}
	return cache.PageCache(cfg)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis is optional: an
// absent client is reported but does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
