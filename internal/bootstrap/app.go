package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"applycraft-backend/internal/applications"
	googleauth "applycraft-backend/internal/auth"
	"applycraft-backend/internal/dashboard"
	"applycraft-backend/internal/importer"
	"applycraft-backend/internal/keepalive"
	"applycraft-backend/internal/llm"
	openai "applycraft-backend/internal/llm/openai"
	"applycraft-backend/internal/notes"
	"applycraft-backend/internal/outreach"
	"applycraft-backend/internal/profiles"
	"applycraft-backend/internal/scheduler"
	sharedauth "applycraft-backend/internal/shared/auth"
	"applycraft-backend/internal/shared/config"
	"applycraft-backend/internal/shared/server"
	"applycraft-backend/internal/shared/server/middleware"
	"applycraft-backend/internal/shared/storage/db"
	"applycraft-backend/internal/shared/telemetry"
	"applycraft-backend/internal/testimonials"
	"applycraft-backend/internal/users"
)

const (
	importFetchTimeout = 15 * time.Second
	keepalivePingLimit = 5 * time.Second
)

// App holds shared dependencies and the wired router.
type App struct {
	Config              config.Config
	Router              *gin.Engine
	DB                  *sql.DB
	Redis               *redis.Client
	Scheduler           *scheduler.Scheduler
	UsersService        *users.Service
	ApplicationsService *applications.Service
	ProfilesService     *profiles.Service
	Generator           *outreach.Generator
}

// Build prepares dependencies and routes. Without DATABASE_URL in dev-like
// environments every repository is in memory.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	redisClient, err := buildRedis(cfg)
	if err != nil {
		return nil, err
	}
	issuer, err := sharedauth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL, cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, Redis: redisClient}

	var (
		userRepo        users.Repo
		applicationRepo applications.Repo
		profileRepo     profiles.Repo
		noteRepo        notes.Repo
		testimonialRepo testimonials.Repo
	)
	if sqlDB != nil {
		userRepo = &users.PGRepo{DB: sqlDB}
		applicationRepo = &applications.PGRepo{DB: sqlDB}
		profileRepo = &profiles.PGRepo{DB: sqlDB}
		noteRepo = &notes.PGRepo{DB: sqlDB}
		testimonialRepo = &testimonials.PGRepo{DB: sqlDB}
	} else {
		userRepo = users.NewMemoryRepo()
		applicationRepo = applications.NewMemoryRepo()
		profileRepo = profiles.NewMemoryRepo()
		noteRepo = notes.NewMemoryRepo()
		testimonialRepo = testimonials.NewMemoryRepo()
	}

	userSvc := users.NewService(userRepo, issuer)
	applicationSvc := applications.NewService(applicationRepo, importer.NewFetcher(importFetchTimeout))
	profileSvc := profiles.NewService(profileRepo)
	generator := outreach.NewGenerator(applicationSvc, llmClient, cfg.ProviderTimeout)

	app.UsersService = userSvc
	app.ApplicationsService = applicationSvc
	app.ProfilesService = profileSvc
	app.Generator = generator

	var limiter middleware.Limiter = middleware.NewRateLimiter(nil)
	if redisClient != nil {
		limiter = middleware.NewRedisLimiter(redisClient, "applycraft:ratelimit")
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		Tokens:             issuer,
		Sessions:           userSvc,
		Limiter:            limiter,
		UserHandler:        users.NewHandler(userSvc),
		GoogleAuth:         googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL, userSvc),
		ApplicationHandler: applications.NewHandler(applicationSvc),
		NoteHandler:        notes.NewHandler(notes.NewService(noteRepo, applicationSvc)),
		ProfileHandler:     profiles.NewHandler(profileSvc),
		OutreachHandler:    outreach.NewHandler(generator, profileSvc, cfg.IsProduction()),
		DashboardHandler:   dashboard.NewHandler(dashboard.NewService(applicationSvc)),
		TestimonialHandler: testimonials.NewHandler(testimonials.NewService(testimonialRepo, profileSvc)),
		KeepaliveHandler:   keepalive.NewHandler(cfg.KeepaliveToken, app.Ping),
	})

	keepaliveSpec := cfg.KeepaliveSchedule
	if sqlDB == nil {
		keepaliveSpec = ""
	}
	app.Scheduler = scheduler.New(
		scheduler.Job{
			Name: "purge_sessions",
			Spec: cfg.SessionPurgeCron,
			Run: func(ctx context.Context) error {
				_, err := userSvc.PurgeExpiredSessions(ctx)
				return err
			},
		},
		scheduler.Job{
			Name: "keepalive",
			Spec: keepaliveSpec,
			Run: func(ctx context.Context) error {
				_, err := app.Ping(ctx)
				return err
			},
		},
	)

	return app, nil
}

// Ping checks the database. Without one there is nothing to keep alive.
func (a *App) Ping(ctx context.Context) (time.Duration, error) {
	if a.DB == nil {
		return 0, nil
	}
	return db.Ping(ctx, a.DB, keepalivePingLimit)
}

// Close releases pooled connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "err": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildRedis(cfg config.Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func buildLLM(cfg config.Config) (llm.PromptClient, error) {
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("LLM_API_KEY is required in production")
		}
		telemetry.Warn("bootstrap.llm_disabled", map[string]any{"reason": "LLM_API_KEY empty"})
		return llm.DisabledClient{}, nil
	}
	client, err := openai.NewPromptClient(openai.Options{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
