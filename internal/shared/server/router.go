package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"applycraft-backend/internal/applications"
	googleauth "applycraft-backend/internal/auth"
	"applycraft-backend/internal/dashboard"
	"applycraft-backend/internal/keepalive"
	"applycraft-backend/internal/notes"
	"applycraft-backend/internal/outreach"
	"applycraft-backend/internal/profiles"
	"applycraft-backend/internal/shared/config"
	"applycraft-backend/internal/shared/metrics"
	"applycraft-backend/internal/shared/server/middleware"
	"applycraft-backend/internal/shared/server/respond"
	"applycraft-backend/internal/testimonials"
	"applycraft-backend/internal/users"
)

// outreachGroup names the rate limit rule for draft generation.
const outreachGroup = "OUTREACH"

// RouterDeps carries the handlers the router mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config             config.Config
	Tokens             middleware.TokenVerifier
	Sessions           middleware.SessionChecker
	Limiter            middleware.Limiter
	UserHandler        *users.Handler
	GoogleAuth         *googleauth.GoogleService
	ApplicationHandler *applications.Handler
	NoteHandler        *notes.Handler
	ProfileHandler     *profiles.Handler
	OutreachHandler    *outreach.Handler
	DashboardHandler   *dashboard.Handler
	TestimonialHandler *testimonials.Handler
	KeepaliveHandler   *keepalive.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())
	if deps.KeepaliveHandler != nil {
		deps.KeepaliveHandler.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterPublicRoutes(api)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.TestimonialHandler != nil {
		deps.TestimonialHandler.RegisterPublicRoutes(api)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(deps.Tokens, deps.Sessions))
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(authed)
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterRoutes(authed)
	}
	if deps.NoteHandler != nil {
		deps.NoteHandler.RegisterRoutes(authed)
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(authed)
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.RegisterRoutes(authed)
	}
	if deps.TestimonialHandler != nil {
		deps.TestimonialHandler.RegisterRoutes(authed)
	}
	if deps.OutreachHandler != nil {
		generate := authed.Group("")
		generate.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rules:        map[string]middleware.RateLimitRule{outreachGroup: OutreachRule(deps.Config)},
			DefaultGroup: outreachGroup,
			Limiter:      deps.Limiter,
		}))
		deps.OutreachHandler.RegisterRoutes(generate)
	}

	return r
}

// OutreachRule converts the configured per-minute budget into a token bucket.
func OutreachRule(cfg config.Config) middleware.RateLimitRule {
	burst := cfg.OutreachBurst
	if burst <= 0 {
		burst = 1
	}
	return middleware.RateLimitRule{Rate: cfg.OutreachPerMinute / 60.0, Burst: burst}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
