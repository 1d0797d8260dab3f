// Package server assembles the HTTP router: global middleware, the JSON API,
// operational endpoints and the static site fallback.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khanhtoandng/me-sub001/handlers"
	"github.com/khanhtoandng/me-sub001/internal/ai"
	"github.com/khanhtoandng/me-sub001/internal/config"
	"github.com/khanhtoandng/me-sub001/internal/models"
	"github.com/khanhtoandng/me-sub001/internal/site"
	"github.com/khanhtoandng/me-sub001/internal/storage"
	"github.com/khanhtoandng/me-sub001/internal/tokens"
	"github.com/khanhtoandng/me-sub001/internal/users"
	"github.com/khanhtoandng/me-sub001/pkg/middleware"
	"github.com/khanhtoandng/me-sub001/pkg/response"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Check reports whether a dependency is usable. Used by /ready.
type Check func(ctx context.Context) error

// Deps carries everything the router needs. Store, Redis and Enhancer may be nil.
type Deps struct {
	Config   *config.Config
	Tokens   *tokens.Manager
	Users    *users.Service
	Content  Content
	Enhancer *ai.Enhancer
	Store    storage.ObjectStore
	Redis    *redis.Client
	Checks   map[string]Check
	// Metrics defaults to the default Prometheus registry handler.
	Metrics http.Handler
}

var startTime = time.Now()

// New builds the gin engine.
func New(d Deps) *gin.Engine {
	cfg := d.Config
	r := gin.New()

	r.Use(gin.CustomRecovery(func(c *gin.Context, _ interface{}) {
		response.AbortFail(c, http.StatusInternalServerError, "internal server error")
	}))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.LocaleRedirect(middleware.LocaleOptions{
		Supported:  cfg.Locale.Supported,
		Default:    cfg.Locale.Default,
		CookieName: cfg.Locale.CookieName,
		Skip:       append(append([]string{}, middleware.DefaultLocaleSkips...), cfg.Auth.ProtectedPrefix, cfg.Auth.LoginPath),
	}))
	r.Use(middleware.DashboardGate(d.Tokens, cfg.Auth.CookieName, cfg.Auth.ProtectedPrefix, cfg.Auth.LoginPath))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(d.Checks))

	metricsHandler := d.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))

	handlers.RegisterSwagger(r, d.Content.Paths())

	api := r.Group("/api")
	if cfg.RateLimit.Enabled {
		api.Use(limiter(d.Redis, cfg.RateLimit, "global", cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	authed := middleware.APIAuth(d.Tokens, cfg.Auth.CookieName)
	writers := middleware.RequireRole(models.RoleAdmin, models.RoleEditor)

	var loginLimit, aiLimit []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		loginLimit = append(loginLimit, limiter(d.Redis, cfg.RateLimit, "login", cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst))
		aiLimit = append(aiLimit, limiter(d.Redis, cfg.RateLimit, "ai", cfg.RateLimit.AIRPS, cfg.RateLimit.AIBurst))
	}

	handlers.NewAuthHandler(cfg.Auth, d.Users, d.Tokens).Register(api, loginLimit...)
	d.Content.register(api, authed, writers)

	enhancer := d.Enhancer
	if enhancer == nil {
		enhancer = ai.NewEnhancer(ai.NewClient(cfg.AI))
	}
	handlers.NewAIHandler(enhancer).Register(api, append([]gin.HandlerFunc{authed, writers}, aiLimit...)...)
	handlers.NewUploadHandler(d.Store, cfg.Storage.MaxUploadBytes).Register(api, authed, writers)

	r.NoRoute(site.New(cfg.Site.StaticDir).Handler())
	return r
}

// limiter picks the Redis fixed-window limiter when configured and falls back
// to the in-process token bucket otherwise.
func limiter(client *redis.Client, rl config.RateLimitConfig, scope string, rps float64, burst int) gin.HandlerFunc {
	if rl.UseRedis && client != nil {
		win := time.Duration(rl.WindowSeconds) * time.Second
		return middleware.RedisRateLimitMiddleware(client, scope, rps, burst, win)
	}
	return middleware.RateLimitMiddleware(rps, burst)
}

func readiness(checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := map[string]bool{}
		for name, check := range checks {
			ok := check(ctx) == nil
			deps[name] = ok
			ready = ready && ok
		}
		status, label := http.StatusOK, "ready"
		if !ready {
			status, label = http.StatusServiceUnavailable, "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": fmt.Sprintf("%s", time.Since(startTime).Round(time.Second))})
	}
}
