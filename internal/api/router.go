// Package api wires the HTTP surface of the Filmcounts gateway.
//
// Route grouping philosophy:
//   - /api/v1/auth login, register, password reset, and email verification are
//     unauthenticated; everything else under /api/v1 runs behind the session
//     middleware and therefore behind a bearer token.
//   - /api/v1/admin requires the ADMIN or ADMINISTRATOR role on top of the
//     session; the role check mirrors the platform's own casing rules.
//   - /health, /ready, and /version sit outside the API group for load
//     balancers and probes.
package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/filmcounts/filmcounts-gateway/internal/config"
	"github.com/filmcounts/filmcounts-gateway/internal/crypto"
	"github.com/filmcounts/filmcounts-gateway/internal/jobs"
	"github.com/filmcounts/filmcounts-gateway/internal/middleware"
	"github.com/filmcounts/filmcounts-gateway/internal/safego"
	"github.com/filmcounts/filmcounts-gateway/internal/storage"
	"github.com/filmcounts/filmcounts-gateway/internal/stores"
	"github.com/filmcounts/filmcounts-gateway/internal/upstream"

	// Register session-state backends via their init() functions.
	_ "github.com/filmcounts/filmcounts-gateway/internal/storage/local"
	_ "github.com/filmcounts/filmcounts-gateway/internal/storage/memory"
	_ "github.com/filmcounts/filmcounts-gateway/internal/storage/postgres"
	_ "github.com/filmcounts/filmcounts-gateway/internal/storage/redis"
)

// Background holds the long-running pieces the router starts; cmd/server
// calls Shutdown after draining the HTTP server.
type Background struct {
	sweeper     *jobs.SessionSweeper
	rateLimiter *middleware.RateLimiter
	cancel      context.CancelFunc
}

// Shutdown stops every background loop started by NewRouter.
func (bg *Background) Shutdown() {
	slog.Info("stopping background services")
	bg.cancel()
	if bg.sweeper != nil {
		bg.sweeper.Stop()
	}
	if bg.rateLimiter != nil {
		bg.rateLimiter.Stop()
	}
	slog.Info("all background services stopped")
}

// NewRouter builds the Gin engine, its middleware chain, and the background
// services.
func NewRouter(cfg *config.Config) (*gin.Engine, *Background, error) {
	backend, err := storage.NewBackend(cfg)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("session-state backend initialized", "backend", cfg.Sessions.Backend)

	cipher, err := crypto.DeriveTokenCipher(cfg.Sessions.EncryptionKey)
	if err != nil {
		return nil, nil, err
	}

	client := upstream.NewClient(&cfg.Upstream)
	manager := stores.NewManager(cfg, client, backend, cipher)

	ctx, cancel := context.WithCancel(context.Background())
	sweeper := jobs.NewSessionSweeper(manager, &cfg.Sessions)
	safego.Named("session-sweeper", func() { sweeper.Start(ctx) })

	rateLimiter := middleware.NewRateLimiter(cfg.Security.RateLimiting)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	if cfg.Security.RateLimiting.Enabled {
		router.Use(middleware.RateLimit(rateLimiter))
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(requestLogger())
	router.Use(corsMiddleware(cfg))

	h := &Handlers{cfg: cfg, manager: manager, backend: backend}

	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/version", h.Version)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register", h.Register)
	auth.POST("/password/reset", h.ResetPassword)
	auth.POST("/verify-email", h.VerifyEmail)

	authed := v1.Group("", middleware.Session(manager))
	authed.POST("/auth/logout", h.Logout)
	authed.POST("/auth/refresh", h.Refresh)
	authed.GET("/auth/session", h.SessionInfo)
	authed.GET("/auth/profile", h.Profile)

	authed.GET("/nav", h.Nav)
	authed.GET("/viewstate", h.ViewState)

	authed.GET("/projects", h.ListProjects)
	authed.POST("/projects", h.CreateProject)
	authed.PUT("/projects/:id", h.UpdateProject)
	authed.DELETE("/projects/:id", h.DeleteProject)

	authed.GET("/budgets", h.ListBudgets)
	authed.POST("/budgets", h.CreateBudget)
	authed.PUT("/budgets/:id", h.UpdateBudget)
	authed.DELETE("/budgets/:id", h.DeleteBudget)

	authed.GET("/requisitions", h.ListRequisitions)
	authed.POST("/requisitions", h.CreateRequisition)
	authed.PUT("/requisitions/:id", h.UpdateRequisition)
	authed.POST("/requisitions/:id/approve", h.ApproveRequisition)
	authed.DELETE("/requisitions/:id", h.DeleteRequisition)

	authed.GET("/reconciliations", h.ListReconciliations)
	authed.POST("/reconciliations", h.CreateReconciliation)
	authed.PUT("/reconciliations/:id", h.UpdateReconciliation)
	authed.DELETE("/reconciliations/:id", h.DeleteReconciliation)

	authed.GET("/companies", h.ListCompanies)
	authed.POST("/companies", h.CreateCompany)
	authed.PUT("/companies/:id", h.UpdateCompany)
	authed.DELETE("/companies/:id", h.DeleteCompany)

	authed.GET("/suppliers", h.ListSuppliers)
	authed.POST("/suppliers", h.CreateSupplier)
	authed.PUT("/suppliers/:id", h.UpdateSupplier)
	authed.DELETE("/suppliers/:id", h.DeleteSupplier)

	authed.GET("/departments", h.ListDepartments)
	authed.POST("/departments", h.CreateDepartment)
	authed.PUT("/departments/:id", h.UpdateDepartment)
	authed.DELETE("/departments/:id", h.DeleteDepartment)

	authed.GET("/organizations", h.ListOrganizations)
	authed.POST("/organizations", h.CreateOrganization)
	authed.PUT("/organizations/:id", h.UpdateOrganization)
	authed.DELETE("/organizations/:id", h.DeleteOrganization)
	authed.GET("/organizations/:id/members", h.OrganizationMembers)

	authed.GET("/notifications", h.ListNotifications)
	authed.POST("/notifications", h.AddNotification)
	authed.POST("/notifications/read-all", h.MarkAllNotificationsRead)
	authed.POST("/notifications/:id/read", h.MarkNotificationRead)
	authed.DELETE("/notifications/:id", h.DismissNotification)
	authed.DELETE("/notifications", h.ClearNotifications)

	admin := authed.Group("/admin", middleware.RequireAdmin())
	admin.GET("/users", h.ListUsers)
	admin.POST("/users", h.InviteUser)
	admin.PUT("/users/:id/role", h.UpdateUserRole)
	admin.DELETE("/users/:id", h.DeleteUser)
	admin.POST("/trail/search", h.SearchTrail)
	admin.GET("/configs", h.ListConfigs)
	admin.PUT("/configs", h.UpdateConfig)

	return router, &Background{sweeper: sweeper, rateLimiter: rateLimiter, cancel: cancel}, nil
}

// requestLogger emits one structured line per request, correlated by the
// request ID the RequestID middleware installed.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(middleware.RequestIDKey),
		}
		if c.Writer.Status() >= 500 {
			slog.Error("request", attrs...)
			return
		}
		slog.Info("request", attrs...)
	}
}

// corsMiddleware reflects the configured dashboard origins. The gateway is a
// backend-for-frontend, so the allow-list is short and explicit; "*" is
// honored only if an operator configures it deliberately.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.Security.CORS.AllowedOrigins))
	wildcard := false
	for _, o := range cfg.Security.CORS.AllowedOrigins {
		if o == "*" {
			wildcard = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (wildcard || allowed[origin]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
