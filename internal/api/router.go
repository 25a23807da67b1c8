package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/agency-admin-api/internal/auth"
	"github.com/agency-admin-api/internal/config"
	"github.com/agency-admin-api/internal/draft"
	"github.com/agency-admin-api/internal/markdown"
	"github.com/agency-admin-api/internal/metrics"
	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/service"
	"github.com/agency-admin-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Options carries the collaborators of the router beyond the services
type Options struct {
	Assistant   *draft.Assistant
	Sessions    *auth.Manager
	Renderer    *markdown.Renderer
	Metrics     *metrics.Metrics
	HealthCheck func(ctx context.Context) error
	DBStats     func() sql.DBStats
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, opts Options, log zerolog.Logger) *gin.Engine {
	if opts.Sessions == nil {
		opts.Sessions = auth.NewManager(auth.Credentials{Username: cfg.Auth.Username, Password: cfg.Auth.Password}, auth.Policy{TTL: cfg.Auth.SessionTTL})
	}
	if opts.Assistant == nil {
		opts.Assistant = draft.NewAssistant(nil)
	}
	if opts.Renderer == nil {
		opts.Renderer = markdown.NewRenderer()
	}

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(metricsMiddleware(opts.Metrics))
	router.Use(corsMiddleware())

	// Handlers
	authHandler := NewAuthHandler(opts.Sessions, cfg, log)
	draftHandler := NewDraftHandler(services, opts.Assistant, opts.Renderer, log)
	importHandler := NewImportHandler(services, cfg, log)
	exportHandler := NewExportHandler(services, log)

	// Health check
	router.GET("/health", healthCheck(opts.HealthCheck, opts.DBStats))
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	// Session
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	// Page navigation goes through the session gate
	router.GET(string(models.RouteLogin), authHandler.Page)
	for _, route := range models.ProtectedRoutes {
		router.GET(string(route), authHandler.Page)
	}
	router.NoRoute(authHandler.NotFound)

	// API v1
	v1 := router.Group("/v1")
	v1.Use(requireSession(opts.Sessions))
	{
		registerResource(v1, "projects", services.Projects, models.NewProject, log)
		registerResource(v1, "blogs", services.Blogs, models.NewBlog, log)
		registerResource(v1, "jobs", services.Jobs, models.NewJob, log)
		registerResource(v1, "team", services.Team, models.NewTeamMember, log)
		registerResource(v1, "services", services.ServiceItems, models.NewServiceItem, log)

		v1.POST("/drafts", draftHandler.Generate)
		v1.POST("/preview", draftHandler.Preview)
		v1.GET("/blogs/:id/preview", draftHandler.BlogPreview)
		v1.GET("/jobs/:id/preview", draftHandler.JobPreview)
		v1.GET("/stats", draftHandler.Stats)

		v1.GET("/exports", exportHandler.StreamExport)
		v1.POST("/imports", importHandler.CreateImport)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(check func(ctx context.Context) error, dbStats func() sql.DBStats) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}
		body := gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
		}
		if dbStats != nil {
			stats := dbStats()
			body["database"] = gin.H{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
				"wait_count":       stats.WaitCount,
			}
		}
		c.JSON(code, body)
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// metricsMiddleware records request counts and latency by route template
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
