package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/MdFayaz7/portfolio1/internal/api/middleware"
	"github.com/MdFayaz7/portfolio1/internal/auth"
	"github.com/MdFayaz7/portfolio1/internal/config"
	"github.com/MdFayaz7/portfolio1/internal/content"
	"github.com/MdFayaz7/portfolio1/internal/metrics"
	"github.com/MdFayaz7/portfolio1/internal/storage"
	"github.com/MdFayaz7/portfolio1/internal/upload"
)

const (
	maxJSONBody      = 10 << 20
	maxMultipartBody = 60 << 20
)

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps collects what the routes need.
type Deps struct {
	Config   config.APIConfig
	Logger   *slog.Logger
	Auth     *auth.Service
	Content  *content.Services
	Uploader *upload.Uploader
	Files    storage.ObjectStore
	// Limiter may be nil to disable rate limiting.
	Limiter middleware.Limiter
	// SetupToken gates POST /api/auth/register.
	SetupToken string
	DB         Pinger
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20
	if err := router.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		d.Logger.Warn("invalid trusted proxies, trusting none", slog.Any("error", err))
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(d.Logger),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			middleware.LoggerFromContext(c).Error("panic recovered", slog.Any("panic", recovered))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong!"})
		}),
		metrics.GinMiddleware(),
		securityHeaders(),
		bodyLimit(),
	)

	router.GET("/health", health(d.DB))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	files := NewFileHandler(d.Files)
	router.GET("/uploads/:name", files.Serve)
	router.HEAD("/uploads/:name", files.Serve)
	router.OPTIONS("/uploads/:name", files.Preflight)

	RegisterRoutes(router.Group("/api"), d)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	return router
}

// NewHandler wraps the router with CORS. The uploads path keeps its own
// wildcard headers.
func NewHandler(d Deps) http.Handler {
	router := NewRouter(d)
	withCORS := cors.New(cors.Options{
		AllowedOrigins:       d.Config.FrontendURLs,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:       []string{"Authorization", "Content-Type", "X-Correlation-ID", "X-Setup-Token"},
		ExposedHeaders:       []string{"X-Correlation-ID"},
		AllowCredentials:     true,
		OptionsSuccessStatus: http.StatusOK,
	}).Handler(router)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/uploads/") {
			router.ServeHTTP(w, r)
			return
		}
		withCORS.ServeHTTP(w, r)
	})
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":    "OK",
			"message":   "Portfolio backend is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		}
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			body["database"] = "connected"
			if err := db.Ping(ctx); err != nil {
				body["database"] = "unavailable"
			}
		}
		c.JSON(http.StatusOK, body)
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

func bodyLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil {
			c.Next()
			return
		}
		limit := int64(maxJSONBody)
		if isMultipart(c) {
			limit = maxMultipartBody
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
