// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"suratdesa/internal/domain/auth"
	"suratdesa/internal/domain/lettertype"
	"suratdesa/internal/domain/numbering"
	"suratdesa/internal/domain/penduduk"
	"suratdesa/internal/domain/surat"
	"suratdesa/internal/infrastructure/http/v1/handlers"
	"suratdesa/internal/infrastructure/http/v1/middleware"
	"suratdesa/internal/infrastructure/storage/postgres"
	"suratdesa/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// NumberingService issues and confirms official letter numbers
	NumberingService *numbering.Service

	// SuratService is the letter desk
	SuratService *surat.Service

	// PendudukService is the resident registry
	PendudukService *penduduk.Service

	// LetterTypes is the compiled letter type catalog
	LetterTypes *lettertype.Registry

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	// Empty means same-origin only.
	CORSAllowedOrigins []string

	// Debug switches Gin to debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		registerAuthRoutes(apiV1, cfg)

		// Everything else requires a valid staff token
		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerDeskRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerDeskRoutes registers the letter desk endpoints.
func registerDeskRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	if cfg.NumberingService != nil {
		handlers.NewNumberingHandler(baseHandler, cfg.NumberingService).RegisterRoutes(rg)
	}
	if cfg.SuratService != nil {
		handlers.NewSuratHandler(baseHandler, cfg.SuratService).RegisterRoutes(rg)
	}
	if cfg.PendudukService != nil {
		handlers.NewPendudukHandler(baseHandler, cfg.PendudukService).RegisterRoutes(rg)
	}
	if cfg.LetterTypes != nil {
		handlers.NewLetterTypeHandler(baseHandler, cfg.LetterTypes).RegisterRoutes(rg)
	}
}
