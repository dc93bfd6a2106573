// Package main is the entry point for the suratdesa API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"suratdesa/internal/config"
	"suratdesa/internal/domain/auth"
	"suratdesa/internal/domain/lettertype"
	"suratdesa/internal/domain/numbering"
	"suratdesa/internal/domain/penduduk"
	"suratdesa/internal/domain/surat"
	v1 "suratdesa/internal/infrastructure/http/v1"
	"suratdesa/internal/infrastructure/storage/postgres"
	"suratdesa/internal/infrastructure/storage/postgres/auth_repo"
	"suratdesa/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting suratdesa server")

	// --- Migrations ---
	if err := postgres.RunMigrations(cfg.DatabaseURL, "file://migrations"); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}
	log.Info("database migrations applied")

	// --- Database connection ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Letter type catalog ---
	registry, err := lettertype.NewRegistry(cfg.LetterTypes)
	if err != nil {
		log.Fatalw("invalid letter type configuration", "error", err)
	}
	log.Infow("letter type catalog loaded", "types", len(registry.All()))

	// --- Audit trail ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Numbering ---
	sequenceRepo := postgres.NewSequenceRepo(txManager)
	reservationRepo := postgres.NewReservationRepo(txManager)
	numberingService := numbering.NewService(
		sequenceRepo,
		reservationRepo,
		registry.TemplateSet(),
		txManager,
		auditService,
	)

	// --- Resident registry ---
	pendudukRepo := postgres.NewPendudukRepo(txManager)
	pendudukService := penduduk.NewService(pendudukRepo, log)

	// --- Letter desk ---
	suratRepo := postgres.NewSuratRepo(txManager)
	suratService := surat.NewService(
		suratRepo,
		numberingService,
		registry,
		pendudukService,
		txManager,
		log,
	)

	// --- Auth ---
	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.JWTSecret,
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: cfg.AccessTokenTTL,
	})

	authConfig := auth.DefaultServiceConfig()
	authConfig.RefreshTokenExpiry = cfg.RefreshTokenExpiry
	authService := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewTokenRepo(txManager),
		txManager,
		jwtService,
		authConfig,
	)

	// --- Reservation sweeper ---
	// Pending reservations abandoned past the TTL are released; their
	// sequence values stay burned and are never reissued.
	sweeper := numbering.NewSweeper(numberingService, cfg.SweepInterval, cfg.ReservationTTL)
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	go sweeper.Run(sweepCtx)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:               pool,
		Logger:             log,
		JWTValidator:       jwtService,
		AuthService:        authService,
		NumberingService:   numberingService,
		SuratService:       suratService,
		PendudukService:    pendudukService,
		LetterTypes:        registry,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Debug:              cfg.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopSweeper()

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
