package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	database "github.com/feirahub/profile-service/app/db"
	appLogger "github.com/feirahub/profile-service/app/logger"
	"github.com/feirahub/profile-service/app/observability/metrics"
	"github.com/feirahub/profile-service/app/tracer"
	"github.com/feirahub/profile-service/config"
	_ "github.com/feirahub/profile-service/docs"
	"github.com/feirahub/profile-service/internal/api/auth"
	"github.com/feirahub/profile-service/internal/api/locations"
	"github.com/feirahub/profile-service/internal/api/page"
	"github.com/feirahub/profile-service/internal/api/products"
	"github.com/feirahub/profile-service/internal/api/profile"
	"github.com/feirahub/profile-service/internal/media"
	"github.com/feirahub/profile-service/internal/router"
)

// @title           FeiraHub Profile Service API
// @version         1.0
// @description     Profile page backend: profile loading and updates, products, locations and media link handling.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.Setup(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracer.InitTracingAndMetrics(cfg.Server.MetricsPort, logger)
	metrics.InitAppMetrics()

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations before initializing the main pool.
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	auth.ConfigureOAuth(&cfg)

	// --- Dependency Injection ---
	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	profileRepo := profile.NewPostgresProfileRepo(pool, logger)
	profileService := profile.NewProfileService(profileRepo, cfg.App.ProfileCacheTTL, logger)
	profileHandler := profile.NewHandlerImpl(profileService, logger)

	productsRepo := products.NewPostgresProductsRepo(pool, logger)
	productsService := products.NewProductsService(productsRepo, logger)
	productsHandler := products.NewHandlerImpl(productsService, logger)

	locationsRepo := locations.NewPostgresLocationsRepo(pool, logger)
	locationsService := locations.NewLocationsService(locationsRepo, logger)
	locationsHandler := locations.NewHandlerImpl(locationsService, logger)

	pageService := page.NewPageService(profileService, productsService, locationsService, cfg.App.PublicOrigin, logger)
	pageHandler := page.NewHandlerImpl(pageService, logger)

	mediaProxy := media.NewProxy(logger)

	mainRouter := router.SetupRouter(&router.Config{
		AuthHandler:            authHandler,
		ProfileHandler:         profileHandler,
		ProductsHandler:        productsHandler,
		LocationsHandler:       locationsHandler,
		PageHandler:            pageHandler,
		MediaProxy:             mediaProxy,
		AuthenticateMiddleware: auth.Authenticate(logger, cfg.JWT),
	})

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(cfg.Server.Timeout))
	r.Use(middleware.Compress(5, "application/json"))
	r.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}
