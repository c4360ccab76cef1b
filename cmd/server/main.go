package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daniel-medina/website/internal"
	"github.com/daniel-medina/website/internal/flash"
	"github.com/daniel-medina/website/internal/handler"
	"github.com/daniel-medina/website/internal/metrics"
	"github.com/daniel-medina/website/internal/middleware"
	"github.com/daniel-medina/website/internal/repository"
	"github.com/daniel-medina/website/internal/service"
	"github.com/daniel-medina/website/internal/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// sessionCleanupInterval is how often expired admin sessions are purged.
const sessionCleanupInterval = time.Hour

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Initialize template renderer
	renderer, err := handler.NewRenderer(handler.RendererConfig{
		TemplatesDir:  "web/templates",
		PreviewLength: cfg.PreviewLength,
		Logger:        logger,
		IsDev:         cfg.Env == "development",
	})
	if err != nil {
		return fmt.Errorf("renderer initialization failed: %w", err)
	}
	logger.Info("Templates loaded", "count", len(renderer.ListTemplates()))

	// Initialize storage backend
	var store storage.Storage
	switch cfg.StorageProvider {
	case storage.ProviderR2:
		store, err = storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		}, logger)
	default:
		store, err = storage.NewLocalStorage(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
			BaseURL:  cfg.LocalStorageURL,
		}, logger)
	}
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}
	logger.Info("Storage ready", "provider", cfg.StorageProvider)

	isSecure := cfg.Env != "development"

	// Flash messages ride in an encrypted cookie
	flashStore := flash.NewStore(cfg.SessionSecret, isSecure)

	// Initialize services
	adminService := service.NewAdminService(repo, logger, service.AdminConfig{
		DefaultUsername: cfg.DefaultAdminUsername,
		DefaultPassword: cfg.DefaultAdminPassword,
		SessionDuration: cfg.SessionDuration,
	})
	articleService := service.NewArticleService(repo, logger)
	projectService := service.NewProjectService(db, repo, store, service.NewImagingProcessor(), logger)

	// Initialize middleware
	gate := middleware.NewAuthGate(adminService, flashStore, logger, isSecure)
	loginLimiter := middleware.NewLoginRateLimiter(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	// Initialize handlers
	blogHandler := handler.NewBlogHandler(articleService, renderer, flashStore, logger, handler.BlogConfig{
		FrontPageArticleLimit: cfg.FrontPageArticleLimit,
		ArchivePerPage:        cfg.ArchivePerPage,
		PaginationWindow:      cfg.PaginationWindow,
	})
	portfolioHandler := handler.NewPortfolioHandler(projectService, renderer, flashStore, logger)
	adminHandler := handler.NewAdminHandler(adminService, articleService, projectService, renderer, flashStore, loginLimiter, logger, isSecure)
	adminBlogHandler := handler.NewAdminBlogHandler(articleService, renderer, flashStore, logger, handler.AdminBlogConfig{
		PerPage:          cfg.AdminBlogPerPage,
		PaginationWindow: cfg.PaginationWindow,
	}, isSecure)
	adminPortfolioHandler := handler.NewAdminPortfolioHandler(projectService, renderer, flashStore, logger, isSecure)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Static files
	staticFS := http.FileServer(http.Dir("web/static"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticFS))

	// Locally stored uploads are served straight from disk; R2 serves its
	// own objects.
	if cfg.StorageProvider == storage.ProviderLocal {
		filesFS := http.FileServer(http.Dir(cfg.LocalStoragePath))
		mux.Handle("GET /files/", http.StripPrefix("/files/", filesFS))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics (basic auth when configured)
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	// Public pages
	blogHandler.RegisterRoutes(mux)
	portfolioHandler.RegisterRoutes(mux)

	// Admin panel. Every admin route resolves the session first, then runs
	// through the gate for its route kind. Login attempts are additionally
	// rate limited per client address.
	adminChain := middleware.Stack(gate.WithAdmin, gate.Require(middleware.RouteAdmin))
	loginChain := middleware.Stack(gate.WithAdmin, loginLimiter.Limit, gate.Require(middleware.RouteLogin))
	logoutChain := middleware.Stack(gate.WithAdmin, gate.Require(middleware.RouteLogout))

	adminHandler.RegisterRoutes(mux, adminChain, loginChain, logoutChain)
	adminBlogHandler.RegisterRoutes(mux, adminChain)
	adminPortfolioHandler.RegisterRoutes(mux, adminChain)

	// Outer middleware for every request
	root := middleware.Stack(
		securityMw.Handler,
		loggingMw.Handler,
		metrics.Middleware,
	)(mux)

	// ==========================================================================
	// Background session cleanup
	// ==========================================================================

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()

	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				if err := adminService.DeleteExpiredSessions(cleanupCtx); err != nil {
					logger.Error("session cleanup failed", "error", err)
				}
			}
		}
	}()

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")
	stopCleanup()

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
