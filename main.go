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
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	database "github.com/akbarkhoja/portfolio-api/app/db"
	appLogger "github.com/akbarkhoja/portfolio-api/app/logger"
	"github.com/akbarkhoja/portfolio-api/app/observability/metrics"
	"github.com/akbarkhoja/portfolio-api/config"
	"github.com/akbarkhoja/portfolio-api/internal/api/auth"
	"github.com/akbarkhoja/portfolio-api/internal/api/blog"
	"github.com/akbarkhoja/portfolio-api/internal/api/contact"
	"github.com/akbarkhoja/portfolio-api/internal/api/project"
	"github.com/akbarkhoja/portfolio-api/internal/api/upload"
	"github.com/akbarkhoja/portfolio-api/internal/api/user"
	apirouter "github.com/akbarkhoja/portfolio-api/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Migrations run before the main pool comes up.
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

	// --- Dependency Injection ---
	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg.Session, logger)
	authHandler := auth.NewAuthHandler(authService, cfg.Session, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, authService, logger)
	userHandler := user.NewUserHandler(userService, logger)

	blogRepo := blog.NewPostgresBlogRepo(pool, logger)
	blogService := blog.NewBlogService(blogRepo, cfg.Blog, logger)
	blogHandler := blog.NewBlogHandler(blogService, logger)

	projectRepo := project.NewPostgresProjectRepo(pool, logger)
	projectService := project.NewProjectService(projectRepo, logger)
	projectHandler := project.NewProjectHandler(projectService, logger)

	mailer := contact.NewSMTPMailer(cfg.SMTP)
	contactService := contact.NewContactService(mailer, cfg.SMTP, logger)
	contactHandler := contact.NewContactHandler(contactService, logger)

	uploadHandler := upload.NewUploadHandler(cfg.Upload, logger)

	// --- Startup maintenance ---
	// Admin bootstrap, sample seeding and the legacy slug backfill run
	// here, once, instead of as read-path side effects.
	if err := userService.EnsureAdmin(ctx, cfg.Admin); err != nil {
		logger.Error("Admin bootstrap failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := projectService.Bootstrap(ctx); err != nil {
		logger.Error("Project bootstrap failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := blogService.Bootstrap(ctx); err != nil {
		logger.Error("Blog bootstrap failed", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Router Setup ---
	mainRouter := apirouter.SetupRouter(&apirouter.Config{
		AuthHandler:    authHandler,
		BlogHandler:    blogHandler,
		ProjectHandler: projectHandler,
		UserHandler:    userHandler,
		ContactHandler: contactHandler,
		UploadHandler:  uploadHandler,
		Authenticate:   auth.Authenticate(authService, cfg.Session.CookieName, logger),
		RequireAdmin:   auth.RequireAdmin(logger),
		AllowedOrigins: []string{"http://localhost:3000", "https://akbarkhoja.dev"},
	})

	router := chi.NewMux()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(metrics.Middleware)
	router.Use(chimiddleware.Timeout(60 * time.Second))
	router.Use(chimiddleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
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

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
