// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/carterperez-dev/bookstore-api/internal/admin"
	"github.com/carterperez-dev/bookstore-api/internal/auth"
	"github.com/carterperez-dev/bookstore-api/internal/book"
	"github.com/carterperez-dev/bookstore-api/internal/config"
	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/health"
	"github.com/carterperez-dev/bookstore-api/internal/middleware"
	"github.com/carterperez-dev/bookstore-api/internal/order"
	"github.com/carterperez-dev/bookstore-api/internal/review"
	"github.com/carterperez-dev/bookstore-api/internal/server"
	"github.com/carterperez-dev/bookstore-api/internal/user"
)

const drainDelay = 3 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Missing .env is fine; containers set real environment.
	_ = godotenv.Load() //nolint:errcheck

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	core.SetDevelopmentMode(cfg.IsDevelopment())
	if err := core.SetBcryptCost(cfg.Security.BcryptCost); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := core.RunMigrations(cfg.Database); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close() //nolint:errcheck

	logger.Info("dependencies connected",
		"environment", cfg.App.Environment,
		"version", cfg.App.Version,
	)

	validate := validator.New(validator.WithRequiredStructEnabled())

	tokenService, err := auth.NewTokenService(cfg.JWT)
	if err != nil {
		return err
	}

	userRepo := user.NewRepository(db.DB)
	bookRepo := book.NewRepository(db.DB)
	reviewRepo := review.NewRepository(db.DB)
	orderRepo := order.NewRepository(db.DB)

	userService := user.NewService(userRepo, logger)
	authService := auth.NewService(userRepo, tokenService, logger)
	bookService := book.NewService(bookRepo, logger)
	reviewService := review.NewService(reviewRepo, bookRepo, logger)
	orderService := order.NewService(orderRepo, db.DB, logger)

	userHandler := user.NewHandler(userService, validate)
	authHandler := auth.NewHandler(authService, tokenService, cfg.Cookie, validate)
	bookHandler := book.NewHandler(bookService, validate)
	reviewHandler := review.NewHandler(reviewService, validate)
	orderHandler := order.NewHandler(orderService, validate)
	adminHandler := admin.NewHandler(db, rdb, cfg)

	healthHandler := health.NewHandler(cfg.App.Version)
	healthHandler.Register("database", db.Ping)
	healthHandler.Register("redis", rdb.Ping)

	authenticate := middleware.Authenticator(tokenService)

	globalLimiter := middleware.NewRateLimiter(rdb.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
		),
		KeyFunc:  middleware.KeyByUser,
		FailOpen: true,
	})

	// Login and registration get a much tighter budget, keyed by IP so
	// an attacker cannot reset it by rotating accounts.
	authLimiter := middleware.NewRateLimiter(rdb.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(10, 5),
		KeyFunc:  middleware.KeyByIP,
		FailOpen: true,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	r := srv.Router()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/healthz", healthHandler.Liveness)
	r.Get("/livez", healthHandler.Liveness)
	r.Get("/readyz", healthHandler.Readiness)

	r.Route("/v1", func(r chi.Router) {
		r.Use(globalLimiter.Handler)

		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter.Handler).Post("/register", authHandler.Register)
			r.With(authLimiter.Handler).Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
			r.With(authenticate).Get("/me", authHandler.Me)
		})

		r.Mount("/books", bookHandler.Routes())
		r.Mount("/reviews", reviewHandler.Routes(authenticate))

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Mount("/users", userHandler.Routes())
			r.Mount("/orders", orderHandler.Routes())
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)
			r.Mount("/users", userHandler.AdminRoutes())
			r.Mount("/books", bookHandler.AdminRoutes())
			r.Mount("/orders", orderHandler.AdminRoutes())
			r.Mount("/", adminHandler.Routes())
		})
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		return err
	}

	logger.Info("server stopped")

	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
