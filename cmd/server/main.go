package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/auth"
	"github.com/kyotenhq/kyoten-backend/internal/config"
	"github.com/kyotenhq/kyoten-backend/internal/database"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/handlers"
	"github.com/kyotenhq/kyoten-backend/internal/logging"
	"github.com/kyotenhq/kyoten-backend/internal/middleware"
	"github.com/kyotenhq/kyoten-backend/internal/repository"
	"github.com/kyotenhq/kyoten-backend/internal/routes"
	"github.com/kyotenhq/kyoten-backend/internal/services"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Services
	db := repository.NewGormDB(database.DB)
	clock := auth.SystemClock()
	hasher := auth.NewBcryptHasher()
	tokens := auth.NewTokenService(cfg.JWTSecret, clock)

	authService := services.NewAuthService(db, tokens, hasher, clock, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry, cfg.ResetTokenExpiry)
	userService := services.NewUserService(db, hasher)
	roleService := services.NewRoleService(db)
	locationService := services.NewLocationService(db)
	assignmentService := services.NewUserLocationService(db, clock)
	itemService := services.NewItemService(db)

	ctx := context.Background()
	if err := roleService.SeedSystemRoles(ctx); err != nil {
		slog.Error("system role seeding failed", "error", err)
		os.Exit(1)
	}
	if err := seedFirstSuperuser(ctx, cfg, userService); err != nil {
		slog.Error("superuser seeding failed", "error", err)
		os.Exit(1)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	userHandler := handlers.NewUserHandler(userService)
	roleHandler := handlers.NewRoleHandler(roleService)
	locationHandler := handlers.NewLocationHandler(locationService)
	assignmentHandler := handlers.NewUserLocationHandler(assignmentService)
	itemHandler := handlers.NewItemHandler(itemService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, db, authHandler, healthHandler, userHandler, roleHandler, locationHandler, assignmentHandler, itemHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// seedFirstSuperuser creates the initial superuser account when both
// FIRST_SUPERUSER_EMAIL and FIRST_SUPERUSER_PASSWORD are set and the email
// is not registered yet.
func seedFirstSuperuser(ctx context.Context, cfg *config.Config, users *services.UserService) error {
	if cfg.FirstSuperuserEmail == "" || cfg.FirstSuperuserPassword == "" {
		return nil
	}

	_, err := users.Create(ctx, dto.UserCreate{
		Email:       cfg.FirstSuperuserEmail,
		Password:    cfg.FirstSuperuserPassword,
		IsSuperuser: true,
	})
	if err != nil {
		// Already registered on a previous boot.
		if apperr.IsConflict(err) {
			return nil
		}
		return err
	}
	slog.Info("seeded first superuser", "email", cfg.FirstSuperuserEmail)
	return nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
