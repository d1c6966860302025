package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/bandmates/internal/api"
	"github.com/dom/bandmates/internal/config"
	"github.com/dom/bandmates/internal/logger"
	"github.com/dom/bandmates/internal/repository"
	"github.com/dom/bandmates/internal/repository/postgres"
	"github.com/dom/bandmates/internal/repository/redis"
	"github.com/dom/bandmates/internal/service"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	// Initialize database
	sqlLevel := gormlogger.Warn
	if cfg.LogLevel == "debug" || cfg.LogLevel == "trace" {
		sqlLevel = gormlogger.Info
	}
	db, err := postgres.NewConnection(cfg.DatabaseURL, logger.Component(log, "gorm"), sqlLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, db, logger.Component(log, "migrate")); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	// Initialize session store; nil keeps sessions in PostgreSQL
	var sessions repository.SessionStore
	if cfg.SessionBackend == config.SessionBackendRedis {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		defer client.Close()
		sessions = redis.NewSessionStore(client)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db, sessions)

	// Initialize services
	services, err := service.NewServices(repos, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	if cfg.AdminEmail != "" {
		promoteAdmin(ctx, services.User, cfg.AdminEmail, log)
	}

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("sessions", cfg.SessionBackend).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func promoteAdmin(ctx context.Context, users *service.UserService, email string, log zerolog.Logger) {
	promoted, err := users.PromoteAdmin(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("failed to promote admin")
		return
	}
	if !promoted {
		log.Warn().Str("email", email).Msg("admin account not registered yet, skipping promotion")
		return
	}
	log.Info().Str("email", email).Msg("admin role granted")
}
