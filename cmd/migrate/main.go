package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/dom/bandmates/internal/config"
	"github.com/dom/bandmates/internal/logger"
	"github.com/dom/bandmates/internal/repository/postgres"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	command := flag.String("command", "up", "migrate command (up|status|down|version)")
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	target := flag.Int64("target", 0, "target version for down command (optional)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.LoadMigrate(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.Component(logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty}), "migrate")

	db, err := postgres.NewConnection(cfg.DatabaseURL, log, gormlogger.Silent)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to database")
		os.Exit(1)
	}

	migrator, err := postgres.NewMigrator(db, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to configure migrator")
		os.Exit(1)
	}

	switch *command {
	case "up":
		if err := migrator.Up(ctx); err != nil {
			log.Error().Err(err).Msg("failed to apply migrations")
			os.Exit(1)
		}
	case "status":
		if err := migrator.Status(ctx); err != nil {
			log.Error().Err(err).Msg("failed to fetch migration status")
			os.Exit(1)
		}
	case "down":
		if err := migrator.Down(ctx, *target); err != nil {
			log.Error().Err(err).Msg("failed to roll back migrations")
			os.Exit(1)
		}
	case "version":
		version, err := migrator.Version(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to read schema version")
			os.Exit(1)
		}
		log.Info().Int64("version", version).Msg("schema version")
	default:
		log.Error().Str("command", *command).Msg("unsupported command")
		os.Exit(1)
	}

	log.Info().Str("command", *command).Msg("migration command completed")
}
