package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrator applies the embedded goose migrations to the database behind a
// gorm handle.
type Migrator struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewMigrator(db *gorm.DB, log zerolog.Logger) (*Migrator, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql db: %w", err)
	}
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("configure goose: %w", err)
	}
	return &Migrator{db: sqlDB, log: log}, nil
}

// Up applies pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	m.log.Info().Msg("applying migrations")
	if err := goose.UpContext(runCtx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	m.log.Info().Msg("migrations applied")
	return nil
}

// Down rolls back the latest migration, or down to targetVersion when it is
// positive.
func (m *Migrator) Down(ctx context.Context, targetVersion int64) error {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if targetVersion > 0 {
		m.log.Info().Int64("target", targetVersion).Msg("rolling back migrations")
		if err := goose.DownToContext(runCtx, m.db, migrationsDir, targetVersion); err != nil {
			return fmt.Errorf("rollback to version %d: %w", targetVersion, err)
		}
		return nil
	}

	m.log.Info().Msg("rolling back latest migration")
	if err := goose.DownContext(runCtx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("rollback latest migration: %w", err)
	}
	return nil
}

// Status prints applied and pending migrations through goose's logger.
func (m *Migrator) Status(ctx context.Context) error {
	if err := goose.StatusContext(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}

// Version returns the current schema version.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	return goose.GetDBVersionContext(ctx, m.db)
}

// Migrate is the startup shortcut: build a Migrator and apply everything.
func Migrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	m, err := NewMigrator(db, log)
	if err != nil {
		return err
	}
	return m.Up(ctx)
}
