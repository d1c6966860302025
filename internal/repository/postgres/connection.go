package postgres

import (
	"time"

	"github.com/dom/bandmates/internal/repository"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the gorm handle. SQL logging goes through log at the
// given gorm level; record-not-found lookups are expected and never logged.
func NewConnection(databaseURL string, log zerolog.Logger, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.New(&log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// NewRepositories wires the gorm-backed repositories. The session store is
// passed in because it may live outside PostgreSQL.
func NewRepositories(db *gorm.DB, sessions repository.SessionStore) *repository.Repositories {
	if sessions == nil {
		sessions = NewSessionRepository(db)
	}
	return &repository.Repositories{
		User:         NewUserRepository(db),
		Conversation: NewConversationRepository(db),
		Session:      sessions,
	}
}
