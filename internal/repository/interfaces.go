package repository

import (
	"context"

	"github.com/dom/bandmates/internal/domain"
)

type UserRepository interface {
	// CreateAccount inserts the user row and its profile row as one unit. The
	// email unique index decides races; a duplicate yields domain.ErrEmailTaken.
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetRoleByEmail(ctx context.Context, email string, role domain.Role) (bool, error)
	ListChatCandidates(ctx context.Context, excludeID int64) ([]domain.ChatCandidate, error)
	ListProfiles(ctx context.Context) ([]domain.ProfileRow, error)
	ListBands(ctx context.Context) ([]domain.BandListing, error)
	ListMusicians(ctx context.Context) ([]domain.MusicianListing, error)
	// DeleteCascade removes the user and every dependent row in one
	// transaction. A missing user rolls everything back with
	// domain.ErrUserNotFound.
	DeleteCascade(ctx context.Context, id int64) (int64, error)
}

type ConversationRepository interface {
	// FindOrCreate returns the room of the pair, inserting it if absent. The
	// bool reports whether this call created it.
	FindOrCreate(ctx context.Context, key domain.PairKey) (*domain.ConversationRoom, bool, error)
	GetByPair(ctx context.Context, key domain.PairKey) (*domain.ConversationRoom, error)
	ListByUserID(ctx context.Context, userID int64) ([]*domain.ConversationRoom, error)
}

// SessionStore holds server-side session state keyed by the opaque token.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID int64) error
}

type Repositories struct {
	User         UserRepository
	Conversation ConversationRepository
	Session      SessionStore
}
