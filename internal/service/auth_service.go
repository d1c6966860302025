package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dom/bandmates/internal/domain"
	"github.com/dom/bandmates/internal/metrics"
	"github.com/dom/bandmates/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthService is the session gate: it turns credentials into sessions and
// decides whether a session may perform a role-gated operation.
type AuthService struct {
	userRepo  repository.UserRepository
	sessions  repository.SessionStore
	hasher    PasswordHasher
	ttl       time.Duration
	dummyHash string
	now       func() time.Time
	log       zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, sessions repository.SessionStore, hasher PasswordHasher, ttl time.Duration, log zerolog.Logger) (*AuthService, error) {
	if ttl <= 0 {
		ttl = domain.DefaultSessionTTL
	}
	// Unknown emails are compared against this hash so both failure paths
	// cost one bcrypt comparison.
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{
		userRepo:  userRepo,
		sessions:  sessions,
		hasher:    hasher,
		ttl:       ttl,
		dummyHash: dummyHash,
		now:       time.Now,
		log:       log.With().Str("component", "auth").Logger(),
	}, nil
}

// Authenticate checks the credentials and opens a new session. Unknown email
// and wrong password both return domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.NewValidationError("credentials", "email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Msg("lookup user for login failed")
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		UserType:  user.UserType,
		FullName:  user.FullName,
		LoggedIn:  true,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("store session failed")
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
	return session, nil
}

// Lookup loads the session behind a token. Each call returns a fresh value.
// A session whose user no longer exists is dropped and rejected.
func (s *AuthService) Lookup(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if err := s.Authorize(ctx, session, domain.RoleAny); err != nil {
		return nil, err
	}

	// Sessions kept outside the database outlive a deleted user when the
	// revoke after delete fails.
	if _, err := s.userRepo.GetByID(ctx, session.UserID); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("lookup session user: %w", err)
		}
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			s.log.Warn().Err(err).Int64("user_id", session.UserID).Msg("drop orphaned session failed")
		}
		metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}

// Authorize admits session when it is logged in, unexpired and carries
// required (domain.RoleAny admits every role). Expired sessions are removed
// from the store.
func (s *AuthService) Authorize(ctx context.Context, session *domain.Session, required domain.Role) error {
	if session == nil || !session.LoggedIn {
		metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
		return domain.ErrUnauthenticated
	}

	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			s.log.Warn().Err(err).Msg("drop expired session failed")
		}
		session.LoggedIn = false
		metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
		return domain.ErrUnauthenticated
	}

	if required != domain.RoleAny && session.Role != required {
		metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
		return domain.ErrForbidden
	}
	return nil
}

// Invalidate logs the session out. It is a no-op for a nil session.
func (s *AuthService) Invalidate(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return nil
	}
	session.LoggedIn = false
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		s.log.Error().Err(err).Int64("user_id", session.UserID).Msg("delete session failed")
		return fmt.Errorf("invalidate session: %w", err)
	}
	s.log.Info().Int64("user_id", session.UserID).Msg("user logged out")
	return nil
}
