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
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// UserService manages existing accounts: admin listing and editing, public
// directory listings, and cascading deletion.
type UserService struct {
	userRepo repository.UserRepository
	sessions repository.SessionStore
	validate *validator.Validate
	log      zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, sessions repository.SessionStore, validate *validator.Validate, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		sessions: sessions,
		validate: validate,
		log:      log.With().Str("component", "users").Logger(),
	}
}

type UpdateUserInput struct {
	FullName string `validate:"required,max=200"`
	Email    string `validate:"required,email"`
	Location string `validate:"required,max=200"`
}

type DeletionResult struct {
	UserID       int64
	RowsAffected int64
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.log.Error().Err(err).Int64("user_id", id).Msg("get user failed")
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) ListProfiles(ctx context.Context) ([]domain.ProfileRow, error) {
	rows, err := s.userRepo.ListProfiles(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list profiles failed")
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return rows, nil
}

func (s *UserService) ListBands(ctx context.Context) ([]domain.BandListing, error) {
	bands, err := s.userRepo.ListBands(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list bands failed")
		return nil, fmt.Errorf("list bands: %w", err)
	}
	return bands, nil
}

func (s *UserService) ListMusicians(ctx context.Context) ([]domain.MusicianListing, error) {
	musicians, err := s.userRepo.ListMusicians(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list musicians failed")
		return nil, fmt.Errorf("list musicians: %w", err)
	}
	return musicians, nil
}

// Update edits name, email and location. The email is canonicalized and its
// uniqueness is left to the store.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = domain.CanonicalEmail(input.Email)
	input.Location = strings.TrimSpace(input.Location)

	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FullName = input.FullName
	user.Email = input.Email
	user.Location = input.Location
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.log.Error().Err(err).Int64("user_id", id).Msg("update user failed")
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Int64("user_id", id).Msg("user updated")
	return user, nil
}

// DeleteUser removes the user with its profile, rooms and sessions in one
// transaction. Nothing changes when the user does not exist.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (*DeletionResult, error) {
	if id <= 0 {
		return nil, ErrInvalidUserID
	}

	affected, err := s.userRepo.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.UserDeletionsTotal.WithLabelValues("not_found").Inc()
			return nil, err
		}
		metrics.UserDeletionsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Int64("user_id", id).Msg("delete user failed")
		return nil, fmt.Errorf("delete user: %w", err)
	}

	// Stores outside the transaction (redis) still hold sessions of the user.
	if err := s.sessions.DeleteByUserID(ctx, id); err != nil {
		s.log.Error().Err(err).Int64("user_id", id).Msg("revoke sessions of deleted user failed")
	}

	metrics.UserDeletionsTotal.WithLabelValues("deleted").Inc()
	s.log.Info().Int64("user_id", id).Int64("rows_affected", affected).Msg("user deleted")
	return &DeletionResult{UserID: id, RowsAffected: affected}, nil
}

// PromoteAdmin grants the admin role to the account registered with email.
// It reports false when no such account exists yet.
func (s *UserService) PromoteAdmin(ctx context.Context, email string) (bool, error) {
	ok, err := s.userRepo.SetRoleByEmail(ctx, email, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("promote admin: %w", err)
	}
	return ok, nil
}
