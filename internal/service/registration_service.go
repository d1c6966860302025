package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dom/bandmates/internal/domain"
	"github.com/dom/bandmates/internal/metrics"
	"github.com/dom/bandmates/internal/repository"
	"github.com/rs/zerolog"
)

const (
	MinPasswordLength = 6
	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes = 72
)

type RegistrationService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	emails   EmailVerifier
	log      zerolog.Logger
}

func NewRegistrationService(userRepo repository.UserRepository, hasher PasswordHasher, emails EmailVerifier, log zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		userRepo: userRepo,
		hasher:   hasher,
		emails:   emails,
		log:      log.With().Str("component", "registration").Logger(),
	}
}

type RegisterInput struct {
	UserType string
	FullName string
	Email    string
	Password string
	Location string

	// Musician
	Instrument string
	Experience string

	// Band
	Genre      string
	LookingFor []string

	Description string
}

// Register validates input and creates the user with its profile. Checks run
// in a fixed order and stop at the first failure.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (int64, error) {
	input.Email = domain.CanonicalEmail(input.Email)

	if err := s.validate(ctx, input); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(userTypeLabel(input.UserType), "invalid").Inc()
		return 0, err
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(input.UserType, "error").Inc()
		s.log.Error().Err(err).Msg("hash password failed")
		return 0, fmt.Errorf("register: %w", err)
	}

	account := newAccount(input, hashedPassword)
	if err := s.userRepo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues(input.UserType, "conflict").Inc()
			return 0, domain.ErrEmailTaken
		}
		metrics.RegistrationsTotal.WithLabelValues(input.UserType, "error").Inc()
		s.log.Error().Err(err).Str("user_type", input.UserType).Msg("create account failed")
		return 0, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues(input.UserType, "created").Inc()
	s.log.Info().
		Int64("user_id", account.User.ID).
		Str("user_type", input.UserType).
		Msg("user registered")
	return account.User.ID, nil
}

func (s *RegistrationService) validate(ctx context.Context, input RegisterInput) error {
	if blank(input.UserType) || blank(input.FullName) || input.Email == "" || input.Password == "" || blank(input.Location) {
		return domain.NewValidationError("required", "userType, full_name, email, password and location are required")
	}

	if utf8.RuneCountInString(input.Password) < MinPasswordLength {
		return domain.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(input.Password) > maxPasswordBytes {
		return domain.NewValidationError("password", fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	userType := domain.UserType(input.UserType)
	if !userType.IsValid() {
		return domain.NewValidationError("userType", "userType must be 'musician' or 'band'")
	}

	if err := s.emails.Verify(ctx, input.Email); err != nil {
		s.log.Debug().Err(err).Msg("email rejected")
		return domain.NewValidationError("email", "email address is not valid")
	}

	switch userType {
	case domain.UserTypeMusician:
		if blank(input.Instrument) {
			return domain.NewValidationError("instrument", "instrument is required for musicians")
		}
	case domain.UserTypeBand:
		if blank(input.Genre) {
			return domain.NewValidationError("genre", "genre is required for bands")
		}
	}
	return nil
}

func newAccount(input RegisterInput, hashedPassword string) *domain.Account {
	user := &domain.User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Location:     strings.TrimSpace(input.Location),
		UserType:     domain.UserType(input.UserType),
		Role:         domain.RoleUser,
	}

	if user.UserType == domain.UserTypeMusician {
		return &domain.Account{
			User: user,
			Musician: &domain.MusicianProfile{
				Instrument:  strings.TrimSpace(input.Instrument),
				Experience:  input.Experience,
				Description: input.Description,
			},
		}
	}

	lookingFor := make([]string, 0, len(input.LookingFor))
	for _, l := range input.LookingFor {
		if l = strings.TrimSpace(l); l != "" {
			lookingFor = append(lookingFor, l)
		}
	}
	return &domain.Account{
		User: user,
		Band: &domain.BandProfile{
			Genre:       strings.TrimSpace(input.Genre),
			Description: input.Description,
			LookingFor:  lookingFor,
		},
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func userTypeLabel(t string) string {
	if domain.UserType(t).IsValid() {
		return t
	}
	return "unknown"
}
