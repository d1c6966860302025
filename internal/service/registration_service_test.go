package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dom/bandmates/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func validMusician() RegisterInput {
	return RegisterInput{
		UserType:   "musician",
		FullName:   "Alice Rossi",
		Email:      "alice@example.com",
		Password:   "secret1",
		Location:   "Torino",
		Instrument: "bass",
		Experience: "3 years",
	}
}

func newTestRegistration(users *memoryUsers, emails EmailVerifier) *RegistrationService {
	return NewRegistrationService(users, NewBcryptHasher(bcrypt.MinCost), emails, zerolog.Nop())
}

func TestRegistrationService_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		emails  EmailVerifier
		field   string
		message string
	}{
		{
			name:    "missing full name",
			mutate:  func(in *RegisterInput) { in.FullName = "  " },
			field:   "required",
			message: "userType, full_name, email, password and location are required",
		},
		{
			name:    "missing location wins over short password",
			mutate:  func(in *RegisterInput) { in.Location = ""; in.Password = "abc" },
			field:   "required",
			message: "userType, full_name, email, password and location are required",
		},
		{
			name:    "password of five characters",
			mutate:  func(in *RegisterInput) { in.Password = "abcde" },
			field:   "password",
			message: "password must be at least 6 characters",
		},
		{
			name:    "short password wins over bad user type",
			mutate:  func(in *RegisterInput) { in.Password = "abc"; in.UserType = "dj" },
			field:   "password",
			message: "password must be at least 6 characters",
		},
		{
			name:   "password beyond bcrypt limit",
			mutate: func(in *RegisterInput) { in.Password = strings.Repeat("x", 73) },
			field:  "password",
		},
		{
			name:    "unknown user type",
			mutate:  func(in *RegisterInput) { in.UserType = "dj" },
			field:   "userType",
			message: "userType must be 'musician' or 'band'",
		},
		{
			name:    "rejected email",
			emails:  acceptAll{err: errors.New("no mx")},
			field:   "email",
			message: "email address is not valid",
		},
		{
			name:    "musician without instrument",
			mutate:  func(in *RegisterInput) { in.Instrument = "" },
			field:   "instrument",
			message: "instrument is required for musicians",
		},
		{
			name:    "band without genre",
			mutate:  func(in *RegisterInput) { in.UserType = "band"; in.Genre = "" },
			field:   "genre",
			message: "genre is required for bands",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMemoryUsers()
			emails := tt.emails
			if emails == nil {
				emails = acceptAll{}
			}
			svc := newTestRegistration(users, emails)

			input := validMusician()
			if tt.mutate != nil {
				tt.mutate(&input)
			}

			_, err := svc.Register(context.Background(), input)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			if tt.message != "" {
				assert.Equal(t, tt.message, ve.Message)
			}
			assert.Empty(t, users.created, "nothing is stored for invalid input")
		})
	}
}

func TestRegistrationService_PasswordBoundary(t *testing.T) {
	users := newMemoryUsers()
	svc := newTestRegistration(users, acceptAll{})

	input := validMusician()
	input.Password = "abcdef"

	id, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestRegistrationService_StoresCanonicalAccount(t *testing.T) {
	users := newMemoryUsers()
	svc := newTestRegistration(users, acceptAll{})

	input := RegisterInput{
		UserType:    "band",
		FullName:    " The Riot ",
		Email:       "  Riot@Example.COM ",
		Password:    "loudnoise",
		Location:    "Roma",
		Genre:       "punk",
		LookingFor:  []string{" drummer ", "", "singer"},
		Description: "three chords",
	}

	id, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, users.created, 1)
	account := users.created[0]
	assert.Equal(t, id, account.User.ID)
	assert.Equal(t, "riot@example.com", account.User.Email)
	assert.Equal(t, "The Riot", account.User.FullName)
	assert.Equal(t, domain.RoleUser, account.User.Role)
	assert.Nil(t, account.Musician)
	require.NotNil(t, account.Band)
	assert.Equal(t, []string{"drummer", "singer"}, []string(account.Band.LookingFor))

	assert.NotEqual(t, "loudnoise", account.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.User.PasswordHash), []byte("loudnoise")))
}

func TestRegistrationService_DuplicateEmail(t *testing.T) {
	users := newMemoryUsers()
	svc := newTestRegistration(users, acceptAll{})

	_, err := svc.Register(context.Background(), validMusician())
	require.NoError(t, err)

	dup := validMusician()
	dup.Email = "ALICE@example.com"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Len(t, users.created, 1)
}

func TestRegistrationService_StoreFailure(t *testing.T) {
	users := newMemoryUsers()
	users.err = errors.New("connection reset")
	svc := newTestRegistration(users, acceptAll{})

	_, err := svc.Register(context.Background(), validMusician())
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrValidation))
}
