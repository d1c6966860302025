package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"testing"
	"time"

	"github.com/dom/bandmates/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	fullName   string
	email      string
	password   string
	location   string
	userType   domain.UserType
	role       domain.Role
	instrument string
	genre      string
}

// NewUserBuilder creates a musician with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		fullName:   "Test User " + suffix,
		email:      fmt.Sprintf("user_%s@example.com", suffix),
		password:   "testpassword123",
		location:   "Milano",
		userType:   domain.UserTypeMusician,
		role:       domain.RoleUser,
		instrument: "guitar",
		genre:      "rock",
	}
}

func (b *UserBuilder) WithFullName(name string) *UserBuilder {
	b.fullName = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithLocation(location string) *UserBuilder {
	b.location = location
	return b
}

// AsBand switches the user to a band with the given genre
func (b *UserBuilder) AsBand(genre string) *UserBuilder {
	b.userType = domain.UserTypeBand
	b.genre = genre
	return b
}

// WithInstrument keeps the user a musician playing instrument
func (b *UserBuilder) WithInstrument(instrument string) *UserBuilder {
	b.userType = domain.UserTypeMusician
	b.instrument = instrument
	return b
}

func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.role = domain.RoleAdmin
	return b
}

// Build creates the user and its profile in the database and returns the
// user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now()
	user := &domain.User{
		FullName:     b.fullName,
		Email:        domain.CanonicalEmail(b.email),
		PasswordHash: string(hashedPassword),
		Location:     b.location,
		UserType:     b.userType,
		Role:         b.role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if b.userType == domain.UserTypeBand {
			return tx.Create(&domain.BandProfile{
				UserID:     user.ID,
				Genre:      b.genre,
				LookingFor: datatypes.JSONSlice[string]{"drummer"},
			}).Error
		}
		return tx.Create(&domain.MusicianProfile{
			UserID:     user.ID,
			Instrument: b.instrument,
			Experience: "5 years",
		}).Error
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// LoginResponse matches the API login response
type LoginResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
	User     struct {
		UserID   int64  `json:"user_id"`
		FullName string `json:"full_name"`
		UserType string `json:"userType"`
		Role     string `json:"role"`
		LoggedIn bool   `json:"loggedIn"`
	} `json:"user"`
}

// NewClient returns an HTTP client that keeps cookies and does not follow
// redirects, so tests can inspect them.
func NewClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// BuildAndLogin creates the user and returns a client holding its session
// cookie
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, *http.Client) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)
	client := NewClient(t)

	resp := PostJSON(t, client, ts.URL("/auth/login"), map[string]string{
		"email":    user.Email,
		"password": password,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed with status %d", resp.StatusCode)
	}
	return user, client
}

// PostJSON sends body as JSON
func PostJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	return DoJSON(t, client, http.MethodPost, url, body)
}

// DoJSON sends a request with an optional JSON body
func DoJSON(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	return resp
}

// NewSession returns an active, unsaved session for user
func NewSession(user *domain.User) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		UserType:  user.UserType,
		FullName:  user.FullName,
		LoggedIn:  true,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
}
