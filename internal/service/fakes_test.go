package service

import (
	"context"
	"sync"

	"github.com/dom/bandmates/internal/domain"
)

// memoryUsers is an in-memory UserRepository for unit tests.
type memoryUsers struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*domain.User
	created []*domain.Account
	err     error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[int64]*domain.User{}}
}

func (m *memoryUsers) CreateAccount(_ context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, u := range m.byID {
		if u.Email == account.User.Email {
			return domain.ErrEmailTaken
		}
	}
	m.nextID++
	account.User.ID = m.nextID
	stored := *account.User
	m.byID[stored.ID] = &stored
	m.created = append(m.created, account)
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == domain.CanonicalEmail(email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memoryUsers) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	stored := *user
	m.byID[user.ID] = &stored
	return nil
}

func (m *memoryUsers) SetRoleByEmail(_ context.Context, email string, role domain.Role) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == domain.CanonicalEmail(email) {
			u.Role = role
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUsers) ListChatCandidates(context.Context, int64) ([]domain.ChatCandidate, error) {
	return nil, nil
}

func (m *memoryUsers) ListProfiles(context.Context) ([]domain.ProfileRow, error) {
	return nil, nil
}

func (m *memoryUsers) ListBands(context.Context) ([]domain.BandListing, error) {
	return nil, nil
}

func (m *memoryUsers) ListMusicians(context.Context) ([]domain.MusicianListing, error) {
	return nil, nil
}

func (m *memoryUsers) DeleteCascade(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return 0, domain.ErrUserNotFound
	}
	delete(m.byID, id)
	return 1, nil
}

// memorySessions is an in-memory SessionStore for unit tests.
type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]domain.Session{}}
}

func (m *memorySessions) Create(_ context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memorySessions) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memorySessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memorySessions) DeleteByUserID(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memorySessions) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// acceptAll accepts every email, or rejects every email when err is set.
type acceptAll struct {
	err error
}

func (a acceptAll) Verify(context.Context, string) error {
	return a.err
}
