package domain

import "time"

const DefaultSessionTTL = 24 * time.Hour

// Session is the server-held proof of authentication for one client. It is a
// value: every request loads its own copy from the session store.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	UserID    int64     `json:"userId" gorm:"index;not null"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null"`
	UserType  UserType  `json:"userType" gorm:"type:varchar(16);not null"`
	FullName  string    `json:"fullName" gorm:"not null"`
	LoggedIn  bool      `json:"loggedIn" gorm:"not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Session) TableName() string {
	return "user_sessions"
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Active reports whether the session still authenticates its user at now.
func (s *Session) Active(now time.Time) bool {
	return s != nil && s.LoggedIn && !s.Expired(now)
}
