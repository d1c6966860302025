package domain

import (
	"strings"
	"time"
)

type UserType string

const (
	UserTypeMusician UserType = "musician"
	UserTypeBand     UserType = "band"
)

func (t UserType) IsValid() bool {
	return t == UserTypeMusician || t == UserTypeBand
}

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	FullName     string    `json:"fullName" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Location     string    `json:"location" gorm:"not null"`
	UserType     UserType  `json:"userType" gorm:"type:varchar(16);not null"`
	Role         Role      `json:"role" gorm:"type:varchar(16);not null;default:user"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CanonicalEmail is the single normalization applied before an email is
// stored, looked up, or compared: surrounding whitespace is dropped and the
// whole address is lower-cased.
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ChatCandidate is the public projection of a user offered as a chat partner.
type ChatCandidate struct {
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}
