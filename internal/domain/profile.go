package domain

import (
	"time"

	"gorm.io/datatypes"
)

type MusicianProfile struct {
	UserID      int64     `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	Instrument  string    `json:"instrument" gorm:"not null"`
	Experience  string    `json:"experience"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type BandProfile struct {
	UserID      int64                       `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	Genre       string                      `json:"genre" gorm:"not null"`
	Description string                      `json:"description"`
	LookingFor  datatypes.JSONSlice[string] `json:"lookingFor"`
	CreatedAt   time.Time                   `json:"createdAt"`
}

// ProfileRow is one line of the admin user listing: the user joined with
// whichever profile table matches its type.
type ProfileRow struct {
	UserID      int64    `json:"user_id"`
	FullName    string   `json:"full_name"`
	Email       string   `json:"email"`
	Location    string   `json:"location"`
	UserType    UserType `json:"userType"`
	Role        Role     `json:"role"`
	Instrument  string   `json:"instrument,omitempty"`
	Experience  string   `json:"experience,omitempty"`
	Genre       string   `json:"genre,omitempty"`
	Description string   `json:"description,omitempty"`
}

type BandListing struct {
	FullName string `json:"full_name"`
	Location string `json:"location"`
	Genre    string `json:"genre"`
}

type MusicianListing struct {
	FullName   string `json:"full_name"`
	Location   string `json:"location"`
	Instrument string `json:"instrument"`
}

// Account is a new user together with the profile matching its type. Exactly
// one of Musician and Band is set.
type Account struct {
	User     *User
	Musician *MusicianProfile
	Band     *BandProfile
}
