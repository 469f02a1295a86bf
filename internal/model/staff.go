package model

import (
	"errors"
	"time"
)

// Staff represents a building lost-and-found staff account.
type Staff struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Building     string     `json:"building"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Session is the capability token consulted by all staff-only operations.
// One session is tied to exactly one building.
type Session struct {
	Email      string    `json:"email"`
	Building   string    `json:"building"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

// MinPasswordLength is the minimum staff password length.
const MinPasswordLength = 6

// ValidatePassword checks password requirements.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}
