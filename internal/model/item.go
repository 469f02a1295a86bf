package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Item represents a reported lost or found object with a recovery status.
type Item struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Status       string    `json:"status"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Building     string    `json:"building"`
	Location     string    `json:"location"`
	Date         string    `json:"date"` // ISO calendar date (YYYY-MM-DD)
	Description  string    `json:"description,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	PhotoMime    string    `json:"photo_mime,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Item kinds: who is reporting the item.
const (
	KindFound = "found"
	KindLost  = "lost"
)

// Item statuses.
const (
	StatusOpen     = "open"
	StatusClaimed  = "claimed"
	StatusReturned = "returned"
)

// Transition checks whether an item may move from one status to another.
// Returned is terminal and no transition moves an item backward. A no-op
// transition (same status) is allowed.
func Transition(current, target string) error {
	if current == target {
		return nil
	}
	if current == StatusReturned {
		return ErrInvalidTransition
	}
	switch {
	case current == StatusOpen && target == StatusClaimed:
		return nil
	case current == StatusOpen && target == StatusReturned:
		return nil
	case current == StatusClaimed && target == StatusReturned:
		return nil
	}
	return ErrInvalidTransition
}

// ValidStatus reports whether s is a known item status.
func ValidStatus(s string) bool {
	return s == StatusOpen || s == StatusClaimed || s == StatusReturned
}

// ValidKind reports whether k is a known item kind.
func ValidKind(k string) bool {
	return k == KindFound || k == KindLost
}

// NewID returns a random 8-byte identifier, hex-encoded (16 characters).
func NewID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
