package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a person known to the tracker. Users are created lazily the
// first time an external identity is seen.
type User struct {
	ID         uuid.UUID // UUIDv7
	ExternalID string    // subject from the identity provider, unique
	Email      string
	FirstName  string
	LastName   string
	ImageURL   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName returns the user's full name, falling back to their email.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
