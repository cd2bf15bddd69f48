package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Organization represents an organization (tenant) in the system.
// The ID is issued by the identity provider and is opaque to us.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role is the role a user holds within one organization.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// ParseRole converts a role string into a Role.
// Identity providers commonly prefix roles (e.g. "org:admin"), both forms are accepted.
func ParseRole(s string) (Role, error) {
	switch s {
	case "ADMIN", "admin", "org:admin":
		return RoleAdmin, nil
	case "MEMBER", "member", "org:member", "basic_member", "org:basic_member":
		return RoleMember, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// Membership links a user to an organization with a role.
// There is at most one membership per (OrgID, UserID).
type Membership struct {
	OrgID     string
	UserID    uuid.UUID
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member is a user together with their role in an organization.
type Member struct {
	User User
	Role Role
}
