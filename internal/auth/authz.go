package auth

import (
	"errors"
	"fmt"
	"slices"

	"github.com/wolfeidau/sprintboard/internal/models"
)

// Sentinel errors for authorization failures
var (
	// ErrUnauthorized is returned when there is no caller or the caller has no active organization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller's role lacks the permission.
	ErrForbidden = errors.New("forbidden")
)

// Permission represents an authorized action
type Permission string

const (
	PermProjectsCreate      Permission = "projects:create"
	PermProjectsRead        Permission = "projects:read"
	PermSprintsCreate       Permission = "sprints:create"
	PermSprintsUpdateStatus Permission = "sprints:update_status"
	PermIssuesCreate        Permission = "issues:create"
	PermIssuesUpdate        Permission = "issues:update"
	PermIssuesMove          Permission = "issues:move"
	PermMembersList         Permission = "members:list"
)

// RolePermissions maps membership roles to allowed permissions
var RolePermissions = map[models.Role][]Permission{
	models.RoleAdmin: {
		PermProjectsCreate,
		PermProjectsRead,
		PermSprintsCreate,
		PermSprintsUpdateStatus,
		PermIssuesCreate,
		PermIssuesUpdate,
		PermIssuesMove,
		PermMembersList,
	},
	models.RoleMember: {
		PermProjectsRead,
		PermIssuesCreate,
		PermIssuesUpdate,
		PermIssuesMove,
		PermMembersList,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role models.Role, perm Permission) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	return slices.Contains(perms, perm)
}

// Require checks that the caller is authenticated into an organization and
// that their role grants perm.
func Require(caller *Caller, perm Permission) error {
	if caller == nil || caller.OrgID == "" {
		return fmt.Errorf("%w: not authenticated", ErrUnauthorized)
	}

	if !HasPermission(caller.Role, perm) {
		return fmt.Errorf("%w: %s requires %s", ErrForbidden, caller.Role, perm)
	}

	return nil
}
