package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wolfeidau/sprintboard/internal/models"
)

// IdentityStore defines the storage operations for users, organizations and memberships.
// Records are mirrored from the external identity provider on access.
type IdentityStore interface {
	// UpsertUser finds the user with user.ExternalID or creates it, refreshing the
	// profile fields. Safe under concurrent first logins of the same identity,
	// the returned user always carries the stored ID.
	UpsertUser(ctx context.Context, user *models.User) (*models.User, error)

	// GetUser retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// UpsertOrganization creates the organization or refreshes its name.
	UpsertOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error)

	// GetOrganization retrieves an organization by ID.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	GetOrganization(ctx context.Context, orgID string) (*models.Organization, error)

	// UpsertMembership creates the membership or refreshes its role.
	UpsertMembership(ctx context.Context, membership *models.Membership) (*models.Membership, error)

	// GetMembership retrieves the membership of a user in an organization.
	// Returns ErrMembershipNotFound if the user is not a member.
	GetMembership(ctx context.Context, orgID string, userID uuid.UUID) (*models.Membership, error)

	// ListMembers returns the users of an organization with their role,
	// ordered by first name, last name and email.
	ListMembers(ctx context.Context, orgID string) ([]*models.Member, error)
}
