package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/sprintboard/internal/models"
	"github.com/wolfeidau/sprintboard/internal/store"
)

// Verify IdentityStore implements the interface
var _ store.IdentityStore = (*IdentityStore)(nil)

type membershipKey struct {
	orgID  string
	userID uuid.UUID
}

// IdentityStore implements store.IdentityStore using in-memory storage.
// This implementation is for testing and development only - data is lost on restart.
type IdentityStore struct {
	mu sync.RWMutex

	users         map[uuid.UUID]*models.User           // user_id -> User
	byExternalID  map[string]uuid.UUID                 // external_id -> user_id
	organizations map[string]*models.Organization      // org_id -> Organization
	memberships   map[membershipKey]*models.Membership // (org_id, user_id) -> Membership
}

// NewIdentityStore creates a new in-memory identity store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{
		users:         make(map[uuid.UUID]*models.User),
		byExternalID:  make(map[string]uuid.UUID),
		organizations: make(map[string]*models.Organization),
		memberships:   make(map[membershipKey]*models.Membership),
	}
}

// UpsertUser finds the user by external ID or creates it.
func (s *IdentityStore) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	if id, exists := s.byExternalID[user.ExternalID]; exists {
		existing := s.users[id]
		existing.Email = user.Email
		existing.FirstName = user.FirstName
		existing.LastName = user.LastName
		existing.ImageURL = user.ImageURL
		existing.UpdatedAt = now

		clone := *existing
		return &clone, nil
	}

	clone := *user
	if clone.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		clone.ID = id
	}
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now

	s.users[clone.ID] = &clone
	s.byExternalID[clone.ExternalID] = clone.ID

	result := clone
	return &result, nil
}

// GetUser retrieves a user by ID.
func (s *IdentityStore) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[userID]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// UpsertOrganization creates the organization or refreshes its name.
func (s *IdentityStore) UpsertOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	if existing, exists := s.organizations[org.ID]; exists {
		if org.Name != "" {
			existing.Name = org.Name
		}
		existing.UpdatedAt = now

		clone := *existing
		return &clone, nil
	}

	clone := *org
	clone.CreatedAt = now
	clone.UpdatedAt = now
	s.organizations[org.ID] = &clone

	result := clone
	return &result, nil
}

// GetOrganization retrieves an organization by ID.
func (s *IdentityStore) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *org
	return &clone, nil
}

// UpsertMembership creates the membership or refreshes its role.
func (s *IdentityStore) UpsertMembership(ctx context.Context, membership *models.Membership) (*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.organizations[membership.OrgID]; !exists {
		return nil, store.ErrOrganizationNotFound
	}
	if _, exists := s.users[membership.UserID]; !exists {
		return nil, store.ErrUserNotFound
	}

	now := time.Now()
	key := membershipKey{orgID: membership.OrgID, userID: membership.UserID}

	if existing, exists := s.memberships[key]; exists {
		existing.Role = membership.Role
		existing.UpdatedAt = now

		clone := *existing
		return &clone, nil
	}

	clone := *membership
	clone.CreatedAt = now
	clone.UpdatedAt = now
	s.memberships[key] = &clone

	result := clone
	return &result, nil
}

// GetMembership retrieves the membership of a user in an organization.
func (s *IdentityStore) GetMembership(ctx context.Context, orgID string, userID uuid.UUID) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.memberships[membershipKey{orgID: orgID, userID: userID}]
	if !exists {
		return nil, store.ErrMembershipNotFound
	}

	clone := *m
	return &clone, nil
}

// ListMembers returns the members of an organization.
func (s *IdentityStore) ListMembers(ctx context.Context, orgID string) ([]*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var members []*models.Member
	for key, m := range s.memberships {
		if key.orgID != orgID {
			continue
		}
		user, exists := s.users[key.userID]
		if !exists {
			continue
		}
		members = append(members, &models.Member{User: *user, Role: m.Role})
	}

	slices.SortFunc(members, func(a, b *models.Member) int {
		return cmp.Or(
			strings.Compare(a.User.FirstName, b.User.FirstName),
			strings.Compare(a.User.LastName, b.User.LastName),
			strings.Compare(a.User.Email, b.User.Email),
		)
	})

	return members, nil
}
