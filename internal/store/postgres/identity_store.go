package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/sprintboard/internal/models"
	"github.com/wolfeidau/sprintboard/internal/store"
)

// Verify IdentityStore implements the interface
var _ store.IdentityStore = (*IdentityStore)(nil)

// IdentityStore implements store.IdentityStore using PostgreSQL.
type IdentityStore struct {
	pool *pgxpool.Pool
}

// NewIdentityStore creates a new PostgreSQL-backed identity store.
// It shares the connection pool with other stores.
func NewIdentityStore(pool *pgxpool.Pool) *IdentityStore {
	return &IdentityStore{pool: pool}
}

const userColumns = `id, external_id, email, first_name, last_name, image_url, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.FirstName, &u.LastName, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertUser inserts the user or refreshes the profile of the existing row
// with the same external ID. Concurrent first logins converge on one row.
func (s *IdentityStore) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	id := user.ID
	if id == uuid.Nil {
		var err error
		if id, err = uuid.NewV7(); err != nil {
			return nil, fmt.Errorf("failed to generate user id: %w", err)
		}
	}

	query := `
		INSERT INTO users (id, external_id, email, first_name, last_name, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			image_url = EXCLUDED.image_url,
			updated_at = now()
		RETURNING ` + userColumns

	stored, err := scanUser(s.pool.QueryRow(ctx, query,
		id, user.ExternalID, user.Email, user.FirstName, user.LastName, user.ImageURL,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", mapPostgresError(err))
	}

	return stored, nil
}

// GetUser retrieves a user by ID.
func (s *IdentityStore) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpsertOrganization creates the organization or refreshes its name.
// An empty name never overwrites a stored one.
func (s *IdentityStore) UpsertOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	query := `
		INSERT INTO organizations (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), organizations.name),
			updated_at = now()
		RETURNING id, name, created_at, updated_at
	`

	var stored models.Organization
	err := s.pool.QueryRow(ctx, query, org.ID, org.Name).Scan(&stored.ID, &stored.Name, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert organization: %w", mapPostgresError(err))
	}

	return &stored, nil
}

// GetOrganization retrieves an organization by ID.
func (s *IdentityStore) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	var org models.Organization
	err := s.pool.QueryRow(ctx, `SELECT id, name, created_at, updated_at FROM organizations WHERE id = $1`, orgID).
		Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

// UpsertMembership creates the membership or refreshes its role.
func (s *IdentityStore) UpsertMembership(ctx context.Context, membership *models.Membership) (*models.Membership, error) {
	query := `
		INSERT INTO memberships (org_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (org_id, user_id) DO UPDATE SET
			role = EXCLUDED.role,
			updated_at = now()
		RETURNING org_id, user_id, role, created_at, updated_at
	`

	var m models.Membership
	err := s.pool.QueryRow(ctx, query, membership.OrgID, membership.UserID, membership.Role).
		Scan(&m.OrgID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	log.Debug().
		Str("org_id", m.OrgID).
		Str("user_id", m.UserID.String()).
		Str("role", string(m.Role)).
		Msg("Upserted membership")

	return &m, nil
}

// GetMembership retrieves the membership of a user in an organization.
func (s *IdentityStore) GetMembership(ctx context.Context, orgID string, userID uuid.UUID) (*models.Membership, error) {
	query := `
		SELECT org_id, user_id, role, created_at, updated_at
		FROM memberships
		WHERE org_id = $1 AND user_id = $2
	`

	var m models.Membership
	err := s.pool.QueryRow(ctx, query, orgID, userID).Scan(&m.OrgID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &m, nil
}

// ListMembers returns the members of an organization with their role.
func (s *IdentityStore) ListMembers(ctx context.Context, orgID string) ([]*models.Member, error) {
	query := `
		SELECT u.id, u.external_id, u.email, u.first_name, u.last_name, u.image_url, u.created_at, u.updated_at, m.role
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.org_id = $1
		ORDER BY u.first_name, u.last_name, u.email
	`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(
			&m.User.ID, &m.User.ExternalID, &m.User.Email, &m.User.FirstName, &m.User.LastName,
			&m.User.ImageURL, &m.User.CreatedAt, &m.User.UpdatedAt, &m.Role,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}
