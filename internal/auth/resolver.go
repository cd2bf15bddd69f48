package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/sprintboard/internal/models"
	"github.com/wolfeidau/sprintboard/internal/store"
)

// Resolver turns verified token claims into a Caller, mirroring the user,
// the organization and the membership into the identity store on the way.
type Resolver struct {
	identities store.IdentityStore
}

// NewResolver creates a new identity resolver.
func NewResolver(identities store.IdentityStore) *Resolver {
	return &Resolver{identities: identities}
}

// Resolve finds or creates the user behind claims and returns the caller for
// their active organization.
//
// A token without an active organization is rejected with ErrUnauthorized.
// When the token carries no role, the stored membership decides; a user with
// neither is rejected as well.
func (r *Resolver) Resolve(ctx context.Context, claims *Claims) (*Caller, error) {
	if claims == nil || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrUnauthorized)
	}
	if claims.OrgID == "" {
		return nil, fmt.Errorf("%w: no active organization", ErrUnauthorized)
	}

	user, err := r.identities.UpsertUser(ctx, &models.User{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		FirstName:  claims.FirstName,
		LastName:   claims.LastName,
		ImageURL:   claims.ImageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	if _, err := r.identities.UpsertOrganization(ctx, &models.Organization{
		ID:   claims.OrgID,
		Name: claims.OrgName,
	}); err != nil {
		return nil, fmt.Errorf("failed to upsert organization: %w", err)
	}

	role, err := r.role(ctx, claims, user)
	if err != nil {
		return nil, err
	}

	if _, err := r.identities.UpsertMembership(ctx, &models.Membership{
		OrgID:  claims.OrgID,
		UserID: user.ID,
		Role:   role,
	}); err != nil {
		return nil, fmt.Errorf("failed to upsert membership: %w", err)
	}

	log.Debug().
		Str("user_id", user.ID.String()).
		Str("org_id", claims.OrgID).
		Str("role", string(role)).
		Msg("Resolved caller")

	return &Caller{
		UserID:     user.ID,
		ExternalID: user.ExternalID,
		OrgID:      claims.OrgID,
		Role:       role,
	}, nil
}

func (r *Resolver) role(ctx context.Context, claims *Claims, user *models.User) (models.Role, error) {
	if claims.OrgRole != "" {
		role, err := models.ParseRole(claims.OrgRole)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return role, nil
	}

	membership, err := r.identities.GetMembership(ctx, claims.OrgID, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return "", fmt.Errorf("%w: not a member of %s", ErrUnauthorized, claims.OrgID)
		}
		return "", fmt.Errorf("failed to get membership: %w", err)
	}

	return membership.Role, nil
}
