package workflow

import (
	"context"
	"fmt"

	"github.com/wolfeidau/sprintboard/internal/auth"
	"github.com/wolfeidau/sprintboard/internal/models"
)

// ListOrgMembers returns the users of the organization with their roles.
func (s *Service) ListOrgMembers(ctx context.Context, caller *auth.Caller, orgID string) ([]*models.Member, error) {
	if err := s.authorize(ctx, caller, orgID, auth.PermMembersList); err != nil {
		return nil, err
	}

	members, err := s.identities.ListMembers(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

// WhoAmI returns the calling user, their organization and role.
func (s *Service) WhoAmI(ctx context.Context, caller *auth.Caller) (*models.Member, *models.Organization, error) {
	if caller == nil || caller.OrgID == "" {
		return nil, nil, fmt.Errorf("%w: not authenticated", ErrUnauthorized)
	}

	user, err := s.identities.GetUser(ctx, caller.UserID)
	if err != nil {
		return nil, nil, mapStoreError(err)
	}

	org, err := s.identities.GetOrganization(ctx, caller.OrgID)
	if err != nil {
		return nil, nil, mapStoreError(err)
	}

	return &models.Member{User: *user, Role: caller.Role}, org, nil
}
