// Package workflow implements the project tracking operations: projects,
// sprints and the issue ordering and status workflow.
//
// Every operation takes the calling identity and the organization explicitly.
// The order of checks is always the same: authorization, input validation,
// then tenant scoped lookups and writes. Nothing is written before all
// checks pass.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/wolfeidau/sprintboard/internal/auth"
	"github.com/wolfeidau/sprintboard/internal/store"
	"github.com/wolfeidau/sprintboard/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Service runs workflow operations against the stores.
type Service struct {
	workflow   store.WorkflowStore
	identities store.IdentityStore
	policy     *bluemonday.Policy
	metrics    *telemetry.Metrics
	now        func() time.Time
}

// NewService creates a new workflow service.
func NewService(workflow store.WorkflowStore, identities store.IdentityStore) *Service {
	return &Service{
		workflow:   workflow,
		identities: identities,
		policy:     descriptionPolicy(),
		metrics:    telemetry.GetMetrics(),
		now:        time.Now,
	}
}

// authorize runs the authorization gate for perm and checks that the caller
// is acting inside their own organization. A foreign organization is
// reported as not found.
func (s *Service) authorize(ctx context.Context, caller *auth.Caller, orgID string, perm auth.Permission) error {
	if err := auth.Require(caller, perm); err != nil {
		s.metrics.AuthzDeniedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("permission", string(perm))))
		return err
	}

	if orgID != caller.OrgID {
		return fmt.Errorf("%w: organization %s", ErrNotFound, orgID)
	}

	return nil
}

// checkAssignee verifies that an assignee is a member of the organization.
func (s *Service) checkAssignee(ctx context.Context, orgID string, assigneeID *uuid.UUID) error {
	if assigneeID == nil {
		return nil
	}

	if _, err := s.identities.GetMembership(ctx, orgID, *assigneeID); err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return invalid("assigneeId", "must be a member of the organization")
		}
		return fmt.Errorf("failed to check assignee: %w", err)
	}

	return nil
}

func newID() (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to generate id: %w", err)
	}
	return id, nil
}
