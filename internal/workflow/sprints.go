package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/sprintboard/internal/auth"
	"github.com/wolfeidau/sprintboard/internal/models"
)

// CreateSprintInput holds the fields of a new sprint.
type CreateSprintInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// CreateSprint creates a planned sprint in a project of the organization. Admin only.
func (s *Service) CreateSprint(ctx context.Context, caller *auth.Caller, orgID string, projectID uuid.UUID, in CreateSprintInput) (*models.Sprint, error) {
	if err := s.authorize(ctx, caller, orgID, auth.PermSprintsCreate); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if err := validateLength("name", name, maxSprintNameLength); err != nil {
		return nil, err
	}

	if err := validateSprintDates(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	sprint := &models.Sprint{
		ID:        id,
		ProjectID: projectID,
		Name:      name,
		StartDate: in.StartDate.UTC(),
		EndDate:   in.EndDate.UTC(),
		Status:    models.SprintStatusPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.workflow.CreateSprint(ctx, orgID, sprint); err != nil {
		return nil, mapStoreError(err)
	}

	s.metrics.SprintsCreatedTotal.Add(ctx, 1)

	log.Info().
		Str("sprint_id", sprint.ID.String()).
		Str("project_id", projectID.String()).
		Msg("Created sprint")

	return sprint, nil
}

// UpdateSprintStatus moves a sprint to another lifecycle state. Admin only.
// Any transition between the defined states is allowed.
func (s *Service) UpdateSprintStatus(ctx context.Context, caller *auth.Caller, orgID string, sprintID uuid.UUID, status models.SprintStatus) (*models.Sprint, error) {
	if err := s.authorize(ctx, caller, orgID, auth.PermSprintsUpdateStatus); err != nil {
		return nil, err
	}

	if !status.Valid() {
		return nil, invalid("status", "unknown sprint status %q", status)
	}

	sprint, err := s.workflow.UpdateSprintStatus(ctx, orgID, sprintID, status)
	if err != nil {
		return nil, mapStoreError(err)
	}

	log.Info().
		Str("sprint_id", sprintID.String()).
		Str("status", string(status)).
		Msg("Updated sprint status")

	return sprint, nil
}
