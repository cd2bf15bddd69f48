package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/sprintboard/internal/auth"
	"github.com/wolfeidau/sprintboard/internal/models"
)

// CreateProjectInput holds the fields of a new project.
type CreateProjectInput struct {
	Name        string
	Key         string
	Description string
}

// CreateProject creates a project in the organization. Admin only.
// Keys are unique across all organizations; a taken key is ErrConflict.
func (s *Service) CreateProject(ctx context.Context, caller *auth.Caller, orgID string, in CreateProjectInput) (*models.Project, error) {
	if err := s.authorize(ctx, caller, orgID, auth.PermProjectsCreate); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if err := validateLength("name", name, maxProjectNameLength); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(in.Key)
	if err := validateProjectKey(key); err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	project := &models.Project{
		ID:          id,
		OrgID:       orgID,
		Name:        name,
		Key:         key,
		Description: sanitize(s.policy, in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.workflow.CreateProject(ctx, project); err != nil {
		return nil, mapStoreError(err)
	}

	s.metrics.ProjectsCreatedTotal.Add(ctx, 1)

	log.Info().
		Str("project_id", project.ID.String()).
		Str("org_id", orgID).
		Str("key", key).
		Msg("Created project")

	return project, nil
}

// GetProject returns the project board: the project, its sprints newest
// first, and each sprint's issues in display order with assignees.
func (s *Service) GetProject(ctx context.Context, caller *auth.Caller, orgID string, projectID uuid.UUID) (*models.ProjectBoard, error) {
	if err := s.authorize(ctx, caller, orgID, auth.PermProjectsRead); err != nil {
		return nil, err
	}

	board, err := s.workflow.GetProjectBoard(ctx, orgID, projectID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	return board, nil
}

// ListProjects returns the projects of the organization, newest first.
func (s *Service) ListProjects(ctx context.Context, caller *auth.Caller, orgID string) ([]*models.Project, error) {
	if err := s.authorize(ctx, caller, orgID, auth.PermProjectsRead); err != nil {
		return nil, err
	}

	projects, err := s.workflow.ListProjects(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}
