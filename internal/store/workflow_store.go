package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wolfeidau/sprintboard/internal/models"
)

// WorkflowStore defines the storage operations for projects, sprints and issues.
//
// Every lookup is scoped by organization: an entity whose owning chain
// (issue -> sprint -> project -> organization) does not resolve to orgID is
// reported as not found, exactly as if it did not exist.
type WorkflowStore interface {
	// CreateProject creates a new project.
	// Returns ErrProjectKeyExists if any project in any organization already uses the key.
	CreateProject(ctx context.Context, project *models.Project) error

	// ListProjects returns the projects of an organization, newest first.
	ListProjects(ctx context.Context, orgID string) ([]*models.Project, error)

	// GetProjectBoard returns a project with its sprints (newest first) and
	// each sprint's issues sorted by order, creation time and ID, with assignees resolved.
	// Returns ErrProjectNotFound if the project does not belong to orgID.
	GetProjectBoard(ctx context.Context, orgID string, projectID uuid.UUID) (*models.ProjectBoard, error)

	// CreateSprint creates a sprint under sprint.ProjectID.
	// Returns ErrProjectNotFound if the project does not belong to orgID.
	CreateSprint(ctx context.Context, orgID string, sprint *models.Sprint) error

	// GetSprint returns a sprint without its issues.
	// Returns ErrSprintNotFound if the sprint does not belong to orgID.
	GetSprint(ctx context.Context, orgID string, sprintID uuid.UUID) (*models.Sprint, error)

	// UpdateSprintStatus sets the status of a sprint.
	// Returns ErrSprintNotFound if the sprint does not belong to orgID.
	UpdateSprintStatus(ctx context.Context, orgID string, sprintID uuid.UUID, status models.SprintStatus) (*models.Sprint, error)

	// CreateIssue creates an issue and assigns its order by appending it to the
	// bottom of its (sprint, status) column. The assigned order is written back to issue.
	// Returns ErrSprintNotFound if the sprint does not belong to orgID.
	CreateIssue(ctx context.Context, orgID string, issue *models.Issue) error

	// GetIssue returns an issue with its assignee resolved.
	// Returns ErrIssueNotFound if the issue does not belong to orgID.
	GetIssue(ctx context.Context, orgID string, issueID uuid.UUID) (*models.Issue, error)

	// UpdateIssue overwrites the editable fields of an issue. Last write wins.
	// Returns ErrIssueNotFound if the issue does not belong to orgID.
	UpdateIssue(ctx context.Context, orgID string, issueID uuid.UUID, update IssueUpdate) (*models.Issue, error)

	// UpdateIssueStatus changes only the status of an issue, its order is kept as is.
	// Returns ErrIssueNotFound if the issue does not belong to orgID.
	UpdateIssueStatus(ctx context.Context, orgID string, issueID uuid.UUID, status models.IssueStatus) (*models.Issue, error)

	// MoveIssue places an issue at order in the status column of its sprint and,
	// atomically with that write, increments the order of every other issue in
	// the destination column whose order is >= order. The source column is not touched.
	// Returns ErrIssueNotFound if the issue does not belong to orgID.
	MoveIssue(ctx context.Context, orgID string, issueID uuid.UUID, status models.IssueStatus, order int) (*MoveResult, error)
}
