package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/sprintboard/internal/auth"
	"github.com/wolfeidau/sprintboard/internal/models"
	"github.com/wolfeidau/sprintboard/internal/ordering"
	"github.com/wolfeidau/sprintboard/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CreateIssueInput holds the fields of a new issue.
// Empty priority defaults to MEDIUM, empty status to TODO.
type CreateIssueInput struct {
	Title       string
	Description string
	Priority    models.Priority
	Status      models.IssueStatus
	AssigneeID  *uuid.UUID
}

// UpdateIssueInput holds the editable fields of an issue. A nil AssigneeID
// clears the assignee.
type UpdateIssueInput struct {
	Title       string
	Description string
	Priority    models.Priority
	AssigneeID  *uuid.UUID
}

// CreateIssue creates an issue at the bottom of its status column.
func (s *Service) CreateIssue(ctx context.Context, caller *auth.Caller, orgID string, sprintID uuid.UUID, in CreateIssueInput) (*models.Issue, error) {
	if err := s.authorize(ctx, caller, orgID, auth.PermIssuesCreate); err != nil {
		return nil, err
	}

	if _, err := s.workflow.GetSprint(ctx, orgID, sprintID); err != nil {
		return nil, mapStoreError(err)
	}

	title := strings.TrimSpace(in.Title)
	if err := validateLength("title", title, maxIssueTitleLength); err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, invalid("priority", "unknown priority %q", priority)
	}

	status := in.Status
	if status == "" {
		status = models.IssueStatusTodo
	}
	if !status.Valid() {
		return nil, invalid("status", "unknown issue status %q", status)
	}

	if err := s.checkAssignee(ctx, orgID, in.AssigneeID); err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	issue := &models.Issue{
		ID:          id,
		SprintID:    sprintID,
		Title:       title,
		Description: sanitize(s.policy, in.Description),
		Priority:    priority,
		Status:      status,
		AssigneeID:  in.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.workflow.CreateIssue(ctx, orgID, issue); err != nil {
		if errors.Is(err, ordering.ErrInvalidOrder) {
			return nil, invalid("status", "the %s column has no room left: %s", status, err)
		}
		return nil, mapStoreError(err)
	}

	s.metrics.IssuesCreatedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))

	return s.workflow.GetIssue(ctx, orgID, issue.ID)
}

// UpdateIssue overwrites the title, description, priority and assignee of an
// issue. Status and order are left alone. Concurrent edits are last write wins.
func (s *Service) UpdateIssue(ctx context.Context, caller *auth.Caller, orgID string, issueID uuid.UUID, in UpdateIssueInput) (*models.Issue, error) {
	if err := s.authorize(ctx, caller, orgID, auth.PermIssuesUpdate); err != nil {
		return nil, err
	}

	if err := s.resolveIssue(ctx, orgID, issueID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if err := validateLength("title", title, maxIssueTitleLength); err != nil {
		return nil, err
	}

	if !in.Priority.Valid() {
		return nil, invalid("priority", "unknown priority %q", in.Priority)
	}

	if err := s.checkAssignee(ctx, orgID, in.AssigneeID); err != nil {
		return nil, err
	}

	issue, err := s.workflow.UpdateIssue(ctx, orgID, issueID, store.IssueUpdate{
		Title:       title,
		Description: sanitize(s.policy, in.Description),
		Priority:    in.Priority,
		AssigneeID:  in.AssigneeID,
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.metrics.IssuesUpdatedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "fields")))

	return issue, nil
}

// UpdateIssueStatus moves an issue to another status column without a
// position. The issue keeps its order value, which may collide with an
// issue already in the destination column; such ties fall back to creation
// time when sorted.
func (s *Service) UpdateIssueStatus(ctx context.Context, caller *auth.Caller, orgID string, issueID uuid.UUID, status models.IssueStatus) (*models.Issue, error) {
	if err := s.authorize(ctx, caller, orgID, auth.PermIssuesUpdate); err != nil {
		return nil, err
	}

	if err := s.resolveIssue(ctx, orgID, issueID); err != nil {
		return nil, err
	}

	if !status.Valid() {
		return nil, invalid("status", "unknown issue status %q", status)
	}

	issue, err := s.workflow.UpdateIssueStatus(ctx, orgID, issueID, status)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.metrics.IssuesUpdatedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "status")))

	return issue, nil
}

// UpdateIssueOrder moves an issue to newOrder in the newStatus column of its
// sprint, shifting every other issue at or below that position down by one.
// The move and the shift commit together or not at all. The source column
// keeps its gap.
func (s *Service) UpdateIssueOrder(ctx context.Context, caller *auth.Caller, orgID string, issueID uuid.UUID, newStatus models.IssueStatus, newOrder int) (*models.Issue, error) {
	if err := s.authorize(ctx, caller, orgID, auth.PermIssuesMove); err != nil {
		return nil, err
	}

	if err := s.resolveIssue(ctx, orgID, issueID); err != nil {
		return nil, err
	}

	if !newStatus.Valid() {
		return nil, invalid("newStatus", "unknown issue status %q", newStatus)
	}

	if err := ordering.Validate(newOrder); err != nil {
		return nil, invalid("newOrder", "%s", err)
	}

	started := time.Now()

	result, err := s.workflow.MoveIssue(ctx, orgID, issueID, newStatus, newOrder)
	if err != nil {
		if errors.Is(err, ordering.ErrInvalidOrder) {
			return nil, invalid("newOrder", "%s", err)
		}
		return nil, mapStoreError(err)
	}

	s.metrics.IssueMovesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(newStatus))))
	s.metrics.IssuesShiftedTotal.Add(ctx, int64(result.Shifted))
	s.metrics.IssueMoveDuration.Record(ctx, float64(time.Since(started).Milliseconds()))

	log.Info().
		Str("issue_id", issueID.String()).
		Str("status", string(newStatus)).
		Int("order", newOrder).
		Int("shifted", result.Shifted).
		Msg("Moved issue")

	return result.Issue, nil
}

// resolveIssue checks that an issue belongs to the organization. It runs
// before input validation so a foreign issue is reported as not found
// whatever the input.
func (s *Service) resolveIssue(ctx context.Context, orgID string, issueID uuid.UUID) error {
	if _, err := s.workflow.GetIssue(ctx, orgID, issueID); err != nil {
		return mapStoreError(err)
	}
	return nil
}
