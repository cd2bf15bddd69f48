package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/wolfeidau/sprintboard/internal/models"
)

// Sentinel errors for common error conditions
var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectKeyExists     = errors.New("project key already exists")
	ErrSprintNotFound       = errors.New("sprint not found")
	ErrIssueNotFound        = errors.New("issue not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrMembershipNotFound   = errors.New("membership not found")
)

// IssueUpdate carries the editable fields of an issue.
// Status and order are deliberately absent, they change through
// UpdateIssueStatus and MoveIssue only.
type IssueUpdate struct {
	Title       string
	Description string
	Priority    models.Priority
	AssigneeID  *uuid.UUID // nil clears the assignee
}

// MoveResult is the outcome of moving an issue inside a sprint.
type MoveResult struct {
	Issue *models.Issue

	// Shifted is the number of sibling issues in the destination column
	// whose order was incremented to make room.
	Shifted int
}
