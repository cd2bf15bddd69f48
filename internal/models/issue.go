package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IssueStatus is the workflow column an issue sits in.
type IssueStatus string

const (
	IssueStatusTodo       IssueStatus = "TODO"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusInReview   IssueStatus = "IN_REVIEW"
	IssueStatusDone       IssueStatus = "DONE"
)

// IssueStatuses lists the workflow columns in board order.
var IssueStatuses = []IssueStatus{
	IssueStatusTodo,
	IssueStatusInProgress,
	IssueStatusInReview,
	IssueStatusDone,
}

// ParseIssueStatus converts a string into an IssueStatus.
func ParseIssueStatus(s string) (IssueStatus, error) {
	status := IssueStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown issue status %q", s)
	}
	return status, nil
}

// Valid reports whether s is one of the defined issue statuses.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusTodo, IssueStatusInProgress, IssueStatusInReview, IssueStatusDone:
		return true
	default:
		return false
	}
}

// Priority of an issue.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// ParsePriority converts a string into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Issue is a unit of work inside a sprint.
//
// Order is the issue's display position inside its (SprintID, Status) column.
// Orders are positive; after an uncontended write they are unique per column,
// but gaps are allowed and never compacted.
type Issue struct {
	ID          uuid.UUID // UUIDv7
	SprintID    uuid.UUID
	Title       string
	Description string
	Priority    Priority
	Status      IssueStatus
	Order       int
	AssigneeID  *uuid.UUID
	Assignee    *User // resolved on reads, nil when unassigned
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy of the issue.
func (i *Issue) Clone() *Issue {
	clone := *i
	if i.AssigneeID != nil {
		id := *i.AssigneeID
		clone.AssigneeID = &id
	}
	if i.Assignee != nil {
		u := *i.Assignee
		clone.Assignee = &u
	}
	return &clone
}
