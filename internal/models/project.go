package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Project belongs to exactly one organization and owns its sprints.
// Key is a short uppercase identifier that is unique across all organizations.
type Project struct {
	ID          uuid.UUID // UUIDv7
	OrgID       string
	Name        string
	Key         string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectBoard is a project with its sprints and their issues, as shown on a board.
type ProjectBoard struct {
	Project Project
	Sprints []*SprintBoard
}

// SprintBoard is a sprint with its issues sorted for display.
type SprintBoard struct {
	Sprint Sprint
	Issues []*Issue
}

// SprintStatus is the lifecycle state of a sprint.
type SprintStatus string

const (
	SprintStatusPlanned   SprintStatus = "PLANNED"
	SprintStatusActive    SprintStatus = "ACTIVE"
	SprintStatusCompleted SprintStatus = "COMPLETED"
)

// ParseSprintStatus converts a string into a SprintStatus.
func ParseSprintStatus(s string) (SprintStatus, error) {
	status := SprintStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown sprint status %q", s)
	}
	return status, nil
}

// Valid reports whether s is one of the defined sprint statuses.
func (s SprintStatus) Valid() bool {
	switch s {
	case SprintStatusPlanned, SprintStatusActive, SprintStatusCompleted:
		return true
	default:
		return false
	}
}

// Sprint is a time-boxed iteration of a project.
type Sprint struct {
	ID        uuid.UUID // UUIDv7
	ProjectID uuid.UUID
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    SprintStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
