package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/sprintboard/internal/models"
	"github.com/wolfeidau/sprintboard/internal/ordering"
	"github.com/wolfeidau/sprintboard/internal/store"
)

// Verify WorkflowStore implements the interface
var _ store.WorkflowStore = (*WorkflowStore)(nil)

// WorkflowStore implements store.WorkflowStore using in-memory storage.
// A single lock guards all projects, sprints and issues, so every multi-row
// write such as MoveIssue is atomic.
// This implementation is for testing and development only - data is lost on restart.
type WorkflowStore struct {
	mu sync.RWMutex

	identities *IdentityStore

	projects    map[uuid.UUID]*models.Project // project_id -> Project
	projectKeys map[string]uuid.UUID          // key -> project_id
	sprints     map[uuid.UUID]*models.Sprint  // sprint_id -> Sprint
	issues      map[uuid.UUID]*models.Issue   // issue_id -> Issue
}

// NewWorkflowStore creates a new in-memory workflow store.
// Assignees are resolved against identities.
func NewWorkflowStore(identities *IdentityStore) *WorkflowStore {
	return &WorkflowStore{
		identities:  identities,
		projects:    make(map[uuid.UUID]*models.Project),
		projectKeys: make(map[string]uuid.UUID),
		sprints:     make(map[uuid.UUID]*models.Sprint),
		issues:      make(map[uuid.UUID]*models.Issue),
	}
}

// CreateProject creates a new project in memory.
func (s *WorkflowStore) CreateProject(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.projectKeys[project.Key]; exists {
		return store.ErrProjectKeyExists
	}

	clone := *project
	s.projects[project.ID] = &clone
	s.projectKeys[project.Key] = project.ID

	return nil
}

// ListProjects returns the projects of an organization, newest first.
func (s *WorkflowStore) ListProjects(ctx context.Context, orgID string) ([]*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Project
	for _, p := range s.projects {
		if p.OrgID == orgID {
			clone := *p
			result = append(result, &clone)
		}
	}

	slices.SortFunc(result, func(a, b *models.Project) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), slices.Compare(b.ID[:], a.ID[:]))
	})

	return result, nil
}

// GetProjectBoard returns a project with its sprints and issues.
func (s *WorkflowStore) GetProjectBoard(ctx context.Context, orgID string, projectID uuid.UUID) (*models.ProjectBoard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, err := s.projectInOrg(orgID, projectID)
	if err != nil {
		return nil, err
	}

	board := &models.ProjectBoard{Project: *project}

	for _, sprint := range s.sprints {
		if sprint.ProjectID != projectID {
			continue
		}
		board.Sprints = append(board.Sprints, &models.SprintBoard{Sprint: *sprint})
	}

	slices.SortFunc(board.Sprints, func(a, b *models.SprintBoard) int {
		return cmp.Or(b.Sprint.CreatedAt.Compare(a.Sprint.CreatedAt), slices.Compare(b.Sprint.ID[:], a.Sprint.ID[:]))
	})

	for _, sb := range board.Sprints {
		for _, issue := range s.issues {
			if issue.SprintID == sb.Sprint.ID {
				sb.Issues = append(sb.Issues, s.withAssignee(ctx, issue))
			}
		}
		ordering.Sort(sb.Issues)
	}

	return board, nil
}

// CreateSprint creates a sprint under an existing project of the organization.
func (s *WorkflowStore) CreateSprint(ctx context.Context, orgID string, sprint *models.Sprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.projectInOrg(orgID, sprint.ProjectID); err != nil {
		return err
	}

	clone := *sprint
	s.sprints[sprint.ID] = &clone

	return nil
}

// GetSprint returns a sprint of the organization.
func (s *WorkflowStore) GetSprint(ctx context.Context, orgID string, sprintID uuid.UUID) (*models.Sprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sprint, err := s.sprintInOrg(orgID, sprintID)
	if err != nil {
		return nil, err
	}

	clone := *sprint
	return &clone, nil
}

// UpdateSprintStatus sets the status of a sprint.
func (s *WorkflowStore) UpdateSprintStatus(ctx context.Context, orgID string, sprintID uuid.UUID, status models.SprintStatus) (*models.Sprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sprint, err := s.sprintInOrg(orgID, sprintID)
	if err != nil {
		return nil, err
	}

	sprint.Status = status
	sprint.UpdatedAt = time.Now()

	clone := *sprint
	return &clone, nil
}

// CreateIssue appends an issue to the bottom of its column.
func (s *WorkflowStore) CreateIssue(ctx context.Context, orgID string, issue *models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.sprintInOrg(orgID, issue.SprintID); err != nil {
		return err
	}

	var orders []int
	for _, slot := range s.column(issue.SprintID, issue.Status) {
		orders = append(orders, slot.Order)
	}
	order := ordering.Next(orders)
	if err := ordering.Validate(order); err != nil {
		return err
	}
	issue.Order = order

	clone := issue.Clone()
	clone.Assignee = nil
	s.issues[issue.ID] = clone

	log.Debug().
		Str("issue_id", issue.ID.String()).
		Str("status", string(issue.Status)).
		Int("order", issue.Order).
		Msg("Created issue")

	return nil
}

// GetIssue returns an issue of the organization.
func (s *WorkflowStore) GetIssue(ctx context.Context, orgID string, issueID uuid.UUID) (*models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issue, err := s.issueInOrg(orgID, issueID)
	if err != nil {
		return nil, err
	}

	return s.withAssignee(ctx, issue), nil
}

// UpdateIssue overwrites the editable fields of an issue.
func (s *WorkflowStore) UpdateIssue(ctx context.Context, orgID string, issueID uuid.UUID, update store.IssueUpdate) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, err := s.issueInOrg(orgID, issueID)
	if err != nil {
		return nil, err
	}

	issue.Title = update.Title
	issue.Description = update.Description
	issue.Priority = update.Priority
	issue.AssigneeID = nil
	if update.AssigneeID != nil {
		id := *update.AssigneeID
		issue.AssigneeID = &id
	}
	issue.UpdatedAt = time.Now()

	return s.withAssignee(ctx, issue), nil
}

// UpdateIssueStatus changes the status of an issue, keeping its order.
func (s *WorkflowStore) UpdateIssueStatus(ctx context.Context, orgID string, issueID uuid.UUID, status models.IssueStatus) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, err := s.issueInOrg(orgID, issueID)
	if err != nil {
		return nil, err
	}

	issue.Status = status
	issue.UpdatedAt = time.Now()

	return s.withAssignee(ctx, issue), nil
}

// MoveIssue places an issue at order in a column, shifting the siblings below it.
func (s *WorkflowStore) MoveIssue(ctx context.Context, orgID string, issueID uuid.UUID, status models.IssueStatus, order int) (*store.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, err := s.issueInOrg(orgID, issueID)
	if err != nil {
		return nil, err
	}

	shifted, err := ordering.Shift(s.column(issue.SprintID, status), issue.ID, order)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, slot := range shifted {
		sibling := s.issues[slot.ID]
		sibling.Order = slot.Order
		sibling.UpdatedAt = now
	}

	issue.Status = status
	issue.Order = order
	issue.UpdatedAt = now

	return &store.MoveResult{Issue: s.withAssignee(ctx, issue), Shifted: len(shifted)}, nil
}

// column returns the slots of a (sprint, status) column. Callers must hold the lock.
func (s *WorkflowStore) column(sprintID uuid.UUID, status models.IssueStatus) []ordering.Slot {
	var slots []ordering.Slot
	for _, issue := range s.issues {
		if issue.SprintID == sprintID && issue.Status == status {
			slots = append(slots, ordering.Slot{ID: issue.ID, Order: issue.Order})
		}
	}
	return slots
}

func (s *WorkflowStore) projectInOrg(orgID string, projectID uuid.UUID) (*models.Project, error) {
	project, exists := s.projects[projectID]
	if !exists || project.OrgID != orgID {
		return nil, store.ErrProjectNotFound
	}
	return project, nil
}

func (s *WorkflowStore) sprintInOrg(orgID string, sprintID uuid.UUID) (*models.Sprint, error) {
	sprint, exists := s.sprints[sprintID]
	if !exists {
		return nil, store.ErrSprintNotFound
	}
	if _, err := s.projectInOrg(orgID, sprint.ProjectID); err != nil {
		return nil, store.ErrSprintNotFound
	}
	return sprint, nil
}

func (s *WorkflowStore) issueInOrg(orgID string, issueID uuid.UUID) (*models.Issue, error) {
	issue, exists := s.issues[issueID]
	if !exists {
		return nil, store.ErrIssueNotFound
	}
	if _, err := s.sprintInOrg(orgID, issue.SprintID); err != nil {
		return nil, store.ErrIssueNotFound
	}
	return issue, nil
}

// withAssignee clones an issue and resolves its assignee.
func (s *WorkflowStore) withAssignee(ctx context.Context, issue *models.Issue) *models.Issue {
	clone := issue.Clone()
	if clone.AssigneeID != nil && s.identities != nil {
		if user, err := s.identities.GetUser(ctx, *clone.AssigneeID); err == nil {
			clone.Assignee = user
		}
	}
	return clone
}
