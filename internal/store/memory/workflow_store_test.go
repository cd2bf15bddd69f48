package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/sprintboard/internal/models"
	"github.com/wolfeidau/sprintboard/internal/ordering"
	"github.com/wolfeidau/sprintboard/internal/store"
)

type fixture struct {
	store    *WorkflowStore
	identity *IdentityStore
	project  *models.Project
	sprint   *models.Sprint
}

func newFixture(t *testing.T, orgID string) *fixture {
	t.Helper()
	ctx := context.Background()

	identity := NewIdentityStore()
	s := NewWorkflowStore(identity)

	now := time.Now()
	project := &models.Project{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     orgID,
		Name:      "Platform",
		Key:       "PLAT" + orgID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateProject(ctx, project))

	sprint := &models.Sprint{
		ID:        uuid.Must(uuid.NewV7()),
		ProjectID: project.ID,
		Name:      "Sprint 1",
		StartDate: now,
		EndDate:   now.Add(14 * 24 * time.Hour),
		Status:    models.SprintStatusPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateSprint(ctx, orgID, sprint))

	return &fixture{store: s, identity: identity, project: project, sprint: sprint}
}

func (f *fixture) createIssue(t *testing.T, orgID, title string, status models.IssueStatus) *models.Issue {
	t.Helper()
	issue := &models.Issue{
		ID:        uuid.Must(uuid.NewV7()),
		SprintID:  f.sprint.ID,
		Title:     title,
		Priority:  models.PriorityMedium,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, f.store.CreateIssue(context.Background(), orgID, issue))
	return issue
}

func TestWorkflowStore_CreateIssueAppends(t *testing.T) {
	f := newFixture(t, "org_a")

	a := f.createIssue(t, "org_a", "A", models.IssueStatusTodo)
	b := f.createIssue(t, "org_a", "B", models.IssueStatusTodo)
	c := f.createIssue(t, "org_a", "C", models.IssueStatusTodo)
	d := f.createIssue(t, "org_a", "D", models.IssueStatusTodo)
	first := f.createIssue(t, "org_a", "E", models.IssueStatusInReview)

	require.Equal(t, 1, a.Order)
	require.Equal(t, 2, b.Order)
	require.Equal(t, 3, c.Order)
	require.Equal(t, 4, d.Order)
	require.Equal(t, 1, first.Order, "each column has its own sequence")
}

func TestWorkflowStore_MoveIssueScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "org_a")

	a := f.createIssue(t, "org_a", "A", models.IssueStatusTodo)
	b := f.createIssue(t, "org_a", "B", models.IssueStatusTodo)
	c := f.createIssue(t, "org_a", "C", models.IssueStatusInProgress)

	result, err := f.store.MoveIssue(ctx, "org_a", b.ID, models.IssueStatusInProgress, 1)
	require.NoError(t, err)
	require.Equal(t, 1, result.Shifted)
	require.Equal(t, models.IssueStatusInProgress, result.Issue.Status)
	require.Equal(t, 1, result.Issue.Order)

	gotA, err := f.store.GetIssue(ctx, "org_a", a.ID)
	require.NoError(t, err)
	require.Equal(t, models.IssueStatusTodo, gotA.Status)
	require.Equal(t, 1, gotA.Order, "the source column is not compacted")

	gotC, err := f.store.GetIssue(ctx, "org_a", c.ID)
	require.NoError(t, err)
	require.Equal(t, models.IssueStatusInProgress, gotC.Status)
	require.Equal(t, 2, gotC.Order)

	board, err := f.store.GetProjectBoard(ctx, "org_a", f.project.ID)
	require.NoError(t, err)
	require.Len(t, board.Sprints, 1)

	var titles []string
	for _, issue := range board.Sprints[0].Issues {
		if issue.Status == models.IssueStatusInProgress {
			titles = append(titles, issue.Title)
		}
	}
	require.Equal(t, []string{"B", "C"}, titles)
}

func TestWorkflowStore_MoveWithinColumn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "org_a")

	a := f.createIssue(t, "org_a", "A", models.IssueStatusTodo)
	b := f.createIssue(t, "org_a", "B", models.IssueStatusTodo)
	c := f.createIssue(t, "org_a", "C", models.IssueStatusTodo)

	// drag C to the top
	_, err := f.store.MoveIssue(ctx, "org_a", c.ID, models.IssueStatusTodo, 1)
	require.NoError(t, err)

	orders := map[uuid.UUID]int{}
	for _, id := range []uuid.UUID{a.ID, b.ID, c.ID} {
		issue, err := f.store.GetIssue(ctx, "org_a", id)
		require.NoError(t, err)
		orders[id] = issue.Order
	}

	require.Equal(t, 1, orders[c.ID])
	require.Equal(t, 2, orders[a.ID])
	require.Equal(t, 3, orders[b.ID])
}

func TestWorkflowStore_MoveBeyondEndIsNotClamped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "org_a")

	f.createIssue(t, "org_a", "A", models.IssueStatusDone)
	b := f.createIssue(t, "org_a", "B", models.IssueStatusTodo)

	result, err := f.store.MoveIssue(ctx, "org_a", b.ID, models.IssueStatusDone, 10)
	require.NoError(t, err)
	require.Equal(t, 10, result.Issue.Order)
	require.Zero(t, result.Shifted)
}

func TestWorkflowStore_OrderBounds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "org_a")

	a := f.createIssue(t, "org_a", "A", models.IssueStatusTodo)
	b := f.createIssue(t, "org_a", "B", models.IssueStatusTodo)

	_, err := f.store.MoveIssue(ctx, "org_a", b.ID, models.IssueStatusTodo, ordering.MaxOrder)
	require.NoError(t, err)

	_, err = f.store.MoveIssue(ctx, "org_a", a.ID, models.IssueStatusTodo, 1)
	require.ErrorIs(t, err, ordering.ErrInvalidOrder)

	err = f.store.CreateIssue(ctx, "org_a", &models.Issue{
		ID:       uuid.Must(uuid.NewV7()),
		SprintID: f.sprint.ID,
		Title:    "C",
		Priority: models.PriorityMedium,
		Status:   models.IssueStatusTodo,
	})
	require.ErrorIs(t, err, ordering.ErrInvalidOrder)

	got, err := f.store.GetIssue(ctx, "org_a", a.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Order)

	got, err = f.store.GetIssue(ctx, "org_a", b.ID)
	require.NoError(t, err)
	require.Equal(t, ordering.MaxOrder, got.Order)
}

func TestWorkflowStore_UpdateIssueStatusKeepsOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "org_a")

	f.createIssue(t, "org_a", "A", models.IssueStatusTodo)
	b := f.createIssue(t, "org_a", "B", models.IssueStatusTodo)

	updated, err := f.store.UpdateIssueStatus(ctx, "org_a", b.ID, models.IssueStatusDone)
	require.NoError(t, err)
	require.Equal(t, models.IssueStatusDone, updated.Status)
	require.Equal(t, 2, updated.Order)
}

func TestWorkflowStore_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "org_a")
	issue := f.createIssue(t, "org_a", "A", models.IssueStatusTodo)

	_, err := f.store.GetProjectBoard(ctx, "org_b", f.project.ID)
	require.ErrorIs(t, err, store.ErrProjectNotFound)

	_, err = f.store.GetIssue(ctx, "org_b", issue.ID)
	require.ErrorIs(t, err, store.ErrIssueNotFound)

	_, err = f.store.MoveIssue(ctx, "org_b", issue.ID, models.IssueStatusDone, 1)
	require.ErrorIs(t, err, store.ErrIssueNotFound)

	_, err = f.store.UpdateIssue(ctx, "org_b", issue.ID, store.IssueUpdate{Title: "hijack", Priority: models.PriorityLow})
	require.ErrorIs(t, err, store.ErrIssueNotFound)

	_, err = f.store.UpdateSprintStatus(ctx, "org_b", f.sprint.ID, models.SprintStatusActive)
	require.ErrorIs(t, err, store.ErrSprintNotFound)

	_, err = f.store.GetSprint(ctx, "org_b", f.sprint.ID)
	require.ErrorIs(t, err, store.ErrSprintNotFound)

	sprint, err := f.store.GetSprint(ctx, "org_a", f.sprint.ID)
	require.NoError(t, err)
	require.Equal(t, f.sprint.Name, sprint.Name)

	err = f.store.CreateSprint(ctx, "org_b", &models.Sprint{ID: uuid.Must(uuid.NewV7()), ProjectID: f.project.ID})
	require.ErrorIs(t, err, store.ErrProjectNotFound)

	projects, err := f.store.ListProjects(ctx, "org_b")
	require.NoError(t, err)
	require.Empty(t, projects)

	// nothing was modified
	got, err := f.store.GetIssue(ctx, "org_a", issue.ID)
	require.NoError(t, err)
	require.Equal(t, "A", got.Title)
	require.Equal(t, models.IssueStatusTodo, got.Status)
}

func TestWorkflowStore_ProjectKeyIsGloballyUnique(t *testing.T) {
	ctx := context.Background()
	s := NewWorkflowStore(NewIdentityStore())

	first := &models.Project{ID: uuid.Must(uuid.NewV7()), OrgID: "org_a", Name: "One", Key: "WEB"}
	require.NoError(t, s.CreateProject(ctx, first))

	second := &models.Project{ID: uuid.Must(uuid.NewV7()), OrgID: "org_b", Name: "Two", Key: "WEB"}
	require.ErrorIs(t, s.CreateProject(ctx, second), store.ErrProjectKeyExists)

	projects, err := s.ListProjects(ctx, "org_a")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, first.ID, projects[0].ID)
}

func TestWorkflowStore_UpdateIssueResolvesAssignee(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "org_a")
	issue := f.createIssue(t, "org_a", "A", models.IssueStatusTodo)

	user, err := f.identity.UpsertUser(ctx, &models.User{ExternalID: "user_1", Email: "ana@example.com", FirstName: "Ana"})
	require.NoError(t, err)

	updated, err := f.store.UpdateIssue(ctx, "org_a", issue.ID, store.IssueUpdate{
		Title:       "A renamed",
		Description: "details",
		Priority:    models.PriorityHigh,
		AssigneeID:  &user.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "A renamed", updated.Title)
	require.Equal(t, models.PriorityHigh, updated.Priority)
	require.Equal(t, models.IssueStatusTodo, updated.Status)
	require.Equal(t, 1, updated.Order)
	require.NotNil(t, updated.Assignee)
	require.Equal(t, "ana@example.com", updated.Assignee.Email)

	cleared, err := f.store.UpdateIssue(ctx, "org_a", issue.ID, store.IssueUpdate{Title: "A renamed", Priority: models.PriorityHigh})
	require.NoError(t, err)
	require.Nil(t, cleared.AssigneeID)
	require.Nil(t, cleared.Assignee)
}

func TestWorkflowStore_SprintsNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "org_a")

	later := &models.Sprint{
		ID:        uuid.Must(uuid.NewV7()),
		ProjectID: f.project.ID,
		Name:      "Sprint 2",
		Status:    models.SprintStatusPlanned,
		CreatedAt: f.sprint.CreatedAt.Add(time.Hour),
	}
	require.NoError(t, f.store.CreateSprint(ctx, "org_a", later))

	board, err := f.store.GetProjectBoard(ctx, "org_a", f.project.ID)
	require.NoError(t, err)
	require.Len(t, board.Sprints, 2)
	require.Equal(t, "Sprint 2", board.Sprints[0].Sprint.Name)
	require.Equal(t, "Sprint 1", board.Sprints[1].Sprint.Name)
}
