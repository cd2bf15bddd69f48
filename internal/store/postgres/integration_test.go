//go:build integration

package postgres

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wolfeidau/sprintboard/internal/models"
	"github.com/wolfeidau/sprintboard/internal/ordering"
	"github.com/wolfeidau/sprintboard/internal/store"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pool, err := NewPool(ctx, &PoolConfig{
		ConnString: fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port()),
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))

	return pool
}

type seed struct {
	workflow   *WorkflowStore
	identities *IdentityStore
	user       *models.User
	project    *models.Project
	sprint     *models.Sprint
}

func seedOrg(t *testing.T, ctx context.Context, pool *pgxpool.Pool, orgID, key string) *seed {
	t.Helper()

	s := &seed{workflow: NewWorkflowStore(pool), identities: NewIdentityStore(pool)}

	_, err := s.identities.UpsertOrganization(ctx, &models.Organization{ID: orgID, Name: "Org " + orgID})
	require.NoError(t, err)

	s.user, err = s.identities.UpsertUser(ctx, &models.User{ExternalID: "user_" + orgID, Email: orgID + "@example.com", FirstName: "Ada"})
	require.NoError(t, err)

	_, err = s.identities.UpsertMembership(ctx, &models.Membership{OrgID: orgID, UserID: s.user.ID, Role: models.RoleAdmin})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	s.project = &models.Project{ID: uuid.Must(uuid.NewV7()), OrgID: orgID, Name: "Platform", Key: key, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.workflow.CreateProject(ctx, s.project))

	s.sprint = &models.Sprint{
		ID:        uuid.Must(uuid.NewV7()),
		ProjectID: s.project.ID,
		Name:      "Sprint 1",
		StartDate: now,
		EndDate:   now.Add(14 * 24 * time.Hour),
		Status:    models.SprintStatusPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.workflow.CreateSprint(ctx, orgID, s.sprint))

	return s
}

func (s *seed) issue(t *testing.T, ctx context.Context, orgID, title string, status models.IssueStatus) *models.Issue {
	t.Helper()
	now := time.Now().UTC()
	issue := &models.Issue{
		ID:        uuid.Must(uuid.NewV7()),
		SprintID:  s.sprint.ID,
		Title:     title,
		Priority:  models.PriorityMedium,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.workflow.CreateIssue(ctx, orgID, issue))
	return issue
}

func TestIntegration_Workflow(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgresContainer(t, ctx)

	a := seedOrg(t, ctx, pool, "org_a", "PLAT")
	b := seedOrg(t, ctx, pool, "org_b", "OPS")

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, Migrate(ctx, pool))
	})

	t.Run("project key is globally unique", func(t *testing.T) {
		now := time.Now()
		err := b.workflow.CreateProject(ctx, &models.Project{
			ID: uuid.Must(uuid.NewV7()), OrgID: "org_b", Name: "Dup", Key: "PLAT", CreatedAt: now, UpdatedAt: now,
		})
		require.ErrorIs(t, err, store.ErrProjectKeyExists)
	})

	t.Run("move scenario", func(t *testing.T) {
		issueA := a.issue(t, ctx, "org_a", "A", models.IssueStatusTodo)
		issueB := a.issue(t, ctx, "org_a", "B", models.IssueStatusTodo)
		issueC := a.issue(t, ctx, "org_a", "C", models.IssueStatusInProgress)
		require.Equal(t, 1, issueA.Order)
		require.Equal(t, 2, issueB.Order)
		require.Equal(t, 1, issueC.Order)

		result, err := a.workflow.MoveIssue(ctx, "org_a", issueB.ID, models.IssueStatusInProgress, 1)
		require.NoError(t, err)
		require.Equal(t, 1, result.Shifted)
		require.Equal(t, models.IssueStatusInProgress, result.Issue.Status)
		require.Equal(t, 1, result.Issue.Order)

		c, err := a.workflow.GetIssue(ctx, "org_a", issueC.ID)
		require.NoError(t, err)
		require.Equal(t, 2, c.Order)

		stillA, err := a.workflow.GetIssue(ctx, "org_a", issueA.ID)
		require.NoError(t, err)
		require.Equal(t, models.IssueStatusTodo, stillA.Status)
		require.Equal(t, 1, stillA.Order)

		board, err := a.workflow.GetProjectBoard(ctx, "org_a", a.project.ID)
		require.NoError(t, err)
		require.Len(t, board.Sprints, 1)

		var titles []string
		for _, i := range board.Sprints[0].Issues {
			if i.Status == models.IssueStatusInProgress {
				titles = append(titles, i.Title)
			}
		}
		require.Equal(t, []string{"B", "C"}, titles)
	})

	t.Run("tenant isolation", func(t *testing.T) {
		issue := a.issue(t, ctx, "org_a", "secret", models.IssueStatusDone)

		_, err := b.workflow.GetIssue(ctx, "org_b", issue.ID)
		require.ErrorIs(t, err, store.ErrIssueNotFound)

		_, err = b.workflow.MoveIssue(ctx, "org_b", issue.ID, models.IssueStatusTodo, 1)
		require.ErrorIs(t, err, store.ErrIssueNotFound)

		_, err = b.workflow.GetProjectBoard(ctx, "org_b", a.project.ID)
		require.ErrorIs(t, err, store.ErrProjectNotFound)

		err = b.workflow.CreateSprint(ctx, "org_b", &models.Sprint{
			ID: uuid.Must(uuid.NewV7()), ProjectID: a.project.ID, Name: "x",
			StartDate: time.Now(), EndDate: time.Now().Add(time.Hour), Status: models.SprintStatusPlanned,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		})
		require.ErrorIs(t, err, store.ErrProjectNotFound)

		projects, err := b.workflow.ListProjects(ctx, "org_b")
		require.NoError(t, err)
		require.Len(t, projects, 1)
		require.Equal(t, "OPS", projects[0].Key)
	})

	t.Run("assignee and status", func(t *testing.T) {
		issue := a.issue(t, ctx, "org_a", "assign me", models.IssueStatusInReview)

		updated, err := a.workflow.UpdateIssue(ctx, "org_a", issue.ID, store.IssueUpdate{
			Title: "assigned", Priority: models.PriorityHigh, AssigneeID: &a.user.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Assignee)
		require.Equal(t, "Ada", updated.Assignee.FirstName)

		moved, err := a.workflow.UpdateIssueStatus(ctx, "org_a", issue.ID, models.IssueStatusDone)
		require.NoError(t, err)
		require.Equal(t, models.IssueStatusDone, moved.Status)
		require.Equal(t, issue.Order, moved.Order)

		sprint, err := a.workflow.UpdateSprintStatus(ctx, "org_a", a.sprint.ID, models.SprintStatusActive)
		require.NoError(t, err)
		require.Equal(t, models.SprintStatusActive, sprint.Status)
	})

	t.Run("concurrent creates all land and sort totally", func(t *testing.T) {
		var wg sync.WaitGroup
		for n := range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				a.issue(t, ctx, "org_a", fmt.Sprintf("bulk %d", n), models.IssueStatusTodo)
			}()
		}
		wg.Wait()

		board, err := a.workflow.GetProjectBoard(ctx, "org_a", a.project.ID)
		require.NoError(t, err)

		// appends are unguarded, ties are allowed but the board order is total
		var column []*models.Issue
		bulk := 0
		for _, i := range board.Sprints[0].Issues {
			if i.Status != models.IssueStatusTodo {
				continue
			}
			require.Positive(t, i.Order)
			if strings.HasPrefix(i.Title, "bulk ") {
				bulk++
			}
			column = append(column, i)
		}
		require.Equal(t, 10, bulk)
		require.True(t, slices.IsSortedFunc(column, ordering.Compare))
	})

	t.Run("order bounds", func(t *testing.T) {
		top := b.issue(t, ctx, "org_b", "top", models.IssueStatusInReview)
		last := b.issue(t, ctx, "org_b", "last", models.IssueStatusInReview)

		_, err := b.workflow.MoveIssue(ctx, "org_b", last.ID, models.IssueStatusInReview, ordering.MaxOrder)
		require.NoError(t, err)

		_, err = b.workflow.MoveIssue(ctx, "org_b", top.ID, models.IssueStatusInReview, 1)
		require.ErrorIs(t, err, ordering.ErrInvalidOrder)

		stillTop, err := b.workflow.GetIssue(ctx, "org_b", top.ID)
		require.NoError(t, err)
		require.Equal(t, top.Order, stillTop.Order)

		stillLast, err := b.workflow.GetIssue(ctx, "org_b", last.ID)
		require.NoError(t, err)
		require.Equal(t, ordering.MaxOrder, stillLast.Order)

		now := time.Now().UTC()
		err = b.workflow.CreateIssue(ctx, "org_b", &models.Issue{
			ID: uuid.Must(uuid.NewV7()), SprintID: b.sprint.ID, Title: "overflow",
			Priority: models.PriorityLow, Status: models.IssueStatusInReview, CreatedAt: now, UpdatedAt: now,
		})
		require.ErrorIs(t, err, ordering.ErrInvalidOrder)
	})
}

func TestIntegration_Identity(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgresContainer(t, ctx)
	identities := NewIdentityStore(pool)

	_, err := identities.UpsertOrganization(ctx, &models.Organization{ID: "org_a", Name: "Acme"})
	require.NoError(t, err)

	org, err := identities.UpsertOrganization(ctx, &models.Organization{ID: "org_a"})
	require.NoError(t, err)
	require.Equal(t, "Acme", org.Name)

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 5)
	for n := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := identities.UpsertUser(ctx, &models.User{ExternalID: "user_1", Email: "a@example.com"})
			if err == nil {
				ids[n] = u.ID
			}
		}()
	}
	wg.Wait()
	for _, id := range ids {
		require.Equal(t, ids[0], id)
	}

	_, err = identities.UpsertMembership(ctx, &models.Membership{OrgID: "org_missing", UserID: ids[0], Role: models.RoleMember})
	require.ErrorIs(t, err, store.ErrOrganizationNotFound)

	_, err = identities.UpsertMembership(ctx, &models.Membership{OrgID: "org_a", UserID: ids[0], Role: models.RoleMember})
	require.NoError(t, err)

	m, err := identities.GetMembership(ctx, "org_a", ids[0])
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, m.Role)

	members, err := identities.ListMembers(ctx, "org_a")
	require.NoError(t, err)
	require.Len(t, members, 1)

	_, err = identities.GetMembership(ctx, "org_b", ids[0])
	require.ErrorIs(t, err, store.ErrMembershipNotFound)
}
