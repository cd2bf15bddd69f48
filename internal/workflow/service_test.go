package workflow

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/sprintboard/internal/auth"
	"github.com/wolfeidau/sprintboard/internal/models"
	"github.com/wolfeidau/sprintboard/internal/ordering"
	"github.com/wolfeidau/sprintboard/internal/store/memory"
)

type harness struct {
	svc        *Service
	identities *memory.IdentityStore
	admin      *auth.Caller
	member     *auth.Caller
}

func newHarness(t *testing.T, orgID string) *harness {
	t.Helper()
	identities := memory.NewIdentityStore()
	return newHarnessWithStores(t, orgID, identities, memory.NewWorkflowStore(identities))
}

func newHarnessWithStores(t *testing.T, orgID string, identities *memory.IdentityStore, workflow *memory.WorkflowStore) *harness {
	t.Helper()

	h := &harness{
		svc:        NewService(workflow, identities),
		identities: identities,
	}
	h.admin = h.addMember(t, orgID, "admin_"+orgID, "Ada", models.RoleAdmin)
	h.member = h.addMember(t, orgID, "member_"+orgID, "Max", models.RoleMember)

	return h
}

func (h *harness) addMember(t *testing.T, orgID, externalID, firstName string, role models.Role) *auth.Caller {
	t.Helper()
	ctx := context.Background()

	_, err := h.identities.UpsertOrganization(ctx, &models.Organization{ID: orgID, Name: "Org " + orgID})
	require.NoError(t, err)

	user, err := h.identities.UpsertUser(ctx, &models.User{
		ExternalID: externalID,
		Email:      externalID + "@example.com",
		FirstName:  firstName,
	})
	require.NoError(t, err)

	_, err = h.identities.UpsertMembership(ctx, &models.Membership{OrgID: orgID, UserID: user.ID, Role: role})
	require.NoError(t, err)

	return &auth.Caller{UserID: user.ID, ExternalID: externalID, OrgID: orgID, Role: role}
}

func (h *harness) project(t *testing.T, key string) *models.Project {
	t.Helper()
	p, err := h.svc.CreateProject(context.Background(), h.admin, h.admin.OrgID, CreateProjectInput{Name: "Platform", Key: key})
	require.NoError(t, err)
	return p
}

func (h *harness) sprint(t *testing.T, projectID uuid.UUID, name string) *models.Sprint {
	t.Helper()
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	s, err := h.svc.CreateSprint(context.Background(), h.admin, h.admin.OrgID, projectID, CreateSprintInput{
		Name:      name,
		StartDate: start,
		EndDate:   start.Add(14 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return s
}

func (h *harness) issue(t *testing.T, sprintID uuid.UUID, title string, status models.IssueStatus) *models.Issue {
	t.Helper()
	i, err := h.svc.CreateIssue(context.Background(), h.member, h.member.OrgID, sprintID, CreateIssueInput{Title: title, Status: status})
	require.NoError(t, err)
	return i
}

func TestCreateProject_RoleGate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "org_a")

	_, err := h.svc.CreateProject(ctx, h.member, "org_a", CreateProjectInput{Name: "Platform", Key: "PLAT"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = h.svc.CreateProject(ctx, nil, "org_a", CreateProjectInput{Name: "Platform", Key: "PLAT"})
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = h.svc.CreateProject(ctx, &auth.Caller{UserID: h.admin.UserID, Role: models.RoleAdmin}, "org_a", CreateProjectInput{Name: "Platform", Key: "PLAT"})
	require.ErrorIs(t, err, ErrUnauthorized)

	p, err := h.svc.CreateProject(ctx, h.admin, "org_a", CreateProjectInput{Name: " Platform ", Key: "PLAT", Description: "Core <b>services</b>"})
	require.NoError(t, err)
	require.Equal(t, "Platform", p.Name)
	require.Equal(t, "Core services", p.Description)
	require.Equal(t, "org_a", p.OrgID)
}

func TestCreateProject_Validation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "org_a")

	tests := []struct {
		name  string
		input CreateProjectInput
		field string
	}{
		{"missing name", CreateProjectInput{Key: "PLAT"}, "name"},
		{"long name", CreateProjectInput{Name: string(make([]rune, 101)), Key: "PLAT"}, "name"},
		{"missing key", CreateProjectInput{Name: "Platform"}, "key"},
		{"lowercase key", CreateProjectInput{Name: "Platform", Key: "plat"}, "key"},
		{"long key", CreateProjectInput{Name: "Platform", Key: "ABCDEFGHIJK"}, "key"},
		{"dashed key", CreateProjectInput{Name: "Platform", Key: "PL-AT"}, "key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.CreateProject(ctx, h.admin, "org_a", tt.input)
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreateProject_KeyConflictAcrossOrganizations(t *testing.T) {
	ctx := context.Background()
	identities := memory.NewIdentityStore()
	workflow := memory.NewWorkflowStore(identities)

	a := newHarnessWithStores(t, "org_a", identities, workflow)
	b := newHarnessWithStores(t, "org_b", identities, workflow)

	a.project(t, "PLAT")

	_, err := b.svc.CreateProject(ctx, b.admin, "org_b", CreateProjectInput{Name: "Platform", Key: "PLAT"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestTenantIsolation(t *testing.T) {
	ctx := context.Background()
	identities := memory.NewIdentityStore()
	workflow := memory.NewWorkflowStore(identities)

	a := newHarnessWithStores(t, "org_a", identities, workflow)
	b := newHarnessWithStores(t, "org_b", identities, workflow)

	p := a.project(t, "PLAT")
	s := a.sprint(t, p.ID, "Sprint 1")
	i := a.issue(t, s.ID, "A", models.IssueStatusTodo)

	// acting inside a foreign organization
	_, err := a.svc.GetProject(ctx, b.admin, "org_a", p.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// own organization, foreign ids
	_, err = b.svc.GetProject(ctx, b.admin, "org_b", p.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.svc.CreateIssue(ctx, b.member, "org_b", s.ID, CreateIssueInput{Title: "X"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.svc.UpdateIssueOrder(ctx, b.member, "org_b", i.ID, models.IssueStatusDone, 1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.svc.UpdateIssueStatus(ctx, b.member, "org_b", i.ID, models.IssueStatusDone)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.svc.UpdateIssue(ctx, b.member, "org_b", i.ID, UpdateIssueInput{Title: "Hijacked", Priority: models.PriorityUrgent})
	require.ErrorIs(t, err, ErrNotFound)

	// a foreign issue is not found even when the input is also invalid
	_, err = b.svc.UpdateIssue(ctx, b.member, "org_b", i.ID, UpdateIssueInput{Title: "Hijacked"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.svc.UpdateIssueStatus(ctx, b.member, "org_b", i.ID, models.IssueStatus("BLOCKED"))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.svc.UpdateIssueOrder(ctx, b.member, "org_b", i.ID, models.IssueStatusDone, 0)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.svc.CreateIssue(ctx, b.member, "org_b", s.ID, CreateIssueInput{Title: "  "})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = b.svc.UpdateSprintStatus(ctx, b.admin, "org_b", s.ID, models.SprintStatusActive)
	require.ErrorIs(t, err, ErrNotFound)

	unchanged, err := workflow.GetIssue(ctx, "org_a", i.ID)
	require.NoError(t, err)
	require.Equal(t, "A", unchanged.Title)
	require.Equal(t, models.IssueStatusTodo, unchanged.Status)
	require.Equal(t, models.PriorityMedium, unchanged.Priority)
	require.Equal(t, 1, unchanged.Order)

	projects, err := b.svc.ListProjects(ctx, b.member, "org_b")
	require.NoError(t, err)
	require.Empty(t, projects)
}

func TestCreateSprint(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "org_a")
	p := h.project(t, "PLAT")
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	_, err := h.svc.CreateSprint(ctx, h.member, "org_a", p.ID, CreateSprintInput{Name: "S", StartDate: start, EndDate: start.Add(time.Hour)})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = h.svc.CreateSprint(ctx, h.admin, "org_a", p.ID, CreateSprintInput{Name: "S", StartDate: start, EndDate: start})
	require.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.CreateSprint(ctx, h.admin, "org_a", p.ID, CreateSprintInput{Name: "S", StartDate: start, EndDate: start.Add(-time.Hour)})
	require.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.CreateSprint(ctx, h.admin, "org_a", p.ID, CreateSprintInput{Name: "S", EndDate: start})
	require.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.CreateSprint(ctx, h.admin, "org_a", uuid.Must(uuid.NewV7()), CreateSprintInput{Name: "S", StartDate: start, EndDate: start.Add(time.Hour)})
	require.ErrorIs(t, err, ErrNotFound)

	// same instant in a later offset is still after
	sydney := time.FixedZone("AEDT", 11*60*60)
	s, err := h.svc.CreateSprint(ctx, h.admin, "org_a", p.ID, CreateSprintInput{
		Name:      "Sprint 1",
		StartDate: start,
		EndDate:   start.Add(time.Minute).In(sydney),
	})
	require.NoError(t, err)
	require.Equal(t, models.SprintStatusPlanned, s.Status)

	updated, err := h.svc.UpdateSprintStatus(ctx, h.admin, "org_a", s.ID, models.SprintStatusActive)
	require.NoError(t, err)
	require.Equal(t, models.SprintStatusActive, updated.Status)

	_, err = h.svc.UpdateSprintStatus(ctx, h.member, "org_a", s.ID, models.SprintStatusCompleted)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = h.svc.UpdateSprintStatus(ctx, h.admin, "org_a", s.ID, models.SprintStatus("ARCHIVED"))
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateIssue_DefaultsAndAppend(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "org_a")
	p := h.project(t, "PLAT")
	s := h.sprint(t, p.ID, "Sprint 1")

	for n := 1; n <= 3; n++ {
		i := h.issue(t, s.ID, "Issue", "")
		require.Equal(t, n, i.Order)
		require.Equal(t, models.IssueStatusTodo, i.Status)
		require.Equal(t, models.PriorityMedium, i.Priority)
	}

	first := h.issue(t, s.ID, "Review", models.IssueStatusInReview)
	require.Equal(t, 1, first.Order)

	_, err := h.svc.CreateIssue(ctx, h.member, "org_a", s.ID, CreateIssueInput{Title: "  "})
	require.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.CreateIssue(ctx, h.member, "org_a", s.ID, CreateIssueInput{Title: "X", Priority: "CRITICAL"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.CreateIssue(ctx, h.member, "org_a", s.ID, CreateIssueInput{Title: "X", Status: "BLOCKED"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.CreateIssue(ctx, h.member, "org_a", uuid.Must(uuid.NewV7()), CreateIssueInput{Title: "X"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateIssue_Assignee(t *testing.T) {
	ctx := context.Background()
	identities := memory.NewIdentityStore()
	workflow := memory.NewWorkflowStore(identities)

	a := newHarnessWithStores(t, "org_a", identities, workflow)
	b := newHarnessWithStores(t, "org_b", identities, workflow)

	p := a.project(t, "PLAT")
	s := a.sprint(t, p.ID, "Sprint 1")

	_, err := a.svc.CreateIssue(ctx, a.member, "org_a", s.ID, CreateIssueInput{Title: "X", AssigneeID: &b.member.UserID})
	require.ErrorIs(t, err, ErrValidation)

	i, err := a.svc.CreateIssue(ctx, a.member, "org_a", s.ID, CreateIssueInput{
		Title:       "Fix login",
		Description: "<b>Fix</b> the <i>login</i> flow",
		Priority:    models.PriorityHigh,
		AssigneeID:  &a.admin.UserID,
	})
	require.NoError(t, err)
	require.Equal(t, "Fix the login flow", i.Description)
	require.NotNil(t, i.Assignee)
	require.Equal(t, "Ada", i.Assignee.FirstName)
}

func TestUpdateIssue(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "org_a")
	p := h.project(t, "PLAT")
	s := h.sprint(t, p.ID, "Sprint 1")
	h.issue(t, s.ID, "A", models.IssueStatusInProgress)
	i := h.issue(t, s.ID, "B", models.IssueStatusInProgress)

	updated, err := h.svc.UpdateIssue(ctx, h.member, "org_a", i.ID, UpdateIssueInput{
		Title:      "B renamed",
		Priority:   models.PriorityUrgent,
		AssigneeID: &h.member.UserID,
	})
	require.NoError(t, err)
	require.Equal(t, "B renamed", updated.Title)
	require.Equal(t, models.PriorityUrgent, updated.Priority)
	require.Equal(t, models.IssueStatusInProgress, updated.Status)
	require.Equal(t, 2, updated.Order)
	require.Equal(t, h.member.UserID, updated.Assignee.ID)

	cleared, err := h.svc.UpdateIssue(ctx, h.member, "org_a", i.ID, UpdateIssueInput{Title: "B", Priority: models.PriorityLow})
	require.NoError(t, err)
	require.Nil(t, cleared.AssigneeID)
	require.Nil(t, cleared.Assignee)

	_, err = h.svc.UpdateIssue(ctx, h.member, "org_a", i.ID, UpdateIssueInput{Title: "B"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.UpdateIssue(ctx, h.member, "org_a", uuid.Must(uuid.NewV7()), UpdateIssueInput{Title: "B", Priority: models.PriorityLow})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateIssueStatus_KeepsOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "org_a")
	p := h.project(t, "PLAT")
	s := h.sprint(t, p.ID, "Sprint 1")
	h.issue(t, s.ID, "A", models.IssueStatusTodo)
	b := h.issue(t, s.ID, "B", models.IssueStatusTodo)

	moved, err := h.svc.UpdateIssueStatus(ctx, h.member, "org_a", b.ID, models.IssueStatusDone)
	require.NoError(t, err)
	require.Equal(t, models.IssueStatusDone, moved.Status)
	require.Equal(t, 2, moved.Order)

	_, err = h.svc.UpdateIssueStatus(ctx, h.member, "org_a", b.ID, models.IssueStatus("BLOCKED"))
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateIssueOrder_Scenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "org_a")
	p := h.project(t, "PLAT")
	s := h.sprint(t, p.ID, "Sprint 1")

	a := h.issue(t, s.ID, "A", models.IssueStatusTodo)
	b := h.issue(t, s.ID, "B", models.IssueStatusTodo)
	c := h.issue(t, s.ID, "C", models.IssueStatusInProgress)
	require.Equal(t, 1, a.Order)
	require.Equal(t, 2, b.Order)
	require.Equal(t, 1, c.Order)

	moved, err := h.svc.UpdateIssueOrder(ctx, h.member, "org_a", b.ID, models.IssueStatusInProgress, 1)
	require.NoError(t, err)
	require.Equal(t, models.IssueStatusInProgress, moved.Status)
	require.Equal(t, 1, moved.Order)

	board, err := h.svc.GetProject(ctx, h.member, "org_a", p.ID)
	require.NoError(t, err)
	require.Len(t, board.Sprints, 1)

	byTitle := map[string]*models.Issue{}
	for _, i := range board.Sprints[0].Issues {
		byTitle[i.Title] = i
	}
	require.Equal(t, models.IssueStatusTodo, byTitle["A"].Status)
	require.Equal(t, 1, byTitle["A"].Order)
	require.Equal(t, 1, byTitle["B"].Order)
	require.Equal(t, models.IssueStatusInProgress, byTitle["C"].Status)
	require.Equal(t, 2, byTitle["C"].Order)
}

func TestUpdateIssueOrder_Validation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "org_a")
	p := h.project(t, "PLAT")
	s := h.sprint(t, p.ID, "Sprint 1")
	a := h.issue(t, s.ID, "A", models.IssueStatusTodo)

	for _, order := range []int{0, -3} {
		_, err := h.svc.UpdateIssueOrder(ctx, h.member, "org_a", a.ID, models.IssueStatusTodo, order)
		require.ErrorIs(t, err, ErrValidation)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "newOrder", verr.Field)
	}

	_, err := h.svc.UpdateIssueOrder(ctx, h.member, "org_a", a.ID, models.IssueStatus("BLOCKED"), 1)
	require.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.UpdateIssueOrder(ctx, h.member, "org_a", uuid.Must(uuid.NewV7()), models.IssueStatusTodo, 1)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = h.svc.UpdateIssueOrder(ctx, nil, "org_a", a.ID, models.IssueStatusTodo, 1)
	require.ErrorIs(t, err, ErrUnauthorized)

	// far beyond the end is kept as given
	moved, err := h.svc.UpdateIssueOrder(ctx, h.member, "org_a", a.ID, models.IssueStatusDone, 50)
	require.NoError(t, err)
	require.Equal(t, 50, moved.Order)
}

func TestUpdateIssueOrder_LogsOnce(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = previous })

	ctx := context.Background()
	h := newHarness(t, "org_a")
	p := h.project(t, "PLAT")
	s := h.sprint(t, p.ID, "Sprint 1")
	h.issue(t, s.ID, "A", models.IssueStatusTodo)
	b := h.issue(t, s.ID, "B", models.IssueStatusTodo)

	buf.Reset()
	_, err := h.svc.UpdateIssueOrder(ctx, h.member, "org_a", b.ID, models.IssueStatusTodo, 1)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(buf.String(), `"message":"Moved issue"`))
}

func TestUpdateIssueOrder_Bounds(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "org_a")
	p := h.project(t, "PLAT")
	s := h.sprint(t, p.ID, "Sprint 1")
	a := h.issue(t, s.ID, "A", models.IssueStatusTodo)
	b := h.issue(t, s.ID, "B", models.IssueStatusTodo)

	_, err := h.svc.UpdateIssueOrder(ctx, h.member, "org_a", a.ID, models.IssueStatusTodo, ordering.MaxOrder+1)
	require.ErrorIs(t, err, ErrValidation)

	moved, err := h.svc.UpdateIssueOrder(ctx, h.member, "org_a", b.ID, models.IssueStatusTodo, ordering.MaxOrder)
	require.NoError(t, err)
	require.Equal(t, ordering.MaxOrder, moved.Order)

	// b cannot be pushed past the maximum
	_, err = h.svc.UpdateIssueOrder(ctx, h.member, "org_a", a.ID, models.IssueStatusTodo, 1)
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "newOrder", verr.Field)

	// nor can an issue be appended after it
	_, err = h.svc.CreateIssue(ctx, h.member, "org_a", s.ID, CreateIssueInput{Title: "C"})
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "status", verr.Field)

	board, err := h.svc.GetProject(ctx, h.member, "org_a", p.ID)
	require.NoError(t, err)
	require.Len(t, board.Sprints[0].Issues, 2)
	for _, i := range board.Sprints[0].Issues {
		switch i.ID {
		case a.ID:
			require.Equal(t, 1, i.Order)
		case b.ID:
			require.Equal(t, ordering.MaxOrder, i.Order)
		}
	}
}

func TestMembers(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "org_a")

	members, err := h.svc.ListOrgMembers(ctx, h.member, "org_a")
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, "Ada", members[0].User.FirstName)
	require.Equal(t, models.RoleAdmin, members[0].Role)
	require.Equal(t, "Max", members[1].User.FirstName)

	_, err = h.svc.ListOrgMembers(ctx, h.member, "org_b")
	require.ErrorIs(t, err, ErrNotFound)

	me, org, err := h.svc.WhoAmI(ctx, h.admin)
	require.NoError(t, err)
	require.Equal(t, h.admin.UserID, me.User.ID)
	require.Equal(t, models.RoleAdmin, me.Role)
	require.Equal(t, "Org org_a", org.Name)

	_, _, err = h.svc.WhoAmI(ctx, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
}
