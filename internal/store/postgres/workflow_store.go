package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/sprintboard/internal/models"
	"github.com/wolfeidau/sprintboard/internal/ordering"
	"github.com/wolfeidau/sprintboard/internal/store"
)

// Verify WorkflowStore implements the interface
var _ store.WorkflowStore = (*WorkflowStore)(nil)

// WorkflowStore implements store.WorkflowStore using PostgreSQL.
// Every query is scoped to the organization by joining up to projects.org_id.
type WorkflowStore struct {
	pool *pgxpool.Pool
}

// NewWorkflowStore creates a new PostgreSQL-backed workflow store.
func NewWorkflowStore(pool *pgxpool.Pool) *WorkflowStore {
	return &WorkflowStore{pool: pool}
}

const (
	projectColumns = `p.id, p.org_id, p.name, p.key, p.description, p.created_at, p.updated_at`
	sprintColumns  = `s.id, s.project_id, s.name, s.start_date, s.end_date, s.status, s.created_at, s.updated_at`
	issueColumns   = `i.id, i.sprint_id, i.title, i.description, i.priority, i.status, i.sort_order, i.assignee_id, i.created_at, i.updated_at,
		u.id, u.external_id, u.email, u.first_name, u.last_name, u.image_url, u.created_at, u.updated_at`

	// issueFrom joins an issue to its tenant and optional assignee. $1 is the org.
	issueFrom = `
		FROM issues i
		JOIN sprints s ON s.id = i.sprint_id
		JOIN projects p ON p.id = s.project_id AND p.org_id = $1
		LEFT JOIN users u ON u.id = i.assignee_id`
)

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	if err := row.Scan(&p.ID, &p.OrgID, &p.Name, &p.Key, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanSprint(row pgx.Row) (*models.Sprint, error) {
	var s models.Sprint
	if err := row.Scan(&s.ID, &s.ProjectID, &s.Name, &s.StartDate, &s.EndDate, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanIssue(row pgx.Row) (*models.Issue, error) {
	var (
		i models.Issue
		u struct {
			ID                                            *uuid.UUID
			ExternalID, Email, FirstName, LastName, Image *string
			CreatedAt, UpdatedAt                          *time.Time
		}
	)

	err := row.Scan(
		&i.ID, &i.SprintID, &i.Title, &i.Description, &i.Priority, &i.Status, &i.Order, &i.AssigneeID, &i.CreatedAt, &i.UpdatedAt,
		&u.ID, &u.ExternalID, &u.Email, &u.FirstName, &u.LastName, &u.Image, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if u.ID != nil {
		i.Assignee = &models.User{
			ID:         *u.ID,
			ExternalID: deref(u.ExternalID),
			Email:      deref(u.Email),
			FirstName:  deref(u.FirstName),
			LastName:   deref(u.LastName),
			ImageURL:   deref(u.Image),
			CreatedAt:  derefTime(u.CreatedAt),
			UpdatedAt:  derefTime(u.UpdatedAt),
		}
	}

	return &i, nil
}

// CreateProject inserts a project.
func (s *WorkflowStore) CreateProject(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, org_id, name, key, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		project.ID, project.OrgID, project.Name, project.Key, project.Description, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return mapPostgresError(err)
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	log.Debug().
		Str("project_id", project.ID.String()).
		Str("key", project.Key).
		Msg("Created project")

	return nil
}

// ListProjects returns the projects of an organization, newest first.
func (s *WorkflowStore) ListProjects(ctx context.Context, orgID string) ([]*models.Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects p
		WHERE p.org_id = $1
		ORDER BY p.created_at DESC, p.id DESC
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// GetProjectBoard loads a project, its sprints newest first and each
// sprint's issues in display order, reading from one snapshot.
func (s *WorkflowStore) GetProjectBoard(ctx context.Context, orgID string, projectID uuid.UUID) (*models.ProjectBoard, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read only

	project, err := scanProject(tx.QueryRow(ctx, `
		SELECT `+projectColumns+` FROM projects p WHERE p.id = $2 AND p.org_id = $1
	`, orgID, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	board := &models.ProjectBoard{Project: *project}
	bySprint := map[uuid.UUID]*models.SprintBoard{}

	rows, err := tx.Query(ctx, `
		SELECT `+sprintColumns+`
		FROM sprints s
		WHERE s.project_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	for rows.Next() {
		sprint, err := scanSprint(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan sprint: %w", err)
		}
		sb := &models.SprintBoard{Sprint: *sprint}
		board.Sprints = append(board.Sprints, sb)
		bySprint[sprint.ID] = sb
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sprints: %w", err)
	}

	rows, err = tx.Query(ctx, `
		SELECT `+issueColumns+issueFrom+`
		WHERE p.id = $2
		ORDER BY i.sprint_id, i.sort_order, i.created_at, i.id
	`, orgID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		if sb, ok := bySprint[issue.SprintID]; ok {
			sb.Issues = append(sb.Issues, issue)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate issues: %w", err)
	}

	// the same comparator as the in-memory store, so both agree on ties
	for _, sb := range board.Sprints {
		ordering.Sort(sb.Issues)
	}

	return board, nil
}

// CreateSprint inserts a sprint under a project of the organization.
func (s *WorkflowStore) CreateSprint(ctx context.Context, orgID string, sprint *models.Sprint) error {
	query := `
		INSERT INTO sprints (id, project_id, name, start_date, end_date, status, created_at, updated_at)
		SELECT $2::uuid, p.id, $4::text, $5::timestamptz, $6::timestamptz, $7::text, $8::timestamptz, $9::timestamptz
		FROM projects p
		WHERE p.id = $3 AND p.org_id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		orgID, sprint.ID, sprint.ProjectID, sprint.Name, sprint.StartDate, sprint.EndDate, sprint.Status, sprint.CreatedAt, sprint.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sprint: %w", mapPostgresError(err))
	}
	if tag.RowsAffected() == 0 {
		return store.ErrProjectNotFound
	}

	log.Debug().
		Str("sprint_id", sprint.ID.String()).
		Str("project_id", sprint.ProjectID.String()).
		Msg("Created sprint")

	return nil
}

// GetSprint returns a sprint of the organization.
func (s *WorkflowStore) GetSprint(ctx context.Context, orgID string, sprintID uuid.UUID) (*models.Sprint, error) {
	sprint, err := scanSprint(s.pool.QueryRow(ctx, `
		SELECT `+sprintColumns+`
		FROM sprints s
		JOIN projects p ON p.id = s.project_id AND p.org_id = $1
		WHERE s.id = $2
	`, orgID, sprintID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrSprintNotFound
		}
		return nil, fmt.Errorf("failed to get sprint: %w", err)
	}
	return sprint, nil
}

// UpdateSprintStatus sets the status of a sprint.
func (s *WorkflowStore) UpdateSprintStatus(ctx context.Context, orgID string, sprintID uuid.UUID, status models.SprintStatus) (*models.Sprint, error) {
	query := `
		UPDATE sprints s SET status = $3, updated_at = now()
		FROM projects p
		WHERE s.id = $2 AND p.id = s.project_id AND p.org_id = $1
		RETURNING ` + sprintColumns

	sprint, err := scanSprint(s.pool.QueryRow(ctx, query, orgID, sprintID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrSprintNotFound
		}
		return nil, fmt.Errorf("failed to update sprint status: %w", mapPostgresError(err))
	}

	return sprint, nil
}

// CreateIssue appends an issue to the bottom of its column. The append is a
// read then write inside one statement with no lock on the column, so
// concurrent creates into the same column can take the same order; readers
// break such ties by creation time.
func (s *WorkflowStore) CreateIssue(ctx context.Context, orgID string, issue *models.Issue) error {
	query := `
		INSERT INTO issues (id, sprint_id, title, description, priority, status, sort_order, assignee_id, created_at, updated_at)
		SELECT $2::uuid, s.id, $4::text, $5::text, $6::text, $7::text,
			(SELECT COALESCE(MAX(c.sort_order), 0) + 1 FROM issues c WHERE c.sprint_id = s.id AND c.status = $7::text),
			$8::uuid, $9::timestamptz, $10::timestamptz
		FROM sprints s
		JOIN projects p ON p.id = s.project_id AND p.org_id = $1
		WHERE s.id = $3
		RETURNING sort_order
	`

	err := s.pool.QueryRow(ctx, query,
		orgID, issue.ID, issue.SprintID, issue.Title, issue.Description, issue.Priority, issue.Status,
		issue.AssigneeID, issue.CreatedAt, issue.UpdatedAt,
	).Scan(&issue.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrSprintNotFound
		}
		return fmt.Errorf("failed to create issue: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("issue_id", issue.ID.String()).
		Str("status", string(issue.Status)).
		Int("order", issue.Order).
		Msg("Created issue")

	return nil
}

// GetIssue returns an issue of the organization with its assignee.
func (s *WorkflowStore) GetIssue(ctx context.Context, orgID string, issueID uuid.UUID) (*models.Issue, error) {
	return getIssue(ctx, s.pool, orgID, issueID)
}

func getIssue(ctx context.Context, q querier, orgID string, issueID uuid.UUID) (*models.Issue, error) {
	issue, err := scanIssue(q.QueryRow(ctx, `SELECT `+issueColumns+issueFrom+` WHERE i.id = $2`, orgID, issueID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	return issue, nil
}

// UpdateIssue overwrites the editable fields of an issue.
func (s *WorkflowStore) UpdateIssue(ctx context.Context, orgID string, issueID uuid.UUID, update store.IssueUpdate) (*models.Issue, error) {
	query := `
		UPDATE issues i SET title = $3, description = $4, priority = $5, assignee_id = $6, updated_at = now()
		FROM sprints s, projects p
		WHERE i.id = $2 AND s.id = i.sprint_id AND p.id = s.project_id AND p.org_id = $1
	`

	tag, err := s.pool.Exec(ctx, query, orgID, issueID, update.Title, update.Description, update.Priority, update.AssigneeID)
	if err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", mapPostgresError(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, store.ErrIssueNotFound
	}

	return s.GetIssue(ctx, orgID, issueID)
}

// UpdateIssueStatus changes the status of an issue, keeping its order.
func (s *WorkflowStore) UpdateIssueStatus(ctx context.Context, orgID string, issueID uuid.UUID, status models.IssueStatus) (*models.Issue, error) {
	query := `
		UPDATE issues i SET status = $3, updated_at = now()
		FROM sprints s, projects p
		WHERE i.id = $2 AND s.id = i.sprint_id AND p.id = s.project_id AND p.org_id = $1
	`

	tag, err := s.pool.Exec(ctx, query, orgID, issueID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update issue status: %w", mapPostgresError(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, store.ErrIssueNotFound
	}

	return s.GetIssue(ctx, orgID, issueID)
}

// MoveIssue places an issue at order in a column and shifts the siblings at
// or below that position down by one, in a single transaction. The moved
// issue is locked for the duration; sibling rows are updated in place under
// READ COMMITTED, so two concurrent moves may still produce a tie.
func (s *WorkflowStore) MoveIssue(ctx context.Context, orgID string, issueID uuid.UUID, status models.IssueStatus, order int) (*store.MoveResult, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	var sprintID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT i.sprint_id FROM issues i
		JOIN sprints s ON s.id = i.sprint_id
		JOIN projects p ON p.id = s.project_id AND p.org_id = $1
		WHERE i.id = $2
		FOR UPDATE OF i
	`, orgID, issueID).Scan(&sprintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to lock issue: %w", err)
	}

	// a sibling at the maximum cannot move down, fail before writing
	var full bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM issues
			WHERE sprint_id = $1 AND status = $2 AND id <> $3 AND sort_order >= $4 AND sort_order >= $5
		)
	`, sprintID, status, issueID, order, ordering.MaxOrder).Scan(&full); err != nil {
		return nil, fmt.Errorf("failed to check column: %w", err)
	}
	if full {
		return nil, fmt.Errorf("%w: column has an issue at %d", ordering.ErrInvalidOrder, ordering.MaxOrder)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE issues SET sort_order = sort_order + 1, updated_at = now()
		WHERE sprint_id = $1 AND status = $2 AND id <> $3 AND sort_order >= $4
	`, sprintID, status, issueID, order)
	if err != nil {
		return nil, fmt.Errorf("failed to shift issues: %w", mapPostgresError(err))
	}
	shifted := int(tag.RowsAffected())

	if _, err := tx.Exec(ctx, `
		UPDATE issues SET status = $2, sort_order = $3, updated_at = now() WHERE id = $1
	`, issueID, status, order); err != nil {
		return nil, fmt.Errorf("failed to move issue: %w", mapPostgresError(err))
	}

	issue, err := getIssue(ctx, tx, orgID, issueID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit move: %w", err)
	}

	return &store.MoveResult{Issue: issue, Shifted: shifted}, nil
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
