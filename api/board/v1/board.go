// Package boardv1 holds the wire messages of the board.v1 API described in
// board.proto. The structs are maintained by hand and encoded as JSON using
// the proto field names; enum values travel as their upper case names.
package boardv1

import "time"

// Role of a user in an organization.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

type Member struct {
	User *User  `json:"user"`
	Role string `json:"role"`
}

type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type Project struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sprint carries its issues in display order when returned as part of a board.
type Sprint struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Issues    []*Issue  `json:"issues,omitempty"`
}

type Issue struct {
	ID          string    `json:"id"`
	SprintID    string    `json:"sprint_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	Order       int32     `json:"order"`
	AssigneeID  string    `json:"assignee_id,omitempty"`
	Assignee    *User     `json:"assignee,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateProjectRequest struct {
	OrgID       string `json:"org_id"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

type CreateProjectResponse struct {
	Project *Project `json:"project"`
}

type GetProjectRequest struct {
	OrgID     string `json:"org_id"`
	ProjectID string `json:"project_id"`
}

type GetProjectResponse struct {
	Project *Project  `json:"project"`
	Sprints []*Sprint `json:"sprints"`
}

type ListProjectsRequest struct {
	OrgID string `json:"org_id"`
}

type ListProjectsResponse struct {
	Projects []*Project `json:"projects"`
}

type CreateSprintRequest struct {
	OrgID     string    `json:"org_id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type CreateSprintResponse struct {
	Sprint *Sprint `json:"sprint"`
}

type UpdateSprintStatusRequest struct {
	OrgID    string `json:"org_id"`
	SprintID string `json:"sprint_id"`
	Status   string `json:"status"`
}

type UpdateSprintStatusResponse struct {
	Sprint *Sprint `json:"sprint"`
}

type CreateIssueRequest struct {
	OrgID       string `json:"org_id"`
	SprintID    string `json:"sprint_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	AssigneeID  string `json:"assignee_id,omitempty"`
}

type CreateIssueResponse struct {
	Issue *Issue `json:"issue"`
}

// UpdateIssueRequest replaces the editable fields. An empty assignee_id
// clears the assignee.
type UpdateIssueRequest struct {
	OrgID       string `json:"org_id"`
	IssueID     string `json:"issue_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority"`
	AssigneeID  string `json:"assignee_id,omitempty"`
}

type UpdateIssueResponse struct {
	Issue *Issue `json:"issue"`
}

type UpdateIssueStatusRequest struct {
	OrgID   string `json:"org_id"`
	IssueID string `json:"issue_id"`
	Status  string `json:"status"`
}

type UpdateIssueStatusResponse struct {
	Issue *Issue `json:"issue"`
}

type UpdateIssueOrderRequest struct {
	OrgID     string `json:"org_id"`
	IssueID   string `json:"issue_id"`
	NewStatus string `json:"new_status"`
	NewOrder  int32  `json:"new_order"`
}

type UpdateIssueOrderResponse struct {
	Issue *Issue `json:"issue"`
}

type ListOrgMembersRequest struct {
	OrgID string `json:"org_id"`
}

type ListOrgMembersResponse struct {
	Members []*Member `json:"members"`
}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	User         *User         `json:"user"`
	Organization *Organization `json:"organization"`
	Role         string        `json:"role"`
}
