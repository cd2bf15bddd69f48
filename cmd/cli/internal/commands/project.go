package commands

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
	boardv1 "github.com/wolfeidau/sprintboard/api/board/v1"
	"github.com/wolfeidau/sprintboard/cmd/cli/internal/render"
)

type ProjectCmd struct {
	Create ProjectCreateCmd `cmd:"" help:"Create a project (admin only)"`
	List   ProjectListCmd   `cmd:"" help:"List projects in the organization"`
	Show   BoardCmd         `cmd:"" help:"Show a project board"`
}

type ProjectCreateCmd struct {
	Name        string `arg:"" help:"Project name"`
	Key         string `help:"Project key, 2-10 upper case letters or digits" required:""`
	Description string `help:"Project description" default:""`
}

func (c *ProjectCreateCmd) Run(ctx context.Context, globals *Globals) error {
	s, err := globals.session()
	if err != nil {
		return err
	}

	resp, err := s.clients.Projects.CreateProject(ctx, connect.NewRequest(&boardv1.CreateProjectRequest{
		OrgID:       s.orgID,
		Name:        c.Name,
		Key:         c.Key,
		Description: c.Description,
	}))
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	fmt.Printf("Created project %s [%s]\n", resp.Msg.Project.Name, resp.Msg.Project.Key)
	fmt.Printf("Project ID: %s\n", resp.Msg.Project.ID)
	return nil
}

type ProjectListCmd struct{}

func (c *ProjectListCmd) Run(ctx context.Context, globals *Globals) error {
	s, err := globals.session()
	if err != nil {
		return err
	}

	resp, err := s.clients.Projects.ListProjects(ctx, connect.NewRequest(&boardv1.ListProjectsRequest{OrgID: s.orgID}))
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(resp.Msg.Projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	fmt.Printf("%-36s %-10s %-30s %s\n", "Project ID", "Key", "Name", "Created At")
	for _, p := range resp.Msg.Projects {
		fmt.Printf("%-36s %-10s %-30s %s\n", p.ID, p.Key, p.Name, p.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// BoardCmd fetches a project and renders its sprints as columns. Filters are
// applied to the fetched board only.
type BoardCmd struct {
	ProjectID string `arg:"" help:"Project ID"`
	Sprint    string `help:"only show this sprint ID" default:""`
	Search    string `help:"filter issues by title or description" default:""`
	Assignee  string `help:"filter by assignee id, email or name; 'none' for unassigned" default:""`
	Priority  string `help:"filter by priority" default:""`
	Width     int    `help:"render width, defaults to $COLUMNS" default:"0"`
}

func (c *BoardCmd) Run(ctx context.Context, globals *Globals) error {
	s, err := globals.session()
	if err != nil {
		return err
	}

	return c.show(ctx, s)
}

func (c *BoardCmd) show(ctx context.Context, s *session) error {
	resp, err := s.clients.Projects.GetProject(ctx, connect.NewRequest(&boardv1.GetProjectRequest{
		OrgID:     s.orgID,
		ProjectID: c.ProjectID,
	}))
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	board := resp.Msg
	if c.Sprint != "" {
		board = onlySprint(board, c.Sprint)
	}

	board = render.Filter{Search: c.Search, Assignee: c.Assignee, Priority: enumValue(c.Priority)}.Apply(board)

	width := c.Width
	if width <= 0 {
		width = terminalWidth()
	}

	fmt.Println(render.Board(board, width))
	return nil
}

func onlySprint(board *boardv1.GetProjectResponse, sprintID string) *boardv1.GetProjectResponse {
	out := &boardv1.GetProjectResponse{Project: board.Project}
	for _, sprint := range board.Sprints {
		if sprint.ID == sprintID {
			out.Sprints = append(out.Sprints, sprint)
		}
	}
	return out
}

func findIssue(board *boardv1.GetProjectResponse, issueID string) *boardv1.Issue {
	for _, sprint := range board.Sprints {
		for _, issue := range sprint.Issues {
			if issue.ID == issueID {
				return issue
			}
		}
	}
	return nil
}
