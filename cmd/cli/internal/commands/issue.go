package commands

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
	boardv1 "github.com/wolfeidau/sprintboard/api/board/v1"
	"github.com/wolfeidau/sprintboard/cmd/cli/internal/render"
)

type IssueCmd struct {
	Create IssueCreateCmd `cmd:"" help:"Create an issue at the bottom of its column"`
	Update IssueUpdateCmd `cmd:"" help:"Replace an issue's title, description, priority and assignee"`
	Status IssueStatusCmd `cmd:"" help:"Change an issue's status keeping its order"`
	Move   IssueMoveCmd   `cmd:"" help:"Move an issue to a column and position"`
	Show   IssueShowCmd   `cmd:"" help:"Show an issue with its rendered description"`
}

// RefetchFlags re-reads the whole board after a mutation when a project is given.
type RefetchFlags struct {
	Project string `help:"project ID; when set the board is fetched and shown after the change" default:""`
}

func (r RefetchFlags) after(ctx context.Context, s *session) error {
	if r.Project == "" {
		return nil
	}
	board := &BoardCmd{ProjectID: r.Project}
	return board.show(ctx, s)
}

type IssueCreateCmd struct {
	SprintID    string `arg:"" help:"Sprint ID"`
	Title       string `help:"Issue title" required:""`
	Description string `help:"Issue description (markdown)" default:""`
	Priority    string `help:"low, medium, high or urgent" default:"medium"`
	Status      string `help:"todo, in-progress, in-review or done" default:"todo"`
	Assignee    string `help:"assignee user ID" default:""`

	RefetchFlags `embed:""`
}

func (c *IssueCreateCmd) Run(ctx context.Context, globals *Globals) error {
	s, err := globals.session()
	if err != nil {
		return err
	}

	resp, err := s.clients.Issues.CreateIssue(ctx, connect.NewRequest(&boardv1.CreateIssueRequest{
		OrgID:       s.orgID,
		SprintID:    c.SprintID,
		Title:       c.Title,
		Description: c.Description,
		Priority:    enumValue(c.Priority),
		Status:      enumValue(c.Status),
		AssigneeID:  c.Assignee,
	}))
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}

	printIssue(resp.Msg.Issue)
	return c.after(ctx, s)
}

type IssueUpdateCmd struct {
	IssueID     string `arg:"" help:"Issue ID"`
	Title       string `help:"Issue title" required:""`
	Description string `help:"Issue description (markdown)" default:""`
	Priority    string `help:"low, medium, high or urgent" required:""`
	Assignee    string `help:"assignee user ID, empty clears the assignee" default:""`

	RefetchFlags `embed:""`
}

func (c *IssueUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	s, err := globals.session()
	if err != nil {
		return err
	}

	resp, err := s.clients.Issues.UpdateIssue(ctx, connect.NewRequest(&boardv1.UpdateIssueRequest{
		OrgID:       s.orgID,
		IssueID:     c.IssueID,
		Title:       c.Title,
		Description: c.Description,
		Priority:    enumValue(c.Priority),
		AssigneeID:  c.Assignee,
	}))
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}

	printIssue(resp.Msg.Issue)
	return c.after(ctx, s)
}

type IssueStatusCmd struct {
	IssueID string `arg:"" help:"Issue ID"`
	Status  string `arg:"" help:"todo, in-progress, in-review or done"`

	RefetchFlags `embed:""`
}

func (c *IssueStatusCmd) Run(ctx context.Context, globals *Globals) error {
	s, err := globals.session()
	if err != nil {
		return err
	}

	resp, err := s.clients.Issues.UpdateIssueStatus(ctx, connect.NewRequest(&boardv1.UpdateIssueStatusRequest{
		OrgID:   s.orgID,
		IssueID: c.IssueID,
		Status:  enumValue(c.Status),
	}))
	if err != nil {
		return fmt.Errorf("failed to update issue status: %w", err)
	}

	printIssue(resp.Msg.Issue)
	return c.after(ctx, s)
}

type IssueMoveCmd struct {
	IssueID string `arg:"" help:"Issue ID"`
	Status  string `arg:"" help:"destination column"`
	Order   int32  `arg:"" help:"destination position, 1 is the top"`

	RefetchFlags `embed:""`
}

func (c *IssueMoveCmd) Run(ctx context.Context, globals *Globals) error {
	s, err := globals.session()
	if err != nil {
		return err
	}

	resp, err := s.clients.Issues.UpdateIssueOrder(ctx, connect.NewRequest(&boardv1.UpdateIssueOrderRequest{
		OrgID:     s.orgID,
		IssueID:   c.IssueID,
		NewStatus: enumValue(c.Status),
		NewOrder:  c.Order,
	}))
	if err != nil {
		return fmt.Errorf("failed to move issue: %w", err)
	}

	printIssue(resp.Msg.Issue)
	return c.after(ctx, s)
}

type IssueShowCmd struct {
	IssueID string `arg:"" help:"Issue ID"`
	Project string `help:"project ID the issue belongs to" required:""`
	Width   int    `help:"render width, defaults to $COLUMNS" default:"0"`
}

func (c *IssueShowCmd) Run(ctx context.Context, globals *Globals) error {
	s, err := globals.session()
	if err != nil {
		return err
	}

	resp, err := s.clients.Projects.GetProject(ctx, connect.NewRequest(&boardv1.GetProjectRequest{
		OrgID:     s.orgID,
		ProjectID: c.Project,
	}))
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	issue := findIssue(resp.Msg, c.IssueID)
	if issue == nil {
		return fmt.Errorf("issue %s not found in project %s", c.IssueID, c.Project)
	}

	width := c.Width
	if width <= 0 {
		width = min(terminalWidth(), 100)
	}

	fmt.Println(render.Issue(issue, width))
	return nil
}

func printIssue(issue *boardv1.Issue) {
	fmt.Printf("%s  %-12s #%-3d %-8s %s\n", issue.ID, issue.Status, issue.Order, issue.Priority, issue.Title)
}
