package commands

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
	boardv1 "github.com/wolfeidau/sprintboard/api/board/v1"
)

type SprintCmd struct {
	Create SprintCreateCmd `cmd:"" help:"Create a sprint (admin only)"`
	Status SprintStatusCmd `cmd:"" help:"Change a sprint's status (admin only)"`
}

type SprintCreateCmd struct {
	ProjectID string `arg:"" help:"Project ID"`
	Name      string `help:"Sprint name" required:""`
	Start     string `help:"start date (YYYY-MM-DD or RFC3339)" required:""`
	End       string `help:"end date (YYYY-MM-DD or RFC3339)" required:""`
}

func (c *SprintCreateCmd) Run(ctx context.Context, globals *Globals) error {
	start, err := parseDate("start", c.Start)
	if err != nil {
		return err
	}
	end, err := parseDate("end", c.End)
	if err != nil {
		return err
	}

	s, err := globals.session()
	if err != nil {
		return err
	}

	resp, err := s.clients.Sprints.CreateSprint(ctx, connect.NewRequest(&boardv1.CreateSprintRequest{
		OrgID:     s.orgID,
		ProjectID: c.ProjectID,
		Name:      c.Name,
		StartDate: start,
		EndDate:   end,
	}))
	if err != nil {
		return fmt.Errorf("failed to create sprint: %w", err)
	}

	fmt.Printf("Created sprint %s (%s)\n", resp.Msg.Sprint.Name, resp.Msg.Sprint.Status)
	fmt.Printf("Sprint ID: %s\n", resp.Msg.Sprint.ID)
	return nil
}

type SprintStatusCmd struct {
	SprintID string `arg:"" help:"Sprint ID"`
	Status   string `arg:"" help:"planned, active or completed"`
}

func (c *SprintStatusCmd) Run(ctx context.Context, globals *Globals) error {
	s, err := globals.session()
	if err != nil {
		return err
	}

	resp, err := s.clients.Sprints.UpdateSprintStatus(ctx, connect.NewRequest(&boardv1.UpdateSprintStatusRequest{
		OrgID:    s.orgID,
		SprintID: c.SprintID,
		Status:   enumValue(c.Status),
	}))
	if err != nil {
		return fmt.Errorf("failed to update sprint: %w", err)
	}

	fmt.Printf("Sprint %s is now %s\n", resp.Msg.Sprint.Name, resp.Msg.Sprint.Status)
	return nil
}
