package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"connectrpc.com/connect"
	boardv1 "github.com/wolfeidau/sprintboard/api/board/v1"
	"gopkg.in/yaml.v3"
)

// ImportFile describes a sprint and the issues to create in it, in column
// order.
type ImportFile struct {
	Project string         `yaml:"project"`
	Sprint  ImportSprint   `yaml:"sprint"`
	Issues  []*ImportIssue `yaml:"issues"`
}

// ImportSprint names an existing sprint by ID, or a new one to create.
type ImportSprint struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`

	start, end time.Time
}

type ImportIssue struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Priority    string `yaml:"priority"`
	Status      string `yaml:"status"`
	Assignee    string `yaml:"assignee"`
}

// LoadImportFile reads and checks an import file.
func LoadImportFile(path string) (*ImportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	f := &ImportFile{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid import file %s: %w", path, err)
	}

	return f, nil
}

func (f *ImportFile) validate() error {
	if f.Sprint.ID == "" {
		if f.Project == "" || f.Sprint.Name == "" {
			return errors.New("either sprint.id or project with sprint.name, sprint.start and sprint.end is required")
		}

		var err error
		if f.Sprint.start, err = parseDate("sprint.start", f.Sprint.Start); err != nil {
			return err
		}
		if f.Sprint.end, err = parseDate("sprint.end", f.Sprint.End); err != nil {
			return err
		}
	}

	if len(f.Issues) == 0 {
		return errors.New("no issues to import")
	}

	for i, issue := range f.Issues {
		if strings.TrimSpace(issue.Title) == "" {
			return fmt.Errorf("issues[%d]: title is required", i)
		}
		issue.Priority = enumValue(issue.Priority)
		issue.Status = enumValue(issue.Status)
	}

	return nil
}

// ImportCmd seeds a sprint from a YAML file using the regular create calls, so
// issues are appended to their columns in file order.
type ImportCmd struct {
	File string `arg:"" help:"YAML file describing the sprint and its issues" type:"existingfile"`
}

func (c *ImportCmd) Run(ctx context.Context, globals *Globals) error {
	f, err := LoadImportFile(c.File)
	if err != nil {
		return err
	}

	s, err := globals.session()
	if err != nil {
		return err
	}

	sprintID := f.Sprint.ID
	if sprintID == "" {
		resp, err := s.clients.Sprints.CreateSprint(ctx, connect.NewRequest(&boardv1.CreateSprintRequest{
			OrgID:     s.orgID,
			ProjectID: f.Project,
			Name:      f.Sprint.Name,
			StartDate: f.Sprint.start,
			EndDate:   f.Sprint.end,
		}))
		if err != nil {
			return fmt.Errorf("failed to create sprint: %w", err)
		}
		sprintID = resp.Msg.Sprint.ID
		fmt.Printf("Created sprint %s (%s)\n", resp.Msg.Sprint.Name, sprintID)
	}

	assignees, err := memberIndex(ctx, s)
	if err != nil {
		return err
	}

	for i, issue := range f.Issues {
		assigneeID, err := assignees.lookup(issue.Assignee)
		if err != nil {
			return fmt.Errorf("issues[%d]: %w", i, err)
		}

		resp, err := s.clients.Issues.CreateIssue(ctx, connect.NewRequest(&boardv1.CreateIssueRequest{
			OrgID:       s.orgID,
			SprintID:    sprintID,
			Title:       issue.Title,
			Description: issue.Description,
			Priority:    issue.Priority,
			Status:      issue.Status,
			AssigneeID:  assigneeID,
		}))
		if err != nil {
			return fmt.Errorf("issues[%d]: failed to create issue: %w", i, err)
		}

		printIssue(resp.Msg.Issue)
	}

	fmt.Printf("Imported %d issues\n", len(f.Issues))
	return nil
}

// members maps emails and user IDs to user IDs.
type members map[string]string

func memberIndex(ctx context.Context, s *session) (members, error) {
	resp, err := s.clients.Members.ListOrgMembers(ctx, connect.NewRequest(&boardv1.ListOrgMembersRequest{OrgID: s.orgID}))
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	index := members{}
	for _, m := range resp.Msg.Members {
		index[m.User.ID] = m.User.ID
		if m.User.Email != "" {
			index[strings.ToLower(m.User.Email)] = m.User.ID
		}
	}
	return index, nil
}

func (m members) lookup(assignee string) (string, error) {
	if assignee == "" {
		return "", nil
	}
	if id, ok := m[strings.ToLower(assignee)]; ok {
		return id, nil
	}
	if id, ok := m[assignee]; ok {
		return id, nil
	}
	return "", fmt.Errorf("assignee %q is not a member of the organization", assignee)
}
