package commands

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
	boardv1 "github.com/wolfeidau/sprintboard/api/board/v1"
	"github.com/wolfeidau/sprintboard/cmd/cli/internal/config"
	"github.com/wolfeidau/sprintboard/internal/client"
)

// LoginCmd stores the server URL and bearer token after checking them with
// the server.
type LoginCmd struct {
	NoVerify bool `help:"save without calling the server" default:"false"`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	path, err := globals.configPath()
	if err != nil {
		return err
	}

	existing, err := config.Load(path)
	if err != nil {
		return err
	}

	cfg := existing.Merge(globals.Server, globals.Token, globals.Org)
	if cfg.Server == "" || cfg.Token == "" {
		return fmt.Errorf("--server and --token are required")
	}

	if !c.NoVerify {
		clients := client.NewClients(client.Config{ServerURL: cfg.Server, Token: cfg.Token, Timeout: globals.Timeout})

		resp, err := clients.Members.WhoAmI(ctx, connect.NewRequest(&boardv1.WhoAmIRequest{}))
		if err != nil {
			return fmt.Errorf("failed to verify token: %w", err)
		}

		if cfg.OrgID == "" {
			cfg.OrgID = resp.Msg.Organization.ID
		}

		fmt.Printf("Logged in as %s (%s) in %s\n", resp.Msg.User.Email, resp.Msg.Role, resp.Msg.Organization.Name)
	}

	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Printf("Saved configuration to %s\n", path)
	return nil
}

type WhoAmICmd struct{}

func (c *WhoAmICmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Server == "" || cfg.Token == "" {
		return config.ErrNotLoggedIn
	}

	clients := client.NewClients(client.Config{ServerURL: cfg.Server, Token: cfg.Token, Timeout: globals.Timeout})

	resp, err := clients.Members.WhoAmI(ctx, connect.NewRequest(&boardv1.WhoAmIRequest{}))
	if err != nil {
		return fmt.Errorf("failed to get identity: %w", err)
	}

	fmt.Printf("User:         %s %s <%s>\n", resp.Msg.User.FirstName, resp.Msg.User.LastName, resp.Msg.User.Email)
	fmt.Printf("User ID:      %s\n", resp.Msg.User.ID)
	fmt.Printf("Organization: %s (%s)\n", resp.Msg.Organization.Name, resp.Msg.Organization.ID)
	fmt.Printf("Role:         %s\n", resp.Msg.Role)
	return nil
}

type MembersCmd struct{}

func (c *MembersCmd) Run(ctx context.Context, globals *Globals) error {
	s, err := globals.session()
	if err != nil {
		return err
	}

	resp, err := s.clients.Members.ListOrgMembers(ctx, connect.NewRequest(&boardv1.ListOrgMembersRequest{OrgID: s.orgID}))
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	if len(resp.Msg.Members) == 0 {
		fmt.Println("No members found.")
		return nil
	}

	fmt.Printf("%-36s %-8s %-30s %s\n", "User ID", "Role", "Email", "Name")
	for _, m := range resp.Msg.Members {
		fmt.Printf("%-36s %-8s %-30s %s %s\n", m.User.ID, m.Role, m.User.Email, m.User.FirstName, m.User.LastName)
	}
	return nil
}
