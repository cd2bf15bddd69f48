package main

import (
	"context"
	"time"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/sprintboard/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login   commands.LoginCmd   `cmd:"" help:"Save the server URL and token"`
		WhoAmI  commands.WhoAmICmd  `cmd:"" name:"whoami" help:"Show the current user, organization and role"`
		Members commands.MembersCmd `cmd:"" help:"List organization members"`
		Project commands.ProjectCmd `cmd:"" help:"Manage projects"`
		Sprint  commands.SprintCmd  `cmd:"" help:"Manage sprints"`
		Issue   commands.IssueCmd   `cmd:"" help:"Manage issues"`
		Board   struct {
			Show   commands.BoardCmd  `cmd:"" help:"Render a project board"`
			Import commands.ImportCmd `cmd:"" help:"Create a sprint's issues from a YAML file"`
		} `cmd:"" help:"Show or seed boards"`
		DevToken commands.TokenCmd  `cmd:"" name:"token" help:"Issue a development JWT"`
		Keygen   commands.KeygenCmd `cmd:"" help:"Generate a key pair for development JWTs"`

		Config  string        `help:"Config file path (default ~/.config/sprintctl/config.yaml)" env:"SPRINTCTL_CONFIG"`
		Server  string        `help:"Server URL, overrides the config file" env:"SPRINTCTL_SERVER"`
		Token   string        `help:"Bearer token, overrides the config file" env:"SPRINTCTL_TOKEN"`
		Org     string        `help:"Organization id, overrides the config file" env:"SPRINTCTL_ORG"`
		Timeout time.Duration `help:"Request timeout" default:"30s"`
		Debug   bool          `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("sprintctl"),
		kong.Description("Terminal client for sprintboard."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:      cli.Debug,
		Version:    version,
		ConfigPath: cli.Config,
		Server:     cli.Server,
		Token:      cli.Token,
		Org:        cli.Org,
		Timeout:    cli.Timeout,
	})
	cmd.FatalIfErrorf(err)
}
