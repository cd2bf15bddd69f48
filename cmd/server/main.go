package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/sprintboard/cmd/server/internal/commands"
)

var version = "dev"

type cli struct {
	Dev     bool             `help:"Enable development mode (debug logging, console output)." env:"SPRINTBOARD_DEV"`
	Version kong.VersionFlag `help:"Print version and exit."`

	Serve   commands.ServeCmd   `cmd:"" default:"withargs" help:"Serve the board API."`
	Migrate commands.MigrateCmd `cmd:"" help:"Apply database migrations and exit."`
}

func main() {
	var flags cli

	ctx := kong.Parse(&flags,
		kong.Name("sprintboard"),
		kong.Description("Multi-tenant sprint board API."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)

	ctx.FatalIfErrorf(ctx.Run(&commands.Globals{Dev: flags.Dev, Version: version}))
}
