package commands

import (
	"context"

	"github.com/wolfeidau/sprintboard/internal/logger"
)

type MigrateCmd struct {
	Postgres PostgresFlags `embed:"" prefix:"postgres-"`
}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Dev)

	pool, err := c.Postgres.open(ctx, true)
	if err != nil {
		return err
	}
	defer pool.Close()

	log.Info().Msg("Database migrations completed")
	return nil
}
