package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	postgresstore "github.com/wolfeidau/sprintboard/internal/store/postgres"
)

type PostgresFlags struct {
	ConnString      string        `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`
	MaxConns        int32         `help:"maximum number of connections in pool" default:"20" env:"SPRINTBOARD_POSTGRES_MAX_CONNS"`
	MinConns        int32         `help:"minimum number of connections in pool" default:"2" env:"SPRINTBOARD_POSTGRES_MIN_CONNS"`
	MaxConnLifetime time.Duration `help:"maximum connection lifetime" default:"1h" env:"SPRINTBOARD_POSTGRES_MAX_CONN_LIFETIME"`
	MaxConnIdleTime time.Duration `help:"maximum connection idle time" default:"30m" env:"SPRINTBOARD_POSTGRES_MAX_CONN_IDLE_TIME"`
	ConnectAttempts uint          `help:"attempts to connect at startup" default:"5" env:"SPRINTBOARD_POSTGRES_CONNECT_ATTEMPTS"`
	AutoMigrate     bool          `help:"run database migrations on startup" default:"false" env:"SPRINTBOARD_POSTGRES_AUTO_MIGRATE"`
}

func (f *PostgresFlags) poolConfig() *postgresstore.PoolConfig {
	return &postgresstore.PoolConfig{
		ConnString:      f.ConnString,
		MaxConns:        f.MaxConns,
		MinConns:        f.MinConns,
		MaxConnLifetime: f.MaxConnLifetime,
		MaxConnIdleTime: f.MaxConnIdleTime,
		ConnectAttempts: f.ConnectAttempts,
	}
}

func (f *PostgresFlags) open(ctx context.Context, migrate bool) (*pgxpool.Pool, error) {
	pool, err := postgresstore.NewPool(ctx, f.poolConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if migrate {
		if err := postgresstore.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return pool, nil
}
