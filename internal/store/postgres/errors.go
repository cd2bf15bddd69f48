package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wolfeidau/sprintboard/internal/ordering"
	"github.com/wolfeidau/sprintboard/internal/store"
)

// mapPostgresError maps PostgreSQL-specific errors to store sentinel errors.
// Returns the original error if it's not a PostgreSQL error or doesn't match known patterns.
func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == "projects_key_key" {
			return store.ErrProjectKeyExists
		}
		return fmt.Errorf("unique constraint violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.ForeignKeyViolation:
		switch pgErr.ConstraintName {
		case "issues_assignee_id_fkey", "memberships_user_id_fkey":
			return fmt.Errorf("%w: %s", store.ErrUserNotFound, pgErr.Detail)
		case "memberships_org_id_fkey", "projects_org_id_fkey":
			return fmt.Errorf("%w: %s", store.ErrOrganizationNotFound, pgErr.Detail)
		}
		return fmt.Errorf("foreign key violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.NumericValueOutOfRange:
		return fmt.Errorf("%w: %s", ordering.ErrInvalidOrder, pgErr.Message)

	case pgerrcode.CheckViolation:
		return fmt.Errorf("check constraint violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("transaction conflict (retryable): %w", err)

	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow,
		pgerrcode.AdminShutdown,
		pgerrcode.TooManyConnections:
		return fmt.Errorf("database unavailable: %w", err)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled: %w", err)

	default:
		return fmt.Errorf("postgres error [%s]: %w", pgErr.Code, err)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
