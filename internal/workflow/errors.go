package workflow

import (
	"errors"
	"fmt"

	"github.com/wolfeidau/sprintboard/internal/auth"
	"github.com/wolfeidau/sprintboard/internal/store"
)

// Error taxonomy of the workflow engine. Authorization failures are the
// auth package sentinels, re-exported here so callers need one import.
var (
	ErrUnauthorized = auth.ErrUnauthorized
	ErrForbidden    = auth.ErrForbidden
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
)

// ValidationError reports an invalid input field.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// mapStoreError translates store sentinels into the workflow taxonomy,
// keeping the original error in the chain.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrProjectNotFound),
		errors.Is(err, store.ErrSprintNotFound),
		errors.Is(err, store.ErrIssueNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrOrganizationNotFound),
		errors.Is(err, store.ErrMembershipNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrProjectKeyExists):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}
