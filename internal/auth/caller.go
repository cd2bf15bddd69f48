package auth

import (
	"context"

	"connectrpc.com/authn"
	"github.com/google/uuid"
	"github.com/wolfeidau/sprintboard/internal/models"
)

// Caller is the resolved identity behind a request: who is calling, in which
// organization and with which role. It is passed explicitly into every
// workflow operation.
type Caller struct {
	UserID     uuid.UUID
	ExternalID string
	OrgID      string
	Role       models.Role
}

// IsAdmin reports whether the caller holds the admin role in their organization.
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == models.RoleAdmin
}

// CallerFromContext returns the caller stored by the authentication middleware.
func CallerFromContext(ctx context.Context) (*Caller, bool) {
	caller, ok := authn.GetInfo(ctx).(*Caller)
	return caller, ok && caller != nil
}

// WithCaller stores a caller in the context.
func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return authn.SetInfo(ctx, caller)
}
