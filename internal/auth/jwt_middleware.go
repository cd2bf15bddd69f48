package auth

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/authn"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/sprintboard/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// NewAuthFunc returns an authn.AuthFunc that verifies bearer tokens and
// resolves them into a Caller. The caller can be retrieved with CallerFromContext.
// Every request through the middleware must authenticate, so public routes
// such as the health check are mounted outside it.
func NewAuthFunc(verifier *TokenVerifier, resolver *Resolver) authn.AuthFunc {
	return func(ctx context.Context, req authn.Request) (any, error) {
		tokenStr, ok := strings.CutPrefix(req.Header().Get("Authorization"), "Bearer ")
		if !ok || tokenStr == "" {
			return nil, authn.Errorf("missing bearer token")
		}

		claims, err := verifier.Verify(ctx, tokenStr)
		if err != nil {
			return nil, authn.Errorf("invalid token")
		}

		caller, err := resolver.Resolve(ctx, claims)
		if err != nil {
			if errors.Is(err, ErrUnauthorized) {
				return nil, authn.Errorf("%s", err)
			}
			log.Error().Err(err).Str("subject", claims.Subject).Msg("Failed to resolve caller")
			return nil, authn.Errorf("failed to resolve identity")
		}

		telemetry.GetMetrics().CallersResolved.Add(ctx, 1, metric.WithAttributes(attribute.String("role", string(caller.Role))))

		return caller, nil
	}
}

// NewMiddleware wraps handlers with bearer token authentication.
func NewMiddleware(verifier *TokenVerifier, resolver *Resolver) *authn.Middleware {
	return authn.NewMiddleware(NewAuthFunc(verifier, resolver))
}
