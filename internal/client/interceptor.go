package client

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"
)

var errNoToken = errors.New("no token configured, run sprintctl login first")

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", errNoToken
	}
	return string(t), nil
}

var _ connect.Interceptor = (*BearerToken)(nil)

// BearerToken adds an Authorization header to Connect RPC requests.
type BearerToken struct {
	source TokenSource
}

func NewBearerToken(source TokenSource) *BearerToken {
	return &BearerToken{source: source}
}

func (b *BearerToken) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		token, err := b.source.Token(ctx)
		if err != nil {
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		req.Header().Set("Authorization", "Bearer "+token)
		return next(ctx, req)
	}
}

func (b *BearerToken) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		conn := next(ctx, spec)
		token, err := b.source.Token(ctx)
		if err != nil {
			log.Error().Err(err).Str("procedure", spec.Procedure).Msg("Failed to add auth header to streaming request")
			return conn
		}
		conn.RequestHeader().Set("Authorization", "Bearer "+token)
		return conn
	}
}

// WrapStreamingHandler is not used for client interceptors.
func (b *BearerToken) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}
