package logger

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/sprintboard/internal/auth"
	httpmiddleware "github.com/wolfeidau/sprintboard/internal/http"
)

// Setup builds the process logger. In dev mode output goes through the
// console writer at debug level, otherwise JSON at info level.
func Setup(dev bool) zerolog.Logger {
	return setup(os.Stderr, dev)
}

func setup(out io.Writer, dev bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	if dev {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp().Str("service", "sprintboard")
	if dev {
		ctx = ctx.Caller().Stack()
	}

	return ctx.Logger()
}

var _ connect.Interceptor = (*ConnectRequests)(nil)

// ConnectRequests attaches a request scoped logger to the context and logs
// each rpc with its procedure, caller, duration and result code.
type ConnectRequests struct {
	logger zerolog.Logger
}

func NewConnectRequests(logger zerolog.Logger) *ConnectRequests {
	return &ConnectRequests{logger: logger}
}

func (c *ConnectRequests) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		started := time.Now()

		fields := c.logger.With().
			Str("procedure", req.Spec().Procedure).
			Str("protocol", req.Peer().Protocol)

		if ip := httpmiddleware.ClientIPFromContext(ctx); ip != "" {
			fields = fields.Str("client_ip", ip)
		}
		if caller, ok := auth.CallerFromContext(ctx); ok {
			fields = fields.Str("org_id", caller.OrgID).
				Str("user_id", caller.UserID.String()).
				Str("role", string(caller.Role))
		}

		ctx = fields.Logger().WithContext(ctx)

		resp, err := next(ctx, req)

		event := levelFor(ctx, err)
		if err != nil {
			event = event.Err(err).Str("code", codeOf(err).String())
		}
		event.Dur("duration", time.Since(started)).Msg("rpc call")

		return resp, err
	}
}

// The board API has no streaming procedures.
func (c *ConnectRequests) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (c *ConnectRequests) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}

// levelFor logs client mistakes at warn and server faults at error.
func levelFor(ctx context.Context, err error) *zerolog.Event {
	log := zerolog.Ctx(ctx)
	if err == nil {
		return log.Info()
	}

	switch codeOf(err) {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return log.Error()
	default:
		return log.Warn()
	}
}

func codeOf(err error) connect.Code {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Code()
	}
	return connect.CodeUnknown
}
