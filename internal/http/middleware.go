package http

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey string

const clientIPContextKey contextKey = "client_ip"

// ExtractClientIP returns the address of the client that sent the request.
// The forwarding headers are set by the client unless a proxy overwrites them,
// so they are only read when trustProxyHeaders is set. In that case the first
// X-Forwarded-For hop wins, then X-Real-IP, then RemoteAddr.
func ExtractClientIP(r *http.Request, trustProxyHeaders bool) string {
	if !trustProxyHeaders {
		return remoteHost(r)
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ClientIPFromContext returns the address stored by ClientIPMiddleware.
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPContextKey).(string)
	return ip
}

// ClientIPMiddleware stores the client address in the request context so the
// rate limiter and request logs can key on it. Enable trustProxyHeaders only
// behind a proxy that overwrites X-Forwarded-For and X-Real-IP.
func ClientIPMiddleware(trustProxyHeaders bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), clientIPContextKey, ExtractClientIP(r, trustProxyHeaders))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
