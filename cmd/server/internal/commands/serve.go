package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/otelconnect"
	"filippo.io/csrf"
	"github.com/wolfeidau/sprintboard/internal/auth"
	"github.com/wolfeidau/sprintboard/internal/client"
	httpmiddleware "github.com/wolfeidau/sprintboard/internal/http"
	"github.com/wolfeidau/sprintboard/internal/logger"
	"github.com/wolfeidau/sprintboard/internal/server"
	"github.com/wolfeidau/sprintboard/internal/store"
	memorystore "github.com/wolfeidau/sprintboard/internal/store/memory"
	postgresstore "github.com/wolfeidau/sprintboard/internal/store/postgres"
	"github.com/wolfeidau/sprintboard/internal/telemetry"
	"github.com/wolfeidau/sprintboard/internal/workflow"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/time/rate"
)

type ServeCmd struct {
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"SPRINTBOARD_LISTEN"`
	Cert   string `help:"path to TLS cert file, cleartext HTTP/2 is served when unset" default:"" env:"SPRINTBOARD_TLS_CERT"`
	Key    string `help:"path to TLS key file" default:"" env:"SPRINTBOARD_TLS_KEY"`

	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"http://localhost:3000" env:"SPRINTBOARD_CORS_ORIGINS"`

	JWT       JWTFlags       `embed:"" prefix:"jwt-"`
	RateLimit RateLimitFlags `embed:"" prefix:"rate-limit-"`

	TrustProxyHeaders bool `help:"take the client IP from X-Forwarded-For and X-Real-IP, only safe behind a proxy that sets them" default:"false" env:"SPRINTBOARD_TRUST_PROXY_HEADERS"`

	Tracing     bool    `help:"enable tracing and metrics export" default:"false" env:"SPRINTBOARD_TRACING"`
	SampleRatio float64 `help:"trace sample ratio" default:"1" env:"SPRINTBOARD_TRACE_SAMPLE_RATIO"`

	StoreType string        `help:"store type (memory or postgres)" default:"memory" env:"SPRINTBOARD_STORE_TYPE" enum:"memory,postgres"`
	Postgres  PostgresFlags `embed:"" prefix:"postgres-"`
}

type JWTFlags struct {
	Issuer        string `help:"expected token issuer, empty disables the check" default:"sprintboard" env:"SPRINTBOARD_JWT_ISSUER"`
	Audience      string `help:"expected token audience, empty disables the check" default:"" env:"SPRINTBOARD_JWT_AUDIENCE"`
	JWKSURL       string `help:"identity provider JWKS URL" default:"" env:"SPRINTBOARD_JWT_JWKS_URL"`
	JWKSCacheDir  string `help:"directory for the JWKS HTTP cache, in memory when unset" default:"" env:"SPRINTBOARD_JWT_JWKS_CACHE_DIR"`
	PublicKeyFile string `help:"PEM encoded ECDSA public key used instead of a JWKS URL" default:"" env:"SPRINTBOARD_JWT_PUBLIC_KEY"`
}

func (f *JWTFlags) keySource() (auth.KeySource, error) {
	switch {
	case f.JWKSURL != "" && f.PublicKeyFile != "":
		return nil, errors.New("only one of --jwt-jwks-url and --jwt-public-key-file may be set")
	case f.JWKSURL != "":
		return auth.NewJWKSKeyCache(f.JWKSURL, client.NewCachingHTTPClient(f.JWKSCacheDir, 10*time.Second)), nil
	case f.PublicKeyFile != "":
		data, err := os.ReadFile(f.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read public key: %w", err)
		}
		key, err := auth.NewStaticKeyFromPEM(string(data))
		if err != nil {
			return nil, err
		}
		return key, nil
	default:
		return nil, errors.New("one of --jwt-jwks-url or --jwt-public-key-file is required")
	}
}

type RateLimitFlags struct {
	RPS   float64 `help:"requests per second allowed per client IP, 0 disables limiting" default:"10" env:"SPRINTBOARD_RATE_LIMIT_RPS"`
	Burst int     `help:"burst size per client IP" default:"50" env:"SPRINTBOARD_RATE_LIMIT_BURST"`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Dev)
	ctx = log.WithContext(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("version", globals.Version).Bool("dev", globals.Dev).Msg("Starting server")

	interceptors := []connect.Interceptor{logger.NewConnectRequests(log)}
	if c.Tracing {
		log.Info().Msg("Tracing is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, telemetry.Config{
			Version:     globals.Version,
			SampleRatio: c.SampleRatio,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
		otelInterceptor, err := otelconnect.NewInterceptor()
		if err != nil {
			return fmt.Errorf("failed to create OTEL interceptor: %w", err)
		}
		interceptors = append(interceptors, otelInterceptor)
	}

	var (
		workflowStore store.WorkflowStore
		identityStore store.IdentityStore
	)

	switch c.StoreType {
	case "postgres":
		pool, err := c.Postgres.open(ctx, c.Postgres.AutoMigrate)
		if err != nil {
			return err
		}
		defer pool.Close()

		workflowStore = postgresstore.NewWorkflowStore(pool)
		identityStore = postgresstore.NewIdentityStore(pool)
		log.Info().Bool("auto_migrate", c.Postgres.AutoMigrate).Msg("Using PostgreSQL stores")
	default:
		identities := memorystore.NewIdentityStore()
		workflowStore = memorystore.NewWorkflowStore(identities)
		identityStore = identities
		log.Info().Msg("Using in-memory stores")
	}

	keys, err := c.JWT.keySource()
	if err != nil {
		return err
	}
	authMiddleware := auth.NewMiddleware(
		auth.NewTokenVerifier(keys, c.JWT.Issuer, c.JWT.Audience),
		auth.NewResolver(identityStore),
	)

	svc := workflow.NewService(workflowStore, identityStore)
	handler := server.NewServer(svc).Handler(authMiddleware.Wrap, interceptors...)

	// a static key is published so other services can verify dev tokens
	if static, ok := keys.(*auth.StaticKey); ok {
		jwks, err := auth.NewJWKSHandler(static.PublicKey())
		if err != nil {
			return err
		}
		mux := http.NewServeMux()
		mux.Handle("GET /.well-known/jwks.json", jwks)
		mux.Handle("/", handler)
		handler = mux
	}

	if c.RateLimit.RPS > 0 {
		limiter := httpmiddleware.NewRateLimiter(httpmiddleware.RateLimiterConfig{
			Rate:  rate.Limit(c.RateLimit.RPS),
			Burst: c.RateLimit.Burst,
		})
		defer limiter.Stop()
		handler = limiter.Middleware()(handler)
		log.Info().Float64("rps", c.RateLimit.RPS).Int("burst", c.RateLimit.Burst).Msg("Rate limiting enabled")
	}

	protection := csrf.New()
	for _, origin := range c.CORSOrigins {
		if err := protection.AddTrustedOrigin(origin); err != nil {
			return fmt.Errorf("invalid CORS origin %q: %w", origin, err)
		}
	}

	handler = httpmiddleware.ClientIPMiddleware(c.TrustProxyHeaders)(handler)
	handler = withCORS(c.CORSOrigins, protection.Handler(handler))

	tls := c.Cert != "" || c.Key != ""
	if tls && (c.Cert == "" || c.Key == "") {
		return errors.New("both --cert and --key are required for TLS")
	}
	if !tls {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	srv := configureHTTPServer(c.Listen, handler)
	serveErr := make(chan error, 1)

	go func() {
		if tls {
			log.Info().Str("addr", c.Listen).Msg("Starting HTTPS server")
			serveErr <- srv.ListenAndServeTLS(c.Cert, c.Key)
			return
		}

		log.Info().Str("addr", c.Listen).Msg("Starting HTTP server (h2c)")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
