package client

import (
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/wolfeidau/sprintboard/api/board/v1/boardv1connect"
)

// Config holds common client configuration
type Config struct {
	ServerURL string
	Token     string
	Timeout   time.Duration
	Debug     bool
}

// Clients holds the board service clients
type Clients struct {
	Projects boardv1connect.ProjectServiceClient
	Sprints  boardv1connect.SprintServiceClient
	Issues   boardv1connect.IssueServiceClient
	Members  boardv1connect.MemberServiceClient
}

// NewClients creates board clients that send the configured bearer token on
// every request.
func NewClients(config Config) *Clients {
	return NewClientsWithHTTPClient(&http.Client{Timeout: config.Timeout}, config)
}

// NewClientsWithHTTPClient is NewClients with a caller supplied HTTP client.
func NewClientsWithHTTPClient(httpClient connect.HTTPClient, config Config) *Clients {
	opts := []connect.ClientOption{
		connect.WithInterceptors(NewBearerToken(StaticToken(config.Token))),
	}

	return &Clients{
		Projects: boardv1connect.NewProjectServiceClient(httpClient, config.ServerURL, opts...),
		Sprints:  boardv1connect.NewSprintServiceClient(httpClient, config.ServerURL, opts...),
		Issues:   boardv1connect.NewIssueServiceClient(httpClient, config.ServerURL, opts...),
		Members:  boardv1connect.NewMemberServiceClient(httpClient, config.ServerURL, opts...),
	}
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		ServerURL: "http://localhost:8080",
		Timeout:   30 * time.Second,
	}
}
