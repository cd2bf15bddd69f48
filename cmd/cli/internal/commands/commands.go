package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wolfeidau/sprintboard/cmd/cli/internal/config"
	"github.com/wolfeidau/sprintboard/internal/client"
)

type Globals struct {
	Debug      bool
	Version    string
	ConfigPath string
	Server     string
	Token      string
	Org        string
	Timeout    time.Duration
}

// session is the resolved configuration plus ready to use clients.
type session struct {
	orgID   string
	clients *client.Clients
}

func (g *Globals) configPath() (string, error) {
	if g.ConfigPath != "" {
		return g.ConfigPath, nil
	}
	return config.DefaultPath()
}

func (g *Globals) loadConfig() (*config.Config, error) {
	path, err := g.configPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	return cfg.Merge(g.Server, g.Token, g.Org), nil
}

func (g *Globals) session() (*session, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &session{
		orgID: cfg.OrgID,
		clients: client.NewClients(client.Config{
			ServerURL: cfg.Server,
			Token:     cfg.Token,
			Timeout:   g.Timeout,
			Debug:     g.Debug,
		}),
	}, nil
}

// enumValue accepts in-progress, "in progress" or IN_PROGRESS.
func enumValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return strings.ToUpper(s)
}

func parseDate(field, value string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: expected YYYY-MM-DD or RFC3339, got %q", field, value)
}

func terminalWidth() int {
	if width, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && width > 0 {
		return width
	}
	return 160
}
