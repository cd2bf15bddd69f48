// Package config persists sprintctl settings in a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNotLoggedIn is returned when the server URL or token is missing.
var ErrNotLoggedIn = errors.New("not logged in, run sprintctl login first")

// Config is the content of ~/.config/sprintctl/config.yaml.
type Config struct {
	Server string `yaml:"server"`
	Token  string `yaml:"token"`
	OrgID  string `yaml:"org_id,omitempty"`
}

// DefaultPath returns ~/.config/sprintctl/config.yaml, honouring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "sprintctl", "config.yaml"), nil
}

// Load reads the config at path. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to path, readable only by the current user since it
// holds a bearer token.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return os.Rename(tmp, path)
}

// Merge returns a copy with any non-empty override applied.
func (c *Config) Merge(server, token, orgID string) *Config {
	merged := *c
	if server != "" {
		merged.Server = server
	}
	if token != "" {
		merged.Token = token
	}
	if orgID != "" {
		merged.OrgID = orgID
	}
	return &merged
}

// Validate checks the settings needed to call the API.
func (c *Config) Validate() error {
	if c.Server == "" || c.Token == "" {
		return ErrNotLoggedIn
	}
	if c.OrgID == "" {
		return errors.New("no organization set, pass --org or run sprintctl login --org")
	}
	return nil
}
