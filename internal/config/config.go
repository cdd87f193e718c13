// Package config loads the jiratrack configuration from
// ~/.config/jiratrack/config.toml, with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrNotFound indicates no config file exists at the expected path.
	ErrNotFound = errors.New("config file not found")

	// ErrIncomplete indicates required settings are missing.
	ErrIncomplete = errors.New("config incomplete")
)

// Config holds all settings for jiratrack.
type Config struct {
	AtlassianURL string `toml:"atlassian_url"`
	UserEmail    string `toml:"user_email"`
	UserAPIToken string `toml:"user_api_token"`
	Project      string `toml:"project"`
	TimeoutMs    int    `toml:"timeout_ms,omitempty"`
	LogCalls     bool   `toml:"log_calls,omitempty"`
	StatePath    string `toml:"state_path,omitempty"`
	JournalPath  string `toml:"journal_path,omitempty"`
}

// DefaultConfig returns a Config with defaults for the optional settings.
func DefaultConfig() Config {
	return Config{TimeoutMs: 10000}
}

// Timeout returns the HTTP timeout for tracker calls.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// DefaultPath returns the config file location, honoring JIRATRACK_CONFIG.
func DefaultPath() (string, error) {
	if v := os.Getenv("JIRATRACK_CONFIG"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "jiratrack", "config.toml"), nil
}

// DataDir returns ~/.local/share/jiratrack, where state and logs live.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "jiratrack"), nil
}

// Load reads the config file at path and applies environment overrides.
// A missing file is only an error when the environment does not supply
// every required setting.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	_, err := toml.DecodeFile(path, &cfg)
	missing := errors.Is(err, os.ErrNotExist)
	if err != nil && !missing {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		if missing {
			return cfg, fmt.Errorf("%w: %s (run `jiratrack init`)", ErrNotFound, path)
		}
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("JIRATRACK_URL"); v != "" {
		cfg.AtlassianURL = v
	}
	if v := os.Getenv("JIRATRACK_EMAIL"); v != "" {
		cfg.UserEmail = v
	}
	if v := os.Getenv("JIRATRACK_API_TOKEN"); v != "" {
		cfg.UserAPIToken = v
	}
	if v := os.Getenv("JIRATRACK_PROJECT"); v != "" {
		cfg.Project = v
	}
	if v := os.Getenv("JIRATRACK_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("JIRATRACK_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("JIRATRACK_STATE"); v != "" {
		cfg.StatePath = v
	}
	if v := os.Getenv("JIRATRACK_DB"); v != "" {
		cfg.JournalPath = v
	}
}

// Validate reports the required settings that are missing.
func (c Config) Validate() error {
	var missing []string
	if c.AtlassianURL == "" {
		missing = append(missing, "atlassian_url")
	}
	if c.UserEmail == "" {
		missing = append(missing, "user_email")
	}
	if c.UserAPIToken == "" {
		missing = append(missing, "user_api_token")
	}
	if c.Project == "" {
		missing = append(missing, "project")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	if !strings.HasPrefix(c.AtlassianURL, "http://") && !strings.HasPrefix(c.AtlassianURL, "https://") {
		return fmt.Errorf("%w: atlassian_url must start with http:// or https://", ErrIncomplete)
	}
	return nil
}

// ResolvePaths fills StatePath and JournalPath with their defaults under
// DataDir when unset.
func (c *Config) ResolvePaths() error {
	if c.StatePath != "" && c.JournalPath != "" {
		return nil
	}
	dir, err := DataDir()
	if err != nil {
		return err
	}
	if c.StatePath == "" {
		c.StatePath = filepath.Join(dir, "state.json")
	}
	if c.JournalPath == "" {
		c.JournalPath = filepath.Join(dir, "worklog.db")
	}
	return nil
}

// Save writes cfg to path, replacing any existing file atomically.
// The file holds an API token, so it is created with 0600 permissions.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	buf.WriteString("# jiratrack configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing temp config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}
