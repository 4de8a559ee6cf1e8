// Package config loads sidecar configuration from an optional TOML file and
// BEACON_* environment variables, env taking precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults match the dashboard's expectations: the UI polls port 4000 first
// and walks the fallback range when the sidecar had to move.
const (
	DefaultPort          = 4000
	DefaultFallbackStart = 4001
	DefaultFallbackEnd   = 4010
	DefaultMaxEvents     = 1000
	DefaultRecentLimit   = 500
)

type Config struct {
	Port          int    `toml:"port"`           // BEACON_PORT
	FallbackStart int    `toml:"fallback_start"` // BEACON_FALLBACK_PORTS ("4001-4010")
	FallbackEnd   int    `toml:"fallback_end"`
	MaxEvents     int    `toml:"max_events"`   // BEACON_MAX_EVENTS
	RecentLimit   int    `toml:"recent_limit"` // BEACON_RECENT_LIMIT
	NATSURL       string `toml:"nats_url"`     // BEACON_NATS_URL (optional, empty = no bus)
	LogLevel      string `toml:"log_level"`    // BEACON_LOG_LEVEL (debug|info|warn|error)
	LogFormat     string `toml:"log_format"`   // BEACON_LOG_FORMAT (text|json|auto)
}

// DefaultPath returns the conventional config file location
// (~/.config/beacon/config.toml). The file is optional.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "beacon", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "beacon", "config.toml"), nil
}

// Load builds the configuration: defaults, then the TOML file at path (if it
// exists; pass "" to use DefaultPath), then environment overrides.
func Load(path string) (*Config, error) {
	c := &Config{
		Port:          DefaultPort,
		FallbackStart: DefaultFallbackStart,
		FallbackEnd:   DefaultFallbackEnd,
		MaxEvents:     DefaultMaxEvents,
		RecentLimit:   DefaultRecentLimit,
		LogLevel:      "info",
		LogFormat:     "auto",
	}

	if path == "" {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, c); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if c.FallbackStart > c.FallbackEnd {
		return nil, fmt.Errorf("fallback port range %d-%d is empty", c.FallbackStart, c.FallbackEnd)
	}
	if c.MaxEvents <= 0 {
		return nil, fmt.Errorf("max_events must be positive, got %d", c.MaxEvents)
	}
	if c.RecentLimit <= 0 {
		return nil, fmt.Errorf("recent_limit must be positive, got %d", c.RecentLimit)
	}

	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BEACON_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BEACON_PORT: %w", err)
		}
		c.Port = p
	}
	if v := os.Getenv("BEACON_FALLBACK_PORTS"); v != "" {
		lo, hi, err := parsePortRange(v)
		if err != nil {
			return fmt.Errorf("BEACON_FALLBACK_PORTS: %w", err)
		}
		c.FallbackStart, c.FallbackEnd = lo, hi
	}
	if v := os.Getenv("BEACON_MAX_EVENTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BEACON_MAX_EVENTS: %w", err)
		}
		c.MaxEvents = n
	}
	if v := os.Getenv("BEACON_RECENT_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BEACON_RECENT_LIMIT: %w", err)
		}
		c.RecentLimit = n
	}
	if v := os.Getenv("BEACON_NATS_URL"); v != "" {
		c.NATSURL = v
	}
	if v := os.Getenv("BEACON_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("BEACON_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	return nil
}

// parsePortRange parses "4001-4010" into its inclusive bounds.
func parsePortRange(s string) (int, int, error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		p, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, 0, fmt.Errorf("expected \"lo-hi\" or a single port, got %q", s)
		}
		return p, p, nil
	}
	a, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, fmt.Errorf("bad range start %q", lo)
	}
	b, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, fmt.Errorf("bad range end %q", hi)
	}
	return a, b, nil
}
