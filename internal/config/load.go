package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kickingvegas/clocktalk/internal/defaults"
)

const defaultLogLevel = "warn"

// Default returns the configuration used when no file is given.
func Default(env Env) *Config {
	cfg := &Config{}
	cfg.applyDefaults(env)
	return cfg
}

// Load reads path (JSON, or YAML by extension) and fills unset fields from
// env. An empty path yields Default(env).
func Load(path string, env Env) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(env), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(path, b)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.applyDefaults(env)
	return cfg, nil
}

// Parse decodes data strictly: unknown fields and trailing data are errors.
// path only selects the format.
func Parse(path string, data []byte) (*Config, error) {
	jb, _, err := coerceToJSONBytes(path, data)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults(env Env) {
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Console == nil {
		on := true
		c.Logging.Console = &on
	}
	if strings.TrimSpace(c.Defaults.Command) == "" {
		c.Defaults.Command = defaults.DefaultCommand
	}
	c.Defaults.TempDir = expandHome(c.Defaults.TempDir, env.Home)

	if strings.TrimSpace(c.Launchd.ClocktalkPath) == "" {
		c.Launchd.ClocktalkPath = DefaultClocktalkPath(env.Home)
	}
	c.Launchd.ClocktalkPath = expandHome(c.Launchd.ClocktalkPath, env.Home)
	if strings.TrimSpace(c.Launchd.WorkDir) == "" {
		c.Launchd.WorkDir = env.Cwd
	}
	c.Launchd.WorkDir = expandHome(c.Launchd.WorkDir, env.Home)
	if strings.TrimSpace(c.Launchd.OutDir) == "" {
		c.Launchd.OutDir = env.Cwd
	}
	c.Launchd.OutDir = expandHome(c.Launchd.OutDir, env.Home)
}

// DefaultClocktalkPath is $HOME/bin/clocktalk.
func DefaultClocktalkPath(home string) string {
	if home == "" {
		return filepath.Join("bin", "clocktalk")
	}
	return filepath.Join(home, "bin", "clocktalk")
}

// ConsoleEnabled reports whether console logging is on.
func (c LoggingConfig) ConsoleEnabled() bool {
	return c.Console == nil || *c.Console
}

func expandHome(p, home string) string {
	if home == "" {
		return p
	}
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}
