// Package config loads the optional clocktalk/genclocktalkd config file.
//
// Every field is optional. Values the file leaves empty fall back to
// defaults derived from Env, which callers build once from the process
// environment and pass in explicitly.
package config

type Config struct {
	Logging  LoggingConfig  `json:"logging"`
	Defaults DefaultsConfig `json:"defaults"`
	Launchd  LaunchdConfig  `json:"launchd"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console *bool       `json:"console,omitempty"` // default true
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// DefaultsConfig controls how clocktalk talks to defaults(1).
type DefaultsConfig struct {
	Command string `json:"command"`
	// TempDir holds the intermediate plist handed to `defaults import`.
	// Empty means the OS temp dir.
	TempDir string `json:"temp_dir,omitempty"`
}

// LaunchdConfig holds genclocktalkd defaults.
type LaunchdConfig struct {
	ClocktalkPath string `json:"clocktalk_path"`
	WorkDir       string `json:"workdir"`
	OutDir        string `json:"outdir"`
}

// Env is the slice of process state defaults are derived from.
type Env struct {
	Home string // user home directory
	Cwd  string // current working directory
}
