package config

import (
	"fmt"
	"strings"

	"github.com/nibzard/todo-go/internal/tasklist"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
	// Warnings holds non-fatal problems such as unknown keys in a config file.
	Warnings []string
}

// Default values.
const (
	DefaultTodoFile     = tasklist.DefaultPath
	DefaultLogDir       = "~/.todo/logs"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
	DefaultConfirmClear = true
)

// Config holds the full configuration for todo.
type Config struct {
	// Task file; relative paths resolve against the project root
	TodoFile string `toml:"todo_file"`

	// Session logs written by the TUI
	LogDir string `toml:"log_dir"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Display
	DoneMarker    string `toml:"done_marker"`
	PendingMarker string `toml:"pending_marker"`

	// Ask before clearing the list from the CLI
	ConfirmClear bool `toml:"confirm_clear"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// validLogLevels and validLogFormats list the accepted logging values.
var (
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error", "fatal"}
	validLogFormats = []string{"text", "json", "logfmt"}
)

// Validate reports configuration values that are out of range.
func (c *Config) Validate() []error {
	var errs []error
	if strings.TrimSpace(c.TodoFile) == "" {
		errs = append(errs, fmt.Errorf("todo_file: must not be empty"))
	}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("log_level: %q (expected %s)", c.LogLevel, strings.Join(validLogLevels, "|")))
	}
	if !contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		errs = append(errs, fmt.Errorf("log_format: %q (expected %s)", c.LogFormat, strings.Join(validLogFormats, "|")))
	}
	if c.DoneMarker == c.PendingMarker {
		errs = append(errs, fmt.Errorf("done_marker and pending_marker are identical (%q)", c.DoneMarker))
	}
	return errs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
