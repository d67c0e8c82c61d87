// Package appdir provides constants and utilities for the .todo directory structure.
package appdir

import "path/filepath"

const (
	// Dir is the name of the todo state directory.
	Dir = ".todo"

	// ConfigFile is the config file name (inside .todo, or at the project root).
	ConfigFile = "todo.toml"

	// HiddenConfigFile is the alternate project-level config file name.
	HiddenConfigFile = ".todo.toml"

	// LogDir is the session log directory name (inside .todo).
	LogDir = "logs"
)

// ConfigPath returns the full path to the config file within a base directory.
func ConfigPath(baseDir string) string {
	return joinPath(baseDir, ConfigFile)
}

// LogPath returns the full path to the session log directory within a base directory.
func LogPath(baseDir string) string {
	return joinPath(baseDir, LogDir)
}

// DirPath returns the full path to the .todo directory within a base directory.
func DirPath(baseDir string) string {
	if baseDir == "." || baseDir == "" {
		return Dir
	}
	return filepath.Join(baseDir, Dir)
}

func joinPath(baseDir, file string) string {
	return filepath.Join(DirPath(baseDir), file)
}
