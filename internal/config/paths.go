package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ExpandPath expands a leading ~ and $VAR references in p.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if expanded != "~" && !hasHomePrefix(expanded) {
		return expanded
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return expanded
	}
	if expanded == "~" {
		return home
	}
	return filepath.Join(home, expanded[2:])
}

func hasHomePrefix(p string) bool {
	return strings.HasPrefix(p, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(p, "~\\"))
}

// ResolvePath makes p absolute against the project root.
func (c *Config) ResolvePath(p string) string {
	p = ExpandPath(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectRoot, p)
}
