package appdir

import (
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"dir in cwd", DirPath(""), ".todo"},
		{"dir dot", DirPath("."), ".todo"},
		{"dir in home", DirPath("/home/u"), filepath.Join("/home/u", ".todo")},
		{"config in cwd", ConfigPath(""), filepath.Join(".todo", "todo.toml")},
		{"config in home", ConfigPath("/home/u"), filepath.Join("/home/u", ".todo", "todo.toml")},
		{"logs in home", LogPath("/home/u"), filepath.Join("/home/u", ".todo", "logs")},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
