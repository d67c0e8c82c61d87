// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/todo-go/internal/exitcode"
	"github.com/nibzard/todo-go/internal/tasklist"
)

// setupWorkspace isolates config lookup and returns the working directory.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, key := range []string{
		"TODO_FILE", "TODO_LOG_DIR", "TODO_LOG_LEVEL", "TODO_LOG_FORMAT",
		"TODO_LOG_TIMESTAMPS", "TODO_LOG_CALLER", "TODO_CONFIRM_CLEAR",
	} {
		t.Setenv(key, "")
	}
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	return work
}

// runCLI runs the CLI with the given stdin and returns stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, streams{
		in:     strings.NewReader(stdin),
		out:    &out,
		errOut: &errOut,
	})
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, "", args...)
	if err != nil {
		t.Fatalf("todo %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func readTasks(t *testing.T, path string) []tasklist.Task {
	t.Helper()
	tasks, err := tasklist.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return tasks
}

func TestRun(t *testing.T) {
	setupWorkspace(t)

	t.Run("shows help with -help flag", func(t *testing.T) {
		out, err := runCLI(t, "", "-help")
		if err != nil {
			t.Errorf("expected no error with -help, got %v", err)
		}
		if !strings.Contains(out, "Commands:") {
			t.Errorf("help output missing commands: %q", out)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		if _, err := runCLI(t, "", "help"); err != nil {
			t.Errorf("expected no error with help command, got %v", err)
		}
	})

	t.Run("shows version with -v flag", func(t *testing.T) {
		out, err := runCLI(t, "", "-v")
		if err != nil {
			t.Errorf("expected no error with -v, got %v", err)
		}
		if !strings.Contains(out, "todo version "+Version) {
			t.Errorf("version output: %q", out)
		}
	})

	t.Run("unknown command returns usage error", func(t *testing.T) {
		_, err := runCLI(t, "", "unknown-command")
		if err == nil {
			t.Fatal("expected error for unknown command, got nil")
		}
		if !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
		if code := exitcode.FromError(err); code != exitcode.UserError {
			t.Errorf("exit code: got %d, want %d", code, exitcode.UserError)
		}
	})

	t.Run("bad global flag is a usage error", func(t *testing.T) {
		_, err := runCLI(t, "", "-no-such-flag")
		if code := exitcode.FromError(err); code != exitcode.UserError {
			t.Errorf("exit code: got %d, want %d (%v)", code, exitcode.UserError, err)
		}
	})
}

func TestTaskCommands(t *testing.T) {
	work := setupWorkspace(t)
	path := filepath.Join(work, "tasks.json")

	if out := mustRun(t, "add", "Buy", "milk"); !strings.Contains(out, string(tasklist.StatusAdded)) {
		t.Errorf("add output: %q", out)
	}
	mustRun(t, "add", "Walk dog")
	mustRun(t, "add", "Write report")

	tasks := readTasks(t, path)
	if len(tasks) != 3 || tasks[0].Text != "Buy milk" {
		t.Fatalf("after add: %+v", tasks)
	}

	if out := mustRun(t, "done", "1,3"); !strings.Contains(out, string(tasklist.StatusToggled)) {
		t.Errorf("done output: %q", out)
	}
	tasks = readTasks(t, path)
	if !tasks[0].Done || tasks[1].Done || !tasks[2].Done {
		t.Fatalf("after done: %+v", tasks)
	}

	out := mustRun(t, "ls")
	want := "1 ✔ Buy milk\n2   Walk dog\n3 ✔ Write report\n"
	if out != want {
		t.Errorf("ls:\ngot  %q\nwant %q", out, want)
	}

	if out := mustRun(t, "rm", "2"); !strings.Contains(out, string(tasklist.StatusDeleted)) {
		t.Errorf("rm output: %q", out)
	}
	tasks = readTasks(t, path)
	if len(tasks) != 2 || tasks[1].Text != "Write report" {
		t.Fatalf("after rm: %+v", tasks)
	}
}

func TestAddEmptyText(t *testing.T) {
	work := setupWorkspace(t)

	out, err := runCLI(t, "", "add", "  ")
	if err == nil {
		t.Fatal("expected error for empty text")
	}
	var ve *tasklist.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected *ValidationError, got %T", err)
	}
	if !strings.Contains(out, string(tasklist.StatusEmptyText)) {
		t.Errorf("output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(work, "tasks.json")); !os.IsNotExist(err) {
		t.Error("rejected add wrote the task file")
	}
}

func TestPositionErrors(t *testing.T) {
	setupWorkspace(t)
	mustRun(t, "add", "A")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "not a number", args: []string{"done", "one"}, want: exitcode.UserError},
		{name: "zero", args: []string{"rm", "0"}, want: exitcode.UserError},
		{name: "out of range", args: []string{"rm", "5"}, want: exitcode.UserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			if code := exitcode.FromError(err); code != tt.want {
				t.Errorf("exit code: got %d, want %d (%v)", code, tt.want, err)
			}
		})
	}

	if out := mustRun(t, "ls"); !strings.Contains(out, "A") {
		t.Errorf("list changed after rejected commands: %q", out)
	}
}

func TestEmptySelection(t *testing.T) {
	setupWorkspace(t)
	out := mustRun(t, "rm")
	if !strings.Contains(out, string(tasklist.StatusNoDeleteTarget)) {
		t.Errorf("rm output: %q", out)
	}
}

func TestClearCommand(t *testing.T) {
	work := setupWorkspace(t)
	path := filepath.Join(work, "tasks.json")
	mustRun(t, "add", "A")
	mustRun(t, "add", "B")

	out, err := runCLI(t, "n\n", "clear")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !strings.Contains(out, string(tasklist.StatusClearCancelled)) {
		t.Errorf("declined clear output: %q", out)
	}
	if got := readTasks(t, path); len(got) != 2 {
		t.Fatalf("declined clear removed tasks: %+v", got)
	}

	out, err = runCLI(t, "y\n", "clear")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !strings.Contains(out, string(tasklist.StatusCleared)) {
		t.Errorf("confirmed clear output: %q", out)
	}
	if got := readTasks(t, path); len(got) != 0 {
		t.Fatalf("confirmed clear kept tasks: %+v", got)
	}

	if out := mustRun(t, "clear", "-yes"); !strings.Contains(out, string(tasklist.StatusNothingToClear)) {
		t.Errorf("empty clear output: %q", out)
	}
}

func TestClearWithoutConfirm(t *testing.T) {
	work := setupWorkspace(t)
	t.Setenv("TODO_CONFIRM_CLEAR", "false")
	mustRun(t, "add", "A")

	// No input available, so any prompt would decline.
	mustRun(t, "clear")
	if got := readTasks(t, filepath.Join(work, "tasks.json")); len(got) != 0 {
		t.Fatalf("clear kept tasks: %+v", got)
	}
}

func TestSaveAsCommand(t *testing.T) {
	work := setupWorkspace(t)
	mustRun(t, "add", "A")

	out := mustRun(t, "save-as", "backup")
	target := filepath.Join(work, "backup.json")
	if !strings.Contains(out, "Saved as "+target) {
		t.Errorf("save-as output: %q", out)
	}
	if got := readTasks(t, target); len(got) != 1 || got[0].Text != "A" {
		t.Errorf("backup contents: %+v", got)
	}

	if _, err := runCLI(t, "", "save-as"); exitcode.FromError(err) != exitcode.UserError {
		t.Errorf("save-as without path: %v", err)
	}
}

func TestFileFlag(t *testing.T) {
	work := setupWorkspace(t)
	mustRun(t, "-f", "other.json", "add", "A")

	if _, err := os.Stat(filepath.Join(work, "other.json")); err != nil {
		t.Fatalf("-f target not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(work, "tasks.json")); !os.IsNotExist(err) {
		t.Error("default target written despite -f")
	}
}

func TestLsMissingFile(t *testing.T) {
	setupWorkspace(t)
	out := mustRun(t)
	if !strings.Contains(out, string(tasklist.StatusNotFound)) {
		t.Errorf("ls output: %q", out)
	}
}

func TestCorruptFileIsNotOverwritten(t *testing.T) {
	work := setupWorkspace(t)
	path := filepath.Join(work, "tasks.json")
	corrupt := []byte(`[{"text": }]`)
	if err := os.WriteFile(path, corrupt, 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", "add", "A")
	if code := exitcode.FromError(err); code != exitcode.ParseError {
		t.Errorf("exit code: got %d, want %d (%v)", code, exitcode.ParseError, err)
	}
	if !strings.Contains(out, string(tasklist.StatusLoadFailed)) {
		t.Errorf("output: %q", out)
	}
	data, _ := os.ReadFile(path)
	if !bytes.Equal(data, corrupt) {
		t.Errorf("corrupt file was rewritten: %s", data)
	}
}

func TestDoctorCommand(t *testing.T) {
	work := setupWorkspace(t)

	out := mustRun(t, "doctor")
	if !strings.Contains(out, "All checks passed.") {
		t.Errorf("doctor on missing file: %q", out)
	}

	if err := os.WriteFile(filepath.Join(work, "tasks.json"), []byte(`[{"done": true}]`), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "", "doctor")
	if err == nil {
		t.Error("expected doctor to fail on invalid file")
	}
	if !strings.Contains(out, "[0]") {
		t.Errorf("doctor output does not locate the problem: %q", out)
	}
}

func TestConfigCommand(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("TODO_LOG_LEVEL", "debug")

	out := mustRun(t, "config")
	if !strings.Contains(out, "log_level") || !strings.Contains(out, "(environment)") {
		t.Errorf("config output: %q", out)
	}

	out = mustRun(t, "config", "-example")
	if !strings.Contains(out, "confirm_clear") {
		t.Errorf("example config: %q", out)
	}
}

func TestLogCommandNoLogs(t *testing.T) {
	work := setupWorkspace(t)
	out := mustRun(t, "-log-dir", filepath.Join(work, "logs"), "log")
	if !strings.Contains(out, "No log files found.") {
		t.Errorf("log output: %q", out)
	}
}
