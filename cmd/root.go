// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/exitcode"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/tasklist"
	"github.com/nibzard/todo-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams are the standard streams a command reads and writes.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// env is what every command receives after global flags are parsed.
type env struct {
	streams
	cfg     *config.Config
	sources *config.ConfigWithSources
	logger  *log.Logger
}

// Run executes the todo CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr})
}

func run(ctx context.Context, args []string, s streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(s.errOut)
	fs.Usage = func() {
		printUsage(fs, s.errOut)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return exitcode.Usage(fmt.Errorf("loading config: %w", err))
	}
	if *help {
		printUsage(fs, s.out)
		return nil
	}
	if *showVersion {
		return versionCommand(s.out)
	}

	e := &env{
		streams: s,
		cfg:     cws.Config,
		sources: cws,
		logger: logging.NewFromConfig(s.errOut, cws.Config.LogLevel, cws.Config.LogFormat,
			cws.Config.LogTimestamps, cws.Config.LogCaller),
	}
	for _, w := range cws.Warnings {
		e.logger.Warn(w)
	}

	// With no command, open the TUI on a terminal and list otherwise.
	remainingArgs := fs.Args()
	subcommand := "ls"
	if ui.IsTTY(s.out) {
		subcommand = "tui"
	}
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "add":
		return addCommand(e, remainingArgs)
	case "done":
		return doneCommand(e, remainingArgs)
	case "rm":
		return rmCommand(e, remainingArgs)
	case "clear":
		return clearCommand(e, remainingArgs)
	case "ls":
		return lsCommand(e, remainingArgs)
	case "save-as":
		return saveAsCommand(e, remainingArgs)
	case "tui":
		return tuiCommand(ctx, e, remainingArgs)
	case "doctor":
		return doctorCommand(e, remainingArgs)
	case "log":
		return logCommand(e, remainingArgs)
	case "config":
		return configCommand(e, remainingArgs)
	case "version":
		return versionCommand(s.out)
	case "help":
		printUsage(fs, s.out)
		return nil
	default:
		fmt.Fprintf(s.errOut, "Unknown command: %s\n", subcommand)
		printUsage(fs, s.errOut)
		return exitcode.Usage(fmt.Errorf("unknown command: %s", subcommand))
	}
}

// newManager builds a manager for path, or the configured file when path is empty.
func (e *env) newManager(path string, logger *log.Logger) *tasklist.Manager {
	if path == "" {
		path = e.cfg.TodoFile
	}
	if logger == nil {
		logger = e.logger
	}
	return tasklist.NewManager(
		tasklist.WithPath(e.cfg.ResolvePath(path)),
		tasklist.WithMarkers(e.cfg.DoneMarker, e.cfg.PendingMarker),
		tasklist.WithLogger(logger),
	)
}

// printStatus writes a manager status line.
func (e *env) printStatus(status tasklist.Status) {
	if status != "" {
		fmt.Fprintln(e.out, status)
	}
}

// newFlagSet returns a subcommand flag set that reports to the error stream.
func (e *env) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("todo "+name, flag.ContinueOnError)
	fs.SetOutput(e.errOut)
	return fs
}

// tuiCommand opens the interactive task list.
func tuiCommand(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("tui")
	if err := fs.Parse(args); err != nil {
		return exitcode.Usage(err)
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return exitcode.Usage(fmt.Errorf("unexpected arguments: %v", remaining[1:]))
	}
	path := ""
	if len(remaining) == 1 {
		path = remaining[0]
	}

	// The TUI owns the terminal, so logs go to a session file.
	logger := logging.NewFromConfig(io.Discard, e.cfg.LogLevel, e.cfg.LogFormat, true, e.cfg.LogCaller)
	session, err := logging.NewSessionLog(e.cfg.LogDir, e.cfg.ProjectRoot)
	if err != nil {
		e.logger.Warn("session log disabled", "err", err)
	} else {
		defer session.Close()
		logger.SetOutput(session.Writer())
		logger.Info("session started", "run_id", session.RunID, "version", Version)
	}

	manager := e.newManager(path, logger)
	if err := ui.RunTUI(ctx, manager); err != nil {
		logger.Error("tui exited", "err", err)
		return fmt.Errorf("running tui: %w", err)
	}
	logger.Info("session ended", "tasks", manager.Len())
	return nil
}

// logCommand prints the most recent TUI session log.
func logCommand(e *env, args []string) error {
	fs := e.newFlagSet("log")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return exitcode.Usage(err)
	}
	if fs.NArg() > 0 {
		return exitcode.Usage(fmt.Errorf("unexpected arguments: %v", fs.Args()))
	}

	logDir, err := logging.FindLogDir(e.cfg.LogDir, e.cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(e.out, "No log files found.")
		return nil
	}

	fmt.Fprintf(e.out, "Log: %s\n", logPath)
	return logging.TailLog(e.out, logPath, *n)
}

// configCommand prints the effective configuration and where each value came from.
func configCommand(e *env, args []string) error {
	fs := e.newFlagSet("config")
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return exitcode.Usage(err)
	}
	if *example {
		fmt.Fprint(e.out, config.ExampleConfig())
		return nil
	}

	cfg := e.cfg
	rows := []struct {
		key   string
		value interface{}
	}{
		{"todo_file", cfg.TodoFile},
		{"log_dir", cfg.LogDir},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
		{"done_marker", cfg.DoneMarker},
		{"pending_marker", cfg.PendingMarker},
		{"confirm_clear", cfg.ConfirmClear},
	}
	for _, row := range rows {
		fmt.Fprintf(e.out, "%-15s = %-40q (%s)\n", row.key, fmt.Sprint(row.value), e.sources.Sources[row.key])
	}
	if len(e.sources.Files) > 0 {
		fmt.Fprintln(e.out)
		fmt.Fprintln(e.out, "Config files:")
		for _, f := range e.sources.Files {
			fmt.Fprintf(e.out, "  %s\n", f)
		}
	}
	return nil
}

// doctorCommand checks config and task file validity.
func doctorCommand(e *env, args []string) error {
	fs := e.newFlagSet("doctor")
	if err := fs.Parse(args); err != nil {
		return exitcode.Usage(err)
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return exitcode.Usage(fmt.Errorf("unexpected arguments: %v", remaining[1:]))
	}
	todoPath := e.cfg.TodoFile
	if len(remaining) == 1 {
		todoPath = e.cfg.ResolvePath(remaining[0])
	}

	w := e.out
	fmt.Fprintln(w, "Todo Doctor")
	fmt.Fprintln(w, "===========")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if errs := e.cfg.Validate(); len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(w, "  ❌ %v\n", err)
		}
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	for _, warning := range e.sources.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Task file: %s\n", todoPath)
	data, err := os.ReadFile(todoPath)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (it will be created on first save)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	default:
		if errs := tasklist.Validate(todoPath, data); len(errs) > 0 {
			for _, err := range errs {
				fmt.Fprintf(w, "  ❌ %v\n", err)
			}
			allOK = false
		} else {
			fmt.Fprintln(w, "  ✅ Valid")
		}
	}
	if dir := filepath.Dir(todoPath); !dirWritable(dir) {
		fmt.Fprintf(w, "  ❌ Directory not writable: %s\n", dir)
		allOK = false
	}
	fmt.Fprintln(w)

	if !allOK {
		fmt.Fprintln(w, "Some checks failed.")
		return fmt.Errorf("doctor checks failed")
	}
	fmt.Fprintln(w, "All checks passed.")
	return nil
}

func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".todo-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todo version %s\n", Version)
	return nil
}

// confirm asks a yes/no question on the input stream. Anything but y/yes is no.
func (e *env) confirm(question string) bool {
	fmt.Fprintf(e.out, "%s [y/N] ", question)
	line, err := bufio.NewReader(e.in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(e.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo - a single-list task manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <text...>        Add a task")
	fmt.Fprintln(w, "  done <n[,n...]>...   Toggle tasks done/undone (positions as shown by ls)")
	fmt.Fprintln(w, "  rm <n[,n...]>...     Delete tasks")
	fmt.Fprintln(w, "  clear [-yes]         Delete every task")
	fmt.Fprintln(w, "  ls                   List tasks (default when not on a terminal)")
	fmt.Fprintln(w, "  save-as <path>       Save tasks to a new file")
	fmt.Fprintln(w, "  tui [path]           Launch terminal UI (default on a terminal)")
	fmt.Fprintln(w, "  doctor [path]        Check config and task file validity")
	fmt.Fprintln(w, "  log [-n N]           Print the latest TUI session log")
	fmt.Fprintln(w, "  config [-example]    Show effective configuration")
	fmt.Fprintln(w, "  version              Show version information")
	fmt.Fprintln(w, "  help                 Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  TODO_FILE, TODO_LOG_DIR, TODO_LOG_LEVEL, TODO_LOG_FORMAT,")
	fmt.Fprintln(w, "  TODO_LOG_TIMESTAMPS, TODO_LOG_CALLER, TODO_CONFIRM_CLEAR")
}
