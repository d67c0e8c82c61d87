package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by environment variables (TODO_*) or CLI flags.

# Task file (relative to the working directory)
todo_file = "tasks.json"

# Directory for TUI session logs (supports ~ and $VAR expansion)
log_dir = "~/.todo/logs"

# Logging: debug, info, warn, error
log_level = "warn"

# Log format: text, json, logfmt
log_format = "text"

# Include timestamps / caller location in log lines
log_timestamps = false
log_caller = false

# Prefixes used when listing tasks
done_marker = "✔ "
pending_marker = "  "

# Ask before "todo clear" removes every task (skip with -yes)
confirm_clear = true
`
}
