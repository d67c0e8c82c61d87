package tasklist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultPath is the task file used until SaveAs picks another one.
const DefaultPath = "tasks.json"

// Default display markers.
const (
	DefaultDoneMarker    = "✔ "
	DefaultPendingMarker = "  "
)

// Task is a single to-do entry.
type Task struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Status is the one-line outcome of a Manager operation.
type Status string

// Fixed statuses. Operations that report counts or paths build theirs.
const (
	StatusAdded          Status = "Task added."
	StatusEmptyText      Status = "Type a task first!"
	StatusNoDeleteTarget Status = "No selection to delete"
	StatusDeleted        Status = "Selected task(s) deleted."
	StatusNoToggleTarget Status = "Select a task first"
	StatusToggled        Status = "Toggled done/undone"
	StatusNothingToClear Status = "No tasks to clear"
	StatusClearCancelled Status = "Clear cancelled"
	StatusCleared        Status = "All tasks cleared"
	StatusSaveFailed     Status = "Save failed"
	StatusNotFound       Status = "No saved tasks found"
	StatusLoadFailed     Status = "Load failed"
	StatusSaveAsCanceled Status = "Save as cancelled"
	StatusInvalidIndex   Status = "Selection is out of range"
)

// Option configures a Manager.
type Option func(*Manager)

// WithPath sets the initial target path.
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithLogger sets the logger used for operation tracing.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMarkers overrides the prefixes used by Lines.
func WithMarkers(done, pending string) Option {
	return func(m *Manager) {
		m.doneMarker = done
		m.pendingMarker = pending
	}
}

// Manager owns the ordered task collection and its target file.
// It is not safe for concurrent use.
type Manager struct {
	tasks         []Task
	path          string
	logger        *log.Logger
	doneMarker    string
	pendingMarker string
}

// NewManager returns an empty manager targeting DefaultPath unless overridden.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		path:          DefaultPath,
		logger:        log.New(io.Discard),
		doneMarker:    DefaultDoneMarker,
		pendingMarker: DefaultPendingMarker,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Path returns the current target path.
func (m *Manager) Path() string {
	return m.path
}

// Len returns the number of tasks held.
func (m *Manager) Len() int {
	return len(m.tasks)
}

// Tasks returns a copy of the collection in display order.
func (m *Manager) Tasks() []Task {
	out := make([]Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Line renders a task as a display line using the manager's markers.
func (m *Manager) Line(t Task) string {
	if t.Done {
		return m.doneMarker + t.Text
	}
	return m.pendingMarker + t.Text
}

// Lines renders the whole collection, one line per task.
func (m *Manager) Lines() []string {
	lines := make([]string, len(m.tasks))
	for i, t := range m.tasks {
		lines[i] = m.Line(t)
	}
	return lines
}

// Add appends a new, not-done task. Surrounding whitespace is trimmed.
func (m *Manager) Add(text string) (Status, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return StatusEmptyText, &ValidationError{Field: "text", Err: ErrEmptyText}
	}
	m.tasks = append(m.tasks, Task{Text: text})
	m.logger.Debug("task added", "index", len(m.tasks)-1, "count", len(m.tasks))
	return StatusAdded, nil
}

// Delete removes the tasks at the given zero-based positions. An empty
// selection is a no-op, not an error.
func (m *Manager) Delete(indices []int) (Status, error) {
	if len(indices) == 0 {
		return StatusNoDeleteTarget, nil
	}
	sel, err := m.selection(indices)
	if err != nil {
		return StatusInvalidIndex, err
	}
	// Highest first so earlier removals don't shift later positions.
	for i := len(sel) - 1; i >= 0; i-- {
		idx := sel[i]
		m.tasks = append(m.tasks[:idx], m.tasks[idx+1:]...)
	}
	m.logger.Debug("tasks deleted", "indices", sel, "count", len(m.tasks))
	return StatusDeleted, nil
}

// ToggleDone flips the done flag of each selected task in place. An empty
// selection is a no-op, not an error.
func (m *Manager) ToggleDone(indices []int) (Status, error) {
	if len(indices) == 0 {
		return StatusNoToggleTarget, nil
	}
	sel, err := m.selection(indices)
	if err != nil {
		return StatusInvalidIndex, err
	}
	for _, idx := range sel {
		m.tasks[idx].Done = !m.tasks[idx].Done
	}
	m.logger.Debug("tasks toggled", "indices", sel)
	return StatusToggled, nil
}

// ClearAll empties the collection. The caller asks the user and passes the
// answer; nothing is removed unless confirmed is true.
func (m *Manager) ClearAll(confirmed bool) (Status, error) {
	if len(m.tasks) == 0 {
		return StatusNothingToClear, nil
	}
	if !confirmed {
		return StatusClearCancelled, nil
	}
	n := len(m.tasks)
	m.tasks = nil
	m.logger.Debug("tasks cleared", "removed", n)
	return StatusCleared, nil
}

// Save writes the collection to the current target path.
func (m *Manager) Save() (Status, error) {
	return m.SaveTo(m.path)
}

// SaveTo writes the collection to path, overwriting any existing file.
// The target path is left unchanged.
func (m *Manager) SaveTo(path string) (Status, error) {
	data, err := marshalTasks(m.tasks)
	if err != nil {
		m.logger.Error("save failed", "path", path, "err", err)
		return StatusSaveFailed, &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		m.logger.Error("save failed", "path", path, "err", err)
		return StatusSaveFailed, &IOError{Op: "write", Path: path, Err: err}
	}
	m.logger.Info("tasks saved", "path", path, "count", len(m.tasks))
	return Status(fmt.Sprintf("Saved %d task(s) to %s.", len(m.tasks), path)), nil
}

// SaveAs makes path the new target and saves to it. An empty path means the
// user backed out of choosing one. A path with no extension gets ".json".
// The target changes even if the write then fails.
func (m *Manager) SaveAs(path string) (Status, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return StatusSaveAsCanceled, nil
	}
	if filepath.Ext(path) == "" {
		path += ".json"
	}
	m.path = path
	m.logger.Debug("target path changed", "path", path)
	status, err := m.Save()
	if err != nil {
		return status, err
	}
	return Status(fmt.Sprintf("Saved as %s", path)), nil
}

// Load replaces the collection with the contents of the current target.
func (m *Manager) Load() (Status, error) {
	return m.LoadFrom(m.path)
}

// LoadFrom replaces the collection with the contents of path. A missing file
// leaves the collection untouched and is not an error. The target path is
// left unchanged.
func (m *Manager) LoadFrom(path string) (Status, error) {
	tasks, err := ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Debug("no task file", "path", path)
			return StatusNotFound, nil
		}
		m.logger.Error("load failed", "path", path, "err", err)
		return StatusLoadFailed, err
	}
	m.tasks = tasks
	m.logger.Info("tasks loaded", "path", path, "count", len(tasks))
	return Status(fmt.Sprintf("Loaded %d task(s) from %s", len(tasks), path)), nil
}

// ReadFile reads and checks a task file. A missing file yields an *IOError
// wrapping fs.ErrNotExist.
func ReadFile(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes task file contents. path is used only in error messages.
func Parse(path string, data []byte) ([]Task, error) {
	if errs := Validate(path, data); len(errs) > 0 {
		return nil, errs[0]
	}

	var raw []struct {
		Text string      `json:"text"`
		Done interface{} `json:"done"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	tasks := make([]Task, 0, len(raw))
	for _, r := range raw {
		done, _ := r.Done.(bool)
		tasks = append(tasks, Task{Text: r.Text, Done: done})
	}
	return tasks, nil
}

// selection checks indices against the collection and returns them sorted
// ascending with duplicates removed.
func (m *Manager) selection(indices []int) ([]int, error) {
	seen := make(map[int]bool, len(indices))
	sel := make([]int, 0, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(m.tasks) {
			return nil, &ValidationError{
				Field: fmt.Sprintf("indices[%d]", i),
				Err:   fmt.Errorf("%w: %d (have %d tasks)", ErrIndexOutOfRange, idx, len(m.tasks)),
			}
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		sel = append(sel, idx)
	}
	sort.Ints(sel)
	return sel, nil
}

func marshalTasks(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return buf.Bytes(), nil
}
