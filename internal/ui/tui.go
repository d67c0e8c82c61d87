// Package ui provides the terminal interface for the task list.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todo-go/internal/tasklist"
)

// focusArea is the widget that receives plain key presses.
type focusArea int

const (
	focusEntry focusArea = iota
	focusList
)

// mode is the dialog currently shown, if any.
type mode int

const (
	modeNormal mode = iota
	modeConfirmClear
	modeSaveAs
)

// TUIOption configures the TUI behavior.
type TUIOption func(*Model)

// WithTitle overrides the window title.
func WithTitle(title string) TUIOption {
	return func(m *Model) {
		m.title = title
	}
}

// WithoutInitialLoad skips loading the target file when the model is built.
func WithoutInitialLoad() TUIOption {
	return func(m *Model) {
		m.skipLoad = true
	}
}

// RunTUI starts the interactive task list on the terminal.
func RunTUI(ctx context.Context, manager *tasklist.Manager, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := NewModel(manager, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// Model is the bubbletea model for the task list window. It only routes
// key presses to the manager; all list logic lives in tasklist.
type Model struct {
	manager   *tasklist.Manager
	keys      keyMap
	help      help.Model
	entry     textinput.Model
	pathInput textinput.Model
	title     string
	skipLoad  bool

	focus    focusArea
	mode     mode
	cursor   int
	selected map[int]bool

	status string
	err    error
	width  int
}

// NewModel builds the model and, as the window opens, loads the target file.
func NewModel(manager *tasklist.Manager, opts ...TUIOption) *Model {
	entry := textinput.New()
	entry.Placeholder = "What needs doing?"
	entry.Prompt = "› "
	entry.CharLimit = 500
	entry.Width = 48
	entry.Focus()

	pathInput := textinput.New()
	pathInput.Prompt = "Save as: "
	pathInput.CharLimit = 1024
	pathInput.Width = 48

	m := &Model{
		manager:   manager,
		keys:      defaultKeyMap(),
		help:      help.New(),
		entry:     entry,
		pathInput: pathInput,
		title:     "To Do List",
		selected:  make(map[int]bool),
		status:    "Ready.",
	}
	for _, opt := range opts {
		opt(m)
	}
	if !m.skipLoad {
		m.apply(manager.Load())
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Status returns the current status line.
func (m *Model) Status() string {
	return m.status
}

// Err returns the error from the last operation, if it failed.
func (m *Model) Err() error {
	return m.err
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQ) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeConfirmClear:
			return m.updateConfirm(msg)
		case modeSaveAs:
			return m.updateSaveAs(msg)
		}
		return m.updateNormal(msg)
	}

	if m.mode == modeSaveAs {
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}
	if m.focus == focusEntry {
		var cmd tea.Cmd
		m.entry, cmd = m.entry.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		m.apply(m.manager.Save())
		return m, nil
	case key.Matches(msg, m.keys.Load):
		m.apply(m.manager.Load())
		m.resetSelection()
		return m, nil
	case key.Matches(msg, m.keys.SaveAs):
		m.mode = modeSaveAs
		m.pathInput.SetValue(m.manager.Path())
		m.pathInput.CursorEnd()
		m.entry.Blur()
		return m, m.pathInput.Focus()
	case msg.String() == "ctrl+n":
		return m.askClear()
	case key.Matches(msg, m.keys.Focus):
		return m, m.switchFocus()
	}

	if m.focus == focusEntry {
		if key.Matches(msg, m.keys.Add) {
			status, err := m.manager.Add(m.entry.Value())
			m.apply(status, err)
			if err == nil {
				m.entry.SetValue("")
				m.cursor = m.manager.Len() - 1
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.entry, cmd = m.entry.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.manager.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.manager.Len() > 0 {
			m.selected[m.cursor] = !m.selected[m.cursor]
		}
	case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Add):
		m.apply(m.manager.ToggleDone(m.selection()))
		m.resetSelection()
	case key.Matches(msg, m.keys.Delete):
		m.apply(m.manager.Delete(m.selection()))
		m.resetSelection()
	case key.Matches(msg, m.keys.Clear):
		return m.askClear()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) askClear() (tea.Model, tea.Cmd) {
	if m.manager.Len() == 0 {
		m.apply(m.manager.ClearAll(false))
		return m, nil
	}
	m.mode = modeConfirmClear
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.apply(m.manager.ClearAll(true))
	case key.Matches(msg, m.keys.Cancel):
		m.apply(m.manager.ClearAll(false))
	default:
		return m, nil
	}
	m.mode = modeNormal
	m.resetSelection()
	return m, nil
}

func (m *Model) updateSaveAs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.apply(m.manager.SaveAs(m.pathInput.Value()))
	case "esc":
		m.apply(m.manager.SaveAs(""))
	default:
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}
	m.mode = modeNormal
	m.pathInput.Blur()
	if m.focus == focusEntry {
		return m, m.entry.Focus()
	}
	return m, nil
}

func (m *Model) switchFocus() tea.Cmd {
	if m.focus == focusEntry {
		m.focus = focusList
		m.entry.Blur()
		return nil
	}
	m.focus = focusEntry
	return m.entry.Focus()
}

// selection returns the marked rows, or the row under the cursor when
// nothing is marked.
func (m *Model) selection() []int {
	if m.manager.Len() == 0 {
		return nil
	}
	var sel []int
	for idx, on := range m.selected {
		if on && idx < m.manager.Len() {
			sel = append(sel, idx)
		}
	}
	if len(sel) == 0 {
		return []int{m.cursor}
	}
	sort.Ints(sel)
	return sel
}

func (m *Model) resetSelection() {
	m.selected = make(map[int]bool)
	if m.cursor >= m.manager.Len() {
		m.cursor = m.manager.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) apply(status tasklist.Status, err error) {
	m.status = string(status)
	m.err = err
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	box := entryStyle
	if m.focus == focusEntry && m.mode == modeNormal {
		box = entryFocusedStyle
	}
	b.WriteString(box.Render(m.entry.View()))
	b.WriteString("\n\n")

	m.writeList(&b)

	switch m.mode {
	case modeConfirmClear:
		b.WriteString(dialogStyle.Render("Clear All\n\nDelete all tasks? (y/n)"))
		b.WriteString("\n")
	case modeSaveAs:
		b.WriteString("\n" + m.pathInput.View() + "\n")
		b.WriteString(mutedStyle.Render("enter to save, esc to cancel") + "\n")
	}

	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(m.manager.Path()))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) writeList(b *strings.Builder) {
	tasks := m.manager.Tasks()
	if len(tasks) == 0 {
		b.WriteString(mutedStyle.Render("  No tasks yet."))
		b.WriteString("\n")
		return
	}

	for i, task := range tasks {
		pointer := "  "
		if m.focus == focusList && i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		line := m.manager.Line(task)
		switch {
		case m.selected[i]:
			line = selectedStyle.Render(line)
		case task.Done:
			line = doneStyle.Render(line)
		}
		b.WriteString(pointer + line + "\n")
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
