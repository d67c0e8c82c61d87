package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/todo-go/internal/exitcode"
	"github.com/nibzard/todo-go/internal/tasklist"
	"github.com/nibzard/todo-go/internal/utils"
)

// openManager loads the configured task file. A missing file yields an
// empty list; any other load failure aborts so a bad file is never overwritten.
func (e *env) openManager() (*tasklist.Manager, error) {
	m := e.newManager("", nil)
	status, err := m.Load()
	if err != nil {
		e.printStatus(status)
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	return m, nil
}

// save writes m back and prints the outcome.
func (e *env) save(m *tasklist.Manager) error {
	status, err := m.Save()
	if err != nil {
		e.printStatus(status)
		return fmt.Errorf("saving tasks: %w", err)
	}
	e.logger.Debug(string(status))
	return nil
}

// addCommand appends one task built from all remaining arguments.
func addCommand(e *env, args []string) error {
	m, err := e.openManager()
	if err != nil {
		return err
	}
	status, err := m.Add(strings.Join(args, " "))
	e.printStatus(status)
	if err != nil {
		return err
	}
	return e.save(m)
}

// doneCommand toggles the tasks at the given positions.
func doneCommand(e *env, args []string) error {
	return positionsCommand(e, args, (*tasklist.Manager).ToggleDone)
}

// rmCommand deletes the tasks at the given positions.
func rmCommand(e *env, args []string) error {
	return positionsCommand(e, args, (*tasklist.Manager).Delete)
}

func positionsCommand(e *env, args []string, op func(*tasklist.Manager, []int) (tasklist.Status, error)) error {
	indices, err := utils.ParsePositions(args)
	if err != nil {
		return exitcode.Usage(err)
	}
	m, err := e.openManager()
	if err != nil {
		return err
	}
	status, err := op(m, indices)
	e.printStatus(status)
	if err != nil {
		return err
	}
	if len(indices) == 0 {
		return nil
	}
	return e.save(m)
}

// clearCommand removes every task after confirmation.
func clearCommand(e *env, args []string) error {
	fs := e.newFlagSet("clear")
	yes := fs.Bool("yes", false, "Do not ask for confirmation")
	fs.BoolVar(yes, "y", false, "Do not ask for confirmation (shorthand)")
	if err := fs.Parse(args); err != nil {
		return exitcode.Usage(err)
	}
	if fs.NArg() > 0 {
		return exitcode.Usage(fmt.Errorf("unexpected arguments: %v", fs.Args()))
	}

	m, err := e.openManager()
	if err != nil {
		return err
	}

	confirmed := *yes || !e.cfg.ConfirmClear
	if !confirmed && m.Len() > 0 {
		confirmed = e.confirm(fmt.Sprintf("Delete all %d task(s)?", m.Len()))
	}
	status, err := m.ClearAll(confirmed)
	e.printStatus(status)
	if err != nil {
		return err
	}
	if status != tasklist.StatusCleared {
		return nil
	}
	return e.save(m)
}

// lsCommand prints numbered display lines.
func lsCommand(e *env, args []string) error {
	fs := e.newFlagSet("ls")
	if err := fs.Parse(args); err != nil {
		return exitcode.Usage(err)
	}
	if fs.NArg() > 0 {
		return exitcode.Usage(fmt.Errorf("unexpected arguments: %v", fs.Args()))
	}

	m := e.newManager("", nil)
	status, err := m.Load()
	if err != nil {
		e.printStatus(status)
		return fmt.Errorf("loading tasks: %w", err)
	}
	if m.Len() == 0 {
		e.printStatus(status)
		if status != tasklist.StatusNotFound {
			fmt.Fprintln(e.out, "No tasks.")
		}
		return nil
	}

	width := len(fmt.Sprint(m.Len()))
	for i, line := range m.Lines() {
		fmt.Fprintf(e.out, "%*d %s\n", width, i+1, line)
	}
	return nil
}

// saveAsCommand writes the current tasks to a new file.
func saveAsCommand(e *env, args []string) error {
	if len(args) != 1 {
		return exitcode.Usage(errors.New("save-as takes exactly one path"))
	}
	m, err := e.openManager()
	if err != nil {
		return err
	}
	status, err := m.SaveAs(e.cfg.ResolvePath(strings.TrimSpace(args[0])))
	e.printStatus(status)
	if err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}
