package history

import (
	"strings"

	"github.com/pkg/errors"
)

// Command is one undoable edit. Implementations capture the state they
// overwrite when they are built, so Undo is an exact inverse of Execute.
type Command interface {
	Execute() error
	Undo() error
	// ShouldUpdate reports whether next is the same kind of edit on the same
	// target and can be folded into this command.
	ShouldUpdate(next Command) bool
	// Update folds next into this command and applies the difference.
	Update(next Command) error
	String() string
}

// NotUpdatable can be embedded by commands that never coalesce.
type NotUpdatable struct{}

func (NotUpdatable) ShouldUpdate(Command) bool { return false }

func (NotUpdatable) Update(next Command) error {
	return errors.Errorf("command does not support updates (got %v)", next)
}

// Multi groups commands into one undo step. Commands run in order and are
// undone in reverse order.
type Multi struct {
	NotUpdatable
	Name     string
	Commands []Command
}

func NewMulti(name string, cmds ...Command) *Multi {
	return &Multi{Name: name, Commands: cmds}
}

// Execute runs every command. If one fails, the ones already executed are
// undone before the error is returned.
func (m *Multi) Execute() error {
	for i, cmd := range m.Commands {
		if err := cmd.Execute(); err != nil {
			for j := i - 1; j >= 0; j-- {
				if uerr := m.Commands[j].Undo(); uerr != nil {
					log.WithError(uerr).Errorf("rollback of %v failed", m.Commands[j])
				}
			}
			return errors.Wrapf(err, "%v: step %d (%v)", m, i, cmd)
		}
	}
	return nil
}

func (m *Multi) Undo() error {
	for i := len(m.Commands) - 1; i >= 0; i-- {
		if err := m.Commands[i].Undo(); err != nil {
			return errors.Wrapf(err, "%v: undo step %d (%v)", m, i, m.Commands[i])
		}
	}
	return nil
}

func (m *Multi) String() string {
	if m.Name != "" {
		return m.Name
	}
	names := make([]string, len(m.Commands))
	for i, cmd := range m.Commands {
		names[i] = cmd.String()
	}
	return "Multi(" + strings.Join(names, ", ") + ")"
}
