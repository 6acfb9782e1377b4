// Package history keeps the undo/redo stacks of editor commands.
package history

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/sceneditor/events"
)

var log = logrus.WithField("pkg", "history")

// ErrDisabled is returned by Undo and Redo while the history is disabled.
var ErrDisabled = errors.New("history is disabled")

// DefaultWindow is the time within which compatible commands are merged into
// the previous undo step.
const DefaultWindow = 1000 * time.Millisecond

// Record is one entry of the undo or redo stack.
type Record struct {
	ID      int
	Command Command
}

type History struct {
	undos []Record
	redos []Record

	lastExecute time.Time
	idCounter   int
	disabled    bool

	window time.Duration
	limit  int
	now    func() time.Time

	// Changed fires after every execute, undo, redo and clear. The payload
	// is the affected command, nil on clear.
	Changed events.Signal[Command]
}

type Option func(*History)

// WithClock replaces time.Now, mainly for tests of the coalescing window.
func WithClock(now func() time.Time) Option {
	return func(h *History) { h.now = now }
}

func WithWindow(d time.Duration) Option {
	return func(h *History) { h.window = d }
}

// WithLimit caps the number of undo records; 0 keeps everything.
func WithLimit(n int) Option {
	return func(h *History) { h.limit = n }
}

func New(opts ...Option) *History {
	h := &History{
		window: DefaultWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute runs cmd and records it. When the newest undo record accepts cmd
// as an update and the previous execute happened within the window, cmd is
// folded into that record instead of starting a new undo step.
func (h *History) Execute(cmd Command) error {
	now := h.now()

	var last Command
	if len(h.undos) != 0 {
		last = h.undos[len(h.undos)-1].Command
	}

	if last != nil && !h.lastExecute.IsZero() && now.Sub(h.lastExecute) < h.window && last.ShouldUpdate(cmd) {
		if err := last.Update(cmd); err != nil {
			return errors.Wrapf(err, "update %v", last)
		}
		log.Debugf("updated #%d %v", h.undos[len(h.undos)-1].ID, last)
		cmd = last
	} else {
		if err := cmd.Execute(); err != nil {
			return err
		}
		h.idCounter++
		h.undos = append(h.undos, Record{ID: h.idCounter, Command: cmd})
		if h.limit > 0 && len(h.undos) > h.limit {
			h.undos = append(h.undos[:0:0], h.undos[len(h.undos)-h.limit:]...)
		}
		log.Debugf("executed #%d %v", h.idCounter, cmd)
	}

	h.lastExecute = now
	h.redos = nil
	h.Changed.Emit(cmd)
	return nil
}

// Undo reverts the newest record. An empty stack is not an error: it returns
// nil, nil.
func (h *History) Undo() (Command, error) {
	if h.disabled {
		log.Warn("undo refused: history is disabled")
		return nil, ErrDisabled
	}
	if len(h.undos) == 0 {
		return nil, nil
	}
	rec := h.undos[len(h.undos)-1]
	if err := rec.Command.Undo(); err != nil {
		return nil, errors.Wrapf(err, "undo #%d %v", rec.ID, rec.Command)
	}
	h.undos = h.undos[:len(h.undos)-1]
	h.redos = append(h.redos, rec)
	log.Debugf("undone #%d %v", rec.ID, rec.Command)
	h.Changed.Emit(rec.Command)
	return rec.Command, nil
}

// Redo re-executes the newest undone record. An empty stack is not an error.
func (h *History) Redo() (Command, error) {
	if h.disabled {
		log.Warn("redo refused: history is disabled")
		return nil, ErrDisabled
	}
	if len(h.redos) == 0 {
		return nil, nil
	}
	rec := h.redos[len(h.redos)-1]
	if err := rec.Command.Execute(); err != nil {
		return nil, errors.Wrapf(err, "redo #%d %v", rec.ID, rec.Command)
	}
	h.redos = h.redos[:len(h.redos)-1]
	h.undos = append(h.undos, rec)
	log.Debugf("redone #%d %v", rec.ID, rec.Command)
	h.Changed.Emit(rec.Command)
	return rec.Command, nil
}

// Clear drops both stacks. Used when a scene is loaded wholesale.
func (h *History) Clear() {
	h.undos = nil
	h.redos = nil
	h.idCounter = 0
	h.lastExecute = time.Time{}
	h.Changed.Emit(nil)
}

func (h *History) Disable()      { h.disabled = true }
func (h *History) Enable()       { h.disabled = false }
func (h *History) Enabled() bool { return !h.disabled }

func (h *History) CanUndo() bool { return !h.disabled && len(h.undos) != 0 }
func (h *History) CanRedo() bool { return !h.disabled && len(h.redos) != 0 }

// Undos returns a copy of the undo stack, oldest first.
func (h *History) Undos() []Record { return append([]Record(nil), h.undos...) }

// Redos returns a copy of the redo stack; the last element is redone first.
func (h *History) Redos() []Record { return append([]Record(nil), h.redos...) }
