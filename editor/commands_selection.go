package editor

import (
	"github.com/mogaika/sceneditor/history"
	"github.com/mogaika/sceneditor/scene"
)

// commandFlags are the caller flags a command keeps for replays.
const commandFlags = NoEvent | NoSelect | UniqueName

// selectionSnapshot remembers the selection a command replaced.
type selectionSnapshot struct {
	history.NotUpdatable
	editor *Editor
	flags  Flag
	prev   []scene.Node
}

func newSelectionSnapshot(e *Editor, f Flag) selectionSnapshot {
	return selectionSnapshot{editor: e, flags: f&commandFlags | NoHistory}
}

func (s *selectionSnapshot) capture() { s.prev = s.editor.Selected() }

func (s *selectionSnapshot) Undo() error {
	s.editor.SetSelection(s.prev, s.flags)
	return nil
}

type SelectCommand struct {
	selectionSnapshot
	Node scene.Node
}

func NewSelectCommand(e *Editor, n scene.Node, flags ...Flag) *SelectCommand {
	return &SelectCommand{selectionSnapshot: newSelectionSnapshot(e, flagsOf(flags)), Node: n}
}

func (c *SelectCommand) Execute() error {
	c.capture()
	c.editor.Select(c.Node, c.flags)
	return nil
}

func (c *SelectCommand) String() string { return "Select " + nodeName(c.Node) }

type SelectMultipleCommand struct {
	selectionSnapshot
	Nodes []scene.Node
}

func NewSelectMultipleCommand(e *Editor, nodes []scene.Node, flags ...Flag) *SelectMultipleCommand {
	return &SelectMultipleCommand{
		selectionSnapshot: newSelectionSnapshot(e, flagsOf(flags)),
		Nodes:             append([]scene.Node(nil), nodes...),
	}
}

func (c *SelectMultipleCommand) Execute() error {
	c.capture()
	c.editor.SelectMultiple(c.Nodes, c.flags)
	return nil
}

func (c *SelectMultipleCommand) String() string { return "Select " + nodeNames(c.Nodes) }

type SelectAllCommand struct {
	selectionSnapshot
}

func NewSelectAllCommand(e *Editor, flags ...Flag) *SelectAllCommand {
	return &SelectAllCommand{selectionSnapshot: newSelectionSnapshot(e, flagsOf(flags))}
}

func (c *SelectAllCommand) Execute() error {
	c.capture()
	c.editor.SelectAll(c.flags)
	return nil
}

func (c *SelectAllCommand) String() string { return "Select all" }

type DeselectCommand struct {
	selectionSnapshot
	Node scene.Node
}

func NewDeselectCommand(e *Editor, n scene.Node, flags ...Flag) *DeselectCommand {
	return &DeselectCommand{selectionSnapshot: newSelectionSnapshot(e, flagsOf(flags)), Node: n}
}

func (c *DeselectCommand) Execute() error {
	c.capture()
	c.editor.Deselect(c.Node, c.flags)
	return nil
}

func (c *DeselectCommand) String() string { return "Deselect " + nodeName(c.Node) }

type DeselectMultipleCommand struct {
	selectionSnapshot
	Nodes []scene.Node
}

func NewDeselectMultipleCommand(e *Editor, nodes []scene.Node, flags ...Flag) *DeselectMultipleCommand {
	return &DeselectMultipleCommand{
		selectionSnapshot: newSelectionSnapshot(e, flagsOf(flags)),
		Nodes:             append([]scene.Node(nil), nodes...),
	}
}

func (c *DeselectMultipleCommand) Execute() error {
	c.capture()
	c.editor.DeselectMultiple(c.Nodes, c.flags)
	return nil
}

func (c *DeselectMultipleCommand) String() string { return "Deselect " + nodeNames(c.Nodes) }

type DeselectAllCommand struct {
	selectionSnapshot
}

func NewDeselectAllCommand(e *Editor, flags ...Flag) *DeselectAllCommand {
	return &DeselectAllCommand{selectionSnapshot: newSelectionSnapshot(e, flagsOf(flags))}
}

func (c *DeselectAllCommand) Execute() error {
	c.capture()
	c.editor.DeselectAll(c.flags)
	return nil
}

func (c *DeselectAllCommand) String() string { return "Deselect all" }

// SetSelectionCommand replaces the whole selection.
type SetSelectionCommand struct {
	selectionSnapshot
	Nodes []scene.Node
}

func NewSetSelectionCommand(e *Editor, nodes []scene.Node, flags ...Flag) *SetSelectionCommand {
	return &SetSelectionCommand{
		selectionSnapshot: newSelectionSnapshot(e, flagsOf(flags)),
		Nodes:             append([]scene.Node(nil), nodes...),
	}
}

func (c *SetSelectionCommand) Execute() error {
	c.capture()
	c.editor.SetSelection(c.Nodes, c.flags)
	return nil
}

func (c *SetSelectionCommand) String() string { return "Set selection " + nodeNames(c.Nodes) }
