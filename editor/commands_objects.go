package editor

import (
	"github.com/mogaika/sceneditor/history"
	"github.com/mogaika/sceneditor/scene"
)

// structureCommand is the shared part of commands that change the graph.
type structureCommand struct {
	history.NotUpdatable
	editor *Editor
	flags  Flag
	prev   []scene.Node
}

func newStructureCommand(e *Editor, f Flag) structureCommand {
	return structureCommand{editor: e, flags: f&commandFlags | NoHistory}
}

// AddObjectCommand attaches a detached node.
type AddObjectCommand struct {
	structureCommand
	Node   scene.Node
	Parent scene.Node
	Before scene.Node

	oldName string
}

func NewAddObjectCommand(e *Editor, n, parent, before scene.Node, flags ...Flag) *AddObjectCommand {
	return &AddObjectCommand{
		structureCommand: newStructureCommand(e, flagsOf(flags)),
		Node:             n,
		Parent:           parent,
		Before:           before,
	}
}

func (c *AddObjectCommand) Execute() error {
	c.prev = c.editor.Selected()
	c.oldName = c.Node.AsObject().Name
	return c.editor.AddObject(c.Node, c.Parent, c.Before, c.flags)
}

func (c *AddObjectCommand) Undo() error {
	return c.editor.structural(c.flags, func() error {
		c.editor.detach(c.Node)
		c.Node.AsObject().Name = c.oldName
		c.editor.SetSelection(c.prev, quiet)
		return nil
	})
}

func (c *AddObjectCommand) String() string { return "Add " + nodeName(c.Node) }

type AddMultipleObjectsCommand struct {
	structureCommand
	Nodes  []scene.Node
	Parent scene.Node
	Before scene.Node

	oldNames []string
}

func NewAddMultipleObjectsCommand(e *Editor, nodes []scene.Node, parent, before scene.Node, flags ...Flag) *AddMultipleObjectsCommand {
	return &AddMultipleObjectsCommand{
		structureCommand: newStructureCommand(e, flagsOf(flags)),
		Nodes:            append([]scene.Node(nil), nodes...),
		Parent:           parent,
		Before:           before,
	}
}

func (c *AddMultipleObjectsCommand) Execute() error {
	c.prev = c.editor.Selected()
	c.oldNames = make([]string, len(c.Nodes))
	for i, n := range c.Nodes {
		c.oldNames[i] = n.AsObject().Name
	}
	return c.editor.AddMultipleObjects(c.Nodes, c.Parent, c.Before, c.flags)
}

func (c *AddMultipleObjectsCommand) Undo() error {
	return c.editor.structural(c.flags, func() error {
		for i := len(c.Nodes) - 1; i >= 0; i-- {
			c.editor.detach(c.Nodes[i])
			c.Nodes[i].AsObject().Name = c.oldNames[i]
		}
		c.editor.SetSelection(c.prev, quiet)
		return nil
	})
}

func (c *AddMultipleObjectsCommand) String() string { return "Add " + nodeNames(c.Nodes) }

// removal is where a removed node used to be.
type removal struct {
	parent scene.Node
	index  int
}

type RemoveObjectCommand struct {
	structureCommand
	Node scene.Node

	removal removal
}

func NewRemoveObjectCommand(e *Editor, n scene.Node, flags ...Flag) *RemoveObjectCommand {
	return &RemoveObjectCommand{structureCommand: newStructureCommand(e, flagsOf(flags)), Node: n}
}

func (c *RemoveObjectCommand) Execute() error {
	if err := c.editor.checkAttached(c.Node); err != nil {
		return err
	}
	if err := c.editor.checkIndexed(c.Node); err != nil {
		return err
	}
	c.prev = c.editor.Selected()
	return c.editor.removing(c.flags, func() error {
		c.removal.parent, c.removal.index = c.editor.detach(c.Node)
		return nil
	})
}

func (c *RemoveObjectCommand) Undo() error {
	return c.editor.structural(c.flags, func() error {
		c.editor.attach(c.Node, c.removal.parent, c.removal.index)
		c.editor.SetSelection(c.prev, quiet)
		return nil
	})
}

func (c *RemoveObjectCommand) String() string { return "Remove " + nodeName(c.Node) }

// RemoveMultipleObjectsCommand removes removal roots; nodes must not contain
// both a node and one of its descendants.
type RemoveMultipleObjectsCommand struct {
	structureCommand
	Nodes []scene.Node

	removals []removal
}

func NewRemoveMultipleObjectsCommand(e *Editor, nodes []scene.Node, flags ...Flag) *RemoveMultipleObjectsCommand {
	return &RemoveMultipleObjectsCommand{
		structureCommand: newStructureCommand(e, flagsOf(flags)),
		Nodes:            append([]scene.Node(nil), nodes...),
	}
}

func (c *RemoveMultipleObjectsCommand) Execute() error {
	for _, n := range c.Nodes {
		if err := c.editor.checkAttached(n); err != nil {
			return err
		}
		if err := c.editor.checkIndexed(n); err != nil {
			return err
		}
	}
	c.prev = c.editor.Selected()
	c.removals = make([]removal, len(c.Nodes))
	return c.editor.removing(c.flags, func() error {
		for i, n := range c.Nodes {
			c.removals[i].parent, c.removals[i].index = c.editor.detach(n)
		}
		return nil
	})
}

func (c *RemoveMultipleObjectsCommand) Undo() error {
	return c.editor.structural(c.flags, func() error {
		for i := len(c.Nodes) - 1; i >= 0; i-- {
			c.editor.attach(c.Nodes[i], c.removals[i].parent, c.removals[i].index)
		}
		c.editor.SetSelection(c.prev, quiet)
		return nil
	})
}

func (c *RemoveMultipleObjectsCommand) String() string { return "Remove " + nodeNames(c.Nodes) }

// duplicates attaches clones prepared once, so a redo brings back the same
// node values that later commands may refer to. Their names are picked again
// on every redo.
type duplicates struct {
	structureCommand
	placed []placement
}

func (c *duplicates) Execute() error {
	c.prev = c.editor.Selected()
	return c.editor.attachPlaced(c.placed, c.flags)
}

func (c *duplicates) Undo() error {
	return c.editor.structural(c.flags, func() error {
		for i := len(c.placed) - 1; i >= 0; i-- {
			c.editor.detach(c.placed[i].node)
		}
		c.editor.SetSelection(c.prev, quiet)
		return nil
	})
}

// Clones returns the nodes the command attaches.
func (c *duplicates) Clones() []scene.Node {
	nodes := make([]scene.Node, len(c.placed))
	for i, p := range c.placed {
		nodes[i] = p.node
	}
	return nodes
}

type DuplicateCommand struct {
	duplicates
}

func NewDuplicateCommand(e *Editor, p placement, flags ...Flag) *DuplicateCommand {
	return &DuplicateCommand{duplicates{structureCommand: newStructureCommand(e, flagsOf(flags)), placed: []placement{p}}}
}

func (c *DuplicateCommand) String() string { return "Duplicate " + nodeName(c.placed[0].node) }

type DuplicateMultipleCommand struct {
	duplicates
}

func NewDuplicateMultipleCommand(e *Editor, placed []placement, flags ...Flag) *DuplicateMultipleCommand {
	return &DuplicateMultipleCommand{duplicates{structureCommand: newStructureCommand(e, flagsOf(flags)), placed: placed}}
}

func (c *DuplicateMultipleCommand) String() string { return "Duplicate " + nodeNames(c.Clones()) }

// relocation is where a moved node came from.
type relocation struct {
	parent scene.Node
	index  int
	state  transformState
}

// reparenting moves nodes, already in scene order, and puts them back in
// reverse order so every old index is valid again when it is used.
type reparenting struct {
	structureCommand
	Nodes  []scene.Node
	Parent scene.Node
	Before scene.Node

	relocations []relocation
}

func newReparenting(e *Editor, nodes []scene.Node, parent, before scene.Node, f Flag) reparenting {
	return reparenting{
		structureCommand: newStructureCommand(e, f),
		Nodes:            append([]scene.Node(nil), nodes...),
		Parent:           parent,
		Before:           before,
	}
}

func (c *reparenting) Execute() error {
	if err := c.editor.checkReparent(c.Nodes, c.Parent, c.Before); err != nil {
		return err
	}
	c.relocations = make([]relocation, len(c.Nodes))
	return c.editor.structural(c.flags, func() error {
		for i, n := range c.Nodes {
			r := &c.relocations[i]
			r.state = captureTransform(n)
			r.parent, r.index = c.editor.move(n, c.Parent, c.Before, -1)
		}
		return nil
	})
}

func (c *reparenting) Undo() error {
	return c.editor.structural(c.flags, func() error {
		for i := len(c.Nodes) - 1; i >= 0; i-- {
			n, r := c.Nodes[i], c.relocations[i]
			c.editor.move(n, r.parent, nil, r.index)
			r.state.restore(n)
		}
		return nil
	})
}

type ReparentCommand struct {
	reparenting
}

func NewReparentCommand(e *Editor, n, parent, before scene.Node, flags ...Flag) *ReparentCommand {
	return &ReparentCommand{newReparenting(e, []scene.Node{n}, parent, before, flagsOf(flags))}
}

func (c *ReparentCommand) String() string {
	return "Move " + nodeName(c.Nodes[0]) + " to " + nodeName(c.Parent)
}

// ReparentMultipleCommand expects nodes in scene order; the editor sorts them
// before building it.
type ReparentMultipleCommand struct {
	reparenting
}

func NewReparentMultipleCommand(e *Editor, nodes []scene.Node, parent, before scene.Node, flags ...Flag) *ReparentMultipleCommand {
	return &ReparentMultipleCommand{newReparenting(e, nodes, parent, before, flagsOf(flags))}
}

func (c *ReparentMultipleCommand) String() string {
	return "Move " + nodeNames(c.Nodes) + " to " + nodeName(c.Parent)
}

// NewGroupCommand puts roots into group, which is added under parent before
// first, and selects the group.
func NewGroupCommand(e *Editor, group *scene.Group, roots []scene.Node, parent, first scene.Node) *history.Multi {
	return history.NewMulti("Group "+nodeNames(roots),
		NewAddObjectCommand(e, group, parent, first, NoSelect|UniqueName),
		NewReparentMultipleCommand(e, roots, group, nil),
		NewSetSelectionCommand(e, []scene.Node{group}),
	)
}
