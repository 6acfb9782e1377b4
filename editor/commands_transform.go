package editor

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/sceneditor/history"
	"github.com/mogaika/sceneditor/scene"
)

// transformState is a by-value copy of a local transform.
type transformState struct {
	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3
}

func captureTransform(n scene.Node) transformState {
	o := n.AsObject()
	return transformState{position: o.Position, rotation: o.Rotation, scale: o.Scale}
}

func (s transformState) restore(n scene.Node) {
	o := n.AsObject()
	o.Position, o.Rotation, o.Scale = s.position, s.rotation, s.scale
	o.UpdateMatrixWorld()
}

// transformCommand applies one transformEdit to a fixed list of nodes.
// Undo writes back the local values captured on the first execute.
type transformCommand struct {
	editor   *Editor
	flags    Flag
	Nodes    []scene.Node
	edit     transformEdit
	multiple bool

	captured bool
	old      []transformState
}

func (c *transformCommand) base() *transformCommand { return c }

func (c *transformCommand) Execute() error {
	if !c.captured {
		c.old = make([]transformState, len(c.Nodes))
		for i, n := range c.Nodes {
			c.old[i] = captureTransform(n)
		}
		c.captured = true
	}
	return c.editor.transform(c.Nodes, c.edit, c.multiple, c.flags)
}

func (c *transformCommand) Undo() error {
	prop := c.edit.op.property()
	for i, n := range c.Nodes {
		c.old[i].restore(n)
		if prop != "" {
			n.OnChange(prop)
		} else {
			n.OnChange(scene.PropPosition)
			n.OnChange(scene.PropRotation)
		}
	}
	if !c.flags.has(NoEvent) {
		c.editor.emitObjectsChanged(c.Nodes, prop)
	}
	return nil
}

type transformer interface {
	base() *transformCommand
}

func (c *transformCommand) ShouldUpdate(next history.Command) bool {
	t, ok := next.(transformer)
	if !ok {
		return false
	}
	o := t.base()
	if o.edit.op != c.edit.op || o.multiple != c.multiple || o.edit.space != c.edit.space || !sameNodes(o.Nodes, c.Nodes) {
		return false
	}
	switch c.edit.op {
	case opRotateOnAxis:
		return o.edit.vector == c.edit.vector
	case opRotateAround:
		return o.edit.vector == c.edit.vector && o.edit.pivot == c.edit.pivot
	}
	return true
}

// Update applies the edit of next on top of the current state and folds it
// into this command, so one undo goes back to the state before the first
// edit.
func (c *transformCommand) Update(next history.Command) error {
	if !c.ShouldUpdate(next) {
		return errors.Errorf("cannot merge %v into %v", next, c)
	}
	ne := next.(transformer).base().edit
	if err := c.editor.transform(c.Nodes, ne, c.multiple, c.flags); err != nil {
		return err
	}
	switch c.edit.op {
	case opSetPosition, opSetScale:
		c.edit.vector = ne.vector
	case opSetRotation:
		c.edit.rotation = ne.rotation
	case opTranslate:
		c.edit.vector = c.edit.vector.Add(ne.vector)
	case opRotateOnAxis, opRotateAround:
		c.edit.angle += ne.angle
	case opScale:
		for i := range c.edit.vector {
			c.edit.vector[i] *= ne.vector[i]
		}
	}
	return nil
}

func (c *transformCommand) String() string {
	return c.edit.op.String() + " " + nodeNames(c.Nodes) + " (" + c.edit.space.String() + ")"
}

func newTransformCommand(e *Editor, nodes []scene.Node, ed transformEdit, multiple bool, f Flag) history.Command {
	c := &transformCommand{
		editor:   e,
		flags:    f&commandFlags | NoHistory,
		Nodes:    append([]scene.Node(nil), nodes...),
		edit:     ed,
		multiple: multiple,
	}
	switch ed.op {
	case opSetPosition:
		if multiple {
			return &SetPositionMultipleCommand{c}
		}
		return &SetPositionCommand{c}
	case opSetRotation:
		if multiple {
			return &SetRotationMultipleCommand{c}
		}
		return &SetRotationCommand{c}
	case opSetScale:
		if multiple {
			return &SetScaleMultipleCommand{c}
		}
		return &SetScaleCommand{c}
	case opTranslate:
		if multiple {
			return &TranslateMultipleCommand{c}
		}
		return &TranslateCommand{c}
	case opRotateOnAxis:
		if multiple {
			return &RotateOnAxisMultipleCommand{c}
		}
		return &RotateOnAxisCommand{c}
	case opRotateAround:
		if multiple {
			return &RotateAroundMultipleCommand{c}
		}
		return &RotateAroundCommand{c}
	case opScale:
		if multiple {
			return &ScaleMultipleCommand{c}
		}
		return &ScaleCommand{c}
	}
	return c
}

type (
	SetPositionCommand          struct{ *transformCommand }
	SetPositionMultipleCommand  struct{ *transformCommand }
	SetRotationCommand          struct{ *transformCommand }
	SetRotationMultipleCommand  struct{ *transformCommand }
	SetScaleCommand             struct{ *transformCommand }
	SetScaleMultipleCommand     struct{ *transformCommand }
	TranslateCommand            struct{ *transformCommand }
	TranslateMultipleCommand    struct{ *transformCommand }
	RotateOnAxisCommand         struct{ *transformCommand }
	RotateOnAxisMultipleCommand struct{ *transformCommand }
	RotateAroundCommand         struct{ *transformCommand }
	RotateAroundMultipleCommand struct{ *transformCommand }
	ScaleCommand                struct{ *transformCommand }
	ScaleMultipleCommand        struct{ *transformCommand }
)
