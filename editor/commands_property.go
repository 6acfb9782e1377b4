package editor

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/sceneditor/history"
	"github.com/mogaika/sceneditor/scene"
)

// propertyCommand sets the same values on a list of nodes. Old values are
// snapshotted on the first execute; reference values are cloned through
// scene.Cloner so later in-place edits cannot reach them.
type propertyCommand struct {
	editor   *Editor
	flags    Flag
	Nodes    []scene.Node
	Keys     []string
	Values   map[string]any
	multiple bool

	captured bool
	old      []map[string]any
}

func (c *propertyCommand) base() *propertyCommand { return c }

func (c *propertyCommand) Execute() error {
	if !c.captured {
		c.old = make([]map[string]any, len(c.Nodes))
		for i, n := range c.Nodes {
			c.old[i] = make(map[string]any, len(c.Keys))
			for _, k := range c.Keys {
				v, err := scene.SnapshotProperty(n, k)
				if err != nil {
					return err
				}
				c.old[i][k] = v
			}
		}
		c.captured = true
	}
	if err := c.editor.checkProperties(c.Nodes, c.Keys, c.Values); err != nil {
		return err
	}
	return c.editor.writeProperties(c.Nodes, c.Keys, c.Values, c.flags)
}

func (c *propertyCommand) Undo() error {
	for i, n := range c.Nodes {
		if err := c.editor.writeProperties([]scene.Node{n}, c.Keys, c.old[i], c.flags|NoEvent); err != nil {
			return errors.Wrapf(err, "restore %s", nodeName(n))
		}
	}
	if !c.flags.has(NoEvent) {
		property := ""
		if len(c.Keys) == 1 {
			property = c.Keys[0]
		}
		c.editor.emitObjectsChanged(c.Nodes, property)
	}
	return nil
}

type propertyEditor interface {
	base() *propertyCommand
}

func (c *propertyCommand) ShouldUpdate(next history.Command) bool {
	p, ok := next.(propertyEditor)
	if !ok {
		return false
	}
	o := p.base()
	if o.multiple != c.multiple || len(o.Keys) != len(c.Keys) || !sameNodes(o.Nodes, c.Nodes) {
		return false
	}
	for i := range c.Keys {
		if o.Keys[i] != c.Keys[i] {
			return false
		}
	}
	return true
}

// Update replaces the values with the ones of next and writes them.
func (c *propertyCommand) Update(next history.Command) error {
	if !c.ShouldUpdate(next) {
		return errors.Errorf("cannot merge %v into %v", next, c)
	}
	values := next.(propertyEditor).base().Values
	if err := c.editor.checkProperties(c.Nodes, c.Keys, values); err != nil {
		return err
	}
	if err := c.editor.writeProperties(c.Nodes, c.Keys, values, c.flags); err != nil {
		return err
	}
	c.Values = values
	return nil
}

func (c *propertyCommand) String() string {
	return "Set " + strings.Join(c.Keys, ", ") + " of " + nodeNames(c.Nodes)
}

type (
	SetPropertyCommand           struct{ *propertyCommand }
	SetPropertyMultipleCommand   struct{ *propertyCommand }
	SetPropertiesCommand         struct{ *propertyCommand }
	SetPropertiesMultipleCommand struct{ *propertyCommand }
)

func newPropertyCommand(e *Editor, nodes []scene.Node, keys []string, values map[string]any, multiple bool, f Flag) history.Command {
	own := make(map[string]any, len(values))
	for k, v := range values {
		own[k] = v
	}
	c := &propertyCommand{
		editor:   e,
		flags:    f&commandFlags | NoHistory,
		Nodes:    append([]scene.Node(nil), nodes...),
		Keys:     keys,
		Values:   own,
		multiple: multiple,
	}
	switch {
	case len(keys) == 1 && multiple:
		return &SetPropertyMultipleCommand{c}
	case len(keys) == 1:
		return &SetPropertyCommand{c}
	case multiple:
		return &SetPropertiesMultipleCommand{c}
	}
	return &SetPropertiesCommand{c}
}
