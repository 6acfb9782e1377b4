package editor

import (
	"sort"

	"github.com/mogaika/sceneditor/scene"
)

// propertyKeys returns the keys of values in a stable order.
func propertyKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Editor) checkProperties(nodes []scene.Node, keys []string, values map[string]any) error {
	for _, n := range nodes {
		for _, k := range keys {
			if err := scene.CheckProperty(n, k, values[k]); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeProperties stores values on every node. Everything was checked
// beforehand, so an error here means a Copier refused its input.
func (e *Editor) writeProperties(nodes []scene.Node, keys []string, values map[string]any, f Flag) error {
	for _, n := range nodes {
		for _, k := range keys {
			if err := scene.SetProperty(n, k, values[k]); err != nil {
				return err
			}
		}
		n.AsObject().UpdateMatrixWorld()
		for _, k := range keys {
			n.OnChange(k)
		}
	}
	if !f.has(NoEvent) {
		property := ""
		if len(keys) == 1 {
			property = keys[0]
		}
		e.emitObjectsChanged(nodes, property)
	}
	return nil
}

func (e *Editor) setProperties(nodes []scene.Node, values map[string]any, multiple bool, f Flag) error {
	nodes = distinctNodes(nodes)
	if len(nodes) == 0 || len(values) == 0 {
		return nil
	}
	keys := propertyKeys(values)
	if err := e.checkProperties(nodes, keys, values); err != nil {
		return err
	}
	if !f.has(NoHistory) {
		return e.history.Execute(newPropertyCommand(e, nodes, keys, values, multiple, f))
	}
	return e.writeProperties(nodes, keys, values, f)
}

// SetProperty sets a named field of n, dotted paths reach into nested
// structs. A current value implementing scene.Copier is updated in place.
func (e *Editor) SetProperty(n scene.Node, name string, value any, flags ...Flag) error {
	return e.setProperties([]scene.Node{n}, map[string]any{name: value}, false, flagsOf(flags))
}

func (e *Editor) SetPropertyMultiple(nodes []scene.Node, name string, value any, flags ...Flag) error {
	return e.setProperties(nodes, map[string]any{name: value}, true, flagsOf(flags))
}

func (e *Editor) SetProperties(n scene.Node, values map[string]any, flags ...Flag) error {
	return e.setProperties([]scene.Node{n}, values, false, flagsOf(flags))
}

func (e *Editor) SetPropertiesMultiple(nodes []scene.Node, values map[string]any, flags ...Flag) error {
	return e.setProperties(nodes, values, true, flagsOf(flags))
}
