package editor

import (
	"github.com/mogaika/sceneditor/scene"
)

// Selected returns a copy of the selection in selection order.
func (e *Editor) Selected() []scene.Node { return append([]scene.Node(nil), e.selected...) }

// SelectedTransformRoots returns a copy of the cached transform roots of the
// selection.
func (e *Editor) SelectedTransformRoots() []scene.Node {
	return append([]scene.Node(nil), e.selectedTransformRoots...)
}

// ActiveObject is the most recently selected node.
func (e *Editor) ActiveObject() scene.Node {
	if len(e.selected) == 0 {
		return nil
	}
	return e.selected[len(e.selected)-1]
}

func (e *Editor) IsSelected(n scene.Node) bool { return contains(e.selected, n) }

// TransformRoots resolves nodes against the current scene.
func (e *Editor) TransformRoots(nodes []scene.Node) []scene.Node {
	return scene.TransformRoots(e.scene, nodes)
}

// updateTransformRoots is the only writer of selectedTransformRoots.
func (e *Editor) updateTransformRoots() {
	e.selectedTransformRoots = scene.TransformRoots(e.scene, e.selected)
}

func (e *Editor) selectable(n scene.Node) bool {
	return n != nil && scene.Reachable(e.scene, n)
}

// normalizeSelection drops nil, detached and repeated nodes.
func (e *Editor) normalizeSelection(nodes []scene.Node) []scene.Node {
	result := make([]scene.Node, 0, len(nodes))
	for _, n := range nodes {
		if e.selectable(n) && !contains(result, n) {
			result = append(result, n)
		}
	}
	return result
}

func (e *Editor) finishSelection(f Flag) {
	if !f.has(NoUpdateRoots) {
		e.updateTransformRoots()
	}
	if !f.has(NoEvent) {
		e.emitSelectionChanged()
	}
}

// Select appends n to the selection. Selecting a selected or detached node
// does nothing.
func (e *Editor) Select(n scene.Node, flags ...Flag) {
	f := flagsOf(flags)
	if !e.selectable(n) || e.IsSelected(n) {
		return
	}
	if !f.has(NoHistory) {
		e.run(NewSelectCommand(e, n, f))
		return
	}
	e.selected = append(e.selected, n)
	n.OnSelect()
	e.finishSelection(f)
}

func (e *Editor) SelectMultiple(nodes []scene.Node, flags ...Flag) {
	f := flagsOf(flags)
	added := make([]scene.Node, 0, len(nodes))
	for _, n := range e.normalizeSelection(nodes) {
		if !e.IsSelected(n) {
			added = append(added, n)
		}
	}
	if len(added) == 0 {
		return
	}
	if !f.has(NoHistory) {
		e.run(NewSelectMultipleCommand(e, nodes, f))
		return
	}
	for _, n := range added {
		e.selected = append(e.selected, n)
		n.OnSelect()
	}
	e.finishSelection(f)
}

// SelectAll selects every node of the scene except the scene itself.
func (e *Editor) SelectAll(flags ...Flag) {
	f := flagsOf(flags)
	if !f.has(NoHistory) {
		if len(e.selectAllCandidates()) == 0 {
			return
		}
		e.run(NewSelectAllCommand(e, f))
		return
	}
	e.SelectMultiple(e.selectAllCandidates(), f)
}

func (e *Editor) selectAllCandidates() []scene.Node {
	result := make([]scene.Node, 0, len(e.nodes))
	for _, n := range e.nodes {
		if n != scene.Node(e.scene) && !e.IsSelected(n) {
			result = append(result, n)
		}
	}
	return result
}

func (e *Editor) Deselect(n scene.Node, flags ...Flag) {
	f := flagsOf(flags)
	i := indexOf(e.selected, n)
	if i < 0 {
		return
	}
	if !f.has(NoHistory) {
		e.run(NewDeselectCommand(e, n, f))
		return
	}
	e.selected = append(e.selected[:i:i], e.selected[i+1:]...)
	n.OnDeselect()
	e.finishSelection(f)
}

func (e *Editor) DeselectMultiple(nodes []scene.Node, flags ...Flag) {
	f := flagsOf(flags)
	removed := make([]scene.Node, 0, len(nodes))
	for _, n := range nodes {
		if e.IsSelected(n) && !contains(removed, n) {
			removed = append(removed, n)
		}
	}
	if len(removed) == 0 {
		return
	}
	if !f.has(NoHistory) {
		e.run(NewDeselectMultipleCommand(e, nodes, f))
		return
	}
	kept := make([]scene.Node, 0, len(e.selected))
	for _, n := range e.selected {
		if !contains(removed, n) {
			kept = append(kept, n)
		}
	}
	e.selected = kept
	for _, n := range removed {
		n.OnDeselect()
	}
	e.finishSelection(f)
}

func (e *Editor) DeselectAll(flags ...Flag) {
	f := flagsOf(flags)
	if len(e.selected) == 0 {
		return
	}
	if !f.has(NoHistory) {
		e.run(NewDeselectAllCommand(e, f))
		return
	}
	e.SetSelection(nil, f)
}

// Toggle deselects n when it is selected and selects it otherwise.
func (e *Editor) Toggle(n scene.Node, flags ...Flag) {
	if e.IsSelected(n) {
		e.Deselect(n, flags...)
	} else {
		e.Select(n, flags...)
	}
}

// SetSelection replaces the selection. Hooks only fire for nodes whose
// membership actually changes.
func (e *Editor) SetSelection(nodes []scene.Node, flags ...Flag) {
	f := flagsOf(flags)
	next := e.normalizeSelection(nodes)
	if sameNodes(next, e.selected) {
		return
	}
	if !f.has(NoHistory) {
		e.run(NewSetSelectionCommand(e, next, f))
		return
	}
	prev := e.selected
	e.selected = next
	for _, n := range prev {
		if !contains(next, n) {
			n.OnDeselect()
		}
	}
	for _, n := range next {
		if !contains(prev, n) {
			n.OnSelect()
		}
	}
	e.finishSelection(f)
}

// dropFromSelection removes nodes from the selection as part of another
// operation, without history or notification. It reports whether the
// selection changed.
func (e *Editor) dropFromSelection(nodes []scene.Node) bool {
	changed := false
	kept := e.selected[:0:0]
	for _, n := range e.selected {
		if contains(nodes, n) {
			n.OnDeselect()
			changed = true
		} else {
			kept = append(kept, n)
		}
	}
	if changed {
		e.selected = kept
	}
	return changed
}
