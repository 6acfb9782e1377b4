package editor

import (
	"github.com/pkg/errors"

	"github.com/mogaika/sceneditor/history"
	"github.com/mogaika/sceneditor/scene"
)

// quiet is used for the steps of a larger operation that reports once at the
// end.
const quiet = NoHistory | NoEvent | NoUpdateRoots

// structural runs fn and then refreshes the transform roots and emits
// SceneGraphChanged, plus SelectionChanged when fn changed the selection.
func (e *Editor) structural(f Flag, fn func() error) error {
	return e.restructure(f, true, fn)
}

// removing is structural for removals. Deselecting removed nodes is part of
// the graph change and is not announced on its own.
func (e *Editor) removing(f Flag, fn func() error) error {
	return e.restructure(f, false, fn)
}

func (e *Editor) restructure(f Flag, announceSelection bool, fn func() error) error {
	prev := e.selected
	if err := fn(); err != nil {
		return err
	}
	if !f.has(NoUpdateRoots) {
		e.updateTransformRoots()
	}
	if !f.has(NoEvent) {
		e.emitSceneGraphChanged()
		if announceSelection && !sameNodes(prev, e.selected) {
			e.emitSelectionChanged()
		}
	}
	return nil
}

// attach links n under parent at index and announces the subtree.
func (e *Editor) attach(n, parent scene.Node, index int) {
	parent.AsObject().InsertChild(n, index)
	n.AsObject().UpdateMatrixWorld()
	scene.Traverse(n, func(c scene.Node) bool {
		c.OnAdd()
		e.nodes = append(e.nodes, c)
		return true
	})
}

// detach unlinks n from its parent, deselecting anything in its subtree.
// It returns the old placement.
func (e *Editor) detach(n scene.Node) (parent scene.Node, index int) {
	subtree := scene.Collect(n)
	e.dropFromSelection(subtree)

	parent = n.AsObject().Parent()
	index = parent.AsObject().RemoveChild(n)
	n.AsObject().UpdateMatrixWorld()

	for _, c := range subtree {
		c.OnRemove()
	}
	kept := e.nodes[:0]
	for _, c := range e.nodes {
		if !contains(subtree, c) {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(e.nodes); i++ {
		e.nodes[i] = nil
	}
	e.nodes = kept
	return parent, index
}

// move relinks an attached node keeping its world transform. The new index is
// the position of before once n is out of the way, or index when before is
// nil.
func (e *Editor) move(n, parent, before scene.Node, index int) (oldParent scene.Node, oldIndex int) {
	o := n.AsObject()
	world := scene.WorldMatrix(n)

	oldParent = o.Parent()
	oldIndex = oldParent.AsObject().RemoveChild(n)
	if before != nil {
		index = parent.AsObject().ChildIndex(before)
	}
	parent.AsObject().InsertChild(n, index)

	o.SetMatrix(scene.ParentMatrix(n).Inv().Mul4(world))
	o.UpdateMatrixWorld()
	n.OnChange(scene.PropParent)
	return oldParent, oldIndex
}

// checkIndexed verifies that every node of the subtree is in the node index.
func (e *Editor) checkIndexed(n scene.Node) error {
	for _, c := range scene.Collect(n) {
		if !e.HasNode(c) {
			return errors.Wrapf(ErrIndexInconsistent, "%s is not indexed", nodeName(c))
		}
	}
	return nil
}

func (e *Editor) checkAttached(n scene.Node) error {
	if n == nil || n.AsObject().Parent() == nil || !scene.Reachable(e.scene, n) {
		return errors.Wrapf(ErrDetached, "%s", nodeName(n))
	}
	return nil
}

// checkDestination resolves the default parent and validates before.
func (e *Editor) checkDestination(parent, before scene.Node) (scene.Node, error) {
	if parent == nil {
		parent = e.scene
	}
	if !scene.Reachable(e.scene, parent) {
		return nil, errors.Wrapf(ErrDetached, "parent %s", nodeName(parent))
	}
	if before != nil && parent.AsObject().ChildIndex(before) < 0 {
		return nil, errors.Wrapf(ErrSiblingNotFound, "%s under %s", nodeName(before), nodeName(parent))
	}
	return parent, nil
}

func (e *Editor) checkAddable(nodes []scene.Node) error {
	for i, n := range nodes {
		if n == nil {
			return errors.Wrap(ErrAlreadyAttached, "nil node")
		}
		if n == scene.Node(e.scene) || n.AsObject().Parent() != nil || e.HasNode(n) || contains(nodes[:i], n) {
			return errors.Wrapf(ErrAlreadyAttached, "%s", nodeName(n))
		}
	}
	return nil
}

func beforeIndex(parent, before scene.Node) int {
	if before == nil {
		return -1
	}
	return parent.AsObject().ChildIndex(before)
}

// AddObject attaches a detached node under parent (the scene when nil),
// before the given sibling or at the end. The node becomes the selection
// unless NoSelect is given.
func (e *Editor) AddObject(n, parent, before scene.Node, flags ...Flag) error {
	return e.AddMultipleObjects([]scene.Node{n}, parent, before, flags...)
}

func (e *Editor) AddMultipleObjects(nodes []scene.Node, parent, before scene.Node, flags ...Flag) error {
	f := flagsOf(flags)
	if len(nodes) == 0 {
		return nil
	}
	if err := e.checkAddable(nodes); err != nil {
		return err
	}
	parent, err := e.checkDestination(parent, before)
	if err != nil {
		return err
	}
	if !f.has(NoHistory) {
		if len(nodes) == 1 {
			return e.history.Execute(NewAddObjectCommand(e, nodes[0], parent, before, f))
		}
		return e.history.Execute(NewAddMultipleObjectsCommand(e, nodes, parent, before, f))
	}

	return e.structural(f, func() error {
		for _, n := range nodes {
			if f.has(UniqueName) {
				n.AsObject().Name = e.UniqueName(n.AsObject().Name, nil)
			}
			e.attach(n, parent, beforeIndex(parent, before))
		}
		if !f.has(NoSelect) {
			e.SetSelection(nodes, quiet)
		}
		return nil
	})
}

// RemoveObject detaches n and its subtree. A node without parent, like the
// scene itself, is left alone.
func (e *Editor) RemoveObject(n scene.Node, flags ...Flag) error {
	if n == nil || n.AsObject().Parent() == nil {
		return nil
	}
	return e.RemoveMultipleObjects([]scene.Node{n}, flags...)
}

// RemoveMultipleObjects removes every node once, even when the set holds both
// a node and one of its descendants.
func (e *Editor) RemoveMultipleObjects(nodes []scene.Node, flags ...Flag) error {
	f := flagsOf(flags)
	var candidates []scene.Node
	for _, n := range nodes {
		if n == nil || n.AsObject().Parent() == nil {
			continue
		}
		if !scene.Reachable(e.scene, n) {
			log.Warnf("%s is not in the scene, skipped", nodeName(n))
			continue
		}
		candidates = append(candidates, n)
	}
	roots := scene.DetachedRoots(e.scene, candidates)
	if len(roots) == 0 {
		return nil
	}
	for _, n := range roots {
		if err := e.checkIndexed(n); err != nil {
			return err
		}
	}
	if !f.has(NoHistory) {
		if len(roots) == 1 {
			return e.history.Execute(NewRemoveObjectCommand(e, roots[0], f))
		}
		return e.history.Execute(NewRemoveMultipleObjectsCommand(e, roots, f))
	}

	return e.removing(f, func() error {
		for _, n := range roots {
			e.detach(n)
		}
		return nil
	})
}

// placement is where a node goes when it is attached. A non empty name is
// made unique against the scene at every attach.
type placement struct {
	node   scene.Node
	parent scene.Node
	before scene.Node
	name   string
}

// prepareDuplicates clones the duplicable roots of nodes. A nil parent puts
// each clone next to its original.
func (e *Editor) prepareDuplicates(nodes []scene.Node, parent, before scene.Node) ([]placement, error) {
	if parent != nil || before != nil {
		var err error
		if parent, err = e.checkDestination(parent, before); err != nil {
			return nil, err
		}
	}

	var candidates []scene.Node
	for _, n := range nodes {
		if n != scene.Node(e.scene) {
			candidates = append(candidates, n)
		}
	}

	var result []placement
	for _, n := range scene.DetachedRoots(e.scene, candidates) {
		if !e.canDuplicate(n) {
			log.Warnf("%s cannot be duplicated, skipped", nodeName(n))
			continue
		}
		p := parent
		if p == nil {
			p = n.AsObject().Parent()
		}
		result = append(result, placement{node: n.Clone(), parent: p, before: before, name: n.AsObject().Name})
	}
	return result, nil
}

func (e *Editor) canDuplicate(n scene.Node) bool {
	if n.AsObject().Parent() == nil {
		return false
	}
	ok := true
	scene.Traverse(n, func(c scene.Node) bool {
		if !c.Kind().CanDuplicateInto(e.scene) {
			ok = false
		}
		return ok
	})
	return ok
}

// attachPlaced names and attaches prepared nodes and selects them unless
// NoSelect.
func (e *Editor) attachPlaced(placed []placement, f Flag) error {
	var names []string
	for _, p := range placed {
		if p.name != "" {
			name := e.UniqueName(p.name, names)
			p.node.AsObject().Name = name
			names = append(names, name)
		}
	}
	return e.structural(f, func() error {
		nodes := make([]scene.Node, len(placed))
		for i, p := range placed {
			e.attach(p.node, p.parent, beforeIndex(p.parent, p.before))
			nodes[i] = p.node
		}
		if !f.has(NoSelect) {
			e.SetSelection(nodes, quiet)
		}
		return nil
	})
}

// Duplicate clones n with a unique name. It returns nil when the node kind
// refuses duplication.
func (e *Editor) Duplicate(n, parent, before scene.Node, flags ...Flag) (scene.Node, error) {
	clones, err := e.DuplicateMultiple([]scene.Node{n}, parent, before, flags...)
	if err != nil || len(clones) == 0 {
		return nil, err
	}
	return clones[0], nil
}

func (e *Editor) DuplicateMultiple(nodes []scene.Node, parent, before scene.Node, flags ...Flag) ([]scene.Node, error) {
	f := flagsOf(flags)
	placed, err := e.prepareDuplicates(nodes, parent, before)
	if err != nil || len(placed) == 0 {
		return nil, err
	}
	clones := make([]scene.Node, len(placed))
	for i, p := range placed {
		clones[i] = p.node
	}

	if !f.has(NoHistory) {
		var cmd history.Command
		if len(placed) == 1 {
			cmd = NewDuplicateCommand(e, placed[0], f)
		} else {
			cmd = NewDuplicateMultipleCommand(e, placed, f)
		}
		if err := e.history.Execute(cmd); err != nil {
			return nil, err
		}
		return clones, nil
	}
	if err := e.attachPlaced(placed, f); err != nil {
		return nil, err
	}
	return clones, nil
}

func (e *Editor) checkReparent(nodes []scene.Node, parent, before scene.Node) error {
	for _, n := range nodes {
		if err := e.checkAttached(n); err != nil {
			return err
		}
	}
	if parent == nil {
		return ErrNoParent
	}
	if !scene.Reachable(e.scene, parent) {
		return errors.Wrapf(ErrDetached, "destination %s", nodeName(parent))
	}
	for _, n := range nodes {
		if n == parent || scene.IsAncestor(n, parent) {
			return errors.Wrapf(ErrCycle, "%s into %s", nodeName(n), nodeName(parent))
		}
	}
	if before != nil {
		if contains(nodes, before) || parent.AsObject().ChildIndex(before) < 0 {
			return errors.Wrapf(ErrSiblingNotFound, "%s under %s", nodeName(before), nodeName(parent))
		}
	}
	return nil
}

// Reparent moves an attached node under parent, before the given sibling or
// at the end, without changing its world transform.
func (e *Editor) Reparent(n, parent, before scene.Node, flags ...Flag) error {
	return e.ReparentMultiple([]scene.Node{n}, parent, before, flags...)
}

// ReparentMultiple moves nodes in scene order, so siblings keep their
// relative order at the destination.
func (e *Editor) ReparentMultiple(nodes []scene.Node, parent, before scene.Node, flags ...Flag) error {
	f := flagsOf(flags)
	if len(nodes) == 0 {
		return nil
	}
	if err := e.checkReparent(nodes, parent, before); err != nil {
		return err
	}
	ordered := scene.TraversalOrder(e.scene, nodes)
	if !f.has(NoHistory) {
		if len(ordered) == 1 {
			return e.history.Execute(NewReparentCommand(e, ordered[0], parent, before, f))
		}
		return e.history.Execute(NewReparentMultipleCommand(e, ordered, parent, before, f))
	}

	return e.structural(f, func() error {
		for _, n := range ordered {
			e.move(n, parent, before, -1)
		}
		return nil
	})
}

// GroupMultiple creates a group next to the first transform root of nodes
// and moves the transform roots into it, as one undo step. The group becomes
// the selection.
func (e *Editor) GroupMultiple(nodes []scene.Node, flags ...Flag) (*scene.Group, error) {
	f := flagsOf(flags)
	var candidates []scene.Node
	for _, n := range nodes {
		if n != scene.Node(e.scene) {
			candidates = append(candidates, n)
		}
	}
	roots := scene.TransformRoots(e.scene, candidates)
	if len(roots) == 0 {
		return nil, nil
	}
	if err := e.checkReparent(roots, roots[0].AsObject().Parent(), nil); err != nil {
		return nil, err
	}
	first := roots[0]
	parent := first.AsObject().Parent()
	group := scene.NewGroup("Group")

	if !f.has(NoHistory) {
		cmd := NewGroupCommand(e, group, roots, parent, first)
		if err := e.history.Execute(cmd); err != nil {
			return nil, err
		}
		return group, nil
	}

	err := e.structural(f, func() error {
		if err := e.AddObject(group, parent, first, quiet|NoSelect|UniqueName); err != nil {
			return err
		}
		if err := e.ReparentMultiple(roots, group, nil, quiet); err != nil {
			return err
		}
		if !f.has(NoSelect) {
			e.SetSelection([]scene.Node{group}, quiet)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}
