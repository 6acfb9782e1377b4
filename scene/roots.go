package scene

func nodeSet(nodes []Node) map[Node]struct{} {
	set := make(map[Node]struct{}, len(nodes))
	for _, n := range nodes {
		if n != nil {
			set[n] = struct{}{}
		}
	}
	return set
}

func collectRoots(root Node, nodes []Node, lookThroughDisabled bool) []Node {
	if len(nodes) == 0 {
		return nil
	}
	set := nodeSet(nodes)
	result := make([]Node, 0, len(set))
	Traverse(root, func(n Node) bool {
		if _, ok := set[n]; !ok {
			return true
		}
		if lookThroughDisabled && n.AsObject().DisableTransform {
			return true
		}
		result = append(result, n)
		return false
	})
	return result
}

// TransformRoots returns the members of nodes reachable from root whose
// ancestors are not members too, in scene pre-order. Members with
// DisableTransform are never roots and do not hide their descendants.
func TransformRoots(root Node, nodes []Node) []Node {
	return collectRoots(root, nodes, true)
}

// DetachedRoots is TransformRoots where every member hides its descendants.
// Removal and duplication use it so no subtree is handled twice.
func DetachedRoots(root Node, nodes []Node) []Node {
	return collectRoots(root, nodes, false)
}

// TraversalOrder returns the members of nodes reachable from root in scene
// pre-order, dropping duplicates. Walking the result backwards gives a safe
// order for putting nodes back into their old places.
func TraversalOrder(root Node, nodes []Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	set := nodeSet(nodes)
	result := make([]Node, 0, len(set))
	Traverse(root, func(n Node) bool {
		if _, ok := set[n]; ok {
			result = append(result, n)
		}
		return true
	})
	return result
}
