package scene

// Traverse visits n and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func Traverse(n Node, fn func(Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.AsObject().children {
		Traverse(child, fn)
	}
}

// Collect returns n and all its descendants in pre-order.
func Collect(n Node) []Node {
	var result []Node
	Traverse(n, func(c Node) bool {
		result = append(result, c)
		return true
	})
	return result
}

// IsAncestor reports whether ancestor is a proper ancestor of n.
func IsAncestor(ancestor, n Node) bool {
	if ancestor == nil || n == nil {
		return false
	}
	for p := n.AsObject().parent; p != nil; p = p.AsObject().parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// Reachable reports whether n is root or hangs below it.
func Reachable(root, n Node) bool {
	return n != nil && (n == root || IsAncestor(root, n))
}

func Find(root Node, pred func(Node) bool) Node {
	var found Node
	Traverse(root, func(n Node) bool {
		if found != nil {
			return false
		}
		if pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

func FindByName(root Node, name string) Node {
	return Find(root, func(n Node) bool { return n.AsObject().Name == name })
}
