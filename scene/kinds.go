package scene

import (
	"sort"

	"github.com/pkg/errors"
)

// Kind describes a node type. Editor policy that would otherwise live in
// type hierarchies (singletons, duplication) is data here.
type Kind struct {
	Name string
	// Singleton kinds may appear at most once in a scene.
	Singleton bool
	// NoDuplicate kinds are skipped by duplicate operations.
	NoDuplicate bool
	New         func(name string) Node
}

// CanAddTo reports whether another node of this kind may enter the scene
// under root.
func (k *Kind) CanAddTo(root Node) bool {
	if !k.Singleton {
		return true
	}
	found := false
	Traverse(root, func(n Node) bool {
		if n.Kind() == k {
			found = true
		}
		return !found
	})
	return !found
}

// CanDuplicateInto reports whether nodes of this kind may be cloned into the
// scene under root.
func (k *Kind) CanDuplicateInto(root Node) bool {
	return !k.NoDuplicate && k.CanAddTo(root)
}

var ErrUnknownKind = errors.New("unknown node kind")

var kinds = make(map[string]*Kind)

// RegisterKind makes a kind available to NewNode. Registering the same name
// twice panics.
func RegisterKind(k *Kind) *Kind {
	if _, exists := kinds[k.Name]; exists {
		panic("scene: kind " + k.Name + " registered twice")
	}
	kinds[k.Name] = k
	return k
}

func KindByName(name string) (*Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}

func KindNames() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewNode creates a detached node of the named kind.
func NewNode(kind, name string) (Node, error) {
	k, ok := kinds[kind]
	if !ok || k.New == nil {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	return k.New(name), nil
}
