package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Property names reported to OnChange by the transform setters.
const (
	PropPosition = "Position"
	PropRotation = "Rotation"
	PropScale    = "Scale"
	PropParent   = "Parent"
	PropName     = "Name"
)

// Node is the capability set the editor needs from anything living in the
// scene graph. Concrete kinds embed Object and override the hooks they care
// about.
type Node interface {
	AsObject() *Object
	Kind() *Kind
	// Clone returns a deep copy of the node and its subtree. The copy is
	// detached and gets fresh UUIDs.
	Clone() Node

	OnAdd()
	OnRemove()
	OnSelect()
	OnDeselect()
	OnChange(property string)
}

// Object holds the structural and transform state shared by every node kind.
type Object struct {
	UUID uuid.UUID
	Name string

	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	// DisableTransform marks nodes that are never moved by transform tools.
	// The transform-root resolver looks through them.
	DisableTransform bool
	Visible          bool

	this     Node
	parent   Node
	children []Node

	matrixWorld mgl32.Mat4
}

// Init must be called by node constructors with the outer node value.
func (o *Object) Init(this Node, name string) {
	o.this = this
	o.UUID = uuid.New()
	o.Name = name
	o.Rotation = mgl32.QuatIdent()
	o.Scale = mgl32.Vec3{1, 1, 1}
	o.Visible = true
	o.matrixWorld = mgl32.Ident4()
}

// CloneFrom turns o, a shallow copy of src, into an independent deep copy
// whose outer node is this.
func (o *Object) CloneFrom(src *Object, this Node) {
	o.this = this
	o.UUID = uuid.New()
	o.parent = nil
	o.children = make([]Node, 0, len(src.children))
	for _, child := range src.children {
		c := child.Clone()
		c.AsObject().parent = this
		o.children = append(o.children, c)
	}
	o.UpdateMatrixWorld()
}

func (o *Object) AsObject() *Object { return o }

func (o *Object) Node() Node { return o.this }

func (o *Object) Parent() Node { return o.parent }

// Children returns the live child list. Callers must not modify it.
func (o *Object) Children() []Node { return o.children }

// ChildIndex returns the position of child in the child list or -1.
func (o *Object) ChildIndex(child Node) int {
	for i, c := range o.children {
		if c == child {
			return i
		}
	}
	return -1
}

// NextSibling returns the node following o under its parent, if any.
func (o *Object) NextSibling() Node {
	if o.parent == nil {
		return nil
	}
	p := o.parent.AsObject()
	i := p.ChildIndex(o.this)
	if i < 0 || i+1 >= len(p.children) {
		return nil
	}
	return p.children[i+1]
}

// InsertChild attaches child at index (append when index is out of range).
// It only touches links; lifecycle hooks are the editor's job.
func (o *Object) InsertChild(child Node, index int) {
	if index < 0 || index > len(o.children) {
		index = len(o.children)
	}
	o.children = append(o.children, nil)
	copy(o.children[index+1:], o.children[index:])
	o.children[index] = child
	child.AsObject().parent = o.this
}

// RemoveChild detaches child and returns its former index, or -1.
func (o *Object) RemoveChild(child Node) int {
	i := o.ChildIndex(child)
	if i < 0 {
		return -1
	}
	o.children = append(o.children[:i], o.children[i+1:]...)
	child.AsObject().parent = nil
	return i
}

func (o *Object) OnAdd()                   {}
func (o *Object) OnRemove()                {}
func (o *Object) OnSelect()                {}
func (o *Object) OnDeselect()              {}
func (o *Object) OnChange(property string) {}

// Matrix composes the local transform.
func (o *Object) Matrix() mgl32.Mat4 {
	return Compose(o.Position, o.Rotation, o.Scale)
}

// SetMatrix decomposes m into the local transform fields.
func (o *Object) SetMatrix(m mgl32.Mat4) {
	o.Position, o.Rotation, o.Scale = Decompose(m)
}

// MatrixWorld returns the cached world matrix.
func (o *Object) MatrixWorld() mgl32.Mat4 { return o.matrixWorld }

// UpdateMatrixWorld recomputes the cached world matrix of o and its subtree
// from the parent's cached world matrix.
func (o *Object) UpdateMatrixWorld() {
	if o.parent != nil {
		o.matrixWorld = o.parent.AsObject().matrixWorld.Mul4(o.Matrix())
	} else {
		o.matrixWorld = o.Matrix()
	}
	for _, child := range o.children {
		child.AsObject().UpdateMatrixWorld()
	}
}
