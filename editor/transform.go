package editor

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/sceneditor/scene"
)

type transformOp uint8

const (
	opSetPosition transformOp = iota
	opSetRotation
	opSetScale
	opTranslate
	opRotateOnAxis
	opRotateAround
	opScale
)

var transformOpNames = [...]string{
	opSetPosition:  "SetPosition",
	opSetRotation:  "SetRotation",
	opSetScale:     "SetScale",
	opTranslate:    "Translate",
	opRotateOnAxis: "RotateOnAxis",
	opRotateAround: "RotateAround",
	opScale:        "Scale",
}

func (op transformOp) String() string { return transformOpNames[op] }

// property is the name reported to OnChange and ObjectsChanged. Rotating
// around a pivot changes two fields and reports none.
func (op transformOp) property() string {
	switch op {
	case opSetPosition, opTranslate:
		return scene.PropPosition
	case opSetRotation, opRotateOnAxis:
		return scene.PropRotation
	case opSetScale, opScale:
		return scene.PropScale
	}
	return ""
}

// transformEdit is one transform operation with its arguments. Vector holds
// the position, scale, translation, axis or factors depending on op.
type transformEdit struct {
	op       transformOp
	space    Space
	vector   mgl32.Vec3
	pivot    mgl32.Vec3
	rotation mgl32.Quat
	angle    float32
}

func nonZero(v float32) float32 {
	if math32.Abs(v) < 1e-12 {
		return 1
	}
	return v
}

// parentRotation expresses a rotation of angle around axis, given in the
// frame of the space, in the parent frame of n.
func (e *Editor) parentRotation(n scene.Node, s Space, axis mgl32.Vec3, angle float32) mgl32.Quat {
	if axis.Len() == 0 {
		return mgl32.QuatIdent()
	}
	if s.Kind == SpaceLocal {
		return mgl32.QuatRotate(angle, axis.Normalize())
	}
	worldAxis := scene.MatrixRotation(e.frameMatrix(s, n)).Rotate(axis)
	parentAxis := scene.MatrixRotation(scene.ParentMatrix(n)).Inverse().Rotate(worldAxis)
	return mgl32.QuatRotate(angle, parentAxis.Normalize())
}

// toParentPoint converts p from the frame of the space to the parent frame
// of n.
func (e *Editor) toParentPoint(n scene.Node, s Space, p mgl32.Vec3) mgl32.Vec3 {
	if s.Kind == SpaceLocal {
		return p
	}
	world := scene.TransformPoint(e.frameMatrix(s, n), p)
	return scene.TransformPoint(scene.ParentMatrix(n).Inv(), world)
}

func (e *Editor) applyEdit(n scene.Node, ed transformEdit) {
	o := n.AsObject()
	local := ed.space.Kind == SpaceLocal

	switch ed.op {
	case opSetPosition:
		o.Position = e.toParentPoint(n, ed.space, ed.vector)

	case opSetRotation:
		if local {
			o.Rotation = ed.rotation.Normalize()
			break
		}
		frame := scene.MatrixRotation(e.frameMatrix(ed.space, n))
		parent := scene.MatrixRotation(scene.ParentMatrix(n))
		o.Rotation = parent.Inverse().Mul(frame.Mul(ed.rotation)).Normalize()

	case opSetScale:
		if local {
			o.Scale = ed.vector
			break
		}
		_, _, fs := scene.Decompose(e.frameMatrix(ed.space, n))
		_, _, ps := scene.Decompose(scene.ParentMatrix(n))
		for i := range o.Scale {
			o.Scale[i] = ed.vector[i] * fs[i] / nonZero(ps[i])
		}

	case opTranslate:
		if local {
			o.Position = o.Position.Add(ed.vector)
			break
		}
		delta := scene.TransformDirection(e.frameMatrix(ed.space, n), ed.vector)
		o.Position = o.Position.Add(scene.TransformDirection(scene.ParentMatrix(n).Inv(), delta))

	case opRotateOnAxis:
		r := e.parentRotation(n, ed.space, ed.vector, ed.angle)
		o.Rotation = r.Mul(o.Rotation).Normalize()

	case opRotateAround:
		r := e.parentRotation(n, ed.space, ed.vector, ed.angle)
		pivot := e.toParentPoint(n, ed.space, ed.pivot)
		o.Position = pivot.Add(r.Rotate(o.Position.Sub(pivot)))
		o.Rotation = r.Mul(o.Rotation).Normalize()

	case opScale:
		if local {
			for i := range o.Scale {
				o.Scale[i] *= ed.vector[i]
			}
			break
		}
		// Each local axis takes the frame factors weighted by how much of
		// that frame axis it covers.
		frame := scene.MatrixRotation(e.frameMatrix(ed.space, n))
		rel := scene.WorldRotation(n).Inverse().Mul(frame).Mat4()
		for i := range o.Scale {
			var factor float32
			for j := 0; j < 3; j++ {
				w := rel.At(i, j)
				factor += w * w * ed.vector[j]
			}
			o.Scale[i] *= factor
		}
	}

	o.UpdateMatrixWorld()
	if prop := ed.op.property(); prop != "" {
		n.OnChange(prop)
	} else {
		n.OnChange(scene.PropPosition)
		n.OnChange(scene.PropRotation)
	}
}

func distinctNodes(nodes []scene.Node) []scene.Node {
	result := make([]scene.Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil && !contains(result, n) {
			result = append(result, n)
		}
	}
	return result
}

func (e *Editor) transform(nodes []scene.Node, ed transformEdit, multiple bool, f Flag) error {
	nodes = distinctNodes(nodes)
	if len(nodes) == 0 {
		return nil
	}
	ed.space = e.resolveSpace(ed.space)
	if !f.has(NoHistory) {
		return e.history.Execute(newTransformCommand(e, nodes, ed, multiple, f))
	}
	for _, n := range nodes {
		e.applyEdit(n, ed)
	}
	if !f.has(NoEvent) {
		e.emitObjectsChanged(nodes, ed.op.property())
	}
	return nil
}

// SetPosition places n at position, given in space.
func (e *Editor) SetPosition(n scene.Node, position mgl32.Vec3, space Space, flags ...Flag) error {
	return e.transform([]scene.Node{n}, transformEdit{op: opSetPosition, space: space, vector: position}, false, flagsOf(flags))
}

func (e *Editor) SetPositionMultiple(nodes []scene.Node, position mgl32.Vec3, space Space, flags ...Flag) error {
	return e.transform(nodes, transformEdit{op: opSetPosition, space: space, vector: position}, true, flagsOf(flags))
}

func (e *Editor) SetRotation(n scene.Node, rotation mgl32.Quat, space Space, flags ...Flag) error {
	return e.transform([]scene.Node{n}, transformEdit{op: opSetRotation, space: space, rotation: rotation}, false, flagsOf(flags))
}

func (e *Editor) SetRotationMultiple(nodes []scene.Node, rotation mgl32.Quat, space Space, flags ...Flag) error {
	return e.transform(nodes, transformEdit{op: opSetRotation, space: space, rotation: rotation}, true, flagsOf(flags))
}

// SetScale sets the scale of n. Outside the local space the result is exact
// only when the frame and the parent are not rotated against each other.
func (e *Editor) SetScale(n scene.Node, scale mgl32.Vec3, space Space, flags ...Flag) error {
	return e.transform([]scene.Node{n}, transformEdit{op: opSetScale, space: space, vector: scale}, false, flagsOf(flags))
}

func (e *Editor) SetScaleMultiple(nodes []scene.Node, scale mgl32.Vec3, space Space, flags ...Flag) error {
	return e.transform(nodes, transformEdit{op: opSetScale, space: space, vector: scale}, true, flagsOf(flags))
}

func (e *Editor) Translate(n scene.Node, offset mgl32.Vec3, space Space, flags ...Flag) error {
	return e.transform([]scene.Node{n}, transformEdit{op: opTranslate, space: space, vector: offset}, false, flagsOf(flags))
}

func (e *Editor) TranslateMultiple(nodes []scene.Node, offset mgl32.Vec3, space Space, flags ...Flag) error {
	return e.transform(nodes, transformEdit{op: opTranslate, space: space, vector: offset}, true, flagsOf(flags))
}

// RotateOnAxis rotates n in place by angle radians around axis.
func (e *Editor) RotateOnAxis(n scene.Node, axis mgl32.Vec3, angle float32, space Space, flags ...Flag) error {
	return e.transform([]scene.Node{n}, transformEdit{op: opRotateOnAxis, space: space, vector: axis, angle: angle}, false, flagsOf(flags))
}

func (e *Editor) RotateOnAxisMultiple(nodes []scene.Node, axis mgl32.Vec3, angle float32, space Space, flags ...Flag) error {
	return e.transform(nodes, transformEdit{op: opRotateOnAxis, space: space, vector: axis, angle: angle}, true, flagsOf(flags))
}

// RotateAround orbits n by angle radians around the line through pivot along
// axis. Both are given in space.
func (e *Editor) RotateAround(n scene.Node, pivot, axis mgl32.Vec3, angle float32, space Space, flags ...Flag) error {
	return e.transform([]scene.Node{n}, transformEdit{op: opRotateAround, space: space, pivot: pivot, vector: axis, angle: angle}, false, flagsOf(flags))
}

func (e *Editor) RotateAroundMultiple(nodes []scene.Node, pivot, axis mgl32.Vec3, angle float32, space Space, flags ...Flag) error {
	return e.transform(nodes, transformEdit{op: opRotateAround, space: space, pivot: pivot, vector: axis, angle: angle}, true, flagsOf(flags))
}

// Scale multiplies the scale of n by factors along the axes of space.
func (e *Editor) Scale(n scene.Node, factors mgl32.Vec3, space Space, flags ...Flag) error {
	return e.transform([]scene.Node{n}, transformEdit{op: opScale, space: space, vector: factors}, false, flagsOf(flags))
}

func (e *Editor) ScaleMultiple(nodes []scene.Node, factors mgl32.Vec3, space Space, flags ...Flag) error {
	return e.transform(nodes, transformEdit{op: opScale, space: space, vector: factors}, true, flagsOf(flags))
}
