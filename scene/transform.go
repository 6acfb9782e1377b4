package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Compose builds T * R * S.
func Compose(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position[0], position[1], position[2]).
		Mul4(rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// Decompose splits an affine matrix into translation, rotation and scale.
// Shear is dropped.
func Decompose(m mgl32.Mat4) (position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) {
	position = m.Col(3).Vec3()

	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Det() < 0 {
		sx = -sx
	}
	scale = mgl32.Vec3{sx, sy, sz}

	var r mgl32.Mat4
	for col, s := range []float32{sx, sy, sz} {
		if math32.Abs(s) < 1e-12 {
			s = 1
		}
		for row := 0; row < 3; row++ {
			r[col*4+row] = m[col*4+row] / s
		}
	}
	r[15] = 1
	rotation = mgl32.Mat4ToQuat(r).Normalize()
	return
}

// WorldMatrix recomputes the world matrix of n from the local transforms of
// its ancestors, without relying on any cached value.
func WorldMatrix(n Node) mgl32.Mat4 {
	if n == nil {
		return mgl32.Ident4()
	}
	o := n.AsObject()
	if o.parent == nil {
		return o.Matrix()
	}
	return WorldMatrix(o.parent).Mul4(o.Matrix())
}

// ParentMatrix is the world matrix of the frame n's local transform lives in.
func ParentMatrix(n Node) mgl32.Mat4 {
	return WorldMatrix(n.AsObject().parent)
}

func WorldPosition(n Node) mgl32.Vec3 {
	return WorldMatrix(n).Col(3).Vec3()
}

func WorldRotation(n Node) mgl32.Quat {
	_, r, _ := Decompose(WorldMatrix(n))
	return r
}

func WorldScale(n Node) mgl32.Vec3 {
	_, _, s := Decompose(WorldMatrix(n))
	return s
}

// TransformPoint applies m to p as a position.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDirection applies m to d ignoring translation.
func TransformDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

// MatrixRotation extracts the rotation part of m.
func MatrixRotation(m mgl32.Mat4) mgl32.Quat {
	_, r, _ := Decompose(m)
	return r
}
