package utils

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// QuatToEuler returns XYZ euler angles in radians.
func QuatToEuler(q mgl32.Quat) (e mgl32.Vec3) {
	sinrCosp := 2 * (q.W*q.X() + q.Y()*q.Z())
	cosrCosp := 1 - 2*(q.X()*q.X()+q.Y()*q.Y())
	e[0] = math32.Atan2(sinrCosp, cosrCosp)

	sinp := 2 * (q.W*q.Y() - q.Z()*q.X())
	if math32.Abs(sinp) >= 1 {
		e[1] = math32.Copysign(math32.Pi/2, sinp)
	} else {
		e[1] = math32.Asin(sinp)
	}

	sinyCosp := 2 * (q.W*q.Z() + q.X()*q.Y())
	cosyCosp := 1 - 2*(q.Y()*q.Y()+q.Z()*q.Z())
	e[2] = math32.Atan2(sinyCosp, cosyCosp)

	return e
}

// EulerToQuat is the inverse of QuatToEuler, input in radians.
func EulerToQuat(v mgl32.Vec3) mgl32.Quat {
	sx, cx := math32.Sincos(v[0] / 2)
	sy, cy := math32.Sincos(v[1] / 2)
	sz, cz := math32.Sincos(v[2] / 2)

	return mgl32.Quat{
		W: cx*cy*cz + sx*sy*sz,
		V: mgl32.Vec3{
			sx*cy*cz - cx*sy*sz,
			cx*sy*cz + sx*cy*sz,
			cx*cy*sz - sx*sy*cz,
		},
	}.Normalize()
}

func DegreeToRadiansV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(math32.Pi / 180)
}

func RadiansToDegreeV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(180 / math32.Pi)
}
