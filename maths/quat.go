package maths

import "math"

// Quat is a rotation quaternion.
type Quat struct {
	X, Y, Z, W float32
}

var QuatIdentity = Quat{W: 1}

// AxisAngle builds a quaternion rotating angle radians around axis.
func AxisAngle(axis Vec3, angle float32) Quat {
	axis = axis.Normalize()
	half := float64(angle) * 0.5
	s := float32(math.Sin(half))
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(half)),
	}
}

// EulerDegrees builds a quaternion from X, Y, Z rotations in degrees,
// applied in that order.
func EulerDegrees(x, y, z float32) Quat {
	const degToRad = math.Pi / 180
	qx := AxisAngle(Vec3{X: 1}, x*degToRad)
	qy := AxisAngle(Vec3{Y: 1}, y*degToRad)
	qz := AxisAngle(Vec3{Z: 1}, z*degToRad)
	return qx.Mul(qy).Mul(qz)
}

// Mul returns the rotation q followed by o.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: o.W*q.X + o.X*q.W + o.Y*q.Z - o.Z*q.Y,
		Y: o.W*q.Y - o.X*q.Z + o.Y*q.W + o.Z*q.X,
		Z: o.W*q.Z + o.X*q.Y - o.Y*q.X + o.Z*q.W,
		W: o.W*q.W - o.X*q.X - o.Y*q.Y - o.Z*q.Z,
	}
}

func (q Quat) Normalize() Quat {
	l := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if l == 0 {
		return QuatIdentity
	}
	return Quat{X: q.X / l, Y: q.Y / l, Z: q.Z / l, W: q.W / l}
}
