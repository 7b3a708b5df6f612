package maths

import "math"

// Mat4 is a 4x4 matrix stored row-major. The library uses the row-vector
// convention: points transform as v * M, so A.Mul(B) applies A first and
// B second, and translation lives in the fourth row.
type Mat4 [16]float32

func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func Translation(v Vec3) Mat4 {
	m := Identity()
	m[12] = v.X
	m[13] = v.Y
	m[14] = v.Z
	return m
}

func Scaling(v Vec3) Mat4 {
	var m Mat4
	m[0] = v.X
	m[5] = v.Y
	m[10] = v.Z
	m[15] = 1
	return m
}

// Rotation builds a rotation matrix from a quaternion.
func Rotation(q Quat) Mat4 {
	q = q.Normalize()
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return Mat4{
		1 - 2*(y*y+z*z), 2 * (x*y + w*z), 2 * (x*z - w*y), 0,
		2 * (x*y - w*z), 1 - 2*(x*x+z*z), 2 * (y*z + w*x), 0,
		2 * (x*z + w*y), 2 * (y*z - w*x), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	}
}

// Compose builds scale, then rotation, then translation.
func Compose(position, scale Vec3, rotation Quat) Mat4 {
	return Scaling(scale).Mul(Rotation(rotation)).Mul(Translation(position))
}

// Mul returns m * o. Under the row-vector convention this is the transform
// m followed by the transform o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[r*4+k] * o[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// TransformPoint applies m to v as (v, 1) * m and returns the xyz of the
// result after a perspective divide when w is meaningful.
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	x := v.X*m[0] + v.Y*m[4] + v.Z*m[8] + m[12]
	y := v.X*m[1] + v.Y*m[5] + v.Z*m[9] + m[13]
	z := v.X*m[2] + v.Y*m[6] + v.Z*m[10] + m[14]
	w := v.X*m[3] + v.Y*m[7] + v.Z*m[11] + m[15]
	if w != 0 && w != 1 {
		return Vec3{X: x / w, Y: y / w, Z: z / w}
	}
	return Vec3{X: x, Y: y, Z: z}
}

// Translation returns the matrix's translation row.
func (m Mat4) Translation() Vec3 {
	return Vec3{X: m[12], Y: m[13], Z: m[14]}
}

// InverseAffine inverts a matrix composed of rotation, uniform or
// non-degenerate scale, and translation. The fourth column is assumed to
// be (0, 0, 0, 1).
func (m Mat4) InverseAffine() Mat4 {
	// invert the upper-left 3x3
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[4], m[5], m[6]
	g, h, i := m[8], m[9], m[10]

	ca := e*i - f*h
	cb := f*g - d*i
	cc := d*h - e*g
	det := a*ca + b*cb + c*cc
	if det == 0 {
		return Identity()
	}
	inv := 1 / det

	var out Mat4
	out[0] = ca * inv
	out[1] = (c*h - b*i) * inv
	out[2] = (b*f - c*e) * inv
	out[4] = cb * inv
	out[5] = (a*i - c*g) * inv
	out[6] = (c*d - a*f) * inv
	out[8] = cc * inv
	out[9] = (b*g - a*h) * inv
	out[10] = (a*e - b*d) * inv
	out[15] = 1

	// translation row: -t * inv(3x3)
	tx, ty, tz := m[12], m[13], m[14]
	out[12] = -(tx*out[0] + ty*out[4] + tz*out[8])
	out[13] = -(tx*out[1] + ty*out[5] + tz*out[9])
	out[14] = -(tx*out[2] + ty*out[6] + tz*out[10])
	return out
}

// Perspective builds a right-handed perspective projection. fovy is the
// vertical field of view in radians.
func Perspective(fovy, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovy)*0.5))
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = 2 * far * near / (near - far)
	return m
}

// Orthographic builds a right-handed orthographic projection.
func Orthographic(left, right, bottom, top, near, far float32) Mat4 {
	var m Mat4
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = 2 / (near - far)
	m[12] = (left + right) / (left - right)
	m[13] = (bottom + top) / (bottom - top)
	m[14] = (near + far) / (near - far)
	m[15] = 1
	return m
}

// LookAt builds a view matrix for a camera at eye looking toward center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up.Normalize()).Normalize()
	u := s.Cross(f)

	var m Mat4
	m[0], m[1], m[2] = s.X, u.X, -f.X
	m[4], m[5], m[6] = s.Y, u.Y, -f.Y
	m[8], m[9], m[10] = s.Z, u.Z, -f.Z
	m[12] = -eye.Dot(s)
	m[13] = -eye.Dot(u)
	m[14] = eye.Dot(f)
	m[15] = 1
	return m
}
