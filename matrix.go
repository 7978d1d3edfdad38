package pathedit

import "github.com/chewxy/math32"

// Mat4 is a 4x4 float32 matrix in column-major order, the layout expected by
// GPU uniform buffers:
//
//	| m[0] m[4] m[8]  m[12] |
//	| m[1] m[5] m[9]  m[13] |
//	| m[2] m[6] m[10] m[14] |
//	| m[3] m[7] m[11] m[15] |
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective creates a right-handed perspective projection with a vertical
// field of view fovy (radians), the given aspect ratio (width / height) and
// near/far clip distances. Depth maps to [-1, 1].
func Perspective(fovy, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovy/2)
	return Mat4{
		0:  f / aspect,
		5:  f,
		10: -(far + near) / (far - near),
		11: -1,
		14: -(2 * far * near) / (far - near),
	}
}

// PerspectiveFov is like Perspective but takes the viewport size in pixels.
func PerspectiveFov(fovy, width, height, near, far float32) Mat4 {
	return Perspective(fovy, width/height, near, far)
}

// Translate4 creates a translation matrix.
func Translate4(v Vec3) Mat4 {
	m := Identity4()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Multiply returns m * n (n is applied first).
func (m Mat4) Multiply(n Mat4) Mat4 {
	var r Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float32
			for k := range 4 {
				sum += m[k*4+row] * n[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// MulVec4 transforms the homogeneous vector (x, y, z, w).
func (m Mat4) MulVec4(x, y, z, w float32) [4]float32 {
	return [4]float32{
		m[0]*x + m[4]*y + m[8]*z + m[12]*w,
		m[1]*x + m[5]*y + m[9]*z + m[13]*w,
		m[2]*x + m[6]*y + m[10]*z + m[14]*w,
		m[3]*x + m[7]*y + m[11]*z + m[15]*w,
	}
}

// Project transforms a position to normalized device coordinates.
// ok is false when the point lies on or behind the eye plane.
func (m Mat4) Project(p Vec3) (ndc Vec3, ok bool) {
	c := m.MulVec4(p.X, p.Y, p.Z, 1)
	if c[3] <= 0 {
		return Vec3{}, false
	}
	return Vec3{X: c[0] / c[3], Y: c[1] / c[3], Z: c[2] / c[3]}, true
}
