// Package matrix builds the 4x4 column-major matrices used by the instanced
// 2D pipeline. Every function writes into a caller-provided matrix and never
// allocates.
//
// The staged helpers (FromTranslation, RotateX, RotateY, RotateZ, Scale) only
// touch the columns a rotation or scale can change, so they are cheaper than a
// full matrix product but are only correct when run in the fixed order
// Translate -> RotateX -> RotateY -> RotateZ -> Scale on a freshly translated
// matrix. Code outside this package should call ComposeTransform.
package matrix

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Orthographic writes a right-handed orthographic projection into out.
func Orthographic(out *mgl32.Mat4, left, right, bottom, top, near, far float32) {
	*out = mgl32.Ortho(left, right, bottom, top, near, far)
}

// FromTranslation resets out to the identity with the translation column set.
func FromTranslation(out *mgl32.Mat4, x, y, z float32) {
	*out = mgl32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// RotateX multiplies out on the right by a rotation of rad radians about X.
func RotateX(out *mgl32.Mat4, rad float32) {
	s, c := sincos(rad)
	m := out
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]

	m[4] = a10*c + a20*s
	m[5] = a11*c + a21*s
	m[6] = a12*c + a22*s
	m[7] = a13*c + a23*s
	m[8] = a20*c - a10*s
	m[9] = a21*c - a11*s
	m[10] = a22*c - a12*s
	m[11] = a23*c - a13*s
}

// RotateY multiplies out on the right by a rotation of rad radians about Y.
func RotateY(out *mgl32.Mat4, rad float32) {
	s, c := sincos(rad)
	m := out
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]

	m[0] = a00*c - a20*s
	m[1] = a01*c - a21*s
	m[2] = a02*c - a22*s
	m[3] = a03*c - a23*s
	m[8] = a00*s + a20*c
	m[9] = a01*s + a21*c
	m[10] = a02*s + a22*c
	m[11] = a03*s + a23*c
}

// RotateZ multiplies out on the right by a rotation of rad radians about Z.
func RotateZ(out *mgl32.Mat4, rad float32) {
	s, c := sincos(rad)
	m := out
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]

	m[0] = a00*c + a10*s
	m[1] = a01*c + a11*s
	m[2] = a02*c + a12*s
	m[3] = a03*c + a13*s
	m[4] = a10*c - a00*s
	m[5] = a11*c - a01*s
	m[6] = a12*c - a02*s
	m[7] = a13*c - a03*s
}

// Scale multiplies the first three columns of out by sx, sy and sz.
func Scale(out *mgl32.Mat4, sx, sy, sz float32) {
	for i := 0; i < 4; i++ {
		out[i] *= sx
		out[4+i] *= sy
		out[8+i] *= sz
	}
}

// ComposeTransform writes Translate(t) * RotateX(r.X) * RotateY(r.Y) *
// RotateZ(r.Z) * Scale(s) into out.
func ComposeTransform(out *mgl32.Mat4, t, r, s mgl32.Vec3) {
	FromTranslation(out, t[0], t[1], t[2])
	RotateX(out, r[0])
	RotateY(out, r[1])
	RotateZ(out, r[2])
	Scale(out, s[0], s[1], s[2])
}

// TransformPoint applies m to the point (x, y, z, 1).
func TransformPoint(m *mgl32.Mat4, x, y, z float32) (float32, float32, float32) {
	v := m.Mul4x1(mgl32.Vec4{x, y, z, 1})
	return v[0], v[1], v[2]
}

func sincos(rad float32) (float32, float32) {
	if rad == 0 {
		return 0, 1
	}
	s, c := math.Sincos(float64(rad))
	return float32(s), float32(c)
}
