package math

import (
	"errors"
	"math"
)

// ErrSingularMatrix is returned when a matrix has no inverse. A bone with
// a zero scale key produces one; callers skip the bone rather than fail.
var ErrSingularMatrix = errors.New("singular matrix")

// Mat4 is a 4x4 matrix stored column-major, the layout glUniformMatrix4fv
// expects without transposing. Element (row r, column c) is m[c*4+r].
// Vectors are columns, so a.Mul(b) applies b first.
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{0: 1, 5: 1, 10: 1, 15: 1}
}

// AxisSwapZUp converts Z-up source assets to the Y-up render convention:
// (x, y, z) maps to (x, z, -y).
func AxisSwapZUp() Mat4 {
	return Mat4{0: 1, 6: -1, 9: 1, 15: 1}
}

// Perspective returns an OpenGL perspective projection. fovY is the
// vertical field of view in radians and aspect is width/height.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovY)/2))
	depth := near - far
	return Mat4{
		0:  f / aspect,
		5:  f,
		10: (far + near) / depth,
		11: -1,
		14: 2 * far * near / depth,
	}
}

// Ortho returns an orthographic projection of the given view box. The
// shadow pass renders the sun's view with it.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	w, h, d := right-left, top-bottom, far-near
	return Mat4{
		0:  2 / w,
		5:  2 / h,
		10: -2 / d,
		12: -(right + left) / w,
		13: -(top + bottom) / h,
		14: -(far + near) / d,
		15: 1,
	}
}

// LookAt returns a right-handed view matrix from eye toward center.
func LookAt(eye, center, up Vec3) Mat4 {
	fwd := center.Sub(eye).Normalize()
	side := fwd.Cross(up).Normalize()
	camUp := side.Cross(fwd)
	return Mat4{
		side.X, camUp.X, -fwd.X, 0,
		side.Y, camUp.Y, -fwd.Y, 0,
		side.Z, camUp.Z, -fwd.Z, 0,
		-side.Dot(eye), -camUp.Dot(eye), fwd.Dot(eye), 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// TranslateVec is Translate for a Vec3.
func TranslateVec(v Vec3) Mat4 { return Translate(v.X, v.Y, v.Z) }

// Scale returns a scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{0: x, 5: y, 10: z, 15: 1}
}

// ScaleVec is Scale for a Vec3.
func ScaleVec(v Vec3) Mat4 { return Scale(v.X, v.Y, v.Z) }

// rotation builds a rotation about a principal axis. a and b are the
// indices of the two axes the rotation mixes, in right-handed order.
func rotation(a, b int, angle float32) Mat4 {
	s64, c64 := math.Sincos(float64(angle))
	s, c := float32(s64), float32(c64)
	m := Identity()
	m[a*4+a], m[b*4+b] = c, c
	m[a*4+b], m[b*4+a] = s, -s
	return m
}

// RotateX rotates angle radians about X.
func RotateX(angle float32) Mat4 { return rotation(1, 2, angle) }

// RotateY rotates angle radians about Y.
func RotateY(angle float32) Mat4 { return rotation(2, 0, angle) }

// RotateZ rotates angle radians about Z.
func RotateZ(angle float32) Mat4 { return rotation(0, 1, angle) }

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		oc := o[c*4 : c*4+4]
		for r := 0; r < 4; r++ {
			out[c*4+r] = m[r]*oc[0] + m[4+r]*oc[1] + m[8+r]*oc[2] + m[12+r]*oc[3]
		}
	}
	return out
}

// Lerp blends every component: m*(1-t) + other*t. This is not a
// decomposed TRS blend, so it is only used for short cross-fades.
func (m Mat4) Lerp(other Mat4, t float32) Mat4 {
	var out Mat4
	for i := range m {
		out[i] = m[i]*(1-t) + other[i]*t
	}
	return out
}

// TransformPoint applies m to p with w=1, dividing by w for projections.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	v := m.TransformDirection(p).Add(m.Translation())
	if w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]; w != 0 && w != 1 {
		return v.Scale(1 / w)
	}
	return v
}

// TransformDirection applies the upper 3x3 of m, ignoring translation.
func (m Mat4) TransformDirection(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// Translation returns the translation column, the world position of a
// bone's global matrix.
func (m Mat4) Translation() Vec3 {
	return Vec3{X: m[12], Y: m[13], Z: m[14]}
}

// ApproxEqual reports whether every component differs by at most eps.
func (m Mat4) ApproxEqual(other Mat4, eps float32) bool {
	for i := range m {
		if Abs(m[i]-other[i]) > eps {
			return false
		}
	}
	return true
}

// Ptr returns a pointer to the first element for GL uniform uploads.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}

// Inverse returns m⁻¹ by Laplace expansion over 2x2 minors of the top
// and bottom row pairs. A zero determinant returns the identity and
// ErrSingularMatrix.
func (m Mat4) Inverse() (Mat4, error) {
	// aRC is row R, column C.
	a00, a01, a02, a03 := m[0], m[4], m[8], m[12]
	a10, a11, a12, a13 := m[1], m[5], m[9], m[13]
	a20, a21, a22, a23 := m[2], m[6], m[10], m[14]
	a30, a31, a32, a33 := m[3], m[7], m[11], m[15]

	s0 := a00*a11 - a10*a01
	s1 := a00*a12 - a10*a02
	s2 := a00*a13 - a10*a03
	s3 := a01*a12 - a11*a02
	s4 := a01*a13 - a11*a03
	s5 := a02*a13 - a12*a03

	c0 := a20*a31 - a30*a21
	c1 := a20*a32 - a30*a22
	c2 := a20*a33 - a30*a23
	c3 := a21*a32 - a31*a22
	c4 := a21*a33 - a31*a23
	c5 := a22*a33 - a32*a23

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity(), ErrSingularMatrix
	}
	k := 1 / det

	var inv Mat4
	set := func(r, c int, v float32) { inv[c*4+r] = v * k }

	set(0, 0, a11*c5-a12*c4+a13*c3)
	set(0, 1, -a01*c5+a02*c4-a03*c3)
	set(0, 2, a31*s5-a32*s4+a33*s3)
	set(0, 3, -a21*s5+a22*s4-a23*s3)

	set(1, 0, -a10*c5+a12*c2-a13*c1)
	set(1, 1, a00*c5-a02*c2+a03*c1)
	set(1, 2, -a30*s5+a32*s2-a33*s1)
	set(1, 3, a20*s5-a22*s2+a23*s1)

	set(2, 0, a10*c4-a11*c2+a13*c0)
	set(2, 1, -a00*c4+a01*c2-a03*c0)
	set(2, 2, a30*s4-a31*s2+a33*s0)
	set(2, 3, -a20*s4+a21*s2-a23*s0)

	set(3, 0, -a10*c3+a11*c1-a12*c0)
	set(3, 1, a00*c3-a01*c1+a02*c0)
	set(3, 2, -a30*s3+a31*s1-a32*s0)
	set(3, 3, a20*s3-a21*s1+a22*s0)

	return inv, nil
}

// TRS composes translation * rotation * scale, so scale applies first.
func TRS(t Vec3, r Quat, s Vec3) Mat4 {
	return TranslateVec(t).Mul(r.ToMat4()).Mul(ScaleVec(s))
}
