package math

import (
	"math"
	"testing"
)

func quatNear(a, b Quat, eps float32) bool {
	return abs(a.X-b.X) <= eps && abs(a.Y-b.Y) <= eps && abs(a.Z-b.Z) <= eps && abs(a.W-b.W) <= eps
}

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := float32(math.Sqrt(float64(n.Dot(n))))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}

	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("zero quaternion should normalize to identity, got %v", got)
	}
}

func TestQuatSlerpEndpoints(t *testing.T) {
	q1 := QuatFromAxisAngle(Vec3{X: 1, Y: 0, Z: 0}, 0.3)
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	if got := q1.Slerp(q2, 0); !quatNear(got, q1, 1e-5) {
		t.Errorf("Slerp at t=0 = %v, want %v", got, q1)
	}
	if got := q1.Slerp(q2, 1); !quatNear(got, q2, 1e-5) {
		t.Errorf("Slerp at t=1 = %v, want %v", got, q2)
	}
}

func TestQuatSlerpSelf(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 0, Z: 1}, 1.1)
	for _, tt := range []float32{0, 0.25, 0.5, 0.75, 1} {
		if got := q.Slerp(q, tt); !quatNear(got, q, 1e-5) {
			t.Errorf("Slerp(q, q, %v) = %v, want %v", tt, got, q)
		}
	}
}

func TestQuatSlerpHalfway(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	result := q1.Slerp(q2, 0.5)
	// Halfway between 0 and 90 degrees is 45 degrees.
	expectedW := float32(math.Cos(math.Pi / 8))
	if math.Abs(float64(result.W-expectedW)) > 0.001 {
		t.Errorf("Slerp at t=0.5: expected W ~%v, got %v", expectedW, result.W)
	}
}

func TestQuatSlerpShortestPath(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, 0.4).Neg()

	// -q2 is the same rotation; the midpoint must be the 0.2 rad rotation,
	// not a detour through the far side of the sphere.
	mid := q1.Slerp(q2, 0.5)
	want := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, 0.2)
	if !quatNear(mid, want, 1e-4) && !quatNear(mid, want.Neg(), 1e-4) {
		t.Errorf("shortest-path midpoint = %v, want %v", mid, want)
	}
}

func TestQuatToMat4(t *testing.T) {
	m := QuatIdentity().ToMat4()
	if !m.ApproxEqual(Identity(), 0.0001) {
		t.Errorf("Identity quat should produce identity matrix, got %v", m)
	}

	// Quaternion and axis rotation agree.
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, 0.9)
	if !q.ToMat4().ApproxEqual(RotateY(0.9), 1e-5) {
		t.Errorf("quat Y rotation %v does not match RotateY %v", q.ToMat4(), RotateY(0.9))
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}
