package math

import (
	"errors"
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestMulOrder(t *testing.T) {
	// Scale applies first, then translation.
	m := Translate(10, 0, 0).Mul(Scale(2, 2, 2))
	got := m.TransformPoint(Vec3{1, 0, 0})
	if got != (Vec3{12, 0, 0}) {
		t.Errorf("T*S applied to (1,0,0) = %v, want (12,0,0)", got)
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformPoint(Vec3{1, 2, 3})
	if got != (Vec3{11, 22, 33}) {
		t.Errorf("TransformPoint: got %v, want (11, 22, 33)", got)
	}
}

func TestTransformDirection(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	got := m.TransformDirection(Vec3{1, 2, 3})
	if got != (Vec3{2, 4, 6}) {
		t.Errorf("TransformDirection: got %v, want (2, 4, 6)", got)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	got := m.TransformPoint(Vec3{1, 0, 0})

	// (1,0,0) rotates to approximately (0,0,-1)
	if abs(got.X) > 0.001 || abs(got.Y) > 0.001 || abs(got.Z+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", got)
	}
}

func TestAxisSwapZUp(t *testing.T) {
	m := AxisSwapZUp()
	tests := []struct {
		in, want Vec3
	}{
		{Vec3{1, 0, 0}, Vec3{1, 0, 0}},
		{Vec3{0, 1, 0}, Vec3{0, 0, -1}},
		{Vec3{0, 0, 1}, Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		if got := m.TransformPoint(tt.in); got != tt.want {
			t.Errorf("AxisSwapZUp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInverse(t *testing.T) {
	m := Translate(3, -4, 5).Mul(RotateY(0.7)).Mul(Scale(2, 2, 2))
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	if !m.Mul(inv).ApproxEqual(Identity(), 1e-4) {
		t.Errorf("M * M^-1 should be identity, got %v", m.Mul(inv))
	}
}

func TestInverseTranslation(t *testing.T) {
	inv, err := Translate(3, -4, 5).Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	if got := inv.Translation(); got != (Vec3{-3, 4, -5}) {
		t.Errorf("inverse translation = %v, want (-3, 4, -5)", got)
	}
}

func TestAxisRotationsMatchQuat(t *testing.T) {
	tests := []struct {
		name string
		axis Vec3
		rot  func(float32) Mat4
	}{
		{"x", Vec3{X: 1}, RotateX},
		{"y", Vec3{Y: 1}, RotateY},
		{"z", Vec3{Z: 1}, RotateZ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := QuatFromAxisAngle(tt.axis, 0.6).ToMat4()
			if got := tt.rot(0.6); !got.ApproxEqual(want, 1e-5) {
				t.Errorf("Rotate%s = %v, want %v", tt.name, got, want)
			}
		})
	}
}

func TestInverseSingular(t *testing.T) {
	_, err := Scale(1, 0, 1).Inverse()
	if !errors.Is(err, ErrSingularMatrix) {
		t.Errorf("expected ErrSingularMatrix, got %v", err)
	}
}

func TestLerp(t *testing.T) {
	a := Translate(0, 0, 0)
	b := Translate(10, 20, 30)

	tests := []struct {
		t    float32
		want Vec3
	}{
		{0, Vec3{0, 0, 0}},
		{0.5, Vec3{5, 10, 15}},
		{1, Vec3{10, 20, 30}},
	}
	for _, tt := range tests {
		if got := a.Lerp(b, tt.t).Translation(); got != tt.want {
			t.Errorf("Lerp(%v) translation = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestTRS(t *testing.T) {
	m := TRS(Vec3{1, 2, 3}, QuatIdentity(), Vec3{2, 2, 2})
	got := m.TransformPoint(Vec3{1, 1, 1})
	if got != (Vec3{3, 4, 5}) {
		t.Errorf("TRS point = %v, want (3, 4, 5)", got)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1.0, 0.1, 100.0)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestOrtho(t *testing.T) {
	m := Ortho(-10, 10, -5, 5, 1, 101)

	tests := []struct {
		in, want Vec3
	}{
		{Vec3{0, 0, -1}, Vec3{0, 0, -1}},
		{Vec3{0, 0, -101}, Vec3{0, 0, 1}},
		{Vec3{10, 5, -51}, Vec3{1, 1, 0}},
		{Vec3{-10, -5, -51}, Vec3{-1, -1, 0}},
	}
	for _, tt := range tests {
		got := m.TransformPoint(tt.in)
		if abs(got.X-tt.want.X) > 1e-5 || abs(got.Y-tt.want.Y) > 1e-5 || abs(got.Z-tt.want.Z) > 1e-5 {
			t.Errorf("Ortho(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLookAt(t *testing.T) {
	m := LookAt(Vec3{0, 0, 5}, Vec3{0, 0, 0}, Vec3{0, 1, 0})

	// The eye maps to the view-space origin.
	eye := m.TransformPoint(Vec3{0, 0, 5})
	if abs(eye.X) > 1e-5 || abs(eye.Y) > 1e-5 || abs(eye.Z) > 1e-5 {
		t.Errorf("LookAt eye should map to origin, got %v", eye)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
