package math

import "math"

// Vec3 is a 3D point or direction. Y is up and runners travel along Z.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns v × o, right-handed.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length. The zero vector stays zero
// so a degenerate normal never turns into NaN.
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l > 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}

// Distance returns the distance to o.
func (v Vec3) Distance(o Vec3) float32 { return o.Sub(v).Length() }

// Lerp blends component-wise as v*(1-t) + o*t, so t=1 yields o exactly.
// Keyframe positions and scales are blended this way.
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return v.Scale(1 - t).Add(o.Scale(t))
}

// XZ drops the height, giving the point on the ground plane.
func (v Vec3) XZ() Vec2 { return Vec2{X: v.X, Y: v.Z} }
