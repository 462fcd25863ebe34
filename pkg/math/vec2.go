// Package math provides the vector, quaternion and matrix types shared by
// the animation and terrain packages.
package math

import "math"

// Vec2 is a point on the ground plane. X is the lateral axis and Y holds
// the travel axis (world Z), see Vec3.XZ.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// LengthSq returns the squared length, for range checks without a sqrt.
func (v Vec2) LengthSq() float32 { return v.X*v.X + v.Y*v.Y }

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSq())))
}

// Distance returns the distance to o.
func (v Vec2) Distance(o Vec2) float32 { return o.Sub(v).Length() }

// MoveToward steps from v toward target by at most maxStep. It returns
// the new point and the distance still left, which is zero once the
// target is reached; it never overshoots.
func (v Vec2) MoveToward(target Vec2, maxStep float32) (Vec2, float32) {
	delta := target.Sub(v)
	dist := delta.Length()
	if dist <= maxStep || dist == 0 {
		return target, 0
	}
	return v.Add(delta.Scale(maxStep / dist)), dist - maxStep
}
