// Package camera provides the view cameras used while running.
package camera

import (
	gomath "math"

	"github.com/Faultbox/meadow-run/pkg/math"
)

// Mode selects how the camera is positioned.
type Mode int

const (
	ModeThirdPerson Mode = iota // chase view behind the runner
	ModeFirstPerson             // from the runner's head
	ModeStatic                  // fixed overview
	ModeOrbiting                // circles a point over time
)

func (m Mode) String() string {
	switch m {
	case ModeThirdPerson:
		return "third-person"
	case ModeFirstPerson:
		return "first-person"
	case ModeStatic:
		return "static"
	case ModeOrbiting:
		return "orbiting"
	default:
		return "unknown"
	}
}

// Target is what the follow modes track.
type Target struct {
	Position  math.Vec3
	RotationY float32
}

// Camera produces view-projection matrices for the current mode.
type Camera struct {
	Mode Mode

	// Projection
	FOV    float32 // vertical, radians
	Aspect float32
	Near   float32
	Far    float32

	// Third person: eye = target + Offset, looking at target + LookOffset.
	Offset     math.Vec3
	LookOffset math.Vec3

	// First person: eye height above the target and distance ahead of it.
	EyeHeight float32
	EyeAhead  float32

	// Static
	StaticEye    math.Vec3
	StaticTarget math.Vec3

	// Orbiting
	OrbitCenter math.Vec3
	OrbitRadius float32
	OrbitHeight float32
}

// New creates a third-person camera for the given aspect ratio.
func New(aspect float32) *Camera {
	return &Camera{
		Mode:         ModeThirdPerson,
		FOV:          60 * gomath.Pi / 180,
		Aspect:       aspect,
		Near:         0.1,
		Far:          1000,
		Offset:       math.Vec3{X: 13, Y: 6, Z: 20},
		LookOffset:   math.Vec3{X: 3, Y: 10, Z: 5},
		EyeHeight:    4,
		EyeAhead:     4.8,
		StaticEye:    math.Vec3{X: 50, Y: 50, Z: 50},
		StaticTarget: math.Vec3{},
		OrbitRadius:  11,
		OrbitHeight:  5,
	}
}

// SetAspect updates the projection after a resize.
func (c *Camera) SetAspect(width, height int) {
	if height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// Projection returns the perspective matrix.
func (c *Camera) Projection() math.Mat4 {
	return math.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// Eye returns the camera position and look-at point. Follow modes fall
// back to the static view without a target. t drives the orbit.
func (c *Camera) Eye(t float32, target *Target) (eye, center math.Vec3) {
	switch c.Mode {
	case ModeThirdPerson:
		if target != nil {
			return target.Position.Add(c.Offset), target.Position.Add(c.LookOffset)
		}
	case ModeFirstPerson:
		if target != nil {
			forward := Forward(target.RotationY)
			eye = target.Position.Add(math.Vec3{Y: c.EyeHeight}).Add(forward.Scale(c.EyeAhead))
			return eye, eye.Add(forward)
		}
	case ModeOrbiting:
		eye = math.Vec3{
			X: c.OrbitCenter.X + c.OrbitRadius*float32(gomath.Cos(float64(t))),
			Y: c.OrbitCenter.Y + c.OrbitHeight,
			Z: c.OrbitCenter.Z + c.OrbitRadius*float32(gomath.Sin(float64(t))),
		}
		return eye, c.OrbitCenter
	}
	return c.StaticEye, c.StaticTarget
}

// ViewMatrix returns the view matrix for the current mode.
func (c *Camera) ViewMatrix(t float32, target *Target) math.Mat4 {
	eye, center := c.Eye(t, target)
	return math.LookAt(eye, center, math.Vec3{Y: 1})
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection(t float32, target *Target) math.Mat4 {
	return c.Projection().Mul(c.ViewMatrix(t, target))
}

// Forward returns the ground-plane facing for a yaw, where zero faces -Z.
func Forward(rotationY float32) math.Vec3 {
	s, co := gomath.Sincos(float64(rotationY))
	return math.Vec3{X: float32(-s), Z: float32(-co)}
}
