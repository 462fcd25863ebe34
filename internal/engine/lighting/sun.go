// Package lighting describes the directional light over the meadow.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/meadow-run/pkg/math"
)

// Sun is a directional light with an ambient term.
type Sun struct {
	// Azimuth is the rotation around +Y in degrees, 0 facing +Z.
	Azimuth float32 `yaml:"azimuth"`
	// Elevation is the angle above the horizon in degrees.
	Elevation float32   `yaml:"elevation"`
	Color     math.Vec3 `yaml:"color"`
	Ambient   math.Vec3 `yaml:"ambient"`
}

// DefaultSun is a warm afternoon sun.
func DefaultSun() Sun {
	return Sun{
		Azimuth:   135,
		Elevation: 50,
		Color:     math.Vec3{X: 1, Y: 0.96, Z: 0.88},
		Ambient:   math.Vec3{X: 0.35, Y: 0.38, Z: 0.42},
	}
}

// Direction converts azimuth/elevation degrees to a unit vector pointing
// towards the light.
func Direction(azimuth, elevation float32) math.Vec3 {
	az := float64(azimuth) * gomath.Pi / 180
	el := float64(elevation) * gomath.Pi / 180

	return math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Sin(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(gomath.Cos(el) * gomath.Cos(az)),
	}
}

// Direction returns the unit vector towards the sun.
func (s Sun) Direction() math.Vec3 {
	return Direction(s.Azimuth, s.Elevation)
}

// Shade returns the lit colour factor for a surface normal. It matches
// the fragment shaders and is used for CPU-side previews.
func (s Sun) Shade(normal math.Vec3) math.Vec3 {
	diffuse := normal.Normalize().Dot(s.Direction())
	if diffuse < 0 {
		diffuse = 0
	}
	return s.Ambient.Add(s.Color.Scale(diffuse))
}
