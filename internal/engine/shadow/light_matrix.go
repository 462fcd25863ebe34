package shadow

import (
	gomath "math"

	"github.com/Faultbox/meadow-run/pkg/math"
)

// LightMatrix returns the view-projection of a directional light that
// covers a sphere of radius around focus. sunDir points towards the
// light. The shadow region follows the runner down the road.
func LightMatrix(sunDir, focus math.Vec3, radius float32) math.Mat4 {
	dir := sunDir.Normalize()
	distance := radius * 2

	up := math.Vec3{Y: 1}
	// A sun straight overhead would be parallel to up.
	if math.Abs(dir.Y) > 0.99 {
		up = math.Vec3{Z: 1}
	}

	view := math.LookAt(focus.Add(dir.Scale(distance)), focus, up)

	padding := radius * 0.1
	half := radius + padding
	proj := math.Ortho(-half, half, -half, half, 0.1, distance+radius+padding)
	return proj.Mul(view)
}

// Snap rounds focus to the world size of one texel along X and Z.
func Snap(focus math.Vec3, radius float32, resolution int32) math.Vec3 {
	if resolution <= 0 || radius <= 0 {
		return focus
	}
	texel := 2 * radius * 1.1 / float32(resolution)
	return math.Vec3{
		X: float32(gomath.Round(float64(focus.X/texel))) * texel,
		Y: focus.Y,
		Z: float32(gomath.Round(float64(focus.Z/texel))) * texel,
	}
}
