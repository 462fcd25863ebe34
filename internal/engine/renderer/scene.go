package renderer

import (
	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/internal/engine/lighting"
	"github.com/Faultbox/meadow-run/internal/engine/terrain"
	"github.com/Faultbox/meadow-run/pkg/math"
)

// Actor is a skinned character to draw.
type Actor struct {
	Model math.Mat4
	Pose  *animation.Instance
	Tint  [4]float32
}

// Scene is everything drawn in one frame.
type Scene struct {
	ViewProj  math.Mat4
	CameraPos math.Vec3
	Sun       lighting.Sun
	Time      float32

	// Focus is the centre of the shadowed region, usually the player.
	Focus math.Vec3

	Tiles  []*terrain.Tile
	Actors []Actor

	// RigScale multiplies every skinned model, including obstacles. Asset
	// rigs authored in centimetres use 1.
	RigScale float32
}

var (
	white         = [4]float32{1, 1, 1, 1}
	obstacleTint  = [4]float32{0.95, 0.9, 0.85, 1}
	decoTint      = [4]float32{0.30, 0.50, 0.22, 1}
	grassTypeTint = [][4]float32{
		{1, 1, 1, 1},
		{0.92, 1.05, 0.88, 1},
		{1.08, 1.02, 0.80, 1},
		{0.85, 0.95, 0.85, 1},
		{1.02, 0.92, 0.78, 1},
	}
)

// obstacleActors appends an actor for every animated obstacle in tiles.
func obstacleActors(tiles []*terrain.Tile, dst []Actor) []Actor {
	for _, tile := range tiles {
		for _, o := range tile.Obstacles {
			sm := o.StateMachine()
			if sm == nil {
				continue
			}
			dst = append(dst, Actor{
				Model: o.WorldMatrix(),
				Pose:  sm.Output(),
				Tint:  obstacleTint,
			})
		}
	}
	return dst
}

// scaled applies a uniform model-space scale.
func scaled(model math.Mat4, s float32) math.Mat4 {
	if s == 0 || s == 1 {
		return model
	}
	return model.Mul(math.Scale(s, s, s))
}

func grassTint(kind int) [4]float32 {
	return grassTypeTint[kind%len(grassTypeTint)]
}
