package terrain

import (
	"math/rand/v2"

	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/pkg/math"
)

// Obstacle placement.
const (
	ObstacleLeftX          = 5.0
	ObstacleRightX         = -5.3
	ObstacleLeftRotation   = 1.57
	ObstacleRightRotation  = -1.57
	ObstacleGroundY        = -0.8
	ObstacleJitter         = 0.6 // fraction of tile length
	ObstacleScale          = 0.11
	ObstacleCollisionRange = 0.8
	ObstacleIdleClip       = "eating"
	ObstacleMaxPhase       = 5.0 // seconds of idle clip skipped at spawn
)

// Obstacle is an animated animal standing on a road lane. It triggers
// at most one collision.
type Obstacle struct {
	Position        math.Vec3
	RotationY       float32
	Scale           float32
	CollisionRadius float32
	Lane            Lane
	Hit             bool

	sm *animation.StateMachine
}

// newObstacle places an obstacle on lane around the tile origin. With a
// non-nil anim it plays the idle clip from a random phase so neighbours
// do not move in step.
func newObstacle(rng *rand.Rand, lane Lane, origin math.Vec3, length float32, anim *animation.Animation, coord math.Mat4) *Obstacle {
	x, rot := float32(ObstacleRightX), float32(ObstacleRightRotation)
	if lane == LaneLeft {
		x, rot = ObstacleLeftX, ObstacleLeftRotation
	}
	dz := (rng.Float32() - 0.5) * length * ObstacleJitter

	o := &Obstacle{
		Position:        origin.Add(math.Vec3{X: x, Y: ObstacleGroundY, Z: dz}),
		RotationY:       rot,
		Scale:           ObstacleScale,
		CollisionRadius: ObstacleCollisionRange,
		Lane:            lane,
	}

	if anim != nil {
		o.sm = animation.NewStateMachine(anim, coord)
		if err := o.sm.ChangeState(ObstacleIdleClip, 0, true); err == nil {
			o.sm.Update(rng.Float32() * idlePhaseSpan(anim))
		}
	}
	return o
}

// idlePhaseSpan is the range spawn phases are drawn from. A phase past
// the end of the clip would wrap back to zero, so it stays within one
// cycle.
func idlePhaseSpan(anim *animation.Animation) float32 {
	span := float32(ObstacleMaxPhase)
	if seq, ok := anim.Clip(ObstacleIdleClip); ok && seq.Duration() > 0 {
		span = min(span, seq.Duration())
	}
	return span
}

// Update advances the idle animation.
func (o *Obstacle) Update(dt float32) {
	if o.sm != nil {
		o.sm.Update(dt)
	}
}

// StateMachine returns the obstacle's animation, or nil when unanimated.
func (o *Obstacle) StateMachine() *animation.StateMachine {
	return o.sm
}

// WorldMatrix returns translation * rotationY * scale.
func (o *Obstacle) WorldMatrix() math.Mat4 {
	return math.TranslateVec(o.Position).
		Mul(math.RotateY(o.RotationY)).
		Mul(math.Scale(o.Scale, o.Scale, o.Scale))
}

// Collides tests the ground-plane distance to a player of radius r.
func (o *Obstacle) Collides(player math.Vec3, r float32) bool {
	reach := r + o.CollisionRadius
	return player.XZ().Sub(o.Position.XZ()).LengthSq() < reach*reach
}

// Decoration placement.
const (
	DecorationMinSide  = 18.0
	DecorationSideSpan = 17.0
	DecorationGroundY  = -0.8
	DecorationMinScale = 0.007
	DecorationScaleVar = 0.01
	DecorationMaxTurn  = 6.28
)

// Decoration is static scenery beside the road.
type Decoration struct {
	Position  math.Vec3
	Scale     float32
	RotationY float32
}

func newDecoration(rng *rand.Rand, origin math.Vec3, length float32) Decoration {
	left := rng.IntN(2) == 0
	x := DecorationMinSide + rng.Float32()*DecorationSideSpan
	if !left {
		x = -x
	}
	dz := (rng.Float32() - 0.5) * length

	return Decoration{
		Position:  origin.Add(math.Vec3{X: x, Y: DecorationGroundY, Z: dz}),
		Scale:     DecorationMinScale + rng.Float32()*DecorationScaleVar,
		RotationY: rng.Float32() * DecorationMaxTurn,
	}
}

// WorldMatrix returns translation * rotationY * scale.
func (d Decoration) WorldMatrix() math.Mat4 {
	return math.TranslateVec(d.Position).
		Mul(math.RotateY(d.RotationY)).
		Mul(math.Scale(d.Scale, d.Scale, d.Scale))
}
