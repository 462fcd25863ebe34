// Package entity implements the animated characters of a run.
package entity

import (
	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/pkg/math"
)

// Kind tells runners apart.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindChaser
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindChaser:
		return "chaser"
	default:
		return "unknown"
	}
}

// DefaultAnimRate is the playback speed applied to runner animations.
const DefaultAnimRate = 0.5

// Runner is an animated character moving along the travel axis.
type Runner struct {
	Kind     Kind
	Position math.Vec3
	// Rotation is Euler angles in radians, applied Z, then X, then Y.
	Rotation math.Vec3
	Scale    float32
	// Speed is units per second along Direction.
	Speed float32
	// Direction is the sign of travel along Z.
	Direction float32
	// AnimRate scales dt before it reaches the state machine.
	AnimRate float32

	sm *animation.StateMachine
}

// NewRunner creates a runner at pos with its own state machine.
func NewRunner(kind Kind, anim *animation.Animation, coord math.Mat4, pos math.Vec3, scale float32) *Runner {
	return &Runner{
		Kind:      kind,
		Position:  pos,
		Scale:     scale,
		Direction: -1,
		AnimRate:  DefaultAnimRate,
		sm:        animation.NewStateMachine(anim, coord),
	}
}

// PlayAnimation requests a clip, cross-fading over blend seconds.
func (r *Runner) PlayAnimation(clip string, blend float32, loop bool) error {
	return r.sm.ChangeState(clip, blend, loop)
}

// Update advances the animation, then moves the runner.
func (r *Runner) Update(dt float32) {
	r.Animate(dt)
	r.Move(dt)
}

// Animate advances the state machine by dt scaled by AnimRate.
func (r *Runner) Animate(dt float32) {
	r.sm.Update(dt * r.AnimRate)
}

// Move advances the position along the travel axis.
func (r *Runner) Move(dt float32) {
	r.Position.Z += r.Direction * r.Speed * dt
}

// MoveToward walks across the ground plane toward target at speed and
// returns the remaining distance. It never overshoots.
func (r *Runner) MoveToward(target math.Vec3, speed, dt float32) float32 {
	p, left := r.Position.XZ().MoveToward(target.XZ(), speed*dt)
	r.Position.X, r.Position.Z = p.X, p.Y
	return left
}

// DistanceXZ returns the ground-plane distance to p.
func (r *Runner) DistanceXZ(p math.Vec3) float32 {
	return r.Position.XZ().Distance(p.XZ())
}

// WorldMatrix returns translation * rotation * scale.
func (r *Runner) WorldMatrix() math.Mat4 {
	return math.TranslateVec(r.Position).
		Mul(math.RotateY(r.Rotation.Y)).
		Mul(math.RotateX(r.Rotation.X)).
		Mul(math.RotateZ(r.Rotation.Z)).
		Mul(math.Scale(r.Scale, r.Scale, r.Scale))
}

// StateMachine returns the runner's animation state machine.
func (r *Runner) StateMachine() *animation.StateMachine {
	return r.sm
}

// Pose returns the pose to draw this frame.
func (r *Runner) Pose() *animation.Instance {
	return r.sm.Output()
}

// State returns the clip currently playing or being faded to.
func (r *Runner) State() string {
	return r.sm.State()
}

// AnimationFinished reports whether a one-shot clip has played out.
func (r *Runner) AnimationFinished() bool {
	return r.sm.IsAnimationFinished()
}

// Stop halts movement along the travel axis.
func (r *Runner) Stop() {
	r.Speed = 0
}
