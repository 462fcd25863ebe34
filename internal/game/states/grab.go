package states

import (
	"github.com/Faultbox/meadow-run/internal/game/world"
	"github.com/Faultbox/meadow-run/internal/logger"
)

// GrabState is the end of a run. The world keeps animating.
type GrabState struct {
	world *world.World
}

// NewGrabState creates the final state.
func NewGrabState(w *world.World) *GrabState {
	return &GrabState{world: w}
}

// Name implements State.
func (s *GrabState) Name() string { return "grab" }

// Enter implements State.
func (s *GrabState) Enter() error {
	logger.Info("player caught")
	return nil
}

// Exit implements State.
func (s *GrabState) Exit() error { return nil }

// Update keeps the scene alive.
func (s *GrabState) Update(dt float32) error {
	return s.world.Update(dt)
}

// Finished reports whether the grab clip has played out.
func (s *GrabState) Finished() bool {
	return s.world.Chaser.State() == world.ClipGrab && s.world.Chaser.AnimationFinished()
}
