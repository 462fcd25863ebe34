package states

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/game/world"
	"github.com/Faultbox/meadow-run/internal/logger"
)

// ChaseState walks the chaser up behind the fallen player.
type ChaseState struct {
	world   *world.World
	manager *Manager
	events  Events
}

// NewChaseState creates the chase state.
func NewChaseState(w *world.World, manager *Manager, events Events) *ChaseState {
	if events == nil {
		events = NopEvents{}
	}
	return &ChaseState{world: w, manager: manager, events: events}
}

// Name implements State.
func (s *ChaseState) Name() string { return "chase" }

// Enter implements State.
func (s *ChaseState) Enter() error {
	logger.Debug("chaser approaching",
		zap.Float32("distance", s.world.Chaser.DistanceXZ(s.world.ChaseTarget())))
	return nil
}

// Exit implements State.
func (s *ChaseState) Exit() error { return nil }

// Update advances the world and closes the distance.
func (s *ChaseState) Update(dt float32) error {
	w := s.world
	if err := w.Update(dt); err != nil {
		return err
	}

	g := w.Gameplay()
	left := w.Chaser.MoveToward(w.ChaseTarget(), g.ChaserWalkSpeed, dt)
	if left < g.GrabDistance {
		w.Play(w.Chaser, world.ClipGrab, world.BlendGrab, false)
		s.events.Grabbed()
		s.manager.Change(NewGrabState(w))
	}
	return nil
}
