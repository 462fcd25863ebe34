package states

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/engine/input"
	"github.com/Faultbox/meadow-run/internal/game/controller"
	"github.com/Faultbox/meadow-run/internal/game/world"
	"github.com/Faultbox/meadow-run/internal/logger"
)

// PlayingState is the run itself: the player steers between lanes while
// the terrain streams past, until too many obstacles have been hit.
type PlayingState struct {
	world    *world.World
	controls input.Controls
	steering *controller.LaneSteering
	manager  *Manager
	events   Events
}

// NewPlayingState creates the playing state.
func NewPlayingState(w *world.World, controls input.Controls, manager *Manager, events Events) *PlayingState {
	if events == nil {
		events = NopEvents{}
	}
	g := w.Gameplay()
	return &PlayingState{
		world:    w,
		controls: controls,
		steering: controller.NewLaneSteering(g.LaneOffset, g.LaneTransitionSpeed),
		manager:  manager,
		events:   events,
	}
}

// Name implements State.
func (s *PlayingState) Name() string { return "playing" }

// Enter implements State.
func (s *PlayingState) Enter() error {
	logger.Info("run started",
		zap.Float32("player_z", s.world.Player.Position.Z),
		zap.Int("max_collisions", s.world.Gameplay().MaxCollisions))
	return nil
}

// Exit implements State.
func (s *PlayingState) Exit() error { return nil }

// Update steers, advances the world and resolves collisions.
func (s *PlayingState) Update(dt float32) error {
	w := s.world
	if s.controls != nil {
		s.steering.Update(w.Player, s.controls, dt)
	}

	if err := w.Update(dt); err != nil {
		return err
	}

	if hits := w.CheckCollisions(); hits > 0 {
		if w.Exhausted() {
			s.gameOver()
			return nil
		}
		w.Play(w.Player, world.ClipHitReaction, world.BlendHit, false)
		s.events.Hit(w.Collisions)
	}

	if w.Player.State() == world.ClipHitReaction && w.Player.AnimationFinished() {
		w.Play(w.Player, world.ClipRunForward, world.BlendRun, true)
	}
	return nil
}

func (s *PlayingState) gameOver() {
	w := s.world
	w.Player.Stop()
	w.Play(w.Player, world.ClipDeath, world.BlendDeath, false)
	w.Chaser.Stop()
	w.Play(w.Chaser, world.ClipWalk, world.BlendWalk, true)

	logger.Info("game over",
		zap.Int("collisions", w.Collisions),
		zap.Float32("distance", w.Terrain.Progress(w.Player.Position.Z)-w.Terrain.Progress(w.Gameplay().PlayerStart.Z)),
		zap.Float32("elapsed", w.Elapsed))
	s.events.GameOver()
	s.manager.Change(NewChaseState(w, s.manager, s.events))
}
