// Package world holds everything that exists during a run.
package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/config"
	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/internal/engine/camera"
	"github.com/Faultbox/meadow-run/internal/engine/terrain"
	"github.com/Faultbox/meadow-run/internal/game/entity"
	"github.com/Faultbox/meadow-run/internal/logger"
	"github.com/Faultbox/meadow-run/pkg/math"
)

// Clip names the game plays.
const (
	ClipRunForward  = "run forward"
	ClipHitReaction = "hit reaction"
	ClipDeath       = "death"
	ClipRun         = "run"
	ClipWalk        = "walk"
	ClipGrab        = "grab low"
)

// Cross-fade durations in seconds.
const (
	BlendHit   = 0.1
	BlendDeath = 0.2
	BlendRun   = 0.2
	BlendWalk  = 0.2
	BlendGrab  = 0.2
)

// PlayerClips and ChaserClips are the clips each role needs.
var (
	PlayerClips = []string{ClipRunForward, ClipHitReaction, ClipDeath}
	ChaserClips = []string{ClipRun, ClipWalk, ClipGrab}
)

// Assets are the shared animations a world is built from.
type Assets struct {
	Player   *animation.Animation
	Chaser   *animation.Animation
	Obstacle *animation.Animation
	Coord    math.Mat4
}

// World owns the runners, the terrain and the run's counters.
type World struct {
	Player  *entity.Runner
	Chaser  *entity.Runner
	Terrain *terrain.Manager

	Collisions int
	Elapsed    float32

	cfg config.GameplayConfig
	log *zap.Logger
}

// New builds a world and lays out the terrain around the player.
// device may be nil for headless runs.
func New(gameplay config.GameplayConfig, terrainCfg terrain.Config, assets Assets, device terrain.Device) (*World, error) {
	if assets.Player == nil || assets.Chaser == nil {
		return nil, fmt.Errorf("world needs player and chaser animations")
	}
	terrainCfg.ObstacleCoord = assets.Coord

	tm, err := terrain.NewManager(terrainCfg, device, assets.Obstacle)
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}

	w := &World{
		Terrain: tm,
		cfg:     gameplay,
		log:     logger.Named("world"),
	}

	w.Player = newRunner(entity.KindPlayer, assets.Player, assets.Coord, gameplay.PlayerStart, gameplay.PlayerScale, gameplay)
	w.Player.Speed = gameplay.PlayerSpeed
	w.Player.Direction = terrainCfg.Direction

	w.Chaser = newRunner(entity.KindChaser, assets.Chaser, assets.Coord, gameplay.ChaserStart, gameplay.ChaserScale, gameplay)
	w.Chaser.Speed = gameplay.ChaserSpeed
	w.Chaser.Direction = terrainCfg.Direction

	w.Play(w.Player, ClipRunForward, 0, true)
	w.Play(w.Chaser, ClipRun, 0, true)

	if err := tm.Init(w.Player.Position); err != nil {
		return nil, fmt.Errorf("terrain init: %w", err)
	}
	return w, nil
}

func newRunner(kind entity.Kind, anim *animation.Animation, coord math.Mat4, pos math.Vec3, scale float32, cfg config.GameplayConfig) *entity.Runner {
	r := entity.NewRunner(kind, anim, coord, pos, scale)
	if cfg.AnimRate > 0 {
		r.AnimRate = cfg.AnimRate
	}
	return r
}

// Update moves the player, then streams terrain around its new
// position, then advances the chaser.
func (w *World) Update(dt float32) error {
	w.Elapsed += dt
	w.Player.Update(dt)
	if err := w.Terrain.Update(w.Player.Position, dt); err != nil {
		return err
	}
	w.Chaser.Update(dt)
	return nil
}

// CheckCollisions records and returns the player's new hits.
func (w *World) CheckCollisions() int {
	hits := w.Terrain.CheckCollisions(w.Player.Position, w.cfg.PlayerRadius)
	w.Collisions += hits
	return hits
}

// Exhausted reports whether the player has taken the fatal hit.
func (w *World) Exhausted() bool {
	return w.Collisions >= w.cfg.MaxCollisions
}

// ChaseTarget is where the chaser stops: ChaserGap behind the player.
func (w *World) ChaseTarget() math.Vec3 {
	return w.Player.Position.Add(math.Vec3{Z: -w.Player.Direction * w.cfg.ChaserGap})
}

// CameraTarget returns what the follow cameras track.
func (w *World) CameraTarget() *camera.Target {
	return &camera.Target{Position: w.Player.Position, RotationY: w.Player.Rotation.Y}
}

// Gameplay returns the tuning the world was built with.
func (w *World) Gameplay() config.GameplayConfig {
	return w.cfg
}

// Play requests a clip on r, logging clips the rig lacks.
func (w *World) Play(r *entity.Runner, clip string, blend float32, loop bool) {
	if err := r.PlayAnimation(clip, blend, loop); err != nil {
		w.log.Debug("clip unavailable", zap.String("runner", r.Kind.String()), zap.String("clip", clip))
	}
}

// Release frees terrain GPU buffers.
func (w *World) Release() {
	w.Terrain.Release()
}
