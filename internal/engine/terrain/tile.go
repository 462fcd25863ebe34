// Package terrain streams the endless road: a fixed ring of tiles that
// are recycled ahead of the player, each carrying obstacles, decorations
// and instanced grass.
package terrain

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/internal/logger"
	"github.com/Faultbox/meadow-run/pkg/math"
)

// Tile is one fixed-length road segment.
type Tile struct {
	Position    math.Vec3
	Length      float32
	Obstacles   []*Obstacle
	Decorations []Decoration
	Config      TileConfig

	layout  GrassLayout
	grass   []*GrassBuffer
	scratch [][]math.Mat4
	log     *zap.Logger
}

// NewTile creates an empty tile with one grass buffer per grass type.
func NewTile(length float32, layout GrassLayout, device Device) *Tile {
	t := &Tile{
		Length:  length,
		layout:  layout,
		grass:   make([]*GrassBuffer, layout.Types),
		scratch: make([][]math.Mat4, layout.Types),
		log:     logger.Named("terrain"),
	}
	for i := range t.grass {
		t.grass[i] = NewGrassBuffer(device)
	}
	return t
}

// Generate rebuilds the tile's contents at its current position.
func (t *Tile) Generate(rng *rand.Rand, cfg TileConfig, obstacleAnim *animation.Animation, coord math.Mat4) error {
	t.Config = cfg
	if err := t.GenerateGrass(rng); err != nil {
		return err
	}
	t.GenerateObstacles(rng, cfg.Lane, obstacleAnim, coord)
	t.GenerateDecorations(rng, cfg.Decorations)
	return nil
}

// GenerateGrass places fresh grass and updates the instance buffers.
func (t *Tile) GenerateGrass(rng *rand.Rand) error {
	t.scratch = t.layout.Generate(rng, t.Position, t.scratch)
	for i, buf := range t.grass {
		if err := buf.Set(t.scratch[i]); err != nil {
			return fmt.Errorf("grass type %d: %w", i, err)
		}
	}
	return nil
}

// GenerateObstacles replaces the obstacles with at most one on lane.
func (t *Tile) GenerateObstacles(rng *rand.Rand, lane Lane, anim *animation.Animation, coord math.Mat4) {
	t.Obstacles = t.Obstacles[:0]
	if lane == LaneNone {
		return
	}
	t.Obstacles = append(t.Obstacles, newObstacle(rng, lane, t.Position, t.Length, anim, coord))
}

// GenerateDecorations replaces the decorations with count new ones.
func (t *Tile) GenerateDecorations(rng *rand.Rand, count int) {
	t.Decorations = t.Decorations[:0]
	for i := 0; i < count; i++ {
		t.Decorations = append(t.Decorations, newDecoration(rng, t.Position, t.Length))
	}
}

// CheckCollisions marks and counts obstacles newly touched by the player.
// An obstacle that has been hit never counts again.
func (t *Tile) CheckCollisions(player math.Vec3, radius float32) int {
	hits := 0
	for _, o := range t.Obstacles {
		if o.Hit || !o.Collides(player, radius) {
			continue
		}
		o.Hit = true
		hits++
		t.log.Info("collision detected",
			zap.String("lane", o.Lane.String()),
			zap.Float32("obstacle_z", o.Position.Z))
	}
	return hits
}

// Update advances obstacle animations.
func (t *Tile) Update(dt float32) {
	for _, o := range t.Obstacles {
		o.Update(dt)
	}
}

// Grass returns the per-type grass buffers.
func (t *Tile) Grass() []*GrassBuffer {
	return t.grass
}

// Release frees the grass buffers.
func (t *Tile) Release() {
	for _, g := range t.grass {
		g.Release()
	}
}
