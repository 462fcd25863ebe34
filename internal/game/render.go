package game

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/engine/renderer"
	"github.com/Faultbox/meadow-run/internal/game/entity"
)

var (
	playerTint = [4]float32{0.35, 0.55, 0.95, 1}
	chaserTint = [4]float32{0.85, 0.45, 0.25, 1}
)

// scene assembles what the renderer draws this frame.
func (g *Game) scene() *renderer.Scene {
	w := g.world
	target := w.CameraTarget()
	eye, _ := g.camera.Eye(g.time, target)

	return &renderer.Scene{
		ViewProj:  g.camera.ViewProjection(g.time, target),
		CameraPos: eye,
		Sun:       g.cfg.Graphics.Sun,
		Time:      g.time,
		Focus:     w.Player.Position,
		Tiles:     w.Terrain.Tiles(),
		Actors: []renderer.Actor{
			actor(w.Player, playerTint),
			actor(w.Chaser, chaserTint),
		},
		RigScale: g.cfg.Assets.RigScale,
	}
}

func actor(r *entity.Runner, tint [4]float32) renderer.Actor {
	return renderer.Actor{Model: r.WorldMatrix(), Pose: r.Pose(), Tint: tint}
}

func (g *Game) render() {
	g.renderer.Begin()
	g.renderer.Draw(g.scene())
	stats := g.renderer.End()
	if g.frames%600 == 0 {
		g.log.Debug("frame stats",
			zap.Int("draw_calls", stats.DrawCalls),
			zap.Int("instances", stats.Instances))
	}
}
