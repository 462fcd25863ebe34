// Package game implements the main game loop and state management.
package game

import (
	"errors"
	"fmt"
	gomath "math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/assets"
	"github.com/Faultbox/meadow-run/internal/config"
	"github.com/Faultbox/meadow-run/internal/engine/animation"
	"github.com/Faultbox/meadow-run/internal/engine/camera"
	"github.com/Faultbox/meadow-run/internal/engine/debug"
	"github.com/Faultbox/meadow-run/internal/engine/input"
	"github.com/Faultbox/meadow-run/internal/engine/renderer"
	"github.com/Faultbox/meadow-run/internal/engine/terrain"
	"github.com/Faultbox/meadow-run/internal/engine/window"
	"github.com/Faultbox/meadow-run/internal/game/states"
	"github.com/Faultbox/meadow-run/internal/game/world"
	"github.com/Faultbox/meadow-run/internal/logger"
)

const title = "Meadow Run"

// Game is the main game instance.
type Game struct {
	cfg *config.Config
	log *zap.Logger

	assets *assets.Manager
	world  *world.World
	states *states.Manager
	sound  *sound

	// Windowed only.
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.Camera
	shots    *debug.Screenshots

	controls input.Controls
	running  bool
	frames   int
	time     float32
}

// New creates a game from cfg. Headless games open no window, no GL
// context and no audio device, and are driven by input.Scripted.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		log:    logger.Named("game"),
		assets: assets.NewManager("."),
		states: states.NewManager(),
	}

	g.log.Info("initializing game",
		zap.Bool("headless", cfg.Run.Headless),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height))

	var device terrain.Device
	if cfg.Run.Headless {
		g.controls = &input.Scripted{}
	} else {
		if err := g.openWindow(); err != nil {
			g.Close()
			return nil, err
		}
		device = g.renderer.Device()
		g.controls = g.input
	}

	g.sound = newSound(cfg.Audio, g.assets, !cfg.Run.Headless)

	w, err := g.buildWorld(device)
	if err != nil {
		g.Close()
		return nil, err
	}
	g.world = w
	g.states.Change(states.NewPlayingState(w, g.controls, g.states, g.sound))

	g.log.Info("game initialized")
	return g, nil
}

func (g *Game) openWindow() error {
	gfx := g.cfg.Graphics

	var err error
	g.window, err = window.New(window.Config{
		Title:      title,
		Width:      gfx.Width,
		Height:     gfx.Height,
		Fullscreen: gfx.Fullscreen,
		VSync:      gfx.VSync,
		Samples:    gfx.Samples,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	// The framebuffer can be larger than the window on high-DPI displays.
	width, height := g.window.DrawableSize()
	rcfg := renderer.DefaultConfig(width, height, g.cfg.Terrain.TileLength)
	rcfg.ShadowResolution = gfx.Shadows
	g.renderer, err = renderer.New(rcfg)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New(nil)
	g.camera = newCamera(gfx, width, height)
	g.shots = debug.NewScreenshots(gfx.Screenshot, "meadow-run")
	return nil
}

func (g *Game) buildWorld(device terrain.Device) (*world.World, error) {
	coord, err := config.ParseCoord(g.cfg.Assets.Coord)
	if err != nil {
		return nil, err
	}

	player, err := g.assets.Animation(g.cfg.Assets.Player, world.PlayerClips...)
	if err != nil {
		return nil, err
	}
	chaser, err := g.assets.Animation(g.cfg.Assets.Chaser, world.ChaserClips...)
	if err != nil {
		return nil, err
	}
	// Headless runs skip obstacle animation; collisions only need positions.
	var obstacle *animation.Animation
	if !g.cfg.Run.Headless {
		if obstacle, err = g.assets.Animation(g.cfg.Assets.Obstacle, terrain.ObstacleIdleClip); err != nil {
			return nil, err
		}
	}

	tc := g.cfg.Terrain
	if tc.Seed == 0 {
		tc.Seed = uint64(time.Now().UnixNano())
		g.log.Info("terrain seed chosen", zap.Uint64("seed", tc.Seed))
	}
	terrainCfg, err := tc.Manager(g.levels())
	if err != nil {
		return nil, err
	}

	return world.New(g.cfg.Gameplay, terrainCfg, world.Assets{
		Player:   player,
		Chaser:   chaser,
		Obstacle: obstacle,
		Coord:    coord,
	}, device)
}

// levels loads the level file. A missing or unreadable file falls back
// to random tiles.
func (g *Game) levels() []terrain.TileConfig {
	name := g.cfg.Terrain.LevelFile
	if name == "" {
		return nil
	}
	path, err := g.assets.Resolve(name)
	if err == nil {
		var levels []terrain.TileConfig
		if levels, err = terrain.LoadLevelConfig(path); err == nil {
			g.log.Info("level loaded", zap.String("path", path), zap.Int("tiles", len(levels)))
			return levels
		}
	}
	g.log.Warn("level file unavailable, using random tiles", zap.String("file", name), zap.Error(err))
	return nil
}

// Run starts the main game loop and blocks until it ends.
func (g *Game) Run() error {
	g.running = true
	g.sound.startMusic()

	if g.cfg.Run.Headless {
		return g.runHeadless()
	}

	lastTime := window.Ticks()
	frameCount := 0
	fpsTimer := lastTime

	g.log.Info("starting game loop")

	for g.running {
		frameStart := time.Now()
		now := window.Ticks()
		dt := float32(now - lastTime)
		lastTime = now

		if g.input.Update() {
			break
		}
		g.handleInput()

		if err := g.Step(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		g.render()
		g.window.SwapBuffers()

		if g.frameLimitReached() {
			break
		}

		frameCount++
		if now-fpsTimer >= 1 {
			g.window.SetTitle(fmt.Sprintf("%s - %s - hits %d/%d - %d fps",
				title, g.State(), g.world.Collisions, g.cfg.Gameplay.MaxCollisions, frameCount))
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = now
		}

		if limit := g.cfg.Graphics.FPSLimit; limit > 0 {
			budget := time.Second / time.Duration(limit)
			if spent := time.Since(frameStart); spent < budget {
				time.Sleep(budget - spent)
			}
		}
	}

	g.log.Info("game loop ended", zap.Int("frames", g.frames), zap.String("state", g.State()))
	return nil
}

func (g *Game) runHeadless() error {
	dt := g.cfg.Run.FixedStep
	g.log.Info("starting headless run", zap.Float32("step", dt), zap.Int("frames", g.cfg.Run.Frames))

	for g.running {
		if err := g.Step(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}
		if g.frameLimitReached() || g.Finished() {
			break
		}
	}

	g.log.Info("headless run ended",
		zap.Int("frames", g.frames),
		zap.String("state", g.State()),
		zap.Int("collisions", g.world.Collisions),
		zap.Float32("elapsed", g.world.Elapsed),
		zap.Strings("states", g.StatePath()))
	return nil
}

func (g *Game) frameLimitReached() bool {
	return g.cfg.Run.Frames > 0 && g.frames >= g.cfg.Run.Frames
}

// Step advances the game by one frame of dt seconds.
func (g *Game) Step(dt float32) error {
	if err := g.states.Update(dt); err != nil {
		return err
	}
	g.time += dt
	g.frames++
	if s, ok := g.controls.(*input.Scripted); ok {
		s.EndFrame()
	}
	return nil
}

// handleInput applies the actions that live outside the run states.
func (g *Game) handleInput() {
	if w, h, ok := g.input.Resized(); ok {
		g.log.Debug("window resized", zap.Int("width", w), zap.Int("height", h))
		dw, dh := g.window.DrawableSize()
		g.renderer.Resize(dw, dh)
		g.camera.SetAspect(dw, dh)
	}

	switch {
	case g.input.Pressed(input.ActionCameraFirstPerson):
		g.setCameraMode(camera.ModeFirstPerson)
	case g.input.Pressed(input.ActionCameraThirdPerson):
		g.setCameraMode(camera.ModeThirdPerson)
	case g.input.Pressed(input.ActionCameraStatic):
		g.setCameraMode(camera.ModeStatic)
	}

	if g.input.Pressed(input.ActionToggleMute) {
		g.sound.toggleMute()
	}
	if g.input.Pressed(input.ActionScreenshot) {
		g.screenshot()
	}
	if g.input.Pressed(input.ActionToggleFullscreen) {
		if err := g.window.SetFullscreen(!g.window.Fullscreen()); err != nil {
			g.log.Warn("fullscreen toggle failed", zap.Error(err))
		}
	}
	if g.input.Pressed(input.ActionQuit) || g.input.QuitRequested() {
		g.running = false
	}
}

func (g *Game) setCameraMode(m camera.Mode) {
	if g.camera.Mode != m {
		g.camera.Mode = m
		g.log.Info("camera mode", zap.String("mode", m.String()))
	}
}

func (g *Game) screenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	path, err := g.shots.Save(pixels, w, h)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

// Controls returns the input the run is steered with. Headless games
// return an *input.Scripted.
func (g *Game) Controls() input.Controls {
	return g.controls
}

// World returns the running world.
func (g *Game) World() *world.World {
	return g.world
}

// State returns the name of the current run state.
func (g *Game) State() string {
	if s := g.states.Current(); s != nil {
		return s.Name()
	}
	if s := g.states.Pending(); s != nil {
		return s.Name()
	}
	return "none"
}

// StatePath returns the names of the states entered so far, in order.
func (g *Game) StatePath() []string {
	var path []string
	for _, t := range g.states.History() {
		path = append(path, t.To)
	}
	return path
}

// Frames returns how many frames have been stepped.
func (g *Game) Frames() int {
	return g.frames
}

// Finished reports whether the run is over and the grab has played out.
func (g *Game) Finished() bool {
	grab, ok := g.states.Current().(*states.GrabState)
	return ok && grab.Finished()
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.sound != nil {
		g.sound.close()
	}
	if g.world != nil {
		g.world.Release()
	}
	if g.assets != nil {
		g.assets.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

func newCamera(gfx config.GraphicsConfig, width, height int) *camera.Camera {
	cam := camera.New(1)
	cam.SetAspect(width, height)
	if gfx.FOV > 0 {
		cam.FOV = gfx.FOV * gomath.Pi / 180
	}
	mode, err := parseCameraMode(gfx.Camera)
	if err != nil {
		logger.Warn("unknown camera mode, using third-person", zap.String("camera", gfx.Camera))
	}
	cam.Mode = mode
	return cam
}

var errCameraMode = errors.New("unknown camera mode")

func parseCameraMode(name string) (camera.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "third-person":
		return camera.ModeThirdPerson, nil
	case "first-person":
		return camera.ModeFirstPerson, nil
	case "static":
		return camera.ModeStatic, nil
	case "orbiting":
		return camera.ModeOrbiting, nil
	default:
		return camera.ModeThirdPerson, fmt.Errorf("%w: %q", errCameraMode, name)
	}
}
