// Package config handles game configuration loading and management.
package config

import (
	"fmt"
	"strings"

	"github.com/Faultbox/meadow-run/internal/engine/lighting"
	"github.com/Faultbox/meadow-run/internal/engine/terrain"
	"github.com/Faultbox/meadow-run/internal/logger"
	"github.com/Faultbox/meadow-run/pkg/math"
)

// Config holds all game settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Audio    AudioConfig    `yaml:"audio"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Gameplay GameplayConfig `yaml:"gameplay"`
	Assets   AssetsConfig   `yaml:"assets"`
	Run      RunConfig      `yaml:"run"`
	Logging  LoggingConfig  `yaml:"logging"`

	source string
}

// Source returns the file the config was read from, or "" for defaults.
func (c *Config) Source() string {
	return c.source
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Fullscreen bool         `yaml:"fullscreen"`
	VSync      bool         `yaml:"vsync"`
	FPSLimit   int          `yaml:"fps_limit"`
	Samples    int          `yaml:"samples"`
	Shadows    int32        `yaml:"shadow_resolution"`
	Camera     string       `yaml:"camera"` // first-person, third-person, static
	FOV        float32      `yaml:"fov"`    // vertical, degrees
	Sun        lighting.Sun `yaml:"sun"`
	Screenshot string       `yaml:"screenshot_dir"`
}

// AudioConfig holds mixer levels and sound file paths. Empty paths
// disable the sound.
type AudioConfig struct {
	MasterVolume float64 `yaml:"master_volume"`
	MusicVolume  float64 `yaml:"music_volume"`
	SFXVolume    float64 `yaml:"sfx_volume"`
	Muted        bool    `yaml:"muted"`
	Music        string  `yaml:"music"`
	HitCue       string  `yaml:"hit_cue"`
	GameOverCue  string  `yaml:"gameover_cue"`
}

// TerrainConfig controls the tile ring.
type TerrainConfig struct {
	NumTiles    int     `yaml:"num_tiles"`
	TileLength  float32 `yaml:"tile_length"`
	TilesBehind int     `yaml:"tiles_behind"`
	// Direction is the sign of travel along Z.
	Direction float32 `yaml:"direction"`
	LevelFile string  `yaml:"level_file"`
	// Seed 0 picks a time based seed at startup.
	Seed  uint64              `yaml:"seed"`
	Grass terrain.GrassLayout `yaml:"grass"`
}

// GameplayConfig holds runner and chaser tuning.
type GameplayConfig struct {
	PlayerStart         math.Vec3 `yaml:"player_start"`
	PlayerScale         float32   `yaml:"player_scale"`
	PlayerSpeed         float32   `yaml:"player_speed"`
	PlayerRadius        float32   `yaml:"player_radius"`
	MaxCollisions       int       `yaml:"max_collisions"`
	LaneOffset          float32   `yaml:"lane_offset"`
	LaneTransitionSpeed float32   `yaml:"lane_transition_speed"`
	AnimRate            float32   `yaml:"anim_rate"`

	ChaserStart     math.Vec3 `yaml:"chaser_start"`
	ChaserScale     float32   `yaml:"chaser_scale"`
	ChaserSpeed     float32   `yaml:"chaser_speed"`
	ChaserWalkSpeed float32   `yaml:"chaser_walk_speed"`
	ChaserGap       float32   `yaml:"chaser_gap"`
	GrabDistance    float32   `yaml:"grab_distance"`
}

// AssetsConfig names the animation assets. An empty path uses the
// built-in procedural rig.
type AssetsConfig struct {
	Player   string `yaml:"player"`
	Chaser   string `yaml:"chaser"`
	Obstacle string `yaml:"obstacle"`
	// Coord is the asset up-axis convention: "y-up" or "z-up".
	Coord string `yaml:"coord"`
	// RigScale multiplies skinned models at draw time.
	RigScale float32 `yaml:"rig_scale"`
}

// RunConfig controls the frame loop.
type RunConfig struct {
	Headless bool `yaml:"headless"`
	// Frames stops the loop after this many frames; 0 runs until quit.
	Frames int `yaml:"frames"`
	// FixedStep is the simulated frame time in headless mode, seconds.
	FixedStep float32 `yaml:"fixed_step"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	// FileFormat is "console" or "json".
	FileFormat string `yaml:"file_format"`
	// Components raises the level of individual loggers, e.g. terrain: warn.
	Components map[string]string `yaml:"components"`
}

// Options converts the settings for logger.Setup.
func (l LoggingConfig) Options() logger.Options {
	opts := logger.Options{
		Level:      l.Level,
		Console:    true,
		FileFormat: l.FileFormat,
		Components: l.Components,
	}
	if l.LogFile != "" {
		opts.File = logger.DefaultFileConfig(l.LogFile)
	}
	return opts
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Samples:    4,
			Shadows:    2048,
			Camera:     "third-person",
			FOV:        60,
			Sun:        lighting.DefaultSun(),
			Screenshot: "screenshots",
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			MusicVolume:  0.7,
			SFXVolume:    0.8,
			Music:        "assets/audio/bgm.wav",
			HitCue:       "assets/audio/hit.wav",
			GameOverCue:  "assets/audio/gameover.wav",
		},
		Terrain: TerrainConfig{
			NumTiles:    10,
			TileLength:  35,
			TilesBehind: 2,
			Direction:   -1,
			LevelFile:   "level.txt",
			Grass:       terrain.DefaultGrassLayout(),
		},
		Gameplay: GameplayConfig{
			PlayerStart:         math.Vec3{Z: -2},
			PlayerScale:         0.1,
			PlayerSpeed:         10,
			PlayerRadius:        5.5,
			MaxCollisions:       2,
			LaneOffset:          3.5,
			LaneTransitionSpeed: 8,
			AnimRate:            0.5,
			ChaserStart:         math.Vec3{Z: 15},
			ChaserScale:         0.1,
			ChaserSpeed:         10,
			ChaserWalkSpeed:     5,
			ChaserGap:           5,
			GrabDistance:        0.1,
		},
		Assets: AssetsConfig{
			Coord:    "y-up",
			RigScale: 25,
		},
		Run: RunConfig{
			FixedStep: 1.0 / 60,
		},
		Logging: LoggingConfig{
			Level:      "info",
			FileFormat: logger.FormatConsole,
		},
	}
}

// Validate reports settings the game cannot start with.
func (c *Config) Validate() error {
	var problems []string
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		problems = append(problems, fmt.Sprintf("graphics size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.Shadows < 0 {
		problems = append(problems, fmt.Sprintf("shadow_resolution %d", c.Graphics.Shadows))
	}
	if _, err := ParseCoord(c.Assets.Coord); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Gameplay.MaxCollisions < 1 {
		problems = append(problems, fmt.Sprintf("max_collisions %d", c.Gameplay.MaxCollisions))
	}
	if c.Gameplay.AnimRate <= 0 {
		problems = append(problems, fmt.Sprintf("anim_rate %v", c.Gameplay.AnimRate))
	}
	if c.Run.Frames < 0 {
		problems = append(problems, fmt.Sprintf("frames %d", c.Run.Frames))
	}
	if c.Run.Headless && c.Run.FixedStep <= 0 {
		problems = append(problems, fmt.Sprintf("fixed_step %v", c.Run.FixedStep))
	}
	if _, err := c.Terrain.Manager(nil); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		problems = append(problems, fmt.Sprintf("logging level %q", c.Logging.Level))
	}
	for name, lvl := range c.Logging.Components {
		if _, err := logger.ParseLevel(lvl); err != nil {
			problems = append(problems, fmt.Sprintf("logging component %s level %q", name, lvl))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ParseCoord maps an up-axis name to the coordinate correction matrix.
func ParseCoord(name string) (math.Mat4, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "y-up", "identity":
		return math.Identity(), nil
	case "z-up":
		return math.AxisSwapZUp(), nil
	default:
		return math.Identity(), fmt.Errorf("unknown coordinate convention %q", name)
	}
}

// Manager builds the terrain manager settings for a set of level tiles.
func (t TerrainConfig) Manager(levels []terrain.TileConfig) (terrain.Config, error) {
	cfg := terrain.Config{
		NumTiles:      t.NumTiles,
		TileLength:    t.TileLength,
		TilesBehind:   t.TilesBehind,
		Direction:     t.Direction,
		Seed:          t.Seed,
		Grass:         t.Grass,
		Levels:        levels,
		ObstacleCoord: math.Identity(),
	}
	return cfg, cfg.Validate()
}
