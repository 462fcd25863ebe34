package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/meadow-run/pkg/math"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Terrain.NumTiles != 10 {
		t.Errorf("expected 10 tiles, got %d", cfg.Terrain.NumTiles)
	}
	if cfg.Terrain.TileLength != 35 {
		t.Errorf("expected tile length 35, got %v", cfg.Terrain.TileLength)
	}
	if cfg.Terrain.TilesBehind != 2 {
		t.Errorf("expected 2 tiles behind, got %d", cfg.Terrain.TilesBehind)
	}
	if cfg.Terrain.LevelFile != "level.txt" {
		t.Errorf("expected level.txt, got %s", cfg.Terrain.LevelFile)
	}

	g := cfg.Gameplay
	if g.PlayerRadius != 5.5 {
		t.Errorf("expected player radius 5.5, got %v", g.PlayerRadius)
	}
	if g.MaxCollisions != 2 {
		t.Errorf("expected 2 collisions, got %d", g.MaxCollisions)
	}
	if g.AnimRate != 0.5 {
		t.Errorf("expected anim rate 0.5, got %v", g.AnimRate)
	}
	if g.PlayerStart != (math.Vec3{Z: -2}) || g.ChaserStart != (math.Vec3{Z: 15}) {
		t.Errorf("unexpected start positions %+v / %+v", g.PlayerStart, g.ChaserStart)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  camera: static
  sun:
    azimuth: 90
    elevation: 30

audio:
  master_volume: 0.5
  muted: true
  music: ""

terrain:
  num_tiles: 6
  tile_length: 20
  seed: 42
  grass:
    types: 3

gameplay:
  max_collisions: 3
  player_start: {x: 1, y: 0, z: -4}

assets:
  player: assets/runner.yaml
  coord: z-up

logging:
  level: "debug"
  log_file: "game.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || !cfg.Graphics.Fullscreen {
		t.Errorf("graphics not loaded: %+v", cfg.Graphics)
	}
	if cfg.Graphics.Camera != "static" {
		t.Errorf("expected static camera, got %s", cfg.Graphics.Camera)
	}
	if cfg.Graphics.Sun.Azimuth != 90 || cfg.Graphics.Sun.Elevation != 30 {
		t.Errorf("sun not loaded: %+v", cfg.Graphics.Sun)
	}
	// Unset sun fields keep their defaults.
	if cfg.Graphics.Sun.Color.X == 0 {
		t.Error("sun colour should keep its default")
	}

	if cfg.Audio.MasterVolume != 0.5 || !cfg.Audio.Muted || cfg.Audio.Music != "" {
		t.Errorf("audio not loaded: %+v", cfg.Audio)
	}

	if cfg.Terrain.NumTiles != 6 || cfg.Terrain.TileLength != 20 || cfg.Terrain.Seed != 42 {
		t.Errorf("terrain not loaded: %+v", cfg.Terrain)
	}
	if cfg.Terrain.Grass.Types != 3 {
		t.Errorf("expected 3 grass types, got %d", cfg.Terrain.Grass.Types)
	}
	if len(cfg.Terrain.Grass.Bands) == 0 {
		t.Error("grass bands should keep their defaults")
	}

	if cfg.Gameplay.MaxCollisions != 3 {
		t.Errorf("expected 3 collisions, got %d", cfg.Gameplay.MaxCollisions)
	}
	if cfg.Gameplay.PlayerStart != (math.Vec3{X: 1, Z: -4}) {
		t.Errorf("player start = %+v", cfg.Gameplay.PlayerStart)
	}

	if cfg.Assets.Player != "assets/runner.yaml" || cfg.Assets.Coord != "z-up" {
		t.Errorf("assets not loaded: %+v", cfg.Assets)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "game.log" {
		t.Errorf("logging not loaded: %+v", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "graphics size"},
		{"shadows", func(c *Config) { c.Graphics.Shadows = -1 }, "shadow_resolution"},
		{"bad coord", func(c *Config) { c.Assets.Coord = "x-up" }, "coordinate convention"},
		{"no collisions", func(c *Config) { c.Gameplay.MaxCollisions = 0 }, "max_collisions"},
		{"anim rate", func(c *Config) { c.Gameplay.AnimRate = 0 }, "anim_rate"},
		{"negative frames", func(c *Config) { c.Run.Frames = -1 }, "frames"},
		{"headless step", func(c *Config) { c.Run.Headless = true; c.Run.FixedStep = 0 }, "fixed_step"},
		{"tiles behind", func(c *Config) { c.Terrain.TilesBehind = 10 }, "tiles behind"},
		{"direction", func(c *Config) { c.Terrain.Direction = 0 }, "direction"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging level"},
		{"component level", func(c *Config) { c.Logging.Components = map[string]string{"terrain": "chatty"} }, "logging component terrain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseCoord(t *testing.T) {
	tests := []struct {
		name    string
		want    math.Mat4
		wantErr bool
	}{
		{"", math.Identity(), false},
		{"y-up", math.Identity(), false},
		{"Z-UP", math.AxisSwapZUp(), false},
		{"sideways", math.Identity(), true},
	}

	for _, tt := range tests {
		got, err := ParseCoord(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCoord(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseCoord(%q) = %v", tt.name, got)
		}
	}
}

func TestTerrainManagerConfig(t *testing.T) {
	cfg := Default()
	cfg.Terrain.Seed = 5

	mc, err := cfg.Terrain.Manager(nil)
	if err != nil {
		t.Fatalf("Manager: %v", err)
	}
	if mc.NumTiles != 10 || mc.TileLength != 35 || mc.Direction != -1 || mc.Seed != 5 {
		t.Errorf("unexpected manager config %+v", mc)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./config.yaml" {
		t.Errorf("expected ./config.yaml, got %q", path)
	}

	// The game-named file wins over the generic one.
	if err := os.WriteFile(filepath.Join(tmpDir, "meadow-run.yaml"), []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if path := findConfigFile(); path != "./meadow-run.yaml" {
		t.Errorf("expected ./meadow-run.yaml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { cli.debug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { cli.debug = false },
		},
		{
			name: "headless run",
			setup: func() {
				cli.headless = true
				cli.frames = 600
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Run.Headless || cfg.Run.Frames != 600 {
					t.Errorf("run = %+v", cfg.Run)
				}
			},
			teardown: func() {
				cli.headless = false
				cli.frames = 0
			},
		},
		{
			name: "seed and level",
			setup: func() {
				cli.seed = 1234
				cli.level = "custom.txt"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.Seed != 1234 || cfg.Terrain.LevelFile != "custom.txt" {
					t.Errorf("terrain = %+v", cfg.Terrain)
				}
			},
			teardown: func() {
				cli.seed = 0
				cli.level = ""
			},
		},
		{
			name:  "fullscreen flag",
			setup: func() { cli.fullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { cli.fullscreen = false },
		},
		{
			name: "windowed flag",
			setup: func() {
				cli.windowed = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { cli.windowed = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				cli.width = 2560
				cli.height = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				cli.width = 0
				cli.height = 0
			},
		},
		{
			name: "presentation flags",
			setup: func() {
				cli.camera = "orbiting"
				cli.mute = true
				cli.fpsLimit = 30
				cli.logFile = "run.log"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Camera != "orbiting" || cfg.Graphics.FPSLimit != 30 {
					t.Errorf("graphics = %+v", cfg.Graphics)
				}
				if !cfg.Audio.Muted {
					t.Error("expected muted audio")
				}
				if cfg.Logging.LogFile != "run.log" {
					t.Errorf("log file = %q", cfg.Logging.LogFile)
				}
			},
			teardown: func() {
				cli.camera = ""
				cli.mute = false
				cli.fpsLimit = 0
				cli.logFile = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			cli.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cli.config = configPath
	cli.width = 1920
	defer func() {
		cli.config = ""
		cli.width = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("assets:\n  coord: upside-down\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cli.config = configPath
	defer func() { cli.config = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected invalid config error")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Terrain.Seed = 77
	cfg.Gameplay.LaneOffset = 4
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Terrain.Seed != 77 || loaded.Gameplay.LaneOffset != 4 {
		t.Errorf("round trip lost values: %+v %+v", loaded.Terrain, loaded.Gameplay)
	}
	if len(loaded.Terrain.Grass.Bands) != len(cfg.Terrain.Grass.Bands) {
		t.Errorf("grass bands = %d, want %d", len(loaded.Terrain.Grass.Bands), len(cfg.Terrain.Grass.Bands))
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("terrain:\n  num_tile: 6\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := loadFromFile(Default(), path)
	if err == nil {
		t.Fatal("expected unknown key error")
	}
	if !strings.Contains(err.Error(), "num_tile") {
		t.Errorf("error %q does not name the key", err)
	}
}

func TestLoadFromEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Graphics.Width != Default().Graphics.Width {
		t.Errorf("width = %d, want default", cfg.Graphics.Width)
	}
	if cfg.Source() != path {
		t.Errorf("Source() = %q, want %q", cfg.Source(), path)
	}
}

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Source() != "" {
		t.Errorf("Source() = %q, want empty", cfg.Source())
	}
}

func TestLoadEnvConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(path, []byte("terrain:\n  seed: 99\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Terrain.Seed != 99 || cfg.Source() != path {
		t.Errorf("seed %d from %q, want 99 from %q", cfg.Terrain.Seed, cfg.Source(), path)
	}

	// -config wins over the environment.
	other := filepath.Join(t.TempDir(), "flag.yaml")
	if err := os.WriteFile(other, []byte("terrain:\n  seed: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cli.config = other
	defer func() { cli.config = "" }()

	if cfg, err = Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Terrain.Seed != 7 {
		t.Errorf("seed = %d, want 7 from -config", cfg.Terrain.Seed)
	}
}

func TestSaveToWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Default().SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Meadow Run configuration") {
		t.Errorf("missing header: %q", data[:40])
	}
	if !strings.Contains(string(data), "\n  width: 1280\n") {
		t.Error("expected two-space indentation")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only config.yaml, found %d entries", len(entries))
	}
}

func TestLoggingOptions(t *testing.T) {
	l := LoggingConfig{
		Level:      "debug",
		LogFile:    "run.log",
		FileFormat: "json",
		Components: map[string]string{"terrain": "warn"},
	}
	opts := l.Options()
	if !opts.Console || opts.Level != "debug" || opts.FileFormat != "json" {
		t.Errorf("options = %+v", opts)
	}
	if opts.File.Path != "run.log" || opts.File.MaxSizeMB == 0 {
		t.Errorf("file = %+v", opts.File)
	}
	if opts.Components["terrain"] != "warn" {
		t.Errorf("components = %v", opts.Components)
	}

	if opts := (LoggingConfig{Level: "info"}).Options(); opts.File.Path != "" {
		t.Errorf("expected no file output, got %+v", opts.File)
	}
}
