package config

import "flag"

// overrides are the command-line settings that win over the config file.
// Zero values leave the file's value alone.
type overrides struct {
	config     string
	debug      bool
	headless   bool
	frames     int
	seed       uint64
	level      string
	camera     string
	mute       bool
	windowed   bool
	fullscreen bool
	width      int
	height     int
	fpsLimit   int
	logFile    string
}

var cli = newOverrides(flag.CommandLine)

func newOverrides(fs *flag.FlagSet) *overrides {
	o := &overrides{}
	fs.StringVar(&o.config, "config", "", "Path to config file (or $"+EnvConfig+")")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&o.headless, "headless", false, "Run without a window, audio or GPU")
	fs.IntVar(&o.frames, "frames", 0, "Stop after this many frames (0 runs until quit)")
	fs.Uint64Var(&o.seed, "seed", 0, "Terrain seed (0 keeps the configured seed)")
	fs.StringVar(&o.level, "level", "", "Level file with one tile per line")
	fs.StringVar(&o.camera, "camera", "", "Camera mode: third-person, first-person, static or orbiting")
	fs.BoolVar(&o.mute, "mute", false, "Start with audio muted")
	fs.BoolVar(&o.windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&o.fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&o.width, "width", 0, "Window width")
	fs.IntVar(&o.height, "height", 0, "Window height")
	fs.IntVar(&o.fpsLimit, "fps", 0, "Frame rate cap (0 keeps the configured cap)")
	fs.StringVar(&o.logFile, "log-file", "", "Also write logs to this file")
	return o
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the config path given with -config.
func ConfigPath() string {
	return cli.config
}

func (o *overrides) apply(cfg *Config) {
	if o.debug {
		cfg.Logging.Level = "debug"
	}
	if o.logFile != "" {
		cfg.Logging.LogFile = o.logFile
	}
	if o.headless {
		cfg.Run.Headless = true
	}
	if o.frames > 0 {
		cfg.Run.Frames = o.frames
	}
	if o.seed != 0 {
		cfg.Terrain.Seed = o.seed
	}
	if o.level != "" {
		cfg.Terrain.LevelFile = o.level
	}
	if o.camera != "" {
		cfg.Graphics.Camera = o.camera
	}
	if o.mute {
		cfg.Audio.Muted = true
	}
	if o.windowed {
		cfg.Graphics.Fullscreen = false
	}
	if o.fullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if o.width > 0 {
		cfg.Graphics.Width = o.width
	}
	if o.height > 0 {
		cfg.Graphics.Height = o.height
	}
	if o.fpsLimit > 0 {
		cfg.Graphics.FPSLimit = o.fpsLimit
	}
}
