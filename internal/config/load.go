package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file when no -config flag is given.
const EnvConfig = "MEADOW_RUN_CONFIG"

// Load builds the configuration from defaults, then the config file, then
// command-line flags, and validates the result. The file comes from
// -config, else $MEADOW_RUN_CONFIG, else the first file found in the
// search path.
func Load() (*Config, error) {
	path := ConfigPath()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = findConfigFile()
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	cli.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads path over the defaults without flags or validation. An
// empty path returns the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	cfg.source = path
	return cfg, nil
}

// findConfigFile returns the first existing file of the search path.
func findConfigFile() string {
	for _, path := range searchPath() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func searchPath() []string {
	return []string{
		"./meadow-run.yaml",
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
}

// ConfigDir returns the per-user config directory.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "MeadowRun")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "MeadowRun")
		}
		return filepath.Join(home, "AppData", "Roaming", "MeadowRun")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "meadow-run")
	}
	return filepath.Join(home, ".config", "meadow-run")
}

// loadFromFile merges a YAML file over cfg. Keys the config does not know
// are errors so typos do not silently fall back to defaults. An empty
// file changes nothing.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
