// Package main is the entry point for Meadow Run.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meadow-run/internal/config"
	"github.com/Faultbox/meadow-run/internal/game"
	"github.com/Faultbox/meadow-run/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Setup(cfg.Logging.Options()); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Meadow Run ===")
	if src := cfg.Source(); src != "" {
		logger.Info("config loaded", zap.String("path", src))
	} else {
		logger.Info("no config file found, using defaults")
	}
	logger.Sugar.Debugf("Config: %+v", *cfg)

	g, err := game.New(cfg)
	if err != nil {
		logger.Error("failed to create game", zap.Error(err))
		os.Exit(1)
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		logger.Error("game error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("game closed normally",
		zap.Int("frames", g.Frames()),
		zap.String("state", g.State()),
		zap.Int("collisions", g.World().Collisions))
}
