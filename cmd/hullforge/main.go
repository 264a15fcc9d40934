// Package main is the entry point for the headless hullforge simulation.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/hullforge/internal/config"
	"github.com/Faultbox/hullforge/internal/game"
	"github.com/Faultbox/hullforge/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== hullforge ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	g, err := game.New(cfg)
	if err != nil {
		logger.Error("failed to create simulation", zap.Error(err))
		os.Exit(1)
	}

	if err := g.Run(); err != nil {
		logger.Error("simulation error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	r := g.Report()
	logger.Info("simulation complete",
		zap.Uint64("frames", r.Running.Frames),
		zap.Duration("simulated", r.Running.Simulated),
		zap.Int("colliders_cached", r.Synthesis.Colliders),
		zap.Int("hull_shapes", r.Synthesis.Shapes),
		zap.Int("instances", r.Running.Spawned),
		zap.Int("colliders_attached", r.Running.Attached),
		zap.Int("shots", r.Running.Shots),
		zap.Int("expired", r.Running.Expired),
		zap.Int("projectiles_alive", r.Projectiles),
		zap.Int("entities", r.Entities),
	)
}
