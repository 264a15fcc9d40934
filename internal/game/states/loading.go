package states

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hullforge/internal/assets"
	"github.com/Faultbox/hullforge/internal/collider"
	"github.com/Faultbox/hullforge/internal/logger"
)

// LoadingState loads one scene asset per frame. Leaving it runs the collider
// synthesis pass, so no later state ever sees a hull node or an unsealed
// cache.
type LoadingState struct {
	library *assets.Library
	loader  *assets.Loader
	synth   *collider.Synthesizer
	manager *Manager
	next    State

	// Report is filled in by Exit.
	Report collider.Report

	startTime time.Time
}

// NewLoadingState creates a loading state that hands over to next.
func NewLoadingState(lib *assets.Library, paths []string, synth *collider.Synthesizer, manager *Manager, next State) *LoadingState {
	return &LoadingState{
		library: lib,
		loader:  assets.NewLoader(lib, paths),
		synth:   synth,
		manager: manager,
		next:    next,
	}
}

// Name implements State.
func (s *LoadingState) Name() string { return "loading" }

// Enter implements State.
func (s *LoadingState) Enter() error {
	s.startTime = time.Now()
	logger.Info("entering LoadingState")
	return nil
}

// Update loads the next scene, or requests the transition once all are in.
func (s *LoadingState) Update(dt time.Duration) error {
	if s.loader.Done() {
		s.manager.Change(s.next)
		return nil
	}
	if err := s.loader.Step(); err != nil {
		return fmt.Errorf("loading assets: %w", err)
	}
	logger.Debug("loading progress", zap.Float32("progress", s.loader.Progress()))
	return nil
}

// Exit runs collider synthesis over every loaded scene.
func (s *LoadingState) Exit() error {
	rep, err := s.synth.Run(context.Background(), s.library.Scenes())
	if err != nil {
		return fmt.Errorf("collider synthesis: %w", err)
	}
	s.Report = rep
	logger.Info("assets loaded",
		zap.Int("scenes", len(s.library.Scenes())),
		zap.Int("meshes", s.library.MeshCount()),
		zap.Duration("elapsed", time.Since(s.startTime)),
	)
	return nil
}

// Progress returns the loaded fraction in [0, 1].
func (s *LoadingState) Progress() float32 {
	return s.loader.Progress()
}
