package states

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hullforge/internal/collider"
	"github.com/Faultbox/hullforge/internal/logger"
	"github.com/Faultbox/hullforge/internal/systems"
	"github.com/Faultbox/hullforge/internal/world"
)

// IntentFunc latches fire intent for a frame.
type IntentFunc func(frame uint64, w *world.World)

// RunningStats accumulates what the frame loop did.
type RunningStats struct {
	Frames    uint64
	Spawned   int // scene instances
	Attached  int // colliders attached
	Shots     int
	Expired   int
	Simulated time.Duration
}

// RunningState steps the world one frame per Update.
type RunningState struct {
	World   *world.World
	Spawner *systems.SceneSpawner
	Cache   *collider.Cache
	Fire    *systems.FireSystem
	Intent  IntentFunc

	pending []systems.Placement
	stats   RunningStats
}

// Name implements State.
func (s *RunningState) Name() string { return "running" }

// Queue schedules a scene instance for the next frame's instantiation phase.
func (s *RunningState) Queue(p systems.Placement) {
	s.pending = append(s.pending, p)
}

// Enter implements State.
func (s *RunningState) Enter() error {
	logger.Info("entering RunningState",
		zap.Int("placements", len(s.pending)),
		zap.Int("colliders", s.Cache.Len()),
	)
	return nil
}

// Exit implements State.
func (s *RunningState) Exit() error {
	return nil
}

// Update runs one frame. Phase order matters: instances get their colliders
// before the physics step, and projectiles exist before the next one.
func (s *RunningState) Update(dt time.Duration) error {
	// Instantiation.
	pending := s.pending
	s.pending = nil
	for _, p := range pending {
		if _, err := s.Spawner.Spawn(s.World, p); err != nil {
			return err
		}
		s.stats.Spawned++
	}

	s.stats.Attached += systems.AttachColliders(s.World, s.Cache)

	systems.Integrate(s.World, dt)

	if s.Intent != nil {
		s.Intent(s.World.Frame(), s.World)
	}
	s.stats.Shots += s.Fire.Run(s.World, dt)

	s.stats.Expired += systems.ExpireProjectiles(s.World, dt)

	s.World.EndFrame()
	s.stats.Frames++
	s.stats.Simulated += dt
	return nil
}

// Stats returns the accumulated frame statistics.
func (s *RunningState) Stats() RunningStats {
	return s.stats
}
