// Package game wires assets, collider synthesis, the world and its systems
// into a headless frame loop.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hullforge/internal/assets"
	"github.com/Faultbox/hullforge/internal/collider"
	"github.com/Faultbox/hullforge/internal/config"
	"github.com/Faultbox/hullforge/internal/game/states"
	"github.com/Faultbox/hullforge/internal/logger"
	"github.com/Faultbox/hullforge/internal/systems"
	"github.com/Faultbox/hullforge/internal/world"
	"github.com/Faultbox/hullforge/pkg/math"
)

// Game is the simulation instance.
type Game struct {
	config *config.Config

	library     *assets.Library
	cache       *collider.Cache
	world       *world.World
	projectiles *systems.WorldProjectiles

	states  *states.Manager
	loading *states.LoadingState
	running *states.RunningState

	steps int
}

// Report summarizes a run.
type Report struct {
	Synthesis   collider.Report
	Running     states.RunningStats
	Entities    int
	Projectiles int
	Colliders   int
	CacheHits   int
	CacheMisses int
}

// New creates a simulation from a validated config.
func New(cfg *config.Config) (*Game, error) {
	policy, err := collider.ParsePolicy(cfg.Synthesis.Degenerate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	g := &Game{
		config:  cfg,
		library: assets.NewLibrary(cfg.Assets.BaseDir),
		cache:   collider.NewCache(),
		world:   world.New(),
		projectiles: &systems.WorldProjectiles{
			Radius:     cfg.Projectile.Radius,
			HalfLength: cfg.Projectile.HalfLength,
			Lifetime:   cfg.Projectile.Lifetime,
		},
		states: states.NewManager(),
	}

	g.running = &states.RunningState{
		World: g.world,
		Spawner: &systems.SceneSpawner{
			Scenes:      g.library,
			MountPrefix: cfg.Weapons.MountPrefix,
			Rate:        cfg.Weapons.RateOfFire,
		},
		Cache:  g.cache,
		Fire:   &systems.FireSystem{Speed: cfg.Projectile.Speed, Factory: g.projectiles},
		Intent: intent(cfg.Simulation),
	}
	for _, sp := range cfg.World.Spawns {
		g.running.Queue(placement(sp))
	}

	synth := &collider.Synthesizer{
		Cache:   g.cache,
		Meshes:  g.library,
		Policy:  policy,
		Workers: cfg.Synthesis.Workers,
	}
	g.loading = states.NewLoadingState(g.library, cfg.Assets.Scenes, synth, g.states, g.running)
	g.states.Change(g.loading)

	logger.Info("simulation initialized",
		zap.Int("scenes", len(cfg.Assets.Scenes)),
		zap.Int("spawns", len(cfg.World.Spawns)),
		zap.Stringer("degenerate", policy),
	)
	return g, nil
}

// Step advances the current state by dt.
func (g *Game) Step(dt time.Duration) error {
	g.steps++
	return g.states.Update(dt)
}

// Running reports whether loading has finished and frames are being
// simulated.
func (g *Game) Running() bool {
	return g.states.Current() == states.State(g.running)
}

// Run loads every asset and then simulates the configured number of frames,
// cycling through the configured frame times. At least one frame runs once
// loading completes.
func (g *Game) Run() error {
	sim := g.config.Simulation
	logger.Info("starting simulation", zap.Int("frames", sim.Frames))

	start := time.Now()
	for !g.Running() || g.running.Stats().Frames < uint64(sim.Frames) {
		dt := sim.FrameTime(g.steps)
		if err := g.Step(dt); err != nil {
			return fmt.Errorf("step %d (%s): %w", g.steps, g.stateName(), err)
		}
	}

	logger.Debug("simulation finished",
		zap.Int("steps", g.steps),
		zap.Duration("wall", time.Since(start)),
	)
	return nil
}

// Report returns run statistics.
func (g *Game) Report() Report {
	hits, misses := g.cache.Stats()
	return Report{
		Synthesis:   g.loading.Report,
		Running:     g.running.Stats(),
		Entities:    g.world.Len(),
		Projectiles: g.world.Projectiles.Len(),
		Colliders:   g.world.Colliders.Len(),
		CacheHits:   hits,
		CacheMisses: misses,
	}
}

// World returns the simulated world.
func (g *Game) World() *world.World {
	return g.world
}

// Cache returns the collider cache.
func (g *Game) Cache() *collider.Cache {
	return g.cache
}

// Library returns the asset library.
func (g *Game) Library() *assets.Library {
	return g.library
}

func (g *Game) stateName() string {
	if cur := g.states.Current(); cur != nil {
		return cur.Name()
	}
	return "none"
}

func intent(sim config.SimulationConfig) states.IntentFunc {
	return func(frame uint64, w *world.World) {
		if !sim.Firing(int(frame)) {
			return
		}
		if sim.FireTarget == "all" {
			systems.FireAll(w)
			return
		}
		systems.FirePlayer(w)
	}
}

func placement(sp config.SpawnConfig) systems.Placement {
	t := math.TransformFromTranslation(math.Vec3FromArray(sp.Translation))
	if sp.Rotation != nil {
		r := *sp.Rotation
		t.Rotation = math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}.Normalize()
	}

	p := systems.Placement{
		Asset:     assets.IDFromPath(sp.Scene),
		Name:      sp.Name,
		Transform: t,
		Player:    sp.Player,
		Rate:      sp.RateOfFire,
	}
	if sp.Velocity != nil {
		v := math.Vec3FromArray(*sp.Velocity)
		p.Velocity = &v
	}
	return p
}
