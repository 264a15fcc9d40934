package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/hullforge/internal/collider"
	"github.com/Faultbox/hullforge/internal/config"
	"github.com/Faultbox/hullforge/internal/scene"
	"github.com/Faultbox/hullforge/internal/world"
)

// sampleConfig points at the scenes shipped in the repository.
func sampleConfig() *config.Config {
	cfg := config.Default()
	cfg.Assets.BaseDir = filepath.Join("..", "..", "assets")
	cfg.Assets.Scenes = []string{
		"scenes/praetor.yaml",
		"scenes/zenith_station.yaml",
		"scenes/beacon.yaml",
	}
	cfg.Weapons.RateOfFire = 7
	cfg.Simulation.Frames = 120
	cfg.Simulation.FrameTimes = []time.Duration{16 * time.Millisecond}
	cfg.Simulation.FireFrames = []config.FrameRange{{From: 0, To: 60}}
	vel := [3]float32{0, 0, -10}
	cfg.World.Spawns = []config.SpawnConfig{
		{Scene: "scenes/zenith_station.yaml", Translation: [3]float32{0, 0, -200}},
		{Scene: "scenes/praetor.yaml", Name: "Praetor", Translation: [3]float32{5, 5, -20}, Velocity: &vel, Player: true},
		{Scene: "scenes/praetor.yaml", Name: "Infiltrator", Translation: [3]float32{-5, 5, -20}},
		{Scene: "scenes/beacon.yaml"},
	}
	return cfg
}

func TestRunSampleScenes(t *testing.T) {
	cfg := sampleConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := g.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	r := g.Report()
	if r.Synthesis.Colliders != 2 || r.Synthesis.Shapes != 4 || r.Synthesis.SkippedMeshes != 1 {
		t.Errorf("synthesis report = %+v", r.Synthesis)
	}
	if r.Running.Frames != 120 {
		t.Errorf("frames = %d", r.Running.Frames)
	}
	if r.Running.Spawned != 4 || r.Running.Attached != 3 {
		t.Errorf("spawned = %d, attached = %d", r.Running.Spawned, r.Running.Attached)
	}

	// Two player barrels at 7 shots/s, held for 60 frames of 16ms.
	if r.Running.Shots != 14 || r.Projectiles != 14 {
		t.Errorf("shots = %d, projectiles = %d, want 14", r.Running.Shots, r.Projectiles)
	}

	w := g.World()
	for _, p := range w.Projectiles.Entities() {
		tag, _ := w.Projectiles.Get(p)
		if !underPlayer(w, tag.Source) {
			t.Errorf("projectile %d fired by non-player mount %d", p, tag.Source)
		}
	}

	for _, sc := range g.Library().Scenes() {
		sc.Graph.Walk(func(n *scene.Node) bool {
			if n.Kind == scene.KindCollisionHull || (scene.IsHullName(n.Name) && !n.HasMesh()) {
				t.Errorf("%s still has hull node %q", sc.Path, n.Name)
			}
			return true
		})
	}
	if !g.Cache().Sealed() {
		t.Error("cache not sealed")
	}
}

func TestProjectilesCarryShipVelocity(t *testing.T) {
	cfg := sampleConfig()
	cfg.Simulation.Frames = 1

	g, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Run(); err != nil {
		t.Fatal(err)
	}

	w := g.World()
	if w.Projectiles.Len() != 2 {
		t.Fatalf("projectiles = %d, want 2", w.Projectiles.Len())
	}
	for _, p := range w.Projectiles.Entities() {
		v, _ := w.Velocities.Get(p)
		if v.Z > -109.9 || v.Z < -110.1 || v.X != 0 {
			t.Errorf("projectile velocity = %+v, want (0, 0, -110)", v)
		}
	}
}

func TestDegenerateHullPolicy(t *testing.T) {
	dir := t.TempDir()
	flat := `
name: floor
meshes:
  - name: plane
    attributes:
      POSITION:
        format: float32x3
        values: [[-1, 0, -1], [1, 0, -1], [1, 0, 1], [-1, 0, 1]]
nodes:
  - name: floor_hull
    children:
      - {name: plane, mesh: plane}
`
	if err := os.WriteFile(filepath.Join(dir, "floor.yaml"), []byte(flat), 0644); err != nil {
		t.Fatal(err)
	}

	newCfg := func(policy string) *config.Config {
		cfg := config.Default()
		cfg.Assets.BaseDir = dir
		cfg.Assets.Scenes = []string{"floor.yaml"}
		cfg.Synthesis.Degenerate = policy
		cfg.Simulation.Frames = 2
		return cfg
	}

	g, err := New(newCfg("abort"))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Run(); !errors.Is(err, collider.ErrDegenerateHull) {
		t.Errorf("abort: err = %v, want ErrDegenerateHull", err)
	}

	g, err = New(newCfg("skip"))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Run(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if r := g.Report(); r.Synthesis.SkippedDegenerate != 1 || r.Synthesis.Colliders != 0 {
		t.Errorf("skip report = %+v", r.Synthesis)
	}
}

func TestNewRejectsUnknownPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.Synthesis.Degenerate = "maybe"
	if _, err := New(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestRunWithoutScenes(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Frames = 3

	g, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if g.Running() {
		t.Error("running before the first step")
	}
	if err := g.Run(); err != nil {
		t.Fatal(err)
	}
	if r := g.Report(); r.Running.Frames != 3 || r.Entities != 0 {
		t.Errorf("report = %+v", r)
	}
}

func underPlayer(w *world.World, e world.Entity) bool {
	for cur := e; cur != world.NoEntity; cur = w.Parent(cur) {
		if w.Players.Has(cur) {
			return true
		}
	}
	return false
}
