package systems

import (
	gomath "math"
	"testing"
	"time"

	"github.com/Faultbox/hullforge/internal/assets"
	"github.com/Faultbox/hullforge/internal/collider"
	"github.com/Faultbox/hullforge/internal/scene"
	"github.com/Faultbox/hullforge/internal/weapon"
	"github.com/Faultbox/hullforge/internal/world"
	"github.com/Faultbox/hullforge/pkg/math"
)

func approx(a, b math.Vec3) bool {
	return a.Distance(b) < 1e-3
}

// shipScene registers a scene with a visible hull mesh, two mounts (one of
// them mesh-bearing and therefore not a weapon) and a cockpit.
func shipScene(t *testing.T, lib *assets.Library, path string) *assets.Scene {
	t.Helper()
	g := scene.NewGraph()
	id := math.TransformIdentity()
	mesh := lib.AddMesh(&scene.Mesh{Name: "visual"})

	add := func(parent scene.NodeID, name string, tr math.Transform, withMesh bool) scene.NodeID {
		n, err := g.Add(parent, name, tr)
		if err != nil {
			t.Fatal(err)
		}
		if withMesh {
			if err := g.SetMesh(n, mesh); err != nil {
				t.Fatal(err)
			}
		}
		return n
	}
	body := add(scene.NoNode, "body", id, true)
	add(body, "barrel.left", math.TransformFromTranslation(math.Vec3{X: -1, Z: -2}), false)
	add(body, "barrel.decal", id, true)
	add(body, "cockpit", id, true)

	sc, err := lib.AddScene(path, "ship", g)
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func cube() *collider.ConvexHull {
	var pts []math.Vec3
	for _, x := range []float32{-1, 1} {
		for _, y := range []float32{-1, 1} {
			for _, z := range []float32{-1, 1} {
				pts = append(pts, math.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	h, err := collider.NewConvexHull(pts)
	if err != nil {
		panic(err)
	}
	return h
}

func TestSceneSpawner(t *testing.T) {
	lib := assets.NewLibrary("")
	sc := shipScene(t, lib, "ship.yaml")
	w := world.New()
	s := &SceneSpawner{Scenes: lib, MountPrefix: "barrel.", Rate: weapon.DefaultRate}

	root, err := s.Spawn(w, Placement{Asset: sc.ID, Transform: math.TransformFromTranslation(math.Vec3{Y: 5})})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	if w.Len() != 5 {
		t.Errorf("entities = %d, want root plus 4 nodes", w.Len())
	}
	if name, _ := w.Names.Get(root); name != "ship" {
		t.Errorf("root name = %q", name)
	}
	if w.Weapons.Len() != 1 {
		t.Fatalf("weapons = %d, want 1", w.Weapons.Len())
	}
	mount := w.Weapons.Entities()[0]
	if name, _ := w.Names.Get(mount); name != "barrel.left" {
		t.Errorf("mount name = %q", name)
	}
	if got := w.WorldPosition(mount); !approx(got, math.Vec3{X: -1, Y: 5, Z: -2}) {
		t.Errorf("mount position = %+v", got)
	}
	if changed := w.Scenes.Changed(); len(changed) != 1 || changed[0] != root {
		t.Errorf("changed = %v", changed)
	}

	if _, err := s.Spawn(w, Placement{Asset: assets.IDFromPath("missing.yaml")}); err == nil {
		t.Error("spawning an unknown asset succeeded")
	}
}

func TestSceneSpawnerRateOverride(t *testing.T) {
	lib := assets.NewLibrary("")
	sc := shipScene(t, lib, "ship.yaml")
	w := world.New()
	s := &SceneSpawner{Scenes: lib, MountPrefix: "barrel.", Rate: weapon.DefaultRate}

	if _, err := s.Spawn(w, Placement{Asset: sc.ID, Rate: 4}); err != nil {
		t.Fatal(err)
	}
	wpn, _ := w.Weapons.Get(w.Weapons.Entities()[0])
	if wpn.Interval() != 250*time.Millisecond {
		t.Errorf("Interval = %v", wpn.Interval())
	}
}

func TestAttachColliders(t *testing.T) {
	lib := assets.NewLibrary("")
	ship := shipScene(t, lib, "ship.yaml")
	plain := shipScene(t, lib, "plain.yaml")

	cache := collider.NewCache()
	cached := collider.NewCompound([]collider.Shape{cube()})
	if err := cache.Insert(ship.ID, cached); err != nil {
		t.Fatal(err)
	}
	cache.Seal()

	w := world.New()
	s := &SceneSpawner{Scenes: lib, MountPrefix: "barrel.", Rate: weapon.DefaultRate}
	a, _ := s.Spawn(w, Placement{Asset: ship.ID})
	b, _ := s.Spawn(w, Placement{Asset: ship.ID})
	c, _ := s.Spawn(w, Placement{Asset: plain.ID})

	if n := AttachColliders(w, cache); n != 2 {
		t.Fatalf("attached = %d, want 2", n)
	}
	if w.Colliders.Has(c) {
		t.Error("asset without hulls got a collider")
	}

	sa, _ := w.Colliders.Get(a)
	sb, _ := w.Colliders.Get(b)
	ca, cb := sa.(*collider.Compound), sb.(*collider.Compound)
	if ca == cb || ca == cached {
		t.Fatal("instances share a collider")
	}
	ca.Parts[0].Shape.(*collider.ConvexHull).Vertices[0] = math.Vec3{X: 99}
	if cb.Parts[0].Shape.(*collider.ConvexHull).Vertices[0].X == 99 ||
		cached.Parts[0].Shape.(*collider.ConvexHull).Vertices[0].X == 99 {
		t.Error("mutating one instance leaked into another")
	}

	// Nothing changed in the next frame.
	w.EndFrame()
	if n := AttachColliders(w, cache); n != 0 {
		t.Errorf("attached %d on a quiet frame", n)
	}
}

func TestFireSystemInheritsVelocity(t *testing.T) {
	w := world.New()
	const v, speed = 7, 100

	carrier := w.Spawn("carrier", math.Transform{
		Rotation: math.QuatFromAxisAngle(math.Vec3Y, gomath.Pi),
		Scale:    math.Vec3One,
	})
	w.Velocities.Set(carrier, math.Vec3{X: v})
	barrel := w.Spawn("barrel.main", math.TransformIdentity())
	if err := w.SetParent(barrel, carrier); err != nil {
		t.Fatal(err)
	}
	wpn, _ := weapon.New(weapon.DefaultRate)
	w.Weapons.Set(barrel, wpn)

	factory := NewWorldProjectiles()
	fs := &FireSystem{Speed: speed, Factory: factory}

	FireAll(w)
	if n := fs.Run(w, 16*time.Millisecond); n != 1 {
		t.Fatalf("fired = %d, want 1", n)
	}
	if w.Projectiles.Len() != 1 {
		t.Fatalf("projectiles = %d", w.Projectiles.Len())
	}
	p := w.Projectiles.Entities()[0]

	vel, _ := w.Velocities.Get(p)
	if !approx(vel, math.Vec3{X: v, Y: 0, Z: speed}) {
		t.Errorf("velocity = %+v, want (%d, 0, %d)", vel, v, speed)
	}

	tr, _ := w.Transforms.Get(p)
	if got := tr.Rotation.Rotate(math.Vec3Y); !approx(got, math.Vec3Z) {
		t.Errorf("capsule axis = %+v, want +Z", got)
	}
	shape, _ := w.Colliders.Get(p)
	if c, ok := shape.(*collider.Capsule); !ok || c.Radius != 0.1 || c.HalfLength != 0.8 {
		t.Errorf("collider = %#v", shape)
	}
	if tag, _ := w.Projectiles.Get(p); !tag.Sensor || tag.Source != barrel {
		t.Errorf("projectile tag = %+v", tag)
	}
	if life, _ := w.Lifetimes.Get(p); life != 10*time.Second {
		t.Errorf("lifetime = %v", life)
	}

	// The latch was consumed.
	if n := fs.Run(w, time.Second); n != 0 {
		t.Errorf("fired %d without a new latch", n)
	}
}

func TestFireSystemCatchUpSpreadsShots(t *testing.T) {
	w := world.New()
	barrel := w.Spawn("barrel", math.TransformIdentity())
	wpn, _ := weapon.NewWithInterval(100 * time.Millisecond)
	w.Weapons.Set(barrel, wpn)

	fs := &FireSystem{Speed: 10, Factory: NewWorldProjectiles()}
	FireAll(w)
	fs.Run(w, 16*time.Millisecond)
	FireAll(w)
	fs.Run(w, 50*time.Millisecond)
	for _, p := range w.Projectiles.Entities() {
		w.Despawn(p)
	}

	FireAll(w)
	if n := fs.Run(w, 350*time.Millisecond); n != 4 {
		t.Fatalf("fired = %d, want 4", n)
	}

	// Earlier shots have already flown further along -Z.
	seen := make(map[float32]bool)
	for _, p := range w.Projectiles.Entities() {
		tr, _ := w.Transforms.Get(p)
		z := tr.Translation.Z
		if z > 0 || z < -3.01 {
			t.Errorf("projectile at z=%v, want within [-3, 0]", z)
		}
		if seen[z] {
			t.Errorf("two projectiles overlap at z=%v", z)
		}
		seen[z] = true
	}
}

func TestFirePlayer(t *testing.T) {
	w := world.New()
	player := w.Spawn("player", math.TransformIdentity())
	w.Players.Set(player, world.Player{})
	mine := w.Spawn("barrel.mine", math.TransformIdentity())
	_ = w.SetParent(mine, player)
	theirs := w.Spawn("barrel.theirs", math.TransformIdentity())

	wpn, _ := weapon.New(weapon.DefaultRate)
	w.Weapons.Set(mine, wpn)
	w.Weapons.Set(theirs, wpn)

	FirePlayer(w)
	if got, _ := w.Weapons.Get(mine); !got.Firing() {
		t.Error("player weapon not latched")
	}
	if got, _ := w.Weapons.Get(theirs); got.Firing() {
		t.Error("non-player weapon latched")
	}
}

func TestExpireProjectiles(t *testing.T) {
	w := world.New()
	factory := NewWorldProjectiles()
	e := factory.SpawnProjectile(w, world.NoEntity, weapon.SpawnRequest{Direction: math.Vec3{Z: -1}})

	if n := ExpireProjectiles(w, 9*time.Second); n != 0 || !w.Alive(e) {
		t.Fatalf("expired early: n=%d alive=%v", n, w.Alive(e))
	}
	if n := ExpireProjectiles(w, time.Second); n != 1 || w.Alive(e) {
		t.Errorf("not expired: n=%d alive=%v", n, w.Alive(e))
	}
	if factory.Spawned() != 1 {
		t.Errorf("Spawned = %d", factory.Spawned())
	}
}

func TestIntegrate(t *testing.T) {
	w := world.New()
	ship := w.Spawn("ship", math.TransformIdentity())
	w.Velocities.Set(ship, math.Vec3{X: 2})
	child := w.Spawn("child", math.TransformIdentity())
	_ = w.SetParent(child, ship)
	w.Velocities.Set(child, math.Vec3{Y: 100})

	Integrate(w, 500*time.Millisecond)

	if got := w.WorldPosition(ship); !approx(got, math.Vec3{X: 1}) {
		t.Errorf("ship = %+v", got)
	}
	if got := w.WorldPosition(child); !approx(got, math.Vec3{X: 1}) {
		t.Errorf("child = %+v, want to follow its parent", got)
	}
}
