package systems

import (
	"time"

	"github.com/Faultbox/hullforge/internal/collider"
	"github.com/Faultbox/hullforge/internal/weapon"
	"github.com/Faultbox/hullforge/internal/world"
	"github.com/Faultbox/hullforge/pkg/math"
)

// Projectile defaults.
const (
	DefaultProjectileSpeed      = 100
	DefaultProjectileRadius     = 0.1
	DefaultProjectileHalfLength = 8 * DefaultProjectileRadius
	DefaultProjectileLifetime   = 10 * time.Second
)

// WorldProjectiles spawns capsule sensor projectiles.
type WorldProjectiles struct {
	Radius     float32
	HalfLength float32
	Lifetime   time.Duration

	spawned int
}

// NewWorldProjectiles returns a factory with the default projectile shape.
func NewWorldProjectiles() *WorldProjectiles {
	return &WorldProjectiles{
		Radius:     DefaultProjectileRadius,
		HalfLength: DefaultProjectileHalfLength,
		Lifetime:   DefaultProjectileLifetime,
	}
}

// SpawnProjectile implements ProjectileFactory. The capsule's Y axis is
// turned onto the flight direction.
func (p *WorldProjectiles) SpawnProjectile(w *world.World, source world.Entity, req weapon.SpawnRequest) world.Entity {
	e := w.Spawn("projectile", math.Transform{
		Translation: req.Position,
		Rotation:    math.QuatFromRotationArc(math.Vec3Y, req.Direction),
		Scale:       math.Vec3One,
	})
	w.Velocities.Set(e, req.Velocity)
	w.Colliders.Set(e, &collider.Capsule{HalfLength: p.HalfLength, Radius: p.Radius})
	w.Projectiles.Set(e, world.Projectile{Source: source, Sensor: true})
	w.Lifetimes.Set(e, p.Lifetime)
	p.spawned++
	return e
}

// Spawned returns the number of projectiles created so far.
func (p *WorldProjectiles) Spawned() int {
	return p.spawned
}
