package systems

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hullforge/internal/logger"
	"github.com/Faultbox/hullforge/internal/weapon"
	"github.com/Faultbox/hullforge/internal/world"
)

// ProjectileFactory materializes a resolved shot in the world.
type ProjectileFactory interface {
	SpawnProjectile(w *world.World, source world.Entity, req weapon.SpawnRequest) world.Entity
}

// FireSystem steps every weapon's cooldown and hands each owed shot to the
// factory.
type FireSystem struct {
	Speed   float32
	Factory ProjectileFactory
}

// Run advances all weapons by dt and returns the number of shots fired.
func (f *FireSystem) Run(w *world.World, dt time.Duration) int {
	fired := 0

	mounts := w.Weapons.Entities()
	slices.Sort(mounts)
	for _, e := range mounts {
		wpn, ok := w.Weapons.Get(e)
		if !ok {
			continue
		}
		next, shots := wpn.Step(dt)
		w.Weapons.Set(e, next)
		if len(shots) == 0 {
			continue
		}
		if len(shots) > 1 {
			logger.Debug("weapon catching up",
				zap.Uint32("entity", uint32(e)),
				zap.Int("shots", len(shots)),
				zap.Duration("frame", dt),
			)
		}

		origin := w.WorldPosition(e)
		forward := w.WorldForward(e)
		inherited := w.InheritedVelocity(e)
		for _, shot := range shots {
			req := weapon.Spawn(shot, origin, forward, inherited, f.Speed)
			f.Factory.SpawnProjectile(w, e, req)
			fired++
		}
	}
	return fired
}

// FireAll latches every weapon in the world.
func FireAll(w *world.World) {
	for _, e := range w.Weapons.Entities() {
		latch(w, e)
	}
}

// FirePlayer latches the weapons mounted anywhere under a player entity.
func FirePlayer(w *world.World) {
	for _, e := range w.Weapons.Entities() {
		for cur := e; cur != world.NoEntity; cur = w.Parent(cur) {
			if w.Players.Has(cur) {
				latch(w, e)
				break
			}
		}
	}
}

func latch(w *world.World, e world.Entity) {
	if wpn, ok := w.Weapons.Get(e); ok {
		wpn.Fire()
		w.Weapons.Set(e, wpn)
	}
}
