package systems

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hullforge/internal/logger"
	"github.com/Faultbox/hullforge/internal/world"
)

// Integrate moves root entities by their velocity. It stands in for the
// physics step; children follow their parents through the hierarchy.
func Integrate(w *world.World, dt time.Duration) {
	secs := float32(dt.Seconds())
	for _, e := range w.Velocities.Entities() {
		if w.Parent(e) != world.NoEntity {
			continue
		}
		t, ok := w.Transforms.Get(e)
		if !ok {
			continue
		}
		v, _ := w.Velocities.Get(e)
		t.Translation = t.Translation.Add(v.Scale(secs))
		w.Transforms.Set(e, t)
	}
}

// ExpireProjectiles counts down lifetimes and despawns, with descendants,
// every entity whose lifetime ran out. It returns the number despawned.
func ExpireProjectiles(w *world.World, dt time.Duration) int {
	expired := 0
	for _, e := range w.Lifetimes.Entities() {
		left, ok := w.Lifetimes.Get(e)
		if !ok {
			continue
		}
		left -= dt
		if left <= 0 {
			w.Despawn(e)
			expired++
			continue
		}
		w.Lifetimes.Set(e, left)
	}
	if expired > 0 {
		logger.Debug("lifetimes expired", zap.Int("despawned", expired))
	}
	return expired
}
