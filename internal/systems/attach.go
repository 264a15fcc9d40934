package systems

import (
	"go.uber.org/zap"

	"github.com/Faultbox/hullforge/internal/collider"
	"github.com/Faultbox/hullforge/internal/logger"
	"github.com/Faultbox/hullforge/internal/world"
)

// AttachColliders gives every scene instance spawned or changed this frame a
// private copy of its asset's cached collider. Assets without hulls have no
// cache entry and are left alone. It returns the number of colliders
// attached.
func AttachColliders(w *world.World, cache *collider.Cache) int {
	attached := 0
	for _, e := range w.Scenes.Changed() {
		inst, ok := w.Scenes.Get(e)
		if !ok {
			continue
		}
		shape, ok := cache.Get(inst.Asset)
		if !ok {
			continue
		}
		w.Colliders.Set(e, shape.Clone())
		attached++
		logger.Debug("collider attached",
			zap.Uint32("entity", uint32(e)),
			zap.Stringer("asset", inst.Asset),
			zap.Int("parts", len(shape.Parts)),
		)
	}
	return attached
}
