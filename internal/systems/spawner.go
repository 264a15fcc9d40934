// Package systems contains the per-frame systems that run over the world:
// scene instantiation, collider attachment, weapon fire, projectile
// materialization, integration and lifetime expiry.
package systems

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/hullforge/internal/assets"
	"github.com/Faultbox/hullforge/internal/logger"
	"github.com/Faultbox/hullforge/internal/scene"
	"github.com/Faultbox/hullforge/internal/weapon"
	"github.com/Faultbox/hullforge/internal/world"
	"github.com/Faultbox/hullforge/pkg/math"
)

// SceneSource resolves scene assets by ID. The asset library implements it.
type SceneSource interface {
	Scene(id assets.ID) (*assets.Scene, error)
}

// Placement describes one scene instance to spawn.
type Placement struct {
	Asset     assets.ID
	Name      string
	Transform math.Transform
	Velocity  *math.Vec3 // nil for static instances
	Player    bool
	Rate      float64 // rate of fire for mounts; zero uses the spawner default
}

// SceneSpawner instantiates scene assets into the world. Mesh-less nodes whose
// name starts with MountPrefix become weapon mounts.
type SceneSpawner struct {
	Scenes      SceneSource
	MountPrefix string
	Rate        float64
}

// Spawn creates a root entity for p and one child entity per renderable
// scene node. The root's scene instance is marked changed for this frame.
func (s *SceneSpawner) Spawn(w *world.World, p Placement) (world.Entity, error) {
	sc, err := s.Scenes.Scene(p.Asset)
	if err != nil {
		return world.NoEntity, err
	}

	rate := s.Rate
	if p.Rate > 0 {
		rate = p.Rate
	}

	name := p.Name
	if name == "" {
		name = sc.Name
	}
	root := w.Spawn(name, p.Transform)
	if p.Velocity != nil {
		w.Velocities.Set(root, *p.Velocity)
	}
	if p.Player {
		w.Players.Set(root, world.Player{})
	}

	g := sc.Graph
	g.Classify()

	entities := make(map[scene.NodeID]world.Entity, g.Len())
	mounts := 0
	var spawnErr error
	g.Walk(func(n *scene.Node) bool {
		if spawnErr != nil || n.Kind == scene.KindCollisionHull {
			return false
		}

		parent, ok := entities[n.Parent]
		if !ok {
			parent = root
		}
		e := w.Spawn(n.Name, n.Transform)
		if err := w.SetParent(e, parent); err != nil {
			spawnErr = err
			return false
		}
		entities[n.ID] = e

		if s.MountPrefix != "" && !n.HasMesh() && strings.HasPrefix(n.Name, s.MountPrefix) {
			wpn, err := weapon.New(rate)
			if err != nil {
				spawnErr = fmt.Errorf("mount %q: %w", n.Name, err)
				return false
			}
			w.Weapons.Set(e, wpn)
			mounts++
		}
		return true
	})
	if spawnErr != nil {
		w.Despawn(root)
		return world.NoEntity, spawnErr
	}

	w.Scenes.Set(root, world.SceneInstance{Asset: sc.ID})

	logger.Debug("scene instantiated",
		zap.String("scene", sc.Path),
		zap.String("name", name),
		zap.Uint32("entity", uint32(root)),
		zap.Int("nodes", len(entities)),
		zap.Int("mounts", mounts),
	)
	return root, nil
}
