// Package world holds the entity-component state stepped by the frame loop:
// entity hierarchy, transforms, velocities, scene instances, colliders,
// weapons and projectiles.
package world

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Faultbox/hullforge/internal/assets"
	"github.com/Faultbox/hullforge/internal/collider"
	"github.com/Faultbox/hullforge/internal/weapon"
	"github.com/Faultbox/hullforge/pkg/math"
)

// Hierarchy errors.
var (
	ErrNoEntity    = errors.New("entity does not exist")
	ErrParentCycle = errors.New("parent link would form a cycle")
)

// Entity is an opaque entity handle. Zero is never allocated.
type Entity uint32

// NoEntity is the absent entity.
const NoEntity Entity = 0

// SceneInstance marks the root entity of an instantiated scene asset.
type SceneInstance struct {
	Asset assets.ID
}

// Projectile tags a fired projectile.
type Projectile struct {
	Source Entity // weapon entity that fired it
	Sensor bool   // reports overlaps instead of resolving contacts
}

// Player marks entities driven by player intent.
type Player struct{}

type remover interface {
	Remove(e Entity)
}

// World owns every entity and component store.
type World struct {
	next     Entity
	alive    map[Entity]struct{}
	children map[Entity][]Entity
	frame    uint64

	Names       *Store[string]
	Transforms  *Store[math.Transform]
	Parents     *Store[Entity]
	Velocities  *Store[math.Vec3]
	Scenes      *TrackedStore[SceneInstance]
	Colliders   *Store[collider.Shape]
	Weapons     *Store[weapon.Weapon]
	Lifetimes   *Store[time.Duration]
	Projectiles *Store[Projectile]
	Players     *Store[Player]

	stores []remover
}

// New creates an empty world.
func New() *World {
	w := &World{
		alive:       make(map[Entity]struct{}),
		children:    make(map[Entity][]Entity),
		Names:       NewStore[string](),
		Transforms:  NewStore[math.Transform](),
		Parents:     NewStore[Entity](),
		Velocities:  NewStore[math.Vec3](),
		Scenes:      NewTrackedStore[SceneInstance](),
		Colliders:   NewStore[collider.Shape](),
		Weapons:     NewStore[weapon.Weapon](),
		Lifetimes:   NewStore[time.Duration](),
		Projectiles: NewStore[Projectile](),
		Players:     NewStore[Player](),
	}
	w.stores = []remover{
		w.Names, w.Transforms, w.Parents, w.Velocities, w.Scenes,
		w.Colliders, w.Weapons, w.Lifetimes, w.Projectiles, w.Players,
	}
	return w
}

// Spawn creates a root entity with a name and local transform.
func (w *World) Spawn(name string, t math.Transform) Entity {
	w.next++
	e := w.next
	w.alive[e] = struct{}{}
	w.Names.Set(e, name)
	w.Transforms.Set(e, t)
	return e
}

// Alive reports whether e exists.
func (w *World) Alive(e Entity) bool {
	_, ok := w.alive[e]
	return ok
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.alive)
}

// Frame returns the number of completed frames.
func (w *World) Frame() uint64 {
	return w.frame
}

// SetParent links child under parent. NoEntity makes child a root.
func (w *World) SetParent(child, parent Entity) error {
	if !w.Alive(child) {
		return fmt.Errorf("%w: child %d", ErrNoEntity, child)
	}
	if parent != NoEntity {
		if !w.Alive(parent) {
			return fmt.Errorf("%w: parent %d", ErrNoEntity, parent)
		}
		for cur := parent; cur != NoEntity; cur = w.Parent(cur) {
			if cur == child {
				return fmt.Errorf("%w: %d under %d", ErrParentCycle, child, parent)
			}
		}
	}

	if old := w.Parent(child); old != NoEntity {
		w.children[old] = slices.DeleteFunc(w.children[old], func(c Entity) bool { return c == child })
	}
	if parent == NoEntity {
		w.Parents.Remove(child)
		return nil
	}
	w.Parents.Set(child, parent)
	w.children[parent] = append(w.children[parent], child)
	return nil
}

// Parent returns the parent of e, or NoEntity.
func (w *World) Parent(e Entity) Entity {
	p, _ := w.Parents.Get(e)
	return p
}

// Children returns a copy of e's direct children.
func (w *World) Children(e Entity) []Entity {
	return slices.Clone(w.children[e])
}

// GlobalTransform composes the local transforms from the root down to e.
func (w *World) GlobalTransform(e Entity) math.Mat4 {
	m := math.Identity()
	for cur := e; cur != NoEntity; cur = w.Parent(cur) {
		if t, ok := w.Transforms.Get(cur); ok {
			m = t.Affine().Mul(m)
		}
	}
	return m
}

// WorldPosition returns the world-space origin of e.
func (w *World) WorldPosition(e Entity) math.Vec3 {
	return w.GlobalTransform(e).Translation()
}

// WorldForward returns e's -Z axis in world space, normalized.
func (w *World) WorldForward(e Entity) math.Vec3 {
	return w.GlobalTransform(e).TransformDirection(math.Vec3{Z: -1}).Normalize()
}

// InheritedVelocity returns the velocity of e or of its nearest ancestor
// that has one. Entities with no moving ancestor inherit zero velocity.
func (w *World) InheritedVelocity(e Entity) math.Vec3 {
	for cur := e; cur != NoEntity; cur = w.Parent(cur) {
		if v, ok := w.Velocities.Get(cur); ok {
			return v
		}
	}
	return math.Vec3Zero
}

// Despawn destroys e and all of its descendants.
func (w *World) Despawn(e Entity) {
	if !w.Alive(e) {
		return
	}
	if p := w.Parent(e); p != NoEntity {
		w.children[p] = slices.DeleteFunc(w.children[p], func(c Entity) bool { return c == e })
	}

	var doomed []Entity
	var collect func(Entity)
	collect = func(cur Entity) {
		doomed = append(doomed, cur)
		for _, c := range w.children[cur] {
			collect(c)
		}
	}
	collect(e)

	for _, d := range doomed {
		for _, s := range w.stores {
			s.Remove(d)
		}
		delete(w.children, d)
		delete(w.alive, d)
	}
}

// EndFrame closes the current frame and clears per-frame change sets.
func (w *World) EndFrame() {
	w.Scenes.ClearChanged()
	w.frame++
}
