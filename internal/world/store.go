package world

import (
	"slices"
	"sync"
)

// Store is a component container for one component type, keyed by entity.
// Iteration order is insertion order, with removals swapping in the last
// entity.
type Store[T any] struct {
	mu         sync.RWMutex
	components map[Entity]T
	entities   []Entity
}

// NewStore creates an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[Entity]T),
		entities:   make([]Entity, 0, 64),
	}
}

// Set inserts or replaces the component of e.
func (s *Store[T]) Set(e Entity, val T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[e]; !exists {
		s.entities = append(s.entities, e)
	}
	s.components[e] = val
}

// Get returns the component of e.
func (s *Store[T]) Get(e Entity) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.components[e]
	return val, ok
}

// Has reports whether e has a component in this store.
func (s *Store[T]) Has(e Entity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.components[e]
	return ok
}

// Remove deletes the component of e, if any.
func (s *Store[T]) Remove(e Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[e]; !exists {
		return
	}
	delete(s.components, e)
	if i := slices.Index(s.entities, e); i >= 0 {
		s.entities[i] = s.entities[len(s.entities)-1]
		s.entities = s.entities[:len(s.entities)-1]
	}
}

// Entities returns a copy of the entities holding a component.
func (s *Store[T]) Entities() []Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entities)
}

// Len returns the number of components.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// TrackedStore is a Store that remembers which entities were set since the
// last ClearChanged.
type TrackedStore[T any] struct {
	*Store[T]

	cmu     sync.Mutex
	changed []Entity
	seen    map[Entity]struct{}
}

// NewTrackedStore creates an empty tracked store.
func NewTrackedStore[T any]() *TrackedStore[T] {
	return &TrackedStore[T]{
		Store: NewStore[T](),
		seen:  make(map[Entity]struct{}),
	}
}

// Set inserts or replaces the component of e and marks it changed.
func (s *TrackedStore[T]) Set(e Entity, val T) {
	s.Store.Set(e, val)

	s.cmu.Lock()
	defer s.cmu.Unlock()
	if _, ok := s.seen[e]; !ok {
		s.seen[e] = struct{}{}
		s.changed = append(s.changed, e)
	}
}

// Remove deletes the component of e and forgets any pending change.
func (s *TrackedStore[T]) Remove(e Entity) {
	s.Store.Remove(e)

	s.cmu.Lock()
	defer s.cmu.Unlock()
	if _, ok := s.seen[e]; ok {
		delete(s.seen, e)
		s.changed = slices.DeleteFunc(s.changed, func(c Entity) bool { return c == e })
	}
}

// Changed returns the entities set since the last ClearChanged, in the order
// they were first set.
func (s *TrackedStore[T]) Changed() []Entity {
	s.cmu.Lock()
	defer s.cmu.Unlock()
	return slices.Clone(s.changed)
}

// ClearChanged resets the change set.
func (s *TrackedStore[T]) ClearChanged() {
	s.cmu.Lock()
	defer s.cmu.Unlock()
	s.changed = s.changed[:0]
	clear(s.seen)
}
