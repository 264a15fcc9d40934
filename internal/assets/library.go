// Package assets loads scene assets and their meshes and tracks the loading phase.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Faultbox/hullforge/internal/scene"
)

// Library errors.
var (
	ErrSceneNotFound  = errors.New("scene not found")
	ErrDuplicateScene = errors.New("scene already loaded")
	ErrUnknownMesh    = errors.New("unknown mesh reference")
)

// Scene is a loaded scene asset.
type Scene struct {
	ID    ID
	Path  string
	Name  string
	Graph *scene.Graph
}

// Library owns every loaded scene and mesh.
type Library struct {
	baseDir string

	mu     sync.RWMutex
	scenes map[ID]*Scene
	order  []ID
	meshes []*scene.Mesh
}

// NewLibrary creates a library resolving relative paths against baseDir.
func NewLibrary(baseDir string) *Library {
	return &Library{
		baseDir: baseDir,
		scenes:  make(map[ID]*Scene),
	}
}

// LoadFile reads and parses a scene file.
func (l *Library) LoadFile(path string) (*Scene, error) {
	full := path
	if l.baseDir != "" && !filepath.IsAbs(path) {
		full = filepath.Join(l.baseDir, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}
	return l.Parse(path, data)
}

// AddScene registers an already built graph under path.
func (l *Library) AddScene(path, name string, g *scene.Graph) (*Scene, error) {
	s := &Scene{
		ID:    IDFromPath(path),
		Path:  NormalizePath(path),
		Name:  name,
		Graph: g,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.scenes[s.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateScene, s.Path)
	}
	l.scenes[s.ID] = s
	l.order = append(l.order, s.ID)
	return s, nil
}

// AddMesh stores a mesh and returns its handle.
func (l *Library) AddMesh(m *scene.Mesh) scene.MeshHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.meshes = append(l.meshes, m)
	return scene.MeshHandle(len(l.meshes))
}

// Mesh resolves a mesh handle.
func (l *Library) Mesh(h scene.MeshHandle) (*scene.Mesh, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if h == scene.NoMesh || int(h) > len(l.meshes) {
		return nil, false
	}
	return l.meshes[h-1], true
}

// Scene returns a loaded scene by ID.
func (l *Library) Scene(id ID) (*Scene, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.scenes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, id)
	}
	return s, nil
}

// Scenes returns all scenes in load order.
func (l *Library) Scenes() []*Scene {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Scene, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.scenes[id])
	}
	return out
}

// MeshCount returns the number of stored meshes.
func (l *Library) MeshCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.meshes)
}

// Has reports whether a scene with the given ID is loaded.
func (l *Library) Has(id ID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.scenes[id]
	return ok
}
