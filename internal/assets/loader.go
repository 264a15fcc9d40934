package assets

import (
	"go.uber.org/zap"

	"github.com/Faultbox/hullforge/internal/logger"
)

// Loader drives the asset loading phase, one scene per Step, so the frame
// loop can report progress while scenes come in.
type Loader struct {
	lib     *Library
	pending []string
	total   int
}

// NewLoader queues the given scene paths for loading into lib.
func NewLoader(lib *Library, paths []string) *Loader {
	return &Loader{
		lib:     lib,
		pending: append([]string(nil), paths...),
		total:   len(paths),
	}
}

// Step loads the next pending scene. It is a no-op once Done.
func (l *Loader) Step() error {
	if l.Done() {
		return nil
	}
	path := l.pending[0]
	l.pending = l.pending[1:]

	s, err := l.lib.LoadFile(path)
	if err != nil {
		return err
	}
	logger.Debug("scene loaded",
		zap.String("path", s.Path),
		zap.Stringer("id", s.ID),
		zap.Int("nodes", s.Graph.Len()),
	)
	return nil
}

// Done reports whether every queued scene has been loaded.
func (l *Loader) Done() bool {
	return len(l.pending) == 0
}

// Progress returns the loaded fraction in [0, 1].
func (l *Loader) Progress() float32 {
	if l.total == 0 {
		return 1
	}
	return float32(l.total-len(l.pending)) / float32(l.total)
}
