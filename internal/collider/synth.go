package collider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/hullforge/internal/assets"
	"github.com/Faultbox/hullforge/internal/logger"
	"github.com/Faultbox/hullforge/internal/scene"
)

// ErrBrokenMeshHandle is returned when a hull child references a mesh the
// asset library does not hold. This indicates a corrupt asset, not bad data.
var ErrBrokenMeshHandle = errors.New("mesh handle does not resolve")

// DegeneratePolicy decides what happens when a hull mesh cannot form a convex
// shape.
type DegeneratePolicy uint8

const (
	// PolicyAbort fails the whole synthesis pass.
	PolicyAbort DegeneratePolicy = iota
	// PolicySkip drops the offending shape and logs a warning.
	PolicySkip
)

// String returns the config spelling of the policy.
func (p DegeneratePolicy) String() string {
	switch p {
	case PolicyAbort:
		return "abort"
	case PolicySkip:
		return "skip"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "abort" or "skip". An empty string means abort.
func ParsePolicy(s string) (DegeneratePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return PolicyAbort, nil
	case "skip":
		return PolicySkip, nil
	default:
		return PolicyAbort, fmt.Errorf("unknown degenerate policy %q", s)
	}
}

// Report summarizes one synthesis pass.
type Report struct {
	Scenes            int // scenes visited
	Hulls             int // hull nodes found
	Shapes            int // convex shapes built
	Colliders         int // cache entries written
	SkippedMeshes     int // hull meshes without usable positions
	SkippedDegenerate int // shapes dropped under PolicySkip
}

func (r *Report) add(o Report) {
	r.Scenes += o.Scenes
	r.Hulls += o.Hulls
	r.Shapes += o.Shapes
	r.Colliders += o.Colliders
	r.SkippedMeshes += o.SkippedMeshes
	r.SkippedDegenerate += o.SkippedDegenerate
}

// Synthesizer turns hull nodes of loaded scenes into cached compound
// colliders and strips the hull nodes from the scene graphs.
type Synthesizer struct {
	Cache   *Cache
	Meshes  scene.MeshSource
	Policy  DegeneratePolicy
	Workers int
}

// Run processes every scene, then seals the cache. Scenes are handled in
// parallel, each worker owning one scene graph at a time.
func (s *Synthesizer) Run(ctx context.Context, scenes []*assets.Scene) (Report, error) {
	var (
		total Report
		mu    sync.Mutex
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Workers, 1))
	for _, sc := range scenes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := s.synthesize(sc)
			if err != nil {
				return fmt.Errorf("synthesizing %s: %w", sc.Path, err)
			}
			mu.Lock()
			total.add(rep)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return total, err
	}

	s.Cache.Seal()
	logger.Info("collider synthesis complete",
		zap.Int("scenes", total.Scenes),
		zap.Int("hulls", total.Hulls),
		zap.Int("shapes", total.Shapes),
		zap.Int("colliders", total.Colliders),
		zap.Int("skipped_meshes", total.SkippedMeshes),
		zap.Int("skipped_degenerate", total.SkippedDegenerate),
	)
	return total, nil
}

func (s *Synthesizer) synthesize(sc *assets.Scene) (Report, error) {
	rep := Report{Scenes: 1}
	g := sc.Graph

	hulls := LocateHulls(g)
	rep.Hulls = len(hulls)

	var shapes []Shape
	for _, id := range hulls {
		hull := g.Node(id)
		// Only the hull node's own transform is applied; its children are
		// expected to sit at the hull origin.
		affine := hull.Transform.Affine()

		for _, child := range meshChildren(g, id) {
			m, ok := s.Meshes.Mesh(child.Mesh)
			if !ok {
				return rep, fmt.Errorf("%w: node %q handle %d", ErrBrokenMeshHandle, child.Name, child.Mesh)
			}

			points, ok := scene.ExtractWorldPoints(m, affine)
			if !ok {
				logger.Warn("hull mesh has no usable positions, skipping",
					zap.String("scene", sc.Path),
					zap.String("hull", hull.Name),
					zap.String("mesh", m.Name),
				)
				rep.SkippedMeshes++
				continue
			}

			shape, err := NewConvexHull(points)
			if err != nil {
				if s.Policy == PolicySkip {
					logger.Warn("degenerate hull mesh, skipping",
						zap.String("scene", sc.Path),
						zap.String("hull", hull.Name),
						zap.String("mesh", m.Name),
						zap.Error(err),
					)
					rep.SkippedDegenerate++
					continue
				}
				return rep, fmt.Errorf("hull %q mesh %q: %w", hull.Name, m.Name, err)
			}
			shapes = append(shapes, shape)
		}
	}

	if len(shapes) > 0 {
		if err := s.Cache.Insert(sc.ID, NewCompound(shapes)); err != nil {
			return rep, err
		}
		rep.Shapes = len(shapes)
		rep.Colliders = 1
	}

	// IDs were collected above; removal happens only now.
	for _, id := range hulls {
		g.Remove(id)
	}

	if rep.Hulls > 0 {
		logger.Debug("scene hulls processed",
			zap.String("scene", sc.Path),
			zap.Int("hulls", rep.Hulls),
			zap.Int("shapes", rep.Shapes),
		)
	}
	return rep, nil
}
