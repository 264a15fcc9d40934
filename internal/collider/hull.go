package collider

import (
	"errors"
	"fmt"
	gomath "math"
	"slices"

	"github.com/Faultbox/hullforge/pkg/math"
)

// ErrDegenerateHull is returned when a point set has fewer than four
// non-coplanar points and therefore encloses no volume.
var ErrDegenerateHull = errors.New("degenerate hull point set")

// relativeTolerance scales with the point cloud's extent.
const relativeTolerance = 1e-6

type vec3d struct{ x, y, z float64 }

func (a vec3d) sub(b vec3d) vec3d   { return vec3d{a.x - b.x, a.y - b.y, a.z - b.z} }
func (a vec3d) dot(b vec3d) float64 { return a.x*b.x + a.y*b.y + a.z*b.z }
func (a vec3d) length() float64     { return gomath.Sqrt(a.dot(a)) }
func (a vec3d) cross(b vec3d) vec3d {
	return vec3d{a.y*b.z - a.z*b.y, a.z*b.x - a.x*b.z, a.x*b.y - a.y*b.x}
}

type hullFace struct {
	v      [3]int
	normal vec3d
	offset float64
	dead   bool
}

func (f *hullFace) distance(p vec3d) float64 {
	return f.normal.dot(p) - f.offset
}

type hullBuilder struct {
	pts    []vec3d
	eps    float64
	inside vec3d
	faces  []*hullFace
}

// NewConvexHull computes the convex hull of points with an incremental
// algorithm. Points on or within tolerance of the hull surface are dropped.
func NewConvexHull(points []math.Vec3) (*ConvexHull, error) {
	if len(points) < 4 {
		return nil, fmt.Errorf("%w: %d points", ErrDegenerateHull, len(points))
	}

	b := &hullBuilder{pts: make([]vec3d, len(points))}
	lo := vec3d{gomath.Inf(1), gomath.Inf(1), gomath.Inf(1)}
	hi := vec3d{gomath.Inf(-1), gomath.Inf(-1), gomath.Inf(-1)}
	for i, p := range points {
		v := vec3d{float64(p.X), float64(p.Y), float64(p.Z)}
		b.pts[i] = v
		lo = vec3d{gomath.Min(lo.x, v.x), gomath.Min(lo.y, v.y), gomath.Min(lo.z, v.z)}
		hi = vec3d{gomath.Max(hi.x, v.x), gomath.Max(hi.y, v.y), gomath.Max(hi.z, v.z)}
	}
	extent := hi.sub(lo).length()
	if extent == 0 || gomath.IsNaN(extent) || gomath.IsInf(extent, 0) {
		return nil, fmt.Errorf("%w: zero or non-finite extent", ErrDegenerateHull)
	}
	b.eps = extent * relativeTolerance

	simplex, err := b.initialSimplex()
	if err != nil {
		return nil, err
	}
	b.seed(simplex)

	for i := range b.pts {
		if slices.Contains(simplex[:], i) {
			continue
		}
		b.add(i)
	}
	return b.result(), nil
}

// initialSimplex picks four well separated, non-coplanar points.
func (b *hullBuilder) initialSimplex() ([4]int, error) {
	var s [4]int

	// Extreme point along X, then the point farthest from it.
	for i, p := range b.pts {
		if p.x < b.pts[s[0]].x {
			s[0] = i
		}
	}
	best := -1.0
	for i, p := range b.pts {
		if d := p.sub(b.pts[s[0]]).length(); d > best {
			best, s[1] = d, i
		}
	}
	if best <= b.eps {
		return s, fmt.Errorf("%w: coincident points", ErrDegenerateHull)
	}

	// Farthest from the line s0-s1.
	dir := b.pts[s[1]].sub(b.pts[s[0]])
	dirLen := dir.length()
	best = -1
	for i, p := range b.pts {
		if d := p.sub(b.pts[s[0]]).cross(dir).length() / dirLen; d > best {
			best, s[2] = d, i
		}
	}
	if best <= b.eps {
		return s, fmt.Errorf("%w: collinear points", ErrDegenerateHull)
	}

	// Farthest from the plane s0-s1-s2.
	n := dir.cross(b.pts[s[2]].sub(b.pts[s[0]]))
	n = scaled(n, 1/n.length())
	best = -1
	for i, p := range b.pts {
		if d := gomath.Abs(n.dot(p.sub(b.pts[s[0]]))); d > best {
			best, s[3] = d, i
		}
	}
	if best <= b.eps {
		return s, fmt.Errorf("%w: coplanar points", ErrDegenerateHull)
	}
	return s, nil
}

func (b *hullBuilder) seed(s [4]int) {
	for _, i := range s {
		b.inside = vec3d{b.inside.x + b.pts[i].x/4, b.inside.y + b.pts[i].y/4, b.inside.z + b.pts[i].z/4}
	}
	b.newFace(s[0], s[1], s[2])
	b.newFace(s[0], s[1], s[3])
	b.newFace(s[0], s[2], s[3])
	b.newFace(s[1], s[2], s[3])
}

// newFace appends a face wound so that its normal points away from the
// interior reference point.
func (b *hullBuilder) newFace(i, j, k int) {
	a, c1, c2 := b.pts[i], b.pts[j], b.pts[k]
	n := c1.sub(a).cross(c2.sub(a))
	if n.dot(b.inside.sub(a)) > 0 {
		j, k = k, j
		n = scaled(n, -1)
	}
	n = scaled(n, 1/n.length())
	b.faces = append(b.faces, &hullFace{v: [3]int{i, j, k}, normal: n, offset: n.dot(a)})
}

// add grows the hull to include point i.
func (b *hullBuilder) add(i int) {
	p := b.pts[i]

	var visible []*hullFace
	for _, f := range b.faces {
		if f.distance(p) > b.eps {
			visible = append(visible, f)
		}
	}
	if len(visible) == 0 {
		return
	}

	// Horizon edges are visible-face edges whose twin belongs to a hidden face.
	edges := make(map[[2]int]bool, len(visible)*3)
	for _, f := range visible {
		for e := 0; e < 3; e++ {
			edges[[2]int{f.v[e], f.v[(e+1)%3]}] = true
		}
	}
	var horizon [][2]int
	for _, f := range visible {
		f.dead = true
		for e := 0; e < 3; e++ {
			a, c := f.v[e], f.v[(e+1)%3]
			if !edges[[2]int{c, a}] {
				horizon = append(horizon, [2]int{a, c})
			}
		}
	}

	b.faces = slices.DeleteFunc(b.faces, func(f *hullFace) bool { return f.dead })
	for _, e := range horizon {
		b.newFace(e[0], e[1], i)
	}
}

func (b *hullBuilder) result() *ConvexHull {
	used := make(map[int]int)
	var order []int
	for _, f := range b.faces {
		for _, v := range f.v {
			if _, ok := used[v]; !ok {
				used[v] = 0
				order = append(order, v)
			}
		}
	}
	slices.Sort(order)

	h := &ConvexHull{
		Vertices: make([]math.Vec3, len(order)),
		Faces:    make([][3]int, len(b.faces)),
	}
	for idx, v := range order {
		used[v] = idx
		p := b.pts[v]
		h.Vertices[idx] = math.Vec3{X: float32(p.x), Y: float32(p.y), Z: float32(p.z)}
	}
	for fi, f := range b.faces {
		h.Faces[fi] = [3]int{used[f.v[0]], used[f.v[1]], used[f.v[2]]}
	}
	return h
}

func scaled(v vec3d, s float64) vec3d {
	return vec3d{v.x * s, v.y * s, v.z * s}
}
