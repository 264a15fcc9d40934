package collider

import (
	"errors"
	"testing"

	"github.com/Faultbox/hullforge/pkg/math"
)

func cubeCorners(h float32) []math.Vec3 {
	var pts []math.Vec3
	for _, x := range []float32{-h, h} {
		for _, y := range []float32{-h, h} {
			for _, z := range []float32{-h, h} {
				pts = append(pts, math.Vec3{X: x, Y: y, Z: z})
			}
		}
	}
	return pts
}

// checkHull verifies that the hull is a closed, outward-wound mesh that
// contains every input point.
func checkHull(t *testing.T, h *ConvexHull, input []math.Vec3) {
	t.Helper()

	edges := make(map[[2]int]int)
	for _, f := range h.Faces {
		for e := 0; e < 3; e++ {
			edges[[2]int{f[e], f[(e+1)%3]}]++
		}
	}
	for e, n := range edges {
		if n != 1 {
			t.Errorf("edge %v used %d times", e, n)
		}
		if edges[[2]int{e[1], e[0]}] != 1 {
			t.Errorf("edge %v has no twin", e)
		}
	}

	if v, f := len(h.Vertices), len(h.Faces); v-len(edges)/2+f != 2 {
		t.Errorf("Euler characteristic: V=%d E=%d F=%d", v, len(edges)/2, f)
	}

	for fi, f := range h.Faces {
		a, b, c := h.Vertices[f[0]], h.Vertices[f[1]], h.Vertices[f[2]]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		for _, p := range input {
			if d := n.Dot(p.Sub(a)); d > 1e-4 {
				t.Errorf("face %d: point %v lies %v outside", fi, p, d)
			}
		}
	}
}

func TestNewConvexHull(t *testing.T) {
	interior := []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 0.5, Y: -0.25, Z: 0.1},
		{X: 0, Y: 0, Z: 1},  // face centre
		{X: 1, Y: 1, Z: 0},  // edge midpoint
		{X: -1, Y: 1, Z: 1}, // duplicate corner
	}

	tests := []struct {
		name      string
		points    []math.Vec3
		wantVerts int
		wantFaces int
	}{
		{
			name: "tetrahedron",
			points: []math.Vec3{
				{X: 0, Y: 0, Z: 0},
				{X: 1, Y: 0, Z: 0},
				{X: 0, Y: 1, Z: 0},
				{X: 0, Y: 0, Z: 1},
			},
			wantVerts: 4,
			wantFaces: 4,
		},
		{
			name:      "cube",
			points:    cubeCorners(1),
			wantVerts: 8,
			wantFaces: 12,
		},
		{
			name:      "cube with interior and surface points",
			points:    append(cubeCorners(1), interior...),
			wantVerts: 8,
			wantFaces: 12,
		},
		{
			name: "octahedron",
			points: []math.Vec3{
				{X: 2}, {X: -2}, {Y: 2}, {Y: -2}, {Z: 2}, {Z: -2},
				{X: 0.1, Y: 0.1, Z: 0.1},
			},
			wantVerts: 6,
			wantFaces: 8,
		},
		{
			name:      "tiny cube",
			points:    cubeCorners(0.001),
			wantVerts: 8,
			wantFaces: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewConvexHull(tt.points)
			if err != nil {
				t.Fatalf("NewConvexHull: %v", err)
			}
			if len(h.Vertices) != tt.wantVerts {
				t.Errorf("vertices = %d, want %d", len(h.Vertices), tt.wantVerts)
			}
			if len(h.Faces) != tt.wantFaces {
				t.Errorf("faces = %d, want %d", len(h.Faces), tt.wantFaces)
			}
			checkHull(t, h, tt.points)
		})
	}
}

func TestNewConvexHullDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		points []math.Vec3
	}{
		{"empty", nil},
		{"three points", []math.Vec3{{X: 0}, {X: 1}, {Y: 1}}},
		{"identical", []math.Vec3{{X: 1}, {X: 1}, {X: 1}, {X: 1}}},
		{"collinear", []math.Vec3{{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 4}}},
		{"coplanar quad", []math.Vec3{{X: -1, Z: -1}, {X: 1, Z: -1}, {X: 1, Z: 1}, {X: -1, Z: 1}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConvexHull(tt.points)
			if !errors.Is(err, ErrDegenerateHull) {
				t.Errorf("err = %v, want ErrDegenerateHull", err)
			}
		})
	}
}

func TestConvexHullBoundsAndClone(t *testing.T) {
	h, err := NewConvexHull(cubeCorners(2))
	if err != nil {
		t.Fatal(err)
	}

	b := h.Bounds()
	if b.Min != (math.Vec3{X: -2, Y: -2, Z: -2}) || b.Max != (math.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("Bounds = %+v", b)
	}

	c := h.Clone().(*ConvexHull)
	c.Vertices[0] = math.Vec3{X: 100}
	c.Faces[0] = [3]int{0, 0, 0}
	if h.Vertices[0] == c.Vertices[0] || h.Faces[0] == c.Faces[0] {
		t.Error("clone shares memory with original")
	}
}

func TestCompound(t *testing.T) {
	a, _ := NewConvexHull(cubeCorners(1))
	b, _ := NewConvexHull(cubeCorners(0.5))

	c := NewCompound([]Shape{a, b})
	if len(c.Parts) != 2 {
		t.Fatalf("parts = %d", len(c.Parts))
	}
	for i, p := range c.Parts {
		if p.Offset != math.Vec3Zero || p.Rotation != math.QuatIdentity() {
			t.Errorf("part %d not at origin: %+v", i, p)
		}
	}

	c.Parts[1].Offset = math.Vec3{X: 5}
	bounds := c.Bounds()
	if bounds.Max.X != 5.5 || bounds.Min.X != -1 {
		t.Errorf("Bounds = %+v", bounds)
	}

	clone := c.Clone().(*Compound)
	clone.Parts[0].Shape.(*ConvexHull).Vertices[0] = math.Vec3{X: 42}
	clone.Parts[1].Offset = math.Vec3{}
	if a.Vertices[0].X == 42 {
		t.Error("clone mutated original hull")
	}
	if c.Parts[1].Offset.X != 5 {
		t.Error("clone mutated original offset")
	}
}

func TestCapsuleBounds(t *testing.T) {
	c := &Capsule{HalfLength: 0.8, Radius: 0.1}
	b := c.Bounds()
	if abs(b.Max.Y-0.9) > 1e-6 || abs(b.Min.X+0.1) > 1e-6 {
		t.Errorf("Bounds = %+v", b)
	}
	if c.Clone().(*Capsule) == c {
		t.Error("Clone returned the receiver")
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
