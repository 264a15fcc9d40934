// Package collider synthesizes physics collision shapes from hull nodes in
// scene assets and caches one compound shape per asset.
package collider

import (
	"slices"

	"github.com/Faultbox/hullforge/pkg/math"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Shape is a collision shape handed to the physics engine.
type Shape interface {
	// Clone returns a deep copy that shares no memory with the receiver.
	Clone() Shape
	// Bounds returns the shape's box in its local space.
	Bounds() Bounds
}

// ConvexHull is a closed convex polyhedron. Faces index into Vertices and are
// wound counter-clockwise when seen from outside.
type ConvexHull struct {
	Vertices []math.Vec3
	Faces    [][3]int
}

// Clone implements Shape.
func (h *ConvexHull) Clone() Shape {
	return &ConvexHull{
		Vertices: slices.Clone(h.Vertices),
		Faces:    slices.Clone(h.Faces),
	}
}

// Bounds implements Shape.
func (h *ConvexHull) Bounds() Bounds {
	return boundsOf(h.Vertices)
}

// Part is one sub-shape of a compound shape.
type Part struct {
	Offset   math.Vec3
	Rotation math.Quat
	Shape    Shape
}

// Compound groups several sub-shapes into one collision object.
type Compound struct {
	Parts []Part
}

// NewCompound builds a compound from hulls placed at the origin.
func NewCompound(shapes []Shape) *Compound {
	c := &Compound{Parts: make([]Part, len(shapes))}
	for i, s := range shapes {
		c.Parts[i] = Part{Rotation: math.QuatIdentity(), Shape: s}
	}
	return c
}

// Clone implements Shape.
func (c *Compound) Clone() Shape {
	out := &Compound{Parts: make([]Part, len(c.Parts))}
	for i, p := range c.Parts {
		out.Parts[i] = Part{Offset: p.Offset, Rotation: p.Rotation, Shape: p.Shape.Clone()}
	}
	return out
}

// Bounds implements Shape.
func (c *Compound) Bounds() Bounds {
	var pts []math.Vec3
	for _, p := range c.Parts {
		b := p.Shape.Bounds()
		affine := math.Transform{Translation: p.Offset, Rotation: p.Rotation, Scale: math.Vec3One}.Affine()
		for _, corner := range b.corners() {
			pts = append(pts, affine.TransformVec3(corner))
		}
	}
	return boundsOf(pts)
}

// Capsule is a capsule aligned with the local Y axis.
type Capsule struct {
	HalfLength float32
	Radius     float32
}

// Clone implements Shape.
func (c *Capsule) Clone() Shape {
	cp := *c
	return &cp
}

// Bounds implements Shape.
func (c *Capsule) Bounds() Bounds {
	h := c.HalfLength + c.Radius
	return Bounds{
		Min: math.Vec3{X: -c.Radius, Y: -h, Z: -c.Radius},
		Max: math.Vec3{X: c.Radius, Y: h, Z: c.Radius},
	}
}

func boundsOf(pts []math.Vec3) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

func (b Bounds) corners() [8]math.Vec3 {
	return [8]math.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}
