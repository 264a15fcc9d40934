package scene

import (
	"fmt"

	"github.com/Faultbox/hullforge/pkg/math"
)

// Well-known vertex attribute names.
const (
	AttributePosition = "POSITION"
	AttributeNormal   = "NORMAL"
	AttributeUV0      = "TEXCOORD_0"
)

// VertexFormat describes how an attribute's values are laid out.
type VertexFormat uint8

const (
	FormatUnknown   VertexFormat = iota
	FormatFloat32                // flat stream, consumers group it themselves
	FormatFloat32x2              // pairs, stored flat
	FormatFloat32x3              // grouped triples
	FormatFloat32x4              // quads, stored flat
	FormatUint16x4               // packed integers, stored widened
)

// String returns the format name used in scene files.
func (f VertexFormat) String() string {
	switch f {
	case FormatFloat32:
		return "float32"
	case FormatFloat32x2:
		return "float32x2"
	case FormatFloat32x3:
		return "float32x3"
	case FormatFloat32x4:
		return "float32x4"
	case FormatUint16x4:
		return "uint16x4"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// ParseVertexFormat maps a scene-file format name to a VertexFormat.
func ParseVertexFormat(s string) VertexFormat {
	switch s {
	case "float32":
		return FormatFloat32
	case "float32x2":
		return FormatFloat32x2
	case "float32x3":
		return FormatFloat32x3
	case "float32x4":
		return FormatFloat32x4
	case "uint16x4":
		return FormatUint16x4
	default:
		return FormatUnknown
	}
}

// Attribute is one vertex attribute stream. Float32x3 data lives in Triples,
// every other format in Values.
type Attribute struct {
	Format  VertexFormat
	Values  []float32
	Triples [][3]float32
}

// Mesh is vertex data as loaded from a scene asset.
type Mesh struct {
	Name       string
	Attributes map[string]Attribute
}

// Attribute looks up an attribute by name.
func (m *Mesh) Attribute(name string) (Attribute, bool) {
	if m == nil || m.Attributes == nil {
		return Attribute{}, false
	}
	a, ok := m.Attributes[name]
	return a, ok
}

// SetAttribute stores an attribute stream.
func (m *Mesh) SetAttribute(name string, a Attribute) {
	if m.Attributes == nil {
		m.Attributes = make(map[string]Attribute)
	}
	m.Attributes[name] = a
}

// MeshSource resolves mesh handles. The asset library implements it.
type MeshSource interface {
	Mesh(h MeshHandle) (*Mesh, bool)
}

// LocalPoints returns the mesh positions in mesh space. It fails when the
// position attribute is missing or in an encoding that is not a float triple
// stream.
func LocalPoints(m *Mesh) ([]math.Vec3, bool) {
	attr, ok := m.Attribute(AttributePosition)
	if !ok {
		return nil, false
	}

	switch attr.Format {
	case FormatFloat32:
		if len(attr.Values)%3 != 0 {
			return nil, false
		}
		pts := make([]math.Vec3, 0, len(attr.Values)/3)
		for i := 0; i < len(attr.Values); i += 3 {
			pts = append(pts, math.Vec3{X: attr.Values[i], Y: attr.Values[i+1], Z: attr.Values[i+2]})
		}
		return pts, true
	case FormatFloat32x3:
		pts := make([]math.Vec3, len(attr.Triples))
		for i, v := range attr.Triples {
			pts[i] = math.Vec3FromArray(v)
		}
		return pts, true
	default:
		return nil, false
	}
}

// ExtractWorldPoints returns the mesh positions transformed by affine.
func ExtractWorldPoints(m *Mesh, affine math.Mat4) ([]math.Vec3, bool) {
	pts, ok := LocalPoints(m)
	if !ok {
		return nil, false
	}
	for i := range pts {
		pts[i] = affine.TransformVec3(pts[i])
	}
	return pts, true
}
