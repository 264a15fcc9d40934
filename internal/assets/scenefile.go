package assets

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/hullforge/internal/scene"
	"github.com/Faultbox/hullforge/pkg/math"
)

// ErrInvalidSceneFile is returned for scene files that parse as YAML but do not
// describe a valid scene.
var ErrInvalidSceneFile = errors.New("invalid scene file")

type sceneDoc struct {
	Name   string    `yaml:"name"`
	Meshes []meshDoc `yaml:"meshes"`
	Nodes  []nodeDoc `yaml:"nodes"`
}

type meshDoc struct {
	Name       string                  `yaml:"name"`
	Attributes map[string]attributeDoc `yaml:"attributes"`
}

type attributeDoc struct {
	Format string    `yaml:"format"`
	Values yaml.Node `yaml:"values"`
}

type nodeDoc struct {
	Name        string      `yaml:"name"`
	Translation *[3]float32 `yaml:"translation"`
	Rotation    *[4]float32 `yaml:"rotation"` // x, y, z, w
	Scale       *[3]float32 `yaml:"scale"`
	Mesh        string      `yaml:"mesh"`
	Children    []nodeDoc   `yaml:"children"`
}

// Parse decodes a YAML scene file and registers its scene and meshes under path.
//
// Attribute values may be a flat list of numbers or a list of groups; the
// format field decides how they are stored:
//
//	meshes:
//	  - name: body_hull
//	    attributes:
//	      POSITION:
//	        format: float32x3
//	        values: [[0, 0, 0], [1, 0, 0], [0, 1, 0], [0, 0, 1]]
//	nodes:
//	  - name: ship
//	    children:
//	      - name: body_hull
//	        translation: [0, 1, 0]
//	        children:
//	          - {name: body_hull.mesh, mesh: body_hull}
func (l *Library) Parse(path string, data []byte) (*Scene, error) {
	if l.Has(IDFromPath(path)) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateScene, NormalizePath(path))
	}

	var doc sceneDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing scene %s: %w", path, err)
	}

	handles := make(map[string]scene.MeshHandle, len(doc.Meshes))
	for _, md := range doc.Meshes {
		if md.Name == "" {
			return nil, fmt.Errorf("%w: %s: mesh without name", ErrInvalidSceneFile, path)
		}
		if _, dup := handles[md.Name]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate mesh %q", ErrInvalidSceneFile, path, md.Name)
		}
		m, err := md.build()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: mesh %q: %v", ErrInvalidSceneFile, path, md.Name, err)
		}
		handles[md.Name] = l.AddMesh(m)
	}

	g := scene.NewGraph()
	for i := range doc.Nodes {
		if err := addNode(g, scene.NoNode, &doc.Nodes[i], handles); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	name := doc.Name
	if name == "" {
		name = NormalizePath(path)
	}
	return l.AddScene(path, name, g)
}

func addNode(g *scene.Graph, parent scene.NodeID, nd *nodeDoc, handles map[string]scene.MeshHandle) error {
	id, err := g.Add(parent, nd.Name, nd.transform())
	if err != nil {
		return err
	}
	if nd.Mesh != "" {
		h, ok := handles[nd.Mesh]
		if !ok {
			return fmt.Errorf("%w: node %q references %q", ErrUnknownMesh, nd.Name, nd.Mesh)
		}
		if err := g.SetMesh(id, h); err != nil {
			return err
		}
	}
	for i := range nd.Children {
		if err := addNode(g, id, &nd.Children[i], handles); err != nil {
			return err
		}
	}
	return nil
}

func (nd *nodeDoc) transform() math.Transform {
	t := math.TransformIdentity()
	if nd.Translation != nil {
		t.Translation = math.Vec3FromArray(*nd.Translation)
	}
	if nd.Rotation != nil {
		r := *nd.Rotation
		t.Rotation = math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}.Normalize()
	}
	if nd.Scale != nil {
		t.Scale = math.Vec3FromArray(*nd.Scale)
	}
	return t
}

func (md *meshDoc) build() (*scene.Mesh, error) {
	m := &scene.Mesh{Name: md.Name}
	for name, ad := range md.Attributes {
		attr, err := ad.build()
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		m.SetAttribute(name, attr)
	}
	return m, nil
}

func (ad *attributeDoc) build() (scene.Attribute, error) {
	attr := scene.Attribute{Format: scene.ParseVertexFormat(ad.Format)}

	flat, groups, err := decodeValues(&ad.Values)
	if err != nil {
		return attr, err
	}

	if attr.Format != scene.FormatFloat32x3 {
		for _, grp := range groups {
			flat = append(flat, grp...)
		}
		attr.Values = flat
		return attr, nil
	}

	if groups == nil {
		if len(flat)%3 != 0 {
			return attr, fmt.Errorf("float32x3 stream of %d values", len(flat))
		}
		for i := 0; i < len(flat); i += 3 {
			groups = append(groups, flat[i:i+3])
		}
	}
	attr.Triples = make([][3]float32, len(groups))
	for i, grp := range groups {
		if len(grp) != 3 {
			return attr, fmt.Errorf("float32x3 element %d has %d components", i, len(grp))
		}
		attr.Triples[i] = [3]float32{grp[0], grp[1], grp[2]}
	}
	return attr, nil
}

// decodeValues returns either a flat stream or a list of groups, depending on
// the shape of the YAML sequence.
func decodeValues(n *yaml.Node) ([]float32, [][]float32, error) {
	if n.Kind == 0 {
		return nil, nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, nil, fmt.Errorf("values must be a sequence, got line %d", n.Line)
	}
	if len(n.Content) > 0 && n.Content[0].Kind == yaml.SequenceNode {
		var groups [][]float32
		if err := n.Decode(&groups); err != nil {
			return nil, nil, err
		}
		return nil, groups, nil
	}
	var flat []float32
	if err := n.Decode(&flat); err != nil {
		return nil, nil, err
	}
	return flat, nil, nil
}
