package scene

import "strings"

// Kind tags a node as renderable or as collision-only geometry.
type Kind uint8

const (
	KindRenderable Kind = iota
	KindCollisionHull
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindRenderable:
		return "Renderable"
	case KindCollisionHull:
		return "CollisionHull"
	default:
		return "Unknown"
	}
}

// IsHullName reports whether a node name follows the hull naming convention:
// "<name>_hull" or "<name>_hull_<n>". Content authors rely on this exact rule.
func IsHullName(name string) bool {
	return strings.HasSuffix(name, "_hull") || strings.Contains(name, "_hull_")
}

// Classify tags every node once. A node is a hull only when its name matches
// and it carries no mesh itself; hull meshes live on its children.
func (g *Graph) Classify() {
	if g.classified {
		return
	}
	for _, n := range g.nodes {
		n.Kind = KindRenderable
		if !n.HasMesh() && IsHullName(n.Name) {
			n.Kind = KindCollisionHull
		}
	}
	g.classified = true
}

// NodesOfKind classifies the graph if needed and returns matching node IDs in
// ascending order.
func (g *Graph) NodesOfKind(k Kind) []NodeID {
	g.Classify()
	var ids []NodeID
	for _, id := range g.IDs() {
		if g.nodes[id].Kind == k {
			ids = append(ids, id)
		}
	}
	return ids
}
