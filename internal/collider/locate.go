package collider

import "github.com/Faultbox/hullforge/internal/scene"

// LocateHulls returns the collision hull nodes of g in ID order.
func LocateHulls(g *scene.Graph) []scene.NodeID {
	return g.NodesOfKind(scene.KindCollisionHull)
}

// meshChildren returns the direct children of id that carry a mesh.
func meshChildren(g *scene.Graph, id scene.NodeID) []*scene.Node {
	var out []*scene.Node
	for _, c := range g.Children(id) {
		if n := g.Node(c); n != nil && n.HasMesh() {
			out = append(out, n)
		}
	}
	return out
}
