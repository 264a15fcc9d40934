// Package scene holds the node graph of a loaded scene asset, its meshes and
// the name-based classification of collision hull nodes.
package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Faultbox/hullforge/pkg/math"
)

// Graph errors.
var (
	ErrUnknownNode   = errors.New("unknown scene node")
	ErrUnknownParent = errors.New("unknown parent node")
)

// NodeID identifies a node within one Graph. The zero value means "no node".
type NodeID uint32

// NoNode is the absent parent of a root node.
const NoNode NodeID = 0

// MeshHandle references a mesh in the asset library. Zero means no mesh.
type MeshHandle uint32

// NoMesh marks a node without a mesh.
const NoMesh MeshHandle = 0

// Node is a single scene graph node.
type Node struct {
	ID        NodeID
	Name      string
	Transform math.Transform
	Mesh      MeshHandle
	Parent    NodeID
	Children  []NodeID

	// Kind is filled in by Graph.Classify.
	Kind Kind
}

// HasMesh reports whether the node carries a mesh reference.
func (n *Node) HasMesh() bool {
	return n.Mesh != NoMesh
}

// Graph is a tree (or forest) of nodes owned by one scene asset.
type Graph struct {
	nodes map[NodeID]*Node
	roots []NodeID
	next  NodeID

	classified bool
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[NodeID]*Node)}
}

// Add creates a node under parent (NoNode for a root) and returns its ID.
func (g *Graph) Add(parent NodeID, name string, t math.Transform) (NodeID, error) {
	if parent != NoNode {
		if _, ok := g.nodes[parent]; !ok {
			return NoNode, fmt.Errorf("%w: %d", ErrUnknownParent, parent)
		}
	}

	g.next++
	id := g.next
	g.nodes[id] = &Node{ID: id, Name: name, Transform: t, Parent: parent}

	if parent == NoNode {
		g.roots = append(g.roots, id)
	} else {
		p := g.nodes[parent]
		p.Children = append(p.Children, id)
	}
	g.classified = false
	return id, nil
}

// SetMesh attaches a mesh reference to a node.
func (g *Graph) SetMesh(id NodeID, mesh MeshHandle) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	n.Mesh = mesh
	g.classified = false
	return nil
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id NodeID) *Node {
	return g.nodes[id]
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Roots returns the root node IDs in insertion order.
func (g *Graph) Roots() []NodeID {
	return slices.Clone(g.roots)
}

// Children returns a copy of the direct children of id.
func (g *Graph) Children(id NodeID) []NodeID {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return slices.Clone(n.Children)
}

// IDs returns all node IDs in ascending (creation) order.
func (g *Graph) IDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Walk visits every node depth-first, parents before children. Returning false
// from fn skips the node's subtree.
func (g *Graph) Walk(fn func(n *Node) bool) {
	var visit func(id NodeID)
	visit = func(id NodeID) {
		n := g.nodes[id]
		if n == nil || !fn(n) {
			return
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, r := range g.roots {
		visit(r)
	}
}

// Detach unlinks a node from its parent, turning it into a root.
func (g *Graph) Detach(id NodeID) {
	n, ok := g.nodes[id]
	if !ok || n.Parent == NoNode {
		return
	}
	if p, ok := g.nodes[n.Parent]; ok {
		p.Children = slices.DeleteFunc(p.Children, func(c NodeID) bool { return c == id })
	}
	n.Parent = NoNode
	g.roots = append(g.roots, id)
}

// Remove detaches a node and destroys it together with all descendants.
// Removing an unknown node is a no-op.
func (g *Graph) Remove(id NodeID) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	g.Detach(id)
	g.roots = slices.DeleteFunc(g.roots, func(r NodeID) bool { return r == id })

	// Collect the subtree first, then delete.
	var doomed []NodeID
	var collect func(NodeID)
	collect = func(cur NodeID) {
		doomed = append(doomed, cur)
		for _, c := range g.nodes[cur].Children {
			collect(c)
		}
	}
	collect(id)
	for _, d := range doomed {
		delete(g.nodes, d)
	}
}
