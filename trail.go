package grove

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Trail is a path through the DAG where each node is a parent of the next.
// It identifies one appearance of its last node in the output. Trails are
// transient: they are not updated when the graph changes, so check IsValid
// before using an old one.
type Trail struct {
	nodes []*Node
}

// NewTrail returns a trail over the given nodes, root first.
func NewTrail(nodes ...*Node) *Trail {
	return &Trail{nodes: slices.Clone(nodes)}
}

// Nodes returns a copy of the nodes, root first.
func (t *Trail) Nodes() []*Node {
	return slices.Clone(t.nodes)
}

// Len returns the number of nodes in the trail.
func (t *Trail) Len() int {
	return len(t.nodes)
}

// At returns the node at index i.
func (t *Trail) At(i int) *Node {
	return t.nodes[i]
}

// RootNode returns the first node, or nil for an empty trail.
func (t *Trail) RootNode() *Node {
	if len(t.nodes) == 0 {
		return nil
	}
	return t.nodes[0]
}

// LastNode returns the node the trail leads to, or nil for an empty trail.
func (t *Trail) LastNode() *Node {
	if len(t.nodes) == 0 {
		return nil
	}
	return t.nodes[len(t.nodes)-1]
}

// Copy returns an independent copy.
func (t *Trail) Copy() *Trail {
	return NewTrail(t.nodes...)
}

// AddAncestor prepends node.
func (t *Trail) AddAncestor(node *Node) *Trail {
	t.nodes = slices.Insert(t.nodes, 0, node)
	return t
}

// RemoveAncestor drops the root node.
func (t *Trail) RemoveAncestor() *Trail {
	if len(t.nodes) == 0 {
		panic("grove: Trail.RemoveAncestor: empty trail")
	}
	t.nodes = slices.Delete(t.nodes, 0, 1)
	return t
}

// AddDescendant appends node.
func (t *Trail) AddDescendant(node *Node) *Trail {
	t.nodes = append(t.nodes, node)
	return t
}

// RemoveDescendant drops the last node.
func (t *Trail) RemoveDescendant() *Trail {
	if len(t.nodes) == 0 {
		panic("grove: Trail.RemoveDescendant: empty trail")
	}
	t.nodes = t.nodes[:len(t.nodes)-1]
	return t
}

// IsValid reports whether every consecutive pair is still a parent/child
// edge and no node has been disposed.
func (t *Trail) IsValid() bool {
	for i, node := range t.nodes {
		if node == nil || node.disposed {
			return false
		}
		if i > 0 && !t.nodes[i-1].HasChild(node) {
			return false
		}
	}
	return true
}

// Equals reports whether both trails visit the same nodes in the same order.
func (t *Trail) Equals(o *Trail) bool {
	return o != nil && slices.Equal(t.nodes, o.nodes)
}

// ContainsNode reports whether node is on the trail.
func (t *Trail) ContainsNode(node *Node) bool {
	return slices.Contains(t.nodes, node)
}

// Indices returns, for each node after the root, its index among its
// predecessor's children. Panics if the trail is no longer valid.
func (t *Trail) Indices() []int {
	if len(t.nodes) < 2 {
		return nil
	}
	indices := make([]int, len(t.nodes)-1)
	for i := 1; i < len(t.nodes); i++ {
		index := t.nodes[i-1].IndexOfChild(t.nodes[i])
		if index < 0 {
			panic(fmt.Sprintf("grove: Trail.Indices: node %d is no longer a child of node %d", t.nodes[i].id, t.nodes[i-1].id))
		}
		indices[i-1] = index
	}
	return indices
}

// String implements fmt.Stringer.
func (t *Trail) String() string {
	parts := make([]string, len(t.nodes))
	for i, node := range t.nodes {
		parts[i] = node.String()
	}
	return "[" + strings.Join(parts, " > ") + "]"
}

// LocalToGlobalMatrix composes every matrix on the trail: it maps the last
// node's local frame into the root's parent frame.
func (t *Trail) LocalToGlobalMatrix() ebiten.GeoM {
	return t.matrixUpTo(len(t.nodes))
}

// ParentToGlobalMatrix maps the last node's parent frame into the root's
// parent frame.
func (t *Trail) ParentToGlobalMatrix() ebiten.GeoM {
	return t.matrixUpTo(len(t.nodes) - 1)
}

func (t *Trail) matrixUpTo(end int) ebiten.GeoM {
	var m ebiten.GeoM
	for i := end - 1; i >= 0; i-- {
		m.Concat(t.nodes[i].transform.Matrix())
	}
	return m
}

// LocalToGlobalPoint maps a point in the last node's frame to the global frame.
func (t *Trail) LocalToGlobalPoint(x, y float64) (float64, float64) {
	m := t.LocalToGlobalMatrix()
	return m.Apply(x, y)
}

// GlobalToLocalPoint maps a global point into the last node's frame.
func (t *Trail) GlobalToLocalPoint(x, y float64) (float64, float64) {
	inv := invertMatrix(t.LocalToGlobalMatrix())
	return inv.Apply(x, y)
}

// --- Enumeration ---

// TrailPredicate selects the nodes at which trail enumeration stops.
type TrailPredicate func(*Node) bool

func isRootNode(n *Node) bool { return len(n.parents) == 0 }
func isLeafNode(n *Node) bool { return len(n.children) == 0 }

// GetTrails returns every trail that ends at n and starts at a node matching
// pred. Upward expansion stops at the first match on each path. A nil pred
// matches nodes without parents, so the result is every root-to-n path.
func (n *Node) GetTrails(pred TrailPredicate) []*Trail {
	if pred == nil {
		pred = isRootNode
	}
	var trails []*Trail
	trail := NewTrail(n)
	var walk func()
	walk = func() {
		root := trail.RootNode()
		if pred(root) {
			trails = append(trails, trail.Copy())
			return
		}
		for _, p := range slices.Clone(root.parents) {
			trail.AddAncestor(p)
			walk()
			trail.RemoveAncestor()
		}
	}
	walk()
	return trails
}

// GetLeafTrails returns every trail that starts at n and ends at a node
// matching pred. A nil pred matches nodes without children.
func (n *Node) GetLeafTrails(pred TrailPredicate) []*Trail {
	if pred == nil {
		pred = isLeafNode
	}
	var trails []*Trail
	trail := NewTrail(n)
	var walk func()
	walk = func() {
		last := trail.LastNode()
		if pred(last) {
			trails = append(trails, trail.Copy())
			return
		}
		for _, c := range slices.Clone(last.children) {
			trail.AddDescendant(c)
			walk()
			trail.RemoveDescendant()
		}
	}
	walk()
	return trails
}

// GetUniqueTrail returns the only trail to n. With a nil pred it follows the
// single parent up to a root and panics at any node with several parents.
// With a pred it enumerates GetTrails(pred) and panics unless there is
// exactly one.
func (n *Node) GetUniqueTrail(pred TrailPredicate) *Trail {
	if pred != nil {
		trails := n.GetTrails(pred)
		if len(trails) != 1 {
			panic(fmt.Sprintf("grove: GetUniqueTrail: node %d has %d matching trails, want 1", n.id, len(trails)))
		}
		return trails[0]
	}
	trail := NewTrail(n)
	for node := n; len(node.parents) > 0; node = node.parents[0] {
		if len(node.parents) > 1 {
			panic(fmt.Sprintf("grove: GetUniqueTrail: node %d has %d parents", node.id, len(node.parents)))
		}
		trail.AddAncestor(node.parents[0])
	}
	return trail
}

// GetUniqueTrailTo returns the only trail from root to n.
func (n *Node) GetUniqueTrailTo(root *Node) *Trail {
	return n.GetUniqueTrail(func(node *Node) bool { return node == root })
}

// GetUniqueLeafTrail returns the only trail from n down to a node matching
// pred (nil matches leaves). Panics unless there is exactly one.
func (n *Node) GetUniqueLeafTrail(pred TrailPredicate) *Trail {
	trails := n.GetLeafTrails(pred)
	if len(trails) != 1 {
		panic(fmt.Sprintf("grove: GetUniqueLeafTrail: node %d has %d matching leaf trails, want 1", n.id, len(trails)))
	}
	return trails[0]
}
