package grove

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// GetConnectedNodes returns every node reachable from n by following parent
// and child edges in either direction, n included, in order of discovery.
func (n *Node) GetConnectedNodes() []*Node {
	seen := mapset.NewThreadUnsafeSet[*Node]()
	var result []*Node
	fresh := []*Node{n}
	for len(fresh) > 0 {
		node := fresh[len(fresh)-1]
		fresh = fresh[:len(fresh)-1]
		if !seen.Add(node) {
			continue
		}
		result = append(result, node)
		fresh = append(fresh, node.children...)
		fresh = append(fresh, node.parents...)
	}
	return result
}

// GetSubtreeNodes returns n and all of its descendants, each once, in
// depth-first pre-order.
func (n *Node) GetSubtreeNodes() []*Node {
	seen := mapset.NewThreadUnsafeSet[*Node]()
	var result []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if !seen.Add(node) {
			return
		}
		result = append(result, node)
		for _, c := range node.children {
			walk(c)
		}
	}
	walk(n)
	return result
}

// IsAncestorOf reports whether n can reach other by following child edges.
// A node is not its own ancestor.
func (n *Node) IsAncestorOf(other *Node) bool {
	if other == nil || other == n {
		return false
	}
	seen := mapset.NewThreadUnsafeSet[*Node]()
	stack := append([]*Node(nil), other.parents...)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p == n {
			return true
		}
		if !seen.Add(p) {
			continue
		}
		stack = append(stack, p.parents...)
	}
	return false
}

// IsDescendantOf reports whether other is an ancestor of n.
func (n *Node) IsDescendantOf(other *Node) bool {
	return other != nil && other.IsAncestorOf(n)
}

// CanAddChild reports whether child could be inserted under n without
// creating a cycle. It also returns false when child is n or already a child.
//
// The check runs Kahn's topological sort over the union of both nodes'
// connected components with the hypothetical edge n -> child added.
func (n *Node) CanAddChild(child *Node) bool {
	if child == nil || child == n || n.HasChild(child) {
		return false
	}
	nodes := n.GetConnectedNodes()
	members := mapset.NewThreadUnsafeSet(nodes...)
	for _, node := range child.GetConnectedNodes() {
		if members.Add(node) {
			nodes = append(nodes, node)
		}
	}
	_, acyclic := kahnSort(nodes, n, child)
	return acyclic
}

// GetTopologicallySortedNodes returns the connected component of n ordered so
// that every parent precedes all of its children. Panics if the component
// contains a cycle.
func (n *Node) GetTopologicallySortedNodes() []*Node {
	nodes := n.GetConnectedNodes()
	order, acyclic := kahnSort(nodes, nil, nil)
	if !acyclic {
		panic(fmt.Sprintf("grove: GetTopologicallySortedNodes: cycle in the component of node %d (%d of %d nodes sorted)",
			n.id, len(order), len(nodes)))
	}
	return order
}

// kahnSort runs Kahn's algorithm over nodes, which must be closed under child
// edges. A non-nil extraFrom adds the edge extraFrom -> extraTo. It reports
// false when edges remain after the sort, i.e. the graph has a cycle.
//
// Ready nodes are kept on a stack, so the order is deterministic for a given
// discovery order.
func kahnSort(nodes []*Node, extraFrom, extraTo *Node) ([]*Node, bool) {
	inDegree := make(map[*Node]int, len(nodes))
	for _, node := range nodes {
		for _, c := range node.children {
			inDegree[c]++
		}
	}
	if extraFrom != nil {
		inDegree[extraTo]++
	}

	var ready []*Node
	for _, node := range nodes {
		if inDegree[node] == 0 {
			ready = append(ready, node)
		}
	}

	order := make([]*Node, 0, len(nodes))
	release := func(c *Node) {
		inDegree[c]--
		if inDegree[c] == 0 {
			ready = append(ready, c)
		}
	}
	for len(ready) > 0 {
		node := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		order = append(order, node)
		for _, c := range node.children {
			release(c)
		}
		if node == extraFrom {
			release(extraTo)
		}
	}
	return order, len(order) == len(nodes)
}
