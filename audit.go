package grove

import (
	"fmt"
	"math"
)

// auditEpsilon is the tolerance of AuditBounds. It is looser than
// notifyEpsilon because the incremental engine and the fresh recomputation
// may associate unions and matrix products differently.
const auditEpsilon = 1e-10

type freshBounds struct {
	self, child, local, total Bounds
}

// AuditBounds recomputes every bounds value in the subtree of n from scratch
// and compares it with the cache. It returns an ErrBoundsAudit error
// describing the first mismatch, or nil. The cache must be clean: call
// ValidateBounds first.
func (n *Node) AuditBounds() error {
	memo := make(map[*Node]freshBounds)
	var walk func(*Node) (freshBounds, error)
	walk = func(node *Node) (freshBounds, error) {
		if f, ok := memo[node]; ok {
			return f, nil
		}
		if node.anyBoundsDirty() {
			return freshBounds{}, fmt.Errorf("%w: node %d is still dirty", ErrBoundsAudit, node.id)
		}
		var f freshBounds
		f.self = node.computeSelfBounds()
		f.child = Nothing
		for _, c := range node.children {
			cf, err := walk(c)
			if err != nil {
				return f, err
			}
			if node.excludeInvisibleChildrenFromBounds && !c.visible {
				continue
			}
			f.child = f.child.Union(cf.total)
		}
		if node.localBoundsOverridden {
			f.local = node.localBounds
		} else {
			f.local = f.self.Union(f.child)
			if node.clipArea != nil {
				f.local = f.local.Intersection(*node.clipArea)
			}
		}
		m := node.transform.Matrix()
		if node.transformBounds && !node.localBoundsOverridden && !isAxisAligned(m) {
			f.total = node.transformedSubtreeBounds(m)
		} else {
			f.total = f.local.Transformed(m)
		}

		checks := [...]struct {
			kind          BoundsKind
			cached, fresh Bounds
		}{
			{BoundsSelf, node.selfBounds, f.self},
			{BoundsChild, node.childBounds, f.child},
			{BoundsLocal, node.localBounds, f.local},
			{BoundsTotal, node.bounds, f.total},
		}
		for _, c := range checks {
			if !c.cached.EqualsEpsilon(c.fresh, auditEpsilon) {
				return f, fmt.Errorf("%w: node %d %s bounds cached %v, recomputed %v",
					ErrBoundsAudit, node.id, c.kind, c.cached, c.fresh)
			}
		}
		if ideal := node.idealScale(f.local); math.Abs(ideal-node.appliedScaleFactor) > auditEpsilon {
			return f, fmt.Errorf("%w: node %d applied scale %g, limits require %g",
				ErrBoundsAudit, node.id, node.appliedScaleFactor, ideal)
		}
		memo[node] = f
		return f, nil
	}
	_, err := walk(n)
	return err
}

// AuditStructure checks edge consistency and acyclicity over the connected
// component of n. It returns an ErrStructureAudit error or nil.
func (n *Node) AuditStructure() error {
	nodes := n.GetConnectedNodes()
	for _, node := range nodes {
		if err := node.checkEdges(); err != nil {
			return err
		}
	}
	if order, ok := kahnSort(nodes, nil, nil); !ok {
		return fmt.Errorf("%w: cycle among %d of %d nodes", ErrStructureAudit, len(nodes)-len(order), len(nodes))
	}
	return nil
}
