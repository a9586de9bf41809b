package grove

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// notifyEpsilon is the largest coordinate change that is not reported to
// bounds listeners. Propagation still uses exact comparison.
const notifyEpsilon = 1e-13

// --- Reads ---

// SelfBounds returns the bounds of the node's own content in its local frame.
func (n *Node) SelfBounds() Bounds {
	n.ValidateBounds()
	return n.selfBounds
}

// ChildBounds returns the union of the children's bounds in the local frame.
func (n *Node) ChildBounds() Bounds {
	n.ValidateBounds()
	return n.childBounds
}

// LocalBounds returns self ∪ child bounds (clipped), or the override set with
// SetLocalBounds.
func (n *Node) LocalBounds() Bounds {
	if n.localBoundsOverridden {
		return n.localBounds
	}
	n.ValidateBounds()
	return n.localBounds
}

// Bounds returns the node's total bounds in its parent's frame.
func (n *Node) Bounds() Bounds {
	n.ValidateBounds()
	return n.bounds
}

// Width returns the width of Bounds.
func (n *Node) Width() float64 {
	return n.Bounds().Width()
}

// Height returns the height of Bounds.
func (n *Node) Height() float64 {
	return n.Bounds().Height()
}

// VisibleBounds returns the bounds of the visible part of the subtree in the
// parent frame. Invisible nodes contribute nothing. It is computed on demand
// and not cached.
func (n *Node) VisibleBounds() Bounds {
	if !n.visible {
		return Nothing
	}
	n.ValidateBounds()
	return n.visibleLocalBounds().Transformed(n.transform.Matrix())
}

func (n *Node) visibleLocalBounds() Bounds {
	if n.localBoundsOverridden {
		return n.localBounds
	}
	b := n.selfBounds
	for _, c := range n.children {
		if c.visible {
			b = b.Union(c.VisibleBounds())
		}
	}
	if n.clipArea != nil {
		b = b.Intersection(*n.clipArea)
	}
	return b
}

// --- Settling ---

// ValidateBounds brings every cached bounds value in the subtree of n up to
// date, notifying listeners of each change.
//
// Nodes are settled children-first from an explicit stack. A listener may
// invalidate anything, including nodes already settled; such nodes are pushed
// again until the subtree is clean. Settling a node a second time in one call
// counts as a re-settle. Re-settles only come from listener side effects, and
// their number is capped by the diagnostics settle limit; exceeding it panics
// with ErrSettleLimit. The size of the graph does not count towards the cap.
func (n *Node) ValidateBounds() {
	if !n.anyBoundsDirty() {
		return
	}
	limit := n.diag.settleLimit()
	steps, resettles := 0, 0
	settled := make(map[*Node]struct{})
	stack := []*Node{n}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		if !node.anyBoundsDirty() {
			stack = stack[:len(stack)-1]
			continue
		}
		steps++
		if node.childBoundsDirty && node.hasDirtyChild() {
			for i := len(node.children) - 1; i >= 0; i-- {
				if c := node.children[i]; c.anyBoundsDirty() {
					stack = append(stack, c)
				}
			}
			continue
		}
		if _, again := settled[node]; again {
			resettles++
			if limit > 0 && resettles > limit {
				err := fmt.Errorf("%w: node %d still dirty after %d re-settles", ErrSettleLimit, n.id, limit)
				n.diag.settleLimitExceeded(n, err)
				panic(err.Error())
			}
		} else {
			settled[node] = struct{}{}
		}
		node.settle()
	}
	n.diag.recordSettle(steps)

	if n.diag.slowAudit() {
		if err := n.AuditBounds(); err != nil {
			panic(err.Error())
		}
	}
}

func (n *Node) hasDirtyChild() bool {
	for _, c := range n.children {
		if c.anyBoundsDirty() {
			return true
		}
	}
	return false
}

// settle runs one pass of the four bounds steps on n, whose children are
// all clean. A step is skipped while an earlier one is dirty; listeners that
// re-dirty n leave it on the stack for another pass.
func (n *Node) settle() {
	if n.selfBoundsDirty {
		n.selfBoundsDirty = false
		old := n.selfBounds
		if b := n.computeSelfBounds(); !old.Equals(b) {
			n.selfBounds = b
			n.localBoundsDirty = true
			n.boundsDirty = true
			n.notifyBounds(BoundsSelf, old, b)
		}
	}

	if n.childBoundsDirty {
		if n.hasDirtyChild() {
			return
		}
		n.childBoundsDirty = false
		old := n.childBounds
		if b := n.computeChildBounds(); !old.Equals(b) {
			n.childBounds = b
			n.localBoundsDirty = true
			n.boundsDirty = true
			n.notifyBounds(BoundsChild, old, b)
		}
	}

	if n.selfBoundsDirty || n.childBoundsDirty {
		return
	}
	if n.localBoundsDirty {
		n.localBoundsDirty = false
		if !n.localBoundsOverridden {
			old := n.localBounds
			if b := n.computeLocalBounds(); !old.Equals(b) {
				n.localBounds = b
				n.boundsDirty = true
				n.notifyBounds(BoundsLocal, old, b)
			}
		}
		n.updateMaxDimension()
	}

	if n.selfBoundsDirty || n.childBoundsDirty || n.localBoundsDirty {
		return
	}
	if n.boundsDirty {
		n.boundsDirty = false
		old := n.bounds
		if b := n.computeTotalBounds(); !old.Equals(b) {
			n.bounds = b
			n.invalidateParents()
			n.notifyBounds(BoundsTotal, old, b)
		}
	}
}

func (n *Node) computeSelfBounds() Bounds {
	if n.content == nil {
		return Nothing
	}
	return n.content.SelfBounds()
}

// computeChildBounds unions the cached total bounds of the children.
func (n *Node) computeChildBounds() Bounds {
	b := Nothing
	for _, c := range n.children {
		if n.excludeInvisibleChildrenFromBounds && !c.visible {
			continue
		}
		b = b.Union(c.bounds)
	}
	return b
}

func (n *Node) computeLocalBounds() Bounds {
	b := n.selfBounds.Union(n.childBounds)
	if n.clipArea != nil {
		b = b.Intersection(*n.clipArea)
	}
	return b
}

func (n *Node) computeTotalBounds() Bounds {
	m := n.transform.Matrix()
	if n.transformBounds && !n.localBoundsOverridden && !isAxisAligned(m) {
		return n.transformedSubtreeBounds(m)
	}
	return n.localBounds.Transformed(m)
}

// transformedSubtreeBounds returns the exact bounds of the subtree of n
// mapped through m, which includes n's own matrix. Content that implements
// ExactContent supplies its own transformed bounds; other content falls back
// to the transformed self box.
func (n *Node) transformedSubtreeBounds(m ebiten.GeoM) Bounds {
	if n.localBoundsOverridden {
		return n.localBounds.Transformed(m)
	}
	b := Nothing
	if exact, ok := n.content.(ExactContent); ok {
		b = exact.TransformedSelfBounds(m)
	} else if n.content != nil {
		b = n.computeSelfBounds().Transformed(m)
	}
	for _, c := range n.children {
		if n.excludeInvisibleChildrenFromBounds && !c.visible {
			continue
		}
		b = b.Union(c.transformedSubtreeBounds(multiplyMatrix(m, c.transform.Matrix())))
	}
	if n.clipArea != nil {
		b = b.Intersection(n.clipArea.Transformed(m))
	}
	return b
}

// idealScale returns the uniform scale that fits local into the max width and
// height, never above 1.
func (n *Node) idealScale(local Bounds) float64 {
	scale := 1.0
	if !local.IsValid() {
		return scale
	}
	if n.maxWidth != nil && local.Width() > *n.maxWidth {
		scale = min(scale, *n.maxWidth/local.Width())
	}
	if n.maxHeight != nil && local.Height() > *n.maxHeight {
		scale = min(scale, *n.maxHeight/local.Height())
	}
	return scale
}

// updateMaxDimension rescales the node so its local bounds fit MaxWidth and
// MaxHeight. The scale applied last time is tracked so that removing or
// relaxing a limit undoes it. The transform change re-dirties the total
// bounds, which the caller picks up on its next pass.
func (n *Node) updateMaxDimension() {
	if n.maxWidth == nil && n.maxHeight == nil && n.appliedScaleFactor == 1 {
		return
	}
	ideal := n.idealScale(n.localBounds)
	if ideal <= 0 {
		return
	}
	adjust := ideal / n.appliedScaleFactor
	if adjust == 1 {
		return
	}
	n.appliedScaleFactor = ideal
	if err := n.transform.Append(scaleMatrix(adjust, adjust)); err != nil {
		n.diag.logger().Error("max dimension rescale rejected", "node", n.id, "err", err)
	}
}

// AppliedScaleFactor returns the scale currently applied by MaxWidth and
// MaxHeight (1 when neither limits the node).
func (n *Node) AppliedScaleFactor() float64 {
	return n.appliedScaleFactor
}

func (n *Node) notifyBounds(kind BoundsKind, old, b Bounds) {
	if old.EqualsEpsilon(b, notifyEpsilon) {
		return
	}
	n.diag.recordNotification(kind)
	n.boundsEmitters[kind].Emit(BoundsChange{Node: n, Kind: kind, Old: old, New: b})
}

// --- Watched bounds ---

// ValidateWatchedBounds validates only the subtrees that contain a bounds
// listener. A display update calls it once per frame so listeners fire
// without settling parts of the graph nobody observes.
func (n *Node) ValidateWatchedBounds() {
	if n.boundsEventSelfCount > 0 {
		n.ValidateBounds()
		return
	}
	if n.boundsEventCount == 0 {
		return
	}
	for _, c := range n.Children() {
		if c.boundsEventCount > 0 {
			c.ValidateWatchedBounds()
		}
	}
}
