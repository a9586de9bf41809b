package grove

import "fmt"

// Dirty-flag rules:
//
//   - a dirty child or local bounds implies a dirty total bounds;
//   - any dirty flag on a node implies a dirty child bounds on every parent.
//
// The second rule is what lets invalidateChildBounds stop at the first parent
// that is already dirty: everything above it is dirty too.

// invalidateBounds marks the total bounds dirty, e.g. after a transform change.
func (n *Node) invalidateBounds() {
	n.boundsDirty = true
	n.invalidateParents()
}

// invalidateLocalBounds marks local and total bounds dirty.
func (n *Node) invalidateLocalBounds() {
	n.localBoundsDirty = true
	n.boundsDirty = true
	n.invalidateParents()
}

// invalidateChildBounds marks child, local and total bounds dirty, then walks
// up through every parent that is not already marked.
func (n *Node) invalidateChildBounds() {
	if n.childBoundsDirty {
		return
	}
	n.childBoundsDirty = true
	n.localBoundsDirty = true
	n.boundsDirty = true
	n.invalidateParents()
}

func (n *Node) invalidateParents() {
	for _, p := range n.parents {
		p.invalidateChildBounds()
	}
}

// InvalidateSelf tells the node that its content changed shape. The self
// bounds are recomputed from the content on the next validation.
func (n *Node) InvalidateSelf() {
	n.selfBoundsDirty = true
	n.localBoundsDirty = true
	n.boundsDirty = true
	n.invalidateParents()
	n.picker.OnAreaChange()
}

func (n *Node) anyBoundsDirty() bool {
	return n.selfBoundsDirty || n.childBoundsDirty || n.localBoundsDirty || n.boundsDirty
}

// --- Bounds listeners and the watched-subtree count ---

// OnBoundsChange registers fn to run whenever the cached bounds of the given
// kind change by more than the notification epsilon. Registering any bounds
// listener makes the node "watched" for ValidateWatchedBounds.
func (n *Node) OnBoundsChange(kind BoundsKind, fn func(BoundsChange)) ListenerID {
	n.checkNotDisposed("OnBoundsChange")
	return n.boundsEmitters[kind].AddListener(fn)
}

// RemoveBoundsListener unregisters a listener added with OnBoundsChange.
func (n *Node) RemoveBoundsListener(kind BoundsKind, id ListenerID) bool {
	return n.boundsEmitters[kind].RemoveListener(id)
}

// BoundsEventCount returns the number of reasons the subtree rooted at n is
// watched: n's own bounds listeners plus one per watched child.
func (n *Node) BoundsEventCount() int {
	return n.boundsEventCount
}

func (n *Node) onBoundsListenerCount(delta int) {
	n.boundsEventSelfCount += delta
	n.changeBoundsEventCount(delta)
}

// changeBoundsEventCount adjusts the watched count and, when it crosses zero,
// tells every parent that one more (or one fewer) child is watched.
func (n *Node) changeBoundsEventCount(delta int) {
	if delta == 0 {
		return
	}
	zeroBefore := n.boundsEventCount == 0
	n.boundsEventCount += delta
	if n.boundsEventCount < 0 {
		panic(fmt.Sprintf("grove: bounds event count of node %d went negative", n.id))
	}
	zeroAfter := n.boundsEventCount == 0
	if zeroBefore == zeroAfter {
		return
	}
	parentDelta := 1
	if zeroAfter {
		parentDelta = -1
	}
	for _, p := range n.parents {
		p.changeBoundsEventCount(parentDelta)
	}
}

// --- Bounds configuration ---

// SetContent replaces the content that defines the node's self bounds.
func (n *Node) SetContent(c Content) {
	n.content = c
	n.InvalidateSelf()
}

// Content returns the node's content, or nil for a pure container.
func (n *Node) Content() Content {
	return n.content
}

// SetLocalBounds pins the local bounds to *b; no content or structural change
// alters them until SetLocalBounds(nil) restores computed local bounds.
// Pinning the value the node already has fires no notification.
func (n *Node) SetLocalBounds(b *Bounds) {
	if b == nil {
		if !n.localBoundsOverridden {
			return
		}
		n.localBoundsOverridden = false
		n.invalidateLocalBounds()
		return
	}
	old := n.LocalBounds()
	n.localBoundsOverridden = true
	if old.Equals(*b) {
		return
	}
	n.localBounds = *b
	n.invalidateBounds()
	n.notifyBounds(BoundsLocal, old, *b)
}

// IsLocalBoundsOverridden reports whether SetLocalBounds pinned the local bounds.
func (n *Node) IsLocalBoundsOverridden() bool {
	return n.localBoundsOverridden
}

// SetClipArea restricts the local bounds (and picking) to *clip in the local
// frame. nil removes the clip.
func (n *Node) SetClipArea(clip *Bounds) {
	if clip == nil && n.clipArea == nil {
		return
	}
	if clip != nil && n.clipArea != nil && clip.Equals(*n.clipArea) {
		return
	}
	if clip != nil {
		c := *clip
		clip = &c
	}
	n.clipArea = clip
	n.invalidateLocalBounds()
	n.picker.OnAreaChange()
}

// ClipArea returns the clip area, or nil.
func (n *Node) ClipArea() *Bounds {
	if n.clipArea == nil {
		return nil
	}
	c := *n.clipArea
	return &c
}

// SetMaxWidth limits the width of the node's bounds in its parent frame by
// scaling the node down when its local bounds are wider. nil removes the limit.
func (n *Node) SetMaxWidth(w *float64) error {
	v, err := checkDimension("max width", w)
	if err != nil {
		return fmt.Errorf("node %d: %w", n.id, err)
	}
	n.maxWidth = v
	n.invalidateLocalBounds()
	return nil
}

// SetMaxHeight is the vertical counterpart of SetMaxWidth.
func (n *Node) SetMaxHeight(h *float64) error {
	v, err := checkDimension("max height", h)
	if err != nil {
		return fmt.Errorf("node %d: %w", n.id, err)
	}
	n.maxHeight = v
	n.invalidateLocalBounds()
	return nil
}

func checkDimension(what string, v *float64) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	if !isFinite(*v) {
		return nil, fmt.Errorf("%w: %s %v", ErrNonFinite, what, *v)
	}
	if *v <= 0 {
		return nil, fmt.Errorf("%w: %s %v", ErrInvalidDimension, what, *v)
	}
	c := *v
	return &c, nil
}

// SetExcludeInvisibleChildrenFromBounds controls whether invisible children
// contribute to the child bounds.
func (n *Node) SetExcludeInvisibleChildrenFromBounds(exclude bool) {
	if n.excludeInvisibleChildrenFromBounds == exclude {
		return
	}
	n.excludeInvisibleChildrenFromBounds = exclude
	n.invalidateChildBounds()
}

// SetTransformBounds makes the total bounds exact under rotation and skew by
// transforming the content itself instead of the local bounding box. It is
// more expensive: every descendant is visited with a composed matrix.
func (n *Node) SetTransformBounds(exact bool) {
	if n.transformBounds == exact {
		return
	}
	n.transformBounds = exact
	n.invalidateBounds()
}

// --- Visibility ---

// SetVisible shows or hides the node. Parents that exclude invisible children
// from their bounds are invalidated.
func (n *Node) SetVisible(visible bool) {
	if n.visible == visible {
		return
	}
	n.visible = visible
	for _, p := range n.parents {
		if p.excludeInvisibleChildrenFromBounds {
			p.invalidateChildBounds()
		}
	}
	n.picker.OnVisibilityChange()
	n.VisibilityChanged.Emit(n)
}

// IsVisible reports the node's own visibility flag.
func (n *Node) IsVisible() bool {
	return n.visible
}

// SetPickable includes or excludes the subtree from hit testing.
func (n *Node) SetPickable(pickable bool) {
	if n.pickable == pickable {
		return
	}
	n.pickable = pickable
	n.picker.OnPickableChange()
}

// IsPickable reports the node's pickable flag.
func (n *Node) IsPickable() bool {
	return n.pickable
}

// SetOpacity sets the opacity. Values outside [0, 1] are rejected.
func (n *Node) SetOpacity(opacity float64) error {
	if !isFinite(opacity) || opacity < 0 || opacity > 1 {
		return fmt.Errorf("node %d: %w: %v", n.id, ErrOpacityRange, opacity)
	}
	n.opacity = opacity
	return nil
}

// Opacity returns the node's opacity.
func (n *Node) Opacity() float64 {
	return n.opacity
}

// SetMouseArea overrides the region (local frame) that mouse hit testing uses
// for this node and its subtree. nil restores the default.
func (n *Node) SetMouseArea(area *Bounds) {
	n.mouseArea = cloneBounds(area)
	n.picker.OnAreaChange()
}

// SetTouchArea is the touch counterpart of SetMouseArea.
func (n *Node) SetTouchArea(area *Bounds) {
	n.touchArea = cloneBounds(area)
	n.picker.OnAreaChange()
}

func cloneBounds(b *Bounds) *Bounds {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
