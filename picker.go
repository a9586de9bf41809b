package grove

// pickMode indexes the pick-bounds cache: bit 0 is mouse, bit 1 is touch.
type pickMode uint8

func newPickMode(isMouse, isTouch bool) pickMode {
	var m pickMode
	if isMouse {
		m |= 1
	}
	if isTouch {
		m |= 2
	}
	return m
}

// BoundsPicker is the default Picker. It walks children front to back and
// tests content with ContainsPoint when the content implements HitContent,
// otherwise with its self bounds. A mouse or touch area replaces the whole
// subtree for that kind of input.
//
// The local pickable area of the subtree is cached per input mode and used to
// reject points early. Changes invalidate the cache up through every parent.
type BoundsPicker struct {
	node   *Node
	bounds [4]Bounds
	valid  [4]bool
}

// NewBoundsPicker returns a picker for n.
func NewBoundsPicker(n *Node) *BoundsPicker {
	return &BoundsPicker{node: n}
}

// Change notifications. Structural and area changes drop this node's cache;
// the others only affect the parents' caches.

func (p *BoundsPicker) OnInsertChild(*Node) { p.invalidate() }
func (p *BoundsPicker) OnRemoveChild(*Node) { p.invalidate() }
func (p *BoundsPicker) OnTransformChange() { p.invalidateParents() }
func (p *BoundsPicker) OnVisibilityChange() { p.invalidateParents() }
func (p *BoundsPicker) OnPickableChange() { p.invalidateParents() }
func (p *BoundsPicker) OnAreaChange() { p.invalidate() }

func (p *BoundsPicker) invalidate() {
	if p.valid == ([4]bool{}) {
		return
	}
	p.valid = [4]bool{}
	p.invalidateParents()
}

func (p *BoundsPicker) invalidateParents() {
	for _, parent := range p.node.parents {
		parent.picker.OnAreaChange()
	}
}

// HitTest implements Picker.
func (p *BoundsPicker) HitTest(x, y float64, isMouse, isTouch bool) *Trail {
	n := p.node
	if !n.visible || !n.pickable {
		return nil
	}
	lx, ly := n.transform.InversePoint(x, y)
	mode := newPickMode(isMouse, isTouch)
	if !p.localPickBounds(mode).Contains(lx, ly) {
		return nil
	}
	if area := n.inputArea(isMouse, isTouch); area != nil {
		return NewTrail(n)
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if t := n.children[i].picker.HitTest(lx, ly, isMouse, isTouch); t != nil {
			return t.AddAncestor(n)
		}
	}
	if n.contentContains(lx, ly) {
		return NewTrail(n)
	}
	return nil
}

// localPickBounds returns the box, in n's local frame, outside of which no
// point can hit the subtree.
func (p *BoundsPicker) localPickBounds(mode pickMode) Bounds {
	if p.valid[mode] {
		return p.bounds[mode]
	}
	n := p.node
	var b Bounds
	if area := n.inputArea(mode&1 != 0, mode&2 != 0); area != nil {
		b = *area
	} else {
		b = Nothing
		if n.content != nil {
			b = n.SelfBounds()
		}
		for _, c := range n.children {
			if !c.visible || !c.pickable {
				continue
			}
			b = b.Union(c.parentPickBounds(mode))
		}
		if n.clipArea != nil {
			b = b.Intersection(*n.clipArea)
		}
	}
	p.bounds[mode] = b
	p.valid[mode] = true
	return b
}

// parentPickBounds returns the pickable area of n in its parent's frame.
// Nodes with a custom picker fall back to their total bounds.
func (n *Node) parentPickBounds(mode pickMode) Bounds {
	if bp, ok := n.picker.(*BoundsPicker); ok {
		return bp.localPickBounds(mode).Transformed(n.transform.Matrix())
	}
	return n.Bounds()
}

// inputArea returns the area that overrides hit testing for the given input,
// or nil.
func (n *Node) inputArea(isMouse, isTouch bool) *Bounds {
	if isMouse && n.mouseArea != nil {
		return n.mouseArea
	}
	if isTouch && n.touchArea != nil {
		return n.touchArea
	}
	return nil
}

func (n *Node) contentContains(x, y float64) bool {
	if n.content == nil {
		return false
	}
	if hc, ok := n.content.(HitContent); ok {
		return hc.ContainsPoint(x, y)
	}
	return n.SelfBounds().Contains(x, y)
}
