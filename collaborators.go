package grove

import (
	"fmt"
	"slices"
)

// Picker answers hit tests for the subtree of one node. The node notifies it
// of every change that can move its pickable area; implementations cache
// whatever they like and invalidate on these calls.
type Picker interface {
	OnInsertChild(child *Node)
	OnRemoveChild(child *Node)
	OnTransformChange()
	OnVisibilityChange()
	OnPickableChange()
	OnAreaChange()

	// HitTest returns the trail from the node down to the topmost node under
	// (x, y), given in the node's parent frame, or nil.
	HitTest(x, y float64, isMouse, isTouch bool) *Trail
}

// PDOMObserver mirrors structure into an accessibility tree. It is only
// called for subtrees that contain accessible content (a non-empty tag name).
type PDOMObserver interface {
	OnPDOMAddChild(parent, child *Node)
	OnPDOMRemoveChild(parent, child *Node)
	OnPDOMReorderedChildren(parent *Node)
}

// Instance is a display's handle for one appearance of a node.
type Instance interface {
	Trail() *Trail
}

// Display draws a graph starting at its root node.
type Display interface {
	Root() *Node
	IsUpdating() bool
}

// --- Picker ---

// SetPicker replaces the node's picker. nil restores a BoundsPicker.
func (n *Node) SetPicker(p Picker) {
	if p == nil {
		p = NewBoundsPicker(n)
	}
	n.picker = p
	for _, parent := range n.parents {
		parent.picker.OnAreaChange()
	}
}

// Picker returns the node's picker.
func (n *Node) Picker() Picker {
	return n.picker
}

// HitTest returns the trail from n to the topmost pickable node under (x, y)
// in n's parent frame, or nil.
func (n *Node) HitTest(x, y float64, isMouse, isTouch bool) *Trail {
	return n.picker.HitTest(x, y, isMouse, isTouch)
}

// --- Accessibility ---

// SetPDOMObserver installs the accessibility observer and hands it to every
// descendant that has none. Nodes inserted later pick it up the same way.
func (n *Node) SetPDOMObserver(o PDOMObserver) {
	n.pdom = o
	if o == nil {
		return
	}
	for _, node := range n.GetSubtreeNodes() {
		if node.pdom == nil {
			node.pdom = o
		}
	}
}

// SetTagName marks the node as accessible content when tag is non-empty.
func (n *Node) SetTagName(tag string) {
	had := n.tagName != ""
	n.tagName = tag
	if has := tag != ""; has != had {
		if has {
			n.changePDOMCount(1)
		} else {
			n.changePDOMCount(-1)
		}
	}
}

// TagName returns the accessibility tag, or "".
func (n *Node) TagName() string {
	return n.tagName
}

// hasPDOMContent reports whether any node in the subtree has a tag name.
func (n *Node) hasPDOMContent() bool {
	return n.pdomCount > 0
}

// changePDOMCount adjusts the accessible-content count and, when it crosses
// zero, tells every parent that one more (or one fewer) child has content.
func (n *Node) changePDOMCount(delta int) {
	zeroBefore := n.pdomCount == 0
	n.pdomCount += delta
	if n.pdomCount < 0 {
		panic(fmt.Sprintf("grove: accessible content count of node %d went negative", n.id))
	}
	zeroAfter := n.pdomCount == 0
	if zeroBefore == zeroAfter {
		return
	}
	parentDelta := 1
	if zeroAfter {
		parentDelta = -1
	}
	for _, p := range n.parents {
		p.changePDOMCount(parentDelta)
	}
}

// adoptCollaborators hands the parent's diagnostics and accessibility
// observer to every node of n's subtree that has none. A node that already
// has a collaborator has descendants that have one too, so the walk stops at
// nodes with nothing to adopt.
func (n *Node) adoptCollaborators(parent *Node) {
	diag, pdom := parent.diag, parent.pdom
	if diag == nil && pdom == nil {
		return
	}
	var walk func(*Node)
	walk = func(node *Node) {
		adopted := false
		if diag != nil && node.diag == nil {
			node.diag = diag
			adopted = true
		}
		if pdom != nil && node.pdom == nil {
			node.pdom = pdom
			adopted = true
		}
		if !adopted {
			return
		}
		for _, c := range node.children {
			walk(c)
		}
	}
	walk(n)
}

// --- Instances and displays ---

// AddInstance registers a display instance for one appearance of n.
func (n *Node) AddInstance(inst Instance) {
	if inst == nil {
		panic(fmt.Sprintf("grove: AddInstance: nil instance on node %d", n.id))
	}
	n.instances = append(n.instances, inst)
}

// RemoveInstance unregisters inst. Panics if it was never added.
func (n *Node) RemoveInstance(inst Instance) {
	i := slices.Index(n.instances, inst)
	if i < 0 {
		panic(fmt.Sprintf("grove: RemoveInstance: instance not registered on node %d", n.id))
	}
	n.instances = slices.Delete(n.instances, i, i+1)
}

// Instances returns a copy of the registered instances.
func (n *Node) Instances() []Instance {
	return slices.Clone(n.instances)
}

// AddRootedDisplay records that d uses n as its root.
func (n *Node) AddRootedDisplay(d Display) {
	if d == nil {
		panic(fmt.Sprintf("grove: AddRootedDisplay: nil display on node %d", n.id))
	}
	n.rootedDisplays = append(n.rootedDisplays, d)
}

// RemoveRootedDisplay forgets d. Panics if it was never added.
func (n *Node) RemoveRootedDisplay(d Display) {
	i := slices.Index(n.rootedDisplays, d)
	if i < 0 {
		panic(fmt.Sprintf("grove: RemoveRootedDisplay: display not registered on node %d", n.id))
	}
	n.rootedDisplays = slices.Delete(n.rootedDisplays, i, i+1)
}

// RootedDisplays returns a copy of the displays rooted at n.
func (n *Node) RootedDisplays() []Display {
	return slices.Clone(n.rootedDisplays)
}

// WasVisuallyDisplayed reports whether any instance of n is registered.
func (n *Node) WasVisuallyDisplayed() bool {
	return len(n.instances) > 0
}
