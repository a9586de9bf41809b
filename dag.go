package grove

import (
	"fmt"
	"slices"
)

// --- Insertion ---

// AddChild appends child to the end of n's children (front of paint order).
func (n *Node) AddChild(child *Node) {
	n.insertChild(len(n.children), child, false)
}

// InsertChild inserts child at index. The child keeps any parents it already
// has; the new edge is added alongside them.
//
// Panics if child is nil, already a child of n, n itself, disposed, if index
// is out of range, or if the edge would create a cycle.
func (n *Node) InsertChild(index int, child *Node) {
	n.insertChild(index, child, false)
}

// insertChild performs the insertion. composite suppresses ChildrenChanged so
// a batch operation can emit it once at the end.
func (n *Node) insertChild(index int, child *Node, composite bool) {
	if child == nil {
		panic(fmt.Sprintf("grove: InsertChild: nil child on node %d", n.id))
	}
	n.checkNotDisposed("InsertChild (parent)")
	child.checkNotDisposed("InsertChild (child)")
	if child == n {
		panic(fmt.Sprintf("grove: InsertChild: node %d cannot be its own child", n.id))
	}
	if n.HasChild(child) {
		panic(fmt.Sprintf("grove: InsertChild: node %d is already a child of node %d", child.id, n.id))
	}
	if index < 0 || index > len(n.children) {
		panic(fmt.Sprintf("grove: InsertChild: index %d out of range [0, %d] on node %d", index, len(n.children), n.id))
	}
	if child.IsAncestorOf(n) {
		panic(fmt.Sprintf("grove: InsertChild: adding node %d under node %d would create a cycle", child.id, n.id))
	}
	if n.diag.slowAudit() && !n.CanAddChild(child) {
		panic(fmt.Sprintf("grove: InsertChild: topological check rejects node %d under node %d", child.id, n.id))
	}

	child.parents = append(child.parents, n)
	n.children = slices.Insert(n.children, index, child)
	child.adoptCollaborators(n)

	if n.pdom != nil && child.hasPDOMContent() {
		n.pdom.OnPDOMAddChild(n, child)
	}
	if child.boundsEventCount > 0 {
		n.changeBoundsEventCount(1)
	}
	if child.pdomCount > 0 {
		n.changePDOMCount(1)
	}
	n.invalidateChildBounds()

	n.diag.recordChildCount(n)
	n.diag.recordParentCount(child)
	if n.diag.slowAudit() {
		n.assertEdgeConsistency()
		child.assertEdgeConsistency()
	}

	child.ParentAdded.Emit(ChildEvent{Parent: n, Child: child, Index: index})
	n.picker.OnInsertChild(child)
	n.ChildInserted.Emit(ChildEvent{Parent: n, Child: child, Index: index})
	if !composite {
		n.ChildrenChanged.Emit(n)
	}
}

// --- Removal ---

// RemoveChild removes the edge from n to child.
// Panics if child is not a child of n.
func (n *Node) RemoveChild(child *Node) {
	if child == nil {
		panic(fmt.Sprintf("grove: RemoveChild: nil child on node %d", n.id))
	}
	index := n.IndexOfChild(child)
	if index < 0 {
		panic(fmt.Sprintf("grove: RemoveChild: node %d is not a child of node %d", child.id, n.id))
	}
	n.removeChildWithIndex(child, index, false)
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic(fmt.Sprintf("grove: RemoveChildAt: index %d out of range [0, %d) on node %d", index, len(n.children), n.id))
	}
	child := n.children[index]
	n.removeChildWithIndex(child, index, false)
	return child
}

// removeChildWithIndex tears down the edge n -> child, where child sits at
// index. child reports IsGettingRemovedFromParent for the whole call.
func (n *Node) removeChildWithIndex(child *Node, index int, composite bool) {
	if index < 0 || index >= len(n.children) || n.children[index] != child {
		panic(fmt.Sprintf("grove: removeChildWithIndex: node %d is not at index %d of node %d", child.id, index, n.id))
	}
	parentIndex := child.IndexOfParent(n)
	if parentIndex < 0 {
		panic(fmt.Sprintf("grove: removeChildWithIndex: node %d lists node %d as a child but not as a parent", n.id, child.id))
	}

	child.removingFromParent = true

	if n.pdom != nil && child.hasPDOMContent() {
		n.pdom.OnPDOMRemoveChild(n, child)
	}
	if child.boundsEventCount > 0 {
		n.changeBoundsEventCount(-1)
	}
	if child.pdomCount > 0 {
		n.changePDOMCount(-1)
	}

	child.parents = slices.Delete(child.parents, parentIndex, parentIndex+1)
	n.children = slices.Delete(n.children, index, index+1)

	n.invalidateChildBounds()

	if n.diag.slowAudit() {
		n.assertEdgeConsistency()
		child.assertEdgeConsistency()
	}

	child.ParentRemoved.Emit(ChildEvent{Parent: n, Child: child, Index: index})
	n.picker.OnRemoveChild(child)
	n.ChildRemoved.Emit(ChildEvent{Parent: n, Child: child, Index: index})

	child.removingFromParent = false

	if !composite {
		n.ChildrenChanged.Emit(n)
	}
}

// RemoveAllChildren removes every child of n.
func (n *Node) RemoveAllChildren() {
	n.SetChildren(nil)
}

// Detach removes n from all of its parents.
func (n *Node) Detach() {
	for _, p := range slices.Clone(n.parents) {
		p.RemoveChild(n)
	}
}

// ReplaceChild swaps oldChild for newChild at the same index, emitting a single
// ChildrenChanged.
func (n *Node) ReplaceChild(oldChild, newChild *Node) {
	index := n.IndexOfChild(oldChild)
	if index < 0 {
		panic(fmt.Sprintf("grove: ReplaceChild: node %d is not a child of node %d", oldChild.id, n.id))
	}
	if oldChild == newChild {
		return
	}
	n.removeChildWithIndex(oldChild, index, true)
	n.insertChild(index, newChild, true)
	n.ChildrenChanged.Emit(n)
}

// --- Bulk replacement ---

// SetChildren makes n's child list equal to children. Children that stay keep
// their edges (no remove/insert events), so n.SetChildren(n.Children())
// emits nothing.
//
// The diff runs in three phases: remove children not in the new list,
// reorder the retained children in place, then insert the new ones by
// ascending index. ChildrenChanged fires once at the end if anything changed.
func (n *Node) SetChildren(children []*Node) {
	n.checkNotDisposed("SetChildren")
	if dup := firstDuplicate(children); dup != nil {
		panic(fmt.Sprintf("grove: SetChildren: node %d appears twice in the new children of node %d", dup.id, n.id))
	}

	beforeOnly, afterOnly, inBoth := arrayDifference(n.children, children)

	for i := len(beforeOnly) - 1; i >= 0; i-- {
		child := beforeOnly[i]
		n.removeChildWithIndex(child, n.IndexOfChild(child), true)
	}

	if len(n.children) != len(inBoth) {
		panic(fmt.Sprintf("grove: SetChildren: children of node %d changed during removal", n.id))
	}
	minChange, maxChange := -1, -1
	for i, desired := range inBoth {
		if n.children[i] != desired {
			n.children[i] = desired
			if minChange == -1 {
				minChange = i
			}
			maxChange = i
		}
	}
	if minChange != -1 {
		n.onChildrenReordered(minChange, maxChange)
	}

	for _, child := range afterOnly {
		index := slices.Index(children, child)
		if index < len(n.children) && n.children[index] == child {
			continue
		}
		n.insertChild(index, child, true)
	}

	if len(beforeOnly) != 0 || len(afterOnly) != 0 || minChange != -1 {
		n.ChildrenChanged.Emit(n)
	}
}

// --- Reordering ---

// MoveChildToIndex moves child to index, shifting the children in between.
// The relative order of all other children is preserved.
func (n *Node) MoveChildToIndex(child *Node, index int) {
	current := n.IndexOfChild(child)
	if current < 0 {
		panic(fmt.Sprintf("grove: MoveChildToIndex: node %d is not a child of node %d", child.id, n.id))
	}
	if index < 0 || index >= len(n.children) {
		panic(fmt.Sprintf("grove: MoveChildToIndex: index %d out of range [0, %d) on node %d", index, len(n.children), n.id))
	}
	if current == index {
		return
	}
	// Shift elements to fill the gap and open the target slot.
	if current < index {
		copy(n.children[current:], n.children[current+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:current])
	}
	n.children[index] = child
	n.onChildrenReordered(min(current, index), max(current, index))
	n.ChildrenChanged.Emit(n)
}

// MoveChildToFront paints child above all of its siblings.
func (n *Node) MoveChildToFront(child *Node) {
	n.MoveChildToIndex(child, len(n.children)-1)
}

// MoveChildToBack paints child below all of its siblings.
func (n *Node) MoveChildToBack(child *Node) {
	n.MoveChildToIndex(child, 0)
}

// MoveChildForward swaps child with the sibling painted just above it.
func (n *Node) MoveChildForward(child *Node) {
	index := n.IndexOfChild(child)
	if index >= 0 && index < len(n.children)-1 {
		n.MoveChildToIndex(child, index+1)
	}
}

// MoveChildBackward swaps child with the sibling painted just below it.
func (n *Node) MoveChildBackward(child *Node) {
	if index := n.IndexOfChild(child); index > 0 {
		n.MoveChildToIndex(child, index-1)
	}
}

// MoveToFront moves n to the front within every parent.
func (n *Node) MoveToFront() {
	for _, p := range slices.Clone(n.parents) {
		p.MoveChildToFront(n)
	}
}

// MoveToBack moves n to the back within every parent.
func (n *Node) MoveToBack() {
	for _, p := range slices.Clone(n.parents) {
		p.MoveChildToBack(n)
	}
}

// MoveForward moves n one step forward within every parent.
func (n *Node) MoveForward() {
	for _, p := range slices.Clone(n.parents) {
		p.MoveChildForward(n)
	}
}

// MoveBackward moves n one step backward within every parent.
func (n *Node) MoveBackward() {
	for _, p := range slices.Clone(n.parents) {
		p.MoveChildBackward(n)
	}
}

func (n *Node) onChildrenReordered(minIndex, maxIndex int) {
	if n.pdom != nil && n.hasPDOMContent() {
		n.pdom.OnPDOMReorderedChildren(n)
	}
	n.ChildrenReordered.Emit(ReorderEvent{Parent: n, MinIndex: minIndex, MaxIndex: maxIndex})
}

// --- Consistency ---

// assertEdgeConsistency panics unless every child of n lists n as a parent
// and every parent of n lists n as a child.
func (n *Node) assertEdgeConsistency() {
	if err := n.checkEdges(); err != nil {
		panic(err.Error())
	}
}

func (n *Node) checkEdges() error {
	for _, c := range n.children {
		if !slices.Contains(c.parents, n) {
			return fmt.Errorf("%w: node %d has child %d which does not list it as a parent", ErrStructureAudit, n.id, c.id)
		}
	}
	for _, p := range n.parents {
		if !slices.Contains(p.children, n) {
			return fmt.Errorf("%w: node %d has parent %d which does not list it as a child", ErrStructureAudit, n.id, p.id)
		}
	}
	if dup := firstDuplicate(n.children); dup != nil {
		return fmt.Errorf("%w: node %d lists child %d twice", ErrStructureAudit, n.id, dup.id)
	}
	if dup := firstDuplicate(n.parents); dup != nil {
		return fmt.Errorf("%w: node %d lists parent %d twice", ErrStructureAudit, n.id, dup.id)
	}
	if slices.Contains(n.children, n) {
		return fmt.Errorf("%w: node %d is its own child", ErrStructureAudit, n.id)
	}
	return nil
}
