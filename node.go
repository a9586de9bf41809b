package grove

import (
	"fmt"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- ID counter ---

// nodeIDCounter is a plain counter; grove is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is a vertex of the scene DAG. A node may have any number of parents, so
// one subtree can appear at several places in the output; each appearance is
// described by a Trail.
//
// All cached bounds start as Nothing with their dirty flags set and are
// recomputed lazily by the bounds accessors or ValidateBounds.
type Node struct {
	// Identity
	id   uint32
	Name string

	// Hierarchy. children is ordered (later paints on top); parents has set
	// semantics and is kept in order of discovery.
	children []*Node
	parents  []*Node

	transform *Transform
	content   Content

	// Visibility & interaction
	visible   bool
	pickable  bool
	opacity   float64
	mouseArea *Bounds
	touchArea *Bounds

	// Bounds configuration
	clipArea                           *Bounds
	maxWidth, maxHeight                *float64
	appliedScaleFactor                 float64
	excludeInvisibleChildrenFromBounds bool
	transformBounds                    bool
	localBoundsOverridden              bool

	// Cached bounds and their dirty flags
	selfBounds, childBounds, localBounds, bounds                     Bounds
	selfBoundsDirty, childBoundsDirty, localBoundsDirty, boundsDirty bool

	// boundsEventSelfCount counts listeners on this node's bounds emitters.
	// boundsEventCount is boundsEventSelfCount plus the number of children
	// whose own boundsEventCount is non-zero.
	boundsEventSelfCount int
	boundsEventCount     int
	boundsEmitters       [len(boundsKinds)]Emitter[BoundsChange]

	// Collaborators
	picker         Picker
	pdom           PDOMObserver
	tagName        string
	pdomCount      int
	renderers      *RendererSet
	instances      []Instance
	rootedDisplays []Display
	diag           *Diagnostics

	// Structural events. Listeners run synchronously inside the mutation.
	ChildInserted     Emitter[ChildEvent]
	ChildRemoved      Emitter[ChildEvent]
	ChildrenReordered Emitter[ReorderEvent]
	ChildrenChanged   Emitter[*Node]
	ParentAdded       Emitter[ChildEvent]
	ParentRemoved     Emitter[ChildEvent]
	TransformChanged  Emitter[*Node]
	VisibilityChanged Emitter[*Node]

	// Metadata
	UserData any

	// Internal
	removingFromParent bool
	disposed           bool
}

// NewNode creates an empty node: identity transform, visible, pickable,
// opaque, no content and no edges.
func NewNode(name string) *Node {
	n := &Node{
		id:                 nextNodeID(),
		Name:               name,
		visible:            true,
		pickable:           true,
		opacity:            1,
		appliedScaleFactor: 1,
		selfBounds:         Nothing,
		childBounds:        Nothing,
		localBounds:        Nothing,
		bounds:             Nothing,
		selfBoundsDirty:    true,
		childBoundsDirty:   true,
		localBoundsDirty:   true,
		boundsDirty:        true,
	}
	n.transform = NewTransform(ebiten.GeoM{}, n.onTransformChange)
	n.picker = NewBoundsPicker(n)
	for i := range n.boundsEmitters {
		n.boundsEmitters[i].onCount = n.onBoundsListenerCount
	}
	return n
}

// NewNodeWith creates a node and applies opts to it.
func NewNodeWith(name string, opts Options) (*Node, error) {
	n := NewNode(name)
	if err := n.Mutate(opts); err != nil {
		return nil, err
	}
	return n, nil
}

// ID returns the process-unique id assigned at creation. It never changes,
// not even after Dispose.
func (n *Node) ID() uint32 {
	return n.id
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	if n.Name == "" {
		return fmt.Sprintf("#%d", n.id)
	}
	return fmt.Sprintf("%s#%d", n.Name, n.id)
}

// --- Structure accessors ---

// Children returns a copy of the child list in paint order.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic(fmt.Sprintf("grove: ChildAt: index %d out of range [0, %d) on node %d", index, len(n.children), n.id))
	}
	return n.children[index]
}

// HasChild reports whether child is a direct child of n.
func (n *Node) HasChild(child *Node) bool {
	return slices.Contains(n.children, child)
}

// IndexOfChild returns the index of child, or -1.
func (n *Node) IndexOfChild(child *Node) int {
	return slices.Index(n.children, child)
}

// Parents returns a copy of the parent list.
func (n *Node) Parents() []*Node {
	return slices.Clone(n.parents)
}

// NumParents returns the number of parents.
func (n *Node) NumParents() int {
	return len(n.parents)
}

// HasParent reports whether parent is a direct parent of n.
func (n *Node) HasParent(parent *Node) bool {
	return slices.Contains(n.parents, parent)
}

// IndexOfParent returns the index of parent in the parent list, or -1.
func (n *Node) IndexOfParent(parent *Node) int {
	return slices.Index(n.parents, parent)
}

// Parent returns the single parent of n, or nil for a root.
// Panics if n has more than one parent: "the" parent is ambiguous.
func (n *Node) Parent() *Node {
	switch len(n.parents) {
	case 0:
		return nil
	case 1:
		return n.parents[0]
	default:
		panic(fmt.Sprintf("grove: Parent: node %d has %d parents", n.id, len(n.parents)))
	}
}

// IsGettingRemovedFromParent reports whether n is in the middle of being
// removed from a parent. Collaborators notified during a removal use it to
// tell an in-progress removal from a finished one.
func (n *Node) IsGettingRemovedFromParent() bool {
	return n.removingFromParent
}

// --- Disposal ---

// Dispose detaches n from all parents and children, drops every listener and
// marks n as disposed. Children are not disposed; see DisposeSubtree.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.Detach()
	n.RemoveAllChildren()
	for i := range n.boundsEmitters {
		n.boundsEmitters[i].removeAll()
	}
	n.ChildInserted.removeAll()
	n.ChildRemoved.removeAll()
	n.ChildrenReordered.removeAll()
	n.ChildrenChanged.removeAll()
	n.ParentAdded.removeAll()
	n.ParentRemoved.removeAll()
	n.TransformChanged.removeAll()
	n.VisibilityChanged.removeAll()
	n.instances = nil
	n.rootedDisplays = nil
	n.content = nil
	n.UserData = nil
	n.disposed = true
}

// DisposeSubtree disposes n and every descendant. Descendants shared with
// other parts of the graph are detached from those parents too.
func (n *Node) DisposeSubtree() {
	if n.disposed {
		return
	}
	nodes := n.GetSubtreeNodes()
	for _, node := range nodes {
		node.Dispose()
	}
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// checkNotDisposed panics with a descriptive message when a disposed node is
// used in a structural operation.
func (n *Node) checkNotDisposed(op string) {
	if n.disposed {
		panic(fmt.Sprintf("grove: %s on disposed node %d (%q)", op, n.id, n.Name))
	}
}
