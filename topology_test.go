package grove

import (
	"errors"
	"slices"
	"testing"
)

// diamond builds a -> {b, c} -> d.
func diamond() (a, b, c, d *Node) {
	a, b, c, d = NewNode("a"), NewNode("b"), NewNode("c"), NewNode("d")
	a.SetChildren([]*Node{b, c})
	b.AddChild(d)
	c.AddChild(d)
	return a, b, c, d
}

func TestGetSubtreeNodesVisitsSharedOnce(t *testing.T) {
	a, b, c, d := diamond()
	got := a.GetSubtreeNodes()
	if !sameNodes(got, []*Node{a, b, d, c}) {
		t.Errorf("subtree = %v, want [a b d c]", names(got))
	}
}

func TestGetConnectedNodes(t *testing.T) {
	a, b, c, d := diamond()
	other := NewNode("other")
	got := d.GetConnectedNodes()
	if len(got) != 4 {
		t.Fatalf("connected = %v, want 4 nodes", names(got))
	}
	for _, n := range []*Node{a, b, c, d} {
		if !slices.Contains(got, n) {
			t.Errorf("%s missing from component", n.Name)
		}
	}
	if slices.Contains(got, other) {
		t.Error("unrelated node in component")
	}
}

func TestAncestorDescendant(t *testing.T) {
	a, b, c, d := diamond()
	if !a.IsAncestorOf(d) || !b.IsAncestorOf(d) {
		t.Error("a and b should be ancestors of d")
	}
	if b.IsAncestorOf(c) || d.IsAncestorOf(a) {
		t.Error("siblings and descendants are not ancestors")
	}
	if a.IsAncestorOf(a) {
		t.Error("a node is not its own ancestor")
	}
	if !d.IsDescendantOf(a) || a.IsDescendantOf(d) {
		t.Error("IsDescendantOf wrong")
	}
	if a.IsAncestorOf(nil) || a.IsDescendantOf(nil) {
		t.Error("nil is never related")
	}
}

func TestCanAddChild(t *testing.T) {
	a, b, c, d := diamond()
	cases := []struct {
		name          string
		parent, child *Node
		want          bool
	}{
		{"leaf to root would cycle", d, a, false},
		{"leaf to middle would cycle", d, b, false},
		{"sibling edge", b, c, true},
		{"self", a, a, false},
		{"existing child", a, b, false},
		{"skip edge", a, d, true},
		{"separate component", d, NewNode("x"), true},
		{"nil", a, nil, false},
	}
	for _, tc := range cases {
		if got := tc.parent.CanAddChild(tc.child); got != tc.want {
			t.Errorf("%s: CanAddChild = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanAddChildAgreesWithInsert(t *testing.T) {
	a, _, c, d := diamond()
	if !c.CanAddChild(NewNode("e")) {
		t.Fatal("fresh node should be insertable")
	}
	e := NewNode("e")
	d.AddChild(e)
	if e.CanAddChild(a) {
		t.Error("e -> a would close a cycle")
	}
	expectPanic(t, "cycle", func() { e.AddChild(c) })
}

func TestGetTopologicallySortedNodes(t *testing.T) {
	a, b, c, d := diamond()
	order := c.GetTopologicallySortedNodes()
	if len(order) != 4 {
		t.Fatalf("order = %v, want 4 nodes", names(order))
	}
	pos := func(n *Node) int { return slices.Index(order, n) }
	for _, edge := range [][2]*Node{{a, b}, {a, c}, {b, d}, {c, d}} {
		if pos(edge[0]) > pos(edge[1]) {
			t.Errorf("%s sorted after its child %s: %v", edge[0].Name, edge[1].Name, names(order))
		}
	}
}

func TestKahnSortDetectsCycle(t *testing.T) {
	a, b, c, d := diamond()
	order, ok := kahnSort(a.GetConnectedNodes(), d, b)
	if ok {
		t.Errorf("extra edge d -> b should be reported as a cycle, got order %v", names(order))
	}
	order, ok = kahnSort(a.GetConnectedNodes(), b, c)
	if !ok || len(order) != 4 {
		t.Errorf("extra edge b -> c is acyclic, got ok=%v order %v", ok, names(order))
	}
	if slices.Index(order, b) > slices.Index(order, c) {
		t.Errorf("b should precede c with the extra edge: %v", names(order))
	}
}

func TestAuditStructure(t *testing.T) {
	a, b, _, d := diamond()
	if err := a.AuditStructure(); err != nil {
		t.Fatalf("AuditStructure = %v", err)
	}

	// Forge a cycle behind the engine's back.
	d.children = append(d.children, b)
	b.parents = append(b.parents, d)
	err := a.AuditStructure()
	if !errors.Is(err, ErrStructureAudit) {
		t.Errorf("err = %v, want ErrStructureAudit", err)
	}
	expectPanic(t, "cycle", func() { a.GetTopologicallySortedNodes() })
}

func TestSlowAuditRunsTopologicalCheck(t *testing.T) {
	diag, err := NewDiagnostics(DiagnosticsConfig{SlowAudit: true}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	a, b, c, d := diamond()
	diag.AttachTo(a)
	e := NewNode("e")
	d.AddChild(e)
	if e.Diagnostics() != diag {
		t.Error("inserted node should adopt the parent's diagnostics")
	}
	b.AddChild(c)
	if err := a.AuditStructure(); err != nil {
		t.Errorf("AuditStructure = %v", err)
	}
	expectPanic(t, "cycle", func() { e.AddChild(b) })
}
