// Package grove is a retained-mode 2D scene graph whose nodes form a directed
// acyclic graph, with lazily cached bounds.
//
// # Scene graph
//
// Every element is a [Node]. A node may have several parents, so one subtree
// can appear at several places in the output. Each appearance is described
// by a [Trail], a root-to-node path:
//
//	shared := grove.NewNode("icon")
//	shared.SetContent(grove.Circle{Radius: 8})
//	left.AddChild(shared)
//	right.AddChild(shared)
//
//	for _, t := range shared.GetTrails(nil) {
//		x, y := t.LocalToGlobalPoint(0, 0)
//		fmt.Println(t, x, y)
//	}
//
// Insertions that would create a cycle panic; [Node.CanAddChild] checks first.
// Structural misuse (duplicate children, disposed nodes, asking for "the"
// parent of a shared node) panics with a "grove:" message naming the
// operation and node ids. Out-of-range values are returned as errors wrapping
// the sentinels in this package.
//
// # Bounds
//
// Each node caches four [Bounds]: self (its [Content]), child (union of the
// children), local (self ∪ child, clipped, or an override) and total (local
// mapped through the node's [Transform] into the parent frame). Mutations
// only mark bounds dirty; reads and [Node.ValidateBounds] recompute them
// children first. Listeners registered with [Node.OnBoundsChange] hear about
// changes larger than 1e-13.
//
//	n.OnBoundsChange(grove.BoundsTotal, func(c grove.BoundsChange) {
//		fmt.Println("moved from", c.Old, "to", c.New)
//	})
//
// A [Scene] owns a root and calls [Node.ValidateWatchedBounds] once per
// [Scene.UpdateDisplay], so only observed subtrees are settled.
//
// # Diagnostics
//
// [Diagnostics] carries a [github.com/charmbracelet/log] logger and
// Prometheus collectors. With SlowAudit enabled every mutation re-checks the
// graph and every validation is compared against [Node.AuditBounds].
//
// Tweens over [github.com/tanema/gween] drive transforms and opacity; see
// [TweenTranslation]. A [Camera] maps global coordinates to a viewport and
// culls subtrees whose cached bounds fall outside it.
package grove
