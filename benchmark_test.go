package grove

import (
	"testing"
)

// buildGrid creates a root with rows*cols rect nodes grouped by row.
func buildGrid(rows, cols int) (*Node, []*Node) {
	root := NewNode("root")
	var leaves []*Node
	for r := 0; r < rows; r++ {
		row := NewNode("row")
		_ = row.SetTranslation(0, float64(r)*40)
		for c := 0; c < cols; c++ {
			leaf := NewNode("leaf")
			leaf.SetContent(Rect{Width: 32, Height: 32})
			_ = leaf.SetTranslation(float64(c)*40, 0)
			row.AddChild(leaf)
			leaves = append(leaves, leaf)
		}
		root.AddChild(row)
	}
	return root, leaves
}

// buildLattice creates depth layers of width nodes where every node is a
// child of every node in the previous layer.
func buildLattice(depth, width int) (*Node, *Node) {
	top := NewNode("top")
	prev := []*Node{top}
	for d := 0; d < depth; d++ {
		layer := make([]*Node, width)
		for i := range layer {
			layer[i] = NewNode("n")
			for _, p := range prev {
				p.AddChild(layer[i])
			}
		}
		prev = layer
	}
	bottom := NewNode("bottom")
	for _, p := range prev {
		p.AddChild(bottom)
	}
	return top, bottom
}

// --- Bounds Benchmarks ---

func BenchmarkValidateBounds_10000Nodes_Static(b *testing.B) {
	root, _ := buildGrid(100, 100)
	root.ValidateBounds()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		root.ValidateBounds()
	}
}

func BenchmarkValidateBounds_10000Nodes_OneMoving(b *testing.B) {
	root, leaves := buildGrid(100, 100)
	root.ValidateBounds()
	leaf := leaves[len(leaves)/2]

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = leaf.Translate(1, 0)
		root.ValidateBounds()
	}
}

func BenchmarkValidateBounds_10000Nodes_AllRotating(b *testing.B) {
	root, leaves := buildGrid(100, 100)
	root.ValidateBounds()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, leaf := range leaves {
			_ = leaf.Rotate(0.01)
		}
		root.ValidateBounds()
	}
}

func BenchmarkValidateWatchedBounds_OneWatched(b *testing.B) {
	root, leaves := buildGrid(100, 100)
	leaves[0].OnBoundsChange(BoundsTotal, func(BoundsChange) {})
	root.ValidateBounds()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = leaves[0].Translate(1, 0)
		root.ValidateWatchedBounds()
	}
}

// --- Topology Benchmarks ---

func BenchmarkCanAddChild_Lattice(b *testing.B) {
	top, bottom := buildLattice(6, 4)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if bottom.CanAddChild(top) {
			b.Fatal("cycle not detected")
		}
	}
}

func BenchmarkTopologicalSort_10000Nodes(b *testing.B) {
	root, _ := buildGrid(100, 100)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = root.GetTopologicallySortedNodes()
	}
}

// --- Trail Benchmarks ---

func BenchmarkGetTrails_Lattice(b *testing.B) {
	_, bottom := buildLattice(4, 4)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = bottom.GetTrails(nil)
	}
}

func BenchmarkHitTest_10000Nodes(b *testing.B) {
	root, _ := buildGrid(100, 100)
	root.ValidateBounds()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = root.HitTest(2010, 2010, true, false)
	}
}

func BenchmarkInstanceSharedSubtree(b *testing.B) {
	s, err := NewScene(SceneConfig{}, nil, nil)
	if err != nil {
		b.Fatal(err)
	}
	shared, _ := buildGrid(50, 50)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := s.NewNode("instance")
		s.Root().AddChild(p)
		p.AddChild(shared)
	}
}
