package grove

import (
	"math/rand"
	"testing"
)

// TestRandomMutationsKeepInvariants applies random structural and transform
// edits to a pool of nodes and checks the caches and edges after each round.
func TestRandomMutationsKeepInvariants(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		rng := rand.New(rand.NewSource(seed))
		pool := make([]*Node, 12)
		for i := range pool {
			pool[i] = NewNode("n")
			if i%3 == 0 {
				pool[i].SetContent(Rect{Width: float64(i + 1), Height: 2})
			}
		}
		// Listeners keep parts of the pool watched.
		pool[0].OnBoundsChange(BoundsTotal, func(BoundsChange) {})
		pool[5].OnBoundsChange(BoundsLocal, func(BoundsChange) {})

		for round := 0; round < 200; round++ {
			a := pool[rng.Intn(len(pool))]
			b := pool[rng.Intn(len(pool))]
			switch rng.Intn(6) {
			case 0, 1:
				if a.CanAddChild(b) {
					a.InsertChild(rng.Intn(a.NumChildren()+1), b)
				} else if a != b && !a.HasChild(b) {
					expectPanic(t, "grove: ", func() { a.AddChild(b) })
				}
			case 2:
				if a.NumChildren() > 0 {
					a.RemoveChildAt(rng.Intn(a.NumChildren()))
				}
			case 3:
				if a.NumChildren() > 1 {
					a.MoveChildToIndex(a.ChildAt(0), a.NumChildren()-1)
				}
			case 4:
				_ = a.Translate(float64(rng.Intn(21)-10), float64(rng.Intn(21)-10))
			case 5:
				_ = a.Rotate(rng.Float64())
			}

			if round%10 == 0 {
				pool[0].ValidateWatchedBounds()
			}
			if round%25 == 0 {
				for _, n := range pool {
					n.ValidateBounds()
					if err := n.AuditBounds(); err != nil {
						t.Fatalf("seed %d round %d: %v", seed, round, err)
					}
					if err := n.AuditStructure(); err != nil {
						t.Fatalf("seed %d round %d: %v", seed, round, err)
					}
				}
			}
		}

		for _, n := range pool {
			n.ValidateBounds()
			if err := n.AuditBounds(); err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}
			order := n.GetTopologicallySortedNodes()
			pos := make(map[*Node]int, len(order))
			for i, o := range order {
				pos[o] = i
			}
			for _, o := range order {
				for _, c := range o.Children() {
					if pos[o] >= pos[c] {
						t.Fatalf("seed %d: %s sorted after its child %s", seed, o, c)
					}
				}
			}
		}
	}
}
