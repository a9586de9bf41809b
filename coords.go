package grove

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Coordinate conversion follows the single parent chain up to a root. A node
// with more than one parent appears at several places, so its global position
// is ambiguous; every function here panics when it meets one. Use a Trail to
// pick a specific appearance.

// LocalToGlobalMatrix maps n's local frame into the root's parent frame.
func (n *Node) LocalToGlobalMatrix() ebiten.GeoM {
	m := n.transform.Matrix()
	m.Concat(n.parentToGlobalMatrix("LocalToGlobalMatrix"))
	return m
}

// GlobalToLocalMatrix is the inverse of LocalToGlobalMatrix.
func (n *Node) GlobalToLocalMatrix() ebiten.GeoM {
	return invertMatrix(n.LocalToGlobalMatrix())
}

// ParentToGlobalMatrix maps n's parent frame into the root's parent frame.
func (n *Node) ParentToGlobalMatrix() ebiten.GeoM {
	return n.parentToGlobalMatrix("ParentToGlobalMatrix")
}

func (n *Node) parentToGlobalMatrix(op string) ebiten.GeoM {
	var m ebiten.GeoM
	node := n
	for {
		switch len(node.parents) {
		case 0:
			return m
		case 1:
			node = node.parents[0]
			m.Concat(node.transform.Matrix())
		default:
			panic(fmt.Sprintf("grove: %s: node %d has %d parents", op, node.id, len(node.parents)))
		}
	}
}

// LocalToGlobalPoint maps a point in n's local frame to the global frame.
func (n *Node) LocalToGlobalPoint(x, y float64) (float64, float64) {
	m := n.LocalToGlobalMatrix()
	return m.Apply(x, y)
}

// GlobalToLocalPoint maps a global point into n's local frame.
func (n *Node) GlobalToLocalPoint(x, y float64) (float64, float64) {
	m := n.GlobalToLocalMatrix()
	return m.Apply(x, y)
}

// ParentToGlobalPoint maps a point in n's parent frame to the global frame.
func (n *Node) ParentToGlobalPoint(x, y float64) (float64, float64) {
	m := n.ParentToGlobalMatrix()
	return m.Apply(x, y)
}

// LocalToGlobalBounds maps bounds in n's local frame to the global frame.
func (n *Node) LocalToGlobalBounds(b Bounds) Bounds {
	return b.Transformed(n.LocalToGlobalMatrix())
}

// GlobalToLocalBounds maps global bounds into n's local frame.
func (n *Node) GlobalToLocalBounds(b Bounds) Bounds {
	return b.Transformed(n.GlobalToLocalMatrix())
}

// GlobalBounds returns the total bounds of n in the global frame.
func (n *Node) GlobalBounds() Bounds {
	return n.Bounds().Transformed(n.ParentToGlobalMatrix())
}
