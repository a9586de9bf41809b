package grove

import "errors"

// Vec2 is a 2D vector used for points, offsets and scale factors throughout
// the API.
type Vec2 struct {
	X, Y float64
}

// BoundsKind selects one of the four cached bounds of a Node.
type BoundsKind uint8

const (
	BoundsSelf  BoundsKind = iota // content painted by the node itself, local frame
	BoundsChild                   // union of the children's bounds, local frame
	BoundsLocal                   // self ∪ child (or an override), local frame
	BoundsTotal                   // local bounds mapped into the parent frame
)

// String implements fmt.Stringer.
func (k BoundsKind) String() string {
	switch k {
	case BoundsSelf:
		return "self"
	case BoundsChild:
		return "child"
	case BoundsLocal:
		return "local"
	case BoundsTotal:
		return "total"
	default:
		return "unknown"
	}
}

// boundsKinds lists every BoundsKind in settle order.
var boundsKinds = [...]BoundsKind{BoundsSelf, BoundsChild, BoundsLocal, BoundsTotal}

// Errors returned at the API boundary for out-of-range input. Structural
// misuse (cycles, duplicate children, disposed nodes, ambiguous parents)
// panics instead.
var (
	ErrNonFinite           = errors.New("grove: non-finite value")
	ErrOpacityRange        = errors.New("grove: opacity out of range [0, 1]")
	ErrInvalidDimension    = errors.New("grove: dimension must be positive")
	ErrSettleLimit         = errors.New("grove: bounds did not settle")
	ErrBoundsAudit         = errors.New("grove: cached bounds disagree with recomputation")
	ErrStructureAudit      = errors.New("grove: graph structure is inconsistent")
	ErrAbstractDrawable    = errors.New("grove: node content cannot create drawables")
	ErrUnsupportedRenderer = errors.New("grove: renderer not supported")
)
