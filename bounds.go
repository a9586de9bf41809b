package grove

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Bounds is an axis-aligned rectangle stored as its min and max corners. The
// coordinate system has its origin at the top-left, with Y increasing downward.
//
// A Bounds with MinX > MaxX or MinY > MaxY contains nothing. [Nothing] is the
// canonical empty value and the identity element of [Bounds.Union].
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

var (
	// Nothing is the empty sentinel. Every cached bounds field starts here.
	Nothing = Bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}

	// Everything contains every point.
	Everything = Bounds{math.Inf(-1), math.Inf(-1), math.Inf(1), math.Inf(1)}
)

// NewBounds returns the bounds with the given corners.
func NewBounds(minX, minY, maxX, maxY float64) Bounds {
	return Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// RectBounds returns the bounds of the rectangle at (x, y) with the given size.
func RectBounds(x, y, width, height float64) Bounds {
	return Bounds{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height}
}

// IsEmpty reports whether b contains no points. Zero-area bounds (a point or
// a line) are not empty.
func (b Bounds) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// IsFinite reports whether all four coordinates are finite.
func (b Bounds) IsFinite() bool {
	return isFinite(b.MinX) && isFinite(b.MinY) && isFinite(b.MaxX) && isFinite(b.MaxY)
}

// IsValid reports whether b is non-empty and finite.
func (b Bounds) IsValid() bool {
	return !b.IsEmpty() && b.IsFinite()
}

// Width returns MaxX-MinX, or 0 for empty bounds.
func (b Bounds) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height returns MaxY-MinY, or 0 for empty bounds.
func (b Bounds) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxY - b.MinY
}

// Center returns the midpoint of b.
func (b Bounds) Center() Vec2 {
	return Vec2{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Intersection returns the overlap of b and o, or Nothing when they do not
// overlap.
func (b Bounds) Intersection(o Bounds) Bounds {
	r := Bounds{
		MinX: math.Max(b.MinX, o.MinX),
		MinY: math.Max(b.MinY, o.MinY),
		MaxX: math.Min(b.MaxX, o.MaxX),
		MaxY: math.Min(b.MaxY, o.MaxY),
	}
	if r.IsEmpty() {
		return Nothing
	}
	return r
}

// Contains reports whether the point (x, y) lies inside b.
// Points on the edge are considered inside.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// ContainsBounds reports whether o lies entirely inside b. Empty bounds are
// contained by everything.
func (b Bounds) ContainsBounds(o Bounds) bool {
	if o.IsEmpty() {
		return true
	}
	return o.MinX >= b.MinX && o.MaxX <= b.MaxX && o.MinY >= b.MinY && o.MaxY <= b.MaxY
}

// Intersects reports whether b and o overlap.
// Adjacent bounds (sharing only an edge) are considered intersecting.
func (b Bounds) Intersects(o Bounds) bool {
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX && b.MinY <= o.MaxY && b.MaxY >= o.MinY
}

// Dilated returns b grown by d on every side.
func (b Bounds) Dilated(d float64) Bounds {
	if b.IsEmpty() {
		return b
	}
	return Bounds{b.MinX - d, b.MinY - d, b.MaxX + d, b.MaxY + d}
}

// Shifted returns b translated by (dx, dy).
func (b Bounds) Shifted(dx, dy float64) Bounds {
	return Bounds{b.MinX + dx, b.MinY + dy, b.MaxX + dx, b.MaxY + dy}
}

// Transformed returns the axis-aligned box around b mapped through m. Under
// rotation or skew the result may be larger than the transformed shape.
func (b Bounds) Transformed(m ebiten.GeoM) Bounds {
	if b.IsEmpty() {
		return Nothing
	}
	if !b.IsFinite() {
		return Everything
	}
	if isIdentityMatrix(m) {
		return b
	}
	x0, y0 := m.Apply(b.MinX, b.MinY)
	x1, y1 := m.Apply(b.MaxX, b.MinY)
	x2, y2 := m.Apply(b.MinX, b.MaxY)
	x3, y3 := m.Apply(b.MaxX, b.MaxY)
	return Bounds{
		MinX: math.Min(math.Min(x0, x1), math.Min(x2, x3)),
		MinY: math.Min(math.Min(y0, y1), math.Min(y2, y3)),
		MaxX: math.Max(math.Max(x0, x1), math.Max(x2, x3)),
		MaxY: math.Max(math.Max(y0, y1), math.Max(y2, y3)),
	}
}

// Equals reports exact equality. Two Nothing values are equal.
func (b Bounds) Equals(o Bounds) bool {
	return b == o
}

// EqualsEpsilon reports whether every coordinate of b is within eps of o.
// Infinite coordinates compare equal only to the same infinity.
func (b Bounds) EqualsEpsilon(o Bounds, eps float64) bool {
	return nearlyEqual(b.MinX, o.MinX, eps) &&
		nearlyEqual(b.MinY, o.MinY, eps) &&
		nearlyEqual(b.MaxX, o.MaxX, eps) &&
		nearlyEqual(b.MaxY, o.MaxY, eps)
}

// String implements fmt.Stringer.
func (b Bounds) String() string {
	if b == Nothing {
		return "Bounds{nothing}"
	}
	return fmt.Sprintf("Bounds{x: [%g, %g], y: [%g, %g]}", b.MinX, b.MaxX, b.MinY, b.MaxY)
}

func nearlyEqual(a, b, eps float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= eps
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
