package grove

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Content is what a node paints itself, as far as geometry is concerned.
// SelfBounds is called during validation after InvalidateSelf or SetContent;
// implementations that change shape must call InvalidateSelf on their node.
type Content interface {
	SelfBounds() Bounds
}

// ExactContent can report tight bounds under an arbitrary matrix. Nodes with
// TransformBounds enabled use it for rotated and skewed transforms.
type ExactContent interface {
	Content
	TransformedSelfBounds(m ebiten.GeoM) Bounds
}

// HitContent refines hit testing beyond the self bounds box.
type HitContent interface {
	Content
	ContainsPoint(x, y float64) bool
}

// --- Built-in shapes ---

// Rect is an axis-aligned rectangle in local coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// SelfBounds implements Content.
func (r Rect) SelfBounds() Bounds {
	return RectBounds(r.X, r.Y, r.Width, r.Height)
}

// ContainsPoint reports whether (x, y) lies inside the rectangle.
func (r Rect) ContainsPoint(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Circle is a circle in local coordinates.
type Circle struct {
	CenterX, CenterY, Radius float64
}

// SelfBounds implements Content.
func (c Circle) SelfBounds() Bounds {
	return Bounds{c.CenterX - c.Radius, c.CenterY - c.Radius, c.CenterX + c.Radius, c.CenterY + c.Radius}
}

// TransformedSelfBounds returns the box around the ellipse the circle maps
// to under m.
func (c Circle) TransformedSelfBounds(m ebiten.GeoM) Bounds {
	e := matrixElements(m)
	cx, cy := m.Apply(c.CenterX, c.CenterY)
	hx := c.Radius * math.Hypot(e[0], e[2])
	hy := c.Radius * math.Hypot(e[1], e[3])
	return Bounds{cx - hx, cy - hy, cx + hx, cy + hy}
}

// ContainsPoint reports whether (x, y) lies inside or on the circle.
func (c Circle) ContainsPoint(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Polygon is a convex polygon in local coordinates, in either winding order.
type Polygon struct {
	Points []Vec2
}

// SelfBounds implements Content.
func (p Polygon) SelfBounds() Bounds {
	b := Nothing
	for _, pt := range p.Points {
		b = b.Union(Bounds{pt.X, pt.Y, pt.X, pt.Y})
	}
	return b
}

// TransformedSelfBounds maps every vertex, which is exact for polygons.
func (p Polygon) TransformedSelfBounds(m ebiten.GeoM) Bounds {
	b := Nothing
	for _, pt := range p.Points {
		x, y := m.Apply(pt.X, pt.Y)
		b = b.Union(Bounds{x, y, x, y})
	}
	return b
}

// ContainsPoint uses the cross-product sign test: the point must be on the
// same side of every edge.
func (p Polygon) ContainsPoint(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}
