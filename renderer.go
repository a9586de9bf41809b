package grove

import (
	"fmt"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Renderer identifies a drawing backend.
type Renderer uint8

const (
	RendererCanvas Renderer = iota + 1
	RendererSVG
	RendererDOM
	RendererWebGL
)

// String implements fmt.Stringer.
func (r Renderer) String() string {
	switch r {
	case RendererCanvas:
		return "canvas"
	case RendererSVG:
		return "svg"
	case RendererDOM:
		return "dom"
	case RendererWebGL:
		return "webgl"
	default:
		return fmt.Sprintf("Renderer(%d)", uint8(r))
	}
}

// ParseRenderer parses the lowercase name produced by Renderer.String.
func ParseRenderer(s string) (Renderer, error) {
	for _, r := range AllRenderers {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedRenderer, s)
}

// AllRenderers lists every renderer in preference order.
var AllRenderers = []Renderer{RendererCanvas, RendererSVG, RendererDOM, RendererWebGL}

// RendererSet is the set of backends a node may be drawn with. A nil set
// allows every renderer.
type RendererSet struct {
	set mapset.Set[Renderer]
}

// NewRendererSet returns a set holding rs.
func NewRendererSet(rs ...Renderer) *RendererSet {
	return &RendererSet{set: mapset.NewThreadUnsafeSet(rs...)}
}

// Supports reports whether r is allowed.
func (s *RendererSet) Supports(r Renderer) bool {
	return s == nil || s.set.Contains(r)
}

// Len returns the number of allowed renderers, counting all of them for a nil set.
func (s *RendererSet) Len() int {
	if s == nil {
		return len(AllRenderers)
	}
	return s.set.Cardinality()
}

// Renderers returns the allowed renderers in preference order.
func (s *RendererSet) Renderers() []Renderer {
	if s == nil {
		return slices.Clone(AllRenderers)
	}
	var out []Renderer
	for _, r := range AllRenderers {
		if s.set.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

// Intersect returns the renderers allowed by both sets.
func (s *RendererSet) Intersect(o *RendererSet) *RendererSet {
	switch {
	case s == nil:
		return o
	case o == nil:
		return s
	}
	return &RendererSet{set: s.set.Intersect(o.set)}
}

// String implements fmt.Stringer.
func (s *RendererSet) String() string {
	rs := s.Renderers()
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Drawable is a backend object produced for one instance of a node.
type Drawable interface {
	Renderer() Renderer
}

// DrawableFactory is implemented by content that knows how to draw itself.
type DrawableFactory interface {
	CreateDrawable(r Renderer, inst Instance) (Drawable, error)
}

// SetRenderers restricts the backends n may be drawn with. nil allows all.
func (n *Node) SetRenderers(s *RendererSet) {
	n.renderers = s
}

// Renderers returns the renderer restriction, or nil.
func (n *Node) Renderers() *RendererSet {
	return n.renderers
}

// CreateDrawable asks n's content for a drawable for renderer r. It returns
// ErrUnsupportedRenderer when n excludes r and ErrAbstractDrawable when the
// content cannot draw itself.
func (n *Node) CreateDrawable(r Renderer, inst Instance) (Drawable, error) {
	if !n.renderers.Supports(r) {
		return nil, fmt.Errorf("node %d: %w: %v not in %v", n.id, ErrUnsupportedRenderer, r, n.renderers)
	}
	f, ok := n.content.(DrawableFactory)
	if !ok {
		return nil, fmt.Errorf("node %d: %w", n.id, ErrAbstractDrawable)
	}
	d, err := f.CreateDrawable(r, inst)
	if err != nil {
		return nil, fmt.Errorf("node %d: create %v drawable: %w", n.id, r, err)
	}
	return d, nil
}
