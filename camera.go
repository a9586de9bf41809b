package grove

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is a view into a node graph: position, zoom, rotation and a
// screen-space viewport. It does not draw anything. Renderers use Cull to
// collect the trails whose cached bounds overlap the view.
type Camera struct {
	// X and Y are the global position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Bounds

	// LimitsEnabled clamps the camera position so the visible area stays
	// within Limits.
	LimitsEnabled bool
	// Limits is the global rectangle the camera is clamped to.
	Limits Bounds

	followTarget  *Node
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	view  ebiten.GeoM
	inv   ebiten.GeoM
	key   [4]float64
	dirty bool

	scrollTween *scrollAnim
}

// NewCamera creates a Camera with zoom 1 for the given viewport.
func NewCamera(viewport Bounds) *Camera {
	return &Camera{
		Zoom:     1.0,
		Viewport: viewport,
		dirty:    true,
	}
}

// Follow makes the camera track a target node with the given offset and lerp
// factor. A lerp of 1.0 snaps immediately; lower values give smoother
// following. The target must have a unique trail.
func (c *Camera) Follow(node *Node, offsetX, offsetY, lerp float64) {
	c.followTarget = node
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking the current target node.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to the given global position over duration
// seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// IsScrolling reports whether a ScrollTo animation is running.
func (c *Camera) IsScrolling() bool {
	return c.scrollTween != nil
}

// SetLimits enables clamping to the given global rectangle.
func (c *Camera) SetLimits(limits Bounds) {
	c.LimitsEnabled = true
	c.Limits = limits
}

// ClearLimits disables clamping.
func (c *Camera) ClearLimits() {
	c.LimitsEnabled = false
}

// Update advances follow, scroll and clamping by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.followTarget != nil && !c.followTarget.IsDisposed() {
		if trails := c.followTarget.GetTrails(nil); len(trails) == 1 {
			tx, ty := trails[0].LocalToGlobalPoint(0, 0)
			c.X += (tx + c.followOffsetX - c.X) * c.followLerp
			c.Y += (ty + c.followOffsetY - c.Y) * c.followLerp
		}
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.LimitsEnabled {
		c.clampToLimits()
	}
}

// clampToLimits restricts the camera position so the visible area stays
// within Limits. Rotation is ignored.
func (c *Camera) clampToLimits() {
	halfW := c.Viewport.Width() / (2 * c.Zoom)
	halfH := c.Viewport.Height() / (2 * c.Zoom)

	minX := c.Limits.MinX + halfW
	maxX := c.Limits.MaxX - halfW
	minY := c.Limits.MinY + halfH
	maxY := c.Limits.MaxY - halfH

	// Limits smaller than the visible area center the camera.
	if minX > maxX {
		c.X = (c.Limits.MinX + c.Limits.MaxX) / 2
	} else {
		c.X = math.Max(minX, math.Min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = (c.Limits.MinY + c.Limits.MaxY) / 2
	} else {
		c.Y = math.Max(minY, math.Min(c.Y, maxY))
	}
}

// ViewMatrix returns the global-to-screen matrix:
//
//	Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
//
// where (cx, cy) is the viewport center.
func (c *Camera) ViewMatrix() ebiten.GeoM {
	key := [4]float64{c.X, c.Y, c.Zoom, c.Rotation}
	if !c.dirty && key == c.key {
		return c.view
	}
	center := c.Viewport.Center()

	var m ebiten.GeoM
	m.Translate(-c.X, -c.Y)
	m.Rotate(-c.Rotation)
	m.Scale(c.Zoom, c.Zoom)
	m.Translate(center.X, center.Y)

	c.view = m
	c.inv = invertMatrix(m)
	c.key = key
	c.dirty = false
	return m
}

// MarkDirty forces a recomputation of the view matrix, e.g. after the
// viewport changed.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// WorldToScreen converts global coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	m := c.ViewMatrix()
	return m.Apply(wx, wy)
}

// ScreenToWorld converts screen coordinates to global coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.ViewMatrix()
	return c.inv.Apply(sx, sy)
}

// VisibleBounds returns the global axis-aligned box around the viewport.
func (c *Camera) VisibleBounds() Bounds {
	c.ViewMatrix()
	return c.Viewport.Transformed(c.inv)
}

// Cull returns, in painting order, the trails from root to every visible
// node with content whose global bounds overlap the camera's view. Subtrees
// whose total bounds miss the view are skipped without being visited. The
// graph is validated first.
func (c *Camera) Cull(root *Node) []*Trail {
	root.ValidateBounds()
	view := c.VisibleBounds()

	var out []*Trail
	trail := NewTrail(root)
	var walk func(n *Node, parentToGlobal ebiten.GeoM)
	walk = func(n *Node, parentToGlobal ebiten.GeoM) {
		if !n.visible || !n.Bounds().Transformed(parentToGlobal).Intersects(view) {
			return
		}
		localToGlobal := multiplyMatrix(parentToGlobal, n.transform.matrix)
		if n.content != nil && n.SelfBounds().Transformed(localToGlobal).Intersects(view) {
			out = append(out, trail.Copy())
		}
		for _, child := range n.children {
			trail.AddDescendant(child)
			walk(child, localToGlobal)
			trail.RemoveDescendant()
		}
	}
	walk(root, ebiten.GeoM{})
	return out
}
