package grove

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values of a Node simultaneously. Create one via
// the convenience constructors (TweenTranslation, TweenScale, TweenRotation,
// TweenOpacity) and call Update(dt) each frame. Values are written through the
// node's setters, so bounds and pickers are invalidated as usual. If the
// target node is disposed, the group stops immediately.
//
// There is no global animation manager; users call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(v [4]float64) error
	target *Node
	Done   bool

	// Err holds the error of the last rejected write. The group stops on it.
	Err error
}

// Update advances all tweens by dt seconds and writes the values to the
// target. If the target node has been disposed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target == nil || g.target.IsDisposed() {
		g.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if err := g.apply(vals); err != nil {
		g.Err = err
		g.Done = true
	}
}

// TweenTranslation creates a TweenGroup that moves the node's translation to
// (toX, toY) over the specified duration using the easing function.
func TweenTranslation(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	x, y := node.Translation()
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(x), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(y), float32(toY), duration, fn)
	g.apply = func(v [4]float64) error { return node.SetTranslation(v[0], v[1]) }
	return g
}

// TweenScale creates a TweenGroup that animates the magnitude of the node's
// scale to (toSX, toSY).
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	s := node.ScaleVector()
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(s.X), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(s.Y), float32(toSY), duration, fn)
	g.apply = func(v [4]float64) error { return node.SetScaleMagnitude(v[0], v[1]) }
	return g
}

// TweenRotation creates a TweenGroup that animates the node's rotation to the
// target angle in radians.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Rotation()), float32(to), duration, fn)
	g.apply = func(v [4]float64) error { return node.SetRotation(v[0]) }
	return g
}

// TweenOpacity creates a TweenGroup that animates the node's opacity. Values
// are clamped to [0, 1] so easing overshoot does not abort the tween.
func TweenOpacity(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Opacity()), float32(to), duration, fn)
	g.apply = func(v [4]float64) error { return node.SetOpacity(min(max(v[0], 0), 1)) }
	return g
}
