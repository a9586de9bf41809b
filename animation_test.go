package grove

import (
	"errors"
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenTranslationReachesTarget(t *testing.T) {
	node := NewNode("pos")
	_ = node.SetTranslation(10, 20)

	g := TweenTranslation(node, 100, 200, 1.0, ease.Linear)

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	x, y := node.Translation()
	if math.Abs(x-100) > 0.5 {
		t.Errorf("X = %f, want ~100", x)
	}
	if math.Abs(y-200) > 0.5 {
		t.Errorf("Y = %f, want ~200", y)
	}
}

func TestTweenTranslationMidpoint(t *testing.T) {
	node := NewNode("mid")
	node.SetContent(Rect{Width: 1, Height: 1})
	g := TweenTranslation(node, 100, 0, 1.0, ease.Linear)
	g.Update(0.5)

	if g.Done {
		t.Error("should not be done halfway")
	}
	assertBounds(t, "bounds follow the tween", node.Bounds(), NewBounds(50, 0, 51, 1))
}

func TestTweenScaleReachesTarget(t *testing.T) {
	node := NewNode("scale")
	_ = node.SetRotation(math.Pi / 3)

	g := TweenScale(node, 2.0, 3.0, 0.5, ease.Linear)

	g.Update(0.25)
	g.Update(0.25)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	s := node.ScaleVector()
	if math.Abs(s.X-2.0) > 0.01 {
		t.Errorf("ScaleX = %f, want ~2.0", s.X)
	}
	if math.Abs(s.Y-3.0) > 0.01 {
		t.Errorf("ScaleY = %f, want ~3.0", s.Y)
	}
	if math.Abs(node.Rotation()-math.Pi/3) > 1e-6 {
		t.Errorf("Rotation = %f, want pi/3 kept", node.Rotation())
	}
}

func TestTweenRotationReachesTarget(t *testing.T) {
	node := NewNode("rot")
	g := TweenRotation(node, math.Pi/2, 1.0, ease.Linear)
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(node.Rotation()-math.Pi/2) > 1e-6 {
		t.Errorf("Rotation = %f, want ~pi/2", node.Rotation())
	}
}

func TestTweenOpacityInterpolates(t *testing.T) {
	node := NewNode("alpha")

	g := TweenOpacity(node, 0.0, 1.0, ease.Linear)
	g.Update(0.5)

	if g.Done {
		t.Error("should not be done at midpoint")
	}
	if math.Abs(node.Opacity()-0.5) > 0.01 {
		t.Errorf("Opacity = %f, want ~0.5", node.Opacity())
	}

	g.Update(0.5)
	if !g.Done || node.Opacity() > 0.01 {
		t.Errorf("Done=%v Opacity=%f, want done at 0", g.Done, node.Opacity())
	}
}

func TestTweenOpacityClampsOvershoot(t *testing.T) {
	node := NewNode("bounce")
	_ = node.SetOpacity(0.2)
	g := TweenOpacity(node, 1.0, 1.0, ease.OutBack)
	for i := 0; i < 10; i++ {
		g.Update(0.1)
	}
	if g.Err != nil {
		t.Errorf("overshoot should be clamped, got %v", g.Err)
	}
	if node.Opacity() < 0 || node.Opacity() > 1 {
		t.Errorf("Opacity = %f out of range", node.Opacity())
	}
}

func TestTweenStopsOnDisposedTarget(t *testing.T) {
	node := NewNode("gone")
	g := TweenTranslation(node, 100, 0, 1.0, ease.Linear)
	node.Dispose()

	g.Update(0.5)

	if !g.Done {
		t.Error("tween of a disposed node should be done")
	}
	if x, _ := node.Translation(); x != 0 {
		t.Errorf("X = %f, want no writes after dispose", x)
	}
}

func TestTweenStopsOnRejectedWrite(t *testing.T) {
	node := NewNode("flat")
	_ = node.SetMatrix(scaleMatrix(0, 1))

	g := TweenScale(node, 2, 1, 1.0, ease.Linear)
	g.Update(0.5)

	if !g.Done {
		t.Error("a rejected write should stop the tween")
	}
	if !errors.Is(g.Err, ErrNonFinite) {
		t.Errorf("Err = %v, want ErrNonFinite", g.Err)
	}
	g.Update(0.5)
}

func TestTweenDoneIsSticky(t *testing.T) {
	node := NewNode("done")
	g := TweenTranslation(node, 10, 0, 0.5, ease.Linear)
	g.Update(1)
	if !g.Done {
		t.Fatal("expected Done")
	}
	_ = node.SetTranslation(0, 0)
	g.Update(1)
	if x, _ := node.Translation(); x != 0 {
		t.Error("finished tween should not write again")
	}
}
