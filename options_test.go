package grove

import (
	"errors"
	"math"
	"testing"
)

func TestMutateAppliesEveryField(t *testing.T) {
	child := NewNode("child")
	clip := NewBounds(0, 0, 5, 5)
	mouse := NewBounds(-1, -1, 1, 1)
	n := NewNode("n")
	err := n.Mutate(Options{
		Children:                           []*Node{child},
		X:                                  Ptr(10.0),
		Y:                                  Ptr(20.0),
		Rotation:                           Ptr(math.Pi / 2),
		Scale:                              &Vec2{X: 2, Y: 2},
		Visible:                            Ptr(false),
		Pickable:                           Ptr(false),
		Opacity:                            Ptr(0.5),
		Content:                            Rect{Width: 10, Height: 10},
		ClipArea:                           &clip,
		MaxWidth:                           Ptr(100.0),
		ExcludeInvisibleChildrenFromBounds: Ptr(true),
		TransformBounds:                    Ptr(true),
		MouseArea:                          &mouse,
		TagName:                            Ptr("button"),
		Renderers:                          []Renderer{RendererSVG},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !n.HasChild(child) {
		t.Error("Children not applied")
	}
	x, y := n.Translation()
	assertPoint(t, "translation", x, y, 10, 20)
	assertNear(t, "rotation", n.Rotation(), math.Pi/2)
	s := n.ScaleVector()
	assertPoint(t, "scale", s.X, s.Y, 2, 2)
	if n.IsVisible() || n.IsPickable() || n.Opacity() != 0.5 {
		t.Error("visibility, pickable or opacity not applied")
	}
	if got := n.ClipArea(); got == nil || *got != clip {
		t.Errorf("ClipArea = %v", got)
	}
	if n.TagName() != "button" || n.Renderers().Supports(RendererCanvas) {
		t.Error("tag or renderers not applied")
	}
	if !n.excludeInvisibleChildrenFromBounds || !n.transformBounds || n.maxWidth == nil || n.mouseArea == nil {
		t.Error("bounds configuration not applied")
	}
	assertBounds(t, "local", n.LocalBounds(), clip)
}

func TestMutateMatrixBeforeTranslation(t *testing.T) {
	n := NewNode("n")
	m := scaleMatrix(3, 3)
	if err := n.Mutate(Options{Matrix: &m, X: Ptr(7.0)}); err != nil {
		t.Fatal(err)
	}
	assertMatrix(t, "matrix", n.Matrix(), [6]float64{3, 0, 0, 3, 7, 0})
}

func TestMutateKeepsUnsetFields(t *testing.T) {
	n := NewNode("n")
	_ = n.SetTranslation(1, 2)
	if err := n.Mutate(Options{Y: Ptr(5.0)}); err != nil {
		t.Fatal(err)
	}
	x, y := n.Translation()
	assertPoint(t, "translation", x, y, 1, 5)
	if !n.IsVisible() {
		t.Error("unset Visible should leave the node visible")
	}
}

func TestMutateStopsAtFirstError(t *testing.T) {
	n := NewNode("n")
	err := n.Mutate(Options{
		X:        Ptr(4.0),
		Opacity:  Ptr(-0.5),
		Content:  Rect{Width: 1, Height: 1},
		MaxWidth: Ptr(10.0),
	})
	if !errors.Is(err, ErrOpacityRange) {
		t.Fatalf("err = %v, want ErrOpacityRange", err)
	}
	if x, _ := n.Translation(); x != 4 {
		t.Error("fields before the error should stay applied")
	}
	if n.Content() != nil {
		t.Error("fields after the error should not be applied")
	}
}

func TestMutateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		opts Options
		want error
	}{
		{"nan x", Options{X: Ptr(math.NaN())}, ErrNonFinite},
		{"inf rotation", Options{Rotation: Ptr(math.Inf(-1))}, ErrNonFinite},
		{"opacity", Options{Opacity: Ptr(1.5)}, ErrOpacityRange},
		{"max width", Options{MaxWidth: Ptr(-1.0)}, ErrInvalidDimension},
		{"max height", Options{MaxHeight: Ptr(math.Inf(1))}, ErrNonFinite},
		{"local bounds", Options{LocalBounds: &Everything}, ErrNonFinite},
	}
	for _, tc := range cases {
		if err := NewNode(tc.name).Mutate(tc.opts); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestMutateLocalBounds(t *testing.T) {
	n := NewNode("n")
	lb := NewBounds(0, 0, 3, 3)
	if err := n.Mutate(Options{LocalBounds: &lb}); err != nil {
		t.Fatal(err)
	}
	if !n.IsLocalBoundsOverridden() || n.LocalBounds() != lb {
		t.Errorf("LocalBounds = %v, overridden %v", n.LocalBounds(), n.IsLocalBoundsOverridden())
	}
	empty := Nothing
	if err := n.Mutate(Options{LocalBounds: &empty}); err != nil {
		t.Errorf("pinning Nothing should be allowed: %v", err)
	}
}
