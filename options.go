package grove

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Options sets many node properties at once. Nil fields are left alone.
// Mutate applies them in declaration order, so Matrix is applied before the
// translation, rotation and scale fields that adjust it.
type Options struct {
	Children []*Node

	Matrix   *ebiten.GeoM
	X, Y     *float64
	Rotation *float64 // absolute, radians
	Scale    *Vec2    // absolute magnitude of the basis vectors

	Visible  *bool
	Pickable *bool
	Opacity  *float64

	Content     Content
	ClipArea    *Bounds
	LocalBounds *Bounds
	MaxWidth    *float64
	MaxHeight   *float64

	ExcludeInvisibleChildrenFromBounds *bool
	TransformBounds                    *bool

	MouseArea *Bounds
	TouchArea *Bounds

	TagName   *string
	Renderers []Renderer
}

// Ptr returns a pointer to v, for filling Options fields inline.
func Ptr[T any](v T) *T {
	return &v
}

// Mutate applies opts to n. It stops at the first rejected value and returns
// its error; fields before it stay applied.
func (n *Node) Mutate(opts Options) error {
	n.checkNotDisposed("Mutate")
	if opts.Children != nil {
		n.SetChildren(opts.Children)
	}
	if opts.Matrix != nil {
		if err := n.SetMatrix(*opts.Matrix); err != nil {
			return err
		}
	}
	if opts.X != nil || opts.Y != nil {
		x, y := n.Translation()
		if opts.X != nil {
			x = *opts.X
		}
		if opts.Y != nil {
			y = *opts.Y
		}
		if err := n.SetTranslation(x, y); err != nil {
			return err
		}
	}
	if opts.Rotation != nil {
		if err := n.SetRotation(*opts.Rotation); err != nil {
			return err
		}
	}
	if opts.Scale != nil {
		if err := n.SetScaleMagnitude(opts.Scale.X, opts.Scale.Y); err != nil {
			return err
		}
	}
	if opts.Visible != nil {
		n.SetVisible(*opts.Visible)
	}
	if opts.Pickable != nil {
		n.SetPickable(*opts.Pickable)
	}
	if opts.Opacity != nil {
		if err := n.SetOpacity(*opts.Opacity); err != nil {
			return err
		}
	}
	if opts.Content != nil {
		n.SetContent(opts.Content)
	}
	if opts.ClipArea != nil {
		n.SetClipArea(opts.ClipArea)
	}
	if opts.MaxWidth != nil {
		if err := n.SetMaxWidth(opts.MaxWidth); err != nil {
			return err
		}
	}
	if opts.MaxHeight != nil {
		if err := n.SetMaxHeight(opts.MaxHeight); err != nil {
			return err
		}
	}
	if opts.ExcludeInvisibleChildrenFromBounds != nil {
		n.SetExcludeInvisibleChildrenFromBounds(*opts.ExcludeInvisibleChildrenFromBounds)
	}
	if opts.TransformBounds != nil {
		n.SetTransformBounds(*opts.TransformBounds)
	}
	if opts.LocalBounds != nil {
		if !opts.LocalBounds.IsFinite() && !opts.LocalBounds.IsEmpty() {
			return fmt.Errorf("node %d: %w: local bounds %v", n.id, ErrNonFinite, *opts.LocalBounds)
		}
		n.SetLocalBounds(opts.LocalBounds)
	}
	if opts.MouseArea != nil {
		n.SetMouseArea(opts.MouseArea)
	}
	if opts.TouchArea != nil {
		n.SetTouchArea(opts.TouchArea)
	}
	if opts.TagName != nil {
		n.SetTagName(*opts.TagName)
	}
	if opts.Renderers != nil {
		n.SetRenderers(NewRendererSet(opts.Renderers...))
	}
	return nil
}
