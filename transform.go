package grove

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Transform owns the affine matrix of exactly one Node. Every change calls the
// owner's change hook synchronously, which is how the bounds engine and the
// picker learn about it.
//
// Matrix layout follows ebiten.GeoM:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Transform struct {
	matrix       ebiten.GeoM
	inverse      ebiten.GeoM
	inverseDirty bool
	onChange     func()
}

// NewTransform creates a transform holding m. A nil onChange is allowed.
func NewTransform(m ebiten.GeoM, onChange func()) *Transform {
	return &Transform{matrix: m, inverseDirty: true, onChange: onChange}
}

// Matrix returns a copy of the current matrix.
func (t *Transform) Matrix() ebiten.GeoM {
	return t.matrix
}

// Inverse returns the inverse matrix. A singular matrix yields the identity.
func (t *Transform) Inverse() ebiten.GeoM {
	if t.inverseDirty {
		t.inverse = invertMatrix(t.matrix)
		t.inverseDirty = false
	}
	return t.inverse
}

// SetMatrix replaces the matrix. Non-finite entries are rejected with
// ErrNonFinite and leave the transform unchanged.
func (t *Transform) SetMatrix(m ebiten.GeoM) error {
	if err := checkFiniteMatrix(m); err != nil {
		return err
	}
	if m == t.matrix {
		return nil
	}
	t.matrix = m
	t.changed()
	return nil
}

// Append post-multiplies: the result applies m first, then the old matrix.
// Use it to transform in the node's local frame.
func (t *Transform) Append(m ebiten.GeoM) error {
	return t.SetMatrix(multiplyMatrix(t.matrix, m))
}

// Prepend pre-multiplies: the result applies the old matrix first, then m.
// Use it to transform in the parent's frame.
func (t *Transform) Prepend(m ebiten.GeoM) error {
	return t.SetMatrix(multiplyMatrix(m, t.matrix))
}

// TransformPoint maps a local point into the parent frame.
func (t *Transform) TransformPoint(x, y float64) (float64, float64) {
	return t.matrix.Apply(x, y)
}

// InversePoint maps a parent-frame point into the local frame.
func (t *Transform) InversePoint(x, y float64) (float64, float64) {
	inv := t.Inverse()
	return inv.Apply(x, y)
}

// TransformBounds maps local bounds into the parent frame.
func (t *Transform) TransformBounds(b Bounds) Bounds {
	return b.Transformed(t.matrix)
}

// InverseBounds maps parent-frame bounds into the local frame.
func (t *Transform) InverseBounds(b Bounds) Bounds {
	return b.Transformed(t.Inverse())
}

// IsAxisAligned reports whether the matrix maps axis-aligned boxes onto
// axis-aligned boxes, in which case transformed bounds are exact.
func (t *Transform) IsAxisAligned() bool {
	return isAxisAligned(t.matrix)
}

func (t *Transform) changed() {
	t.inverseDirty = true
	if t.onChange != nil {
		t.onChange()
	}
}

// --- Matrix helpers ---

// matrixElements unpacks m as [a, b, c, d, tx, ty].
func matrixElements(m ebiten.GeoM) [6]float64 {
	return [6]float64{
		m.Element(0, 0), m.Element(1, 0),
		m.Element(0, 1), m.Element(1, 1),
		m.Element(0, 2), m.Element(1, 2),
	}
}

// newMatrix builds a GeoM from [a, b, c, d, tx, ty].
func newMatrix(e [6]float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, e[0])
	m.SetElement(1, 0, e[1])
	m.SetElement(0, 1, e[2])
	m.SetElement(1, 1, e[3])
	m.SetElement(0, 2, e[4])
	m.SetElement(1, 2, e[5])
	return m
}

// multiplyMatrix returns p * c: the result applies c first, then p.
func multiplyMatrix(p, c ebiten.GeoM) ebiten.GeoM {
	r := c
	r.Concat(p)
	return r
}

// invertMatrix computes the inverse of m.
// Returns the identity matrix if m is singular (determinant ≈ 0).
func invertMatrix(m ebiten.GeoM) ebiten.GeoM {
	e := matrixElements(m)
	det := e[0]*e[3] - e[2]*e[1]
	if det > -1e-12 && det < 1e-12 {
		return ebiten.GeoM{}
	}
	m.Invert()
	return m
}

func isIdentityMatrix(m ebiten.GeoM) bool {
	return m == ebiten.GeoM{}
}

func isAxisAligned(m ebiten.GeoM) bool {
	e := matrixElements(m)
	return (e[1] == 0 && e[2] == 0) || (e[0] == 0 && e[3] == 0)
}

func checkFiniteMatrix(m ebiten.GeoM) error {
	for i, v := range matrixElements(m) {
		if !isFinite(v) {
			return fmt.Errorf("%w: matrix element %d is %v", ErrNonFinite, i, v)
		}
	}
	return nil
}

func translationMatrix(x, y float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(x, y)
	return m
}

func scaleMatrix(sx, sy float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.Scale(sx, sy)
	return m
}

func rotationMatrix(theta float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.Rotate(theta)
	return m
}

// --- Node transform API ---

// Transform returns the node's transform. Mutating it invalidates bounds.
func (n *Node) Transform() *Transform {
	return n.transform
}

// Matrix returns a copy of the node's local-to-parent matrix.
func (n *Node) Matrix() ebiten.GeoM {
	return n.transform.Matrix()
}

// SetMatrix replaces the node's local-to-parent matrix.
func (n *Node) SetMatrix(m ebiten.GeoM) error {
	if err := n.transform.SetMatrix(m); err != nil {
		return fmt.Errorf("node %d: %w", n.id, err)
	}
	return nil
}

// Translation returns the translation component (tx, ty) of the matrix.
func (n *Node) Translation() (x, y float64) {
	e := matrixElements(n.transform.matrix)
	return e[4], e[5]
}

// SetTranslation sets the translation component, keeping scale, rotation and
// skew.
func (n *Node) SetTranslation(x, y float64) error {
	if !isFinite(x) || !isFinite(y) {
		return fmt.Errorf("node %d: %w: translation (%v, %v)", n.id, ErrNonFinite, x, y)
	}
	m := n.transform.Matrix()
	m.SetElement(0, 2, x)
	m.SetElement(1, 2, y)
	return n.SetMatrix(m)
}

// Translate moves the node by (dx, dy) in its parent's frame.
func (n *Node) Translate(dx, dy float64) error {
	if dx == 0 && dy == 0 {
		return nil
	}
	if err := n.transform.Prepend(translationMatrix(dx, dy)); err != nil {
		return fmt.Errorf("node %d: %w", n.id, err)
	}
	return nil
}

// Scale scales the node by (sx, sy) in its local frame.
func (n *Node) Scale(sx, sy float64) error {
	if sx == 1 && sy == 1 {
		return nil
	}
	if err := n.transform.Append(scaleMatrix(sx, sy)); err != nil {
		return fmt.Errorf("node %d: %w", n.id, err)
	}
	return nil
}

// ScaleVector returns the magnitude of the matrix's x and y basis vectors.
func (n *Node) ScaleVector() Vec2 {
	e := matrixElements(n.transform.matrix)
	return Vec2{X: math.Hypot(e[0], e[1]), Y: math.Hypot(e[2], e[3])}
}

// SetScaleMagnitude rescales the node so ScaleVector returns (sx, sy).
// A node with a zero scale cannot be rescaled and returns ErrNonFinite.
func (n *Node) SetScaleMagnitude(sx, sy float64) error {
	cur := n.ScaleVector()
	return n.Scale(sx/cur.X, sy/cur.Y)
}

// Rotation returns the rotation of the matrix in radians.
func (n *Node) Rotation() float64 {
	e := matrixElements(n.transform.matrix)
	return math.Atan2(e[1], e[0])
}

// Rotate rotates the node by theta radians around its local origin.
func (n *Node) Rotate(theta float64) error {
	if math.Mod(theta, 2*math.Pi) == 0 {
		return nil
	}
	if err := n.transform.Append(rotationMatrix(theta)); err != nil {
		return fmt.Errorf("node %d: %w", n.id, err)
	}
	return nil
}

// SetRotation sets the absolute rotation in radians.
func (n *Node) SetRotation(theta float64) error {
	if !isFinite(theta) {
		return fmt.Errorf("node %d: %w: rotation %v", n.id, ErrNonFinite, theta)
	}
	return n.Rotate(theta - n.Rotation())
}

// onTransformChange is the Transform hook installed by newNode.
func (n *Node) onTransformChange() {
	n.invalidateBounds()
	n.picker.OnTransformChange()
	n.TransformChanged.Emit(n)
}
