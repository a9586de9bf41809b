// Package scenefile loads grove scenes from TOML descriptions.
//
// A file has an optional [scene] table (a grove.SceneConfig) and one [[node]]
// table per node:
//
//	[scene]
//	name = "toolbar"
//
//	[scene.diagnostics]
//	slow_audit = true
//
//	[[node]]
//	name = "icon"
//	parents = ["left", "right"]
//	circle = [0, 0, 8]
//
// Nodes without parents are attached to the scene root. Children are added
// to each parent in file order, so file order is paint order.
package scenefile

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/phanxgames/grove"
)

var (
	// ErrDuplicateName is returned when two nodes share a name.
	ErrDuplicateName = errors.New("scenefile: duplicate node name")

	// ErrUnknownParent is returned when a parent name matches no node.
	ErrUnknownParent = errors.New("scenefile: unknown parent")

	// ErrCycle is returned when a parent edge would close a cycle.
	ErrCycle = errors.New("scenefile: edge would create a cycle")

	// ErrShape is returned when a rect, circle or polygon field is malformed.
	ErrShape = errors.New("scenefile: malformed shape")
)

// File is the decoded form of a scene file.
type File struct {
	Scene grove.SceneConfig `toml:"scene"`
	Nodes []NodeSpec        `toml:"node"`
}

// NodeSpec describes one node. Unset optional fields keep the node defaults.
type NodeSpec struct {
	Name    string   `toml:"name"`
	Parents []string `toml:"parents"`

	X        float64     `toml:"x"`
	Y        float64     `toml:"y"`
	Rotation float64     `toml:"rotation"`
	Scale    []float64   `toml:"scale"`
	Visible  *bool       `toml:"visible"`
	Pickable *bool       `toml:"pickable"`
	Opacity  *float64    `toml:"opacity"`
	Rect     []float64   `toml:"rect"`
	Circle   []float64   `toml:"circle"`
	Polygon  [][]float64 `toml:"polygon"`

	Clip        []float64 `toml:"clip"`
	LocalBounds []float64 `toml:"local_bounds"`
	MouseArea   []float64 `toml:"mouse_area"`
	TouchArea   []float64 `toml:"touch_area"`
	MaxWidth    *float64  `toml:"max_width"`
	MaxHeight   *float64  `toml:"max_height"`

	ExcludeInvisible bool     `toml:"exclude_invisible"`
	TransformBounds  bool     `toml:"transform_bounds"`
	Tag              string   `toml:"tag"`
	Renderers        []string `toml:"renderers"`
}

// Parse decodes a scene file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	seen := make(map[string]bool, len(f.Nodes))
	for i, spec := range f.Nodes {
		if spec.Name == "" {
			return nil, fmt.Errorf("node %d: name is required", i)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, spec.Name)
		}
		seen[spec.Name] = true
	}
	return &f, nil
}

// Loaded is a built scene plus its nodes by name.
type Loaded struct {
	Scene *grove.Scene
	Nodes map[string]*grove.Node
	Order []*grove.Node // file order
}

// Node returns the node with the given name, or nil.
func (l *Loaded) Node(name string) *grove.Node {
	return l.Nodes[name]
}

// Load reads and builds the scene file at path.
func Load(path string, reg prometheus.Registerer, logger *log.Logger) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l, err := f.Build(reg, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Build creates the scene. Every node is created first and the edges are
// added afterwards, so parents may be declared after their children. An edge
// that would close a cycle is reported as ErrCycle instead of panicking.
func (f *File) Build(reg prometheus.Registerer, logger *log.Logger) (*Loaded, error) {
	scene, err := grove.NewScene(f.Scene, reg, logger)
	if err != nil {
		return nil, err
	}
	l := &Loaded{Scene: scene, Nodes: make(map[string]*grove.Node, len(f.Nodes))}
	fail := func(err error) (*Loaded, error) {
		scene.Close()
		return nil, err
	}

	for _, spec := range f.Nodes {
		n := scene.NewNode(spec.Name)
		opts, err := spec.options()
		if err != nil {
			return fail(fmt.Errorf("node %q: %w", spec.Name, err))
		}
		if err := n.Mutate(opts); err != nil {
			return fail(fmt.Errorf("node %q: %w", spec.Name, err))
		}
		l.Nodes[spec.Name] = n
		l.Order = append(l.Order, n)
	}

	for i, spec := range f.Nodes {
		child := l.Order[i]
		if len(spec.Parents) == 0 {
			scene.Root().AddChild(child)
			continue
		}
		for _, name := range spec.Parents {
			parent, ok := l.Nodes[name]
			if !ok {
				return fail(fmt.Errorf("node %q: %w %q", spec.Name, ErrUnknownParent, name))
			}
			if parent.HasChild(child) {
				return fail(fmt.Errorf("node %q: parent %q listed twice", spec.Name, name))
			}
			if !parent.CanAddChild(child) {
				return fail(fmt.Errorf("%w: %q -> %q", ErrCycle, name, spec.Name))
			}
			parent.AddChild(child)
		}
	}
	scene.Diagnostics().Logger().Debug("scene loaded", "scene", scene.Name(), "nodes", len(l.Order))
	return l, nil
}

func (s NodeSpec) options() (grove.Options, error) {
	var opts grove.Options
	if s.X != 0 {
		opts.X = grove.Ptr(s.X)
	}
	if s.Y != 0 {
		opts.Y = grove.Ptr(s.Y)
	}
	if s.Rotation != 0 {
		opts.Rotation = grove.Ptr(s.Rotation)
	}
	if s.Scale != nil {
		switch len(s.Scale) {
		case 1:
			opts.Scale = &grove.Vec2{X: s.Scale[0], Y: s.Scale[0]}
		case 2:
			opts.Scale = &grove.Vec2{X: s.Scale[0], Y: s.Scale[1]}
		default:
			return opts, fmt.Errorf("%w: scale needs 1 or 2 values, got %d", ErrShape, len(s.Scale))
		}
	}
	opts.Visible = s.Visible
	opts.Pickable = s.Pickable
	opts.Opacity = s.Opacity

	content, err := s.content()
	if err != nil {
		return opts, err
	}
	opts.Content = content

	if opts.ClipArea, err = boundsField("clip", s.Clip); err != nil {
		return opts, err
	}
	if opts.LocalBounds, err = boundsField("local_bounds", s.LocalBounds); err != nil {
		return opts, err
	}
	if opts.MouseArea, err = boundsField("mouse_area", s.MouseArea); err != nil {
		return opts, err
	}
	if opts.TouchArea, err = boundsField("touch_area", s.TouchArea); err != nil {
		return opts, err
	}
	opts.MaxWidth = s.MaxWidth
	opts.MaxHeight = s.MaxHeight
	if s.ExcludeInvisible {
		opts.ExcludeInvisibleChildrenFromBounds = grove.Ptr(true)
	}
	if s.TransformBounds {
		opts.TransformBounds = grove.Ptr(true)
	}
	if s.Tag != "" {
		opts.TagName = grove.Ptr(s.Tag)
	}
	for _, name := range s.Renderers {
		r, err := grove.ParseRenderer(name)
		if err != nil {
			return opts, err
		}
		opts.Renderers = append(opts.Renderers, r)
	}
	return opts, nil
}

func (s NodeSpec) content() (grove.Content, error) {
	var shapes []grove.Content
	if s.Rect != nil {
		if len(s.Rect) != 4 {
			return nil, fmt.Errorf("%w: rect needs [x, y, width, height]", ErrShape)
		}
		shapes = append(shapes, grove.Rect{X: s.Rect[0], Y: s.Rect[1], Width: s.Rect[2], Height: s.Rect[3]})
	}
	if s.Circle != nil {
		if len(s.Circle) != 3 {
			return nil, fmt.Errorf("%w: circle needs [cx, cy, radius]", ErrShape)
		}
		shapes = append(shapes, grove.Circle{CenterX: s.Circle[0], CenterY: s.Circle[1], Radius: s.Circle[2]})
	}
	if s.Polygon != nil {
		p := grove.Polygon{Points: make([]grove.Vec2, len(s.Polygon))}
		for i, pt := range s.Polygon {
			if len(pt) != 2 {
				return nil, fmt.Errorf("%w: polygon point %d needs [x, y]", ErrShape, i)
			}
			p.Points[i] = grove.Vec2{X: pt[0], Y: pt[1]}
		}
		shapes = append(shapes, p)
	}
	switch len(shapes) {
	case 0:
		return nil, nil
	case 1:
		return shapes[0], nil
	default:
		return nil, fmt.Errorf("%w: at most one of rect, circle and polygon", ErrShape)
	}
}

func boundsField(name string, v []float64) (*grove.Bounds, error) {
	if v == nil {
		return nil, nil
	}
	if len(v) != 4 {
		return nil, fmt.Errorf("%w: %s needs [min_x, min_y, max_x, max_y]", ErrShape, name)
	}
	for _, c := range v {
		if math.IsNaN(c) {
			return nil, fmt.Errorf("%w: %s has NaN", ErrShape, name)
		}
	}
	b := grove.NewBounds(v[0], v[1], v[2], v[3])
	return &b, nil
}
