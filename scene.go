package grove

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

// SceneConfig configures a Scene. It is the [scene] table of a scene file.
type SceneConfig struct {
	Name        string            `toml:"name"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
}

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, bounds changes of tracked nodes are forwarded to it.
type EntityStore interface {
	EmitBoundsChange(change BoundsChange)
}

// Scene owns a root node and the diagnostics shared by every node inserted
// below it. It is the Display of its root: UpdateDisplay settles the watched
// bounds once per frame.
type Scene struct {
	name     string
	root     *Node
	diag     *Diagnostics
	store    EntityStore
	updating bool
	closed   bool
	frame    uint64

	// Updated fires at the end of every UpdateDisplay, while IsUpdating
	// still reports true.
	Updated Emitter[*Scene]
}

// NewScene creates a scene with a pre-created root node. Metrics are
// registered on reg (nil skips registration) and logs go to logger (nil
// discards them).
func NewScene(cfg SceneConfig, reg prometheus.Registerer, logger *log.Logger) (*Scene, error) {
	diag, err := NewDiagnostics(cfg.Diagnostics, reg, logger)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", cfg.Name, err)
	}
	name := cfg.Name
	if name == "" {
		name = "scene"
	}
	root := NewNode("root")
	root.diag = diag
	s := &Scene{name: name, root: root, diag: diag}
	root.AddRootedDisplay(s)
	return s, nil
}

// Name returns the scene name.
func (s *Scene) Name() string {
	return s.name
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Diagnostics returns the scene's diagnostics.
func (s *Scene) Diagnostics() *Diagnostics {
	return s.diag
}

// NewNode creates a node that already carries the scene's diagnostics, so
// checks apply before it is inserted anywhere.
func (s *Scene) NewNode(name string) *Node {
	n := NewNode(name)
	n.diag = s.diag
	return n
}

// IsUpdating reports whether UpdateDisplay is running.
func (s *Scene) IsUpdating() bool {
	return s.updating
}

// Frame returns the number of completed display updates.
func (s *Scene) Frame() uint64 {
	return s.frame
}

// UpdateDisplay settles every watched subtree, then fires Updated. Bounds
// listeners run before the update pass starts, so Updated listeners observe
// a settled graph. Calling it from inside an update panics.
func (s *Scene) UpdateDisplay() {
	if s.updating {
		panic(fmt.Sprintf("grove: UpdateDisplay: scene %q is already updating", s.name))
	}
	s.root.ValidateWatchedBounds()

	s.updating = true
	defer func() { s.updating = false }()
	s.frame++
	s.Updated.Emit(s)
	s.diag.logger().Debug("display updated", "scene", s.name, "frame", s.frame)
}

// HitTest returns the trail to the topmost pickable node under the global
// point (x, y), or nil.
func (s *Scene) HitTest(x, y float64, isMouse, isTouch bool) *Trail {
	return s.root.HitTest(x, y, isMouse, isTouch)
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// Track forwards the given kind of bounds changes of n to the entity store.
// It returns the listener id for n.RemoveBoundsListener. Tracking a node
// makes it watched, so UpdateDisplay settles it every frame.
func (s *Scene) Track(n *Node, kind BoundsKind) ListenerID {
	return n.OnBoundsChange(kind, func(c BoundsChange) {
		if s.store != nil {
			s.store.EmitBoundsChange(c)
		}
	})
}

// Close detaches the scene from its root and unregisters its metrics.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.root.RemoveRootedDisplay(s)
	s.diag.Close()
}
