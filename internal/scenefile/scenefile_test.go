package scenefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/grove"
)

const toolbar = `
[scene]
name = "toolbar"

[scene.diagnostics]
slow_audit = true
max_settle_steps = 10000

[[node]]
name = "left"
x = 10.0

[[node]]
name = "right"
x = 100.0
scale = [2.0]

[[node]]
name = "icon"
parents = ["left", "right"]
circle = [0.0, 0.0, 8.0]
tag = "button"
renderers = ["svg", "canvas"]

[[node]]
name = "label"
parents = ["left"]
rect = [10.0, -4.0, 30.0, 8.0]
visible = false
`

func TestParseAndBuild(t *testing.T) {
	f, err := Parse([]byte(toolbar))
	require.NoError(t, err)
	require.Len(t, f.Nodes, 4)
	assert.Equal(t, "toolbar", f.Scene.Name)
	assert.True(t, f.Scene.Diagnostics.SlowAudit)
	assert.Equal(t, 10000, f.Scene.Diagnostics.MaxSettleSteps)

	l, err := f.Build(prometheus.NewRegistry(), nil)
	require.NoError(t, err)
	t.Cleanup(l.Scene.Close)

	root := l.Scene.Root()
	left, right, icon, label := l.Node("left"), l.Node("right"), l.Node("icon"), l.Node("label")
	assert.Equal(t, []*grove.Node{left, right}, root.Children())
	assert.Equal(t, []*grove.Node{icon, label}, left.Children())
	assert.Equal(t, []*grove.Node{left, right}, icon.Parents())
	assert.Equal(t, "button", icon.TagName())
	assert.True(t, icon.Renderers().Supports(grove.RendererSVG))
	assert.False(t, icon.Renderers().Supports(grove.RendererWebGL))
	assert.False(t, label.IsVisible())

	assert.Equal(t, grove.NewBounds(-8, -8, 40, 8), left.LocalBounds())
	assert.Equal(t, grove.NewBounds(84, -16, 116, 16), right.Bounds())
	assert.Len(t, icon.GetTrails(nil), 2)

	// Reading left and right does not settle the root; audit needs a clean cache.
	root.ValidateBounds()
	require.NoError(t, root.AuditBounds())
}

func TestParse_DuplicateName(t *testing.T) {
	_, err := Parse([]byte("[[node]]\nname = \"a\"\n[[node]]\nname = \"a\"\n"))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestParse_MissingName(t *testing.T) {
	_, err := Parse([]byte("[[node]]\nx = 1.0\n"))
	assert.Error(t, err)
}

func TestBuild_Cycle(t *testing.T) {
	f, err := Parse([]byte(`
[[node]]
name = "a"
parents = ["b"]

[[node]]
name = "b"
parents = ["a"]
`))
	require.NoError(t, err)
	_, err = f.Build(nil, nil)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestBuild_UnknownParent(t *testing.T) {
	f, err := Parse([]byte("[[node]]\nname = \"a\"\nparents = [\"ghost\"]\n"))
	require.NoError(t, err)
	_, err = f.Build(nil, nil)
	assert.ErrorIs(t, err, ErrUnknownParent)
}

func TestBuild_BadShape(t *testing.T) {
	f, err := Parse([]byte("[[node]]\nname = \"a\"\nrect = [1.0, 2.0]\n"))
	require.NoError(t, err)
	_, err = f.Build(nil, nil)
	assert.ErrorIs(t, err, ErrShape)

	f, err = Parse([]byte("[[node]]\nname = \"a\"\nrect = [0.0, 0.0, 1.0, 1.0]\ncircle = [0.0, 0.0, 1.0]\n"))
	require.NoError(t, err)
	_, err = f.Build(nil, nil)
	assert.ErrorIs(t, err, ErrShape)
}

func TestBuild_OpacityRange(t *testing.T) {
	f, err := Parse([]byte("[[node]]\nname = \"a\"\nopacity = 1.5\n"))
	require.NoError(t, err)
	_, err = f.Build(nil, nil)
	assert.ErrorIs(t, err, grove.ErrOpacityRange)
}

func TestBuild_ReleasesMetricsOnError(t *testing.T) {
	reg := prometheus.NewRegistry()
	f, err := Parse([]byte("[[node]]\nname = \"a\"\nparents = [\"ghost\"]\n"))
	require.NoError(t, err)
	_, err = f.Build(reg, nil)
	require.Error(t, err)

	// The failed build unregistered its collectors, so a second scene can
	// register the same names.
	l, err := (&File{}).Build(reg, nil)
	require.NoError(t, err)
	l.Scene.Close()
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(toolbar), 0o644))

	l, err := Load(path, nil, nil)
	require.NoError(t, err)
	t.Cleanup(l.Scene.Close)
	assert.Len(t, l.Order, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"), nil, nil)
	assert.Error(t, err)
}
