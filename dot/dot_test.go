package dot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/grove"
)

func diamond() (a, b, c, d *grove.Node) {
	a = grove.NewNode("a")
	b = grove.NewNode("b")
	c = grove.NewNode("c")
	d = grove.NewNode("d")
	a.AddChild(b)
	a.AddChild(c)
	b.AddChild(d)
	c.AddChild(d)
	return a, b, c, d
}

func TestToDOT_NodesAndEdges(t *testing.T) {
	a, b, c, d := diamond()
	out := ToDOT(a, Options{})

	require.True(t, strings.HasPrefix(out, "digraph G {\n"))
	for _, n := range []*grove.Node{a, b, c, d} {
		assert.Contains(t, out, "\n  "+nodeID(n)+" [label=")
	}
	assert.Contains(t, out, nodeID(a)+" -> "+nodeID(b)+" [label=\"0\"]")
	assert.Contains(t, out, nodeID(a)+" -> "+nodeID(c)+" [label=\"1\"]")
	assert.Contains(t, out, nodeID(b)+" -> "+nodeID(d))
	assert.Contains(t, out, nodeID(c)+" -> "+nodeID(d))
	// d is declared once even though it has two parents. Edge lines start
	// with the parent id, so only the declaration follows the indent.
	assert.Equal(t, 1, strings.Count(out, "\n  "+nodeID(d)+" [label="))
	assert.Contains(t, out, "peripheries=2")
}

func TestToDOT_BoundsAndHighlight(t *testing.T) {
	a, b, _, d := diamond()
	d.SetContent(grove.Rect{Width: 4, Height: 2})

	out := ToDOT(a, Options{Bounds: true, Highlight: grove.NewTrail(a, b, d)})
	assert.Contains(t, out, "[0, 4] x [0, 2]")
	assert.Equal(t, 3, strings.Count(out, "fillcolor=lightblue"))
	assert.Equal(t, 2, strings.Count(out, "penwidth=3"))
}

func TestFmtLabel_Empty(t *testing.T) {
	n := grove.NewNode("empty")
	assert.Equal(t, n.String()+"\n(empty)", fmtLabel(n, true))
	assert.Equal(t, n.String(), fmtLabel(n, false))
}
