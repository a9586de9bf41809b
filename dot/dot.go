// Package dot exports grove scene graphs as Graphviz diagrams.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/phanxgames/grove"
)

// Options configures DOT output.
type Options struct {
	// Bounds adds each node's total bounds to its label.
	Bounds bool

	// Highlight fills the nodes of this trail and bolds its edges.
	Highlight *grove.Trail
}

// ToDOT converts the subtree of root to Graphviz DOT format. Nodes with more
// than one parent are drawn once, with an edge from every parent, so shared
// subtrees stay visible as such. Edge labels are child indices.
func ToDOT(root *grove.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	onTrail := func(*grove.Node) bool { return false }
	onTrailEdge := func(_, _ *grove.Node) bool { return false }
	if t := opts.Highlight; t != nil {
		onTrail = t.ContainsNode
		onTrailEdge = func(p, c *grove.Node) bool {
			nodes := t.Nodes()
			for i := 1; i < len(nodes); i++ {
				if nodes[i-1] == p && nodes[i] == c {
					return true
				}
			}
			return false
		}
	}

	nodes := root.GetSubtreeNodes()
	for _, n := range nodes {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Bounds))}
		if onTrail(n) {
			attrs = append(attrs, "fillcolor=lightblue")
		}
		if n.NumParents() > 1 {
			attrs = append(attrs, "peripheries=2")
		}
		if !n.IsVisible() {
			attrs = append(attrs, "fontcolor=grey")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(n), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		for i, c := range n.Children() {
			attrs := []string{fmt.Sprintf("label=\"%d\"", i)}
			if onTrailEdge(n, c) {
				attrs = append(attrs, "penwidth=3")
			}
			fmt.Fprintf(&buf, "  %s -> %s [%s];\n", nodeID(n), nodeID(c), strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(n *grove.Node) string {
	return fmt.Sprintf("n%d", n.ID())
}

func fmtLabel(n *grove.Node, bounds bool) string {
	label := n.String()
	if !bounds {
		return label
	}
	b := n.Bounds()
	if b.IsEmpty() {
		return label + "\n(empty)"
	}
	return fmt.Sprintf("%s\n[%g, %g] x [%g, %g]", label, b.MinX, b.MaxX, b.MinY, b.MaxY)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
