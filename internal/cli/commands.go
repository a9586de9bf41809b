package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/grove"
	"github.com/phanxgames/grove/dot"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <scene.toml>",
		Short: "Print the scene graph as a tree with bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadScene(cmd, args[0])
			if err != nil {
				return err
			}
			defer l.Scene.Close()

			w := cmd.OutOrStdout()
			printTitle(w, "%s", l.Scene.Name())
			printTree(w, l.Scene.Root(), 0)
			fmt.Fprintln(w)

			root := l.Scene.Root()
			nodes := root.GetSubtreeNodes()
			edges := 0
			for _, n := range nodes {
				edges += n.NumChildren()
			}
			diag := l.Scene.Diagnostics()
			printKeyValue(w, "nodes", fmt.Sprint(len(nodes)))
			printKeyValue(w, "edges", fmt.Sprint(edges))
			printKeyValue(w, "max parents", fmt.Sprint(diag.MaxParentCount()))
			printKeyValue(w, "max children", fmt.Sprint(diag.MaxChildCount()))
			printKeyValue(w, "bounds", root.Bounds().String())
			return nil
		},
	}
}

// printTree prints n and its subtree. Shared nodes are printed under every
// parent and highlighted.
func printTree(w io.Writer, n *grove.Node, depth int) {
	name := StyleName.Render(n.String())
	if n.NumParents() > 1 {
		name = StyleShared.Render(fmt.Sprintf("%s (%d parents)", n, n.NumParents()))
	}
	var flags []string
	if !n.IsVisible() {
		flags = append(flags, "hidden")
	}
	if !n.IsPickable() {
		flags = append(flags, "unpickable")
	}
	if n.IsLocalBoundsOverridden() {
		flags = append(flags, "fixed bounds")
	}
	line := strings.Repeat("  ", depth) + name + " " + StyleDim.Render(n.Bounds().String())
	if len(flags) > 0 {
		line += " " + StyleDim.Render("["+strings.Join(flags, ", ")+"]")
	}
	fmt.Fprintln(w, line)
	for _, c := range n.Children() {
		printTree(w, c, depth+1)
	}
}

func newTrailsCmd() *cobra.Command {
	var leaves bool
	cmd := &cobra.Command{
		Use:   "trails <scene.toml> <node>",
		Short: "List every trail from a root to the node (or from the node to its leaves)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadScene(cmd, args[0])
			if err != nil {
				return err
			}
			defer l.Scene.Close()
			if err := lookupNode(l, args[1]); err != nil {
				return err
			}
			n := l.Node(args[1])

			var trails []*grove.Trail
			if leaves {
				trails = n.GetLeafTrails(nil)
			} else {
				trails = n.GetTrails(nil)
			}
			w := cmd.OutOrStdout()
			printTitle(w, "%d trails", len(trails))
			for _, t := range trails {
				x, y := t.LocalToGlobalPoint(0, 0)
				fmt.Fprintf(w, "%s %s\n", StyleValue.Render(t.String()), StyleDim.Render(fmt.Sprintf("origin (%g, %g)", x, y)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&leaves, "leaves", false, "list trails from the node down to its leaves")
	return cmd
}

func newTopoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topo <scene.toml>",
		Short: "Print the nodes in topological order, parents first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadScene(cmd, args[0])
			if err != nil {
				return err
			}
			defer l.Scene.Close()

			w := cmd.OutOrStdout()
			for i, n := range l.Scene.Root().GetTopologicallySortedNodes() {
				fmt.Fprintf(w, "%3d  %s\n", i, StyleName.Render(n.String()))
			}
			return nil
		},
	}
}

func newDotCmd() *cobra.Command {
	var (
		output    string
		svg       bool
		bounds    bool
		highlight string
	)
	cmd := &cobra.Command{
		Use:   "dot <scene.toml>",
		Short: "Export the scene graph as Graphviz DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadScene(cmd, args[0])
			if err != nil {
				return err
			}
			defer l.Scene.Close()

			opts := dot.Options{Bounds: bounds}
			if highlight != "" {
				if err := lookupNode(l, highlight); err != nil {
					return err
				}
				if trails := l.Node(highlight).GetTrails(nil); len(trails) > 0 {
					opts.Highlight = trails[0]
				}
			}
			out := []byte(dot.ToDOT(l.Scene.Root(), opts))
			if svg {
				if out, err = dot.RenderSVG(cmd.Context(), string(out)); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if output == "" {
				_, err := w.Write(out)
				return err
			}
			if err := writeFile(output, out); err != nil {
				return err
			}
			printSuccess(w, "wrote graph")
			printFile(w, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG with Graphviz instead of DOT text")
	cmd.Flags().BoolVar(&bounds, "bounds", false, "include total bounds in node labels")
	cmd.Flags().StringVar(&highlight, "highlight", "", "highlight the first trail to this node")
	return cmd
}

func newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit <scene.toml>",
		Short: "Check edge consistency, acyclicity and cached bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadScene(cmd, args[0])
			if err != nil {
				return err
			}
			defer l.Scene.Close()

			w := cmd.OutOrStdout()
			root := l.Scene.Root()
			if err := root.AuditStructure(); err != nil {
				printError(w, "structure: %v", err)
				return err
			}
			printSuccess(w, "structure consistent")

			root.ValidateBounds()
			if err := root.AuditBounds(); err != nil {
				printError(w, "bounds: %v", err)
				return err
			}
			printSuccess(w, "bounds match recomputation")
			return nil
		},
	}
}

func newCullCmd() *cobra.Command {
	var (
		x, y, zoom    float64
		width, height float64
	)
	cmd := &cobra.Command{
		Use:   "cull <scene.toml>",
		Short: "List the trails a camera would draw",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if zoom <= 0 {
				return fmt.Errorf("zoom must be positive, got %g", zoom)
			}
			l, err := loadScene(cmd, args[0])
			if err != nil {
				return err
			}
			defer l.Scene.Close()

			cam := grove.NewCamera(grove.RectBounds(0, 0, width, height))
			cam.X, cam.Y, cam.Zoom = x, y, zoom
			trails := cam.Cull(l.Scene.Root())

			w := cmd.OutOrStdout()
			printTitle(w, "%d visible trails", len(trails))
			printKeyValue(w, "view", cam.VisibleBounds().String())
			for _, t := range trails {
				fmt.Fprintln(w, StyleValue.Render(t.String()))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&x, "x", 400, "global x the camera centers on")
	cmd.Flags().Float64Var(&y, "y", 300, "global y the camera centers on")
	cmd.Flags().Float64Var(&zoom, "zoom", 1, "camera zoom")
	cmd.Flags().Float64Var(&width, "width", 800, "viewport width")
	cmd.Flags().Float64Var(&height, "height", 600, "viewport height")
	return cmd
}
