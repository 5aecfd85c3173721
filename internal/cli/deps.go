package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/celldraw/pkg/dag/transform"
	"github.com/matzehuels/celldraw/pkg/diagram"
	"github.com/matzehuels/celldraw/pkg/pipeline"
	"github.com/matzehuels/celldraw/pkg/render/nodelink"
)

// depsCommand creates the deps command, which shows which arrows wait on
// which endpoints without resolving any geometry.
func (c *CLI) depsCommand() *cobra.Command {
	var (
		output   string
		asSVG    bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "deps [diagram.json]",
		Short: "Show the arrow dependency graph",
		Long: `Show the arrow dependency graph as Graphviz DOT (or SVG with --svg).

Arrows are grouped by the resolution round in which they become drawable.
Arrows on a dependency cycle are highlighted in red.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDeps(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), inputArg(args), output, asSVG, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&asSVG, "svg", false, "lay out the graph with Graphviz and write SVG")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label arrows with their resolution round")

	return cmd
}

func (c *CLI) runDeps(ctx context.Context, stdin io.Reader, stdout io.Writer, input, output string, asSVG, detailed bool) error {
	data, err := pipeline.ReadInput(input, stdin)
	if err != nil {
		return err
	}
	spec, err := pipeline.Parse(data)
	if err != nil {
		return err
	}

	g := diagram.Dependencies(spec)
	c.Logger.Debug("dependency graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	if cycle := transform.FindCycle(g); len(cycle) > 0 {
		c.Logger.Warn("dependency cycle", "arrows", strings.Join(cycle, " -> "))
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: detailed})
	out := []byte(dot)
	if asSVG {
		if out, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return fmt.Errorf("render dependency graph: %w", err)
		}
	}
	if err := writeOutput(stdout, output, out); err != nil {
		return err
	}
	if output != "" {
		printSuccess("Dependency graph written")
		printFile(output)
	}
	return nil
}
