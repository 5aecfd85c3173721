package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/celldraw/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string  // output file (single format) or base path (multiple)
	formats   string  // comma-separated output formats
	radius    float64 // node radius
	padding   float64 // view box padding
	embedFont bool    // embed the label font in SVG output
	outlines  bool    // draw node outlines in SVG output
	detailed  bool    // show resolution rounds in dependency graphs
	refresh   bool    // ignore cached results
}

// renderCommand creates the render command, which resolves a diagram and
// writes one file per requested format.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts

	cmd := &cobra.Command{
		Use:   "render [diagram.json]",
		Short: "Render a diagram to SVG, JSON or dependency graphs",
		Long: `Resolve a diagram and write the requested formats:

  svg   preview of the computed geometry
  json  the computed diagram document (same as 'resolve')
  dot   Graphviz source of the arrow dependency graph
  deps  the dependency graph laid out by Graphviz, as SVG

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(ro.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if cmd.Flags().Changed("node-radius") {
				opts.NodeRadius = ro.radius
			}
			if cmd.Flags().Changed("view-padding") {
				opts.ViewPadding = ro.padding
			}
			opts.EmbedFont = ro.embedFont
			opts.Outlines = ro.outlines
			opts.Detailed = ro.detailed
			opts.Refresh = ro.refresh
			return c.runRender(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), inputArg(args), ro.output, opts)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), json, dot, deps (comma-separated)")
	cmd.Flags().Float64Var(&ro.radius, "node-radius", 0, "node radius")
	cmd.Flags().Float64Var(&ro.padding, "view-padding", 0, "padding around the view box")
	cmd.Flags().BoolVar(&ro.embedFont, "embed-font", false, "embed the label font (svg)")
	cmd.Flags().BoolVar(&ro.outlines, "outlines", false, "draw node outlines (svg)")
	cmd.Flags().BoolVar(&ro.detailed, "detailed", false, "show resolution rounds (dot, deps)")
	cmd.Flags().BoolVar(&ro.refresh, "refresh", false, "ignore cached results")

	return cmd
}

// runRender resolves the diagram, renders all formats and writes them.
func (c *CLI) runRender(ctx context.Context, stdin io.Reader, stdout io.Writer, input, output string, opts pipeline.Options) error {
	data, err := pipeline.ReadInput(input, stdin)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, data, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		stdout:    stdout,
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.Resolved, result.CacheInfo.ResolveHit && result.CacheInfo.RenderHit)
	if dropped := result.Stats.ArrowCount - result.Stats.Resolved; dropped > 0 {
		printWarning("%d arrow(s) could not be drawn and were dropped", dropped)
	}
	return nil
}
