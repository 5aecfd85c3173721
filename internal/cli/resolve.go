package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/celldraw/pkg/pipeline"
)

// resolveCommand creates the resolve command, which prints the computed
// diagram document.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		output  string
		radius  float64
		padding float64
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [diagram.json]",
		Short: "Compute arrow geometry and print the diagram document",
		Long: `Compute the geometry of every node and arrow and print the result as JSON.

Reads stdin when no file (or "-") is given. An invalid or cyclic diagram still
produces a document, with "error" set and everything else empty, and the
command exits non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("node-radius") {
				opts.NodeRadius = radius
			}
			if cmd.Flags().Changed("view-padding") {
				opts.ViewPadding = padding
			}
			opts.Refresh = refresh
			return c.runResolve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), inputArg(args), output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().Float64Var(&radius, "node-radius", 0, "node radius")
	cmd.Flags().Float64Var(&padding, "view-padding", 0, "padding around the view box")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, stdin io.Reader, stdout io.Writer, input, output string, opts pipeline.Options) error {
	data, err := pipeline.ReadInput(input, stdin)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spec, d, hit, resolveErr := runner.ResolveWithCacheInfo(ctx, data, opts)

	doc, err := pipeline.MarshalDiagram(d)
	if err != nil {
		return err
	}
	if err := writeOutput(stdout, output, doc); err != nil {
		return err
	}
	if resolveErr != nil {
		return resolveErr
	}
	prog.done(fmt.Sprintf("Resolved %d of %d arrows", len(d.Arrows), len(spec.Arrows)))

	if output != "" {
		printSuccess("Diagram resolved")
		printFile(output)
		printStats(len(d.Nodes), len(d.Arrows), hit)
		printNewline()
		printNextStep("Preview", appName+" render "+input)
	}
	return nil
}
