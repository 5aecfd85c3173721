package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/celldraw/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent flags apply to every command:
//
//	--config   TOML config file (default: <user config dir>/celldraw/config.toml)
//	--no-cache disable the diagram and artifact cache
//	--redis    use a Redis cache at this URL instead of the file cache
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Celldraw computes the geometry of string diagrams",
		Long: `Celldraw turns a diagram file (nodes on a grid, arrows between nodes and
between other arrows) into concrete geometry: SVG paths, label positions and
clipping masks, ready for a front end to draw.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (TOML)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable caching")
	flags.StringVar(&c.redisURL, "redis", "", "Redis URL for a shared cache (redis://host:port/db)")

	// Register all subcommands
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
