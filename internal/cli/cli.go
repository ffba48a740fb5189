// Package cli implements the forcegraph command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "forcegraph"

	// configEnv names a config file used when --config is not given.
	configEnv = "FORCEGRAPH_CONFIG"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is the effective configuration: defaults, overlaid by the
	// --config file when one is given.
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level <= log.DebugLevel)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "forcegraph lays out graphs with a force-directed solver",
		Long: `forcegraph computes 2D positions for graphs of labeled, shaped nodes by
letting every node repel every other node while edges act as springs.

Batch commands (layout, render) run a fixed number of passes from a seeded
start and cache the result. Live commands (watch, view, serve) keep relaxing
the layout in the background and show each published frame.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.preRun,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file (default: $"+configEnv+")")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// preRun applies --verbose, loads the config file and attaches the logger
// to the command context.
func (c *CLI) preRun(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	path := c.configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path != "" {
		cfg, undecoded, err := config.Load(path)
		if err != nil {
			return err
		}
		for _, key := range undecoded {
			c.Logger.Warn("unknown config key", "key", key, "file", path)
		}
		c.Config = cfg
		c.Logger.Debug("loaded config", "file", path)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	runner.TTL = c.Config.Cache.TTL.Duration
	return runner, nil
}

// openCache opens the configured cache backend. A file cache whose
// directory can't be determined degrades to no caching.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.Disabled("--no-cache"), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "error", err)
		return cache.Disabled("no cache directory: " + err.Error()), nil
	}
	cc, err := cache.Open(ctx, c.Config.CacheOptions(dir))
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", c.Config.Cache.Backend, err)
	}
	return cc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/forcegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// outputBase strips the graph suffixes from input so outputs land next to it:
// "g.json" and "g.layout.json" both become "g".
func outputBase(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return strings.TrimSuffix(base, ".layout")
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the flags shared by layout and render.
type layoutFlags struct {
	passes            int
	seed              uint64
	springLength      float64
	springStiffness   float64
	repulsionStrength float64
	noCache           bool
	refresh           bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	defaults := config.Default().Layout
	cmd.Flags().IntVar(&f.passes, "passes", pipeline.DefaultPasses, "solver passes")
	cmd.Flags().Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed for initial positions")
	cmd.Flags().Float64Var(&f.springLength, "spring-length", defaults.SpringLength, "edge rest length")
	cmd.Flags().Float64Var(&f.springStiffness, "spring-stiffness", defaults.SpringStiffness, "spring force per unit of stretch")
	cmd.Flags().Float64Var(&f.repulsionStrength, "repulsion", defaults.RepulsionStrength, "inverse-square repulsion constant")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
}

// apply fills opts from the config file, then from flags the user set.
func (f *layoutFlags) apply(cmd *cobra.Command, cfg config.Config, opts *pipeline.Options) {
	opts.Params = cfg.Layout
	flags := cmd.Flags()
	if flags.Changed("spring-length") {
		opts.Params.SpringLength = f.springLength
	}
	if flags.Changed("spring-stiffness") {
		opts.Params.SpringStiffness = f.springStiffness
	}
	if flags.Changed("repulsion") {
		opts.Params.RepulsionStrength = f.repulsionStrength
	}
	opts.Passes = f.passes
	opts.Seed = f.seed
	opts.Refresh = f.refresh
}

// renderFlags are the styling flags of render.
type renderFlags struct {
	formats    string
	margin     float64
	fill       string
	hideLabels bool
	scale      float64
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): "+strings.Join(render.Formats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().Float64Var(&f.margin, "margin", config.DefaultMargin, "blank border around the drawing")
	cmd.Flags().StringVar(&f.fill, "fill", config.DefaultFill, "node and edge color")
	cmd.Flags().BoolVar(&f.hideLabels, "hide-labels", false, "omit node labels")
	cmd.Flags().Float64Var(&f.scale, "scale", 1, "raster scale factor (png)")
}

func (f *renderFlags) apply(cmd *cobra.Command, cfg config.Config, opts *pipeline.Options) {
	opts.Formats = parseFormats(f.formats)
	opts.Margin = cfg.Render.Margin
	opts.Fill = cfg.Render.Fill
	if cmd.Flags().Changed("margin") {
		opts.Margin = f.margin
	}
	if cmd.Flags().Changed("fill") {
		opts.Fill = f.fill
	}
	opts.HideLabels = f.hideLabels
	opts.Scale = f.scale
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
