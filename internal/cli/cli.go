// Package cli implements the analogtopo command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/analogtopo/pkg/buildinfo"
	"github.com/matzehuels/analogtopo/pkg/cache"
	"github.com/matzehuels/analogtopo/pkg/config"
	"github.com/matzehuels/analogtopo/pkg/constraint"
	"github.com/matzehuels/analogtopo/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "analogtopo"

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

	// configPath is the --config flag; empty means the default file.
	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "analogtopo extracts layout constraints from analog netlists",
		Long: `analogtopo reads a SPICE netlist, builds a device/net graph of its transistors and
detects differential pairs and current mirrors. The result is a JSON list of
symmetry and grouping constraints for an analog placer.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFileName+" if present)")

	root.AddCommand(c.extractCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	cache, err := newCache(noCache || c.cfg.Cache.Disabled)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, keyer, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/analogtopo/).
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

// defaultOutput derives an output path from the input path by replacing its
// extension with suffix: ota.sp + "_constraints.json" -> ota_constraints.json.
func defaultOutput(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// =============================================================================
// Options Helpers
// =============================================================================

// extractFlags are the per-run overrides shared by extract, graph and inspect.
type extractFlags struct {
	prefix    string
	marker    string
	direction string
}

func (f *extractFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "device instance prefix (default from config, M)")
	cmd.Flags().StringVar(&f.marker, "nfet-marker", "", "model substring that marks NFETs (default from config, nfet)")
	cmd.Flags().StringVarP(&f.direction, "direction", "d", "", "symmetry axis for differential pairs: V or H")
}

// pipelineOptions merges config values with command-line overrides.
func (c *CLI) pipelineOptions(f extractFlags) pipeline.Options {
	opts := pipeline.Options{
		DevicePrefix:   c.cfg.Extract.DevicePrefix,
		PolarityMarker: c.cfg.Extract.PolarityMarker,
		Direction:      constraint.Direction(c.cfg.Extract.Direction),
		CacheTTL:       c.cfg.Cache.TTL.Duration,
		Logger:         c.Logger,
	}
	if f.prefix != "" {
		opts.DevicePrefix = f.prefix
	}
	if f.marker != "" {
		opts.PolarityMarker = f.marker
	}
	if f.direction != "" {
		opts.Direction = constraint.Direction(strings.ToUpper(f.direction))
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
