// Package cli implements the inkblot command-line interface.
//
// # Commands
//
//   - generate: render one inkblot to a PNG file
//   - batch: render N inkblots into a ZIP archive plus a CSV log
//   - session: interactive terminal session (refresh, export, batch export)
//   - serve: local HTTP preview server
//   - config: print the effective configuration
//   - completion: shell completion scripts
//
// All commands share the generation flags (--config, --preset, --seed and
// the range overrides) and support --verbose (-v) for debug logging.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/inkblot/pkg/buildinfo"
	"github.com/matzehuels/inkblot/pkg/config"
	"github.com/matzehuels/inkblot/pkg/errors"
	"github.com/matzehuels/inkblot/pkg/inkblot"
	"github.com/matzehuels/inkblot/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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
	gen    genFlags
}

// genFlags are the persistent flags that shape generation.
type genFlags struct {
	configPath string
	preset     string
	seed       uint64
	width      int
	height     int
	padding    config.IntRange
	shapes     config.IntRange
	blur       config.IntRange
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Inkblot generates symmetric Rorschach-style images",
		Long:         `Inkblot draws random curvy shapes on one half of a canvas, mirrors them across the vertical axis and blurs the result. Images can be exported one at a time or in batches as a ZIP archive with a CSV log of the parameters behind every image.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := &logHooks{logger: c.Logger}
			observability.SetComposeHooks(hooks)
			observability.SetExportHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	defaults := config.Default()
	f := root.PersistentFlags()
	f.StringVar(&c.gen.configPath, "config", "", "config file (default ~/.config/inkblot/config.toml)")
	f.StringVar(&c.gen.preset, "preset", "", "parameter preset: classic, sparse")
	f.Uint64Var(&c.gen.seed, "seed", 0, "random seed (0 picks one)")
	f.IntVar(&c.gen.width, "width", defaults.Width, "canvas width")
	f.IntVar(&c.gen.height, "height", defaults.Height, "canvas height")
	c.gen.padding, c.gen.shapes, c.gen.blur = defaults.Padding, defaults.Shapes, defaults.Blur
	f.Var(&c.gen.padding, "padding", "padding range, e.g. 50-150")
	f.Var(&c.gen.shapes, "shapes", "shape count range, e.g. 30-210")
	f.Var(&c.gen.blur, "blur", "blur intensity range, e.g. 5-15")
	root.MarkFlagsMutuallyExclusive("config", "preset")
	_ = root.RegisterFlagCompletionFunc("preset", completePresets)

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Composer Factory
// =============================================================================

// loadConfig resolves the base config (preset or file) and applies the
// generation flags the user set explicitly.
func (c *CLI) loadConfig(cmd *cobra.Command) (config.Config, error) {
	var (
		cfg config.Config
		src string
		err error
	)
	if c.gen.preset != "" {
		cfg, err = config.Preset(c.gen.preset)
		src = "preset " + c.gen.preset
	} else {
		cfg, src, err = config.Resolve(c.gen.configPath)
	}
	if err != nil {
		return config.Config{}, err
	}
	if src != "" {
		c.Logger.Debug("Loaded config", "source", src)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = c.gen.seed
	}
	if flags.Changed("width") {
		cfg.Width = c.gen.width
	}
	if flags.Changed("height") {
		cfg.Height = c.gen.height
	}
	if flags.Changed("padding") {
		cfg.Padding = c.gen.padding
	}
	if flags.Changed("shapes") {
		cfg.Shapes = c.gen.shapes
	}
	if flags.Changed("blur") {
		cfg.Blur = c.gen.blur
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newComposer loads the config and creates a composer and a matching canvas.
func (c *CLI) newComposer(cmd *cobra.Command) (*inkblot.Composer, *inkblot.Canvas, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	comp, err := inkblot.NewComposer(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "create composer")
	}
	c.Logger.Debug("Composer ready", "seed", comp.Seed(), "width", cfg.Width, "height", cfg.Height)
	return comp, comp.NewCanvas(), nil
}
