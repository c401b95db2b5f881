// Package config holds the tunable parameters of inkblot generation.
//
// Every random choice the composer makes is drawn from a range in [Config].
// The defaults reproduce the classic sketch: an 800×800 canvas, 30-210
// shapes, 50-150 padding and a blur of 5-15. Ranges exclude their upper
// bound, so the default padding is at most 149. Ranges can be changed in a TOML
// file or through command-line flags:
//
//	width = 800
//	height = 800
//	padding = "100-150"
//	shapes = "30-210"
//	blur = "5-15"
//
// Use [Load] to read a file over the defaults and [Config.Validate] before
// handing a config to the composer.
package config

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/inkblot/pkg/errors"
)

const (
	// AppName names the config directory.
	AppName = "inkblot"

	// FileName is the config file looked up in the config directory.
	FileName = "config.toml"
)

// Preset names.
const (
	PresetClassic = "classic"
	PresetSparse  = "sparse"
)

// Config describes the canvas and the ranges every inkblot parameter is drawn from.
type Config struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background int    `toml:"background"` // gray level of the canvas
	Ink        int    `toml:"ink"`        // gray level of the shapes
	Seed       uint64 `toml:"seed"`       // 0 picks a random seed

	Padding IntRange `toml:"padding"`
	Shapes  IntRange `toml:"shapes"`
	Blur    IntRange `toml:"blur"`
	Alpha   IntRange `toml:"alpha"`

	Size   FloatRange `toml:"size"`   // shape radius in pixels
	Step   FloatRange `toml:"step"`   // angular step between vertices, radians
	Radius FloatRange `toml:"radius"` // vertex radius as a fraction of size
}

// Default returns the classic configuration.
func Default() Config {
	return Config{
		Width:      800,
		Height:     800,
		Background: 255,
		Ink:        50,
		Padding:    IntRange{50, 150},
		Shapes:     IntRange{30, 210},
		Blur:       IntRange{5, 15},
		Alpha:      IntRange{50, 255},
		Size:       FloatRange{2, 50},
		Step:       FloatRange{math.Pi / 6, math.Pi / 4},
		Radius:     FloatRange{0.2, 1},
	}
}

var presets = map[string]func() Config{
	PresetClassic: Default,
	PresetSparse: func() Config {
		c := Default()
		c.Padding = IntRange{100, 150}
		return c
	},
}

// Preset returns a named configuration.
func Preset(name string) (Config, error) {
	fn, ok := presets[strings.ToLower(name)]
	if !ok {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown preset %q (must be one of: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return fn(), nil
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HalfWidth is the width of the half canvas shapes are placed on.
func (c Config) HalfWidth() int {
	return c.Width / 2
}

// Validate checks that every range is well formed and that the padding
// leaves room to place shapes on the half canvas.
func (c Config) Validate() error {
	if c.Width < 2 || c.Height < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas must be at least 2x1, got %dx%d", c.Width, c.Height)
	}
	if err := checkGray("background", c.Background); err != nil {
		return err
	}
	if err := checkGray("ink", c.Ink); err != nil {
		return err
	}

	for _, r := range []struct {
		name string
		r    IntRange
	}{
		{"padding", c.Padding},
		{"shapes", c.Shapes},
		{"blur", c.Blur},
		{"alpha", c.Alpha},
	} {
		if err := r.r.Validate(r.name); err != nil {
			return err
		}
		if r.r.Min < 0 {
			return errors.New(errors.ErrCodeInvalidRange, "%s: must not be negative", r.name)
		}
	}
	for _, r := range []struct {
		name string
		r    FloatRange
	}{
		{"size", c.Size},
		{"step", c.Step},
		{"radius", c.Radius},
	} {
		if err := r.r.Validate(r.name); err != nil {
			return err
		}
	}

	if c.Padding.Last() >= c.HalfWidth() {
		return errors.New(errors.ErrCodeInvalidRange, "padding: %d leaves no room on a half canvas %d wide", c.Padding.Last(), c.HalfWidth())
	}
	if 2*c.Padding.Last() >= c.Height {
		return errors.New(errors.ErrCodeInvalidRange, "padding: %d leaves no room on a canvas %d high", c.Padding.Last(), c.Height)
	}
	if c.Alpha.Last() > 255 {
		return errors.New(errors.ErrCodeInvalidRange, "alpha: %d exceeds 255", c.Alpha.Last())
	}
	if c.Size.Min <= 0 {
		return errors.New(errors.ErrCodeInvalidRange, "size: min must be positive")
	}
	if c.Step.Min <= 0 {
		return errors.New(errors.ErrCodeInvalidRange, "step: min must be positive")
	}
	if c.Radius.Min < 0 {
		return errors.New(errors.ErrCodeInvalidRange, "radius: must not be negative")
	}
	return nil
}

func checkGray(name string, v int) error {
	if v < 0 || v > 255 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: gray level %d outside 0-255", name, v)
	}
	return nil
}

// Load reads a TOML file over the defaults and validates the result.
// Keys the file sets but Config does not know are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve loads path, or the file at [DefaultPath] when path is empty.
// A missing default file is not an error: the defaults are returned along
// with an empty source path.
func Resolve(path string) (Config, string, error) {
	if path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	def, err := DefaultPath()
	if err != nil {
		return Default(), "", nil
	}
	if _, err := os.Stat(def); err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(def)
	return cfg, def, err
}

// DefaultPath returns the config file path using the XDG standard
// (~/.config/inkblot/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// Encode writes the configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode config")
	}
	return nil
}
