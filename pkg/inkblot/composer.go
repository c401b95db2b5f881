package inkblot

import (
	"context"
	"image"
	"math"
	"math/rand/v2"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/inkblot/pkg/config"
	"github.com/matzehuels/inkblot/pkg/observability"
)

// Params are the random choices behind one inkblot.
type Params struct {
	Padding int `json:"padding"`
	Shapes  int `json:"shapes"`
	Blur    int `json:"blur"`
}

// Option configures a Composer.
type Option func(*Composer)

// WithSeed overrides the seed from the config. Zero picks a random seed.
func WithSeed(seed uint64) Option {
	return func(c *Composer) { c.seed = seed }
}

// Composer generates inkblots from a configuration and a seeded random source.
type Composer struct {
	cfg  config.Config
	seed uint64
	rng  *rand.Rand
}

// NewComposer validates cfg and returns a composer seeded from cfg.Seed.
func NewComposer(cfg config.Config, opts ...Option) (*Composer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Composer{
		cfg:  cfg,
		seed: cfg.Seed,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.seed == 0 {
		c.seed = rand.Uint64()
	}
	c.rng = rand.New(rand.NewPCG(c.seed, c.seed^0xdeadbeef))
	return c, nil
}

// Seed returns the seed the random source was created with.
func (c *Composer) Seed() uint64 { return c.seed }

// Config returns the configuration the composer draws from.
func (c *Composer) Config() config.Config { return c.cfg }

// NewCanvas returns a canvas sized and colored for this composer.
func (c *Composer) NewCanvas() *Canvas {
	return NewCanvas(c.cfg.Width, c.cfg.Height, uint8(c.cfg.Background))
}

// Generate overwrites canvas with a new inkblot and returns its parameters.
//
// Padding and shape count are drawn first, then every shape is placed on the
// left half with its center at x in [padding, width/2) and y in
// [padding, height-padding). The half is mirrored onto the right and the
// blur intensity is drawn last.
func (c *Composer) Generate(ctx context.Context, canvas *Canvas) Params {
	start := time.Now()
	hooks := observability.Compose()
	hooks.OnComposeStart(ctx, canvas.Width(), canvas.Height())

	canvas.Reset()

	var p Params
	p.Padding = c.cfg.Padding.Rand(c.rng)
	p.Shapes = c.cfg.Shapes.Rand(c.rng)

	layer := c.drawLayer(canvas.Width()/2, canvas.Height(), p)
	Mirror(canvas, layer)

	p.Blur = c.cfg.Blur.Rand(c.rng)
	Blur(canvas, p.Blur)

	hooks.OnComposeComplete(ctx, p.Shapes, p.Padding, p.Blur, time.Since(start))
	return p
}

// drawLayer draws p.Shapes shapes on a transparent width×height layer.
func (c *Composer) drawLayer(width, height int, p Params) image.Image {
	dc := gg.NewContext(width, height)
	opts := ShapeOptions{Step: c.cfg.Step, Radius: c.cfg.Radius}
	xs := config.FloatRange{Min: float64(p.Padding), Max: float64(width)}
	ys := config.FloatRange{Min: float64(p.Padding), Max: float64(height - p.Padding)}
	ink := c.cfg.Ink

	for range p.Shapes {
		x := xs.Rand(c.rng)
		y := ys.Rand(c.rng)
		size := c.cfg.Size.Rand(c.rng)
		rotation := c.rng.Float64() * 2 * math.Pi
		alpha := c.cfg.Alpha.Rand(c.rng)

		dc.Push()
		dc.Translate(x, y)
		dc.Rotate(rotation)
		dc.SetRGBA255(ink, ink, ink, alpha)
		DrawShape(dc, c.rng, size, opts)
		dc.Pop()
	}
	return dc.Image()
}

// Mirror composites layer onto the left edge of the canvas and its horizontal
// flip onto the right edge. For an odd canvas width the middle column keeps
// the background.
func Mirror(c *Canvas, layer image.Image) {
	left := imaging.Clone(layer)
	out := imaging.Overlay(c.img, left, image.Pt(0, 0), 1.0)
	out = imaging.Overlay(out, imaging.FlipH(left), image.Pt(c.Width()-left.Rect.Dx(), 0), 1.0)
	c.replace(out)
}

// Blur applies a Gaussian blur with sigma equal to intensity.
// Intensities of zero or less leave the canvas untouched.
func Blur(c *Canvas, intensity int) {
	if intensity <= 0 {
		return
	}
	c.replace(imaging.Blur(c.img, float64(intensity)))
}
