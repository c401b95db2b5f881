package inkblot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/inkblot/pkg/config"
	"github.com/matzehuels/inkblot/pkg/errors"
)

// smallConfig keeps canvases small so blur stays cheap in tests.
func smallConfig(seed uint64) config.Config {
	cfg := config.Default()
	cfg.Width = 160
	cfg.Height = 120
	cfg.Padding = config.IntRange{Min: 20, Max: 40}
	cfg.Shapes = config.IntRange{Min: 10, Max: 30}
	cfg.Blur = config.IntRange{Min: 1, Max: 3}
	cfg.Size = config.FloatRange{Min: 2, Max: 12}
	cfg.Seed = seed
	return cfg
}

func newTestComposer(t *testing.T, cfg config.Config) *Composer {
	t.Helper()
	c, err := NewComposer(cfg)
	if err != nil {
		t.Fatalf("NewComposer() error: %v", err)
	}
	return c
}

func assertMirrored(t *testing.T, img *image.NRGBA, tolerance int) {
	t.Helper()
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := range h {
		for x := range w / 2 {
			l := img.NRGBAAt(x, y)
			r := img.NRGBAAt(w-1-x, y)
			if diff(l.R, r.R) > tolerance || diff(l.G, r.G) > tolerance ||
				diff(l.B, r.B) > tolerance || diff(l.A, r.A) > tolerance {
				t.Fatalf("pixel (%d,%d)=%v does not mirror (%d,%d)=%v", x, y, l, w-1-x, y, r)
			}
		}
	}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestShapePoints(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	opts := ShapeOptions{
		Step:   config.FloatRange{Min: math.Pi / 6, Max: math.Pi / 4},
		Radius: config.FloatRange{Min: 0.2, Max: 1},
	}
	const size = 40.0

	for range 200 {
		pts := ShapePoints(rng, size, opts)
		// 2π in steps of π/6..π/4 gives between 8 and 12 vertices
		if len(pts) < 8 || len(pts) > 12 {
			t.Fatalf("len(pts) = %d, want 8..12", len(pts))
		}
		if pts[0].Y != 0 || pts[0].X <= 0 {
			t.Errorf("first vertex %v should lie on the positive x axis", pts[0])
		}
		prev := -1.0
		for _, p := range pts {
			r := math.Hypot(p.X, p.Y)
			if r < 0.2*size-1e-9 || r > size+1e-9 {
				t.Fatalf("radius %g outside [%g, %g)", r, 0.2*size, size)
			}
			a := math.Atan2(p.Y, p.X)
			if a < 0 {
				a += 2 * math.Pi
			}
			if a <= prev {
				t.Fatalf("angles not increasing: %g after %g", a, prev)
			}
			prev = a
		}
	}
}

func TestShapePointsAlwaysHasAVertex(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	opts := ShapeOptions{
		Step:   config.FloatRange{Min: 10, Max: 10},
		Radius: config.FloatRange{Min: 1, Max: 1},
	}
	pts := ShapePoints(rng, 5, opts)
	if len(pts) != 1 {
		t.Fatalf("len(pts) = %d, want 1", len(pts))
	}
	if pts[0] != (Point{5, 0}) {
		t.Errorf("pts[0] = %v, want {5 0}", pts[0])
	}
}

func TestNewComposerRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Shapes = config.IntRange{Min: 9, Max: 1}
	if _, err := NewComposer(cfg); !errors.Is(err, errors.ErrCodeInvalidRange) {
		t.Errorf("NewComposer() error = %v, want %s", err, errors.ErrCodeInvalidRange)
	}
}

func TestNewComposerRandomSeed(t *testing.T) {
	c := newTestComposer(t, smallConfig(0))
	if c.Seed() == 0 {
		t.Error("a zero seed should be replaced by a random one")
	}
	if c2, _ := NewComposer(smallConfig(5), WithSeed(9)); c2.Seed() != 9 {
		t.Errorf("WithSeed(9) seed = %d", c2.Seed())
	}
}

func TestGenerateParamsWithinRanges(t *testing.T) {
	cfg := smallConfig(42)
	c := newTestComposer(t, cfg)
	canvas := c.NewCanvas()
	ctx := context.Background()

	for range 25 {
		p := c.Generate(ctx, canvas)
		if !cfg.Padding.Contains(p.Padding) {
			t.Errorf("Padding %d outside %v", p.Padding, cfg.Padding)
		}
		if !cfg.Shapes.Contains(p.Shapes) {
			t.Errorf("Shapes %d outside %v", p.Shapes, cfg.Shapes)
		}
		if !cfg.Blur.Contains(p.Blur) {
			t.Errorf("Blur %d outside %v", p.Blur, cfg.Blur)
		}
	}
}

func TestGenerateNeverDrawsUpperBound(t *testing.T) {
	cfg := smallConfig(5)
	cfg.Padding = config.IntRange{Min: 20, Max: 22}
	cfg.Shapes = config.IntRange{Min: 3, Max: 5}
	cfg.Blur = config.IntRange{Min: 0, Max: 2}
	c := newTestComposer(t, cfg)
	canvas := c.NewCanvas()
	ctx := context.Background()

	seen := map[string]bool{}
	for range 200 {
		p := c.Generate(ctx, canvas)
		if p.Padding == cfg.Padding.Max || p.Shapes == cfg.Shapes.Max || p.Blur == cfg.Blur.Max {
			t.Fatalf("Generate() = %+v, reached an exclusive upper bound", p)
		}
		seen[fmt.Sprintf("padding=%d", p.Padding)] = true
		seen[fmt.Sprintf("shapes=%d", p.Shapes)] = true
		seen[fmt.Sprintf("blur=%d", p.Blur)] = true
	}
	for _, want := range []string{"padding=20", "padding=21", "shapes=3", "shapes=4", "blur=0", "blur=1"} {
		if !seen[want] {
			t.Errorf("never drew %s", want)
		}
	}
}

func TestGenerateIsMirroredBeforeBlur(t *testing.T) {
	for _, width := range []int{160, 161} {
		cfg := smallConfig(7)
		cfg.Width = width
		cfg.Blur = config.IntRange{}
		c := newTestComposer(t, cfg)
		canvas := c.NewCanvas()

		for range 5 {
			c.Generate(context.Background(), canvas)
			assertMirrored(t, canvas.Image(), 0)
		}
	}
}

func TestGenerateIsMirroredAfterBlur(t *testing.T) {
	c := newTestComposer(t, smallConfig(11))
	canvas := c.NewCanvas()
	c.Generate(context.Background(), canvas)
	assertMirrored(t, canvas.Image(), 2)
}

func TestGenerateDrawsInk(t *testing.T) {
	cfg := smallConfig(3)
	cfg.Blur = config.IntRange{}
	c := newTestComposer(t, cfg)
	canvas := c.NewCanvas()
	c.Generate(context.Background(), canvas)

	img := canvas.Image()
	inked := 0
	for y := range canvas.Height() {
		for x := range canvas.Width() {
			if img.NRGBAAt(x, y).R < 255 {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Error("Generate() left the canvas blank")
	}
}

func TestGenerateRespectsPadding(t *testing.T) {
	cfg := smallConfig(5)
	cfg.Blur = config.IntRange{}
	cfg.Padding = config.IntRange{Min: 30, Max: 40}
	cfg.Size = config.FloatRange{Min: 2, Max: 8}
	c := newTestComposer(t, cfg)
	canvas := c.NewCanvas()
	img := canvas.Image()
	white := color.NRGBA{255, 255, 255, 255}

	// Shape centers sit at least Padding.Min from the edge. Spline control
	// points stay within 4/3 of the largest vertex radius, plus antialiasing.
	margin := cfg.Padding.Min - int(math.Ceil(cfg.Size.Max*4/3)) - 2

	for range 5 {
		c.Generate(context.Background(), canvas)
		for y := range canvas.Height() {
			for x := range margin {
				if img.NRGBAAt(x, y) != white || img.NRGBAAt(canvas.Width()-1-x, y) != white {
					t.Fatalf("ink at column %d inside the padding margin %d", x, margin)
				}
			}
		}
		for x := range canvas.Width() {
			for y := range margin {
				if img.NRGBAAt(x, y) != white || img.NRGBAAt(x, canvas.Height()-1-y) != white {
					t.Fatalf("ink at row %d inside the padding margin %d", y, margin)
				}
			}
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	ctx := context.Background()
	a := newTestComposer(t, smallConfig(99))
	b := newTestComposer(t, smallConfig(99))
	ca, cb := a.NewCanvas(), b.NewCanvas()

	for range 3 {
		pa := a.Generate(ctx, ca)
		pb := b.Generate(ctx, cb)
		if pa != pb {
			t.Fatalf("params differ for the same seed: %+v vs %+v", pa, pb)
		}
		if !bytes.Equal(ca.Image().Pix, cb.Image().Pix) {
			t.Fatal("pixels differ for the same seed")
		}
	}
}

func TestMirror(t *testing.T) {
	canvas := NewCanvas(6, 2, 255)
	layer := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	red := color.NRGBA{255, 0, 0, 255}
	layer.SetNRGBA(0, 0, red)
	layer.SetNRGBA(2, 1, red)

	Mirror(canvas, layer)

	img := canvas.Image()
	for _, p := range []image.Point{{0, 0}, {5, 0}, {2, 1}, {3, 1}} {
		if got := img.NRGBAAt(p.X, p.Y); got != red {
			t.Errorf("pixel %v = %v, want red", p, got)
		}
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("pixel (1,0) = %v, want background", got)
	}
}

func TestBlurZeroIsNoop(t *testing.T) {
	canvas := NewCanvas(8, 8, 255)
	canvas.Image().SetNRGBA(4, 4, color.NRGBA{0, 0, 0, 255})
	before := bytes.Clone(canvas.Image().Pix)

	Blur(canvas, 0)
	if !bytes.Equal(before, canvas.Image().Pix) {
		t.Error("Blur(0) changed the canvas")
	}

	Blur(canvas, 2)
	if bytes.Equal(before, canvas.Image().Pix) {
		t.Error("Blur(2) left the canvas unchanged")
	}
}

func TestCanvasReset(t *testing.T) {
	canvas := NewCanvas(4, 3, 200)
	if canvas.Width() != 4 || canvas.Height() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", canvas.Width(), canvas.Height())
	}
	canvas.Image().SetNRGBA(1, 1, color.NRGBA{0, 0, 0, 255})
	canvas.Reset()
	want := color.NRGBA{200, 200, 200, 255}
	for y := range 3 {
		for x := range 4 {
			if got := canvas.Image().NRGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v after Reset, want %v", x, y, got, want)
			}
		}
	}
}
