package inkblot

import (
	"math"
	"math/rand/v2"

	"github.com/fogleman/gg"

	"github.com/matzehuels/inkblot/pkg/config"
)

// Point is a vertex of a shape outline.
type Point struct {
	X, Y float64
}

// ShapeOptions controls the outline of a single shape.
type ShapeOptions struct {
	Step   config.FloatRange // angular step between vertices, radians
	Radius config.FloatRange // vertex radius as a fraction of size
}

// ShapePoints returns the vertices of a random closed outline around the
// origin. Vertices are placed at increasing angles from 0 up to a full turn;
// the first vertex is always at angle 0, so at least one vertex is returned.
func ShapePoints(rng *rand.Rand, size float64, opts ShapeOptions) []Point {
	var pts []Point
	for a := 0.0; a < 2*math.Pi; {
		r := size * opts.Radius.Rand(rng)
		pts = append(pts, Point{math.Cos(a) * r, math.Sin(a) * r})
		step := opts.Step.Rand(rng)
		if step <= 0 {
			break
		}
		a += step
	}
	return pts
}

// DrawShape fills a random closed curve of the given size at the current
// transform of dc, using its current color.
func DrawShape(dc *gg.Context, rng *rand.Rand, size float64, opts ShapeOptions) {
	traceClosedCurve(dc, ShapePoints(rng, size, opts))
	dc.Fill()
}

// traceClosedCurve appends a closed Catmull-Rom spline through pts to the
// current path, one cubic Bézier per edge.
func traceClosedCurve(dc *gg.Context, pts []Point) {
	n := len(pts)
	if n == 0 {
		return
	}
	dc.MoveTo(pts[0].X, pts[0].Y)
	if n < 3 {
		for _, p := range pts[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		return
	}
	for i := range n {
		p0 := pts[(i-1+n)%n]
		p1 := pts[i]
		p2 := pts[(i+1)%n]
		p3 := pts[(i+2)%n]
		dc.CubicTo(
			p1.X+(p2.X-p0.X)/6, p1.Y+(p2.Y-p0.Y)/6,
			p2.X-(p3.X-p1.X)/6, p2.Y-(p3.Y-p1.Y)/6,
			p2.X, p2.Y,
		)
	}
	dc.ClosePath()
}
