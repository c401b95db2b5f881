package inkblot

import (
	"image"
	"image/color"
	"image/draw"
)

// Canvas is the framebuffer an inkblot is drawn into.
type Canvas struct {
	img        *image.NRGBA
	background color.NRGBA
}

// NewCanvas returns a canvas of the given size filled with a gray background.
func NewCanvas(width, height int, background uint8) *Canvas {
	c := &Canvas{
		img:        image.NewNRGBA(image.Rect(0, 0, width, height)),
		background: color.NRGBA{background, background, background, 255},
	}
	c.Reset()
	return c
}

// Image returns the backing image. It is overwritten by the next generation.
func (c *Canvas) Image() *image.NRGBA { return c.img }

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.img.Rect.Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Reset fills the canvas with its background.
func (c *Canvas) Reset() {
	draw.Draw(c.img, c.img.Rect, image.NewUniform(c.background), image.Point{}, draw.Src)
}

// replace copies src over the whole canvas.
func (c *Canvas) replace(src image.Image) {
	draw.Draw(c.img, c.img.Rect, src, src.Bounds().Min, draw.Src)
}
