package cli

import (
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

// previewRamp maps luminance to glyphs, darkest last.
var previewRamp = []rune(" .:-=+*#%@")

// renderPreview draws img as text cols characters wide. Terminal cells are
// about twice as tall as wide, so each row covers two pixel rows' worth.
func renderPreview(img image.Image, cols int) string {
	b := img.Bounds()
	if cols < 1 || b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}
	rows := max(1, cols*b.Dy()/b.Dx()/2)
	small := imaging.Resize(img, cols, rows, imaging.Box)

	var sb strings.Builder
	for y := range rows {
		for x := range cols {
			sb.WriteRune(glyph(small.NRGBAAt(x, y)))
		}
		if y < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// glyph picks a ramp character for a pixel; ink (dark) maps to dense glyphs.
func glyph(c color.NRGBA) rune {
	lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
	// Alpha below 255 fades toward the (white) terminal background
	lum = 255 - (255-lum)*int(c.A)/255
	idx := (255 - lum) * (len(previewRamp) - 1) / 255
	return previewRamp[idx]
}
