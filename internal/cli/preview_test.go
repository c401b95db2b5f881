package cli

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRenderPreviewSize(t *testing.T) {
	tests := []struct {
		w, h, cols int
		wantRows   int
	}{
		{800, 800, 64, 32},
		{160, 120, 40, 15},
		{100, 10, 20, 1},
	}
	for _, tt := range tests {
		out := renderPreview(uniform(tt.w, tt.h, color.NRGBA{255, 255, 255, 255}), tt.cols)
		lines := strings.Split(out, "\n")
		if len(lines) != tt.wantRows {
			t.Errorf("%dx%d at %d cols: %d rows, want %d", tt.w, tt.h, tt.cols, len(lines), tt.wantRows)
		}
		for i, l := range lines {
			if n := len([]rune(l)); n != tt.cols {
				t.Errorf("row %d has %d runes, want %d", i, n, tt.cols)
			}
		}
	}
}

func TestRenderPreviewLuminance(t *testing.T) {
	white := renderPreview(uniform(20, 20, color.NRGBA{255, 255, 255, 255}), 10)
	if strings.Trim(white, " \n") != "" {
		t.Errorf("white image should render blank, got %q", white)
	}

	black := renderPreview(uniform(20, 20, color.NRGBA{0, 0, 0, 255}), 10)
	if strings.Trim(black, "@\n") != "" {
		t.Errorf("black image should render as @, got %q", black)
	}

	clear := renderPreview(uniform(20, 20, color.NRGBA{0, 0, 0, 0}), 10)
	if strings.Trim(clear, " \n") != "" {
		t.Errorf("transparent image should render blank, got %q", clear)
	}
}

func TestRenderPreviewEmpty(t *testing.T) {
	if got := renderPreview(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 10); got != "" {
		t.Errorf("empty image = %q, want empty", got)
	}
	if got := renderPreview(uniform(4, 4, color.NRGBA{A: 255}), 0); got != "" {
		t.Errorf("zero cols = %q, want empty", got)
	}
}
