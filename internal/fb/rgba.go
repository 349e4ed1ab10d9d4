package fb

import (
	"image"

	"github.com/FabianRolfMatthiasNoll/polyscene/internal/raster"
)

// RGBA is the hosted window surface: raster.Width x raster.Height pixels of
// RGBA8888, ready for ebiten.Image.WritePixels or PNG encoding.
type RGBA struct {
	pal PaletteSource
	pix []byte
}

func NewRGBA(pal PaletteSource) *RGBA {
	f := &RGBA{pal: pal, pix: make([]byte, raster.Width*raster.Height*4)}
	f.Clear()
	return f
}

// Clear paints the surface opaque black.
func (f *RGBA) Clear() {
	for i := 0; i < len(f.pix); i += 4 {
		f.pix[i] = 0
		f.pix[i+1] = 0
		f.pix[i+2] = 0
		f.pix[i+3] = 0xFF
	}
}

// Span resolves the palette entry now, so later palette writes do not
// recolor pixels already drawn.
func (f *RGBA) Span(ci uint8, x1, x2, y int) {
	x1, x2, ok := clipSpan(x1, x2, y, raster.Width, raster.Height)
	if !ok {
		return
	}
	c := ExpandRGB565(f.pal.Entry(ci))
	off := (y*raster.Width + x1) * 4
	for x := x1; x <= x2; x++ {
		f.pix[off] = c.R
		f.pix[off+1] = c.G
		f.pix[off+2] = c.B
		f.pix[off+3] = c.A
		off += 4
	}
}

// Pix exposes the backing pixels; callers must not retain it across frames.
func (f *RGBA) Pix() []byte { return f.pix }

// Image returns a copy of the surface.
func (f *RGBA) Image() *image.RGBA {
	img := &image.RGBA{
		Pix:    make([]byte, len(f.pix)),
		Stride: 4 * raster.Width,
		Rect:   image.Rect(0, 0, raster.Width, raster.Height),
	}
	copy(img.Pix, f.pix)
	return img
}
