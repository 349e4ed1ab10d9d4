package fb

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/polyscene/internal/raster"
)

// RGB565 draws into a caller-owned bitmap, typically a memory-mapped
// framebuffer handed over by a platform adapter. Pixels are little-endian
// 16-bit RGB565; rows are Stride bytes apart.
type RGB565 struct {
	pal    PaletteSource
	buf    []byte
	stride int
}

func NewRGB565(buf []byte, stride int, pal PaletteSource) (*RGB565, error) {
	if stride < raster.Width*2 {
		return nil, fmt.Errorf("rgb565: stride %d below row size %d", stride, raster.Width*2)
	}
	if need := stride*(raster.Height-1) + raster.Width*2; len(buf) < need {
		return nil, fmt.Errorf("rgb565: buffer holds %d bytes, need %d", len(buf), need)
	}
	return &RGB565{pal: pal, buf: buf, stride: stride}, nil
}

func (f *RGB565) Clear() {
	for y := 0; y < raster.Height; y++ {
		row := f.buf[y*f.stride : y*f.stride+raster.Width*2]
		for i := range row {
			row[i] = 0
		}
	}
}

func (f *RGB565) Span(ci uint8, x1, x2, y int) {
	x1, x2, ok := clipSpan(x1, x2, y, raster.Width, raster.Height)
	if !ok {
		return
	}
	p := f.pal.Entry(ci)
	lo, hi := byte(p), byte(p>>8)
	off := y*f.stride + x1*2
	for x := x1; x <= x2; x++ {
		f.buf[off] = lo
		f.buf[off+1] = hi
		off += 2
	}
}

// Pixel reads back one pixel, mainly for tests and snapshots.
func (f *RGB565) Pixel(x, y int) uint16 {
	off := y*f.stride + x*2
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}
