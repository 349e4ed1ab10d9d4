package fb

import "image/color"

// PaletteSource resolves a 4-bit palette index to its raw RGB565 entry.
type PaletteSource interface {
	Entry(index uint8) uint16
}

// ExpandRGB565 widens a packed rrrrrggg gggbbbbb value to opaque RGBA8888,
// replicating the high bits into the low bits of each channel.
func ExpandRGB565(v uint16) color.RGBA {
	r := uint8(v>>11) & 0x1F
	g := uint8(v>>5) & 0x3F
	b := uint8(v) & 0x1F
	return color.RGBA{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xFF,
	}
}

// clipSpan orders and clamps a span to a w-pixel row. ok is false when
// nothing of the span is visible.
func clipSpan(x1, x2, y, w, h int) (int, int, bool) {
	if y < 0 || y >= h {
		return 0, 0, false
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if x2 < 0 || x1 >= w {
		return 0, 0, false
	}
	if x1 < 0 {
		x1 = 0
	}
	if x2 >= w {
		x2 = w - 1
	}
	return x1, x2, true
}
