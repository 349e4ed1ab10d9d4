package scene

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/FabianRolfMatthiasNoll/polyscene/internal/raster"
)

// ErrReservedDescriptor is returned for a color/count pair whose descriptor
// byte would read back as a terminator.
var ErrReservedDescriptor = errors.New("descriptor collides with a terminator")

// Polygon is one record of an encoded frame. Indexed frames use Indices,
// literal frames use Vertices.
type Polygon struct {
	Color    uint8
	Vertices []raster.Vertex
	Indices  []uint8
}

// Frame describes one frame for the Encoder.
type Frame struct {
	Clear       bool
	PaletteMask uint16  // zero means no palette update
	Palette     Palette // entries written for the set mask bits
	Indexed     bool
	Table       []raster.Vertex
	Polygons    []Polygon
	End         byte // EndFrame (default), EndFrame64 or EndStream
}

// Encoder builds scene streams, mostly for tests and tooling.
type Encoder struct {
	buf bytes.Buffer
}

func (e *Encoder) Bytes() []byte { return e.buf.Bytes() }
func (e *Encoder) Len() int      { return e.buf.Len() }

// WriteFrame appends f. After EndFrame64 the stream is padded with
// PaddingByte up to the next 64KB block.
func (e *Encoder) WriteFrame(f Frame) error {
	end := f.End
	if end == 0 {
		end = EndFrame
	}
	if end != EndFrame && end != EndFrame64 && end != EndStream {
		return fmt.Errorf("terminator %#02x is not reserved", end)
	}

	var flags byte
	if f.Clear {
		flags |= FlagClear
	}
	if f.PaletteMask != 0 {
		flags |= FlagPalette
	}
	if f.Indexed {
		flags |= FlagIndexed
		if len(f.Table) > 0xFF {
			return fmt.Errorf("vertex table of %d: %w", len(f.Table), ErrOversizedRecord)
		}
	}
	for i, p := range f.Polygons {
		n := len(p.Vertices)
		if f.Indexed {
			n = len(p.Indices)
		}
		switch {
		case n == 0:
			return fmt.Errorf("polygon %d: %w", i, ErrEmptyPolygon)
		case n > MaxPolygonVertices:
			return fmt.Errorf("polygon %d with %d vertices: %w", i, n, ErrOversizedRecord)
		case p.Color > 0x0F:
			return fmt.Errorf("polygon %d color %d out of range", i, p.Color)
		}
		switch p.Color<<4 | byte(n) {
		case EndFrame, EndFrame64, EndStream:
			return fmt.Errorf("polygon %d color %d with %d vertices: %w", i, p.Color, n, ErrReservedDescriptor)
		}
	}

	e.buf.WriteByte(flags)
	if f.PaletteMask != 0 {
		e.writeU16(f.PaletteMask)
		for i := 0; i < PaletteSize; i++ {
			if f.PaletteMask&(1<<i) != 0 {
				e.writeU16(f.Palette[PaletteSize-1-i])
			}
		}
	}
	if f.Indexed {
		e.buf.WriteByte(byte(len(f.Table)))
		for _, v := range f.Table {
			e.buf.WriteByte(v.X)
			e.buf.WriteByte(v.Y)
		}
	}
	for _, p := range f.Polygons {
		if f.Indexed {
			e.buf.WriteByte(p.Color<<4 | byte(len(p.Indices)))
			e.buf.Write(p.Indices)
			continue
		}
		e.buf.WriteByte(p.Color<<4 | byte(len(p.Vertices)))
		for _, v := range p.Vertices {
			e.buf.WriteByte(v.X)
			e.buf.WriteByte(v.Y)
		}
	}

	e.buf.WriteByte(end)
	if end == EndFrame64 {
		next := ((e.buf.Len() >> 16) + 1) << 16
		for e.buf.Len() < next {
			e.buf.WriteByte(PaddingByte)
		}
	}
	return nil
}

func (e *Encoder) writeU16(v uint16) {
	e.buf.WriteByte(byte(v >> 8))
	e.buf.WriteByte(byte(v))
}

// Encode is a convenience wrapper writing all frames in order.
func Encode(frames ...Frame) ([]byte, error) {
	var e Encoder
	for i, f := range frames {
		if err := e.WriteFrame(f); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return e.Bytes(), nil
}
