package scene

import (
	"errors"
	"fmt"
	"io"

	"github.com/FabianRolfMatthiasNoll/polyscene/internal/raster"
)

// Frame flag bits.
const (
	FlagClear   byte = 1 << 0
	FlagPalette byte = 1 << 1
	FlagIndexed byte = 1 << 2
)

// Reserved descriptor bytes.
const (
	EndFrame   byte = 0xFF // end of frame
	EndFrame64 byte = 0xFE // end of frame, next frame starts on a 64KB block
	EndStream  byte = 0xFD // end of the whole stream

	// PaddingByte fills the tail of a block in block-padded streams.
	PaddingByte byte = 0x55
)

// MaxPolygonVertices is the largest vertex count a descriptor can carry.
const MaxPolygonVertices = 15

// Result tells the driver whether more frames follow.
type Result int

const (
	FrameDone Result = iota
	StreamDone
)

func (r Result) String() string {
	switch r {
	case FrameDone:
		return "frame"
	case StreamDone:
		return "stream"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// record outcomes of decoding one polygon record
type record int

const (
	recordMore record = iota
	recordFrame
	recordFrame64
	recordStream
)

type Options struct {
	// SkipPadding treats PaddingByte in flags position as filler.
	SkipPadding bool
	// Trace receives one line per frame and per polygon when set.
	Trace io.Writer
}

// Decoder carries all state of one playback: the cursor, the palette it
// writes, the current frame's vertex table and the sink it draws into.
type Decoder struct {
	cur   *Cursor
	pal   *Palette
	table VertexTable
	sink  raster.Sink
	opts  Options

	verts  [MaxPolygonVertices]raster.Vertex
	frames int
	done   bool
}

func NewDecoder(src []byte, pal *Palette, sink raster.Sink, opts Options) *Decoder {
	return &Decoder{cur: NewCursor(src), pal: pal, sink: sink, opts: opts}
}

// Done reports whether the stream has ended, normally or by error.
func (d *Decoder) Done() bool { return d.done }

// Frames counts frames decoded up to their terminator.
func (d *Decoder) Frames() int { return d.frames }

func (d *Decoder) Offset() int { return d.cur.Offset() }

func (d *Decoder) Palette() *Palette { return d.pal }

// Step decodes and draws one frame. After StreamDone or any error the
// decoder stays done and further calls return StreamDone without reading.
func (d *Decoder) Step() (Result, error) {
	if d.done {
		return StreamDone, nil
	}
	res, err := d.frame()
	if err != nil || res == StreamDone {
		d.done = true
	}
	return res, err
}

func (d *Decoder) frame() (Result, error) {
	flags, err := d.cur.ReadByte()
	for err == nil && d.opts.SkipPadding && flags == PaddingByte {
		flags, err = d.cur.ReadByte()
	}
	if err != nil {
		// Running out of input between frames is the normal end.
		return StreamDone, nil
	}
	start := d.cur.Offset() - 1
	d.tracef("frame %d @%#06x flags=%03b\n", d.frames, start, flags&0x07)

	if flags&FlagClear != 0 {
		d.sink.Clear()
	}

	if flags&FlagPalette != 0 {
		off := d.cur.Offset()
		mask, err := d.cur.ReadU16BE()
		if err == nil {
			err = d.pal.Update(mask, d.cur)
		}
		if err != nil {
			return StreamDone, &DecodeError{Op: "palette", Offset: off, Err: err}
		}
		d.tracef("  palette mask=%016b\n", mask)
	}

	indexed := flags&FlagIndexed != 0
	d.table.Reset()
	if indexed {
		off := d.cur.Offset()
		if err := d.table.Load(d.cur); err != nil {
			return StreamDone, &DecodeError{Op: "vertex table", Offset: off, Err: err}
		}
		d.tracef("  vertex table n=%d\n", d.table.Len())
	}

	for {
		rec, err := d.polygon(indexed)
		if err != nil {
			return StreamDone, err
		}
		switch rec {
		case recordFrame:
			d.frames++
			return FrameDone, nil
		case recordFrame64:
			d.frames++
			d.cur.AlignTo64KB()
			return FrameDone, nil
		case recordStream:
			d.frames++
			return StreamDone, nil
		}
	}
}

func (d *Decoder) polygon(indexed bool) (record, error) {
	off := d.cur.Offset()
	desc, err := d.cur.ReadByte()
	if err != nil {
		return recordStream, &DecodeError{Op: "polygon", Offset: off, Err: err}
	}
	switch desc {
	case EndFrame:
		return recordFrame, nil
	case EndFrame64:
		return recordFrame64, nil
	case EndStream:
		return recordStream, nil
	}

	color, n := desc>>4, int(desc&0x0F)
	if n == 0 {
		return recordStream, &DecodeError{Op: "polygon", Offset: off, Err: ErrEmptyPolygon}
	}

	verts := d.verts[:n]
	for i := range verts {
		if indexed {
			id, err := d.cur.ReadByte()
			if err == nil {
				verts[i], err = d.table.Lookup(id)
			}
			if err != nil {
				return recordStream, &DecodeError{Op: "polygon", Offset: off, Err: err}
			}
			continue
		}
		x, err := d.cur.ReadByte()
		if err != nil {
			return recordStream, &DecodeError{Op: "polygon", Offset: off, Err: err}
		}
		y, err := d.cur.ReadByte()
		if err != nil {
			return recordStream, &DecodeError{Op: "polygon", Offset: off, Err: err}
		}
		verts[i] = raster.Vertex{X: x, Y: y}
	}
	d.tracef("  poly @%#06x color=%d n=%d %v\n", off, color, n, verts)

	if err := raster.Fill(d.sink, color, verts); err != nil {
		if errors.Is(err, raster.ErrTooManyVertices) {
			err = ErrOversizedRecord
		}
		return recordStream, &DecodeError{Op: "fill", Offset: off, Err: err}
	}
	return recordMore, nil
}

func (d *Decoder) tracef(format string, args ...any) {
	if d.opts.Trace != nil {
		fmt.Fprintf(d.opts.Trace, format, args...)
	}
}
