package scene

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/FabianRolfMatthiasNoll/polyscene/internal/raster"
)

type span struct {
	color      uint8
	x1, x2, y int
}

type recordSink struct {
	clears int
	spans  []span
}

func (r *recordSink) Clear() { r.clears++ }
func (r *recordSink) Span(color uint8, x1, x2, y int) {
	r.spans = append(r.spans, span{color, x1, x2, y})
}

// fillSpans is what the rasterizer draws for one polygon on its own.
func fillSpans(t *testing.T, color uint8, verts []raster.Vertex) []span {
	t.Helper()
	var r recordSink
	if err := raster.Fill(&r, color, verts); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	return r.spans
}

func mustEncode(t *testing.T, frames ...Frame) []byte {
	t.Helper()
	b, err := Encode(frames...)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return b
}

var triangle = []raster.Vertex{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}

func TestDecodeRoundTrip(t *testing.T) {
	var pal Palette
	pal[0] = 0x1111
	pal[15] = 0x2222
	src := mustEncode(t, Frame{
		Clear:       true,
		PaletteMask: 0x8001,
		Palette:     pal,
		Polygons:    []Polygon{{Color: 2, Vertices: triangle}},
	})
	if src[0] != 0b011 {
		t.Fatalf("flags byte got %03b want 011", src[0])
	}

	var got Palette
	var sink recordSink
	d := NewDecoder(src, &got, &sink, Options{})
	res, err := d.Step()
	if err != nil || res != FrameDone {
		t.Fatalf("Step got %v, %v want frame", res, err)
	}
	if got != pal {
		t.Fatalf("palette got %v want %v", got, pal)
	}
	if sink.clears != 1 {
		t.Fatalf("clears got %d want 1", sink.clears)
	}
	if want := fillSpans(t, 2, triangle); !reflect.DeepEqual(sink.spans, want) {
		t.Fatalf("spans got %v want %v", sink.spans, want)
	}

	res, err = d.Step()
	if err != nil || res != StreamDone {
		t.Fatalf("end of input got %v, %v want stream done", res, err)
	}
	if !d.Done() || d.Frames() != 1 {
		t.Fatalf("done=%v frames=%d", d.Done(), d.Frames())
	}
}

func TestDecodeEmptyStream(t *testing.T) {
	d := NewDecoder(nil, &Palette{}, &recordSink{}, Options{})
	res, err := d.Step()
	if err != nil || res != StreamDone {
		t.Fatalf("got %v, %v want clean stream end", res, err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	cases := []struct {
		name string
		src  []byte
		op   string
	}{
		{"mid polygon", []byte{0x00, 0x13, 1, 2, 3}, "polygon"},
		{"before terminator", []byte{0x00, 0x11, 1, 2}, "polygon"},
		{"palette mask", []byte{0x02, 0x80}, "palette"},
		{"palette entry", []byte{0x02, 0x80, 0x00, 0x12}, "palette"},
		{"vertex table", []byte{0x04, 0x02, 1, 1, 2}, "vertex table"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var sink recordSink
			d := NewDecoder(tc.src, &Palette{}, &sink, Options{})
			_, err := d.Step()
			if !errors.Is(err, ErrStreamExhausted) {
				t.Fatalf("got %v want ErrStreamExhausted", err)
			}
			var de *DecodeError
			if !errors.As(err, &de) || de.Op != tc.op {
				t.Fatalf("got %#v want op %q", err, tc.op)
			}
			if !d.Done() {
				t.Fatal("decoder should stop after an error")
			}
			if res, err := d.Step(); res != StreamDone || err != nil {
				t.Fatalf("step after error got %v, %v", res, err)
			}
		})
	}
}

func TestDecodeIndexedMode(t *testing.T) {
	table := []raster.Vertex{{X: 10, Y: 10}, {X: 60, Y: 10}, {X: 60, Y: 50}, {X: 10, Y: 50}}
	src := mustEncode(t, Frame{
		Indexed: true,
		Table:   table,
		Polygons: []Polygon{
			{Color: 1, Indices: []uint8{0, 1, 2}},
			{Color: 9, Indices: []uint8{0, 2, 3}},
		},
	})
	var sink recordSink
	d := NewDecoder(src, &Palette{}, &sink, Options{})
	if res, err := d.Step(); err != nil || res != FrameDone {
		t.Fatalf("Step got %v, %v", res, err)
	}
	want := append(fillSpans(t, 1, []raster.Vertex{table[0], table[1], table[2]}),
		fillSpans(t, 9, []raster.Vertex{table[0], table[2], table[3]})...)
	if !reflect.DeepEqual(sink.spans, want) {
		t.Fatalf("spans got %v want %v", sink.spans, want)
	}
}

func TestDecodeInvalidVertexIndex(t *testing.T) {
	src := mustEncode(t, Frame{
		Indexed:  true,
		Table:    []raster.Vertex{{X: 1, Y: 1}, {X: 2, Y: 2}},
		Polygons: []Polygon{{Color: 1, Indices: []uint8{0, 1, 5}}},
	})
	var sink recordSink
	d := NewDecoder(src, &Palette{}, &sink, Options{})
	if _, err := d.Step(); !errors.Is(err, ErrInvalidVertexIndex) {
		t.Fatalf("got %v want ErrInvalidVertexIndex", err)
	}
	if len(sink.spans) != 0 {
		t.Fatalf("drew %d spans for a bad record", len(sink.spans))
	}
}

func TestDecodeTableDoesNotPersist(t *testing.T) {
	src := mustEncode(t,
		Frame{
			Indexed:  true,
			Table:    triangle,
			Polygons: []Polygon{{Color: 1, Indices: []uint8{0, 1, 2}}},
		},
		Frame{
			Indexed:  true,
			Polygons: []Polygon{{Color: 1, Indices: []uint8{0, 1, 2}}},
		},
	)
	d := NewDecoder(src, &Palette{}, &recordSink{}, Options{})
	if _, err := d.Step(); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if _, err := d.Step(); !errors.Is(err, ErrInvalidVertexIndex) {
		t.Fatalf("second frame got %v want ErrInvalidVertexIndex", err)
	}
}

func TestDecodeEmptyPolygon(t *testing.T) {
	d := NewDecoder([]byte{0x00, 0x30, 0xFF}, &Palette{}, &recordSink{}, Options{})
	if _, err := d.Step(); !errors.Is(err, ErrEmptyPolygon) {
		t.Fatalf("got %v want ErrEmptyPolygon", err)
	}
}

func TestDecodeFrame64Alignment(t *testing.T) {
	var e Encoder
	if err := e.WriteFrame(Frame{Polygons: []Polygon{{Color: 1, Vertices: triangle}}, End: EndFrame64}); err != nil {
		t.Fatal(err)
	}
	if e.Len() != 0x10000 {
		t.Fatalf("padded length got %#x want 0x10000", e.Len())
	}
	if err := e.WriteFrame(Frame{Clear: true}); err != nil {
		t.Fatal(err)
	}

	var sink recordSink
	d := NewDecoder(e.Bytes(), &Palette{}, &sink, Options{})
	if res, err := d.Step(); err != nil || res != FrameDone {
		t.Fatalf("first frame got %v, %v", res, err)
	}
	if d.Offset() != 0x10000 {
		t.Fatalf("offset after 0xFE got %#x want 0x10000", d.Offset())
	}
	if res, err := d.Step(); err != nil || res != FrameDone {
		t.Fatalf("second frame got %v, %v", res, err)
	}
	if sink.clears != 1 || d.Frames() != 2 {
		t.Fatalf("clears=%d frames=%d", sink.clears, d.Frames())
	}
	if res, err := d.Step(); err != nil || res != StreamDone {
		t.Fatalf("end got %v, %v", res, err)
	}
}

func TestDecodeEndStreamStopsPermanently(t *testing.T) {
	src := mustEncode(t,
		Frame{Polygons: []Polygon{{Color: 1, Vertices: triangle}}, End: EndStream},
		Frame{Clear: true, Polygons: []Polygon{{Color: 2, Vertices: triangle}}},
	)
	var sink recordSink
	d := NewDecoder(src, &Palette{}, &sink, Options{})
	res, err := d.Step()
	if err != nil || res != StreamDone {
		t.Fatalf("got %v, %v want stream done", res, err)
	}
	drawn := len(sink.spans)
	if drawn == 0 {
		t.Fatal("terminating frame should still be drawn")
	}
	if res, _ := d.Step(); res != StreamDone || len(sink.spans) != drawn || sink.clears != 0 {
		t.Fatalf("decoded past 0xFD: res=%v spans=%d clears=%d", res, len(sink.spans), sink.clears)
	}
}

func TestDecodeSkipPadding(t *testing.T) {
	src := []byte{PaddingByte, PaddingByte, FlagClear, EndFrame, PaddingByte}
	var sink recordSink
	d := NewDecoder(src, &Palette{}, &sink, Options{SkipPadding: true})
	if res, err := d.Step(); err != nil || res != FrameDone {
		t.Fatalf("got %v, %v", res, err)
	}
	if sink.clears != 1 {
		t.Fatalf("clears got %d want 1", sink.clears)
	}
	if res, err := d.Step(); err != nil || res != StreamDone {
		t.Fatalf("trailing padding got %v, %v want clean end", res, err)
	}
}

func TestDecodeTrace(t *testing.T) {
	src := mustEncode(t, Frame{Polygons: []Polygon{{Color: 3, Vertices: triangle}}})
	var buf bytes.Buffer
	d := NewDecoder(src, &Palette{}, &recordSink{}, Options{Trace: &buf})
	if _, err := d.Step(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "frame 0") || !strings.Contains(out, "color=3 n=3") {
		t.Fatalf("unexpected trace:\n%s", out)
	}
}

func TestEncoderValidation(t *testing.T) {
	if _, err := Encode(Frame{Polygons: []Polygon{{Color: 1}}}); !errors.Is(err, ErrEmptyPolygon) {
		t.Fatalf("empty polygon got %v", err)
	}
	big := make([]raster.Vertex, MaxPolygonVertices+1)
	if _, err := Encode(Frame{Polygons: []Polygon{{Color: 1, Vertices: big}}}); !errors.Is(err, ErrOversizedRecord) {
		t.Fatalf("oversized polygon got %v", err)
	}
	if _, err := Encode(Frame{Indexed: true, Table: make([]raster.Vertex, 256)}); !errors.Is(err, ErrOversizedRecord) {
		t.Fatalf("oversized table got %v", err)
	}
	for n := 13; n <= MaxPolygonVertices; n++ {
		verts := make([]raster.Vertex, n)
		verts[1] = raster.Vertex{X: 9, Y: 9}
		_, err := Encode(Frame{Polygons: []Polygon{{Color: 15, Vertices: verts}}})
		if !errors.Is(err, ErrReservedDescriptor) {
			t.Fatalf("color 15 with %d vertices got %v want ErrReservedDescriptor", n, err)
		}
	}
	if _, err := Encode(Frame{Polygons: []Polygon{{Color: 14, Vertices: make([]raster.Vertex, MaxPolygonVertices)}}}); err != nil {
		t.Fatalf("color 14 with 15 vertices: %v", err)
	}
	if _, err := Encode(Frame{End: 0x42}); err == nil {
		t.Fatal("expected error for unreserved terminator")
	}
	if _, err := Encode(Frame{Polygons: []Polygon{{Color: 16, Vertices: triangle}}}); err == nil {
		t.Fatal("expected error for color out of range")
	}
}
