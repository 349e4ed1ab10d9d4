package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/FabianRolfMatthiasNoll/polyscene/internal/scene"
	"github.com/FabianRolfMatthiasNoll/polyscene/internal/scenefile"
)

// dumpSink prints draw calls instead of drawing them.
type dumpSink struct {
	w      io.Writer
	spans  bool
	nspans int
	clears int
}

func (s *dumpSink) Clear() {
	s.clears++
	if s.spans {
		fmt.Fprintln(s.w, "    clear")
	}
}

func (s *dumpSink) Span(color uint8, x1, x2, y int) {
	s.nspans++
	if s.spans {
		fmt.Fprintf(s.w, "    span c=%d y=%d x=%d..%d\n", color, y, x1, x2)
	}
}

func main() {
	spans := flag.Bool("spans", false, "print every span drawn")
	pad := flag.Bool("pad", false, "skip 0x55 padding bytes between frames")
	maxFrames := flag.Int("frames", 0, "stop after this many frames (0 = all)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Printf("Usage: %s [flags] [scene binary]\n", os.Args[0])
		os.Exit(1)
	}
	path := flag.Arg(0)
	src, kind, err := scenefile.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("File %s not found\n", path)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	fmt.Fprintf(out, "%s: %s container, %d bytes\n", path, kind, len(src))

	var pal scene.Palette
	sink := &dumpSink{w: out, spans: *spans}
	d := scene.NewDecoder(src, &pal, sink, scene.Options{SkipPadding: *pad, Trace: out})
	for !d.Done() {
		if *maxFrames > 0 && d.Frames() >= *maxFrames {
			break
		}
		if _, err := d.Step(); err != nil {
			out.Flush()
			log.Fatalf("decode: %v", err)
		}
	}
	fmt.Fprintf(out, "frames=%d spans=%d clears=%d offset=%#x\n", d.Frames(), sink.nspans, sink.clears, d.Offset())
	for i, c := range pal {
		fmt.Fprintf(out, "palette[%2d] = %#04x\n", i, c)
	}
}
