package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/polyscene/internal/player"
	"github.com/FabianRolfMatthiasNoll/polyscene/internal/scenefile"
	"github.com/FabianRolfMatthiasNoll/polyscene/internal/termview"
	"github.com/FabianRolfMatthiasNoll/polyscene/internal/ui"
)

type CLIFlags struct {
	ScenePath string
	Scale     int
	Title     string
	FPS       int
	Trace     bool
	Loop      bool
	Pad       bool // skip 0x55 block padding between frames
	Hold      bool // keep window open after the stream ends
	HUD       bool

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer xxhash64 hex
	Term     bool   // print the last frame on the terminal
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ScenePath, "scene", "", "path to scene binary (or pass it as the only argument)")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "polyplay", "window title")
	flag.IntVar(&f.FPS, "fps", 60, "frames per second")
	flag.BoolVar(&f.Trace, "trace", false, "log every decoded frame and polygon")
	flag.BoolVar(&f.Loop, "loop", false, "restart at the end of the stream")
	flag.BoolVar(&f.Pad, "pad", false, "skip 0x55 padding bytes between frames")
	flag.BoolVar(&f.Hold, "hold", false, "keep the window open after the stream ends")
	flag.BoolVar(&f.HUD, "hud", false, "show the status line (toggle with H)")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 0, "frames to run in headless mode (0 = until the stream ends)")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer xxhash64 (hex)")
	flag.BoolVar(&f.Term, "term", false, "print the last frame to the terminal (headless)")
	flag.Parse()

	f.ScenePath = scenePath(f.ScenePath, flag.Args())
	return f
}

// scenePath picks the scene from -scene or the single positional argument.
// Any other combination is a usage error and yields "".
func scenePath(flagPath string, args []string) string {
	switch {
	case flagPath != "" && len(args) == 0:
		return flagPath
	case flagPath == "" && len(args) == 1:
		return args[0]
	}
	return ""
}

func runHeadless(p *player.Player, frames int, pngPath, expect string, term bool) error {
	start := time.Now()
	for i := 0; frames <= 0 || i < frames; i++ {
		if p.Finished() {
			break
		}
		if err := p.StepFrame(); err != nil {
			log.Printf("playback stopped: %v", err)
			break
		}
	}
	dur := time.Since(start)

	digest := p.Digest()
	fps := float64(p.Frames()) / dur.Seconds()
	log.Printf("headless: frames=%d offset=%#x elapsed=%s fps=%.2f fb_xxh64=%016x",
		p.Frames(), p.Offset(), dur.Truncate(time.Millisecond), fps, digest)

	if pngPath != "" {
		if err := saveFramePNG(p.Image(), pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if term {
		if cols := termview.Columns(int(os.Stdout.Fd())); cols > 0 {
			if err := termview.Render(os.Stdout, p.Image(), cols); err != nil {
				return fmt.Errorf("terminal preview: %w", err)
			}
		}
	}

	if expect != "" {
		want, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(expect), "0x"), 16, 64)
		if err != nil {
			return fmt.Errorf("bad -expect %q: %w", expect, err)
		}
		if digest != want {
			return fmt.Errorf("checksum mismatch: got %016x, want %016x", digest, want)
		}
	}
	return p.Err()
}

func saveFramePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func main() {
	f := parseFlags()
	if f.ScenePath == "" {
		fmt.Printf("Usage: %s [flags] [scene binary]\n", os.Args[0])
		os.Exit(1)
	}

	src, kind, err := scenefile.Load(f.ScenePath)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("File %s not found\n", f.ScenePath)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("read %s: %v", f.ScenePath, err)
	}
	log.Printf("scene: %s (%s, %d bytes)", f.ScenePath, kind, len(src))

	cfg := player.Config{SkipPadding: f.Pad, Loop: f.Loop}
	if f.Trace {
		cfg.Trace = os.Stderr
	}
	if f.Headless && f.Frames <= 0 {
		// a looping stream never ends on its own
		cfg.Loop = false
	}
	p := player.New(cfg, src)

	if f.Headless {
		if err := runHeadless(p, f.Frames, f.PNGOut, f.Expect, f.Term); err != nil {
			log.Fatal(err)
		}
		return
	}

	app := ui.NewApp(ui.Config{
		Title: f.Title,
		Scale: f.Scale,
		TPS:   f.FPS,
		HUD:   f.HUD,
		Hold:  f.Hold,
	}, p)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
