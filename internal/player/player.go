package player

import (
	"image"

	"github.com/cespare/xxhash/v2"

	"github.com/FabianRolfMatthiasNoll/polyscene/internal/fb"
	"github.com/FabianRolfMatthiasNoll/polyscene/internal/raster"
	"github.com/FabianRolfMatthiasNoll/polyscene/internal/scene"
)

// Player drives a Decoder one frame per tick into the hosted RGBA surface.
type Player struct {
	cfg Config
	src []byte
	pal scene.Palette
	fb  *fb.RGBA
	dec *scene.Decoder

	ticks    int  // frames presented since the last restart
	loops    int  // completed passes over the stream
	finished bool // no more frames will be drawn
	err      error
}

func New(cfg Config, src []byte) *Player {
	p := &Player{cfg: cfg, src: src}
	p.fb = fb.NewRGBA(&p.pal)
	p.reset()
	return p
}

func (p *Player) reset() {
	p.pal.Reset()
	p.fb.Clear()
	p.dec = scene.NewDecoder(p.src, &p.pal, p.fb, scene.Options{
		SkipPadding: p.cfg.SkipPadding,
		Trace:       p.cfg.Trace,
	})
	p.ticks = 0
	p.finished = false
	p.err = nil
}

// Restart rewinds playback to the first frame with a zeroed palette.
func (p *Player) Restart() { p.reset() }

// StepFrame decodes and draws the next frame. Once the stream has ended it
// is a no-op, unless Loop is set and the end was clean. The first decode
// error is returned once and then kept in Err.
func (p *Player) StepFrame() error {
	if p.finished {
		if !p.cfg.Loop || p.err != nil {
			return nil
		}
		p.loops++
		p.reset()
	}
	before := p.dec.Frames()
	res, err := p.dec.Step()
	if err != nil {
		p.finished = true
		p.err = err
		return err
	}
	if res == scene.StreamDone {
		p.finished = true
	}
	if p.dec.Frames() > before {
		p.ticks++
	}
	return nil
}

// Finished reports whether playback is over: the stream failed, or ended
// cleanly without Loop.
func (p *Player) Finished() bool {
	return p.finished && (!p.cfg.Loop || p.err != nil)
}

func (p *Player) Err() error { return p.err }

// Frames returns frames drawn since the last restart.
func (p *Player) Frames() int { return p.ticks }

// Loops returns how many times playback wrapped around.
func (p *Player) Loops() int { return p.loops }

func (p *Player) Offset() int { return p.dec.Offset() }

func (p *Player) Palette() scene.Palette { return p.pal }

// Framebuffer returns the RGBA surface bytes (raster.Width x raster.Height x 4).
func (p *Player) Framebuffer() []byte { return p.fb.Pix() }

func (p *Player) Image() *image.RGBA { return p.fb.Image() }

// Digest fingerprints the current surface for headless assertions.
func (p *Player) Digest() uint64 { return xxhash.Sum64(p.fb.Pix()) }

// Size returns the surface dimensions.
func Size() (w, h int) { return raster.Width, raster.Height }
