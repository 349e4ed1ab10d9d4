package ui

import (
	"fmt"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/FabianRolfMatthiasNoll/polyscene/internal/player"
)

type App struct {
	cfg    Config
	p      *player.Player
	tex    *ebiten.Image
	paused bool
	hud    bool
	w, h   int
}

func NewApp(cfg Config, p *player.Player) *App {
	cfg.Defaults()
	w, h := player.Size()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(w*cfg.Scale, h*cfg.Scale)
	ebiten.SetTPS(cfg.TPS)
	return &App{cfg: cfg, p: p, hud: cfg.HUD, w: w, h: h}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	// Restart from the first frame (R)
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.p.Restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		a.hud = !a.hud
	}
	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if path, err := a.saveScreenshot(); err != nil {
			log.Printf("screenshot: %v", err)
		} else {
			log.Printf("wrote %s", path)
		}
	}

	switch {
	case a.p.Finished():
		// Without Hold the window closes as soon as playback ends; the last frame shows for one tick.
		if !a.cfg.Hold {
			return ebiten.Termination
		}
	case a.paused:
		// Frame-step when paused (N)
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			a.step()
		}
	default:
		a.step()
	}
	return nil
}

func (a *App) step() {
	if err := a.p.StepFrame(); err != nil {
		log.Printf("playback stopped: %v", err)
	}
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(a.w, a.h)
	}
	a.tex.WritePixels(a.p.Framebuffer())
	screen.DrawImage(a.tex, nil)

	if a.hud {
		a.drawStatus(screen)
	}
}

func (a *App) drawStatus(screen *ebiten.Image) {
	state := "play"
	switch {
	case a.p.Err() != nil:
		state = "error"
	case a.p.Finished():
		state = "end"
	case a.paused:
		state = "pause"
	}
	line := fmt.Sprintf("%s f=%d @%06x", state, a.p.Frames(), a.p.Offset())
	text.Draw(screen, line, basicfont.Face7x13, 2, a.h-3, color.RGBA{190, 190, 190, 255})
}

func (a *App) Layout(outW, outH int) (int, int) { return a.w, a.h }

func (a *App) saveScreenshot() (string, error) {
	ts := time.Now().Format("20060102_150405")
	name := filepath.Join(a.cfg.ScreenshotDir, fmt.Sprintf("screenshot_%s.png", ts))
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return name, png.Encode(f, a.p.Image())
}
