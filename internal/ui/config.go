package ui

// Config contains window/input related settings.
type Config struct {
	Title         string // window title
	Scale         int    // integer upscaling factor
	TPS           int    // frames decoded per second
	HUD           bool   // draw the status line
	Hold          bool   // keep the window open after the stream ends
	ScreenshotDir string // where F12 writes PNGs
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "polyplay"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.TPS <= 0 {
		c.TPS = 60 // ~16ms per frame
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "."
	}
}
