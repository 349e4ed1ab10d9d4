// Package termview prints a framebuffer snapshot on a truecolor terminal
// using upper half blocks, two pixel rows per text row.
package termview

import (
	"bufio"
	"fmt"
	"image"
	"io"

	"golang.org/x/term"
)

const defaultCols = 80

// Columns returns the usable width of the terminal on fd, or 0 when fd is
// not a terminal.
func Columns(fd int) int {
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultCols
	}
	return w
}

// Render samples img down to at most cols columns, keeping square pixels.
func Render(w io.Writer, img *image.RGBA, cols int) error {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	if cols <= 0 || cols > b.Dx() {
		cols = b.Dx()
	}
	rows := b.Dy() * cols / b.Dx()
	if rows%2 == 1 {
		rows++
	}

	bw := bufio.NewWriter(w)
	for ty := 0; ty < rows; ty += 2 {
		for tx := 0; tx < cols; tx++ {
			x := b.Min.X + tx*b.Dx()/cols
			top := img.RGBAAt(x, b.Min.Y+ty*b.Dy()/rows)
			bot := img.RGBAAt(x, b.Min.Y+(ty+1)*b.Dy()/rows)
			fmt.Fprintf(bw, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bot.R, bot.G, bot.B)
		}
		bw.WriteString("\x1b[0m\n")
	}
	return bw.Flush()
}
