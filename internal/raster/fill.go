package raster

import (
	"errors"
	"slices"
)

// Scene coordinate space. X is a full byte; only rows [0, Height) are visible.
const (
	Width  = 256
	Height = 200

	// MaxVertices is the capacity of the per-polygon vertex and node buffers.
	MaxVertices = 16
)

var ErrTooManyVertices = errors.New("raster: polygon exceeds vertex capacity")

// Vertex is one polygon corner in scene coordinates.
type Vertex struct {
	X, Y uint8
}

// Sink receives the rasterizer output. Implementations own color resolution
// and clipping against their surface.
type Sink interface {
	// Clear resets the whole surface.
	Clear()
	// Span draws pixels x1..x2 (inclusive) on row y with palette index color.
	Span(color uint8, x1, x2, y int)
}

// Fill scan-converts the closed polygon verts with the even-odd rule and
// emits one Span per pair of edge crossings on every row in [ymin, ymax).
func Fill(s Sink, color uint8, verts []Vertex) error {
	n := len(verts)
	if n == 0 {
		return nil
	}
	if n > MaxVertices {
		return ErrTooManyVertices
	}

	ymin, ymax := int(verts[0].Y), int(verts[0].Y)
	for _, v := range verts[1:] {
		y := int(v.Y)
		if y < ymin {
			ymin = y
		}
		if y > ymax {
			ymax = y
		}
	}
	if ymax > Height {
		ymax = Height
	}

	var nodeX [MaxVertices]int
	for y := ymin; y < ymax; y++ {
		nodes := 0
		j := n - 1
		for i := 0; i < n; i++ {
			yi, yj := int(verts[i].Y), int(verts[j].Y)
			if (yi < y && yj >= y) || (yj < y && yi >= y) {
				xi, xj := int(verts[i].X), int(verts[j].X)
				nodeX[nodes] = xi + (y-yi)*(xj-xi)/(yj-yi)
				nodes++
			}
			j = i
		}

		row := nodeX[:nodes]
		slices.Sort(row)

		// An unpaired trailing node is dropped.
		for k := 0; k+1 < nodes; k += 2 {
			s.Span(color, row[k], row[k+1], y)
		}
	}
	return nil
}
