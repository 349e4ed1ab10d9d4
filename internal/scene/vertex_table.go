package scene

import "github.com/FabianRolfMatthiasNoll/polyscene/internal/raster"

// MaxTableVertices is the capacity of the per-frame shared vertex table.
const MaxTableVertices = 256

// VertexTable is the shared vertex list of an indexed frame. It is rebuilt
// for every frame and never carries over.
type VertexTable struct {
	v [MaxTableVertices]raster.Vertex
	n int
}

func (t *VertexTable) Len() int { return t.n }

func (t *VertexTable) Reset() { t.n = 0 }

// Load reads a count byte followed by that many (x,y) pairs.
func (t *VertexTable) Load(c *Cursor) error {
	t.n = 0
	count, err := c.ReadByte()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		x, err := c.ReadByte()
		if err != nil {
			return err
		}
		y, err := c.ReadByte()
		if err != nil {
			return err
		}
		t.v[i] = raster.Vertex{X: x, Y: y}
	}
	t.n = int(count)
	return nil
}

// Set replaces the table contents.
func (t *VertexTable) Set(verts []raster.Vertex) error {
	if len(verts) > MaxTableVertices {
		return ErrOversizedRecord
	}
	t.n = copy(t.v[:], verts)
	return nil
}

// Lookup resolves an index against the loaded vertices only.
func (t *VertexTable) Lookup(id uint8) (raster.Vertex, error) {
	if int(id) >= t.n {
		return raster.Vertex{}, ErrInvalidVertexIndex
	}
	return t.v[id], nil
}
