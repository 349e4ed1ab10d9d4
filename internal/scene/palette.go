package scene

// PaletteSize is the fixed number of palette entries.
const PaletteSize = 16

// Palette holds the raw RGB565 color entries addressed by polygon records.
type Palette [PaletteSize]uint16

// Entry returns the color for a 4-bit index.
func (p *Palette) Entry(index uint8) uint16 { return p[index&0x0F] }

// Update reads one entry from c for every set bit of mask, lowest bit first.
// Bit i lands in entry 15-i, so bit 15 addresses entry 0. Entries whose bit
// is clear stay as they are.
func (p *Palette) Update(mask uint16, c *Cursor) error {
	for i := 0; i < PaletteSize; i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		v, err := c.ReadU16BE()
		if err != nil {
			return err
		}
		p[PaletteSize-1-i] = v
	}
	return nil
}

func (p *Palette) Reset() { *p = Palette{} }
