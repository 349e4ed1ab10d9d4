package scene

// blockSize is the alignment unit of block-padded streams.
const blockSize = 1 << 16

// Cursor is a forward-only reader over the scene bytes. The only backwards
// or skipping move is AlignTo64KB.
type Cursor struct {
	src []byte
	off int
}

func NewCursor(src []byte) *Cursor { return &Cursor{src: src} }

// ReadByte returns the next byte or ErrStreamExhausted.
func (c *Cursor) ReadByte() (byte, error) {
	if c.off >= len(c.src) {
		return 0, ErrStreamExhausted
	}
	b := c.src[c.off]
	c.off++
	return b, nil
}

// ReadU16BE reads a big-endian 16-bit value.
func (c *Cursor) ReadU16BE() (uint16, error) {
	hi, err := c.ReadByte()
	if err != nil {
		return 0, err
	}
	lo, err := c.ReadByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// AlignTo64KB moves to the start of the next 64KB block. An offset that is
// already aligned still advances a full block.
func (c *Cursor) AlignTo64KB() {
	c.off = ((c.off >> 16) + 1) << 16
}

func (c *Cursor) Offset() int { return c.off }

// Remaining reports how many bytes are left; zero once past the end.
func (c *Cursor) Remaining() int {
	if c.off >= len(c.src) {
		return 0
	}
	return len(c.src) - c.off
}
