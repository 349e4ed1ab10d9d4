package scene

import (
	"errors"
	"fmt"
)

// Decode failure kinds. Each one aborts the stream.
var (
	ErrStreamExhausted    = errors.New("stream exhausted")
	ErrInvalidVertexIndex = errors.New("vertex index outside table")
	ErrOversizedRecord    = errors.New("record exceeds fixed capacity")
	ErrEmptyPolygon       = errors.New("polygon record with no vertices")
)

// DecodeError records where in the stream decoding failed.
type DecodeError struct {
	Op     string // what was being decoded
	Offset int    // cursor offset at the start of Op
	Err    error  // one of the Err* kinds
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("scene %s at offset %#x: %v", e.Op, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
