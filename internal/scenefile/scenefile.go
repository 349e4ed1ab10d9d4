// Package scenefile loads scene streams from disk. Plain streams are used as
// is; zstd and gzip containers are unpacked so offsets (and 64KB block
// alignment) always refer to the raw stream.
package scenefile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	gzipMagic = []byte{0x1F, 0x8B, 0x08}
)

// Container identifies how a scene file is stored.
type Container int

const (
	Raw Container = iota
	Zstd
	Gzip
)

func (c Container) String() string {
	switch c {
	case Zstd:
		return "zstd"
	case Gzip:
		return "gzip"
	default:
		return "raw"
	}
}

// Detect inspects the leading magic bytes.
func Detect(data []byte) Container {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return Zstd
	case bytes.HasPrefix(data, gzipMagic):
		return Gzip
	}
	return Raw
}

// Load reads path fully. The returned error wraps the os error, so callers
// can test it with errors.Is(err, fs.ErrNotExist).
func Load(path string) ([]byte, Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Raw, err
	}
	kind := Detect(data)
	out, err := Unpack(data)
	if err != nil {
		return nil, kind, fmt.Errorf("%s: %w", path, err)
	}
	return out, kind, nil
}

// Unpack returns the raw scene stream held in data.
func Unpack(data []byte) ([]byte, error) {
	switch Detect(data) {
	case Zstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, nil
	case Gzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return out, nil
	}
	return data, nil
}

// Pack wraps a raw stream in the given container.
func Pack(raw []byte, c Container) ([]byte, error) {
	switch c {
	case Zstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), nil
	case Gzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(raw); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return raw, nil
}
