package spff

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/klauspost/compress/zstd"
)

// zstd frame magic. A bare SPFF stream never starts with it: read as a
// signed width it is negative, which ParseHeader rejects.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// IsCompressed reports whether data is a zstd envelope rather than a bare stream.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Compress wraps an encoded stream in a zstd frame. level follows the zstd
// command line scale (1..22); zero picks the library default.
func Compress(data []byte, level int) ([]byte, error) {
	lvl := zstd.SpeedDefault
	if level != 0 {
		lvl = zstd.EncoderLevelFromZstd(level)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(lvl), zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return nil, fmt.Errorf("zstd encode: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress unwraps a zstd envelope produced by Compress. The unpacked
// stream may hold at most maxPixels pixels; zero means DefaultMaxPixels.
func Decompress(data []byte, maxPixels int) ([]byte, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(HeaderSize+maxPixels)))
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	defer dec.Close()

	plain, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return plain, nil
}
