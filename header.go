package spff

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
)

const (
	// HeaderSize is the length of the width/height prefix of every stream.
	HeaderSize = 8

	// DefaultMaxPixels bounds the buffers an Encoder or Decoder agrees to allocate.
	DefaultMaxPixels = 400_000_000
)

// Header is the fixed prefix of an encoded image: width then height,
// both little-endian uint32.
type Header struct {
	Width  int
	Height int
}

// AppendTo appends the 8 header bytes to dst.
func (h Header) AppendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(h.Width))
	return binary.LittleEndian.AppendUint32(dst, uint32(h.Height))
}

// PayloadSize is the number of pixel bytes that follow the header.
func (h Header) PayloadSize() int { return h.Width * h.Height }

// Validate checks the dimensions and the pixel count against maxPixels.
// A non-positive maxPixels means DefaultMaxPixels.
func (h Header) Validate(maxPixels int) error {
	if h.Width <= 0 || h.Height <= 0 || h.Width > math.MaxInt32 || h.Height > math.MaxInt32 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height)
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if h.Width > maxPixels/h.Height {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrAllocation, h.Width, h.Height, maxPixels)
	}
	return nil
}

// ParseHeader reads the header at the start of data. The fields are signed
// on the wire, so values above MaxInt32 are rejected as non-positive.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncatedInput, len(data), HeaderSize)
	}
	h := Header{
		Width:  int(int32(binary.LittleEndian.Uint32(data[0:4]))),
		Height: int(int32(binary.LittleEndian.Uint32(data[4:8]))),
	}
	if h.Width <= 0 || h.Height <= 0 {
		return h, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height)
	}
	return h, nil
}

// DecodeConfig returns the dimensions of an encoded image without reading the pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return image.Config{}, fmt.Errorf("read header: %w", ErrTruncatedInput)
		}
		return image.Config{}, err
	}
	h, err := ParseHeader(buf[:])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: h.Width, Height: h.Height}, nil
}
