package spff

import (
	"fmt"
	"image"
	"io"
	"runtime"
	"sync"
)

// Below this many pixels an auto-sized Decoder stays on one goroutine.
const minParallelPixels = 1 << 16

// DecoderOptions configures a Decoder.
type DecoderOptions struct {
	Reconstruction Reconstruction
	// Workers is the number of goroutines rows are spread over.
	// Zero picks runtime.NumCPU() for large images and 1 otherwise.
	Workers int
	// MaxPixels caps width*height; zero means DefaultMaxPixels.
	MaxPixels int
}

// Decoder rebuilds RGB images from SPFF streams. It holds no per-call state
// and may be shared between goroutines.
type Decoder struct {
	opts DecoderOptions
}

func NewDecoder(opts DecoderOptions) *Decoder {
	return &Decoder{opts: opts}
}

// Decode reconstructs an opaque RGBA image from an SPFF stream.
// The stream is validated completely before any pixel is produced.
func (d *Decoder) Decode(data []byte) (*image.RGBA, error) {
	m, err := d.parse(data)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, m.w, m.h))
	d.reconstruct(m, img.Pix, img.Stride, 4)
	return img, nil
}

// DecodeRGB is like Decode but returns a packed RGB raster.
func (d *Decoder) DecodeRGB(data []byte) (*RGB, error) {
	m, err := d.parse(data)
	if err != nil {
		return nil, err
	}
	img := NewRGB(image.Rect(0, 0, m.w, m.h))
	d.reconstruct(m, img.Pix, img.Stride, 3)
	return img, nil
}

// DecodeFrom reads one stream from r and decodes it. The header is checked
// against MaxPixels before the payload is read; r must end with the payload.
func (d *Decoder) DecodeFrom(r io.Reader) (*image.RGBA, error) {
	data := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, data); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("read header: %w", ErrTruncatedInput)
		}
		return nil, err
	}
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if err := h.Validate(d.opts.MaxPixels); err != nil {
		return nil, err
	}

	data = append(data, make([]byte, h.PayloadSize())...)
	n, err := io.ReadFull(r, data[HeaderSize:])
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return nil, &SizeError{Want: h.PayloadSize(), Got: n}
	case err != nil:
		return nil, err
	}
	if extra, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	} else if extra > 0 {
		return nil, &SizeError{Want: h.PayloadSize(), Got: h.PayloadSize() + int(extra)}
	}
	return d.Decode(data)
}

func (d *Decoder) parse(data []byte) (mosaic, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return mosaic{}, err
	}
	if err := h.Validate(d.opts.MaxPixels); err != nil {
		return mosaic{}, err
	}
	if got := len(data) - HeaderSize; got != h.PayloadSize() {
		return mosaic{}, &SizeError{Want: h.PayloadSize(), Got: got}
	}
	return mosaic{pix: data[HeaderSize:], w: h.Width, h: h.Height}, nil
}

// reconstruct splits the rows into stripes, one per worker. Every pixel only
// reads the payload and writes its own slot, so stripes need no locking.
func (d *Decoder) reconstruct(m mosaic, pix []byte, stride, bpp int) {
	fold := d.opts.Reconstruction.fold()

	workers := d.opts.Workers
	if workers <= 0 {
		workers = 1
		if m.w*m.h >= minParallelPixels {
			workers = runtime.NumCPU()
		}
	}
	workers = min(workers, m.h)
	if workers <= 1 {
		reconstructRows(m, fold, pix, stride, bpp, 0, m.h)
		return
	}

	rowsPer := (m.h + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < m.h; y0 += rowsPer {
		y1 := min(y0+rowsPer, m.h)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			reconstructRows(m, fold, pix, stride, bpp, y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}

// Decode decodes data with Mean reconstruction and default options.
func Decode(data []byte) (*image.RGBA, error) {
	return NewDecoder(DecoderOptions{}).Decode(data)
}
