package spff

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
)

// EncoderOptions configures an Encoder.
type EncoderOptions struct {
	// MaxPixels caps width*height; zero means DefaultMaxPixels.
	MaxPixels int
}

// Encoder turns RGB images into SPFF streams. It keeps a scratch buffer
// between EncodeTo calls and is not safe for concurrent use.
type Encoder struct {
	opts EncoderOptions
	buf  []byte
}

func NewEncoder(opts EncoderOptions) *Encoder {
	return &Encoder{opts: opts}
}

// Encode returns the SPFF stream for img: the header followed by one byte
// per pixel in row-major order. Alpha is dropped; premultiplied
// *image.RGBA values are taken as they are.
func (e *Encoder) Encode(img image.Image) ([]byte, error) {
	return e.appendImage(nil, img)
}

// EncodeTo writes the SPFF stream for img to w.
func (e *Encoder) EncodeTo(w io.Writer, img image.Image) error {
	out, err := e.appendImage(e.buf[:0], img)
	if err != nil {
		return err
	}
	e.buf = out
	_, err = w.Write(out)
	return err
}

// EncodeRGB24 encodes a raw packed RGB24 raster whose rows start stride bytes apart.
func (e *Encoder) EncodeRGB24(pix []byte, width, height, stride int) ([]byte, error) {
	h := Header{Width: width, Height: height}
	if err := h.Validate(e.opts.MaxPixels); err != nil {
		return nil, err
	}
	if stride < 3*width {
		return nil, fmt.Errorf("%w: stride %d is shorter than a %d pixel row", ErrInvalidDimensions, stride, width)
	}
	if height > 1 && stride > (math.MaxInt-3*width)/(height-1) {
		return nil, fmt.Errorf("%w: stride %d overflows a %d row raster", ErrInvalidDimensions, stride, height)
	}
	if need := stride*(height-1) + 3*width; len(pix) < need {
		return nil, &SizeError{Want: need, Got: len(pix)}
	}
	out := make([]byte, 0, HeaderSize+h.PayloadSize())
	out = h.AppendTo(out)
	return appendSamples(out, pix, stride, 3, width, height), nil
}

func (e *Encoder) appendImage(dst []byte, img image.Image) ([]byte, error) {
	b := img.Bounds()
	h := Header{Width: b.Dx(), Height: b.Dy()}
	if err := h.Validate(e.opts.MaxPixels); err != nil {
		return nil, err
	}
	if n := HeaderSize + h.PayloadSize(); cap(dst) < n {
		dst = make([]byte, 0, n)
	}
	dst = h.AppendTo(dst[:0])

	switch src := img.(type) {
	case *image.RGBA:
		return appendSamples(dst, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride, 4, h.Width, h.Height), nil
	case *image.NRGBA:
		return appendSamples(dst, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride, 4, h.Width, h.Height), nil
	case *RGB:
		return appendSamples(dst, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride, 3, h.Width, h.Height), nil
	}

	for row := 0; row < h.Height; row++ {
		for col := 0; col < h.Width; col++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+col, b.Min.Y+row)).(color.RGBA)
			switch SelectChannel(row, col) {
			case Red:
				dst = append(dst, c.R)
			case Green:
				dst = append(dst, c.G)
			case Blue:
				dst = append(dst, c.B)
			}
		}
	}
	return dst, nil
}

// appendSamples walks an interleaved raster with bpp bytes per pixel and R, G, B
// at offsets 0, 1, 2, keeping only the selected channel of every pixel.
func appendSamples(dst, pix []byte, stride, bpp, w, h int) []byte {
	for row := 0; row < h; row++ {
		line := pix[row*stride:]
		for col := 0; col < w; col++ {
			dst = append(dst, line[col*bpp+int(SelectChannel(row, col))])
		}
	}
	return dst
}

// Encode encodes img with default options.
func Encode(img image.Image) ([]byte, error) {
	return NewEncoder(EncoderOptions{}).Encode(img)
}
