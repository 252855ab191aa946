// Package pipeline connects file formats, the codec and the ambient stack:
// source image → (resize) → spff → (zstd) and back.
package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/spffcodec/spff"
	"github.com/spffcodec/spff/internal/imageio"
	"github.com/spffcodec/spff/internal/logger"
	"github.com/spffcodec/spff/internal/monitoring"
)

// EncodeOptions controls source image → SPFF conversion.
type EncodeOptions struct {
	MaxPixels    int
	ResizeWidth  int // 0 keeps the aspect ratio, see imageio.TargetSize
	ResizeHeight int
	Kernel       string
	Compress     bool // wrap the stream in a zstd envelope
	Level        int  // zstd level, 0 = library default
}

// EncodeResult holds the output of an encode run.
type EncodeResult struct {
	Data       []byte
	SrcFormat  string
	SrcWidth   int
	SrcHeight  int
	Width      int
	Height     int
	Compressed bool
}

// DecodeOptions controls SPFF → image conversion.
type DecodeOptions struct {
	Reconstruction spff.Reconstruction
	Workers        int
	MaxPixels      int
	Format         string // png, bmp or tiff
}

// DecodeResult holds the output of a decode run.
type DecodeResult struct {
	Data       []byte // Image encoded as Format
	Image      *image.RGBA
	Compressed bool
}

type Pipeline struct {
	log     *logger.Logger
	metrics *monitoring.Metrics
}

// New returns a pipeline; nil arguments get a silent logger and a private registry.
func New(log *logger.Logger, metrics *monitoring.Metrics) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = monitoring.New()
	}
	return &Pipeline{log: log, metrics: metrics}
}

func (p *Pipeline) Metrics() *monitoring.Metrics { return p.metrics }

// Encode runs decode source → resize → spff encode → compress.
func (p *Pipeline) Encode(input []byte, opts EncodeOptions) (*EncodeResult, error) {
	start := time.Now()
	log := p.log.Op("encode")

	res, err := p.encode(input, opts)
	if err != nil {
		p.metrics.Fail("encode")
		log.Error().Err(err).Int("in", len(input)).Msg("encode failed")
		return nil, err
	}

	elapsed := time.Since(start)
	p.metrics.Observe("encode", res.Width*res.Height, len(input), len(res.Data), elapsed)
	log.Info().
		Str("format", res.SrcFormat).
		Int("width", res.Width).
		Int("height", res.Height).
		Int("in", len(input)).
		Int("out", len(res.Data)).
		Bool("zstd", res.Compressed).
		Dur("elapsed", elapsed).
		Msg("encoded")
	return res, nil
}

func (p *Pipeline) encode(input []byte, opts EncodeOptions) (*EncodeResult, error) {
	src, res, err := p.source(input, opts)
	if err != nil {
		return nil, err
	}

	// 3. Encode
	res.Data, err = spff.NewEncoder(spff.EncoderOptions{MaxPixels: opts.MaxPixels}).Encode(src)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	// 4. Envelope
	if opts.Compress {
		raw := len(res.Data)
		if res.Data, err = spff.Compress(res.Data, opts.Level); err != nil {
			return nil, err
		}
		res.Compressed = true
		p.log.Debug().Int("raw", raw).Int("packed", len(res.Data)).Msg("compressed")
	}
	return res, nil
}

// source decodes and scales the input image. The returned result has every
// field but Data and Compressed filled in.
func (p *Pipeline) source(input []byte, opts EncodeOptions) (image.Image, *EncodeResult, error) {
	// 1. Decode the source
	src, format, err := imageio.Read(input)
	if err != nil {
		return nil, nil, err
	}
	b := src.Bounds()
	res := &EncodeResult{SrcFormat: format, SrcWidth: b.Dx(), SrcHeight: b.Dy()}

	// 2. Scale
	if opts.ResizeWidth != 0 || opts.ResizeHeight != 0 {
		if src, err = imageio.Resize(src, opts.ResizeWidth, opts.ResizeHeight, opts.Kernel); err != nil {
			return nil, nil, fmt.Errorf("resize: %w", err)
		}
		p.log.Debug().
			Int("from_w", res.SrcWidth).Int("from_h", res.SrcHeight).
			Int("to_w", src.Bounds().Dx()).Int("to_h", src.Bounds().Dy()).
			Str("kernel", opts.Kernel).
			Msg("resized")
	}
	// Hand the encoder one of its fast-path types.
	switch src.(type) {
	case *image.RGBA, *image.NRGBA:
	default:
		src = imageio.ToRGBA(src)
	}
	res.Width, res.Height = src.Bounds().Dx(), src.Bounds().Dy()
	return src, res, nil
}

// Decode runs unwrap → spff decode → output encode.
func (p *Pipeline) Decode(data []byte, opts DecodeOptions) (*DecodeResult, error) {
	start := time.Now()
	log := p.log.Op("decode")

	res, err := p.decode(data, opts)
	if err != nil {
		p.metrics.Fail("decode")
		log.Error().Err(err).Int("in", len(data)).Msg("decode failed")
		return nil, err
	}

	elapsed := time.Since(start)
	b := res.Image.Bounds()
	p.metrics.Observe("decode", b.Dx()*b.Dy(), len(data), len(res.Data), elapsed)
	log.Info().
		Str("mode", opts.Reconstruction.String()).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Int("in", len(data)).
		Int("out", len(res.Data)).
		Bool("zstd", res.Compressed).
		Dur("elapsed", elapsed).
		Msg("decoded")
	return res, nil
}

func (p *Pipeline) decode(data []byte, opts DecodeOptions) (*DecodeResult, error) {
	res := &DecodeResult{}
	var err error
	if spff.IsCompressed(data) {
		if data, err = spff.Decompress(data, opts.MaxPixels); err != nil {
			return nil, err
		}
		res.Compressed = true
	}

	dec := spff.NewDecoder(spff.DecoderOptions{
		Reconstruction: opts.Reconstruction,
		Workers:        opts.Workers,
		MaxPixels:      opts.MaxPixels,
	})
	if res.Image, err = dec.Decode(data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var out bytes.Buffer
	if err := imageio.Write(&out, res.Image, opts.Format); err != nil {
		return nil, fmt.Errorf("write %s: %w", opts.Format, err)
	}
	res.Data = out.Bytes()
	return res, nil
}
