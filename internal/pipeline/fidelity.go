package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/spffcodec/spff"
)

// Fidelity is the peak signal-to-noise ratio between two images, in dB.
// Identical channels report +Inf.
type Fidelity struct {
	R, G, B float64
	Overall float64
}

// PSNR compares a and b pixel by pixel. Both must have the same size; alpha is ignored.
func PSNR(a, b image.Image) (Fidelity, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return Fidelity{}, fmt.Errorf("psnr: size %dx%d vs %dx%d", ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy())
	}
	n := ab.Dx() * ab.Dy()
	if n == 0 {
		return Fidelity{}, fmt.Errorf("psnr: empty image")
	}

	var se [3]float64
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ca := color.RGBAModel.Convert(a.At(ab.Min.X+x, ab.Min.Y+y)).(color.RGBA)
			cb := color.RGBAModel.Convert(b.At(bb.Min.X+x, bb.Min.Y+y)).(color.RGBA)
			for i, d := range [3]float64{
				float64(ca.R) - float64(cb.R),
				float64(ca.G) - float64(cb.G),
				float64(ca.B) - float64(cb.B),
			} {
				se[i] += d * d
			}
		}
	}

	psnr := func(sum float64, count int) float64 {
		if sum == 0 {
			return math.Inf(1)
		}
		return 10 * math.Log10(255*255/(sum/float64(count)))
	}
	return Fidelity{
		R:       psnr(se[0], n),
		G:       psnr(se[1], n),
		B:       psnr(se[2], n),
		Overall: psnr(se[0]+se[1]+se[2], 3*n),
	}, nil
}

// RoundTripResult reports how well each reconstruction recovers the source.
type RoundTripResult struct {
	Width, Height int
	EncodedSize   int
	Fidelity      map[spff.Reconstruction]Fidelity
}

// RoundTrip encodes input and decodes it back once per mode, comparing each
// reconstruction with the (resized) source.
func (p *Pipeline) RoundTrip(input []byte, opts EncodeOptions, modes ...spff.Reconstruction) (*RoundTripResult, error) {
	src, info, err := p.source(input, opts)
	if err != nil {
		return nil, err
	}
	data, err := spff.NewEncoder(spff.EncoderOptions{MaxPixels: opts.MaxPixels}).Encode(src)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	res := &RoundTripResult{
		Width:       info.Width,
		Height:      info.Height,
		EncodedSize: len(data),
		Fidelity:    make(map[spff.Reconstruction]Fidelity, len(modes)),
	}
	for _, mode := range modes {
		img, err := spff.NewDecoder(spff.DecoderOptions{Reconstruction: mode, MaxPixels: opts.MaxPixels}).Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode %v: %w", mode, err)
		}
		f, err := PSNR(src, img)
		if err != nil {
			return nil, err
		}
		res.Fidelity[mode] = f
		p.log.Debug().Str("mode", mode.String()).Float64("psnr", f.Overall).Msg("round trip")
	}
	return res, nil
}
