package spff

import (
	"fmt"
	"strings"
)

// Reconstruction selects how a decoder infers the two channels a pixel did not store.
type Reconstruction int

const (
	// Mean averages, per channel, every neighbour that stores the channel.
	// A stored zero counts as a value.
	Mean Reconstruction = iota
	// Legacy repeats the reference decoder bit for bit: neighbours are folded in
	// one at a time, each halving the distance to its value, and zero means
	// "nothing stored".
	Legacy
)

func (r Reconstruction) String() string {
	switch r {
	case Mean:
		return "mean"
	case Legacy:
		return "legacy"
	}
	return fmt.Sprintf("Reconstruction(%d)", int(r))
}

// ParseReconstruction maps "mean" or "legacy" to a Reconstruction.
func ParseReconstruction(s string) (Reconstruction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mean":
		return Mean, nil
	case "legacy":
		return Legacy, nil
	}
	return Mean, fmt.Errorf("unknown reconstruction %q (want mean or legacy)", s)
}

type foldFunc func(self Sample, neighbours []Sample) [3]uint8

func (r Reconstruction) fold() foldFunc {
	if r == Legacy {
		return foldLegacy
	}
	return foldMean
}

// neighbourhood lists the 8 neighbour offsets in the order they are folded:
// the left column top to bottom from the middle, the right column the same
// way, then the pixel above and the pixel below.
var neighbourhood = [8]struct{ dy, dx int }{
	{0, -1}, {-1, -1}, {1, -1},
	{0, 1}, {-1, 1}, {1, 1},
	{-1, 0}, {1, 0},
}

// mosaic is the pixel payload of a stream seen as a grid of samples.
type mosaic struct {
	pix  []byte
	w, h int
}

// at returns the sample at (row, col); ok is false outside the raster.
func (m mosaic) at(row, col int) (s Sample, ok bool) {
	if row < 0 || row >= m.h || col < 0 || col >= m.w {
		return Sample{}, false
	}
	return Sample{Channel: SelectChannel(row, col), Value: m.pix[row*m.w+col]}, true
}

// neighbours appends the in-bounds neighbours of (row, col) to dst in fold order.
func (m mosaic) neighbours(dst []Sample, row, col int) []Sample {
	for _, d := range neighbourhood {
		if s, ok := m.at(row+d.dy, col+d.dx); ok {
			dst = append(dst, s)
		}
	}
	return dst
}

func foldLegacy(self Sample, neighbours []Sample) (acc [3]uint8) {
	for _, n := range neighbours {
		if n.Value > 0 {
			acc[n.Channel] = uint8((uint16(acc[n.Channel]) + uint16(n.Value)) / 2)
		}
	}
	if self.Value > 0 {
		acc[self.Channel] = self.Value
	}
	return acc
}

func foldMean(self Sample, neighbours []Sample) (out [3]uint8) {
	var sum, n [3]int
	for _, s := range neighbours {
		sum[s.Channel] += int(s.Value)
		n[s.Channel]++
	}
	for c := range out {
		if n[c] > 0 {
			out[c] = uint8((sum[c] + n[c]/2) / n[c])
		}
	}
	out[self.Channel] = self.Value
	return out
}

// reconstructRows fills rows [y0, y1) of an interleaved raster with bpp bytes
// per pixel. A fourth byte, when present, is set opaque.
func reconstructRows(m mosaic, fold foldFunc, pix []byte, stride, bpp, y0, y1 int) {
	var scratch [len(neighbourhood)]Sample
	for row := y0; row < y1; row++ {
		off := row * stride
		for col := 0; col < m.w; col++ {
			self, _ := m.at(row, col)
			px := fold(self, m.neighbours(scratch[:0], row, col))
			o := off + col*bpp
			pix[o], pix[o+1], pix[o+2] = px[0], px[1], px[2]
			if bpp == 4 {
				pix[o+3] = 0xff
			}
		}
	}
}
