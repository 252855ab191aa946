package imageio

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

func kernel(name string) (draw.Scaler, error) {
	switch strings.ToLower(name) {
	case "nearest":
		return draw.NearestNeighbor, nil
	case "approxbilinear":
		return draw.ApproxBiLinear, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "catmullrom", "":
		return draw.CatmullRom, nil
	}
	return nil, fmt.Errorf("unknown resize kernel %q", name)
}

// TargetSize resolves a requested size against the source size. A zero side
// follows the aspect ratio of the other; both zero keeps the source size.
func TargetSize(src image.Rectangle, w, h int) (int, int) {
	sw, sh := src.Dx(), src.Dy()
	switch {
	case w == 0 && h == 0:
		return sw, sh
	case w == 0:
		w = max(1, (sw*h+sh/2)/sh)
	case h == 0:
		h = max(1, (sh*w+sw/2)/sw)
	}
	return w, h
}

// Resize scales src to w x h (see TargetSize) into a new RGBA image.
// The source is returned untouched when the size does not change.
func Resize(src image.Image, w, h int, kernelName string) (image.Image, error) {
	s, err := kernel(kernelName)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	if b.Empty() {
		return src, nil
	}
	w, h = TargetSize(b, w, h)
	if w == b.Dx() && h == b.Dy() {
		return src, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	s.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}
