// Package imageio reads source images, scales them and writes decoded output.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Read decodes any registered format: PNG, JPEG, GIF, BMP, TIFF or WebP.
// It returns the format name reported by the image package.
func Read(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode source image: %w", err)
	}
	return img, format, nil
}

// Write encodes img as png, bmp or tiff.
func Write(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png", "":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff", "tif":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// FormatFromPath guesses the output format from a file extension, falling back to def.
func FormatFromPath(path, def string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return def
	}
	switch ext := strings.ToLower(path[i+1:]); ext {
	case "png", "bmp":
		return ext
	case "tif", "tiff":
		return "tiff"
	}
	return def
}

// ToRGBA copies any image.Image into an *image.RGBA with bounds starting at (0,0).
func ToRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
