package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func generateImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestWriteRead(t *testing.T) {
	src := generateImage(6, 4, color.RGBA{R: 10, G: 200, B: 90, A: 255})
	for _, format := range []string{"png", "bmp", "tiff"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, src, format); err != nil {
				t.Fatalf("Write: %v", err)
			}
			img, got, err := Read(buf.Bytes())
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if got != format {
				t.Errorf("format: got %q want %q", got, format)
			}
			rgba := ToRGBA(img)
			if c := rgba.RGBAAt(5, 3); c != src.RGBAAt(5, 3) {
				t.Errorf("pixel: got %v want %v", c, src.RGBAAt(5, 3))
			}
		})
	}
}

func TestRead_JPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, generateImage(8, 8, color.RGBA{R: 128, G: 128, B: 128, A: 255}), nil); err != nil {
		t.Fatal(err)
	}
	img, format, err := Read(buf.Bytes())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if format != "jpeg" || img.Bounds().Dx() != 8 {
		t.Errorf("got %s %v", format, img.Bounds())
	}
}

func TestRead_Garbage(t *testing.T) {
	if _, _, err := Read([]byte("not an image")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWrite_Unsupported(t *testing.T) {
	if err := Write(&bytes.Buffer{}, generateImage(1, 1, color.RGBA{}), "gif"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFormatFromPath(t *testing.T) {
	for in, want := range map[string]string{
		"out.png": "png", "OUT.BMP": "bmp", "a.b.tif": "tiff", "x.tiff": "tiff", "noext": "png", "x.jpg": "png",
	} {
		if got := FormatFromPath(in, "png"); got != want {
			t.Errorf("FormatFromPath(%q) = %q want %q", in, got, want)
		}
	}
}

func TestTargetSize(t *testing.T) {
	r := image.Rect(0, 0, 400, 300)
	tests := []struct{ w, h, ww, wh int }{
		{0, 0, 400, 300},
		{200, 0, 200, 150},
		{0, 30, 40, 30},
		{10, 10, 10, 10},
	}
	for _, tt := range tests {
		if w, h := TargetSize(r, tt.w, tt.h); w != tt.ww || h != tt.wh {
			t.Errorf("TargetSize(%d, %d) = %d, %d want %d, %d", tt.w, tt.h, w, h, tt.ww, tt.wh)
		}
	}
}

func TestResize(t *testing.T) {
	c := color.RGBA{R: 60, G: 120, B: 180, A: 255}
	src := generateImage(40, 20, c)
	for _, k := range []string{"nearest", "approxbilinear", "bilinear", "catmullrom"} {
		out, err := Resize(src, 10, 0, k)
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if b := out.Bounds(); b.Dx() != 10 || b.Dy() != 5 {
			t.Fatalf("%s: bounds %v", k, b)
		}
		got := ToRGBA(out).RGBAAt(4, 2)
		if absDiff(got.R, c.R) > 1 || absDiff(got.G, c.G) > 1 || absDiff(got.B, c.B) > 1 {
			t.Errorf("%s: solid color changed to %v", k, got)
		}
	}

	same, err := Resize(src, 0, 0, "")
	if err != nil || same != src {
		t.Errorf("no-op resize should return the source")
	}
	if _, err := Resize(src, 5, 5, "lanczos"); err == nil {
		t.Errorf("expected error for unknown kernel")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
