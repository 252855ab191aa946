package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spffcodec/spff"
	"github.com/spffcodec/spff/internal/imageio"
)

func run(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("spff %v: %v", args, err)
	}
}

func TestCommands(t *testing.T) {
	chdir(t, t.TempDir())
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 12, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 12; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 30), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(dir, "in.png")
	if err := os.WriteFile(src, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	encoded := filepath.Join(dir, "out.spff")
	metrics := filepath.Join(dir, "spff.prom")
	run(t, "encode", "-i", src, "-o", encoded, "--zstd", "--metrics-textfile", metrics)

	data, err := os.ReadFile(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !spff.IsCompressed(data) {
		t.Fatalf("expected a zstd envelope")
	}
	if _, err := os.Stat(metrics); err != nil {
		t.Fatalf("metrics textfile: %v", err)
	}

	decoded := filepath.Join(dir, "out.bmp")
	run(t, "decode", "-i", encoded, "-o", decoded, "--mode", "legacy", "--workers", "2")

	out, err := os.ReadFile(decoded)
	if err != nil {
		t.Fatal(err)
	}
	got, format, err := imageio.Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if format != "bmp" || got.Bounds().Dx() != 12 || got.Bounds().Dy() != 8 {
		t.Fatalf("decoded %s %v", format, got.Bounds())
	}

	run(t, "identify", encoded)
	run(t, "roundtrip", "-i", src)
}

func TestDecode_Corrupt(t *testing.T) {
	chdir(t, t.TempDir())
	bad := filepath.Join(t.TempDir(), "bad.spff")
	if err := os.WriteFile(bad, []byte{4, 0, 0, 0, 4, 0, 0, 0, 1, 2, 3}, 0644); err != nil {
		t.Fatal(err)
	}
	rootCmd.SetArgs([]string{"decode", "-i", bad, "-o", filepath.Join(t.TempDir(), "x.png")})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected an error for a short payload")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
