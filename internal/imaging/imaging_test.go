package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/erazemk/najdeno/internal/apperr"
)

func fill(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func createTestJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, fill(w, h, color.RGBA{255, 0, 0, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, fill(w, h, color.RGBA{0, 0, 255, 255}))
	return buf.Bytes()
}

func decode(t *testing.T, data []byte) (image.Image, string) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	return img, format
}

func TestNormalizeOutputsJPEG(t *testing.T) {
	for name, data := range map[string][]byte{
		"jpeg": createTestJPEG(100, 100),
		"png":  createTestPNG(100, 100),
	} {
		out, err := Normalize(data)
		if err != nil {
			t.Fatalf("Normalize %s: %v", name, err)
		}
		if _, format := decode(t, out); format != "jpeg" {
			t.Errorf("%s: expected jpeg output, got %s", name, format)
		}
	}
}

func TestNormalizeDownscales(t *testing.T) {
	out, err := Normalize(createTestJPEG(2048, 1024))
	if err != nil {
		t.Fatalf("Normalize large image: %v", err)
	}

	img, _ := decode(t, out)
	b := img.Bounds()
	if b.Dx() != MaxDimension || b.Dy() != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, b.Dx(), b.Dy())
	}
}

func TestNormalizeSmallImageNotUpscaled(t *testing.T) {
	out, err := Normalize(createTestPNG(50, 40))
	if err != nil {
		t.Fatalf("Normalize small image: %v", err)
	}

	img, _ := decode(t, out)
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("small image should not be resized: got %dx%d", b.Dx(), b.Dy())
	}
}

func TestNormalizeRejects(t *testing.T) {
	for name, data := range map[string][]byte{
		"text":      []byte("not an image"),
		"gif":       []byte("GIF89a..."),
		"truncated": createTestPNG(10, 10)[:20],
	} {
		_, err := Normalize(data)
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("%s: expected ValidationError, got %v", name, err)
		}
	}
}
