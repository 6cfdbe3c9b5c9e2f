package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func testJPEGDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func testPNGDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeResult(t *testing.T, ref string) image.Image {
	t.Helper()
	if !strings.HasPrefix(ref, "data:image/jpeg;base64,") {
		t.Fatalf("expected JPEG data URL, got %.40q", ref)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ref, "data:image/jpeg;base64,"))
	if err != nil {
		t.Fatalf("decoding result payload: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result image: %v", err)
	}
	return img
}

func TestNormalizeRefPassthrough(t *testing.T) {
	for _, ref := range []string{"", "https://example.com/sari.jpg", "/static/sari.png"} {
		got, err := NormalizeRef(ref)
		if err != nil {
			t.Fatalf("NormalizeRef(%q): %v", ref, err)
		}
		if got != ref {
			t.Errorf("expected %q unchanged, got %q", ref, got)
		}
	}
}

func TestNormalizeRefJPEG(t *testing.T) {
	got, err := NormalizeRef(testJPEGDataURL(t, 100, 100))
	if err != nil {
		t.Fatalf("NormalizeRef: %v", err)
	}
	decodeResult(t, got)
}

func TestNormalizeRefPNGBecomesJPEG(t *testing.T) {
	got, err := NormalizeRef(testPNGDataURL(t, 100, 100))
	if err != nil {
		t.Fatalf("NormalizeRef: %v", err)
	}
	decodeResult(t, got)
}

func TestNormalizeRefDownscales(t *testing.T) {
	got, err := NormalizeRef(testJPEGDataURL(t, 2048, 1024))
	if err != nil {
		t.Fatalf("NormalizeRef: %v", err)
	}
	bounds := decodeResult(t, got).Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		t.Errorf("expected max %dx%d, got %dx%d", MaxDimension, MaxDimension, bounds.Dx(), bounds.Dy())
	}
	if bounds.Dx() != MaxDimension || bounds.Dy() != MaxDimension/2 {
		t.Errorf("aspect ratio not preserved: got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestNormalizeRefSmallImageNotUpscaled(t *testing.T) {
	got, err := NormalizeRef(testJPEGDataURL(t, 50, 50))
	if err != nil {
		t.Fatalf("NormalizeRef: %v", err)
	}
	bounds := decodeResult(t, got).Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 50 {
		t.Errorf("small image should not be resized: got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestNormalizeRefRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{"missing payload", "data:image/png;base64"},
		{"not base64", "data:image/png;base64,!!!"},
		{"unencoded payload", "data:text/plain,hello"},
		{"not an image", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image"))},
		{"gif rejected", "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("GIF89a..."))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NormalizeRef(tt.ref); err == nil {
				t.Error("expected error")
			}
		})
	}
}
