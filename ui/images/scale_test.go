package images

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestFitSize(t *testing.T) {
	tests := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"fits", 800, 600, 1280, 800, 800, 600},
		{"wide", 2560, 800, 1280, 800, 1280, 400},
		{"tall", 1000, 2000, 1280, 800, 400, 800},
		{"no limit", 3000, 3000, 0, 0, 3000, 3000},
		{"tiny", 5000, 1, 100, 100, 100, 1},
	}
	for _, tt := range tests {
		w, h := FitSize(tt.w, tt.h, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Fatalf("%s: expected %dx%d, got %dx%d", tt.name, tt.wantW, tt.wantH, w, h)
		}
	}
}


func TestEncodePNG_Decodes(t *testing.T) {
	data := EncodePNG(image.NewRGBA(image.Rect(0, 0, 3, 2)))
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image should encode to nil")
	}
}
