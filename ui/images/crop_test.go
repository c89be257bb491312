package images

import (
	"image"
	"image/color"
	"testing"
)

func TestCropBox_UsesBoxRect(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	frame.Set(30, 40, color.RGBA{R: 255, A: 255})
	crop, rect, err := CropBox(frame, 30, 40, 70.5, 60)
	if err != nil || crop == nil {
		t.Fatalf("expected crop, got err=%v", err)
	}
	if rect != image.Rect(30, 40, 71, 60) {
		t.Fatalf("unexpected rect %v", rect)
	}
	if crop.Bounds().Dx() != 41 || crop.Bounds().Dy() != 20 {
		t.Fatalf("unexpected crop size %v", crop.Bounds())
	}
	if r, _, _, _ := crop.At(0, 0).RGBA(); r>>8 != 255 {
		t.Fatalf("crop origin should be the box corner")
	}
}

func TestCropBox_ClampsToFrame(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 20, 20))
	_, rect, err := CropBox(frame, 15, 15, -5, 40)
	if err != nil {
		t.Fatalf("crop error: %v", err)
	}
	if rect != image.Rect(0, 15, 15, 20) {
		t.Fatalf("expected clamp to frame, got %v", rect)
	}
}

func TestCropBox_OutsideKeepsOnePixel(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 10, 10))
	crop, rect, _ := CropBox(frame, 50, 50, 60, 60)
	if crop == nil || rect.Dx() != 1 || rect.Dy() != 1 {
		t.Fatalf("expected 1x1 got %v", rect)
	}
	if rect.Min != image.Pt(9, 9) {
		t.Fatalf("expected nearest edge sample, got %v", rect.Min)
	}
}

func TestCropBox_NilFrame(t *testing.T) {
	if _, _, err := CropBox(nil, 0, 0, 1, 1); err == nil {
		t.Fatalf("expected error for nil frame")
	}
}

func TestThumbnail_Fits(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))
	th := Thumbnail(img, 128)
	if th.Bounds().Dx() != 128 || th.Bounds().Dy() != 32 {
		t.Fatalf("unexpected thumbnail size %v", th.Bounds())
	}
	small := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if Thumbnail(small, 128) != image.Image(small) {
		t.Fatalf("small images pass through")
	}
}
