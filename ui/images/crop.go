package images

import (
	"errors"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// CropBox cuts the image-space rectangle (x1,y1)-(x2,y2) out of src for the
// selected-box preview. The rectangle is clamped to the frame bounds and is at
// least 1x1. Returns the crop and the rectangle actually used, relative to src.
func CropBox(src image.Image, x1, y1, x2, y2 float64) (*image.NRGBA, image.Rectangle, error) {
	if src == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, image.Rectangle{}, errors.New("empty frame")
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	r := image.Rect(
		b.Min.X+int(math.Floor(x1)), b.Min.Y+int(math.Floor(y1)),
		b.Min.X+int(math.Ceil(x2)), b.Min.Y+int(math.Ceil(y2)),
	).Intersect(b)
	if r.Empty() {
		// keep a 1x1 sample at the nearest edge
		x := clampInt(b.Min.X+int(x1), b.Min.X, b.Max.X-1)
		y := clampInt(b.Min.Y+int(y1), b.Min.Y, b.Max.Y-1)
		r = image.Rect(x, y, x+1, y+1)
	}
	return imaging.Crop(src, r), r, nil
}

// Thumbnail fits a crop into a maxSide square for the side panel.
func Thumbnail(img image.Image, maxSide int) image.Image {
	if img == nil || maxSide < 1 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
