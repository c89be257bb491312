package images

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	_ = enc.Encode(&buf, img)
	return buf.Bytes()
}

// FitSize returns the largest w x h with the aspect of srcW x srcH that fits
// within maxW x maxH. Sources that already fit keep their size. Non-positive
// limits disable that axis.
func FitSize(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW < 1 || srcH < 1 {
		return 0, 0
	}
	ratio := 1.0
	if maxW > 0 && srcW > maxW {
		ratio = float64(maxW) / float64(srcW)
	}
	if maxH > 0 && srcH > maxH {
		if r := float64(maxH) / float64(srcH); r < ratio {
			ratio = r
		}
	}
	w := int(float64(srcW)*ratio + 0.5)
	h := int(float64(srcH)*ratio + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// ScaleTo resamples src to exactly w x h. This is how the rendered canvas is
// shown at its display size.
func ScaleTo(src image.Image, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
