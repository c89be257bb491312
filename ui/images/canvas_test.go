package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/soocke/box-annotator/domain/annotate"
)

func rgbaAt(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func TestCanvas_DrawImageFollowsTransform(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	c := NewCanvas(40, 40)
	c.Reset()
	c.SetTransform(annotate.Transform{Zoom: 2, OffsetX: 10, OffsetY: 10})
	c.DrawImage(src)
	img := c.Image()
	if got := rgbaAt(img, 20, 20); got.R < 200 {
		t.Fatalf("expected image pixel at (20,20), got %v", got)
	}
	if got := rgbaAt(img, 5, 5); got.R != 0 {
		t.Fatalf("expected background outside the image, got %v", got)
	}
	if got := rgbaAt(img, 35, 35); got.R != 0 {
		t.Fatalf("image should end at canvas x=30, got %v", got)
	}
}

func TestCanvas_FillRectInImageSpace(t *testing.T) {
	c := NewCanvas(50, 50)
	c.Reset()
	c.SetTransform(annotate.Transform{Zoom: 2})
	c.FillRect(5, 5, 5, 5, color.RGBA{G: 255, A: 255})
	img := c.Image()
	if got := rgbaAt(img, 15, 15); got.G != 255 {
		t.Fatalf("expected fill at canvas (15,15), got %v", got)
	}
	if got := rgbaAt(img, 8, 8); got.G != 0 {
		t.Fatalf("fill leaked to (8,8): %v", got)
	}
}

func TestCanvas_RendererOutput(t *testing.T) {
	c := NewCanvas(100, 100)
	annotate.NewRenderer().Render(c, annotate.Scene{
		Width: 100, Height: 100,
		Boxes:    []annotate.Box{{X1: 20, Y1: 20, X2: 80, Y2: 80}},
		Selected: -1,
		View:     annotate.Identity(),
	})
	// stroke edge in box color
	if got := rgbaAt(c.Image(), 20, 50); got.G < 200 {
		t.Fatalf("expected box stroke at left edge, got %v", got)
	}
	if w, h := c.Size(); w != 100 || h != 100 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
}
