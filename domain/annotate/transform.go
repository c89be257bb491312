package annotate

import "math"

// Point is a 2D coordinate. Its space (screen, canvas or image) depends on context.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Viewport describes where the canvas sits on screen and how large it is
// rendered there. CanvasW/CanvasH are the intrinsic pixel size (the image's
// native size); DisplayW/DisplayH the rendered size; Left/Top the screen
// position of the canvas origin.
type Viewport struct {
	Left, Top          float64
	DisplayW, DisplayH float64
	CanvasW, CanvasH   float64
}

// NewViewport returns a viewport rendered at its intrinsic size at the origin.
func NewViewport(canvasW, canvasH float64) Viewport {
	return Viewport{DisplayW: canvasW, DisplayH: canvasH, CanvasW: canvasW, CanvasH: canvasH}
}

// Scale returns the intrinsic-per-rendered pixel ratio on each axis.
// A collapsed display falls back to 1.
func (v Viewport) Scale() (sx, sy float64) {
	sx, sy = 1, 1
	if v.DisplayW > 0 && v.CanvasW > 0 {
		sx = v.CanvasW / v.DisplayW
	}
	if v.DisplayH > 0 && v.CanvasH > 0 {
		sy = v.CanvasH / v.DisplayH
	}
	return sx, sy
}

// ToCanvas maps a screen point to canvas pixels.
func (v Viewport) ToCanvas(screen Point) Point {
	sx, sy := v.Scale()
	return Point{X: (screen.X - v.Left) * sx, Y: (screen.Y - v.Top) * sy}
}

// Transform is the zoom/pan view transform. Canvas pixel p maps to image
// space (p - offset) / zoom.
type Transform struct {
	Zoom    float64
	OffsetX float64
	OffsetY float64
}

// Identity returns the transform used right after an image loads.
func Identity() Transform { return Transform{Zoom: 1} }

// ToImage maps canvas pixels to image space.
func (t Transform) ToImage(c Point) Point {
	z := t.zoom()
	return Point{X: (c.X - t.OffsetX) / z, Y: (c.Y - t.OffsetY) / z}
}

// ToCanvas maps image space to canvas pixels.
func (t Transform) ToCanvas(p Point) Point {
	z := t.zoom()
	return Point{X: p.X*z + t.OffsetX, Y: p.Y*z + t.OffsetY}
}

// ZoomAt scales zoom by factor, clamped to [MinZoom, MaxZoom], keeping the
// image point under canvas point c fixed.
func (t Transform) ZoomAt(c Point, factor float64) Transform {
	anchor := t.ToImage(c)
	z := ClampZoom(t.zoom() * factor)
	return Transform{
		Zoom:    z,
		OffsetX: c.X - anchor.X*z,
		OffsetY: c.Y - anchor.Y*z,
	}
}

func (t Transform) zoom() float64 {
	if t.Zoom <= 0 {
		return 1
	}
	return t.Zoom
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return math.Min(math.Max(z, MinZoom), MaxZoom)
}

// ToImageSpace maps a raw pointer position through the device-pixel
// correction of v and the inverse of t. Call it on every event; zoom and pan
// may have changed in between.
func ToImageSpace(v Viewport, t Transform, screen Point) Point {
	return t.ToImage(v.ToCanvas(screen))
}
