package images

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/soocke/box-annotator/domain/annotate"
)

// Canvas is a raster annotate.Surface at the image's intrinsic size. gg
// strokes in device pixels, so line widths and dash patterns given in image
// space are scaled by the current zoom before stroking.
type Canvas struct {
	dc         *gg.Context
	zoom       float64
	background color.Color
}

var _ annotate.Surface = (*Canvas)(nil)

// NewCanvas allocates a w x h canvas.
func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Canvas{dc: gg.NewContext(w, h), zoom: 1, background: color.Black}
}

// SetBackground sets the color shown where the panned image does not reach.
func (c *Canvas) SetBackground(col color.Color) {
	if col != nil {
		c.background = col
	}
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (int, int) { return c.dc.Width(), c.dc.Height() }

// Image returns the backing image. It is reused across frames.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

func (c *Canvas) Reset() {
	c.dc.Identity()
	c.zoom = 1
	c.dc.SetColor(c.background)
	c.dc.Clear()
}

func (c *Canvas) SetTransform(t annotate.Transform) {
	c.dc.Identity()
	c.dc.Translate(t.OffsetX, t.OffsetY)
	z := t.Zoom
	if z <= 0 {
		z = 1
	}
	c.dc.Scale(z, z)
	c.zoom = z
}

func (c *Canvas) DrawImage(img image.Image) {
	if img == nil {
		return
	}
	c.dc.DrawImage(img, 0, 0)
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.SetColor(col)
	c.dc.Fill()
}

func (c *Canvas) StrokeRect(x, y, w, h, lineWidth float64, col color.Color) {
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.SetColor(col)
	c.dc.SetLineWidth(lineWidth * c.zoom)
	c.dc.Stroke()
}

func (c *Canvas) DashedLine(x1, y1, x2, y2, lineWidth float64, dash []float64, col color.Color) {
	scaled := make([]float64, len(dash))
	for i, d := range dash {
		scaled[i] = d * c.zoom
	}
	c.dc.SetDash(scaled...)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.SetColor(col)
	c.dc.SetLineWidth(lineWidth * c.zoom)
	c.dc.Stroke()
	c.dc.SetDash()
}
