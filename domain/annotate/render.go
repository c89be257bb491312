package annotate

import (
	"image"
	"image/color"
)

// Surface is a 2D drawing target with a single affine view transform. After
// SetTransform all coordinates and lengths are in image space.
type Surface interface {
	// Reset drops any transform and clears the whole surface.
	Reset()
	SetTransform(t Transform)
	DrawImage(img image.Image)
	FillRect(x, y, w, h float64, c color.Color)
	StrokeRect(x, y, w, h, lineWidth float64, c color.Color)
	DashedLine(x1, y1, x2, y2, lineWidth float64, dash []float64, c color.Color)
}

// Style holds the renderer colors.
type Style struct {
	BoxStroke      color.Color
	SelectedStroke color.Color
	BoxFill        color.Color
	HandleFill     color.Color
	Crosshair      color.Color
	RubberBand     color.Color
}

// DefaultStyle returns the green/red/yellow scheme of the annotation page.
func DefaultStyle() Style {
	return Style{
		BoxStroke:      color.NRGBA{R: 0x00, G: 0xff, B: 0x88, A: 0xff},
		SelectedStroke: color.NRGBA{R: 0xff, A: 0xff},
		BoxFill:        color.NRGBA{R: 0x00, G: 0xff, B: 0x88, A: 0x33},
		HandleFill:     color.NRGBA{R: 0xff, G: 0xeb, B: 0x3b, A: 0xff},
		Crosshair:      color.NRGBA{R: 0xff, G: 0xff, A: 0x99},
		RubberBand:     color.NRGBA{R: 0x00, G: 0xbf, B: 0xff, A: 0xff},
	}
}

// Scene is everything a frame depends on.
type Scene struct {
	Image         image.Image
	Width, Height float64 // canvas intrinsic size
	Boxes         []Box
	Selected      int
	View          Transform
	HandleSize    float64

	Pointer   Point // image space
	Crosshair bool

	RubberBand    Box
	HasRubberBand bool
}

const (
	boxLineWidth       = 2.0
	crosshairLineWidth = 1.0
	crosshairDash      = 12.0
	crosshairGap       = 8.0
)

// Renderer paints a Scene. It keeps no state between frames so it can run on
// every event.
type Renderer struct {
	Style Style
}

// NewRenderer returns a renderer with DefaultStyle.
func NewRenderer() *Renderer { return &Renderer{Style: DefaultStyle()} }

// Render clears s and paints sc.
func (r *Renderer) Render(s Surface, sc Scene) {
	if s == nil {
		return
	}
	st := r.Style
	if st.BoxStroke == nil {
		st = DefaultStyle()
	}
	s.Reset()
	s.SetTransform(sc.View)
	if sc.Image != nil {
		s.DrawImage(sc.Image)
	}

	z := sc.View.zoom()
	lw := boxLineWidth / z
	hs := sc.HandleSize
	if hs <= 0 {
		hs = DefaultHandleSize
	}
	for i, b := range sc.Boxes {
		stroke := st.BoxStroke
		if i == sc.Selected {
			stroke = st.SelectedStroke
		}
		s.StrokeRect(b.X1, b.Y1, b.Width(), b.Height(), lw, stroke)
		s.FillRect(b.X1, b.Y1, b.Width(), b.Height(), st.BoxFill)
		if i == sc.Selected {
			r.drawHandles(s, b, hs/z, st.HandleFill)
		}
	}

	if sc.HasRubberBand {
		rb := sc.RubberBand.Normalize()
		s.StrokeRect(rb.X1, rb.Y1, rb.Width(), rb.Height(), lw, st.RubberBand)
	}

	if sc.Crosshair {
		dash := []float64{crosshairDash / z, crosshairGap / z}
		cw := crosshairLineWidth / z
		s.DashedLine(sc.Pointer.X, 0, sc.Pointer.X, sc.Height, cw, dash, st.Crosshair)
		s.DashedLine(0, sc.Pointer.Y, sc.Width, sc.Pointer.Y, cw, dash, st.Crosshair)
	}
}

func (r *Renderer) drawHandles(s Surface, b Box, side float64, c color.Color) {
	for _, h := range Handles {
		p := b.Corner(h)
		s.FillRect(p.X-side/2, p.Y-side/2, side, side, c)
	}
}
