package view

import (
	"image"

	"github.com/soocke/box-annotator/assets"
	"github.com/soocke/box-annotator/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CanvasView shows rendered annotation frames in a label and forwards
// pointer input on it.
type CanvasView interface {
	ShowFrame(img image.Image)
	Reset()
}

type canvasView struct {
	label     *LabelWidget
	prevPhoto *Img // last Tk photo, deleted on replace
}

// NewCanvasView creates the canvas label, grids it at (row, col) and binds
// pointer input to h.
func NewCanvasView(row, col int, h PointerHandler) CanvasView {
	photo := NewPhoto(Data(placeholderPNG()))
	lbl := Label(Image(photo), Borderwidth(0), Cursor("crosshair"))
	Grid(lbl, Row(row), Column(col), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))
	bindCanvas(lbl, h)
	return &canvasView{label: lbl, prevPhoto: photo}
}

func placeholderPNG() []byte {
	if len(assets.PlaceholderPNG) > 0 {
		return assets.PlaceholderPNG
	}
	return images.EncodePNG(image.NewRGBA(image.Rect(0, 0, 480, 300)))
}

// ShowFrame replaces the label image. The frame is already at display size,
// which the pointer mapping assumes.
func (v *canvasView) ShowFrame(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	v.replace(images.EncodePNG(img))
}

func (v *canvasView) Reset() {
	if v == nil || v.label == nil {
		return
	}
	v.replace(placeholderPNG())
}

func (v *canvasView) replace(pngBytes []byte) {
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(pngBytes))
	v.label.Configure(Image(v.prevPhoto))
}
