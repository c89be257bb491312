package view

import (
	"image"
	"log/slog"

	"github.com/soocke/box-annotator/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers bundles the callbacks the root view invokes on user actions.
type Handlers struct {
	Pointer       PointerHandler
	OnPrev        func()
	OnNext        func()
	OnSave        func()
	OnDelete      func()
	OnSelectClass func(i int)
	OnAddClass    func(name string)
	OnSelectBox   func(i int)
	OnToggleTheme func()
	OnExit        func()
}

// RootView composes the top-level application layout and wires UI callbacks.
type RootView struct {
	logger *slog.Logger

	Canvas CanvasView
	Side   SidePanel

	PositionLabel *LabelWidget
	StateLabel    *TLabelWidget
	StatusLabel   *TLabelWidget
}

func NewRootView(logger *slog.Logger) *RootView {
	return &RootView{logger: logger}
}

// Build constructs the layout: toolbar on row 0, canvas and side panel on
// row 1, status line on row 2.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	bar := Frame()
	Grid(bar, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	col := 0
	add := func(w Widget) {
		Grid(w, In(bar), Row(0), Column(col), Sticky("w"), Padx("0.2m"), Pady("0.2m"))
		col++
	}
	add(TButton(Txt("< Prev"), Command(safe(h.OnPrev))))
	rv.PositionLabel = Label(Txt("0 / 0"), Width(12))
	add(rv.PositionLabel)
	add(TButton(Txt("Next >"), Command(safe(h.OnNext))))
	add(TButton(Txt("Save"), Style(theme.StylePrimaryButton), Command(safe(h.OnSave))))
	add(TButton(Txt("Delete Box"), Style(theme.StyleDangerButton), Command(safe(h.OnDelete))))
	if h.Pointer != nil {
		add(TButton(Txt("Zoom +"), Command(h.Pointer.ZoomIn)))
		add(TButton(Txt("Zoom -"), Command(h.Pointer.ZoomOut)))
	}
	add(TButton(Txt("Theme"), Command(safe(h.OnToggleTheme))))
	rv.StateLabel = TLabel(Txt("State: <none>"), Style(theme.StyleStateLabel))
	add(rv.StateLabel)
	add(TButton(Txt("Exit"), Command(safe(h.OnExit))))

	rv.Canvas = NewCanvasView(1, 0, h.Pointer)
	rv.Side = NewSidePanel(1, 1, SidePanelHandlers{
		OnSelectClass: h.OnSelectClass,
		OnAddClass:    h.OnAddClass,
		OnSelectBox:   h.OnSelectBox,
	}, rv.logger)

	rv.StatusLabel = TLabel(Txt(""), Style(theme.StyleStatusLabel), Anchor("w"))
	Grid(rv.StatusLabel, Row(2), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	keys := map[string]func(){
		"<KeyPress-Delete>": h.OnDelete,
		"<KeyPress-Left>":   h.OnPrev,
		"<KeyPress-Right>":  h.OnNext,
		"<Control-s>":       h.OnSave,
	}
	if h.Pointer != nil {
		for _, k := range []string{"<KeyPress-plus>", "<KeyPress-equal>", "<KeyPress-KP_Add>"} {
			keys[k] = h.Pointer.ZoomIn
		}
		for _, k := range []string{"<KeyPress-minus>", "<KeyPress-KP_Subtract>"} {
			keys[k] = h.Pointer.ZoomOut
		}
	}
	bindKeys(keys, rv.Side.Typing)
}

func safe(f func()) func() {
	if f == nil {
		return func() {}
	}
	return f
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

func (rv *RootView) ShowFrame(img image.Image) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.ShowFrame(img)
	}
}

func (rv *RootView) ShowPreview(img image.Image) {
	if rv != nil && rv.Side != nil {
		rv.Side.ShowPreview(img)
	}
}

func (rv *RootView) SetClasses(names []string, selected int) {
	if rv != nil && rv.Side != nil {
		rv.Side.SetClasses(names, selected)
	}
}

func (rv *RootView) SetBoxes(items []string, selected int) {
	if rv != nil && rv.Side != nil {
		rv.Side.SetBoxes(items, selected)
	}
}

// SetPosition shows the "i / n" navigation text.
func (rv *RootView) SetPosition(text string) {
	if rv != nil && rv.PositionLabel != nil {
		rv.PositionLabel.Configure(Txt(text))
	}
}

// SetStatus updates the status line.
func (rv *RootView) SetStatus(msg string) {
	if rv != nil && rv.StatusLabel != nil {
		rv.StatusLabel.Configure(Txt(msg))
	}
}

// Warn pops a modal warning dialog.
func (rv *RootView) Warn(msg string) {
	if rv == nil {
		return
	}
	if rv.logger != nil {
		rv.logger.Warn("user warning", "msg", msg)
	}
	MessageBox(Icon("warning"), Msg(msg), Title("Box Annotator"))
}
