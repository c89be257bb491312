package view

import (
	"image"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/soocke/box-annotator/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// SidePanel holds the class picker, the new-class form, the box list and the
// selected-box preview.
type SidePanel interface {
	SetClasses(names []string, selected int)
	SetBoxes(items []string, selected int)
	ShowPreview(img image.Image)
	Typing() bool
}

// SidePanelHandlers are invoked on user actions in the panel.
type SidePanelHandlers struct {
	OnSelectClass func(i int)
	OnAddClass    func(name string)
	OnSelectBox   func(i int)
}

type sidePanel struct {
	logger    *slog.Logger
	classBox  *TComboboxWidget
	nameEntry *TextWidget
	boxList   *TComboboxWidget
	preview   *LabelWidget
	prevPhoto *Img
	classes   []string
	boxes     []string
	boxSel    int
	typing    bool // name entry has focus
}

const noneItem = "<none>"

// NewSidePanel builds the panel inside a frame gridded at (row, col).
func NewSidePanel(row, col int, h SidePanelHandlers, logger *slog.Logger) SidePanel {
	p := &sidePanel{logger: logger, boxSel: -1}
	frame := Frame()
	Grid(frame, Row(row), Column(col), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))

	Grid(Label(Txt("Class"), Anchor("w")), In(frame), Row(0), Column(0), Sticky("w"), Pady("0.15m"))
	p.classBox = TCombobox(Values([]string{noneItem}), Width(22), State("readonly"))
	Grid(p.classBox, In(frame), Row(1), Column(0), Columnspan(2), Sticky("we"), Pady("0.15m"))
	Bind(p.classBox, "<<ComboboxSelected>>", Command(func() {
		if i, ok := p.current(p.classBox, len(p.classes)); ok && h.OnSelectClass != nil {
			h.OnSelectClass(i)
		}
	}))

	p.nameEntry = Text(Height(1), Width(16))
	Grid(p.nameEntry, In(frame), Row(2), Column(0), Sticky("we"), Pady("0.15m"))
	Bind(p.nameEntry, "<FocusIn>", Command(func() { p.typing = true }))
	Bind(p.nameEntry, "<FocusOut>", Command(func() { p.typing = false }))
	add := Button(Txt("Add Class"), Command(func() {
		name := strings.TrimSpace(strings.Join(p.nameEntry.Get("1.0", END), ""))
		if h.OnAddClass != nil {
			h.OnAddClass(name)
		}
		p.nameEntry.Delete("1.0", END)
	}))
	Grid(add, In(frame), Row(2), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.15m"))

	Grid(Label(Txt("Boxes"), Anchor("w")), In(frame), Row(3), Column(0), Sticky("w"), Pady("0.15m"))
	p.boxList = TCombobox(Values([]string{noneItem}), Width(30), State("readonly"))
	Grid(p.boxList, In(frame), Row(4), Column(0), Columnspan(2), Sticky("we"), Pady("0.15m"))
	Bind(p.boxList, "<<ComboboxSelected>>", Command(func() {
		if i, ok := p.current(p.boxList, len(p.boxes)); ok && h.OnSelectBox != nil {
			h.OnSelectBox(i)
		}
	}))

	p.prevPhoto = NewPhoto(Data(images.EncodePNG(image.NewRGBA(image.Rect(0, 0, 160, 160)))))
	p.preview = Label(Image(p.prevPhoto), Borderwidth(1), Relief("sunken"))
	Grid(p.preview, In(frame), Row(5), Column(0), Columnspan(2), Sticky("w"), Pady("0.3m"))
	return p
}

func (p *sidePanel) current(cb *TComboboxWidget, n int) (int, bool) {
	idx, err := strconv.Atoi(cb.Current(nil))
	if err != nil {
		if p.logger != nil {
			p.logger.Error("combobox selection parse error", "error", err)
		}
		return 0, false
	}
	return idx, idx >= 0 && idx < n
}

func (p *sidePanel) SetClasses(names []string, selected int) {
	if p == nil || p.classBox == nil {
		return
	}
	p.classes = append([]string(nil), names...)
	fill(p.classBox, p.classes, selected)
}

func (p *sidePanel) SetBoxes(items []string, selected int) {
	if p == nil || p.boxList == nil {
		return
	}
	if slices.Equal(items, p.boxes) && selected == p.boxSel {
		return
	}
	p.boxes = append([]string(nil), items...)
	p.boxSel = selected
	fill(p.boxList, p.boxes, selected)
}

func fill(cb *TComboboxWidget, items []string, selected int) {
	values, current := comboState(items, selected)
	cb.Configure(Values(values))
	if current >= 0 {
		cb.Current(current)
		return
	}
	// No selection: clear the shown text, which may name a removed entry.
	cb.Configure(Textvariable(""))
}

// comboState returns the combobox values and the index to show; -1 means
// the entry text is cleared.
func comboState(items []string, selected int) ([]string, int) {
	if len(items) == 0 {
		return []string{noneItem}, 0
	}
	if selected < 0 || selected >= len(items) {
		return items, -1
	}
	return items, selected
}

// ShowPreview displays the selected-box crop; nil clears it.
func (p *sidePanel) ShowPreview(img image.Image) {
	if p == nil || p.preview == nil {
		return
	}
	if img == nil {
		img = image.NewRGBA(image.Rect(0, 0, 160, 160))
	}
	if p.prevPhoto != nil {
		p.prevPhoto.Delete()
	}
	p.prevPhoto = NewPhoto(Data(images.EncodePNG(img)))
	p.preview.Configure(Image(p.prevPhoto))
}

func (p *sidePanel) Typing() bool { return p != nil && p.typing }
