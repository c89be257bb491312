package view

import (
	"github.com/soocke/box-annotator/domain/annotate"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PointerHandler receives canvas input in label pixel coordinates.
type PointerHandler interface {
	PointerDown(x, y float64, b annotate.Button)
	PointerMove(x, y float64, b annotate.Button)
	PointerUp(x, y float64, b annotate.Button)
	PointerLeave()
	Wheel(x, y, deltaY float64)
	ZoomIn()
	ZoomOut()
}

// eventPos reads the widget-relative pointer position (%x %y). All reads of
// Tk event fields live in this file.
func eventPos(e *Event) (float64, float64) {
	if e == nil {
		return 0, 0
	}
	return float64(e.X), float64(e.Y)
}

// bindCanvas routes mouse events on the canvas label to h.
// Button 3 pans; Tk labels post no context menu so nothing needs suppressing.
// Wheel zoom uses the X11 Button-4/5 events; see bindKeys for the +/- keys.
func bindCanvas(w *LabelWidget, h PointerHandler) {
	if w == nil || h == nil {
		return
	}
	press := func(b annotate.Button) func(*Event) {
		return func(e *Event) {
			x, y := eventPos(e)
			h.PointerDown(x, y, b)
		}
	}
	release := func(b annotate.Button) func(*Event) {
		return func(e *Event) {
			x, y := eventPos(e)
			h.PointerUp(x, y, b)
		}
	}
	wheel := func(delta float64) func(*Event) {
		return func(e *Event) {
			x, y := eventPos(e)
			h.Wheel(x, y, delta)
		}
	}
	Bind(w, "<ButtonPress-1>", Command(press(annotate.ButtonPrimary)))
	Bind(w, "<ButtonPress-3>", Command(press(annotate.ButtonSecondary)))
	Bind(w, "<ButtonRelease-1>", Command(release(annotate.ButtonPrimary)))
	Bind(w, "<ButtonRelease-3>", Command(release(annotate.ButtonSecondary)))
	Bind(w, "<Motion>", Command(func(e *Event) {
		x, y := eventPos(e)
		h.PointerMove(x, y, annotate.ButtonPrimary)
	}))
	Bind(w, "<Leave>", Command(h.PointerLeave))
	Bind(w, "<Button-4>", Command(wheel(-1)))
	Bind(w, "<Button-5>", Command(wheel(1)))
}

// bindKeys installs window-wide shortcuts. Toplevel bindings also fire
// while a text field has focus, so each action is skipped while typing()
// reports true.
func bindKeys(keys map[string]func(), typing func() bool) {
	for seq, f := range keys {
		if f == nil {
			continue
		}
		Bind(App, seq, Command(func() {
			if typing != nil && typing() {
				return
			}
			f()
		}))
	}
}
