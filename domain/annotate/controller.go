package annotate

import (
	"errors"
	"image"
	"log/slog"
)

// ErrNoImage reports a controller constructed without a loaded image.
var ErrNoImage = errors.New("annotate: no image loaded")

// MsgSelectClass is the warning shown when a draw completes without a class.
const MsgSelectClass = "Select a class first!"

// Controller is the pointer-driven annotation session for one image. It owns
// the box store and view transform and moves between the State values in
// response to pointer and wheel events. All methods run on the UI thread.
type Controller struct {
	store    *BoxStore
	view     Transform
	viewport Viewport
	state    State
	image    image.Image
	width    float64
	height   float64

	opts      Options
	logger    *slog.Logger
	classes   ClassSource
	warner    Warner
	renderer  *Renderer
	listeners []StateListener

	pointer      Point // image space
	pointerKnown bool
	lastScreen   Point

	drawStart, drawEnd Point
	dragOffset         Point
	handle             Handle
	panAnchor          Point // canvas pixels
	panOffset          Point
}

// NewController starts a session on img. Existing records are expanded
// against the image's pixel size. The canvas starts at the identity transform
// and rendered at its intrinsic size.
func NewController(img image.Image, existing []Record, classes ClassSource, warner Warner, opts Options) (*Controller, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrNoImage
	}
	opts = opts.withDefaults()
	w, h := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	c := &Controller{
		store:    NewBoxStore(FromRecords(existing, w, h)...),
		view:     Identity(),
		viewport: NewViewport(w, h),
		state:    StateIdle,
		image:    img,
		width:    w,
		height:   h,
		opts:     opts,
		logger:   opts.Logger,
		classes:  classes,
		warner:   warner,
		renderer: NewRenderer(),
	}
	return c, nil
}

// AddListener registers l for state changes.
func (c *Controller) AddListener(l StateListener) { c.listeners = append(c.listeners, l) }

// SetViewport updates where and how large the canvas is rendered on screen.
func (c *Controller) SetViewport(v Viewport) {
	v.CanvasW, v.CanvasH = c.width, c.height
	c.viewport = v
}

func (c *Controller) State() State           { return c.state }
func (c *Controller) View() Transform        { return c.view }
func (c *Controller) Viewport() Viewport     { return c.viewport }
func (c *Controller) Store() *BoxStore       { return c.store }
func (c *Controller) Image() image.Image     { return c.image }
func (c *Controller) Size() (w, h float64)   { return c.width, c.height }
func (c *Controller) ActiveHandle() Handle   { return c.handle }
func (c *Controller) Pointer() (Point, bool) { return c.pointer, c.pointerKnown }

// PointerDown starts a gesture. Precedence: secondary button pans; a handle
// of the selected box resizes; the topmost hit box drags; otherwise a new
// box is drawn. Presses outside Idle are ignored.
func (c *Controller) PointerDown(ev PointerEvent) {
	c.track(ev.Screen)
	if c.state != StateIdle {
		return
	}
	switch ev.Button {
	case ButtonSecondary:
		c.panAnchor = c.viewport.ToCanvas(ev.Screen)
		c.panOffset = Point{X: c.view.OffsetX, Y: c.view.OffsetY}
		c.transition(StatePanning)
		return
	case ButtonPrimary:
	default:
		return
	}

	p := c.pointer
	if b, ok := c.store.SelectedBox(); ok {
		if h := HandleHitTest(p, b, c.opts.HandleSize, c.view.zoom()); h != HandleNone {
			c.handle = h
			c.transition(StateResizing)
			return
		}
	}
	if i := c.store.HitTest(p); i >= 0 {
		c.must(c.store.Select(i))
		b, _ := c.store.Box(i)
		c.dragOffset = p.Sub(Point{X: b.X1, Y: b.Y1})
		c.transition(StateDragging)
		return
	}
	c.drawStart, c.drawEnd = p, p
	c.transition(StateDrawing)
}

// PointerMove advances the active gesture and tracks the crosshair.
func (c *Controller) PointerMove(ev PointerEvent) {
	if c.state == StatePanning {
		cur := c.viewport.ToCanvas(ev.Screen)
		c.view.OffsetX = c.panOffset.X + cur.X - c.panAnchor.X
		c.view.OffsetY = c.panOffset.Y + cur.Y - c.panAnchor.Y
		// Tracked through the moved view.
		c.track(ev.Screen)
		return
	}
	c.track(ev.Screen)
	switch c.state {
	case StateDragging:
		p := c.pointer
		c.must(c.store.Mutate(c.store.Selected(), func(b *Box) {
			w, h := b.Width(), b.Height()
			b.X1, b.Y1 = p.X-c.dragOffset.X, p.Y-c.dragOffset.Y
			b.X2, b.Y2 = b.X1+w, b.Y1+h
		}))
	case StateResizing:
		p := c.pointer
		c.must(c.store.Mutate(c.store.Selected(), func(b *Box) {
			c.handle.moveTo(b, p)
			// The dragged corner keeps following the pointer after crossing
			// the opposite edge.
			if b.X1 > b.X2 {
				c.handle = c.handle.flipX()
			}
			if b.Y1 > b.Y2 {
				c.handle = c.handle.flipY()
			}
		}))
	case StateDrawing:
		c.drawEnd = c.pointer
	}
}

// PointerUp ends the active gesture. A finished draw is committed only with a
// class selected and both sides at least MinBoxSize.
func (c *Controller) PointerUp(ev PointerEvent) {
	c.track(ev.Screen)
	switch c.state {
	case StatePanning, StateDragging:
		c.transition(StateIdle)
	case StateResizing:
		c.handle = HandleNone
		c.transition(StateIdle)
	case StateDrawing:
		c.drawEnd = c.pointer
		c.transition(StateIdle)
		c.commitDraw()
	}
}

func (c *Controller) commitDraw() {
	var cls int
	ok := false
	if c.classes != nil {
		cls, ok = c.classes.SelectedClass()
	}
	if !ok {
		if c.warner != nil {
			c.warner.Warn(MsgSelectClass)
		}
		return
	}
	b := Box{X1: c.drawStart.X, Y1: c.drawStart.Y, X2: c.drawEnd.X, Y2: c.drawEnd.Y, Class: cls}.Normalize()
	if b.Width() < c.opts.MinBoxSize || b.Height() < c.opts.MinBoxSize {
		if c.logger != nil {
			c.logger.Debug("draw discarded", "width", b.Width(), "height", b.Height())
		}
		return
	}
	i := c.store.Add(b)
	if c.logger != nil {
		c.logger.Debug("box added", "index", i, "class", cls)
	}
}

// PointerLeave forgets the pointer position so no crosshair is drawn.
func (c *Controller) PointerLeave() { c.pointerKnown = false }

// Wheel zooms about the pointer: deltaY < 0 zooms in, > 0 zooms out.
func (c *Controller) Wheel(screen Point, deltaY float64) {
	switch {
	case deltaY < 0:
		c.ZoomAt(screen, ZoomInFactor)
	case deltaY > 0:
		c.ZoomAt(screen, ZoomOutFactor)
	}
}

// ZoomAt scales the zoom by factor keeping the image point under screen fixed.
func (c *Controller) ZoomAt(screen Point, factor float64) {
	c.view = c.view.ZoomAt(c.viewport.ToCanvas(screen), factor)
	c.track(screen)
}

// ZoomAtPointer zooms about the last pointer position seen.
func (c *Controller) ZoomAtPointer(factor float64) { c.ZoomAt(c.lastScreen, factor) }

// SelectBox selects box i from the box list. Only allowed while Idle.
func (c *Controller) SelectBox(i int) error {
	if c.state != StateIdle {
		return nil
	}
	return c.store.Select(i)
}

// DeleteSelected removes the selected box. It reports whether a box was removed.
func (c *Controller) DeleteSelected() bool {
	if c.state != StateIdle {
		return false
	}
	i := c.store.Selected()
	if i < 0 {
		return false
	}
	c.must(c.store.Remove(i))
	return true
}

// RubberBand returns the in-progress rectangle while drawing.
func (c *Controller) RubberBand() (Box, bool) {
	if c.state != StateDrawing {
		return Box{}, false
	}
	return Box{X1: c.drawStart.X, Y1: c.drawStart.Y, X2: c.drawEnd.X, Y2: c.drawEnd.Y}.Normalize(), true
}

// Records snapshots the whole store as normalized records.
func (c *Controller) Records() []Record {
	return ToRecords(c.store.Boxes(), c.width, c.height)
}

// Scene captures the current frame for the renderer.
func (c *Controller) Scene() Scene {
	sc := Scene{
		Image:      c.image,
		Width:      c.width,
		Height:     c.height,
		Boxes:      c.store.Boxes(),
		Selected:   c.store.Selected(),
		View:       c.view,
		HandleSize: c.opts.HandleSize,
		Pointer:    c.pointer,
		Crosshair:  c.pointerKnown && (c.state == StateIdle || c.state == StateDrawing),
	}
	sc.RubberBand, sc.HasRubberBand = c.RubberBand()
	return sc
}

// Render repaints the whole canvas onto s. It is the only redraw path.
func (c *Controller) Render(s Surface) {
	c.renderer.Render(s, c.Scene())
}

func (c *Controller) track(screen Point) {
	c.lastScreen = screen
	c.pointer = ToImageSpace(c.viewport, c.view, screen)
	c.pointerKnown = true
}

func (c *Controller) transition(next State) {
	prev := c.state
	if prev == next {
		return
	}
	c.state = next
	if c.logger != nil {
		c.logger.Debug("annotate state transition", "from", prev.String(), "to", next.String())
	}
	for _, l := range c.listeners {
		l(prev, next)
	}
}

// must logs store errors. The controller only passes indices it got from the
// store, so an error here is a programming defect.
func (c *Controller) must(err error) {
	if err != nil && c.logger != nil {
		c.logger.Error("box store invariant violated", "error", err, "state", c.state.String())
	}
}
