package annotate

// Box is an axis-aligned rectangle in image space with a class id.
// X1 <= X2 and Y1 <= Y2 hold after every store mutation.
type Box struct {
	X1, Y1, X2, Y2 float64
	Class          int
}

// Normalize swaps inverted edges so X1 <= X2 and Y1 <= Y2.
func (b Box) Normalize() Box {
	if b.X1 > b.X2 {
		b.X1, b.X2 = b.X2, b.X1
	}
	if b.Y1 > b.Y2 {
		b.Y1, b.Y2 = b.Y2, b.Y1
	}
	return b
}

func (b Box) Width() float64  { return b.X2 - b.X1 }
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

// Contains reports whether p lies strictly inside b. Edges belong to the
// resize handles, not to the box body.
func (b Box) Contains(p Point) bool {
	return p.X > b.X1 && p.X < b.X2 && p.Y > b.Y1 && p.Y < b.Y2
}

// Corner returns the image-space position of handle h.
func (b Box) Corner(h Handle) Point {
	switch h {
	case HandleTopRight:
		return Point{X: b.X2, Y: b.Y1}
	case HandleBottomLeft:
		return Point{X: b.X1, Y: b.Y2}
	case HandleBottomRight:
		return Point{X: b.X2, Y: b.Y2}
	default:
		return Point{X: b.X1, Y: b.Y1}
	}
}

// Handle names a corner grab target of a box.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

// Handles lists the corner handles in hit-test order.
var Handles = [...]Handle{HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight}

func (h Handle) String() string {
	switch h {
	case HandleTopLeft:
		return "tl"
	case HandleTopRight:
		return "tr"
	case HandleBottomLeft:
		return "bl"
	case HandleBottomRight:
		return "br"
	default:
		return "none"
	}
}

// moveTo moves the edges implied by h to p.
func (h Handle) moveTo(b *Box, p Point) {
	switch h {
	case HandleTopLeft:
		b.X1, b.Y1 = p.X, p.Y
	case HandleTopRight:
		b.X2, b.Y1 = p.X, p.Y
	case HandleBottomLeft:
		b.X1, b.Y2 = p.X, p.Y
	case HandleBottomRight:
		b.X2, b.Y2 = p.X, p.Y
	}
}

// BoxStore is the ordered box collection. Insertion order is z-order: later
// boxes draw on top and win hit tests. At most one box is selected; -1 means
// none. The zero value is not usable, use NewBoxStore.
type BoxStore struct {
	boxes    []Box
	selected int
}

// NewBoxStore returns a store holding boxes (normalized) with no selection.
func NewBoxStore(boxes ...Box) *BoxStore {
	s := &BoxStore{selected: -1}
	for _, b := range boxes {
		s.boxes = append(s.boxes, b.Normalize())
	}
	return s
}

// Len returns the number of boxes.
func (s *BoxStore) Len() int { return len(s.boxes) }

// Box returns the box at i.
func (s *BoxStore) Box(i int) (Box, bool) {
	if !s.valid(i) {
		return Box{}, false
	}
	return s.boxes[i], true
}

// Boxes returns a copy of all boxes in z-order.
func (s *BoxStore) Boxes() []Box {
	out := make([]Box, len(s.boxes))
	copy(out, s.boxes)
	return out
}

// Add appends b, selects it and returns its index.
func (s *BoxStore) Add(b Box) int {
	s.boxes = append(s.boxes, b.Normalize())
	s.selected = len(s.boxes) - 1
	return s.selected
}

// Remove deletes the box at i. Removing the selected box clears the
// selection; removing a box below it shifts the selection down with it.
func (s *BoxStore) Remove(i int) error {
	if !s.valid(i) {
		return ErrIndexOutOfRange
	}
	s.boxes = append(s.boxes[:i], s.boxes[i+1:]...)
	switch {
	case i == s.selected:
		s.selected = -1
	case i < s.selected:
		s.selected--
	}
	return nil
}

// Select marks box i as selected.
func (s *BoxStore) Select(i int) error {
	if !s.valid(i) {
		return ErrIndexOutOfRange
	}
	s.selected = i
	return nil
}

// Deselect clears the selection.
func (s *BoxStore) Deselect() { s.selected = -1 }

// Selected returns the selected index or -1.
func (s *BoxStore) Selected() int { return s.selected }

// SelectedBox returns the selected box, if any.
func (s *BoxStore) SelectedBox() (Box, bool) { return s.Box(s.selected) }

// Mutate applies fn to box i then re-normalizes it.
func (s *BoxStore) Mutate(i int, fn func(b *Box)) error {
	if !s.valid(i) {
		return ErrIndexOutOfRange
	}
	b := s.boxes[i]
	fn(&b)
	s.boxes[i] = b.Normalize()
	return nil
}

// HitTest returns the topmost box strictly containing p, or -1.
func (s *BoxStore) HitTest(p Point) int {
	for i := len(s.boxes) - 1; i >= 0; i-- {
		if s.boxes[i].Contains(p) {
			return i
		}
	}
	return -1
}

// HandleHitTest returns the corner handle of b under p. Handles are squares of
// handleSize screen pixels, so their image-space side is handleSize/zoom.
func HandleHitTest(p Point, b Box, handleSize, zoom float64) Handle {
	if zoom <= 0 {
		zoom = 1
	}
	half := handleSize / zoom / 2
	for _, h := range Handles {
		c := b.Corner(h)
		if p.X >= c.X-half && p.X <= c.X+half && p.Y >= c.Y-half && p.Y <= c.Y+half {
			return h
		}
	}
	return HandleNone
}

func (s *BoxStore) valid(i int) bool { return i >= 0 && i < len(s.boxes) }

// flipX mirrors h left to right.
func (h Handle) flipX() Handle {
	switch h {
	case HandleTopLeft:
		return HandleTopRight
	case HandleTopRight:
		return HandleTopLeft
	case HandleBottomLeft:
		return HandleBottomRight
	case HandleBottomRight:
		return HandleBottomLeft
	}
	return h
}

// flipY mirrors h top to bottom.
func (h Handle) flipY() Handle {
	switch h {
	case HandleTopLeft:
		return HandleBottomLeft
	case HandleBottomLeft:
		return HandleTopLeft
	case HandleTopRight:
		return HandleBottomRight
	case HandleBottomRight:
		return HandleTopRight
	}
	return h
}
