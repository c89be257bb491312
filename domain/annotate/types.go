package annotate

import (
	"errors"
	"log/slog"
)

// Engine constants shared by the store, controller and renderer.
const (
	DefaultHandleSize = 8.0  // handle side in screen pixels
	DefaultMinBoxSize = 10.0 // smallest committed box edge in image pixels
	MinZoom           = 0.2
	MaxZoom           = 15.0
	ZoomInFactor      = 1.15
	ZoomOutFactor     = 0.85
)

// ErrIndexOutOfRange reports a box index that does not exist in the store.
var ErrIndexOutOfRange = errors.New("annotate: box index out of range")

// State enumerates the mutually exclusive interaction modes of the controller.
type State int

const (
	StateIdle State = iota
	StateDrawing
	StateDragging
	StateResizing
	StatePanning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	case StatePanning:
		return "panning"
	default:
		return "unknown"
	}
}

// StateListener is called on each state change.
type StateListener func(prev, next State)

// Button identifies the pointer button of a press or release.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// PointerEvent is a pointer press, move or release in screen coordinates.
type PointerEvent struct {
	Screen Point
	Button Button
}

// ClassSource reports the class currently chosen in the class dropdown.
type ClassSource interface {
	SelectedClass() (int, bool)
}

// Warner surfaces non-fatal user warnings (blocking dialog or status line).
type Warner interface {
	Warn(msg string)
}

// WarnFunc adapts a function to Warner.
type WarnFunc func(msg string)

func (f WarnFunc) Warn(msg string) { f(msg) }

// Options tunes a Controller. Zero fields take the package defaults.
type Options struct {
	HandleSize float64
	MinBoxSize float64
	Logger     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.HandleSize <= 0 {
		o.HandleSize = DefaultHandleSize
	}
	if o.MinBoxSize <= 0 {
		o.MinBoxSize = DefaultMinBoxSize
	}
	return o
}
