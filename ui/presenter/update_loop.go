package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick on the sub-presenters and invokes a scheduler callback.
// The zero value is usable (methods are nil-safe).
type Loop struct {
	State    *StatePresenter
	Annotate *AnnotatePresenter
	Schedule func()
}

func NewLoop(state *StatePresenter, annotate *AnnotatePresenter, schedule func()) *Loop {
	return &Loop{State: state, Annotate: annotate, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Annotate != nil {
		l.Annotate.Tick()
	}
	// After the annotate tick so transitions from this frame's input show.
	if l.State != nil {
		l.State.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
