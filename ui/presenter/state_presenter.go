package presenter

import (
	"time"

	"github.com/soocke/box-annotator/domain/annotate"
)

// StateView sets the state label in the view.
type StateView interface{ SetStateLabel(string) }

// StatePresenter receives controller state changes and updates the view.
type StatePresenter struct {
	view    StateView
	latest  annotate.State // last reflected state
	shown   bool
	pending []annotate.State
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view}
}

// OnState queues a transitioned state from the controller listener.
//
// The latest queued state will be reflected on the next Tick.
func (p *StatePresenter) OnState(prev, next annotate.State) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, next)
}

// Tick processes queued states and updates the view with the most recent state.
// It clears the pending queue after processing.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	if !p.shown {
		p.shown = true
		p.view.SetStateLabel("State: " + p.latest.String())
	}
	if len(p.pending) > 0 {
		last := p.pending[len(p.pending)-1]
		p.pending = p.pending[:0]
		if last != p.latest {
			p.latest = last
			p.view.SetStateLabel("State: " + last.String())
		}
	}
}
