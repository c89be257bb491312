package view

import (
	"testing"

	"github.com/soocke/box-annotator/ui/presenter"
)

var (
	_ presenter.AnnotateView = (*RootView)(nil)
	_ presenter.StateView    = (*RootView)(nil)
)

func TestRootView_UnbuiltIsNoop(t *testing.T) {
	rv := NewRootView(nil)
	rv.SetStateLabel("State: idle")
	rv.SetStatus("saved")
	rv.SetPosition("1 / 1")
	rv.SetClasses([]string{"a"}, 0)
	rv.SetBoxes(nil, -1)
	rv.ShowFrame(nil)
	rv.ShowPreview(nil)
	if rv.StateLabel != nil || rv.StatusLabel != nil {
		t.Fatalf("labels exist before Build")
	}
	var nilView *RootView
	nilView.SetStatus("x")
}
