package app

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/box-annotator/debug"
	"github.com/soocke/box-annotator/ui/theme"
)

type app struct {
	c       *AppContainer
	source  string
	afterID string
	tick    time.Duration
	closed  bool
}

// NewApp sets up the main window. source, when set, is imported and opened
// instead of the saved navigation position.
func NewApp(title string, width, height int, c *AppContainer, source string) *app {
	a := &app{c: c, source: source}
	a.tick = time.Duration(c.Config.RenderIntervalMs) * time.Millisecond

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

// Start builds the UI, kicks off the first dataset load and blocks in the
// Tk event loop until the window is closed.
func (a *app) Start() {
	cfg := a.c.Config
	theme.SetDark(cfg.DarkMode)
	a.c.AnnotatePresenter.SetBackground(theme.CurrentPalette().Canvas)
	GridColumnConfigure(App, 0, Weight(1))

	a.c.RootView.Build(a.c.Handlers(a.toggleTheme, a.exitHandler))
	a.c.Loop.Schedule = a.scheduleUpdate

	if cfg.Debug {
		debug.StartRuntimeLogger(a.c.AnnotatePresenter.Context(), 5*time.Second, a.c.Logger)
	}

	a.c.AnnotatePresenter.Refresh()
	if a.source != "" {
		a.c.AnnotatePresenter.OpenSource(a.source)
	}
	a.scheduleUpdate()
	App.Wait()
}

func (a *app) scheduleUpdate() {
	if a.closed {
		return
	}
	// Stay on Tk's event loop thread.
	a.afterID = TclAfter(a.tick, a.c.Loop.Tick)
}

func (a *app) toggleTheme() {
	a.c.Config.DarkMode = theme.ToggleDark()
	a.c.AnnotatePresenter.SetBackground(theme.CurrentPalette().Canvas)
}

func (a *app) exitHandler() {
	if a.closed {
		return
	}
	a.closed = true
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.c.AnnotatePresenter.Close()
	if a.c.ConfigPath != "" {
		if err := a.c.Config.Save(a.c.ConfigPath); err != nil && a.c.Logger != nil {
			a.c.Logger.Error("config save failed", "path", a.c.ConfigPath, "error", err)
		}
	}
	Destroy(App)
}
