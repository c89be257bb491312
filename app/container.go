package app

import (
	"fmt"
	"log/slog"

	"github.com/soocke/box-annotator/capture"
	"github.com/soocke/box-annotator/config"
	"github.com/soocke/box-annotator/domain/dataset"
	"github.com/soocke/box-annotator/ui/model"
	"github.com/soocke/box-annotator/ui/presenter"
	"github.com/soocke/box-annotator/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	Dataset    *dataset.Store
	Classes    *model.ClassModel
	Nav        *model.NavigationModel
	RootView   *view.RootView

	// Presenters
	StatePresenter    *presenter.StatePresenter
	AnnotatePresenter *presenter.AnnotatePresenter
	Loop              *presenter.Loop
}

// BuildContainer constructs all components. The only side effect is creating
// the dataset directory layout. Widgets are built later by the app.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger}
	c.Dataset = dataset.NewStore(cfg.DatasetDir, logger)
	if err := c.Dataset.Init(); err != nil {
		return nil, fmt.Errorf("init dataset %s: %w", cfg.DatasetDir, err)
	}
	c.Classes = model.NewClassModel(nil)
	c.Nav = model.NewNavigationModel(nil, cfg.LastIndex)

	c.RootView = view.NewRootView(logger)
	c.StatePresenter = presenter.NewStatePresenter(c.RootView)
	c.AnnotatePresenter = presenter.NewAnnotatePresenter(c.Dataset, capture.Load, c.RootView, c.Classes, c.Nav, cfg, logger)
	c.AnnotatePresenter.OnState = c.StatePresenter.OnState
	c.AnnotatePresenter.OnIndex = func(i int) { cfg.LastIndex = i }
	c.Loop = presenter.NewLoop(c.StatePresenter, c.AnnotatePresenter, nil)
	return c, nil
}

// Handlers maps view callbacks onto the presenters.
func (c *AppContainer) Handlers(onToggleTheme, onExit func()) view.Handlers {
	p := c.AnnotatePresenter
	return view.Handlers{
		Pointer:       p,
		OnPrev:        p.Prev,
		OnNext:        p.Next,
		OnSave:        p.Save,
		OnDelete:      p.Delete,
		OnSelectClass: p.SelectClass,
		OnAddClass:    p.AddClass,
		OnSelectBox:   p.SelectBox,
		OnToggleTheme: onToggleTheme,
		OnExit:        onExit,
	}
}
