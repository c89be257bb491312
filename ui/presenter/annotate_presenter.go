package presenter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/soocke/box-annotator/capture"
	"github.com/soocke/box-annotator/config"
	"github.com/soocke/box-annotator/domain/annotate"
	"github.com/soocke/box-annotator/domain/dataset"
	"github.com/soocke/box-annotator/ui/images"
	"github.com/soocke/box-annotator/ui/model"
)

// Status line texts.
const (
	MsgEnterClass   = "Enter class name"
	MsgClassExists  = "Class already exists!"
	MsgClassAdded   = "Class added!"
	MsgNoImages     = "No images in dataset"
	previewMaxSide  = 160
	resultQueueSize = 8
	workQueueSize   = 8
)

// DatasetStore is the persistence collaborator.
type DatasetStore interface {
	Images(ctx context.Context) ([]string, error)
	ImagePath(imageID string) (string, error)
	ImportImage(ctx context.Context, name string, img image.Image) (string, error)
	Load(ctx context.Context, imageID string) ([]annotate.Record, error)
	Save(ctx context.Context, imageID string, records []annotate.Record) error
	Classes(ctx context.Context) ([]string, error)
	AddClass(ctx context.Context, name string) (dataset.AddClassResult, error)
}

// ImageLoader resolves an image source (path, URL or screen:) to pixels.
type ImageLoader func(ctx context.Context, src string) (image.Image, error)

// AnnotateView is the UI surface driven by the presenter.
type AnnotateView interface {
	ShowFrame(img image.Image)
	ShowPreview(img image.Image)
	SetClasses(names []string, selected int)
	SetBoxes(items []string, selected int)
	SetPosition(text string)
	SetStatus(msg string)
	Warn(msg string)
}

type annotateTaskKind int

const (
	taskRefresh annotateTaskKind = iota + 1
	taskOpen
	taskImport
	taskSave
	taskAddClass
)

type annotateTask struct {
	kind    annotateTaskKind
	seq     uint64
	imageID string
	source  string
	records []annotate.Record
	name    string
}

type annotateResult struct {
	kind     annotateTaskKind
	seq      uint64
	err      error
	imageID  string
	img      image.Image
	records  []annotate.Record
	images   []string
	classes  []string
	added    dataset.AddClassResult
	saved    int
	duration time.Duration
}

// AnnotatePresenter owns the annotation session for the current image: it
// loads images and labels on a worker, forwards pointer input to the
// controller and repaints the canvas on the UI tick when something changed.
type AnnotatePresenter struct {
	Store   DatasetStore
	Loader  ImageLoader
	View    AnnotateView
	Classes *model.ClassModel
	Nav     *model.NavigationModel
	Config  *config.Config
	// OnState receives controller state changes (state label presenter).
	OnState annotate.StateListener
	// OnIndex is told the navigation index after each successful open.
	OnIndex func(int)

	// Background fills the canvas outside the panned image; nil keeps the
	// canvas default.
	Background color.Color

	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	workerOnce sync.Once
	closeOnce  sync.Once
	workCh     chan annotateTask
	resultCh   chan annotateResult

	ctrl        *annotate.Controller
	canvas      *images.Canvas
	imageID     string
	openSeq     uint64
	dirty       bool
	lastSel     int
	lastPreview annotate.Box
}

// NewAnnotatePresenter constructs the presenter. A nil loader falls back to
// capture.Load.
func NewAnnotatePresenter(store DatasetStore, loader ImageLoader, view AnnotateView, classes *model.ClassModel, nav *model.NavigationModel, cfg *config.Config, logger *slog.Logger) *AnnotatePresenter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if loader == nil {
		loader = capture.Load
	}
	if classes == nil {
		classes = model.NewClassModel(nil)
	}
	if nav == nil {
		nav = model.NewNavigationModel(nil, 0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AnnotatePresenter{
		Store:    store,
		Loader:   loader,
		View:     view,
		Classes:  classes,
		Nav:      nav,
		Config:   cfg,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		workCh:   make(chan annotateTask, workQueueSize),
		resultCh: make(chan annotateResult, resultQueueSize),
		lastSel:  -2,
	}
}

// Controller returns the session for the open image, or nil.
func (p *AnnotatePresenter) Controller() *annotate.Controller {
	if p == nil {
		return nil
	}
	return p.ctrl
}

// ImageID returns the id of the open image.
func (p *AnnotatePresenter) ImageID() string {
	if p == nil {
		return ""
	}
	return p.imageID
}

// Refresh reloads the class registry and image list, then opens the image
// at the current navigation index unless another open was requested since.
func (p *AnnotatePresenter) Refresh() {
	if p == nil || p.Store == nil {
		return
	}
	p.dispatch(annotateTask{kind: taskRefresh, seq: p.openSeq})
}

// Open loads the dataset image at idx.
func (p *AnnotatePresenter) Open(idx int) {
	if p == nil || p.Store == nil {
		return
	}
	p.Nav.Seek(idx)
	id, ok := p.Nav.Current()
	if !ok {
		p.status(MsgNoImages)
		return
	}
	p.openSeq++
	p.dispatch(annotateTask{kind: taskOpen, seq: p.openSeq, imageID: id})
}

// OpenSource annotates an image from outside the dataset (path, URL or
// screen:). It is imported into the dataset first so labels have an image.
func (p *AnnotatePresenter) OpenSource(src string) {
	if p == nil || p.Store == nil {
		return
	}
	p.openSeq++
	p.dispatch(annotateTask{kind: taskImport, seq: p.openSeq, source: src})
}

// Next and Prev step through the dataset. Ends are clamped.
func (p *AnnotatePresenter) Next() {
	if p == nil || !p.Nav.Next() {
		return
	}
	p.Open(p.Nav.Index())
}

func (p *AnnotatePresenter) Prev() {
	if p == nil || !p.Nav.Prev() {
		return
	}
	p.Open(p.Nav.Index())
}

// Save persists the full box list of the open image.
func (p *AnnotatePresenter) Save() {
	if p == nil || p.ctrl == nil || p.Store == nil {
		return
	}
	p.dispatch(annotateTask{kind: taskSave, imageID: p.imageID, records: p.ctrl.Records()})
}

// AddClass registers a new class name.
func (p *AnnotatePresenter) AddClass(name string) {
	if p == nil || p.Store == nil {
		return
	}
	if strings.TrimSpace(name) == "" {
		p.status(MsgEnterClass)
		return
	}
	p.dispatch(annotateTask{kind: taskAddClass, name: name})
}

// SelectClass picks the class for new boxes.
func (p *AnnotatePresenter) SelectClass(i int) {
	if p == nil {
		return
	}
	p.Classes.Select(i)
}

// SelectBox selects a box from the box list.
func (p *AnnotatePresenter) SelectBox(i int) {
	if p == nil || p.ctrl == nil {
		return
	}
	if err := p.ctrl.SelectBox(i); err != nil && p.logger != nil {
		p.logger.Debug("select box", "index", i, "error", err)
	}
	p.dirty = true
}

// Delete removes the selected box.
func (p *AnnotatePresenter) Delete() {
	if p == nil || p.ctrl == nil {
		return
	}
	if p.ctrl.DeleteSelected() {
		p.dirty = true
	}
}

// Pointer input in canvas label coordinates.
func (p *AnnotatePresenter) PointerDown(x, y float64, b annotate.Button) {
	if p == nil || p.ctrl == nil {
		return
	}
	p.ctrl.PointerDown(annotate.PointerEvent{Screen: annotate.Point{X: x, Y: y}, Button: b})
	p.dirty = true
}

func (p *AnnotatePresenter) PointerMove(x, y float64, b annotate.Button) {
	if p == nil || p.ctrl == nil {
		return
	}
	p.ctrl.PointerMove(annotate.PointerEvent{Screen: annotate.Point{X: x, Y: y}, Button: b})
	p.dirty = true
}

func (p *AnnotatePresenter) PointerUp(x, y float64, b annotate.Button) {
	if p == nil || p.ctrl == nil {
		return
	}
	p.ctrl.PointerUp(annotate.PointerEvent{Screen: annotate.Point{X: x, Y: y}, Button: b})
	p.dirty = true
}

func (p *AnnotatePresenter) PointerLeave() {
	if p == nil || p.ctrl == nil {
		return
	}
	p.ctrl.PointerLeave()
	p.dirty = true
}

// Wheel zooms about (x, y).
func (p *AnnotatePresenter) Wheel(x, y, deltaY float64) {
	if p == nil || p.ctrl == nil {
		return
	}
	p.ctrl.Wheel(annotate.Point{X: x, Y: y}, deltaY)
	p.dirty = true
}

// ZoomIn and ZoomOut zoom about the last pointer position.
func (p *AnnotatePresenter) ZoomIn() { p.zoomKey(annotate.ZoomInFactor) }

func (p *AnnotatePresenter) ZoomOut() { p.zoomKey(annotate.ZoomOutFactor) }

func (p *AnnotatePresenter) zoomKey(f float64) {
	if p == nil || p.ctrl == nil {
		return
	}
	p.ctrl.ZoomAtPointer(f)
	p.dirty = true
}

// Tick drains worker results and repaints when the scene changed. Call on
// the UI thread.
func (p *AnnotatePresenter) Tick() {
	if p == nil {
		return
	}
	p.ensureWorker()
	for {
		select {
		case res := <-p.resultCh:
			p.handleResult(res)
		default:
			goto drained
		}
	}
drained:
	if p.dirty {
		p.dirty = false
		p.render()
	}
}

// Close stops the worker. Pending tasks are dropped.
func (p *AnnotatePresenter) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.cancel()
		close(p.workCh)
	})
}

// SetBackground changes the canvas background and repaints.
func (p *AnnotatePresenter) SetBackground(c color.Color) {
	if p == nil {
		return
	}
	p.Background = c
	if p.canvas != nil && c != nil {
		p.canvas.SetBackground(c)
		p.dirty = true
	}
}

// Context is canceled by Close.
func (p *AnnotatePresenter) Context() context.Context {
	if p == nil {
		return context.Background()
	}
	return p.ctx
}

func (p *AnnotatePresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		go p.runWorker()
	})
}

func (p *AnnotatePresenter) runWorker() {
	for task := range p.workCh {
		res := p.executeTask(task)
		select {
		case p.resultCh <- res:
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *AnnotatePresenter) dispatch(task annotateTask) {
	p.ensureWorker()
	select {
	case <-p.ctx.Done():
		return
	default:
	}
	select {
	case p.workCh <- task:
	default:
		if p.logger != nil {
			p.logger.Warn("annotate worker busy, task dropped", "kind", int(task.kind))
		}
		p.status("Busy, try again")
	}
}

func (p *AnnotatePresenter) executeTask(task annotateTask) (res annotateResult) {
	res = annotateResult{kind: task.kind, seq: task.seq, imageID: task.imageID}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("annotate worker panic: %v", r)
		}
		res.duration = time.Since(start)
	}()
	ctx := p.ctx
	switch task.kind {
	case taskRefresh:
		res.classes, res.err = p.Store.Classes(ctx)
		if res.err == nil {
			res.images, res.err = p.Store.Images(ctx)
		}
	case taskOpen:
		var src string
		src, res.err = p.Store.ImagePath(task.imageID)
		if res.err != nil {
			return res
		}
		res.img, res.err = p.Loader(ctx, src)
		if res.err != nil {
			return res
		}
		res.records, res.err = p.Store.Load(ctx, task.imageID)
	case taskImport:
		res.img, res.err = p.Loader(ctx, task.source)
		if res.err != nil {
			return res
		}
		res.imageID, res.err = p.Store.ImportImage(ctx, sourceName(task.source, start), res.img)
		if res.err != nil {
			return res
		}
		res.records, res.err = p.Store.Load(ctx, res.imageID)
		if res.err == nil {
			res.images, res.err = p.Store.Images(ctx)
		}
	case taskSave:
		res.err = p.Store.Save(ctx, task.imageID, task.records)
		res.saved = len(task.records)
	case taskAddClass:
		res.added, res.err = p.Store.AddClass(ctx, task.name)
	default:
		res.err = errors.New("unknown annotate task kind")
	}
	return res
}

// sourceName picks a dataset file name for an imported source.
func sourceName(src string, now time.Time) string {
	if strings.HasPrefix(src, capture.ScreenPrefix) {
		return fmt.Sprintf("screen-%s.png", now.Format("20060102-150405"))
	}
	if i := strings.IndexAny(src, "?#"); i >= 0 && strings.Contains(src, "://") {
		src = src[:i]
	}
	name := path.Base(strings.ReplaceAll(src, `\`, "/"))
	if name == "" || name == "." || name == "/" {
		return fmt.Sprintf("image-%s.png", now.Format("20060102-150405"))
	}
	return name
}

func (p *AnnotatePresenter) handleResult(res annotateResult) {
	if res.err != nil {
		if p.logger != nil {
			p.logger.Error("annotate task failed", "kind", int(res.kind), "image", res.imageID, "error", res.err)
		}
		if res.kind == taskAddClass && errors.Is(res.err, dataset.ErrEmptyClassName) {
			p.status(MsgEnterClass)
			return
		}
		p.status("Error: " + res.err.Error())
		return
	}
	switch res.kind {
	case taskRefresh:
		p.Classes.SetClasses(res.classes)
		p.pushClasses()
		p.Nav.SetImages(res.images)
		if res.seq == p.openSeq {
			p.Open(p.Nav.Index())
		}
	case taskOpen, taskImport:
		if res.seq != p.openSeq {
			return // superseded by a later open
		}
		if res.kind == taskImport {
			p.Nav.SetImages(res.images)
			p.Nav.SeekID(res.imageID)
		}
		p.startSession(res)
	case taskSave:
		if p.logger != nil {
			p.logger.Info("annotations saved", "image", res.imageID, "boxes", res.saved, "took", res.duration)
		}
		p.status(fmt.Sprintf("Saved %d box(es) for %s", res.saved, res.imageID))
	case taskAddClass:
		if res.added.Status == dataset.StatusExists {
			p.status(MsgClassExists)
			if p.View != nil {
				p.View.Warn(MsgClassExists)
			}
			return
		}
		p.Classes.Apply(res.added)
		p.pushClasses()
		p.status(MsgClassAdded)
	}
}

func (p *AnnotatePresenter) startSession(res annotateResult) {
	var warner annotate.Warner = annotate.WarnFunc(func(msg string) { p.status(msg) })
	if p.View != nil {
		warner = annotate.WarnFunc(p.View.Warn)
	}
	ctrl, err := annotate.NewController(res.img, res.records, p.Classes, warner, annotate.Options{
		HandleSize: p.Config.HandleSize,
		MinBoxSize: p.Config.MinBoxSize,
		Logger:     p.logger,
	})
	if err != nil {
		p.status("Error: " + err.Error())
		return
	}
	if p.OnState != nil {
		ctrl.AddListener(p.OnState)
	}
	w, h := ctrl.Size()
	dw, dh := images.FitSize(int(w), int(h), p.Config.MaxDisplayW, p.Config.MaxDisplayH)
	ctrl.SetViewport(annotate.Viewport{DisplayW: float64(dw), DisplayH: float64(dh)})

	p.ctrl = ctrl
	p.imageID = res.imageID
	p.canvas = images.NewCanvas(int(w), int(h))
	if p.Background != nil {
		p.canvas.SetBackground(p.Background)
	}
	p.lastSel = -2
	p.dirty = true
	if p.logger != nil {
		p.logger.Info("image opened", "image", res.imageID, "width", w, "height", h, "boxes", len(res.records), "took", res.duration)
	}
	if p.View != nil {
		p.View.SetPosition(fmt.Sprintf("%d / %d  %s", p.Nav.Index()+1, p.Nav.Total(), res.imageID))
	}
	if p.OnIndex != nil {
		p.OnIndex(p.Nav.Index())
	}
	p.status(fmt.Sprintf("Loaded %s (%d box(es))", res.imageID, len(res.records)))
}

func (p *AnnotatePresenter) render() {
	if p.ctrl == nil || p.canvas == nil {
		return
	}
	p.ctrl.Render(p.canvas)
	if p.View == nil {
		return
	}
	vp := p.ctrl.Viewport()
	p.View.ShowFrame(images.ScaleTo(p.canvas.Image(), int(vp.DisplayW), int(vp.DisplayH)))

	store := p.ctrl.Store()
	items := make([]string, 0, store.Len())
	for i, b := range store.Boxes() {
		items = append(items, fmt.Sprintf("%d: %s (%.0f,%.0f)-(%.0f,%.0f)", i, p.Classes.Name(b.Class), b.X1, b.Y1, b.X2, b.Y2))
	}
	p.View.SetBoxes(items, store.Selected())

	b, ok := store.SelectedBox()
	switch {
	case ok && (p.lastSel != store.Selected() || b != p.lastPreview):
		if crop, _, err := images.CropBox(p.ctrl.Image(), b.X1, b.Y1, b.X2, b.Y2); err == nil {
			p.View.ShowPreview(images.Thumbnail(crop, previewMaxSide))
		}
		p.lastPreview = b
	case !ok && p.lastSel != -1:
		p.View.ShowPreview(nil)
	}
	p.lastSel = store.Selected()
}

func (p *AnnotatePresenter) pushClasses() {
	if p.View == nil {
		return
	}
	sel := -1
	if c, ok := p.Classes.SelectedClass(); ok {
		sel = c
	}
	p.View.SetClasses(p.Classes.Names(), sel)
}

func (p *AnnotatePresenter) status(msg string) {
	if p.View != nil {
		p.View.SetStatus(msg)
	}
}
