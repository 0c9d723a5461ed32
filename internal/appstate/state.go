// Package appstate hosts the canvas session in a shiny window: toolbar,
// side panel driven by tool UIData, status bar and keyboard shortcuts.
package appstate

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/lineprobe/internal/canvas"
	"github.com/example/lineprobe/internal/clipboard"
	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/notify"
	"github.com/example/lineprobe/internal/source"
	"github.com/example/lineprobe/internal/theme"
	"github.com/example/lineprobe/internal/tools"
)

const (
	frameDropThreshold = 10
	messageDuration    = 3 * time.Second
)

// AppState holds the window's configuration and the session it drives.
// Everything except Post and NotifyImageChanged belongs to the UI goroutine.
type AppState struct {
	Title    string
	SaveDir  string
	Theme    *theme.Theme
	Notifier *notify.Notifier
	Sources  []source.Source

	session *canvas.Session
	initial image.Image

	updateCh chan struct{}

	sendMu sync.Mutex
	send   func(any)

	pointer    *geom.Vec
	message    string
	messageEnd time.Time
	dragging   bool
	panning    bool
	panLast    geom.Vec
	hoverTool  int
	backdrop   *image.RGBA

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithTitle sets the window title.
func WithTitle(t string) Option { return func(a *AppState) { a.Title = t } }

// WithSaveDir sets where saves and exports are written.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithTheme sets the colour palette.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sets the desktop notifier for crop, export and copy events.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithSources adds frame sources started when the window opens.
func WithSources(src ...source.Source) Option {
	return func(a *AppState) { a.Sources = append(a.Sources, src...) }
}

// WithImage loads img before the first frame arrives.
func WithImage(img image.Image) Option { return func(a *AppState) { a.initial = img } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState. sessionOpts configure the canvas session; the
// listeners and the redraw scheduler are wired here.
func New(opts []Option, sessionOpts ...canvas.Option) *AppState {
	a := &AppState{
		Title:     "lineprobe",
		updateCh:  make(chan struct{}, 1),
		hoverTool: -1,
	}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	sessionOpts = append(sessionOpts,
		canvas.WithScheduler(a.NotifyImageChanged),
		canvas.WithPointerListener(a.pointerMoved),
		canvas.WithProfileListener(a.profileReady),
		canvas.WithCropListener(a.cropped),
	)
	a.session = canvas.New(sessionOpts...)
	if a.initial != nil {
		if err := a.session.LoadFrame(a.initial); err != nil {
			log.Printf("initial image: %v", err)
		}
		a.initial = nil
	}
	return a
}

// Session exposes the canvas session.
func (a *AppState) Session() *canvas.Session { return a.session }

// NotifyImageChanged requests a repaint. Requests are coalesced.
func (a *AppState) NotifyImageChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

type messageEvent struct{ text string }

type frameEvent struct{ img image.Image }

// Post shows msg in the status bar. It is safe to call from any goroutine
// and does nothing before the window opens.
func (a *AppState) Post(msg string) {
	a.sendMu.Lock()
	send := a.send
	a.sendMu.Unlock()
	if send != nil {
		send(messageEvent{msg})
	}
}

func (a *AppState) setSender(fn func(any)) {
	a.sendMu.Lock()
	a.send = fn
	a.sendMu.Unlock()
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		a.setSender(nil)
		if a.onClose != nil {
			a.onClose()
		}
	})
}

func (a *AppState) flash(msg string) {
	a.message = msg
	a.messageEnd = time.Now().Add(messageDuration)
	log.Print(msg)
	a.NotifyImageChanged()
}

func (a *AppState) pointerMoved(p geom.Vec) { a.pointer = &p }

func (a *AppState) profileReady(p canvas.Profile) {
	a.flash(fmt.Sprintf("profile of %d samples", len(p.Samples)))
}

func (a *AppState) cropped(img *image.RGBA) {
	b := img.Bounds()
	a.flash(fmt.Sprintf("cropped to %dx%d", b.Dx(), b.Dy()))
	if a.Notifier.Enabled(notify.EventCrop) {
		go a.Notifier.Crop(img)
	}
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) initialSize() (int, int) {
	w, h := 1024, 720
	if sz := a.session.Size(); !sz.Empty() {
		w = min(max(sz.W+toolbarWidth+panelWidth, 640), 1600)
		h = min(max(sz.H+statusHeight, 480), 1000)
	}
	return w, h
}

func (a *AppState) Main(s screen.Screen) {
	width, height := a.initialSize()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	a.setSender(w.Send)
	for _, src := range a.Sources {
		go a.runSource(ctx, src, w)
	}

	l := computeLayout(width, height)
	a.session.Resize(l.viewport())
	buttons := newToolbar(l, a.Theme, a.perform)
	km := newKeymap(defaultShortcuts())

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		var toolbar []*CacheButton
		var toolbarLayout layout
		for st := range paintCh {
			if toolbar == nil || st.layout != toolbarLayout {
				toolbar = newToolbar(st.layout, st.theme, nil)
				toolbarLayout = st.layout
			}
			st.toolbar = toolbar
			pctx, pcancel := context.WithCancel(ctx)
			paintMu.Lock()
			paintCancel = pcancel
			paintMu.Unlock()
			drawFrame(pctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if pctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			pcancel()
		}
	}()
	defer close(paintCh)

	for {
		switch e := w.NextEvent().(type) {
		case frameEvent:
			if err := a.session.LoadFrame(e.img); err != nil {
				log.Printf("frame: %v", err)
			}
		case messageEvent:
			a.flash(e.text)
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			l = computeLayout(e.WidthPx, e.HeightPx)
			a.session.Resize(l.viewport())
			for i, b := range buttons {
				b.SetRect(l.toolbarButton(i))
			}
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := a.snapshot(l)
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			a.handleMouse(e, l, buttons)
			a.NotifyImageChanged()
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			action, ok := km.lookup(e)
			if !ok {
				continue
			}
			if action == actionQuit {
				return
			}
			a.perform(action)
		}
	}
}

func (a *AppState) runSource(ctx context.Context, src source.Source, w screen.Window) {
	err := src.Run(ctx, func(img image.Image) { w.Send(frameEvent{img}) })
	if err != nil && ctx.Err() == nil {
		log.Printf("frame source: %v", err)
		w.Send(messageEvent{fmt.Sprintf("frame source stopped: %v", err)})
	}
}

// snapshot captures everything the paint goroutine needs so it never
// touches the session.
func (a *AppState) snapshot(l layout) paintState {
	img := image.NewRGBA(image.Rect(0, 0, l.Canvas.Dx(), l.Canvas.Dy()))
	if a.backdrop == nil || a.backdrop.Bounds() != img.Bounds() {
		a.backdrop = image.NewRGBA(img.Bounds())
		drawCheckerboard(a.backdrop, a.backdrop.Bounds(), 8, a.Theme.CheckerLight, a.Theme.CheckerDark)
	}
	draw.Draw(img, img.Bounds(), a.backdrop, image.Point{}, draw.Src)
	a.session.Composite(img)

	var data tools.UIData
	if t := a.session.Manager().Active(); t != nil {
		data = t.UIData()
	}
	return paintState{
		layout:     l,
		canvas:     img,
		panel:      panelLayout(data, l.Panel),
		status:     a.status().String(),
		activeTool: a.session.Manager().ActiveID(),
		hoverTool:  a.hoverTool,
		theme:      a.Theme,
	}
}

func (a *AppState) status() statusInfo {
	st := statusInfo{
		Size:       a.session.Size(),
		Zoom:       a.session.View().Scale(),
		Message:    a.message,
		MessageEnd: a.messageEnd,
	}
	if a.pointer != nil {
		p := *a.pointer
		st.Pointer = &p
		if px, ok := geom.SamplePixel(a.session.Image(), p); ok {
			st.Pixel = &px
		}
	}
	if p, ok := a.session.LastProfile(); ok {
		st.Profile = &p
	}
	return st
}

func (a *AppState) handleMouse(e mouse.Event, l layout, buttons []*CacheButton) {
	p := image.Pt(int(e.X), int(e.Y))
	client := geom.Vec{X: float64(e.X), Y: float64(e.Y)}

	switch e.Button {
	case mouse.ButtonWheelUp, mouse.ButtonWheelDown:
		if p.In(l.Canvas) && e.Direction != mouse.DirRelease {
			if e.Button == mouse.ButtonWheelUp {
				a.session.Wheel(-1)
			} else {
				a.session.Wheel(1)
			}
		}
		return
	case mouse.ButtonMiddle, mouse.ButtonRight:
		switch e.Direction {
		case mouse.DirPress:
			if p.In(l.Canvas) {
				a.panning = true
				a.panLast = client
			}
		case mouse.DirRelease:
			a.panning = false
		}
		return
	}

	if a.panning && e.Direction == mouse.DirNone {
		d := client.Sub(a.panLast)
		a.session.PanBy(d.X, d.Y)
		a.panLast = client
		return
	}

	// A gesture that started on the canvas follows the pointer everywhere.
	if a.dragging || p.In(l.Canvas) {
		switch {
		case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
			a.dragging = true
			a.session.Pointer(tools.MouseDown, client)
		case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
			a.dragging = false
			a.session.Pointer(tools.MouseUp, client)
		case e.Direction == mouse.DirNone:
			a.session.Pointer(tools.MouseMove, client)
		}
		return
	}

	a.pointer = nil
	a.hoverTool = -1
	for i, b := range buttons {
		if p.In(b.Rect()) {
			a.hoverTool = i
			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
				b.Activate()
			}
			return
		}
	}
	if p.In(l.Panel) && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
		var data tools.UIData
		if t := a.session.Manager().Active(); t != nil {
			data = t.UIData()
		}
		if cmd, ok := hitPanel(panelLayout(data, l.Panel), p); ok {
			a.dispatch(cmd)
		}
	}
}

func (a *AppState) dispatch(cmd tools.Command) {
	if err := a.session.Dispatch(cmd); err != nil {
		a.flash(err.Error())
	}
}

// perform runs a named action from the toolbar or the keyboard.
func (a *AppState) perform(action string) {
	s := a.session
	switch action {
	case actionUndo:
		if !s.Undo() {
			a.flash("nothing to undo")
		}
	case actionRedo:
		if !s.Redo() {
			a.flash("nothing to redo")
		}
	case actionSelect:
		s.ActivateTool(tools.SelectID)
	case actionDraw:
		s.ActivateTool(tools.DrawID)
	case actionCrop:
		s.ActivateTool(tools.CropID)
	case actionDeactivate:
		s.DeactivateAll()
	case actionZoomIn:
		s.ZoomIn()
	case actionZoomOut:
		s.ZoomOut()
	case actionFit:
		s.Fit()
	case actionActual:
		s.Actual()
	case actionApplyCrop:
		a.dispatch(tools.ApplyCrop{})
	case actionCopy:
		if s.Frame() == nil {
			a.flash("nothing to copy")
			return
		}
		if err := clipboard.CopyImage(s.Frame()); err != nil {
			a.flash(fmt.Sprintf("copy: %v", err))
			return
		}
		go a.Notifier.Copy("image")
		a.flash("image copied to clipboard")
	case actionCopyCSV:
		text, ok := profileCSV(s)
		if !ok {
			a.flash("draw a line first")
			return
		}
		if err := clipboard.CopyText(text); err != nil {
			a.flash(fmt.Sprintf("copy: %v", err))
			return
		}
		go a.Notifier.Copy("profile")
		a.flash("profile copied to clipboard")
	case actionSave:
		path, err := saveFrame(s, a.SaveDir, time.Now())
		if err != nil {
			a.flash(fmt.Sprintf("save: %v", err))
			return
		}
		go a.Notifier.Export(path)
		a.flash("saved " + path)
	case actionExport:
		paths, err := exportAll(s, a.SaveDir, time.Now())
		if err != nil {
			a.flash(fmt.Sprintf("export: %v", err))
			return
		}
		last := paths[len(paths)-1]
		go a.Notifier.Export(last)
		a.flash(fmt.Sprintf("exported %d files", len(paths)))
	}
	a.NotifyImageChanged()
}
