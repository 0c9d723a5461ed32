// Package canvas ties the working frame, the view transform and the tool
// manager into one session that a host drives with pointer, wheel and
// command input.
//
// A Session is not safe for concurrent use. Frames produced on other
// goroutines must be handed to the UI goroutine before calling LoadFrame.
package canvas

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/draw"

	"github.com/example/lineprobe/internal/crop"
	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/profile"
	"github.com/example/lineprobe/internal/tools"
)

// ErrNoFrame is returned when an operation needs an image and none is loaded.
var ErrNoFrame = errors.New("canvas: no frame loaded")

// CropReset selects how the view is reset after a crop is committed.
type CropReset int

const (
	ResetFit CropReset = iota
	ResetActual
)

func (c CropReset) String() string {
	if c == ResetActual {
		return "actual"
	}
	return "fit"
}

// ParseCropReset accepts "fit" or "actual".
func ParseCropReset(s string) (CropReset, error) {
	switch s {
	case "", "fit":
		return ResetFit, nil
	case "actual":
		return ResetActual, nil
	}
	return ResetFit, fmt.Errorf("unknown crop reset %q", s)
}

// Profile is the result of sampling a completed line.
type Profile struct {
	Line    geom.Line        `json:"line"`
	Samples []profile.Sample `json:"samples"`
	Stats   profile.Stats    `json:"stats"`
}

// Session is one interactive canvas.
type Session struct {
	frame    *image.RGBA
	viewport geom.Viewport
	view     geom.ViewTransform

	manager *tools.Manager
	sel     *tools.SelectTool
	drw     *tools.DrawTool
	crp     *tools.CropTool

	fitMargin float64
	cropReset CropReset

	selectSettings tools.SelectSettings
	drawSettings   tools.DrawSettings
	cropSettings   tools.CropSettings

	schedule  func()
	onPointer func(geom.Vec)
	onProfile func(Profile)
	onCrop    func(*image.RGBA)

	last *Profile
}

// Option configures a Session during creation.
type Option func(*Session)

// WithViewport sets the initial canvas size and placement.
func WithViewport(vp geom.Viewport) Option { return func(s *Session) { s.viewport = vp } }

// WithFitMargin sets the fraction of the viewport a fitted image fills.
func WithFitMargin(m float64) Option { return func(s *Session) { s.fitMargin = m } }

// WithCropReset sets the view policy applied after a crop.
func WithCropReset(r CropReset) Option { return func(s *Session) { s.cropReset = r } }

// WithSelectSettings sets the point picker settings.
func WithSelectSettings(st tools.SelectSettings) Option {
	return func(s *Session) { s.selectSettings = st }
}

// WithDrawSettings sets the line tool settings.
func WithDrawSettings(st tools.DrawSettings) Option {
	return func(s *Session) { s.drawSettings = st }
}

// WithCropSettings sets the crop outline settings.
func WithCropSettings(st tools.CropSettings) Option {
	return func(s *Session) { s.cropSettings = st }
}

// WithScheduler registers fn to be called once per pending redraw.
func WithScheduler(fn func()) Option { return func(s *Session) { s.schedule = fn } }

// WithPointerListener receives the image-space pointer position on every move.
func WithPointerListener(fn func(geom.Vec)) Option { return func(s *Session) { s.onPointer = fn } }

// WithProfileListener receives the profile of every completed line.
func WithProfileListener(fn func(Profile)) Option { return func(s *Session) { s.onProfile = fn } }

// WithCropListener receives the new working image after a crop commit.
func WithCropListener(fn func(*image.RGBA)) Option { return func(s *Session) { s.onCrop = fn } }

// New creates a session with the select, draw and crop tools registered in
// that order. No tool is active.
func New(opts ...Option) *Session {
	s := &Session{
		view:           geom.Identity(),
		fitMargin:      geom.DefaultFitMargin,
		selectSettings: tools.DefaultSelectSettings(),
		drawSettings:   tools.DefaultDrawSettings(),
		cropSettings:   tools.DefaultCropSettings(),
	}
	for _, o := range opts {
		o(s)
	}
	s.sel = tools.NewSelectTool(s.selectSettings)
	s.drw = tools.NewDrawTool(s.drawSettings)
	s.crp = tools.NewCropTool(s.cropSettings)
	s.drw.OnLine(s.lineCompleted)
	mopts := []tools.ManagerOption{tools.WithTools(s.sel, s.drw, s.crp)}
	if s.schedule != nil {
		mopts = append(mopts, tools.WithScheduler(s.schedule))
	}
	s.manager = tools.NewManager(mopts...)
	return s
}

func (s *Session) Manager() *tools.Manager   { return s.manager }
func (s *Session) Select() *tools.SelectTool { return s.sel }
func (s *Session) Draw() *tools.DrawTool     { return s.drw }
func (s *Session) Crop() *tools.CropTool     { return s.crp }

// Frame returns the working image or nil.
func (s *Session) Frame() *image.RGBA { return s.frame }

// Image returns the working image as an image.Image, or a nil interface
// when no frame is loaded.
func (s *Session) Image() image.Image {
	if s.frame == nil {
		return nil
	}
	return s.frame
}

// Size returns the working image size.
func (s *Session) Size() geom.Size { return geom.SizeOf(s.Image()) }

// View returns the current view transform.
func (s *Session) View() geom.ViewTransform { return s.view }

// Viewport returns the canvas placement.
func (s *Session) Viewport() geom.Viewport { return s.viewport }

// ViewState describes the view for overlay rendering.
func (s *Session) ViewState() tools.ViewState {
	return tools.ViewState{Transform: s.view, Viewport: s.viewport, Image: s.Size()}
}

// LastProfile returns the profile of the most recently completed line.
func (s *Session) LastProfile() (Profile, bool) {
	if s.last == nil {
		return Profile{}, false
	}
	return *s.last, true
}

// LoadFrame replaces the working image. The first frame, and any frame whose
// size differs from the current one, fits the view and resets every tool.
// A same-size frame keeps annotations and the view. The frame is copied.
func (s *Session) LoadFrame(img image.Image) error {
	size := geom.SizeOf(img)
	if size.Empty() {
		return fmt.Errorf("load frame: %w", ErrNoFrame)
	}
	resized := size != s.Size()
	s.frame = toRGBA(img)
	if resized {
		s.manager.ResetAll()
		s.last = nil
		s.view = geom.Fit(s.viewport, size, s.fitMargin)
	}
	s.manager.RequestRedraw()
	return nil
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func (s *Session) setView(t geom.ViewTransform) {
	s.view = t
	s.manager.RequestRedraw()
}

// Zoom sets the user zoom, clamped to [0.1, 5].
func (s *Session) Zoom(z float64) {
	t := s.view
	t.SetZoom(z)
	s.setView(t)
}

// ZoomIn multiplies the zoom by 1.2.
func (s *Session) ZoomIn() {
	t := s.view
	t.ZoomIn()
	s.setView(t)
}

// ZoomOut divides the zoom by 1.2.
func (s *Session) ZoomOut() {
	t := s.view
	t.ZoomOut()
	s.setView(t)
}

// Wheel applies a wheel delta; negative values zoom in.
func (s *Session) Wheel(deltaY float64) {
	t := s.view
	t.Wheel(deltaY)
	s.setView(t)
}

// PanBy moves the image by dx, dy canvas pixels.
func (s *Session) PanBy(dx, dy float64) {
	t := s.view
	t.PanBy(geom.Vec{X: dx, Y: dy})
	s.setView(t)
}

// Fit scales the image into the viewport with the configured margin.
func (s *Session) Fit() { s.setView(geom.Fit(s.viewport, s.Size(), s.fitMargin)) }

// Actual shows the image 1:1, centred.
func (s *Session) Actual() { s.setView(geom.Actual(s.viewport, s.Size())) }

// Resize changes the viewport. The base fit is recomputed for the new size
// while the user's zoom and pan are kept.
func (s *Session) Resize(vp geom.Viewport) {
	s.viewport = vp
	t := geom.Fit(vp, s.Size(), s.fitMargin)
	t.Zoom = s.view.Zoom
	t.Pan = s.view.Pan
	s.setView(t)
}

// ActivateTool activates the tool with the given id.
func (s *Session) ActivateTool(id string) bool { return s.manager.ActivateTool(id) }

// DeactivateAll leaves no tool active.
func (s *Session) DeactivateAll() { s.manager.DeactivateAll() }

// Pointer maps a client-space pointer event into image space and forwards it
// to the active tool. Moves are reported to the pointer listener first. It
// reports false when no image is loaded or no tool took the event.
func (s *Session) Pointer(kind tools.EventKind, client geom.Vec) bool {
	pos, ok := geom.ScreenToImage(client, s.viewport, s.view, s.Size())
	if !ok {
		return false
	}
	if kind == tools.MouseMove && s.onPointer != nil {
		s.onPointer(pos)
	}
	return s.manager.HandleMouseEvent(tools.Event{Kind: kind, Client: client, Pos: pos, Frame: s.Image()})
}

// ImagePos maps a client position without dispatching anything.
func (s *Session) ImagePos(client geom.Vec) (geom.Vec, bool) {
	return geom.ScreenToImage(client, s.viewport, s.view, s.Size())
}

func (s *Session) lineCompleted(l geom.Line) {
	if s.frame == nil {
		return
	}
	samples := profile.ForLine(l, s.frame)
	p := Profile{Line: l, Samples: samples, Stats: profile.Summarise(samples)}
	s.last = &p
	if s.onProfile != nil {
		s.onProfile(p)
	}
}

// CommitCrop extracts the crop region into a new working image, resets the
// tools and the view, and notifies the crop listener. On failure the image
// and the view are left as they were.
func (s *Session) CommitCrop() (*image.RGBA, error) {
	if s.frame == nil {
		return nil, fmt.Errorf("commit crop: %w", ErrNoFrame)
	}
	r, ok := s.crp.Rect()
	if !ok || s.crp.Cropping() {
		return nil, fmt.Errorf("commit crop: %w", crop.ErrEmptyRegion)
	}
	out, err := crop.Extract(r, s.frame)
	if err != nil {
		return nil, fmt.Errorf("commit crop: %w", err)
	}
	s.frame = out
	s.manager.ResetAll()
	s.last = nil
	switch s.cropReset {
	case ResetActual:
		s.view = geom.Actual(s.viewport, s.Size())
	default:
		s.view = geom.Fit(s.viewport, s.Size(), s.fitMargin)
	}
	s.manager.RequestRedraw()
	if s.onCrop != nil {
		s.onCrop(out)
	}
	return out, nil
}

// Dispatch applies a command from the presentation layer.
func (s *Session) Dispatch(cmd tools.Command) error {
	if _, ok := cmd.(tools.ApplyCrop); ok {
		_, err := s.CommitCrop()
		return err
	}
	return s.manager.Dispatch(cmd)
}

// Undo undoes the last action of the active tool.
func (s *Session) Undo() bool { return s.manager.Undo() }

// Redo redoes on the active tool.
func (s *Session) Redo() bool { return s.manager.Redo() }

// Render draws the overlay and hands it to present.
func (s *Session) Render(present func(*image.RGBA)) bool {
	return s.manager.RenderAllOverlays(s.ViewState(), present)
}

// Composite draws the frame through the view transform onto dst and the
// overlay on top. dst is expected to match the viewport size.
func (s *Session) Composite(dst draw.Image) {
	if s.frame != nil {
		tl := geom.ImageToScreen(geom.Vec{}, s.view)
		br := geom.ImageToScreen(geom.Vec{X: float64(s.frame.Rect.Dx()), Y: float64(s.frame.Rect.Dy())}, s.view)
		dr := image.Rect(int(tl.X), int(tl.Y), int(br.X), int(br.Y)).Add(dst.Bounds().Min)
		var scaler draw.Scaler = draw.ApproxBiLinear
		if s.view.Scale() >= 1 {
			scaler = draw.NearestNeighbor
		}
		scaler.Scale(dst, dr, s.frame, s.frame.Bounds(), draw.Over, nil)
	}
	s.Render(func(overlay *image.RGBA) {
		draw.Draw(dst, dst.Bounds(), overlay, image.Point{}, draw.Over)
	})
}

// Export is the serialisable snapshot of every tool holding data.
type Export struct {
	Image geom.Size                 `json:"image"`
	Tools map[string]tools.ToolData `json:"tools"`
}

// Export collects the data of every tool that has any.
func (s *Session) Export() Export {
	return Export{Image: s.Size(), Tools: s.manager.ExportAllData()}
}

// WriteJSON writes Export as indented JSON.
func (s *Session) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Export()); err != nil {
		return fmt.Errorf("export annotations: %w", err)
	}
	return nil
}
