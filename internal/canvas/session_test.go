package canvas

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/lineprobe/internal/crop"
	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/tools"
)

func frame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// newSession returns a session whose viewport matches the image so client
// and image coordinates coincide.
func newSession(t *testing.T, w, h int, opts ...Option) *Session {
	t.Helper()
	base := []Option{WithViewport(geom.Viewport{Width: float64(w), Height: float64(h)}), WithFitMargin(1)}
	s := New(append(base, opts...)...)
	if err := s.LoadFrame(frame(w, h, color.RGBA{40, 80, 120, 255})); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func click(s *Session, x, y float64) {
	s.Pointer(tools.MouseDown, geom.Vec{X: x, Y: y})
	s.Pointer(tools.MouseUp, geom.Vec{X: x, Y: y})
}

func TestPointerWithoutImageIsIgnored(t *testing.T) {
	s := New(WithViewport(geom.Viewport{Width: 100, Height: 100}))
	s.ActivateTool(tools.SelectID)
	if s.Pointer(tools.MouseDown, geom.Vec{X: 10, Y: 10}) {
		t.Fatalf("event routed without an image")
	}
	if s.Select().HasData() {
		t.Fatalf("point created without an image")
	}
}

func TestFreshSessionHasNoImage(t *testing.T) {
	s := New()
	if s.Image() != nil {
		t.Fatalf("image %v before first frame", s.Image())
	}
	if !s.Size().Empty() {
		t.Fatalf("size %+v before first frame", s.Size())
	}
	if _, ok := s.ImagePos(geom.Vec{X: 1, Y: 1}); ok {
		t.Fatalf("mapped a position without an image")
	}
	if err := s.LoadFrame(frame(20, 10, color.RGBA{255, 0, 0, 255})); err != nil {
		t.Fatalf("load: %v", err)
	}
	s.Resize(geom.Viewport{Width: 20, Height: 10})
	s.Actual()
	s.ActivateTool(tools.SelectID)
	if !s.Pointer(tools.MouseDown, geom.Vec{X: 3, Y: 4}) {
		t.Fatalf("click not routed after loading a frame")
	}
	pts := s.Select().Points()
	if len(pts) != 1 || pts[0].PixelData == nil || pts[0].PixelData.R != 255 {
		t.Fatalf("points %+v", pts)
	}
}

func TestSelectClickPixelIndex(t *testing.T) {
	s := newSession(t, 640, 480)
	s.ActivateTool(tools.SelectID)
	click(s, 100, 50)
	pts := s.Select().Points()
	if len(pts) != 1 || pts[0].PixelIndex == nil || *pts[0].PixelIndex != 32100 {
		t.Fatalf("points %+v", pts)
	}
	if pts[0].PixelData.B != 120 {
		t.Fatalf("sample %+v", pts[0].PixelData)
	}
}

func TestPointerMapsThroughZoomAndPan(t *testing.T) {
	var seen geom.Vec
	s := newSession(t, 200, 100,
		WithViewport(geom.Viewport{Origin: geom.Vec{X: 10, Y: 20}, Width: 200, Height: 100}),
		WithPointerListener(func(p geom.Vec) { seen = p }),
	)
	s.Zoom(2)
	s.PanBy(-50, -10)
	s.Pointer(tools.MouseMove, geom.Vec{X: 70, Y: 50})
	// (70-10+50)/2, (50-20+10)/2
	if seen != (geom.Vec{X: 55, Y: 20}) {
		t.Fatalf("pointer %+v", seen)
	}
	s.Pointer(tools.MouseMove, geom.Vec{X: 10000, Y: -5})
	if seen != (geom.Vec{X: 200, Y: 0}) {
		t.Fatalf("pointer not clamped: %+v", seen)
	}
	if p, ok := s.ImagePos(geom.Vec{X: 70, Y: 50}); !ok || p != (geom.Vec{X: 55, Y: 20}) {
		t.Fatalf("image pos %+v", p)
	}
}

func TestZoomIsClamped(t *testing.T) {
	s := newSession(t, 10, 10)
	s.Zoom(10)
	if s.View().Zoom != geom.MaxZoom {
		t.Fatalf("zoom %v", s.View().Zoom)
	}
	s.Zoom(0.01)
	if s.View().Zoom != geom.MinZoom {
		t.Fatalf("zoom %v", s.View().Zoom)
	}
	s.Wheel(-1)
	if s.View().Zoom <= geom.MinZoom {
		t.Fatalf("wheel up did not zoom in")
	}
}

func TestDrawLineEmitsProfile(t *testing.T) {
	var got []Profile
	s := newSession(t, 200, 100, WithProfileListener(func(p Profile) { got = append(got, p) }))
	s.ActivateTool(tools.DrawID)
	click(s, 10, 10)
	click(s, 110, 10)
	lines := s.Draw().Lines()
	if len(lines) != 1 || lines[0].Length != 100 {
		t.Fatalf("lines %+v", lines)
	}
	if len(got) != 1 || len(got[0].Samples) != 101 {
		t.Fatalf("profiles %d", len(got))
	}
	if got[0].Stats.Min != got[0].Stats.Max {
		t.Fatalf("solid frame gave varying intensity %+v", got[0].Stats)
	}
	if last, ok := s.LastProfile(); !ok || last.Line.ID != lines[0].ID {
		t.Fatalf("last profile not recorded")
	}
}

func TestCommitCropNormalizes(t *testing.T) {
	var cropped *image.RGBA
	s := newSession(t, 100, 100, WithCropListener(func(img *image.RGBA) { cropped = img }))
	s.ActivateTool(tools.CropID)
	s.Pointer(tools.MouseDown, geom.Vec{X: 50, Y: 50})
	s.Pointer(tools.MouseMove, geom.Vec{X: 35, Y: 40})
	s.Pointer(tools.MouseUp, geom.Vec{X: 20, Y: 30})
	r, _ := s.Crop().Rect()
	if n := r.Normalize(); n != (geom.CropRect{X: 20, Y: 30, Width: 30, Height: 20}) {
		t.Fatalf("normalized %+v", n)
	}
	if err := s.Dispatch(tools.ApplyCrop{}); err != nil {
		t.Fatalf("apply crop: %v", err)
	}
	if s.Size() != (geom.Size{W: 30, H: 20}) {
		t.Fatalf("size %+v", s.Size())
	}
	if cropped == nil || cropped != s.Frame() {
		t.Fatalf("crop listener not called with the new frame")
	}
	if s.Crop().HasData() {
		t.Fatalf("crop rect survived commit")
	}
	want := geom.Fit(s.Viewport(), s.Size(), 1)
	if s.View() != want {
		t.Fatalf("view %+v want %+v", s.View(), want)
	}
}

func TestCommitCropActualReset(t *testing.T) {
	s := newSession(t, 100, 100, WithCropReset(ResetActual))
	s.ActivateTool(tools.CropID)
	s.Pointer(tools.MouseDown, geom.Vec{X: 10, Y: 10})
	s.Pointer(tools.MouseUp, geom.Vec{X: 30, Y: 30})
	if _, err := s.CommitCrop(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if s.View().Scale() != 1 || s.View().ImageOffset != (geom.Vec{X: 40, Y: 40}) {
		t.Fatalf("view %+v", s.View())
	}
}

func TestCommitCropEmptyKeepsImage(t *testing.T) {
	s := newSession(t, 100, 100)
	before := s.Frame()
	view := s.View()
	if _, err := s.CommitCrop(); !errors.Is(err, crop.ErrEmptyRegion) {
		t.Fatalf("expected ErrEmptyRegion, got %v", err)
	}
	s.ActivateTool(tools.CropID)
	click(s, 40, 40)
	if _, err := s.CommitCrop(); !errors.Is(err, crop.ErrEmptyRegion) {
		t.Fatalf("expected ErrEmptyRegion for a zero-area drag, got %v", err)
	}
	if s.Frame() != before || s.View() != view {
		t.Fatalf("failed crop changed the session")
	}
	if _, err := New().CommitCrop(); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("expected ErrNoFrame, got %v", err)
	}
}

func TestFramePolicy(t *testing.T) {
	s := newSession(t, 50, 50)
	s.ActivateTool(tools.SelectID)
	click(s, 5, 5)
	s.Zoom(2)
	if err := s.LoadFrame(frame(50, 50, color.RGBA{255, 0, 0, 255})); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(s.Select().Points()) != 1 || s.View().Zoom != 2 {
		t.Fatalf("same-size frame dropped state")
	}
	if err := s.LoadFrame(frame(60, 50, color.RGBA{})); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Select().HasData() || s.View().Zoom != 1 {
		t.Fatalf("resized frame kept state")
	}
	if s.Select().Undo() {
		t.Fatalf("history survived a resize")
	}
	if err := s.LoadFrame(nil); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("expected ErrNoFrame, got %v", err)
	}
	if s.Size() != (geom.Size{W: 60, H: 50}) {
		t.Fatalf("failed load replaced the frame")
	}
}

func TestUndoRedoThroughSession(t *testing.T) {
	s := newSession(t, 50, 50)
	s.ActivateTool(tools.SelectID)
	click(s, 1, 1)
	click(s, 2, 2)
	if !s.Undo() || len(s.Select().Points()) != 1 {
		t.Fatalf("undo failed")
	}
	if !s.Redo() || len(s.Select().Points()) != 2 {
		t.Fatalf("redo failed")
	}
	s.DeactivateAll()
	if s.Undo() {
		t.Fatalf("undo without an active tool")
	}
}

func TestRedrawIsScheduledOnce(t *testing.T) {
	n := 0
	s := newSession(t, 50, 50, WithScheduler(func() { n++ }))
	s.ActivateTool(tools.SelectID)
	click(s, 1, 1)
	s.ZoomIn()
	if n != 1 {
		t.Fatalf("scheduled %d times", n)
	}
	s.Render(nil)
	s.PanBy(1, 1)
	if n != 2 {
		t.Fatalf("scheduled %d times after render", n)
	}
}

func TestCompositeDrawsFrameAndOverlay(t *testing.T) {
	s := newSession(t, 40, 40)
	s.ActivateTool(tools.SelectID)
	click(s, 20, 20)
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	s.Composite(dst)
	if got := dst.RGBAAt(2, 2); got != (color.RGBA{40, 80, 120, 255}) {
		t.Fatalf("frame pixel %v", got)
	}
	if got := dst.RGBAAt(20, 20); got.R < 200 {
		t.Fatalf("point not drawn: %v", got)
	}
}

func TestWriteJSON(t *testing.T) {
	s := newSession(t, 50, 50)
	s.ActivateTool(tools.SelectID)
	click(s, 3, 4)
	var buf bytes.Buffer
	if err := s.WriteJSON(&buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	var back struct {
		Image geom.Size `json:"image"`
		Tools map[string]struct {
			Points []geom.Point `json:"points"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Image.W != 50 || len(back.Tools) != 1 || len(back.Tools[tools.SelectID].Points) != 1 {
		t.Fatalf("export %s", buf.String())
	}
	if *back.Tools[tools.SelectID].Points[0].PixelIndex != 4*50+3 {
		t.Fatalf("pixel index lost in export")
	}
}
