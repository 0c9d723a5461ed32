package tools

import (
	"image"
	"image/color"
	"math"
	"reflect"
	"testing"

	"github.com/example/lineprobe/internal/geom"
)

func down(frame image.Image, x, y float64) Event {
	return Event{Kind: MouseDown, Pos: geom.Vec{X: x, Y: y}, Frame: frame}
}

func move(x, y float64) Event { return Event{Kind: MouseMove, Pos: geom.Vec{X: x, Y: y}} }
func up(x, y float64) Event   { return Event{Kind: MouseUp, Pos: geom.Vec{X: x, Y: y}} }

func TestSelectPixelIndex(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 640, 480))
	frame.Set(100, 50, color.RGBA{12, 34, 56, 255})
	s := NewSelectTool(DefaultSelectSettings())
	s.Activate()
	s.MouseDown(down(frame, 100, 50))
	pts := s.Points()
	if len(pts) != 1 {
		t.Fatalf("got %d points", len(pts))
	}
	p := pts[0]
	if p.PixelIndex == nil || *p.PixelIndex != 32100 {
		t.Fatalf("pixel index %v", p.PixelIndex)
	}
	if p.PixelData == nil || *p.PixelData != (geom.PixelData{R: 12, G: 34, B: 56, A: 255}) {
		t.Fatalf("pixel data %+v", p.PixelData)
	}
	if p.ID == "" {
		t.Fatalf("point has no id")
	}
}

func TestSelectIndexInvariant(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 37, 23))
	s := NewSelectTool(DefaultSelectSettings())
	for _, pos := range []geom.Vec{{X: 0, Y: 0}, {X: 36.9, Y: 22.9}, {X: 37, Y: 23}, {X: 12.5, Y: 7.25}} {
		s.MouseDown(down(frame, pos.X, pos.Y))
	}
	for _, p := range s.Points() {
		want := int(math.Floor(p.Y))*37 + int(math.Floor(p.X))
		if p.PixelIndex == nil || *p.PixelIndex != want {
			t.Fatalf("point (%v,%v) index %v want %d", p.X, p.Y, p.PixelIndex, want)
		}
	}
	// (37,23) lies on the far edge; its sample is zeroed, not an error.
	last := s.Points()[2]
	if last.PixelData == nil || *last.PixelData != (geom.PixelData{}) {
		t.Fatalf("edge sample %+v", last.PixelData)
	}
}

func TestSelectClearThenUndoRestoresPoints(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 50, 50))
	s := NewSelectTool(DefaultSelectSettings())
	s.MouseDown(down(frame, 1, 2))
	s.MouseDown(down(frame, 10, 20))
	s.MouseDown(down(frame, 30, 40))
	before := s.Points()

	s.ClearAllPoints()
	if s.HasData() {
		t.Fatalf("points left after clear")
	}
	if !s.UndoLastPoint() {
		t.Fatalf("undo failed")
	}
	if !reflect.DeepEqual(s.Points(), before) {
		t.Fatalf("undo restored %+v want %+v", s.Points(), before)
	}
}

func TestSelectUndoRedoAndTruncation(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 50, 50))
	s := NewSelectTool(DefaultSelectSettings())
	s.MouseDown(down(frame, 1, 1))
	s.MouseDown(down(frame, 2, 2))
	after := s.Points()
	s.UndoLastPoint()
	if len(s.Points()) != 1 {
		t.Fatalf("undo left %d points", len(s.Points()))
	}
	if !s.Redo() || !reflect.DeepEqual(s.Points(), after) {
		t.Fatalf("redo did not restore the add")
	}
	s.UndoLastPoint()
	s.MouseDown(down(frame, 3, 3))
	if s.Redo() {
		t.Fatalf("redo after a new action should be a no-op")
	}
	s.UndoLastPoint()
	s.UndoLastPoint()
	if s.UndoLastPoint() {
		t.Fatalf("undo past the start succeeded")
	}
}

func TestDrawChainedClicks(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 200, 100))
	d := NewDrawTool(DefaultDrawSettings())
	var completed []geom.Line
	d.OnLine(func(l geom.Line) { completed = append(completed, l) })
	d.MouseDown(down(frame, 10, 10))
	if len(d.Lines()) != 0 {
		t.Fatalf("line created from a single click")
	}
	d.MouseDown(down(frame, 110, 10))
	lines := d.Lines()
	if len(lines) != 1 || lines[0].Length != 100.0 {
		t.Fatalf("lines %+v", lines)
	}
	if len(completed) != 1 {
		t.Fatalf("completion callbacks %d", len(completed))
	}
	d.MouseDown(down(frame, 110, 40))
	if len(d.Lines()) != 2 || d.Lines()[1].Length != 30 {
		t.Fatalf("chained segment %+v", d.Lines())
	}
	if !d.UndoLastLine() || len(d.Lines()) != 1 || len(d.Points()) != 2 {
		t.Fatalf("undo removed the wrong thing: %d lines %d points", len(d.Lines()), len(d.Points()))
	}
}

func TestDrawColourAndWidth(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	d := NewDrawTool(DefaultDrawSettings())
	d.MouseDown(down(frame, 0, 0))
	d.MouseDown(down(frame, 10, 0))
	red := geom.MustColor("#ff0000")
	d.UpdateGlobalLineColor(red)
	if d.Lines()[0].Color == red {
		t.Fatalf("global colour changed an existing line")
	}
	d.MouseDown(down(frame, 20, 0))
	if d.Lines()[1].Color != red {
		t.Fatalf("new line did not inherit the global colour")
	}
	blue := geom.MustColor("blue")
	if !d.UpdateLineColor(0, blue) || d.Lines()[0].Color != blue || d.Lines()[1].Color != red {
		t.Fatalf("per-line colour update wrong: %+v", d.Lines())
	}
	if d.UpdateLineColor(5, blue) {
		t.Fatalf("out of range colour update accepted")
	}
	d.UpdateLineWidth(6)
	for _, l := range d.Lines() {
		if l.Width != 6 {
			t.Fatalf("width %v", l.Width)
		}
	}
}

func TestDrawColourSurvivesUndo(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	d := NewDrawTool(DefaultDrawSettings())
	d.MouseDown(down(frame, 0, 0))
	d.MouseDown(down(frame, 10, 0))
	red := geom.MustColor("#ff0000")
	d.UpdateLineColor(0, red)
	d.MouseDown(down(frame, 10, 10))
	if !d.UndoLastLine() {
		t.Fatalf("undo failed")
	}
	if got := d.Lines()[0].Color; got != red {
		t.Fatalf("colour after undo %v", got)
	}
	if !d.Redo() || d.Lines()[0].Color != red {
		t.Fatalf("colour after redo %v", d.Lines()[0].Color)
	}
	d.UndoLastLine()
	d.UndoLastLine()
	d.Redo()
	if d.Lines()[0].Color != red {
		t.Fatalf("colour lost on replaying the line %v", d.Lines()[0].Color)
	}
}

func TestDrawWidthSurvivesUndo(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	d := NewDrawTool(DefaultDrawSettings())
	d.MouseDown(down(frame, 0, 0))
	d.MouseDown(down(frame, 10, 0))
	d.UpdateLineWidth(7)
	d.MouseDown(down(frame, 10, 10))
	d.UndoLastLine()
	if w := d.Lines()[0].Width; w != 7 {
		t.Fatalf("line width %v after undo, setting %v", w, d.Settings().LineWidth)
	}
	d.Redo()
	for _, l := range d.Lines() {
		if l.Width != 7 {
			t.Fatalf("line width %v after redo", l.Width)
		}
	}
}

func TestDrawRemoveAndClearUndo(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	d := NewDrawTool(DefaultDrawSettings())
	d.MouseDown(down(frame, 0, 0))
	d.MouseDown(down(frame, 10, 0))
	d.MouseDown(down(frame, 10, 10))
	before := d.Data()
	if !d.RemoveLine(0) || len(d.Lines()) != 1 {
		t.Fatalf("remove line failed")
	}
	d.UndoLastLine()
	if !reflect.DeepEqual(d.Data(), before) {
		t.Fatalf("undo of remove did not restore state")
	}
	d.ClearAllLines()
	d.UndoLastLine()
	if !reflect.DeepEqual(d.Data(), before) {
		t.Fatalf("undo of clear did not restore state")
	}
}

func TestDrawDragMode(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))
	settings := DefaultDrawSettings()
	settings.Mode = DrawModeDrag
	d := NewDrawTool(settings)
	d.Activate()
	d.MouseDown(down(frame, 5, 5))
	d.MouseMove(move(20, 5))
	d.MouseUp(up(35, 45))
	lines := d.Lines()
	if len(lines) != 1 || lines[0].Length != 50 {
		t.Fatalf("drag line %+v", lines)
	}
	d.MouseDown(down(frame, 60, 60))
	d.Deactivate()
	d.MouseUp(up(70, 70))
	if len(d.Lines()) != 1 {
		t.Fatalf("abandoned drag produced a line")
	}
}

func TestCropDragKeepsSignedRect(t *testing.T) {
	c := NewCropTool(DefaultCropSettings())
	c.Activate()
	c.MouseDown(down(nil, 50, 50))
	c.MouseMove(move(30, 40))
	c.MouseUp(up(20, 30))
	r, ok := c.Rect()
	if !ok {
		t.Fatalf("no rect after drag")
	}
	if r != (geom.CropRect{X: 50, Y: 50, Width: -30, Height: -20}) {
		t.Fatalf("stored rect %+v", r)
	}
	if c.Cropping() {
		t.Fatalf("still cropping after mouse up")
	}
	if n := r.Normalize(); n != (geom.CropRect{X: 20, Y: 30, Width: 30, Height: 20}) {
		t.Fatalf("normalized %+v", n)
	}
}

func TestCropDeactivateAbandonsDrag(t *testing.T) {
	m, _, _, c := newTestManager()
	m.ActivateTool(CropID)
	m.HandleMouseEvent(down(nil, 5, 5))
	m.HandleMouseEvent(move(15, 25))
	m.DeactivateAll()
	if c.HasData() || c.Cropping() {
		t.Fatalf("in-flight crop survived DeactivateAll")
	}

	m.ActivateTool(CropID)
	m.HandleMouseEvent(down(nil, 5, 5))
	m.HandleMouseEvent(up(15, 25))
	m.DeactivateAll()
	if !c.HasData() {
		t.Fatalf("finished crop rect dropped on deactivate")
	}
}

func TestInactiveToolWithDataStillRenders(t *testing.T) {
	m, _, _, _ := newTestManager()
	frame := image.NewRGBA(image.Rect(0, 0, 64, 48))
	m.ActivateTool(SelectID)
	m.HandleMouseEvent(down(frame, 32, 24))
	m.DeactivateAll()
	var painted bool
	m.RenderAllOverlays(testView(), func(img *image.RGBA) {
		_, _, _, a := img.At(32, 24).RGBA()
		painted = a != 0
	})
	if !painted {
		t.Fatalf("deactivated select tool did not draw its point")
	}
}

func TestUIDataDescribesItems(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 64, 48))
	s := NewSelectTool(DefaultSelectSettings())
	s.MouseDown(down(frame, 3, 4))
	ui := s.UIData()
	if ui.ToolID != SelectID || len(ui.Items) != 1 {
		t.Fatalf("ui data %+v", ui)
	}
	if _, ok := ui.Items[0].Actions[0].Command.(RemovePoint); !ok {
		t.Fatalf("point row has no remove command")
	}
	c := NewCropTool(DefaultCropSettings())
	if len(c.UIData().Actions) != 0 {
		t.Fatalf("crop offers actions without a region")
	}
}

func TestPointLabel(t *testing.T) {
	idx := 32100
	if got := pointLabel(0, geom.Point{X: 100, Y: 50, PixelIndex: &idx}); got != "32100" {
		t.Fatalf("label %q", got)
	}
	if got := pointLabel(2, geom.Point{X: 1, Y: 1}); got != "3" {
		t.Fatalf("label without index %q", got)
	}
}
