// Package tools implements the interactive annotation tools, the manager
// that routes pointer events to the active tool and the overlay renderer.
//
// Nothing in this package is safe for concurrent use. Hosts drive it from
// their UI goroutine.
package tools

import (
	"image"

	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/render"
)

// Tool identifiers.
const (
	SelectID = "select"
	DrawID   = "draw"
	CropID   = "crop"
)

// EventKind identifies a pointer event.
type EventKind int

const (
	MouseDown EventKind = iota
	MouseMove
	MouseUp
)

func (k EventKind) String() string {
	switch k {
	case MouseDown:
		return "down"
	case MouseMove:
		return "move"
	case MouseUp:
		return "up"
	}
	return "unknown"
}

// Event is a pointer event already mapped into image space.
type Event struct {
	Kind   EventKind
	Client geom.Vec
	Pos    geom.Vec
	// Frame is the working bitmap. Tools read from it during the call only.
	Frame image.Image
}

// ViewState is what a tool needs to know about the view while rendering.
type ViewState struct {
	Transform geom.ViewTransform
	Viewport  geom.Viewport
	Image     geom.Size
}

// Tool is one interaction mode of the canvas.
type Tool interface {
	ID() string
	Name() string
	IsActive() bool
	Activate()
	Deactivate()
	MouseDown(ev Event)
	MouseMove(ev Event)
	MouseUp(ev Event)
	// RenderOverlay draws the tool's annotations. dc is only valid for the
	// duration of the call.
	RenderOverlay(dc *render.Canvas, view ViewState)
	UIData() UIData
	HasData() bool
	// Data returns a copy of the tool's state for export.
	Data() ToolData
	// Clear removes all annotations, recording history where the tool keeps it.
	Clear()
	// Reset drops annotations and history, used when the image changes size.
	Reset()
}

// Undoer is implemented by tools with a history stack.
type Undoer interface {
	Undo() bool
	Redo() bool
}

// Configurable is implemented by tools with user settings.
type Configurable interface {
	SetSetting(key string, value any) error
}

// ToolData is the exportable state of one tool, keyed by ToolID.
type ToolData interface {
	ToolID() string
}

// SelectState is the SelectTool's data.
type SelectState struct {
	Points []geom.Point `json:"points"`
}

// ToolID implements ToolData.
func (SelectState) ToolID() string { return SelectID }

func (s SelectState) clone() SelectState {
	return SelectState{Points: geom.ClonePoints(s.Points)}
}

// DrawState is the DrawTool's data.
type DrawState struct {
	Points []geom.Point `json:"points"`
	Lines  []geom.Line  `json:"lines"`
}

// ToolID implements ToolData.
func (DrawState) ToolID() string { return DrawID }

func (s DrawState) clone() DrawState {
	return DrawState{Points: geom.ClonePoints(s.Points), Lines: geom.CloneLines(s.Lines)}
}

// CropState is the CropTool's data.
type CropState struct {
	CropArea *geom.CropRect `json:"cropArea"`
}

// ToolID implements ToolData.
func (CropState) ToolID() string { return CropID }

type base struct {
	id     string
	name   string
	active bool
}

func (b *base) ID() string      { return b.id }
func (b *base) Name() string    { return b.name }
func (b *base) IsActive() bool  { return b.active }
func (b *base) Activate()       { b.active = true }
func (b *base) Deactivate()     { b.active = false }
func (b *base) MouseMove(Event) {}
func (b *base) MouseUp(Event)   {}

// samplePoint creates a point at ev.Pos carrying its pixel index and RGBA
// sample. Pixels outside the frame give a zero sample.
func samplePoint(ev Event) geom.Point {
	p := geom.NewPoint(ev.Pos)
	size := geom.SizeOf(ev.Frame)
	if size.Empty() {
		return p
	}
	idx := geom.PixelIndex(ev.Pos, size)
	px, _ := geom.SamplePixel(ev.Frame, ev.Pos)
	p.PixelIndex = &idx
	p.PixelData = &px
	return p
}
