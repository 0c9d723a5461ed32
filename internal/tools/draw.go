package tools

import (
	"fmt"
	"image"
	"strings"

	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/history"
	"github.com/example/lineprobe/internal/render"
)

// DrawMode selects how the DrawTool turns clicks into lines.
type DrawMode int

const (
	// DrawModeChain links every click to the previous one.
	DrawModeChain DrawMode = iota
	// DrawModeDrag defines one segment per press-drag-release.
	DrawModeDrag
)

func (m DrawMode) String() string {
	if m == DrawModeDrag {
		return "drag"
	}
	return "chain"
}

// ParseDrawMode accepts "chain" or "drag".
func ParseDrawMode(s string) (DrawMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chain":
		return DrawModeChain, nil
	case "drag":
		return DrawModeDrag, nil
	}
	return DrawModeChain, fmt.Errorf("unknown draw mode %q", s)
}

// DrawSettings configures the measuring line tool.
type DrawSettings struct {
	LineWidth    float64 // image units, shared by all lines
	LineColor    geom.Color
	ShowLength   bool
	Mode         DrawMode
	MarkerColor  geom.Color
	MarkerSize   float64 // on-screen radius in pixels
	LabelFill    geom.Color
	LabelOutline geom.Color
}

// DefaultDrawSettings returns the stock line tool settings.
func DefaultDrawSettings() DrawSettings {
	return DrawSettings{
		LineWidth:    2,
		LineColor:    geom.MustColor("#00ff00"),
		ShowLength:   true,
		Mode:         DrawModeChain,
		MarkerColor:  geom.MustColor("#ffffff"),
		MarkerSize:   3,
		LabelFill:    geom.MustColor("#ffffff"),
		LabelOutline: geom.MustColor("#000000"),
	}
}

type dragState struct {
	start geom.Point
	end   geom.Vec
}

// DrawTool builds measurement lines from clicks.
type DrawTool struct {
	base
	settings DrawSettings
	state    DrawState
	history  *history.Stack[DrawState]
	drag     *dragState
	onLine   func(geom.Line)
}

// NewDrawTool creates a line tool.
func NewDrawTool(settings DrawSettings) *DrawTool {
	return &DrawTool{
		base:     base{id: DrawID, name: "Draw lines"},
		settings: settings,
		history:  history.New(DrawState{}, DrawState.clone),
	}
}

// OnLine registers fn to run whenever a line is completed.
func (d *DrawTool) OnLine(fn func(geom.Line)) { d.onLine = fn }

// Settings returns the current settings.
func (d *DrawTool) Settings() DrawSettings { return d.settings }

// Lines returns a copy of the lines.
func (d *DrawTool) Lines() []geom.Line { return geom.CloneLines(d.state.Lines) }

// Points returns a copy of the clicked points.
func (d *DrawTool) Points() []geom.Point { return geom.ClonePoints(d.state.Points) }

// Deactivate abandons an unfinished drag.
func (d *DrawTool) Deactivate() {
	d.drag = nil
	d.base.Deactivate()
}

// MouseDown adds a point in chain mode or starts a segment in drag mode.
func (d *DrawTool) MouseDown(ev Event) {
	if d.settings.Mode == DrawModeDrag {
		d.drag = &dragState{start: samplePoint(ev), end: ev.Pos}
		return
	}
	d.state.Points = append(d.state.Points, samplePoint(ev))
	n := len(d.state.Points)
	var line *geom.Line
	if n >= 2 {
		l := geom.NewLine(d.state.Points[n-2].Clone(), d.state.Points[n-1].Clone(), d.settings.LineColor, d.settings.LineWidth)
		d.state.Lines = append(d.state.Lines, l)
		line = &l
	}
	d.history.Push(history.ActionAdd, d.state)
	if line != nil && d.onLine != nil {
		d.onLine(line.Clone())
	}
}

// MouseMove tracks the free end of a drag.
func (d *DrawTool) MouseMove(ev Event) {
	if d.drag != nil {
		d.drag.end = ev.Pos
	}
}

// MouseUp completes a drag segment.
func (d *DrawTool) MouseUp(ev Event) {
	if d.drag == nil {
		return
	}
	start := d.drag.start
	d.drag = nil
	if start.Pos() == ev.Pos {
		return
	}
	end := samplePoint(ev)
	l := geom.NewLine(start.Clone(), end.Clone(), d.settings.LineColor, d.settings.LineWidth)
	d.state.Points = append(d.state.Points, start, end)
	d.state.Lines = append(d.state.Lines, l)
	d.history.Push(history.ActionAdd, d.state)
	if d.onLine != nil {
		d.onLine(l.Clone())
	}
}

// UpdateLineColor recolours one existing line. The colour follows the line
// through undo and redo.
func (d *DrawTool) UpdateLineColor(i int, c geom.Color) bool {
	if i < 0 || i >= len(d.state.Lines) {
		return false
	}
	id := d.state.Lines[i].ID
	d.state.Lines[i].Color = c
	d.history.Amend(func(st *DrawState) {
		for j := range st.Lines {
			if st.Lines[j].ID == id {
				st.Lines[j].Color = c
			}
		}
	})
	return true
}

// UpdateGlobalLineColor sets the colour used for lines drawn from now on.
func (d *DrawTool) UpdateGlobalLineColor(c geom.Color) { d.settings.LineColor = c }

// UpdateLineWidth sets the width shared by every line.
func (d *DrawTool) UpdateLineWidth(w float64) {
	d.settings.LineWidth = w
	setWidth := func(st *DrawState) {
		for i := range st.Lines {
			st.Lines[i].Width = w
		}
	}
	setWidth(&d.state)
	d.history.Amend(setWidth)
}

// RemoveLine deletes line i.
func (d *DrawTool) RemoveLine(i int) bool {
	if i < 0 || i >= len(d.state.Lines) {
		return false
	}
	lines := append([]geom.Line(nil), d.state.Lines[:i]...)
	d.state.Lines = append(lines, d.state.Lines[i+1:]...)
	d.history.Push(history.ActionRemove, d.state)
	return true
}

// ClearAllLines removes every point and line.
func (d *DrawTool) ClearAllLines() {
	if len(d.state.Points) == 0 && len(d.state.Lines) == 0 {
		return
	}
	d.state = DrawState{}
	d.history.Push(history.ActionClear, d.state)
}

// UndoLastLine reverses the most recent recorded action.
func (d *DrawTool) UndoLastLine() bool {
	st, ok := d.history.Undo()
	if ok {
		d.drag = nil
		d.state = st
	}
	return ok
}

// Undo implements Undoer.
func (d *DrawTool) Undo() bool { return d.UndoLastLine() }

// Redo implements Undoer.
func (d *DrawTool) Redo() bool {
	st, ok := d.history.Redo()
	if ok {
		d.state = st
	}
	return ok
}

func (d *DrawTool) HasData() bool {
	return len(d.state.Points) > 0 || len(d.state.Lines) > 0 || d.drag != nil
}

func (d *DrawTool) Data() ToolData { return d.state.clone() }
func (d *DrawTool) Clear()         { d.ClearAllLines() }

// Reset forgets points, lines and history.
func (d *DrawTool) Reset() {
	d.drag = nil
	d.state = DrawState{}
	d.history.Reset(d.state)
}

// RenderOverlay draws markers, segments and length labels.
func (d *DrawTool) RenderOverlay(dc *render.Canvas, view ViewState) {
	marker := d.settings.MarkerSize / dc.Scale()
	for _, p := range d.state.Points {
		dc.Circle(p.Pos(), marker, d.settings.MarkerColor)
	}
	for _, l := range d.state.Lines {
		dc.Line(l.Start.Pos(), l.End.Pos(), d.settings.LineWidth, l.Color)
		if d.settings.ShowLength {
			d.lengthLabel(dc, l.Midpoint(), l.Length)
		}
	}
	if d.drag != nil {
		start := d.drag.start.Pos()
		dc.Circle(start, marker, d.settings.MarkerColor)
		dc.Line(start, d.drag.end, d.settings.LineWidth, d.settings.LineColor)
		if d.settings.ShowLength {
			mid := geom.Vec{X: (start.X + d.drag.end.X) / 2, Y: (start.Y + d.drag.end.Y) / 2}
			d.lengthLabel(dc, mid, start.Dist(d.drag.end))
		}
	}
}

func (d *DrawTool) lengthLabel(dc *render.Canvas, at geom.Vec, length float64) {
	dc.Text(render.Label{
		Text:    render.FormatLength(length),
		Anchor:  at,
		Offset:  image.Pt(0, -8),
		Size:    render.DefaultLabelSize,
		Fill:    d.settings.LabelFill,
		Outline: d.settings.LabelOutline,
		Centred: true,
	})
}

// UIData lists lines with their lengths and colours.
func (d *DrawTool) UIData() UIData {
	data := UIData{
		ToolID:  d.id,
		Title:   "Lines",
		Summary: fmt.Sprintf("%d lines, %d points", len(d.state.Lines), len(d.state.Points)),
		Empty:   "click two points to measure",
		Settings: []SettingField{
			{Key: "lineWidth", Label: "Line width", Kind: SettingNumber, Value: d.settings.LineWidth, Min: 1, Max: 20},
			{Key: "lineColor", Label: "Line colour", Kind: SettingColor, Value: d.settings.LineColor},
			{Key: "showLength", Label: "Show length", Kind: SettingBool, Value: d.settings.ShowLength},
			{Key: "mode", Label: "Mode", Kind: SettingChoice, Value: d.settings.Mode.String(), Choices: []string{"chain", "drag"}},
		},
	}
	for i, l := range d.state.Lines {
		c := l.Color
		data.Items = append(data.Items, UIItem{
			Index:  i,
			Label:  fmt.Sprintf("Line %d: %.2f px", i+1, l.Length),
			Detail: fmt.Sprintf("(%.1f, %.1f) → (%.1f, %.1f)", l.Start.X, l.Start.Y, l.End.X, l.End.Y),
			Color:  &c,
			Actions: []UIAction{
				{Label: "remove", Command: RemoveLine{Index: i}},
				{Label: "use default colour", Command: UpdateLineColor{Index: i, Color: d.settings.LineColor}},
			},
		})
	}
	if d.HasData() {
		data.Actions = []UIAction{
			{Label: "undo", Command: UndoTool{ToolID: d.id}},
			{Label: "clear", Command: ClearTool{ToolID: d.id}},
		}
	}
	return data
}

// SetSetting implements Configurable.
func (d *DrawTool) SetSetting(key string, value any) error {
	switch key {
	case "lineWidth":
		f, err := toPositive(key, value)
		if err != nil {
			return err
		}
		d.UpdateLineWidth(f)
	case "lineColor":
		c, err := toColor(key, value)
		if err != nil {
			return err
		}
		d.UpdateGlobalLineColor(c)
	case "showLength":
		b, err := toBool(key, value)
		if err != nil {
			return err
		}
		d.settings.ShowLength = b
	case "mode":
		var mode DrawMode
		switch v := value.(type) {
		case DrawMode:
			mode = v
		case string:
			m, err := ParseDrawMode(v)
			if err != nil {
				return settingError(key, value, err)
			}
			mode = m
		default:
			return settingError(key, value, nil)
		}
		d.drag = nil
		d.settings.Mode = mode
	default:
		return fmt.Errorf("%w: %s.%s", ErrUnknownSetting, d.id, key)
	}
	return nil
}
