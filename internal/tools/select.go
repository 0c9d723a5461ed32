package tools

import (
	"fmt"
	"image"
	"image/color"

	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/history"
	"github.com/example/lineprobe/internal/render"
)

// SelectSettings configures the point picker.
type SelectSettings struct {
	PointSize     float64    // on-screen radius in pixels
	PointColor    geom.Color
	ShowNumbers   bool
	ShowPixelData bool
	LabelFill     geom.Color
	LabelOutline  geom.Color
}

// DefaultSelectSettings returns the stock point picker settings.
func DefaultSelectSettings() SelectSettings {
	return SelectSettings{
		PointSize:     5,
		PointColor:    geom.MustColor("#ff0000"),
		ShowNumbers:   true,
		ShowPixelData: true,
		LabelFill:     geom.MustColor("#ffffff"),
		LabelOutline:  geom.MustColor("#000000"),
	}
}

// SelectTool records picked points along with their pixel index and colour.
type SelectTool struct {
	base
	settings SelectSettings
	state    SelectState
	history  *history.Stack[SelectState]
}

// NewSelectTool creates a point picker.
func NewSelectTool(settings SelectSettings) *SelectTool {
	return &SelectTool{
		base:     base{id: SelectID, name: "Select points"},
		settings: settings,
		history:  history.New(SelectState{}, SelectState.clone),
	}
}

// Settings returns the current settings.
func (s *SelectTool) Settings() SelectSettings { return s.settings }

// Points returns a copy of the recorded points.
func (s *SelectTool) Points() []geom.Point { return geom.ClonePoints(s.state.Points) }

// MouseDown records a point at the pointer.
func (s *SelectTool) MouseDown(ev Event) {
	s.state.Points = append(s.state.Points, samplePoint(ev))
	s.history.Push(history.ActionAdd, s.state)
}

// RemovePoint deletes the point at index i.
func (s *SelectTool) RemovePoint(i int) bool {
	if i < 0 || i >= len(s.state.Points) {
		return false
	}
	pts := append([]geom.Point(nil), s.state.Points[:i]...)
	s.state.Points = append(pts, s.state.Points[i+1:]...)
	s.history.Push(history.ActionRemove, s.state)
	return true
}

// ClearAllPoints removes every point.
func (s *SelectTool) ClearAllPoints() {
	if len(s.state.Points) == 0 {
		return
	}
	s.state.Points = nil
	s.history.Push(history.ActionClear, s.state)
}

// UndoLastPoint reverses the most recent add, remove or clear.
func (s *SelectTool) UndoLastPoint() bool {
	st, ok := s.history.Undo()
	if ok {
		s.state = st
	}
	return ok
}

// Undo implements Undoer.
func (s *SelectTool) Undo() bool { return s.UndoLastPoint() }

// Redo implements Undoer.
func (s *SelectTool) Redo() bool {
	st, ok := s.history.Redo()
	if ok {
		s.state = st
	}
	return ok
}

func (s *SelectTool) HasData() bool  { return len(s.state.Points) > 0 }
func (s *SelectTool) Data() ToolData { return s.state.clone() }
func (s *SelectTool) Clear()         { s.ClearAllPoints() }

// Reset forgets points and history.
func (s *SelectTool) Reset() {
	s.state = SelectState{}
	s.history.Reset(s.state)
}

// RenderOverlay draws a dot per point whose size stays constant on screen.
func (s *SelectTool) RenderOverlay(dc *render.Canvas, view ViewState) {
	radius := s.settings.PointSize / dc.Scale()
	for i, p := range s.state.Points {
		dc.Circle(p.Pos(), radius, s.settings.PointColor)
		if !s.settings.ShowNumbers {
			continue
		}
		dc.Text(render.Label{
			Text:    pointLabel(i, p),
			Anchor:  p.Pos(),
			Offset:  image.Pt(int(s.settings.PointSize)+3, -int(s.settings.PointSize)-3),
			Size:    render.DefaultLabelSize,
			Fill:    s.settings.LabelFill,
			Outline: color.Color(s.settings.LabelOutline),
		})
	}
}

func pointLabel(i int, p geom.Point) string {
	if p.PixelIndex != nil {
		return fmt.Sprintf("%d", *p.PixelIndex)
	}
	return fmt.Sprintf("%d", i+1)
}

// UIData lists the points with their samples.
func (s *SelectTool) UIData() UIData {
	d := UIData{
		ToolID:  s.id,
		Title:   "Selected points",
		Summary: fmt.Sprintf("%d points", len(s.state.Points)),
		Empty:   "click the image to add points",
		Settings: []SettingField{
			{Key: "pointSize", Label: "Point size", Kind: SettingNumber, Value: s.settings.PointSize, Min: 1, Max: 20},
			{Key: "pointColor", Label: "Point colour", Kind: SettingColor, Value: s.settings.PointColor},
			{Key: "showNumbers", Label: "Show numbers", Kind: SettingBool, Value: s.settings.ShowNumbers},
			{Key: "showPixelData", Label: "Show pixel data", Kind: SettingBool, Value: s.settings.ShowPixelData},
		},
	}
	for i, p := range s.state.Points {
		item := UIItem{
			Index:   i,
			Label:   fmt.Sprintf("#%d (%.1f, %.1f)", i+1, p.X, p.Y),
			Actions: []UIAction{{Label: "remove", Command: RemovePoint{Index: i}}},
		}
		if s.settings.ShowPixelData && p.PixelIndex != nil && p.PixelData != nil {
			px := p.PixelData
			item.Detail = fmt.Sprintf("index %d rgba(%d,%d,%d,%d)", *p.PixelIndex, px.R, px.G, px.B, px.A)
			c := geom.Color{R: px.R, G: px.G, B: px.B, A: 255}
			item.Color = &c
		}
		d.Items = append(d.Items, item)
	}
	if len(s.state.Points) > 0 {
		d.Actions = []UIAction{
			{Label: "undo", Command: UndoTool{ToolID: s.id}},
			{Label: "clear", Command: ClearTool{ToolID: s.id}},
		}
	}
	return d
}

// SetSetting implements Configurable.
func (s *SelectTool) SetSetting(key string, value any) error {
	switch key {
	case "pointSize":
		f, err := toPositive(key, value)
		if err != nil {
			return err
		}
		s.settings.PointSize = f
	case "pointColor":
		c, err := toColor(key, value)
		if err != nil {
			return err
		}
		s.settings.PointColor = c
	case "showNumbers":
		b, err := toBool(key, value)
		if err != nil {
			return err
		}
		s.settings.ShowNumbers = b
	case "showPixelData":
		b, err := toBool(key, value)
		if err != nil {
			return err
		}
		s.settings.ShowPixelData = b
	default:
		return fmt.Errorf("%w: %s.%s", ErrUnknownSetting, s.id, key)
	}
	return nil
}
