package appstate

import (
	"fmt"
	"image"

	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/render"
	"github.com/example/lineprobe/internal/tools"
)

const (
	toolbarWidth = 96
	panelWidth   = 260
	statusHeight = 24
	buttonHeight = 24
	lineHeight   = 16
	panelPadding = 6
	textSize     = 12
)

// layout splits the window into the toolbar, canvas, side panel and status
// bar.
type layout struct {
	Window  image.Rectangle
	Toolbar image.Rectangle
	Canvas  image.Rectangle
	Panel   image.Rectangle
	Status  image.Rectangle
}

func computeLayout(width, height int) layout {
	if width < toolbarWidth+panelWidth+1 {
		width = toolbarWidth + panelWidth + 1
	}
	if height < statusHeight+1 {
		height = statusHeight + 1
	}
	body := height - statusHeight
	return layout{
		Window:  image.Rect(0, 0, width, height),
		Toolbar: image.Rect(0, 0, toolbarWidth, body),
		Canvas:  image.Rect(toolbarWidth, 0, width-panelWidth, body),
		Panel:   image.Rect(width-panelWidth, 0, width, body),
		Status:  image.Rect(0, body, width, height),
	}
}

// viewport is the canvas area in window coordinates.
func (l layout) viewport() geom.Viewport {
	return geom.Viewport{
		Origin: geom.Vec{X: float64(l.Canvas.Min.X), Y: float64(l.Canvas.Min.Y)},
		Width:  float64(l.Canvas.Dx()),
		Height: float64(l.Canvas.Dy()),
	}
}

// toolbarButton returns the rectangle of the i-th toolbar button.
func (l layout) toolbarButton(i int) image.Rectangle {
	y := l.Toolbar.Min.Y + 4 + i*(buttonHeight+2)
	return image.Rect(l.Toolbar.Min.X+4, y, l.Toolbar.Max.X-4, y+buttonHeight)
}

// panelElem is one drawn piece of the side panel. Elements with a command
// are clickable.
type panelElem struct {
	Rect    image.Rectangle
	Text    string
	Kind    elemKind
	Swatch  *geom.Color
	Command tools.Command
}

type elemKind int

const (
	elemTitle elemKind = iota
	elemText
	elemMuted
	elemButton
	elemSwatch
)

// panelPalette is cycled through by colour settings.
var panelPalette = []geom.Color{
	geom.MustColor("#ff0000"),
	geom.MustColor("#00ff00"),
	geom.MustColor("#0099ff"),
	geom.MustColor("#ffff00"),
	geom.MustColor("#ff00ff"),
	geom.MustColor("#00ffff"),
	geom.MustColor("#ffffff"),
	geom.MustColor("#000000"),
}

func nextPaletteColor(c geom.Color) geom.Color {
	for i, p := range panelPalette {
		if p == c {
			return panelPalette[(i+1)%len(panelPalette)]
		}
	}
	return panelPalette[0]
}

// panelLayout positions the UIData of a tool inside r. It is a pure function
// of its inputs so the paint goroutine and the event loop agree on where
// everything is.
func panelLayout(d tools.UIData, r image.Rectangle) []panelElem {
	var out []panelElem
	x0, x1 := r.Min.X+panelPadding, r.Max.X-panelPadding
	y := r.Min.Y + panelPadding

	text := func(kind elemKind, s string) {
		out = append(out, panelElem{Rect: image.Rect(x0, y, x1, y+lineHeight), Text: s, Kind: kind})
		y += lineHeight
	}
	// buttons lays out a row of buttons, wrapping when they overflow.
	buttons := func(x int, actions []tools.UIAction) {
		for _, a := range actions {
			w, _ := render.MeasureText(a.Label, textSize)
			w += 8
			if x+w > x1 && x > x0 {
				x = x0
				y += lineHeight + 2
			}
			out = append(out, panelElem{Rect: image.Rect(x, y, x+w, y+lineHeight), Text: a.Label, Kind: elemButton, Command: a.Command})
			x += w + 4
		}
		y += lineHeight + 2
	}

	if d.ToolID == "" {
		text(elemTitle, "No tool")
		text(elemMuted, "press 1, 2 or 3 to pick a tool")
		return out
	}
	text(elemTitle, d.Title)
	if d.Summary != "" {
		text(elemMuted, d.Summary)
	}
	y += 4

	for _, s := range d.Settings {
		label := s.Label + ": " + settingText(s)
		switch s.Kind {
		case tools.SettingNumber:
			text(elemText, label)
			v, _ := s.Value.(float64)
			buttons(x0, []tools.UIAction{
				{Label: "-", Command: tools.UpdateSetting{ToolID: d.ToolID, Key: s.Key, Value: clamp(v-1, s.Min, s.Max)}},
				{Label: "+", Command: tools.UpdateSetting{ToolID: d.ToolID, Key: s.Key, Value: clamp(v+1, s.Min, s.Max)}},
			})
		case tools.SettingColor:
			c, _ := s.Value.(geom.Color)
			sw := c
			out = append(out, panelElem{
				Rect:    image.Rect(x0, y, x1, y+lineHeight),
				Text:    label,
				Kind:    elemSwatch,
				Swatch:  &sw,
				Command: tools.UpdateSetting{ToolID: d.ToolID, Key: s.Key, Value: nextPaletteColor(c)},
			})
			y += lineHeight + 2
		case tools.SettingBool:
			b, _ := s.Value.(bool)
			out = append(out, panelElem{
				Rect:    image.Rect(x0, y, x1, y+lineHeight),
				Text:    label,
				Kind:    elemButton,
				Command: tools.UpdateSetting{ToolID: d.ToolID, Key: s.Key, Value: !b},
			})
			y += lineHeight + 2
		case tools.SettingChoice:
			out = append(out, panelElem{
				Rect:    image.Rect(x0, y, x1, y+lineHeight),
				Text:    label,
				Kind:    elemButton,
				Command: tools.UpdateSetting{ToolID: d.ToolID, Key: s.Key, Value: nextChoice(s)},
			})
			y += lineHeight + 2
		}
	}
	y += 4

	if len(d.Actions) > 0 {
		buttons(x0, d.Actions)
		y += 4
	}

	if len(d.Items) == 0 && d.Empty != "" {
		text(elemMuted, d.Empty)
	}
	for _, it := range d.Items {
		// Leave room for the overflow line after every item.
		if y+itemHeight(it)+lineHeight > r.Max.Y {
			text(elemMuted, fmt.Sprintf("... %d more", len(d.Items)-it.Index))
			break
		}
		if it.Color != nil {
			c := *it.Color
			out = append(out, panelElem{Rect: image.Rect(x0, y, x1, y+lineHeight), Text: it.Label, Kind: elemSwatch, Swatch: &c})
			y += lineHeight
		} else {
			text(elemText, it.Label)
		}
		if it.Detail != "" {
			text(elemMuted, it.Detail)
		}
		if len(it.Actions) > 0 {
			buttons(x0, it.Actions)
		}
	}
	return out
}

func itemHeight(it tools.UIItem) int {
	h := lineHeight
	if it.Detail != "" {
		h += lineHeight
	}
	if len(it.Actions) > 0 {
		h += lineHeight + 2
	}
	return h
}

// hitPanel returns the command under p, if any.
func hitPanel(elems []panelElem, p image.Point) (tools.Command, bool) {
	for _, e := range elems {
		if e.Command != nil && p.In(e.Rect) {
			return e.Command, true
		}
	}
	return nil, false
}

func settingText(s tools.SettingField) string {
	switch v := s.Value.(type) {
	case bool:
		if v {
			return "on"
		}
		return "off"
	case float64:
		return fmt.Sprintf("%g", v)
	case geom.Color:
		return v.Hex()
	}
	return fmt.Sprint(s.Value)
}

func nextChoice(s tools.SettingField) string {
	cur := fmt.Sprint(s.Value)
	for i, c := range s.Choices {
		if c == cur {
			return s.Choices[(i+1)%len(s.Choices)]
		}
	}
	if len(s.Choices) > 0 {
		return s.Choices[0]
	}
	return cur
}

func clamp(v, lo, hi float64) float64 {
	if hi > lo {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
	}
	return v
}
