package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/example/lineprobe/internal/render"
	"github.com/example/lineprobe/internal/theme"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StateActive
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// ToolButton is a toolbar button that runs an action, usually selecting a
// tool.
type ToolButton struct {
	label  string
	action string
	theme  *theme.Theme
	rect   image.Rectangle
	run    func(action string)
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	c := tb.theme.ButtonBackground
	switch state {
	case StateHover:
		c = tb.theme.ButtonBackgroundHover
	case StateActive:
		c = tb.theme.ButtonActive
	}
	draw.Draw(dst, tb.rect, &image.Uniform{c}, image.Point{}, draw.Src)
	strokeRect(dst, tb.rect, tb.theme.ButtonBorder)
	drawString(dst, tb.label, image.Pt(tb.rect.Min.X+6, tb.rect.Min.Y+16), tb.theme.ButtonText)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

func (tb *ToolButton) Activate() {
	if tb.run != nil {
		tb.run(tb.action)
	}
}

// toolbarEntry describes one toolbar button. Tool buttons light up while
// their tool is active.
type toolbarEntry struct {
	Label  string
	Action string
	ToolID string
}

var toolbarEntries = []toolbarEntry{
	{Label: "1 Select", Action: actionSelect, ToolID: "select"},
	{Label: "2 Draw", Action: actionDraw, ToolID: "draw"},
	{Label: "3 Crop", Action: actionCrop, ToolID: "crop"},
	{Label: "Apply crop", Action: actionApplyCrop},
	{Label: "Undo", Action: actionUndo},
	{Label: "Redo", Action: actionRedo},
	{Label: "Fit", Action: actionFit},
	{Label: "1:1", Action: actionActual},
	{Label: "Zoom +", Action: actionZoomIn},
	{Label: "Zoom -", Action: actionZoomOut},
	{Label: "Copy", Action: actionCopy},
	{Label: "Save", Action: actionSave},
	{Label: "Export", Action: actionExport},
}

func newToolbar(l layout, th *theme.Theme, run func(string)) []*CacheButton {
	out := make([]*CacheButton, len(toolbarEntries))
	for i, e := range toolbarEntries {
		out[i] = &CacheButton{Button: &ToolButton{label: e.Label, action: e.Action, theme: th, rect: l.toolbarButton(i), run: run}}
	}
	return out
}

func drawString(dst *image.RGBA, s string, dot image.Point, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: render.Face(textSize), Dot: fixed.P(dot.X, dot.Y)}
	d.DrawString(s)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	u := &image.Uniform{col}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}
