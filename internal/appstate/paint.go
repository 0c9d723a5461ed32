package appstate

import (
	"context"
	"image"
	"image/draw"
	"log"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/lineprobe/internal/theme"
)

// paintState is an immutable snapshot handed to the paint goroutine.
type paintState struct {
	layout     layout
	canvas     *image.RGBA
	panel      []panelElem
	status     string
	activeTool string
	hoverTool  int
	theme      *theme.Theme
	toolbar    []*CacheButton
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(st.layout.Window.Size())
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	dst := b.RGBA()
	paintWindow(dst, st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// paintWindow draws the whole window into dst.
func paintWindow(dst *image.RGBA, st paintState) {
	th := st.theme
	l := st.layout
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	if st.canvas != nil {
		draw.Draw(dst, l.Canvas, st.canvas, image.Point{}, draw.Src)
	}
	drawToolbar(dst, st)
	drawPanel(dst, st)

	draw.Draw(dst, l.Status, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)
	drawString(dst, st.status, image.Pt(l.Status.Min.X+6, l.Status.Min.Y+16), th.Foreground)
}

func drawToolbar(dst *image.RGBA, st paintState) {
	draw.Draw(dst, st.layout.Toolbar, &image.Uniform{st.theme.ToolbarBackground}, image.Point{}, draw.Src)
	for i, b := range st.toolbar {
		state := StateDefault
		switch {
		case toolbarEntries[i].ToolID != "" && toolbarEntries[i].ToolID == st.activeTool:
			state = StateActive
		case i == st.hoverTool:
			state = StateHover
		}
		b.Draw(dst, state)
	}
}

func drawPanel(dst *image.RGBA, st paintState) {
	th := st.theme
	draw.Draw(dst, st.layout.Panel, &image.Uniform{th.PanelBackground}, image.Point{}, draw.Src)
	for _, e := range st.panel {
		base := image.Pt(e.Rect.Min.X+2, e.Rect.Min.Y+12)
		switch e.Kind {
		case elemTitle:
			drawString(dst, e.Text, base, th.Foreground)
			drawString(dst, e.Text, base.Add(image.Pt(1, 0)), th.Foreground)
		case elemText:
			drawString(dst, e.Text, base, th.Foreground)
		case elemMuted:
			drawString(dst, e.Text, base, th.ButtonBorder)
		case elemButton:
			draw.Draw(dst, e.Rect, &image.Uniform{th.ButtonBackground}, image.Point{}, draw.Src)
			strokeRect(dst, e.Rect, th.ButtonBorder)
			drawString(dst, e.Text, base.Add(image.Pt(2, 0)), th.ButtonText)
		case elemSwatch:
			sw := image.Rect(e.Rect.Min.X, e.Rect.Min.Y+2, e.Rect.Min.X+12, e.Rect.Min.Y+14)
			if e.Swatch != nil {
				draw.Draw(dst, sw, &image.Uniform{e.Swatch.Std()}, image.Point{}, draw.Src)
			}
			strokeRect(dst, sw, th.ButtonBorder)
			drawString(dst, e.Text, base.Add(image.Pt(14, 0)), th.Foreground)
		}
	}
}
