package tools

import (
	"image"
	"math"

	"github.com/example/lineprobe/internal/render"
)

// Renderer redraws the overlay. It owns the back buffer and lends it out
// for a single Render call.
type Renderer struct {
	buf       *image.RGBA
	rendering bool
	dropped   int
}

// Dropped reports how many nested render requests were discarded.
func (r *Renderer) Dropped() int { return r.dropped }

func (r *Renderer) acquire(w, h int) *image.RGBA {
	buf := r.buf
	r.buf = nil
	if buf == nil || buf.Bounds().Dx() != w || buf.Bounds().Dy() != h {
		buf = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return buf
}

func (r *Renderer) release(buf *image.RGBA) { r.buf = buf }

// Render clears the overlay and draws every tool that is active or holds
// data, in the given order. present receives the finished surface and must
// not keep it after returning. A Render started from inside another Render
// is dropped and reports false.
func (r *Renderer) Render(tools []Tool, view ViewState, present func(*image.RGBA)) bool {
	if r.rendering {
		r.dropped++
		return false
	}
	w := int(math.Ceil(view.Viewport.Width))
	h := int(math.Ceil(view.Viewport.Height))
	if w <= 0 || h <= 0 {
		return false
	}
	r.rendering = true
	defer func() { r.rendering = false }()

	buf := r.acquire(w, h)
	defer r.release(buf)

	dc := render.NewCanvas(buf, view.Transform)
	dc.Clear()
	for _, t := range tools {
		if t.IsActive() || t.HasData() {
			t.RenderOverlay(dc, view)
		}
	}
	if present != nil {
		present(buf)
	}
	return true
}
