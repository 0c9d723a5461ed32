// Package render draws overlay primitives onto an RGBA surface. Shapes are
// given in image space and mapped through the canvas transform.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/lineprobe/internal/geom"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Canvas is a drawing context bound to one surface for the duration of a
// render pass.
type Canvas struct {
	dst     *image.RGBA
	scanner *rasterx.ScannerGV
	filler  *rasterx.Filler
	dasher  *rasterx.Dasher
	view    geom.ViewTransform
}

// NewCanvas wraps dst. Coordinates are mapped with view.
func NewCanvas(dst *image.RGBA, view geom.ViewTransform) *Canvas {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	scanner := rasterx.NewScannerGV(w, h, dst, b)
	return &Canvas{
		dst:     dst,
		scanner: scanner,
		filler:  rasterx.NewFiller(w, h, scanner),
		dasher:  rasterx.NewDasher(w, h, scanner),
		view:    view,
	}
}

// Surface returns the bound surface.
func (c *Canvas) Surface() *image.RGBA { return c.dst }

// Scale returns the image-to-surface scale, ImageScale*Zoom.
func (c *Canvas) Scale() float64 { return c.view.Scale() }

// Bounds returns the surface rectangle.
func (c *Canvas) Bounds() image.Rectangle { return c.dst.Bounds() }

// ImageBounds returns the visible surface in image coordinates.
func (c *Canvas) ImageBounds() geom.CropRect {
	b := c.dst.Bounds()
	s := c.Scale()
	origin := geom.Vec{X: float64(b.Min.X), Y: float64(b.Min.Y)}.Sub(c.view.ImageOffset).Sub(c.view.Pan).Scale(1 / s)
	return geom.CropRect{X: origin.X, Y: origin.Y, Width: float64(b.Dx()) / s, Height: float64(b.Dy()) / s}
}

// Clear makes the whole surface transparent.
func (c *Canvas) Clear() {
	draw.Draw(c.dst, c.dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (c *Canvas) fixed(p geom.Vec) fixed.Point26_6 {
	s := geom.ImageToScreen(p, c.view)
	return rasterx.ToFixedP(s.X, s.Y)
}

// Line strokes a segment. width is in image units.
func (c *Canvas) Line(a, b geom.Vec, width float64, col color.Color) {
	c.stroke([]geom.Vec{a, b}, false, width, col, nil)
}

// DashedRect strokes r with a dash pattern given in surface pixels. width is
// in image units.
func (c *Canvas) DashedRect(r geom.CropRect, width float64, col color.Color, dashes []float64) {
	r = r.Normalize()
	pts := []geom.Vec{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
	c.stroke(pts, true, width, col, dashes)
}

func (c *Canvas) stroke(pts []geom.Vec, closed bool, width float64, col color.Color, dashes []float64) {
	if len(pts) < 2 {
		return
	}
	px := width * c.Scale()
	if px < 1 {
		px = 1
	}
	c.dasher.Clear()
	c.dasher.SetStroke(fixed.Int26_6(px*64), 0, rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap, rasterx.ArcClip, dashes, 0)
	c.dasher.SetColor(col)
	c.dasher.Start(c.fixed(pts[0]))
	for _, p := range pts[1:] {
		c.dasher.Line(c.fixed(p))
	}
	c.dasher.Stop(closed)
	c.dasher.Draw()
	c.dasher.Clear()
}

// Circle fills a disc. radius is in image units.
func (c *Canvas) Circle(center geom.Vec, radius float64, col color.Color) {
	s := geom.ImageToScreen(center, c.view)
	c.filler.Clear()
	c.filler.SetColor(col)
	rasterx.AddCircle(s.X, s.Y, radius*c.Scale(), c.filler)
	c.filler.Draw()
	c.filler.Clear()
}

// FillRect blends col over r. Rectangles with negative extents are
// normalized first.
func (c *Canvas) FillRect(r geom.CropRect, col color.Color) {
	r = r.Normalize()
	if r.Width == 0 || r.Height == 0 {
		return
	}
	min := geom.ImageToScreen(geom.Vec{X: r.X, Y: r.Y}, c.view)
	max := geom.ImageToScreen(geom.Vec{X: r.X + r.Width, Y: r.Y + r.Height}, c.view)
	c.FillScreenRect(image.Rect(int(min.X), int(min.Y), int(max.X+0.5), int(max.Y+0.5)), col)
}

// FillScreenRect blends col over a rectangle given in surface pixels.
func (c *Canvas) FillScreenRect(r image.Rectangle, col color.Color) {
	r = r.Canon().Intersect(c.dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(c.dst, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// Shade darkens everything outside r with col.
func (c *Canvas) Shade(r geom.CropRect, col color.Color) {
	r = r.Normalize()
	min := geom.ImageToScreen(geom.Vec{X: r.X, Y: r.Y}, c.view)
	max := geom.ImageToScreen(geom.Vec{X: r.X + r.Width, Y: r.Y + r.Height}, c.view)
	b := c.dst.Bounds()
	x0, y0 := int(min.X), int(min.Y)
	x1, y1 := int(max.X+0.5), int(max.Y+0.5)
	// above, below, left, right
	c.FillScreenRect(image.Rect(b.Min.X, b.Min.Y, b.Max.X, y0), col)
	c.FillScreenRect(image.Rect(b.Min.X, y1, b.Max.X, b.Max.Y), col)
	c.FillScreenRect(image.Rect(b.Min.X, y0, x0, y1), col)
	c.FillScreenRect(image.Rect(x1, y0, b.Max.X, y1), col)
}
