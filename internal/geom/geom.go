// Package geom holds the image-space annotation model and the transforms
// between client, canvas and image coordinates.
package geom

import (
	"image"
	"math"

	"github.com/google/uuid"
)

// Vec is a 2D coordinate or offset.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Dist returns the euclidean distance between v and o.
func (v Vec) Dist(o Vec) float64 { return math.Hypot(o.X-v.X, o.Y-v.Y) }

// Size is the pixel size of a bitmap. The zero Size means no image is loaded.
type Size struct {
	W int `json:"width"`
	H int `json:"height"`
}

// SizeOf returns the dimensions of img, or the zero Size when img is nil.
func SizeOf(img image.Image) Size {
	if img == nil {
		return Size{}
	}
	b := img.Bounds()
	return Size{W: b.Dx(), H: b.Dy()}
}

// Empty reports whether no image is described.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// PixelData is an RGBA sample taken from the working bitmap.
type PixelData struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Point is an annotation anchor in image space.
type Point struct {
	ID         string     `json:"id"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	PixelIndex *int       `json:"pixelIndex"`
	PixelData  *PixelData `json:"pixelData"`
}

// NewPoint returns a point at p with a fresh id.
func NewPoint(p Vec) Point {
	return Point{ID: uuid.NewString(), X: p.X, Y: p.Y}
}

// Pos returns the point's coordinates.
func (p Point) Pos() Vec { return Vec{p.X, p.Y} }

// Clone returns a copy that shares no memory with p.
func (p Point) Clone() Point {
	out := p
	if p.PixelIndex != nil {
		idx := *p.PixelIndex
		out.PixelIndex = &idx
	}
	if p.PixelData != nil {
		pd := *p.PixelData
		out.PixelData = &pd
	}
	return out
}

// ClonePoints deep-copies a point slice. A nil slice stays nil.
func ClonePoints(pts []Point) []Point {
	if pts == nil {
		return nil
	}
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = p.Clone()
	}
	return out
}

// PixelIndex returns the row-major index of the pixel containing p.
func PixelIndex(p Vec, size Size) int {
	return int(math.Floor(p.Y))*size.W + int(math.Floor(p.X))
}

// Line is a measured segment between two points.
type Line struct {
	ID     string  `json:"id"`
	Start  Point   `json:"start"`
	End    Point   `json:"end"`
	Length float64 `json:"length"`
	Color  Color   `json:"color"`
	Width  float64 `json:"width"`
}

// NewLine builds a line between start and end and computes its length.
func NewLine(start, end Point, col Color, width float64) Line {
	l := Line{ID: uuid.NewString(), Start: start, End: end, Color: col, Width: width}
	l.Recompute()
	return l
}

// SetEnds replaces both endpoints and refreshes the length.
func (l *Line) SetEnds(start, end Point) {
	l.Start = start
	l.End = end
	l.Recompute()
}

// Recompute refreshes Length from the endpoints.
func (l *Line) Recompute() {
	l.Length = l.Start.Pos().Dist(l.End.Pos())
}

// Midpoint returns the centre of the segment.
func (l Line) Midpoint() Vec {
	return Vec{(l.Start.X + l.End.X) / 2, (l.Start.Y + l.End.Y) / 2}
}

// Clone returns a deep copy of l.
func (l Line) Clone() Line {
	out := l
	out.Start = l.Start.Clone()
	out.End = l.End.Clone()
	return out
}

// CloneLines deep-copies a line slice. A nil slice stays nil.
func CloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}

// CropRect is a crop region in image space. While a drag is in progress
// Width and Height carry the signed drag delta.
type CropRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Normalize returns the rectangle with non-negative extents.
func (r CropRect) Normalize() CropRect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Clamp normalizes r and limits it to a W×H image.
func (r CropRect) Clamp(size Size) CropRect {
	r = r.Normalize()
	x0 := clamp(r.X, 0, float64(size.W))
	y0 := clamp(r.Y, 0, float64(size.H))
	x1 := clamp(r.X+r.Width, 0, float64(size.W))
	y1 := clamp(r.Y+r.Height, 0, float64(size.H))
	return CropRect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty reports whether the normalized rectangle has zero area.
func (r CropRect) Empty() bool {
	n := r.Normalize()
	return n.Width == 0 || n.Height == 0
}

// Pixels rounds the normalized rectangle to whole pixels.
func (r CropRect) Pixels() image.Rectangle {
	n := r.Normalize()
	return image.Rect(
		int(math.Round(n.X)), int(math.Round(n.Y)),
		int(math.Round(n.X+n.Width)), int(math.Round(n.Y+n.Height)),
	)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
