// Package crop turns a committed crop rectangle into a new working bitmap.
package crop

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/example/lineprobe/internal/geom"
)

// ErrEmptyRegion is returned when the rectangle covers no pixels of the image.
var ErrEmptyRegion = errors.New("crop: empty region")

// Region normalizes r, clamps it to src and rounds it to whole pixels. The
// result is relative to the image origin.
func Region(r geom.CropRect, src image.Image) (geom.CropRect, image.Rectangle, error) {
	size := geom.SizeOf(src)
	if size.Empty() {
		return geom.CropRect{}, image.Rectangle{}, fmt.Errorf("%w: no image", ErrEmptyRegion)
	}
	n := r.Clamp(size)
	px := n.Pixels()
	if n.Empty() || px.Empty() {
		return n, px, fmt.Errorf("%w: %gx%g at %g,%g", ErrEmptyRegion, n.Width, n.Height, n.X, n.Y)
	}
	return n, px, nil
}

// Extract copies the region r of src into a new bitmap whose origin is the
// region's top-left corner. src is never modified.
func Extract(r geom.CropRect, src image.Image) (*image.RGBA, error) {
	_, px, err := Region(r, src)
	if err != nil {
		return nil, err
	}
	px = px.Add(src.Bounds().Min)
	out := image.NewRGBA(image.Rect(0, 0, px.Dx(), px.Dy()))
	draw.Draw(out, out.Bounds(), src, px.Min, draw.Src)
	return out, nil
}
