package geom

import "math"

const (
	MinZoom = 0.1
	MaxZoom = 5.0
	// ZoomStep is the factor applied by ZoomIn and ZoomOut.
	ZoomStep = 1.2
	// DefaultFitMargin leaves a border around a fitted image.
	DefaultFitMargin = 0.9
)

// Viewport is the canvas element's placement in client space.
type Viewport struct {
	Origin Vec     `json:"origin"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ViewTransform maps image space onto the canvas. A canvas position is
// ImageOffset + Pan + image*ImageScale*Zoom.
type ViewTransform struct {
	Zoom        float64 `json:"zoom"`
	Pan         Vec     `json:"pan"`
	ImageScale  float64 `json:"imageScale"`
	ImageOffset Vec     `json:"imageOffset"`
}

// Identity returns a 1:1 transform anchored at the canvas origin.
func Identity() ViewTransform {
	return ViewTransform{Zoom: 1, ImageScale: 1}
}

// Scale is the combined image-to-canvas scale factor.
func (t ViewTransform) Scale() float64 {
	s := t.ImageScale * t.Zoom
	if s <= 0 {
		return 1
	}
	return s
}

// ClampZoom limits z to [MinZoom, MaxZoom]. NaN maps to 1.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return clamp(z, MinZoom, MaxZoom)
}

// SetZoom sets the user zoom, clamped.
func (t *ViewTransform) SetZoom(z float64) { t.Zoom = ClampZoom(z) }

// ZoomIn multiplies the zoom by ZoomStep.
func (t *ViewTransform) ZoomIn() { t.SetZoom(t.Zoom * ZoomStep) }

// ZoomOut divides the zoom by ZoomStep.
func (t *ViewTransform) ZoomOut() { t.SetZoom(t.Zoom / ZoomStep) }

// Wheel zooms in for a negative delta and out for a positive one.
func (t *ViewTransform) Wheel(deltaY float64) {
	switch {
	case deltaY < 0:
		t.ZoomIn()
	case deltaY > 0:
		t.ZoomOut()
	}
}

// PanBy shifts the view by d canvas pixels.
func (t *ViewTransform) PanBy(d Vec) { t.Pan = t.Pan.Add(d) }

// Fit scales the image to fill margin of the viewport and centres it. Zoom
// returns to 1 and the pan is cleared.
func Fit(vp Viewport, img Size, margin float64) ViewTransform {
	if img.Empty() || vp.Width <= 0 || vp.Height <= 0 {
		return Identity()
	}
	if margin <= 0 || margin > 1 {
		margin = DefaultFitMargin
	}
	scale := math.Min(vp.Width/float64(img.W), vp.Height/float64(img.H)) * margin
	return centred(vp, img, scale)
}

// Actual shows the image at 1:1 centred in the viewport.
func Actual(vp Viewport, img Size) ViewTransform {
	if img.Empty() {
		return Identity()
	}
	return centred(vp, img, 1)
}

func centred(vp Viewport, img Size, scale float64) ViewTransform {
	return ViewTransform{
		Zoom:       1,
		ImageScale: scale,
		ImageOffset: Vec{
			X: (vp.Width - float64(img.W)*scale) / 2,
			Y: (vp.Height - float64(img.H)*scale) / 2,
		},
	}
}
