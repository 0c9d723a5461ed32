package geom

import (
	"image"
	"image/color"
	"math"
)

// ScreenToImage converts a client-space position into image space. The
// result is clamped into [0,W]×[0,H]. ok is false when no image is loaded.
func ScreenToImage(client Vec, vp Viewport, t ViewTransform, img Size) (p Vec, ok bool) {
	if img.Empty() {
		return Vec{}, false
	}
	local := client.Sub(vp.Origin).Sub(t.Pan).Sub(t.ImageOffset)
	p = local.Scale(1 / t.Scale())
	p.X = clamp(p.X, 0, float64(img.W))
	p.Y = clamp(p.Y, 0, float64(img.H))
	return p, true
}

// ImageToScreen maps an image-space point onto the canvas. It is the forward
// transform used for drawing; hit testing always goes through ScreenToImage.
func ImageToScreen(p Vec, t ViewTransform) Vec {
	return p.Scale(t.Scale()).Add(t.ImageOffset).Add(t.Pan)
}

// SamplePixel reads the pixel containing p. Positions outside img yield a
// zero sample and ok == false.
func SamplePixel(img image.Image, p Vec) (px PixelData, ok bool) {
	if img == nil {
		return PixelData{}, false
	}
	b := img.Bounds()
	x := b.Min.X + int(math.Floor(p.X))
	y := b.Min.Y + int(math.Floor(p.Y))
	if !image.Pt(x, y).In(b) {
		return PixelData{}, false
	}
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return PixelData{R: c.R, G: c.G, B: c.B, A: c.A}, true
}
