package geom

import (
	"encoding/json"
	"image"
	"image/color"
	"math"
	"testing"
)

func TestScreenToImageNoImage(t *testing.T) {
	if _, ok := ScreenToImage(Vec{10, 10}, Viewport{}, Identity(), Size{}); ok {
		t.Fatalf("expected no mapping without an image")
	}
}

func TestScreenToImageClamps(t *testing.T) {
	vp := Viewport{Origin: Vec{50, 20}, Width: 800, Height: 600}
	size := Size{W: 640, H: 480}
	tr := Fit(vp, size, DefaultFitMargin)
	tr.PanBy(Vec{-30, 12})
	tr.SetZoom(2.5)
	for _, c := range []Vec{{-1e6, -1e6}, {1e6, 1e6}, {0, 1e6}, {400, 300}, {-5, 700}} {
		p, ok := ScreenToImage(c, vp, tr, size)
		if !ok {
			t.Fatalf("mapping failed for %v", c)
		}
		if p.X < 0 || p.X > 640 || p.Y < 0 || p.Y > 480 {
			t.Fatalf("%v mapped outside the image: %v", c, p)
		}
	}
}

func TestScreenToImageInvertsImageToScreen(t *testing.T) {
	vp := Viewport{Origin: Vec{8, 30}, Width: 1000, Height: 700}
	size := Size{W: 640, H: 480}
	tr := Fit(vp, size, DefaultFitMargin)
	tr.SetZoom(1.7)
	tr.PanBy(Vec{15, -40})
	want := Vec{123.5, 77.25}
	client := ImageToScreen(want, tr).Add(vp.Origin)
	got, ok := ScreenToImage(client, vp, tr, size)
	if !ok {
		t.Fatalf("mapping failed")
	}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Fatalf("round trip: got %v want %v", got, want)
	}
}

func TestZoomClamp(t *testing.T) {
	tr := Identity()
	tr.SetZoom(10)
	if tr.Zoom != MaxZoom {
		t.Fatalf("zoom 10 gave %v", tr.Zoom)
	}
	tr.SetZoom(0.01)
	if tr.Zoom != MinZoom {
		t.Fatalf("zoom 0.01 gave %v", tr.Zoom)
	}
	tr.SetZoom(1)
	for i := 0; i < 50; i++ {
		tr.Wheel(-1)
	}
	if tr.Zoom != MaxZoom {
		t.Fatalf("wheel in capped at %v", tr.Zoom)
	}
}

func TestFitCentres(t *testing.T) {
	tr := Fit(Viewport{Width: 1000, Height: 500}, Size{W: 200, H: 100}, 0.9)
	if math.Abs(tr.ImageScale-4.5) > 1e-9 {
		t.Fatalf("scale %v", tr.ImageScale)
	}
	if math.Abs(tr.ImageOffset.X-50) > 1e-9 || math.Abs(tr.ImageOffset.Y-25) > 1e-9 {
		t.Fatalf("offset %v", tr.ImageOffset)
	}
}

func TestCropRectNormalizeAndClamp(t *testing.T) {
	r := CropRect{X: 50, Y: 50, Width: -30, Height: -20}
	n := r.Normalize()
	if n != (CropRect{X: 20, Y: 30, Width: 30, Height: 20}) {
		t.Fatalf("normalize: %+v", n)
	}
	c := CropRect{X: -10, Y: 90, Width: 40, Height: 40}.Clamp(Size{W: 100, H: 100})
	if c != (CropRect{X: 0, Y: 90, Width: 30, Height: 10}) {
		t.Fatalf("clamp: %+v", c)
	}
	if !(CropRect{X: 5, Y: 5, Width: 0, Height: 9}).Empty() {
		t.Fatalf("zero width should be empty")
	}
}

func TestSamplePixel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 1, color.RGBA{10, 20, 30, 255})
	px, ok := SamplePixel(img, Vec{2.7, 1.2})
	if !ok || px != (PixelData{10, 20, 30, 255}) {
		t.Fatalf("got %+v ok=%v", px, ok)
	}
	px, ok = SamplePixel(img, Vec{4, 4})
	if ok || px != (PixelData{}) {
		t.Fatalf("out of bounds sample %+v ok=%v", px, ok)
	}
}

func TestLineLength(t *testing.T) {
	l := NewLine(NewPoint(Vec{10, 10}), NewPoint(Vec{110, 10}), MustColor("#00ff00"), 2)
	if l.Length != 100 {
		t.Fatalf("length %v", l.Length)
	}
	l.SetEnds(l.Start, NewPoint(Vec{10, 40}))
	if l.Length != 30 {
		t.Fatalf("length after move %v", l.Length)
	}
}

func TestPointCloneIsDeep(t *testing.T) {
	idx := 7
	p := Point{ID: "a", PixelIndex: &idx, PixelData: &PixelData{R: 1}}
	c := p.Clone()
	*c.PixelIndex = 9
	c.PixelData.R = 2
	if *p.PixelIndex != 7 || p.PixelData.R != 1 {
		t.Fatalf("clone shares memory with the original")
	}
}

func TestColorJSON(t *testing.T) {
	var out struct {
		C Color `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"c":"orange"}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.C.Hex() != "#ffa500" {
		t.Fatalf("orange parsed as %s", out.C.Hex())
	}
	if _, err := ParseColor("#12"); err == nil {
		t.Fatalf("expected error for short hex")
	}
	if c := MustColor("#0099ff80"); c.A != 0x80 || c.B != 0xff {
		t.Fatalf("rgba hex parsed as %+v", c)
	}
}
