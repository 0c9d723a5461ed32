package report

import (
	"bytes"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/profile"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 255 / w), 80, 160, 255})
		}
	}
	return img
}

func TestWriteFullReport(t *testing.T) {
	img := gradient(64, 32)
	size := geom.SizeOf(img)
	p := geom.NewPoint(geom.Vec{X: 10, Y: 5})
	idx := geom.PixelIndex(p.Pos(), size)
	p.PixelIndex = &idx
	line := geom.NewLine(geom.NewPoint(geom.Vec{X: 0, Y: 10}), geom.NewPoint(geom.Vec{X: 60, Y: 10}), geom.MustColor("#00ff00"), 2)
	samples := profile.ForLine(line, img)

	var buf bytes.Buffer
	err := Write(&buf, Report{
		Title:   "bench",
		Created: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Image:   img,
		Points:  []geom.Point{p, geom.NewPoint(geom.Vec{X: 20, Y: 20})},
		Lines:   []geom.Line{line},
		Profile: &Profile{Line: line, Samples: samples, Stats: profile.Summarise(samples)},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:8])
	}
}

func TestWriteWithoutImage(t *testing.T) {
	for _, r := range []Report{
		{Points: []geom.Point{geom.NewPoint(geom.Vec{X: 1, Y: 1})}},
		{Image: image.NewRGBA(image.Rect(0, 0, 0, 0))},
		{Profile: &Profile{}},
	} {
		var buf bytes.Buffer
		if err := Write(&buf, r); err != nil {
			t.Fatalf("write: %v", err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
			t.Fatalf("output is not a PDF")
		}
	}
}
