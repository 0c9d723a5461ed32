// Package profile samples pixel values along a measurement line and
// summarises them.
package profile

import (
	"image"
	"image/color"
	"math"

	"github.com/example/lineprobe/internal/geom"
)

// RGB is a sampled colour without alpha.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Sample is one point of a line profile. Distance is the step index along
// the line starting at 0.
type Sample struct {
	Distance  int     `json:"distance"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Intensity float64 `json:"intensity"`
	RGB       RGB     `json:"rgb"`
}

// Luma returns the Rec. 601 brightness of c.
func Luma(c RGB) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// Along samples img from start to end in ceil(length) steps, inclusive of
// both ends. Positions are rounded to the nearest pixel; those falling
// outside img are skipped, leaving a gap in Distance. A zero-length line
// gives the single start sample.
func Along(start, end geom.Vec, img image.Image) []Sample {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	steps := int(math.Ceil(start.Dist(end)))
	var out []Sample
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		x := int(math.Round(start.X + t*(end.X-start.X)))
		y := int(math.Round(start.Y + t*(end.Y-start.Y)))
		pt := image.Pt(x, y).Add(b.Min)
		if !pt.In(b) {
			continue
		}
		c := color.NRGBAModel.Convert(img.At(pt.X, pt.Y)).(color.NRGBA)
		rgb := RGB{R: c.R, G: c.G, B: c.B}
		out = append(out, Sample{Distance: i, X: x, Y: y, Intensity: Luma(rgb), RGB: rgb})
	}
	return out
}

// ForLine samples img along l.
func ForLine(l geom.Line, img image.Image) []Sample {
	return Along(l.Start.Pos(), l.End.Pos(), img)
}

// Intensities extracts the intensity column.
func Intensities(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Intensity
	}
	return out
}
