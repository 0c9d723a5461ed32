package profile

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/example/lineprobe/internal/geom"
)

// Stats are population statistics of a profile's intensity.
type Stats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"stdDev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Range is Max-Min.
func (s Stats) Range() float64 { return s.Max - s.Min }

// Summarise computes Stats. An empty profile gives the zero value.
func Summarise(samples []Sample) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	v := Intensities(samples)
	mean, variance := stat.PopMeanVariance(v, nil)
	return Stats{
		Count:    len(v),
		Mean:     mean,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Min:      floats.Min(v),
		Max:      floats.Max(v),
	}
}

// Bounds is an axis-aligned box in image space.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// PointSummary describes a set of picked points.
type PointSummary struct {
	Count         int       `json:"count"`
	TotalDistance float64   `json:"totalDistance"`
	Segments      []float64 `json:"segments"`
	Centroid      geom.Vec  `json:"centroid"`
	Bounds        Bounds    `json:"bounds"`
}

// SummarisePoints walks pts in order. TotalDistance is the polyline length
// through them.
func SummarisePoints(pts []geom.Point) PointSummary {
	s := PointSummary{Count: len(pts)}
	if len(pts) == 0 {
		return s
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
		if i > 0 {
			d := pts[i-1].Pos().Dist(p.Pos())
			s.Segments = append(s.Segments, d)
		}
	}
	s.TotalDistance = floats.Sum(s.Segments)
	s.Centroid = geom.Vec{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
	s.Bounds = Bounds{MinX: floats.Min(xs), MinY: floats.Min(ys), MaxX: floats.Max(xs), MaxY: floats.Max(ys)}
	return s
}
