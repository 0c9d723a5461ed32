package appstate

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/lineprobe/internal/canvas"
	"github.com/example/lineprobe/internal/geom"
)

// statusInfo is what the status bar shows.
type statusInfo struct {
	Size       geom.Size
	Zoom       float64 // combined image-to-screen scale
	Pointer    *geom.Vec
	Pixel      *geom.PixelData
	Profile    *canvas.Profile
	Message    string
	MessageEnd time.Time
}

func (s statusInfo) String() string {
	return s.text(time.Now())
}

func (s statusInfo) text(now time.Time) string {
	if s.Size.Empty() {
		if s.Message != "" && now.Before(s.MessageEnd) {
			return s.Message
		}
		return "waiting for an image"
	}
	parts := []string{
		fmt.Sprintf("%dx%d", s.Size.W, s.Size.H),
		fmt.Sprintf("%.0f%%", s.Zoom*100),
	}
	if s.Pointer != nil {
		p := fmt.Sprintf("x %.1f y %.1f", s.Pointer.X, s.Pointer.Y)
		if s.Pixel != nil {
			p += fmt.Sprintf(" rgb(%d,%d,%d)", s.Pixel.R, s.Pixel.G, s.Pixel.B)
		}
		parts = append(parts, p)
	}
	if s.Profile != nil {
		st := s.Profile.Stats
		parts = append(parts, fmt.Sprintf("profile %.1f px mean %.1f sd %.1f min %.0f max %.0f",
			s.Profile.Line.Length, st.Mean, st.StdDev, st.Min, st.Max))
	}
	if s.Message != "" && now.Before(s.MessageEnd) {
		parts = append(parts, s.Message)
	}
	return strings.Join(parts, " | ")
}
