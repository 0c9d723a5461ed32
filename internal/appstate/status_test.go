package appstate

import (
	"strings"
	"testing"
	"time"

	"github.com/example/lineprobe/internal/canvas"
	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/profile"
)

func TestStatusWithoutImage(t *testing.T) {
	now := time.Now()
	if got := (statusInfo{}).text(now); got != "waiting for an image" {
		t.Fatalf("got %q", got)
	}
	st := statusInfo{Message: "camera connected", MessageEnd: now.Add(time.Second)}
	if got := st.text(now); got != "camera connected" {
		t.Fatalf("got %q", got)
	}
}

func TestStatusFields(t *testing.T) {
	now := time.Now()
	st := statusInfo{
		Size:       geom.Size{W: 640, H: 480},
		Zoom:       1.5,
		Pointer:    &geom.Vec{X: 10, Y: 20.5},
		Pixel:      &geom.PixelData{R: 1, G: 2, B: 3, A: 255},
		Profile:    &canvas.Profile{Line: geom.Line{Length: 12}, Stats: profile.Stats{Mean: 4, Min: 1, Max: 9}},
		Message:    "saved",
		MessageEnd: now.Add(-time.Second),
	}
	got := st.text(now)
	for _, want := range []string{"640x480", "150%", "x 10.0 y 20.5 rgb(1,2,3)", "profile 12.0 px mean 4.0", "max 9"} {
		if !strings.Contains(got, want) {
			t.Errorf("%q missing %q", got, want)
		}
	}
	if strings.Contains(got, "saved") {
		t.Errorf("expired message shown: %q", got)
	}
}
