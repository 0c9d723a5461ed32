package theme

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
)

func TestParseColours(t *testing.T) {
	th, err := Parse(strings.NewReader(`
// comment
Name: Mine
background: #112233
CropShade: #00000080
LabelFill: red
Unknown: #ffffff
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if th.Name != "Mine" {
		t.Errorf("name %q", th.Name)
	}
	if th.Background != (color.RGBA{0x11, 0x22, 0x33, 255}) {
		t.Errorf("background %v", th.Background)
	}
	if th.CropShade.A != 0x80 {
		t.Errorf("crop shade %v", th.CropShade)
	}
	if th.LabelFill != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("label fill %v", th.LabelFill)
	}
	if th.Foreground != Default().Foreground {
		t.Errorf("missing keys should keep defaults")
	}
}

func TestParseRejectsBadColour(t *testing.T) {
	if _, err := Parse(strings.NewReader("Background: #12")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	orig := Default()
	orig.PlotLine = color.RGBA{1, 2, 3, 4}
	var buf bytes.Buffer
	if err := Format(&buf, orig); err != nil {
		t.Fatalf("format: %v", err)
	}
	back, err := Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *back != *orig {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", back, orig)
	}
}

func TestLoaderEmbedded(t *testing.T) {
	l := &Loader{}
	for _, name := range Embedded() {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if th.Name == "" {
			t.Errorf("%s has no name", name)
		}
	}
	if len(Embedded()) < 2 {
		t.Fatalf("expected built-in themes, got %v", Embedded())
	}
	if _, err := l.Load("does-not-exist"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}
