package render

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"sync"

	"github.com/example/lineprobe/internal/geom"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultLabelSize matches the 12px label font used by the tools.
const DefaultLabelSize = 12

var (
	fontOnce  sync.Once
	labelFont *opentype.Font
	faces     sync.Map // map[float64]font.Face
)

func loadFont() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("parse font: %v", err)
		return
	}
	labelFont = f
}

// Face returns a goregular face at size points, falling back to basicfont
// when the font cannot be parsed.
func Face(size float64) font.Face {
	if size <= 0 {
		size = DefaultLabelSize
	}
	if f, ok := faces.Load(size); ok {
		return f.(font.Face)
	}
	fontOnce.Do(loadFont)
	if labelFont == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(labelFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Printf("font face %v: %v", size, err)
		return basicfont.Face7x13
	}
	actual, _ := faces.LoadOrStore(size, face)
	return actual.(font.Face)
}

// MeasureText returns the advance width and line height of text.
func MeasureText(text string, size float64) (width, height int) {
	face := Face(size)
	d := &font.Drawer{Face: face}
	m := face.Metrics()
	return d.MeasureString(text).Ceil(), m.Ascent.Ceil() + m.Descent.Ceil()
}

// Label describes outlined text anchored to an image-space point.
type Label struct {
	Text    string
	Anchor  geom.Vec
	Offset  image.Point // surface pixels from the anchor to the baseline start
	Size    float64
	Fill    color.Color
	Outline color.Color
	Centred bool
}

// Text draws l with a one pixel outline behind the fill for contrast on any
// background.
func (c *Canvas) Text(l Label) {
	if l.Text == "" {
		return
	}
	face := Face(l.Size)
	s := geom.ImageToScreen(l.Anchor, c.view)
	x := int(math.Round(s.X)) + l.Offset.X
	y := int(math.Round(s.Y)) + l.Offset.Y
	if l.Centred {
		w, _ := MeasureText(l.Text, l.Size)
		x -= w / 2
	}
	if l.Outline != nil {
		d := &font.Drawer{Dst: c.dst, Src: image.NewUniform(l.Outline), Face: face}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				d.Dot = fixed.P(x+dx, y+dy)
				d.DrawString(l.Text)
			}
		}
	}
	fill := l.Fill
	if fill == nil {
		fill = color.White
	}
	d := &font.Drawer{Dst: c.dst, Src: image.NewUniform(fill), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(l.Text)
}

// FormatLength renders a length label in whole pixels.
func FormatLength(px float64) string {
	return fmt.Sprintf("%dpx", int(math.Round(px)))
}
