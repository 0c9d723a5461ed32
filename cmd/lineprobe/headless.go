package main

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/example/lineprobe/internal/canvas"
	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/source"
	"github.com/example/lineprobe/internal/tools"
)

// headless is a canvas session sized to its image so that client and image
// coordinates coincide. Commands drive the tools through it exactly as the
// window does.
type headless struct {
	*canvas.Session
	profiles []canvas.Profile
}

func newHeadless(r *root, img image.Image) (*headless, error) {
	h := &headless{}
	b := img.Bounds()
	opts := append(r.config.SessionOptions(r.activeTheme),
		canvas.WithViewport(geom.Viewport{Width: float64(b.Dx()), Height: float64(b.Dy())}),
		canvas.WithProfileListener(func(p canvas.Profile) { h.profiles = append(h.profiles, p) }),
	)
	h.Session = canvas.New(opts...)
	if err := h.LoadFrame(img); err != nil {
		return nil, err
	}
	h.Actual()
	// Every segment is independent, whatever the configured mode.
	if err := h.Dispatch(tools.UpdateSetting{ToolID: tools.DrawID, Key: "mode", Value: tools.DrawModeDrag}); err != nil {
		return nil, err
	}
	return h, nil
}

func loadHeadless(r *root, path string) (*headless, error) {
	img, err := source.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return newHeadless(r, img)
}

func (h *headless) click(p geom.Vec) {
	h.Pointer(tools.MouseDown, p)
	h.Pointer(tools.MouseUp, p)
}

func (h *headless) drag(from, to geom.Vec) {
	h.Pointer(tools.MouseDown, from)
	h.Pointer(tools.MouseMove, to)
	h.Pointer(tools.MouseUp, to)
}

// addPoint picks a point with the select tool.
func (h *headless) addPoint(p geom.Vec) {
	h.ActivateTool(tools.SelectID)
	h.click(p)
}

// addLine draws a segment and returns its profile.
func (h *headless) addLine(from, to geom.Vec) (canvas.Profile, error) {
	h.ActivateTool(tools.DrawID)
	n := len(h.profiles)
	h.drag(from, to)
	if len(h.profiles) == n {
		return canvas.Profile{}, fmt.Errorf("no line between %v and %v", from, to)
	}
	return h.profiles[len(h.profiles)-1], nil
}

// crop drags a crop rectangle and commits it.
func (h *headless) crop(r geom.CropRect) (*image.RGBA, error) {
	h.ActivateTool(tools.CropID)
	h.drag(geom.Vec{X: r.X, Y: r.Y}, geom.Vec{X: r.X + r.Width, Y: r.Y + r.Height})
	return h.CommitCrop()
}

// parseFloats parses n comma or space separated numbers.
func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d numbers in %q", n, s)
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseArgs(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}

// pointList collects repeated -point x,y flags.
type pointList []geom.Vec

func (p *pointList) String() string {
	parts := make([]string, len(*p))
	for i, v := range *p {
		parts[i] = fmt.Sprintf("%g,%g", v.X, v.Y)
	}
	return strings.Join(parts, " ")
}

func (p *pointList) Set(s string) error {
	v, err := parseFloats(s, 2)
	if err != nil {
		return err
	}
	*p = append(*p, geom.Vec{X: v[0], Y: v[1]})
	return nil
}

// segmentList collects repeated -line x0,y0,x1,y1 flags.
type segmentList [][2]geom.Vec

func (l *segmentList) String() string {
	parts := make([]string, len(*l))
	for i, s := range *l {
		parts[i] = fmt.Sprintf("%g,%g,%g,%g", s[0].X, s[0].Y, s[1].X, s[1].Y)
	}
	return strings.Join(parts, " ")
}

func (l *segmentList) Set(s string) error {
	v, err := parseFloats(s, 4)
	if err != nil {
		return err
	}
	*l = append(*l, [2]geom.Vec{{X: v[0], Y: v[1]}, {X: v[2], Y: v[3]}})
	return nil
}
