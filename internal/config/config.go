package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/lineprobe/internal/canvas"
	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/source"
	"github.com/example/lineprobe/internal/theme"
	"github.com/example/lineprobe/internal/tools"
)

// View holds viewport settings.
type View struct {
	CropReset canvas.CropReset
	FitMargin float64
}

// Select holds point picker settings.
type Select struct {
	PointSize     float64
	PointColor    geom.Color
	ShowNumbers   bool
	ShowPixelData bool
}

// Draw holds line tool settings.
type Draw struct {
	LineWidth  float64
	LineColor  geom.Color
	ShowLength bool
	Mode       tools.DrawMode
}

// Source holds the live frame source settings.
type Source struct {
	URL       string
	Reconnect time.Duration // negative disables reconnecting
	Discover  bool
}

// Notify holds notification settings.
type Notify struct {
	Crop   bool
	Export bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	View    View
	Select  Select
	Draw    Draw
	Source  Source
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	sel := tools.DefaultSelectSettings()
	drw := tools.DefaultDrawSettings()
	return &Config{
		View: View{CropReset: canvas.ResetFit, FitMargin: geom.DefaultFitMargin},
		Select: Select{
			PointSize:     sel.PointSize,
			PointColor:    sel.PointColor,
			ShowNumbers:   sel.ShowNumbers,
			ShowPixelData: sel.ShowPixelData,
		},
		Draw: Draw{
			LineWidth:  drw.LineWidth,
			LineColor:  drw.LineColor,
			ShowLength: drw.ShowLength,
			Mode:       drw.Mode,
		},
		Source: Source{URL: source.DefaultURL, Reconnect: source.DefaultReconnect},
		Themes: make(map[string]*theme.Theme),
	}
}

// SelectSettings combines the [select] section with the overlay colours
// of th.
func (c *Config) SelectSettings(th *theme.Theme) tools.SelectSettings {
	s := tools.DefaultSelectSettings()
	s.PointSize = c.Select.PointSize
	s.PointColor = c.Select.PointColor
	s.ShowNumbers = c.Select.ShowNumbers
	s.ShowPixelData = c.Select.ShowPixelData
	if th != nil {
		s.LabelFill = geom.Color(th.LabelFill)
		s.LabelOutline = geom.Color(th.LabelOutline)
	}
	return s
}

// DrawSettings combines the [draw] section with the overlay colours of th.
func (c *Config) DrawSettings(th *theme.Theme) tools.DrawSettings {
	s := tools.DefaultDrawSettings()
	s.LineWidth = c.Draw.LineWidth
	s.LineColor = c.Draw.LineColor
	s.ShowLength = c.Draw.ShowLength
	s.Mode = c.Draw.Mode
	if th != nil {
		s.MarkerColor = geom.Color(th.DrawMarker)
		s.LabelFill = geom.Color(th.LabelFill)
		s.LabelOutline = geom.Color(th.LabelOutline)
	}
	return s
}

// CropSettings takes the crop outline colours from th.
func (c *Config) CropSettings(th *theme.Theme) tools.CropSettings {
	s := tools.DefaultCropSettings()
	if th != nil {
		s.StrokeColor = geom.Color(th.CropStroke)
		s.ShadeColor = geom.Color(th.CropShade)
	}
	return s
}

// SessionOptions returns the canvas options the configuration implies.
func (c *Config) SessionOptions(th *theme.Theme) []canvas.Option {
	return []canvas.Option{
		canvas.WithFitMargin(c.View.FitMargin),
		canvas.WithCropReset(c.View.CropReset),
		canvas.WithSelectSettings(c.SelectSettings(th)),
		canvas.WithDrawSettings(c.DrawSettings(th)),
		canvas.WithCropSettings(c.CropSettings(th)),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[view]\n")
	fmt.Fprintf(&sb, "crop_reset = %s\n", c.View.CropReset)
	fmt.Fprintf(&sb, "fit_margin = %g\n", c.View.FitMargin)
	sb.WriteString("\n")

	sb.WriteString("[select]\n")
	fmt.Fprintf(&sb, "point_size = %g\n", c.Select.PointSize)
	fmt.Fprintf(&sb, "point_color = %s\n", c.Select.PointColor.Hex())
	fmt.Fprintf(&sb, "show_numbers = %v\n", c.Select.ShowNumbers)
	fmt.Fprintf(&sb, "show_pixel_data = %v\n", c.Select.ShowPixelData)
	sb.WriteString("\n")

	sb.WriteString("[draw]\n")
	fmt.Fprintf(&sb, "line_width = %g\n", c.Draw.LineWidth)
	fmt.Fprintf(&sb, "line_color = %s\n", c.Draw.LineColor.Hex())
	fmt.Fprintf(&sb, "show_length = %v\n", c.Draw.ShowLength)
	fmt.Fprintf(&sb, "mode = %s\n", c.Draw.Mode)
	sb.WriteString("\n")

	sb.WriteString("[source]\n")
	if c.Source.URL != "" {
		fmt.Fprintf(&sb, "url = %s\n", c.Source.URL)
	}
	fmt.Fprintf(&sb, "reconnect = %s\n", c.Source.Reconnect)
	fmt.Fprintf(&sb, "discover = %v\n", c.Source.Discover)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "crop = %v\n", c.Notify.Crop)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		theme.Format(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}
