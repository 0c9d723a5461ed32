package tools

import (
	"fmt"
	"math"

	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/render"
)

// CropSettings configures the crop outline.
type CropSettings struct {
	StrokeColor geom.Color
	StrokeWidth float64 // on-screen pixels
	Dash        []float64
	ShadeColor  geom.Color
}

// DefaultCropSettings returns a dashed blue outline over a 30% black shade.
func DefaultCropSettings() CropSettings {
	return CropSettings{
		StrokeColor: geom.MustColor("#0099ff"),
		StrokeWidth: 2,
		Dash:        []float64{10, 5},
		ShadeColor:  geom.Color{R: 0, G: 0, B: 0, A: 77},
	}
}

// CropTool lets the user drag out a crop region. The rectangle keeps the
// signed drag extent until it is committed.
type CropTool struct {
	base
	settings CropSettings
	rect     *geom.CropRect
	cropping bool
}

// NewCropTool creates a crop tool.
func NewCropTool(settings CropSettings) *CropTool {
	return &CropTool{base: base{id: CropID, name: "Crop"}, settings: settings}
}

// Rect returns the raw, possibly negative, crop rectangle.
func (c *CropTool) Rect() (geom.CropRect, bool) {
	if c.rect == nil {
		return geom.CropRect{}, false
	}
	return *c.rect, true
}

// Cropping reports whether a drag is in progress.
func (c *CropTool) Cropping() bool { return c.cropping }

// Deactivate abandons a drag in flight. A finished rectangle is kept.
func (c *CropTool) Deactivate() {
	if c.cropping {
		c.rect = nil
		c.cropping = false
	}
	c.base.Deactivate()
}

// MouseDown fixes the drag origin.
func (c *CropTool) MouseDown(ev Event) {
	c.rect = &geom.CropRect{X: ev.Pos.X, Y: ev.Pos.Y}
	c.cropping = true
}

// MouseMove updates the signed extent.
func (c *CropTool) MouseMove(ev Event) {
	if !c.cropping || c.rect == nil {
		return
	}
	c.rect.Width = ev.Pos.X - c.rect.X
	c.rect.Height = ev.Pos.Y - c.rect.Y
}

// MouseUp ends the drag and keeps the rectangle.
func (c *CropTool) MouseUp(ev Event) {
	if !c.cropping {
		return
	}
	c.MouseMove(ev)
	c.cropping = false
}

// ClearCrop drops the rectangle.
func (c *CropTool) ClearCrop() {
	c.rect = nil
	c.cropping = false
}

func (c *CropTool) HasData() bool { return c.rect != nil }
func (c *CropTool) Clear()        { c.ClearCrop() }
func (c *CropTool) Reset()        { c.ClearCrop() }

func (c *CropTool) Data() ToolData {
	if c.rect == nil {
		return CropState{}
	}
	r := *c.rect
	return CropState{CropArea: &r}
}

// RenderOverlay shades the excluded area and outlines the rectangle.
func (c *CropTool) RenderOverlay(dc *render.Canvas, view ViewState) {
	if c.rect == nil {
		return
	}
	r := c.rect.Normalize()
	dc.Shade(r, c.settings.ShadeColor)
	dc.DashedRect(r, c.settings.StrokeWidth/dc.Scale(), c.settings.StrokeColor, c.settings.Dash)
}

// UIData describes the pending crop.
func (c *CropTool) UIData() UIData {
	d := UIData{
		ToolID: c.id,
		Title:  "Crop region",
		Empty:  "no region selected",
		Settings: []SettingField{
			{Key: "strokeColor", Label: "Outline colour", Kind: SettingColor, Value: c.settings.StrokeColor},
			{Key: "strokeWidth", Label: "Outline width", Kind: SettingNumber, Value: c.settings.StrokeWidth, Min: 1, Max: 10},
		},
	}
	if c.rect == nil {
		return d
	}
	r := c.rect.Normalize()
	d.Summary = fmt.Sprintf("%d×%d", int(math.Round(r.Width)), int(math.Round(r.Height)))
	d.Items = []UIItem{
		{Index: 0, Label: "X", Detail: fmt.Sprintf("%d", int(math.Round(r.X)))},
		{Index: 1, Label: "Y", Detail: fmt.Sprintf("%d", int(math.Round(r.Y)))},
		{Index: 2, Label: "Width", Detail: fmt.Sprintf("%d", int(math.Round(r.Width)))},
		{Index: 3, Label: "Height", Detail: fmt.Sprintf("%d", int(math.Round(r.Height)))},
	}
	d.Actions = []UIAction{
		{Label: "apply", Command: ApplyCrop{}},
		{Label: "clear", Command: ClearTool{ToolID: c.id}},
	}
	return d
}

// SetSetting implements Configurable.
func (c *CropTool) SetSetting(key string, value any) error {
	switch key {
	case "strokeColor":
		col, err := toColor(key, value)
		if err != nil {
			return err
		}
		c.settings.StrokeColor = col
	case "strokeWidth":
		f, err := toPositive(key, value)
		if err != nil {
			return err
		}
		c.settings.StrokeWidth = f
	case "shadeColor":
		col, err := toColor(key, value)
		if err != nil {
			return err
		}
		c.settings.ShadeColor = col
	default:
		return fmt.Errorf("%w: %s.%s", ErrUnknownSetting, c.id, key)
	}
	return nil
}
