package theme

import (
	"image/color"
)

// Theme defines the colours of the window chrome and of the overlays
// drawn over the image.
type Theme struct {
	Name string

	// General
	Background color.RGBA // behind the canvas
	Foreground color.RGBA // text

	// Chrome
	ToolbarBackground color.RGBA
	PanelBackground   color.RGBA // tool settings panel
	StatusBackground  color.RGBA

	// Tool buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonActive          color.RGBA // the active tool
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Overlays
	CropStroke   color.RGBA
	CropShade    color.RGBA
	LabelFill    color.RGBA
	LabelOutline color.RGBA
	DrawMarker   color.RGBA
	PlotLine     color.RGBA // intensity plot in the side panel
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		PanelBackground:       color.RGBA{235, 235, 235, 255},
		StatusBackground:      color.RGBA{210, 210, 210, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonActive:          color.RGBA{150, 170, 210, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		CropStroke:            color.RGBA{0, 153, 255, 255},
		CropShade:             color.RGBA{0, 0, 0, 77},
		LabelFill:             color.RGBA{255, 255, 255, 255},
		LabelOutline:          color.RGBA{0, 0, 0, 255},
		DrawMarker:            color.RGBA{255, 255, 255, 255},
		PlotLine:              color.RGBA{0, 90, 200, 255},
	}
}
