package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/lineprobe/internal/canvas"
	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/theme"
	"github.com/example/lineprobe/internal/tools"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value. Values may hold '#' and ':' so split
		// on whichever separator comes first.
		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			continue
		}
		key := strings.TrimSpace(line[:sep])
		value := strings.TrimSpace(line[sep+1:])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = theme.SetField(currentTheme, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		case currentSection == "view":
			err = setViewField(&cfg.View, key, value)
		case currentSection == "select":
			err = setSelectField(&cfg.Select, key, value)
		case currentSection == "draw":
			err = setDrawField(&cfg.Draw, key, value)
		case currentSection == "source":
			err = setSourceField(&cfg.Source, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setViewField(v *View, key, value string) error {
	switch strings.ToLower(key) {
	case "crop_reset":
		r, err := canvas.ParseCropReset(value)
		if err != nil {
			return err
		}
		v.CropReset = r
	case "fit_margin":
		f, err := parseFloat(key, value)
		if err != nil {
			return err
		}
		if f <= 0 || f > 1 {
			return fmt.Errorf("fit_margin must be in (0, 1], got %g", f)
		}
		v.FitMargin = f
	}
	return nil
}

func setSelectField(s *Select, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "point_size":
		s.PointSize, err = parsePositive(key, value)
	case "point_color":
		s.PointColor, err = geom.ParseColor(value)
	case "show_numbers":
		s.ShowNumbers, err = parseBool(key, value)
	case "show_pixel_data":
		s.ShowPixelData, err = parseBool(key, value)
	}
	return err
}

func setDrawField(d *Draw, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "line_width":
		d.LineWidth, err = parsePositive(key, value)
	case "line_color":
		d.LineColor, err = geom.ParseColor(value)
	case "show_length":
		d.ShowLength, err = parseBool(key, value)
	case "mode":
		d.Mode, err = tools.ParseDrawMode(value)
	}
	return err
}

func setSourceField(s *Source, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "url":
		s.URL = value
	case "reconnect":
		if value == "off" || value == "never" {
			s.Reconnect = -1
			return nil
		}
		s.Reconnect, err = time.ParseDuration(value)
		if err != nil {
			err = fmt.Errorf("invalid duration for key %s: %w", key, err)
		}
	case "discover":
		s.Discover, err = parseBool(key, value)
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch strings.ToLower(key) {
	case "crop":
		n.Crop = b
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	return f, nil
}

func parsePositive(key, value string) (float64, error) {
	f, err := parseFloat(key, value)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %g", key, f)
	}
	return f, nil
}
