package tools

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/example/lineprobe/internal/geom"
)

var (
	ErrUnknownTool        = errors.New("unknown tool")
	ErrUnknownSetting     = errors.New("unknown setting")
	ErrInvalidSetting     = errors.New("invalid setting value")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrUnsupportedCommand = errors.New("command not supported by tool manager")
)

// SettingKind tells a presentation layer which control to show.
type SettingKind int

const (
	SettingBool SettingKind = iota
	SettingNumber
	SettingColor
	SettingChoice
)

// SettingField describes one editable tool setting.
type SettingField struct {
	Key     string
	Label   string
	Kind    SettingKind
	Value   any
	Choices []string
	Min     float64
	Max     float64
}

// UIAction is a button a presentation layer may offer.
type UIAction struct {
	Label   string
	Command Command
}

// UIItem is one annotation row, e.g. a point or a line.
type UIItem struct {
	Index   int
	Label   string
	Detail  string
	Color   *geom.Color
	Actions []UIAction
}

// UIData is the structured description of a tool's panel.
type UIData struct {
	ToolID   string
	Title    string
	Summary  string
	Empty    string
	Items    []UIItem
	Settings []SettingField
	Actions  []UIAction
}

func settingError(key string, value any, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s=%v", ErrInvalidSetting, key, value)
	}
	return fmt.Errorf("%w: %s=%v: %v", ErrInvalidSetting, key, value, err)
}

func toFloat(key string, v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, settingError(key, v, err)
		}
		return f, nil
	}
	return 0, settingError(key, v, nil)
}

func toPositive(key string, v any) (float64, error) {
	f, err := toFloat(key, v)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, settingError(key, v, errors.New("must be positive"))
	}
	return f, nil
}

func toBool(key string, v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, settingError(key, v, err)
		}
		return b, nil
	}
	return false, settingError(key, v, nil)
}

func toColor(key string, v any) (geom.Color, error) {
	switch x := v.(type) {
	case geom.Color:
		return x, nil
	case color.RGBA:
		return geom.Color(x), nil
	case string:
		c, err := geom.ParseColor(x)
		if err != nil {
			return geom.Color{}, settingError(key, v, err)
		}
		return c, nil
	}
	return geom.Color{}, settingError(key, v, nil)
}
