//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("clipboard is not supported on this platform")

func CopyImage(image.Image) error { return errUnsupported }
func PasteImage() (image.Image, error) { return nil, errUnsupported }
func CopyText(string) error { return errUnsupported }
func PasteText() (string, error) { return "", errUnsupported }
