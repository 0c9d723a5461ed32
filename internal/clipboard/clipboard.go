// Package clipboard copies the working image and exports to the system
// clipboard and pastes images from it.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
)

var (
	errNoDisplay = errors.New("clipboard needs DISPLAY or WAYLAND_DISPLAY")
	// ErrNoImage is returned by PasteImage when the clipboard holds no image.
	ErrNoImage = errors.New("clipboard does not contain an image")
	// ErrNoText is returned by PasteText when the clipboard holds no text.
	ErrNoText = errors.New("clipboard does not contain text")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode clipboard image: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}
