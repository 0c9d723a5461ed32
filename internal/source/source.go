// Package source produces frames for the canvas: a websocket camera feed,
// still files, video through ffmpeg, an X11 screen grab and the clipboard.
//
// Sources run on their own goroutine. The deliver callback is invoked from
// that goroutine; hosts forward frames to their UI goroutine.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrBadFrame is returned when a payload cannot be turned into a frame.
var ErrBadFrame = errors.New("source: bad frame")

// Deliver receives a decoded frame. It must not retain img after
// returning unless it copies it.
type Deliver func(img image.Image)

// Source produces frames until ctx is cancelled or the input is exhausted.
type Source interface {
	Run(ctx context.Context, deliver Deliver) error
}

// Func adapts a function to Source.
type Func func(ctx context.Context, deliver Deliver) error

// Run implements Source.
func (f Func) Run(ctx context.Context, deliver Deliver) error { return f(ctx, deliver) }

// Decode decodes PNG, JPEG, GIF, BMP, TIFF or WebP data.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, format, fmt.Errorf("%w: empty %s image", ErrBadFrame, format)
	}
	return img, format, nil
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte) (image.Image, string, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeFile reads and decodes one image file.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
