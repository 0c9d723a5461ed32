//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"errors"
	"image/color"
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestZPixmapToRGBA(t *testing.T) {
	formats := []xproto.Format{{Depth: 24, BitsPerPixel: 32, ScanlinePad: 32}}
	// 2x1 BGRX pixels.
	data := []byte{10, 20, 30, 0, 40, 50, 60, 0}
	img, err := zPixmapToRGBA(formats, 24, data, 2, 1)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{30, 20, 10, 255}) {
		t.Fatalf("pixel 0 %v", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{60, 50, 40, 255}) {
		t.Fatalf("pixel 1 %v", got)
	}
	if _, err := zPixmapToRGBA(formats, 16, data, 2, 1); !errors.Is(err, ErrBadFrame) {
		t.Fatalf("expected ErrBadFrame for unknown depth, got %v", err)
	}
	if _, err := zPixmapToRGBA(formats, 24, data[:7], 2, 1); !errors.Is(err, ErrBadFrame) {
		t.Fatalf("expected ErrBadFrame for short data, got %v", err)
	}
}
