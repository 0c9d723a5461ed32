//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Screen grabs the X11 root window. With a zero Interval it grabs once.
type Screen struct {
	// Display overrides $DISPLAY.
	Display  string
	Interval time.Duration
}

// Run implements Source.
func (s Screen) Run(ctx context.Context, deliver Deliver) error {
	conn, err := xgb.NewConnDisplay(s.Display)
	if err != nil {
		return fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()
	if s.Interval <= 0 {
		img, err := grabRoot(conn)
		if err != nil {
			return err
		}
		deliver(img)
		return nil
	}
	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		img, err := grabRoot(conn)
		if err != nil {
			return err
		}
		deliver(img)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

func grabRoot(conn *xgb.Conn) (*image.RGBA, error) {
	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}
	w, h := screen.WidthInPixels, screen.HeightInPixels
	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(screen.Root), 0, 0, w, h, ^uint32(0)).Reply()
	if err != nil {
		return nil, fmt.Errorf("screen pixels: %w", err)
	}
	return zPixmapToRGBA(setup.PixmapFormats, reply.Depth, reply.Data, int(w), int(h))
}

// zPixmapToRGBA converts little-endian BGR(X) pixel data to RGBA. Padding
// bytes are ignored and the result is opaque.
func zPixmapToRGBA(formats []xproto.Format, depth byte, data []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: empty screen geometry", ErrBadFrame)
	}
	bpp := 0
	for _, f := range formats {
		if f.Depth == depth {
			bpp = int(f.BitsPerPixel)
			break
		}
	}
	if bpp < 24 {
		return nil, fmt.Errorf("%w: unsupported depth %d (%d bpp)", ErrBadFrame, depth, bpp)
	}
	px := bpp / 8
	stride := len(data) / height
	if stride*height != len(data) || stride < width*px {
		return nil, fmt.Errorf("%w: unexpected stride", ErrBadFrame)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := data[y*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			o := x * px
			dst[x*4+0] = row[o+2]
			dst[x*4+1] = row[o+1]
			dst[x*4+2] = row[o]
			dst[x*4+3] = 0xff
		}
	}
	return img, nil
}
