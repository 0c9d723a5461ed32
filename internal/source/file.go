package source

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/example/lineprobe/internal/clipboard"
)

// Files delivers still images. With a zero Interval each file is delivered
// once; otherwise the list repeats every Interval until ctx is cancelled.
type Files struct {
	Paths    []string
	Interval time.Duration
}

// Run implements Source.
func (f Files) Run(ctx context.Context, deliver Deliver) error {
	if len(f.Paths) == 0 {
		return errors.New("files: no paths")
	}
	frames := make([]image.Image, 0, len(f.Paths))
	for _, p := range f.Paths {
		img, err := DecodeFile(p)
		if err != nil {
			return err
		}
		frames = append(frames, img)
	}
	if f.Interval <= 0 {
		for _, img := range frames {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			deliver(img)
		}
		return nil
	}
	t := time.NewTicker(f.Interval)
	defer t.Stop()
	for i := 0; ; i++ {
		deliver(frames[i%len(frames)])
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// pasteImage is swapped in tests.
var pasteImage = clipboard.PasteImage

// Clipboard delivers the image currently on the clipboard once.
type Clipboard struct{}

// Run implements Source.
func (Clipboard) Run(ctx context.Context, deliver Deliver) error {
	img, err := pasteImage()
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	deliver(img)
	return nil
}
