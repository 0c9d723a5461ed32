package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Video decodes frames from a file or capture device through ffmpeg.
type Video struct {
	// Input is a path, URL or device name understood by ffmpeg.
	Input string
	// Format forces the ffmpeg input format, for example "v4l2".
	Format string
	// FPS limits the output frame rate. Zero keeps the input rate.
	FPS int
	// MaxWidth scales frames down to at most this width. Zero keeps the size.
	MaxWidth int
}

func (v Video) outputArgs() ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{
		"format": "image2pipe",
		"vcodec": "png",
	}
	if v.FPS > 0 {
		args["r"] = strconv.Itoa(v.FPS)
	}
	if v.MaxWidth > 0 {
		args["vf"] = fmt.Sprintf("scale='min(%d,iw)':-2", v.MaxWidth)
	}
	return args
}

func (v Video) inputArgs() []ffmpeg.KwArgs {
	if v.Format == "" {
		return nil
	}
	return []ffmpeg.KwArgs{{"f": v.Format}}
}

// Run streams frames until the input ends or ctx is cancelled.
func (v Video) Run(ctx context.Context, deliver Deliver) error {
	if v.Input == "" {
		return errors.New("video: no input")
	}
	r, w := io.Pipe()
	var stderr bytes.Buffer
	cmd := ffmpeg.Input(v.Input, v.inputArgs()...).
		Output("pipe:1", v.outputArgs()).
		WithOutput(w).
		WithErrorOutput(&stderr)
	cmd.Context = ctx

	errc := make(chan error, 1)
	go func() {
		err := cmd.Run()
		w.CloseWithError(err)
		errc <- err
	}()

	err := readPNGStream(ctx, r, deliver)
	r.Close()
	runErr := <-errc
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("ffmpeg %s: %w: %s", v.Input, runErr, lastLine(stderr.String()))
	}
	return nil
}

// readPNGStream decodes concatenated PNG images from r.
func readPNGStream(ctx context.Context, r io.Reader, deliver Deliver) error {
	br := bufio.NewReader(r)
	for i := 0; ; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := br.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		img, err := png.Decode(br)
		if err != nil {
			return fmt.Errorf("%w: video frame %d: %v", ErrBadFrame, i, err)
		}
		deliver(img)
	}
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
