package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/png"
	"os"

	"github.com/example/lineprobe/internal/geom"
)

type cropCmd struct {
	*root
	fs     *flag.FlagSet
	output string
	file   string
	rect   geom.CropRect
}

func (c *cropCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCropCmd(args []string, r *root) (*cropCmd, error) {
	fs := flag.NewFlagSet("crop", flag.ContinueOnError)
	c := &cropCmd{root: r.subcommand("crop"), fs: fs}
	fs.SetOutput(r.stderr)
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.output, "o", "cropped.png", "output PNG path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 5 {
		return nil, &UsageError{of: c}
	}
	c.file = fs.Arg(0)
	v, err := parseArgs(fs.Args()[1:])
	if err != nil {
		return nil, usagef(c, "%v", err)
	}
	c.rect = geom.CropRect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	return c, nil
}

func (c *cropCmd) Run() error {
	h, err := loadHeadless(c.root, c.file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.file, err)
	}
	out, err := h.crop(c.rect)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return fmt.Errorf("failed to encode crop: %w", err)
	}
	if err := os.WriteFile(c.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.output, err)
	}
	b := out.Bounds()
	fmt.Fprintf(c.stderr, "cropped to %dx%d, saved %s\n", b.Dx(), b.Dy(), c.output)
	c.notifier.Crop(out)
	return nil
}
