package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/example/lineprobe/internal/report"
)

// reportCmd places points and lines on an image and writes a PDF report
// and, optionally, the annotations as JSON.
type reportCmd struct {
	*root
	fs     *flag.FlagSet
	output string
	json   string
	title  string
	points pointList
	lines  segmentList
	file   string
}

func (r *reportCmd) FlagSet() *flag.FlagSet {
	return r.fs
}

func parseReportCmd(args []string, r *root) (*reportCmd, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	c := &reportCmd{root: r.subcommand("report"), fs: fs}
	fs.SetOutput(r.stderr)
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.output, "o", "report.pdf", "output PDF path")
	fs.StringVar(&c.json, "json", "", "also write the annotations as JSON to this path")
	fs.StringVar(&c.title, "title", "", "report title (default: the image file name)")
	fs.Var(&c.points, "point", "point to pick as x,y (repeatable)")
	fs.Var(&c.lines, "line", "line to draw as x0,y0,x1,y1 (repeatable)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.file = fs.Arg(0)
	if c.title == "" {
		c.title = c.file
	}
	return c, nil
}

func (c *reportCmd) Run() error {
	h, err := loadHeadless(c.root, c.file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.file, err)
	}
	for _, p := range c.points {
		h.addPoint(p)
	}
	for _, l := range c.lines {
		if _, err := h.addLine(l[0], l[1]); err != nil {
			return err
		}
	}

	rep := report.Report{
		Title:   c.title,
		Created: time.Now(),
		Image:   h.Image(),
		Points:  h.Select().Points(),
		Lines:   h.Draw().Lines(),
	}
	if last, ok := h.LastProfile(); ok {
		rep.Profile = &report.Profile{Line: last.Line, Samples: last.Samples, Stats: last.Stats}
	}
	f, err := os.Create(c.output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.output, err)
	}
	if err := report.Write(f, rep); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	written := []string{c.output}

	if c.json != "" {
		jf, err := os.Create(c.json)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.json, err)
		}
		if err := h.WriteJSON(jf); err != nil {
			jf.Close()
			return err
		}
		if err := jf.Close(); err != nil {
			return err
		}
		written = append(written, c.json)
	}
	fmt.Fprintf(c.stderr, "%d points, %d lines, wrote %s\n", len(rep.Points), len(rep.Lines), strings.Join(written, ", "))
	c.notifier.Export(c.output)
	return nil
}
