package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/lineprobe/internal/geom"
	"github.com/example/lineprobe/internal/profile"
)

// profileCmd samples the intensity along one line of an image.
type profileCmd struct {
	*root
	fs     *flag.FlagSet
	format string
	output string
	file   string
	from   geom.Vec
	to     geom.Vec
}

func (p *profileCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func parseProfileCmd(args []string, r *root) (*profileCmd, error) {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	p := &profileCmd{root: r.subcommand("profile"), fs: fs}
	fs.SetOutput(r.stderr)
	fs.Usage = usageFunc(p)
	fs.StringVar(&p.format, "format", "csv", "output format: csv or json")
	fs.StringVar(&p.output, "o", "", "write samples to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if p.format != "csv" && p.format != "json" {
		return nil, usagef(p, "unknown format %q", p.format)
	}
	if fs.NArg() != 5 {
		return nil, &UsageError{of: p}
	}
	p.file = fs.Arg(0)
	v, err := parseArgs(fs.Args()[1:])
	if err != nil {
		return nil, usagef(p, "%v", err)
	}
	p.from = geom.Vec{X: v[0], Y: v[1]}
	p.to = geom.Vec{X: v[2], Y: v[3]}
	return p, nil
}

func (p *profileCmd) Run() error {
	h, err := loadHeadless(p.root, p.file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", p.file, err)
	}
	prof, err := h.addLine(p.from, p.to)
	if err != nil {
		return err
	}

	var out io.Writer = p.stdout
	if p.output != "" {
		f, err := os.Create(p.output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", p.output, err)
		}
		defer f.Close()
		out = f
	}
	if p.format == "json" {
		err = profile.WriteJSON(out, prof.Samples)
	} else {
		err = profile.WriteCSV(out, prof.Samples)
	}
	if err != nil {
		return err
	}
	st := prof.Stats
	fmt.Fprintf(p.stderr, "length %.1f px, %d samples, mean %.2f, sd %.2f, min %.0f, max %.0f\n",
		prof.Line.Length, len(prof.Samples), st.Mean, st.StdDev, st.Min, st.Max)
	if p.output != "" {
		p.notifier.Export(p.output)
	}
	return nil
}
