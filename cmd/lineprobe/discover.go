package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/example/lineprobe/internal/source"
)

var browse = source.Browse

type discoverCmd struct {
	*root
	fs      *flag.FlagSet
	timeout time.Duration
}

func (d *discoverCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDiscoverCmd(args []string, r *root) (*discoverCmd, error) {
	fs := flag.NewFlagSet("discover", flag.ContinueOnError)
	d := &discoverCmd{root: r.subcommand("discover"), fs: fs}
	fs.SetOutput(r.stderr)
	fs.Usage = usageFunc(d)
	fs.DurationVar(&d.timeout, "timeout", 2*time.Second, "how long to listen for answers")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *discoverCmd) Run() error {
	found, err := browse(context.Background(), d.timeout)
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}
	if len(found) == 0 {
		fmt.Fprintf(d.stderr, "no %s services found\n", source.ServiceType)
		return nil
	}
	for _, s := range found {
		fmt.Fprintf(d.stdout, "%s\t%s\t%s\n", s.Name, s.URL(), strings.Join(s.Info, " "))
	}
	return nil
}
