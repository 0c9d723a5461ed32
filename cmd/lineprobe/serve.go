package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/example/lineprobe/internal/source"
)

// serveCmd runs the camera simulator: frames from files, a video or the
// screen are broadcast to websocket clients with the camera framing.
type serveCmd struct {
	*root
	fs        *flag.FlagSet
	addr      string
	advertise bool
	quality   int
	interval  time.Duration
	video     string
	format    string
	fps       int
	screen    bool
	files     []string
}

func (s *serveCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	s := &serveCmd{root: r.subcommand("serve"), fs: fs}
	fs.SetOutput(r.stderr)
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.addr, "addr", ":12345", "listen address")
	fs.BoolVar(&s.advertise, "advertise", true, "announce the server through mDNS")
	fs.IntVar(&s.quality, "quality", 0, "JPEG quality, 0 for the default")
	fs.DurationVar(&s.interval, "interval", time.Second, "frame interval for image files and screen grabs")
	fs.StringVar(&s.video, "video", "", "serve frames from a video file, URL or device")
	fs.StringVar(&s.format, "format", "", "ffmpeg input format for -video")
	fs.IntVar(&s.fps, "fps", 10, "frame rate limit for -video")
	fs.BoolVar(&s.screen, "screen", false, "serve X11 screen grabs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	s.files = fs.Args()
	if s.source() == nil {
		return nil, usagef(s, "nothing to serve: give image files, -video or -screen")
	}
	return s, nil
}

func (s *serveCmd) source() source.Source {
	switch {
	case s.video != "":
		return source.Video{Input: s.video, Format: s.format, FPS: s.fps}
	case s.screen:
		return source.Screen{Interval: s.interval}
	case len(s.files) > 0:
		return source.Files{Paths: s.files, Interval: s.interval}
	}
	return nil
}

func (s *serveCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	server := source.NewServer()
	if s.quality > 0 {
		server.Quality = s.quality
	}
	httpSrv := &http.Server{Handler: server}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	if s.advertise {
		adv, err := source.Advertise(port)
		if err != nil {
			log.Printf("mdns: %v", err)
		} else {
			defer adv.Shutdown()
		}
	}
	fmt.Fprintf(s.stderr, "serving frames on ws://%s\n", ln.Addr())

	go func() {
		if err := server.Feed(ctx, s.source()); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("frame source: %v", err)
		}
	}()
	if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
