package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/example/lineprobe/internal/appstate"
	"github.com/example/lineprobe/internal/source"
)

// viewCmd opens the canvas window on one or more frame sources.
type viewCmd struct {
	*root
	fs        *flag.FlagSet
	url       string
	camera    bool
	discover  bool
	reconnect time.Duration
	video     string
	format    string
	fps       int
	maxWidth  int
	screen    bool
	portal    bool
	interval  time.Duration
	clipboard bool
	saveDir   string
	files     []string
}

func (v *viewCmd) FlagSet() *flag.FlagSet {
	return v.fs
}

func parseViewCmd(args []string, r *root) (*viewCmd, error) {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	cfg := r.config
	v := &viewCmd{root: r.subcommand("view"), fs: fs}
	fs.SetOutput(r.stderr)
	fs.Usage = usageFunc(v)
	fs.BoolVar(&v.camera, "camera", false, "receive frames from a websocket camera bridge")
	fs.StringVar(&v.url, "url", cfg.Source.URL, "camera websocket URL")
	fs.BoolVar(&v.discover, "discover", cfg.Source.Discover, "find the camera through mDNS instead of -url")
	fs.DurationVar(&v.reconnect, "reconnect", cfg.Source.Reconnect, "delay before reconnecting to the camera; negative disables")
	fs.StringVar(&v.video, "video", "", "read frames from a video file, URL or device through ffmpeg")
	fs.StringVar(&v.format, "format", "", "ffmpeg input format for -video, e.g. v4l2")
	fs.IntVar(&v.fps, "fps", 0, "frame rate limit for -video")
	fs.IntVar(&v.maxWidth, "max-width", 0, "scale -video frames down to this width")
	fs.BoolVar(&v.screen, "screen", false, "grab the X11 screen")
	fs.BoolVar(&v.portal, "portal", false, "take a screenshot through the desktop portal (Wayland)")
	fs.DurationVar(&v.interval, "interval", 0, "repeat -screen grabs or cycle image files at this interval")
	fs.BoolVar(&v.clipboard, "clipboard", false, "open the image on the clipboard")
	fs.StringVar(&v.saveDir, "save-dir", cfg.SaveDir, "directory for saved images and exports")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	v.files = fs.Args()
	return v, nil
}

// sources builds the frame sources requested on the command line. Without
// any, the camera is used.
func (v *viewCmd) sources(post func(string)) ([]source.Source, error) {
	var out []source.Source
	if len(v.files) > 0 {
		out = append(out, source.Files{Paths: v.files, Interval: v.interval})
	}
	if v.video != "" {
		out = append(out, source.Video{Input: v.video, Format: v.format, FPS: v.fps, MaxWidth: v.maxWidth})
	}
	if v.screen {
		out = append(out, source.Screen{Interval: v.interval})
	}
	if v.portal {
		out = append(out, source.Portal{Interactive: true})
	}
	if v.clipboard {
		out = append(out, source.Clipboard{})
	}
	if v.camera || len(out) == 0 {
		cam, err := v.newCamera(post)
		if err != nil {
			return nil, err
		}
		out = append(out, cam)
	}
	return out, nil
}

func (v *viewCmd) newCamera(post func(string)) (*source.Camera, error) {
	url := v.url
	if v.discover {
		found, err := source.Browse(context.Background(), 2*time.Second)
		if err != nil {
			return nil, fmt.Errorf("camera discovery: %w", err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("camera discovery: no %s service found", source.ServiceType)
		}
		url = found[0].URL()
		fmt.Fprintf(v.stderr, "using camera %s at %s\n", found[0].Name, url)
	}
	cam := source.NewCamera(url)
	cam.Reconnect = v.reconnect
	cam.OnStatus = func(s source.Status, err error) {
		if err != nil {
			post(fmt.Sprintf("camera %s: %v", s, err))
			return
		}
		post("camera " + s.String())
	}
	cam.OnFrameError = func(err error) {
		post(fmt.Sprintf("frame load error: %v", err))
	}
	return cam, nil
}

func (v *viewCmd) Run() error {
	var app *appstate.AppState
	post := func(msg string) {
		if app != nil {
			app.Post(msg)
		}
	}
	srcs, err := v.sources(post)
	if err != nil {
		return err
	}
	app = appstate.New([]appstate.Option{
		appstate.WithTitle("lineprobe"),
		appstate.WithSaveDir(v.saveDir),
		appstate.WithTheme(v.activeTheme),
		appstate.WithNotifier(v.notifier),
		appstate.WithSources(srcs...),
	}, v.config.SessionOptions(v.activeTheme)...)
	app.Run()
	return nil
}
