package source

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/mdns"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{200, 100, 50, 255})
		}
	}
	return img
}

func TestFrameMessage(t *testing.T) {
	msg, err := EncodeFrame(testImage(16, 8), 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(string(msg), "basler:") {
		t.Fatalf("message prefix %q", msg[:10])
	}
	img, err := DecodeFrame(msg)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Fatalf("bounds %v", img.Bounds())
	}
}

func TestDecodeFrameRejects(t *testing.T) {
	for _, msg := range []string{"status:ok", "basler:!!!", "basler:aGVsbG8="} {
		if _, err := DecodeFrame([]byte(msg)); !errors.Is(err, ErrBadFrame) {
			t.Errorf("%q: expected ErrBadFrame, got %v", msg, err)
		}
	}
}

// httpHandler upgrades every request, runs fn and then waits briefly for
// the client to hang up.
func httpHandler(fn func(*websocket.Conn), up *websocket.Upgrader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		fn(conn)
		conn.SetReadDeadline(time.Now().Add(time.Second))
		conn.ReadMessage()
	})
}

func wsURL(srv *httptest.Server) string { return "ws" + strings.TrimPrefix(srv.URL, "http") }

func TestCameraReceivesBroadcast(t *testing.T) {
	server := NewServer()
	if err := server.Broadcast(testImage(12, 6)); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	srv := httptest.NewServer(server)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cam := NewCamera(wsURL(srv))
	var statuses []Status
	cam.OnStatus = func(s Status, _ error) { statuses = append(statuses, s) }
	got := make(chan image.Image, 1)
	errc := make(chan error, 1)
	go func() {
		errc <- cam.Run(ctx, func(img image.Image) {
			select {
			case got <- img:
			default:
			}
			cancel()
		})
	}()
	select {
	case img := <-got:
		if img.Bounds().Dx() != 12 {
			t.Fatalf("frame bounds %v", img.Bounds())
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no frame received")
	}
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("run returned %v", err)
	}
	if len(statuses) < 2 || statuses[0] != StatusConnecting || statuses[1] != StatusConnected {
		t.Fatalf("statuses %v", statuses)
	}
}

func TestCameraSkipsBadMessages(t *testing.T) {
	good, err := EncodeFrame(testImage(4, 4), 80)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	up := websocket.Upgrader{}
	srv := httptest.NewServer(httpHandler(func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte("hello"))
		conn.WriteMessage(websocket.TextMessage, []byte("basler:@@@"))
		conn.WriteMessage(websocket.TextMessage, good)
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}, &up))
	defer srv.Close()

	cam := NewCamera(wsURL(srv))
	cam.Reconnect = -1
	var frameErrs []error
	cam.OnFrameError = func(err error) { frameErrs = append(frameErrs, err) }
	frames := 0
	if err := cam.Run(context.Background(), func(image.Image) { frames++ }); err != nil {
		t.Fatalf("run: %v", err)
	}
	if frames != 1 {
		t.Fatalf("delivered %d frames", frames)
	}
	if len(frameErrs) != 1 || !errors.Is(frameErrs[0], ErrBadFrame) {
		t.Fatalf("frame errors %v", frameErrs)
	}
}

func TestCameraReconnects(t *testing.T) {
	msg, _ := EncodeFrame(testImage(2, 2), 80)
	up := websocket.Upgrader{}
	srv := httptest.NewServer(httpHandler(func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, msg)
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
	}, &up))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cam := NewCamera(wsURL(srv))
	cam.Reconnect = 10 * time.Millisecond
	frames := 0
	err := cam.Run(ctx, func(image.Image) {
		frames++
		if frames == 2 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) || frames != 2 {
		t.Fatalf("err %v frames %d", err, frames)
	}
}

func TestCameraDialFailureStopsWithoutReconnect(t *testing.T) {
	cam := NewCamera("ws://127.0.0.1:1")
	cam.Reconnect = -1
	if err := cam.Run(context.Background(), func(image.Image) {}); err == nil {
		t.Fatalf("expected dial error")
	}
}

func TestBrowseFiltersEntries(t *testing.T) {
	orig := query
	t.Cleanup(func() { query = orig })
	query = func(p *mdns.QueryParam) error {
		if p.Service != ServiceType {
			t.Errorf("service %q", p.Service)
		}
		p.Entries <- &mdns.ServiceEntry{Name: "cam1", AddrV4: net.IPv4(10, 0, 0, 2), Port: 12345}
		p.Entries <- &mdns.ServiceEntry{Name: "noaddr", Port: 12345}
		p.Entries <- &mdns.ServiceEntry{Name: "cam1 again", AddrV4: net.IPv4(10, 0, 0, 2), Port: 12345}
		return nil
	}
	found, err := Browse(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(found) != 1 || found[0].URL() != "ws://10.0.0.2:12345" {
		t.Fatalf("found %+v", found)
	}
}

func TestReadPNGStream(t *testing.T) {
	var stream bytes.Buffer
	for i := 0; i < 3; i++ {
		if err := png.Encode(&stream, testImage(5+i, 5)); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	var widths []int
	err := readPNGStream(context.Background(), &stream, func(img image.Image) {
		widths = append(widths, img.Bounds().Dx())
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(widths) != 3 || widths[2] != 7 {
		t.Fatalf("widths %v", widths)
	}
	if err := readPNGStream(context.Background(), strings.NewReader("garbage"), func(image.Image) {}); !errors.Is(err, ErrBadFrame) {
		t.Fatalf("expected ErrBadFrame, got %v", err)
	}
}

func TestFilesDeliversEachOnce(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, name := range []string{"a.png", "b.png"} {
		p := filepath.Join(dir, name)
		f, err := os.Create(p)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		png.Encode(f, testImage(3+i, 3))
		f.Close()
		paths = append(paths, p)
	}
	n := 0
	if err := (Files{Paths: paths}).Run(context.Background(), func(image.Image) { n++ }); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 2 {
		t.Fatalf("delivered %d", n)
	}
	bad := filepath.Join(dir, "bad.png")
	os.WriteFile(bad, []byte("nope"), 0o644)
	if err := (Files{Paths: []string{bad}}).Run(context.Background(), func(image.Image) {}); !errors.Is(err, ErrBadFrame) {
		t.Fatalf("expected ErrBadFrame, got %v", err)
	}
}

func TestClipboardSource(t *testing.T) {
	orig := pasteImage
	t.Cleanup(func() { pasteImage = orig })
	pasteImage = func() (image.Image, error) { return testImage(9, 9), nil }
	var got image.Image
	if err := (Clipboard{}).Run(context.Background(), func(img image.Image) { got = img }); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got == nil || got.Bounds().Dx() != 9 {
		t.Fatalf("got %v", got)
	}
	pasteImage = func() (image.Image, error) { return nil, errors.New("empty") }
	if err := (Clipboard{}).Run(context.Background(), func(image.Image) {}); err == nil {
		t.Fatalf("expected error")
	}
}
