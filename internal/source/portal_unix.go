//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

// Portal asks the desktop portal for a screenshot. It works on Wayland
// sessions where Screen cannot read the root window. One frame is delivered.
type Portal struct {
	// Interactive lets the user pick the area in the portal dialog.
	Interactive   bool
	IncludeCursor bool
}

var portalHandleToken = func() string {
	return fmt.Sprintf("lineprobe_%d", time.Now().UnixNano())
}

func (p Portal) options() map[string]dbus.Variant {
	cursorMode := "hidden"
	if p.IncludeCursor {
		cursorMode = "embedded"
	}
	return map[string]dbus.Variant{
		"interactive":  dbus.MakeVariant(p.Interactive),
		"modal":        dbus.MakeVariant(p.Interactive),
		"handle_token": dbus.MakeVariant(portalHandleToken()),
		"cursor_mode":  dbus.MakeVariant(cursorMode),
	}
}

// Run implements Source.
func (p Portal) Run(ctx context.Context, deliver Deliver) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("dbus connect: %w", err)
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	var handle dbus.ObjectPath
	call := obj.CallWithContext(ctx, "org.freedesktop.portal.Screenshot.Screenshot", 0, "", p.options())
	if call.Err != nil {
		return fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return fmt.Errorf("portal screenshot response: %w", err)
	}

	sigc := make(chan *dbus.Signal, 1)
	conn.Signal(sigc)
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-sigc:
			if !ok {
				return errors.New("portal screenshot: connection closed")
			}
			if sig.Path != handle || sig.Name != "org.freedesktop.portal.Request.Response" {
				continue
			}
			path, err := portalResult(sig.Body)
			if err != nil {
				return err
			}
			img, err := DecodeFile(path)
			if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				log.Printf("remove %s: %v", path, rerr)
			}
			if err != nil {
				return fmt.Errorf("portal screenshot image: %w", err)
			}
			deliver(img)
			return nil
		}
	}
}

// portalResult extracts the file path from a Request.Response body.
func portalResult(body []any) (string, error) {
	if len(body) < 2 {
		return "", errors.New("portal screenshot: malformed response")
	}
	if code, ok := body[0].(uint32); ok && code != 0 {
		return "", fmt.Errorf("portal screenshot: request ended with code %d", code)
	}
	res, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return "", errors.New("portal screenshot: malformed response")
	}
	uri, ok := res["uri"].Value().(string)
	if !ok || uri == "" {
		return "", errors.New("portal screenshot: response missing image data")
	}
	return strings.TrimPrefix(uri, "file://"), nil
}
