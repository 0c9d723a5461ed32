//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestPortalOptions(t *testing.T) {
	prev := portalHandleToken
	portalHandleToken = func() string { return "test-token" }
	t.Cleanup(func() { portalHandleToken = prev })

	for _, p := range []Portal{{}, {Interactive: true, IncludeCursor: true}} {
		values := p.options()
		if len(values) != 4 {
			t.Fatalf("expected 4 options, got %d", len(values))
		}
		if got := values["interactive"].Value(); got != p.Interactive {
			t.Fatalf("interactive = %v", got)
		}
		if got := values["modal"].Value(); got != p.Interactive {
			t.Fatalf("modal = %v", got)
		}
		want := "hidden"
		if p.IncludeCursor {
			want = "embedded"
		}
		if got := values["cursor_mode"].Value(); got != want {
			t.Fatalf("cursor_mode = %v, want %s", got, want)
		}
		if got := values["handle_token"].Value(); got != "test-token" {
			t.Fatalf("handle_token = %v", got)
		}
	}
}

func TestPortalResult(t *testing.T) {
	ok := map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/shot.png")}
	path, err := portalResult([]any{uint32(0), ok})
	if err != nil || path != "/tmp/shot.png" {
		t.Fatalf("path %q err %v", path, err)
	}
	cases := []struct {
		body []any
		want string
	}{
		{[]any{uint32(1), ok}, "code 1"},
		{[]any{uint32(0)}, "malformed"},
		{[]any{uint32(0), map[string]dbus.Variant{}}, "missing image"},
	}
	for _, c := range cases {
		if _, err := portalResult(c.body); err == nil || !strings.Contains(err.Error(), c.want) {
			t.Errorf("%v: got %v, want %q", c.body, err, c.want)
		}
	}
}
