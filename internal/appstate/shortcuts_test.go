package appstate

import (
	"testing"

	"golang.org/x/mobile/event/key"
)

func TestKeymapLookup(t *testing.T) {
	km := newKeymap(defaultShortcuts())
	cases := []struct {
		name string
		e    key.Event
		want string
	}{
		{"ctrl z with code", key.Event{Rune: 'z', Code: key.CodeZ, Modifiers: key.ModControl}, actionUndo},
		{"ctrl z code only", key.Event{Code: key.CodeZ, Modifiers: key.ModControl}, actionUndo},
		{"plus with shift", key.Event{Rune: '+', Code: key.CodeEqualSign, Modifiers: key.ModShift}, actionZoomIn},
		{"escape", key.Event{Code: key.CodeEscape}, actionDeactivate},
		{"enter", key.Event{Rune: '\r', Code: key.CodeReturnEnter}, actionApplyCrop},
		{"digit", key.Event{Rune: '2', Code: key.Code2}, actionDraw},
		{"upper case", key.Event{Rune: 'P', Code: key.CodeP, Modifiers: key.ModShift}, actionCopyCSV},
		{"ctrl q", key.Event{Rune: 'q', Code: key.CodeQ, Modifiers: key.ModControl}, actionQuit},
	}
	for _, c := range cases {
		got, ok := km.lookup(c.e)
		if !ok || got != c.want {
			t.Errorf("%s: got %q %v, want %q", c.name, got, ok, c.want)
		}
	}
}

func TestKeymapRejects(t *testing.T) {
	km := newKeymap(defaultShortcuts())
	for _, e := range []key.Event{
		{Rune: 'z', Code: key.CodeZ},
		{Rune: '1', Code: key.Code1, Modifiers: key.ModControl},
		{Rune: 'x', Code: key.CodeX},
	} {
		if action, ok := km.lookup(e); ok {
			t.Errorf("%+v matched %q", e, action)
		}
	}
}

func TestShortcutString(t *testing.T) {
	if got := ctrl('z', key.CodeZ).String(); got != "Ctrl+Z" {
		t.Fatalf("got %q", got)
	}
	if got := (KeyShortcut{Code: key.CodeEscape}).String(); got != "Esc" {
		t.Fatalf("got %q", got)
	}
}
