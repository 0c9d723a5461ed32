package appstate

import (
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code identifies the key; Modifiers must match exactly,
// ignoring shift for rune keys.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

const modMask = key.ModControl | key.ModAlt | key.ModMeta

// Matches reports whether e triggers s.
func (s KeyShortcut) Matches(e key.Event) bool {
	mods := e.Modifiers
	if s.Rune != 0 {
		mods &= modMask
	}
	if mods != s.Modifiers {
		return false
	}
	if s.Code != 0 && s.Code == e.Code {
		return true
	}
	return s.Rune != 0 && s.Rune == unicode.ToLower(e.Rune)
}

func (s KeyShortcut) String() string {
	var parts []string
	if s.Modifiers&key.ModControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if s.Modifiers&key.ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	switch {
	case s.Code == key.CodeEscape:
		parts = append(parts, "Esc")
	case s.Code == key.CodeReturnEnter:
		parts = append(parts, "Enter")
	case s.Rune != 0:
		parts = append(parts, strings.ToUpper(string(s.Rune)))
	}
	return strings.Join(parts, "+")
}

// Action names.
const (
	actionUndo       = "undo"
	actionRedo       = "redo"
	actionSelect     = "select"
	actionDraw       = "draw"
	actionCrop       = "crop"
	actionDeactivate = "deactivate"
	actionZoomIn     = "zoomin"
	actionZoomOut    = "zoomout"
	actionFit        = "fit"
	actionActual     = "actual"
	actionApplyCrop  = "applycrop"
	actionCopy       = "copy"
	actionCopyCSV    = "copycsv"
	actionSave       = "save"
	actionExport     = "export"
	actionQuit       = "quit"
)

func ctrl(r rune, c key.Code) KeyShortcut {
	return KeyShortcut{Rune: r, Code: c, Modifiers: key.ModControl}
}

// defaultShortcuts is the key map of the canvas window.
func defaultShortcuts() map[string]shortcutList {
	return map[string]shortcutList{
		actionUndo:       {ctrl('z', key.CodeZ)},
		actionRedo:       {ctrl('y', key.CodeY)},
		actionSelect:     {{Rune: '1'}},
		actionDraw:       {{Rune: '2'}},
		actionCrop:       {{Rune: '3'}},
		actionDeactivate: {{Code: key.CodeEscape}},
		actionZoomIn:     {{Rune: '+'}, {Rune: '='}},
		actionZoomOut:    {{Rune: '-'}},
		actionFit:        {{Rune: '0'}},
		actionActual:     {{Rune: 'a'}},
		actionApplyCrop:  {{Code: key.CodeReturnEnter}},
		actionCopy:       {ctrl('c', key.CodeC)},
		actionCopyCSV:    {{Rune: 'p'}},
		actionSave:       {ctrl('s', key.CodeS)},
		actionExport:     {ctrl('e', key.CodeE)},
		actionQuit:       {{Rune: 'q'}, ctrl('q', key.CodeQ)},
	}
}

// keymap resolves key events to action names.
type keymap []struct {
	shortcut KeyShortcut
	action   string
}

func newKeymap(bindings map[string]shortcutList) keymap {
	var km keymap
	for name, keys := range bindings {
		for _, sc := range keys.KeyboardShortcuts() {
			km = append(km, struct {
				shortcut KeyShortcut
				action   string
			}{sc, name})
		}
	}
	return km
}

// lookup returns the action bound to e.
func (km keymap) lookup(e key.Event) (string, bool) {
	for _, b := range km {
		if b.shortcut.Matches(e) {
			return b.action, true
		}
	}
	return "", false
}
