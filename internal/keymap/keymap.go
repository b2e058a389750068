// Package keymap resolves normalized key chords to engine actions. Chords
// use a "ctrl+alt+key" syntax; user overrides replace the whole default
// chord list of the action they name.
package keymap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/tmenu/internal/engine"
)

// quickSwitchSlots is how many modes a chord can jump to directly. Slots one
// through nine default to alt+1..alt+9 and slot ten to alt+0; the rest bind
// only through configuration.
const quickSwitchSlots = 19

// Map is an immutable chord-to-action table. It satisfies
// engine.ActionResolver.
type Map struct {
	bindings map[string]engine.Action
}

// actionTable names every bindable action.
func actionTable() map[string]engine.Action {
	t := map[string]engine.Action{
		"cancel":                  engine.CancelAction{},
		"accept-entry":            engine.AcceptAction{},
		"accept-custom":           engine.AcceptCustomAction{},
		"row-up":                  engine.RowUpAction{},
		"row-down":                engine.RowDownAction{},
		"row-left":                engine.RowLeftAction{},
		"row-right":               engine.RowRightAction{},
		"page-prev":               engine.PagePrevAction{},
		"page-next":               engine.PageNextAction{},
		"row-first":               engine.RowFirstAction{},
		"row-last":                engine.RowLastAction{},
		"row-tab":                 engine.RowTabAction{},
		"row-select":              engine.RowSelectAction{},
		"mode-next":               engine.ModeNextAction{},
		"mode-previous":           engine.ModePrevAction{},
		"toggle-case-sensitivity": engine.ToggleCaseAction{},
		"toggle-sort":             engine.ToggleSortAction{},
		"delete-entry":            engine.DeleteEntryAction{},
		"remove-char-back":        engine.BackspaceAction{},
		"remove-char-forward":     engine.DeleteCharAction{},
		"remove-word-back":        engine.KillWordAction{},
		"remove-to-sol":           engine.KillToStartAction{},
		"remove-to-eol":           engine.KillToEndAction{},
		"move-char-back":          engine.CursorLeftAction{},
		"move-char-forward":       engine.CursorRightAction{},
		"move-front":              engine.CursorHomeAction{},
		"move-end":                engine.CursorEndAction{},
		"paste":                   engine.PasteAction{},
	}
	for i := 0; i < quickSwitchSlots; i++ {
		t[fmt.Sprintf("quick-switch-%d", i+1)] = engine.QuickSwitchAction{Index: i}
	}
	return t
}

func defaultChords() map[string][]string {
	chords := map[string][]string{
		"cancel":                  {"esc", "ctrl+g", "ctrl+c"},
		"accept-entry":            {"enter", "ctrl+j", "alt+enter"},
		"accept-custom":           {"ctrl+o"},
		"row-up":                  {"up", "ctrl+p", "backtab"},
		"row-down":                {"down", "ctrl+n"},
		"row-left":                {"ctrl+pgup"},
		"row-right":               {"ctrl+pgdn"},
		"page-prev":               {"pgup"},
		"page-next":               {"pgdn"},
		"row-first":               {"home"},
		"row-last":                {"end"},
		"row-tab":                 {"tab"},
		"row-select":              {"ctrl+space"},
		"mode-next":               {"shift+right"},
		"mode-previous":           {"shift+left"},
		"toggle-case-sensitivity": {"`"},
		"toggle-sort":             {"alt+`"},
		"delete-entry":            {"shift+delete"},
		"remove-char-back":        {"backspace"},
		"remove-char-forward":     {"delete", "ctrl+d"},
		"remove-word-back":        {"ctrl+w"},
		"remove-to-sol":           {"ctrl+u"},
		"remove-to-eol":           {"ctrl+k"},
		"move-char-back":          {"left", "ctrl+b"},
		"move-char-forward":       {"right", "ctrl+f"},
		"move-front":              {"ctrl+a"},
		"move-end":                {"ctrl+e"},
		"paste":                   {"ctrl+v"},
	}
	for i := 0; i < 9; i++ {
		chords[fmt.Sprintf("quick-switch-%d", i+1)] = []string{fmt.Sprintf("alt+%d", i+1)}
	}
	chords["quick-switch-10"] = []string{"alt+0"}
	return chords
}

// Default returns the built-in bindings.
func Default() *Map {
	m, err := New(nil)
	if err != nil {
		// The static tables cannot conflict; reaching this is a bug.
		panic(err)
	}
	return m
}

// New layers user overrides over the defaults. An override replaces the
// named action's chord list entirely; each list element may itself hold
// several chords separated by commas ("ctrl+j,down"). A chord still bound
// to two actions afterwards is an error, as is an unknown action name or
// malformed chord.
func New(overrides map[string][]string) (*Map, error) {
	actions := actionTable()
	chords := defaultChords()

	for name, list := range overrides {
		if _, ok := actions[name]; !ok {
			return nil, fmt.Errorf("keymap: unknown action %q", name)
		}
		normalized := make([]string, 0, len(list))
		for _, chord := range list {
			for _, part := range strings.Split(chord, ",") {
				nc, err := Normalize(part)
				if err != nil {
					return nil, fmt.Errorf("keymap: action %s: %w", name, err)
				}
				normalized = append(normalized, nc)
			}
		}
		chords[name] = normalized
	}

	names := make([]string, 0, len(chords))
	for name := range chords {
		names = append(names, name)
	}
	sort.Strings(names)

	bindings := make(map[string]engine.Action)
	owner := make(map[string]string)
	for _, name := range names {
		for _, chord := range chords[name] {
			if prev, taken := owner[chord]; taken {
				return nil, fmt.Errorf("keymap: chord %q bound to both %s and %s", chord, prev, name)
			}
			owner[chord] = name
			bindings[chord] = actions[name]
		}
	}
	return &Map{bindings: bindings}, nil
}

// Resolve implements engine.ActionResolver.
func (m *Map) Resolve(chord string) (engine.Action, bool) {
	action, ok := m.bindings[chord]
	return action, ok
}

var keyAliases = map[string]string{
	"return":   "enter",
	"escape":   "esc",
	"pageup":   "pgup",
	"pagedown": "pgdn",
	"del":      "delete",
	"bs":       "backspace",
	"spacebar": "space",
	"ins":      "insert",
	// Comma and plus collide with the chord-list and modifier separators,
	// so they bind through spelled-out names.
	"comma": ",",
	"plus":  "+",
}

var namedKeys = map[string]bool{
	"enter": true, "tab": true, "backtab": true, "esc": true, "space": true,
	"backspace": true, "delete": true, "insert": true,
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pgup": true, "pgdn": true,
}

func validKey(key string) bool {
	if namedKeys[key] {
		return true
	}
	if digits, ok := strings.CutPrefix(key, "f"); ok && digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			return n >= 1 && n <= 64
		}
	}
	return utf8.RuneCountInString(key) == 1
}

// Normalize lowercases a chord, orders its modifiers ctrl, alt, shift,
// collapses key-name aliases to their canonical form, and rejects key names
// the terminal cannot deliver.
func Normalize(chord string) (string, error) {
	c := strings.TrimSpace(strings.ToLower(chord))
	if c == "" {
		return "", fmt.Errorf("empty chord")
	}

	parts := strings.Split(c, "+")
	key := parts[len(parts)-1]
	mods := parts[:len(parts)-1]
	if key == "" {
		// A trailing separator means the key is the plus sign itself.
		key = "+"
		if len(mods) > 0 {
			mods = mods[:len(mods)-1]
		}
	}

	var ctrl, alt, shift bool
	for _, mod := range mods {
		switch mod {
		case "ctrl", "control":
			ctrl = true
		case "alt", "meta":
			alt = true
		case "shift":
			shift = true
		default:
			return "", fmt.Errorf("unknown modifier %q in chord %q", mod, chord)
		}
	}
	if alias, ok := keyAliases[key]; ok {
		key = alias
	}
	if !validKey(key) {
		return "", fmt.Errorf("unknown key %q in chord %q", key, chord)
	}

	var b strings.Builder
	if ctrl {
		b.WriteString("ctrl+")
	}
	if alt {
		b.WriteString("alt+")
	}
	if shift {
		b.WriteString("shift+")
	}
	b.WriteString(key)
	return b.String(), nil
}
