package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/tmenu/internal/engine"
)

// TranslateKey normalizes a tcell key event into the chord form used by the
// keymap ("ctrl+j", "shift+left", "f5", plain runes) plus the text the event
// would insert when the chord is unbound. It returns false for keys that have
// no chord representation.
func TranslateKey(ev *tcell.EventKey) (engine.Event, bool) {
	mod := ev.Modifiers()
	alt := mod&(tcell.ModAlt|tcell.ModMeta) != 0
	ctrl := mod&tcell.ModCtrl != 0
	shift := mod&tcell.ModShift != 0

	var name string
	var text string

	switch key := ev.Key(); key {
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			name = "space"
		} else {
			name = string(r)
		}
		if !ctrl && !alt {
			text = string(r)
		}
		// The rune already reflects the shift state.
		shift = false

	// Named keys come first: several tcell constants alias the ctrl range
	// (KeyTab==KeyCtrlI, KeyEnter==KeyCtrlM), so the ctrl fallback below
	// must never see them.
	case tcell.KeyEnter:
		name = "enter"
	case tcell.KeyTab:
		name = "tab"
	case tcell.KeyBacktab:
		name = "backtab"
		shift = false
	case tcell.KeyEsc:
		name = "esc"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		name = "backspace"
	case tcell.KeyDelete:
		name = "delete"
	case tcell.KeyInsert:
		name = "insert"
	case tcell.KeyUp:
		name = "up"
	case tcell.KeyDown:
		name = "down"
	case tcell.KeyLeft:
		name = "left"
	case tcell.KeyRight:
		name = "right"
	case tcell.KeyHome:
		name = "home"
	case tcell.KeyEnd:
		name = "end"
	case tcell.KeyPgUp:
		name = "pgup"
	case tcell.KeyPgDn:
		name = "pgdn"
	case tcell.KeyCtrlSpace:
		name = "space"
		ctrl = true

	default:
		switch {
		case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
			name = string(rune('a' + key - tcell.KeyCtrlA))
			ctrl = true
		case key >= tcell.KeyF1 && key <= tcell.KeyF64:
			name = "f" + strconv.Itoa(int(key-tcell.KeyF1)+1)
		default:
			return engine.Event{}, false
		}
	}

	var chord strings.Builder
	if ctrl {
		chord.WriteString("ctrl+")
	}
	if alt {
		chord.WriteString("alt+")
	}
	if shift {
		chord.WriteString("shift+")
	}
	chord.WriteString(name)

	return engine.Event{Chord: chord.String(), Text: text, Alt: alt}, true
}
