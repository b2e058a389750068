// Package engine implements the interactive filter-and-select core: a
// session owns the query, the filtered index list, the selection, and the
// grid layout, re-filters the candidate set with a chunked parallel pass on
// every edit, and maps semantic input actions to selection changes or a
// terminal outcome.
package engine

// Action is the base interface for all semantic input actions. The resolver
// maps raw key chords to these; the session dispatches them in a fixed
// priority order.
type Action interface{}

// ===== TERMINAL ACTIONS =====

type CancelAction struct{}
type AcceptAction struct {
	Alt bool // auxiliary modifier held
}

// AcceptCustomAction forces the typed-text outcome even when a candidate is
// selected.
type AcceptCustomAction struct {
	Alt bool
}
type ModeNextAction struct{}
type ModePrevAction struct{}
type DeleteEntryAction struct{}

// QuickSwitchAction jumps straight to the mode at Index, carrying the
// current selection along.
type QuickSwitchAction struct {
	Index int
}

// ===== SELECTION ACTIONS =====

type RowUpAction struct{}
type RowDownAction struct{}
type RowLeftAction struct{}
type RowRightAction struct{}
type PagePrevAction struct{}
type PageNextAction struct{}
type RowFirstAction struct{}
type RowLastAction struct{}

// RowTabAction advances the selection, accepts a lone match, and detects the
// double-press that switches mode when nothing matches.
type RowTabAction struct{}

// RowSelectAction replaces the query with the selected entry's completion.
type RowSelectAction struct{}

// ===== FLAG ACTIONS =====

type ToggleSortAction struct{}
type ToggleCaseAction struct{}

// ===== QUERY ACTIONS =====

type InsertTextAction struct {
	Text string
}
type PasteAction struct{}
type BackspaceAction struct{}
type DeleteCharAction struct{}
type KillWordAction struct{}
type KillToStartAction struct{}
type KillToEndAction struct{}
type CursorLeftAction struct{}
type CursorRightAction struct{}
type CursorHomeAction struct{}
type CursorEndAction struct{}

// ===== OUTCOMES =====

// Outcome is the terminal result of a session, set exactly once.
type Outcome interface{}

type OutcomeAccept struct {
	Entry    int  // index into the entry source
	Modified bool // auxiliary modifier was held on accept
}

type OutcomeCustom struct {
	Text     string
	Modified bool
}

type OutcomeCancel struct{}
type OutcomeNextMode struct{}
type OutcomePrevMode struct{}

type OutcomeSwitchMode struct {
	Mode  int
	Entry int // selected entry carried along, -1 when none
}

type OutcomeDelete struct {
	Entry int
}

// ===== INPUT =====

// Event is one normalized keyboard event. Chord identifies the key with its
// modifiers ("ctrl+j", "shift+tab", "a"); Text carries printable input for
// unbound keys; Alt reports the auxiliary accept modifier.
type Event struct {
	Chord string
	Text  string
	Alt   bool
}

// ActionResolver maps a key chord to its bound semantic action. Unbound
// chords return ok == false and fall through to text insertion.
type ActionResolver interface {
	Resolve(chord string) (Action, bool)
}

// State reports whether a session still accepts input.
type State int

const (
	StateInteractive State = iota
	StateTerminal
)
