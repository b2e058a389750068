package engine

import "time"

const doubleClickWindow = 200 * time.Millisecond

// Engine owns the worker pool its sessions share. One engine serves the
// whole process; sessions come and go per interaction.
type Engine struct {
	pool *Pool
}

// New builds the engine handle. workers follows NewPool's rules; a rejected
// count is fatal to startup.
func New(workers int) (*Engine, error) {
	pool, err := NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &Engine{pool: pool}, nil
}

// Close tears the pool down.
func (e *Engine) Close() { e.pool.Close() }

// Workers returns the pool's bounded worker count.
func (e *Engine) Workers() int { return e.pool.Workers() }

// Options configure one interactive session.
type Options struct {
	Query         string // preset query text, filtered before the first event
	CaseSensitive bool
	Sort          bool
	AutoSelect    bool
	NoCycle       bool // clamp row-up/row-down at the list ends instead of wrapping
	Lines         int
	Columns       int
	FixedNumLines bool
	Scroll        ScrollMethod
	Resolver      ActionResolver
	Clipboard     func() (string, error)
}

// Session drives one filter-and-select interaction over a stable entry
// source. All mutable state lives here and is touched only by the caller's
// goroutine; filter passes fan out through the pool but complete before any
// session method returns.
type Session struct {
	source Source
	pool   *Pool

	resolver  ActionResolver
	clipboard func() (string, error)

	query         queryEditor
	caseSensitive bool
	sortByDist    bool
	autoSelect    bool
	noCycle       bool

	layout *Layout
	scroll ScrollMethod

	lineMap  []int
	distance []int
	notASCII []bool
	filtered int
	selected int

	state   State
	outcome Outcome

	refilterNeeded bool
	fullRedraw     bool

	curChord  string
	prevChord string

	lastClickTime time.Time
}

// NewSession classifies the source's entries and runs the initial filter
// pass, so the session is ready to render before the first event arrives.
func (e *Engine) NewSession(src Source, opts Options) *Session {
	s := &Session{
		source:        src,
		pool:          e.pool,
		resolver:      opts.Resolver,
		clipboard:     opts.Clipboard,
		caseSensitive: opts.CaseSensitive,
		sortByDist:    opts.Sort,
		autoSelect:    opts.AutoSelect,
		noCycle:       opts.NoCycle,
		layout:        NewLayout(opts.Lines, opts.Columns, opts.FixedNumLines),
		scroll:        opts.Scroll,
	}
	if opts.Query != "" {
		s.query.Set(opts.Query)
	}
	s.classifyEntries()
	s.refilter()
	return s
}

// Feed processes one keyboard event. Bound chords dispatch their action;
// unbound chords carrying printable text edit the query. The previous
// chord is remembered for double-press detection.
func (s *Session) Feed(ev Event) State {
	if s.state == StateTerminal {
		return s.state
	}
	var action Action
	bound := false
	if s.resolver != nil {
		action, bound = s.resolver.Resolve(ev.Chord)
	}
	if !bound {
		if ev.Text == "" {
			s.prevChord = ev.Chord
			return s.state
		}
		action = InsertTextAction{Text: ev.Text}
	}
	s.curChord = ev.Chord
	s.apply(action, ev.Alt)
	s.curChord = ""
	s.prevChord = ev.Chord
	return s.state
}

// Apply dispatches a semantic action directly, bypassing chord resolution.
// Mouse wheel movement arrives through this path.
func (s *Session) Apply(action Action) State {
	if s.state == StateTerminal {
		return s.state
	}
	s.apply(action, false)
	return s.state
}

// apply is the total dispatch table. Cases are ordered by the priority the
// actions resolve in: terminal actions, selection movement, query edits,
// accept last.
func (s *Session) apply(action Action, alt bool) {
	switch a := action.(type) {
	case CancelAction:
		s.finish(OutcomeCancel{})

	case RowUpAction:
		s.navUp()
	case RowDownAction:
		s.navDown()
	case RowLeftAction:
		s.navLeft()
	case RowRightAction:
		s.navRight()
	case PagePrevAction:
		s.navPagePrev()
	case PageNextAction:
		s.navPageNext()
	case RowFirstAction:
		s.navFirst()
	case RowLastAction:
		s.navLast()
	case RowTabAction:
		s.advance()

	case RowSelectAction:
		if s.filtered > 0 && s.selected < s.filtered {
			s.query.Set(s.source.Completion(s.lineMap[s.selected]))
			s.refilterNeeded = true
		}

	case ModeNextAction:
		s.finish(OutcomeNextMode{})
	case ModePrevAction:
		s.finish(OutcomePrevMode{})

	case ToggleSortAction:
		s.sortByDist = !s.sortByDist
		s.refilterNeeded = true
	case ToggleCaseAction:
		s.caseSensitive = !s.caseSensitive
		s.refilterNeeded = true

	case DeleteEntryAction:
		if s.filtered > 0 && s.selected < s.filtered {
			s.finish(OutcomeDelete{Entry: s.lineMap[s.selected]})
		}

	case QuickSwitchAction:
		s.finish(OutcomeSwitchMode{Mode: a.Index, Entry: s.selectedEntry()})

	case InsertTextAction:
		if s.query.Insert(a.Text) {
			s.refilterNeeded = true
		}
	case PasteAction:
		if s.clipboard != nil {
			if text, err := s.clipboard(); err == nil {
				if s.query.InsertPaste(text) {
					s.refilterNeeded = true
				}
			}
		}
	case BackspaceAction:
		if s.query.Backspace() {
			s.refilterNeeded = true
		}
	case DeleteCharAction:
		if s.query.DeleteChar() {
			s.refilterNeeded = true
		}
	case KillWordAction:
		if s.query.KillWord() {
			s.refilterNeeded = true
		}
	case KillToStartAction:
		if s.query.KillToStart() {
			s.refilterNeeded = true
		}
	case KillToEndAction:
		if s.query.KillToEnd() {
			s.refilterNeeded = true
		}
	case CursorLeftAction:
		s.query.MoveLeft()
	case CursorRightAction:
		s.query.MoveRight()
	case CursorHomeAction:
		s.query.MoveHome()
	case CursorEndAction:
		s.query.MoveEnd()

	case AcceptCustomAction:
		s.finish(OutcomeCustom{Text: s.query.String(), Modified: alt || a.Alt})
	case AcceptAction:
		s.accept(alt || a.Alt)
	}

	if s.refilterNeeded && s.state == StateInteractive {
		s.refilter()
	}
}

// accept resolves the commit: a valid selection wins, otherwise the typed
// text becomes the outcome.
func (s *Session) accept(alt bool) {
	if s.filtered > 0 && s.selected < s.filtered {
		s.finish(OutcomeAccept{Entry: s.lineMap[s.selected], Modified: alt})
		return
	}
	s.finish(OutcomeCustom{Text: s.query.String(), Modified: alt})
}

// advance implements the tab behavior: a lone match is accepted outright, a
// repeated press on an empty result set switches to the next mode, anything
// else moves the selection down.
func (s *Session) advance() {
	if s.filtered == 1 {
		s.finish(OutcomeAccept{Entry: s.lineMap[s.selected]})
		return
	}
	if s.filtered == 0 && s.curChord != "" && s.curChord == s.prevChord {
		s.finish(OutcomeNextMode{})
		return
	}
	s.navDown()
}

func (s *Session) selectedEntry() int {
	if s.filtered > 0 && s.selected < s.filtered {
		return s.lineMap[s.selected]
	}
	return -1
}

func (s *Session) finish(o Outcome) {
	if s.state == StateTerminal {
		return
	}
	s.outcome = o
	s.state = StateTerminal
}

// ClickVisible selects the visible slot under the pointer. A second click on
// the already-selected slot inside the double-click window accepts it.
func (s *Session) ClickVisible(slot int, now time.Time) State {
	if s.state == StateTerminal || slot < 0 {
		return s.state
	}
	idx := s.windowOffset() + slot
	if idx >= s.filtered {
		return s.state
	}
	if idx == s.selected && !s.lastClickTime.IsZero() && now.Sub(s.lastClickTime) <= doubleClickWindow {
		s.finish(OutcomeAccept{Entry: s.lineMap[idx]})
		return s.state
	}
	s.selected = idx
	s.lastClickTime = now
	return s.state
}

// ClickTab is a mode-tab hit: quick-switch to that mode, carrying the
// selection.
func (s *Session) ClickTab(tab int) State {
	if s.state == StateTerminal || tab < 0 {
		return s.state
	}
	s.finish(OutcomeSwitchMode{Mode: tab, Entry: s.selectedEntry()})
	return s.state
}

// Window describes the visible slice of the filtered list for one frame.
// Entries holds entry-source indices in display order; Selected is the slot
// holding the selection, -1 when none is visible.
type Window struct {
	Offset   int
	Entries  []int
	Selected int
	Rows     int
	Cols     int
}

func (s *Session) windowOffset() int {
	if s.scroll == ScrollContinuous {
		return s.layout.OffsetContinuous(s.selected, s.filtered)
	}
	offset, pageChanged := s.layout.OffsetPaged(s.selected)
	if pageChanged {
		s.fullRedraw = true
	}
	return offset
}

// Window computes the current visible window. Paged scrolling remembers its
// offset between calls, so this must be the only place offsets come from.
func (s *Session) Window() Window {
	offset := s.windowOffset()
	count := s.filtered - offset
	if count > s.layout.maxElements {
		count = s.layout.maxElements
	}
	if count < 0 {
		count = 0
	}
	sel := -1
	if s.filtered > 0 && s.selected >= offset && s.selected < offset+count {
		sel = s.selected - offset
	}
	return Window{
		Offset:   offset,
		Entries:  s.lineMap[offset : offset+count],
		Selected: sel,
		Rows:     s.layout.rows,
		Cols:     s.layout.cols,
	}
}

// Resize adapts the layout to a new terminal geometry.
func (s *Session) Resize(lines int) {
	s.layout.SetLines(lines)
	s.layout.Reflow(s.filtered)
	s.layout.ResetScroll()
	s.fullRedraw = true
}

// Query returns the current query text.
func (s *Session) Query() string { return s.query.String() }

// QueryCursor returns the cursor position in runes.
func (s *Session) QueryCursor() int { return s.query.Cursor() }

// FilteredCount returns the number of entries matching the query.
func (s *Session) FilteredCount() int { return s.filtered }

// TotalCount returns the size of the entry source.
func (s *Session) TotalCount() int { return s.source.Count() }

// Selected returns the selection index into the filtered list.
func (s *Session) Selected() int { return s.selected }

// State reports whether the session still accepts input.
func (s *Session) State() State { return s.state }

// Outcome returns the terminal result; nil while interactive.
func (s *Session) Outcome() Outcome { return s.outcome }

// CaseSensitive reports the matching mode.
func (s *Session) CaseSensitive() bool { return s.caseSensitive }

// Sorting reports whether similarity ranking is active.
func (s *Session) Sorting() bool { return s.sortByDist }

// Indicator is the one-cell matching-state marker shown beside the query.
func (s *Session) Indicator() string {
	switch {
	case s.caseSensitive && s.sortByDist:
		return "±"
	case s.caseSensitive:
		return "-"
	case s.sortByDist:
		return "+"
	}
	return " "
}

// TakeFullRedraw reports and clears the everything-changed flag.
func (s *Session) TakeFullRedraw() bool {
	v := s.fullRedraw
	s.fullRedraw = false
	return v
}
