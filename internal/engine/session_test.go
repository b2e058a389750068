package engine

import (
	"errors"
	"testing"
	"time"
)

// ===== SESSION TESTS =====

func TestAcceptSelectedEntry(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha", "beta", "gamma")

	s.Apply(RowDownAction{})
	if got := s.Apply(AcceptAction{}); got != StateTerminal {
		t.Fatalf("Expected terminal state, got %v", got)
	}

	out, ok := s.Outcome().(OutcomeAccept)
	if !ok {
		t.Fatalf("Expected OutcomeAccept, got %T", s.Outcome())
	}
	if out.Entry != 1 {
		t.Errorf("Expected entry 1 accepted, got %d", out.Entry)
	}
}

func TestAcceptWithNoMatchesYieldsTypedText(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha", "beta")

	s.Apply(InsertTextAction{Text: "htop"})
	s.Apply(AcceptAction{})

	out, ok := s.Outcome().(OutcomeCustom)
	if !ok {
		t.Fatalf("Expected OutcomeCustom, got %T", s.Outcome())
	}
	if out.Text != "htop" {
		t.Errorf("Expected text 'htop', got %q", out.Text)
	}
	if out.Modified {
		t.Error("Expected unmodified custom outcome")
	}
}

func TestAcceptCustomIgnoresSelection(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha", "beta")

	s.Apply(InsertTextAction{Text: "al"})
	if s.FilteredCount() != 1 {
		t.Fatalf("Expected a live selection, got %d matches", s.FilteredCount())
	}
	s.Apply(AcceptCustomAction{})

	out, ok := s.Outcome().(OutcomeCustom)
	if !ok {
		t.Fatalf("Expected OutcomeCustom, got %T", s.Outcome())
	}
	if out.Text != "al" {
		t.Errorf("Expected text 'al', got %q", out.Text)
	}
}

func TestCancelOutcome(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha")

	s.Apply(CancelAction{})
	if _, ok := s.Outcome().(OutcomeCancel); !ok {
		t.Fatalf("Expected OutcomeCancel, got %T", s.Outcome())
	}
}

func TestTerminalSessionIgnoresInput(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha")
	s.Apply(CancelAction{})

	s.Feed(Event{Chord: "a", Text: "a"})
	s.Apply(RowDownAction{})

	if s.Query() != "" {
		t.Errorf("Expected query untouched after finish, got %q", s.Query())
	}
	if _, ok := s.Outcome().(OutcomeCancel); !ok {
		t.Errorf("Expected outcome preserved, got %T", s.Outcome())
	}
}

func TestFeedResolvesBoundChord(t *testing.T) {
	res := mapResolver{"ctrl+n": RowDownAction{}}
	s := newTestSession(t, Options{Lines: 10, Resolver: res}, "alpha", "beta")

	s.Feed(Event{Chord: "ctrl+n"})
	if s.Selected() != 1 {
		t.Errorf("Expected selected=1 via bound chord, got %d", s.Selected())
	}
}

func TestFeedUnboundChordWithTextEditsQuery(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10, Resolver: mapResolver{}}, "firefox", "files")

	s.Feed(Event{Chord: "f", Text: "f"})
	s.Feed(Event{Chord: "i", Text: "i"})

	if s.Query() != "fi" {
		t.Errorf("Expected query 'fi', got %q", s.Query())
	}
	if s.FilteredCount() != 2 {
		t.Errorf("Expected refilter after typing, got %d matches", s.FilteredCount())
	}
}

func TestFeedUnboundChordWithoutTextIsIgnored(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10, Resolver: mapResolver{}}, "alpha")

	s.Feed(Event{Chord: "ctrl+q"})

	if s.Query() != "" {
		t.Errorf("Expected query untouched, got %q", s.Query())
	}
	if s.State() != StateInteractive {
		t.Error("Unbound chord should not finish the session")
	}
}

func TestBoundChordNeverInsertsItsText(t *testing.T) {
	res := mapResolver{"space": RowDownAction{}}
	s := newTestSession(t, Options{Lines: 10, Resolver: res}, "alpha", "beta")

	s.Feed(Event{Chord: "space", Text: " "})

	if s.Query() != "" {
		t.Errorf("Bound chord must win over its text, query is %q", s.Query())
	}
	if s.Selected() != 1 {
		t.Errorf("Expected the bound action to run, selected=%d", s.Selected())
	}
}

func TestFeedAltAcceptMarksModified(t *testing.T) {
	res := mapResolver{"enter": AcceptAction{}}
	s := newTestSession(t, Options{Lines: 10, Resolver: res}, "alpha")

	s.Apply(InsertTextAction{Text: "zzz"})
	s.Feed(Event{Chord: "enter", Alt: true})

	out, ok := s.Outcome().(OutcomeCustom)
	if !ok {
		t.Fatalf("Expected OutcomeCustom, got %T", s.Outcome())
	}
	if !out.Modified {
		t.Error("Expected alt accept to mark the outcome modified")
	}
}

func TestFeedAltAcceptOnSelectionMarksModified(t *testing.T) {
	res := mapResolver{"enter": AcceptAction{}}
	s := newTestSession(t, Options{Lines: 10, Resolver: res}, "alpha")

	s.Feed(Event{Chord: "enter", Alt: true})

	out, ok := s.Outcome().(OutcomeAccept)
	if !ok {
		t.Fatalf("Expected OutcomeAccept, got %T", s.Outcome())
	}
	if !out.Modified {
		t.Error("Expected alt accept to mark the entry outcome modified")
	}
}

func TestTabAcceptsLoneMatch(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "firefox", "files")

	s.Apply(InsertTextAction{Text: "fire"})
	if s.FilteredCount() != 1 {
		t.Fatalf("Expected 1 match, got %d", s.FilteredCount())
	}
	s.Apply(RowTabAction{})

	out, ok := s.Outcome().(OutcomeAccept)
	if !ok {
		t.Fatalf("Expected OutcomeAccept, got %T", s.Outcome())
	}
	if out.Entry != 0 {
		t.Errorf("Expected entry 0 accepted, got %d", out.Entry)
	}
}

func TestTabMovesDownOtherwise(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha", "beta", "gamma")

	s.Apply(RowTabAction{})
	if s.Selected() != 1 {
		t.Errorf("Expected selected=1, got %d", s.Selected())
	}
	if s.State() != StateInteractive {
		t.Error("Tab with several matches should not finish the session")
	}
}

func TestDoubleTabOnEmptyResultSwitchesMode(t *testing.T) {
	res := mapResolver{"tab": RowTabAction{}}
	s := newTestSession(t, Options{Lines: 10, Resolver: res}, "alpha", "beta")

	s.Feed(Event{Chord: "z", Text: "z"})
	if s.FilteredCount() != 0 {
		t.Fatalf("Expected no matches, got %d", s.FilteredCount())
	}

	s.Feed(Event{Chord: "tab"})
	if s.State() != StateInteractive {
		t.Fatal("First tab on an empty result must not switch modes")
	}

	s.Feed(Event{Chord: "tab"})
	if _, ok := s.Outcome().(OutcomeNextMode); !ok {
		t.Fatalf("Expected OutcomeNextMode after a repeated tab, got %T", s.Outcome())
	}
}

func TestTypingBetweenTabsResetsDoublePress(t *testing.T) {
	res := mapResolver{"tab": RowTabAction{}}
	s := newTestSession(t, Options{Lines: 10, Resolver: res}, "alpha")

	s.Feed(Event{Chord: "z", Text: "z"})
	s.Feed(Event{Chord: "tab"})
	s.Feed(Event{Chord: "z", Text: "z"})
	s.Feed(Event{Chord: "tab"})

	if s.State() != StateInteractive {
		t.Error("Interleaved typing should break the double press")
	}
}

func TestRowSelectReplacesQueryWithCompletion(t *testing.T) {
	res := mapResolver{"ctrl+space": RowSelectAction{}}
	s := newTestSession(t, Options{Lines: 10, Resolver: res}, "firefox", "files")

	s.Apply(InsertTextAction{Text: "fir"})
	s.Feed(Event{Chord: "ctrl+space"})

	if s.Query() != "firefox" {
		t.Errorf("Expected query replaced with completion, got %q", s.Query())
	}
	if s.State() != StateInteractive {
		t.Error("Row select should keep the session running")
	}
	if s.FilteredCount() != 1 {
		t.Errorf("Expected refilter on the completed text, got %d matches", s.FilteredCount())
	}
}

func TestModeNextAndPrev(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha")
	s.Apply(ModeNextAction{})
	if _, ok := s.Outcome().(OutcomeNextMode); !ok {
		t.Fatalf("Expected OutcomeNextMode, got %T", s.Outcome())
	}

	s = newTestSession(t, Options{Lines: 10}, "alpha")
	s.Apply(ModePrevAction{})
	if _, ok := s.Outcome().(OutcomePrevMode); !ok {
		t.Fatalf("Expected OutcomePrevMode, got %T", s.Outcome())
	}
}

func TestQuickSwitchCarriesSelection(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha", "beta", "gamma")

	s.Apply(RowDownAction{})
	s.Apply(QuickSwitchAction{Index: 2})

	out, ok := s.Outcome().(OutcomeSwitchMode)
	if !ok {
		t.Fatalf("Expected OutcomeSwitchMode, got %T", s.Outcome())
	}
	if out.Mode != 2 {
		t.Errorf("Expected mode 2, got %d", out.Mode)
	}
	if out.Entry != 1 {
		t.Errorf("Expected entry 1 carried, got %d", out.Entry)
	}
}

func TestQuickSwitchWithoutMatchesCarriesNoEntry(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha")

	s.Apply(InsertTextAction{Text: "zzz"})
	s.Apply(QuickSwitchAction{Index: 0})

	out, ok := s.Outcome().(OutcomeSwitchMode)
	if !ok {
		t.Fatalf("Expected OutcomeSwitchMode, got %T", s.Outcome())
	}
	if out.Entry != -1 {
		t.Errorf("Expected no entry carried, got %d", out.Entry)
	}
}

func TestDeleteEntryRequiresSelection(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha", "beta")

	s.Apply(InsertTextAction{Text: "zzz"})
	s.Apply(DeleteEntryAction{})
	if s.State() != StateInteractive {
		t.Fatal("Delete with no selection should be inert")
	}

	s = newTestSession(t, Options{Lines: 10}, "alpha", "beta")
	s.Apply(RowDownAction{})
	s.Apply(DeleteEntryAction{})

	out, ok := s.Outcome().(OutcomeDelete)
	if !ok {
		t.Fatalf("Expected OutcomeDelete, got %T", s.Outcome())
	}
	if out.Entry != 1 {
		t.Errorf("Expected entry 1, got %d", out.Entry)
	}
}

func TestToggleCaseRefilters(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "Firefox")

	s.Apply(InsertTextAction{Text: "fire"})
	if s.FilteredCount() != 1 {
		t.Fatalf("Expected 1 match while case-insensitive, got %d", s.FilteredCount())
	}

	s.Apply(ToggleCaseAction{})
	if s.FilteredCount() != 0 {
		t.Errorf("Expected 0 matches once case-sensitive, got %d", s.FilteredCount())
	}

	s.Apply(ToggleCaseAction{})
	if s.FilteredCount() != 1 {
		t.Errorf("Expected the match back, got %d", s.FilteredCount())
	}
}

func TestIndicatorTracksMatchingFlags(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha")

	if s.Indicator() != " " {
		t.Errorf("Expected blank indicator, got %q", s.Indicator())
	}
	s.Apply(ToggleSortAction{})
	if s.Indicator() != "+" {
		t.Errorf("Expected '+', got %q", s.Indicator())
	}
	s.Apply(ToggleCaseAction{})
	if s.Indicator() != "±" {
		t.Errorf("Expected '±', got %q", s.Indicator())
	}
	s.Apply(ToggleSortAction{})
	if s.Indicator() != "-" {
		t.Errorf("Expected '-', got %q", s.Indicator())
	}
}

func TestQueryEditingActions(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha")

	s.Apply(InsertTextAction{Text: "hello world"})
	s.Apply(KillWordAction{})
	if s.Query() != "hello " {
		t.Errorf("Expected 'hello ' after kill word, got %q", s.Query())
	}

	s.Apply(CursorHomeAction{})
	s.Apply(DeleteCharAction{})
	if s.Query() != "ello " {
		t.Errorf("Expected 'ello ' after delete, got %q", s.Query())
	}

	s.Apply(BackspaceAction{})
	if s.Query() != "ello " {
		t.Errorf("Backspace at the start should be inert, got %q", s.Query())
	}

	s.Apply(KillToEndAction{})
	if s.Query() != "" {
		t.Errorf("Expected empty query, got %q", s.Query())
	}
}

func TestInsertStripsControlCharacters(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha beta")

	s.Apply(InsertTextAction{Text: "alpha\tbeta"})
	if s.Query() != "alpha beta" {
		t.Errorf("Expected tab turned into a space, got %q", s.Query())
	}
}

func TestPasteInsertsClipboardText(t *testing.T) {
	clip := func() (string, error) { return "files\n", nil }
	s := newTestSession(t, Options{Lines: 10, Clipboard: clip}, "firefox", "files")

	s.Apply(PasteAction{})

	if s.Query() != "files" {
		t.Errorf("Expected trailing newline trimmed, got %q", s.Query())
	}
	if s.FilteredCount() != 1 {
		t.Errorf("Expected refilter after paste, got %d matches", s.FilteredCount())
	}
}

func TestPasteErrorLeavesQueryAlone(t *testing.T) {
	clip := func() (string, error) { return "", errors.New("no clipboard") }
	s := newTestSession(t, Options{Lines: 10, Clipboard: clip}, "alpha")

	s.Apply(PasteAction{})

	if s.Query() != "" {
		t.Errorf("Expected query untouched on clipboard error, got %q", s.Query())
	}
}

func TestPresetQueryFiltersBeforeFirstEvent(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10, Query: "fire"}, "firefox", "files")

	if s.Query() != "fire" {
		t.Errorf("Expected preset query, got %q", s.Query())
	}
	if s.FilteredCount() != 1 {
		t.Errorf("Expected preset query already applied, got %d matches", s.FilteredCount())
	}
}

func TestClickSelectsVisibleSlot(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, numberedEntries(5)...)

	s.ClickVisible(3, time.Now())

	if s.Selected() != 3 {
		t.Errorf("Expected selected=3, got %d", s.Selected())
	}
	if s.State() != StateInteractive {
		t.Error("Single click should not finish the session")
	}
}

func TestDoubleClickAccepts(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, numberedEntries(5)...)

	now := time.Now()
	s.ClickVisible(2, now)
	s.ClickVisible(2, now.Add(100*time.Millisecond))

	out, ok := s.Outcome().(OutcomeAccept)
	if !ok {
		t.Fatalf("Expected OutcomeAccept, got %T", s.Outcome())
	}
	if out.Entry != 2 {
		t.Errorf("Expected entry 2 accepted, got %d", out.Entry)
	}
}

func TestSlowSecondClickJustSelects(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, numberedEntries(5)...)

	now := time.Now()
	s.ClickVisible(2, now)
	s.ClickVisible(2, now.Add(500*time.Millisecond))

	if s.State() != StateInteractive {
		t.Error("A slow second click must not accept")
	}
	if s.Selected() != 2 {
		t.Errorf("Expected selected=2, got %d", s.Selected())
	}
}

func TestClickPastListIsIgnored(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, numberedEntries(5)...)

	s.ClickVisible(8, time.Now())

	if s.Selected() != 0 {
		t.Errorf("Expected selection unchanged, got %d", s.Selected())
	}
}

func TestClickTabSwitchesMode(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha", "beta")

	s.ClickTab(1)

	out, ok := s.Outcome().(OutcomeSwitchMode)
	if !ok {
		t.Fatalf("Expected OutcomeSwitchMode, got %T", s.Outcome())
	}
	if out.Mode != 1 {
		t.Errorf("Expected mode 1, got %d", out.Mode)
	}
	if out.Entry != 0 {
		t.Errorf("Expected entry 0 carried, got %d", out.Entry)
	}
}

func TestWindowPagedScrollJump(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, numberedEntries(25)...)

	s.Apply(RowLastAction{})
	win := s.Window()

	if win.Offset != 20 {
		t.Errorf("Expected offset 20, got %d", win.Offset)
	}
	if len(win.Entries) != 5 {
		t.Errorf("Expected 5 visible entries on the last page, got %d", len(win.Entries))
	}
	if win.Selected != 4 {
		t.Errorf("Expected selection in slot 4, got %d", win.Selected)
	}
}

func TestWindowContinuousCentersSelection(t *testing.T) {
	s := newTestSession(t, Options{Lines: 5, Scroll: ScrollContinuous}, numberedEntries(100)...)

	for i := 0; i < 10; i++ {
		s.Apply(PageNextAction{})
	}
	if s.Selected() != 50 {
		t.Fatalf("Expected selection at 50, got %d", s.Selected())
	}

	win := s.Window()
	if win.Offset != 48 {
		t.Errorf("Expected offset 48 with the selection centered, got %d", win.Offset)
	}
	if win.Selected != 2 {
		t.Errorf("Expected selection in the middle slot, got %d", win.Selected)
	}
}

func TestResizeReflowsWindow(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, numberedEntries(25)...)
	s.Apply(RowLastAction{})

	s.Resize(5)

	win := s.Window()
	if win.Rows != 5 {
		t.Errorf("Expected 5 rows after resize, got %d", win.Rows)
	}
	if win.Selected < 0 || win.Entries[win.Selected] != 24 {
		t.Errorf("Expected the selection still visible after resize, got slot %d", win.Selected)
	}
}

func TestTakeFullRedrawClearsFlag(t *testing.T) {
	s := newTestSession(t, Options{Lines: 10}, "alpha")

	if !s.TakeFullRedraw() {
		t.Error("Expected redraw flag set after the initial filter pass")
	}
	if s.TakeFullRedraw() {
		t.Error("Expected redraw flag cleared once taken")
	}

	s.Apply(InsertTextAction{Text: "a"})
	if !s.TakeFullRedraw() {
		t.Error("Expected redraw flag set after a refilter")
	}
}
