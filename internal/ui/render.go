package ui

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Frame is one view of a menu session: the query line, the visible slice of
// the filtered list in column-major order, and the mode tab bar.
type Frame struct {
	Prompt     string
	Query      string
	Cursor     int // rune offset into Query
	Indicator  string
	Filtered   int
	Total      int
	Rows       int
	Cols       int
	Entries    []string // visible window, slot order
	Selected   int      // slot index into Entries, -1 when nothing is selected
	Modes      []string
	ActiveMode int
}

// HitKind classifies what a screen position maps to.
type HitKind int

const (
	HitNone HitKind = iota
	HitEntry
	HitTab
)

type tabSpan struct {
	start, end int // column range, end exclusive
	index      int
}

// Renderer draws menu frames onto a tcell screen and answers mouse hit tests
// against the geometry of the last frame drawn.
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme

	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes

	listTop   int
	shownRows int
	rows      int
	cols      int
	colWidth  int
	tabRow    int
	tabSpans  []tabSpan
}

// NewRenderer creates a new renderer.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
		tabRow: -1,
	}
}

// ListHeight reports how many entry rows fit on a screen of the given height,
// after the query line and (when more than one mode is active) the tab bar.
func ListHeight(screenHeight, modeCount int) int {
	rows := screenHeight - 1
	if modeCount > 1 {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Render draws the entire frame and flushes it to the terminal.
func (r *Renderer) Render(frame *Frame) {
	r.screen.Clear()

	w, h := r.screen.Size()
	r.drawQueryLine(frame, w)

	r.tabRow = -1
	r.tabSpans = r.tabSpans[:0]
	listBottom := h
	if len(frame.Modes) > 1 && h >= 2 {
		r.tabRow = h - 1
		listBottom = h - 1
		r.drawTabBar(frame, w)
	}

	r.listTop = 1
	r.rows = frame.Rows
	r.cols = frame.Cols
	if r.rows < 1 {
		r.rows = 1
	}
	if r.cols < 1 {
		r.cols = 1
	}
	r.shownRows = r.rows
	if r.listTop+r.shownRows > listBottom {
		r.shownRows = listBottom - r.listTop
	}
	r.colWidth = w / r.cols
	if r.colWidth < 1 {
		r.colWidth = 1
	}

	r.drawEntries(frame)
	r.screen.Show()
}

// HitTest maps a screen position to the entry slot or mode tab under it.
func (r *Renderer) HitTest(x, y int) (HitKind, int) {
	if y == r.tabRow {
		for _, span := range r.tabSpans {
			if x >= span.start && x < span.end {
				return HitTab, span.index
			}
		}
		return HitNone, 0
	}

	row := y - r.listTop
	if row < 0 || row >= r.shownRows {
		return HitNone, 0
	}
	col := x / r.colWidth
	if col < 0 || col >= r.cols {
		return HitNone, 0
	}
	return HitEntry, col*r.rows + row
}

func (r *Renderer) drawQueryLine(frame *Frame, w int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	promptStyle := baseStyle.Foreground(r.theme.PromptFg).Bold(true)
	queryStyle := baseStyle.Foreground(r.theme.QueryFg)

	counter := fmt.Sprintf("%d/%d", frame.Filtered, frame.Total)
	counterStyle := baseStyle.Foreground(r.theme.CounterFg)
	indicatorStyle := baseStyle.Foreground(r.theme.IndicatorFg)

	rightWidth := r.measureTextWidth(counter)
	indicator := frame.Indicator
	if indicator != "" {
		rightWidth += r.measureTextWidth(indicator) + 1
	}
	rightStart := w - rightWidth
	if rightStart < 0 {
		rightStart = 0
	}

	x := r.drawTextLine(0, 0, w, frame.Prompt, promptStyle)
	if x < w {
		r.screen.SetContent(x, 0, ' ', nil, baseStyle)
		x++
	}
	queryStart := x

	queryWidth := rightStart - queryStart - 1
	if queryWidth < 0 {
		queryWidth = 0
	}
	query := SanitizeEntryText(frame.Query)
	x = r.drawTextLine(queryStart, 0, queryWidth, query, queryStyle)
	r.fillLine(x, rightStart, 0, baseStyle)

	x = rightStart
	if indicator != "" {
		x = r.drawTextLine(x, 0, w-x, indicator, indicatorStyle)
		if x < w {
			r.screen.SetContent(x, 0, ' ', nil, baseStyle)
			x++
		}
	}
	r.drawTextLine(x, 0, w-x, counter, counterStyle)

	cursorX := queryStart + r.measureTextWidth(string([]rune(query)[:clampCursor(frame.Cursor, query)]))
	if cursorX > queryStart+queryWidth {
		cursorX = queryStart + queryWidth
	}
	r.screen.ShowCursor(cursorX, 0)
}

func (r *Renderer) drawEntries(frame *Frame) {
	normalStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.EntryFg)
	selectedStyle := tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)

	for slot, text := range frame.Entries {
		col := slot / r.rows
		row := slot % r.rows
		if row >= r.shownRows || col >= r.cols {
			continue
		}

		style := normalStyle
		if slot == frame.Selected {
			style = selectedStyle
		}

		x := col * r.colWidth
		y := r.listTop + row
		cell := r.truncateTextToWidth(SanitizeEntryText(text), r.colWidth-1)
		endX := r.drawTextLine(x, y, r.colWidth-1, cell, style)
		r.fillLine(endX, x+r.colWidth, y, style)
	}
}

func (r *Renderer) drawTabBar(frame *Frame, w int) {
	normalStyle := tcell.StyleDefault.Background(r.theme.TabBg).Foreground(r.theme.TabFg)
	activeStyle := tcell.StyleDefault.Background(r.theme.TabActiveBg).Foreground(r.theme.TabActiveFg)

	x := 0
	for i, name := range frame.Modes {
		if x >= w {
			break
		}
		style := normalStyle
		if i == frame.ActiveMode {
			style = activeStyle
		}
		label := " " + name + " "
		start := x
		x = r.drawTextLine(x, r.tabRow, w-x, label, style)
		r.tabSpans = append(r.tabSpans, tabSpan{start: start, end: x, index: i})
	}
	r.fillLine(x, w, r.tabRow, normalStyle)
}

func clampCursor(cursor int, query string) int {
	if cursor < 0 {
		return 0
	}
	if n := len([]rune(query)); cursor > n {
		return n
	}
	return cursor
}
