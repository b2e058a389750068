package engine

import (
	"strings"
	"unicode"
)

// queryEditor is a cursor-addressed rune buffer for the query line.
type queryEditor struct {
	runes  []rune
	cursor int
}

func (q *queryEditor) String() string { return string(q.runes) }

func (q *queryEditor) Len() int { return len(q.runes) }

func (q *queryEditor) Cursor() int { return q.cursor }

// Set replaces the whole query and moves the cursor to the end.
func (q *queryEditor) Set(text string) {
	q.runes = []rune(text)
	q.cursor = len(q.runes)
}

// Insert places text at the cursor. Control runes are dropped and newlines
// and tabs collapse to spaces so pasted blocks stay on one line. Returns
// whether anything was inserted.
func (q *queryEditor) Insert(text string) bool {
	var ins []rune
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			ins = append(ins, ' ')
		case r < 0x20 || r == 0x7f:
			// dropped
		default:
			ins = append(ins, r)
		}
	}
	if len(ins) == 0 {
		return false
	}
	q.runes = append(q.runes[:q.cursor], append(ins, q.runes[q.cursor:]...)...)
	q.cursor += len(ins)
	return true
}

// InsertPaste trims trailing line breaks before inserting, so a newline-
// terminated clipboard does not leave a stray space in the query.
func (q *queryEditor) InsertPaste(text string) bool {
	return q.Insert(strings.TrimRight(text, "\r\n"))
}

func (q *queryEditor) Backspace() bool {
	if q.cursor == 0 {
		return false
	}
	q.runes = append(q.runes[:q.cursor-1], q.runes[q.cursor:]...)
	q.cursor--
	return true
}

func (q *queryEditor) DeleteChar() bool {
	if q.cursor >= len(q.runes) {
		return false
	}
	q.runes = append(q.runes[:q.cursor], q.runes[q.cursor+1:]...)
	return true
}

// KillWord removes the word before the cursor along with the whitespace
// separating it from the cursor.
func (q *queryEditor) KillWord() bool {
	if q.cursor == 0 {
		return false
	}
	i := q.cursor
	for i > 0 && unicode.IsSpace(q.runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(q.runes[i-1]) {
		i--
	}
	q.runes = append(q.runes[:i], q.runes[q.cursor:]...)
	q.cursor = i
	return true
}

func (q *queryEditor) KillToStart() bool {
	if q.cursor == 0 {
		return false
	}
	q.runes = append(q.runes[:0], q.runes[q.cursor:]...)
	q.cursor = 0
	return true
}

func (q *queryEditor) KillToEnd() bool {
	if q.cursor >= len(q.runes) {
		return false
	}
	q.runes = q.runes[:q.cursor]
	return true
}

func (q *queryEditor) MoveLeft() {
	if q.cursor > 0 {
		q.cursor--
	}
}

func (q *queryEditor) MoveRight() {
	if q.cursor < len(q.runes) {
		q.cursor++
	}
}

func (q *queryEditor) MoveHome() { q.cursor = 0 }

func (q *queryEditor) MoveEnd() { q.cursor = len(q.runes) }
