package modes

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/kk-code-lab/tmenu/internal/match"
)

// LinesMode serves lines read from a reader and writes the picked line back
// out, dmenu style.
type LinesMode struct {
	name    string
	out     io.Writer
	entries []lineEntry
}

type lineEntry struct {
	text     string
	notASCII bool
}

// NewLinesMode reads entries line by line until EOF.
func NewLinesMode(name string, r io.Reader, out io.Writer) (*LinesMode, error) {
	m := &LinesMode{name: name, out: out}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := scanner.Text()
		m.entries = append(m.entries, lineEntry{text: text, notASCII: !match.IsASCII(text)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	return m, nil
}

func (m *LinesMode) Name() string { return m.name }

// Refresh is a no-op: the input stream was consumed once.
func (m *LinesMode) Refresh() error { return nil }

func (m *LinesMode) Count() int              { return len(m.entries) }
func (m *LinesMode) Text(i int) string       { return m.entries[i].text }
func (m *LinesMode) Completion(i int) string { return m.entries[i].text }
func (m *LinesMode) NotASCII(i int) bool     { return m.entries[i].notASCII }

func (m *LinesMode) MatchTokens(i int, tokens []match.Token, notASCII, caseSensitive bool) bool {
	return match.Fields(tokens, []string{m.entries[i].text}, notASCII, caseSensitive)
}

// Execute prints the picked line.
func (m *LinesMode) Execute(entry int, modified bool) error {
	_, err := fmt.Fprintln(m.out, m.entries[entry].text)
	return err
}

// ExecuteCustom prints the typed text.
func (m *LinesMode) ExecuteCustom(text string, modified bool) error {
	_, err := fmt.Fprintln(m.out, text)
	return err
}

func (m *LinesMode) Delete(entry int) error {
	return errors.New("stdin: delete is not supported")
}
