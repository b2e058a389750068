package modes

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/kk-code-lab/tmenu/internal/match"
	"github.com/kk-code-lab/tmenu/internal/spawn"
)

const runCacheKey = "path-executables"

// RunMode lists the executables on $PATH plus previously launched commands,
// most used first.
type RunMode struct {
	cache   *cache.Cache
	history *History
	term    string
	entries []runEntry
}

type runEntry struct {
	command  string
	notASCII bool
}

func NewRunMode(c *cache.Cache, hist *History, terminal string) (*RunMode, error) {
	m := &RunMode{cache: c, history: hist, term: terminal}
	if err := m.Refresh(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *RunMode) Name() string { return "run" }

// Refresh rebuilds the command list. History commands that have left $PATH
// are still listed; launching them again simply fails at spawn time.
func (m *RunMode) Refresh() error {
	var commands []string
	if cached, ok := m.cache.Get(runCacheKey); ok {
		commands = cached.([]string)
	} else {
		commands = scanPath()
		m.cache.Set(runCacheKey, commands, cache.DefaultExpiration)
	}

	onPath := make(map[string]bool, len(commands))
	for _, c := range commands {
		onPath[c] = true
	}

	m.entries = make([]runEntry, 0, len(commands)+m.history.Len())
	for _, c := range commands {
		m.entries = append(m.entries, runEntry{command: c, notASCII: !match.IsASCII(c)})
	}
	for _, text := range m.history.Texts() {
		if !onPath[text] {
			m.entries = append(m.entries, runEntry{command: text, notASCII: !match.IsASCII(text)})
		}
	}

	sort.SliceStable(m.entries, func(i, j int) bool {
		ci := m.history.Count(m.entries[i].command)
		cj := m.history.Count(m.entries[j].command)
		if ci != cj {
			return ci > cj
		}
		return m.entries[i].command < m.entries[j].command
	})
	return nil
}

func (m *RunMode) Count() int              { return len(m.entries) }
func (m *RunMode) Text(i int) string       { return m.entries[i].command }
func (m *RunMode) Completion(i int) string { return m.entries[i].command }
func (m *RunMode) NotASCII(i int) bool     { return m.entries[i].notASCII }

func (m *RunMode) MatchTokens(i int, tokens []match.Token, notASCII, caseSensitive bool) bool {
	return match.Fields(tokens, []string{m.entries[i].command}, notASCII, caseSensitive)
}

// Execute runs the selected command, in a terminal when modified.
func (m *RunMode) Execute(entry int, modified bool) error {
	return m.launch(m.entries[entry].command, modified)
}

// ExecuteCustom runs the typed command line.
func (m *RunMode) ExecuteCustom(text string, modified bool) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("run: empty command")
	}
	return m.launch(text, modified)
}

func (m *RunMode) launch(command string, terminal bool) error {
	if err := spawn.Run(command, spawn.Options{Terminal: terminal, TerminalProg: m.term}); err != nil {
		return err
	}
	m.history.Bump(command)
	return m.history.Save()
}

// Delete forgets the selected command's launch history.
func (m *RunMode) Delete(entry int) error {
	m.history.Remove(m.entries[entry].command)
	if err := m.history.Save(); err != nil {
		return err
	}
	return m.Refresh()
}

// scanPath collects the executable names on $PATH, first hit per name.
func scanPath() []string {
	seen := make(map[string]bool)
	var commands []string

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		items, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, item := range items {
			name := item.Name()
			if seen[name] {
				continue
			}
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil || info.IsDir() || info.Mode()&0o111 == 0 {
				continue
			}
			seen[name] = true
			commands = append(commands, name)
		}
	}
	sort.Strings(commands)
	return commands
}
