package modes

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// History tracks how often entries were launched, most used first. The
// on-disk format is one "count SP entry" line per entry.
type History struct {
	path    string
	max     int
	entries []historyEntry
	index   map[string]int
}

type historyEntry struct {
	count int
	text  string
}

// LoadHistory reads the history file at path; a missing file yields an
// empty history. max caps how many entries Save keeps, zero meaning no cap.
func LoadHistory(path string, max int) (*History, error) {
	h := &History{path: path, max: max, index: make(map[string]int)}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, fmt.Errorf("history: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		sep := strings.IndexByte(line, ' ')
		if sep <= 0 {
			continue
		}
		count, err := strconv.Atoi(line[:sep])
		if err != nil || count < 1 {
			continue
		}
		text := line[sep+1:]
		if text == "" {
			continue
		}
		if _, dup := h.index[text]; dup {
			continue
		}
		h.index[text] = len(h.entries)
		h.entries = append(h.entries, historyEntry{count: count, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	h.sort()
	return h, nil
}

func (h *History) sort() {
	sort.SliceStable(h.entries, func(i, j int) bool {
		return h.entries[i].count > h.entries[j].count
	})
	for i := range h.entries {
		h.index[h.entries[i].text] = i
	}
}

// Bump increments the use count for text, inserting it when new.
func (h *History) Bump(text string) {
	if i, ok := h.index[text]; ok {
		h.entries[i].count++
	} else {
		h.index[text] = len(h.entries)
		h.entries = append(h.entries, historyEntry{count: 1, text: text})
	}
	h.sort()
}

// Remove drops text from the history.
func (h *History) Remove(text string) {
	i, ok := h.index[text]
	if !ok {
		return
	}
	delete(h.index, text)
	h.entries = append(h.entries[:i], h.entries[i+1:]...)
	for j := i; j < len(h.entries); j++ {
		h.index[h.entries[j].text] = j
	}
}

// Count returns the use count for text, zero when absent.
func (h *History) Count(text string) int {
	if i, ok := h.index[text]; ok {
		return h.entries[i].count
	}
	return 0
}

// Len returns the number of tracked entries.
func (h *History) Len() int { return len(h.entries) }

// Texts returns the tracked entries, most used first.
func (h *History) Texts() []string {
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.text
	}
	return out
}

// Save writes the history atomically via a rename, keeping at most the
// configured number of most-used entries.
func (h *History) Save() error {
	dir := filepath.Dir(h.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("history: %w", err)
	}

	entries := h.entries
	if h.max > 0 && len(entries) > h.max {
		entries = entries[:h.max]
	}

	tmp, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	w := bufio.NewWriter(tmp)
	for _, e := range entries {
		fmt.Fprintf(w, "%d %s\n", e.count, e.text)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("history: %w", err)
	}
	if err := os.Rename(tmp.Name(), h.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("history: %w", err)
	}
	return nil
}
