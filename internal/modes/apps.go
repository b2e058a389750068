package modes

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/kk-code-lab/tmenu/internal/match"
	"github.com/kk-code-lab/tmenu/internal/spawn"
)

const appsCacheKey = "applications"

// AppsMode lists the desktop applications found in the XDG data
// directories, most used first.
type AppsMode struct {
	cache   *cache.Cache
	history *History
	term    string
	entries []appEntry
}

type appEntry struct {
	name     string
	exec     string
	workdir  string
	terminal bool
	fields   []string
	notASCII bool
}

// NewAppsMode scans the application directories; repeat scans inside the
// cache TTL reuse the previous result.
func NewAppsMode(c *cache.Cache, hist *History, terminal string) (*AppsMode, error) {
	m := &AppsMode{cache: c, history: hist, term: terminal}
	if err := m.Refresh(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *AppsMode) Name() string { return "apps" }

// Refresh rebuilds the entry list from the cached scan, reapplying the
// history order.
func (m *AppsMode) Refresh() error {
	var scanned []appEntry
	if cached, ok := m.cache.Get(appsCacheKey); ok {
		scanned = cached.([]appEntry)
	} else {
		scanned = scanApplications()
		m.cache.Set(appsCacheKey, scanned, cache.DefaultExpiration)
	}
	m.entries = make([]appEntry, len(scanned))
	copy(m.entries, scanned)
	m.sortEntries()
	return nil
}

func (m *AppsMode) sortEntries() {
	sort.SliceStable(m.entries, func(i, j int) bool {
		ci := m.history.Count(m.entries[i].name)
		cj := m.history.Count(m.entries[j].name)
		if ci != cj {
			return ci > cj
		}
		return strings.ToLower(m.entries[i].name) < strings.ToLower(m.entries[j].name)
	})
}

func (m *AppsMode) Count() int              { return len(m.entries) }
func (m *AppsMode) Text(i int) string       { return m.entries[i].name }
func (m *AppsMode) Completion(i int) string { return m.entries[i].name }
func (m *AppsMode) NotASCII(i int) bool     { return m.entries[i].notASCII }

func (m *AppsMode) MatchTokens(i int, tokens []match.Token, notASCII, caseSensitive bool) bool {
	return match.Fields(tokens, m.entries[i].fields, notASCII, caseSensitive)
}

// Execute launches the selected application and records the use. modified
// forces a terminal even for graphical entries.
func (m *AppsMode) Execute(entry int, modified bool) error {
	e := m.entries[entry]
	if err := spawn.Run(spawn.StripFieldCodes(e.exec), spawn.Options{
		Terminal:     e.terminal || modified,
		TerminalProg: m.term,
		Dir:          e.workdir,
	}); err != nil {
		return err
	}
	m.history.Bump(e.name)
	return m.history.Save()
}

// ExecuteCustom runs the typed text as a plain command line.
func (m *AppsMode) ExecuteCustom(text string, modified bool) error {
	return spawn.Run(text, spawn.Options{Terminal: modified, TerminalProg: m.term})
}

// Delete forgets the selected entry's launch history and restores the
// alphabetical position.
func (m *AppsMode) Delete(entry int) error {
	m.history.Remove(m.entries[entry].name)
	if err := m.history.Save(); err != nil {
		return err
	}
	m.sortEntries()
	return nil
}

func newAppEntry(de *desktopEntry) appEntry {
	fields := []string{de.Name, de.GenericName, de.Categories, de.Keywords, de.Exec}
	return appEntry{
		name:     de.Name,
		exec:     de.Exec,
		workdir:  de.Path,
		terminal: de.Terminal,
		fields:   fields,
		notASCII: !match.IsASCII(strings.Join(fields, " ")),
	}
}

func applicationDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "applications"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
	}
	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, dir := range filepath.SplitList(dataDirs) {
		if dir != "" {
			dirs = append(dirs, filepath.Join(dir, "applications"))
		}
	}
	return dirs
}

// scanApplications walks every application directory. The first directory
// a desktop-file id appears in wins, so a user-level entry masks the
// system one even when it only hides it.
func scanApplications() []appEntry {
	var entries []appEntry
	seen := make(map[string]bool)

	for _, dir := range applicationDirs() {
		root := dir
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(path, ".desktop") {
				return nil
			}
			id, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			if seen[id] {
				return nil
			}
			seen[id] = true
			de, err := parseDesktopFile(path)
			if err != nil {
				return nil // hidden or broken entries are skipped
			}
			entries = append(entries, newAppEntry(de))
			return nil
		})
	}
	return entries
}
