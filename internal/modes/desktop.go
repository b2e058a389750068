package modes

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// desktopEntry is the parsed [Desktop Entry] section of a .desktop file.
type desktopEntry struct {
	Name        string
	GenericName string
	Comment     string
	Exec        string
	Path        string
	Categories  string
	Keywords    string
	Terminal    bool
}

var (
	errNotApplication  = errors.New("desktop: not an application entry")
	errHiddenEntry     = errors.New("desktop: entry is hidden")
	errIncompleteEntry = errors.New("desktop: missing Name or Exec")
)

func parseDesktopFile(path string) (*desktopEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseDesktopEntry(f)
}

// parseDesktopEntry reads the main section of a desktop file. Localized
// keys like Name[sv] are ignored; entries that are hidden, incomplete, or
// not applications are rejected with a sentinel error.
func parseDesktopEntry(r io.Reader) (*desktopEntry, error) {
	entry := &desktopEntry{}
	entryType := ""
	hidden := false
	inSection := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inSection = line == "[Desktop Entry]"
			continue
		}
		if !inSection {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "Type":
			entryType = value
		case "Name":
			entry.Name = value
		case "GenericName":
			entry.GenericName = value
		case "Comment":
			entry.Comment = value
		case "Exec":
			entry.Exec = value
		case "Path":
			entry.Path = value
		case "Categories":
			entry.Categories = value
		case "Keywords":
			entry.Keywords = value
		case "Terminal":
			entry.Terminal = value == "true"
		case "NoDisplay", "Hidden":
			if value == "true" {
				hidden = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if entryType != "" && entryType != "Application" {
		return nil, errNotApplication
	}
	if hidden {
		return nil, errHiddenEntry
	}
	if entry.Name == "" || entry.Exec == "" {
		return nil, errIncompleteEntry
	}
	return entry, nil
}
