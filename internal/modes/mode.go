// Package modes provides the switchable entry sources the menu filters
// over: desktop applications, $PATH executables, and lines read from stdin.
package modes

import (
	"errors"

	"github.com/kk-code-lab/tmenu/internal/engine"
)

// Mode is one switchable entry source together with its launch behavior.
// The entry list must stay stable while a session filters over it; Refresh
// is the only call allowed to change it.
type Mode interface {
	engine.Source

	// Name labels the mode in the tab bar.
	Name() string
	// Refresh reloads the entry list.
	Refresh() error
	// Execute launches the given entry. modified requests the alternate
	// launch behavior, e.g. forcing a terminal.
	Execute(entry int, modified bool) error
	// ExecuteCustom launches the raw typed text instead of an entry.
	ExecuteCustom(text string, modified bool) error
	// Delete forgets the given entry where the mode supports it.
	Delete(entry int) error
}

// Registry holds the enabled modes in tab order and tracks the active one.
type Registry struct {
	modes []Mode
	cur   int
}

func NewRegistry(modes ...Mode) (*Registry, error) {
	if len(modes) == 0 {
		return nil, errors.New("modes: registry needs at least one mode")
	}
	return &Registry{modes: modes}, nil
}

// Current returns the active mode.
func (r *Registry) Current() Mode { return r.modes[r.cur] }

// Index returns the active mode's position.
func (r *Registry) Index() int { return r.cur }

// Len returns the number of modes.
func (r *Registry) Len() int { return len(r.modes) }

// Names returns the mode names in tab order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.modes))
	for i, m := range r.modes {
		names[i] = m.Name()
	}
	return names
}

// Next advances to the following mode, wrapping at the end.
func (r *Registry) Next() Mode {
	r.cur = (r.cur + 1) % len(r.modes)
	return r.modes[r.cur]
}

// Prev steps back to the previous mode, wrapping at the start.
func (r *Registry) Prev() Mode {
	r.cur = (r.cur - 1 + len(r.modes)) % len(r.modes)
	return r.modes[r.cur]
}

// Select jumps to the mode at index i; out-of-range indices keep the
// current mode.
func (r *Registry) Select(i int) Mode {
	if i >= 0 && i < len(r.modes) {
		r.cur = i
	}
	return r.modes[r.cur]
}
