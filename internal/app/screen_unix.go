//go:build !windows

package app

import "github.com/gdamore/tcell/v2"

// newScreen opens the UI on the controlling terminal so stdout stays free for
// selection output when tmenu runs inside a pipeline.
func newScreen() (tcell.Screen, error) {
	if tty, err := tcell.NewDevTty(); err == nil {
		if screen, err := tcell.NewTerminfoScreenFromTty(tty); err == nil {
			return screen, nil
		}
	}
	return tcell.NewScreen()
}
