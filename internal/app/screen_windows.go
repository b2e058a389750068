//go:build windows

package app

import "github.com/gdamore/tcell/v2"

// newScreen uses the console screen; Windows has no /dev/tty equivalent.
func newScreen() (tcell.Screen, error) {
	return tcell.NewScreen()
}
