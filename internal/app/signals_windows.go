//go:build windows

package app

import "os"

// contSignals is empty on Windows; there is no SIGCONT.
func contSignals() []os.Signal {
	return nil
}
