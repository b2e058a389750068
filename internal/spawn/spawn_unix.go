//go:build !windows

package spawn

import "syscall"

// detachAttr puts the child in its own session so closing the menu's
// terminal does not take it down.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
