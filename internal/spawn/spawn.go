// Package spawn launches commands detached from the menu process.
package spawn

import (
	"fmt"
	"os/exec"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// Options control how a command line is launched.
type Options struct {
	Terminal     bool   // wrap the command in a terminal emulator
	TerminalProg string // terminal emulator to wrap with
	Dir          string // working directory, empty for inherited
}

// Run parses the command line into an argv, optionally wraps it in a
// terminal emulator, and starts it in its own session so it outlives the
// menu.
func Run(line string, opts Options) error {
	argv, err := shellwords.Parse(line)
	if err != nil {
		return fmt.Errorf("spawn: parse %q: %w", line, err)
	}
	if len(argv) == 0 {
		return fmt.Errorf("spawn: empty command")
	}
	if opts.Terminal {
		if opts.TerminalProg == "" {
			return fmt.Errorf("spawn: no terminal emulator configured")
		}
		argv = append([]string{opts.TerminalProg, "-e"}, argv...)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.SysProcAttr = detachAttr()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn: %s: %w", argv[0], err)
	}
	return cmd.Process.Release()
}

// StripFieldCodes removes the desktop-entry %-placeholders from an Exec
// line; doubled percents collapse to a literal one.
func StripFieldCodes(exec string) string {
	var b strings.Builder
	b.Grow(len(exec))
	for i := 0; i < len(exec); i++ {
		if exec[i] != '%' || i == len(exec)-1 {
			b.WriteByte(exec[i])
			continue
		}
		i++
		if exec[i] == '%' {
			b.WriteByte('%')
		}
	}
	return strings.TrimSpace(b.String())
}
