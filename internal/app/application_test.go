package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/tmenu/internal/config"
	"github.com/kk-code-lab/tmenu/internal/modes"
)

func TestRunAcceptsFilteredEntry(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	var out bytes.Buffer
	app := newTestApp(t, screen, &out, "red\ngreen\nblue\n")

	screen.InjectKey(tcell.KeyRune, 'g', 0)
	screen.InjectKey(tcell.KeyEnter, 0, 0)

	if err := runApp(t, app); err != nil {
		t.Fatalf("Failed to run menu: %v", err)
	}
	if got := out.String(); got != "green\n" {
		t.Errorf("Expected %q on stdout, got %q", "green\n", got)
	}
}

func TestRunEmitsCustomTextWhenNothingMatches(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	var out bytes.Buffer
	app := newTestApp(t, screen, &out, "red\ngreen\nblue\n")

	for _, r := range "xyzzy" {
		screen.InjectKey(tcell.KeyRune, r, 0)
	}
	screen.InjectKey(tcell.KeyEnter, 0, 0)

	if err := runApp(t, app); err != nil {
		t.Fatalf("Failed to run menu: %v", err)
	}
	if got := out.String(); got != "xyzzy\n" {
		t.Errorf("Expected the raw query on stdout, got %q", got)
	}
}

func TestRunReturnsErrCancelledOnCtrlC(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	var out bytes.Buffer
	app := newTestApp(t, screen, &out, "red\n")

	screen.InjectKey(tcell.KeyCtrlC, 0, 0)

	err := runApp(t, app)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Expected ErrCancelled, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output after cancel, got %q", out.String())
	}
}

func TestRunSwitchesModeAndKeepsQuery(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	var first, second bytes.Buffer
	one := mustLines(t, "one", "alpha\nbeta\n", &first)
	two := mustLines(t, "two", "gamma\nbetamax\n", &second)
	registry, err := modes.NewRegistry(one, two)
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}
	app := newTestAppWithRegistry(t, screen, registry)

	// Type a query, hop to the second mode, accept its surviving match.
	for _, r := range "beta" {
		screen.InjectKey(tcell.KeyRune, r, 0)
	}
	screen.InjectKey(tcell.KeyRight, 0, tcell.ModShift)
	screen.InjectKey(tcell.KeyEnter, 0, 0)

	if err := runApp(t, app); err != nil {
		t.Fatalf("Failed to run menu: %v", err)
	}
	if first.Len() != 0 {
		t.Errorf("Expected nothing from the first mode, got %q", first.String())
	}
	if got := second.String(); got != "betamax\n" {
		t.Errorf("Expected the query to survive the mode switch, got %q", got)
	}
}

// ===== TEST HELPERS =====

func newTestApp(t *testing.T, screen tcell.SimulationScreen, out *bytes.Buffer, input string) *Application {
	t.Helper()
	mode := mustLines(t, "dmenu", input, out)
	registry, err := modes.NewRegistry(mode)
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}
	return newTestAppWithRegistry(t, screen, registry)
}

func newTestAppWithRegistry(t *testing.T, screen tcell.SimulationScreen, registry *modes.Registry) *Application {
	t.Helper()
	cfg := &config.Config{
		Modes:   []string{"dmenu"},
		Lines:   10,
		Columns: 1,
		Prompt:  ">",
		Cycle:   true,
		Scroll:  config.ScrollPaged,
		Threads: 1,
	}
	app, err := newApplicationWithScreen(cfg, registry, screen)
	if err != nil {
		t.Fatalf("Failed to build application: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func mustLines(t *testing.T, name, input string, out *bytes.Buffer) *modes.LinesMode {
	t.Helper()
	mode, err := modes.NewLinesMode(name, strings.NewReader(input), out)
	if err != nil {
		t.Fatalf("Failed to read entry lines: %v", err)
	}
	return mode
}

func runApp(t *testing.T, app *Application) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- app.Run() }()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Menu did not finish in time")
		return nil
	}
}
