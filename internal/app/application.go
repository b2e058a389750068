package app

import (
	"errors"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/tmenu/internal/config"
	"github.com/kk-code-lab/tmenu/internal/engine"
	"github.com/kk-code-lab/tmenu/internal/keymap"
	"github.com/kk-code-lab/tmenu/internal/modes"
	"github.com/kk-code-lab/tmenu/internal/ui"
)

// ErrCancelled reports that the user dismissed the menu without choosing.
var ErrCancelled = errors.New("cancelled")

// Application owns the terminal, the filter engine, and the mode registry
// for one menu run.
type Application struct {
	screen   tcell.Screen
	engine   *engine.Engine
	registry *modes.Registry
	keys     *keymap.Map
	renderer *ui.Renderer
	cfg      *config.Config
	query    string
}

// NewApplication wires the engine and terminal for the given configuration.
func NewApplication(cfg *config.Config, registry *modes.Registry) (*Application, error) {
	screen, err := newScreen()
	if err != nil {
		return nil, err
	}
	return newApplicationWithScreen(cfg, registry, screen)
}

func newApplicationWithScreen(cfg *config.Config, registry *modes.Registry, screen tcell.Screen) (*Application, error) {
	keys, err := keymap.New(cfg.Keys)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(cfg.Threads)
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		eng.Close()
		return nil, err
	}
	// Parse mouse sequences so clicks and wheel scrolling reach the menu.
	screen.EnableMouse(tcell.MouseButtonEvents)

	return &Application{
		screen:   screen,
		engine:   eng,
		registry: registry,
		keys:     keys,
		renderer: ui.NewRenderer(screen),
		cfg:      cfg,
	}, nil
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.engine.Close()
	return nil
}

func (app *Application) sessionOptions() engine.Options {
	return engine.Options{
		Query:         app.query,
		CaseSensitive: app.cfg.CaseSensitive,
		Sort:          app.cfg.Sort,
		AutoSelect:    app.cfg.AutoSelect,
		NoCycle:       !app.cfg.Cycle,
		Lines:         app.sessionRows(),
		Columns:       app.cfg.Columns,
		FixedNumLines: app.cfg.FixedNumLines,
		Scroll:        app.cfg.ScrollMethod(),
		Resolver:      app.keys,
		Clipboard:     clipboard.ReadAll,
	}
}

// sessionRows bounds the configured line count by what the terminal can show.
func (app *Application) sessionRows() int {
	_, h := app.screen.Size()
	rows := ui.ListHeight(h, app.registry.Len())
	if app.cfg.Lines < rows {
		rows = app.cfg.Lines
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}
