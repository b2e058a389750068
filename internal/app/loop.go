package app

import (
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/tmenu/internal/engine"
	"github.com/kk-code-lab/tmenu/internal/modes"
	"github.com/kk-code-lab/tmenu/internal/ui"
)

// Run drives the menu until an outcome ends it, then performs the chosen
// action with the terminal restored. It returns ErrCancelled when the user
// backs out without choosing.
func (app *Application) Run() error {
	fin, err := app.interact()
	if err != nil {
		return err
	}
	if fin != nil {
		return fin()
	}
	return nil
}

// interact owns the screen for the whole run. It returns the launch step for
// the accepted outcome so it can run after the terminal is restored; stdout
// is then clean for selection output and spawned programs inherit a sane tty.
func (app *Application) interact() (fin func() error, err error) {
	defer app.screen.Fini()

	eventCh := make(chan tcell.Event)
	go func() {
		for {
			eventCh <- app.screen.PollEvent()
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for {
		mode := app.registry.Current()
		sess := app.engine.NewSession(mode, app.sessionOptions())

		for sess.State() == engine.StateInteractive {
			app.render(sess, mode)

			select {
			case ev := <-eventCh:
				app.handleEvent(sess, ev)
			case <-sigContCh:
				app.resumeAfterStop()
			}
		}

		// The query survives mode switches and deletions.
		app.query = sess.Query()

		switch out := sess.Outcome().(type) {
		case engine.OutcomeAccept:
			return launchEntry(mode, out.Entry, out.Modified), nil
		case engine.OutcomeCustom:
			return launchCustom(mode, out.Text, out.Modified), nil
		case engine.OutcomeCancel:
			return nil, ErrCancelled
		case engine.OutcomeNextMode:
			if err := app.registry.Next().Refresh(); err != nil {
				return nil, err
			}
		case engine.OutcomePrevMode:
			if err := app.registry.Prev().Refresh(); err != nil {
				return nil, err
			}
		case engine.OutcomeSwitchMode:
			if err := app.registry.Select(out.Mode).Refresh(); err != nil {
				return nil, err
			}
		case engine.OutcomeDelete:
			// An entry the mode cannot forget is left alone.
			_ = mode.Delete(out.Entry)
		}
	}
}

func launchEntry(mode modes.Mode, entry int, modified bool) func() error {
	return func() error { return mode.Execute(entry, modified) }
}

func launchCustom(mode modes.Mode, text string, modified bool) func() error {
	return func() error { return mode.ExecuteCustom(text, modified) }
}

func (app *Application) render(sess *engine.Session, mode modes.Mode) {
	win := sess.Window()
	entries := make([]string, len(win.Entries))
	for i, idx := range win.Entries {
		entries[i] = mode.Text(idx)
	}

	app.renderer.Render(&ui.Frame{
		Prompt:     app.cfg.Prompt,
		Query:      sess.Query(),
		Cursor:     sess.QueryCursor(),
		Indicator:  sess.Indicator(),
		Filtered:   sess.FilteredCount(),
		Total:      sess.TotalCount(),
		Rows:       win.Rows,
		Cols:       win.Cols,
		Entries:    entries,
		Selected:   win.Selected,
		Modes:      app.registry.Names(),
		ActiveMode: app.registry.Index(),
	})

	if sess.TakeFullRedraw() {
		app.screen.Sync()
	}
}

func (app *Application) handleEvent(sess *engine.Session, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if kev, ok := ui.TranslateKey(ev); ok {
			sess.Feed(kev)
		}
	case *tcell.EventResize:
		sess.Resize(app.sessionRows())
		app.screen.Sync()
	case *tcell.EventMouse:
		app.handleMouse(sess, ev)
	}
}

func (app *Application) handleMouse(sess *engine.Session, ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		sess.Apply(engine.RowUpAction{})
	case buttons&tcell.WheelDown != 0:
		sess.Apply(engine.RowDownAction{})
	case buttons&tcell.WheelLeft != 0:
		sess.Apply(engine.RowLeftAction{})
	case buttons&tcell.WheelRight != 0:
		sess.Apply(engine.RowRightAction{})
	case buttons&tcell.Button1 != 0:
		x, y := ev.Position()
		kind, idx := app.renderer.HitTest(x, y)
		switch kind {
		case ui.HitEntry:
			sess.ClickVisible(idx, time.Now())
		case ui.HitTab:
			sess.ClickTab(idx)
		}
	}
}

// resumeAfterStop repaints after the process is continued by the shell.
func (app *Application) resumeAfterStop() {
	if err := app.screen.Resume(); err != nil {
		return
	}
	app.screen.EnableMouse(tcell.MouseButtonEvents)
	app.screen.Sync()
}
