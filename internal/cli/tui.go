package cli

import (
	"context"

	"github.com/idilsaglam/chaintodo/internal/tui"
	"github.com/idilsaglam/chaintodo/internal/ui"
)

func doTUI(ctx context.Context, app *App) int {
	// the keypress is the confirmation; stdin belongs to the program
	if err := app.connect(ctx, true); err != nil {
		ui.Fail("connect: " + err.Error())
		return 1
	}
	opts := tui.Options{
		Location: app.Config.Location(),
		Now:      app.Now,
		Logger:   app.Logger,
	}
	var notifier tui.AccountNotifier
	if app.session != nil {
		notifier = app.session
		opts.Disconnect = app.session.Disconnect
	}
	if err := tui.Run(ctx, app.Service, notifier, opts); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}
