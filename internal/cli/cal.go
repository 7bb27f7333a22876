package cli

import (
	"context"
	"time"

	"github.com/idilsaglam/chaintodo/internal/todosync"
	"github.com/idilsaglam/chaintodo/internal/ui"
)

func doCalendar(ctx context.Context, app *App, args []string) int {
	loc := app.Config.Location()
	now := app.now()
	month := now.In(loc)
	if len(args) > 0 {
		t, err := time.ParseInLocation("2006-01", args[0], loc)
		if err != nil {
			ui.Fail("cal: month must be YYYY-MM: " + args[0])
			return 2
		}
		month = t
	}

	if err := app.connect(ctx, false); err != nil {
		ui.Fail("connect: " + err.Error())
		return 1
	}
	todos, err := app.Service.Resync(ctx)
	if out := todosync.Classify(err); out.Surfaced() {
		return outcome("cal", err)
	}
	ui.Panel(ui.Month(month.Year(), month.Month(), todos, now, loc))
	return 0
}
