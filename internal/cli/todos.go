package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/idilsaglam/chaintodo/internal/model"
	"github.com/idilsaglam/chaintodo/internal/sheet"
	"github.com/idilsaglam/chaintodo/internal/todosync"
	"github.com/idilsaglam/chaintodo/internal/tui"
	"github.com/idilsaglam/chaintodo/internal/ui"
)

func doList(ctx context.Context, app *App, args []string) int {
	fs := newFlagSet("ls")
	group := fs.Bool("group", false, "group by pending/done")
	if err := fs.Parse(args); err != nil {
		ui.Fail("ls: " + err.Error())
		return 2
	}
	if err := app.connect(ctx, false); err != nil {
		ui.Fail("connect: " + err.Error())
		return 1
	}
	todos, err := app.Service.Resync(ctx)
	if out := todosync.Classify(err); out.Surfaced() {
		return outcome("ls", err)
	} else if out.Kind == todosync.KindNoData {
		ui.Hint(out.Message())
	}

	loc, now := app.Config.Location(), app.now()
	d, _ := model.Stats(todos)

	t := ui.Current()
	var lines []string
	lines = append(lines, ui.Header(todos))
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(d, len(todos), 28)))
	lines = append(lines, "")
	if *group {
		lines = append(lines, ui.GroupLines(todos, now, loc)...)
	} else {
		lines = append(lines, ui.TodoLines(todos, now, loc)...)
	}
	lines = append(lines, "")
	if acct := app.Service.Account(); acct != (common.Address{}) {
		lines = append(lines, ui.C(t.Muted, "account "+acct.Hex()))
	}
	lines = append(lines, ui.C(t.Muted, "Tip: add with `todo add \"Buy milk\" --due 2025-07-01`"))
	ui.Panel(lines)
	return 0
}

func doAdd(ctx context.Context, app *App, args []string) int {
	fs := newFlagSet("add")
	dueFlag := fs.String("due", "", "due date")
	if err := fs.Parse(args); err != nil {
		ui.Fail("add: " + err.Error())
		return 2
	}
	text := strings.Join(fs.Args(), " ")
	loc, now := app.Config.Location(), app.now()

	content, due, err := tui.ParseAdd(text, loc, now)
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 2
	}
	if *dueFlag != "" {
		t, ok := sheet.ParseDue(*dueFlag, loc)
		if !ok {
			ui.Fail("add: unrecognised due date: " + *dueFlag)
			return 2
		}
		due = t
	}

	if err := app.connect(ctx, false); err != nil {
		ui.Fail("connect: " + err.Error())
		return 1
	}
	res, err := app.Service.Create(ctx, content, due)
	if err != nil {
		return outcome("add", err)
	}
	confirmed(fmt.Sprintf("added %q due %s", content, due.In(loc).Format(sheet.DateLayout)), res)
	return 0
}

func doToggle(ctx context.Context, app *App, id uint64) int {
	if err := app.connect(ctx, false); err != nil {
		ui.Fail("connect: " + err.Error())
		return 1
	}
	res, err := app.Service.Toggle(ctx, id)
	if err != nil {
		return outcome("done", err)
	}
	confirmed(fmt.Sprintf("toggled #%d", id), res)
	return 0
}

func doRemove(ctx context.Context, app *App, ids []uint64) int {
	if err := app.connect(ctx, false); err != nil {
		ui.Fail("connect: " + err.Error())
		return 1
	}
	var (
		res todosync.Result
		err error
	)
	if len(ids) == 1 {
		res, err = app.Service.Delete(ctx, ids[0])
	} else {
		res, err = app.Service.BulkDelete(ctx, ids)
	}
	if err != nil {
		return outcome("rm", err)
	}
	confirmed(fmt.Sprintf("removed %d todo(s)", len(ids)), res)
	return 0
}

func doSetCompleted(ctx context.Context, app *App, ids []uint64, completed bool) int {
	op, verb := "reopen", "reopened"
	if completed {
		op, verb = "complete", "completed"
	}
	if err := app.connect(ctx, false); err != nil {
		ui.Fail("connect: " + err.Error())
		return 1
	}
	// the bulk update rewrites whole records, so the current ones are needed
	if _, err := app.Service.Resync(ctx); err != nil {
		return outcome(op, err)
	}
	res, err := app.Service.SetCompleted(ctx, ids, completed)
	if err != nil {
		return outcome(op, err)
	}
	confirmed(fmt.Sprintf("%s %d todo(s)", verb, len(ids)), res)
	return 0
}
