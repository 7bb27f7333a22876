package cli

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"

	"github.com/idilsaglam/chaintodo/internal/todosync"
	"github.com/idilsaglam/chaintodo/internal/ui"
)

// formatEther renders wei as ether with six decimals.
func formatEther(wei *big.Int) string {
	f := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	return f.Text('f', 6) + " ETH"
}

func doStatus(ctx context.Context, app *App) int {
	if err := app.connect(ctx, false); err != nil {
		ui.Fail("connect: " + err.Error())
		return 1
	}
	cfg := app.Config
	t := ui.Current()
	row := func(k, v string) string { return fmt.Sprintf("%-10s %s", ui.C(t.Accent, k), v) }

	lines := []string{ui.C(t.Title, "Status"), ""}
	for _, f := range cfg.Files {
		lines = append(lines, row("config", f))
	}
	lines = append(lines, row("contract", cfg.Contract().Hex()))

	if app.Chain == nil {
		lines = append(lines, row("provider", ui.C(t.Error, "none")))
	} else {
		lines = append(lines, row("provider", cfg.RPCURL))
		lines = append(lines, chainLines(ctx, app, row)...)
	}

	_, err := app.Service.Check(ctx)
	out := todosync.Classify(err)
	switch {
	case out.Kind == todosync.KindOK:
		lines = append(lines, "", ui.C(t.Success, "ready"))
	case out.Surfaced():
		lines = append(lines, "", ui.C(t.Error, out.Message()))
	default:
		lines = append(lines, "", ui.C(t.Muted, out.Message()))
	}
	if out.Kind == todosync.KindOK || out.Kind == todosync.KindNoData {
		if n, err := app.Service.Total(ctx); err == nil {
			lines = append(lines, row("created", fmt.Sprintf("%d todo(s) on contract", n)))
		}
	}
	ui.Panel(lines)
	if out.Surfaced() {
		return 1
	}
	return 0
}

func chainLines(ctx context.Context, app *App, row func(k, v string) string) []string {
	t := ui.Current()
	var lines []string

	if id, err := app.Chain.ChainID(ctx); err != nil {
		lines = append(lines, row("chain", ui.C(t.Error, err.Error())))
	} else {
		v := id.String()
		if id.Cmp(app.Config.Chain()) != 0 {
			v = ui.C(t.Error, fmt.Sprintf("%s (want %s)", id, app.Config.Chain()))
		}
		lines = append(lines, row("chain", v))
	}

	if code, err := app.Chain.CodeAt(ctx, app.Config.Contract()); err != nil {
		lines = append(lines, row("code", ui.C(t.Error, err.Error())))
	} else {
		lines = append(lines, row("code", fmt.Sprintf("%d bytes", len(code))))
	}

	acct, err := app.Chain.Account(ctx)
	if err != nil {
		return append(lines, row("account", ui.C(t.Muted, "none")))
	}
	lines = append(lines, row("account", acct.Hex()))
	if bal, err := app.Chain.Balance(ctx); err == nil {
		lines = append(lines, row("balance", formatEther(bal)))
	}
	return lines
}

func doInspect(ctx context.Context, app *App) int {
	if err := app.connect(ctx, false); err != nil {
		ui.Fail("connect: " + err.Error())
		return 1
	}
	rep, err := app.Service.Inspect(ctx)
	if err != nil {
		return outcome("inspect", err)
	}
	t := ui.Current()
	lines := []string{fmt.Sprintf("%s  %s %d", ui.C(t.Title, "Contract"), ui.C(t.Accent, "todoCount"), rep.Total)}
	if rep.Account != (common.Address{}) {
		lines = append(lines, ui.C(t.Muted, "account "+rep.Account.Hex()))
	}
	lines = append(lines, "")
	if len(rep.Entries) == 0 {
		lines = append(lines, ui.C(t.Muted, "no todos created yet"))
	}
	mine := 0
	for _, e := range rep.Entries {
		switch {
		case e.Err != nil:
			lines = append(lines, fmt.Sprintf("#%-3d %s", e.ID, ui.C(t.Error, e.Err.Error())))
		case !e.Todo.Valid():
			lines = append(lines, fmt.Sprintf("#%-3d %s", e.ID, ui.C(t.Muted, "(deleted)")))
		default:
			owner := e.Todo.Owner.Hex()
			if e.Mine {
				mine++
				owner = ui.C(t.Success, "mine")
			}
			lines = append(lines, fmt.Sprintf("#%-3d %-42s %s", e.ID, owner, ui.Truncate(e.Todo.Content, 40)))
		}
	}
	if rep.Account != (common.Address{}) {
		lines = append(lines, "", ui.C(t.Muted, fmt.Sprintf("%d of %d owned by you", mine, len(rep.Entries))))
	}
	ui.Panel(lines)
	return 0
}
