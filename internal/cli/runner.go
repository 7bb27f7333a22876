package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/idilsaglam/chaintodo/internal/todosync"
	"github.com/idilsaglam/chaintodo/internal/ui"
)

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, app *App) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doList(ctx, app, a)

	case "add":
		return doAdd(ctx, app, a)

	case "done":
		if len(a) != 1 {
			ui.Fail("usage: todo done <id>")
			return 2
		}
		ids, err := parseIDs(a)
		if err != nil {
			ui.Fail("done: " + err.Error())
			return 2
		}
		return doToggle(ctx, app, ids[0])

	case "rm":
		if len(a) == 0 {
			ui.Fail("usage: todo rm <id...>")
			return 2
		}
		ids, err := parseIDs(a)
		if err != nil {
			ui.Fail("rm: " + err.Error())
			return 2
		}
		return doRemove(ctx, app, ids)

	case "complete", "reopen":
		if len(a) == 0 {
			ui.Fail("usage: todo " + cmd + " <id...>")
			return 2
		}
		ids, err := parseIDs(a)
		if err != nil {
			ui.Fail(cmd + ": " + err.Error())
			return 2
		}
		return doSetCompleted(ctx, app, ids, cmd == "complete")

	case "import":
		if len(a) != 1 {
			ui.Fail("usage: todo import <file.xlsx|file.json>")
			return 2
		}
		return doImport(ctx, app, a[0])

	case "export":
		if len(a) != 1 {
			ui.Fail("usage: todo export <file.xlsx|file.json>")
			return 2
		}
		return doExport(ctx, app, a[0])

	case "template":
		path := defaultTemplate
		if len(a) > 0 {
			path = a[0]
		}
		return doTemplate(path)

	case "cal":
		return doCalendar(ctx, app, a)

	case "status":
		return doStatus(ctx, app)

	case "inspect":
		return doInspect(ctx, app)

	case "tui":
		return doTUI(ctx, app)

	case "wallet":
		if len(a) == 0 {
			ui.Fail("usage: todo wallet <import|new|forget|status|whoami>")
			return 2
		}
		switch a[0] {
		case "import":
			return doWalletImport(app, a[1:])
		case "new":
			return doWalletNew()
		case "forget":
			return doWalletForget(app)
		case "status":
			return doWalletStatus(app)
		case "whoami":
			return doWalletWhoAmI(app)
		default:
			ui.Fail("usage: todo wallet <import|new|forget|status|whoami>")
			return 2
		}
	}

	ui.Fail("unknown subcommand: " + cmd)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprint(ui.Stdout(), `todo - on-chain todo list

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  ls [--group]                 List your todos
  add [--due DATE] <text...>   Create a todo ("text @ DATE" also works)
  done <id>                    Toggle completion
  rm <id...>                   Delete one or more todos
  complete <id...>             Mark todos completed
  reopen <id...>               Mark todos pending
  import <file>                Create todos from .xlsx or .json
  export <file>                Write your todos to .xlsx or .json
  template [file]              Write an empty import spreadsheet
  cal [YYYY-MM]                Month calendar of due dates
  status                       Provider, network and contract checks
  inspect                      Scan every todo id on the contract
  tui                          Interactive full-screen view
  wallet <import|new|forget|status|whoami>

Flags:
  --rpc URL  --chain-id N  --contract ADDR  --abi FILE
  --confirm  --bulk-fallback  --theme NAME  --tz ZONE
  --log-level LEVEL  --log-format FORMAT  --log-file FILE

Examples:
  todo add --due 2025-07-01 "Renew domain"
  todo ls --group
  todo complete 3 4
  todo import todos.xlsx
`)
}

func parseIDs(args []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(args))
	for _, s := range args {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("not a todo id: %s", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// outcome prints a failed operation the way the views do and returns the
// exit code. Missing data or account is a hint, not an error banner.
func outcome(op string, err error) int {
	out := todosync.Classify(err)
	if out.Kind == todosync.KindOK {
		return 0
	}
	if !out.Surfaced() {
		ui.Hint(out.Message())
		return 1
	}
	var pe *todosync.PartialError
	if errors.As(err, &pe) {
		ui.Fail(fmt.Sprintf("%s: created %d of %d before failing", op, pe.Done, pe.Total))
	}
	ui.Fail(op + ": " + out.Message())
	return 1
}

// confirmed reports a mined mutation.
func confirmed(msg string, res todosync.Result) {
	ui.OK(msg)
	for _, h := range res.TxHashes {
		ui.Hint("tx " + h.Hex())
	}
}
