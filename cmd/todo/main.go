package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/chaintodo/internal/cli"
	"github.com/idilsaglam/chaintodo/internal/config"
	"github.com/idilsaglam/chaintodo/internal/logging"
	"github.com/idilsaglam/chaintodo/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.Usage = cli.PrintHelp
	cfg, err := config.Load(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		ui.Fail("config: " + err.Error())
		return 2
	}

	// the full-screen view owns the terminal; without a log file it logs nowhere
	var logOut io.Writer = os.Stderr
	if args := fs.Args(); len(args) > 0 && args[0] == "tui" {
		logOut = io.Discard
	}
	logger, closer, err := logging.FromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogFile, logOut)
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}
	defer closer.Close()
	ui.SetTheme(cfg.Theme)
	ui.SetColorForcing(os.Getenv("CLICOLOR_FORCE") != "", os.Getenv("NO_COLOR") != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{Config: cfg, Logger: logger, In: os.Stdin}
	defer app.Close()
	logger.Debug("config loaded", "files", cfg.Files, "chain", cfg.ChainID, "contract", cfg.ContractAddress)

	// Hand the remaining args to the CLI runner.
	code := cli.Run(ctx, fs.Args(), app)
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
