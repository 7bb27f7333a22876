package cli

import (
	"strings"
	"time"

	"github.com/idilsaglam/chaintodo/internal/ui"
	"github.com/idilsaglam/chaintodo/internal/wallet"
)

// ---------------------------------------------------
// Wallet subcommands (use functions from the wallet package)
// ---------------------------------------------------

func doWalletImport(app *App, args []string) int {
	var key string
	if len(args) > 0 {
		key = args[0]
	} else {
		ui.Printf("Paste your private key: ")
		line, err := app.input().ReadString('\n')
		if err != nil && line == "" {
			ui.Fail("read key: " + err.Error())
			return 1
		}
		key = line
	}
	key = strings.TrimSpace(key)
	if key == "" {
		ui.Fail("wallet import: empty key")
		return 2
	}
	ki, err := wallet.SetKey(key)
	if err != nil {
		ui.Fail("save key: " + err.Error())
		return 1
	}
	ui.OK("imported " + ki.Address)
	return 0
}

func doWalletNew() int {
	ki, err := wallet.GenerateKey()
	if err != nil {
		ui.Fail("new wallet: " + err.Error())
		return 1
	}
	ui.OK("created " + ki.Address)
	ui.Hint("fund it with test ether before sending transactions")
	return 0
}

func doWalletForget(app *App) int {
	ki, _ := wallet.ResolveKey(app.Config.PrivateKey)
	if ki != nil && ki.Source != "file" {
		ui.OK("key is provided by " + sourceName(ki.Source) + " (nothing to delete)")
		return 0
	}
	if err := wallet.DeleteKey(); err != nil {
		ui.Fail("forget: " + err.Error())
		return 1
	}
	ui.OK("wallet forgotten")
	return 0
}

func doWalletStatus(app *App) int {
	ki, err := wallet.ResolveKey(app.Config.PrivateKey)
	if err != nil {
		ui.Fail("wallet: " + err.Error())
		return 1
	}
	if ki == nil {
		ui.Hint("no wallet")
		ui.Printf("Run: todo wallet import\n")
		return 0
	}
	ui.Printf("source: %s\n", sourceName(ki.Source))
	ui.Printf("address: %s\n", ki.Address)
	if !ki.CreatedAt.IsZero() {
		ui.Printf("saved: %s\n", ki.CreatedAt.UTC().Format(time.RFC3339))
	}
	ui.Printf("env override: CHAINTODO_PRIVATE_KEY\n")
	return 0
}

func doWalletWhoAmI(app *App) int {
	ki, err := wallet.ResolveKey(app.Config.PrivateKey)
	if err != nil {
		ui.Fail("wallet: " + err.Error())
		return 1
	}
	if ki == nil {
		ui.Fail("no wallet. Run: todo wallet import")
		return 2
	}
	ui.Printf("%s\n", ki.Address)
	return 0
}

func sourceName(source string) string {
	switch source {
	case "env":
		return "environment variable"
	case "config":
		return "config private_key"
	}
	return "key file"
}
