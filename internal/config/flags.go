package config

import (
	"flag"
	"fmt"
)

// parseFlags binds the global flags onto cfg and parses args. Flag defaults
// are the values resolved so far, so an unset flag keeps them.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}
	Bind(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	return nil
}

// Bind registers the global flags on fs, writing into cfg.
func Bind(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.RPCURL, "rpc", cfg.RPCURL, "JSON-RPC endpoint of the network")
	fs.Int64Var(&cfg.ChainID, "chain-id", cfg.ChainID, "supported chain id")
	fs.StringVar(&cfg.ContractAddress, "contract", cfg.ContractAddress, "TodoList contract address")
	fs.StringVar(&cfg.ABIFile, "abi", cfg.ABIFile, "published contract ABI (JSON) to use instead of the built-in one")
	fs.BoolVar(&cfg.BulkFallback, "bulk-fallback", cfg.BulkFallback, "create todos one by one when bulk create is unsupported")
	fs.BoolVar(&cfg.Confirm, "confirm", cfg.Confirm, "ask before signing each transaction")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "color theme: classic, neon or mono")
	fs.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "IANA zone for due dates (default local)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text, json or logfmt")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file")
}
