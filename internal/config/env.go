package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// lookupEnv returns the first non-empty variable among names.
func lookupEnv(names ...string) (string, bool) {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v, true
		}
	}
	return "", false
}

// loadFromEnv overrides config from environment variables. SEPOLIA_URL and
// CONTRACT_ADDRESS are the names the deploy tooling writes to .env.
// The signing key is read from the environment by the wallet package.
func loadFromEnv(cfg *Config) error {
	if v, ok := lookupEnv("CHAINTODO_RPC_URL", "SEPOLIA_URL"); ok {
		cfg.RPCURL = v
	}
	if v, ok := lookupEnv("CHAINTODO_CHAIN_ID"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CHAINTODO_CHAIN_ID: %w", err)
		}
		cfg.ChainID = n
	}
	if v, ok := lookupEnv("CHAINTODO_CONTRACT_ADDRESS", "CONTRACT_ADDRESS"); ok {
		cfg.ContractAddress = v
	}
	if v, ok := lookupEnv("CHAINTODO_ABI_FILE"); ok {
		cfg.ABIFile = v
	}
	if v, ok := lookupEnv("CHAINTODO_BULK_FALLBACK"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHAINTODO_BULK_FALLBACK: %w", err)
		}
		cfg.BulkFallback = b
	}
	if v, ok := lookupEnv("CHAINTODO_CONFIRM"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHAINTODO_CONFIRM: %w", err)
		}
		cfg.Confirm = b
	}
	if v, ok := lookupEnv("CHAINTODO_THEME"); ok {
		cfg.Theme = strings.ToLower(v)
	}
	if v, ok := lookupEnv("CHAINTODO_TIMEZONE"); ok {
		cfg.Timezone = v
	}
	if v, ok := lookupEnv("CHAINTODO_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookupEnv("CHAINTODO_LOG_FORMAT"); ok {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v, ok := lookupEnv("CHAINTODO_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	return nil
}

// expandPath expands a leading ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}
