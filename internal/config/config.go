// Package config assembles chaintodo settings from defaults, TOML files,
// a .env file, the environment and command-line flags, then validates them.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultChainID         = 11155111 // Sepolia
	DefaultContractAddress = "0x93B16DeD4cA68658859354Ce117EA3ca9b87B8Ab"
	DefaultTheme           = "classic"
	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "text"
)

// Config is the resolved configuration.
type Config struct {
	RPCURL          string `toml:"rpc_url" validate:"omitempty,url"`
	ChainID         int64  `toml:"chain_id" validate:"gt=0"`
	ContractAddress string `toml:"contract_address" validate:"required,eth_addr"`
	ABIFile         string `toml:"abi_file" validate:"omitempty,file"`
	PrivateKey      string `toml:"private_key" validate:"omitempty,hexadecimal"`
	BulkFallback    bool   `toml:"bulk_fallback"`
	Confirm         bool   `toml:"confirm"`

	Theme    string `toml:"theme" validate:"oneof=classic neon mono"`
	Timezone string `toml:"timezone" validate:"omitempty,timezone"`

	LogLevel  string `toml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `toml:"log_format" validate:"oneof=text json logfmt"`
	LogFile   string `toml:"log_file"`

	// Files lists the config files that were applied, in order.
	Files []string `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.ChainID = DefaultChainID
	cfg.ContractAddress = DefaultContractAddress
	cfg.BulkFallback = true
	cfg.Confirm = true
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// Default returns a config holding only default values.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Chain returns the supported chain id.
func (c *Config) Chain() *big.Int { return big.NewInt(c.ChainID) }

// Contract returns the contract address.
func (c *Config) Contract() common.Address { return common.HexToAddress(c.ContractAddress) }

// Location returns the zone dates are read and shown in.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, describe(e))
	}
	sort.Strings(msgs)
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", e.Field(), e.Param(), e.Value())
	case "eth_addr":
		return fmt.Sprintf("%s is not an address: %q", e.Field(), e.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "file":
		return fmt.Sprintf("%s: no such file %q", e.Field(), e.Value())
	case "url":
		return fmt.Sprintf("%s is not a URL: %q", e.Field(), e.Value())
	case "timezone":
		return fmt.Sprintf("%s: unknown zone %q", e.Field(), e.Value())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
