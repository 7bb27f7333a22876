package wallet

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
)

const keyFileName = "wallet.json"

// Environment variables that override the stored key, in priority order.
// PRIVATE_KEY is what the deploy tooling keeps in .env.
var keyEnvVars = []string{"CHAINTODO_PRIVATE_KEY", "PRIVATE_KEY"}

type KeyInfo struct {
	Key       string    `json:"key"`        // hex, no 0x prefix
	Address   string    `json:"address"`    // derived, for display
	Source    string    `json:"source"`     // "env" | "config" | "file"
	CreatedAt time.Time `json:"created_at"` // when we saved to file
}

// PrivateKey parses the stored hex key.
func (k *KeyInfo) PrivateKey() (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(k.Key)
	if err != nil {
		return nil, fmt.Errorf("parse key: %w", err)
	}
	return key, nil
}

// Dir is the per-user state directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".chaintodo"), nil
}

func keyFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, keyFileName), nil
}

// ResolveKey looks for a signing key: env override, then the config value,
// then the key file. It returns nil, nil when no key is configured.
func ResolveKey(configKey string) (*KeyInfo, error) {
	// 1) env override
	for _, name := range keyEnvVars {
		if env := strings.TrimSpace(os.Getenv(name)); env != "" {
			return newKeyInfo(env, "env")
		}
	}

	// 2) config
	if k := strings.TrimSpace(configKey); k != "" {
		return newKeyInfo(k, "config")
	}

	// 3) file
	return GetKey()
}

// GetKey reads the key file. It returns nil, nil when there is none.
func GetKey() (*KeyInfo, error) {
	p, err := keyFilePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // no wallet imported
		}
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var ki KeyInfo
	if err := json.Unmarshal(b, &ki); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	return newKeyInfoAt(ki.Key, "file", ki.CreatedAt)
}

// SetKey validates hexKey and stores it in the key file.
func SetKey(hexKey string) (*KeyInfo, error) {
	ki, err := newKeyInfo(hexKey, "file")
	if err != nil {
		return nil, err
	}
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	// ensure ~/.chaintodo exists with 0700
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	ki.CreatedAt = time.Now()
	b, err := json.MarshalIndent(ki, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	p, _ := keyFilePath()
	// write with 0600 (owner-only)
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return ki, nil
}

// GenerateKey creates a fresh key and stores it.
func GenerateKey() (*KeyInfo, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return SetKey(fmt.Sprintf("%x", crypto.FromECDSA(key)))
}

// DeleteKey removes the key file; a missing file is not an error.
func DeleteKey() error {
	p, err := keyFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func newKeyInfo(hexKey, source string) (*KeyInfo, error) {
	return newKeyInfoAt(hexKey, source, time.Time{})
}

func newKeyInfoAt(hexKey, source string, created time.Time) (*KeyInfo, error) {
	hexKey = stripHexPrefix(strings.TrimSpace(hexKey))
	if hexKey == "" {
		return nil, fmt.Errorf("empty key")
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%s key: %w", source, err)
	}
	return &KeyInfo{
		Key:       hexKey,
		Address:   crypto.PubkeyToAddress(key.PublicKey).Hex(),
		Source:    source,
		CreatedAt: created,
	}, nil
}

func stripHexPrefix(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		return s[2:]
	}
	return s
}
