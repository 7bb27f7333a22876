package contract

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed todolist.abi.json
var todoListABI []byte

// LoadABI parses the published interface description at path, or the
// embedded TodoList ABI when path is empty.
func LoadABI(path string) (abi.ABI, error) {
	raw := todoListABI
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return abi.ABI{}, fmt.Errorf("read abi: %w", err)
		}
		raw = b
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse abi: %w", err)
	}
	return parsed, nil
}

// Supports reports whether the ABI declares method.
func Supports(parsed abi.ABI, method string) bool {
	_, ok := parsed.Methods[method]
	return ok
}
