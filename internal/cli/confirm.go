package cli

import (
	"bufio"
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/idilsaglam/chaintodo/internal/ui"
	"github.com/idilsaglam/chaintodo/internal/wallet"
)

// promptConfirm asks on stdin before every signature, showing the decoded
// contract call.
func promptConfirm(r *bufio.Reader, parsed abi.ABI, loc *time.Location) wallet.ConfirmFunc {
	return func(ctx context.Context, req wallet.SignRequest) bool {
		if ctx.Err() != nil {
			return false
		}
		for _, line := range describeRequest(parsed, req, loc) {
			ui.Printf("  %s\n", line)
		}
		ui.Printf("Sign this transaction? [y/N] ")
		answer, _ := r.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

func describeRequest(parsed abi.ABI, req wallet.SignRequest, loc *time.Location) []string {
	t := ui.Current()
	lines := []string{ui.C(t.Title, "Transaction")}
	if req.To != nil {
		lines = append(lines, "to      "+req.To.Hex())
	}
	lines = append(lines,
		"from    "+req.From.Hex(),
		fmt.Sprintf("nonce   %d  gas %d  chain %s", req.Nonce, req.Gas, req.ChainID),
	)
	if len(req.Data) < 4 {
		return lines
	}
	m, err := parsed.MethodById(req.Data[:4])
	if err != nil {
		return append(lines, fmt.Sprintf("data    %d bytes", len(req.Data)))
	}
	lines = append(lines, "call    "+ui.C(t.Accent, m.Name))
	args, err := m.Inputs.Unpack(req.Data[4:])
	if err != nil {
		return lines
	}
	for i, in := range m.Inputs {
		if i >= len(args) {
			break
		}
		name := strings.TrimPrefix(in.Name, "_")
		lines = append(lines, fmt.Sprintf("  %-10s %s", name, formatArg(name, args[i], loc)))
	}
	return lines
}

func formatArg(name string, v interface{}, loc *time.Location) string {
	date := strings.Contains(strings.ToLower(name), "date")
	switch x := v.(type) {
	case *big.Int:
		if date && x.IsInt64() {
			return time.Unix(x.Int64(), 0).In(loc).Format("2006-01-02 15:04")
		}
		return x.String()
	case []*big.Int:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = formatArg(name, n, loc)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		short := make([]string, len(x))
		for i, s := range x {
			short[i] = ui.Truncate(s, 24)
		}
		return fmt.Sprintf("%q", short)
	case string:
		return fmt.Sprintf("%q", ui.Truncate(x, 48))
	}
	return fmt.Sprint(v)
}
