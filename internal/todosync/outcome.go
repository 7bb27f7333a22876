package todosync

import (
	"errors"
	"strings"

	"github.com/idilsaglam/chaintodo/internal/contract"
	"github.com/idilsaglam/chaintodo/internal/wallet"
)

// Kind is the user-facing category of an operation result.
type Kind int

const (
	KindOK Kind = iota
	KindNoData
	KindWalletNotFound
	KindWrongNetwork
	KindContractNotFound
	KindRejected
	KindInsufficientFunds
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNoData:
		return "no-data"
	case KindWalletNotFound:
		return "wallet-not-found"
	case KindWrongNetwork:
		return "wrong-network"
	case KindContractNotFound:
		return "contract-not-found"
	case KindRejected:
		return "rejected"
	case KindInsufficientFunds:
		return "insufficient-funds"
	default:
		return "failed"
	}
}

// Outcome pairs a classified kind with the error it came from.
type Outcome struct {
	Kind Kind
	Err  error
}

// Classify maps an operation error onto an Outcome. A nil error is KindOK.
func Classify(err error) Outcome {
	if err == nil {
		return Outcome{Kind: KindOK}
	}
	msg := strings.ToLower(err.Error())
	kind := KindFailed
	switch {
	case errors.Is(err, ErrWalletNotFound), errors.Is(err, wallet.ErrNoProvider):
		kind = KindWalletNotFound
	case errors.Is(err, ErrWrongNetwork):
		kind = KindWrongNetwork
	case errors.Is(err, ErrContractNotFound):
		kind = KindContractNotFound
	case errors.Is(err, wallet.ErrRejected),
		strings.Contains(msg, "user rejected"),
		strings.Contains(msg, "user denied"):
		kind = KindRejected
	case strings.Contains(msg, "insufficient funds"):
		kind = KindInsufficientFunds
	case errors.Is(err, contract.ErrEmptyResult), errors.Is(err, wallet.ErrNoAccount):
		kind = KindNoData
	}
	return Outcome{Kind: kind, Err: err}
}

// Surfaced reports whether the outcome deserves an error banner. Absence
// of data or of an account yields an empty view instead.
func (o Outcome) Surfaced() bool {
	return o.Kind != KindOK && o.Kind != KindNoData
}

// Message is the text shown to the user.
func (o Outcome) Message() string {
	switch o.Kind {
	case KindOK:
		return "ok"
	case KindNoData:
		if errors.Is(o.Err, wallet.ErrNoAccount) {
			return "no account connected; import a wallet to manage todos"
		}
		return "no todos yet"
	case KindWalletNotFound:
		return "wallet not found; configure an RPC provider (rpc_url)"
	case KindWrongNetwork:
		var wn *WrongNetworkError
		if errors.As(o.Err, &wn) {
			return "please switch to chain " + wn.Want.String() + " (connected to " + wn.Got.String() + ")"
		}
		return "please switch to the supported network"
	case KindContractNotFound:
		return o.Err.Error()
	case KindRejected:
		return "transaction was rejected by user"
	case KindInsufficientFunds:
		return "insufficient funds for gas fees; fund the account and retry"
	default:
		return o.Err.Error()
	}
}
