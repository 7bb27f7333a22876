package todosync

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrWrongNetwork     = errors.New("wrong network")
	ErrContractNotFound = errors.New("contract not found")
	ErrEmptyContent     = errors.New("empty content")
	ErrNothingToDo      = errors.New("nothing selected")
	ErrUnknownTodo      = errors.New("unknown todo")
)

// WrongNetworkError reports the active and the supported chain ids.
type WrongNetworkError struct {
	Want *big.Int
	Got  *big.Int
}

func (e *WrongNetworkError) Error() string {
	return fmt.Sprintf("wrong network: connected to chain %s, want %s", e.Got, e.Want)
}

func (e *WrongNetworkError) Unwrap() error { return ErrWrongNetwork }

// PartialError is returned when a one-by-one fallback stops early.
type PartialError struct {
	Done  int
	Total int
	Err   error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("created %d of %d todos: %v", e.Done, e.Total, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }
