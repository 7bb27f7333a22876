package contract

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// PendingTx is a submitted transaction that may not be mined yet.
type PendingTx struct {
	hash common.Hash
	wait func(context.Context) error
}

// NewPendingTx wraps a transaction hash and the function that blocks until
// it is mined.
func NewPendingTx(hash common.Hash, wait func(context.Context) error) *PendingTx {
	return &PendingTx{hash: hash, wait: wait}
}

// Hash returns the transaction hash.
func (p *PendingTx) Hash() common.Hash { return p.hash }

// Wait blocks until the transaction is mined or ctx is done.
func (p *PendingTx) Wait(ctx context.Context) error {
	if p.wait == nil {
		return nil
	}
	return p.wait(ctx)
}
