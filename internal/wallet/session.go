// Package wallet provides the injected wallet session: the RPC provider,
// the active account and transaction signing.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/idilsaglam/chaintodo/internal/contract"
)

var (
	ErrNoProvider = errors.New("no wallet provider configured")
	ErrNoAccount  = errors.New("no account available")
	// ErrRejected is returned when the user declines to sign.
	ErrRejected = errors.New("user rejected signing")
)

// Backend is the RPC surface a session needs. *ethclient.Client satisfies it.
type Backend interface {
	contract.Backend
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// SignRequest describes a transaction about to be signed.
type SignRequest struct {
	From    common.Address
	To      *common.Address
	Nonce   uint64
	Gas     uint64
	ChainID *big.Int
	Data    []byte
}

// ConfirmFunc asks the user whether to sign req. Returning false rejects it.
type ConfirmFunc func(ctx context.Context, req SignRequest) bool

type Options struct {
	Key     *ecdsa.PrivateKey
	Confirm ConfirmFunc
	Logger  *log.Logger
}

// Session is the explicit replacement for a browser-injected provider.
type Session struct {
	backend Backend
	confirm ConfirmFunc
	log     *log.Logger

	mu      sync.RWMutex
	key     *ecdsa.PrivateKey
	subs    map[int]func(common.Address)
	nextSub int
}

// Dial connects to rpcURL. An empty URL means no provider is available.
func Dial(ctx context.Context, rpcURL string, opts Options) (*Session, error) {
	rpcURL = strings.TrimSpace(rpcURL)
	if rpcURL == "" {
		return nil, ErrNoProvider
	}
	c, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	return New(c, opts), nil
}

// New wraps an existing backend.
func New(backend Backend, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		backend: backend,
		confirm: opts.Confirm,
		log:     logger,
		key:     opts.Key,
		subs:    make(map[int]func(common.Address)),
	}
}

// Backend exposes the RPC connection for binding contract clients.
func (s *Session) Backend() Backend { return s.backend }

// Account returns the active account, or ErrNoAccount.
func (s *Session) Account(context.Context) (common.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return common.Address{}, ErrNoAccount
	}
	return crypto.PubkeyToAddress(s.key.PublicKey), nil
}

// ChainID returns the id of the network the provider is connected to.
func (s *Session) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := s.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	return id, nil
}

// CodeAt returns the deployed bytecode at addr on the latest block.
func (s *Session) CodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	code, err := s.backend.CodeAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("code at %s: %w", addr.Hex(), err)
	}
	return code, nil
}

// Balance returns the active account's balance in wei.
func (s *Session) Balance(ctx context.Context) (*big.Int, error) {
	acct, err := s.Account(ctx)
	if err != nil {
		return nil, err
	}
	bal, err := s.backend.BalanceAt(ctx, acct, nil)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	return bal, nil
}

// TransactOpts returns signing options for the active account. Every
// signature goes through the confirm hook first.
func (s *Session) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	s.mu.RLock()
	key := s.key
	s.mu.RUnlock()
	if key == nil {
		return nil, ErrNoAccount
	}
	chainID, err := s.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("transactor: %w", err)
	}
	sign := opts.Signer
	opts.Signer = func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
		req := SignRequest{
			From:    from,
			To:      tx.To(),
			Nonce:   tx.Nonce(),
			Gas:     tx.Gas(),
			ChainID: chainID,
			Data:    tx.Data(),
		}
		if s.confirm != nil && !s.confirm(ctx, req) {
			s.log.Debug("signature declined", "from", from.Hex(), "nonce", req.Nonce)
			return nil, ErrRejected
		}
		return sign(from, tx)
	}
	opts.Context = ctx
	return opts, nil
}

// Use switches the active account and notifies subscribers.
func (s *Session) Use(key *ecdsa.PrivateKey) {
	s.mu.Lock()
	s.key = key
	s.mu.Unlock()
	addr := common.Address{}
	if key != nil {
		addr = crypto.PubkeyToAddress(key.PublicKey)
	}
	s.log.Debug("account changed", "account", addr.Hex())
	s.notify(addr)
}

// Disconnect drops the active account.
func (s *Session) Disconnect() { s.Use(nil) }

// OnAccountChange registers fn for account switches; the zero address means
// disconnected. The returned func unsubscribes.
func (s *Session) OnAccountChange(fn func(common.Address)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) notify(addr common.Address) {
	s.mu.RLock()
	fns := make([]func(common.Address), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(addr)
	}
}

// Close releases the RPC connection.
func (s *Session) Close() {
	if c, ok := s.backend.(interface{ Close() }); ok {
		c.Close()
	}
}
