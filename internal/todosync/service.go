// Package todosync drives every read and write against the TodoList
// contract. It checks wallet and network preconditions, keeps the local
// todo cache and resynchronizes it after each mutation.
package todosync

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/idilsaglam/chaintodo/internal/contract"
	"github.com/idilsaglam/chaintodo/internal/model"
	"github.com/idilsaglam/chaintodo/internal/wallet"
)

// Session is the injected wallet capability. *wallet.Session satisfies it.
type Session interface {
	Account(ctx context.Context) (common.Address, error)
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, addr common.Address) ([]byte, error)
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

// Contract is the remote TodoList surface. *contract.Client satisfies it.
type Contract interface {
	TodoCount(ctx context.Context) (uint64, error)
	GetUserTodos(ctx context.Context, owner common.Address) ([]uint64, error)
	GetUserTodoDetails(ctx context.Context, owner common.Address) ([]model.Todo, error)
	GetTodo(ctx context.Context, id uint64) (model.Todo, error)
	CreateTodo(opts *bind.TransactOpts, content string, dueDate int64) (*contract.PendingTx, error)
	ToggleTodo(opts *bind.TransactOpts, id uint64) (*contract.PendingTx, error)
	DeleteTodo(opts *bind.TransactOpts, id uint64) (*contract.PendingTx, error)
	BulkCreateTodos(opts *bind.TransactOpts, contents []string, dueDates []int64) (*contract.PendingTx, error)
	BulkDeleteTodos(opts *bind.TransactOpts, ids []uint64) (*contract.PendingTx, error)
	BulkUpdateTodos(opts *bind.TransactOpts, ids []uint64, contents []string, completed []bool, dueDates []int64) (*contract.PendingTx, error)
}

type Options struct {
	// ChainID is the only network the service talks to.
	ChainID *big.Int
	// Address is where the contract is expected to be deployed.
	Address common.Address
	// BulkFallback creates todos one by one when bulk creation is not
	// supported by the deployed interface.
	BulkFallback bool
	Logger       *log.Logger
}

// Service owns the todo cache of one session.
type Service struct {
	session  Session
	contract Contract
	chainID  *big.Int
	address  common.Address
	fallback bool
	log      *log.Logger

	mu      sync.Mutex
	todos   []model.Todo
	account common.Address
	started uint64 // last resync generation handed out
	applied uint64 // generation currently reflected in todos
}

// New builds a service. A nil session means no wallet is available.
func New(session Session, c Contract, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		session:  session,
		contract: c,
		chainID:  opts.ChainID,
		address:  opts.Address,
		fallback: opts.BulkFallback,
		log:      logger,
	}
}

// Todos returns a copy of the cached list.
func (s *Service) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo(nil), s.todos...)
}

// Account returns the account the cache was last loaded for.
func (s *Service) Account() common.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// Check runs the preconditions without touching the contract and returns
// the active account.
func (s *Service) Check(ctx context.Context) (common.Address, error) {
	return s.gate(ctx)
}

// gate checks, in order: a session exists, the network matches and the
// contract is deployed, then that an account is available. The environment
// checks run even without an account, so no read ever reaches another
// network. A missing account is reported as wallet.ErrNoAccount so readers
// can treat it as absence.
func (s *Service) gate(ctx context.Context) (common.Address, error) {
	if s.session == nil {
		return common.Address{}, ErrWalletNotFound
	}
	acct, acctErr := s.session.Account(ctx)
	if acctErr != nil && !errors.Is(acctErr, wallet.ErrNoAccount) {
		return common.Address{}, acctErr
	}
	got, err := s.session.ChainID(ctx)
	if err != nil {
		return common.Address{}, err
	}
	s.log.Debug("network", "chain", got, "want", s.chainID)
	if s.chainID != nil && got.Cmp(s.chainID) != 0 {
		return common.Address{}, &WrongNetworkError{Want: s.chainID, Got: got}
	}
	code, err := s.session.CodeAt(ctx, s.address)
	if err != nil {
		return common.Address{}, err
	}
	s.log.Debug("contract code", "address", s.address.Hex(), "bytes", len(code))
	if len(code) == 0 {
		return common.Address{}, fmt.Errorf("%w: no contract deployed at %s", ErrContractNotFound, s.address.Hex())
	}
	if acctErr != nil {
		return common.Address{}, acctErr
	}
	return acct, nil
}

// Resync reloads the caller's todos and replaces the cache wholesale.
//
// Absence (no account, nothing stored) yields an empty list and no error.
// Environment errors clear the cache and are returned. Other failures leave
// the cache as it was. When resyncs overlap, a result is only applied if no
// later-started resync has been applied already.
func (s *Service) Resync(ctx context.Context) ([]model.Todo, error) {
	s.mu.Lock()
	s.started++
	gen := s.started
	s.mu.Unlock()

	todos, acct, err := s.load(ctx)
	if err != nil && !clearsCache(err) {
		s.log.Error("load todos", "err", err)
		return s.Todos(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.applied {
		s.log.Debug("discarding stale resync", "gen", gen, "applied", s.applied)
		return append([]model.Todo(nil), s.todos...), err
	}
	s.applied = gen
	s.todos = todos
	s.account = acct
	return append([]model.Todo(nil), todos...), err
}

func clearsCache(err error) bool {
	return errors.Is(err, ErrWalletNotFound) ||
		errors.Is(err, ErrWrongNetwork) ||
		errors.Is(err, ErrContractNotFound)
}

func (s *Service) load(ctx context.Context) ([]model.Todo, common.Address, error) {
	acct, err := s.gate(ctx)
	if errors.Is(err, wallet.ErrNoAccount) {
		s.log.Debug("no account connected")
		return nil, common.Address{}, nil
	}
	if err != nil {
		return nil, common.Address{}, err
	}

	ids, err := s.contract.GetUserTodos(ctx, acct)
	if errors.Is(err, contract.ErrEmptyResult) {
		s.log.Debug("no todos stored", "account", acct.Hex())
		return nil, acct, nil
	}
	if err != nil {
		return nil, acct, err
	}
	s.log.Debug("owned ids", "account", acct.Hex(), "ids", ids)
	if len(ids) == 0 {
		return nil, acct, nil
	}

	details, err := s.contract.GetUserTodoDetails(ctx, acct)
	if errors.Is(err, contract.ErrEmptyResult) {
		return nil, acct, nil
	}
	if err != nil {
		return nil, acct, err
	}
	todos := make([]model.Todo, 0, len(details))
	for _, t := range details {
		if !t.Valid() {
			continue
		}
		todos = append(todos, t)
	}
	s.log.Debug("loaded todos", "returned", len(details), "kept", len(todos))
	return todos, acct, nil
}

// Total returns todoCount after the usual preconditions.
func (s *Service) Total(ctx context.Context) (uint64, error) {
	if _, err := s.gate(ctx); err != nil && !errors.Is(err, wallet.ErrNoAccount) {
		return 0, err
	}
	return s.contract.TodoCount(ctx)
}

// Entry is one slot of an Inspect scan.
type Entry struct {
	ID   uint64
	Todo model.Todo
	Mine bool
	Err  error
}

// Report is the result of Inspect.
type Report struct {
	Account common.Address
	Total   uint64
	Entries []Entry
}

// Inspect walks every id ever created and marks the ones owned by the
// active account. Per-id read errors are recorded, not returned.
func (s *Service) Inspect(ctx context.Context) (Report, error) {
	acct, err := s.gate(ctx)
	if err != nil && !errors.Is(err, wallet.ErrNoAccount) {
		return Report{}, err
	}
	total, err := s.contract.TodoCount(ctx)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Account: acct, Total: total}
	for id := uint64(1); id <= total; id++ {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		t, err := s.contract.GetTodo(ctx, id)
		e := Entry{ID: id, Todo: t, Err: err}
		if err == nil && acct != (common.Address{}) {
			e.Mine = t.Owner == acct
		}
		rep.Entries = append(rep.Entries, e)
	}
	return rep, nil
}
