package todosync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/idilsaglam/chaintodo/internal/contract"
	"github.com/idilsaglam/chaintodo/internal/model"
	"github.com/idilsaglam/chaintodo/internal/wallet"
)

var (
	sepolia      = big.NewInt(11155111)
	contractAddr = common.HexToAddress("0x93B16DeD4cA68658859354Ce117EA3ca9b87B8Ab")
	alice        = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob          = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

// fakeChain is an in-memory TodoList. Mutations apply when the pending
// transaction is waited on, like a mined block.
type fakeChain struct {
	mu     sync.Mutex
	todos  map[uint64]model.Todo
	nextID uint64
	txs    int64

	reads    int
	sentinel bool // getUserTodoDetails also returns an id 0 entry
	noBulk   bool // deployed interface lacks bulkCreateTodos
	sendErr  error
	waitErr  error
	failAt   int // fail the n-th createTodo (1-based) when > 0
	creates  int
	calls    []string
	now      int64

	blockDetails chan struct{} // if set, the next details read blocks on it
	entered      chan struct{}
}

func newFakeChain() *fakeChain {
	return &fakeChain{todos: make(map[uint64]model.Todo), nextID: 1, now: 1_700_000_000}
}

func (f *fakeChain) seed(owner common.Address, content string, due int64, completed bool) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.todos[id] = model.Todo{ID: id, Content: content, DueDate: due, Completed: completed, Owner: owner, CreatedAt: f.now}
	return id
}

func (f *fakeChain) owned(owner common.Address) []model.Todo {
	var out []model.Todo
	for _, t := range f.todos {
		if t.Owner == owner {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeChain) TodoCount(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.nextID - 1, nil
}

func (f *fakeChain) GetUserTodos(_ context.Context, owner common.Address) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	owned := f.owned(owner)
	if len(owned) == 0 {
		return nil, fmt.Errorf("call getUserTodos: %w", contract.ErrEmptyResult)
	}
	return model.IDs(owned), nil
}

func (f *fakeChain) GetUserTodoDetails(_ context.Context, owner common.Address) ([]model.Todo, error) {
	f.mu.Lock()
	f.reads++
	out := f.owned(owner)
	if f.sentinel {
		out = append(out, model.Todo{})
	}
	block, entered := f.blockDetails, f.entered
	f.blockDetails = nil
	f.mu.Unlock()

	if block != nil {
		entered <- struct{}{}
		<-block
	}
	return out, nil
}

func (f *fakeChain) GetTodo(_ context.Context, id uint64) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	t, ok := f.todos[id]
	if !ok {
		return model.Todo{}, fmt.Errorf("getTodo %d: %w", id, errors.New("execution reverted: todo does not exist"))
	}
	return t, nil
}

func (f *fakeChain) pending(method string, apply func()) (*contract.PendingTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)
	if f.sendErr != nil {
		return nil, fmt.Errorf("%s: %w", method, f.sendErr)
	}
	f.txs++
	hash := common.BigToHash(big.NewInt(f.txs))
	waitErr := f.waitErr
	return contract.NewPendingTx(hash, func(context.Context) error {
		if waitErr != nil {
			return waitErr
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		apply()
		return nil
	}), nil
}

func (f *fakeChain) CreateTodo(opts *bind.TransactOpts, content string, due int64) (*contract.PendingTx, error) {
	f.mu.Lock()
	f.creates++
	failing := f.failAt > 0 && f.creates == f.failAt
	f.mu.Unlock()
	if failing {
		return nil, errors.New("createTodo: insufficient funds for gas * price + value")
	}
	return f.pending("createTodo", func() {
		id := f.nextID
		f.nextID++
		f.todos[id] = model.Todo{ID: id, Content: content, DueDate: due, Owner: opts.From, CreatedAt: f.now}
	})
}

func (f *fakeChain) ToggleTodo(opts *bind.TransactOpts, id uint64) (*contract.PendingTx, error) {
	return f.pending("toggleTodo", func() {
		t := f.todos[id]
		t.Completed = !t.Completed
		f.todos[id] = t
	})
}

func (f *fakeChain) DeleteTodo(opts *bind.TransactOpts, id uint64) (*contract.PendingTx, error) {
	return f.pending("deleteTodo", func() { delete(f.todos, id) })
}

func (f *fakeChain) BulkCreateTodos(opts *bind.TransactOpts, contents []string, dues []int64) (*contract.PendingTx, error) {
	if f.noBulk {
		return nil, fmt.Errorf("bulkCreateTodos: %w", contract.ErrUnsupported)
	}
	return f.pending("bulkCreateTodos", func() {
		for i := range contents {
			id := f.nextID
			f.nextID++
			f.todos[id] = model.Todo{ID: id, Content: contents[i], DueDate: dues[i], Owner: opts.From, CreatedAt: f.now}
		}
	})
}

func (f *fakeChain) BulkDeleteTodos(opts *bind.TransactOpts, ids []uint64) (*contract.PendingTx, error) {
	return f.pending("bulkDeleteTodos", func() {
		for _, id := range ids {
			delete(f.todos, id)
		}
	})
}

func (f *fakeChain) BulkUpdateTodos(opts *bind.TransactOpts, ids []uint64, contents []string, completed []bool, dues []int64) (*contract.PendingTx, error) {
	return f.pending("bulkUpdateTodos", func() {
		for i, id := range ids {
			t := f.todos[id]
			t.Content, t.Completed, t.DueDate = contents[i], completed[i], dues[i]
			f.todos[id] = t
		}
	})
}

type fakeSession struct {
	account common.Address // zero means no account
	chainID *big.Int
	code    []byte
}

func newFakeSession(account common.Address) *fakeSession {
	return &fakeSession{account: account, chainID: sepolia, code: []byte{0x60, 0x80}}
}

func (s *fakeSession) Account(context.Context) (common.Address, error) {
	if s.account == (common.Address{}) {
		return common.Address{}, wallet.ErrNoAccount
	}
	return s.account, nil
}

func (s *fakeSession) ChainID(context.Context) (*big.Int, error) { return s.chainID, nil }

func (s *fakeSession) CodeAt(context.Context, common.Address) ([]byte, error) { return s.code, nil }

func (s *fakeSession) TransactOpts(context.Context) (*bind.TransactOpts, error) {
	if s.account == (common.Address{}) {
		return nil, wallet.ErrNoAccount
	}
	return &bind.TransactOpts{From: s.account}, nil
}

func newTestService(sess Session, chain *fakeChain, fallback bool) *Service {
	return New(sess, chain, Options{
		ChainID:      sepolia,
		Address:      contractAddr,
		BulkFallback: fallback,
		Logger:       log.New(io.Discard),
	})
}
