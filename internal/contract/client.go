package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/idilsaglam/chaintodo/internal/model"
)

// Backend is what the client needs from an RPC connection.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

type caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type transactor interface {
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

type waitFunc func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)

// Client is a typed proxy over the TodoList contract at one address.
type Client struct {
	address common.Address
	abi     abi.ABI
	caller  caller
	tx      transactor
	wait    waitFunc
}

// NewClient binds the TodoList interface to address on backend.
func NewClient(address common.Address, parsed abi.ABI, backend Backend) *Client {
	return &Client{
		address: address,
		abi:     parsed,
		caller:  backend,
		tx:      bind.NewBoundContract(address, parsed, backend, backend, backend),
		wait: func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
			return bind.WaitMined(ctx, backend, tx)
		},
	}
}

// Address returns the bound contract address.
func (c *Client) Address() common.Address { return c.address }

// Supports reports whether the bound interface declares method.
func (c *Client) Supports(method string) bool { return Supports(c.abi, method) }

// ---------------------------------------------------
// Reads
// ---------------------------------------------------

// TodoCount returns the number of todos ever created on the contract.
func (c *Client) TodoCount(ctx context.Context) (uint64, error) {
	var n *big.Int
	if err := c.call(ctx, &n, "todoCount"); err != nil {
		return 0, err
	}
	if n == nil || n.Sign() < 0 || !n.IsUint64() {
		return 0, fmt.Errorf("todoCount: %w", ErrMalformed)
	}
	return n.Uint64(), nil
}

// GetUserTodos returns the ids owned by owner.
func (c *Client) GetUserTodos(ctx context.Context, owner common.Address) ([]uint64, error) {
	var raw []*big.Int
	if err := c.call(ctx, &raw, "getUserTodos", owner); err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(raw))
	for _, id := range raw {
		v, err := toUint64(id)
		if err != nil {
			return nil, fmt.Errorf("getUserTodos: %w", err)
		}
		ids = append(ids, v)
	}
	return ids, nil
}

// GetUserTodoDetails returns the full records owned by owner in one call.
// Sentinel entries (id 0) are passed through; filtering is the caller's job.
func (c *Client) GetUserTodoDetails(ctx context.Context, owner common.Address) ([]model.Todo, error) {
	var raw []rawTodo
	if err := c.call(ctx, &raw, "getUserTodoDetails", owner); err != nil {
		return nil, err
	}
	return decodeTodos(raw)
}

// GetTodo returns a single record by id.
func (c *Client) GetTodo(ctx context.Context, id uint64) (model.Todo, error) {
	var out struct{ Todo rawTodo }
	if err := c.call(ctx, &out, "getTodo", new(big.Int).SetUint64(id)); err != nil {
		return model.Todo{}, err
	}
	t, err := out.Todo.decode()
	if err != nil {
		return model.Todo{}, fmt.Errorf("getTodo %d: %w", id, err)
	}
	return t, nil
}

// UserTodoAt reads the public userTodos mapping at index.
func (c *Client) UserTodoAt(ctx context.Context, owner common.Address, index uint64) (uint64, error) {
	var id *big.Int
	if err := c.call(ctx, &id, "userTodos", owner, new(big.Int).SetUint64(index)); err != nil {
		return 0, err
	}
	v, err := toUint64(id)
	if err != nil {
		return 0, fmt.Errorf("userTodos: %w", err)
	}
	return v, nil
}

func (c *Client) call(ctx context.Context, out interface{}, method string, args ...interface{}) error {
	if !c.Supports(method) {
		return fmt.Errorf("%s: %w", method, ErrUnsupported)
	}
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("pack %s: %w", method, err)
	}
	to := c.address
	output, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	if len(output) == 0 {
		return fmt.Errorf("call %s: %w", method, ErrEmptyResult)
	}
	if err := c.abi.UnpackIntoInterface(out, method, output); err != nil {
		return fmt.Errorf("decode %s: %w: %v", method, ErrMalformed, err)
	}
	return nil
}

// ---------------------------------------------------
// Writes
// ---------------------------------------------------

// CreateTodo submits a single todo.
func (c *Client) CreateTodo(opts *bind.TransactOpts, content string, dueDate int64) (*PendingTx, error) {
	due, err := toBigTimes([]int64{dueDate})
	if err != nil {
		return nil, err
	}
	return c.transact(opts, "createTodo", content, due[0])
}

// ToggleTodo flips the completion flag of id.
func (c *Client) ToggleTodo(opts *bind.TransactOpts, id uint64) (*PendingTx, error) {
	return c.transact(opts, "toggleTodo", new(big.Int).SetUint64(id))
}

// DeleteTodo removes id.
func (c *Client) DeleteTodo(opts *bind.TransactOpts, id uint64) (*PendingTx, error) {
	return c.transact(opts, "deleteTodo", new(big.Int).SetUint64(id))
}

// BulkCreateTodos submits several todos in one transaction.
func (c *Client) BulkCreateTodos(opts *bind.TransactOpts, contents []string, dueDates []int64) (*PendingTx, error) {
	if len(contents) != len(dueDates) {
		return nil, fmt.Errorf("bulkCreateTodos: %w", ErrLengthMismatch)
	}
	dues, err := toBigTimes(dueDates)
	if err != nil {
		return nil, err
	}
	return c.transact(opts, "bulkCreateTodos", contents, dues)
}

// BulkDeleteTodos removes several ids in one transaction.
func (c *Client) BulkDeleteTodos(opts *bind.TransactOpts, ids []uint64) (*PendingTx, error) {
	return c.transact(opts, "bulkDeleteTodos", toBigIDs(ids))
}

// BulkUpdateTodos rewrites several todos in one transaction.
func (c *Client) BulkUpdateTodos(opts *bind.TransactOpts, ids []uint64, contents []string, completed []bool, dueDates []int64) (*PendingTx, error) {
	n := len(ids)
	if len(contents) != n || len(completed) != n || len(dueDates) != n {
		return nil, fmt.Errorf("bulkUpdateTodos: %w", ErrLengthMismatch)
	}
	dues, err := toBigTimes(dueDates)
	if err != nil {
		return nil, err
	}
	return c.transact(opts, "bulkUpdateTodos", toBigIDs(ids), contents, completed, dues)
}

func (c *Client) transact(opts *bind.TransactOpts, method string, args ...interface{}) (*PendingTx, error) {
	if !c.Supports(method) {
		return nil, fmt.Errorf("%s: %w", method, ErrUnsupported)
	}
	if opts == nil {
		return nil, fmt.Errorf("%s: %w", method, ErrNoSigner)
	}
	tx, err := c.tx.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return NewPendingTx(tx.Hash(), func(ctx context.Context) error {
		receipt, err := c.wait(ctx, tx)
		if err != nil {
			return fmt.Errorf("wait %s %s: %w", method, tx.Hash().Hex(), err)
		}
		if receipt.Status == types.ReceiptStatusFailed {
			return fmt.Errorf("%s %s: %w", method, tx.Hash().Hex(), ErrReverted)
		}
		return nil
	}), nil
}

func toBigIDs(ids []uint64) []*big.Int {
	out := make([]*big.Int, len(ids))
	for i, id := range ids {
		out[i] = new(big.Int).SetUint64(id)
	}
	return out
}

func toBigTimes(ts []int64) ([]*big.Int, error) {
	out := make([]*big.Int, len(ts))
	for i, t := range ts {
		if t < 0 {
			return nil, fmt.Errorf("due date %d: %w", t, ErrInvalidArgument)
		}
		out[i] = big.NewInt(t)
	}
	return out, nil
}
