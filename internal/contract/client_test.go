package contract

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAddress = common.HexToAddress("0x93B16DeD4cA68658859354Ce117EA3ca9b87B8Ab")
	testOwner   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
)

type fakeCaller struct {
	output []byte
	err    error
	calls  []ethereum.CallMsg
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls = append(f.calls, msg)
	return f.output, f.err
}

type fakeTransactor struct {
	method string
	params []interface{}
	err    error
}

func (f *fakeTransactor) Transact(_ *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error) {
	f.method = method
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return types.NewTx(&types.LegacyTx{Nonce: 7}), nil
}

func newTestClient(t *testing.T, parsed abi.ABI, c *fakeCaller, tr *fakeTransactor, status uint64) *Client {
	t.Helper()
	return &Client{
		address: testAddress,
		abi:     parsed,
		caller:  c,
		tx:      tr,
		wait: func(context.Context, *types.Transaction) (*types.Receipt, error) {
			return &types.Receipt{Status: status}, nil
		},
	}
}

func mustABI(t *testing.T) abi.ABI {
	t.Helper()
	parsed, err := LoadABI("")
	require.NoError(t, err)
	return parsed
}

func packOutput(t *testing.T, parsed abi.ABI, method string, values ...interface{}) []byte {
	t.Helper()
	out, err := parsed.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)
	return out
}

func TestGetUserTodoDetailsDecodes(t *testing.T) {
	parsed := mustABI(t)
	records := []rawTodo{
		{Id: big.NewInt(0), Content: "", DueDate: big.NewInt(0), CreatedAt: big.NewInt(0)},
		{Id: big.NewInt(3), Content: "Buy milk", Completed: true, DueDate: big.NewInt(1767139200), Owner: testOwner, CreatedAt: big.NewInt(1700000000)},
	}
	caller := &fakeCaller{output: packOutput(t, parsed, "getUserTodoDetails", records)}
	c := newTestClient(t, parsed, caller, nil, types.ReceiptStatusSuccessful)

	todos, err := c.GetUserTodoDetails(context.Background(), testOwner)
	require.NoError(t, err)
	require.Len(t, todos, 2)

	assert.Equal(t, uint64(0), todos[0].ID)
	assert.Equal(t, uint64(3), todos[1].ID)
	assert.Equal(t, "Buy milk", todos[1].Content)
	assert.True(t, todos[1].Completed)
	assert.Equal(t, int64(1767139200), todos[1].DueDate)
	assert.Equal(t, testOwner, todos[1].Owner)
	assert.Equal(t, int64(1700000000), todos[1].CreatedAt)

	require.Len(t, caller.calls, 1)
	assert.Equal(t, testAddress, *caller.calls[0].To)
	assert.Equal(t, parsed.Methods["getUserTodoDetails"].ID, caller.calls[0].Data[:4])
}

func TestGetUserTodoDetailsRejectsOutOfRange(t *testing.T) {
	parsed := mustABI(t)
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	records := []rawTodo{
		{Id: big.NewInt(1), Content: "x", DueDate: huge, Owner: testOwner, CreatedAt: big.NewInt(1)},
	}
	caller := &fakeCaller{output: packOutput(t, parsed, "getUserTodoDetails", records)}
	c := newTestClient(t, parsed, caller, nil, types.ReceiptStatusSuccessful)

	_, err := c.GetUserTodoDetails(context.Background(), testOwner)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestReadsFailClosed(t *testing.T) {
	parsed := mustABI(t)

	t.Run("empty result", func(t *testing.T) {
		c := newTestClient(t, parsed, &fakeCaller{}, nil, 0)
		_, err := c.GetUserTodos(context.Background(), testOwner)
		assert.ErrorIs(t, err, ErrEmptyResult)
	})

	t.Run("garbage", func(t *testing.T) {
		c := newTestClient(t, parsed, &fakeCaller{output: []byte{0x01, 0x02}}, nil, 0)
		_, err := c.GetUserTodoDetails(context.Background(), testOwner)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("transport error", func(t *testing.T) {
		boom := errors.New("connection refused")
		c := newTestClient(t, parsed, &fakeCaller{err: boom}, nil, 0)
		_, err := c.TodoCount(context.Background())
		assert.ErrorIs(t, err, boom)
	})
}

func TestGetUserTodosAndCount(t *testing.T) {
	parsed := mustABI(t)
	ids := []*big.Int{big.NewInt(1), big.NewInt(4)}
	c := newTestClient(t, parsed, &fakeCaller{output: packOutput(t, parsed, "getUserTodos", ids)}, nil, 0)

	got, err := c.GetUserTodos(context.Background(), testOwner)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 4}, got)

	c = newTestClient(t, parsed, &fakeCaller{output: packOutput(t, parsed, "todoCount", big.NewInt(12))}, nil, 0)
	n, err := c.TodoCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(12), n)

	caller := &fakeCaller{output: packOutput(t, parsed, "userTodos", big.NewInt(4))}
	c = newTestClient(t, parsed, caller, nil, 0)
	id, err := c.UserTodoAt(context.Background(), testOwner, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), id)
	require.Len(t, caller.calls, 1)
	assert.Equal(t, parsed.Methods["userTodos"].ID, caller.calls[0].Data[:4])
}

func TestGetTodo(t *testing.T) {
	parsed := mustABI(t)
	rec := rawTodo{Id: big.NewInt(9), Content: "Ship", DueDate: big.NewInt(10), Owner: testOwner, CreatedAt: big.NewInt(5)}
	c := newTestClient(t, parsed, &fakeCaller{output: packOutput(t, parsed, "getTodo", rec)}, nil, 0)

	got, err := c.GetTodo(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), got.ID)
	assert.Equal(t, "Ship", got.Content)
}

func TestTransactArguments(t *testing.T) {
	parsed := mustABI(t)
	tr := &fakeTransactor{}
	c := newTestClient(t, parsed, &fakeCaller{}, tr, types.ReceiptStatusSuccessful)
	opts := &bind.TransactOpts{From: testOwner}

	p, err := c.BulkUpdateTodos(opts, []uint64{1, 2}, []string{"a", "b"}, []bool{true, true}, []int64{10, 20})
	require.NoError(t, err)
	assert.Equal(t, "bulkUpdateTodos", tr.method)
	require.Len(t, tr.params, 4)
	assert.Equal(t, []*big.Int{big.NewInt(1), big.NewInt(2)}, tr.params[0])
	assert.Equal(t, []bool{true, true}, tr.params[2])
	assert.NoError(t, p.Wait(context.Background()))

	_, err = c.BulkUpdateTodos(opts, []uint64{1}, []string{"a", "b"}, []bool{true}, []int64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = c.CreateTodo(opts, "x", -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.ToggleTodo(nil, 1)
	assert.ErrorIs(t, err, ErrNoSigner)
}

func TestWaitReverted(t *testing.T) {
	parsed := mustABI(t)
	c := newTestClient(t, parsed, &fakeCaller{}, &fakeTransactor{}, types.ReceiptStatusFailed)

	p, err := c.DeleteTodo(&bind.TransactOpts{From: testOwner}, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Wait(context.Background()), ErrReverted)
}

func TestUnsupportedMethod(t *testing.T) {
	// A deployment published without the bulk methods.
	path := filepath.Join(t.TempDir(), "legacy.abi.json")
	legacy := `[{"inputs":[{"internalType":"string","name":"_content","type":"string"},{"internalType":"uint256","name":"_dueDate","type":"uint256"}],"name":"createTodo","outputs":[],"stateMutability":"nonpayable","type":"function"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	parsed, err := LoadABI(path)
	require.NoError(t, err)
	tr := &fakeTransactor{}
	c := newTestClient(t, parsed, &fakeCaller{}, tr, types.ReceiptStatusSuccessful)

	assert.False(t, c.Supports("bulkCreateTodos"))
	_, err = c.BulkCreateTodos(&bind.TransactOpts{}, []string{"a"}, []int64{1})
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Empty(t, tr.method)
}
