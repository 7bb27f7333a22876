package wallet

import (
	"context"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/chaintodo/internal/contract"
)

// Hardhat's first default account; never funded on a public network.
const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var testAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CHAINTODO_PRIVATE_KEY", "")
	t.Setenv("PRIVATE_KEY", "")
	return home
}

func TestKeyFileRoundTrip(t *testing.T) {
	home := isolateHome(t)

	ki, err := GetKey()
	require.NoError(t, err)
	assert.Nil(t, ki)

	ki, err = SetKey("0x" + testKey)
	require.NoError(t, err)
	assert.Equal(t, testAddr.Hex(), ki.Address)

	info, err := os.Stat(filepath.Join(home, ".chaintodo", keyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := GetKey()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "file", got.Source)
	assert.Equal(t, testKey, got.Key)

	require.NoError(t, DeleteKey())
	require.NoError(t, DeleteKey())
	got, err = GetKey()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveKeyPrecedence(t *testing.T) {
	isolateHome(t)
	_, err := GenerateKey()
	require.NoError(t, err)

	ki, err := ResolveKey("")
	require.NoError(t, err)
	assert.Equal(t, "file", ki.Source)

	ki, err = ResolveKey(testKey)
	require.NoError(t, err)
	assert.Equal(t, "config", ki.Source)

	t.Setenv("PRIVATE_KEY", testKey)
	ki, err = ResolveKey("")
	require.NoError(t, err)
	assert.Equal(t, "env", ki.Source)
	assert.Equal(t, testAddr.Hex(), ki.Address)

	_, err = SetKey("not-hex")
	assert.Error(t, err)
}

type fakeBackend struct {
	contract.Backend
	chainID *big.Int
	code    []byte
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) { return f.chainID, nil }
func (f *fakeBackend) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return big.NewInt(42), nil
}
func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return f.code, nil
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestSessionAccountChanges(t *testing.T) {
	s := New(&fakeBackend{chainID: big.NewInt(11155111)}, Options{Logger: quietLogger()})

	_, err := s.Account(context.Background())
	assert.ErrorIs(t, err, ErrNoAccount)
	_, err = s.TransactOpts(context.Background())
	assert.ErrorIs(t, err, ErrNoAccount)

	var seen []common.Address
	cancel := s.OnAccountChange(func(a common.Address) { seen = append(seen, a) })

	key, err := crypto.HexToECDSA(testKey)
	require.NoError(t, err)
	s.Use(key)
	acct, err := s.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testAddr, acct)

	bal, err := s.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), bal.Int64())

	s.Disconnect()
	cancel()
	s.Use(key)

	assert.Equal(t, []common.Address{testAddr, {}}, seen)
}

func TestTransactOptsConfirm(t *testing.T) {
	key, err := crypto.HexToECDSA(testKey)
	require.NoError(t, err)
	to := common.HexToAddress("0x93B16DeD4cA68658859354Ce117EA3ca9b87B8Ab")
	tx := types.NewTx(&types.LegacyTx{Nonce: 3, To: &to, Gas: 21000, GasPrice: big.NewInt(1)})

	var asked SignRequest
	approve := false
	s := New(&fakeBackend{chainID: big.NewInt(11155111)}, Options{
		Key:    key,
		Logger: quietLogger(),
		Confirm: func(_ context.Context, req SignRequest) bool {
			asked = req
			return approve
		},
	})

	opts, err := s.TransactOpts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testAddr, opts.From)

	_, err = opts.Signer(opts.From, tx)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, uint64(3), asked.Nonce)
	assert.Equal(t, &to, asked.To)

	approve = true
	signed, err := opts.Signer(opts.From, tx)
	require.NoError(t, err)
	assert.NotEqual(t, tx.Hash(), signed.Hash())
}

func TestDialWithoutProvider(t *testing.T) {
	_, err := Dial(context.Background(), "  ", Options{})
	assert.ErrorIs(t, err, ErrNoProvider)
}
