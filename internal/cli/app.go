package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/idilsaglam/chaintodo/internal/config"
	"github.com/idilsaglam/chaintodo/internal/contract"
	"github.com/idilsaglam/chaintodo/internal/logging"
	"github.com/idilsaglam/chaintodo/internal/model"
	"github.com/idilsaglam/chaintodo/internal/todosync"
	"github.com/idilsaglam/chaintodo/internal/tui"
	"github.com/idilsaglam/chaintodo/internal/wallet"
)

// Service is what the subcommands need from *todosync.Service.
type Service interface {
	tui.Service
	Check(ctx context.Context) (common.Address, error)
	BulkCreate(ctx context.Context, drafts []model.Draft) (todosync.Result, error)
	Total(ctx context.Context) (uint64, error)
	Inspect(ctx context.Context) (todosync.Report, error)
}

// Chain is the session surface the status command reads. *wallet.Session
// satisfies it.
type Chain interface {
	Account(ctx context.Context) (common.Address, error)
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, addr common.Address) ([]byte, error)
	Balance(ctx context.Context) (*big.Int, error)
}

// App carries configuration and, once connected, the session and service.
// Tests set Service (and optionally Chain) directly.
type App struct {
	Config *config.Config
	Logger *log.Logger
	In     io.Reader
	Now    func() time.Time

	Service Service
	Chain   Chain

	session *wallet.Session
	reader  *bufio.Reader
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) input() *bufio.Reader {
	if a.reader == nil {
		in := a.In
		if in == nil {
			in = os.Stdin
		}
		a.reader = bufio.NewReader(in)
	}
	return a.reader
}

// connect builds the session, contract client and service on first use.
// interactive disables the stdin confirmation prompt (the TUI owns stdin).
func (a *App) connect(ctx context.Context, interactive bool) error {
	if a.Service != nil {
		return nil
	}
	if a.Logger == nil {
		a.Logger = logging.Discard()
	}
	cfg := a.Config
	parsed, err := contract.LoadABI(cfg.ABIFile)
	if err != nil {
		return err
	}

	ki, err := wallet.ResolveKey(cfg.PrivateKey)
	if err != nil {
		return err
	}
	opts := wallet.Options{Logger: a.Logger}
	if ki != nil {
		if opts.Key, err = ki.PrivateKey(); err != nil {
			return err
		}
	}
	if cfg.Confirm && !interactive {
		opts.Confirm = promptConfirm(a.input(), parsed, cfg.Location())
	}

	svcOpts := todosync.Options{
		ChainID:      cfg.Chain(),
		Address:      cfg.Contract(),
		BulkFallback: cfg.BulkFallback,
		Logger:       a.Logger,
	}
	sess, err := wallet.Dial(ctx, cfg.RPCURL, opts)
	if errors.Is(err, wallet.ErrNoProvider) {
		a.Logger.Debug("no rpc provider configured")
		// untyped nil: the service reports the missing wallet itself
		a.Service = todosync.New(nil, nil, svcOpts)
		return nil
	}
	if err != nil {
		return err
	}
	a.session = sess
	a.Chain = sess
	c := contract.NewClient(cfg.Contract(), parsed, sess.Backend())
	a.Service = todosync.New(sess, c, svcOpts)
	return nil
}

// Close releases the RPC connection, if any.
func (a *App) Close() {
	if a.session != nil {
		a.session.Close()
	}
}
