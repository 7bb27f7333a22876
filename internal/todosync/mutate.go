package todosync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/idilsaglam/chaintodo/internal/contract"
	"github.com/idilsaglam/chaintodo/internal/model"
)

// Result is what a successful mutation leaves behind.
type Result struct {
	TxHashes []common.Hash
	Todos    []model.Todo
}

type sendFunc func(opts *bind.TransactOpts) (*contract.PendingTx, error)

// submit gates, signs and sends one transaction, waits for it to be mined
// and resynchronizes.
func (s *Service) submit(ctx context.Context, op string, send sendFunc) (Result, error) {
	if _, err := s.gate(ctx); err != nil {
		return Result{}, err
	}
	opts, err := s.session.TransactOpts(ctx)
	if err != nil {
		return Result{}, err
	}
	hash, err := s.sendAndWait(ctx, op, opts, send)
	if err != nil {
		if hash != (common.Hash{}) {
			return Result{TxHashes: []common.Hash{hash}}, err
		}
		return Result{}, err
	}
	todos, err := s.Resync(ctx)
	return Result{TxHashes: []common.Hash{hash}, Todos: todos}, err
}

func (s *Service) sendAndWait(ctx context.Context, op string, opts *bind.TransactOpts, send sendFunc) (common.Hash, error) {
	p, err := send(opts)
	if err != nil {
		return common.Hash{}, err
	}
	s.log.Info("transaction submitted", "op", op, "tx", p.Hash().Hex())
	if err := p.Wait(ctx); err != nil {
		return p.Hash(), err
	}
	s.log.Info("transaction confirmed", "op", op, "tx", p.Hash().Hex())
	return p.Hash(), nil
}

// Create submits a new todo due at due.
func (s *Service) Create(ctx context.Context, content string, due time.Time) (Result, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Result{}, ErrEmptyContent
	}
	return s.submit(ctx, "createTodo", func(opts *bind.TransactOpts) (*contract.PendingTx, error) {
		return s.contract.CreateTodo(opts, content, due.Unix())
	})
}

// Toggle flips the completion flag of id.
func (s *Service) Toggle(ctx context.Context, id uint64) (Result, error) {
	return s.submit(ctx, "toggleTodo", func(opts *bind.TransactOpts) (*contract.PendingTx, error) {
		return s.contract.ToggleTodo(opts, id)
	})
}

// Delete removes id.
func (s *Service) Delete(ctx context.Context, id uint64) (Result, error) {
	return s.submit(ctx, "deleteTodo", func(opts *bind.TransactOpts) (*contract.PendingTx, error) {
		return s.contract.DeleteTodo(opts, id)
	})
}

// BulkDelete removes several ids in one transaction.
func (s *Service) BulkDelete(ctx context.Context, ids []uint64) (Result, error) {
	if len(ids) == 0 {
		return Result{}, ErrNothingToDo
	}
	return s.submit(ctx, "bulkDeleteTodos", func(opts *bind.TransactOpts) (*contract.PendingTx, error) {
		return s.contract.BulkDeleteTodos(opts, ids)
	})
}

// BulkUpdate rewrites todos by id with the given fields.
func (s *Service) BulkUpdate(ctx context.Context, todos []model.Todo) (Result, error) {
	if len(todos) == 0 {
		return Result{}, ErrNothingToDo
	}
	ids := make([]uint64, len(todos))
	contents := make([]string, len(todos))
	completed := make([]bool, len(todos))
	dues := make([]int64, len(todos))
	for i, t := range todos {
		ids[i], contents[i], completed[i], dues[i] = t.ID, t.Content, t.Completed, t.DueDate
	}
	return s.submit(ctx, "bulkUpdateTodos", func(opts *bind.TransactOpts) (*contract.PendingTx, error) {
		return s.contract.BulkUpdateTodos(opts, ids, contents, completed, dues)
	})
}

// SetCompleted marks the cached todos ids as completed or not, keeping
// their content and due date.
func (s *Service) SetCompleted(ctx context.Context, ids []uint64, completed bool) (Result, error) {
	if len(ids) == 0 {
		return Result{}, ErrNothingToDo
	}
	cached := s.Todos()
	todos := make([]model.Todo, 0, len(ids))
	for _, id := range ids {
		t, ok := model.Find(cached, id)
		if !ok {
			return Result{}, fmt.Errorf("%w: %d", ErrUnknownTodo, id)
		}
		t.Completed = completed
		todos = append(todos, t)
	}
	return s.BulkUpdate(ctx, todos)
}

// BulkCreate submits drafts in one transaction. If the deployed interface
// has no bulk create and fallback is enabled, drafts are created one by one.
func (s *Service) BulkCreate(ctx context.Context, drafts []model.Draft) (Result, error) {
	if len(drafts) == 0 {
		return Result{}, ErrNothingToDo
	}
	contents := make([]string, len(drafts))
	dues := make([]int64, len(drafts))
	for i, d := range drafts {
		contents[i] = strings.TrimSpace(d.Content)
		if contents[i] == "" {
			return Result{}, fmt.Errorf("draft %d: %w", i+1, ErrEmptyContent)
		}
		dues[i] = d.DueDate
	}

	res, err := s.submit(ctx, "bulkCreateTodos", func(opts *bind.TransactOpts) (*contract.PendingTx, error) {
		return s.contract.BulkCreateTodos(opts, contents, dues)
	})
	if !errors.Is(err, contract.ErrUnsupported) || !s.fallback {
		return res, err
	}
	s.log.Warn("bulk create unsupported, creating one by one", "count", len(drafts))
	return s.createEach(ctx, contents, dues)
}

func (s *Service) createEach(ctx context.Context, contents []string, dues []int64) (Result, error) {
	opts, err := s.session.TransactOpts(ctx)
	if err != nil {
		return Result{}, err
	}
	var res Result
	for i := range contents {
		hash, err := s.sendAndWait(ctx, "createTodo", opts, func(opts *bind.TransactOpts) (*contract.PendingTx, error) {
			return s.contract.CreateTodo(opts, contents[i], dues[i])
		})
		if hash != (common.Hash{}) {
			res.TxHashes = append(res.TxHashes, hash)
		}
		if err != nil {
			res.Todos, _ = s.Resync(ctx)
			return res, &PartialError{Done: i, Total: len(contents), Err: err}
		}
	}
	res.Todos, err = s.Resync(ctx)
	return res, err
}
