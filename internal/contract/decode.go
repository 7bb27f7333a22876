package contract

import (
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"

	"github.com/idilsaglam/chaintodo/internal/model"
)

// rawTodo mirrors the TodoList.Todo tuple field by field, in ABI order.
type rawTodo struct {
	Id        *big.Int
	Content   string
	Completed bool
	DueDate   *big.Int
	Owner     common.Address
	CreatedAt *big.Int
}

// decode converts the ABI tuple into a model.Todo, rejecting values that do
// not fit instead of coercing them.
func (r rawTodo) decode() (model.Todo, error) {
	id, err := toUint64(r.Id)
	if err != nil {
		return model.Todo{}, fmt.Errorf("id: %w", err)
	}
	due, err := toInt64(r.DueDate)
	if err != nil {
		return model.Todo{}, fmt.Errorf("todo %d dueDate: %w", id, err)
	}
	created, err := toInt64(r.CreatedAt)
	if err != nil {
		return model.Todo{}, fmt.Errorf("todo %d createdAt: %w", id, err)
	}
	if !utf8.ValidString(r.Content) {
		return model.Todo{}, fmt.Errorf("todo %d content: %w", id, ErrMalformed)
	}
	return model.Todo{
		ID:        id,
		Content:   r.Content,
		Completed: r.Completed,
		DueDate:   due,
		Owner:     r.Owner,
		CreatedAt: created,
	}, nil
}

func decodeTodos(raw []rawTodo) ([]model.Todo, error) {
	out := make([]model.Todo, 0, len(raw))
	for i, r := range raw {
		t, err := r.decode()
		if err != nil {
			return nil, fmt.Errorf("getUserTodoDetails[%d]: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func toUint64(v *big.Int) (uint64, error) {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0, ErrMalformed
	}
	return v.Uint64(), nil
}

func toInt64(v *big.Int) (int64, error) {
	if v == nil || v.Sign() < 0 || !v.IsInt64() {
		return 0, ErrMalformed
	}
	return v.Int64(), nil
}
