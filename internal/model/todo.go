package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Todo is one on-chain todo entry as seen by its owner.
// IDs are assigned by the contract; 0 never names a real entry.
type Todo struct {
	ID        uint64         `json:"id"`
	Content   string         `json:"content"`
	Completed bool           `json:"completed"`
	DueDate   int64          `json:"dueDate"`
	Owner     common.Address `json:"owner"`
	CreatedAt int64          `json:"createdAt"`
}

// Draft is a todo that has not been submitted yet.
type Draft struct {
	Content string `json:"content"`
	DueDate int64  `json:"dueDate"`
}

// Due returns the due date as a time.Time.
func (t Todo) Due() time.Time { return time.Unix(t.DueDate, 0) }

// Created returns the creation time as a time.Time.
func (t Todo) Created() time.Time { return time.Unix(t.CreatedAt, 0) }

// Overdue reports whether an open todo is past its due date.
func (t Todo) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate < now.Unix()
}

// Valid reports whether the entry carries a real contract id.
func (t Todo) Valid() bool { return t.ID > 0 }

// NewDraft builds a draft due at the given time.
func NewDraft(content string, due time.Time) Draft {
	return Draft{Content: content, DueDate: due.Unix()}
}

// Stats counts completed and pending todos.
func Stats(todos []Todo) (done, pending int) {
	for _, t := range todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// IDs returns the ids of todos in order.
func IDs(todos []Todo) []uint64 {
	out := make([]uint64, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.ID)
	}
	return out
}

// Find returns the todo with the given id.
func Find(todos []Todo, id uint64) (Todo, bool) {
	for _, t := range todos {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}
