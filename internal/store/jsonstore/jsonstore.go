package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/idilsaglam/chaintodo/internal/model"
)

// JSON interchange for todos. Single file, human-readable, portable.
// Exported todos carry every field; on import only content and dueDate
// are read, so an export can be fed back as drafts.

// Ext is the extension routed to this package by import/export.
const Ext = ".json"

var ErrEmpty = errors.New("no todos in file")

type entry struct {
	Content string `json:"content"`
	DueDate *int64 `json:"dueDate"`
}

// Load reads drafts from path. A missing dueDate defaults to now.
func Load(path string, now time.Time) ([]model.Draft, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var entries []entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	drafts := make([]model.Draft, 0, len(entries))
	for _, e := range entries {
		content := strings.TrimSpace(e.Content)
		if content == "" {
			continue
		}
		d := model.NewDraft(content, now)
		if e.DueDate != nil {
			d.DueDate = *e.DueDate
		}
		drafts = append(drafts, d)
	}
	if len(drafts) == 0 {
		return nil, ErrEmpty
	}
	return drafts, nil
}

// Save writes todos to path as an indented JSON array.
func Save(path string, todos []model.Todo) error {
	if todos == nil {
		todos = []model.Todo{}
	}
	b, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
