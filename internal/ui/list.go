package ui

import (
	"fmt"
	"time"

	"github.com/idilsaglam/chaintodo/internal/model"
)

const (
	dateLayout  = "2006-01-02"
	maxTitleLen = 60
)

// Truncate shortens s to n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// Header is the one-line summary shown above a list.
func Header(todos []model.Todo) string {
	t := Current()
	d, p := model.Stats(todos)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		C(t.Title, "Todos"),
		C(t.Success, t.SymDone), d,
		C(t.Pending, t.SymUnchecked), p,
		C(t.Accent, "Total"), len(todos),
	)
}

// DueLabel formats a due date in loc, flagging overdue open todos.
func DueLabel(td model.Todo, now time.Time, loc *time.Location) string {
	t := Current()
	label := td.Due().In(loc).Format(dateLayout)
	switch {
	case td.Completed:
		return C(t.Muted, label)
	case td.Overdue(now):
		return C(t.Overdue, label+" "+t.SymOverdue)
	default:
		return C(t.Pending, label)
	}
}

// TodoLines renders one line per todo: id, checkbox, content and due date.
func TodoLines(todos []model.Todo, now time.Time, loc *time.Location) []string {
	t := Current()
	if len(todos) == 0 {
		return []string{C(t.Muted, "no todos")}
	}
	out := make([]string, 0, len(todos))
	for _, td := range todos {
		id := fmt.Sprintf("#%-3d", td.ID)
		box, color := t.BoxUnchecked, t.Muted
		if td.Completed {
			box, color = t.BoxChecked, t.Success
		}
		out = append(out, fmt.Sprintf("%s %s %s  %s",
			C(dim, id), C(color, box), Truncate(td.Content, maxTitleLen), DueLabel(td, now, loc)))
	}
	return out
}

// GroupLines renders pending todos first, then completed ones.
func GroupLines(todos []model.Todo, now time.Time, loc *time.Location) []string {
	t := Current()
	var pend, done []model.Todo
	for _, td := range todos {
		if td.Completed {
			done = append(done, td)
		} else {
			pend = append(pend, td)
		}
	}
	var lines []string
	lines = append(lines, C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, C(t.Muted, "(none)"))
	} else {
		lines = append(lines, TodoLines(pend, now, loc)...)
	}
	lines = append(lines, "")
	lines = append(lines, C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, C(t.Muted, "(none)"))
	} else {
		lines = append(lines, TodoLines(done, now, loc)...)
	}
	return lines
}
