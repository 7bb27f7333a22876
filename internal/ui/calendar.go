package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/idilsaglam/chaintodo/internal/model"
)

// dayMark is the marker for one calendar day. Overdue beats pending beats done.
func dayMark(todos []model.Todo, now time.Time) (string, string) {
	t := Current()
	if len(todos) == 0 {
		return " ", ""
	}
	mark, color := t.SymDone, t.Success
	for _, td := range todos {
		if td.Overdue(now) {
			return t.SymOverdue, t.Overdue
		}
		if !td.Completed {
			mark, color = t.SymUnchecked, t.Pending
		}
	}
	return mark, color
}

// Month renders a Monday-first month grid with per-day markers followed by
// the agenda of todos due that month, in loc.
func Month(year int, month time.Month, todos []model.Todo, now time.Time, loc *time.Location) []string {
	t := Current()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	days := first.AddDate(0, 1, -1).Day()

	byDay := make(map[int][]model.Todo)
	var agenda []model.Todo
	for _, td := range todos {
		due := td.Due().In(loc)
		if due.Year() != year || due.Month() != month {
			continue
		}
		byDay[due.Day()] = append(byDay[due.Day()], td)
		agenda = append(agenda, td)
	}

	lines := []string{
		C(t.Title, fmt.Sprintf("%s %d", month, year)),
		C(t.Muted, "Mo  Tu  We  Th  Fr  Sa  Su"),
	}
	var row []string
	offset := (int(first.Weekday()) + 6) % 7
	for i := 0; i < offset; i++ {
		row = append(row, "   ")
	}
	today := now.In(loc)
	for d := 1; d <= days; d++ {
		num := fmt.Sprintf("%2d", d)
		if today.Year() == year && today.Month() == month && today.Day() == d {
			num = C(t.Accent, num)
		}
		mark, color := dayMark(byDay[d], now)
		row = append(row, num+C(color, mark))
		if len(row) == 7 {
			lines = append(lines, strings.TrimRight(strings.Join(row, " "), " "))
			row = nil
		}
	}
	if len(row) > 0 {
		lines = append(lines, strings.TrimRight(strings.Join(row, " "), " "))
	}

	lines = append(lines, "")
	if len(agenda) == 0 {
		return append(lines, C(t.Muted, "nothing due this month"))
	}
	sort.SliceStable(agenda, func(i, j int) bool { return agenda[i].DueDate < agenda[j].DueDate })
	for _, td := range agenda {
		mark, color := dayMark([]model.Todo{td}, now)
		lines = append(lines, fmt.Sprintf("%s %s %s",
			td.Due().In(loc).Format(dateLayout), C(color, mark), Truncate(td.Content, maxTitleLen)))
	}
	return lines
}
