// Package tui is the interactive terminal view over the todo sync service.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/idilsaglam/chaintodo/internal/model"
	"github.com/idilsaglam/chaintodo/internal/sheet"
	"github.com/idilsaglam/chaintodo/internal/todosync"
	"github.com/idilsaglam/chaintodo/internal/ui"
)

// Service is the part of todosync.Service the view drives.
type Service interface {
	Resync(ctx context.Context) ([]model.Todo, error)
	Create(ctx context.Context, content string, due time.Time) (todosync.Result, error)
	Toggle(ctx context.Context, id uint64) (todosync.Result, error)
	Delete(ctx context.Context, id uint64) (todosync.Result, error)
	BulkDelete(ctx context.Context, ids []uint64) (todosync.Result, error)
	SetCompleted(ctx context.Context, ids []uint64, completed bool) (todosync.Result, error)
	Account() common.Address
}

type Options struct {
	Location *time.Location
	Now      func() time.Time
	// Disconnect drops the active account; nil disables the key.
	Disconnect func()
	Logger     *log.Logger
}

type (
	loadedMsg struct {
		todos []model.Todo
		err   error
	}
	mutatedMsg struct {
		op  string
		res todosync.Result
		err error
	}
	accountMsg struct{ account common.Address }
)

// listItem adapts a todo to bubbles/list.Item
type listItem struct {
	todo    model.Todo
	marked  bool
	overdue bool
	due     string
}

func (i listItem) Title() string       { return i.todo.Content }
func (i listItem) Description() string { return i.due }
func (i listItem) FilterValue() string { return i.todo.Content }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Content
	due := pendingStyle.Render(it.due)
	switch {
	case it.todo.Completed:
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
		due = mutedStyle.Render(it.due)
	case it.overdue:
		due = overdueStyle.Render(it.due + " !")
	}
	mark := " "
	if it.marked {
		mark = markStyle.Render(markSym)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s %s  %s", prefix, mark, box, ui.Truncate(text, 60), due)
}

// Model is the bubbletea model of the todo view.
type Model struct {
	ctx  context.Context
	svc  Service
	opts Options
	keys keyMap

	list    list.Model
	ti      textinput.Model
	spinner spinner.Model

	todos  []model.Todo
	marked map[uint64]bool

	adding  bool
	addErr  string
	busy    string // label of the running operation, empty when idle
	status  string
	isError bool
}

// New builds the model. Init triggers the first resync.
func New(ctx context.Context, svc Service, opts Options) Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Todos"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.full
	// quitting is handled by the model; esc only clears the filter
	l.KeyMap.Quit.SetEnabled(false)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "content @ YYYY-MM-DD"
	ti.CharLimit = 280

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle))

	return Model{
		ctx:     ctx,
		svc:     svc,
		opts:    opts,
		keys:    keys,
		list:    l,
		ti:      ti,
		spinner: sp,
		marked:  make(map[uint64]bool),
		busy:    "loading",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.resync(), m.spinner.Tick)
}

func (m Model) resync() tea.Cmd {
	return func() tea.Msg {
		todos, err := m.svc.Resync(m.ctx)
		return loadedMsg{todos: todos, err: err}
	}
}

func (m Model) mutate(op string, fn func(ctx context.Context) (todosync.Result, error)) tea.Cmd {
	return func() tea.Msg {
		res, err := fn(m.ctx)
		return mutatedMsg{op: op, res: res, err: err}
	}
}

// start marks the model busy and runs cmd alongside the spinner.
func (m Model) start(label string, cmd tea.Cmd) (Model, tea.Cmd) {
	m.busy = label
	m.status = ""
	m.isError = false
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - 6
		if m.adding {
			h -= 3
		}
		m.list.SetSize(msg.Width-4, h)
		return m, nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.busy = ""
		m.setTodos(msg.todos)
		m.report("", msg.err)
		return m, nil

	case mutatedMsg:
		m.busy = ""
		if msg.err == nil {
			m.marked = make(map[uint64]bool)
		}
		if msg.res.Todos != nil || msg.err == nil {
			m.setTodos(msg.res.Todos)
		}
		m.report(msg.op, msg.err)
		if len(msg.res.TxHashes) > 0 {
			m.opts.Logger.Info("transactions", "op", msg.op, "count", len(msg.res.TxHashes))
		}
		return m, nil

	case accountMsg:
		m.marked = make(map[uint64]bool)
		mm, cmd := m.start("loading", m.resync())
		if msg.account == (common.Address{}) {
			mm.status = "account disconnected"
		} else {
			mm.status = "account changed to " + msg.account.Hex()
		}
		return mm, cmd

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdd(msg)
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.busy == "" {
			if mm, cmd, ok := m.handleKey(msg); ok {
				return mm, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.addErr = ""
		m.ti.SetValue("")
		return m, m.ti.Focus(), true

	case key.Matches(msg, m.keys.Refresh):
		mm, cmd := m.start("loading", m.resync())
		return mm, cmd, true

	case key.Matches(msg, m.keys.Disconnect):
		if m.opts.Disconnect == nil {
			return m, nil, true
		}
		disconnect := m.opts.Disconnect
		// the session notifies the program through its subscription
		return m, func() tea.Msg {
			disconnect()
			return nil
		}, true

	case key.Matches(msg, m.keys.Toggle):
		it, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		id := it.todo.ID
		mm, cmd := m.start("toggling", m.mutate("toggle", func(ctx context.Context) (todosync.Result, error) {
			return m.svc.Toggle(ctx, id)
		}))
		return mm, cmd, true

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		id := it.todo.ID
		mm, cmd := m.start("deleting", m.mutate("delete", func(ctx context.Context) (todosync.Result, error) {
			return m.svc.Delete(ctx, id)
		}))
		return mm, cmd, true

	case key.Matches(msg, m.keys.Mark):
		it, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		if m.marked[it.todo.ID] {
			delete(m.marked, it.todo.ID)
		} else {
			m.marked[it.todo.ID] = true
		}
		m.setTodos(m.todos)
		return m, nil, true

	case key.Matches(msg, m.keys.Complete), key.Matches(msg, m.keys.Reopen):
		ids := m.targets()
		if len(ids) == 0 {
			return m, nil, true
		}
		completed := key.Matches(msg, m.keys.Complete)
		op := "reopen"
		if completed {
			op = "complete"
		}
		mm, cmd := m.start("updating", m.mutate(op, func(ctx context.Context) (todosync.Result, error) {
			return m.svc.SetCompleted(ctx, ids, completed)
		}))
		return mm, cmd, true

	case key.Matches(msg, m.keys.DeleteMarked):
		ids := m.targets()
		if len(ids) == 0 {
			return m, nil, true
		}
		mm, cmd := m.start("deleting", m.mutate("bulk delete", func(ctx context.Context) (todosync.Result, error) {
			return m.svc.BulkDelete(ctx, ids)
		}))
		return mm, cmd, true
	}
	return m, nil, false
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		content, due, err := ParseAdd(m.ti.Value(), m.opts.Location, m.opts.Now())
		if err != nil {
			m.addErr = err.Error()
			return m, nil
		}
		m.adding = false
		m.ti.Blur()
		m.ti.SetValue("")
		return m.start("creating", m.mutate("create", func(ctx context.Context) (todosync.Result, error) {
			return m.svc.Create(ctx, content, due)
		}))
	case tea.KeyEsc:
		m.adding = false
		m.ti.Blur()
		m.ti.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// ParseAdd splits "content @ date" input. Without a date the todo is due now.
func ParseAdd(input string, loc *time.Location, now time.Time) (string, time.Time, error) {
	content, date, found := strings.Cut(input, "@")
	content = strings.TrimSpace(content)
	if content == "" {
		return "", time.Time{}, errors.New("content cannot be empty")
	}
	if !found || strings.TrimSpace(date) == "" {
		return content, now, nil
	}
	due, ok := sheet.ParseDue(date, loc)
	if !ok {
		return "", time.Time{}, fmt.Errorf("cannot read date %q, use YYYY-MM-DD", strings.TrimSpace(date))
	}
	return content, due, nil
}

func (m *Model) report(op string, err error) {
	out := todosync.Classify(err)
	switch {
	case out.Kind == todosync.KindOK:
		if op != "" {
			m.status = op + " confirmed"
		}
		m.isError = false
	case out.Surfaced():
		m.status = out.Message()
		var pe *todosync.PartialError
		if errors.As(err, &pe) {
			m.status = fmt.Sprintf("created %d of %d: %s", pe.Done, pe.Total, out.Message())
		}
		m.isError = true
		m.opts.Logger.Warn("operation failed", "op", op, "kind", out.Kind, "err", err)
	default:
		m.status = out.Message()
		m.isError = false
	}
}

func (m *Model) setTodos(todos []model.Todo) {
	m.todos = todos
	now := m.opts.Now()
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{
			todo:    t,
			marked:  m.marked[t.ID],
			overdue: t.Overdue(now),
			due:     t.Due().In(m.opts.Location).Format("2006-01-02"),
		})
	}
	m.list.SetItems(items)
}

func (m Model) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

// targets returns the marked ids in list order, or the selected one.
func (m Model) targets() []uint64 {
	var ids []uint64
	for _, t := range m.todos {
		if m.marked[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) > 0 {
		return ids
	}
	if it, ok := m.selected(); ok {
		return []uint64{it.todo.ID}
	}
	return nil
}

func (m Model) header() string {
	d, p := model.Stats(m.todos)
	acct := mutedStyle.Render("no account")
	if a := m.svc.Account(); a != (common.Address{}) {
		acct = accentStyle.Render(shortAddr(a))
	}
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d   %s",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), d,
		pendingStyle.Render("•"), p,
		accentStyle.Render("Marked"), len(m.marked),
		acct,
	)
}

func shortAddr(a common.Address) string {
	h := a.Hex()
	return h[:6] + "…" + h[len(h)-4:]
}

func (m Model) View() string {
	parts := []string{m.header(), m.list.View()}
	if m.adding {
		title := "Add todo"
		if m.addErr != "" {
			title += ": " + errorStyle.Render(m.addErr)
		}
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		parts = append(parts, bar.Render(title+"\n"+m.ti.View()))
	}
	switch {
	case m.busy != "":
		parts = append(parts, m.spinner.View()+" "+m.busy+", waiting for confirmation…")
	case m.status != "" && m.isError:
		parts = append(parts, errorStyle.Render("✖ "+m.status))
	case m.status != "":
		parts = append(parts, mutedStyle.Render(m.status))
	}
	return frameStyle.Render(strings.Join(parts, "\n"))
}
