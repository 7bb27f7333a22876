package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

// AccountNotifier is implemented by *wallet.Session.
type AccountNotifier interface {
	OnAccountChange(fn func(common.Address)) (cancel func())
}

// Run starts the full-screen view and blocks until the user quits or ctx
// is cancelled. Account switches reported by notifier trigger a resync.
func Run(ctx context.Context, svc Service, notifier AccountNotifier, opts Options) error {
	p := tea.NewProgram(New(ctx, svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if notifier != nil {
		cancel := notifier.OnAccountChange(func(a common.Address) {
			p.Send(accountMsg{account: a})
		})
		defer cancel()
	}
	_, err := p.Run()
	return err
}
