package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

// App is the chat application following the Elm architecture.
type App struct {
	ports    *Ports
	ctx      context.Context
	keymap   *keymap.KeyMap
	chatView *chat.View
	quitting bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		keymap:   km,
		chatView: chat.NewView(s, km, ports.Retriever),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// WithOptions sets the retrieval options for every question.
func (a *App) WithOptions(opts driving.RetrieveOptions) *App {
	a.chatView.WithOptions(opts)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.chatView.Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			a.quitting = true
			return a, tea.Quit
		}
	case messages.Quit:
		a.quitting = true
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	return a.chatView.View()
}

// Chat returns the chat view.
func (a *App) Chat() *chat.View {
	return a.chatView
}

// Quitting reports whether the app is shutting down.
func (a *App) Quitting() bool {
	return a.quitting
}
