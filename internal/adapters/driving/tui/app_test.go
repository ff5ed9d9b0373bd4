package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockRetriever struct {
	questions []string
	opts      driving.RetrieveOptions
	result    domain.QueryResult
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, _ driving.RetrieveOptions) ([]domain.RetrievedMatch, error) {
	return nil, nil
}

func (m *mockRetriever) Context(_ context.Context, _ string, _ driving.RetrieveOptions) (string, error) {
	return "", nil
}

func (m *mockRetriever) Query(_ context.Context, q string, opts driving.RetrieveOptions) (domain.QueryResult, error) {
	m.questions = append(m.questions, q)
	m.opts = opts
	return m.result, nil
}

func (m *mockRetriever) SearchByTopic(_ context.Context, _ string, _ int) ([]domain.RetrievedMatch, error) {
	return nil, nil
}

func (m *mockRetriever) Summarise(_ context.Context, _ string, _ int, _ driving.RetrieveOptions) (domain.QueryResult, error) {
	return domain.QueryResult{}, nil
}

// --- Tests ---

func TestNewApp_RequiresRetriever(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingRetriever)
}

func TestApp_QuestionRoundTrip(t *testing.T) {
	retriever := &mockRetriever{result: domain.QueryResult{
		Answer:  "Dana hidup bulanan di Tokyo adalah JPY 195,000.",
		Sources: []domain.Source{{Page: 54, Section: "Dana Hidup Bulanan", Relevance: 0.95}},
	}}
	app, err := NewApp(&Ports{Retriever: retriever})
	require.NoError(t, err)
	app.WithOptions(driving.RetrieveOptions{TopK: 7})

	_, _ = app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	_, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Dana hidup Tokyo?")})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, app.Chat().Pending())

	_, _ = app.Update(cmd())

	assert.Equal(t, []string{"Dana hidup Tokyo?"}, retriever.questions)
	assert.Equal(t, 7, retriever.opts.TopK)
	assert.False(t, app.Chat().Pending())
	assert.Contains(t, app.View(), "JPY 195,000")
	assert.Contains(t, app.View(), "Halaman 54 (Dana Hidup Bulanan)")
}

func TestApp_Quit(t *testing.T) {
	app, err := NewApp(&Ports{Retriever: &mockRetriever{}})
	require.NoError(t, err)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, app.Quitting())
	assert.Empty(t, app.View())
}
