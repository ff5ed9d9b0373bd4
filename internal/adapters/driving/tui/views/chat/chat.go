// Package chat provides the conversation view: a scrolling transcript of
// questions and answers above a question input.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

// ErrNoRetriever indicates that no retriever was provided.
var ErrNoRetriever = errors.New("retriever is required")

// maxSources caps the source lines shown under an answer.
const maxSources = 3

// Exchange is one question with its answer or error.
type Exchange struct {
	Question string
	Result   domain.QueryResult
	Err      error
	Pending  bool
}

// View is the chat view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	statusbar *status.Bar
	viewport  viewport.Model

	retriever driving.RetrieverService
	opts      driving.RetrieveOptions
	ctx       context.Context

	exchanges []Exchange
	width     int
	height    int
	ready     bool
}

// NewView creates a chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, retriever driving.RetrieverService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQuestionInput(s),
		statusbar: status.NewBar(s, km),
		viewport:  viewport.New(80, 16),
		retriever: retriever,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for queries.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithOptions sets the retrieval options used for every question.
func (v *View) WithOptions(opts driving.RetrieveOptions) *View {
	v.opts = opts
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, v.input.Focus()

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Help):
		v.statusbar.ToggleHelp()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Clear):
		v.exchanges = nil
		v.statusbar.Clear()
		v.refresh()
		return v, func() tea.Msg { return messages.TranscriptCleared{} }

	case keymap.Matches(keyStr, v.keymap.ScrollUp), keymap.Matches(keyStr, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case keymap.Matches(keyStr, v.keymap.Submit):
		if v.Pending() {
			return v, nil
		}
		question := strings.TrimSpace(v.input.Value())
		if question == "" {
			return v, nil
		}
		v.input.Reset()
		v.input.Blur()
		v.exchanges = append(v.exchanges, Exchange{Question: question, Pending: true})
		v.statusbar.SetState(status.StateThinking)
		v.refresh()
		return v, v.ask(question)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// ask runs the query off the update loop.
func (v *View) ask(question string) tea.Cmd {
	retriever, ctx, opts := v.retriever, v.ctx, v.opts
	return func() tea.Msg {
		if retriever == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoRetriever}
		}
		result, err := retriever.Query(ctx, question, opts)
		return messages.AnswerReceived{Question: question, Result: result, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	for i := len(v.exchanges) - 1; i >= 0; i-- {
		if v.exchanges[i].Pending && v.exchanges[i].Question == msg.Question {
			v.exchanges[i] = Exchange{Question: msg.Question, Result: msg.Result, Err: msg.Err}
			break
		}
	}

	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else {
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
	}
	v.statusbar.SetExchanges(v.answered())
	v.refresh()
}

func (v *View) answered() int {
	n := 0
	for _, e := range v.exchanges {
		if !e.Pending && e.Err == nil {
			n++
		}
	}
	return n
}

// refresh re-renders the transcript and keeps the newest entry in view.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	if len(v.exchanges) == 0 {
		return v.styles.Muted.Render("Tanyakan apa saja tentang pencairan dana beasiswa LPDP.\n" +
			"Contoh: Berapa living allowance di Jepang?")
	}

	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))
	blocks := make([]string, 0, len(v.exchanges))
	for _, e := range v.exchanges {
		var b strings.Builder
		b.WriteString(v.styles.Question.Render("Anda: " + e.Question))
		b.WriteString("\n")

		switch {
		case e.Pending:
			b.WriteString(v.styles.Muted.Render("..."))
		case e.Err != nil:
			b.WriteString(v.styles.Error.Render("Error: " + e.Err.Error()))
		default:
			b.WriteString(v.styles.Answer.Render(wrap.Render(e.Result.Answer)))
			if lines := SourceLines(e.Result.Sources); len(lines) > 0 {
				b.WriteString("\n")
				b.WriteString(v.styles.Source.Render(strings.Join(lines, "\n")))
			}
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// SourceLines formats up to three sources as "Halaman P (Section)" lines.
func SourceLines(sources []domain.Source) []string {
	lines := make([]string, 0, min(len(sources), maxSources))
	for i, src := range sources {
		if i == maxSources {
			break
		}
		line := fmt.Sprintf("Halaman %d", src.Page)
		if src.Section != "" {
			line += " (" + src.Section + ")"
		}
		lines = append(lines, "- "+line)
	}
	return lines
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Memuat..."
	}

	header := v.styles.Title.Render("LPDP Pencairan FAQ")
	transcript := v.styles.Border.Width(max(v.width-2, 10)).Render(v.viewport.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		transcript,
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sizes the transcript to fill the space above the input.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.viewport.Width = max(width-4, 10)
	v.viewport.Height = max(height-9, 3) // header, borders, input, status
	v.refresh()
}

// Exchanges returns the transcript.
func (v *View) Exchanges() []Exchange {
	return v.exchanges
}

// Pending reports whether a question is awaiting its answer.
func (v *View) Pending() bool {
	for _, e := range v.exchanges {
		if e.Pending {
			return true
		}
	}
	return false
}

// Ready returns whether the view has been sized.
func (v *View) Ready() bool {
	return v.ready
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// SetQuestion fills the input.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}
