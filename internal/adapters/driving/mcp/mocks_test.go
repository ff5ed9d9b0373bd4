package mcp

import (
	"context"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockToolService struct {
	calls  []string
	answer domain.ToolAnswer
	err    error
}

func (m *mockToolService) reply(tool, arg string) (domain.ToolAnswer, error) {
	m.calls = append(m.calls, tool+":"+arg)
	if m.err != nil {
		return domain.ToolAnswer{}, m.err
	}
	a := m.answer
	a.Subject = arg
	return a, nil
}

func (m *mockToolService) Ask(_ context.Context, q string) (domain.ToolAnswer, error) {
	return m.reply("ask", q)
}

func (m *mockToolService) FundComponent(_ context.Context, c string) (domain.ToolAnswer, error) {
	return m.reply("component", c)
}

func (m *mockToolService) Deadline(_ context.Context, f string) (domain.ToolAnswer, error) {
	return m.reply("deadline", f)
}

func (m *mockToolService) MonthlyAllowance(_ context.Context, l string) (domain.ToolAnswer, error) {
	return m.reply("allowance", l)
}

func (m *mockToolService) RequiredDocuments(_ context.Context, s string) (domain.ToolAnswer, error) {
	return m.reply("documents", s)
}

type mockIndexService struct {
	stats domain.IndexStats
	err   error
}

func (m *mockIndexService) Index(_ context.Context, _ string, _ driving.IndexOptions) (domain.IndexReport, error) {
	return domain.IndexReport{}, nil
}

func (m *mockIndexService) Stats(_ context.Context) (domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockIndexService) DeleteNamespace(_ context.Context, _ string) error {
	return nil
}
