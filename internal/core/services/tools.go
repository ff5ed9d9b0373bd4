package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

// Ensure ToolService implements the interface.
var _ driving.ToolService = (*ToolService)(nil)

// Question templates and retrieval depth of each tool.
const (
	FundComponentTemplate     = "Jelaskan tentang %s beasiswa LPDP, termasuk besaran, syarat, dan cara pengajuan"
	DeadlineTemplate          = "Kapan batas waktu atau deadline pengajuan %s LPDP?"
	MonthlyAllowanceTemplate  = "Berapa living allowance atau dana hidup bulanan untuk mahasiswa LPDP di %s?"
	RequiredDocumentsTemplate = "Dokumen apa saja yang diperlukan untuk pengajuan %s LPDP?"

	AskTopK               = 5
	FundComponentTopK     = 7
	DeadlineTopK          = 5
	MonthlyAllowanceTopK  = 5
	RequiredDocumentsTopK = 5
)

// ToolService turns tool arguments into retriever questions.
type ToolService struct {
	retriever driving.RetrieverService
}

// NewToolService creates a tool service.
func NewToolService(retriever driving.RetrieverService) (*ToolService, error) {
	if retriever == nil {
		return nil, fmt.Errorf("%w: tools need a retriever", domain.ErrMissingDependency)
	}
	return &ToolService{retriever: retriever}, nil
}

// Ask answers a free-form question.
func (s *ToolService) Ask(ctx context.Context, question string) (domain.ToolAnswer, error) {
	return s.answer(ctx, "pertanyaan", question, "%s", AskTopK)
}

// FundComponent explains a funding component.
func (s *ToolService) FundComponent(ctx context.Context, component string) (domain.ToolAnswer, error) {
	return s.answer(ctx, "komponen", component, FundComponentTemplate, FundComponentTopK)
}

// Deadline looks up a submission deadline.
func (s *ToolService) Deadline(ctx context.Context, fundType string) (domain.ToolAnswer, error) {
	return s.answer(ctx, "jenis_dana", fundType, DeadlineTemplate, DeadlineTopK)
}

// MonthlyAllowance looks up the living allowance for a location.
func (s *ToolService) MonthlyAllowance(ctx context.Context, location string) (domain.ToolAnswer, error) {
	return s.answer(ctx, "lokasi", location, MonthlyAllowanceTemplate, MonthlyAllowanceTopK)
}

// RequiredDocuments lists the documents a submission needs.
func (s *ToolService) RequiredDocuments(ctx context.Context, submissionType string) (domain.ToolAnswer, error) {
	return s.answer(ctx, "jenis_pengajuan", submissionType, RequiredDocumentsTemplate, RequiredDocumentsTopK)
}

func (s *ToolService) answer(ctx context.Context, argName, arg, template string, topK int) (domain.ToolAnswer, error) {
	subject := strings.TrimSpace(arg)
	if subject == "" {
		return domain.ToolAnswer{}, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, argName)
	}

	result, err := s.retriever.Query(ctx, fmt.Sprintf(template, subject), driving.RetrieveOptions{TopK: topK})
	if err != nil {
		return domain.ToolAnswer{}, err
	}

	return domain.ToolAnswer{Subject: subject, Text: result.Answer, Sources: result.Sources}, nil
}
