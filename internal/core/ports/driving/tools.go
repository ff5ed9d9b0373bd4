package driving

import (
	"context"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

// ToolService exposes the five question templates offered to assistants.
// Each operation fills a fixed Indonesian template with its argument and
// answers it through the RetrieverService.
type ToolService interface {
	// Ask answers a free-form question about disbursement.
	Ask(ctx context.Context, question string) (domain.ToolAnswer, error)

	// FundComponent explains a funding component: amount, requirements, procedure.
	FundComponent(ctx context.Context, component string) (domain.ToolAnswer, error)

	// Deadline looks up the submission deadline of a fund type.
	Deadline(ctx context.Context, fundType string) (domain.ToolAnswer, error)

	// MonthlyAllowance looks up the living allowance for a location.
	MonthlyAllowance(ctx context.Context, location string) (domain.ToolAnswer, error)

	// RequiredDocuments lists the documents a submission type needs.
	RequiredDocuments(ctx context.Context, submissionType string) (domain.ToolAnswer, error)
}
