package driving

import (
	"context"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

// RetrieveOptions narrows a retrieval.
type RetrieveOptions struct {
	// TopK is the maximum number of matches. Zero means the service default.
	TopK int

	// Namespace selects the index partition. Empty is the default namespace.
	Namespace string

	// Filter restricts matches by metadata.
	Filter domain.Filter
}

// RetrieverService answers questions from the indexed guide.
type RetrieverService interface {
	// Retrieve returns the passages most similar to question.
	Retrieve(ctx context.Context, question string, opts RetrieveOptions) ([]domain.RetrievedMatch, error)

	// Context retrieves and formats passages as a single context string.
	Context(ctx context.Context, question string, opts RetrieveOptions) (string, error)

	// Query retrieves, generates an answer and attributes its sources.
	Query(ctx context.Context, question string, opts RetrieveOptions) (domain.QueryResult, error)

	// SearchByTopic retrieves passages about topic without generating.
	SearchByTopic(ctx context.Context, topic string, topK int) ([]domain.RetrievedMatch, error)

	// Summarise retrieves passages about topic and condenses them to at
	// most maxLength characters. Zero means the service default.
	Summarise(ctx context.Context, topic string, maxLength int, opts RetrieveOptions) (domain.QueryResult, error)
}
