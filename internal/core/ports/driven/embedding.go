// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Passages and questions are embedded with different task hints so that a
// question lands near the passages that answer it. Both kinds of vector must
// have exactly Dimensions() values.
//
// Implementations:
//   - Gemini (text-embedding-004, 768 dimensions)
type EmbeddingService interface {
	// EmbedDocument embeds a passage for storage.
	EmbedDocument(ctx context.Context, text string) ([]float32, error)

	// EmbedQuery embeds a question for search.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedMany embeds passages in order, one remote call per text.
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	// This must match the VectorIndex configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
