package driven

import (
	"context"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

// PageReader gives random access to the raw text of a document's pages.
type PageReader interface {
	// NumPages returns the page count, blank pages included.
	NumPages() int

	// PageText returns the raw text of page n (1-based).
	PageText(n int) (string, error)

	// Close releases the underlying file.
	Close() error
}

// PageOpener opens a document for page-by-page reading.
type PageOpener interface {
	Open(path string) (PageReader, error)
}

// PageOpenerFunc adapts a function to PageOpener.
type PageOpenerFunc func(path string) (PageReader, error)

// Open calls f(path).
func (f PageOpenerFunc) Open(path string) (PageReader, error) {
	return f(path)
}

// SectionClassifier labels a page with the guide section it belongs to.
type SectionClassifier interface {
	// Classify returns the section title, or "" when none applies.
	Classify(text string) string
}

// DocumentLoader reads a document into non-blank, section-tagged pages.
type DocumentLoader interface {
	// Load returns the document's pages in order.
	Load(ctx context.Context, path string) ([]domain.PageDocument, error)

	// Fingerprint returns a digest of the file contents. Two files with the
	// same fingerprint produce the same pages.
	Fingerprint(path string) (string, error)
}

// Chunker splits pages into overlapping chunks.
type Chunker interface {
	// ChunkDocuments chunks each page and numbers the chunks globally.
	ChunkDocuments(pages []domain.PageDocument) []domain.Chunk
}
