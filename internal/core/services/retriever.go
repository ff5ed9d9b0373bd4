package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
	"github.com/custodia-labs/lpdp-faq/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.RetrieverService = (*RetrieverService)(nil)

// Fixed Indonesian texts returned when nothing relevant is indexed.
const (
	NoContextText = "Tidak ada informasi yang relevan ditemukan."
	NoAnswerText  = "Maaf, saya tidak menemukan informasi yang relevan dengan pertanyaan Anda dalam dokumen panduan pencairan LPDP."
)

// ContextSeparator joins passages in an assembled context.
const ContextSeparator = "\n\n---\n\n"

// DefaultTopicTopK is the number of passages SearchByTopic returns by default.
const DefaultTopicTopK = 10

// DefaultSummaryLength bounds Summarise output, in characters.
const DefaultSummaryLength = 2000

// RetrieverConfig holds retrieval defaults.
type RetrieverConfig struct {
	// TopK applies when a call does not set one (default: 5).
	TopK int

	// Namespace applies when a call does not set one.
	Namespace string
}

// RetrieverService answers questions from the indexed guide.
type RetrieverService struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	generator driven.AnswerGenerator
	cfg       RetrieverConfig
}

// NewRetrieverService creates a retriever. All three adapters are required.
func NewRetrieverService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	generator driven.AnswerGenerator,
	cfg RetrieverConfig,
) (*RetrieverService, error) {
	switch {
	case embedder == nil:
		return nil, fmt.Errorf("%w: retriever needs an embedding service", domain.ErrMissingDependency)
	case index == nil:
		return nil, fmt.Errorf("%w: retriever needs a vector index", domain.ErrMissingDependency)
	case generator == nil:
		return nil, fmt.Errorf("%w: retriever needs an answer generator", domain.ErrMissingDependency)
	}
	if cfg.TopK <= 0 {
		cfg.TopK = domain.DefaultTopK
	}
	return &RetrieverService{embedder: embedder, index: index, generator: generator, cfg: cfg}, nil
}

// Retrieve embeds the question and returns the nearest passages.
func (s *RetrieverService) Retrieve(ctx context.Context, question string, opts driving.RetrieveOptions) ([]domain.RetrievedMatch, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = s.cfg.Namespace
	}

	vector, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	matches, err := s.index.Query(ctx, domain.VectorQuery{
		Vector:          vector,
		TopK:            topK,
		Namespace:       namespace,
		Filter:          opts.Filter,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	logger.Debug("Retrieved %d passages (top_k=%d, namespace=%q)", len(matches), topK, namespace)
	return matches, nil
}

// Context retrieves passages and formats them for the generator.
func (s *RetrieverService) Context(ctx context.Context, question string, opts driving.RetrieveOptions) (string, error) {
	matches, err := s.Retrieve(ctx, question, opts)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return NoContextText, nil
	}
	return FormatContext(matches), nil
}

// Query answers question from the retrieved passages. When nothing is
// retrieved the fixed no-answer text is returned and the generator is not
// called.
func (s *RetrieverService) Query(ctx context.Context, question string, opts driving.RetrieveOptions) (domain.QueryResult, error) {
	logger.Section("Query")
	done := logger.Timed("query")
	defer done()

	matches, err := s.Retrieve(ctx, question, opts)
	if err != nil {
		return domain.QueryResult{}, err
	}
	if len(matches) == 0 {
		logger.Info("No passages matched, skipping generation")
		return domain.QueryResult{Answer: NoAnswerText, Sources: []domain.Source{}}, nil
	}

	contextText := FormatContext(matches)
	answer, err := s.generator.Generate(ctx, strings.TrimSpace(question), contextText, driven.GenerateOptions{})
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("generate answer: %w", err)
	}

	return domain.QueryResult{
		Answer:  answer,
		Sources: domain.SourcesFromMatches(matches),
		Context: contextText,
	}, nil
}

// SearchByTopic retrieves passages about topic without generating an answer.
func (s *RetrieverService) SearchByTopic(ctx context.Context, topic string, topK int) ([]domain.RetrievedMatch, error) {
	if topK <= 0 {
		topK = DefaultTopicTopK
	}
	return s.Retrieve(ctx, topic, driving.RetrieveOptions{TopK: topK})
}

// Summarise retrieves passages about topic and compresses them into one
// summary of at most maxLength characters, keeping their sources.
func (s *RetrieverService) Summarise(ctx context.Context, topic string, maxLength int, opts driving.RetrieveOptions) (domain.QueryResult, error) {
	if maxLength <= 0 {
		maxLength = DefaultSummaryLength
	}

	matches, err := s.Retrieve(ctx, topic, opts)
	if err != nil {
		return domain.QueryResult{}, err
	}
	if len(matches) == 0 {
		return domain.QueryResult{Answer: NoContextText, Sources: []domain.Source{}}, nil
	}

	passages := make([]string, len(matches))
	for i, m := range matches {
		passages[i] = m.Content
	}
	summary, err := s.generator.Summarise(ctx, passages, maxLength)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("summarise passages: %w", err)
	}
	return domain.QueryResult{
		Answer:  summary,
		Sources: domain.SourcesFromMatches(matches),
	}, nil
}

// FormatContext renders matches as attributed blocks in retrieval order.
//
//	[Sumber: Halaman 54, Bagian: Dana Hidup Bulanan, Relevansi: 0.95]
//	Tokyo: JPY 195,000
func FormatContext(matches []domain.RetrievedMatch) string {
	blocks := make([]string, len(matches))
	for i, m := range matches {
		page := "?"
		if m.Metadata.PageNumber > 0 {
			page = strconv.Itoa(m.Metadata.PageNumber)
		}

		var b strings.Builder
		b.WriteString("[Sumber: Halaman ")
		b.WriteString(page)
		if m.Metadata.Section != "" {
			b.WriteString(", Bagian: ")
			b.WriteString(m.Metadata.Section)
		}
		fmt.Fprintf(&b, ", Relevansi: %.2f]\n", m.Score)
		b.WriteString(m.Content)
		blocks[i] = b.String()
	}
	return strings.Join(blocks, ContextSeparator)
}
