// Package gemini provides an embedding service adapter using the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
	"github.com/custodia-labs/lpdp-faq/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "text-embedding-004"
	DefaultDimensions = 768
	DefaultTimeout    = 60 * time.Second
)

// Task hints sent with each request.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Google AI Studio key (required).
	APIKey string

	// Model is the embedding model to use (default: text-embedding-004).
	Model string

	// Dimensions is the expected vector size (default: 768).
	Dimensions int

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// contentEmbedder is the part of *genai.Models this adapter calls.
type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// EmbeddingService generates embeddings using the Gemini API.
type EmbeddingService struct {
	api        contentEmbedder
	model      string
	dimensions int
}

// NewEmbeddingService creates a new Gemini embedding service.
// A missing API key is reported before any network activity.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini: GOOGLE_API_KEY is required for embeddings", domain.ErrConfiguration)
	}
	cfg = withDefaults(cfg)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: create client: %w", domain.ErrConfiguration, err)
	}

	return newEmbeddingService(client.Models, cfg), nil
}

func newEmbeddingService(api contentEmbedder, cfg Config) *EmbeddingService {
	cfg = withDefaults(cfg)
	return &EmbeddingService{
		api:        api,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

func withDefaults(cfg Config) Config {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

// EmbedDocument embeds a passage for storage.
func (s *EmbeddingService) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return s.embed(ctx, text, TaskRetrievalDocument)
}

// EmbedQuery embeds a question for search.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return s.embed(ctx, text, TaskRetrievalQuery)
}

// EmbedMany embeds passages sequentially, one request per text.
func (s *EmbeddingService) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := s.EmbedDocument(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d of %d: %w", i+1, len(texts), err)
		}
		vectors[i] = v
	}
	return vectors, nil
}

func (s *EmbeddingService) embed(ctx context.Context, text, task string) ([]float32, error) {
	resp, err := s.api.EmbedContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.EmbedContentConfig{TaskType: task})
	if err != nil {
		return nil, fmt.Errorf("%w: gemini embed content: %w", domain.ErrProvider, err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("%w: gemini returned no embedding", domain.ErrProvider)
	}

	values := resp.Embeddings[0].Values
	if len(values) != s.dimensions {
		return nil, fmt.Errorf("%w: %w: got %d values, want %d",
			domain.ErrProvider, domain.ErrDimensionMismatch, len(values), s.dimensions)
	}

	logger.Debug("Embedded %d chars (%s)", len(text), task)
	return values, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Close releases resources. The Gemini client holds none.
func (s *EmbeddingService) Close() error {
	return nil
}
