// Package ai provides factory functions that build the driven adapters
// from settings.
package ai

import (
	"context"
	"errors"
	"fmt"

	geminiembed "github.com/custodia-labs/lpdp-faq/internal/adapters/driven/embedding/gemini"
	geminillm "github.com/custodia-labs/lpdp-faq/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/section"
	memoryindex "github.com/custodia-labs/lpdp-faq/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/vector/pinecone"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
)

// InitResult holds every driven adapter a command needs.
type InitResult struct {
	Embedder    driven.EmbeddingService
	Generator   driven.AnswerGenerator
	VectorIndex driven.VectorIndex
	Classifier  driven.SectionClassifier

	// Limiter is shared by every generator built from these settings.
	Limiter driven.RateLimiter
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() error {
	var errs []error
	if r.Embedder != nil {
		errs = append(errs, r.Embedder.Close())
	}
	if r.Generator != nil {
		errs = append(errs, r.Generator.Close())
	}
	if r.VectorIndex != nil {
		errs = append(errs, r.VectorIndex.Close())
	}
	return errors.Join(errs...)
}

// Init builds the embedder, generator, vector index and section classifier.
// Anything already built is closed when a later step fails. The prompt
// store is optional.
func Init(ctx context.Context, settings domain.Settings, prompts driven.PromptStore) (*InitResult, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	result := &InitResult{Limiter: ratelimit.NewIntervalLimiter(settings.Gemini.RequestsPerMinute)}
	fail := func(err error) (*InitResult, error) {
		_ = result.Close()
		return nil, err
	}

	var err error
	if result.Embedder, err = CreateEmbeddingService(ctx, settings.Gemini, settings.VectorIndex.Dimension); err != nil {
		return fail(err)
	}
	if result.Generator, err = CreateAnswerGenerator(ctx, settings.Gemini, result.Limiter); err != nil {
		return fail(err)
	}
	if prompts != nil {
		if aware, ok := result.Generator.(driven.PromptStoreAware); ok {
			aware.SetPromptStore(prompts)
		}
	}
	if result.VectorIndex, err = CreateVectorIndex(settings.VectorIndex); err != nil {
		return fail(err)
	}
	if result.Classifier, err = CreateClassifier(settings.Document); err != nil {
		return fail(err)
	}
	return result, nil
}

// CreateEmbeddingService creates the Gemini embedding service.
func CreateEmbeddingService(ctx context.Context, settings domain.GeminiSettings, dimension int) (driven.EmbeddingService, error) {
	svc, err := geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
		APIKey:     settings.APIKey,
		Model:      settings.EmbeddingModel,
		Dimensions: dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding service: %w", err)
	}
	return svc, nil
}

// CreateAnswerGenerator creates the Gemini answer generator gated by limiter.
func CreateAnswerGenerator(ctx context.Context, settings domain.GeminiSettings, limiter driven.RateLimiter) (driven.AnswerGenerator, error) {
	temperature := settings.Temperature
	gen, err := geminillm.NewGenerator(ctx, geminillm.Config{
		APIKey:          settings.APIKey,
		Model:           settings.GenerationModel,
		Temperature:     &temperature,
		MaxOutputTokens: settings.MaxOutputTokens,
		Limiter:         limiter,
	})
	if err != nil {
		return nil, fmt.Errorf("create answer generator: %w", err)
	}
	return gen, nil
}

// CreateVectorIndex creates the configured vector index backend.
func CreateVectorIndex(settings domain.VectorIndexSettings) (driven.VectorIndex, error) {
	switch settings.Provider {
	case domain.VectorProviderPinecone:
		return pinecone.New(pinecone.Config{
			APIKey:    settings.APIKey,
			IndexName: settings.IndexName,
			Dimension: settings.Dimension,
			Metric:    settings.Metric,
			Cloud:     settings.Cloud,
			Region:    settings.Region,
		})

	case domain.VectorProviderQdrant:
		return qdrant.New(qdrant.Config{
			Host:       settings.Host,
			Port:       settings.Port,
			APIKey:     settings.APIKey,
			UseTLS:     settings.UseTLS,
			Collection: settings.IndexName,
			Dimension:  settings.Dimension,
		})

	case domain.VectorProviderMemory:
		return memoryindex.New(settings.Dimension), nil

	default:
		return nil, fmt.Errorf("%w: unsupported vector provider: %s", domain.ErrConfiguration, settings.Provider)
	}
}

// CreateClassifier returns the YAML rule table when one is configured and
// the built-in keyword classifier otherwise.
func CreateClassifier(settings domain.DocumentSettings) (driven.SectionClassifier, error) {
	if settings.SectionRules == "" {
		return section.NewKeywordClassifier(), nil
	}
	classifier, err := section.LoadRuleTable(settings.SectionRules)
	if err != nil {
		return nil, fmt.Errorf("load section rules: %w", err)
	}
	return classifier, nil
}
