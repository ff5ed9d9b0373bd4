// Package gemini provides an answer generator adapter using the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"google.golang.org/genai"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
	"github.com/custodia-labs/lpdp-faq/internal/logger"
)

// Ensure Generator implements the interfaces.
var (
	_ driven.AnswerGenerator  = (*Generator)(nil)
	_ driven.PromptStoreAware = (*Generator)(nil)
)

// Default configuration values.
const (
	DefaultModel           = "gemini-2.0-flash"
	DefaultTemperature     = 0.3
	DefaultMaxOutputTokens = 2048
	DefaultSummariseLength = 2000
	DefaultTimeout         = 120 * time.Second
	SummarySeparator       = "\n\n---\n\n"
)

// Built-in prompts, used when no PromptStore is set or it has no override.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const (
	defaultSystemPrompt = `Anda adalah asisten AI yang membantu menjawab pertanyaan tentang pencairan beasiswa LPDP (Lembaga Pengelola Dana Pendidikan).

Gunakan HANYA informasi dari konteks yang diberikan untuk menjawab pertanyaan.
Jika informasi tidak tersedia dalam konteks, katakan bahwa Anda tidak menemukan informasi tersebut.
Jawab dalam Bahasa Indonesia dengan jelas dan terstruktur.
Sertakan referensi ke bagian dokumen jika relevan.`

	defaultSummarisePrompt = `Ringkas informasi berikut menjadi teks yang koheren dan informatif.
Pertahankan detail penting dan angka-angka spesifik.
Maksimal %d karakter.

TEKS:
%s

RINGKASAN:`
)

// DefaultSystemPrompt returns the built-in system instruction.
func DefaultSystemPrompt() string {
	return defaultSystemPrompt
}

// DefaultSummarisePrompt returns the built-in summarisation template.
func DefaultSummarisePrompt() string {
	return defaultSummarisePrompt
}

// Config holds configuration for the Gemini generator.
type Config struct {
	// APIKey is the Google AI Studio key (required).
	APIKey string

	// Model is the generation model (default: gemini-2.0-flash).
	Model string

	// Temperature controls randomness. Nil uses 0.3; zero is kept.
	Temperature *float64

	// MaxOutputTokens caps the answer length (default: 2048).
	MaxOutputTokens int

	// Limiter gates every remote call. Share one limiter between generators
	// that draw on the same quota. Nil builds a private limiter at the
	// default rate.
	Limiter driven.RateLimiter

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// contentGenerator is the part of *genai.Models this adapter calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator answers questions with a Gemini model.
type Generator struct {
	api         contentGenerator
	model       string
	temperature float64
	maxTokens   int
	limiter     driven.RateLimiter
	promptStore driven.PromptStore
}

// NewGenerator creates a Gemini generator.
// A missing API key is reported before any network activity.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini: GOOGLE_API_KEY is required for generation", domain.ErrConfiguration)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: create client: %w", domain.ErrConfiguration, err)
	}

	return newGenerator(client.Models, cfg), nil
}

func newGenerator(api contentGenerator, cfg Config) *Generator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.NewIntervalLimiter(ratelimit.DefaultRequestsPerMinute)
	}

	return &Generator{
		api:         api,
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   cfg.MaxOutputTokens,
		limiter:     cfg.Limiter,
	}
}

// BuildPrompt lays out the system instruction, context and question in the
// format the model is instructed with.
func BuildPrompt(system, contextText, question string) string {
	return system + "\n\nKONTEKS:\n" + contextText + "\n\nPERTANYAAN:\n" + question + "\n\nJAWABAN:"
}

// Generate answers question using only contextText.
func (g *Generator) Generate(ctx context.Context, question, contextText string, opts driven.GenerateOptions) (string, error) {
	system := opts.SystemPrompt
	if system == "" {
		system = g.loadPrompt(driven.PromptSystem, defaultSystemPrompt)
	}

	text, err := g.complete(ctx, BuildPrompt(system, contextText, question), opts)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return text, nil
}

// Summarise joins chunks and, if the result exceeds maxLength characters,
// asks the model to compress it. Non-positive maxLength uses the default.
func (g *Generator) Summarise(ctx context.Context, chunks []string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = DefaultSummariseLength
	}

	combined := strings.Join(chunks, SummarySeparator)
	if utf8.RuneCountInString(combined) <= maxLength {
		return combined, nil
	}

	template := g.loadPrompt(driven.PromptSummarise, defaultSummarisePrompt)
	text, err := g.complete(ctx, fmt.Sprintf(template, maxLength, combined), driven.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("summarise: %w", err)
	}
	return text, nil
}

func (g *Generator) complete(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	temperature := g.temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := g.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	logger.Debug("Generating with %s (%d prompt chars)", g.model, len(prompt))
	resp, err := g.api.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(maxTokens), //nolint:gosec // bounded by configuration
	})
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate content: %w", domain.ErrProvider, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: gemini returned no response", domain.ErrProvider)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned an empty answer", domain.ErrProvider)
	}
	return text, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (g *Generator) loadPrompt(name, fallback string) string {
	if g.promptStore == nil {
		return fallback
	}
	prompt, err := g.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (g *Generator) SetPromptStore(store driven.PromptStore) {
	g.promptStore = store
}

// ModelName returns the name of the model being used.
func (g *Generator) ModelName() string {
	return g.model
}

// Close releases resources. The Gemini client holds none.
func (g *Generator) Close() error {
	return nil
}
