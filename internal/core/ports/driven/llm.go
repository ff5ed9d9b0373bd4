package driven

import "context"

// AnswerGenerator writes answers grounded in retrieved context.
//
// Every remote call is preceded by a wait on the RateLimiter the
// implementation was built with. Calls are never retried.
//
// Implementations:
//   - Gemini (gemini-2.0-flash)
type AnswerGenerator interface {
	// Generate answers question using only contextText.
	Generate(ctx context.Context, question, contextText string, opts GenerateOptions) (string, error)

	// Summarise compresses chunks into at most maxLength characters. Input
	// that already fits is returned joined but otherwise unchanged, without
	// a remote call.
	Summarise(ctx context.Context, chunks []string, maxLength int) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// GenerateOptions configures a single generation.
type GenerateOptions struct {
	// SystemPrompt replaces the default system instruction when non-empty.
	SystemPrompt string

	// MaxTokens overrides the configured output limit when positive.
	MaxTokens int

	// Temperature overrides the configured temperature when non-nil.
	Temperature *float64
}

// RateLimiter spaces out calls to a remote API.
type RateLimiter interface {
	// Wait blocks until the next call may be made or ctx is done.
	Wait(ctx context.Context) error
}
