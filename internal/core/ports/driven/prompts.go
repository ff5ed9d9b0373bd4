package driven

// PromptStore provides access to generation prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptSystem is the system instruction for answer generation.
	// The template has no format placeholders.
	PromptSystem = "system"

	// PromptSummarise compresses retrieved passages.
	// The template expects %d (max length) and %s (content) placeholders.
	PromptSummarise = "summarise"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service uses its built-in defaults.
	SetPromptStore(store PromptStore)
}
