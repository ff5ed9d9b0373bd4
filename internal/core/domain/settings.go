package domain

import "fmt"

// VectorProvider identifies the vector index backend.
type VectorProvider string

// Available vector index backends.
const (
	// VectorProviderPinecone is the managed Pinecone serverless index.
	VectorProviderPinecone VectorProvider = "pinecone"

	// VectorProviderQdrant is a Qdrant collection reached over gRPC.
	VectorProviderQdrant VectorProvider = "qdrant"

	// VectorProviderMemory keeps vectors in process. Nothing survives a restart.
	VectorProviderMemory VectorProvider = "memory"
)

// IsValid returns true if the provider is recognised.
func (p VectorProvider) IsValid() bool {
	switch p {
	case VectorProviderPinecone, VectorProviderQdrant, VectorProviderMemory:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if the provider cannot be used without a key.
func (p VectorProvider) RequiresAPIKey() bool {
	return p == VectorProviderPinecone
}

// String returns the string representation.
func (p VectorProvider) String() string {
	return string(p)
}

// Defaults.
const (
	DefaultEmbeddingModel    = "text-embedding-004"
	DefaultGenerationModel   = "gemini-2.0-flash"
	DefaultTemperature       = 0.3
	DefaultMaxOutputTokens   = 2048
	DefaultRequestsPerMinute = 5
	DefaultIndexName         = "lpdp-pencairan"
	DefaultMetric            = "cosine"
	DefaultCloud             = "aws"
	DefaultRegion            = "us-east-1"
	DefaultQdrantPort        = 6334
	DefaultChunkSize         = 1000
	DefaultChunkOverlap      = 200
	DefaultTopK              = 5
	DefaultDocumentName      = "panduan-pencairan-awardee.pdf"
)

// Environment variables that carry credentials and override stored settings.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvGoogleAPIKey      = "GOOGLE_API_KEY"
	EnvPineconeAPIKey    = "PINECONE_API_KEY"
	EnvPineconeIndexName = "PINECONE_INDEX_NAME"
	EnvQdrantAPIKey      = "QDRANT_API_KEY"
)

// GeminiSettings configures embeddings and answer generation.
type GeminiSettings struct {
	APIKey            string
	EmbeddingModel    string
	GenerationModel   string
	Temperature       float64
	MaxOutputTokens   int
	RequestsPerMinute int
}

// VectorIndexSettings configures the vector index backend.
type VectorIndexSettings struct {
	Provider  VectorProvider
	APIKey    string
	IndexName string
	Namespace string
	Dimension int
	Metric    string

	// Pinecone serverless placement.
	Cloud  string
	Region string

	// Qdrant endpoint.
	Host   string
	Port   int
	UseTLS bool
}

// ChunkingSettings configures the chunker.
type ChunkingSettings struct {
	Size    int
	Overlap int
}

// RetrievalSettings configures query-time retrieval.
type RetrievalSettings struct {
	TopK int
}

// DocumentSettings locates the guide and its section rules.
type DocumentSettings struct {
	// Path is an explicit PDF path. Empty means search the default locations.
	Path string

	// SectionRules is an optional YAML rule table for section detection.
	SectionRules string
}

// Settings is the complete application configuration.
type Settings struct {
	Gemini      GeminiSettings
	VectorIndex VectorIndexSettings
	Chunking    ChunkingSettings
	Retrieval   RetrievalSettings
	Document    DocumentSettings
}

// DefaultSettings returns settings with every default applied and no credentials.
func DefaultSettings() Settings {
	return Settings{
		Gemini: GeminiSettings{
			EmbeddingModel:    DefaultEmbeddingModel,
			GenerationModel:   DefaultGenerationModel,
			Temperature:       DefaultTemperature,
			MaxOutputTokens:   DefaultMaxOutputTokens,
			RequestsPerMinute: DefaultRequestsPerMinute,
		},
		VectorIndex: VectorIndexSettings{
			Provider:  VectorProviderPinecone,
			IndexName: DefaultIndexName,
			Dimension: DefaultDimension,
			Metric:    DefaultMetric,
			Cloud:     DefaultCloud,
			Region:    DefaultRegion,
			Host:      "localhost",
			Port:      DefaultQdrantPort,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
	}
}

// Validate checks the settings for values no component could accept.
// Missing credentials are reported by the adapters when they are built.
func (s Settings) Validate() error {
	if !s.VectorIndex.Provider.IsValid() {
		return fmt.Errorf("%w: unknown vector provider %q", ErrConfiguration, s.VectorIndex.Provider)
	}
	if s.VectorIndex.Dimension <= 0 {
		return fmt.Errorf("%w: vector dimension must be positive", ErrConfiguration)
	}
	if s.Chunking.Size <= 0 || s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			ErrConfiguration, s.Chunking.Overlap, s.Chunking.Size)
	}
	if s.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", ErrConfiguration)
	}
	if s.Gemini.RequestsPerMinute <= 0 {
		return fmt.Errorf("%w: requests_per_minute must be positive", ErrConfiguration)
	}
	return nil
}
