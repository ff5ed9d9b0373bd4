package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyGeminiAPIKey      = "gemini.api_key"
	KeyEmbeddingModel    = "gemini.embedding_model"
	KeyGenerationModel   = "gemini.generation_model"
	KeyTemperature       = "gemini.temperature"
	KeyMaxOutputTokens   = "gemini.max_output_tokens"
	KeyRequestsPerMinute = "gemini.requests_per_minute"
	KeyVectorProvider    = "vector_index.provider"
	KeyVectorAPIKey      = "vector_index.api_key"
	KeyVectorIndexName   = "vector_index.index_name"
	KeyVectorNamespace   = "vector_index.namespace"
	KeyVectorDimension   = "vector_index.dimension"
	KeyVectorMetric      = "vector_index.metric"
	KeyVectorCloud       = "vector_index.cloud"
	KeyVectorRegion      = "vector_index.region"
	KeyVectorHost        = "vector_index.host"
	KeyVectorPort        = "vector_index.port"
	KeyVectorUseTLS      = "vector_index.use_tls"
	KeyChunkSize         = "chunking.chunk_size"
	KeyChunkOverlap      = "chunking.chunk_overlap"
	KeyTopK              = "retrieval.top_k"
	KeyDocumentPath      = "document.path"
	KeySectionRules      = "document.section_rules"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
)

var settingKinds = map[string]valueKind{
	KeyGeminiAPIKey:      kindString,
	KeyEmbeddingModel:    kindString,
	KeyGenerationModel:   kindString,
	KeyTemperature:       kindFloat,
	KeyMaxOutputTokens:   kindInt,
	KeyRequestsPerMinute: kindInt,
	KeyVectorProvider:    kindString,
	KeyVectorAPIKey:      kindString,
	KeyVectorIndexName:   kindString,
	KeyVectorNamespace:   kindString,
	KeyVectorDimension:   kindInt,
	KeyVectorMetric:      kindString,
	KeyVectorCloud:       kindString,
	KeyVectorRegion:      kindString,
	KeyVectorHost:        kindString,
	KeyVectorPort:        kindInt,
	KeyVectorUseTLS:      kindBool,
	KeyChunkSize:         kindInt,
	KeyChunkOverlap:      kindInt,
	KeyTopK:              kindInt,
	KeyDocumentPath:      kindString,
	KeySectionRules:      kindString,
}

// SettingKeys returns every key Set accepts.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	return keys
}

// SettingsService resolves settings from the config store and environment.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process
// environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// SetEnvLookup replaces the environment lookup.
func (s *SettingsService) SetEnvLookup(lookup func(string) (string, bool)) {
	if lookup != nil {
		s.lookupEnv = lookup
	}
}

// Get returns stored settings over the defaults, with credentials from the
// environment taking precedence. Unusable stored values fall back to the
// defaults.
func (s *SettingsService) Get() (domain.Settings, error) {
	d := domain.DefaultSettings()

	provider := domain.VectorProvider(s.getString(KeyVectorProvider, d.VectorIndex.Provider.String()))
	if !provider.IsValid() {
		provider = d.VectorIndex.Provider
	}

	settings := domain.Settings{
		Gemini: domain.GeminiSettings{
			APIKey:            s.configStore.GetString(KeyGeminiAPIKey),
			EmbeddingModel:    s.getString(KeyEmbeddingModel, d.Gemini.EmbeddingModel),
			GenerationModel:   s.getString(KeyGenerationModel, d.Gemini.GenerationModel),
			Temperature:       s.getFloat(KeyTemperature, d.Gemini.Temperature),
			MaxOutputTokens:   s.getPositiveInt(KeyMaxOutputTokens, d.Gemini.MaxOutputTokens),
			RequestsPerMinute: s.getPositiveInt(KeyRequestsPerMinute, d.Gemini.RequestsPerMinute),
		},
		VectorIndex: domain.VectorIndexSettings{
			Provider:  provider,
			APIKey:    s.configStore.GetString(KeyVectorAPIKey),
			IndexName: s.getString(KeyVectorIndexName, d.VectorIndex.IndexName),
			Namespace: s.configStore.GetString(KeyVectorNamespace),
			Dimension: s.getPositiveInt(KeyVectorDimension, d.VectorIndex.Dimension),
			Metric:    s.getString(KeyVectorMetric, d.VectorIndex.Metric),
			Cloud:     s.getString(KeyVectorCloud, d.VectorIndex.Cloud),
			Region:    s.getString(KeyVectorRegion, d.VectorIndex.Region),
			Host:      s.getString(KeyVectorHost, d.VectorIndex.Host),
			Port:      s.getPositiveInt(KeyVectorPort, d.VectorIndex.Port),
			UseTLS:    s.configStore.GetBool(KeyVectorUseTLS),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getPositiveInt(KeyChunkSize, d.Chunking.Size),
			Overlap: s.getNonNegativeInt(KeyChunkOverlap, d.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getPositiveInt(KeyTopK, d.Retrieval.TopK),
		},
		Document: domain.DocumentSettings{
			Path:         s.configStore.GetString(KeyDocumentPath),
			SectionRules: s.configStore.GetString(KeySectionRules),
		},
	}

	s.applyEnv(&settings)
	return settings, nil
}

func (s *SettingsService) applyEnv(settings *domain.Settings) {
	if v, ok := s.env(domain.EnvGoogleAPIKey); ok {
		settings.Gemini.APIKey = v
	}
	switch settings.VectorIndex.Provider {
	case domain.VectorProviderPinecone:
		if v, ok := s.env(domain.EnvPineconeAPIKey); ok {
			settings.VectorIndex.APIKey = v
		}
		if v, ok := s.env(domain.EnvPineconeIndexName); ok {
			settings.VectorIndex.IndexName = v
		}
	case domain.VectorProviderQdrant:
		if v, ok := s.env(domain.EnvQdrantAPIKey); ok {
			settings.VectorIndex.APIKey = v
		}
	}
}

func (s *SettingsService) env(name string) (string, bool) {
	v, ok := s.lookupEnv(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Set parses value for key and stores it. String values are converted to
// the key's type so command-line input can be stored directly.
func (s *SettingsService) Set(key string, value any) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := coerce(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	if key == KeyVectorProvider && !domain.VectorProvider(parsed.(string)).IsValid() {
		return fmt.Errorf("%w: unknown vector provider %q", domain.ErrInvalidInput, parsed)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func coerce(kind valueKind, value any) (any, error) {
	str, isString := value.(string)
	switch kind {
	case kindString:
		if !isString {
			return nil, fmt.Errorf("want a string, got %T", value)
		}
		return strings.TrimSpace(str), nil
	case kindInt:
		if isString {
			return strconv.Atoi(strings.TrimSpace(str))
		}
		if n, ok := value.(int); ok {
			return n, nil
		}
	case kindFloat:
		if isString {
			return strconv.ParseFloat(strings.TrimSpace(str), 64)
		}
		if n, ok := domain.AsNumber(value); ok {
			return n, nil
		}
	case kindBool:
		if isString {
			return strconv.ParseBool(strings.TrimSpace(str))
		}
		if b, ok := value.(bool); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("unsupported value %v (%T)", value, value)
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getNonNegativeInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if v := s.configStore.GetInt(key); v >= 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}
