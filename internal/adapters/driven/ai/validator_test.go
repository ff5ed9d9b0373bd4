package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

func TestValidatorMissingCredentials(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*domain.Settings)
		want   []string
	}{
		{
			name:   "nothing set",
			modify: func(*domain.Settings) {},
			want:   []string{domain.EnvGoogleAPIKey, domain.EnvPineconeAPIKey},
		},
		{
			name: "all set",
			modify: func(s *domain.Settings) {
				s.Gemini.APIKey = "g"
				s.VectorIndex.APIKey = "p"
			},
		},
		{
			name: "qdrant needs no key",
			modify: func(s *domain.Settings) {
				s.Gemini.APIKey = "g"
				s.VectorIndex.Provider = domain.VectorProviderQdrant
			},
		},
		{
			name: "memory without gemini key",
			modify: func(s *domain.Settings) {
				s.VectorIndex.Provider = domain.VectorProviderMemory
			},
			want: []string{domain.EnvGoogleAPIKey},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.DefaultSettings()
			tt.modify(&s)
			assert.Equal(t, tt.want, MissingCredentials(s))
		})
	}
}
