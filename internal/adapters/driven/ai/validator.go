package ai

import "github.com/custodia-labs/lpdp-faq/internal/core/domain"

// MissingCredentials lists the environment variables that must be set
// before Init can succeed with these settings.
func MissingCredentials(settings domain.Settings) []string {
	var missing []string
	if settings.Gemini.APIKey == "" {
		missing = append(missing, domain.EnvGoogleAPIKey)
	}
	if settings.VectorIndex.Provider.RequiresAPIKey() && settings.VectorIndex.APIKey == "" {
		missing = append(missing, domain.EnvPineconeAPIKey)
	}
	return missing
}
