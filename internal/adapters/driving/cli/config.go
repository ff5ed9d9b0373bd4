package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the settings stored in config.toml.

Credentials in the environment (GOOGLE_API_KEY, PINECONE_API_KEY,
PINECONE_INDEX_NAME, QDRANT_API_KEY) take precedence over stored values.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Store a setting",
	Long: `Store a setting by its dotted key.

Examples:
  lpdp-faq config set vector_index.provider qdrant
  lpdp-faq config set vector_index.host localhost
  lpdp-faq config set retrieval.top_k 8
  lpdp-faq config set document.path ./docs/panduan-pencairan-awardee.pdf`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svc, release, err := services(cmd, BuildOptions{SettingsOnly: true})
	if err != nil {
		return err
	}
	defer release()
	if svc.Settings == nil {
		return errors.New("settings service not configured")
	}

	settings, err := svc.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Gemini")
	fmt.Fprintf(out, "  API key:             %s\n", mask(settings.Gemini.APIKey))
	fmt.Fprintf(out, "  Embedding model:     %s\n", settings.Gemini.EmbeddingModel)
	fmt.Fprintf(out, "  Generation model:    %s\n", settings.Gemini.GenerationModel)
	fmt.Fprintf(out, "  Temperature:         %.2f\n", settings.Gemini.Temperature)
	fmt.Fprintf(out, "  Max output tokens:   %d\n", settings.Gemini.MaxOutputTokens)
	fmt.Fprintf(out, "  Requests per minute: %d\n", settings.Gemini.RequestsPerMinute)

	vi := settings.VectorIndex
	fmt.Fprintln(out, "\nVector index")
	fmt.Fprintf(out, "  Provider:            %s\n", vi.Provider)
	fmt.Fprintf(out, "  Index name:          %s\n", vi.IndexName)
	fmt.Fprintf(out, "  Namespace:           %s\n", orDefault(vi.Namespace))
	fmt.Fprintf(out, "  Dimension:           %d\n", vi.Dimension)
	switch vi.Provider {
	case domain.VectorProviderPinecone:
		fmt.Fprintf(out, "  API key:             %s\n", mask(vi.APIKey))
		fmt.Fprintf(out, "  Metric:              %s\n", vi.Metric)
		fmt.Fprintf(out, "  Cloud/region:        %s/%s\n", vi.Cloud, vi.Region)
	case domain.VectorProviderQdrant:
		fmt.Fprintf(out, "  Address:             %s:%d (tls=%t)\n", vi.Host, vi.Port, vi.UseTLS)
	}

	fmt.Fprintln(out, "\nIndexing")
	fmt.Fprintf(out, "  Chunk size:          %d\n", settings.Chunking.Size)
	fmt.Fprintf(out, "  Chunk overlap:       %d\n", settings.Chunking.Overlap)
	fmt.Fprintf(out, "  Top K:               %d\n", settings.Retrieval.TopK)
	fmt.Fprintf(out, "  Document:            %s\n", orDefault(settings.Document.Path))
	fmt.Fprintf(out, "  Section rules:       %s\n", orDefault(settings.Document.SectionRules))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	svc, release, err := services(cmd, BuildOptions{SettingsOnly: true})
	if err != nil {
		return err
	}
	defer release()
	if svc.Settings == nil {
		return errors.New("settings service not configured")
	}

	key := strings.TrimSpace(args[0])
	if err := svc.Settings.Set(key, args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func mask(secret string) string {
	switch {
	case secret == "":
		return "(not set)"
	case len(secret) <= 8:
		return "********"
	default:
		return secret[:4] + "..." + secret[len(secret)-4:]
	}
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
