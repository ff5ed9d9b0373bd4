// Package cli provides the cobra command tree for lpdp-faq.
package cli

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
	"github.com/custodia-labs/lpdp-faq/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services are the driving ports the commands run against.
type Services struct {
	Settings  driving.SettingsService
	Retriever driving.RetrieverService
	Tools     driving.ToolService
	Indexer   driving.IndexService

	// Config is the resolved settings the services were built from.
	Config domain.Settings

	// Close releases adapters. May be nil.
	Close func() error
}

// BuildOptions are passed to the Builder by each command.
type BuildOptions struct {
	// ConfigDir overrides the state directory. Empty means the default.
	ConfigDir string

	// SettingsOnly asks for the settings service alone, without credentials.
	SettingsOnly bool

	// Override adjusts resolved settings before adapters are built.
	Override func(*domain.Settings)
}

// Builder constructs Services for a command.
type Builder func(ctx context.Context, opts BuildOptions) (*Services, error)

var (
	builder   Builder
	configDir string
	verbose   bool
)

// ErrNotConfigured is returned when no Builder has been set.
var ErrNotConfigured = errors.New("services not configured")

// SetBuilder sets how commands obtain their services.
func SetBuilder(b Builder) {
	builder = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "lpdp-faq",
	Short: "Question answering over the LPDP disbursement guide",
	Long: `lpdp-faq answers questions about the LPDP awardee disbursement guide
(Panduan Pencairan Dana Awardee) using retrieval-augmented generation.

Index the guide once, then ask questions from the command line, the
interactive chat, or any MCP-compatible assistant via "lpdp-faq mcp serve".

Credentials are read from the environment or a .env file:
  GOOGLE_API_KEY       Gemini embeddings and generation
  PINECONE_API_KEY     Pinecone vector index
  PINECONE_INDEX_NAME  optional, defaults to lpdp-pencairan
  QDRANT_API_KEY       optional, for a secured Qdrant`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		// A missing .env is normal.
		_ = godotenv.Load()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline steps to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "state directory (default ~/.lpdp-faq)")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// services builds Services for cmd and returns a release func that is safe
// to defer.
func services(cmd *cobra.Command, opts BuildOptions) (*Services, func(), error) {
	if builder == nil {
		return nil, nil, ErrNotConfigured
	}
	opts.ConfigDir = configDir
	svc, err := builder(cmd.Context(), opts)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if svc.Close == nil {
			return
		}
		if err := svc.Close(); err != nil {
			logger.Warn("close: %v", err)
		}
	}
	return svc, release, nil
}
