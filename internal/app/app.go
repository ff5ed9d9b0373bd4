// Package app wires driven adapters into the core services. It is the
// composition root shared by every command.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/ai"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/document/pdf"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
	"github.com/custodia-labs/lpdp-faq/internal/core/services"
	"github.com/custodia-labs/lpdp-faq/internal/logger"
	"github.com/custodia-labs/lpdp-faq/internal/postprocessors/chunker"
)

// Options controls how the container is built.
type Options struct {
	// ConfigDir holds config.toml, prompts/ and data/. Defaults to ~/.lpdp-faq.
	ConfigDir string

	// Override adjusts the resolved settings before adapters are built.
	Override func(*domain.Settings)

	// NoCheckpoints disables the SQLite checkpoint store.
	NoCheckpoints bool
}

// Container holds the wired services.
type Container struct {
	Settings  *services.SettingsService
	Resolved  domain.Settings
	Retriever *services.RetrieverService
	Tools     *services.ToolService
	Indexer   *services.IndexService

	adapters    *ai.InitResult
	checkpoints driven.CheckpointStore
}

// NewSettings opens the config store in configDir and returns the settings
// service over it.
func NewSettings(configDir string) (*services.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return services.NewSettingsService(store), nil
}

// Build resolves settings and constructs every service.
func Build(ctx context.Context, opts Options) (*Container, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	settingsService, err := NewSettings(configDir)
	if err != nil {
		if _, statErr := os.Stat(filepath.Join(configDir, "config.toml")); statErr == nil {
			return nil, err
		}
		// No config file and nowhere to create one, e.g. a read-only home in a
		// container. Settings then come from defaults and the environment.
		logger.Warn("Config directory unavailable, using defaults and environment: %v", err)
		settingsService = services.NewSettingsService(memory.NewConfigStore())
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	if opts.Override != nil {
		opts.Override(&settings)
	}
	if missing := ai.MissingCredentials(settings); len(missing) > 0 {
		return nil, fmt.Errorf("%w: set %v in the environment or .env", domain.ErrConfiguration, missing)
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, err
	}

	adapters, err := ai.Init(ctx, settings, prompts)
	if err != nil {
		return nil, err
	}
	c := &Container{Settings: settingsService, Resolved: settings, adapters: adapters}
	fail := func(err error) (*Container, error) {
		_ = c.Close()
		return nil, err
	}

	c.Retriever, err = services.NewRetrieverService(adapters.Embedder, adapters.VectorIndex, adapters.Generator,
		services.RetrieverConfig{TopK: settings.Retrieval.TopK, Namespace: settings.VectorIndex.Namespace})
	if err != nil {
		return fail(err)
	}
	if c.Tools, err = services.NewToolService(c.Retriever); err != nil {
		return fail(err)
	}

	textChunker, err := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	if err != nil {
		return fail(err)
	}

	indexOpts := []services.IndexServiceOption{services.WithDefaultNamespace(settings.VectorIndex.Namespace)}
	if !opts.NoCheckpoints {
		var store driven.CheckpointStore
		store, err = sqlite.NewStore(filepath.Join(configDir, "data"))
		if err != nil {
			// Checkpoints then only survive within this process.
			logger.Warn("Checkpoint database unavailable, keeping checkpoints in memory: %v", err)
			store = memory.NewCheckpointStore()
		}
		c.checkpoints = store
		indexOpts = append(indexOpts, services.WithCheckpointStore(store))
	}

	c.Indexer, err = services.NewIndexService(
		pdf.NewDocumentLoader(pdf.WithClassifier(adapters.Classifier)),
		textChunker,
		adapters.Embedder,
		adapters.VectorIndex,
		indexOpts...,
	)
	if err != nil {
		return fail(err)
	}

	logger.Debug("Using %s vector index %q with %s", settings.VectorIndex.Provider,
		settings.VectorIndex.IndexName, settings.Gemini.GenerationModel)
	return c, nil
}

// Close releases every adapter.
func (c *Container) Close() error {
	var errs []error
	if c.adapters != nil {
		errs = append(errs, c.adapters.Close())
	}
	if c.checkpoints != nil {
		errs = append(errs, c.checkpoints.Close())
	}
	return errors.Join(errs...)
}
