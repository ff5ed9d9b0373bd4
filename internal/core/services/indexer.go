package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driving"
	"github.com/custodia-labs/lpdp-faq/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService loads the guide, chunks it, embeds the chunks and writes them
// to the vector index one batch at a time.
type IndexService struct {
	loader      driven.DocumentLoader
	chunker     driven.Chunker
	embedder    driven.EmbeddingService
	index       driven.VectorIndex
	checkpoints driven.CheckpointStore
	batchSize   int
	namespace   string
}

// IndexServiceOption configures an IndexService.
type IndexServiceOption func(*IndexService)

// WithCheckpointStore enables resumable indexing.
func WithCheckpointStore(store driven.CheckpointStore) IndexServiceOption {
	return func(s *IndexService) { s.checkpoints = store }
}

// WithBatchSize overrides the number of vectors written per upsert.
func WithBatchSize(n int) IndexServiceOption {
	return func(s *IndexService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithDefaultNamespace sets the namespace used when a call does not name one.
func WithDefaultNamespace(ns string) IndexServiceOption {
	return func(s *IndexService) { s.namespace = ns }
}

// NewIndexService creates an indexer.
func NewIndexService(
	loader driven.DocumentLoader,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	opts ...IndexServiceOption,
) (*IndexService, error) {
	switch {
	case loader == nil:
		return nil, fmt.Errorf("%w: indexer needs a document loader", domain.ErrMissingDependency)
	case chunker == nil:
		return nil, fmt.Errorf("%w: indexer needs a chunker", domain.ErrMissingDependency)
	case embedder == nil:
		return nil, fmt.Errorf("%w: indexer needs an embedding service", domain.ErrMissingDependency)
	case index == nil:
		return nil, fmt.Errorf("%w: indexer needs a vector index", domain.ErrMissingDependency)
	}

	s := &IndexService{
		loader:    loader,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		batchSize: driven.DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Index runs the full pipeline for the document at path.
func (s *IndexService) Index(ctx context.Context, path string, opts driving.IndexOptions) (domain.IndexReport, error) {
	var report domain.IndexReport
	namespace := opts.Namespace
	if namespace == "" {
		namespace = s.namespace
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(driving.IndexStage, int, int) {}
	}

	logger.Section("Indexing")
	done := logger.Timed("index " + filepath.Base(path))
	defer done()

	fingerprint, err := s.loader.Fingerprint(path)
	if err != nil {
		return report, err
	}

	progress(driving.StageLoad, 0, 1)
	pages, err := s.loader.Load(ctx, path)
	if err != nil {
		return report, fmt.Errorf("load document: %w", err)
	}
	if len(pages) == 0 {
		return report, fmt.Errorf("%w: %s has no extractable text", domain.ErrInvalidFormat, filepath.Base(path))
	}
	report.Pages = len(pages)
	progress(driving.StageLoad, 1, 1)
	logger.Info("Loaded %d pages", report.Pages)

	progress(driving.StageChunk, 0, len(pages))
	chunks := s.chunker.ChunkDocuments(pages)
	report.Chunks = len(chunks)
	progress(driving.StageChunk, len(pages), len(pages))
	logger.Info("Created %d chunks", report.Chunks)
	if len(chunks) == 0 {
		return report, fmt.Errorf("%w: %s produced no chunks", domain.ErrInvalidFormat, filepath.Base(path))
	}

	if err := s.index.EnsureCollection(ctx); err != nil {
		return report, fmt.Errorf("prepare index: %w", err)
	}

	batches := batchChunks(chunks, s.batchSize)
	key := domain.CheckpointKey(pages[0].Metadata.Source, namespace)
	cp := s.resumePoint(ctx, key, fingerprint, len(batches), opts.Resume)
	cp.Namespace = namespace
	report.SkippedBatches = cp.BatchesCommitted
	if cp.BatchesCommitted > 0 {
		logger.Info("Resuming after %d of %d batches (run %s)", cp.BatchesCommitted, len(batches), cp.RunID)
	}

	for i := cp.BatchesCommitted; i < len(batches); i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		batch := batches[i]

		texts := make([]string, len(batch))
		for j, c := range batch {
			texts[j] = c.Content
		}
		embeddings, err := s.embedder.EmbedMany(ctx, texts)
		if err != nil {
			return report, fmt.Errorf("embed batch %d: %w", i+1, err)
		}
		if len(embeddings) != len(batch) {
			return report, fmt.Errorf("%w: embedded %d of %d chunks in batch %d",
				domain.ErrProvider, len(embeddings), len(batch), i+1)
		}
		progress(driving.StageEmbed, i+1, len(batches))

		vectors := make([]domain.IndexedVector, len(batch))
		for j, c := range batch {
			vectors[j] = domain.IndexedVector{ID: c.ID, Values: embeddings[j], Metadata: c.VectorMetadata()}
		}
		result, err := s.index.Upsert(ctx, vectors, namespace)
		if err != nil {
			return report, fmt.Errorf("upsert batch %d: %w", i+1, err)
		}
		report.Batches++
		report.Vectors += result.TotalVectors
		progress(driving.StageUpsert, i+1, len(batches))
		logger.Debug("Batch %d/%d: %d vectors", i+1, len(batches), result.TotalVectors)

		cp.BatchesCommitted = i + 1
		s.saveCheckpoint(ctx, cp)
	}

	cp.Completed = true
	s.saveCheckpoint(ctx, cp)

	stats, err := s.index.Stats(ctx)
	if err != nil {
		logger.Warn("Could not read index stats: %v", err)
	}
	report.Stats = stats
	logger.Info("Uploaded %d vectors in %d batches", report.Vectors, report.Batches)
	return report, nil
}

// Stats reports the vector index totals.
func (s *IndexService) Stats(ctx context.Context) (domain.IndexStats, error) {
	return s.index.Stats(ctx)
}

// DeleteNamespace removes every vector in namespace.
func (s *IndexService) DeleteNamespace(ctx context.Context, namespace string) error {
	if err := s.index.DeleteNamespace(ctx, namespace); err != nil {
		return err
	}
	if s.checkpoints == nil {
		return nil
	}
	// A stale checkpoint would make the next resumed run skip every batch.
	if err := s.checkpoints.DeleteNamespace(ctx, namespace); err != nil {
		return fmt.Errorf("clear checkpoints of %q: %w", namespace, err)
	}
	return nil
}

// resumePoint returns the checkpoint to continue from. A fresh checkpoint is
// returned unless resume is set and the stored run matches the document.
func (s *IndexService) resumePoint(ctx context.Context, key, fingerprint string, total int, resume bool) domain.IndexCheckpoint {
	fresh := domain.IndexCheckpoint{
		Key:          key,
		RunID:        uuid.NewString(),
		Fingerprint:  fingerprint,
		TotalBatches: total,
	}
	if s.checkpoints == nil || !resume {
		return fresh
	}

	stored, err := s.checkpoints.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Could not read checkpoint %s: %v", key, err)
		}
		return fresh
	}
	if stored.Fingerprint != fingerprint || stored.TotalBatches != total {
		logger.Info("Document changed since last run, starting over")
		return fresh
	}
	if stored.Completed {
		stored.BatchesCommitted = total
	}
	return *stored
}

func (s *IndexService) saveCheckpoint(ctx context.Context, cp domain.IndexCheckpoint) {
	if s.checkpoints == nil {
		return
	}
	if err := s.checkpoints.Save(ctx, cp); err != nil {
		logger.Warn("Could not save checkpoint: %v", err)
	}
}

func batchChunks(chunks []domain.Chunk, size int) [][]domain.Chunk {
	batches := make([][]domain.Chunk, 0, (len(chunks)+size-1)/size)
	for start := 0; start < len(chunks); start += size {
		end := min(start+size, len(chunks))
		batches = append(batches, chunks[start:end])
	}
	return batches
}
