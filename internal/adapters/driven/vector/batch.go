// Package vector holds helpers shared by the vector index adapters.
package vector

import (
	"fmt"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
)

// Batches splits vectors into consecutive batches of at most size entries.
// Non-positive sizes use driven.DefaultBatchSize.
func Batches(vectors []domain.IndexedVector, size int) [][]domain.IndexedVector {
	if size <= 0 {
		size = driven.DefaultBatchSize
	}
	batches := make([][]domain.IndexedVector, 0, (len(vectors)+size-1)/size)
	for start := 0; start < len(vectors); start += size {
		end := min(start+size, len(vectors))
		batches = append(batches, vectors[start:end])
	}
	return batches
}

// CheckDimensions rejects any vector whose length is not dim.
func CheckDimensions(vectors []domain.IndexedVector, dim int) error {
	for _, v := range vectors {
		if len(v.Values) != dim {
			return fmt.Errorf("%w: %w: vector %s has %d values, index has %d",
				domain.ErrInvalidInput, domain.ErrDimensionMismatch, v.ID, len(v.Values), dim)
		}
	}
	return nil
}

// UpsertError reports a failed batch and how much was committed before it.
type UpsertError struct {
	// Batch is the 1-based number of the batch that failed.
	Batch int

	// Committed describes the batches written before the failure.
	Committed domain.UpsertResult

	Err error
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("upsert batch %d failed after %d committed batches (%d vectors): %v",
		e.Batch, e.Committed.Batches, e.Committed.TotalVectors, e.Err)
}

func (e *UpsertError) Unwrap() error {
	return e.Err
}

// UpsertBatches writes vectors batch by batch with write, stopping at the
// first failure. Batches already written stay written.
func UpsertBatches(vectors []domain.IndexedVector, size int,
	write func(batch []domain.IndexedVector) error) (domain.UpsertResult, error) {
	var result domain.UpsertResult
	for i, batch := range Batches(vectors, size) {
		if err := write(batch); err != nil {
			return result, &UpsertError{Batch: i + 1, Committed: result, Err: err}
		}
		result.Batches++
		result.TotalVectors += len(batch)
	}
	return result, nil
}
