package domain

import "time"

// IndexCheckpoint records how far an indexing run got.
// Upserts are not transactional, so a failed run leaves the first
// BatchesCommitted batches in the index; a resumed run skips them.
type IndexCheckpoint struct {
	// Key identifies the document and namespace being indexed.
	Key string

	// Namespace is the vector namespace the run wrote to.
	Namespace string

	// RunID identifies the run that last wrote this checkpoint.
	RunID string

	// Fingerprint is the SHA-256 of the PDF contents. A changed file
	// invalidates the checkpoint.
	Fingerprint string

	BatchesCommitted int
	TotalBatches     int
	Completed        bool
	UpdatedAt        time.Time
}

// CheckpointKey builds the key of a document indexed into a namespace.
func CheckpointKey(source, namespace string) string {
	return source + "|" + namespace
}

// IndexReport summarises an indexing run.
type IndexReport struct {
	Pages          int        `json:"pages"`
	Chunks         int        `json:"chunks"`
	Batches        int        `json:"batches"`
	Vectors        int        `json:"vectors"`
	SkippedBatches int        `json:"skipped_batches"`
	Stats          IndexStats `json:"stats"`
}
