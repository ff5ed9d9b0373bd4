package domain

import "errors"

// Domain errors represent business logic failures.
// Adapters wrap them with fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	// ErrNotFound indicates a requested file or entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidFormat indicates a file exists but is not a PDF.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidInput indicates malformed or invalid input, such as a blank
	// question or a chunk overlap that is not smaller than the chunk size.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates a required credential or setting is missing.
	// It is raised at construction time, before any remote call is made.
	ErrConfiguration = errors.New("configuration error")

	// ErrProvider indicates a remote embedding, generation or vector index
	// call failed. It is never retried.
	ErrProvider = errors.New("provider error")

	// ErrMissingDependency indicates a service was constructed without one
	// of its required collaborators.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrDimensionMismatch indicates a vector does not have the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
