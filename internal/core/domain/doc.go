// Package domain defines the core entities of the LPDP disbursement-guide
// question answering service.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - PageDocument: The cleaned text of one non-blank PDF page
//   - Chunk: A retrievable passage cut from a page
//   - IndexedVector: A chunk's embedding plus the metadata stored with it
//   - RetrievedMatch: A search hit returned by the vector index
//   - QueryResult: A generated answer with its attributed sources
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
