// Package sqlite provides a SQLite-based implementation of the indexing
// checkpoint store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Each checkpoint records how many upsert batches of a
// document reached the vector index, so an interrupted run can resume.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.lpdp-faq/data/checkpoints.db
package sqlite
