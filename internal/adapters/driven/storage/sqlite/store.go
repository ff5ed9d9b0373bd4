package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
)

// DatabaseFile is the checkpoint database name inside the data directory.
const DatabaseFile = "checkpoints.db"

// Store is a SQLite-backed checkpoint store.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.CheckpointStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lpdp-faq/data/checkpoints.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lpdp-faq", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_checkpoints.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Get returns the checkpoint for key, or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (*domain.IndexCheckpoint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT key, namespace, run_id, fingerprint, batches_committed, total_batches, completed, updated_at
		FROM index_checkpoints WHERE key = ?
	`, key)

	var (
		cp        domain.IndexCheckpoint
		completed int
		updatedAt string
	)
	err := row.Scan(&cp.Key, &cp.Namespace, &cp.RunID, &cp.Fingerprint, &cp.BatchesCommitted, &cp.TotalBatches, &completed, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: checkpoint %s", domain.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning checkpoint: %w", err)
	}

	cp.Completed = completed != 0
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		cp.UpdatedAt = t
	}
	return &cp, nil
}

// Save creates or replaces the checkpoint for cp.Key.
// An empty RunID is assigned a new one and a zero UpdatedAt is set to now.
func (s *Store) Save(ctx context.Context, cp domain.IndexCheckpoint) error {
	if cp.Key == "" {
		return fmt.Errorf("%w: checkpoint key is required", domain.ErrInvalidInput)
	}
	if cp.RunID == "" {
		cp.RunID = uuid.NewString()
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO index_checkpoints (key, namespace, run_id, fingerprint, batches_committed, total_batches, completed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			namespace = excluded.namespace,
			run_id = excluded.run_id,
			fingerprint = excluded.fingerprint,
			batches_committed = excluded.batches_committed,
			total_batches = excluded.total_batches,
			completed = excluded.completed,
			updated_at = excluded.updated_at
	`, cp.Key, cp.Namespace, cp.RunID, cp.Fingerprint, cp.BatchesCommitted, cp.TotalBatches,
		boolToInt(cp.Completed), cp.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

// Delete removes the checkpoint for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM index_checkpoints WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting checkpoint: %w", err)
	}
	return nil
}

// DeleteNamespace removes every checkpoint recorded for namespace.
func (s *Store) DeleteNamespace(ctx context.Context, namespace string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM index_checkpoints WHERE namespace = ?", namespace); err != nil {
		return fmt.Errorf("deleting checkpoints of namespace %s: %w", namespace, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
