package pdf

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
)

// Ensure DocumentLoader implements the interface.
var _ driven.DocumentLoader = (*DocumentLoader)(nil)

// DocumentLoader builds a Loader per path with shared options.
type DocumentLoader struct {
	opts []Option
}

// NewDocumentLoader creates a loader applying opts to every file it reads.
func NewDocumentLoader(opts ...Option) *DocumentLoader {
	return &DocumentLoader{opts: opts}
}

// Load reads every non-blank page of the PDF at path.
func (d *DocumentLoader) Load(ctx context.Context, path string) ([]domain.PageDocument, error) {
	l, err := NewLoader(path, d.opts...)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx)
}

// Fingerprint returns the hex SHA-256 of the file.
func (d *DocumentLoader) Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
