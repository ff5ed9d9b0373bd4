// Package pdf loads the disbursement guide page by page.
package pdf

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/lpdp-faq/internal/adapters/driven/section"
	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
	"github.com/custodia-labs/lpdp-faq/internal/logger"
)

// Loader turns a PDF into cleaned, section-tagged page documents.
type Loader struct {
	path       string
	opener     driven.PageOpener
	classifier driven.SectionClassifier
}

// Option configures a Loader.
type Option func(*Loader)

// WithOpener replaces the PDF reader.
func WithOpener(o driven.PageOpener) Option {
	return func(l *Loader) {
		if o != nil {
			l.opener = o
		}
	}
}

// WithClassifier replaces the section classifier.
func WithClassifier(c driven.SectionClassifier) Option {
	return func(l *Loader) {
		if c != nil {
			l.classifier = c
		}
	}
}

// NewLoader checks that path names an existing .pdf file (any case).
func NewLoader(path string, opts ...Option) (*Loader, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidFormat, path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("%w: %s is not a PDF", domain.ErrInvalidFormat, path)
	}

	l := &Loader{
		path:       path,
		opener:     driven.PageOpenerFunc(Open),
		classifier: section.NewKeywordClassifier(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the file being loaded.
func (l *Loader) Path() string {
	return l.path
}

// Source returns the file name recorded in page metadata.
func (l *Loader) Source() string {
	return filepath.Base(l.path)
}

// Pages returns a lazy sequence of the non-blank pages in page order.
// The file is opened when iteration starts and each page is read only when
// the consumer asks for it. Iteration stops after the first error.
func (l *Loader) Pages(ctx context.Context) iter.Seq2[domain.PageDocument, error] {
	return func(yield func(domain.PageDocument, error) bool) {
		reader, err := l.opener.Open(l.path)
		if err != nil {
			yield(domain.PageDocument{}, fmt.Errorf("%w: open %s: %w", domain.ErrInvalidFormat, l.path, err))
			return
		}
		defer reader.Close()

		total := reader.NumPages()
		source := l.Source()
		logger.Debug("Loading %s: %d pages", source, total)

		for n := 1; n <= total; n++ {
			if err := ctx.Err(); err != nil {
				yield(domain.PageDocument{}, err)
				return
			}

			raw, err := reader.PageText(n)
			if err != nil {
				yield(domain.PageDocument{}, fmt.Errorf("read page %d of %s: %w", n, source, err))
				return
			}

			content := CleanText(raw)
			if content == "" {
				logger.Debug("Skipping blank page %d", n)
				continue
			}

			doc := domain.PageDocument{
				Content: content,
				Metadata: domain.PageMetadata{
					Source:     source,
					PageNumber: n,
					Section:    l.classifier.Classify(content),
					TotalPages: total,
				},
			}
			if !yield(doc, nil) {
				return
			}
		}
	}
}

// Load reads every non-blank page.
func (l *Loader) Load(ctx context.Context) ([]domain.PageDocument, error) {
	var pages []domain.PageDocument
	for page, err := range l.Pages(ctx) {
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// FullText returns the content of every non-blank page separated by a blank line.
func (l *Loader) FullText(ctx context.Context) (string, error) {
	pages, err := l.Load(ctx)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = p.Content
	}
	return strings.Join(parts, "\n\n"), nil
}

// CleanText trims every line and drops blank ones, keeping line order.
func CleanText(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
