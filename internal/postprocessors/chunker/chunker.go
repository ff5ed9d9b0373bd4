// Package chunker splits page text into overlapping, retrievable passages.
//
// Text is split recursively: the coarsest separator present in the text is
// tried first (paragraphs, then lines, then sentences, then words, then single
// characters) and only pieces still longer than the chunk size are split
// further. Adjacent pieces are then merged into windows of at most the chunk
// size, each starting with up to the overlap taken from the tail of the
// previous window. Lengths are counted in characters, not bytes.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DefaultSeparators are tried in order, coarsest first. The empty separator
// splits into single characters and always applies.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker splits text into overlapping chunks.
type Chunker struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// WithSeparators replaces the separator hierarchy. The empty separator is
// appended when missing so that every piece can be cut down to size.
func WithSeparators(separators ...string) Option {
	return func(c *Chunker) {
		if len(separators) == 0 {
			return
		}
		seps := append([]string(nil), separators...)
		if seps[len(seps)-1] != "" {
			seps = append(seps, "")
		}
		c.separators = seps
	}
}

// New creates a chunker. The chunk size must be positive and the overlap must
// be non-negative and smaller than the chunk size.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, c.chunkSize)
	}
	if c.overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", domain.ErrInvalidInput, c.overlap)
	}
	if c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidInput, c.overlap, c.chunkSize)
	}

	return c, nil
}

// ChunkSize returns the configured chunk size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split returns the chunk texts of text, trimmed, with blank chunks dropped.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	windows := c.split(text, c.separators)
	out := make([]string, 0, len(windows))
	for _, w := range windows {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// ChunkText splits text and attaches base plus the chunk's position.
// Chunk ids follow domain.ChunkID.
func (c *Chunker) ChunkText(text string, base domain.PageMetadata) []domain.Chunk {
	parts := c.Split(text)
	chunks := make([]domain.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = domain.Chunk{
			ID:      domain.ChunkID(base.Source, base.PageNumber, i),
			Content: part,
			Metadata: domain.ChunkMetadata{
				PageMetadata: base,
				ChunkIndex:   i,
				TotalChunks:  len(parts),
			},
		}
	}
	return chunks
}

// ChunkDocuments chunks every page independently, so no chunk spans a page
// boundary, then numbers all chunks with a dense global index.
func (c *Chunker) ChunkDocuments(pages []domain.PageDocument) []domain.Chunk {
	var all []domain.Chunk
	for _, page := range pages {
		all = append(all, c.ChunkText(page.Content, page.Metadata)...)
	}
	for i := range all {
		all[i].Metadata.GlobalChunkIndex = i
	}
	return all
}

func (c *Chunker) split(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var rest []string
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			sep = s
			rest = separators[i+1:]
			break
		}
	}

	var out, fitting []string
	for _, piece := range splitKeep(text, sep) {
		if runeLen(piece) <= c.chunkSize {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			out = append(out, c.merge(fitting)...)
			fitting = nil
		}
		if len(rest) == 0 {
			out = append(out, piece)
		} else {
			out = append(out, c.split(piece, rest)...)
		}
	}
	if len(fitting) > 0 {
		out = append(out, c.merge(fitting)...)
	}
	return out
}

// merge packs pieces into windows of at most chunkSize characters. When a
// window is emitted, pieces are dropped from its front until what remains
// fits in the overlap and leaves room for the next piece.
func (c *Chunker) merge(pieces []string) []string {
	var (
		windows []string
		current []string
		total   int
	)

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > c.chunkSize && len(current) > 0 {
			windows = append(windows, strings.Join(current, ""))
			for total > c.overlap || (total+n > c.chunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}

	if len(current) > 0 {
		windows = append(windows, strings.Join(current, ""))
	}
	return windows
}

// splitKeep splits text after each occurrence of sep, keeping sep at the end
// of the preceding piece so that the pieces concatenate back to text.
func splitKeep(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	pieces := strings.SplitAfter(text, sep)
	if len(pieces) > 0 && pieces[len(pieces)-1] == "" {
		pieces = pieces[:len(pieces)-1]
	}
	return pieces
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
