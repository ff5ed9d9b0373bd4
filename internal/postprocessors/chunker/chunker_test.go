package chunker

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lpdp-faq/internal/core/domain"
)

// words returns n distinct words joined by single spaces.
func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("kata%03d", i)
	}
	return strings.Join(parts, " ")
}

// guideText builds multi-line text with sentences, no repeated words.
func guideText() string {
	var b strings.Builder
	for line := 0; line < 12; line++ {
		for sentence := 0; sentence < 5; sentence++ {
			for w := 0; w < 10; w++ {
				fmt.Fprintf(&b, "w%d_%d_%d", line, sentence, w)
				if w < 9 {
					b.WriteString(" ")
				}
			}
			b.WriteString(". ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// assertContiguous checks that chunks appear in text in order, that no text
// other than whitespace falls between them, and that nothing is lost at the
// start or end.
func assertContiguous(t *testing.T, text string, chunks []string) {
	t.Helper()
	prevStart, prevEnd := -1, 0
	for i, c := range chunks {
		idx := strings.Index(text[prevStart+1:], c)
		require.GreaterOrEqual(t, idx, 0, "chunk %d not found after previous chunk", i)
		start := prevStart + 1 + idx
		if start > prevEnd {
			require.Empty(t, strings.TrimSpace(text[prevEnd:start]), "gap before chunk %d", i)
		}
		prevStart = start
		if end := start + len(c); end > prevEnd {
			prevEnd = end
		}
	}
	require.Empty(t, strings.TrimSpace(text[prevEnd:]), "text lost after last chunk")
}

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)
		assert.Equal(t, DefaultChunkSize, c.ChunkSize())
		assert.Equal(t, DefaultChunkOverlap, c.Overlap())
	})

	t.Run("custom values", func(t *testing.T) {
		c, err := New(WithChunkSize(500), WithOverlap(50))
		require.NoError(t, err)
		assert.Equal(t, 500, c.ChunkSize())
		assert.Equal(t, 50, c.Overlap())
	})

	t.Run("overlap equal to size rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(100))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("overlap above size rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(150))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("negative overlap rejected", func(t *testing.T) {
		_, err := New(WithOverlap(-1))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("zero size rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(0), WithOverlap(0))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSplit_ShortText(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	chunks := c.Split("  Dana SPP dibayarkan langsung ke universitas.  ")

	assert.Equal(t, []string{"Dana SPP dibayarkan langsung ke universitas."}, chunks)
}

func TestSplit_BlankText(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split(" \n\n \t"))
}

func TestSplit_PrefersParagraphs(t *testing.T) {
	c, err := New(WithChunkSize(5), WithOverlap(0))
	require.NoError(t, err)

	assert.Equal(t, []string{"aaa", "bbb"}, c.Split("aaa\n\nbbb"))
}

func TestSplit_RespectsChunkSize(t *testing.T) {
	c, err := New(WithChunkSize(200), WithOverlap(50))
	require.NoError(t, err)

	chunks := c.Split(guideText())

	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 200, "chunk %d too long", i)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestSplit_Contiguous(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
	}{
		{"words only", words(300), 120, 30},
		{"lines and sentences", guideText(), 200, 50},
		{"no overlap", guideText(), 150, 0},
		{"default sizes", guideText(), DefaultChunkSize, DefaultChunkOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(WithChunkSize(tt.size), WithOverlap(tt.overlap))
			require.NoError(t, err)

			assertContiguous(t, tt.text, c.Split(tt.text))
		})
	}
}

func TestSplit_OverlapFromPreviousTail(t *testing.T) {
	c, err := New(WithChunkSize(60), WithOverlap(20))
	require.NoError(t, err)

	chunks := c.Split(words(100))

	require.Greater(t, len(chunks), 2)
	for i := 1; i < len(chunks); i++ {
		first := strings.Fields(chunks[i])[0]
		assert.Contains(t, chunks[i-1], first, "chunk %d should start inside chunk %d", i, i-1)
	}
}

func TestSplit_CountsCharactersNotBytes(t *testing.T) {
	c, err := New(WithChunkSize(10), WithOverlap(0))
	require.NoError(t, err)

	chunks := c.Split(strings.Repeat("é", 20))

	require.Len(t, chunks, 2)
	assert.Equal(t, 10, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, 10, utf8.RuneCountInString(chunks[1]))
}

func TestChunkText_Metadata(t *testing.T) {
	c, err := New(WithChunkSize(60), WithOverlap(10))
	require.NoError(t, err)
	base := domain.PageMetadata{Source: "guide.pdf", PageNumber: 7, Section: "Dana SPP", TotalPages: 80}

	chunks := c.ChunkText(words(40), base)

	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.Equal(t, fmt.Sprintf("guide.pdf_p7_c%d", i), chunk.ID)
		assert.Equal(t, i, chunk.Metadata.ChunkIndex)
		assert.Equal(t, len(chunks), chunk.Metadata.TotalChunks)
		assert.Equal(t, base, chunk.Metadata.PageMetadata)
	}
}

func TestChunkText_UnknownSource(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	chunks := c.ChunkText("isi halaman", domain.PageMetadata{})

	require.Len(t, chunks, 1)
	assert.Equal(t, "unknown_p0_c0", chunks[0].ID)
}

func TestChunkDocuments_GlobalIndex(t *testing.T) {
	c, err := New(WithChunkSize(80), WithOverlap(10))
	require.NoError(t, err)

	pages := []domain.PageDocument{
		{Content: words(30), Metadata: domain.PageMetadata{Source: "guide.pdf", PageNumber: 1}},
		{Content: "halaman pendek", Metadata: domain.PageMetadata{Source: "guide.pdf", PageNumber: 3}},
		{Content: words(25), Metadata: domain.PageMetadata{Source: "guide.pdf", PageNumber: 4}},
	}

	chunks := c.ChunkDocuments(pages)

	ids := make(map[string]struct{}, len(chunks))
	lastPage := 0
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Metadata.GlobalChunkIndex)
		assert.GreaterOrEqual(t, chunk.Metadata.PageNumber, lastPage)
		lastPage = chunk.Metadata.PageNumber
		ids[chunk.ID] = struct{}{}
	}
	assert.Len(t, ids, len(chunks), "chunk ids must be unique")
	assert.Contains(t, ids, "guide.pdf_p3_c0")
}

func TestChunkDocuments_Empty(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	assert.Empty(t, c.ChunkDocuments(nil))
}

func TestWithSeparators_AppendsCharacterFallback(t *testing.T) {
	c, err := New(WithChunkSize(4), WithOverlap(0), WithSeparators("|"))
	require.NoError(t, err)

	assert.Equal(t, "", c.separators[len(c.separators)-1])
	assert.Equal(t, []string{"ab|", "cdef", "gh"}, c.Split("ab|cdefgh"))
}
