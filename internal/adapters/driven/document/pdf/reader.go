package pdf

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
)

var _ driven.PageReader = (*fileReader)(nil)

// fileReader extracts page text with github.com/ledongthuc/pdf.
type fileReader struct {
	file   *os.File
	reader *lpdf.Reader
}

// Open opens a PDF file for page-by-page text extraction.
// The parser panics on some malformed files; that is reported as an error.
func Open(path string) (pr driven.PageReader, err error) {
	defer func() {
		if r := recover(); r != nil {
			pr, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &fileReader{file: f, reader: r}, nil
}

func (fr *fileReader) NumPages() int {
	return fr.reader.NumPage()
}

// PageText returns the page's text one visual row per line, top to bottom.
// Pages without content return "".
func (fr *fileReader) PageText(n int) (string, error) {
	page := fr.reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(joinRow(row.Content))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// wordGap is the horizontal gap, as a fraction of the font size, above which
// two runs on a row are separate words.
const wordGap = 0.15

// joinRow concatenates the text runs of one row. Many PDFs position words
// without emitting a space glyph, so a space is inserted wherever the next
// run starts clearly after the previous one ends.
func joinRow(runs []lpdf.Text) string {
	var b strings.Builder
	for i, run := range runs {
		if i > 0 && needsSpace(runs[i-1], run) {
			b.WriteByte(' ')
		}
		b.WriteString(run.S)
	}
	return b.String()
}

func needsSpace(prev, next lpdf.Text) bool {
	if prev.S == "" || next.S == "" {
		return false
	}
	if endsWithSpace(prev.S) || startsWithSpace(next.S) {
		return false
	}
	size := max(prev.FontSize, next.FontSize)
	if size <= 0 {
		size = 1
	}
	return next.X-(prev.X+prev.W) > wordGap*size
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func (fr *fileReader) Close() error {
	return fr.file.Close()
}
