// Package section detects which part of the disbursement guide a page covers.
package section

import (
	"strings"

	"github.com/custodia-labs/lpdp-faq/internal/core/ports/driven"
)

// DefaultWindow is the number of leading characters inspected.
const DefaultWindow = 500

// Titles lists the guide's funding sections in match priority order.
var Titles = []string{
	"Dana Pendaftaran",
	"Dana SPP",
	"Dana Tunjangan Buku",
	"Dana Bantuan Penelitian",
	"Dana Bantuan Seminar",
	"Dana Bantuan Publikasi",
	"Dana Transportasi",
	"Dana Aplikasi Visa",
	"Dana Asuransi Kesehatan",
	"Dana Hidup Bulanan",
	"Dana Kedatangan",
	"Dana Tunjangan Keluarga",
	"Insentif Kelulusan",
	"Dana Keadaan Darurat",
	"Dana Pelatihan",
	"Dana Lomba Internasional",
	"Dana Pendamping Disabilitas",
}

var _ driven.SectionClassifier = (*KeywordClassifier)(nil)

// KeywordClassifier returns the first title, in Titles order, that occurs
// case-insensitively within the first DefaultWindow characters of a page.
type KeywordClassifier struct {
	titles []string
	window int
}

// NewKeywordClassifier creates a classifier over Titles.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{titles: Titles, window: DefaultWindow}
}

// Classify returns the matching title, or "" when no title occurs.
func (c *KeywordClassifier) Classify(text string) string {
	head := leading(text, c.window)
	for _, title := range c.titles {
		if strings.Contains(head, strings.ToLower(title)) {
			return title
		}
	}
	return ""
}

// leading returns the lowercased first n characters of text.
func leading(text string, n int) string {
	r := []rune(text)
	if len(r) > n {
		r = r[:n]
	}
	return strings.ToLower(string(r))
}
