package domain

// PageMetadata describes where a page came from.
type PageMetadata struct {
	// Source is the file name of the PDF, without directories.
	Source string `json:"source"`

	// PageNumber is 1-based.
	PageNumber int `json:"page_number"`

	// Section is the detected guide section, or empty.
	Section string `json:"section,omitempty"`

	// TotalPages is the page count of the whole PDF, blank pages included.
	TotalPages int `json:"total_pages"`
}

// PageDocument is the cleaned text of one non-blank page.
// Content never contains blank lines and lines carry no surrounding whitespace.
type PageDocument struct {
	Content  string       `json:"content"`
	Metadata PageMetadata `json:"metadata"`
}
