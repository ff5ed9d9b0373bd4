package domain

import "math"

// Source attributes part of an answer to a page and section of the guide.
type Source struct {
	Page      int     `json:"page"`
	Section   string  `json:"section"`
	Relevance float64 `json:"relevance"`
}

// QueryResult is the outcome of answering one question.
type QueryResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Context string   `json:"context,omitempty"`
}

// SourceFromMatch converts a match to a source, rounding the score to
// three decimals.
func SourceFromMatch(m RetrievedMatch) Source {
	return Source{
		Page:      m.Metadata.PageNumber,
		Section:   m.Metadata.Section,
		Relevance: math.Round(m.Score*1000) / 1000,
	}
}

// SourcesFromMatches converts matches to sources in order, dropping
// entries equal to one already seen. The result is never nil.
func SourcesFromMatches(matches []RetrievedMatch) []Source {
	sources := make([]Source, 0, len(matches))
	seen := make(map[Source]struct{}, len(matches))
	for _, m := range matches {
		s := SourceFromMatch(m)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		sources = append(sources, s)
	}
	return sources
}

// ToolAnswer is the outcome of one assistant tool call.
type ToolAnswer struct {
	// Subject is the argument the tool was called with.
	Subject string `json:"subject"`

	// Text is the generated answer.
	Text string `json:"text"`

	Sources []Source `json:"sources"`
}
