package domain

// DefaultDimension is the embedding dimension of text-embedding-004.
const DefaultDimension = 768

// Metadata field names as stored in the vector index.
const (
	FieldContent    = "content"
	FieldSource     = "source"
	FieldPageNumber = "page_number"
	FieldSection    = "section"
	FieldChunkIndex = "chunk_index"
)

// VectorMetadata is the payload stored next to each vector.
type VectorMetadata struct {
	Content    string `json:"content"`
	Source     string `json:"source"`
	PageNumber int    `json:"page_number"`
	Section    string `json:"section"`
	ChunkIndex int    `json:"chunk_index"`
}

// Field returns the value of a named metadata field.
// Numeric fields are returned as float64 so filters compare uniformly.
func (m VectorMetadata) Field(name string) (any, bool) {
	switch name {
	case FieldContent:
		return m.Content, true
	case FieldSource:
		return m.Source, true
	case FieldPageNumber:
		return float64(m.PageNumber), true
	case FieldSection:
		return m.Section, true
	case FieldChunkIndex:
		return float64(m.ChunkIndex), true
	default:
		return nil, false
	}
}

// Map returns the metadata as a flat map, the shape remote indexes store.
func (m VectorMetadata) Map() map[string]any {
	return map[string]any{
		FieldContent:    m.Content,
		FieldSource:     m.Source,
		FieldPageNumber: m.PageNumber,
		FieldSection:    m.Section,
		FieldChunkIndex: m.ChunkIndex,
	}
}

// IndexedVector is a chunk embedding ready to be upserted.
// ID equals the chunk id; re-upserting the same id overwrites the entry.
type IndexedVector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata VectorMetadata `json:"metadata"`
}

// RetrievedMatch is a search hit. Higher scores are more similar.
type RetrievedMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Content  string         `json:"content"`
	Metadata VectorMetadata `json:"metadata"`
}

// VectorQuery describes a nearest-neighbour search.
type VectorQuery struct {
	Vector          []float32
	TopK            int
	Namespace       string
	Filter          Filter
	IncludeMetadata bool
}

// UpsertResult reports how many remote writes an upsert performed.
type UpsertResult struct {
	Batches      int `json:"batches"`
	TotalVectors int `json:"total_vectors"`
}

// IndexStats summarises the contents of a vector index.
type IndexStats struct {
	Dimension        int            `json:"dimension"`
	TotalVectorCount int            `json:"total_vector_count"`
	Namespaces       map[string]int `json:"namespaces"`
}
