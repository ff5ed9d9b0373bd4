package domain

import "fmt"

// UnknownSource is used in chunk ids when a page has no source name.
const UnknownSource = "unknown"

// ChunkMetadata extends the page metadata with the chunk's position.
type ChunkMetadata struct {
	PageMetadata

	// ChunkIndex is the 0-based position of the chunk within its page.
	ChunkIndex int `json:"chunk_index"`

	// TotalChunks is the number of chunks cut from the same page.
	TotalChunks int `json:"total_chunks"`

	// GlobalChunkIndex is the 0-based position across the whole corpus.
	GlobalChunkIndex int `json:"global_chunk_index"`
}

// Chunk is a retrievable passage of a page.
type Chunk struct {
	ID       string        `json:"chunk_id"`
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkID builds the stable identifier of a chunk, "<source>_p<page>_c<index>".
// An empty source becomes UnknownSource.
func ChunkID(source string, page, index int) string {
	if source == "" {
		source = UnknownSource
	}
	return fmt.Sprintf("%s_p%d_c%d", source, page, index)
}

// VectorMetadata returns the subset of metadata stored alongside the vector.
func (c Chunk) VectorMetadata() VectorMetadata {
	return VectorMetadata{
		Content:    c.Content,
		Source:     c.Metadata.Source,
		PageNumber: c.Metadata.PageNumber,
		Section:    c.Metadata.Section,
		ChunkIndex: c.Metadata.ChunkIndex,
	}
}
