package vectorindex

import "fmt"

// Metadata describes the chunk an embedding was computed for.
type Metadata struct {
	Content    string // Chunk text
	DocID      string // Parent document id
	ChunkIndex int    // Position in document (0, 1, 2...)
}

// Hit is a chunk matched by Search.
type Hit struct {
	ChunkID    string  `json:"chunk_id"`
	Content    string  `json:"content"`
	DocID      string  `json:"doc_id"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
}

// DefaultLimit is the number of hits returned when the caller passes limit <= 0.
const DefaultLimit = 5

// ChunkID derives the identity of a chunk: "{doc_id}_chunk_{index}".
func ChunkID(docID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", docID, index)
}
