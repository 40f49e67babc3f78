// Package vectorindex is an in-memory, process-lifetime store of chunk
// embeddings searched by exact cosine similarity.
package vectorindex

import (
	"fmt"
	"sort"
	"sync"
)

type entry struct {
	id        string
	embedding []float32
	meta      Metadata
}

// Index maps chunk identity to embedding and metadata. Entries keep the
// position of their first insertion, so equal scores rank in insertion order.
// All methods are safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	entries []entry
	byID    map[string]int
}

// New creates an empty index.
func New() *Index {
	return &Index{byID: make(map[string]int)}
}

// Insert upserts a chunk. A later insert with the same id replaces the
// embedding and metadata in place. The embedding is copied.
func (x *Index) Insert(chunkID string, embedding []float32, meta Metadata) error {
	if chunkID == "" {
		return ErrInvalidChunkID
	}
	if len(embedding) == 0 {
		return fmt.Errorf("%w: chunk %s", ErrEmptyEmbedding, chunkID)
	}

	e := entry{
		id:        chunkID,
		embedding: append([]float32(nil), embedding...),
		meta:      meta,
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if i, ok := x.byID[chunkID]; ok {
		x.entries[i] = e
		return nil
	}
	x.byID[chunkID] = len(x.entries)
	x.entries = append(x.entries, e)
	return nil
}

// Search scans every stored embedding and returns at most limit hits with a
// positive score, ordered by descending score. limit <= 0 selects DefaultLimit.
func (x *Index) Search(query []float32, limit int) []Hit {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(query) == 0 {
		return []Hit{}
	}

	x.mu.RLock()
	hits := make([]Hit, 0, min(len(x.entries), 64))
	for _, e := range x.entries {
		score := CosineSimilarity(query, e.embedding)
		if score <= 0 {
			continue
		}
		hits = append(hits, Hit{
			ChunkID:    e.id,
			Content:    e.meta.Content,
			DocID:      e.meta.DocID,
			ChunkIndex: e.meta.ChunkIndex,
			Score:      score,
		})
	}
	x.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Len returns the number of stored chunks.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// CountByDoc returns the number of stored chunks belonging to docID.
func (x *Index) CountByDoc(docID string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	n := 0
	for _, e := range x.entries {
		if e.meta.DocID == docID {
			n++
		}
	}
	return n
}

// Get returns a copy of the stored embedding and metadata for a chunk.
func (x *Index) Get(chunkID string) ([]float32, Metadata, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	i, ok := x.byID[chunkID]
	if !ok {
		return nil, Metadata{}, false
	}
	e := x.entries[i]
	return append([]float32(nil), e.embedding...), e.meta, true
}
