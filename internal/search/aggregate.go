// Package search answers similarity queries and groups chunk hits by document.
package search

import (
	"sort"

	"github.com/bull/rag-service/internal/vectorindex"
)

// ChunkMatch is one chunk hit rendered inside a DocumentResult.
type ChunkMatch struct {
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	ChunkIndex int     `json:"chunk_index"`
}

// DocumentResult groups the hits of one document.
type DocumentResult struct {
	DocID      string       `json:"doc_id"`
	Chunks     []ChunkMatch `json:"chunks"`
	TotalScore float64      `json:"total_score"`
}

// Aggregate groups hits by document, keeping each document's chunks in the
// order they were encountered, and sorts documents by summed score, highest
// first. Ties keep the order in which each document was first seen.
func Aggregate(hits []vectorindex.Hit) []DocumentResult {
	results := make([]DocumentResult, 0)
	position := make(map[string]int)

	for _, hit := range hits {
		i, seen := position[hit.DocID]
		if !seen {
			i = len(results)
			position[hit.DocID] = i
			results = append(results, DocumentResult{DocID: hit.DocID, Chunks: []ChunkMatch{}})
		}
		results[i].Chunks = append(results[i].Chunks, ChunkMatch{
			Content:    hit.Content,
			Score:      hit.Score,
			ChunkIndex: hit.ChunkIndex,
		})
		results[i].TotalScore += hit.Score
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})
	return results
}
