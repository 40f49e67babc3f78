package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bull/rag-service/internal/errortypes"
	"github.com/bull/rag-service/internal/vectorindex"
)

// Embedder produces the query embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher ranks stored chunks against a query embedding.
type Searcher interface {
	Search(query []float32, limit int) []vectorindex.Hit
}

// Result is the answer to a query.
type Result struct {
	Query        string           `json:"query"`
	Results      []DocumentResult `json:"results"`
	TotalResults int              `json:"total_results"`
}

// Service runs the query pipeline: embed, search, aggregate.
type Service struct {
	embedder Embedder
	index    Searcher
	logger   *slog.Logger
}

// NewService creates a query service.
func NewService(embedder Embedder, index Searcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{embedder: embedder, index: index, logger: logger}
}

// Query ranks documents for text. limit bounds the number of chunks taken from
// the index (<= 0 selects the default of 5; larger values are honored as given),
// which in turn bounds how many documents can appear.
func (s *Service) Query(ctx context.Context, text string, limit int) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: query required", errortypes.ErrInvalidArgument)
	}
	limit = effectiveLimit(limit)

	result := &Result{Query: text, Results: []DocumentResult{}}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("Query embedding failed, returning no results", "error", err)
		return result, nil
	}

	hits := s.index.Search(embedding, limit)
	result.Results = Aggregate(hits)
	result.TotalResults = len(result.Results)

	s.logger.Debug("Query answered", "chunks", len(hits), "documents", result.TotalResults, "limit", limit)
	return result, nil
}

func effectiveLimit(limit int) int {
	if limit <= 0 {
		return vectorindex.DefaultLimit
	}
	return limit
}
