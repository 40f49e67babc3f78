package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bull/rag-service/internal/indexer"
	"github.com/bull/rag-service/internal/search"
)

// Ingester runs the ingestion pipeline for one document.
type Ingester interface {
	Ingest(ctx context.Context, docID string) (*indexer.IngestResult, error)
}

// Querier runs the query pipeline.
type Querier interface {
	Query(ctx context.Context, text string, limit int) (*search.Result, error)
}

// StatusReader reads a document's title and processed flag.
type StatusReader interface {
	ReadStatus(ctx context.Context, id string) (string, bool, error)
}

// IndexStats reports the size of the vector index.
type IndexStats interface {
	Len() int
}

// DefaultRequestTimeout bounds /process and /search when Config.Timeout is zero.
const DefaultRequestTimeout = 60 * time.Second

// Config holds server dependencies.
type Config struct {
	Ingester  Ingester
	Querier   Querier
	Documents StatusReader
	Index     IndexStats
	// Provider names the primary embedding strategy, reported by /health.
	Provider string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Server serves the JSON API.
type Server struct {
	ingester  Ingester
	querier   Querier
	documents StatusReader
	index     IndexStats
	provider  string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewServer creates the API server.
func NewServer(cfg *Config) *Server {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		ingester:  cfg.Ingester,
		querier:   cfg.Querier,
		documents: cfg.Documents,
		index:     cfg.Index,
		provider:  cfg.Provider,
		timeout:   timeout,
		logger:    logger,
	}
}

// Register mounts the API routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /process", s.handleProcess)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("GET /status/{doc_id}", s.handleStatus)
}

// Handler returns the API routes wrapped in request logging and panic recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return WithRequestLogging(s.logger, mux)
}
