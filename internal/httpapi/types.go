// Package httpapi exposes ingestion, search and status over JSON/HTTP.
package httpapi

import "github.com/bull/rag-service/internal/search"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Provider  string `json:"provider"`
	Chunks    int    `json:"chunks"`
	Timestamp string `json:"timestamp"`
}

// ProcessRequest is the body of POST /process. DocID may be a JSON number or string.
type ProcessRequest struct {
	DocID any `json:"doc_id"`
}

// ProcessResponse is the success body of POST /process.
type ProcessResponse struct {
	Success       bool `json:"success"`
	DocID         any  `json:"doc_id"`
	ChunksCreated int  `json:"chunks_created"`
	ChunksSkipped int  `json:"chunks_skipped,omitempty"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

// SearchResponse is the success body of POST /search.
type SearchResponse = search.Result

// StatusResponse is the body of GET /status/{doc_id}.
type StatusResponse struct {
	DocID     string `json:"doc_id"`
	Title     string `json:"title"`
	Processed bool   `json:"processed"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
