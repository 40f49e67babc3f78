// Package mcp exposes document ingestion, search and status as MCP tools.
package mcp

import "github.com/bull/rag-service/internal/search"

// SearchDocumentsInput defines the input parameters for the search_documents tool.
type SearchDocumentsInput struct {
	Query string `json:"query" jsonschema:"natural-language query to rank documents against"`
	// Limit bounds the chunk hits considered before grouping by document.
	Limit int `json:"limit,omitempty" jsonschema:"maximum chunk hits to consider (default 5)"`
}

// SearchDocumentsOutput contains the ranked documents.
type SearchDocumentsOutput struct {
	Query        string                  `json:"query"`
	Results      []search.DocumentResult `json:"results"`
	TotalResults int                     `json:"total_results"`
	// Message is set when nothing matched.
	Message string `json:"message,omitempty"`
}

// ProcessDocumentInput defines the input parameters for the process_document tool.
type ProcessDocumentInput struct {
	DocID string `json:"doc_id" jsonschema:"id of the stored document to chunk, embed and index"`
}

// ProcessDocumentOutput reports the outcome of an ingestion.
type ProcessDocumentOutput struct {
	DocID         string `json:"doc_id"`
	ChunksCreated int    `json:"chunks_created"`
	ChunksSkipped int    `json:"chunks_skipped"`
}

// DocumentStatusInput defines the input parameters for the document_status tool.
type DocumentStatusInput struct {
	DocID string `json:"doc_id" jsonschema:"id of the stored document"`
}

// DocumentStatusOutput describes a stored document and its presence in the index.
type DocumentStatusOutput struct {
	DocID     string `json:"doc_id"`
	Found     bool   `json:"found"`
	Title     string `json:"title,omitempty"`
	Processed bool   `json:"processed"`
	// IndexedChunks counts chunks of this document held by the running index.
	IndexedChunks int `json:"indexed_chunks"`
}
