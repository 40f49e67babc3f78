package mcp

import (
	"context"
	"time"

	"github.com/bull/rag-service/internal/indexer"
	"github.com/bull/rag-service/internal/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
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

// ChunkCounter reports how many chunks of a document are indexed.
type ChunkCounter interface {
	CountByDoc(docID string) int
}

// Server wraps the MCP server with dependencies.
type Server struct {
	server *mcp.Server
}

// Config holds server dependencies.
type Config struct {
	Ingester  Ingester
	Querier   Querier
	Documents StatusReader
	Index     ChunkCounter
	Version   string
	// Timeout bounds search_documents and process_document calls; zero selects DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout bounds tool calls when Config.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	version := cfg.Version
	if version == "" {
		version = "v0.1.0"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	server := mcp.NewServer(&mcp.Implementation{Name: "rag-service", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Semantic search over indexed documents. Returns documents ranked by the summed similarity of their matching chunks.",
	}, makeSearchHandler(cfg.Querier, timeout))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "process_document",
		Description: "Chunk, embed and index a stored document so it becomes searchable.",
	}, makeProcessHandler(cfg.Ingester, timeout))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "document_status",
		Description: "Report a stored document's title, processed flag and number of indexed chunks.",
	}, makeStatusHandler(cfg.Documents, cfg.Index))

	return &Server{server: server}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
