package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bull/rag-service/internal/errortypes"
	"github.com/bull/rag-service/internal/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// makeSearchHandler creates the search_documents tool handler.
func makeSearchHandler(querier Querier, timeout time.Duration) func(
	context.Context, *mcp.CallToolRequest, SearchDocumentsInput,
) (*mcp.CallToolResult, SearchDocumentsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchDocumentsInput) (
		*mcp.CallToolResult, SearchDocumentsOutput, error,
	) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		result, err := querier.Query(ctx, input.Query, input.Limit)
		if err != nil {
			if errortypes.IsInvalidArgument(err) {
				return nil, SearchDocumentsOutput{}, errors.New("query is required")
			}
			return nil, SearchDocumentsOutput{}, fmt.Errorf("search failed: %w", err)
		}

		out := SearchDocumentsOutput{
			Query:        result.Query,
			Results:      result.Results,
			TotalResults: result.TotalResults,
		}
		if out.Results == nil {
			out.Results = []search.DocumentResult{}
		}
		if out.TotalResults == 0 {
			out.Message = "No matching documents found. Process documents first or try broader terms."
		}
		return nil, out, nil
	}
}

// makeProcessHandler creates the process_document tool handler.
func makeProcessHandler(ingester Ingester, timeout time.Duration) func(
	context.Context, *mcp.CallToolRequest, ProcessDocumentInput,
) (*mcp.CallToolResult, ProcessDocumentOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ProcessDocumentInput) (
		*mcp.CallToolResult, ProcessDocumentOutput, error,
	) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		docID := strings.TrimSpace(input.DocID)
		result, err := ingester.Ingest(ctx, docID)
		switch {
		case err == nil:
		case errortypes.IsInvalidArgument(err):
			return nil, ProcessDocumentOutput{}, errors.New("doc_id is required")
		case errortypes.IsNotFound(err):
			return nil, ProcessDocumentOutput{}, fmt.Errorf("document %s not found or has no content", docID)
		default:
			return nil, ProcessDocumentOutput{}, fmt.Errorf("processing failed: %w", err)
		}

		return nil, ProcessDocumentOutput{
			DocID:         docID,
			ChunksCreated: result.ChunksCreated,
			ChunksSkipped: result.ChunksSkipped,
		}, nil
	}
}

// makeStatusHandler creates the document_status tool handler.
// A missing document is reported with Found=false rather than as an error.
func makeStatusHandler(docs StatusReader, index ChunkCounter) func(
	context.Context, *mcp.CallToolRequest, DocumentStatusInput,
) (*mcp.CallToolResult, DocumentStatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input DocumentStatusInput) (
		*mcp.CallToolResult, DocumentStatusOutput, error,
	) {
		docID := strings.TrimSpace(input.DocID)
		if docID == "" {
			return nil, DocumentStatusOutput{}, errors.New("doc_id is required")
		}

		title, processed, err := docs.ReadStatus(ctx, docID)
		if err != nil {
			if errortypes.IsNotFound(err) {
				return nil, DocumentStatusOutput{DocID: docID, Found: false}, nil
			}
			return nil, DocumentStatusOutput{}, fmt.Errorf("failed to read document status: %w", err)
		}

		out := DocumentStatusOutput{
			DocID:     docID,
			Found:     true,
			Title:     title,
			Processed: processed,
		}
		if index != nil {
			out.IndexedChunks = index.CountByDoc(docID)
		}
		return nil, out, nil
	}
}
