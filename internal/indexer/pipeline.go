package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bull/rag-service/internal/chunker"
	"github.com/bull/rag-service/internal/docstore"
	"github.com/bull/rag-service/internal/errortypes"
	"github.com/bull/rag-service/internal/vectorindex"
)

// DocumentStore is the slice of the document store the pipeline needs.
type DocumentStore interface {
	Get(ctx context.Context, id string) (*docstore.Document, error)
	WriteStatus(ctx context.Context, id string, processed bool) error
}

// Embedder produces chunk embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index receives chunk embeddings.
type Index interface {
	Insert(chunkID string, embedding []float32, meta vectorindex.Metadata) error
}

// IngestResult describes one ingested document.
type IngestResult struct {
	DocID         string
	ChunksCreated int // chunks inserted into the index
	ChunksSkipped int // chunks whose embedding or insert failed
	Duration      time.Duration
}

// IndexResult contains statistics about a multi-document ingestion.
type IndexResult struct {
	TotalDocs      int
	TotalChunks    int
	SuccessfulDocs int
	FailedDocs     []FailedDoc
	Duration       time.Duration
}

// FailedDoc represents a document that failed to index.
type FailedDoc struct {
	DocID  string
	Reason string
}

// Pipeline orchestrates ingestion: fetch, normalize, chunk, embed, insert, mark processed.
type Pipeline struct {
	store    DocumentStore
	chunker  *chunker.Chunker
	embedder Embedder
	index    Index
	logger   *slog.Logger
	locks    *keyedMutex
}

// NewPipeline creates a new ingestion pipeline with the given components.
func NewPipeline(
	store DocumentStore,
	chunker *chunker.Chunker,
	embedder Embedder,
	index Index,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:    store,
		chunker:  chunker,
		embedder: embedder,
		index:    index,
		logger:   logger,
		locks:    newKeyedMutex(),
	}
}

// Ingest indexes one document. Ingestions of the same document are serialized;
// different documents proceed concurrently. Chunks whose embedding cannot be
// produced are logged and left out; the document still counts as processed.
// A done context aborts the run without marking the document processed; chunks
// inserted before that point keep the dimension of the strategy that made them.
func (p *Pipeline) Ingest(ctx context.Context, docID string) (*IngestResult, error) {
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return nil, fmt.Errorf("%w: document ID required", errortypes.ErrInvalidArgument)
	}

	unlock := p.locks.Lock(docID)
	defer unlock()

	start := time.Now()
	doc, err := p.store.Get(ctx, docID)
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			return nil, fmt.Errorf("%w: document %s", errortypes.ErrNotFound, docID)
		}
		return nil, fmt.Errorf("fetch: %w", err)
	}

	text := chunker.Normalize(doc.Content, doc.MimeType)
	if text == "" {
		return nil, fmt.Errorf("%w: document %s has no content", errortypes.ErrNotFound, docID)
	}

	chunks := p.chunker.Split(text)
	p.logger.Debug("Chunked document", "doc_id", docID, "chars", len(text), "chunks", len(chunks))

	result := &IngestResult{DocID: docID}
	for i, content := range chunks {
		chunkID := vectorindex.ChunkID(docID, i)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ingest %s aborted at chunk %d: %w", docID, i, err)
		}

		embedding, err := p.embedder.Embed(ctx, content)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("ingest %s aborted at chunk %d: %w", docID, i, ctxErr)
			}
			p.logger.Warn("Embedding failed, chunk omitted", "chunk_id", chunkID, "error", err)
			result.ChunksSkipped++
			continue
		}

		err = p.index.Insert(chunkID, embedding, vectorindex.Metadata{
			Content:    content,
			DocID:      docID,
			ChunkIndex: i,
		})
		if err != nil {
			p.logger.Warn("Index insert failed, chunk omitted", "chunk_id", chunkID, "error", err)
			result.ChunksSkipped++
			continue
		}
		result.ChunksCreated++
	}

	if err := p.store.WriteStatus(ctx, docID, true); err != nil {
		return nil, fmt.Errorf("mark processed: %w", err)
	}

	result.Duration = time.Since(start)
	p.logger.Info("Indexed document",
		"doc_id", docID,
		"chunks", result.ChunksCreated,
		"skipped", result.ChunksSkipped,
		"duration", result.Duration,
	)
	return result, nil
}

// IngestAll ingests every document in ids, continuing past failures.
func (p *Pipeline) IngestAll(ctx context.Context, ids []string) *IndexResult {
	start := time.Now()
	result := &IndexResult{TotalDocs: len(ids)}

	for _, id := range ids {
		if ctx.Err() != nil {
			result.FailedDocs = append(result.FailedDocs, FailedDoc{DocID: id, Reason: ctx.Err().Error()})
			continue
		}
		res, err := p.Ingest(ctx, id)
		if err != nil {
			p.logger.Warn("Failed to ingest document", "doc_id", id, "error", err)
			result.FailedDocs = append(result.FailedDocs, FailedDoc{DocID: id, Reason: err.Error()})
			continue
		}
		result.SuccessfulDocs++
		result.TotalChunks += res.ChunksCreated
	}

	result.Duration = time.Since(start)
	p.logger.Info("Indexing complete",
		"successful", result.SuccessfulDocs,
		"failed", len(result.FailedDocs),
		"chunks", result.TotalChunks,
		"duration", result.Duration,
	)
	return result
}
