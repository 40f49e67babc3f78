// Package main provides the RAG service entry point: the JSON API plus an MCP endpoint.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bull/rag-service/internal/chunker"
	"github.com/bull/rag-service/internal/config"
	"github.com/bull/rag-service/internal/docstore"
	"github.com/bull/rag-service/internal/embedding"
	"github.com/bull/rag-service/internal/httpapi"
	"github.com/bull/rag-service/internal/indexer"
	mcpserver "github.com/bull/rag-service/internal/mcp"
	"github.com/bull/rag-service/internal/search"
	"github.com/bull/rag-service/internal/vectorindex"
)

func main() {
	if err := run(); err != nil {
		slog.Error("rag-server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (local development), ignore if missing (production)
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	// stdout carries the MCP stream in stdio mode, so logs always go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	store, err := docstore.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	provider, err := embedding.NewProviderFromSettings(cfg.Embedding, logger)
	if err != nil {
		return err
	}
	logger.Info("Embedding provider ready", "strategies", provider.Strategies())

	c, err := chunker.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}

	index := vectorindex.New()
	pipeline := indexer.NewPipeline(store, c, provider, index, logger)
	searcher := search.NewService(provider, index, logger)

	if cfg.ReindexOnStart {
		go reindex(ctx, store, pipeline, logger)
	}

	api := httpapi.NewServer(&httpapi.Config{
		Ingester:  pipeline,
		Querier:   searcher,
		Documents: store,
		Index:     index,
		Provider:  provider.Primary(),
		Timeout:   cfg.RequestTimeout,
		Logger:    logger,
	})
	tools := mcpserver.NewServer(&mcpserver.Config{
		Ingester:  pipeline,
		Querier:   searcher,
		Documents: store,
		Index:     index,
		Timeout:   cfg.RequestTimeout,
	})

	mux := http.NewServeMux()
	api.Register(mux)
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(tools, &mcpserver.HTTPHandlerOptions{Stateless: true}))

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           httpapi.WithRequestLogging(logger, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", srv.Addr, "db", store.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if cfg.MCPStdio {
		logger.Info("Serving MCP over stdio")
		go func() {
			if err := tools.Run(ctx); err != nil {
				logger.Error("MCP stdio server stopped", "error", err)
			}
			cancel()
		}()
	}

	select {
	case err, ok := <-serveErr:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}

// reindex rebuilds the in-memory index from documents already flagged processed.
func reindex(ctx context.Context, store *docstore.Store, pipeline *indexer.Pipeline, logger *slog.Logger) {
	ids, err := store.ListIDs(ctx, true)
	if err != nil {
		logger.Error("Reindex failed to list documents", "error", err)
		return
	}
	logger.Info("Reindexing processed documents", "count", len(ids))

	pipeline.IngestAll(ctx, ids)
}
