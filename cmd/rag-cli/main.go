// Package main provides the operator CLI for the RAG document store and index.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/rag-service/internal/chunker"
	"github.com/bull/rag-service/internal/config"
	"github.com/bull/rag-service/internal/docstore"
	"github.com/bull/rag-service/internal/embedding"
	"github.com/bull/rag-service/internal/indexer"
	"github.com/bull/rag-service/internal/search"
	"github.com/bull/rag-service/internal/vectorindex"
)

var (
	dbPath      string
	searchLimit int
	searchAll   bool
	importTitle string
)

var rootCmd = &cobra.Command{
	Use:   "rag-cli",
	Short: "Operator tool for the RAG document store",
	Long:  "CLI for importing documents, checking their status and running offline searches",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if dbPath == "" {
			dbPath = os.Getenv("RAG_DB_PATH")
		}
		if dbPath == "" {
			dbPath = "database.sqlite"
		}
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Add files to the document store",
	Long: `Reads each file and stores it as an unprocessed document.

The mime type is taken from the file extension; .md and .markdown files are
stored as text/markdown so ingestion strips their markup.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var statusCmd = &cobra.Command{
	Use:   "status <doc_id>",
	Short: "Show a document's title and processed flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Ingest documents into a fresh index and search them",
	Long: `Builds an in-process index from the document store and runs one query.

By default only documents already flagged processed are ingested; --all
ingests every document (and flags it processed).

Environment variables:
  EMBEDDING_PROVIDER  auto, openai, gemini or local (default: auto)
  OPENAI_API_KEY      OpenAI key for the primary strategy (optional)
  GEMINI_API_KEY      Gemini key for the secondary strategy (optional)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite document store (default: $RAG_DB_PATH or database.sqlite)")
	importCmd.Flags().StringVar(&importTitle, "title", "", "document title (default: file name); only valid with a single file")
	searchCmd.Flags().IntVar(&searchLimit, "limit", vectorindex.DefaultLimit, "maximum chunk hits to consider")
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "ingest every document, not only processed ones")

	rootCmd.AddCommand(importCmd, statusCmd, searchCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	if importTitle != "" && len(args) > 1 {
		return fmt.Errorf("--title requires exactly one file")
	}
	ctx := cmd.Context()

	store, err := docstore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		title := importTitle
		if title == "" {
			title = filepath.Base(path)
		}
		id, err := store.Create(ctx, docstore.Document{
			Title:    title,
			Content:  string(content),
			MimeType: mimeTypeFor(path),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Imported %s as document %s\n", path, id)
	}
	return nil
}

func mimeTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt", "":
		return "text/plain"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "text/plain"
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := docstore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	title, processed, err := store.ReadStatus(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Document %s\n", args[0])
	fmt.Printf("  Title: %s\n", title)
	fmt.Printf("  Processed: %t\n", processed)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store, err := docstore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	provider, err := embedding.NewProviderFromSettings(cfg.Embedding, logger)
	if err != nil {
		return err
	}
	c, err := chunker.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}
	index := vectorindex.New()

	ids, err := store.ListIDs(ctx, !searchAll)
	if err != nil {
		return err
	}
	fmt.Printf("Ingesting %d documents with %s embeddings...\n", len(ids), provider.Primary())
	result := indexer.NewPipeline(store, c, provider, index, logger).IngestAll(ctx, ids)
	for _, failed := range result.FailedDocs {
		fmt.Printf("  - %s: %s\n", failed.DocID, failed.Reason)
	}

	return printResults(ctx, search.NewService(provider, index, logger), strings.Join(args, " "), start, index.Len())
}

func printResults(ctx context.Context, svc *search.Service, query string, start time.Time, chunks int) error {
	result, err := svc.Query(ctx, query, searchLimit)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Query: %q (%d chunks indexed)\n", result.Query, chunks)
	if result.TotalResults == 0 {
		fmt.Println("No matching documents found.")
	}
	for i, doc := range result.Results {
		fmt.Printf("%d. document %s  score %.4f\n", i+1, doc.DocID, doc.TotalScore)
		for _, chunk := range doc.Chunks {
			fmt.Printf("   [%d] %.4f  %s\n", chunk.ChunkIndex, chunk.Score, preview(chunk.Content, 80))
		}
	}
	fmt.Println()
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
