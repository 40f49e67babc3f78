// Package docstore reads and updates documents in the relational store shared
// with the application backend. It owns the processed flag; the document
// content belongs to whoever uploaded it.
package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/bull/rag-service/internal/errortypes"
)

// ErrDocumentNotFound is returned when no row matches the id.
var ErrDocumentNotFound = fmt.Errorf("document %w", errortypes.ErrNotFound)

// Document is a row of the Documents table.
type Document struct {
	ID        string
	Title     string
	Content   string
	MimeType  string
	Processed bool
}

// Store is a SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// schema matches the columns the backend's ORM creates; it only takes effect
// when the service runs against a fresh database.
const schema = `
CREATE TABLE IF NOT EXISTS Documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER,
	title VARCHAR(255),
	description TEXT,
	filename VARCHAR(255),
	originalName VARCHAR(255),
	filePath VARCHAR(255),
	fileSize INTEGER,
	mimeType VARCHAR(255),
	content TEXT,
	processed TINYINT(1) DEFAULT 0,
	vector_path VARCHAR(255),
	createdAt DATETIME NOT NULL,
	updatedAt DATETIME NOT NULL
)`

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating Documents table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Health pings the database.
func (s *Store) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get returns a full document row.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	var (
		doc       Document
		title     sql.NullString
		content   sql.NullString
		mimeType  sql.NullString
		processed sql.NullBool
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, mimeType, processed FROM Documents WHERE id = ?`, id)
	if err := row.Scan(&doc.ID, &title, &content, &mimeType, &processed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
		}
		return nil, fmt.Errorf("reading document %s: %w", id, err)
	}
	doc.Title = title.String
	doc.Content = content.String
	doc.MimeType = mimeType.String
	doc.Processed = processed.Bool
	return &doc, nil
}

// ReadContent returns a document's content; NULL content reads as "".
func (s *Store) ReadContent(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

// ReadStatus returns a document's title and processed flag.
func (s *Store) ReadStatus(ctx context.Context, id string) (string, bool, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", false, err
	}
	return doc.Title, doc.Processed, nil
}

// WriteStatus sets a document's processed flag.
func (s *Store) WriteStatus(ctx context.Context, id string, processed bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE Documents SET processed = ?, updatedAt = ? WHERE id = ?`,
		processed, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating document %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	return nil
}

// Create inserts a document and returns its id.
func (s *Store) Create(ctx context.Context, doc Document) (string, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO Documents (title, originalName, mimeType, content, processed, createdAt, updatedAt)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.Title, doc.Title, doc.MimeType, doc.Content, doc.Processed, now, now)
	if err != nil {
		return "", fmt.Errorf("inserting document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("reading inserted id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// ListIDs returns document ids in ascending order, optionally only processed ones.
func (s *Store) ListIDs(ctx context.Context, processedOnly bool) ([]string, error) {
	query := `SELECT id FROM Documents ORDER BY id`
	if processedOnly {
		query = `SELECT id FROM Documents WHERE processed = 1 ORDER BY id`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning document id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
