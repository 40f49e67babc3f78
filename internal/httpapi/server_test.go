package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/rag-service/internal/chunker"
	"github.com/bull/rag-service/internal/docstore"
	"github.com/bull/rag-service/internal/embedding"
	"github.com/bull/rag-service/internal/errortypes"
	"github.com/bull/rag-service/internal/indexer"
	"github.com/bull/rag-service/internal/search"
	"github.com/bull/rag-service/internal/vectorindex"
)

type stubIngester struct {
	result *indexer.IngestResult
	err    error
	gotID  string
}

func (s *stubIngester) Ingest(_ context.Context, docID string) (*indexer.IngestResult, error) {
	s.gotID = docID
	return s.result, s.err
}

type stubQuerier struct {
	err      error
	gotLimit int
}

func (s *stubQuerier) Query(_ context.Context, text string, limit int) (*search.Result, error) {
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	if strings.TrimSpace(text) == "" {
		return nil, errortypes.ErrInvalidArgument
	}
	return &search.Result{Query: text, Results: []search.DocumentResult{}}, nil
}

type panicQuerier struct{}

func (panicQuerier) Query(context.Context, string, int) (*search.Result, error) {
	panic("boom")
}

type stubStatus struct{}

func (stubStatus) ReadStatus(_ context.Context, id string) (string, bool, error) {
	if id == "1" {
		return "Report", true, nil
	}
	return "", false, docstore.ErrDocumentNotFound
}

type fixedLen int

func (n fixedLen) Len() int { return int(n) }

func newStubServer(ing Ingester, q Querier) http.Handler {
	return NewServer(&Config{
		Ingester:  ing,
		Querier:   q,
		Documents: stubStatus{},
		Index:     fixedLen(3),
		Provider:  "local",
	}).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, newStubServer(&stubIngester{}, &stubQuerier{}), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "rag", body["service"])
	assert.Equal(t, "local", body["provider"])
	assert.Equal(t, float64(3), body["chunks"])
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	newStubServer(&stubIngester{}, &stubQuerier{}).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		ingestErr error
		wantCode  int
		wantError string
		wantID    string
	}{
		{name: "numeric id", body: `{"doc_id": 42}`, wantCode: http.StatusOK, wantID: "42"},
		{name: "string id", body: `{"doc_id": " 7 "}`, wantCode: http.StatusOK, wantID: "7"},
		{name: "missing id", body: `{}`, wantCode: http.StatusBadRequest, wantError: "Document ID required"},
		{name: "empty id", body: `{"doc_id": ""}`, wantCode: http.StatusBadRequest, wantError: "Document ID required"},
		{name: "zero id", body: `{"doc_id": 0}`, wantCode: http.StatusBadRequest, wantError: "Document ID required"},
		{name: "negative id", body: `{"doc_id": -4}`, wantCode: http.StatusBadRequest, wantError: "Document ID required"},
		{name: "null id", body: `{"doc_id": null}`, wantCode: http.StatusBadRequest, wantError: "Document ID required"},
		{name: "bad json", body: `{`, wantCode: http.StatusBadRequest, wantError: "Invalid JSON body"},
		{
			name:      "not found",
			body:      `{"doc_id": 9}`,
			ingestErr: fmt.Errorf("%w: document 9", errortypes.ErrNotFound),
			wantCode:  http.StatusNotFound,
			wantError: "Document content not found",
		},
		{
			name:      "internal failure hides detail",
			body:      `{"doc_id": 9}`,
			ingestErr: errors.New("disk on fire"),
			wantCode:  http.StatusInternalServerError,
			wantError: "Processing failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing := &stubIngester{
				result: &indexer.IngestResult{ChunksCreated: 3},
				err:    tt.ingestErr,
			}
			rec := do(t, newStubServer(ing, &stubQuerier{}), http.MethodPost, "/process", tt.body)

			require.Equal(t, tt.wantCode, rec.Code)
			body := decode(t, rec)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				assert.NotContains(t, rec.Body.String(), "disk on fire")
				return
			}
			assert.Equal(t, tt.wantID, ing.gotID)
			assert.Equal(t, true, body["success"])
			assert.Equal(t, float64(3), body["chunks_created"])
			assert.NotContains(t, body, "chunks_skipped")
		})
	}
}

func TestProcess_EchoesDocIDType(t *testing.T) {
	ing := &stubIngester{result: &indexer.IngestResult{ChunksCreated: 1}}
	h := newStubServer(ing, &stubQuerier{})

	rec := do(t, h, http.MethodPost, "/process", `{"doc_id": 42}`)
	assert.Contains(t, rec.Body.String(), `"doc_id":42`)

	rec = do(t, h, http.MethodPost, "/process", `{"doc_id": "42"}`)
	assert.Contains(t, rec.Body.String(), `"doc_id":"42"`)
}

func TestSearch(t *testing.T) {
	t.Run("limit forwarded", func(t *testing.T) {
		q := &stubQuerier{}
		rec := do(t, newStubServer(&stubIngester{}, q), http.MethodPost, "/search", `{"query":"revenue","limit":3}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 3, q.gotLimit)

		body := decode(t, rec)
		assert.Equal(t, "revenue", body["query"])
		assert.Equal(t, []any{}, body["results"])
		assert.Equal(t, float64(0), body["total_results"])
	})

	t.Run("limit omitted", func(t *testing.T) {
		q := &stubQuerier{}
		do(t, newStubServer(&stubIngester{}, q), http.MethodPost, "/search", `{"query":"revenue"}`)
		assert.Equal(t, 0, q.gotLimit)
	})

	t.Run("empty query", func(t *testing.T) {
		rec := do(t, newStubServer(&stubIngester{}, &stubQuerier{}), http.MethodPost, "/search", `{"query":"  "}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Query required", decode(t, rec)["error"])
	})

	t.Run("failure", func(t *testing.T) {
		q := &stubQuerier{err: errors.New("index corrupted")}
		rec := do(t, newStubServer(&stubIngester{}, q), http.MethodPost, "/search", `{"query":"x"}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Search failed", decode(t, rec)["error"])
	})
}

func TestStatus(t *testing.T) {
	h := newStubServer(&stubIngester{}, &stubQuerier{})

	rec := do(t, h, http.MethodGet, "/status/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "1", body["doc_id"])
	assert.Equal(t, "Report", body["title"])
	assert.Equal(t, true, body["processed"])

	rec = do(t, h, http.MethodGet, "/status/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newStubServer(&stubIngester{}, &stubQuerier{}), http.MethodGet, "/process", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPanicRecovered(t *testing.T) {
	rec := do(t, newStubServer(&stubIngester{}, panicQuerier{}), http.MethodPost, "/search", `{"query":"x"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["error"])
}

// TestEndToEnd runs ingestion and search against a real store and index with
// only the local embedding strategy configured.
func TestEndToEnd(t *testing.T) {
	ctx := context.Background()

	store, err := docstore.Open(filepath.Join(t.TempDir(), "database.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	c, err := chunker.NewChunker(0, 0)
	require.NoError(t, err)
	provider := embedding.NewProvider(nil, embedding.NewLocalStrategy(128), nil)
	index := vectorindex.New()

	h := NewServer(&Config{
		Ingester:  indexer.NewPipeline(store, c, provider, index, nil),
		Querier:   search.NewService(provider, index, nil),
		Documents: store,
		Index:     index,
		Provider:  provider.Primary(),
	}).Handler()

	revenue := "Quarterly revenue grew twelve percent year over year."
	idA, err := store.Create(ctx, docstore.Document{Title: "A", Content: revenue})
	require.NoError(t, err)
	idB, err := store.Create(ctx, docstore.Document{Title: "B", Content: "The cafeteria menu changes on Mondays."})
	require.NoError(t, err)

	for _, id := range []string{idA, idB} {
		rec := do(t, h, http.MethodPost, "/process", fmt.Sprintf(`{"doc_id": %q}`, id))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, float64(1), decode(t, rec)["chunks_created"])
	}

	rec := do(t, h, http.MethodGet, "/status/"+idA, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["processed"])

	query := fmt.Sprintf(`{"query": %q, "limit": 5}`, revenue)
	first := do(t, h, http.MethodPost, "/search", query)
	require.Equal(t, http.StatusOK, first.Code)

	var result search.Result
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &result))
	require.NotEmpty(t, result.Results)
	assert.Equal(t, idA, result.Results[0].DocID)
	assert.InDelta(t, 1.0, result.Results[0].TotalScore, 1e-5)

	second := do(t, h, http.MethodPost, "/search", query)
	assert.Equal(t, first.Body.String(), second.Body.String())

	rec = do(t, h, http.MethodPost, "/process", `{"doc_id": 12345}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
