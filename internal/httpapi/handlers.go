package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bull/rag-service/internal/errortypes"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	chunks := 0
	if s.index != nil {
		chunks = s.index.Len()
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   "rag",
		Provider:  s.provider,
		Chunks:    chunks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	docID, ok := docIDString(req.DocID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Document ID required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.ingester.Ingest(ctx, docID)
	switch {
	case err == nil:
	case errortypes.IsInvalidArgument(err):
		writeError(w, http.StatusBadRequest, "Document ID required")
		return
	case errortypes.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Document content not found")
		return
	default:
		s.logger.Error("Error processing document", "doc_id", docID, "error", err)
		writeError(w, http.StatusInternalServerError, "Processing failed")
		return
	}

	writeJSON(w, http.StatusOK, ProcessResponse{
		Success:       true,
		DocID:         req.DocID,
		ChunksCreated: result.ChunksCreated,
		ChunksSkipped: result.ChunksSkipped,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	limit := 0
	if req.Limit != nil {
		limit = *req.Limit
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.querier.Query(ctx, req.Query, limit)
	if err != nil {
		if errortypes.IsInvalidArgument(err) {
			writeError(w, http.StatusBadRequest, "Query required")
			return
		}
		s.logger.Error("Error searching documents", "error", err)
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	docID := strings.TrimSpace(r.PathValue("doc_id"))

	title, processed, err := s.documents.ReadStatus(r.Context(), docID)
	if err != nil {
		if errortypes.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Document not found")
			return
		}
		s.logger.Error("Error reading document status", "doc_id", docID, "error", err)
		writeError(w, http.StatusInternalServerError, "Status lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{DocID: docID, Title: title, Processed: processed})
}

// decodeJSON reads a JSON object body, keeping numbers as json.Number.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

// docIDString accepts a non-empty string or a positive number.
func docIDString(v any) (string, bool) {
	switch id := v.(type) {
	case json.Number:
		f, err := id.Float64()
		if err != nil || f <= 0 {
			return "", false
		}
		return id.String(), true
	case string:
		id = strings.TrimSpace(id)
		return id, id != ""
	default:
		return "", false
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":%q}`, "encoding response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
