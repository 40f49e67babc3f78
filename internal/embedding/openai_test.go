package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOpenAIServer fails the first `failures` requests with a 500.
func newOpenAIServer(t *testing.T, failures int32, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/embeddings") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if n <= failures {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  DefaultModel,
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": []float64{0.5, -0.25, 1}},
			},
			"usage": map[string]any{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
}

func newTestOpenAIStrategy(t *testing.T, baseURL string, attempts int) *OpenAIStrategy {
	t.Helper()
	client, err := NewClient("sk-test", baseURL+"/v1/")
	require.NoError(t, err)
	return NewOpenAIStrategy(client, OpenAIConfig{Attempts: attempts, RetryDelay: time.Millisecond}, nil)
}

func TestOpenAIStrategy_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := newOpenAIServer(t, 2, &calls)
	defer server.Close()

	s := newTestOpenAIStrategy(t, server.URL, 3)

	vec, err := s.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.25, 1}, vec)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAIStrategy_ExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	server := newOpenAIServer(t, 100, &calls)
	defer server.Close()

	s := newTestOpenAIStrategy(t, server.URL, 3)

	_, err := s.Embed(context.Background(), "hello")
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAIStrategy_FallsThroughInProvider(t *testing.T) {
	var calls atomic.Int32
	server := newOpenAIServer(t, 100, &calls)
	defer server.Close()

	p := NewProvider([]Strategy{newTestOpenAIStrategy(t, server.URL, 2)}, NewLocalStrategy(8), nil)

	vec, err := p.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, HashEmbedding("hello", 8), vec)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("", "")
	assert.Error(t, err)
}

func TestOpenAIStrategy_BackoffDoublesDelay(t *testing.T) {
	var (
		mu       sync.Mutex
		arrivals []time.Time
		calls    atomic.Int32
	)
	inner := newOpenAIServer(t, 3, &calls)
	defer inner.Close()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		inner.Config.Handler.ServeHTTP(w, r)
	}))
	defer server.Close()

	client, err := NewClient("sk-test", server.URL+"/v1/")
	require.NoError(t, err)
	delay := 50 * time.Millisecond
	s := NewOpenAIStrategy(client, OpenAIConfig{Attempts: 4, RetryDelay: delay}, nil)

	_, err = s.Embed(context.Background(), "hello")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, arrivals, 4)
	for i := 1; i < len(arrivals); i++ {
		want := delay << (i - 1)
		gap := arrivals[i].Sub(arrivals[i-1])
		assert.GreaterOrEqual(t, gap, want*8/10, "gap before attempt %d", i+1)
		assert.Less(t, gap, want*4, "gap before attempt %d", i+1)
	}
}
