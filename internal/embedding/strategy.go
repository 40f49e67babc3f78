// Package embedding turns text into vectors. A Provider tries an ordered list of
// strategies and always terminates at the deterministic local strategy.
package embedding

import (
	"context"
	"errors"
)

// Strategy names reported by Name and by the /health endpoint.
const (
	StrategyOpenAI = "openai"
	StrategyGemini = "gemini"
	StrategyLocal  = "local"
)

var (
	// ErrProviderUnavailable means a network strategy exhausted its attempts.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrEmptyEmbedding means a provider answered without a usable vector.
	ErrEmptyEmbedding = errors.New("provider returned empty embedding")
)

// Strategy is one way of producing an embedding for a text.
type Strategy interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
}

// toFloat32 converts []float64 to []float32.
// OpenAI API returns float64, but the index stores float32.
func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
