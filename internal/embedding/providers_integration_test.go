//go:build integration

package embedding

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIStrategy_Integration(t *testing.T) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		t.Skip("OPENAI_API_KEY not set, skipping integration test")
	}

	client, err := NewClient(key, os.Getenv("OPENAI_BASE_URL"))
	require.NoError(t, err)
	s := NewOpenAIStrategy(client, OpenAIConfig{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	vec, err := s.Embed(ctx, "Quarterly revenue grew twelve percent.")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)
}

func TestGeminiStrategy_Integration(t *testing.T) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		t.Skip("GEMINI_API_KEY not set, skipping integration test")
	}

	s, err := NewGeminiStrategy(GeminiConfig{APIKey: key})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	vec, err := s.Embed(ctx, "Quarterly revenue grew twelve percent.")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)
}
