package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultGeminiModel is the Gemini embedding model.
	DefaultGeminiModel = "text-embedding-004"

	// DefaultGeminiBaseURL is the Generative Language API root.
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	geminiTimeout = 30 * time.Second
)

// GeminiConfig configures GeminiStrategy. Zero values select the defaults.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiStrategy embeds text with the Gemini embedContent endpoint.
// It makes a single attempt per text.
type GeminiStrategy struct {
	client *resty.Client
	apiKey string
	model  string
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"taskType"`
}

type geminiResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewGeminiStrategy creates the Gemini strategy.
func NewGeminiStrategy(cfg GeminiConfig) (*GeminiStrategy, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(geminiTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	return &GeminiStrategy{client: client, apiKey: cfg.APIKey, model: cfg.Model}, nil
}

// Name implements Strategy.
func (s *GeminiStrategy) Name() string { return StrategyGemini }

// Embed implements Strategy.
func (s *GeminiStrategy) Embed(ctx context.Context, text string) ([]float32, error) {
	var out geminiResponse
	var apiErr geminiError

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", s.apiKey).
		SetPathParam("model", s.model).
		SetBody(geminiRequest{
			Model:    "models/" + s.model,
			Content:  geminiContent{Parts: []geminiPart{{Text: text}}},
			TaskType: "RETRIEVAL_DOCUMENT",
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/models/{model}:embedContent")
	if err != nil {
		return nil, fmt.Errorf("%w: gemini request: %v", ErrProviderUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: gemini status %d: %s",
			ErrProviderUnavailable, resp.StatusCode(), apiErr.Error.Message)
	}
	if len(out.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: gemini", ErrEmptyEmbedding)
	}

	return toFloat32(out.Embedding.Values), nil
}
