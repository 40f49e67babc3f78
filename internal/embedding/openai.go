package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
	"golang.org/x/time/rate"
)

const (
	// DefaultModel is the OpenAI model used for generating embeddings.
	DefaultModel = "text-embedding-3-small"

	// DefaultAttempts is how many times the OpenAI strategy calls the API per text.
	DefaultAttempts = 3

	// DefaultRetryDelay is the wait before the second attempt; it doubles afterwards.
	DefaultRetryDelay = time.Second
)

// OpenAIConfig configures OpenAIStrategy. Zero values select the defaults.
type OpenAIConfig struct {
	Model      string
	Attempts   int
	RetryDelay time.Duration
	// RateLimit caps requests per second; 0 disables the limiter.
	RateLimit float64
}

// OpenAIStrategy embeds text with the OpenAI embeddings API, retrying every
// failure with exponential backoff (delay * 2^(attempt-1)).
type OpenAIStrategy struct {
	client   *Client
	model    string
	attempts int
	delay    time.Duration
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewOpenAIStrategy creates the OpenAI strategy.
func NewOpenAIStrategy(client *Client, cfg OpenAIConfig, logger *slog.Logger) *OpenAIStrategy {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIStrategy{
		client:   client,
		model:    cfg.Model,
		attempts: cfg.Attempts,
		delay:    cfg.RetryDelay,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

// Name implements Strategy.
func (s *OpenAIStrategy) Name() string { return StrategyOpenAI }

// Embed implements Strategy. Any API error, transport fault or empty response
// counts as a failed attempt.
func (s *OpenAIStrategy) Embed(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32
	attempt := 0

	operation := func() error {
		attempt++
		if err := s.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		resp, err := s.client.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfString: openai.String(text),
			},
			Model: openai.EmbeddingModel(s.model),
		})
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return ErrEmptyEmbedding
		}

		embedding = toFloat32(resp.Data[0].Embedding)
		return nil
	}

	notify := func(err error, wait time.Duration) {
		s.logger.Warn("OpenAI embedding attempt failed",
			"attempt", attempt, "max_attempts", s.attempts, "retry_in", wait, "error", err)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(s.newBackOff(), ctx), notify); err != nil {
		return nil, fmt.Errorf("%w: openai after %d attempts: %v", ErrProviderUnavailable, attempt, err)
	}
	return embedding, nil
}

// newBackOff yields delay, 2*delay, 4*delay... for attempts-1 retries.
func (s *OpenAIStrategy) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.delay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = s.delay << s.attempts
	b.MaxElapsedTime = 0
	return backoff.WithMaxRetries(b, uint64(s.attempts-1))
}
