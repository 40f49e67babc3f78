package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Provider tries its strategies in order and returns the first vector produced.
// The last strategy is always a LocalStrategy, so Embed only fails when the
// local strategy itself is misconfigured.
type Provider struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewProvider builds a provider from network strategies in priority order,
// appending local as the terminal fallback. A nil local selects the default dimension.
func NewProvider(network []Strategy, local *LocalStrategy, logger *slog.Logger) *Provider {
	if local == nil {
		local = NewLocalStrategy(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	strategies := make([]Strategy, 0, len(network)+1)
	for _, s := range network {
		if s != nil {
			strategies = append(strategies, s)
		}
	}
	strategies = append(strategies, local)
	return &Provider{strategies: strategies, logger: logger}
}

// Primary returns the name of the strategy tried first.
func (p *Provider) Primary() string {
	return p.strategies[0].Name()
}

// Strategies returns the strategy names in the order they are tried.
func (p *Provider) Strategies() []string {
	names := make([]string, len(p.strategies))
	for i, s := range p.strategies {
		names[i] = s.Name()
	}
	return names
}

// Embed implements the fallback chain. Each call is independent; no failure
// state carries over between calls. A done context ends the chain with its
// error instead of falling through to the next strategy.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	var errs []error
	for i, s := range p.strategies {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("embedding aborted before %s: %w", s.Name(), err)
		}
		vec, err := s.Embed(ctx, text)
		if err == nil && len(vec) > 0 {
			if i > 0 {
				p.logger.Warn("Embedding served by fallback strategy",
					"strategy", s.Name(), "skipped", i)
			}
			return vec, nil
		}
		if err == nil {
			err = ErrEmptyEmbedding
		}
		p.logger.Warn("Embedding strategy failed", "strategy", s.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}
	return nil, errors.Join(errs...)
}
