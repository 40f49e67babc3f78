package embedding

import (
	"fmt"
	"log/slog"
	"time"
)

// Selection values for Settings.Preferred.
const (
	SelectAuto = "auto"
)

// Settings describes every strategy the process may use.
type Settings struct {
	// Preferred is auto, openai, gemini or local. An explicit network choice
	// is tried first; local disables the network strategies.
	Preferred string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	Attempts      int
	RetryDelay    time.Duration
	RateLimit     float64

	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string

	LocalDimension int
}

// NewProviderFromSettings builds the strategy chain. Network strategies without
// credentials are skipped; the default order is openai, gemini, local.
func NewProviderFromSettings(s Settings, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	local := NewLocalStrategy(s.LocalDimension)

	order := []string{StrategyOpenAI, StrategyGemini}
	switch s.Preferred {
	case "", SelectAuto, StrategyOpenAI:
	case StrategyGemini:
		order = []string{StrategyGemini, StrategyOpenAI}
	case StrategyLocal:
		return NewProvider(nil, local, logger), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", s.Preferred)
	}

	var chain []Strategy
	for _, name := range order {
		switch name {
		case StrategyOpenAI:
			if s.OpenAIKey == "" {
				continue
			}
			client, err := NewClient(s.OpenAIKey, s.OpenAIBaseURL)
			if err != nil {
				return nil, err
			}
			chain = append(chain, NewOpenAIStrategy(client, OpenAIConfig{
				Model:      s.OpenAIModel,
				Attempts:   s.Attempts,
				RetryDelay: s.RetryDelay,
				RateLimit:  s.RateLimit,
			}, logger))
		case StrategyGemini:
			if s.GeminiKey == "" {
				continue
			}
			gemini, err := NewGeminiStrategy(GeminiConfig{
				APIKey:  s.GeminiKey,
				Model:   s.GeminiModel,
				BaseURL: s.GeminiBaseURL,
			})
			if err != nil {
				return nil, err
			}
			chain = append(chain, gemini)
		}
	}

	return NewProvider(chain, local, logger), nil
}
