// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bull/rag-service/internal/chunker"
	"github.com/bull/rag-service/internal/embedding"
)

// Config holds every setting of the service.
type Config struct {
	Port           string
	Debug          bool
	DBPath         string
	RequestTimeout time.Duration
	ReindexOnStart bool
	MCPStdio       bool

	ChunkSize    int
	ChunkOverlap int

	Embedding embedding.Settings
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "5001"),
		Debug:          getEnvBool("RAG_DEBUG", false),
		DBPath:         getEnv("RAG_DB_PATH", "database.sqlite"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
		ReindexOnStart: getEnvBool("REINDEX_ON_START", false),
		MCPStdio:       getEnvBool("MCP_STDIO", false),
		ChunkSize:      getEnvInt("CHUNK_SIZE", chunker.DefaultChunkSize),
		ChunkOverlap:   getEnvInt("CHUNK_OVERLAP", chunker.DefaultOverlap),
		Embedding: embedding.Settings{
			Preferred:      strings.ToLower(getEnv("EMBEDDING_PROVIDER", embedding.SelectAuto)),
			OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
			OpenAIModel:    getEnv("EMBEDDING_MODEL", embedding.DefaultModel),
			Attempts:       getEnvInt("EMBEDDING_RETRIES", embedding.DefaultAttempts),
			RetryDelay:     getEnvDuration("EMBEDDING_RETRY_DELAY", embedding.DefaultRetryDelay),
			RateLimit:      getEnvFloat("EMBEDDING_RATE_LIMIT", 0),
			GeminiKey:      os.Getenv("GEMINI_API_KEY"),
			GeminiModel:    getEnv("GEMINI_EMBEDDING_MODEL", embedding.DefaultGeminiModel),
			GeminiBaseURL:  os.Getenv("GEMINI_BASE_URL"),
			LocalDimension: getEnvInt("LOCAL_EMBEDDING_DIM", embedding.DefaultLocalDimension),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.ChunkOverlap)
	}
	if c.Embedding.LocalDimension <= 0 {
		return fmt.Errorf("LOCAL_EMBEDDING_DIM must be positive, got %d", c.Embedding.LocalDimension)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	switch c.Embedding.Preferred {
	case embedding.SelectAuto, embedding.StrategyOpenAI, embedding.StrategyGemini, embedding.StrategyLocal:
	default:
		return fmt.Errorf("EMBEDDING_PROVIDER must be auto, openai, gemini or local, got %q", c.Embedding.Preferred)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("1500ms") or whole seconds ("2").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
