package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"

	warmupText = "embedding provider warmup"
)

// EmbeddingProvider turns text into a fixed-dimension vector.
// Implementations must be safe for concurrent use.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Name() string
}

// NewEmbeddingProvider builds the provider selected by cfg.Provider. When
// cfg.Warmup is set it embeds a sample text so a provider that cannot serve
// fails here instead of on the first request.
func NewEmbeddingProvider(ctx context.Context, cfg config.EmbeddingConfig, log *zap.Logger) (EmbeddingProvider, error) {
	var (
		provider EmbeddingProvider
		err      error
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderGemini, "":
		provider, err = NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.Model)
	case ProviderOpenAI:
		provider, err = NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.Model)
	case ProviderLocal:
		provider, err = NewHashingEmbedder(cfg.Dimension)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Warmup {
		vec, err := provider.Embed(ctx, warmupText)
		if err != nil {
			return nil, fmt.Errorf("embedding provider %s failed warmup: %w", provider.Name(), err)
		}
		log.Info("🔥 Embedding provider warmed up",
			zap.String("provider", provider.Name()),
			zap.Int("dimension", len(vec)),
		)
	}

	return provider, nil
}
