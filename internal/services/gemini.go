package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"
)

const (
	defaultGeminiEmbedModel = "text-embedding-004"
	maxGeminiEmbedChars     = 40000
	semanticSimilarityTask  = "SEMANTIC_SIMILARITY"
)

type geminiEmbedder struct {
	client     *genai.Client
	embedModel string
}

func NewGeminiEmbedder(ctx context.Context, apiKey, model string) (EmbeddingProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiEmbedModel
	}

	return &geminiEmbedder{
		client:     client,
		embedModel: model,
	}, nil
}

// Embed implements EmbeddingProvider.
func (g *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	text = truncateUTF8(text, maxGeminiEmbedChars)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), &genai.EmbedContentConfig{
		TaskType: semanticSimilarityTask,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, errors.New("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// Name implements EmbeddingProvider.
func (g *geminiEmbedder) Name() string {
	return ProviderGemini + "/" + g.embedModel
}

// truncateUTF8 cuts s to at most maxBytes without splitting a rune.
func truncateUTF8(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}

	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
