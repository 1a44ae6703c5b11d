package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/tiktoken-go/tokenizer"
)

const defaultHashingDimension = 768

// hashingEmbedder is an offline provider: every cl100k token and adjacent
// token pair is hashed into a signed bucket, and the result is L2-normalized.
// The codec is immutable after construction, so Embed is safe for
// concurrent use.
type hashingEmbedder struct {
	codec     tokenizer.Codec
	dimension int
}

func NewHashingEmbedder(dimension int) (EmbeddingProvider, error) {
	if dimension <= 0 {
		dimension = defaultHashingDimension
	}

	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}

	return &hashingEmbedder{codec: codec, dimension: dimension}, nil
}

// Embed implements EmbeddingProvider.
func (h *hashingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids, _, err := h.codec.Encode(strings.ToLower(text))
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize text: %w", err)
	}
	if len(ids) == 0 {
		return nil, errors.New("no tokens in text")
	}

	vec := make([]float64, h.dimension)
	for i, id := range ids {
		h.add(vec, strconv.FormatUint(uint64(id), 10), 1)
		if i > 0 {
			bigram := strconv.FormatUint(uint64(ids[i-1]), 10) + ":" + strconv.FormatUint(uint64(id), 10)
			h.add(vec, bigram, 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	embedding := make([]float32, h.dimension)
	if norm == 0 {
		return embedding, nil
	}
	for i, v := range vec {
		embedding[i] = float32(v / norm)
	}
	return embedding, nil
}

func (h *hashingEmbedder) add(vec []float64, feature string, weight float64) {
	sum := xxhash.Sum64String(feature)
	bucket := sum % uint64(h.dimension)
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[bucket] += weight
}

// Name implements EmbeddingProvider.
func (h *hashingEmbedder) Name() string {
	return ProviderLocal + "/hashing-" + strconv.Itoa(h.dimension)
}
