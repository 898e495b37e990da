package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"docqa/internal/errs"
)

const defaultHashDimension = 512

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// HashEmbedder is an offline bag-of-words embedder. Each lowercased token is
// hashed into one of dim buckets, so equal texts always map to equal vectors.
type HashEmbedder struct {
	dim int
}

func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = defaultHashDimension
	}
	return &HashEmbedder{dim: dim}
}

func (e *HashEmbedder) Dimension() int { return e.dim }

func (e *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrEmbeddingFailure, err)
		}
		vectors[i] = e.vector(text)
	}
	return vectors, nil
}

func (e *HashEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrEmbeddingFailure, err)
	}
	return e.vector(text), nil
}

func (e *HashEmbedder) vector(text string) []float32 {
	vec := make([]float32, e.dim)
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		// punctuation-only text still gets a non-zero vector
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return vec
		}
		tokens = []string{trimmed}
	}
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(e.dim)]++
	}
	return vec
}
