package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"docqa/internal/config"
	"docqa/internal/errs"
)

const (
	TypeHash   = "hash"
	TypeOllama = "ollama"
	TypeOpenAI = "openai"
)

// Embedder maps text to fixed-dimension vectors. Embed is one-to-one and
// order-preserving with its input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedOne(ctx context.Context, text string) ([]float32, error)
	// Dimension reports the vector size, or 0 if it is not known before the first call.
	Dimension() int
}

// New builds the embedder selected by cfg
func New(cfg *config.EmbedderConfig) (Embedder, error) {
	log.Debug().Interface("config", map[string]any{
		"type":       cfg.Type,
		"base_url":   cfg.BaseURL,
		"model":      cfg.Model,
		"dimension":  cfg.Dimension,
		"cache_size": cfg.CacheSize,
	}).Msg("Creating embedder")

	var e Embedder
	var err error
	switch cfg.Type {
	case TypeHash, "":
		e = NewHashEmbedder(cfg.Dimension)
	case TypeOllama:
		e, err = NewOllamaEmbedder(cfg)
	case TypeOpenAI:
		e, err = NewOpenAIEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return WithCache(e, cfg.CacheSize, time.Duration(cfg.CacheTTLSecs)*time.Second), nil
}

// checkVectors validates a batch returned by a model against the request size
// and the dimension seen so far (0 if none).
func checkVectors(vectors [][]float32, want, dim int) (int, error) {
	if len(vectors) != want {
		return 0, fmt.Errorf("%w: got %d vectors for %d inputs", errs.ErrEmbeddingFailure, len(vectors), want)
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return 0, fmt.Errorf("%w: empty vector at %d", errs.ErrEmbeddingFailure, i)
		}
		if dim == 0 {
			dim = len(v)
		}
		if len(v) != dim {
			return 0, fmt.Errorf("%w: vector %d has dimension %d, want %d", errs.ErrEmbeddingFailure, i, len(v), dim)
		}
	}
	return dim, nil
}
