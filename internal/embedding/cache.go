package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
)

// WithCache puts an expiring LRU cache in front of EmbedOne. Batch calls are
// not cached. It returns e unchanged when size or ttl is not positive.
func WithCache(e Embedder, size int, ttl time.Duration) Embedder {
	if e == nil || size <= 0 || ttl <= 0 {
		return e
	}
	return &CachedEmbedder{
		next:  e,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

type CachedEmbedder struct {
	next  Embedder
	cache *expirable.LRU[string, []float32]
}

func (c *CachedEmbedder) Dimension() int { return c.next.Dimension() }

func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return c.next.Embed(ctx, texts)
}

func (c *CachedEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)
	if cached, ok := c.cache.Get(key); ok {
		log.Debug().Msg("Embedding cache hit")
		return cloneVector(cached), nil
	}
	res, err := c.next.EmbedOne(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cloneVector(res))
	return res, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func cloneVector(v []float32) []float32 {
	if len(v) == 0 {
		return nil
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
