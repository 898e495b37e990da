package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docqa/internal/config"
	"docqa/internal/errs"
)

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder(64)
	ctx := context.Background()

	a, err := e.EmbedOne(ctx, "The magic flower glows at night.")
	require.NoError(t, err)
	b, err := e.EmbedOne(ctx, "the MAGIC flower, glows at night")
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Len(t, a, 64)
	require.Equal(t, 64, e.Dimension())
}

func TestHashEmbedderBatchMatchesSingle(t *testing.T) {
	e := NewHashEmbedder(0)
	ctx := context.Background()
	texts := []string{"alpha beta", "gamma", "delta epsilon"}

	batch, err := e.Embed(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, len(texts))
	for i, text := range texts {
		one, err := e.EmbedOne(ctx, text)
		require.NoError(t, err)
		require.Equal(t, one, batch[i])
		require.Len(t, one, defaultHashDimension)
	}
}

func TestHashEmbedderPunctuationIsNotZero(t *testing.T) {
	v, err := NewHashEmbedder(16).EmbedOne(context.Background(), "---")
	require.NoError(t, err)
	var sum float32
	for _, x := range v {
		sum += x
	}
	require.Equal(t, float32(1), sum)
}

func TestHashEmbedderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHashEmbedder(8).Embed(ctx, []string{"a"})
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, errs.ErrEmbeddingFailure)

	_, err = NewHashEmbedder(8).EmbedOne(ctx, "a")
	require.ErrorIs(t, err, errs.ErrEmbeddingFailure)
}

type fakeLangchain struct {
	docs  [][]float32
	query []float32
	err   error
}

func (f *fakeLangchain) EmbedDocuments(_ context.Context, _ []string) ([][]float32, error) {
	return f.docs, f.err
}

func (f *fakeLangchain) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return f.query, f.err
}

func TestLangchainEmbedder(t *testing.T) {
	ctx := context.Background()
	fake := &fakeLangchain{docs: [][]float32{{1, 0}, {0, 1}}, query: []float32{1, 1}}
	e := NewLangchainEmbedder(fake)
	require.Equal(t, 0, e.Dimension())

	vecs, err := e.Embed(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	require.Equal(t, 2, e.Dimension())

	q, err := e.EmbedOne(ctx, "q")
	require.NoError(t, err)
	require.Equal(t, []float32{1, 1}, q)

	fake.query = []float32{1, 1, 1}
	_, err = e.EmbedOne(ctx, "q")
	require.ErrorIs(t, err, errs.ErrEmbeddingFailure)
}

func TestLangchainEmbedderFailures(t *testing.T) {
	ctx := context.Background()

	e := NewLangchainEmbedder(&fakeLangchain{err: errors.New("connection refused")})
	_, err := e.Embed(ctx, []string{"a"})
	require.ErrorIs(t, err, errs.ErrEmbeddingFailure)

	e = NewLangchainEmbedder(&fakeLangchain{docs: [][]float32{{1}}})
	_, err = e.Embed(ctx, []string{"a", "b"})
	require.ErrorIs(t, err, errs.ErrEmbeddingFailure)

	e = NewLangchainEmbedder(&fakeLangchain{docs: [][]float32{{1}, {}}})
	_, err = e.Embed(ctx, []string{"a", "b"})
	require.ErrorIs(t, err, errs.ErrEmbeddingFailure)
}

type countingEmbedder struct {
	*HashEmbedder
	calls int
}

func (c *countingEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.HashEmbedder.EmbedOne(ctx, text)
}

func TestCachedEmbedder(t *testing.T) {
	ctx := context.Background()
	inner := &countingEmbedder{HashEmbedder: NewHashEmbedder(8)}
	e := WithCache(inner, 4, time.Minute)

	a, err := e.EmbedOne(ctx, "question")
	require.NoError(t, err)
	a[0] = 42
	b, err := e.EmbedOne(ctx, "question")
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)
	require.NotEqual(t, float32(42), b[0])

	require.Same(t, inner, WithCache(inner, 0, time.Minute))
}

func TestNew(t *testing.T) {
	e, err := New(&config.EmbedderConfig{Type: TypeHash, Dimension: 32})
	require.NoError(t, err)
	require.Equal(t, 32, e.Dimension())

	e, err = New(&config.EmbedderConfig{Dimension: 8, CacheSize: 10, CacheTTLSecs: 60})
	require.NoError(t, err)
	require.IsType(t, &CachedEmbedder{}, e)

	_, err = New(&config.EmbedderConfig{Type: "word2vec"})
	require.Error(t, err)
}
