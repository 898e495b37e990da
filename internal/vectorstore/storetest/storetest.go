// Package storetest holds the behaviour every vectorstore.Store backend must share.
package storetest

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"docqa/internal/errs"
	"docqa/internal/vectorstore"
)

// Run exercises store contract tests against fresh stores built by newStore.
func Run(t *testing.T, newStore func(t *testing.T) vectorstore.Store) {
	t.Run("MissingCollection", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		ok, err := s.Exists(ctx, "missing")
		require.NoError(t, err)
		require.False(t, ok)

		_, err = s.GetAll(ctx, "missing")
		require.ErrorIs(t, err, errs.ErrCollectionNotFound)
	})

	t.Run("InsertAndGetAll", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		chunks := []string{"first", "second", "third"}
		embeddings := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
		require.NoError(t, s.InsertAll(ctx, "docs", chunks, embeddings))

		ok, err := s.Exists(ctx, "docs")
		require.NoError(t, err)
		require.True(t, ok)

		stored, err := s.GetAll(ctx, "docs")
		require.NoError(t, err)
		require.Len(t, stored, 3)
		for i, sc := range stored {
			require.Equal(t, chunks[i], sc.Content)
			require.Equal(t, i, sc.Index)
			require.Len(t, sc.Embedding, 3)
		}
		require.Equal(t, "chunk_0", stored[0].ID)
		require.Equal(t, "chunk_2", stored[2].ID)
		require.InDelta(t, 1.0, stored[1].Embedding[1], 1e-6)
	})

	t.Run("SecondInsertFails", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.InsertAll(ctx, "docs", []string{"a"}, [][]float32{{1, 2}}))
		err := s.InsertAll(ctx, "docs", []string{"b"}, [][]float32{{3, 4}})
		require.ErrorIs(t, err, errs.ErrCollectionPopulated)

		stored, err := s.GetAll(ctx, "docs")
		require.NoError(t, err)
		require.Len(t, stored, 1)
		require.Equal(t, "a", stored[0].Content)
	})

	t.Run("InvalidBatchStoresNothing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		err := s.InsertAll(ctx, "docs", []string{"a", "b"}, [][]float32{{1, 2}})
		require.ErrorIs(t, err, errs.ErrInvalidInput)

		err = s.InsertAll(ctx, "docs", []string{"a", "b"}, [][]float32{{1, 2}, {1, 2, 3}})
		require.ErrorIs(t, err, errs.ErrDimensionMismatch)

		ok, err := s.Exists(ctx, "docs")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("DegenerateEmbeddingsRejected", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		err := s.InsertAll(ctx, "docs", []string{"zero", "good"}, [][]float32{{0, 0}, {1, 1}})
		require.ErrorIs(t, err, errs.ErrInvalidInput)

		nan := float32(math.NaN())
		err = s.InsertAll(ctx, "docs", []string{"good", "nan"}, [][]float32{{1, 1}, {nan, 1}})
		require.ErrorIs(t, err, errs.ErrInvalidInput)

		inf := float32(math.Inf(1))
		err = s.InsertAll(ctx, "docs", []string{"inf"}, [][]float32{{inf, 0}})
		require.ErrorIs(t, err, errs.ErrInvalidInput)

		ok, err := s.Exists(ctx, "docs")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("EmptyInsertCreatesCollection", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.InsertAll(ctx, "empty", nil, nil))
		ok, err := s.Exists(ctx, "empty")
		require.NoError(t, err)
		require.False(t, ok)

		stored, err := s.GetAll(ctx, "empty")
		require.NoError(t, err)
		require.Empty(t, stored)
	})

	t.Run("CollectionsAreIsolated", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.InsertAll(ctx, "one", []string{"x"}, [][]float32{{1}}))
		require.NoError(t, s.InsertAll(ctx, "two", []string{"y", "z"}, [][]float32{{1}, {2}}))

		one, err := s.GetAll(ctx, "one")
		require.NoError(t, err)
		require.Len(t, one, 1)
		two, err := s.GetAll(ctx, "two")
		require.NoError(t, err)
		require.Len(t, two, 2)
	})

	t.Run("Reset", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.InsertAll(ctx, "docs", []string{"a"}, [][]float32{{1}}))
		require.NoError(t, s.Reset(ctx))

		ok, err := s.Exists(ctx, "docs")
		require.NoError(t, err)
		require.False(t, ok)
		_, err = s.GetAll(ctx, "docs")
		require.ErrorIs(t, err, errs.ErrCollectionNotFound)

		require.NoError(t, s.InsertAll(ctx, "docs", []string{"b"}, [][]float32{{1}}))
	})
}
