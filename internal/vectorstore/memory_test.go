package vectorstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"docqa/internal/vectorstore"
	"docqa/internal/vectorstore/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) vectorstore.Store {
		return vectorstore.NewMemory()
	})
}

func TestMemoryStoreCopiesEmbeddings(t *testing.T) {
	s := vectorstore.NewMemory()
	ctx := context.Background()
	emb := []float32{1, 2}
	require.NoError(t, s.InsertAll(ctx, "docs", []string{"a"}, [][]float32{emb}))
	emb[0] = 99

	stored, err := s.GetAll(ctx, "docs")
	require.NoError(t, err)
	require.Equal(t, []float32{1, 2}, stored[0].Embedding)
}
