package chromemdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"docqa/internal/errs"
	"docqa/internal/vectorstore"
	"docqa/internal/vectorstore/storetest"
)

func TestChromemInMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) vectorstore.Store {
		m, err := NewVectorDBManager("", true, false, "")
		require.NoError(t, err)
		return m
	})
}

func TestChromemPersistentReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	m, err := NewVectorDBManager(dir, false, false, "")
	require.NoError(t, err)
	require.NoError(t, m.InsertAll(ctx, "docs", []string{"a", "b"}, [][]float32{{1, 0}, {0, 1}}))

	reopened, err := NewVectorDBManager(dir, false, false, "")
	require.NoError(t, err)
	ok, err := reopened.Exists(ctx, "docs")
	require.NoError(t, err)
	require.True(t, ok)

	stored, err := reopened.GetAll(ctx, "docs")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, "b", stored[1].Content)
}

func TestChromemExportImport(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	key := "0123456789abcdef0123456789abcdef"

	m, err := NewVectorDBManager(dir, false, false, key)
	require.NoError(t, err)
	require.NoError(t, m.InsertAll(ctx, "docs", []string{"a"}, [][]float32{{1, 0}}))

	path, err := m.Export(ctx, "docs")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "docs.chromem"), path)

	fresh, err := NewVectorDBManager("", true, false, key)
	require.NoError(t, err)
	require.NoError(t, fresh.Import(ctx, path, "docs"))

	stored, err := fresh.GetAll(ctx, "docs")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "a", stored[0].Content)
}

func TestChromemImportIntoPopulatedCollection(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	key := "0123456789abcdef0123456789abcdef"

	src, err := NewVectorDBManager(dir, false, false, key)
	require.NoError(t, err)
	require.NoError(t, src.InsertAll(ctx, "docs", []string{"x"}, [][]float32{{1, 0}}))
	path, err := src.Export(ctx, "docs")
	require.NoError(t, err)

	dst, err := NewVectorDBManager("", true, false, key)
	require.NoError(t, err)
	require.NoError(t, dst.InsertAll(ctx, "docs", []string{"a", "b", "c"}, [][]float32{{1, 0}, {0, 1}, {1, 1}}))

	err = dst.Import(ctx, path, "docs")
	require.ErrorIs(t, err, errs.ErrCollectionPopulated)

	stored, err := dst.GetAll(ctx, "docs")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	require.Equal(t, "a", stored[0].Content)
}

func TestChromemRetrievalMatchesMemory(t *testing.T) {
	ctx := context.Background()
	m, err := NewVectorDBManager("", true, false, "")
	require.NoError(t, err)
	require.NoError(t, m.InsertAll(ctx, "docs", []string{"long", "short"}, [][]float32{{3, 4}, {0.6, 0.8}}))

	stored, err := m.GetAll(ctx, "docs")
	require.NoError(t, err)
	for _, sc := range stored {
		sim, err := vectorstore.CosineSimilarity([]float32{3, 4}, sc.Embedding)
		require.NoError(t, err)
		require.InDelta(t, 1.0, sim, 1e-6)
	}
}

func TestChromemExportRequiresKey(t *testing.T) {
	m, err := NewVectorDBManager(t.TempDir(), false, false, "")
	require.NoError(t, err)
	_, err = m.Export(context.Background(), "docs")
	require.Error(t, err)
}
