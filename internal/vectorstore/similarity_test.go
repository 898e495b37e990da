package vectorstore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"docqa/internal/errs"
)

func TestCosineSimilarity(t *testing.T) {
	sim, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	require.Equal(t, 0.0, sim)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	require.Equal(t, 1.0, sim)

	sim, err = CosineSimilarity([]float32{1, 2, 3}, []float32{10, 20, 30})
	require.NoError(t, err)
	require.InDelta(t, 1.0, sim, 1e-9)

	sim, err = CosineSimilarity([]float32{0, 0}, []float32{1, 1})
	require.NoError(t, err)
	require.Equal(t, 0.0, sim)

	_, err = CosineSimilarity([]float32{1}, []float32{1, 2})
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
}

func TestValidateBatch(t *testing.T) {
	dim, err := ValidateBatch(nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, dim)

	dim, err = ValidateBatch([]string{"a", "b"}, [][]float32{{1, 2}, {3, 4}})
	require.NoError(t, err)
	require.Equal(t, 2, dim)

	_, err = ValidateBatch([]string{"a"}, [][]float32{{}})
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = ValidateBatch([]string{"zero", "good"}, [][]float32{{0, 0}, {1, 1}})
	require.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = ValidateBatch([]string{"nan"}, [][]float32{{float32(math.NaN()), 1}})
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}
