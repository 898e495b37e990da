package vectorstore

import (
	"fmt"
	"math"

	"docqa/internal/errs"
)

// CosineSimilarity computes (a·b)/(|a||b|). Vectors of different length are
// an error; a zero-magnitude vector scores 0 against anything.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", errs.ErrDimensionMismatch, len(a), len(b))
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0, nil
	}
	return dot / math.Sqrt(na2*nb2), nil
}
