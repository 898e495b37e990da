package vectorstore

import (
	"context"
	"fmt"
	"math"

	"docqa/internal/errs"
	"docqa/internal/models"
)

// Store persists named collections of chunks with their embeddings.
//
// A collection is written once: InsertAll fails with errs.ErrCollectionPopulated
// when the collection already holds chunks. GetAll returns
// errs.ErrCollectionNotFound for collections that were never created.
type Store interface {
	Exists(ctx context.Context, collection string) (bool, error)
	InsertAll(ctx context.Context, collection string, chunks []string, embeddings [][]float32) error
	GetAll(ctx context.Context, collection string) ([]models.StoredChunk, error)
	Reset(ctx context.Context) error
	Close() error
}

// ValidateBatch checks that chunks and embeddings line up and share one
// dimension, and that every embedding is finite with a non-zero magnitude.
// It returns that dimension, or 0 for an empty batch.
func ValidateBatch(chunks []string, embeddings [][]float32) (int, error) {
	if len(chunks) != len(embeddings) {
		return 0, fmt.Errorf("%w: %d chunks but %d embeddings", errs.ErrInvalidInput, len(chunks), len(embeddings))
	}
	dim := 0
	for i, e := range embeddings {
		if len(e) == 0 {
			return 0, fmt.Errorf("%w: empty embedding for %s", errs.ErrInvalidInput, models.ChunkID(i))
		}
		if dim == 0 {
			dim = len(e)
		}
		if len(e) != dim {
			return 0, fmt.Errorf("%w: %s has dimension %d, want %d", errs.ErrDimensionMismatch, models.ChunkID(i), len(e), dim)
		}
		if err := checkVector(e); err != nil {
			return 0, fmt.Errorf("%w: %s %v", errs.ErrInvalidInput, models.ChunkID(i), err)
		}
	}
	return dim, nil
}

func checkVector(v []float32) error {
	var norm float64
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("has non-finite component %v", x)
		}
		norm += f * f
	}
	if norm == 0 {
		return fmt.Errorf("has zero magnitude")
	}
	return nil
}
