package errs

import "errors"

var (
	// ErrNotFound is returned when a source document is missing or unreadable.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedFormat is returned for files the parser cannot read.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrEmbeddingFailure wraps every failure of the embedding model.
	ErrEmbeddingFailure = errors.New("embedding failure")
	// ErrCollectionNotFound is returned when reading a collection that was never created.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrCollectionPopulated is returned when inserting into a collection that already holds chunks.
	ErrCollectionPopulated = errors.New("collection already populated")
	ErrDimensionMismatch   = errors.New("embedding dimension mismatch")
	ErrInvalidInput        = errors.New("invalid input")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsCollectionNotFound(err error) bool {
	return errors.Is(err, ErrCollectionNotFound)
}

func IsEmbeddingFailure(err error) bool {
	return errors.Is(err, ErrEmbeddingFailure)
}
