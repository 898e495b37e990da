package rag

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"docqa/internal/embedding"
	"docqa/internal/errs"
	"docqa/internal/models"
	"docqa/internal/vectorstore"
)

// Retriever ranks the stored chunks of a collection against a query by
// cosine similarity.
type Retriever struct {
	embedder embedding.Embedder
	store    vectorstore.Store
}

func NewRetriever(e embedding.Embedder, s vectorstore.Store) *Retriever {
	return &Retriever{embedder: e, store: s}
}

// Retrieve returns the text of the best matching chunk, or "" when the
// collection is missing or empty. Ties go to the chunk stored first.
func (r *Retriever) Retrieve(ctx context.Context, collection, query string) (string, error) {
	matches, err := r.Search(ctx, collection, query, 1)
	if err != nil || len(matches) == 0 {
		return "", err
	}
	return matches[0].Content, nil
}

// Search returns up to k chunks ordered by descending similarity, keeping
// storage order among equal scores. k <= 0 returns every chunk.
func (r *Retriever) Search(ctx context.Context, collection, query string, k int) ([]models.Match, error) {
	stored, err := r.store.GetAll(ctx, collection)
	if errs.IsCollectionNotFound(err) {
		log.Warn().Str("collection", collection).Msg("Collection does not exist")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	if len(stored) == 0 {
		return nil, nil
	}

	queryEmbedding, err := r.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := rank(queryEmbedding, stored)
	if err != nil {
		return nil, err
	}
	if k > 0 && k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

func rank(query []float32, stored []models.StoredChunk) ([]models.Match, error) {
	matches := make([]models.Match, len(stored))
	for i, sc := range stored {
		score, err := vectorstore.CosineSimilarity(query, sc.Embedding)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", sc.ID, err)
		}
		if math.IsNaN(score) {
			score = math.Inf(-1)
		}
		matches[i] = models.Match{Chunk: sc.Chunk, Score: score}
	}
	sort.SliceStable(matches, func(a, b int) bool { return matches[a].Score > matches[b].Score })
	return matches, nil
}
