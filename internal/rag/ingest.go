package rag

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"docqa/internal/chunker"
	"docqa/internal/embedding"
	"docqa/internal/helper"
	"docqa/internal/parser"
	"docqa/internal/vectorstore"
)

// Ingester populates a collection once per document: split, embed, insert.
type Ingester struct {
	// held across the exists check and the insert
	mu       sync.Mutex
	chunker  chunker.Chunker
	embedder embedding.Embedder
	store    vectorstore.Store
}

func NewIngester(c chunker.Chunker, e embedding.Embedder, s vectorstore.Store) *Ingester {
	return &Ingester{chunker: c, embedder: e, store: s}
}

// Ingest stores the chunks of text under collection. A collection that
// already holds chunks is left untouched. Nothing is stored unless the whole
// batch was embedded.
func (in *Ingester) Ingest(ctx context.Context, collection, text string) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	logger := log.With().Str("collection", collection).Str("run_id", helper.GenerateRunID()).Logger()

	exists, err := in.store.Exists(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		logger.Info().Msg("Collection already populated, skipping ingestion")
		return nil
	}

	chunks := in.chunker.Split(text)
	logger.Debug().Int("chunks", len(chunks)).Msg("Split document")

	var embeddings [][]float32
	if len(chunks) > 0 {
		embeddings, err = in.embedder.Embed(ctx, chunks)
		if err != nil {
			return fmt.Errorf("failed to embed chunks: %w", err)
		}
	}

	if err := in.store.InsertAll(ctx, collection, chunks, embeddings); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}
	logger.Info().Int("chunks", len(chunks)).Msg("Ingested document")
	return nil
}

// IngestFile reads the document at path and ingests its text
func (in *Ingester) IngestFile(ctx context.Context, collection, path string) error {
	text, err := parser.ReadDocument(path)
	if err != nil {
		return err
	}
	return in.Ingest(ctx, collection, text)
}
