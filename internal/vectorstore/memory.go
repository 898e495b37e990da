package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"docqa/internal/errs"
	"docqa/internal/models"
)

// Memory is an in-process Store. Collections live until Reset or process exit.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]models.StoredChunk
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]models.StoredChunk)}
}

func (m *Memory) Exists(_ context.Context, collection string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection]) > 0, nil
}

func (m *Memory) InsertAll(_ context.Context, collection string, chunks []string, embeddings [][]float32) error {
	if _, err := ValidateBatch(chunks, embeddings); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.collections[collection]) > 0 {
		return fmt.Errorf("%w: %s", errs.ErrCollectionPopulated, collection)
	}
	stored := make([]models.StoredChunk, len(chunks))
	for i, content := range chunks {
		emb := make([]float32, len(embeddings[i]))
		copy(emb, embeddings[i])
		stored[i] = models.StoredChunk{
			Chunk:     models.Chunk{ID: models.ChunkID(i), Index: i, Content: content},
			Embedding: emb,
		}
	}
	m.collections[collection] = stored
	return nil
}

func (m *Memory) GetAll(_ context.Context, collection string) ([]models.StoredChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrCollectionNotFound, collection)
	}
	out := make([]models.StoredChunk, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections = make(map[string][]models.StoredChunk)
	return nil
}

func (m *Memory) Close() error { return nil }
