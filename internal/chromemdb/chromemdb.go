package chromemdb

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"docqa/internal/errs"
	"docqa/internal/models"
	"docqa/internal/vectorstore"
)

var _ vectorstore.Store = (*VectorDBManager)(nil)

// VectorDBManager stores collections in a chromem-go database
type VectorDBManager struct {
	mu            sync.Mutex
	db            *chromem.DB
	dbPath        string
	compress      bool
	encryptionKey string
}

// NewVectorDBManager initializes a new vector database manager
func NewVectorDBManager(dbPath string, inMemory, compress bool, encryptionKey string) (*VectorDBManager, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	return &VectorDBManager{
		db:            db,
		dbPath:        dbPath,
		compress:      compress,
		encryptionKey: encryptionKey,
	}, nil
}

func (m *VectorDBManager) Exists(_ context.Context, collection string) (bool, error) {
	c := m.db.GetCollection(collection, nil)
	return c != nil && c.Count() > 0, nil
}

// add all chunks of a collection, ids follow chunk order
func (m *VectorDBManager) InsertAll(ctx context.Context, collection string, chunks []string, embeddings [][]float32) error {
	if _, err := vectorstore.ValidateBatch(chunks, embeddings); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.db.GetOrCreateCollection(collection, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create/get collection: %w", err)
	}
	if c.Count() > 0 {
		return fmt.Errorf("%w: %s", errs.ErrCollectionPopulated, collection)
	}
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, content := range chunks {
		emb := make([]float32, len(embeddings[i]))
		copy(emb, embeddings[i])
		docs[i] = chromem.Document{
			ID:        models.ChunkID(i),
			Content:   content,
			Metadata:  map[string]string{"collection": collection},
			Embedding: emb,
		}
	}

	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	log.Debug().Str("collection", collection).Int("documents", len(docs)).Msg("Added documents to chromem")
	return nil
}

// GetAll reads documents back by id. Embeddings come back normalized, which
// leaves cosine similarity unchanged.
func (m *VectorDBManager) GetAll(ctx context.Context, collection string) ([]models.StoredChunk, error) {
	c := m.db.GetCollection(collection, nil)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrCollectionNotFound, collection)
	}

	n := c.Count()
	out := make([]models.StoredChunk, 0, n)
	for i := 0; i < n; i++ {
		doc, err := c.GetByID(ctx, models.ChunkID(i))
		if err != nil {
			return nil, fmt.Errorf("failed to get document %s: %w", models.ChunkID(i), err)
		}
		idx, err := models.ParseChunkID(doc.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.StoredChunk{
			Chunk:     models.Chunk{ID: doc.ID, Index: idx, Content: doc.Content},
			Embedding: doc.Embedding,
		})
	}
	return out, nil
}

// delete all collections
func (m *VectorDBManager) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name := range m.db.ListCollections() {
		if err := m.db.DeleteCollection(name); err != nil {
			return fmt.Errorf("failed to drop collection %s: %w", name, err)
		}
	}
	return nil
}

func (m *VectorDBManager) Close() error { return nil }

// export a collection to an encrypted file next to the database
func (m *VectorDBManager) Export(_ context.Context, collection string) (string, error) {
	if m.encryptionKey == "" {
		return "", fmt.Errorf("encryption key is required")
	}
	if m.db.GetCollection(collection, nil) == nil {
		return "", fmt.Errorf("%w: %s", errs.ErrCollectionNotFound, collection)
	}
	if m.dbPath == "" {
		return "", fmt.Errorf("db path is required")
	}

	filePath := m.exportPath(collection)
	log.Debug().
		Str("collection", collection).
		Str("file", filePath).
		Bool("compress", m.compress).
		Msg("Exporting collection")
	if err := m.db.ExportToFile(filePath, m.compress, m.encryptionKey, collection); err != nil {
		return "", fmt.Errorf("failed to export database: %w", err)
	}
	return filePath, nil
}

// import a collection previously written by Export into an empty one
func (m *VectorDBManager) Import(_ context.Context, filePath, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c := m.db.GetCollection(collection, nil); c != nil && c.Count() > 0 {
		return fmt.Errorf("%w: %s", errs.ErrCollectionPopulated, collection)
	}
	if err := m.db.ImportFromFile(filePath, m.encryptionKey, collection); err != nil {
		return fmt.Errorf("failed to import database: %w", err)
	}
	return nil
}

func (m *VectorDBManager) exportPath(collection string) string {
	name := collection + ".chromem"
	if m.compress {
		name += ".gz"
	}
	return filepath.Join(m.dbPath, name)
}
