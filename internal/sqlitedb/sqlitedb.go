package sqlitedb

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"docqa/internal/errs"
	"docqa/internal/models"
	"docqa/internal/vectorstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS chunks (
	collection TEXT    NOT NULL REFERENCES collections(name) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	chunk_id   TEXT    NOT NULL,
	content    TEXT    NOT NULL,
	embedding  BLOB    NOT NULL,
	PRIMARY KEY (collection, position)
);`

var _ vectorstore.Store = (*Store)(nil)

// Store keeps collections in a single SQLite file. Embeddings are stored as
// little-endian float32 blobs.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Exists(ctx context.Context, collection string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM chunks WHERE collection = ?", collection).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) InsertAll(ctx context.Context, collection string, chunks []string, embeddings [][]float32) error {
	if _, err := vectorstore.ValidateBatch(chunks, embeddings); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO collections (name) VALUES (?)", collection); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM chunks WHERE collection = ?", collection).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", errs.ErrCollectionPopulated, collection)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO chunks (collection, position, chunk_id, content, embedding) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, content := range chunks {
		if _, err := stmt.ExecContext(ctx, collection, i, models.ChunkID(i), content, encodeEmbedding(embeddings[i])); err != nil {
			return fmt.Errorf("failed to store %s: %w", models.ChunkID(i), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug().Str("collection", collection).Int("chunks", len(chunks)).Msg("Stored chunks in sqlite")
	return nil
}

func (s *Store) GetAll(ctx context.Context, collection string) ([]models.StoredChunk, error) {
	var name string
	err := s.db.QueryRowContext(ctx, "SELECT name FROM collections WHERE name = ?", collection).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", errs.ErrCollectionNotFound, collection)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT position, chunk_id, content, embedding FROM chunks WHERE collection = ? ORDER BY position", collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.StoredChunk{}
	for rows.Next() {
		var sc models.StoredChunk
		var blob []byte
		if err := rows.Scan(&sc.Index, &sc.ID, &sc.Content, &blob); err != nil {
			return nil, err
		}
		if sc.Embedding, err = decodeEmbedding(blob); err != nil {
			return nil, fmt.Errorf("%s: %w", sc.ID, err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections"); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func encodeEmbedding(vec []float32) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

func decodeEmbedding(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}
