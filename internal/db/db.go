package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"docqa/internal/config"
	"docqa/internal/errs"
	"docqa/internal/models"
	"docqa/internal/vectorstore"
)

type Collection struct {
	bun.BaseModel `bun:"table:collections,alias:col"`
	Name          string    `bun:"name,pk"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Chunk rows carry the embedding as a pgvector column
type Chunk struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            int64           `bun:"id,pk,autoincrement"`
	Collection    string          `bun:"collection,notnull,unique:collection_position"`
	Position      int             `bun:"position,notnull,unique:collection_position"`
	ChunkID       string          `bun:"chunk_id,notnull"`
	Content       string          `bun:"content,notnull"`
	Embedding     pgvector.Vector `bun:"embedding,notnull,type:vector"`
}

var _ vectorstore.Store = (*Store)(nil)

// Store is a Postgres backed vectorstore.Store
type Store struct {
	db *bun.DB
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// ConnectDB opens the database with the configured driver
func ConnectDB(cfg *config.PostgresConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	switch cfg.Driver {
	case "pgdriver", "":
		opts := []pgdriver.Option{pgdriver.WithDSN(cfg.DSN)}
		if cfg.Password != "" {
			opts = append(opts, pgdriver.WithPassword(cfg.Password))
		}
		return sql.OpenDB(pgdriver.NewConnector(opts...)), nil
	case "pq":
		return sql.Open("postgres", cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown postgres driver: %s", cfg.Driver)
	}
}

// Open connects, creates the schema and returns a ready store
func Open(ctx context.Context, cfg *config.PostgresConfig) (*Store, error) {
	sqldb, err := ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	s := NewStore(NewDB(sqldb, cfg.Debug))
	if err := s.InitDB(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InitDB(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return err
	}
	if _, err := s.db.NewCreateTable().Model((*Collection)(nil)).IfNotExists().Exec(ctx); err != nil {
		return err
	}
	_, err := s.db.NewCreateTable().Model((*Chunk)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *Store) Exists(ctx context.Context, collection string) (bool, error) {
	return s.db.NewSelect().
		Model((*Chunk)(nil)).
		Where("collection = ?", collection).
		Exists(ctx)
}

func (s *Store) InsertAll(ctx context.Context, collection string, chunks []string, embeddings [][]float32) error {
	if _, err := vectorstore.ValidateBatch(chunks, embeddings); err != nil {
		return err
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// the collection row serializes concurrent writers of the same name
		_, err := tx.NewInsert().
			Model(&Collection{Name: collection}).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		locked := new(Collection)
		if err := tx.NewSelect().
			Model(locked).
			Where("name = ?", collection).
			For("UPDATE").
			Scan(ctx); err != nil {
			return fmt.Errorf("failed to lock collection: %w", err)
		}

		populated, err := tx.NewSelect().
			Model((*Chunk)(nil)).
			Where("collection = ?", collection).
			Exists(ctx)
		if err != nil {
			return err
		}
		if populated {
			return fmt.Errorf("%w: %s", errs.ErrCollectionPopulated, collection)
		}
		if len(chunks) == 0 {
			return nil
		}

		rows := make([]Chunk, len(chunks))
		for i, content := range chunks {
			rows[i] = Chunk{
				Collection: collection,
				Position:   i,
				ChunkID:    models.ChunkID(i),
				Content:    content,
				Embedding:  pgvector.NewVector(embeddings[i]),
			}
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("failed to store chunks: %w", err)
		}
		log.Debug().Str("collection", collection).Int("chunks", len(rows)).Msg("Stored chunks in postgres")
		return nil
	})
}

func (s *Store) GetAll(ctx context.Context, collection string) ([]models.StoredChunk, error) {
	err := s.db.NewSelect().
		Model(new(Collection)).
		Where("name = ?", collection).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", errs.ErrCollectionNotFound, collection)
	}
	if err != nil {
		return nil, err
	}

	var rows []Chunk
	if err := s.db.NewSelect().
		Model(&rows).
		Column("position", "chunk_id", "content", "embedding").
		Where("collection = ?", collection).
		Order("position ASC").
		Scan(ctx); err != nil {
		return nil, err
	}

	out := make([]models.StoredChunk, len(rows))
	for i, r := range rows {
		out[i] = models.StoredChunk{
			Chunk:     models.Chunk{ID: r.ChunkID, Index: r.Position, Content: r.Content},
			Embedding: r.Embedding.Slice(),
		}
	}
	return out, nil
}

// Reset drops every collection
func (s *Store) Reset(ctx context.Context) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewTruncateTable().Model((*Chunk)(nil)).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewTruncateTable().Model((*Collection)(nil)).Exec(ctx)
		return err
	})
}

// drop tables, used by tests and full teardown
func (s *Store) DropTables(ctx context.Context) error {
	if _, err := s.db.NewDropTable().Model((*Chunk)(nil)).IfExists().Exec(ctx); err != nil {
		return err
	}
	_, err := s.db.NewDropTable().Model((*Collection)(nil)).IfExists().Exec(ctx)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
