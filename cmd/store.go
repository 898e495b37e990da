package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"docqa/internal/chromemdb"
	"docqa/internal/config"
	"docqa/internal/db"
	"docqa/internal/helper"
	"docqa/internal/sqlitedb"
	"docqa/internal/vectorstore"
)

const (
	storeMemory   = "memory"
	storeChromem  = "chromem"
	storePostgres = "postgres"
	storeSQLite   = "sqlite"
)

func openStore(ctx context.Context, cfg *config.StoreConfig) (vectorstore.Store, error) {
	log.Debug().Str("store", cfg.Type).Msg("Opening store")
	switch cfg.Type {
	case storeMemory:
		log.Warn().Msg("Memory store does not outlive this command, ingested chunks will be lost")
		return vectorstore.NewMemory(), nil
	case storeChromem:
		return openChromem(cfg)
	case storePostgres:
		s, err := db.Open(ctx, &cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("error connecting to database: %w", err)
		}
		return s, nil
	case storeSQLite:
		s, err := sqlitedb.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("error opening sqlite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}

func openChromem(cfg *config.StoreConfig) (*chromemdb.VectorDBManager, error) {
	if cfg.Type != storeChromem {
		return nil, fmt.Errorf("store type %q has no collection files, use %q", cfg.Type, storeChromem)
	}
	if err := helper.CreateFolder(cfg.Chromem.Path); err != nil {
		return nil, fmt.Errorf("error creating folder: %w", err)
	}
	m, err := chromemdb.NewVectorDBManager(cfg.Chromem.Path, cfg.Chromem.InMemory, cfg.Chromem.Compress, cfg.Chromem.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("error creating vector database manager: %w", err)
	}
	return m, nil
}
