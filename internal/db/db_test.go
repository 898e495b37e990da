package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"docqa/internal/config"
	"docqa/internal/vectorstore"
	"docqa/internal/vectorstore/storetest"
)

func openTestStore(t *testing.T) *Store {
	dsn := os.Getenv("DOCQA_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("DOCQA_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, &config.PostgresConfig{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, s.Reset(ctx))
	t.Cleanup(func() {
		_ = s.DropTables(ctx)
		_ = s.Close()
	})
	return s
}

func TestPostgresStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) vectorstore.Store {
		return openTestStore(t)
	})
}

func TestConnectDB(t *testing.T) {
	_, err := ConnectDB(&config.PostgresConfig{})
	require.Error(t, err)

	_, err = ConnectDB(&config.PostgresConfig{DSN: "postgres://localhost/db", Driver: "mysql"})
	require.Error(t, err)

	sqldb, err := ConnectDB(&config.PostgresConfig{DSN: "postgres://localhost/db?sslmode=disable", Driver: "pq"})
	require.NoError(t, err)
	require.NoError(t, sqldb.Close())
}
