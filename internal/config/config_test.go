package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "document_chunks", cfg.Collection)
	require.Equal(t, "chromem", cfg.Store.Type)
	require.Equal(t, "hash", cfg.Embedder.Type)
	require.Equal(t, 30, cfg.LLM.MaxTokens)
	require.Equal(t, "en", cfg.LLM.DefaultLang)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
collection: tales
chunker:
  type: words
  words_per_chunk: 50
embedder:
  type: ollama
  base_url: http://localhost:11434
  model: nomic-embed-text
  cache_size: 128
store:
  type: chromem
  chromem:
    path: /tmp/vectors
llm:
  model: command-xlarge
  key: secret
  temperature: 0.2
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "tales", cfg.Collection)
	require.Equal(t, 50, cfg.Chunker.WordsPerChunk)
	require.Equal(t, "ollama", cfg.Embedder.Type)
	require.Equal(t, 600, cfg.Embedder.CacheTTLSecs)
	require.Equal(t, "/tmp/vectors", cfg.Store.Chromem.Path)
	require.Equal(t, "secret", cfg.LLM.APIKey())
	require.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	require.Equal(t, "pgdriver", cfg.Store.Postgres.Driver)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collection: [unterminated"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("DOCQA_TEST_KEY", " from-env ")
	cfg := EmbedderConfig{KeyEnv: "DOCQA_TEST_KEY"}
	require.Equal(t, "from-env", cfg.APIKey())

	cfg.Key = "inline"
	require.Equal(t, "inline", cfg.APIKey())
}
