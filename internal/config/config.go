package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"docqa/internal/models"
)

type Config struct {
	Collection string         `yaml:"collection"`
	Log        LogConfig      `yaml:"log"`
	Chunker    ChunkerConfig  `yaml:"chunker"`
	Embedder   EmbedderConfig `yaml:"embedder"`
	Store      StoreConfig    `yaml:"store"`
	LLM        LLMConfig      `yaml:"llm"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

type ChunkerConfig struct {
	Type          string `yaml:"type"`
	WordsPerChunk int    `yaml:"words_per_chunk"`
}

type EmbedderConfig struct {
	Type         string `yaml:"type"`
	BaseURL      string `yaml:"base_url"`
	Model        string `yaml:"model"`
	Key          string `yaml:"key"`
	KeyEnv       string `yaml:"key_env"`
	Dimension    int    `yaml:"dimension"`
	BatchSize    int    `yaml:"batch_size"`
	CacheSize    int    `yaml:"cache_size"`
	CacheTTLSecs int    `yaml:"cache_ttl_secs"`
}

func (c *EmbedderConfig) APIKey() string {
	return resolveKey(c.Key, c.KeyEnv)
}

type StoreConfig struct {
	Type     string         `yaml:"type"`
	Chromem  ChromemConfig  `yaml:"chromem"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

type ChromemConfig struct {
	Path          string `yaml:"path"`
	InMemory      bool   `yaml:"in_memory"`
	Compress      bool   `yaml:"compress"`
	EncryptionKey string `yaml:"encryption_key"`
}

type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	// Driver is "pgdriver" (default) or "pq".
	Driver string `yaml:"driver"`
	Debug  bool   `yaml:"debug"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Key         string  `yaml:"key"`
	KeyEnv      string  `yaml:"key_env"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	DefaultLang string  `yaml:"default_lang"`
}

func (c *LLMConfig) APIKey() string {
	return resolveKey(c.Key, c.KeyEnv)
}

// LoadConfig reads the YAML file at path. A missing file yields the defaults.
// Variables from a .env file in the working directory are loaded first so
// key_env lookups can see them.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Default returns a configuration that needs no external services
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Collection == "" {
		cfg.Collection = models.DefaultCollection
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "paragraph"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "hash"
	}
	if cfg.Embedder.BatchSize == 0 {
		cfg.Embedder.BatchSize = 32
	}
	if cfg.Embedder.CacheSize > 0 && cfg.Embedder.CacheTTLSecs == 0 {
		cfg.Embedder.CacheTTLSecs = 600
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "chromem"
	}
	if cfg.Store.Chromem.Path == "" {
		cfg.Store.Chromem.Path = "./chromemdb"
	}
	if cfg.Store.Postgres.Driver == "" {
		cfg.Store.Postgres.Driver = "pgdriver"
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = "./docqa.db"
	}
	if cfg.LLM.KeyEnv == "" && cfg.LLM.Key == "" {
		cfg.LLM.KeyEnv = "LLM_API_KEY"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 30
	}
	if cfg.LLM.DefaultLang == "" {
		cfg.LLM.DefaultLang = "en"
	}
}

func resolveKey(key, env string) string {
	if key != "" {
		return strings.TrimSpace(key)
	}
	if env == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(env))
}
