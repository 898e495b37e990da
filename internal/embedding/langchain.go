package embedding

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"docqa/internal/config"
	"docqa/internal/errs"
)

// LangchainEmbedder adapts a langchaingo embedder to Embedder.
type LangchainEmbedder struct {
	impl embeddings.Embedder

	mu  sync.Mutex
	dim int
}

func NewLangchainEmbedder(impl embeddings.Embedder) *LangchainEmbedder {
	return &LangchainEmbedder{impl: impl}
}

// new ollama embedder
func NewOllamaEmbedder(cfg *config.EmbedderConfig) (*LangchainEmbedder, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithBatchSize(cfg.BatchSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return NewLangchainEmbedder(embedder), nil
}

// NewOpenAIEmbedder creates an embedder for any OpenAI compatible endpoint
func NewOpenAIEmbedder(cfg *config.EmbedderConfig) (*LangchainEmbedder, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.APIKey(), "Bearer ")),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize openai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm, embeddings.WithBatchSize(cfg.BatchSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return NewLangchainEmbedder(embedder), nil
}

func (e *LangchainEmbedder) Dimension() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dim
}

func (e *LangchainEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := e.impl.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrEmbeddingFailure, err)
	}
	return e.accept(vectors, len(texts))
}

func (e *LangchainEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.impl.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrEmbeddingFailure, err)
	}
	vectors, err := e.accept([][]float32{vector}, 1)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *LangchainEmbedder) accept(vectors [][]float32, want int) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	dim, err := checkVectors(vectors, want, e.dim)
	if err != nil {
		return nil, err
	}
	if e.dim == 0 {
		log.Debug().Int("dimension", dim).Msg("Embedding dimension detected")
		e.dim = dim
	}
	return vectors, nil
}
