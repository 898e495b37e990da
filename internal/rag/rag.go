package rag

import (
	"context"

	"github.com/rs/zerolog/log"

	"docqa/internal/errs"
	"docqa/internal/models"
)

// Answerer turns a question and its context into a reply
type Answerer interface {
	Answer(ctx context.Context, question, contextText, lang string) (string, error)
}

type RAG struct {
	retriever *Retriever
	answerer  Answerer
}

func NewRAG(retriever *Retriever, answerer Answerer) *RAG {
	return &RAG{retriever: retriever, answerer: answerer}
}

// Context returns the best matching chunk for question. Retrieval failures
// are logged and yield "" so the model can still answer without context.
func (r *RAG) Context(ctx context.Context, collection, question string) string {
	source, err := r.retriever.Retrieve(ctx, collection, question)
	if err != nil {
		log.Warn().Err(err).
			Str("collection", collection).
			Bool("embedding_failure", errs.IsEmbeddingFailure(err)).
			Msg("Retrieval failed, answering without context")
		return ""
	}
	return source
}

// Ask retrieves context for question and asks the model
func (r *RAG) Ask(ctx context.Context, collection, question, lang string) (*models.PromptResponse, error) {
	source := r.Context(ctx, collection, question)
	answer, err := r.answerer.Answer(ctx, question, source, lang)
	if err != nil {
		return nil, err
	}
	return &models.PromptResponse{Query: question, Source: source, Content: answer}, nil
}
