package llmservice

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"docqa/internal/config"
	"docqa/internal/models"
)

var thinkRe = regexp.MustCompile(models.ThinkTag)

// Generator answers questions from retrieved context
type Generator struct {
	llm         llms.Model
	maxTokens   int
	temperature float64
	defaultLang string
}

func NewGenerator(llm llms.Model, cfg *config.LLMConfig) *Generator {
	return &Generator{
		llm:         llm,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		defaultLang: cfg.DefaultLang,
	}
}

// NewOpenAIGenerator talks to any OpenAI compatible completion endpoint
func NewOpenAIGenerator(cfg *config.LLMConfig) (*Generator, error) {
	log.Debug().Interface("llmConfig", map[string]any{
		"base_url":   cfg.BaseURL,
		"model":      cfg.Model,
		"max_tokens": cfg.MaxTokens,
	}).Msg("Creating generator")

	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.APIKey(), "Bearer ")),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm: %w", err)
	}
	return NewGenerator(llm, cfg), nil
}

// BuildPrompt renders the template for lang with the given context and question
func BuildPrompt(lang, question, contextText string) string {
	_, tpl := SelectTemplate(lang)
	return fmt.Sprintf(tpl, contextText, question)
}

// call llm
func (g *Generator) Answer(ctx context.Context, question, contextText, lang string) (string, error) {
	if lang == "" {
		lang = g.defaultLang
	}
	prompt := BuildPrompt(lang, question, contextText)
	log.Debug().Str("lang", lang).Int("context_len", len(contextText)).Msg("Generating answer")

	msgContent := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	opts := []llms.CallOption{llms.WithTemperature(g.temperature)}
	if g.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(g.maxTokens))
	}

	res, err := g.llm.GenerateContent(ctx, msgContent, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("failed to generate answer: empty response")
	}
	return strings.TrimSpace(thinkRe.ReplaceAllString(res.Choices[0].Content, "")), nil
}
