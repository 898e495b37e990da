package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/embedding"
	"docqa/internal/helper"
	"docqa/internal/llmservice"
	"docqa/internal/parser"
	"docqa/internal/rag"
)

const configFilePath = "./configs/config.yaml"

var (
	configPath string
	logLevel   string
	timeout    time.Duration
	collection string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "docqa",
		Short:         "Ask questions about a document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", configFilePath, "path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "timeout for the whole command")
	rootCmd.PersistentFlags().StringVar(&collection, "collection", "", "collection name, overrides the config file")

	rootCmd.AddCommand(
		ingestCmd(),
		contextCmd(),
		askCmd(),
		searchCmd(),
		chunksCmd(),
		resetCmd(),
		exportCmd(),
		importCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

// setup loads the config, applies flag overrides and configures logging
func setup(cmd *cobra.Command) (*config.Config, context.Context, context.CancelFunc, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if collection != "" {
		cfg.Collection = collection
	}
	if err := helper.SetupLogger(cfg.Log.Level, cfg.Log.Console); err != nil {
		return nil, nil, nil, err
	}
	log.Debug().Str("config", configPath).Str("store", cfg.Store.Type).Str("embedder", cfg.Embedder.Type).Msg("Loaded config")

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	return cfg, ctx, cancel, nil
}

type pipeline struct {
	ingester  *rag.Ingester
	retriever *rag.Retriever
	close     func() error
}

func newPipeline(ctx context.Context, cfg *config.Config) (*pipeline, error) {
	c, err := chunker.New(cfg.Chunker.Type, cfg.Chunker.WordsPerChunk)
	if err != nil {
		return nil, err
	}
	embedder, err := embedding.New(&cfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("error initializing embedder: %w", err)
	}
	store, err := openStore(ctx, &cfg.Store)
	if err != nil {
		return nil, err
	}
	return &pipeline{
		ingester:  rag.NewIngester(c, embedder, store),
		retriever: rag.NewRetriever(embedder, store),
		close:     store.Close,
	}, nil
}

func ingestCmd() *cobra.Command {
	var filePath string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Split, embed and store a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctx, cancel, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			p, err := newPipeline(ctx, cfg)
			if err != nil {
				return err
			}
			defer p.close()

			if err := p.ingester.IngestFile(ctx, cfg.Collection, filePath); err != nil {
				return fmt.Errorf("error ingesting %s: %w", filePath, err)
			}
			log.Info().Str("file", filePath).Str("collection", cfg.Collection).Msg("Document ready")
			return nil
		},
	}
	cmd.Flags().StringVar(&filePath, "file", "", "path to the document file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func contextCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Print the chunk that best matches a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctx, cancel, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			p, err := newPipeline(ctx, cfg)
			if err != nil {
				return err
			}
			defer p.close()

			source := rag.NewRAG(p.retriever, nil).Context(ctx, cfg.Collection, query)
			fmt.Fprintln(cmd.OutOrStdout(), source)
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "query to match")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

func askCmd() *cobra.Command {
	var query, lang string
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer a query using the best matching chunk as context",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctx, cancel, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			p, err := newPipeline(ctx, cfg)
			if err != nil {
				return err
			}
			defer p.close()

			generator, err := llmservice.NewOpenAIGenerator(&cfg.LLM)
			if err != nil {
				return fmt.Errorf("error initializing llm: %w", err)
			}

			response, err := rag.NewRAG(p.retriever, generator).Ask(ctx, cfg.Collection, query, lang)
			if err != nil {
				return fmt.Errorf("error querying: %w", err)
			}

			out := cmd.OutOrStdout()
			log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
			fmt.Fprintf(out, "%s\n\n", response.Query)

			log.Info().Msg("Source: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
			fmt.Fprintf(out, "%s\n\n", response.Source)

			log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
			fmt.Fprintf(out, "%s\n\n", response.Content)
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "question to answer")
	cmd.Flags().StringVar(&lang, "lang", "", "answer language, e.g. en or es-MX")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

func searchCmd() *cobra.Command {
	var query string
	var k int
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print the k best matching chunks with their scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctx, cancel, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			p, err := newPipeline(ctx, cfg)
			if err != nil {
				return err
			}
			defer p.close()

			matches, err := p.retriever.Search(ctx, cfg.Collection, query, k)
			if err != nil {
				return fmt.Errorf("error searching: %w", err)
			}
			helper.PrettyPrint(cmd.OutOrStdout(), matches)
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "query to match")
	cmd.Flags().IntVar(&k, "k", 3, "number of matches, 0 for all")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

func chunksCmd() *cobra.Command {
	var filePath string
	cmd := &cobra.Command{
		Use:   "chunks",
		Short: "Parse and split a document without storing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, cancel, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			c, err := chunker.New(cfg.Chunker.Type, cfg.Chunker.WordsPerChunk)
			if err != nil {
				return err
			}
			text, err := parser.ReadDocument(filePath)
			if err != nil {
				return err
			}
			chunks := c.Split(text)
			log.Info().Int("chunks", len(chunks)).Msg("Parsed content")
			helper.PrettyPrint(cmd.OutOrStdout(), chunks)
			return nil
		},
	}
	cmd.Flags().StringVar(&filePath, "file", "", "path to the document file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every collection in the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctx, cancel, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			store, err := openStore(ctx, &cfg.Store)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Reset(ctx); err != nil {
				return fmt.Errorf("error resetting store: %w", err)
			}
			log.Info().Str("store", cfg.Store.Type).Msg("Store reset")
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the collection to an encrypted file (chromem store only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctx, cancel, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			m, err := openChromem(&cfg.Store)
			if err != nil {
				return err
			}
			path, err := m.Export(ctx, cfg.Collection)
			if err != nil {
				return fmt.Errorf("error exporting collection: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var filePath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load an exported collection file (chromem store only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, ctx, cancel, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			m, err := openChromem(&cfg.Store)
			if err != nil {
				return err
			}
			if err := m.Import(ctx, filePath, cfg.Collection); err != nil {
				return fmt.Errorf("error importing collection: %w", err)
			}
			log.Info().Str("file", filePath).Str("collection", cfg.Collection).Msg("Collection imported")
			return nil
		},
	}
	cmd.Flags().StringVar(&filePath, "file", "", "path to the exported file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
