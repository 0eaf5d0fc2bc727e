// Package cli implements the command-line driving adapter.
// Commands register themselves on rootCmd via init and obtain their
// services through package-level handles so tests can inject mocks.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/viva-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/viva-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/viva-cli/internal/adapters/driven/index"
	"github.com/custodia-labs/viva-cli/internal/adapters/driven/session/memory"
	"github.com/custodia-labs/viva-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/viva-cli/internal/chunker"
	"github.com/custodia-labs/viva-cli/internal/core/domain"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/viva-cli/internal/core/ports/driving"
	"github.com/custodia-labs/viva-cli/internal/core/services"
	"github.com/custodia-labs/viva-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Service handles used by the commands. Left nil until a command wires
// them; tests assign mocks directly.
var (
	configStore      driven.ConfigStore
	knowledgeStore   driven.KnowledgeStore
	promptStore      driven.PromptStore
	ingestService    driving.IngestService
	interviewService driving.InterviewService
)

var rootCmd = &cobra.Command{
	Use:   "viva",
	Short: "Automated technical interviews over your own documents",
	Long: `Viva runs mock technical interviews grounded in a reference document.

Ingest a PDF or text file once, then start an interview: you pick the
topics, viva asks questions drawn from the document, screens your
answers and delivers a written evaluation after ten turns.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.viva)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig initialises the config store once and returns the resolved
// application settings.
func loadConfig() (domain.AppSettings, error) {
	if configStore == nil {
		store, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return domain.AppSettings{}, fmt.Errorf("open config: %w", err)
		}
		if err := store.Load(); err != nil {
			return domain.AppSettings{}, fmt.Errorf("load config: %w", err)
		}
		configStore = store
	}

	type settingsProvider interface {
		Settings() domain.AppSettings
	}
	provider, ok := configStore.(settingsProvider)
	if !ok {
		return domain.DefaultAppSettings(), nil
	}
	return provider.Settings(), nil
}

// openKnowledgeStore opens the SQLite store once.
func openKnowledgeStore(settings domain.AppSettings) (driven.KnowledgeStore, error) {
	if knowledgeStore != nil {
		return knowledgeStore, nil
	}
	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open knowledge store: %w", err)
	}
	knowledgeStore = store
	return store, nil
}

// buildIngestService wires the ingestion pipeline from settings.
func buildIngestService(settings domain.AppSettings) (driving.IngestService, error) {
	if ingestService != nil {
		return ingestService, nil
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}

	store, err := openKnowledgeStore(settings)
	if err != nil {
		return nil, err
	}

	idx, err := index.New(embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("create vector index: %w", err)
	}

	splitter := chunker.New(
		chunker.WithChunkSize(settings.Ingest.ChunkSize),
		chunker.WithOverlap(settings.Ingest.Overlap),
	)

	ingestService = services.NewIngestService(store, idx, embedder, splitter)
	return ingestService, nil
}

// buildInterviewService wires the full interview pipeline: knowledge
// store, restored vector index, retrieval, prompts and session state.
// Fails fast when no index exists or the embedding model changed since
// ingestion.
func buildInterviewService(ctx context.Context, settings domain.AppSettings) (driving.InterviewService, error) {
	if interviewService != nil {
		return interviewService, nil
	}

	store, err := openKnowledgeStore(settings)
	if err != nil {
		return nil, err
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}

	if err := checkEmbeddingModel(ctx, store, embedder); err != nil {
		return nil, err
	}

	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		return nil, err
	}

	idx, err := index.New(embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("create vector index: %w", err)
	}

	restored, err := services.RestoreIndex(ctx, store, idx)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotFound) {
			return nil, fmt.Errorf("%w: run 'viva ingest <file>' first", err)
		}
		return nil, err
	}
	logger.Info("Knowledge index ready: %d chunks", restored)

	if promptStore == nil {
		prompts, err := configfile.NewPromptStore("")
		if err != nil {
			return nil, fmt.Errorf("open prompt store: %w", err)
		}
		if err := prompts.Watch(); err != nil {
			logger.Warn("Prompt watching disabled: %v", err)
		}
		promptStore = prompts
	}

	retriever := services.NewRetrievalService(store, idx, embedder)
	interviewService = services.NewInterviewService(
		memory.NewSessionStore(),
		retriever,
		llm,
		promptStore,
		settings.Retrieval.TopK,
	)
	return interviewService, nil
}

// checkEmbeddingModel refuses to serve an index built with a different
// embedding model. Mixed models produce meaningless similarity scores.
func checkEmbeddingModel(ctx context.Context, store driven.KnowledgeStore, embedder driven.EmbeddingService) error {
	recorded, err := store.GetMeta(ctx, driven.MetaEmbeddingModel)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("read index metadata: %w", err)
	}
	if recorded != embedder.ModelName() {
		return fmt.Errorf("%w: index was built with %q but %q is configured, re-run 'viva ingest'",
			domain.ErrIndexCorrupt, recorded, embedder.ModelName())
	}
	return nil
}
