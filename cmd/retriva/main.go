// Command retriva is the local document retrieval engine CLI.
//
// main wires the adapters to the core services and hands control to
// the cobra command tree. Wiring never touches the network: a dead or
// misconfigured embedding provider is reported by the command that
// needs it, not at startup.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/retriva/internal/adapters/driven/ai"
	"github.com/custodia-labs/retriva/internal/adapters/driven/config/file"
	progressmemory "github.com/custodia-labs/retriva/internal/adapters/driven/progress/memory"
	"github.com/custodia-labs/retriva/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/retriva/internal/adapters/driving/cli"
	"github.com/custodia-labs/retriva/internal/core/services"
	"github.com/custodia-labs/retriva/internal/logger"
)

// version is stamped at build time:
//
//	go build -ldflags "-X main.version=v1.2.3" ./cmd/retriva
var version = ""

func main() {
	if err := run(); err != nil {
		// cobra has already printed the error.
		os.Exit(1)
	}
}

func run() error {
	// A local .env lets API keys stay out of the config file.
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		logger.Error("opening config store: %v", err)
		return err
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		logger.Error("loading settings: %v", err)
		return err
	}
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if settings.Rerank.APIKey == "" {
		settings.Rerank.APIKey = os.Getenv("RETRIVA_RERANK_API_KEY")
	}

	store, err := sqlite.NewStore(configStore.GetString("storage.data_dir"))
	if err != nil {
		logger.Error("opening document store: %v", err)
		return err
	}
	defer store.Close()

	embedder, err := ai.NewEmbeddingService(settings.Embedding)
	if err != nil {
		// Commands that need embeddings report ErrEmbeddingUnavailable.
		logger.Warn("embedding provider not available: %v", err)
	}
	if embedder != nil {
		defer embedder.Close()
	}

	reranker, err := ai.NewReranker(settings.Rerank)
	if err != nil {
		logger.Warn("reranker not available: %v", err)
	}

	progressStore := progressmemory.NewStore()
	defer progressStore.Close()

	cli.SetServices(&cli.Services{
		Ingest:   services.NewIngestService(store.DocumentStore(), store.ChunkStore(), embedder, progressStore, settingsService),
		Search:   services.NewSearchService(embedder, store.DocumentStore(), store.ChunkStore(), reranker, settingsService),
		Document: services.NewDocumentService(store.DocumentStore(), store.ChunkStore()),
		Settings: settingsService,
	})
	cli.SetVersion(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Execute(ctx)
}
