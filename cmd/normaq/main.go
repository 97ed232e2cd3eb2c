// Command normaq answers questions about stored normative documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/normaq/internal/adapters/driven/ai"
	"github.com/custodia-labs/normaq/internal/adapters/driven/config/env"
	"github.com/custodia-labs/normaq/internal/adapters/driven/config/file"
	"github.com/custodia-labs/normaq/internal/adapters/driven/storage"
	"github.com/custodia-labs/normaq/internal/adapters/driving/cli"
	"github.com/custodia-labs/normaq/internal/core/services"
	"github.com/custodia-labs/normaq/internal/logger"
	"github.com/custodia-labs/normaq/internal/normalisers"
	"github.com/custodia-labs/normaq/internal/postprocessors/chunker"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Sync()

	if err := env.LoadDotEnv(); err != nil {
		logger.Warn("%v", err)
	}
	logger.SetVerbose(env.VerboseRequested(os.LookupEnv))

	cli.SetVersion(version)

	cleanup, err := wire(ctx)
	if err != nil {
		// Settings commands still work so the configuration can be fixed.
		logger.Warn("%v", err)
	}
	defer cleanup()

	if err := cli.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// wire builds the services and hands them to the command tree.
// The returned cleanup is always safe to call.
func wire(ctx context.Context) (func(), error) {
	nop := func() {}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nop, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	cli.SetSettingsService(settingsService)

	settings, err := settingsService.Get()
	if err != nil {
		return nop, fmt.Errorf("read settings: %w", err)
	}
	if err := env.Apply(settings); err != nil {
		logger.Warn("ignoring invalid environment: %v", err)
	}

	providers, err := ai.NewProviders(ctx, settings)
	if err != nil {
		return nop, err
	}
	for _, w := range providers.Warnings {
		logger.Warn("%s", w)
	}

	store, err := storage.NewVectorStore(ctx, settings.Store, providers.Embedder.Dimensions())
	if err != nil {
		providers.Close()
		return nop, err
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		_ = store.Close()
		providers.Close()
		return nop, fmt.Errorf("open prompts: %w", err)
	}

	pipeline := services.NewRetrievalPipeline(providers.Embedder, store, providers.Generator)
	pipeline.SetPromptStore(prompts)
	catalog := services.NewDocumentCatalog(store, providers.Embedder)
	ingestor := services.NewDocumentIngestor(normalisers.NewDefaultRegistry(), catalog)
	ingestor.SetSplitter(chunker.New())
	status := services.NewStatusService(store, settings.Store.Backend.String(), providers.Embedder, providers.Generator)

	cli.SetServices(cli.Services{
		Pipeline: pipeline,
		Catalog:  catalog,
		Ingestor: ingestor,
		Settings: settingsService,
		Status:   status,
		Prompts:  prompts,
		Server:   settings.Server,
	})

	return func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store: %v", err)
		}
		providers.Close()
	}, nil
}
