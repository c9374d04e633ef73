// Package app assembles the pipeline from settings.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docu-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/docu-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docu-cli/internal/adapters/driven/tokens"
	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/services"
	"github.com/custodia-labs/docu-cli/internal/logger"
	"github.com/custodia-labs/docu-cli/internal/normalisers"
	"github.com/custodia-labs/docu-cli/internal/postprocessors/chunker"
)

// Options locates on-disk state.
type Options struct {
	// ConfigDir holds prompts, the SQLite database and local uploads.
	// Defaults to ~/.docu.
	ConfigDir string
}

// App owns every adapter built for a run and the services over them.
type App struct {
	Settings      domain.Settings
	Pipeline      *services.PipelineService
	Conversations *services.ConversationService
	Extractor     *normalisers.Registry

	closers []func() error
}

// New builds the pipeline described by settings. On error every adapter
// created so far is closed.
func New(ctx context.Context, settings domain.Settings, opts Options) (a *App, err error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if opts.ConfigDir == "" {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return nil, fmt.Errorf("%w: get home directory: %w", domain.ErrIO, herr)
		}
		opts.ConfigDir = filepath.Join(home, ".docu")
	}

	a = &App{Settings: settings}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, embedder.Close)

	completer, err := ai.CreateCompletionService(&settings.LLM)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, completer.Close)

	index, err := NewVectorIndex(settings.VectorIndex)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, index.Close)

	store, err := NewConversationStore(ctx, settings.ConversationStore, filepath.Join(opts.ConfigDir, "data"))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)

	objects, err := NewObjectStore(ctx, settings.ObjectStore, filepath.Join(opts.ConfigDir, "uploads"))
	if err != nil {
		return nil, err
	}

	a.Extractor = normalisers.NewDefaultRegistry()
	chunks := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)

	a.Pipeline = services.NewPipelineService(a.Extractor, chunks, embedder, index, completer, store,
		services.PipelineConfigFromSettings(settings))
	if objects != nil {
		a.closers = append(a.closers, objects.Close)
		a.Pipeline.SetObjectStore(objects)
	}

	prompts, err := file.NewPromptStore(filepath.Join(opts.ConfigDir, "prompts"))
	if err != nil {
		return nil, err
	}
	a.Pipeline.SetPromptStore(prompts)

	if settings.History.MaxTokens > 0 {
		counter, cerr := tokens.NewCounter(settings.LLM.Model)
		if cerr != nil {
			logger.Warn("History token budget disabled: %v", cerr)
		} else {
			a.Pipeline.SetTokenCounter(counter)
		}
	}

	a.Conversations = services.NewConversationService(store)

	logger.Debug("Pipeline ready: embeddings=%s/%s llm=%s/%s index=%s store=%s objects=%s",
		settings.Embedding.Provider, embedder.ModelName(),
		settings.LLM.Provider, completer.ModelName(),
		settings.VectorIndex.Backend, settings.ConversationStore.Backend, settings.ObjectStore.Backend)

	return a, nil
}

// Close releases adapters in reverse creation order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
