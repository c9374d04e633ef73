// Package watch ingests documents dropped into a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docu-cli/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is ingested.
// Copies and downloads emit a burst of write events.
const DefaultDebounce = 500 * time.Millisecond

// ErrMissingPipelineService is returned when no pipeline is provided.
var ErrMissingPipelineService = errors.New("watch: pipeline service is required")

// Result reports the outcome of one ingestion.
type Result struct {
	Path   string
	Ingest *domain.IngestResult
	Err    error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFilter limits ingestion to paths the filter accepts.
func WithFilter(accept func(path string) bool) Option {
	return func(w *Watcher) {
		w.accept = accept
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithResultHandler is called after every ingestion attempt.
func WithResultHandler(fn func(Result)) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// Watcher ingests files created or rewritten in a directory.
// Ingestion is sequential: one file at a time.
type Watcher struct {
	pipeline driving.PipelineService
	dir      string
	accept   func(string) bool
	debounce time.Duration
	onResult func(Result)

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan string

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a Watcher for dir.
func New(pipeline driving.PipelineService, dir string, opts ...Option) (*Watcher, error) {
	if pipeline == nil {
		return nil, ErrMissingPipelineService
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", domain.ErrIO, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidParameter, dir)
	}

	w := &Watcher{
		pipeline: pipeline,
		dir:      dir,
		accept:   func(string) bool { return true },
		debounce: DefaultDebounce,
		onResult: func(Result) {},
		pending:  make(map[string]*time.Timer),
		ready:    make(chan string, 64),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: create file watcher: %w", domain.ErrIO, err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("%w: watch %s: %w", domain.ErrIO, w.dir, err)
	}
	logger.Info("watching %s for new documents", w.dir)

	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handleFsEvent(event); ok {
				w.schedule(path)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case path := <-w.ready:
			w.ingest(ctx, path)
		}
	}
}

// handleFsEvent returns the path to ingest for an event, if any.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(w.relative(event.Name)) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	if !w.accept(event.Name) {
		logger.Debug("watch: skipping unsupported file %s", event.Name)
		return "", false
	}
	return event.Name, true
}

// schedule (re)starts the quiet timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.deliver(path)
	})
}

// deliver hands path to Run. It gives up once Run has returned.
func (w *Watcher) deliver(path string) bool {
	select {
	case w.ready <- path:
		return true
	case <-w.done:
		return false
	}
}

func (w *Watcher) shutdown() {
	w.stopOnce.Do(func() { close(w.done) })

	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

// relative returns path below the watched directory, so dot-directories
// above it do not count as hidden.
func (w *Watcher) relative(path string) string {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return rel
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	logger.Debug("watch: ingesting %s", path)
	res, err := w.pipeline.Ingest(ctx, driving.IngestRequest{Path: path})
	if err != nil {
		logger.Error("watch: ingest %s: %v", path, err)
	} else {
		logger.Info("ingested %s as %s (%d chunks)", filepath.Base(path), res.DocumentID, res.ChunkCount)
	}
	w.onResult(Result{Path: path, Ingest: res, Err: err})
}

// isHidden reports whether any path element starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
