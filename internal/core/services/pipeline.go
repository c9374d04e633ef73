package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docu-cli/internal/logger"
)

// SummaryQuery is embedded to pick the chunks a summary is built from.
const SummaryQuery = "Summarize this document"

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// PipelineConfig holds the retrieval and completion parameters of a pipeline.
type PipelineConfig struct {
	TopK               int
	SummaryTopK        int
	SummaryGroupSize   int
	Metric             domain.Metric
	Temperature        float64
	SummaryTemperature float64
	MaxTokens          int
	ReadyInterval      time.Duration
	ReadyAttempts      int
	Naming             domain.NamingSettings
	History            domain.HistorySettings
}

// PipelineConfigFromSettings extracts pipeline parameters from settings.
func PipelineConfigFromSettings(s domain.Settings) PipelineConfig {
	return PipelineConfig{
		TopK:               s.Retrieval.TopK,
		SummaryTopK:        s.Retrieval.SummaryTopK,
		SummaryGroupSize:   s.Retrieval.SummaryGroupSize,
		Metric:             s.VectorIndex.Metric,
		Temperature:        s.LLM.Temperature,
		SummaryTemperature: s.LLM.SummaryTemperature,
		MaxTokens:          s.LLM.MaxTokens,
		ReadyInterval:      s.VectorIndex.ReadyInterval(),
		ReadyAttempts:      s.VectorIndex.ReadyAttempts,
		Naming:             s.Naming,
		History:            s.History,
	}
}

// PipelineService sequences extraction, chunking, embedding, retrieval,
// prompt composition, completion and history persistence.
// Steps run one after another; a failed step leaves stored history untouched.
type PipelineService struct {
	extractor driven.Extractor
	chunker   driven.PostProcessor
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	completer driven.CompletionService
	store     driven.ConversationStore
	objects   driven.ObjectStore

	namer     *Namer
	retriever *Retriever
	composer  *Composer
	cfg       PipelineConfig

	prompts driven.PromptStore
	counter driven.TokenCounter

	now   func() time.Time
	newID func() string
}

// NewPipelineService creates a pipeline over the given collaborators.
func NewPipelineService(
	extractor driven.Extractor,
	chunker driven.PostProcessor,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	completer driven.CompletionService,
	store driven.ConversationStore,
	cfg PipelineConfig,
) *PipelineService {
	if cfg.Metric == "" {
		cfg.Metric = domain.MetricCosine
	}
	s := &PipelineService{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		completer: completer,
		store:     store,
		namer:     NewNamer(cfg.Naming),
		retriever: NewRetriever(index,
			WithReadyInterval(cfg.ReadyInterval),
			WithReadyAttempts(cfg.ReadyAttempts),
		),
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
	s.rebuildComposer()
	return s
}

// SetObjectStore enables raw document upload during ingestion.
func (s *PipelineService) SetObjectStore(store driven.ObjectStore) {
	s.objects = store
}

// SetPromptStore sets the store for user-editable prompt templates.
func (s *PipelineService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
	s.rebuildComposer()
}

// SetTokenCounter enables the token budget of the history window.
func (s *PipelineService) SetTokenCounter(counter driven.TokenCounter) {
	s.counter = counter
	s.rebuildComposer()
}

func (s *PipelineService) rebuildComposer() {
	s.composer = NewComposer(s.prompts, HistoryWindow{
		MaxTurns:  s.cfg.History.MaxTurns,
		MaxTokens: s.cfg.History.MaxTokens,
		Counter:   s.counter,
	})
}

// Run executes one request in the flow selected by its Mode.
func (s *PipelineService) Run(ctx context.Context, req domain.Request) (*domain.Response, error) {
	resp := &domain.Response{Mode: req.Mode}
	switch req.Mode {
	case domain.ModeIngest:
		res, err := s.Ingest(ctx, driving.IngestRequest{Path: req.Path, Name: req.Name})
		if err != nil {
			return nil, err
		}
		resp.Ingest = res
	case domain.ModeSummarize:
		summary, err := s.Summarize(ctx, req.DocumentID)
		if err != nil {
			return nil, err
		}
		resp.Summary = summary
	case domain.ModeChat:
		answer, err := s.Ask(ctx, req.DocumentID, req.Question)
		if err != nil {
			return nil, err
		}
		resp.Answer = answer
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidParameter, req.Mode)
	}
	return resp, nil
}

// Ingest runs Extracted -> Chunked -> Embedded -> Upserted and then creates
// the document's conversation record. Nothing is recorded if any step fails.
func (s *PipelineService) Ingest(ctx context.Context, req driving.IngestRequest) (*domain.IngestResult, error) {
	logger.Section("Ingestion")

	doc, err := s.extract(ctx, req)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = doc.Name
	}
	indexName := s.namer.Name(name)
	if indexName == "" {
		return nil, fmt.Errorf("%w: document name %q has no usable characters", domain.ErrInvalidParameter, name)
	}
	logger.Debug("Extracted %d characters from %q -> index %s", len(doc.Text), name, indexName)
	s.warnOnCollision(ctx, indexName)

	chunks, err := s.chunker.Process(ctx, indexName, doc.Text)
	if err != nil {
		return nil, fmt.Errorf("chunk %q: %w", name, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %q contains no extractable text", domain.ErrParse, name)
	}
	logger.Debug("Chunked into %d windows", len(chunks))

	var objectURL string
	if s.objects != nil && len(doc.Raw) > 0 {
		key := indexName + strings.ToLower(filepath.Ext(doc.Path))
		objectURL, err = s.objects.Upload(ctx, key, doc.MimeType, doc.Raw)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", key, err)
		}
		logger.Debug("Uploaded original to %s", objectURL)
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i, c := range chunks {
		vec, err := s.embedder.Embed(ctx, c.Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %s: %w", c.ID, err)
		}
		entries[i] = domain.IndexEntry{
			ID:       c.ID,
			Vector:   vec,
			Metadata: map[string]any{domain.MetadataText: c.Text},
		}
	}
	logger.Debug("Embedded %d chunks with %s", len(entries), s.embedder.ModelName())

	if err := s.index.Create(ctx, indexName, len(entries[0].Vector), s.cfg.Metric); err != nil {
		return nil, fmt.Errorf("create index %q: %w", indexName, err)
	}
	if err := s.index.Upsert(ctx, indexName, entries); err != nil {
		return nil, fmt.Errorf("upsert into %q: %w", indexName, err)
	}
	logger.Debug("Upserted %d entries into %s", len(entries), indexName)

	now := s.now()
	conv := &domain.Conversation{
		DocumentID:   s.newID(),
		DocumentName: name,
		IndexName:    indexName,
		ObjectURL:    objectURL,
		ChunkCount:   len(chunks),
		History:      []domain.Message{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversation for %q: %w", name, err)
	}

	return &domain.IngestResult{
		DocumentID: conv.DocumentID,
		IndexName:  indexName,
		ChunkCount: len(chunks),
		ObjectURL:  objectURL,
	}, nil
}

func (s *PipelineService) extract(ctx context.Context, req driving.IngestRequest) (*domain.ExtractedDocument, error) {
	switch {
	case req.Path != "":
		doc, err := s.extractor.Extract(ctx, req.Path)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", req.Path, err)
		}
		return doc, nil
	case len(req.Data) > 0:
		doc, err := s.extractor.ExtractBytes(ctx, req.FileName, req.Data)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", req.FileName, err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: no document path or data", domain.ErrInvalidParameter)
	}
}

// warnOnCollision logs when another document already uses the index name.
// The new chunks are written to the same index regardless.
func (s *PipelineService) warnOnCollision(ctx context.Context, indexName string) {
	existing, err := s.store.List(ctx)
	if err != nil {
		logger.Debug("Skipping collision check: %v", err)
		return
	}
	for _, c := range existing {
		if c.IndexName == indexName {
			logger.Warn("index %s is already used by document %s (%q); chunks will be merged",
				indexName, c.DocumentID, c.DocumentName)
			return
		}
	}
}

// Ask runs Loaded -> Embedded -> Retrieved -> Composed -> Completed -> Persisted.
// History is only saved once the completion has succeeded.
func (s *PipelineService) Ask(ctx context.Context, documentID, question string) (string, error) {
	logger.Section("Query Turn")

	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is empty", domain.ErrInvalidParameter)
	}

	conv, err := s.load(ctx, documentID)
	if err != nil {
		return "", err
	}
	indexName := s.indexFor(conv)
	logger.Debug("Loaded %q with %d history messages", conv.DocumentName, len(conv.History))

	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	chunks, err := s.retriever.Retrieve(ctx, indexName, vec, s.cfg.TopK)
	if err != nil {
		return "", err
	}

	messages := s.composer.Compose(conv.History, chunks, question)
	logger.Debug("Composed %d messages", len(messages))

	answer, err := s.completer.Complete(ctx, messages, driven.CompletionOptions{
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("complete answer: %w", err)
	}
	answer = strings.TrimSpace(answer)

	conv.AppendTurn(question, answer)
	conv.UpdatedAt = s.now()
	if err := s.store.Save(ctx, conv); err != nil {
		return "", fmt.Errorf("save conversation %s: %w", documentID, err)
	}
	logger.Debug("History now holds %d messages", len(conv.History))

	return answer, nil
}

// Summarize retrieves the chunks closest to SummaryQuery, summarises them in
// groups of SummaryGroupSize and joins the section summaries in order.
func (s *PipelineService) Summarize(ctx context.Context, documentID string) (string, error) {
	logger.Section("Summary")

	conv, err := s.load(ctx, documentID)
	if err != nil {
		return "", err
	}
	indexName := s.indexFor(conv)

	vec, err := s.embedder.Embed(ctx, SummaryQuery)
	if err != nil {
		return "", fmt.Errorf("embed summary query: %w", err)
	}

	chunks, err := s.retriever.Retrieve(ctx, indexName, vec, s.cfg.SummaryTopK)
	if err != nil {
		return "", err
	}

	groupSize := max(s.cfg.SummaryGroupSize, 1)
	sections := make([]string, 0, (len(chunks)+groupSize-1)/groupSize)
	for group := range slices.Chunk(chunks, groupSize) {
		n := len(sections) + 1
		out, err := s.completer.Complete(ctx, s.composer.SectionPrompt(n, group), driven.CompletionOptions{
			Temperature: s.cfg.SummaryTemperature,
			MaxTokens:   s.cfg.MaxTokens,
		})
		if err != nil {
			return "", fmt.Errorf("summarize section %d: %w", n, err)
		}
		sections = append(sections, fmt.Sprintf("Section %d:\n%s", n, strings.TrimSpace(out)))
		logger.Debug("Summarised section %d (%d chunks)", n, len(group))
	}

	return strings.Join(sections, "\n\n"), nil
}

func (s *PipelineService) load(ctx context.Context, documentID string) (*domain.Conversation, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, fmt.Errorf("%w: document id is empty", domain.ErrInvalidParameter)
	}
	conv, err := s.store.Load(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("document %s: %w", documentID, err)
		}
		return nil, fmt.Errorf("load conversation %s: %w", documentID, err)
	}
	return conv, nil
}

// indexFor prefers the index recorded at ingestion so later naming changes
// do not point queries at a different index.
func (s *PipelineService) indexFor(conv *domain.Conversation) string {
	if conv.IndexName != "" {
		return conv.IndexName
	}
	return s.namer.Name(conv.DocumentName)
}
