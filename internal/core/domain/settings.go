package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or completions.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is Groq's OpenAI-compatible cloud API.
	AIProviderGroq AIProvider = "groq"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGroq, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGroq || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud, OpenAI-compatible)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// VectorBackend identifies a vector index implementation.
type VectorBackend string

// Available vector backends.
const (
	VectorBackendPinecone VectorBackend = "pinecone"
	VectorBackendQdrant   VectorBackend = "qdrant"
	VectorBackendMemory   VectorBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendPinecone, VectorBackendQdrant, VectorBackendMemory:
		return true
	default:
		return false
	}
}

// StoreBackend identifies a conversation store implementation.
type StoreBackend string

// Available conversation store backends.
const (
	StoreBackendSQLite   StoreBackend = "sqlite"
	StoreBackendRedis    StoreBackend = "redis"
	StoreBackendPostgres StoreBackend = "postgres"
	StoreBackendMemory   StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendSQLite, StoreBackendRedis, StoreBackendPostgres, StoreBackendMemory:
		return true
	default:
		return false
	}
}

// ObjectBackend identifies where raw documents are uploaded.
type ObjectBackend string

// Available object store backends. ObjectBackendNone disables uploads.
const (
	ObjectBackendNone       ObjectBackend = "none"
	ObjectBackendFilesystem ObjectBackend = "filesystem"
	ObjectBackendGCS        ObjectBackend = "gcs"
)

// IsValid returns true if the backend is recognised.
func (b ObjectBackend) IsValid() bool {
	switch b {
	case ObjectBackendNone, ObjectBackendFilesystem, ObjectBackendGCS:
		return true
	default:
		return false
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `toml:"provider" yaml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model" yaml:"model"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url" yaml:"base_url"`

	// APIKey is usually supplied through the environment.
	APIKey string `toml:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RequestsPerMinute throttles embedding calls. Zero disables throttling.
	RequestsPerMinute int `toml:"requests_per_minute" yaml:"requests_per_minute"`
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderGroq || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds completion provider configuration.
type LLMSettings struct {
	// Provider is the completion service provider.
	Provider AIProvider `toml:"provider" yaml:"provider"`

	// Model is the completion model name.
	Model string `toml:"model" yaml:"model"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url" yaml:"base_url"`

	// APIKey is usually supplied through the environment.
	APIKey string `toml:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is used for chat answers.
	Temperature float64 `toml:"temperature" yaml:"temperature"`

	// SummaryTemperature is used for section summaries.
	SummaryTemperature float64 `toml:"summary_temperature" yaml:"summary_temperature"`

	// MaxTokens caps each completion. Zero leaves it to the provider.
	MaxTokens int `toml:"max_tokens" yaml:"max_tokens"`
}

// IsConfigured returns true if the completion provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// VectorIndexSettings holds vector backend configuration.
type VectorIndexSettings struct {
	Backend VectorBackend `toml:"backend" yaml:"backend"`

	// URL is the control-plane (Pinecone) or server (Qdrant) endpoint.
	URL string `toml:"url" yaml:"url"`

	APIKey string `toml:"api_key,omitempty" yaml:"api_key,omitempty"`

	Metric Metric `toml:"metric" yaml:"metric"`

	// Cloud and Region place serverless Pinecone indexes.
	Cloud  string `toml:"cloud" yaml:"cloud"`
	Region string `toml:"region" yaml:"region"`

	// ReadyIntervalMillis and ReadyAttempts bound the readiness poll.
	ReadyIntervalMillis int `toml:"ready_interval_ms" yaml:"ready_interval_ms"`
	ReadyAttempts       int `toml:"ready_attempts" yaml:"ready_attempts"`
}

// ReadyInterval returns the readiness poll interval.
func (v VectorIndexSettings) ReadyInterval() time.Duration {
	return time.Duration(v.ReadyIntervalMillis) * time.Millisecond
}

// ConversationStoreSettings holds the conversation store configuration.
type ConversationStoreSettings struct {
	Backend StoreBackend `toml:"backend" yaml:"backend"`

	// URL is a redis:// URL or a Postgres DSN. Unused for sqlite and memory.
	URL string `toml:"url,omitempty" yaml:"url,omitempty"`
}

// ObjectStoreSettings holds raw document upload configuration.
type ObjectStoreSettings struct {
	Backend ObjectBackend `toml:"backend" yaml:"backend"`

	// Bucket is the GCS bucket name.
	Bucket string `toml:"bucket" yaml:"bucket"`

	// Dir is the root directory for the filesystem backend.
	Dir string `toml:"dir" yaml:"dir"`

	// CredentialsFile is an optional GCS service account file.
	CredentialsFile string `toml:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`
}

// ChunkingSettings holds word window parameters.
type ChunkingSettings struct {
	Size    int `toml:"size" yaml:"size"`
	Overlap int `toml:"overlap" yaml:"overlap"`
}

// RetrievalSettings holds top-k parameters for chat and summaries.
type RetrievalSettings struct {
	TopK             int `toml:"top_k" yaml:"top_k"`
	SummaryTopK      int `toml:"summary_top_k" yaml:"summary_top_k"`
	SummaryGroupSize int `toml:"summary_group_size" yaml:"summary_group_size"`
}

// HistorySettings bounds how much history is folded into a prompt.
// Zero values mean unbounded. Stored history is never trimmed.
type HistorySettings struct {
	MaxTurns  int `toml:"max_turns" yaml:"max_turns"`
	MaxTokens int `toml:"max_tokens" yaml:"max_tokens"`
}

// NamingSettings controls index name derivation.
type NamingSettings struct {
	MaxLength int `toml:"max_length" yaml:"max_length"`

	// Transliterate maps non-ASCII letters to ASCII before slugifying.
	Transliterate bool `toml:"transliterate" yaml:"transliterate"`
}

// Settings holds all application settings.
// Constructed once at start-up and passed to every component.
type Settings struct {
	Embedding         EmbeddingSettings         `toml:"embedding" yaml:"embedding"`
	LLM               LLMSettings               `toml:"llm" yaml:"llm"`
	VectorIndex       VectorIndexSettings       `toml:"vector_index" yaml:"vector_index"`
	ConversationStore ConversationStoreSettings `toml:"conversation_store" yaml:"conversation_store"`
	ObjectStore       ObjectStoreSettings       `toml:"object_store" yaml:"object_store"`
	Chunking          ChunkingSettings          `toml:"chunking" yaml:"chunking"`
	Retrieval         RetrievalSettings         `toml:"retrieval" yaml:"retrieval"`
	History           HistorySettings           `toml:"history" yaml:"history"`
	Naming            NamingSettings            `toml:"naming" yaml:"naming"`
}

// DefaultSettings returns settings matching the hosted OpenAI + Groq + Pinecone setup.
func DefaultSettings() Settings {
	return Settings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    "text-embedding-3-small",
		},
		LLM: LLMSettings{
			Provider:           AIProviderGroq,
			Model:              "llama-3.1-8b-instant",
			Temperature:        0.5,
			SummaryTemperature: 0.4,
		},
		VectorIndex: VectorIndexSettings{
			Backend:             VectorBackendPinecone,
			Metric:              MetricCosine,
			Cloud:               "aws",
			Region:              "us-east-1",
			ReadyIntervalMillis: 1000,
			ReadyAttempts:       30,
		},
		ConversationStore: ConversationStoreSettings{
			Backend: StoreBackendSQLite,
		},
		ObjectStore: ObjectStoreSettings{
			Backend: ObjectBackendNone,
			Bucket:  "docupdfs",
		},
		Chunking: ChunkingSettings{
			Size:    400,
			Overlap: 50,
		},
		Retrieval: RetrievalSettings{
			TopK:             3,
			SummaryTopK:      40,
			SummaryGroupSize: 5,
		},
		Naming: NamingSettings{
			MaxLength: 45,
		},
	}
}

// Validate checks that the settings can drive a pipeline.
func (s Settings) Validate() error {
	switch {
	case s.Chunking.Size <= 0:
		return fmt.Errorf("%w: chunking.size must be positive, got %d", ErrInvalidParameter, s.Chunking.Size)
	case s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size:
		return fmt.Errorf("%w: chunking.overlap must be in [0, %d), got %d",
			ErrInvalidParameter, s.Chunking.Size, s.Chunking.Overlap)
	case s.Retrieval.TopK <= 0:
		return fmt.Errorf("%w: retrieval.top_k must be positive, got %d", ErrInvalidParameter, s.Retrieval.TopK)
	case s.Retrieval.SummaryTopK <= 0:
		return fmt.Errorf("%w: retrieval.summary_top_k must be positive, got %d",
			ErrInvalidParameter, s.Retrieval.SummaryTopK)
	case s.Retrieval.SummaryGroupSize <= 0:
		return fmt.Errorf("%w: retrieval.summary_group_size must be positive, got %d",
			ErrInvalidParameter, s.Retrieval.SummaryGroupSize)
	case s.Naming.MaxLength <= 0:
		return fmt.Errorf("%w: naming.max_length must be positive, got %d", ErrInvalidParameter, s.Naming.MaxLength)
	case s.VectorIndex.ReadyAttempts < 0 || s.VectorIndex.ReadyIntervalMillis < 0:
		return fmt.Errorf("%w: readiness poll bounds must not be negative", ErrInvalidParameter)
	case s.History.MaxTurns < 0 || s.History.MaxTokens < 0:
		return fmt.Errorf("%w: history bounds must not be negative", ErrInvalidParameter)
	case !s.VectorIndex.Backend.IsValid():
		return fmt.Errorf("%w: unknown vector backend %q", ErrInvalidParameter, s.VectorIndex.Backend)
	case !s.VectorIndex.Metric.IsValid():
		return fmt.Errorf("%w: unknown metric %q", ErrInvalidParameter, s.VectorIndex.Metric)
	case !s.ConversationStore.Backend.IsValid():
		return fmt.Errorf("%w: unknown conversation store %q", ErrInvalidParameter, s.ConversationStore.Backend)
	case !s.ObjectStore.Backend.IsValid():
		return fmt.Errorf("%w: unknown object store %q", ErrInvalidParameter, s.ObjectStore.Backend)
	}
	return nil
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support completions.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGroq,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each completion provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderGroq:      "llama-3.1-8b-instant",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
