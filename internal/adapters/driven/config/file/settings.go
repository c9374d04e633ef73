package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docu-cli/internal/logger"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// Environment variables that supply secrets and connection strings.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvGroqAPIKey      = "GROQ_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvPineconeAPIKey  = "PINECONE_API_KEY"
	EnvQdrantAPIKey    = "QDRANT_API_KEY"
	EnvRedisURL        = "DOCU_REDIS_URL"
	EnvPostgresDSN     = "DOCU_POSTGRES_DSN"
)

// configNames are tried in order when looking for an existing settings file.
var configNames = []string{"config.toml", "config.yaml", "config.yml"}

// SettingsStore reads settings from a TOML or YAML file in the docu config
// directory. Secrets come from the environment, optionally seeded from .env files.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
	envFiles []string
	lookup   func(string) (string, bool)
}

// SettingsOption configures a SettingsStore.
type SettingsOption func(*SettingsStore)

// WithEnvFiles sets the .env files loaded before environment overrides.
// Missing files are ignored. Variables already set are not overwritten.
func WithEnvFiles(paths ...string) SettingsOption {
	return func(s *SettingsStore) {
		s.envFiles = paths
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(lookup func(string) (string, bool)) SettingsOption {
	return func(s *SettingsStore) {
		s.lookup = lookup
	}
}

// NewSettingsStore creates a settings store.
// If configDir is empty, defaults to ~/.docu. An existing config.toml,
// config.yaml or config.yml is used; otherwise config.toml is created on Load.
func NewSettingsStore(configDir string, opts ...SettingsOption) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: get home directory: %w", domain.ErrIO, err)
		}
		configDir = filepath.Join(home, ".docu")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: create config directory: %w", domain.ErrIO, err)
	}

	s := &SettingsStore{
		filePath: filepath.Join(configDir, configNames[0]),
		envFiles: []string{".env", filepath.Join(configDir, ".env")},
		lookup:   os.LookupEnv,
	}
	for _, name := range configNames {
		path := filepath.Join(configDir, name)
		if _, err := os.Stat(path); err == nil {
			s.filePath = path
			break
		}
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load reads settings, applying defaults for missing fields and then
// environment overrides. A missing file is created with the defaults.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Debug("Writing default settings to %s", s.filePath)
		if err := s.write(settings); err != nil {
			return domain.Settings{}, err
		}
	case err != nil:
		return domain.Settings{}, fmt.Errorf("%w: read %s: %w", domain.ErrIO, s.filePath, err)
	default:
		if err := s.unmarshal(data, &settings); err != nil {
			return domain.Settings{}, fmt.Errorf("%w: parse %s: %w", domain.ErrParse, s.filePath, err)
		}
	}

	s.loadEnvFiles()
	s.applyEnv(&settings)

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("%s: %w", s.filePath, err)
	}
	return settings, nil
}

// Save writes settings to the file. API keys are never written.
func (s *SettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(settings)
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// write persists settings (caller must hold lock).
func (s *SettingsStore) write(settings domain.Settings) error {
	settings.Embedding.APIKey = ""
	settings.LLM.APIKey = ""
	settings.VectorIndex.APIKey = ""

	data, err := s.marshal(settings)
	if err != nil {
		return fmt.Errorf("%w: encode settings: %w", domain.ErrService, err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrIO, s.filePath, err)
	}
	return nil
}

func (s *SettingsStore) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(s.filePath))
	return ext == ".yaml" || ext == ".yml"
}

func (s *SettingsStore) marshal(settings domain.Settings) ([]byte, error) {
	if s.isYAML() {
		return yaml.Marshal(settings)
	}
	return toml.Marshal(settings)
}

func (s *SettingsStore) unmarshal(data []byte, settings *domain.Settings) error {
	if s.isYAML() {
		return yaml.Unmarshal(data, settings)
	}
	return toml.Unmarshal(data, settings)
}

func (s *SettingsStore) loadEnvFiles() {
	for _, path := range s.envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Warn("Ignoring %s: %v", path, err)
		}
	}
}

// applyEnv copies secrets into the sections whose backend uses them.
func (s *SettingsStore) applyEnv(settings *domain.Settings) {
	keys := map[domain.AIProvider]string{
		domain.AIProviderOpenAI:    EnvOpenAIAPIKey,
		domain.AIProviderGroq:      EnvGroqAPIKey,
		domain.AIProviderAnthropic: EnvAnthropicAPIKey,
	}
	if name, ok := keys[settings.Embedding.Provider]; ok {
		s.override(&settings.Embedding.APIKey, name)
	}
	if name, ok := keys[settings.LLM.Provider]; ok {
		s.override(&settings.LLM.APIKey, name)
	}

	switch settings.VectorIndex.Backend {
	case domain.VectorBackendPinecone:
		s.override(&settings.VectorIndex.APIKey, EnvPineconeAPIKey)
	case domain.VectorBackendQdrant:
		s.override(&settings.VectorIndex.APIKey, EnvQdrantAPIKey)
	}

	switch settings.ConversationStore.Backend {
	case domain.StoreBackendRedis:
		s.override(&settings.ConversationStore.URL, EnvRedisURL)
	case domain.StoreBackendPostgres:
		s.override(&settings.ConversationStore.URL, EnvPostgresDSN)
	}
}

func (s *SettingsStore) override(field *string, name string) {
	if v, ok := s.lookup(name); ok && v != "" {
		*field = v
	}
}
