package app

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docu-cli/internal/adapters/driven/objectstore/filesystem"
	"github.com/custodia-labs/docu-cli/internal/adapters/driven/objectstore/gcs"
	"github.com/custodia-labs/docu-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docu-cli/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/docu-cli/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/docu-cli/internal/adapters/driven/storage/sqlite"
	memindex "github.com/custodia-labs/docu-cli/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/docu-cli/internal/adapters/driven/vector/pinecone"
	"github.com/custodia-labs/docu-cli/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// NewVectorIndex creates the vector index selected by settings.
func NewVectorIndex(settings domain.VectorIndexSettings) (driven.VectorIndex, error) {
	switch settings.Backend {
	case domain.VectorBackendPinecone:
		if settings.APIKey == "" {
			return nil, fmt.Errorf("%w: pinecone requires an API key, set PINECONE_API_KEY",
				domain.ErrVectorIndexUnavailable)
		}
		return pinecone.New(pinecone.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.URL,
			Cloud:   settings.Cloud,
			Region:  settings.Region,
		})
	case domain.VectorBackendQdrant:
		return qdrant.New(qdrant.Config{URL: settings.URL, APIKey: settings.APIKey}), nil
	case domain.VectorBackendMemory:
		return memindex.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown vector backend %q", domain.ErrInvalidParameter, settings.Backend)
	}
}

// NewConversationStore creates the conversation store selected by settings.
// dataDir is only used by the SQLite backend.
func NewConversationStore(
	ctx context.Context,
	settings domain.ConversationStoreSettings,
	dataDir string,
) (driven.ConversationStore, error) {
	switch settings.Backend {
	case domain.StoreBackendSQLite:
		return sqlite.NewStore(dataDir)
	case domain.StoreBackendRedis:
		if settings.URL == "" {
			return nil, fmt.Errorf("%w: redis store requires a URL, set DOCU_REDIS_URL", domain.ErrInvalidParameter)
		}
		return redis.Open(ctx, settings.URL)
	case domain.StoreBackendPostgres:
		if settings.URL == "" {
			return nil, fmt.Errorf("%w: postgres store requires a DSN, set DOCU_POSTGRES_DSN",
				domain.ErrInvalidParameter)
		}
		return postgres.Open(ctx, settings.URL)
	case domain.StoreBackendMemory:
		return memory.NewConversationStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown conversation store %q", domain.ErrInvalidParameter, settings.Backend)
	}
}

// NewObjectStore creates the object store selected by settings.
// It returns nil when uploads are disabled. defaultDir is used by the
// filesystem backend when settings.Dir is empty.
func NewObjectStore(
	ctx context.Context,
	settings domain.ObjectStoreSettings,
	defaultDir string,
) (driven.ObjectStore, error) {
	switch settings.Backend {
	case domain.ObjectBackendNone, "":
		return nil, nil
	case domain.ObjectBackendFilesystem:
		dir := settings.Dir
		if dir == "" {
			dir = defaultDir
		}
		return filesystem.NewOsStore(dir)
	case domain.ObjectBackendGCS:
		return gcs.NewStore(ctx, gcs.Config{
			Bucket:          settings.Bucket,
			CredentialsFile: settings.CredentialsFile,
		})
	default:
		return nil, fmt.Errorf("%w: unknown object store %q", domain.ErrInvalidParameter, settings.Backend)
	}
}
