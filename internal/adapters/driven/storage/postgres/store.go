// Package postgres provides a PostgreSQL-backed conversation store.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// DB is the subset of a pgx pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Verify interface compliance.
var _ driven.ConversationStore = (*Store)(nil)

const schema = `CREATE TABLE IF NOT EXISTS docu_conversations (
    document_id   TEXT PRIMARY KEY,
    document_name TEXT NOT NULL,
    index_name    TEXT NOT NULL,
    object_url    TEXT NOT NULL DEFAULT '',
    chunk_count   INTEGER NOT NULL DEFAULT 0,
    history       JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
)`

const selectColumns = `SELECT document_id, document_name, index_name, object_url, chunk_count, history, created_at, updated_at
FROM docu_conversations`

// Store persists conversations in a single table with history as JSONB.
type Store struct {
	db    DB
	close func()
}

// NewStore wraps an existing connection. The schema is not created.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// Open connects with a DSN, ensures the schema exists and returns a store
// that owns the pool.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: parse postgres dsn: %w", domain.ErrInvalidParameter, err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: connect postgres: %w", domain.ErrService, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping postgres %s: %w", domain.ErrService, cfg.ConnConfig.Host, err)
	}

	s := &Store{db: pool, close: pool.Close}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the conversations table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%w: create conversations table: %w", domain.ErrService, err)
	}
	return nil
}

// Load returns the conversation for documentID.
func (s *Store) Load(ctx context.Context, documentID string) (*domain.Conversation, error) {
	row := s.db.QueryRow(ctx, selectColumns+" WHERE document_id = $1", documentID)
	conv, err := scanConversation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: conversation %s", domain.ErrNotFound, documentID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load conversation %s: %w", domain.ErrService, documentID, err)
	}
	return conv, nil
}

// Save upserts the conversation, replacing any stored history.
func (s *Store) Save(ctx context.Context, conv *domain.Conversation) error {
	if conv == nil || conv.DocumentID == "" {
		return fmt.Errorf("%w: conversation requires a document id", domain.ErrInvalidParameter)
	}
	history := conv.History
	if history == nil {
		history = []domain.Message{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("%w: encode history %s: %w", domain.ErrParse, conv.DocumentID, err)
	}

	query := `INSERT INTO docu_conversations
    (document_id, document_name, index_name, object_url, chunk_count, history, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (document_id) DO UPDATE SET
    document_name = EXCLUDED.document_name,
    index_name = EXCLUDED.index_name,
    object_url = EXCLUDED.object_url,
    chunk_count = EXCLUDED.chunk_count,
    history = EXCLUDED.history,
    updated_at = EXCLUDED.updated_at`
	_, err = s.db.Exec(ctx, query,
		conv.DocumentID,
		conv.DocumentName,
		conv.IndexName,
		conv.ObjectURL,
		conv.ChunkCount,
		data,
		conv.CreatedAt,
		conv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: save conversation %s: %w", domain.ErrService, conv.DocumentID, err)
	}
	return nil
}

// List returns all conversations, most recently updated first.
func (s *Store) List(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := s.db.Query(ctx, selectColumns+" ORDER BY updated_at DESC, document_id")
	if err != nil {
		return nil, fmt.Errorf("%w: list conversations: %w", domain.ErrService, err)
	}
	defer rows.Close()

	var result []domain.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan conversation: %w", domain.ErrService, err)
		}
		result = append(result, *conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list conversations: %w", domain.ErrService, err)
	}
	return result, nil
}

// Close releases the pool when the store opened it.
func (s *Store) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

func scanConversation(row interface{ Scan(dest ...any) error }) (*domain.Conversation, error) {
	var (
		conv    domain.Conversation
		history []byte
	)
	err := row.Scan(
		&conv.DocumentID,
		&conv.DocumentName,
		&conv.IndexName,
		&conv.ObjectURL,
		&conv.ChunkCount,
		&history,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	conv.History = []domain.Message{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &conv.History); err != nil {
			return nil, fmt.Errorf("%w: decode history: %w", domain.ErrParse, err)
		}
	}
	return &conv, nil
}
