package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docu-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is a SQLite-backed conversation store.
type Store struct {
	db   *sql.DB
	path string
}

// Ensure Store implements the interface.
var _ driven.ConversationStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docu/data/conversations.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docu", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %w", domain.ErrIO, err)
	}

	dbPath := filepath.Join(dataDir, "conversations.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrService, err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations and records their versions.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_conversations.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Load retrieves a conversation by document ID.
func (s *Store) Load(ctx context.Context, documentID string) (*domain.Conversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT document_id, document_name, index_name, object_url, chunk_count, history, created_at, updated_at
		FROM conversations WHERE document_id = ?
	`, documentID)

	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: conversation %s", domain.ErrNotFound, documentID)
	}
	if errors.Is(err, domain.ErrParse) {
		return nil, fmt.Errorf("load conversation %s: %w", documentID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load conversation %s: %w", domain.ErrService, documentID, err)
	}
	return conv, nil
}

// Save replaces the conversation for conv.DocumentID.
func (s *Store) Save(ctx context.Context, conv *domain.Conversation) error {
	history := conv.History
	if history == nil {
		history = []domain.Message{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshalling history: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations
			(document_id, document_name, index_name, object_url, chunk_count, history, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			document_name = excluded.document_name,
			index_name = excluded.index_name,
			object_url = excluded.object_url,
			chunk_count = excluded.chunk_count,
			history = excluded.history,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`,
		conv.DocumentID,
		conv.DocumentName,
		conv.IndexName,
		conv.ObjectURL,
		conv.ChunkCount,
		string(historyJSON),
		conv.CreatedAt.UTC().Format(timeLayout),
		conv.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("%w: save conversation %s: %w", domain.ErrService, conv.DocumentID, err)
	}
	return nil
}

// List returns all conversations, most recently updated first.
func (s *Store) List(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, document_name, index_name, object_url, chunk_count, history, created_at, updated_at
		FROM conversations ORDER BY updated_at DESC, document_id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list conversations: %w", domain.ErrService, err)
	}
	defer rows.Close()

	var result []domain.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if errors.Is(err, domain.ErrParse) {
			return nil, err
		}
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

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(row scanner) (*domain.Conversation, error) {
	var (
		conv                 domain.Conversation
		historyJSON          string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&conv.DocumentID,
		&conv.DocumentName,
		&conv.IndexName,
		&conv.ObjectURL,
		&conv.ChunkCount,
		&historyJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(historyJSON), &conv.History); err != nil {
		return nil, fmt.Errorf("%w: decode history %s: %w", domain.ErrParse, conv.DocumentID, err)
	}
	if conv.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("%w: created_at of %s: %w", domain.ErrParse, conv.DocumentID, err)
	}
	if conv.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("%w: updated_at of %s: %w", domain.ErrParse, conv.DocumentID, err)
	}
	return &conv, nil
}
