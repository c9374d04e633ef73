// Package redis provides a Redis-backed conversation store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
)

// DefaultKeyPrefix namespaces every key written by the store.
const DefaultKeyPrefix = "docu"

// Verify interface compliance.
var _ driven.ConversationStore = (*Store)(nil)

// Store keeps each conversation as a JSON value and maintains a sorted set
// of document ids scored by last update time for listing.
type Store struct {
	client redis.UniversalClient
	prefix string
	owned  bool
}

// Option configures the store.
type Option func(*Store)

// WithKeyPrefix overrides the key namespace.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewStore wraps an existing client. The caller keeps ownership of it.
func NewStore(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open parses a redis:// URL, connects and verifies the connection.
func Open(ctx context.Context, url string, opts ...Option) (*Store, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: parse redis url: %w", domain.ErrInvalidParameter, err)
	}
	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: connect redis %s: %w", domain.ErrService, options.Addr, err)
	}
	s := NewStore(client, opts...)
	s.owned = true
	return s, nil
}

func (s *Store) conversationKey(id string) string {
	return s.prefix + ":conversation:" + id
}

func (s *Store) listKey() string {
	return s.prefix + ":conversations"
}

// Load returns the conversation for documentID.
func (s *Store) Load(ctx context.Context, documentID string) (*domain.Conversation, error) {
	data, err := s.client.Get(ctx, s.conversationKey(documentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: conversation %s", domain.ErrNotFound, documentID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load conversation %s: %w", domain.ErrService, documentID, err)
	}
	return decode(documentID, data)
}

// Save replaces the stored conversation.
func (s *Store) Save(ctx context.Context, conv *domain.Conversation) error {
	if conv == nil || conv.DocumentID == "" {
		return fmt.Errorf("%w: conversation requires a document id", domain.ErrInvalidParameter)
	}
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("%w: encode conversation %s: %w", domain.ErrParse, conv.DocumentID, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.conversationKey(conv.DocumentID), data, 0)
		pipe.ZAdd(ctx, s.listKey(), redis.Z{
			Score:  float64(conv.UpdatedAt.UnixMilli()),
			Member: conv.DocumentID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: save conversation %s: %w", domain.ErrService, conv.DocumentID, err)
	}
	return nil
}

// List returns all conversations, most recently updated first.
func (s *Store) List(ctx context.Context) ([]domain.Conversation, error) {
	ids, err := s.client.ZRevRange(ctx, s.listKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list conversations: %w", domain.ErrService, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.conversationKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list conversations: %w", domain.ErrService, err)
	}

	result := make([]domain.Conversation, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a value; skip it.
			continue
		}
		conv, err := decode(ids[i], []byte(raw))
		if err != nil {
			return nil, err
		}
		result = append(result, *conv)
	}
	return result, nil
}

// Close releases the client when the store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

func decode(id string, data []byte) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("%w: decode conversation %s: %w", domain.ErrParse, id, err)
	}
	if conv.History == nil {
		conv.History = []domain.Message{}
	}
	return &conv, nil
}
