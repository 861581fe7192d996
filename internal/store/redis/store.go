package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/personalink/internal/store"
)

// DefaultCommitRetries bounds optimistic-lock retries in CommitBatch.
const DefaultCommitRetries = 3

var (
	_ store.LinkStore     = (*Store)(nil)
	_ store.FeedbackStore = (*Store)(nil)
)

// Store handles Redis operations for links and feedback
type Store struct {
	client  redis.UniversalClient
	retries int
}

// NewStore creates a new Redis store
func NewStore(client redis.UniversalClient) *Store {
	return &Store{
		client:  client,
		retries: DefaultCommitRetries,
	}
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
