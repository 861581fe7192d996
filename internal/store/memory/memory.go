// Package memory is an in-process LinkStore used in tests and when Redis is disabled.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/personalink/internal/domain"
	"github.com/MrSnakeDoc/personalink/internal/store"
)

var (
	_ store.LinkStore     = (*Store)(nil)
	_ store.FeedbackStore = (*Store)(nil)
)

// ErrDuplicateURL is returned by CommitBatch when a record's URL is already stored.
var ErrDuplicateURL = errors.New("duplicate url")

// Store keeps links and feedback in memory.
type Store struct {
	mu       sync.RWMutex
	links    map[string]domain.LinkRecord // ID -> record
	urls     map[string]string            // URL -> ID
	feedback []domain.Feedback

	// Failure injection for tests.
	ReadErr   error
	CommitErr error
}

// New creates an empty memory store.
func New() *Store {
	return &Store{
		links: make(map[string]domain.LinkRecord),
		urls:  make(map[string]string),
	}
}

// ListKnownURLs returns a snapshot of stored URLs.
func (s *Store) ListKnownURLs(_ context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ReadErr != nil {
		return nil, s.ReadErr
	}

	known := make(map[string]struct{}, len(s.urls))
	for u := range s.urls {
		known[u] = struct{}{}
	}
	return known, nil
}

// CommitBatch inserts every record or none of them.
// A URL or ID collision aborts the whole batch.
func (s *Store) CommitBatch(_ context.Context, records []domain.LinkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CommitErr != nil {
		return s.CommitErr
	}

	batchURLs := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := s.urls[r.URL]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateURL, r.URL)
		}
		if _, ok := batchURLs[r.URL]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateURL, r.URL)
		}
		if _, ok := s.links[r.ID]; ok {
			return fmt.Errorf("id %s already exists", r.ID)
		}
		batchURLs[r.URL] = struct{}{}
	}

	for _, r := range records {
		s.links[r.ID] = r
		s.urls[r.URL] = r.ID
	}
	return nil
}

// ListAll returns all records ordered by CreatedAt, ties broken by ID.
func (s *Store) ListAll(_ context.Context, newestFirst bool) ([]domain.LinkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ReadErr != nil {
		return nil, s.ReadErr
	}

	out := make([]domain.LinkRecord, 0, len(s.links))
	for _, r := range s.links {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if newestFirst {
			a, b = b, a
		}
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out, nil
}

// ClearNewFlags flips IsNew off for records created before olderThan.
func (s *Store) ClearNewFlags(_ context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := 0
	for id, r := range s.links {
		if r.IsNew && r.CreatedAt.Before(olderThan) {
			r.IsNew = false
			s.links[id] = r
			cleared++
		}
	}
	return cleared, nil
}

// Count returns the number of stored links.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ReadErr != nil {
		return 0, s.ReadErr
	}
	return len(s.links), nil
}

// Ping reports ReadErr, if set.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ReadErr
}

// SaveFeedback appends a feedback entry.
func (s *Store) SaveFeedback(_ context.Context, fb domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CommitErr != nil {
		return s.CommitErr
	}
	s.feedback = append(s.feedback, fb)
	return nil
}

// ListFeedback returns stored feedback, newest first.
func (s *Store) ListFeedback(_ context.Context) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	out := make([]domain.Feedback, 0, len(s.feedback))
	for i := len(s.feedback) - 1; i >= 0; i-- {
		out = append(out, s.feedback[i])
	}
	return out, nil
}
