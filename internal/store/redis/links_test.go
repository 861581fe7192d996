package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/personalink/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func link(id, url string, created time.Time) domain.LinkRecord {
	return domain.LinkRecord{
		ID:        id,
		URL:       url,
		Title:     "title " + id,
		IconTag:   domain.IconLink,
		Category:  domain.CategoryWebsite,
		CreatedAt: created,
		IsNew:     true,
	}
}

func TestCommitBatchAndList(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.CommitBatch(ctx, []domain.LinkRecord{
		link("b", "https://b.example", base.Add(time.Minute)),
		link("a", "https://a.example", base),
	}))

	known, err := s.ListKnownURLs(ctx)
	require.NoError(t, err)
	assert.Len(t, known, 2)
	assert.Contains(t, known, "https://a.example")

	oldest, err := s.ListAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, oldest, 2)
	assert.Equal(t, "a", oldest[0].ID)
	assert.True(t, oldest[0].CreatedAt.Equal(base))

	newest, err := s.ListAll(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "b", newest[0].ID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCommitBatchEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.CommitBatch(context.Background(), nil))
}

func TestCommitBatchRejectsStoredURL(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	now := time.Now()

	require.NoError(t, s.CommitBatch(ctx, []domain.LinkRecord{link("a", "https://a.example", now)}))

	err := s.CommitBatch(ctx, []domain.LinkRecord{
		link("b", "https://b.example", now),
		link("c", "https://a.example", now),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateURL))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "rejected batch must not be partially applied")

	known, _ := s.ListKnownURLs(ctx)
	assert.NotContains(t, known, "https://b.example")
}

func TestCommitBatchRejectsInBatchDuplicate(t *testing.T) {
	s, _ := newTestStore(t)
	now := time.Now()
	err := s.CommitBatch(context.Background(), []domain.LinkRecord{
		link("a", "https://a.example", now),
		link("b", "https://a.example", now),
	})
	assert.ErrorIs(t, err, ErrDuplicateURL)
}

func TestCommitBatchUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	s := NewStore(client)

	err := s.CommitBatch(context.Background(), []domain.LinkRecord{link("a", "https://a.example", time.Now())})
	assert.Error(t, err)

	_, err = s.ListKnownURLs(context.Background())
	assert.Error(t, err)
}

func TestClearNewFlags(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	now := time.Now()

	require.NoError(t, s.CommitBatch(ctx, []domain.LinkRecord{
		link("old", "https://old.example", now.Add(-48*time.Hour)),
		link("fresh", "https://fresh.example", now),
	}))

	n, err := s.ClearNewFlags(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := s.ListAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[0].IsNew)
	assert.True(t, all[1].IsNew)

	n, err = s.ClearNewFlags(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListAllSkipsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)
	now := time.Now()

	require.NoError(t, s.CommitBatch(ctx, []domain.LinkRecord{
		link("a", "https://a.example", now),
		link("b", "https://b.example", now.Add(time.Second)),
	}))
	require.NoError(t, mr.Set(LinkKey("a"), "{not json"))

	all, err := s.ListAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].ID)
}

func TestFeedback(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.SaveFeedback(ctx, domain.Feedback{ID: "1", Type: "c"}))
	require.NoError(t, s.SaveFeedback(ctx, domain.Feedback{ID: "2", Type: "f"}))

	got, err := s.ListFeedback(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
}

func TestPing(t *testing.T) {
	s, _ := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
