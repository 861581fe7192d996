package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/personalink/internal/domain"
)

// ErrDuplicateURL is returned when a batch contains a URL that is already stored.
var ErrDuplicateURL = errors.New("duplicate url")

// ListKnownURLs returns the set of stored URLs without loading records
func (s *Store) ListKnownURLs(ctx context.Context) (map[string]struct{}, error) {
	members, err := s.client.SMembers(ctx, KeyLinkURLs).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get link urls: %w", err)
	}

	known := make(map[string]struct{}, len(members))
	for _, u := range members {
		known[u] = struct{}{}
	}
	return known, nil
}

// CommitBatch writes all records in a single MULTI/EXEC.
//
// The URL set is WATCHed and re-checked inside the transaction, so two
// concurrent batches carrying the same URL cannot both land.
func (s *Store) CommitBatch(ctx context.Context, records []domain.LinkRecord) error {
	if len(records) == 0 {
		return nil
	}

	payloads := make([][]byte, len(records))
	batchURLs := make([]interface{}, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if _, dup := seen[r.URL]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateURL, r.URL)
		}
		seen[r.URL] = struct{}{}

		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal link %s: %w", r.ID, err)
		}
		payloads[i] = data
		batchURLs[i] = r.URL
	}

	txf := func(tx *redis.Tx) error {
		exists, err := tx.SMIsMember(ctx, KeyLinkURLs, batchURLs...).Result()
		if err != nil {
			return fmt.Errorf("failed to check link urls: %w", err)
		}
		for i, ok := range exists {
			if ok {
				return fmt.Errorf("%w: %s", ErrDuplicateURL, records[i].URL)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, r := range records {
				pipe.SetNX(ctx, LinkKey(r.ID), payloads[i], 0)
				pipe.SAdd(ctx, KeyLinkURLs, r.URL)
				pipe.ZAdd(ctx, KeyLinksByCreated, redis.Z{
					Score:  float64(r.CreatedAt.UnixMilli()),
					Member: r.ID,
				})
			}
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt <= s.retries; attempt++ {
		err = s.client.Watch(ctx, txf, KeyLinkURLs)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("failed to commit links: %w", err)
	}
	return nil
}

// ListAll retrieves every link ordered by creation time
func (s *Store) ListAll(ctx context.Context, newestFirst bool) ([]domain.LinkRecord, error) {
	var (
		ids []string
		err error
	)
	if newestFirst {
		ids, err = s.client.ZRevRange(ctx, KeyLinksByCreated, 0, -1).Result()
	} else {
		ids, err = s.client.ZRange(ctx, KeyLinksByCreated, 0, -1).Result()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link IDs: %w", err)
	}

	return s.getLinks(ctx, ids)
}

// ClearNewFlags sets IsNew=false on links created before olderThan
func (s *Store) ClearNewFlags(ctx context.Context, olderThan time.Time) (int, error) {
	ids, err := s.client.ZRangeByScore(ctx, KeyLinksByCreated, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(olderThan.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get link IDs: %w", err)
	}

	links, err := s.getLinks(ctx, ids)
	if err != nil {
		return 0, err
	}

	pipe := s.client.Pipeline()
	cleared := 0
	for _, link := range links {
		if !link.IsNew {
			continue
		}
		link.IsNew = false
		data, err := json.Marshal(link)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal link %s: %w", link.ID, err)
		}
		pipe.SetXX(ctx, LinkKey(link.ID), data, 0)
		cleared++
	}

	if cleared == 0 {
		return 0, nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to clear new flags: %w", err)
	}
	return cleared, nil
}

// Count returns the number of stored links
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.client.ZCard(ctx, KeyLinksByCreated).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return int(n), nil
}

// getLinks loads records for ids in one MGET, preserving order.
// Missing or corrupt entries are skipped.
func (s *Store) getLinks(ctx context.Context, ids []string) ([]domain.LinkRecord, error) {
	if len(ids) == 0 {
		return []domain.LinkRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = LinkKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}

	links := make([]domain.LinkRecord, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var link domain.LinkRecord
		if err := json.Unmarshal([]byte(raw), &link); err != nil {
			continue
		}
		links = append(links, link)
	}
	return links, nil
}
