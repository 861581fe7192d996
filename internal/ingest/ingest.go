// Package ingest merges suggested links into the link store.
//
// One Ingest call reads the known URL snapshot, drops duplicates,
// normalizes what is left and commits it as one batch. Steps run in
// strict sequence; nothing is cached between calls and nothing is retried.
package ingest

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/personalink/internal/domain"
	"github.com/MrSnakeDoc/personalink/internal/errx"
	"github.com/MrSnakeDoc/personalink/internal/logger"
	"github.com/MrSnakeDoc/personalink/internal/store"
)

// Result reports what happened to a batch. Admitted holds the committed records.
type Result struct {
	Admitted   []domain.LinkRecord
	Duplicates int
	Invalid    int
}

// Ingestor coordinates dedup, normalization and persistence.
type Ingestor struct {
	store      store.LinkStore
	normalizer *domain.Normalizer
	logger     logger.Logger
}

// New creates an Ingestor.
func New(s store.LinkStore, n *domain.Normalizer, log logger.Logger) *Ingestor {
	if n == nil {
		n = domain.NewNormalizer(nil, nil)
	}
	return &Ingestor{store: s, normalizer: n, logger: log}
}

// Ingest returns only the records that were admitted and committed.
//
// Fatal failures come back as *errx.Error with Kind StorageUnavailable or
// PersistenceFailed and an empty result. Duplicates and invalid candidates
// are not errors.
func (in *Ingestor) Ingest(ctx context.Context, candidates []domain.RawSuggestion) (Result, error) {
	const op = "ingest.Ingest"

	// Fetch
	known, err := in.store.ListKnownURLs(ctx)
	if err != nil {
		in.logger.Error("failed to read known urls", logger.Error(err))
		return Result{}, errx.E(op, errx.StorageUnavailable, err)
	}

	// Filter
	admitted, rejected := domain.Partition(candidates, known)
	for _, r := range rejected {
		in.logger.Debug("duplicate suggestion skipped", logger.String("url", r.URL))
	}

	// Normalize
	records := make([]domain.LinkRecord, 0, len(admitted))
	invalid := 0
	for _, raw := range admitted {
		rec, err := in.normalizer.Normalize(raw)
		if err != nil {
			invalid++
			in.logger.Warn("dropping invalid suggestion",
				logger.String("title", raw.Title),
				logger.String("url", raw.URL),
				logger.Error(err))
			continue
		}
		records = append(records, rec)
	}

	res := Result{Duplicates: len(rejected), Invalid: invalid}
	if len(records) == 0 {
		in.logger.Info("no new unique links to ingest",
			logger.Int("candidates", len(candidates)),
			logger.Int("duplicates", res.Duplicates),
			logger.Int("invalid", res.Invalid))
		res.Admitted = []domain.LinkRecord{}
		return res, nil
	}

	// Persist
	if err := in.store.CommitBatch(ctx, records); err != nil {
		in.logger.Error("failed to commit link batch",
			logger.Int("records", len(records)),
			logger.Error(err))
		return Result{}, errx.E(op, errx.PersistenceFailed, fmt.Errorf("commit %d links: %w", len(records), err))
	}

	res.Admitted = records
	in.logger.Info("links ingested",
		logger.Int("candidates", len(candidates)),
		logger.Int("admitted", len(records)),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("invalid", res.Invalid))
	return res, nil
}
