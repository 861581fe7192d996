package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/personalink/internal/logger"
	"github.com/MrSnakeDoc/personalink/internal/store"
)

const (
	// DefaultNewFlagTTL is how long an ingested link keeps its "new" badge
	DefaultNewFlagTTL = 7 * 24 * time.Hour // 7 days
	// DefaultNewFlagInterval is used when the configured interval is not positive
	DefaultNewFlagInterval = time.Hour
)

// NewFlagExpirer periodically clears IsNew on links older than the TTL
type NewFlagExpirer struct {
	store    store.LinkStore
	logger   logger.Logger
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
	stopCh   chan struct{}

	manualTrigger chan struct{}
}

// NewNewFlagExpirer creates a new expirer
func NewNewFlagExpirer(
	s store.LinkStore,
	log logger.Logger,
	interval time.Duration,
	ttl time.Duration,
	manualTrigger chan struct{},
) *NewFlagExpirer {
	if ttl <= 0 {
		ttl = DefaultNewFlagTTL
	}
	if interval <= 0 {
		interval = DefaultNewFlagInterval
	}

	return &NewFlagExpirer{
		store:    s,
		logger:   log,
		interval: interval,
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),

		manualTrigger: manualTrigger,
	}
}

// Start runs one pass immediately, then one per interval and one per manual trigger.
// A nil trigger channel never fires.
func (e *NewFlagExpirer) Start(ctx context.Context) error {
	if _, err := e.Expire(ctx); err != nil {
		e.logger.Warn("initial new-flag expiry failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(e.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := e.Expire(ctx); err != nil {
					e.logger.Error("new-flag expiry failed",
						logger.Error(err))
				}
			case <-e.manualTrigger:
				e.logger.Info("manual new-flag expiry triggered")
				if _, err := e.Expire(ctx); err != nil {
					e.logger.Error("manual new-flag expiry failed",
						logger.Error(err))
				}
			case <-e.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the expirer
func (e *NewFlagExpirer) Stop() {
	close(e.stopCh)
}

// Expire clears the new flag on every link created more than ttl ago
func (e *NewFlagExpirer) Expire(ctx context.Context) (int, error) {
	cutoff := e.now().Add(-e.ttl)

	cleared, err := e.store.ClearNewFlags(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if cleared > 0 {
		e.logger.Info("cleared new flag on links",
			logger.Int("count", cleared),
			logger.Duration("ttl", e.ttl))
	} else {
		e.logger.Debug("no links to un-flag")
	}

	return cleared, nil
}
