package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/personalink/internal/domain"
	"github.com/MrSnakeDoc/personalink/internal/logger"
	"github.com/MrSnakeDoc/personalink/internal/store/memory"
)

func TestNewFlagExpirer_Expire(t *testing.T) {
	log := logger.New("error", false)
	s := memory.New()

	now := time.Now()
	links := []domain.LinkRecord{
		{
			ID:        "fresh",
			URL:       "https://fresh.example.com",
			CreatedAt: now.Add(-1 * time.Hour),
			IsNew:     true,
		},
		{
			ID:        "week-old",
			URL:       "https://week-old.example.com",
			CreatedAt: now.Add(-8 * 24 * time.Hour), // 8 days ago
			IsNew:     true,
		},
		{
			ID:        "seeded",
			URL:       "https://seeded.example.com",
			CreatedAt: now.Add(-300 * 24 * time.Hour),
			IsNew:     false,
		},
	}
	if err := s.CommitBatch(context.Background(), links); err != nil {
		t.Fatalf("CommitBatch failed: %v", err)
	}

	e := NewNewFlagExpirer(s, log, time.Hour, 7*24*time.Hour, nil)

	cleared, err := e.Expire(context.Background())
	if err != nil {
		t.Fatalf("Expire failed: %v", err)
	}
	if cleared != 1 {
		t.Errorf("Expected 1 link cleared, got %d", cleared)
	}

	all, _ := s.ListAll(context.Background(), true)
	for _, l := range all {
		switch l.ID {
		case "fresh":
			if !l.IsNew {
				t.Error("Fresh link lost its new flag")
			}
		case "week-old", "seeded":
			if l.IsNew {
				t.Errorf("%s should not be new", l.ID)
			}
		}
	}
}

func TestNewFlagExpirer_DefaultTTL(t *testing.T) {
	e := NewNewFlagExpirer(memory.New(), logger.New("error", false), time.Hour, 0, nil)
	if e.ttl != DefaultNewFlagTTL {
		t.Errorf("ttl = %v, want %v", e.ttl, DefaultNewFlagTTL)
	}
}

func TestNewFlagExpirer_NonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Minute} {
		e := NewNewFlagExpirer(memory.New(), logger.NewNop(), interval, time.Hour, nil)
		if e.interval != DefaultNewFlagInterval {
			t.Errorf("interval %v: got %v, want %v", interval, e.interval, DefaultNewFlagInterval)
		}

		ctx, cancel := context.WithCancel(context.Background())
		if err := e.Start(ctx); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		e.Stop()
		cancel()
	}
}

type failingStore struct{ *memory.Store }

func (failingStore) ClearNewFlags(context.Context, time.Time) (int, error) {
	return 0, errors.New("store down")
}

func TestNewFlagExpirer_StartStop(t *testing.T) {
	e := NewNewFlagExpirer(failingStore{memory.New()}, logger.New("error", false), 10*time.Millisecond, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A failing initial pass is logged, not returned.
	if err := e.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	e.Stop()
}

func TestNewFlagExpirer_ManualTrigger(t *testing.T) {
	s := memory.New()
	trigger := make(chan struct{}, 1)
	e := NewNewFlagExpirer(s, logger.NewNop(), time.Hour, 7*24*time.Hour, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := e.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer e.Stop()

	// Committed after the initial pass, so only the trigger can clear it.
	old := domain.LinkRecord{
		ID:        "old",
		URL:       "https://old.example.com",
		CreatedAt: time.Now().Add(-30 * 24 * time.Hour),
		IsNew:     true,
	}
	if err := s.CommitBatch(ctx, []domain.LinkRecord{old}); err != nil {
		t.Fatalf("CommitBatch failed: %v", err)
	}

	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		all, _ := s.ListAll(ctx, true)
		if len(all) == 1 && !all[0].IsNew {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("manual trigger did not clear the new flag")
}
