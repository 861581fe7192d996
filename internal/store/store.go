// Package store defines the storage contract for links and feedback.
package store

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/personalink/internal/domain"
)

// LinkStore is the document-store collaborator used by ingestion and display.
type LinkStore interface {
	// ListKnownURLs reads only the url field of every stored record.
	ListKnownURLs(ctx context.Context) (map[string]struct{}, error)

	// CommitBatch inserts all records atomically. On error nothing is
	// considered committed.
	CommitBatch(ctx context.Context, records []domain.LinkRecord) error

	// ListAll returns every record ordered by CreatedAt.
	ListAll(ctx context.Context, newestFirst bool) ([]domain.LinkRecord, error)

	// ClearNewFlags sets IsNew=false on records created before olderThan
	// and returns how many were changed.
	ClearNewFlags(ctx context.Context, olderThan time.Time) (int, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}

// FeedbackStore persists messages left through the feedback form.
type FeedbackStore interface {
	SaveFeedback(ctx context.Context, fb domain.Feedback) error
	ListFeedback(ctx context.Context) ([]domain.Feedback, error)
}
