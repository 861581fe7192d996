package deps

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/personalink/internal/domain"
	"github.com/MrSnakeDoc/personalink/internal/ingest"
	"github.com/MrSnakeDoc/personalink/internal/logger"
	"github.com/MrSnakeDoc/personalink/internal/store"
)

// Suggester fetches a batch of new link candidates from an external source.
type Suggester interface {
	RequestSuggestions(ctx context.Context, existing []domain.ExistingLinkRef) ([]domain.RawSuggestion, error)
}

// Ingester admits candidates into the store.
type Ingester interface {
	Ingest(ctx context.Context, candidates []domain.RawSuggestion) (ingest.Result, error)
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to reach admin endpoints
	AllowedCIDRS []string         // IPs allowed to reach admin endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	StoreKind string              // "redis" | "memory", reported by /infra
	Links     store.LinkStore     // link persistence
	Feedback  store.FeedbackStore // feedback persistence
	Ingestor  Ingester            // dedup + normalize + commit pipeline
	Suggester Suggester           // nil when no suggestion endpoint is configured
	Model     string              // suggestion model name, reported by /infra
	Validate  *validator.Validate // request validation
	NewID     domain.IDFactory    // feedback ids

	SuggestBurst      int // per-IP burst on /api/links/suggest
	SuggestRefillRate int // per-IP tokens per minute on /api/links/suggest

	ExpireTrigger chan struct{} // manual new-flag expiry (nil disables the endpoint)
}
