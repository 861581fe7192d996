// Package suggest asks an external LLM-backed service for new useful links.
package suggest

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/personalink/internal/domain"
	"github.com/MrSnakeDoc/personalink/internal/errx"
	"github.com/MrSnakeDoc/personalink/internal/logger"
)

// DefaultBatchSize is the number of links the service is asked to return:
// a repository, a website, a book, a video and a playlist.
const DefaultBatchSize = 5

// Request is the outbound payload.
type Request struct {
	Model         string                   `json:"model,omitempty"`
	Count         int                      `json:"count"`
	ExistingLinks []domain.ExistingLinkRef `json:"existingLinks"`
}

// Response is the inbound payload. A nil SuggestedLinks means the field was absent.
type Response struct {
	SuggestedLinks []domain.RawSuggestion `json:"suggestedLinks"`
}

// Source performs the raw call to the suggestion service.
type Source interface {
	Suggest(ctx context.Context, req Request) (*Response, error)
}

// Adapter turns the existing link list into a request and checks the
// shape of what comes back. It never deduplicates, repairs or pads.
type Adapter struct {
	source    Source
	batchSize int
	strict    bool
	logger    logger.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithBatchSize sets the expected number of suggestions.
func WithBatchSize(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

// WithStrictCount rejects responses whose length differs from the batch size.
func WithStrictCount(strict bool) Option {
	return func(a *Adapter) { a.strict = strict }
}

// NewAdapter creates an Adapter. Strict count checking is on by default.
func NewAdapter(source Source, log logger.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		source:    source,
		batchSize: DefaultBatchSize,
		strict:    true,
		logger:    log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var (
	errNoResponse  = errors.New("no response")
	errNoLinks     = errors.New("suggestedLinks missing or empty")
	errWrongCount  = errors.New("unexpected number of suggestions")
	errBadCategory = errors.New("unknown category")
)

// RequestSuggestions returns the candidate list from the service.
// Any contract breach yields an errx.UpstreamContract error and no candidates.
func (a *Adapter) RequestSuggestions(ctx context.Context, existing []domain.ExistingLinkRef) ([]domain.RawSuggestion, error) {
	const op = "suggest.RequestSuggestions"

	if existing == nil {
		existing = []domain.ExistingLinkRef{}
	}

	a.logger.Info("requesting link suggestions",
		logger.Int("existing", len(existing)),
		logger.Int("batch_size", a.batchSize))

	resp, err := a.source.Suggest(ctx, Request{Count: a.batchSize, ExistingLinks: existing})
	if err != nil {
		return nil, errx.E(op, errx.UpstreamContract, err)
	}
	if err := a.check(resp); err != nil {
		a.logger.Warn("suggestion service broke its contract", logger.Error(err))
		return nil, errx.E(op, errx.UpstreamContract, err)
	}

	out := make([]domain.RawSuggestion, len(resp.SuggestedLinks))
	copy(out, resp.SuggestedLinks)
	return out, nil
}

func (a *Adapter) check(resp *Response) error {
	if resp == nil {
		return errNoResponse
	}
	if len(resp.SuggestedLinks) == 0 {
		return errNoLinks
	}
	if a.strict && len(resp.SuggestedLinks) != a.batchSize {
		return fmt.Errorf("%w: got %d, want %d", errWrongCount, len(resp.SuggestedLinks), a.batchSize)
	}
	for i, s := range resp.SuggestedLinks {
		if _, ok := domain.ParseCategory(s.Category, s.IconKeywords); !ok {
			return fmt.Errorf("%w %q at index %d", errBadCategory, s.Category, i)
		}
	}
	return nil
}
