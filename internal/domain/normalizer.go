package domain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/personalink/internal/errx"
)

// MaxSeedPopularity bounds the popularity given to freshly ingested links.
const MaxSeedPopularity = 50

// IDFactory returns a fresh unique identifier on every call.
type IDFactory func() (string, error)

// Clock returns the current time.
type Clock func() time.Time

// UUIDv7 is the default IDFactory. v7 ids sort by creation time.
func UUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalizer turns RawSuggestions into storage-ready LinkRecords.
type Normalizer struct {
	validate   *validator.Validate
	newID      IDFactory
	now        Clock
	popularity func() int
}

// NewNormalizer creates a Normalizer. Nil arguments fall back to UUIDv7 and time.Now.
func NewNormalizer(idFactory IDFactory, clock Clock) *Normalizer {
	if idFactory == nil {
		idFactory = UUIDv7
	}
	if clock == nil {
		clock = time.Now
	}
	return &Normalizer{
		validate:   NewValidator(),
		newID:      idFactory,
		now:        clock,
		popularity: func() int { return rand.IntN(MaxSeedPopularity) },
	}
}

// Normalize validates raw and builds a LinkRecord with a fresh id,
// the current time, a low seeded popularity and IsNew set.
// Each call consumes one id, so normalizing the same input twice yields two records.
func (n *Normalizer) Normalize(raw RawSuggestion) (LinkRecord, error) {
	const op = "domain.Normalize"

	// The URL is stored exactly as deduplicated; only the title is trimmed.
	raw.Title = strings.TrimSpace(raw.Title)

	if err := n.validate.Struct(raw); err != nil {
		return LinkRecord{}, errx.E(op, errx.Validation, describe(err))
	}

	category, ok := ParseCategory(raw.Category, raw.IconKeywords)
	if !ok {
		category = CategoryOther
	}

	id, err := n.newID()
	if err != nil {
		return LinkRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return LinkRecord{
		ID:          id,
		URL:         raw.URL,
		Title:       raw.Title,
		Author:      strings.TrimSpace(raw.Author),
		Description: strings.TrimSpace(raw.Description),
		IconTag:     Classify(raw.IconKeywords),
		Category:    category,
		CreatedAt:   n.now(),
		Popularity:  n.popularity(),
		IsNew:       true,
	}, nil
}

// describe flattens validator errors into a single readable error.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, strings.ToLower(fe.Field())+" is required")
		case "http_url":
			parts = append(parts, fmt.Sprintf("url %q is not an absolute http(s) URL", fe.Value()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return errors.New(strings.Join(parts, "; "))
}
