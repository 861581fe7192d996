package domain

import (
	"strings"
	"time"
)

// Category is the kind of resource a link points to.
type Category string

const (
	CategoryProjectRepository Category = "project_repository"
	CategoryWebsite           Category = "website"
	CategoryBook              Category = "book"
	CategoryYouTubeVideo      Category = "youtube_video"
	CategoryYouTubePlaylist   Category = "youtube_playlist"
	CategoryLearning          Category = "learning"
	CategoryOther             Category = "other"
)

var categories = map[Category]struct{}{
	CategoryProjectRepository: {},
	CategoryWebsite:           {},
	CategoryBook:              {},
	CategoryYouTubeVideo:      {},
	CategoryYouTubePlaylist:   {},
	CategoryLearning:          {},
	CategoryOther:             {},
}

// Valid reports whether c belongs to the known enumeration.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// ParseCategory maps a free-form category string to a Category.
// The legacy combined "youtube" value is split using the keyword hint.
func ParseCategory(raw, hint string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if c == "youtube" {
		if strings.Contains(strings.ToLower(hint), "playlist") {
			return CategoryYouTubePlaylist, true
		}
		return CategoryYouTubeVideo, true
	}
	if c == "web" {
		return CategoryWebsite, true
	}
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// LinkRecord is the canonical stored form of a useful link.
//
// A LinkRecord is uniquely identified by its ID. The URL is the
// deduplication key: no two records in a store may share one.
type LinkRecord struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned once at insertion and never reused.
	ID string `json:"id"`

	// URL is compared by exact string equality.
	URL string `json:"url"`

	// ─────────────────────────────
	// Description
	// ─────────────────────────────

	Title       string   `json:"title"`
	Author      string   `json:"author,omitempty"`
	Description string   `json:"description,omitempty"`
	IconTag     IconTag  `json:"iconTag"`
	Category    Category `json:"category"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is set once at insertion time.
	CreatedAt time.Time `json:"createdAt"`

	// Popularity is seeded at insertion and never mutated by ingestion.
	Popularity int `json:"popularity"`

	// IsNew is true for freshly ingested records. Clearing it is the
	// only permitted post-creation mutation.
	IsNew bool `json:"isNew"`
}

// RawSuggestion is an unvalidated link proposal from the suggestion service.
type RawSuggestion struct {
	Title        string `json:"title" validate:"required"`
	URL          string `json:"url" validate:"required,http_url"`
	Author       string `json:"author,omitempty"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	IconKeywords string `json:"iconKeywords"`
}

// ExistingLinkRef is the minimal projection of a LinkRecord sent upstream
// as a "do not repeat these" hint.
type ExistingLinkRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Refs projects records to ExistingLinkRefs, preserving order.
func Refs(records []LinkRecord) []ExistingLinkRef {
	refs := make([]ExistingLinkRef, 0, len(records))
	for _, r := range records {
		refs = append(refs, ExistingLinkRef{Title: r.Title, URL: r.URL})
	}
	return refs
}
