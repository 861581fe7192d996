package domain

import (
	"cmp"
	"slices"
	"strings"
)

// SortOrder selects how a link listing is ordered.
type SortOrder string

const (
	SortNewest  SortOrder = "newest"
	SortOldest  SortOrder = "oldest"
	SortPopular SortOrder = "popular"
	SortTitle   SortOrder = "title"
)

// ParseSortOrder defaults to SortNewest for empty or unknown values.
func ParseSortOrder(raw string) SortOrder {
	switch s := SortOrder(strings.ToLower(strings.TrimSpace(raw))); s {
	case SortOldest, SortPopular, SortTitle:
		return s
	default:
		return SortNewest
	}
}

// ListFilter narrows a listing. Zero values match everything.
type ListFilter struct {
	// Category matches exactly, except "youtube" which matches both
	// video and playlist categories.
	Category string
	// Query is a case-insensitive substring match on title, author and description.
	Query string
}

func (f ListFilter) match(l LinkRecord) bool {
	if c := strings.ToLower(strings.TrimSpace(f.Category)); c != "" && c != "all" {
		if c == "youtube" {
			if l.Category != CategoryYouTubeVideo && l.Category != CategoryYouTubePlaylist {
				return false
			}
		} else if string(l.Category) != c {
			return false
		}
	}

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		hay := strings.ToLower(l.Title + "\n" + l.Author + "\n" + l.Description)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

// List filters and sorts links into a new slice; the input is left untouched.
// Ties fall back to newest first, then ID.
func List(links []LinkRecord, f ListFilter, order SortOrder) []LinkRecord {
	out := make([]LinkRecord, 0, len(links))
	for _, l := range links {
		if f.match(l) {
			out = append(out, l)
		}
	}

	newest := func(a, b LinkRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}

	slices.SortStableFunc(out, func(a, b LinkRecord) int {
		switch order {
		case SortOldest:
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		case SortPopular:
			if c := cmp.Compare(b.Popularity, a.Popularity); c != 0 {
				return c
			}
		case SortTitle:
			if c := cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
				return c
			}
		}
		return newest(a, b)
	})
	return out
}
