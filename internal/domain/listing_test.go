package domain

import (
	"testing"
	"time"
)

func listingFixture() []LinkRecord {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return []LinkRecord{
		{ID: "a", Title: "beta", Category: CategoryWebsite, Popularity: 10, CreatedAt: base},
		{ID: "b", Title: "Alpha", Category: CategoryYouTubeVideo, Popularity: 40, CreatedAt: base.Add(time.Hour), Description: "Go concurrency talk"},
		{ID: "c", Title: "gamma", Category: CategoryYouTubePlaylist, Popularity: 40, CreatedAt: base.Add(2 * time.Hour), Author: "Gopher"},
		{ID: "d", Title: "delta", Category: CategoryBook, Popularity: 5, CreatedAt: base.Add(-time.Hour)},
	}
}

func ids(links []LinkRecord) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestList(t *testing.T) {
	tests := []struct {
		name   string
		filter ListFilter
		order  SortOrder
		want   []string
	}{
		{name: "newest", order: SortNewest, want: []string{"c", "b", "a", "d"}},
		{name: "oldest", order: SortOldest, want: []string{"d", "a", "b", "c"}},
		{name: "popular ties newest first", order: SortPopular, want: []string{"c", "b", "a", "d"}},
		{name: "title case-insensitive", order: SortTitle, want: []string{"b", "a", "d", "c"}},
		{name: "category exact", filter: ListFilter{Category: "book"}, order: SortNewest, want: []string{"d"}},
		{name: "youtube matches both", filter: ListFilter{Category: "YouTube"}, order: SortNewest, want: []string{"c", "b"}},
		{name: "all category", filter: ListFilter{Category: "all"}, order: SortOldest, want: []string{"d", "a", "b", "c"}},
		{name: "query description", filter: ListFilter{Query: "CONCURRENCY"}, order: SortNewest, want: []string{"b"}},
		{name: "query author", filter: ListFilter{Query: "gopher"}, order: SortNewest, want: []string{"c"}},
		{name: "no match", filter: ListFilter{Query: "rust"}, order: SortNewest, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(List(listingFixture(), tt.filter, tt.order))
			if !equalIDs(got, tt.want) {
				t.Errorf("List() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListDoesNotMutateInput(t *testing.T) {
	in := listingFixture()
	_ = List(in, ListFilter{}, SortTitle)
	if got := ids(in); !equalIDs(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("input reordered: %v", got)
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := map[string]SortOrder{
		"":        SortNewest,
		"newest":  SortNewest,
		"Oldest":  SortOldest,
		"popular": SortPopular,
		" title ": SortTitle,
		"random":  SortNewest,
	}
	for in, want := range tests {
		if got := ParseSortOrder(in); got != want {
			t.Errorf("ParseSortOrder(%q) = %q, want %q", in, got, want)
		}
	}
}
