package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/personalink/internal/domain"
	"github.com/MrSnakeDoc/personalink/internal/logger"
	"github.com/MrSnakeDoc/personalink/internal/store/memory"
)

const seedYAML = `---
links:
  - title: NotebookLM
    author: Google
    url: https://notebooklm.google.com/
    description: An AI-powered research and writing assistant.
    category: web
    icon: assistant
    popularity: 85
    created_at: 2023-01-01T10:00:00Z
  - title: OpenStax
    url: https://openstax.org/
    category: learning
    keywords: education
    popularity: 90
  - title: Duplicate NotebookLM
    url: https://notebooklm.google.com/
  - title: ""
    url: https://untitled.example
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "links.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create seed file: %v", err)
	}
	return path
}

func seqIDs() domain.IDFactory {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("seed-%d", n), nil
	}
}

func TestLoaderLoadAndRecords(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLoader(writeSeed(t, seedYAML), seqIDs(), func() time.Time { return now })

	f, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(f.Links) != 4 {
		t.Fatalf("Load() returned %d entries, want 4", len(f.Links))
	}

	records, err := l.Records(f)
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Records() returned %d records, want 2", len(records))
	}

	nb := records[0]
	if nb.Title != "NotebookLM" || nb.Category != domain.CategoryWebsite || nb.IconTag != domain.IconAssistant {
		t.Errorf("unexpected first record: %+v", nb)
	}
	if nb.Popularity != 85 || nb.IsNew {
		t.Errorf("seed record popularity/isNew wrong: %+v", nb)
	}
	if nb.CreatedAt.Year() != 2023 {
		t.Errorf("CreatedAt = %v, want 2023 value from file", nb.CreatedAt)
	}

	openstax := records[1]
	if openstax.IconTag != domain.IconCourse {
		t.Errorf("IconTag = %q, want classified %q", openstax.IconTag, domain.IconCourse)
	}
	if !openstax.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want clock value", openstax.CreatedAt)
	}
}

func TestRecordsIconTag(t *testing.T) {
	tests := []struct {
		name     string
		icon     string
		keywords string
		want     domain.IconTag
	}{
		{name: "known tag", icon: "book", want: domain.IconBook},
		{name: "known tag any case", icon: " Playlist ", want: domain.IconPlaylist},
		{name: "unknown icon falls back to keywords", icon: "Github", keywords: "code repository", want: domain.IconRepository},
		{name: "unknown icon without keywords", icon: "Youtube", want: domain.IconUnclassified},
		{name: "no icon", keywords: "online course", want: domain.IconCourse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader("", seqIDs(), nil)
			records, err := l.Records(File{Links: []Entry{{
				Title:    "t",
				URL:      "https://x.example",
				Icon:     tt.icon,
				Keywords: tt.keywords,
			}}})
			if err != nil {
				t.Fatalf("Records() error = %v", err)
			}
			if records[0].IconTag != tt.want {
				t.Errorf("IconTag = %q, want %q", records[0].IconTag, tt.want)
			}
		})
	}
}

func TestLoaderLoadExpandsEnv(t *testing.T) {
	t.Setenv("PL_TEST_SITE", "https://env.example")
	l := NewLoader(writeSeed(t, "links:\n  - title: Env\n    url: ${PL_TEST_SITE}\n"), nil, nil)

	f, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Links[0].URL != "https://env.example" {
		t.Errorf("URL = %q, want expanded value", f.Links[0].URL)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	l := NewLoader("/nonexistent/path/links.yaml", nil, nil)
	if _, err := l.Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestRecordsEmpty(t *testing.T) {
	l := NewLoader("", seqIDs(), nil)
	if _, err := l.Records(File{}); err == nil {
		t.Error("Records() with no links should return error")
	}
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	log := logger.New("error", false)
	l := NewLoader(writeSeed(t, seedYAML), seqIDs(), nil)

	n, err := SeedIfEmpty(ctx, s, l, log)
	if err != nil {
		t.Fatalf("SeedIfEmpty() error = %v", err)
	}
	if n != 2 {
		t.Errorf("SeedIfEmpty() = %d, want 2", n)
	}

	n, err = SeedIfEmpty(ctx, s, l, log)
	if err != nil {
		t.Fatalf("second SeedIfEmpty() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second SeedIfEmpty() = %d, want 0", n)
	}
}
