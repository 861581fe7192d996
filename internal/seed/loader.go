// Package seed loads the initial useful-links collection from a YAML file.
package seed

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/personalink/internal/domain"
	"github.com/MrSnakeDoc/personalink/internal/logger"
	"github.com/MrSnakeDoc/personalink/internal/store"
)

// Entry is one link in the seed file.
type Entry struct {
	Title       string    `yaml:"title"`
	URL         string    `yaml:"url"`
	Author      string    `yaml:"author"`
	Description string    `yaml:"description"`
	Category    string    `yaml:"category"`
	Icon        string    `yaml:"icon"`
	Keywords    string    `yaml:"keywords"`
	Popularity  int       `yaml:"popularity"`
	CreatedAt   time.Time `yaml:"created_at"`
}

// File is the root of the seed YAML.
type File struct {
	Links []Entry `yaml:"links"`
}

// Loader reads and maps a seed file.
type Loader struct {
	filePath string
	newID    domain.IDFactory
	now      domain.Clock
}

// NewLoader creates a Loader. Nil factories fall back to UUIDv7 and time.Now.
func NewLoader(filePath string, idFactory domain.IDFactory, clock domain.Clock) *Loader {
	if idFactory == nil {
		idFactory = domain.UUIDv7
	}
	if clock == nil {
		clock = time.Now
	}
	return &Loader{filePath: filePath, newID: idFactory, now: clock}
}

var envVar = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)

// Load reads the YAML file, expanding ${VAR} references from the environment.
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return File{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	data = envVar.ReplaceAllFunc(data, func(m []byte) []byte {
		return []byte(os.Getenv(string(envVar.FindSubmatch(m)[1])))
	})

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	return f, nil
}

// Records maps entries to LinkRecords. Entries without a title or URL are
// skipped and later entries repeating a URL are dropped. Seed records are
// never flagged as new.
func (l *Loader) Records(f File) ([]domain.LinkRecord, error) {
	raws := make([]domain.RawSuggestion, 0, len(f.Links))
	byURL := make(map[string]Entry, len(f.Links))
	for _, e := range f.Links {
		e.Title = strings.TrimSpace(e.Title)
		e.URL = strings.TrimSpace(e.URL)
		if e.Title == "" || e.URL == "" {
			continue
		}
		raws = append(raws, domain.RawSuggestion{Title: e.Title, URL: e.URL})
		if _, ok := byURL[e.URL]; !ok {
			byURL[e.URL] = e
		}
	}

	unique, _ := domain.Partition(raws, nil)

	records := make([]domain.LinkRecord, 0, len(unique))
	for _, raw := range unique {
		e := byURL[raw.URL]

		id, err := l.newID()
		if err != nil {
			return nil, err
		}

		category, ok := domain.ParseCategory(e.Category, e.Keywords)
		if !ok {
			category = domain.CategoryOther
		}

		icon := domain.IconTag(strings.ToLower(strings.TrimSpace(e.Icon)))
		if !icon.Valid() {
			icon = domain.Classify(e.Keywords)
		}

		created := e.CreatedAt
		if created.IsZero() {
			created = l.now()
		}

		popularity := e.Popularity
		if popularity < 0 {
			popularity = 0
		}

		records = append(records, domain.LinkRecord{
			ID:          id,
			URL:         e.URL,
			Title:       e.Title,
			Author:      e.Author,
			Description: e.Description,
			IconTag:     icon,
			Category:    category,
			CreatedAt:   created,
			Popularity:  popularity,
			IsNew:       false,
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no valid links found in seed file")
	}
	return records, nil
}

// SeedIfEmpty commits the seed file as one batch when the store holds no links.
// It returns the number of records written.
func SeedIfEmpty(ctx context.Context, s store.LinkStore, l *Loader, log logger.Logger) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	if n > 0 {
		log.Debug("store already has links, skipping seed", logger.Int("count", n))
		return 0, nil
	}

	f, err := l.Load()
	if err != nil {
		return 0, err
	}
	records, err := l.Records(f)
	if err != nil {
		return 0, err
	}

	if err := s.CommitBatch(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to commit seed links: %w", err)
	}

	log.Info("seeded links", logger.Int("count", len(records)), logger.String("file", l.filePath))
	return len(records), nil
}
