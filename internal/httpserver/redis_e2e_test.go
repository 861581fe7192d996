package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/personalink/internal/config"
	"github.com/MrSnakeDoc/personalink/internal/domain"
	"github.com/MrSnakeDoc/personalink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/personalink/internal/ingest"
	"github.com/MrSnakeDoc/personalink/internal/logger"
	redisstore "github.com/MrSnakeDoc/personalink/internal/store/redis"
)

// TestSuggestFlowOnRedis runs the suggest endpoint against the Redis store:
// stored {A, B}, suggested [A, C, C, D] => only C and D are added.
func TestSuggestFlowOnRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	st := redisstore.NewStore(client)
	ctx := context.Background()
	log := logger.NewNop()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.CommitBatch(ctx, []domain.LinkRecord{
		{ID: "a", URL: "https://a.example", Title: "A", Category: domain.CategoryWebsite, CreatedAt: base},
		{ID: "b", URL: "https://b.example", Title: "B", Category: domain.CategoryBook, CreatedAt: base.Add(time.Minute)},
	}))

	suggester := &stubSuggester{links: []domain.RawSuggestion{
		raw("https://a.example"),
		raw("https://c.example"),
		{Title: "C again", URL: "https://c.example", Category: "book"},
		{Title: "D", URL: "https://d.example", Category: "youtube", IconKeywords: "video playlist"},
	}}

	d := deps.Deps{
		Logger:            log,
		StartTime:         time.Now(),
		Links:             st,
		Feedback:          st,
		Ingestor:          ingest.New(st, nil, log),
		Suggester:         suggester,
		Validate:          domain.NewValidator(),
		SuggestBurst:      10,
		SuggestRefillRate: 10,
	}
	h := NewRouter(&config.Config{RequestTimeout: 5 * time.Second}, log, d)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/links/suggest", strings.NewReader("")))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[addResponse](t, rec)
	require.Len(t, body.Added, 2)
	assert.Equal(t, "https://c.example", body.Added[0].URL)
	assert.Equal(t, "T https://c.example", body.Added[0].Title)
	assert.Equal(t, "https://d.example", body.Added[1].URL)
	assert.Equal(t, domain.CategoryYouTubePlaylist, body.Added[1].Category)
	assert.Equal(t, domain.IconPlaylist, body.Added[1].IconTag)
	assert.Equal(t, 2, body.Duplicates)

	known, err := st.ListKnownURLs(ctx)
	require.NoError(t, err)
	assert.Len(t, known, 4)

	// The suggestion source saw the two stored links, newest first.
	require.Len(t, suggester.existing, 2)
	assert.Equal(t, "https://b.example", suggester.existing[0].URL)

	// Replaying the same suggestions adds nothing.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/links/suggest", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No new unique links found.", decode[addResponse](t, rec).Message)
}
