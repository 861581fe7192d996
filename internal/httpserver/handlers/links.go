package handlers

import (
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/personalink/internal/domain"
	"github.com/MrSnakeDoc/personalink/internal/errx"
	"github.com/MrSnakeDoc/personalink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/personalink/internal/ingest"
	"github.com/MrSnakeDoc/personalink/internal/logger"
)

const msgNothingNew = "No new unique links found."

type listLinksResponse struct {
	Links []domain.LinkRecord `json:"links"`
	Total int                 `json:"total"`
}

type addLinksRequest struct {
	SuggestedLinks []domain.RawSuggestion `json:"suggestedLinks"`
}

type addLinksResponse struct {
	Added      []domain.LinkRecord `json:"added"`
	Duplicates int                 `json:"duplicates"`
	Invalid    int                 `json:"invalid"`
	Message    string              `json:"message"`
}

// ListLinks serves GET /api/links?sort=&category=&q=
func ListLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := d.Links.ListAll(r.Context(), true)
		if err != nil {
			writeKindError(w, d.Logger, errx.E("handlers.ListLinks", errx.StorageUnavailable, err))
			return
		}

		q := r.URL.Query()
		links := domain.List(all, domain.ListFilter{
			Category: q.Get("category"),
			Query:    q.Get("q"),
		}, domain.ParseSortOrder(q.Get("sort")))

		writeJSON(w, d.Logger, http.StatusOK, listLinksResponse{Links: links, Total: len(links)})
	}
}

// AddLinks serves POST /api/links: ingests caller-provided candidates.
func AddLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addLinksRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, "invalid_input", err.Error(), nil)
			return
		}

		res, err := d.Ingestor.Ingest(r.Context(), req.SuggestedLinks)
		if err != nil {
			writeKindError(w, d.Logger, err)
			return
		}

		writeIngestResult(w, d, res)
	}
}

// SuggestLinks serves POST /api/links/suggest: asks the suggestion source for
// a fresh batch and ingests whatever is new.
func SuggestLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Suggester == nil {
			writeError(w, d.Logger, http.StatusServiceUnavailable, "suggestions_disabled", "no suggestion endpoint configured", nil)
			return
		}

		ctx := r.Context()

		existing, err := d.Links.ListAll(ctx, true)
		if err != nil {
			writeKindError(w, d.Logger, errx.E("handlers.SuggestLinks", errx.StorageUnavailable, err))
			return
		}

		candidates, err := d.Suggester.RequestSuggestions(ctx, domain.Refs(existing))
		if err != nil {
			writeKindError(w, d.Logger, err)
			return
		}

		res, err := d.Ingestor.Ingest(ctx, candidates)
		if err != nil {
			writeKindError(w, d.Logger, err)
			return
		}

		d.Logger.Info("suggestion batch processed",
			logger.Int("received", len(candidates)),
			logger.Int("added", len(res.Admitted)),
			logger.Int("duplicates", res.Duplicates),
			logger.Int("invalid", res.Invalid))

		writeIngestResult(w, d, res)
	}
}

func writeIngestResult(w http.ResponseWriter, d deps.Deps, res ingest.Result) {
	added := res.Admitted
	if added == nil {
		added = []domain.LinkRecord{}
	}

	status := http.StatusCreated
	msg := fmt.Sprintf("Added %d new links.", len(added))
	if len(added) == 0 {
		status = http.StatusOK
		msg = msgNothingNew
	}

	writeJSON(w, d.Logger, status, addLinksResponse{
		Added:      added,
		Duplicates: res.Duplicates,
		Invalid:    res.Invalid,
		Message:    msg,
	})
}
