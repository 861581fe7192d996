package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/personalink/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	LinksStored *int   `json:"links_stored,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the store and the suggestion source.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store":       checkStore(r.Context(), d),
			"suggestions": checkSuggestions(d),
		}

		writeJSON(w, d.Logger, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// Store down = nothing can be listed or ingested
	if s, ok := components["store"]; ok && !s.OK {
		return "critical"
	}

	// No suggestion source = manual ingestion only
	if s, ok := components["suggestions"]; ok && !s.OK {
		return "degraded"
	}

	return "full"
}

func checkStore(parent context.Context, d deps.Deps) componentStatus {
	if d.Links == nil {
		return componentStatus{
			OK:     false,
			Impact: "listing-and-ingestion-disabled",
			Error:  "store not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	n, err := d.Links.Count(ctx)
	if err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.StoreKind,
			Impact: "listing-and-ingestion-disabled",
			Error:  "unreachable",
		}
	}

	return componentStatus{
		OK:          true,
		LinksStored: &n,
		Mode:        d.StoreKind,
	}
}

func checkSuggestions(d deps.Deps) componentStatus {
	if d.Suggester == nil {
		return componentStatus{
			OK:     false,
			Impact: "suggestions-disabled",
			Error:  "no endpoint configured",
		}
	}
	return componentStatus{
		OK:   true,
		Mode: d.Model,
	}
}
