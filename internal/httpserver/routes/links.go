package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/personalink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/personalink/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/personalink/internal/httpserver/mw"
)

func init() { Register(registerLinks) }

func registerLinks(r chi.Router, d deps.Deps) {
	admin := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)

	r.Get("/api/links", handlers.ListLinks(d))
	admin.Post("/api/links", handlers.AddLinks(d))
	admin.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.SuggestBurst,
		RefillPerIPPerMin: d.SuggestRefillRate,
		MaxEntries:        1024,
		TrustProxy:        d.TrustProxy,
	})).Post("/api/links/suggest", handlers.SuggestLinks(d))
}
