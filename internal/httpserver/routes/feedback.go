package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/personalink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/personalink/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/personalink/internal/httpserver/mw"
)

func init() { Register(registerFeedback) }

func registerFeedback(r chi.Router, d deps.Deps) {
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             5,
		RefillPerIPPerMin: 2,
		MaxEntries:        4096,
		TrustProxy:        d.TrustProxy,
	})).Post("/api/feedback", handlers.SubmitFeedback(d))

	r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	).Get("/api/feedback", handlers.ListFeedback(d))
}
