package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/readmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/readmark/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/readmark/internal/httpserver/mw"
)

func init() { Register("summarize", registerSummarize) }

// Summaries and extractions wait on remote backends and page loads, which
// carry their own deadlines, so these routes have no request timeout.
func registerSummarize(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Use(mw.RateLimit(mw.RateLimitConfig{
			Scope:             "summarize",
			Burst:             d.SummarizeBurst,
			RefillPerIPPerMin: d.SummarizePerMin,
			MaxEntries:        4096,
			TrustProxy:        d.TrustProxy,
			Logger:            d.Logger,
		}))

		r.Post("/api/summarize", handlers.Summarize(d))
		r.Post("/api/extract", handlers.Extract(d))
		r.Post("/api/bookmarks/{id}/summarize", handlers.SummarizeBookmark(d))
	})
}
