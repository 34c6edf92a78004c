package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/readmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/readmark/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/readmark/internal/httpserver/mw"
)

// storeTimeout bounds requests that only touch the store.
const storeTimeout = 10 * time.Second

func init() { Register("bookmarks", registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Use(middleware.Timeout(storeTimeout))

		r.Post("/api/capture", handlers.Capture(d))
		r.Post("/api/progress", handlers.Progress(d))

		r.Get("/api/bookmarks", handlers.ListBookmarks(d))
		r.Delete("/api/bookmarks", handlers.ClearBookmarks(d))
		r.Get("/api/bookmarks/lookup", handlers.LookupBookmark(d))
		r.Get("/api/bookmarks/{id}", handlers.GetBookmark(d))
		r.Patch("/api/bookmarks/{id}", handlers.UpdateBookmark(d))
		r.Delete("/api/bookmarks/{id}", handlers.DeleteBookmark(d))
		r.Post("/api/bookmarks/{id}/pin", handlers.TogglePin(d))

		r.Get("/api/stats", handlers.Stats(d))
		r.Get("/api/export", handlers.Export(d))
		r.Post("/api/import/reload", handlers.ReloadImport(d))
	})
}
