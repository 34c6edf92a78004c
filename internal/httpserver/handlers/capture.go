package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/readmark/internal/domain"
	"github.com/MrSnakeDoc/readmark/internal/events"
	"github.com/MrSnakeDoc/readmark/internal/extract"
	"github.com/MrSnakeDoc/readmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/reconciler"
)

type captureResponse struct {
	Success  bool             `json:"success"`
	Bookmark *domain.Bookmark `json:"bookmark"`
	Updated  bool             `json:"updated"`
}

// Capture saves the current position of a page, merging into an existing
// bookmark for the same URL.
func Capture(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var page extract.Page
		if err := decodeJSON(w, r, &page); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		b, updated, err := d.Progress.Upsert(r.Context(), extract.CaptureProgress(page))
		if err != nil {
			storeError(w, d, err)
			return
		}

		kind := events.BookmarkSaved
		if updated {
			kind = events.BookmarkUpdated
		}
		pct := b.Progress()
		d.Bus.Publish(events.Event{Type: kind, BookmarkID: b.ID, URL: b.URL, Progress: &pct})

		d.Logger.Info("progress captured",
			logger.String("id", b.ID),
			logger.Bool("updated", updated),
			logger.Float64("progress", pct))

		writeJSON(w, http.StatusOK, captureResponse{Success: true, Bookmark: b, Updated: updated})
	}
}

// Progress queues a live scroll or playback report. The write happens
// after the debounce window, so the answer is 202.
func Progress(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var page extract.Page
		if err := decodeJSON(w, r, &page); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		err := d.Reconciler.Observe(extract.ProgressUpdate(page))
		switch {
		case err == nil:
			writeJSON(w, http.StatusAccepted, map[string]bool{"success": true})
		case errors.Is(err, reconciler.ErrMissingURL):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, reconciler.ErrStopped):
			writeError(w, http.StatusServiceUnavailable, "shutting down")
		default:
			storeError(w, d, err)
		}
	}
}
