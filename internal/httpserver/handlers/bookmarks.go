package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/readmark/internal/domain"
	"github.com/MrSnakeDoc/readmark/internal/events"
	"github.com/MrSnakeDoc/readmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/progress"
)

type bookmarkResponse struct {
	Success  bool             `json:"success"`
	Bookmark *domain.Bookmark `json:"bookmark"`
}

type listResponse struct {
	Success   bool               `json:"success"`
	Count     int                `json:"count"`
	Bookmarks []*domain.Bookmark `json:"bookmarks"`
}

// ListBookmarks serves ?sort=, ?band=, ?pinned= and ?q=.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		mode, err := domain.ParseSortMode(q.Get("sort"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		band, err := domain.ParseBand(q.Get("band"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		pinnedOnly := false
		if v := q.Get("pinned"); v != "" {
			if pinnedOnly, err = strconv.ParseBool(v); err != nil {
				writeError(w, http.StatusBadRequest, "pinned must be a boolean")
				return
			}
		}

		list, err := d.Progress.List(r.Context(), progress.ListOptions{
			Filter: domain.Filter{PinnedOnly: pinnedOnly, Band: band},
			Sort:   mode,
			Query:  strings.TrimSpace(q.Get("q")),
		})
		if err != nil {
			storeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(list), Bookmarks: list})
	}
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := d.Progress.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			storeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, bookmarkResponse{Success: true, Bookmark: b})
	}
}

// LookupBookmark finds the bookmark for ?url=, fragment ignored. The page
// uses it to restore the reading position.
func LookupBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("url")
		if strings.TrimSpace(raw) == "" {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}
		b, err := d.Progress.Lookup(r.Context(), raw)
		if err != nil {
			storeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, bookmarkResponse{Success: true, Bookmark: b})
	}
}

type updateRequest struct {
	Title  *string `json:"title"`
	Pinned *bool   `json:"pinned"`
}

// UpdateBookmark renames and/or pins a bookmark.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Title == nil && req.Pinned == nil {
			writeError(w, http.StatusBadRequest, "nothing to update")
			return
		}

		id := chi.URLParam(r, "id")
		var (
			b   *domain.Bookmark
			err error
		)
		if req.Title != nil {
			if b, err = d.Progress.Rename(r.Context(), id, *req.Title); err != nil {
				storeError(w, d, err)
				return
			}
		}
		if req.Pinned != nil {
			if b, err = d.Progress.SetPinned(r.Context(), id, *req.Pinned); err != nil {
				storeError(w, d, err)
				return
			}
		}

		d.Bus.Publish(events.Event{Type: events.BookmarkUpdated, BookmarkID: b.ID, URL: b.URL})
		writeJSON(w, http.StatusOK, bookmarkResponse{Success: true, Bookmark: b})
	}
}

func TogglePin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := d.Progress.TogglePin(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			storeError(w, d, err)
			return
		}
		d.Bus.Publish(events.Event{Type: events.BookmarkUpdated, BookmarkID: b.ID, URL: b.URL})
		writeJSON(w, http.StatusOK, bookmarkResponse{Success: true, Bookmark: b})
	}
}

// DeleteBookmark is idempotent: deleting an unknown id succeeds.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Progress.Remove(r.Context(), id); err != nil {
			storeError(w, d, err)
			return
		}
		d.Bus.Publish(events.Event{Type: events.BookmarkRemoved, BookmarkID: id})
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func ClearBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Progress.Clear(r.Context()); err != nil {
			storeError(w, d, err)
			return
		}
		d.Logger.Info("all bookmarks cleared", logger.String("remote_ip", r.RemoteAddr))
		d.Bus.Publish(events.Event{Type: events.BookmarksCleared})
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

type statsResponse struct {
	Success bool `json:"success"`
	domain.Stats
}

func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := d.Progress.All(r.Context())
		if err != nil {
			storeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: domain.ComputeStats(all)})
	}
}
