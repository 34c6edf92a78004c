package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/readmark/internal/extract"
	"github.com/MrSnakeDoc/readmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/readmark/internal/logger"
)

type extractRequest struct {
	extract.Page
	MaxChars int `json:"maxChars"`
}

type extractResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	Title   string `json:"title,omitempty"`
	Partial bool   `json:"partial,omitempty"`
}

// Extract returns readable text for a page snapshot, or for a URL when no
// HTML is supplied.
func Extract(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if strings.TrimSpace(req.HTML) != "" {
			writeJSON(w, http.StatusOK, extractResponse{
				Success: true,
				Content: extract.ExtractContent(req.Page, req.MaxChars),
				Title:   req.Title,
			})
			return
		}

		if strings.TrimSpace(req.URL) == "" {
			writeError(w, http.StatusBadRequest, "html or url is required")
			return
		}

		page, err := d.Fetcher.Fetch(r.Context(), req.URL, req.MaxChars)
		if errors.Is(err, extract.ErrBlockedTarget) {
			d.Logger.Warn("extraction target refused", logger.String("url", req.URL))
			writeError(w, http.StatusForbidden, "target address not allowed")
			return
		}
		if err != nil {
			d.Logger.Warn("extraction fetch failed",
				logger.String("url", req.URL),
				logger.Error(err))
			writeError(w, http.StatusBadGateway, "could not load page")
			return
		}
		writeJSON(w, http.StatusOK, extractResponse{
			Success: true,
			Content: page.Content,
			Title:   page.Title,
			Partial: page.Partial,
		})
	}
}
