package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/readmark/internal/extract"
	"github.com/MrSnakeDoc/readmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/summarize"
)

const (
	// bookmarkSummaryChars is how much page text a stored bookmark's
	// summary is built from.
	bookmarkSummaryChars = 5000
	// minPageChars rejects pages whose extracted text is too thin.
	minPageChars = 50
)

type styleOptions struct {
	Style          string `json:"style"`
	TargetLanguage string `json:"targetLanguage"`
	Template       string `json:"template"`
}

type summarizeRequest struct {
	Text         string       `json:"text"`
	Mode         string       `json:"mode"`
	StyleOptions styleOptions `json:"styleOptions"`
	Force        bool         `json:"force"`
}

// toRequest validates mode and style; text is left to the engine.
func (s summarizeRequest) toRequest() (summarize.Request, error) {
	mode, err := summarize.ParseMode(s.Mode)
	if err != nil {
		return summarize.Request{}, err
	}
	style, err := summarize.ParseStyle(s.StyleOptions.Style)
	if err != nil {
		return summarize.Request{}, err
	}
	return summarize.Request{
		Text:           s.Text,
		Mode:           mode,
		Style:          style,
		TargetLanguage: s.StyleOptions.TargetLanguage,
		Template:       s.StyleOptions.Template,
		Force:          s.Force,
	}, nil
}

// Summarize always answers 200 with a summary once the request is valid;
// backend failures surface only through the source field.
func Summarize(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body summarizeRequest
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req, err := body.toRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		resp := d.Summarizer.Summarize(r.Context(), req)
		d.Logger.Debug("summary produced",
			logger.String("source", resp.Source),
			logger.Bool("cached", resp.Cached),
			logger.Float64("latency_seconds", resp.LatencySeconds))
		writeJSON(w, http.StatusOK, resp)
	}
}

type bookmarkSummaryResponse struct {
	summarize.Response
	BookmarkID string `json:"bookmarkId"`
	Title      string `json:"title,omitempty"`
	Partial    bool   `json:"partial,omitempty"`
}

// SummarizeBookmark loads a stored bookmark's page off-screen and
// summarizes it. The body is optional and carries mode and style.
func SummarizeBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body summarizeRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(w, r, &body); err != nil && !errors.Is(err, io.EOF) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		req, err := body.toRequest()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		b, err := d.Progress.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			storeError(w, d, err)
			return
		}

		page, err := d.Fetcher.Fetch(r.Context(), b.URL, bookmarkSummaryChars)
		if err != nil {
			d.Logger.Warn("failed to load bookmarked page",
				logger.String("id", b.ID),
				logger.String("url", b.URL),
				logger.Error(err))
			writeError(w, http.StatusBadGateway, "could not load page")
			return
		}

		content := strings.TrimSpace(page.Content)
		if content == extract.TooShort || utf8.RuneCountInString(content) < minPageChars {
			writeError(w, http.StatusUnprocessableEntity, "not enough content on page")
			return
		}

		req.Text = content
		resp := d.Summarizer.Summarize(r.Context(), req)
		writeJSON(w, http.StatusOK, bookmarkSummaryResponse{
			Response:   resp,
			BookmarkID: b.ID,
			Title:      b.Title,
			Partial:    page.Partial,
		})
	}
}
