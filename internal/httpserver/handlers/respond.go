package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/readmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/progress"
)

// maxBodyBytes bounds request bodies; page snapshots carry full HTML.
const maxBodyBytes = 8 << 20

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// storeError maps progress store failures to HTTP answers.
func storeError(w http.ResponseWriter, d deps.Deps, err error) {
	switch {
	case errors.Is(err, progress.ErrNotFound):
		writeError(w, http.StatusNotFound, "bookmark not found")
	case errors.Is(err, progress.ErrMissingURL):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, progress.ErrCapacityExhausted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		d.Logger.Error("bookmark store failure", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "storage failure")
	}
}
