package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/readmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/readmark/internal/logger"
)

type componentStatus struct {
	OK      bool   `json:"ok"`
	Backend string `json:"backend,omitempty"`
	Pending *int   `json:"pending,omitempty"`
	Error   string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz reports ready only when the durable store answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storage := checkStore(r.Context(), d)

		components := map[string]componentStatus{"store": storage}
		if d.Reconciler != nil {
			pending := d.Reconciler.Pending()
			components["reconciler"] = componentStatus{OK: true, Pending: &pending}
		}

		status := http.StatusOK
		if !storage.OK {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: storage.OK, Components: components})
	}
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if d.KV == nil {
		return componentStatus{OK: false, Error: "store not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.KV.Ping(ctx); err != nil {
		d.Logger.Warn("store ping failed",
			logger.String("backend", d.StoreBackend),
			logger.Error(err))
		return componentStatus{OK: false, Backend: d.StoreBackend, Error: "unreachable"}
	}
	return componentStatus{OK: true, Backend: d.StoreBackend}
}
