package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/readmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/readmark/internal/version"
)

type healthzResponse struct {
	Status        string       `json:"status"`
	UptimeSeconds float64      `json:"uptime_seconds"`
	Build         version.Info `json:"build"`
	Store         string       `json:"store,omitempty"`
	Listeners     int          `json:"listeners"`
}

// Healthz is liveness only. It never touches storage; see Readyz.
func Healthz(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthzResponse{
			Status:        "ok",
			UptimeSeconds: now().Sub(d.StartTime).Seconds(),
			Build:         d.Build,
			Store:         d.StoreBackend,
		}
		if d.Bus != nil {
			resp.Listeners = d.Bus.Subscribers()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
