package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/readmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/sources/backup"
)

// Export downloads the whole collection, YAML by default or ?format=json.
func Export(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := backup.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		all, err := d.Progress.All(r.Context())
		if err != nil {
			storeError(w, d, err)
			return
		}

		ts := now()
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="readmark-%s.%s"`, ts.UTC().Format("20060102-150405"), format))
		if err := backup.Encode(w, all, format, ts); err != nil {
			d.Logger.Error("export failed", logger.Error(err))
		}
	}
}
