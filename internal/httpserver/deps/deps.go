package deps

import (
	"time"

	"github.com/MrSnakeDoc/readmark/internal/events"
	"github.com/MrSnakeDoc/readmark/internal/extract"
	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/progress"
	"github.com/MrSnakeDoc/readmark/internal/reconciler"
	"github.com/MrSnakeDoc/readmark/internal/store"
	"github.com/MrSnakeDoc/readmark/internal/summarize"
	"github.com/MrSnakeDoc/readmark/internal/version"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Build     version.Info
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedOrigins  []string // CORS origins allowed to call the API
	AllowedCIDRS    []string // IPs allowed to reach the API and readyz
	TrustProxy      bool     // true if running behind a trusted reverse proxy
	SummarizeBurst  int      // per-client burst on summarize routes
	SummarizePerMin int      // per-client refill on summarize routes

	StoreBackend  string          // name of the KV backend, reported by readyz
	KV            store.KV        // durable key-value layer
	Progress      *progress.Store // bookmark collection
	Reconciler    *reconciler.Reconciler
	Bus           *events.Bus
	Summarizer    *summarize.Engine
	Fetcher       *extract.Fetcher
	ImportTrigger chan struct{} // nil when no backup file is configured
}
