package mw

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/MrSnakeDoc/readmark/internal/logger"
)

// CORS lets the listed origins (typically chrome-extension://<id>) call the
// API. Patterns with one "*" are accepted. An empty list is a passthrough:
// no CORS headers, so browsers only allow same-origin calls.
func CORS(allowed []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowed) == 0 {
		log.Debug("CORS: no allowed origins, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debugf("CORS: initialized with origins=%v", allowed)

	return cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"Cache-Control",
			"X-Request-ID",
		},
		ExposedHeaders: []string{
			"Retry-After",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
		},
		MaxAge: 300,
	})
}
