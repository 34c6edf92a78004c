package routes

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/readmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/readmark/internal/logger"
)

// Registrar mounts one group of routes.
type Registrar func(r chi.Router, d deps.Deps)

var groups = map[string]Registrar{}

// Register adds a named route group. Files in this package call it from
// init(); a duplicate name is a programming error.
func Register(name string, reg Registrar) {
	if _, dup := groups[name]; dup {
		panic(fmt.Sprintf("routes: group %q registered twice", name))
	}
	groups[name] = reg
}

// RegisterAll mounts every group in name order. Called once from NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		groups[name](r, d)
	}

	if d.Logger != nil {
		n := 0
		_ = chi.Walk(r, func(string, string, http.Handler, ...func(http.Handler) http.Handler) error {
			n++
			return nil
		})
		d.Logger.Debug("routes mounted",
			logger.String("groups", fmt.Sprint(names)),
			logger.Int("routes", n))
	}
}
