package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the handlers on a chi router under basePath.
func NewRouter(h *Handlers, basePath string, mw ...func(http.Handler) http.Handler) http.Handler {
	basePath = "/" + strings.Trim(basePath, "/")
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Use(mw...)

	withID := func(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fn(w, r, chi.URLParam(r, "id"))
		}
	}

	r.Route(basePath, func(r chi.Router) {
		r.Get("/", h.HandleMount)
		r.Route("/views/{id}", func(r chi.Router) {
			r.Get("/", withID(h.HandleState))
			r.Delete("/", withID(h.HandleUnmount))
			r.Post("/actions", withID(h.HandleAction))
			r.Post("/import", withID(h.HandleImport))
			r.Get("/events", withID(h.HandleEvents))
		})
	})
	return r
}
