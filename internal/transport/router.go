package transport

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers the storefront routes. apiMiddleware runs on /api routes
// only, in order (session resolution first).
func NewRouter(h *Handler, apiMiddleware ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(apiMiddleware...)
	api.HandleFunc("/menu", h.Menu).Methods(http.MethodGet)
	api.HandleFunc("/session", h.Session).Methods(http.MethodGet)
	api.HandleFunc("/commands", h.Command).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteJSONError(w, "not found", http.StatusNotFound)
	})

	return r
}
