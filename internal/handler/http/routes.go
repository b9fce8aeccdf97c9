package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/munch-sync/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/token", h.issueToken)
		r.Get("/api/version", h.getServerVersion)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		h.entityRoutes(r, "/users/collections", fixedScope(models.KindCollection), true)
		h.entityRoutes(r, "/users/collections/{collectionID}/items", keyedScope(models.KindCollectionItem, "collectionID"), true)
		h.entityRoutes(r, "/users/locations", fixedScope(models.KindLocation), true)
		h.entityRoutes(r, "/feed/{feedKey}/items", keyedScope(models.KindFeedItem, "feedKey"), false)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// entityRoutes registers the list and item routes of one kind under base.
// Read-only kinds only get the GET routes.
func (h *Handler) entityRoutes(r chi.Router, base string, scope scopeFunc, writable bool) {
	r.Get(base, h.list(scope))
	r.Get(base+"/{id}", h.get(scope))

	if !writable {
		return
	}
	r.Post(base, h.create(scope))
	r.Put(base+"/{id}", h.put(scope))
	r.Patch(base+"/{id}", h.patch(scope))
	r.Delete(base+"/{id}", h.delete(scope))
}
