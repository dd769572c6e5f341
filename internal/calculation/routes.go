package calculation

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the calculation endpoints onto r under the
// /calculations prefix. r must already enforce authentication.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculations", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/types", h.Types)
		r.Post("/evaluate", h.Evaluate)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
