package auth

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the /auth endpoints onto r.
func RegisterRoutes(r chi.Router, h *Handler, svc *Service) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(Middleware(svc)).Post("/logout", h.Logout)
	})
}
