package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/techy-Nik/final-term/internal/auth"
	"github.com/techy-Nik/final-term/internal/calculation"
	"github.com/techy-Nik/final-term/internal/handlers"
	"github.com/techy-Nik/final-term/internal/observability"
)

// Options carries the services the router mounts.
type Options struct {
	Auth         *auth.Service
	Calculations *calculation.Service
	CORSOrigins  []string
}

func NewRouter(opts Options) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(observability.MetricsMiddleware)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", observability.RequestIDHeader},
		ExposedHeaders:   []string{observability.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	auth.RegisterRoutes(r, auth.NewHandler(opts.Auth), opts.Auth)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(opts.Auth))
		calculation.RegisterRoutes(r, calculation.NewHandler(opts.Calculations))
	})

	return r
}
