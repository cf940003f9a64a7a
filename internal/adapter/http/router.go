// Package http wires the browser-facing surface of the listing service:
// chi routing, form parsing, redirect-with-flash semantics and the view
// payloads.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderstay/listing-service/internal/adapter/http/middleware"
	"github.com/wanderstay/listing-service/internal/adapter/http/session"
	"github.com/wanderstay/listing-service/internal/platform/logger"
	"github.com/wanderstay/listing-service/internal/platform/metrics"
)

// NewRouter assembles the full middleware stack and route table.
func NewRouter(
	serviceName string,
	listings *ListingHandler,
	users *UserHandler,
	sm *session.Manager,
	jwtSecret string,
	mm *metrics.MetricsManager,
	log *logger.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(log))
	r.Use(middleware.RequestLogger(log, mm))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.MethodOverride)
	r.Use(middleware.Authenticator(sm, jwtSecret, log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/listings", http.StatusSeeOther)
	})

	r.Post("/signup", users.Signup)
	r.Post("/login", users.Login)
	r.Post("/logout", users.Logout)

	r.Route("/listings", func(r chi.Router) {
		r.Get("/", listings.Index)
		r.Get("/{id}", listings.Show)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(sm))

			r.Get("/new", listings.NewForm)
			r.Post("/", listings.Create)
			r.Get("/{id}/edit", listings.EditForm)
			r.Put("/{id}", listings.Update)
			r.Delete("/{id}", listings.Delete)
		})
	})

	return r
}
