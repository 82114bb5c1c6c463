package standards

import (
	"net/http"

	"github.com/AquaIndex/HMPI-Backend/internal/auth"
	"github.com/AquaIndex/HMPI-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	r.Get("/", ListStandards)
	r.Get("/{code}", GetStandard)
	r.Get("/{code}/limits", GetLimits)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))
		r.Put("/{code}/limits", UpsertLimit)
	})

	return r
}
